package repo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/gestaozabele/campanha/internal/schema"
)

const userColumns = `id, username, password, is_admin`

// GetUserByUsername busca conta pelo nome de usuário.
func (q *Queries) GetUserByUsername(ctx context.Context, username string) (schema.User, error) {
	row := q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

// GetUserByID busca conta pelo id.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (schema.User, error) {
	row := q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// CreateUser insere conta com senha já hasheada.
func (q *Queries) CreateUser(ctx context.Context, username, passwordHash string, isAdmin bool) (schema.User, error) {
	const query = `
        INSERT INTO users (username, password, is_admin)
        VALUES ($1, $2, $3)
        RETURNING ` + userColumns

	row := q.db.QueryRow(ctx, query, username, passwordHash, isAdmin)
	return scanUser(row)
}

// EnsureAdmin cria a conta administradora se ela ainda não existir.
// Retorna true quando a linha foi inserida agora.
func (q *Queries) EnsureAdmin(ctx context.Context, username, passwordHash string) (bool, error) {
	tag, err := q.db.Exec(ctx, `
        INSERT INTO users (username, password, is_admin)
        VALUES ($1, $2, true)
        ON CONFLICT (username) DO NOTHING`, username, passwordHash)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

// PromoteAdmin atualiza senha e marca a conta como administradora.
func (q *Queries) PromoteAdmin(ctx context.Context, username, passwordHash string) (schema.User, error) {
	row := q.db.QueryRow(ctx, `
        UPDATE users SET password = $2, is_admin = true
        WHERE username = $1
        RETURNING `+userColumns, username, passwordHash)
	return scanUser(row)
}

func scanUser(row pgx.Row) (schema.User, error) {
	var u schema.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsAdmin); err != nil {
		return schema.User{}, mapError(err)
	}
	return u, nil
}
