package repo

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/gestaozabele/campanha/internal/schema"
)

const supporterColumns = `id, name, neighborhood, neighborhood_type, phone, cedula, family_size, age_range, status, origin, message, created_at`

// SupporterFilter permite filtrar a listagem do painel.
type SupporterFilter struct {
	Search       string
	Neighborhood string
	AgeRange     string
}

// CreateSupporter insere um simpatizante; id e created_at vêm do banco.
func (q *Queries) CreateSupporter(ctx context.Context, in schema.SupporterInput) (schema.Supporter, error) {
	const query = `
        INSERT INTO supporters (name, neighborhood, neighborhood_type, phone, cedula, family_size, age_range, status, origin, message)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING ` + supporterColumns

	row := q.db.QueryRow(ctx, query,
		in.Name,
		in.Neighborhood,
		in.NeighborhoodType,
		in.Phone,
		in.Cedula,
		in.FamilySize,
		in.AgeRange,
		in.Status,
		in.Origin,
		in.Message,
	)
	return scanSupporter(row)
}

// CountSupporters conta as linhas no momento da chamada.
func (q *Queries) CountSupporters(ctx context.Context) (int64, error) {
	var n int64
	if err := q.db.QueryRow(ctx, `SELECT count(*) FROM supporters`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// ListSupporters lista simpatizantes mais recentes primeiro.
func (q *Queries) ListSupporters(ctx context.Context, filter SupporterFilter) ([]schema.Supporter, error) {
	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if s := strings.TrimSpace(filter.Search); s != "" {
		clauses = append(clauses, fmt.Sprintf("(name ILIKE $%d OR neighborhood ILIKE $%d OR phone LIKE $%d)", idx, idx, idx))
		args = append(args, "%"+escapeLike(s)+"%")
		idx++
	}
	if n := strings.TrimSpace(filter.Neighborhood); n != "" {
		clauses = append(clauses, fmt.Sprintf("neighborhood = $%d", idx))
		args = append(args, n)
		idx++
	}
	if a := strings.TrimSpace(filter.AgeRange); a != "" {
		clauses = append(clauses, fmt.Sprintf("age_range = $%d", idx))
		args = append(args, a)
		idx++
	}

	query := `SELECT ` + supporterColumns + ` FROM supporters`
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC NULLS LAST, id DESC"

	rows, err := q.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	supporters := []schema.Supporter{}
	for rows.Next() {
		s, err := scanSupporter(rows)
		if err != nil {
			return nil, err
		}
		supporters = append(supporters, s)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return supporters, nil
}

func scanSupporter(row pgx.Row) (schema.Supporter, error) {
	var s schema.Supporter
	if err := row.Scan(&s.ID, &s.Name, &s.Neighborhood, &s.NeighborhoodType, &s.Phone, &s.Cedula, &s.FamilySize, &s.AgeRange, &s.Status, &s.Origin, &s.Message, &s.CreatedAt); err != nil {
		return schema.Supporter{}, mapError(err)
	}
	return s, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
