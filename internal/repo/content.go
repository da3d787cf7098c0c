package repo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gestaozabele/campanha/internal/schema"
)

const (
	activityColumns = `id, title, description, date, image_url`
	newsColumns     = `id, title, content, date, image_url`
	proposalColumns = `id, title, problem, solution, category`
	eventColumns    = `id, title, description, date, location`
)

// ListActivities devolve atividades da mais recente para a mais antiga.
func (q *Queries) ListActivities(ctx context.Context) ([]schema.Activity, error) {
	return collect(ctx, q.db, `SELECT `+activityColumns+` FROM activities ORDER BY date DESC, id DESC`, scanActivity)
}

// CreateActivity insere atividade.
func (q *Queries) CreateActivity(ctx context.Context, in schema.ActivityInput) (schema.Activity, error) {
	row := q.db.QueryRow(ctx, `
        INSERT INTO activities (title, description, date, image_url)
        VALUES ($1, $2, $3, $4)
        RETURNING `+activityColumns, in.Title, in.Description, in.Date.Time, in.ImageURL)
	return scanActivity(row)
}

// UpdateActivity substitui os campos da atividade.
func (q *Queries) UpdateActivity(ctx context.Context, id int64, in schema.ActivityInput) (schema.Activity, error) {
	row := q.db.QueryRow(ctx, `
        UPDATE activities SET title = $2, description = $3, date = $4, image_url = $5
        WHERE id = $1
        RETURNING `+activityColumns, id, in.Title, in.Description, in.Date.Time, in.ImageURL)
	return scanActivity(row)
}

// DeleteActivity remove a atividade; ids inexistentes não são erro.
func (q *Queries) DeleteActivity(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM activities WHERE id = $1`, id)
	return err
}

// ListNews devolve notícias da mais recente para a mais antiga.
func (q *Queries) ListNews(ctx context.Context) ([]schema.News, error) {
	return collect(ctx, q.db, `SELECT `+newsColumns+` FROM news ORDER BY date DESC, id DESC`, scanNews)
}

// CreateNews insere notícia com data atribuída pelo banco.
func (q *Queries) CreateNews(ctx context.Context, in schema.NewsInput) (schema.News, error) {
	row := q.db.QueryRow(ctx, `
        INSERT INTO news (title, content, image_url)
        VALUES ($1, $2, $3)
        RETURNING `+newsColumns, in.Title, in.Content, in.ImageURL)
	return scanNews(row)
}

// UpdateNews altera título, conteúdo e imagem; a data original é mantida.
func (q *Queries) UpdateNews(ctx context.Context, id int64, in schema.NewsInput) (schema.News, error) {
	row := q.db.QueryRow(ctx, `
        UPDATE news SET title = $2, content = $3, image_url = $4
        WHERE id = $1
        RETURNING `+newsColumns, id, in.Title, in.Content, in.ImageURL)
	return scanNews(row)
}

func (q *Queries) DeleteNews(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM news WHERE id = $1`, id)
	return err
}

// ListProposals devolve propostas na ordem de cadastro.
func (q *Queries) ListProposals(ctx context.Context) ([]schema.Proposal, error) {
	return collect(ctx, q.db, `SELECT `+proposalColumns+` FROM proposals ORDER BY id`, scanProposal)
}

func (q *Queries) CreateProposal(ctx context.Context, in schema.ProposalInput) (schema.Proposal, error) {
	row := q.db.QueryRow(ctx, `
        INSERT INTO proposals (title, problem, solution, category)
        VALUES ($1, $2, $3, $4)
        RETURNING `+proposalColumns, in.Title, in.Problem, in.Solution, in.Category)
	return scanProposal(row)
}

func (q *Queries) UpdateProposal(ctx context.Context, id int64, in schema.ProposalInput) (schema.Proposal, error) {
	row := q.db.QueryRow(ctx, `
        UPDATE proposals SET title = $2, problem = $3, solution = $4, category = $5
        WHERE id = $1
        RETURNING `+proposalColumns, id, in.Title, in.Problem, in.Solution, in.Category)
	return scanProposal(row)
}

func (q *Queries) DeleteProposal(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM proposals WHERE id = $1`, id)
	return err
}

// ListEvents devolve a agenda em ordem cronológica.
func (q *Queries) ListEvents(ctx context.Context) ([]schema.Event, error) {
	return collect(ctx, q.db, `SELECT `+eventColumns+` FROM events ORDER BY date ASC, id ASC`, scanEvent)
}

func (q *Queries) CreateEvent(ctx context.Context, in schema.EventInput) (schema.Event, error) {
	row := q.db.QueryRow(ctx, `
        INSERT INTO events (title, description, date, location)
        VALUES ($1, $2, $3, $4)
        RETURNING `+eventColumns, in.Title, in.Description, in.Date.Time, in.Location)
	return scanEvent(row)
}

func (q *Queries) UpdateEvent(ctx context.Context, id int64, in schema.EventInput) (schema.Event, error) {
	row := q.db.QueryRow(ctx, `
        UPDATE events SET title = $2, description = $3, date = $4, location = $5
        WHERE id = $1
        RETURNING `+eventColumns, id, in.Title, in.Description, in.Date.Time, in.Location)
	return scanEvent(row)
}

func (q *Queries) DeleteEvent(ctx context.Context, id int64) error {
	_, err := q.db.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
	return err
}

func collect[T any](ctx context.Context, db DBTX, query string, scan func(pgx.Row) (T, error)) ([]T, error) {
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []T{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return items, nil
}

func scanActivity(row pgx.Row) (schema.Activity, error) {
	var a schema.Activity
	if err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Date, &a.ImageURL); err != nil {
		return schema.Activity{}, mapError(err)
	}
	a.Date = a.Date.UTC()
	return a, nil
}

func scanNews(row pgx.Row) (schema.News, error) {
	var n schema.News
	if err := row.Scan(&n.ID, &n.Title, &n.Content, &n.Date, &n.ImageURL); err != nil {
		return schema.News{}, mapError(err)
	}
	n.Date = n.Date.UTC()
	return n, nil
}

func scanProposal(row pgx.Row) (schema.Proposal, error) {
	var p schema.Proposal
	if err := row.Scan(&p.ID, &p.Title, &p.Problem, &p.Solution, &p.Category); err != nil {
		return schema.Proposal{}, mapError(err)
	}
	return p, nil
}

func scanEvent(row pgx.Row) (schema.Event, error) {
	var e schema.Event
	var date time.Time
	if err := row.Scan(&e.ID, &e.Title, &e.Description, &date, &e.Location); err != nil {
		return schema.Event{}, mapError(err)
	}
	e.Date = date.UTC()
	return e, nil
}
