package repo

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/gestaozabele/campanha/internal/schema"
)

const homeColumns = `id, hero_title, hero_subtitle, hero_image, alliance_name, alliance_movement,
        candidate_name, candidate_role, candidate_image, candidate_list_number, theme,
        candidate_bio, transparency_text`

// GetHomeContent devolve a linha única de conteúdo ou ErrNotFound.
func (q *Queries) GetHomeContent(ctx context.Context) (schema.HomeContent, error) {
	row := q.db.QueryRow(ctx, `SELECT `+homeColumns+` FROM home_content ORDER BY id LIMIT 1`)
	return scanHome(row)
}

// UpsertHomeContent grava o conteúdo; a coluna singleton (UNIQUE) garante uma única linha.
func (q *Queries) UpsertHomeContent(ctx context.Context, h schema.HomeContent) (schema.HomeContent, error) {
	const query = `
        INSERT INTO home_content (hero_title, hero_subtitle, hero_image, alliance_name, alliance_movement,
            candidate_name, candidate_role, candidate_image, candidate_list_number, theme,
            candidate_bio, transparency_text)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        ON CONFLICT (singleton) DO UPDATE SET
            hero_title = EXCLUDED.hero_title,
            hero_subtitle = EXCLUDED.hero_subtitle,
            hero_image = EXCLUDED.hero_image,
            alliance_name = EXCLUDED.alliance_name,
            alliance_movement = EXCLUDED.alliance_movement,
            candidate_name = EXCLUDED.candidate_name,
            candidate_role = EXCLUDED.candidate_role,
            candidate_image = EXCLUDED.candidate_image,
            candidate_list_number = EXCLUDED.candidate_list_number,
            theme = EXCLUDED.theme,
            candidate_bio = EXCLUDED.candidate_bio,
            transparency_text = EXCLUDED.transparency_text
        RETURNING ` + homeColumns

	row := q.db.QueryRow(ctx, query,
		h.HeroTitle, h.HeroSubtitle, h.HeroImage, h.AllianceName, h.AllianceMovement,
		h.CandidateName, h.CandidateRole, h.CandidateImage, h.CandidateListNumber, h.Theme,
		h.CandidateBio, h.TransparencyText,
	)
	return scanHome(row)
}

func scanHome(row pgx.Row) (schema.HomeContent, error) {
	var h schema.HomeContent
	if err := row.Scan(&h.ID, &h.HeroTitle, &h.HeroSubtitle, &h.HeroImage, &h.AllianceName, &h.AllianceMovement,
		&h.CandidateName, &h.CandidateRole, &h.CandidateImage, &h.CandidateListNumber, &h.Theme,
		&h.CandidateBio, &h.TransparencyText); err != nil {
		return schema.HomeContent{}, mapError(err)
	}
	return h, nil
}
