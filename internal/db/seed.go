package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/campanha/internal/repo"
	"github.com/gestaozabele/campanha/internal/schema"
)

const defaultContentSeed = "default_content_v1"

// SeedContent reúne o conteúdo inicial do site.
type SeedContent struct {
	Activities []schema.ActivityInput
	News       []schema.NewsInput
	Proposals  []schema.ProposalInput
	Home       schema.HomeContent
}

func strPtr(s string) *string { return &s }

// DefaultSeed monta o conteúdo de demonstração com datas relativas a now.
func DefaultSeed(now time.Time) SeedContent {
	day := 24 * time.Hour
	home := schema.DefaultHomeContent()
	home.HeroTitle = "El cambio empieza en nuestros barrios."
	home.HeroSubtitle = "Es momento de ordenar y modernizar Carlos Antonio López con una gestión transparente y llena de oportunidades."
	home.HeroImage = strPtr("https://images.unsplash.com/photo-1540910419892-f0c74b0e8967?q=80&w=2070&auto=format&fit=crop")
	home.CandidateName = "Juan Perez"
	home.CandidateRole = "Lista 1 Concejal Municipal"
	home.CandidateImage = strPtr("https://images.unsplash.com/photo-1560250097-0b93528c311a?auto=format&fit=crop&q=80")

	return SeedContent{
		Activities: []schema.ActivityInput{
			{
				Title:       "Encuentro Republicano en Barrio Obrero",
				Description: "Conversamos con los correligionarios sobre la importancia de la fiscalización municipal. ¡Unidad y compromiso!",
				Date:        schema.NewDate(now.Add(-2 * day)),
				ImageURL:    strPtr("https://images.unsplash.com/photo-1517048676732-d65bc937f952?q=80&w=2070&auto=format&fit=crop"),
			},
			{
				Title:       "Reunión de Seccional",
				Description: "Planificando el trabajo territorial. Estamos trabajando fuertemente para llegar a cada hogar.",
				Date:        schema.NewDate(now.Add(-5 * day)),
				ImageURL:    strPtr("https://images.unsplash.com/photo-1542744173-8e7e53415bb0?q=80&w=2070&auto=format&fit=crop"),
			},
			{
				Title:       "Jornada de Salud",
				Description: "Brindando atención médica gratuita a todos los vecinos del barrio.",
				Date:        schema.NewDate(now.Add(-1 * day)),
				ImageURL:    strPtr("https://images.unsplash.com/photo-1576091160550-2173dba999ef?q=80&w=2070&auto=format&fit=crop"),
			},
		},
		News: []schema.NewsInput{
			{
				Title:    "Gran Lanzamiento de Campaña",
				Content:  "Hoy iniciamos un nuevo camino juntos para transformar nuestra ciudad.",
				ImageURL: strPtr("https://images.unsplash.com/photo-1529107386315-e1a2ed48a620?q=80&w=2070&auto=format&fit=crop"),
			},
			{
				Title:    "Propuestas de Infraestructura",
				Content:  "Conoce nuestro plan detallado para mejorar las calles y espacios públicos.",
				ImageURL: strPtr("https://images.unsplash.com/photo-1503387762-592dea58ef21?q=80&w=2024&auto=format&fit=crop"),
			},
			{
				Title:    "Compromiso con la Educación",
				Content:  "La educación es la base de nuestro progreso. Presentamos nuevas becas municipales.",
				ImageURL: strPtr("https://images.unsplash.com/photo-1503676260728-1c00da094a0b?q=80&w=2022&auto=format&fit=crop"),
			},
		},
		Proposals: []schema.ProposalInput{
			{Title: "Salud para Todos", Problem: "Falta de especialistas y horarios reducidos en centros municipales.", Solution: "Ampliaremos la atención para que nadie se quede sin consulta.", Category: "Salud"},
			{Title: "Educación Moderna", Problem: "Nuestras escuelas necesitan dar el salto tecnológico.", Solution: "Implementaremos laboratorios de computación y acceso a internet.", Category: "Educación"},
			{Title: "Barrios Seguros", Problem: "La inseguridad nos preocupa a todos.", Solution: "Instalaremos cámaras de vigilancia y mejoraremos el alumbrado público.", Category: "Seguridad"},
		},
		Home: home,
	}
}

// Seed insere o conteúdo inicial uma única vez. A marca em schema_seeds é a
// chave primária: inicializações concorrentes esperam a primeira transação e
// encontram a marca já gravada.
func Seed(ctx context.Context, db TxBeginner, content SeedContent) (bool, error) {
	applied := false
	err := WithTx(ctx, db, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `INSERT INTO schema_seeds (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, defaultContentSeed)
		if err != nil {
			return fmt.Errorf("seed marker: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return nil
		}

		q := repo.New(tx)
		var hasActivities, hasNews, hasProposals bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM activities), EXISTS(SELECT 1 FROM news), EXISTS(SELECT 1 FROM proposals)`).
			Scan(&hasActivities, &hasNews, &hasProposals); err != nil {
			return fmt.Errorf("seed lookup: %w", err)
		}
		// bancos anteriores à marca já podem ter conteúdo próprio
		if hasActivities {
			content.Activities = nil
		}
		if hasNews {
			content.News = nil
		}
		if hasProposals {
			content.Proposals = nil
		}

		for _, a := range content.Activities {
			if _, err := q.CreateActivity(ctx, a); err != nil {
				return fmt.Errorf("seed activity: %w", err)
			}
		}
		for _, n := range content.News {
			if _, err := q.CreateNews(ctx, n); err != nil {
				return fmt.Errorf("seed news: %w", err)
			}
		}
		for _, p := range content.Proposals {
			if _, err := q.CreateProposal(ctx, p); err != nil {
				return fmt.Errorf("seed proposal: %w", err)
			}
		}
		if _, err := q.GetHomeContent(ctx); errors.Is(err, repo.ErrNotFound) {
			if _, err := q.UpsertHomeContent(ctx, content.Home); err != nil {
				return fmt.Errorf("seed home: %w", err)
			}
		} else if err != nil {
			return fmt.Errorf("seed home lookup: %w", err)
		}

		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if applied {
		log.Info().Str("seed", defaultContentSeed).Msg("conteúdo inicial inserido")
	}
	return applied, nil
}
