package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// Execer é o mínimo necessário para aplicar o schema.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// migrations são idempotentes e rodam a cada inicialização.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
        id serial PRIMARY KEY,
        username text NOT NULL UNIQUE,
        password text NOT NULL,
        is_admin boolean NOT NULL DEFAULT false
    )`,
	`CREATE TABLE IF NOT EXISTS supporters (
        id serial PRIMARY KEY,
        name text NOT NULL,
        neighborhood text NOT NULL,
        neighborhood_type text NOT NULL DEFAULT 'Barrio',
        phone text NOT NULL,
        message text,
        created_at timestamp DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS activities (
        id serial PRIMARY KEY,
        title text NOT NULL,
        description text NOT NULL,
        date timestamp NOT NULL,
        image_url text
    )`,
	`CREATE TABLE IF NOT EXISTS news (
        id serial PRIMARY KEY,
        title text NOT NULL,
        content text NOT NULL,
        date timestamp NOT NULL DEFAULT now(),
        image_url text
    )`,
	`CREATE TABLE IF NOT EXISTS proposals (
        id serial PRIMARY KEY,
        title text NOT NULL,
        category text NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS events (
        id serial PRIMARY KEY,
        title text NOT NULL,
        description text NOT NULL,
        date timestamp NOT NULL,
        location text NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS home_content (
        id serial PRIMARY KEY,
        hero_title text NOT NULL DEFAULT 'CONSTRUYENDO EL FUTURO JUNTOS.',
        hero_subtitle text NOT NULL DEFAULT '',
        hero_image text,
        alliance_name text NOT NULL DEFAULT 'ALIANZA POR EL CAMBIO',
        alliance_movement text NOT NULL DEFAULT 'ALIANZA POR EL PROGRESO 2026',
        candidate_name text NOT NULL DEFAULT 'Candidato Lista 1',
        candidate_role text NOT NULL DEFAULT 'Opción a Concejal Municipal',
        candidate_image text,
        candidate_list_number text NOT NULL DEFAULT 'AL',
        theme text NOT NULL DEFAULT 'colorado',
        candidate_bio text NOT NULL DEFAULT ''
    )`,
	`CREATE TABLE IF NOT EXISTS schema_seeds (
        name text PRIMARY KEY,
        applied_at timestamp NOT NULL DEFAULT now()
    )`,

	// colunas adicionadas depois da primeira versão
	`ALTER TABLE proposals ADD COLUMN IF NOT EXISTS problem text NOT NULL DEFAULT ''`,
	`ALTER TABLE proposals ADD COLUMN IF NOT EXISTS solution text NOT NULL DEFAULT ''`,
	`ALTER TABLE home_content ADD COLUMN IF NOT EXISTS transparency_text text NOT NULL DEFAULT 'Publicaremos informes trimestrales de gestión accesibles a todos los vecinos.'`,
	`ALTER TABLE supporters ADD COLUMN IF NOT EXISTS cedula text NOT NULL DEFAULT ''`,
	`ALTER TABLE supporters ADD COLUMN IF NOT EXISTS family_size text NOT NULL DEFAULT ''`,
	`ALTER TABLE supporters ADD COLUMN IF NOT EXISTS age_range text NOT NULL DEFAULT ''`,
	`ALTER TABLE supporters ADD COLUMN IF NOT EXISTS status text NOT NULL DEFAULT 'nuevo'`,
	`ALTER TABLE supporters ADD COLUMN IF NOT EXISTS origin text NOT NULL DEFAULT 'web_modal'`,

	// home_content é singleton: a coluna só aceita true e é única
	`ALTER TABLE home_content ADD COLUMN IF NOT EXISTS singleton boolean NOT NULL DEFAULT true`,
	`DELETE FROM home_content WHERE id NOT IN (SELECT min(id) FROM home_content)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS home_content_singleton_idx ON home_content (singleton)`,
	`CREATE INDEX IF NOT EXISTS supporters_created_at_idx ON supporters (created_at DESC)`,
}

// Migrate aplica o schema e as colunas opcionais.
func Migrate(ctx context.Context, db Execer) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
