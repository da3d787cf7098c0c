package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gestaozabele/campanha/internal/auth"
	"github.com/gestaozabele/campanha/internal/config"
	"github.com/gestaozabele/campanha/internal/db"
	internalhttp "github.com/gestaozabele/campanha/internal/http"
	"github.com/gestaozabele/campanha/internal/repo"
	"github.com/gestaozabele/campanha/internal/service"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("api encerrada com erro")
	}
}

func run() error {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx := context.Background()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db: %w", err)
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	seeded, err := db.Seed(ctx, pool, db.DefaultSeed(time.Now()))
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if seeded {
		log.Info().Msg("conteúdo inicial gravado")
	}

	repository := repo.New(pool)
	if err := bootstrapAdmin(ctx, cfg, repository); err != nil {
		return fmt.Errorf("admin: %w", err)
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("redis parse: %w", err)
	}
	redisClient := redis.NewClient(redisOpts)
	defer redisClient.Close()

	signer := auth.NewTokenSigner(cfg.SessionSecret, cfg.SessionTTL)
	sessions := auth.NewSessionStore(redisClient, signer)
	authService := service.NewAuthService(repository, sessions, cfg.RegistrationEnabled)

	handler, err := internalhttp.NewRouter(cfg, internalhttp.Deps{
		Store: repository,
		Auth:  authService,
		Checks: map[string]func(context.Context) error{
			"database": pool.Ping,
			"redis": func(ctx context.Context) error {
				return redisClient.Ping(ctx).Err()
			},
		},
	})
	if err != nil {
		return fmt.Errorf("router: %w", err)
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Msgf("API ouvindo em :%d", cfg.Port)
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info().Str("signal", sig.String()).Msg("encerrando...")
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// bootstrapAdmin cria a conta de ADMIN_USERNAME na primeira subida; contas
// existentes não são alteradas.
func bootstrapAdmin(ctx context.Context, cfg *config.Config, q *repo.Queries) error {
	if cfg.AdminUsername == "" {
		return nil
	}
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		return err
	}
	username := strings.ToLower(cfg.AdminUsername)
	created, err := q.EnsureAdmin(ctx, username, hash)
	if err != nil {
		return err
	}
	if created {
		log.Info().Str("username", username).Msg("conta administradora criada")
	}
	return nil
}
