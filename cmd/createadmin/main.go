package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/gestaozabele/campanha/internal/auth"
	"github.com/gestaozabele/campanha/internal/db"
	"github.com/gestaozabele/campanha/internal/repo"
	"github.com/gestaozabele/campanha/internal/schema"
)

func main() {
	_ = godotenv.Load()

	username := flag.String("username", "", "nome de usuário do administrador")
	password := flag.String("password", "", "senha (mínimo 8 caracteres)")
	flag.Parse()

	if err := run(*username, *password); err != nil {
		fmt.Fprintf(os.Stderr, "createadmin: %v\n", err)
		os.Exit(1)
	}
}

func run(username, password string) error {
	in := schema.UserInput{Username: username, Password: password, IsAdmin: true}
	if err := in.Validate(); err != nil {
		return err
	}

	dsn := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dsn == "" {
		return errors.New("DATABASE_URL obrigatório")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := db.NewPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool); err != nil {
		return err
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return err
	}

	q := repo.New(pool)
	name := strings.ToLower(in.Username)
	created, err := q.EnsureAdmin(ctx, name, hash)
	if err != nil {
		return err
	}
	if created {
		fmt.Printf("administrador %q criado\n", name)
		return nil
	}

	if _, err := q.PromoteAdmin(ctx, name, hash); err != nil {
		return err
	}
	fmt.Printf("administrador %q atualizado\n", name)
	return nil
}
