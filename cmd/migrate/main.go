package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const migrationsDir = "migrations"

// migrate прогоняет sql-файлы по порядку имён; применённые помнит в
// schema_migrations.
func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalf("migrate: %v", err)
	}
}

func run(ctx context.Context) error {
	dsn, err := resolveDSN()
	if err != nil {
		return err
	}

	conn, err := pgx.Connect(ctx, dsn)
	if err != nil {
		return errors.Wrap(err, "connect")
	}
	defer conn.Close(ctx)

	_, err = conn.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS schema_migrations (
			name       text PRIMARY KEY,
			applied_at timestamptz NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return errors.Wrap(err, "ensure schema_migrations")
	}

	files, err := filepath.Glob(filepath.Join(migrationsDir, "*.sql"))
	if err != nil {
		return errors.Wrap(err, "list migrations")
	}
	sort.Strings(files)

	for _, file := range files {
		name := filepath.Base(file)

		var done bool
		err = conn.QueryRow(ctx,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name,
		).Scan(&done)
		if err != nil {
			return errors.Wrap(err, "check "+name)
		}
		if done {
			continue
		}

		body, err := os.ReadFile(file)
		if err != nil {
			return errors.Wrap(err, "read "+name)
		}

		tx, err := conn.Begin(ctx)
		if err != nil {
			return errors.Wrap(err, "begin "+name)
		}
		if _, err := tx.Exec(ctx, string(body)); err != nil {
			_ = tx.Rollback(ctx)
			return errors.Wrap(err, "apply "+name)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
			_ = tx.Rollback(ctx)
			return errors.Wrap(err, "record "+name)
		}
		if err := tx.Commit(ctx); err != nil {
			return errors.Wrap(err, "commit "+name)
		}

		log.Printf("applied %s", name)
	}
	return nil
}

// resolveDSN: DATABASE_DSN из окружения либо db_dsn из configs/.
func resolveDSN() (string, error) {
	v := viper.New()
	v.SetConfigFile(filepath.Join("configs", configFileName()))
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil && os.Getenv("DATABASE_DSN") == "" {
		return "", errors.Wrap(err, "read config")
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = v.GetString("db_dsn")
	}
	if strings.TrimSpace(dsn) == "" {
		return "", fmt.Errorf("db dsn is empty: set DATABASE_DSN or db_dsn in configs")
	}
	return dsn, nil
}

func configFileName() string {
	if name := os.Getenv("CONFIG_FILE"); name != "" {
		return name
	}
	return "values_local.yaml"
}
