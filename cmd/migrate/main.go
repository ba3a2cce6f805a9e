package main

import (
	"context"
	"flag"

	"librarycatalog/internal/config"
	"librarycatalog/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

func main() {
	var (
		command = flag.String("command", "up", "Migration command: up, down, status, create")
		name    = flag.String("name", "", "Name for 'create' command")
	)
	flag.Parse()

	config.LoadEnvFiles()

	log, err := logger.New("development", "info")
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	dir := migrationsDir()

	// create only writes a file and needs no database.
	if *command == "create" {
		if *name == "" {
			log.Fatal("name is required for 'create' command")
		}
		if err := goose.Create(nil, dir, *name, "sql"); err != nil {
			log.Fatal("failed to create migration", zap.Error(err))
		}
		log.Info("migration created", zap.String("name", *name))
		return
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, databaseDSN())
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	goose.SetBaseFS(nil)
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatal("failed to set dialect", zap.Error(err))
	}

	switch *command {
	case "up":
		if err := goose.Up(db, dir); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
		log.Info("migrations applied successfully")
	case "down":
		if err := goose.Down(db, dir); err != nil {
			log.Fatal("failed to rollback migrations", zap.Error(err))
		}
		log.Info("migrations rolled back successfully")
	case "status":
		if err := goose.Status(db, dir); err != nil {
			log.Fatal("failed to check migration status", zap.Error(err))
		}
	default:
		log.Fatal("unknown command, use: up, down, status, create", zap.String("command", *command))
	}
}
