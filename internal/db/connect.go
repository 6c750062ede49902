package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"party_trials/internal/logger"
)

// Connect opens a pgx pool, or returns nil when no DSN is configured —
// tournament history is optional and the server runs fine without it.
func Connect(dsn string) *pgxpool.Pool {
	if dsn == "" {
		logger.Info("no DATABASE_URL set, tournament history disabled")
		return nil
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		logger.Fatal("failed to create database pool", "error", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		logger.Fatal("failed to ping database", "error", err)
	}

	logger.Info("database connected")
	return pool
}
