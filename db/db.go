package db

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/lib/pq"
)

// Connect opens a Postgres handle and pings it within timeout.
func Connect(dsn string, timeout time.Duration, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create database handle: %w", err)
	}

	// One writer per sink; a small pool is plenty.
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("failed to close database handle after ping error", slog.Any("error", closeErr))
		}
		return nil, fmt.Errorf("failed to ping database within %v: %w", timeout, err)
	}

	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS tournament_runs (
		run_id UUID PRIMARY KEY,
		game TEXT NOT NULL,
		started_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS match_results (
		run_id UUID NOT NULL REFERENCES tournament_runs(run_id) ON DELETE CASCADE,
		round TEXT NOT NULL,
		group_name TEXT NOT NULL,
		game_number INTEGER NOT NULL,
		player1 TEXT NOT NULL,
		player2 TEXT NOT NULL,
		winner TEXT,
		is_draw BOOLEAN NOT NULL DEFAULT FALSE,
		error TEXT,
		recorded_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (run_id, round, group_name, game_number)
	)`,
	`CREATE TABLE IF NOT EXISTS round_standings (
		run_id UUID NOT NULL REFERENCES tournament_runs(run_id) ON DELETE CASCADE,
		round TEXT NOT NULL,
		group_name TEXT NOT NULL,
		competitor_id TEXT NOT NULL,
		rank INTEGER NOT NULL,
		wins INTEGER NOT NULL,
		losses INTEGER NOT NULL,
		draws INTEGER NOT NULL,
		points DOUBLE PRECISION NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		PRIMARY KEY (run_id, round, competitor_id)
	)`,
}

// EnsureSchema creates the result tables when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
