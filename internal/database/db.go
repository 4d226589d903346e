package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var DB *pgxpool.Pool

// ConnectDB opens the global pool and pings the server.
func ConnectDB(ctx context.Context, connStr string) error {
	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return fmt.Errorf("unable to parse pgx config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("unable to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return fmt.Errorf("db ping error: %w", err)
	}

	DB = pool
	log.WithField("host", config.ConnConfig.Host).Info("connected to database")
	return nil
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id               uuid PRIMARY KEY,
		email            text NOT NULL UNIQUE,
		password         text NOT NULL,
		name             text NOT NULL DEFAULT '',
		bio              text NOT NULL DEFAULT '',
		avatar           text NOT NULL DEFAULT '',
		friends          uuid[] NOT NULL DEFAULT '{}',
		pending_requests jsonb NOT NULL DEFAULT '[]'::jsonb,
		version          bigint NOT NULL DEFAULT 1,
		created_at       timestamptz NOT NULL DEFAULT now()
	)`,
	// Outbound requests are found by containment on the recipients' records.
	`CREATE INDEX IF NOT EXISTS users_pending_requests_idx
		ON users USING GIN (pending_requests jsonb_path_ops)`,
}

// CreateTables applies the schema. Every statement is idempotent.
func CreateTables(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range tables {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}
	return nil
}
