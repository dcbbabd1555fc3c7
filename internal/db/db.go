// Package db builds the shared pgx connection pool for the ledger store.
package db

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool connects using DATABASE_URL and verifies the connection with a
// ping. DATABASE_POOL_MAX_CONNS optionally caps the pool size.
func NewPool(ctx context.Context) (*pgxpool.Pool, error) {
	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}

	config, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to parse DATABASE_URL: %w", err)
	}

	if raw := os.Getenv("DATABASE_POOL_MAX_CONNS"); raw != "" {
		maxConns, err := strconv.ParseInt(raw, 10, 32)
		if err != nil || maxConns < 1 {
			return nil, fmt.Errorf("invalid DATABASE_POOL_MAX_CONNS %q", raw)
		}
		config.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return pool, nil
}
