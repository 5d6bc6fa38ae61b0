package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/shootout/go/internal/dbconfig"
	"github.com/mcdev12/shootout/go/internal/match/results"
	"github.com/rs/zerolog/log"
)

// setupDatabase connects the pool and ensures the matches table exists.
func setupDatabase(ctx context.Context, dbConfig dbconfig.Config) (*pgxpool.Pool, error) {
	poolConfig, err := dbConfig.PoolConfig()
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create database pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := results.NewRepository(pool).Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	log.Info().
		Str("user", dbConfig.User).
		Str("host", dbConfig.Host).
		Int("port", dbConfig.Port).
		Str("database", dbConfig.Database).
		Int32("max_conns", poolConfig.MaxConns).
		Msg("connected to database")
	return pool, nil
}
