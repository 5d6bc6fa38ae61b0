package main

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mcdev12/shootout/go/internal/match"
	"github.com/mcdev12/shootout/go/internal/match/gateway"
	"github.com/mcdev12/shootout/go/internal/match/results"
	"github.com/mcdev12/shootout/go/internal/models"
)

// LeaderboardReader lists the latest persisted matches.
type LeaderboardReader interface {
	ListRecent(ctx context.Context, limit int) ([]models.MatchRecord, error)
}

type Services struct {
	Matchmaker  *match.Matchmaker
	Gateway     *gateway.Service
	Leaderboard LeaderboardReader
}

func setupServices(config *Config, pool *pgxpool.Pool, publisher *results.JetStreamPublisher) *Services {
	// Wire up dependency injection chain
	// Sinks → Matchmaker → Gateway

	var stores []match.ResultStore
	var leaderboard LeaderboardReader
	if pool != nil {
		repo := results.NewRepository(pool)
		stores = append(stores, repo)
		leaderboard = repo
	}
	if publisher != nil {
		stores = append(stores, publisher)
	}

	var store match.ResultStore
	if len(stores) > 0 {
		store = results.NewFanout(stores...)
	}

	mm := match.NewMatchmaker(config.matchConfig(), store)

	return &Services{
		Matchmaker:  mm,
		Gateway:     gateway.NewService(gateway.DefaultConfig(), mm),
		Leaderboard: leaderboard,
	}
}
