package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/mcdev12/shootout/go/internal/dbconfig"
	"github.com/mcdev12/shootout/go/internal/match/results"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	// Setup logging
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	level, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	configPath := getEnv("CONFIG_PATH", "config.yaml")
	config, err := loadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("failed to load config")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var pool *pgxpool.Pool
	if dbConfig := dbconfig.NewConfigFromEnv(); dbConfig.Disabled {
		log.Warn().Msg("database disabled, match results will only be logged")
	} else {
		pool, err = setupDatabase(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to setup database")
		}
		defer pool.Close()
	}

	var publisher *results.JetStreamPublisher
	if natsURL := getEnv("NATS_URL", ""); natsURL != "" {
		jsCfg := results.DefaultJetStreamConfig()
		jsCfg.URL = natsURL
		publisher, err = results.NewJetStreamPublisher(jsCfg)
		if err != nil {
			log.Fatal().Err(err).Str("nats_url", natsURL).Msg("failed to setup JetStream publisher")
		}
		defer publisher.Close()
	}

	services := setupServices(config, pool, publisher)
	server := setupServer(services, config)

	gatewayDone := make(chan struct{})
	go func() {
		defer close(gatewayDone)
		if err := services.Gateway.Start(ctx); err != nil {
			log.Error().Err(err).Msg("gateway shutdown failed")
		}
	}()

	go func() {
		log.Info().
			Str("addr", server.Addr).
			Int("max_rounds", config.MaxRounds).
			Bool("database", pool != nil).
			Bool("jetstream", publisher != nil).
			Msg("shootout server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}

	// Closing connections reports disconnects, which finish and persist live matches.
	cancel()
	<-gatewayDone
	services.Matchmaker.Close()

	log.Info().Msg("shutdown complete")
}
