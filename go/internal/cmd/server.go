package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mcdev12/shootout/go/internal/models"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
)

func setupServer(services *Services, config *Config) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%s", getEnv("PORT", "4000")),
		Handler:           newHandler(services, config),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func newHandler(services *Services, config *Config) http.Handler {
	mux := http.NewServeMux()

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	services.Gateway.RegisterRoutes(mux)
	setupHealthCheck(mux)
	setupLeaderboard(mux, services.Leaderboard, config.LeaderboardLimit)

	// Wrap with CORS and serve HTTP/2 cleartext alongside HTTP/1.1
	return h2c.NewHandler(c.Handler(mux), &http2.Server{})
}

func setupHealthCheck(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "ts": time.Now().UTC().Format(time.RFC3339Nano)})
	})
}

// LeaderboardResponse is the body of /api/leaderboard, newest match first.
type LeaderboardResponse struct {
	Leaderboard []models.MatchRecord `json:"leaderboard"`
}

func setupLeaderboard(mux *http.ServeMux, reader LeaderboardReader, limit int) {
	mux.HandleFunc("GET /api/leaderboard", func(w http.ResponseWriter, r *http.Request) {
		if reader == nil {
			writeJSON(w, http.StatusOK, LeaderboardResponse{Leaderboard: []models.MatchRecord{}})
			return
		}

		records, err := reader.ListRecent(r.Context(), limit)
		if err != nil {
			log.Error().Err(err).Msg("failed to load leaderboard")
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal"})
			return
		}
		if records == nil {
			records = []models.MatchRecord{}
		}
		writeJSON(w, http.StatusOK, LeaderboardResponse{Leaderboard: records})
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to write response")
	}
}
