package gateway

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Service is the participant gateway: it owns the WebSocket connections and routes
// their events into the matchmaker.
type Service struct {
	connectionManager *ConnectionManager
	wsHandler         *WebSocketHandler
	config            Config
}

// Config holds configuration for the gateway service
type Config struct {
	ConnectionConfig ConnectionConfig
	ShutdownTimeout  time.Duration
}

// DefaultConfig returns default configuration for the gateway
func DefaultConfig() Config {
	return Config{
		ConnectionConfig: DefaultConnectionConfig(),
		ShutdownTimeout:  5 * time.Second,
	}
}

// NewService creates a new gateway service
func NewService(config Config, mm Matchmaker) *Service {
	connectionManager := NewConnectionManager(config.ConnectionConfig, mm)
	return &Service{
		connectionManager: connectionManager,
		wsHandler:         NewWebSocketHandler(connectionManager),
		config:            config,
	}
}

// Start blocks until ctx is cancelled, then closes every open connection.
func (s *Service) Start(ctx context.Context) error {
	log.Info().Msg("starting match gateway service")

	<-ctx.Done()

	log.Info().Msg("match gateway service shutting down")
	return s.Stop()
}

// Stop closes all connections and waits until each close has been reported to the
// matchmaker as a disconnect, or until ShutdownTimeout elapses.
func (s *Service) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
	defer cancel()
	s.connectionManager.CloseAll(ctx)

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for s.connectionManager.GetConnectionStats().TotalConnections > 0 {
		select {
		case <-ctx.Done():
			return fmt.Errorf("connections still open after shutdown: %w", ctx.Err())
		case <-ticker.C:
		}
	}

	log.Info().Msg("match gateway service stopped")
	return nil
}

// RegisterRoutes registers the WebSocket HTTP routes
func (s *Service) RegisterRoutes(mux *http.ServeMux) {
	s.wsHandler.RegisterRoutes(mux)
	log.Info().Msg("match gateway routes registered")
}

// GetStats returns statistics about the gateway service
func (s *Service) GetStats() ConnectionStats {
	return s.connectionManager.GetConnectionStats()
}
