package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/mcdev12/shootout/go/internal/match"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler handles WebSocket upgrade requests for match connections
type WebSocketHandler struct {
	connectionManager *ConnectionManager
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(cm *ConnectionManager) *WebSocketHandler {
	return &WebSocketHandler{
		connectionManager: cm,
	}
}

// HandleConnection upgrades a participant connection. Identity is bound later by the
// first join event.
func (h *WebSocketHandler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	if err := h.connectionManager.UpgradeConnection(w, r); err != nil {
		// The upgrader has already written an HTTP error response.
		log.Debug().Err(err).Str("remote_addr", r.RemoteAddr).Msg("websocket upgrade rejected")
		return
	}
}

// StatsResponse is the body of the stats endpoint.
type StatsResponse struct {
	ConnectionStats
	match.Stats
}

// HandleConnectionStats returns statistics about active connections and matches
func (h *WebSocketHandler) HandleConnectionStats(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{
		ConnectionStats: h.connectionManager.GetConnectionStats(),
		Stats:           h.connectionManager.matchmaker.Stats(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		log.Error().Err(err).Msg("failed to encode connection stats")
	}
}

// RegisterRoutes registers WebSocket routes with an HTTP mux
func (h *WebSocketHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/ws", h.HandleConnection)
	mux.HandleFunc("/ws/stats", h.HandleConnectionStats)
}
