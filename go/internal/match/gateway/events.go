package gateway

import (
	"encoding/json"
	"time"

	"github.com/mcdev12/shootout/go/internal/match/events"
)

// Envelope is the frame exchanged over the websocket in both directions.
type Envelope struct {
	Type      events.Type     `json:"type"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp time.Time       `json:"timestamp,omitempty"`
}

// newEnvelope marshals payload into an outbound frame.
func newEnvelope(eventType events.Type, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Envelope{
		Type:      eventType,
		Data:      data,
		Timestamp: time.Now().UTC(),
	})
}
