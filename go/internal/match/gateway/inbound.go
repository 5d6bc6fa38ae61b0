package gateway

import (
	"encoding/json"

	"github.com/mcdev12/shootout/go/internal/match"
	"github.com/mcdev12/shootout/go/internal/match/events"
	"github.com/rs/zerolog/log"
)

// handleClientMessage routes one inbound frame to the matchmaker. Malformed frames and
// unknown event types are dropped without a reply.
func (c *Connection) handleClientMessage(message []byte) {
	var env Envelope
	if err := json.Unmarshal(message, &env); err != nil {
		log.Debug().Err(err).Str("connection_id", c.ID).Msg("malformed client message dropped")
		return
	}

	mm := c.Manager.matchmaker
	switch env.Type {
	case events.TypeLobbyJoin, events.TypeCreateOrJoinMatch:
		var payload events.JoinPayload
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &payload); err != nil {
				log.Debug().Err(err).Str("connection_id", c.ID).Msg("malformed join payload dropped")
				return
			}
		}
		p := c.participant(payload)
		c.bind(p.ID)
		mm.Enqueue(p)

	case events.TypeSelectChoice:
		var payload events.SelectChoicePayload
		if err := json.Unmarshal(env.Data, &payload); err != nil || payload.MatchID == "" {
			log.Debug().Str("connection_id", c.ID).Msg("malformed choice payload dropped")
			return
		}
		participantID := c.ParticipantID()
		if participantID == "" {
			participantID = payload.PlayerID
		}
		mm.SubmitDecision(payload.MatchID, participantID, payload.Height, payload.Side)

	default:
		log.Debug().
			Str("connection_id", c.ID).
			Str("event_type", string(env.Type)).
			Msg("unknown client event dropped")
	}
}

// participant builds the queue identity for a join, falling back to the connection's
// own id and a generated display label.
func (c *Connection) participant(payload events.JoinPayload) match.Participant {
	id := payload.UserID
	if id == "" {
		id = c.ParticipantID()
	}
	if id == "" {
		id = c.ID
	}
	label := payload.DisplayName
	if label == "" {
		label = "Player " + c.ID[:4]
	}
	return match.Participant{ID: id, Label: label, Handle: c}
}
