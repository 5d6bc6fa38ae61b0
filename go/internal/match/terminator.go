package match

import (
	"context"

	"github.com/google/uuid"
	"github.com/mcdev12/shootout/go/internal/match/events"
	"github.com/mcdev12/shootout/go/internal/models"
	"github.com/rs/zerolog/log"
)

// finish is the only path that moves a match to PhaseFinished. It announces the result,
// hands the record to the result store without waiting for it and deregisters the match.
// forcedWinner is set on the disconnect path. m.mu must be held.
func (mm *Matchmaker) finish(m *Match, forcedWinner *Player) {
	if m.phase == PhaseFinished {
		return
	}
	if _, live := mm.matches.get(m.ID); !live {
		return
	}
	m.phase = PhaseFinished
	m.stage = stageTerminating
	m.stopTimers()

	home, away := m.players[0], m.players[1]
	reason := events.ReasonNormal
	winner := models.TieLabel
	tie := false
	switch {
	case forcedWinner != nil:
		reason = events.ReasonOpponentDisconnected
		winner = forcedWinner.Label
	case home.Score > away.Score:
		winner = home.Label
	case away.Score > home.Score:
		winner = away.Label
	default:
		tie = true
	}

	scores := []events.PlayerScore{
		{Player: home.Label, Score: home.Score},
		{Player: away.Label, Score: away.Score},
	}
	end := events.MatchEndPayload{
		MatchID:     m.ID,
		Winner:      winner,
		Tie:         tie,
		Reason:      reason,
		FinalScores: scores,
	}
	for _, p := range m.players {
		p.emit(events.TypeMatchEnd, end)
	}

	log.Info().
		Str("match_id", m.ID).
		Str("winner", winner).
		Str("reason", reason).
		Int("rounds_played", m.currentRound).
		Msg("match finished")

	mm.persist(models.MatchRecord{
		ID:           uuid.New(),
		MatchID:      m.ID,
		Player1:      home.Label,
		Player2:      away.Label,
		Player1Score: home.Score,
		Player2Score: away.Score,
		Winner:       winner,
		FinalScores: []models.FinalScore{
			{Player: home.Label, Score: home.Score},
			{Player: away.Label, Score: away.Score},
		},
		CreatedAt: mm.clock.Now().UTC(),
	})

	mm.matches.remove(m.ID)
}

// persist appends the record on a detached goroutine. Failures are logged only.
func (mm *Matchmaker) persist(record models.MatchRecord) {
	if mm.store == nil {
		log.Info().Str("match_id", record.MatchID).Msg("no result store configured, record not persisted")
		return
	}

	mm.persistWG.Add(1)
	go func() {
		defer mm.persistWG.Done()

		ctx, cancel := context.WithTimeout(context.Background(), mm.cfg.PersistTimeout)
		defer cancel()

		if err := mm.store.AppendMatch(ctx, record); err != nil {
			log.Error().Err(err).Str("match_id", record.MatchID).Msg("failed to persist match record")
			return
		}
		log.Debug().Str("match_id", record.MatchID).Msg("match record persisted")
	}()
}

// Disconnect handles a participant dropping out: it leaves the queue, and every live match
// it is seated in ends with the remaining player as winner. A match left with no players is
// discarded without notifications or a record.
func (mm *Matchmaker) Disconnect(participantID string) {
	mm.Dequeue(participantID)

	for _, m := range mm.matches.all() {
		mm.dropFromMatch(m, participantID)
	}
}

func (mm *Matchmaker) dropFromMatch(m *Match, participantID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase == PhaseFinished || !m.hasConnected(participantID) {
		return
	}
	m.player(participantID).dropped = true

	var remaining []*Player
	for _, p := range m.players {
		if !p.dropped {
			remaining = append(remaining, p)
		}
	}

	log.Info().
		Str("match_id", m.ID).
		Str("participant_id", participantID).
		Int("remaining", len(remaining)).
		Msg("participant disconnected from match")

	switch len(remaining) {
	case 1:
		mm.finish(m, remaining[0])
	case 0:
		m.phase = PhaseFinished
		m.stage = stageTerminating
		m.stopTimers()
		mm.matches.remove(m.ID)
	}
}
