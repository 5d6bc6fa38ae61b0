package match

import (
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/shootout/go/internal/match/events"
	"github.com/rs/zerolog/log"
)

type queueEntry struct {
	participant Participant
	timer       clockwork.Timer
}

// Enqueue adds a participant to the wait line. Re-enqueuing a waiting participant is a no-op.
// If two participants are waiting, the two longest-waiting are paired immediately; otherwise
// the participant is matched against the synthetic opponent once the queue wait elapses.
func (mm *Matchmaker) Enqueue(p Participant) {
	mm.mu.Lock()
	if mm.closed.Load() {
		mm.mu.Unlock()
		return
	}
	if mm.indexOf(p.ID) >= 0 {
		mm.mu.Unlock()
		log.Debug().Str("participant_id", p.ID).Msg("participant already waiting")
		return
	}

	entry := &queueEntry{participant: p}
	mm.waiting = append(mm.waiting, entry)
	log.Info().
		Str("participant_id", p.ID).
		Int("waiting", len(mm.waiting)).
		Msg("participant waiting for a match")

	if len(mm.waiting) >= 2 {
		first, second := mm.waiting[0], mm.waiting[1]
		mm.waiting = mm.waiting[2:]
		stopTimer(&first.timer)
		stopTimer(&second.timer)
		m := mm.createMatch(first.participant, &second.participant)
		mm.mu.Unlock()

		mm.announceMatch(m)
		return
	}

	id := p.ID
	entry.timer = mm.clock.AfterFunc(mm.cfg.QueueWait, func() {
		mm.onQueueWaitElapsed(id, entry)
	})
	mm.mu.Unlock()
}

// Dequeue removes a waiting participant. No-op if absent.
func (mm *Matchmaker) Dequeue(participantID string) {
	mm.mu.Lock()
	defer mm.mu.Unlock()

	i := mm.indexOf(participantID)
	if i < 0 {
		return
	}
	stopTimer(&mm.waiting[i].timer)
	mm.waiting = append(mm.waiting[:i], mm.waiting[i+1:]...)
	log.Info().Str("participant_id", participantID).Msg("participant left the queue")
}

func (mm *Matchmaker) onQueueWaitElapsed(participantID string, entry *queueEntry) {
	mm.mu.Lock()
	i := mm.indexOf(participantID)
	// A later entry for the same participant owns its own timer.
	if mm.closed.Load() || i < 0 || mm.waiting[i] != entry {
		mm.mu.Unlock()
		log.Debug().Str("participant_id", participantID).Msg("stale queue timer ignored")
		return
	}
	mm.waiting = append(mm.waiting[:i], mm.waiting[i+1:]...)
	m := mm.createMatch(entry.participant, nil)
	mm.mu.Unlock()

	log.Info().Str("participant_id", participantID).Msg("queue wait elapsed, matched against synthetic opponent")
	mm.announceMatch(m)
}

// indexOf must be called with mm.mu held.
func (mm *Matchmaker) indexOf(participantID string) int {
	for i, e := range mm.waiting {
		if e.participant.ID == participantID {
			return i
		}
	}
	return -1
}

// createMatch seats first as shooter and second (or the synthetic opponent when nil)
// as goalkeeper and registers the match. It must be called with mm.mu held, so a
// participant leaving the queue is always found either in the queue or in the registry.
// The match is returned locked; its lock is fresh and cannot be contended yet.
func (mm *Matchmaker) createMatch(first Participant, second *Participant) *Match {
	home := &Player{ID: first.ID, Label: first.Label, Seat: Connected{Handle: first.Handle}}
	var away *Player
	if second != nil {
		away = &Player{ID: second.ID, Label: second.Label, Seat: Connected{Handle: second.Handle}}
	} else {
		away = &Player{ID: mm.cfg.SyntheticID, Label: mm.cfg.SyntheticLabel, Seat: Synthetic{}}
	}

	m := newMatch(newMatchID(), home, away, mm.cfg.MaxRounds, mm.clock.Now())
	m.mu.Lock()
	mm.matches.add(m)
	return m
}

// announceMatch sends match_start to both players and starts round 1, then releases
// the lock taken by createMatch. A disconnect arriving since registration waits on
// that lock and is handled right after.
func (mm *Matchmaker) announceMatch(m *Match) {
	defer m.mu.Unlock()

	for _, p := range m.players {
		p.emit(events.TypeMatchStart, events.MatchStartPayload{
			MatchID:  m.ID,
			Role:     string(p.Role),
			Opponent: m.opponentOf(p).Label,
		})
	}

	home, away := m.players[0], m.players[1]
	log.Info().
		Str("match_id", m.ID).
		Str("shooter", home.ID).
		Str("goalkeeper", away.ID).
		Bool("vs_synthetic", away.synthetic()).
		Msg("match started")

	mm.startRound(m)
}
