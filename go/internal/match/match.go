package match

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// stage is the round engine state of a playing match.
type stage int

const (
	stageAwaitingDecisions stage = iota
	stageResolving
	stageIntermission
	stageTerminating
)

func (s stage) String() string {
	switch s {
	case stageAwaitingDecisions:
		return "awaiting_decisions"
	case stageResolving:
		return "resolving"
	case stageIntermission:
		return "intermission"
	case stageTerminating:
		return "terminating"
	default:
		return "unknown"
	}
}

// Match owns the lifecycle of one two-player session.
// Every field below mu is guarded by it; all events for one match are serialized on it.
type Match struct {
	ID        string
	MaxRounds int
	CreatedAt time.Time

	mu           sync.Mutex
	players      [2]*Player
	currentRound int
	phase        Phase
	stage        stage

	// deadline is the single outstanding round deadline. synthetic and pause are the
	// synthetic-decision delay and the inter-round pause; all three are stopped on finish.
	deadline  clockwork.Timer
	synthetic clockwork.Timer
	pause     clockwork.Timer
}

func newMatch(id string, first, second *Player, maxRounds int, now time.Time) *Match {
	first.Role = RoleShooter
	second.Role = RoleGoalkeeper
	return &Match{
		ID:           id,
		MaxRounds:    maxRounds,
		CreatedAt:    now,
		players:      [2]*Player{first, second},
		currentRound: 1,
		phase:        PhasePlaying,
		stage:        stageAwaitingDecisions,
	}
}

func (m *Match) shooter() *Player {
	if m.players[0].Role == RoleShooter {
		return m.players[0]
	}
	return m.players[1]
}

func (m *Match) goalkeeper() *Player {
	if m.players[0].Role == RoleGoalkeeper {
		return m.players[0]
	}
	return m.players[1]
}

func (m *Match) opponentOf(p *Player) *Player {
	if m.players[0] == p {
		return m.players[1]
	}
	return m.players[0]
}

func (m *Match) player(id string) *Player {
	for _, p := range m.players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// hasConnected reports whether participantID holds a connected, not-dropped seat.
func (m *Match) hasConnected(participantID string) bool {
	p := m.player(participantID)
	return p != nil && !p.dropped && !p.synthetic()
}

func (m *Match) swapRoles() {
	for _, p := range m.players {
		p.Role = p.Role.Opposite()
	}
}

func (m *Match) clearDecisions() {
	for _, p := range m.players {
		p.Decision = Decision{}
	}
}

func (m *Match) decisionsComplete() bool {
	for _, p := range m.players {
		if !p.Decision.Complete() {
			return false
		}
	}
	return true
}

// Snapshot is a read-only copy of a match's state.
type Snapshot struct {
	ID           string
	Phase        Phase
	CurrentRound int
	MaxRounds    int
	Players      [2]Player
}

// Snapshot returns a consistent copy of the match state.
func (m *Match) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		ID:           m.ID,
		Phase:        m.phase,
		CurrentRound: m.currentRound,
		MaxRounds:    m.MaxRounds,
		Players:      [2]Player{*m.players[0], *m.players[1]},
	}
}

// replaceTimer stops any timer held in slot and stores next in its place.
func replaceTimer(slot *clockwork.Timer, next clockwork.Timer) {
	stopTimer(slot)
	*slot = next
}

// stopTimer stops and clears the timer held in slot. A callback already in flight
// is not prevented; callbacks re-check match state under the lock.
func stopTimer(slot *clockwork.Timer) {
	if *slot != nil {
		(*slot).Stop()
		*slot = nil
	}
}

func (m *Match) stopTimers() {
	stopTimer(&m.deadline)
	stopTimer(&m.synthetic)
	stopTimer(&m.pause)
}
