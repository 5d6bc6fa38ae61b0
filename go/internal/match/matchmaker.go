package match

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/shootout/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Clock is the interface we use for time operations.
// In production, use clockwork.NewRealClock(). In tests, a FakeClock.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) clockwork.Timer
}

// ResultStore receives a record for every completed match.
type ResultStore interface {
	AppendMatch(ctx context.Context, record models.MatchRecord) error
}

// Config holds the matchmaker's timing and roster settings.
type Config struct {
	MaxRounds      int
	QueueWait      time.Duration
	SyntheticDelay time.Duration
	RoundDeadline  time.Duration
	RoundPause     time.Duration
	PersistTimeout time.Duration
	SyntheticID    string
	SyntheticLabel string
}

// DefaultConfig returns the standard shootout settings.
func DefaultConfig() Config {
	return Config{
		MaxRounds:      5,
		QueueWait:      10 * time.Second,
		SyntheticDelay: 1500 * time.Millisecond,
		RoundDeadline:  10 * time.Second,
		RoundPause:     2 * time.Second,
		PersistTimeout: 5 * time.Second,
		SyntheticID:    "BOT",
		SyntheticLabel: "ChatBot",
	}
}

// Option customizes a Matchmaker.
type Option func(*Matchmaker)

// WithClock replaces the real clock.
func WithClock(c Clock) Option {
	return func(mm *Matchmaker) { mm.clock = c }
}

// WithStrategy replaces the random synthetic decision strategy.
func WithStrategy(s DecisionStrategy) Option {
	return func(mm *Matchmaker) { mm.strategy = s }
}

// Matchmaker pairs participants into matches and drives every live match through its rounds.
type Matchmaker struct {
	cfg      Config
	clock    Clock
	strategy DecisionStrategy
	store    ResultStore

	// mu guards the wait queue and its timers. The only match lock taken under it is
	// that of a match being created, before anyone else can reach it.
	mu      sync.Mutex
	waiting []*queueEntry

	// closed is read under match locks too, where mu cannot be taken.
	closed atomic.Bool

	matches *registry

	persistWG sync.WaitGroup
}

// NewMatchmaker creates a matchmaker. store may be nil, in which case results are only logged.
func NewMatchmaker(cfg Config, store ResultStore, opts ...Option) *Matchmaker {
	mm := &Matchmaker{
		cfg:      cfg,
		clock:    clockwork.NewRealClock(),
		strategy: NewRandomStrategy(),
		store:    store,
		matches:  newRegistry(),
	}
	for _, opt := range opts {
		opt(mm)
	}
	return mm
}

// Stats is a point-in-time view of matchmaker load.
type Stats struct {
	Waiting     int `json:"waiting"`
	LiveMatches int `json:"live_matches"`
}

// Stats reports queue length and live match count.
func (mm *Matchmaker) Stats() Stats {
	mm.mu.Lock()
	waiting := len(mm.waiting)
	mm.mu.Unlock()
	return Stats{Waiting: waiting, LiveMatches: mm.matches.len()}
}

// Match returns a snapshot of a live match.
func (mm *Matchmaker) Match(id string) (Snapshot, bool) {
	m, ok := mm.matches.get(id)
	if !ok {
		return Snapshot{}, false
	}
	return m.Snapshot(), true
}

// Close stops queue timers and every live match's timers, then waits for in-flight
// result writes. Matches are left unfinished and accept no further decisions.
func (mm *Matchmaker) Close() {
	mm.mu.Lock()
	mm.closed.Store(true)
	for _, e := range mm.waiting {
		stopTimer(&e.timer)
	}
	mm.waiting = nil
	mm.mu.Unlock()

	for _, m := range mm.matches.all() {
		m.mu.Lock()
		m.stopTimers()
		m.mu.Unlock()
	}

	mm.persistWG.Wait()
	log.Info().Msg("matchmaker closed")
}

func newMatchID() string {
	return "match_" + uuid.New().String()
}
