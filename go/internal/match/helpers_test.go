package match

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/shootout/go/internal/match/events"
	"github.com/mcdev12/shootout/go/internal/models"
	"github.com/stretchr/testify/require"
)

const waitFor = 2 * time.Second
const tick = 5 * time.Millisecond

type received struct {
	Type    events.Type
	Payload any
}

// recordingHandle captures every event emitted to one participant.
type recordingHandle struct {
	mu     sync.Mutex
	events []received
}

func (h *recordingHandle) Emit(eventType events.Type, payload any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, received{Type: eventType, Payload: payload})
}

func (h *recordingHandle) all() []received {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]received(nil), h.events...)
}

func (h *recordingHandle) count(eventType events.Type) int {
	n := 0
	for _, e := range h.all() {
		if e.Type == eventType {
			n++
		}
	}
	return n
}

func (h *recordingHandle) ofType(eventType events.Type) []any {
	var out []any
	for _, e := range h.all() {
		if e.Type == eventType {
			out = append(out, e.Payload)
		}
	}
	return out
}

// recordingStore captures appended records and optionally fails.
type recordingStore struct {
	mu      sync.Mutex
	records []models.MatchRecord
	err     error
}

func (s *recordingStore) AppendMatch(_ context.Context, record models.MatchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = append(s.records, record)
	return s.err
}

func (s *recordingStore) all() []models.MatchRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.MatchRecord(nil), s.records...)
}

type harness struct {
	mm    *Matchmaker
	clock *clockwork.FakeClock
	store *recordingStore
	cfg   Config
}

func newHarness(t *testing.T, cfg Config, strategy DecisionStrategy) *harness {
	t.Helper()
	clock := clockwork.NewFakeClock()
	store := &recordingStore{}
	mm := NewMatchmaker(cfg, store, WithClock(clock), WithStrategy(strategy))
	t.Cleanup(mm.Close)
	return &harness{mm: mm, clock: clock, store: store, cfg: cfg}
}

func (h *harness) join(id, label string) *recordingHandle {
	handle := &recordingHandle{}
	h.mm.Enqueue(Participant{ID: id, Label: label, Handle: handle})
	return handle
}

// onlyMatch waits for exactly one live match and returns it.
func (h *harness) onlyMatch(t *testing.T) *Match {
	t.Helper()
	require.Eventually(t, func() bool { return h.mm.matches.len() == 1 }, waitFor, tick)
	return h.mm.matches.all()[0]
}

// waitAwaiting blocks until m is collecting decisions for round. Timers for that round are
// armed by the time this returns, because they are scheduled under the same lock.
func waitAwaiting(t *testing.T, m *Match, round int) {
	t.Helper()
	require.Eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.awaiting(round)
	}, waitFor, tick, "round %d never started", round)
}

func waitStage(t *testing.T, m *Match, want stage) {
	t.Helper()
	require.Eventually(t, func() bool {
		m.mu.Lock()
		defer m.mu.Unlock()
		return m.stage == want
	}, waitFor, tick, "stage %s never reached", want)
}

func waitFinished(t *testing.T, h *harness, m *Match) {
	t.Helper()
	require.Eventually(t, func() bool {
		_, live := h.mm.matches.get(m.ID)
		return !live && m.Snapshot().Phase == PhaseFinished
	}, waitFor, tick)
	h.mm.persistWG.Wait()
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.PersistTimeout = time.Second
	return cfg
}

var errStoreDown = errors.New("store down")
