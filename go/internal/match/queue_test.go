package match

import (
	"testing"
	"time"

	"github.com/mcdev12/shootout/go/internal/match/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueuePairsTwoParticipantsImmediately(t *testing.T) {
	h := newHarness(t, testConfig(), FixedStrategy{})

	a := h.join("a", "Alice")
	assert.Equal(t, 1, h.mm.Stats().Waiting)
	b := h.join("b", "Bob")

	stats := h.mm.Stats()
	assert.Equal(t, 0, stats.Waiting)
	assert.Equal(t, 1, stats.LiveMatches)

	require.Len(t, a.ofType(events.TypeMatchStart), 1)
	require.Len(t, b.ofType(events.TypeMatchStart), 1)
	startA := a.ofType(events.TypeMatchStart)[0].(events.MatchStartPayload)
	startB := b.ofType(events.TypeMatchStart)[0].(events.MatchStartPayload)
	assert.Equal(t, "shooter", startA.Role)
	assert.Equal(t, "Bob", startA.Opponent)
	assert.Equal(t, "goalkeeper", startB.Role)
	assert.Equal(t, "Alice", startB.Opponent)
	assert.Equal(t, startA.MatchID, startB.MatchID)

	// The wait timer armed for a must not produce a second match.
	h.clock.Advance(h.cfg.QueueWait)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, h.mm.matches.len())
	assert.Equal(t, 1, a.count(events.TypeMatchStart))
}

func TestEnqueueTimesOutIntoSyntheticMatch(t *testing.T) {
	h := newHarness(t, testConfig(), FixedStrategy{})

	a := h.join("a", "Alice")
	h.clock.Advance(h.cfg.QueueWait - time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, h.mm.matches.len())

	h.clock.Advance(time.Millisecond)
	m := h.onlyMatch(t)
	waitAwaiting(t, m, 1)

	snap := m.Snapshot()
	assert.Equal(t, "a", snap.Players[0].ID)
	assert.Equal(t, RoleShooter, snap.Players[0].Role)
	assert.Equal(t, h.cfg.SyntheticID, snap.Players[1].ID)
	assert.Equal(t, RoleGoalkeeper, snap.Players[1].Role)
	assert.IsType(t, Synthetic{}, snap.Players[1].Seat)

	starts := a.ofType(events.TypeMatchStart)
	require.Len(t, starts, 1)
	assert.Equal(t, "shooter", starts[0].(events.MatchStartPayload).Role)
	assert.Equal(t, "ChatBot", starts[0].(events.MatchStartPayload).Opponent)
	assert.Equal(t, 0, h.mm.Stats().Waiting)
}

func TestEnqueueIsIdempotent(t *testing.T) {
	h := newHarness(t, testConfig(), FixedStrategy{})

	h.join("a", "Alice")
	h.join("a", "Alice")

	assert.Equal(t, 1, h.mm.Stats().Waiting)
	assert.Equal(t, 0, h.mm.matches.len())
}

func TestDequeueCancelsWait(t *testing.T) {
	h := newHarness(t, testConfig(), FixedStrategy{})

	h.join("a", "Alice")
	h.mm.Dequeue("a")
	h.mm.Dequeue("a")
	assert.Equal(t, 0, h.mm.Stats().Waiting)

	h.clock.Advance(h.cfg.QueueWait)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, h.mm.matches.len())
}

func TestRejoinAfterDequeueArmsFreshTimer(t *testing.T) {
	h := newHarness(t, testConfig(), FixedStrategy{})

	h.join("a", "Alice")
	h.clock.Advance(h.cfg.QueueWait / 2)
	h.mm.Dequeue("a")
	h.join("a", "Alice")

	// The first entry's deadline passes without effect.
	h.clock.Advance(h.cfg.QueueWait / 2)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 0, h.mm.matches.len())
	assert.Equal(t, 1, h.mm.Stats().Waiting)

	h.clock.Advance(h.cfg.QueueWait / 2)
	h.onlyMatch(t)
}

func TestThirdParticipantWaitsForNextPairing(t *testing.T) {
	h := newHarness(t, testConfig(), FixedStrategy{})

	h.join("a", "Alice")
	h.join("b", "Bob")
	c := h.join("c", "Carol")

	assert.Equal(t, 1, h.mm.Stats().Waiting)
	assert.Equal(t, 0, c.count(events.TypeMatchStart))

	h.join("d", "Dave")
	assert.Equal(t, 0, h.mm.Stats().Waiting)
	assert.Equal(t, 2, h.mm.matches.len())
	assert.Equal(t, "shooter", c.ofType(events.TypeMatchStart)[0].(events.MatchStartPayload).Role)
}
