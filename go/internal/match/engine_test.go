package match

import (
	"testing"
	"time"

	"github.com/mcdev12/shootout/go/internal/match/events"
	"github.com/mcdev12/shootout/go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	lowLeft    = Decision{Height: HeightLow, Side: SideLeft}
	lowCenter  = Decision{Height: HeightLow, Side: SideCenter}
	highRight  = Decision{Height: HeightHigh, Side: SideRight}
	midCenter  = Decision{Height: HeightMid, Side: SideCenter}
	keeperWins = [2]Decision{lowLeft, lowLeft}
	goal       = [2]Decision{lowLeft, highRight}
)

func submit(h *harness, m *Match, id string, d Decision) {
	h.mm.SubmitDecision(m.ID, id, string(d.Height), string(d.Side))
}

// playRound submits the shooter's and keeper's decisions for round and, unless it is the
// last round, advances through the pause to the next round.
func playRound(t *testing.T, h *harness, m *Match, round int, shot, save Decision) {
	t.Helper()
	waitAwaiting(t, m, round)

	snap := m.Snapshot()
	shooter, keeper := snap.Players[0].ID, snap.Players[1].ID
	if snap.Players[1].Role == RoleShooter {
		shooter, keeper = keeper, shooter
	}
	submit(h, m, shooter, shot)
	submit(h, m, keeper, save)

	if round < m.MaxRounds {
		waitStage(t, m, stageIntermission)
		h.clock.Advance(h.cfg.RoundPause)
	}
}

func pairHumans(t *testing.T, h *harness) (*Match, *recordingHandle, *recordingHandle) {
	t.Helper()
	a := h.join("a", "Alice")
	b := h.join("b", "Bob")
	return h.onlyMatch(t), a, b
}

func TestCompleteDecisionsResolveImmediately(t *testing.T) {
	h := newHarness(t, testConfig(), FixedStrategy{})
	m, a, b := pairHumans(t, h)
	waitAwaiting(t, m, 1)

	submit(h, m, "a", lowLeft)
	assert.Equal(t, 0, a.count(events.TypeRoundResult))
	submit(h, m, "b", lowCenter)

	require.Equal(t, 1, a.count(events.TypeRoundResult))
	require.Equal(t, 1, b.count(events.TypeRoundResult))
	result := a.ofType(events.TypeRoundResult)[0].(events.RoundResultPayload)
	assert.Equal(t, 1, result.Round)
	assert.Equal(t, events.Choice{Height: "low", Side: "left"}, result.ShooterChoice)
	assert.Equal(t, events.Choice{Height: "low", Side: "center"}, result.KeeperChoice)
	assert.Equal(t, events.RoundPoints{ShooterPoints: 1, KeeperPoints: 0}, result.Result)
	assert.Equal(t, events.RoundScores{Shooter: 1, Keeper: 0}, result.Scores)

	m.mu.Lock()
	assert.Nil(t, m.deadline)
	m.mu.Unlock()

	// Start round 2, then pass the instant round 1's deadline would have fired.
	h.clock.Advance(h.cfg.RoundPause)
	waitAwaiting(t, m, 2)
	h.clock.Advance(h.cfg.RoundDeadline - h.cfg.RoundPause)
	time.Sleep(20 * time.Millisecond)

	assert.Equal(t, 1, a.count(events.TypeRoundResult))
	m.mu.Lock()
	assert.True(t, m.awaiting(2))
	m.mu.Unlock()
}

func TestRoundResultPrecedesNextRoundStart(t *testing.T) {
	h := newHarness(t, testConfig(), FixedStrategy{})
	m, a, _ := pairHumans(t, h)

	playRound(t, h, m, 1, lowLeft, highRight)
	waitAwaiting(t, m, 2)

	var order []events.Type
	for _, e := range a.all() {
		order = append(order, e.Type)
	}
	assert.Equal(t, []events.Type{
		events.TypeMatchStart,
		events.TypeRoundStart,
		events.TypeRoundResult,
		events.TypeRoundStart,
	}, order)

	starts := a.ofType(events.TypeRoundStart)
	assert.Equal(t, events.RoundStartPayload{Round: 1, Role: "shooter"}, starts[0])
	assert.Equal(t, events.RoundStartPayload{Round: 2, Role: "goalkeeper"}, starts[1])
}

func TestRolesSwapEveryRound(t *testing.T) {
	h := newHarness(t, testConfig(), FixedStrategy{})
	m, _, _ := pairHumans(t, h)

	for round := 1; round <= m.MaxRounds; round++ {
		snap := m.Snapshot()
		wantA := RoleShooter
		if (round-1)%2 == 1 {
			wantA = RoleGoalkeeper
		}
		assert.Equal(t, wantA, snap.Players[0].Role, "round %d", round)
		assert.Equal(t, wantA.Opposite(), snap.Players[1].Role, "round %d", round)

		playRound(t, h, m, round, lowLeft, highRight)
	}

	waitFinished(t, h, m)
	snap := m.Snapshot()
	// Five resolutions: odd, so every player holds the opposite of its starting role.
	assert.Equal(t, RoleGoalkeeper, snap.Players[0].Role)
	assert.Equal(t, RoleShooter, snap.Players[1].Role)
}

func TestMatchFinishesWithHigherScore(t *testing.T) {
	h := newHarness(t, testConfig(), FixedStrategy{})
	m, a, b := pairHumans(t, h)

	// a shoots in odd rounds.
	playRound(t, h, m, 1, goal[0], goal[1])             // a 1-0
	playRound(t, h, m, 2, keeperWins[0], keeperWins[1]) // a 2-0
	playRound(t, h, m, 3, keeperWins[0], keeperWins[1]) // b 2-1
	playRound(t, h, m, 4, goal[0], goal[1])             // b 2-2
	playRound(t, h, m, 5, midCenter, highRight)         // a 3-2

	waitFinished(t, h, m)

	for _, handle := range []*recordingHandle{a, b} {
		ends := handle.ofType(events.TypeMatchEnd)
		require.Len(t, ends, 1)
		end := ends[0].(events.MatchEndPayload)
		assert.Equal(t, m.ID, end.MatchID)
		assert.Equal(t, "Alice", end.Winner)
		assert.False(t, end.Tie)
		assert.Equal(t, events.ReasonNormal, end.Reason)
		assert.Equal(t, []events.PlayerScore{{Player: "Alice", Score: 3}, {Player: "Bob", Score: 2}}, end.FinalScores)
		assert.Equal(t, 5, handle.count(events.TypeRoundResult))
		assert.Equal(t, 5, handle.count(events.TypeRoundStart))
	}

	records := h.store.all()
	require.Len(t, records, 1)
	rec := records[0]
	assert.Equal(t, m.ID, rec.MatchID)
	assert.Equal(t, "Alice", rec.Player1)
	assert.Equal(t, "Bob", rec.Player2)
	assert.Equal(t, 3, rec.Player1Score)
	assert.Equal(t, 2, rec.Player2Score)
	assert.Equal(t, "Alice", rec.Winner)
	assert.Equal(t, h.clock.Now().UTC(), rec.CreatedAt)

	// A late event after termination changes nothing.
	h.mm.SubmitDecision(m.ID, "a", "low", "left")
	h.clock.Advance(h.cfg.RoundDeadline)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, a.count(events.TypeMatchEnd))
	assert.Len(t, h.store.all(), 1)
}

func TestMatchFinishesInTie(t *testing.T) {
	cfg := testConfig()
	cfg.MaxRounds = 4
	h := newHarness(t, cfg, FixedStrategy{})
	m, a, _ := pairHumans(t, h)

	playRound(t, h, m, 1, goal[0], goal[1])             // a 1-0
	playRound(t, h, m, 2, keeperWins[0], keeperWins[1]) // a 2-0
	playRound(t, h, m, 3, keeperWins[0], keeperWins[1]) // b 2-1
	playRound(t, h, m, 4, goal[0], goal[1])             // b 2-2

	waitFinished(t, h, m)

	end := a.ofType(events.TypeMatchEnd)[0].(events.MatchEndPayload)
	assert.True(t, end.Tie)
	assert.Equal(t, models.TieLabel, end.Winner)
	assert.Equal(t, events.ReasonNormal, end.Reason)
	assert.Equal(t, models.TieLabel, h.store.all()[0].Winner)
}

func TestDeadlineAssignsMissingDecisions(t *testing.T) {
	h := newHarness(t, testConfig(), FixedStrategy{Decision: lowLeft})
	m, a, _ := pairHumans(t, h)
	waitAwaiting(t, m, 1)

	// a only sets one dimension, b never answers.
	h.mm.SubmitDecision(m.ID, "a", "high", "")
	h.clock.Advance(h.cfg.RoundDeadline)
	waitStage(t, m, stageIntermission)

	results := a.ofType(events.TypeRoundResult)
	require.Len(t, results, 1)
	result := results[0].(events.RoundResultPayload)
	assert.Equal(t, events.Choice{Height: "low", Side: "left"}, result.ShooterChoice)
	assert.Equal(t, events.Choice{Height: "low", Side: "left"}, result.KeeperChoice)
	assert.Equal(t, events.RoundScores{Shooter: 0, Keeper: 1}, result.Scores)
}

func TestDeadlineKeepsCompleteDecisions(t *testing.T) {
	h := newHarness(t, testConfig(), FixedStrategy{Decision: lowLeft})
	m, a, _ := pairHumans(t, h)
	waitAwaiting(t, m, 1)

	submit(h, m, "a", highRight)
	h.clock.Advance(h.cfg.RoundDeadline)
	waitStage(t, m, stageIntermission)

	result := a.ofType(events.TypeRoundResult)[0].(events.RoundResultPayload)
	assert.Equal(t, events.Choice{Height: "high", Side: "right"}, result.ShooterChoice)
	assert.Equal(t, events.RoundPoints{ShooterPoints: 1}, result.Result)
}

func TestSyntheticOpponentDecidesAfterDelay(t *testing.T) {
	h := newHarness(t, testConfig(), FixedStrategy{Decision: lowLeft})
	a := h.join("a", "Alice")
	h.clock.Advance(h.cfg.QueueWait)
	m := h.onlyMatch(t)
	waitAwaiting(t, m, 1)

	submit(h, m, "a", highRight)
	assert.Equal(t, 0, a.count(events.TypeRoundResult))

	h.clock.Advance(h.cfg.SyntheticDelay)
	waitStage(t, m, stageIntermission)

	result := a.ofType(events.TypeRoundResult)[0].(events.RoundResultPayload)
	assert.Equal(t, events.Choice{Height: "high", Side: "right"}, result.ShooterChoice)
	assert.Equal(t, events.Choice{Height: "low", Side: "left"}, result.KeeperChoice)
}

func TestSyntheticMatchRunsToCompletionOnDeadlines(t *testing.T) {
	h := newHarness(t, testConfig(), FixedStrategy{Decision: midCenter})
	a := h.join("a", "Alice")
	h.clock.Advance(h.cfg.QueueWait)
	m := h.onlyMatch(t)

	for round := 1; round <= m.MaxRounds; round++ {
		waitAwaiting(t, m, round)
		h.clock.Advance(h.cfg.SyntheticDelay)
		require.Eventually(t, func() bool {
			snap := m.Snapshot()
			return snap.Players[1].Decision.Complete()
		}, waitFor, tick)
		h.clock.Advance(h.cfg.RoundDeadline - h.cfg.SyntheticDelay)
		if round < m.MaxRounds {
			waitStage(t, m, stageIntermission)
			h.clock.Advance(h.cfg.RoundPause)
		}
	}

	waitFinished(t, h, m)
	assert.Equal(t, 5, a.count(events.TypeRoundResult))
	// Identical decisions every round: each player scores as goalkeeper only.
	end := a.ofType(events.TypeMatchEnd)[0].(events.MatchEndPayload)
	assert.Equal(t, []events.PlayerScore{{Player: "Alice", Score: 2}, {Player: "ChatBot", Score: 3}}, end.FinalScores)
	assert.Equal(t, "ChatBot", end.Winner)
}

func TestInvalidDecisionValuesIgnored(t *testing.T) {
	h := newHarness(t, testConfig(), FixedStrategy{})
	m, _, _ := pairHumans(t, h)
	waitAwaiting(t, m, 1)

	h.mm.SubmitDecision(m.ID, "a", "top", "sideways")
	assert.Equal(t, Decision{}, m.Snapshot().Players[0].Decision)

	h.mm.SubmitDecision(m.ID, "a", "mid", "sideways")
	assert.Equal(t, Decision{Height: HeightMid}, m.Snapshot().Players[0].Decision)

	h.mm.SubmitDecision(m.ID, "a", "", "right")
	assert.Equal(t, Decision{Height: HeightMid, Side: SideRight}, m.Snapshot().Players[0].Decision)
}

func TestUnknownMatchOrParticipantIgnored(t *testing.T) {
	h := newHarness(t, testConfig(), FixedStrategy{})
	m, a, _ := pairHumans(t, h)
	waitAwaiting(t, m, 1)

	h.mm.SubmitDecision("match_missing", "a", "low", "left")
	h.mm.SubmitDecision(m.ID, "zed", "low", "left")

	snap := m.Snapshot()
	assert.Equal(t, Decision{}, snap.Players[0].Decision)
	assert.Equal(t, Decision{}, snap.Players[1].Decision)
	assert.Equal(t, 0, a.count(events.TypeRoundResult))
}

func TestSyntheticPlayerCannotBeDrivenExternally(t *testing.T) {
	h := newHarness(t, testConfig(), FixedStrategy{Decision: lowLeft})
	h.join("a", "Alice")
	h.clock.Advance(h.cfg.QueueWait)
	m := h.onlyMatch(t)
	waitAwaiting(t, m, 1)

	h.mm.SubmitDecision(m.ID, h.cfg.SyntheticID, "high", "right")
	assert.Equal(t, Decision{}, m.Snapshot().Players[1].Decision)
}

func TestDecisionDuringPauseDropped(t *testing.T) {
	h := newHarness(t, testConfig(), FixedStrategy{})
	m, a, _ := pairHumans(t, h)

	playRound(t, h, m, 1, lowLeft, highRight)
	// Round 2 is played by hand so its pause can be observed.
	waitAwaiting(t, m, 2)
	submit(h, m, "b", lowLeft)
	submit(h, m, "a", highRight)
	waitStage(t, m, stageIntermission)

	submit(h, m, "a", lowLeft)
	submit(h, m, "b", lowLeft)
	assert.Equal(t, 2, a.count(events.TypeRoundResult))

	h.clock.Advance(h.cfg.RoundPause)
	waitAwaiting(t, m, 3)
	snap := m.Snapshot()
	assert.Equal(t, Decision{}, snap.Players[0].Decision)
	assert.Equal(t, Decision{}, snap.Players[1].Decision)
}

func TestCurrentRoundNeverDecreases(t *testing.T) {
	h := newHarness(t, testConfig(), FixedStrategy{Decision: lowLeft})
	m, _, _ := pairHumans(t, h)

	last := 0
	for round := 1; round <= m.MaxRounds; round++ {
		waitAwaiting(t, m, round)
		cur := m.Snapshot().CurrentRound
		assert.GreaterOrEqual(t, cur, last)
		assert.LessOrEqual(t, cur, m.MaxRounds)
		last = cur
		h.clock.Advance(h.cfg.RoundDeadline)
		if round < m.MaxRounds {
			waitStage(t, m, stageIntermission)
			h.clock.Advance(h.cfg.RoundPause)
		}
	}
	waitFinished(t, h, m)
	assert.Equal(t, m.MaxRounds, m.Snapshot().CurrentRound)
}
