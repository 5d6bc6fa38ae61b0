package match

import (
	"github.com/mcdev12/shootout/go/internal/match/events"
	"github.com/rs/zerolog/log"
)

// startRound clears decisions, announces the round, schedules the synthetic decision
// if a synthetic player is seated, and arms the round deadline. m.mu must be held.
func (mm *Matchmaker) startRound(m *Match) {
	if m.phase != PhasePlaying || mm.closed.Load() {
		return
	}
	m.stage = stageAwaitingDecisions
	m.clearDecisions()

	for _, p := range m.players {
		p.emit(events.TypeRoundStart, events.RoundStartPayload{
			Round: m.currentRound,
			Role:  string(p.Role),
		})
	}

	round := m.currentRound
	for _, p := range m.players {
		if !p.synthetic() {
			continue
		}
		bot := p
		replaceTimer(&m.synthetic, mm.clock.AfterFunc(mm.cfg.SyntheticDelay, func() {
			mm.onSyntheticDelay(m, bot, round)
		}))
	}

	replaceTimer(&m.deadline, mm.clock.AfterFunc(mm.cfg.RoundDeadline, func() {
		mm.onDeadline(m, round)
	}))

	log.Info().
		Str("match_id", m.ID).
		Int("round", round).
		Msg("round started")
}

// awaiting reports whether m is collecting decisions for round. m.mu must be held.
func (m *Match) awaiting(round int) bool {
	return m.phase == PhasePlaying && m.stage == stageAwaitingDecisions && m.currentRound == round
}

func (mm *Matchmaker) onSyntheticDelay(m *Match, bot *Player, round int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.awaiting(round) {
		log.Debug().Str("match_id", m.ID).Int("round", round).Msg("stale synthetic decision ignored")
		return
	}
	m.synthetic = nil
	bot.Decision = mm.strategy.Decide()
	mm.resolveIfComplete(m)
}

func (mm *Matchmaker) onDeadline(m *Match, round int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.awaiting(round) {
		log.Debug().Str("match_id", m.ID).Int("round", round).Msg("stale round deadline ignored")
		return
	}
	m.deadline = nil

	for _, p := range m.players {
		if !p.Decision.Complete() {
			p.Decision = mm.strategy.Decide()
			log.Info().
				Str("match_id", m.ID).
				Str("participant_id", p.ID).
				Int("round", round).
				Msg("round deadline reached, decision assigned")
		}
	}
	mm.resolveRound(m)
}

// SubmitDecision merges a participant's height and/or side into its decision for the
// current round. Unknown matches or participants, unrecognized values and decisions
// arriving outside decision collection are dropped.
func (mm *Matchmaker) SubmitDecision(matchID, participantID, height, side string) {
	m, ok := mm.matches.get(matchID)
	if !ok {
		log.Debug().Str("match_id", matchID).Msg("decision for unknown match dropped")
		return
	}

	var d Decision
	if h, ok := ParseHeight(height); ok {
		d.Height = h
	}
	if s, ok := ParseSide(side); ok {
		d.Side = s
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if mm.closed.Load() {
		log.Debug().Str("match_id", matchID).Msg("decision after close dropped")
		return
	}
	if m.phase != PhasePlaying || m.stage != stageAwaitingDecisions {
		log.Debug().Str("match_id", matchID).Str("stage", m.stage.String()).Msg("decision outside collection dropped")
		return
	}
	p := m.player(participantID)
	if p == nil || p.synthetic() || p.dropped {
		log.Debug().Str("match_id", matchID).Str("participant_id", participantID).Msg("decision from unknown participant dropped")
		return
	}

	p.Decision.Merge(d)
	if p.Decision.Complete() {
		mm.resolveIfComplete(m)
	}
}

// resolveIfComplete resolves the round once both decisions are complete. m.mu must be held.
func (mm *Matchmaker) resolveIfComplete(m *Match) {
	if !m.decisionsComplete() {
		return
	}
	stopTimer(&m.deadline)
	mm.resolveRound(m)
}

// resolveRound scores the round, announces the result, rotates roles and either
// schedules the next round or finishes the match. m.mu must be held.
func (mm *Matchmaker) resolveRound(m *Match) {
	m.stage = stageResolving
	stopTimer(&m.synthetic)

	shooter, keeper := m.shooter(), m.goalkeeper()
	shot, save := shooter.Decision, keeper.Decision
	outcome := Resolve(shot, save)
	shooter.Score += outcome.ShooterPoints
	keeper.Score += outcome.KeeperPoints

	result := events.RoundResultPayload{
		Round:         m.currentRound,
		ShooterChoice: shot.wire(),
		KeeperChoice:  save.wire(),
		Result: events.RoundPoints{
			ShooterPoints: outcome.ShooterPoints,
			KeeperPoints:  outcome.KeeperPoints,
		},
		Scores: events.RoundScores{
			Shooter: shooter.Score,
			Keeper:  keeper.Score,
		},
	}
	for _, p := range m.players {
		p.emit(events.TypeRoundResult, result)
	}

	log.Info().
		Str("match_id", m.ID).
		Int("round", m.currentRound).
		Int("shooter_points", outcome.ShooterPoints).
		Int("keeper_points", outcome.KeeperPoints).
		Msg("round resolved")

	m.swapRoles()

	if m.currentRound >= m.MaxRounds {
		m.stage = stageTerminating
		mm.finish(m, nil)
		return
	}

	m.currentRound++
	m.stage = stageIntermission
	if mm.closed.Load() {
		return
	}
	next := m.currentRound
	replaceTimer(&m.pause, mm.clock.AfterFunc(mm.cfg.RoundPause, func() {
		mm.onPauseElapsed(m, next)
	}))
}

func (mm *Matchmaker) onPauseElapsed(m *Match, round int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhasePlaying || m.stage != stageIntermission || m.currentRound != round {
		return
	}
	m.pause = nil
	mm.startRound(m)
}
