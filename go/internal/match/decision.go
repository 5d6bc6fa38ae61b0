package match

import "github.com/mcdev12/shootout/go/internal/match/events"

// Height is the vertical dimension of a decision.
type Height string

const (
	HeightLow  Height = "low"
	HeightMid  Height = "mid"
	HeightHigh Height = "high"
)

// Side is the horizontal dimension of a decision.
type Side string

const (
	SideLeft   Side = "left"
	SideCenter Side = "center"
	SideRight  Side = "right"
)

var (
	heights = []Height{HeightLow, HeightMid, HeightHigh}
	sides   = []Side{SideLeft, SideCenter, SideRight}
)

// ParseHeight reports whether s names a height.
func ParseHeight(s string) (Height, bool) {
	for _, h := range heights {
		if string(h) == s {
			return h, true
		}
	}
	return "", false
}

// ParseSide reports whether s names a side.
func ParseSide(s string) (Side, bool) {
	for _, sd := range sides {
		if string(sd) == s {
			return sd, true
		}
	}
	return "", false
}

// Role is the part a player takes in a round.
type Role string

const (
	RoleShooter    Role = "shooter"
	RoleGoalkeeper Role = "goalkeeper"
)

// Opposite returns the complementary role.
func (r Role) Opposite() Role {
	if r == RoleShooter {
		return RoleGoalkeeper
	}
	return RoleShooter
}

// Phase is the match-level lifecycle state.
type Phase string

const (
	PhaseWaiting  Phase = "waiting"
	PhasePlaying  Phase = "playing"
	PhaseFinished Phase = "finished"
)

// Decision is a player's choice for one round. A zero dimension is unset.
type Decision struct {
	Height Height
	Side   Side
}

// Complete reports whether both dimensions are set.
func (d Decision) Complete() bool {
	return d.Height != "" && d.Side != ""
}

// Merge sets each non-empty dimension of other onto d.
func (d *Decision) Merge(other Decision) {
	if other.Height != "" {
		d.Height = other.Height
	}
	if other.Side != "" {
		d.Side = other.Side
	}
}

func (d Decision) wire() events.Choice {
	return events.Choice{Height: string(d.Height), Side: string(d.Side)}
}

// Outcome is the score delta of one resolved round.
type Outcome struct {
	ShooterPoints int
	KeeperPoints  int
}

// Resolve scores a round. The goalkeeper earns the point only when both dimensions match;
// any other combination is a goal for the shooter.
func Resolve(shot, save Decision) Outcome {
	matches := 0
	if shot.Height == save.Height {
		matches++
	}
	if shot.Side == save.Side {
		matches++
	}
	if matches == 2 {
		return Outcome{ShooterPoints: 0, KeeperPoints: 1}
	}
	return Outcome{ShooterPoints: 1, KeeperPoints: 0}
}
