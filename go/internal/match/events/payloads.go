package events

import "time"

// Type is the wire name of an event exchanged with participants.
type Type string

// Outbound events produced by the matchmaker.
const (
	TypeMatchStart  Type = "match_start"
	TypeRoundStart  Type = "round_start"
	TypeRoundResult Type = "round_result"
	TypeMatchEnd    Type = "match_end"
)

// Inbound events consumed by the matchmaker.
const (
	TypeLobbyJoin         Type = "lobby_join"
	TypeCreateOrJoinMatch Type = "create_or_join_match"
	TypeSelectChoice      Type = "select_choice"
)

// Match end reasons.
const (
	ReasonNormal               = "normal"
	ReasonOpponentDisconnected = "opponent_disconnected"
)

// Choice is a decision as it appears on the wire.
type Choice struct {
	Height string `json:"height"`
	Side   string `json:"side"`
}

// MatchStartPayload is sent to each connected player when a match is created.
type MatchStartPayload struct {
	MatchID  string `json:"matchId"`
	Role     string `json:"role"`
	Opponent string `json:"opponent"`
}

// RoundStartPayload is sent to each connected player at the start of a round.
type RoundStartPayload struct {
	Round int    `json:"round"`
	Role  string `json:"role"`
}

// RoundPoints is the score delta of a single round.
type RoundPoints struct {
	ShooterPoints int `json:"shooterPoints"`
	KeeperPoints  int `json:"keeperPoints"`
}

// RoundScores carries the cumulative scores of the round's shooter and keeper.
type RoundScores struct {
	Shooter int `json:"shooter"`
	Keeper  int `json:"keeper"`
}

// RoundResultPayload is sent to each connected player once a round resolves.
type RoundResultPayload struct {
	Round         int         `json:"round"`
	ShooterChoice Choice      `json:"shooterChoice"`
	KeeperChoice  Choice      `json:"keeperChoice"`
	Result        RoundPoints `json:"result"`
	Scores        RoundScores `json:"scores"`
}

// PlayerScore is one entry of MatchEndPayload.FinalScores.
type PlayerScore struct {
	Player string `json:"player"`
	Score  int    `json:"score"`
}

// MatchEndPayload is sent to each still-connected player when a match finishes.
type MatchEndPayload struct {
	MatchID     string        `json:"matchId"`
	Winner      string        `json:"winner"`
	Tie         bool          `json:"tie"`
	Reason      string        `json:"reason"`
	FinalScores []PlayerScore `json:"finalScores"`
}

// JoinPayload is the body of lobby_join and create_or_join_match.
type JoinPayload struct {
	UserID      string `json:"userId,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
}

// SelectChoicePayload is the body of select_choice. Either dimension may be omitted.
type SelectChoicePayload struct {
	MatchID  string `json:"matchId"`
	PlayerID string `json:"playerId,omitempty"`
	Height   string `json:"height,omitempty"`
	Side     string `json:"side,omitempty"`
}

// MatchCompletedPayload is published to the event bus after a match finishes.
type MatchCompletedPayload struct {
	MatchID     string        `json:"match_id"`
	Winner      string        `json:"winner"`
	FinalScores []PlayerScore `json:"final_scores"`
	CompletedAt time.Time     `json:"completed_at"`
}
