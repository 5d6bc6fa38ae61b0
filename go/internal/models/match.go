package models

import (
	"time"

	"github.com/google/uuid"
)

// TieLabel is reported as the winner label when final scores are equal.
const TieLabel = "Tie"

// FinalScore is one player's score at the end of a match.
type FinalScore struct {
	Player string `json:"player"`
	Score  int    `json:"score"`
}

// MatchRecord is the row appended to the result store for every completed match.
type MatchRecord struct {
	ID           uuid.UUID    `json:"id"`
	MatchID      string       `json:"match_id"`
	Player1      string       `json:"player1"`
	Player2      string       `json:"player2"`
	Player1Score int          `json:"player1_score"`
	Player2Score int          `json:"player2_score"`
	Winner       string       `json:"winner"`
	FinalScores  []FinalScore `json:"final_scores,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}
