package results

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mcdev12/shootout/go/internal/models"
	"github.com/sqlc-dev/pqtype"
)

//go:embed schema.sql
var schema string

// DBTX is the subset of a pgx pool or transaction the repository uses.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Repository persists completed matches to Postgres
type Repository struct {
	db DBTX
}

// NewRepository creates a new match results repository
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

// Migrate creates the matches table if it does not exist.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

const appendMatch = `
INSERT INTO matches (
  id, match_id, player1, player2, player1_score, player2_score, winner, final_scores, created_at
) VALUES (
  $1, $2, $3, $4, $5, $6, $7, $8, $9
)
ON CONFLICT (match_id) DO NOTHING`

// AppendMatch inserts one completed match. A record whose match id is already stored is ignored.
func (r *Repository) AppendMatch(ctx context.Context, record models.MatchRecord) error {
	finalScores, err := toFinalScoresColumn(record.FinalScores)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, appendMatch,
		record.ID, record.MatchID, record.Player1, record.Player2,
		record.Player1Score, record.Player2Score, record.Winner, finalScores, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert match %s: %w", record.MatchID, err)
	}
	return nil
}

const listRecent = `
SELECT id, match_id, player1, player2, player1_score, player2_score, winner, final_scores, created_at
FROM matches
ORDER BY created_at DESC
LIMIT $1`

// ListRecent returns the latest limit records, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]models.MatchRecord, error) {
	rows, err := r.db.Query(ctx, listRecent, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	defer rows.Close()

	records := []models.MatchRecord{}
	for rows.Next() {
		var (
			id          uuid.UUID
			rec         models.MatchRecord
			finalScores pqtype.NullRawMessage
			createdAt   time.Time
		)
		if err := rows.Scan(
			&id, &rec.MatchID, &rec.Player1, &rec.Player2,
			&rec.Player1Score, &rec.Player2Score, &rec.Winner, &finalScores, &createdAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", err)
		}
		rec.ID = id
		rec.CreatedAt = createdAt.UTC()
		if rec.FinalScores, err = fromFinalScoresColumn(finalScores); err != nil {
			return nil, fmt.Errorf("match %s: %w", rec.MatchID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate match rows: %w", err)
	}
	return records, nil
}

func toFinalScoresColumn(scores []models.FinalScore) (pqtype.NullRawMessage, error) {
	if len(scores) == 0 {
		return pqtype.NullRawMessage{}, nil
	}
	raw, err := json.Marshal(scores)
	if err != nil {
		return pqtype.NullRawMessage{}, fmt.Errorf("failed to marshal final scores: %w", err)
	}
	return pqtype.NullRawMessage{RawMessage: raw, Valid: true}, nil
}

func fromFinalScoresColumn(col pqtype.NullRawMessage) ([]models.FinalScore, error) {
	if !col.Valid || len(col.RawMessage) == 0 {
		return nil, nil
	}
	var scores []models.FinalScore
	if err := json.Unmarshal(col.RawMessage, &scores); err != nil {
		return nil, fmt.Errorf("failed to unmarshal final scores: %w", err)
	}
	return scores, nil
}
