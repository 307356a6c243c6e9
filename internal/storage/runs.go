package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/vovakirdan/glitch-jump/internal/run"
)

// RunDetail holds the less frequently queried run fields. It is stored as a
// msgpack blob.
type RunDetail struct {
	Frames        int    `msgpack:"frames"`
	Reason        string `msgpack:"reason"`
	DurationMS    int64  `msgpack:"duration_ms"`
	NewRecord     bool   `msgpack:"new_record"`
	CloseToRecord bool   `msgpack:"close_to_record"`
	Skin          string `msgpack:"skin"`
	Boxes         int    `msgpack:"boxes"`
}

// RunRecord is one finished run.
type RunRecord struct {
	ID         uuid.UUID
	Profile    string
	Score      int
	Coins      int
	Stars      int
	NearMisses int
	Detail     RunDetail
	CreatedAt  time.Time
}

// ProfileStats aggregates the run history of a profile.
type ProfileStats struct {
	Profile    string
	Runs       int
	BestScore  int
	AvgScore   float64
	TotalCoins int64
	Stars      int64
	NearMisses int64
	LastPlayed time.Time
}

// SaveRun records a finished run. A zero ID is replaced with a new one.
func (s *Store) SaveRun(ctx context.Context, r RunRecord) (uuid.UUID, error) {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	detail, err := msgpack.Marshal(&r.Detail)
	if err != nil {
		return uuid.Nil, fmt.Errorf("storage: cannot encode run detail: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (id, profile, score, coins, stars, near_misses, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.ID.String(), r.Profile, r.Score, r.Coins, r.Stars, r.NearMisses, detail,
	)
	if err != nil {
		return uuid.Nil, fmt.Errorf("storage: cannot save run: %w", err)
	}
	return r.ID, nil
}

// TopRuns retrieves the best N runs of a profile, ordered by score descending.
func (s *Store) TopRuns(ctx context.Context, profile string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, profile, score, coins, stars, near_misses, detail, created_at
		 FROM runs
		 WHERE profile = ?
		 ORDER BY score DESC, created_at ASC
		 LIMIT ?`,
		profile, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query runs: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var (
			r         RunRecord
			id        string
			detail    []byte
			createdAt any
		)
		if err := rows.Scan(&id, &r.Profile, &r.Score, &r.Coins, &r.Stars, &r.NearMisses, &detail, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		if r.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("storage: bad run id %q: %w", id, err)
		}
		if len(detail) > 0 {
			if err := msgpack.Unmarshal(detail, &r.Detail); err != nil {
				return nil, fmt.Errorf("storage: cannot decode run detail: %w", err)
			}
		}
		r.CreatedAt = parseTime(createdAt)
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return records, nil
}

// ProfileStats aggregates the run history of a profile. A profile without runs
// yields zero stats.
func (s *Store) ProfileStats(ctx context.Context, profile string) (*ProfileStats, error) {
	stats := &ProfileStats{Profile: profile}
	var lastPlayed any

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(MAX(score), 0), COALESCE(AVG(score), 0),
		        COALESCE(SUM(coins), 0), COALESCE(SUM(stars), 0), COALESCE(SUM(near_misses), 0),
		        MAX(created_at)
		 FROM runs WHERE profile = ?`,
		profile,
	).Scan(&stats.Runs, &stats.BestScore, &stats.AvgScore,
		&stats.TotalCoins, &stats.Stars, &stats.NearMisses, &lastPlayed)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot get profile stats: %w", err)
	}
	stats.LastPlayed = parseTime(lastPlayed)

	return stats, nil
}

// ClearRuns deletes the run history of a profile. Economy state is kept.
func (s *Store) ClearRuns(ctx context.Context, profile string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM runs WHERE profile = ?", profile)
	if err != nil {
		return fmt.Errorf("storage: cannot clear runs: %w", err)
	}
	return nil
}

// SaveRunResult implements run.ResultSaver.
func (s *Store) SaveRunResult(ctx context.Context, summary run.Summary, outcome run.Outcome) error {
	if summary.Profile == "" {
		return errors.New("storage: run has no profile")
	}
	_, err := s.SaveRun(ctx, RunRecord{
		ID:         summary.ID,
		Profile:    summary.Profile,
		Score:      summary.Score,
		Coins:      outcome.Deposited,
		Stars:      summary.Stars,
		NearMisses: summary.NearMisses,
		Detail: RunDetail{
			Frames:        summary.Frames,
			Reason:        summary.Reason.String(),
			DurationMS:    summary.Duration().Milliseconds(),
			NewRecord:     outcome.NewRecord,
			CloseToRecord: outcome.CloseToRecord,
			Skin:          summary.Skin,
			Boxes:         summary.BoxesEarned,
		},
	})
	return err
}

// Ensure Store implements run.ResultSaver
var _ run.ResultSaver = (*Store)(nil)
