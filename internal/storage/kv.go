package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/vovakirdan/glitch-jump/internal/economy"
)

// ProfileKV is the economy key-value store of one profile.
type ProfileKV struct {
	db      *sql.DB
	profile string
}

// Profile returns the key-value view of the named profile.
func (s *Store) Profile(name string) *ProfileKV {
	return &ProfileKV{db: s.db, profile: name}
}

// Name returns the profile name.
func (p *ProfileKV) Name() string {
	return p.profile
}

// Get implements economy.KV.
func (p *ProfileKV) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.db.QueryRowContext(ctx,
		"SELECT value FROM kv WHERE profile = ? AND key = ?",
		p.profile, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("storage: cannot read %s: %w", key, err)
	}
	return value, true, nil
}

// Set implements economy.KV.
func (p *ProfileKV) Set(ctx context.Context, key, value string) error {
	if err := upsert(ctx, p.db, p.profile, key, value); err != nil {
		return fmt.Errorf("storage: cannot write %s: %w", key, err)
	}
	return nil
}

// SetMany implements economy.KV. All pairs are written in one transaction.
func (p *ProfileKV) SetMany(ctx context.Context, pairs map[string]string) error {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	for _, key := range slices.Sorted(maps.Keys(pairs)) {
		if err := upsert(ctx, tx, p.profile, key, pairs[key]); err != nil {
			return fmt.Errorf("storage: cannot write %s: %w", key, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit: %w", err)
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func upsert(ctx context.Context, db execer, profile, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO kv (profile, key, value, updated_at) VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(profile, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		profile, key, value,
	)
	return err
}

// Profiles lists every profile that has stored economy state or runs.
func (s *Store) Profiles(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT profile FROM kv UNION SELECT profile FROM runs ORDER BY profile`,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot list profiles: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("storage: cannot scan profile: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return names, nil
}

var _ economy.KV = (*ProfileKV)(nil)
