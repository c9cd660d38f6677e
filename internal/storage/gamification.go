package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kalambet/futuresim/internal/gamification"
)

// LoadGamification returns the points ledger, or a fresh one when nothing
// has been recorded yet.
func (s *Store) LoadGamification(ctx context.Context) (gamification.State, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT state_json FROM gamification_state WHERE id = 1`).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return gamification.NewState(), nil
	}
	if err != nil {
		return gamification.State{}, err
	}
	return decodeGamification(raw)
}

// UpdateGamification reads the ledger, passes it to fn and stores what fn
// returns, all in one transaction. An error from fn leaves the ledger
// unchanged and is returned as is.
func (s *Store) UpdateGamification(ctx context.Context, fn func(gamification.State) (gamification.State, error)) (gamification.State, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return gamification.State{}, fmt.Errorf("beginning gamification transaction: %w", err)
	}
	defer tx.Rollback()

	st := gamification.NewState()
	var raw string
	err = tx.QueryRowContext(ctx, `SELECT state_json FROM gamification_state WHERE id = 1`).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return gamification.State{}, err
	default:
		if st, err = decodeGamification(raw); err != nil {
			return gamification.State{}, err
		}
	}

	next, err := fn(st)
	if err != nil {
		return gamification.State{}, err
	}
	b, err := json.Marshal(next)
	if err != nil {
		return gamification.State{}, fmt.Errorf("encoding gamification state: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO gamification_state (id, state_json, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET state_json = excluded.state_json, updated_at = excluded.updated_at`,
		string(b), s.timestamp(),
	); err != nil {
		return gamification.State{}, fmt.Errorf("saving gamification state: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return gamification.State{}, err
	}
	return next, nil
}

func decodeGamification(raw string) (gamification.State, error) {
	st := gamification.NewState()
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		return gamification.State{}, fmt.Errorf("decoding gamification state: %w", err)
	}
	return st, nil
}
