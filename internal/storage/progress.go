package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kalambet/futuresim/internal/progress"
)

// LoadProgress assembles the ledger snapshot: milestones in creation order,
// unlocked achievements and counters.
func (s *Store) LoadProgress(ctx context.Context) (progress.Snapshot, error) {
	milestones, err := s.listMilestones(ctx)
	if err != nil {
		return progress.Snapshot{}, err
	}
	achievements, err := s.listAchievements(ctx)
	if err != nil {
		return progress.Snapshot{}, err
	}
	counters, err := s.counters(ctx)
	if err != nil {
		return progress.Snapshot{}, err
	}
	return progress.NewSnapshot(milestones, achievements, counters), nil
}

func (s *Store) SaveMilestone(m progress.Milestone) error {
	_, err := s.db.Exec(`
		INSERT INTO milestones (id, title, description, category, completed, created_at, target_date, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Title, m.Description, m.Category, m.Completed,
		formatTime(m.CreatedAt), m.TargetDate, nullableTime(m.CompletedAt),
	)
	return err
}

func (s *Store) GetMilestone(id string) (progress.Milestone, error) {
	row := s.db.QueryRow(`
		SELECT id, title, description, category, completed, created_at, target_date, completed_at
		FROM milestones WHERE id = ?`, id)
	m, err := scanMilestone(row)
	if errors.Is(err, sql.ErrNoRows) {
		return progress.Milestone{}, ErrNotFound
	}
	return m, err
}

// UpdateMilestone persists the completion state of m.
func (s *Store) UpdateMilestone(m progress.Milestone) error {
	res, err := s.db.Exec(`UPDATE milestones SET completed = ?, completed_at = ? WHERE id = ?`,
		m.Completed, nullableTime(m.CompletedAt), m.ID)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

func (s *Store) DeleteMilestone(id string) error {
	res, err := s.db.Exec(`DELETE FROM milestones WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// SaveAchievements records newly unlocked achievements. Achievements that
// are already stored keep their original unlock time.
func (s *Store) SaveAchievements(as []progress.Achievement) error {
	if len(as) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning achievements transaction: %w", err)
	}
	defer tx.Rollback()

	for _, a := range as {
		if _, err := tx.Exec(`
			INSERT INTO achievements (id, title, description, type, unlocked_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING`,
			a.ID, a.Title, a.Description, a.Type, formatTime(a.UnlockedAt),
		); err != nil {
			return fmt.Errorf("saving achievement %s: %w", a.ID, err)
		}
	}
	return tx.Commit()
}

// ApplyMutations applies counter changes atomically.
func (s *Store) ApplyMutations(ms ...progress.Mutation) error {
	if len(ms) == 0 {
		return nil
	}
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning mutation transaction: %w", err)
	}
	defer tx.Rollback()

	for _, m := range ms {
		if _, err := tx.Exec(`
			INSERT INTO counters (name, value) VALUES (?, ?)
			ON CONFLICT(name) DO UPDATE SET value = value + excluded.value`,
			string(m.Counter), m.Delta,
		); err != nil {
			return fmt.Errorf("applying %s: %w", m.Counter, err)
		}
	}
	return tx.Commit()
}

func (s *Store) listMilestones(ctx context.Context) ([]progress.Milestone, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, category, completed, created_at, target_date, completed_at
		FROM milestones ORDER BY created_at ASC, rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []progress.Milestone
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (s *Store) listAchievements(ctx context.Context) ([]progress.Achievement, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, description, type, unlocked_at
		FROM achievements ORDER BY unlocked_at ASC, rowid ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []progress.Achievement
	for rows.Next() {
		var a progress.Achievement
		var unlockedAt string
		if err := rows.Scan(&a.ID, &a.Title, &a.Description, &a.Type, &unlockedAt); err != nil {
			return nil, err
		}
		if a.UnlockedAt, err = parseTime("unlocked_at", unlockedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) counters(ctx context.Context) (map[progress.Counter]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, value FROM counters`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[progress.Counter]int)
	for rows.Next() {
		var name string
		var v int
		if err := rows.Scan(&name, &v); err != nil {
			return nil, err
		}
		out[progress.Counter(name)] = v
	}
	return out, rows.Err()
}

func scanMilestone(sc scanner) (progress.Milestone, error) {
	var m progress.Milestone
	var createdAt string
	var completedAt sql.NullString
	if err := sc.Scan(&m.ID, &m.Title, &m.Description, &m.Category, &m.Completed,
		&createdAt, &m.TargetDate, &completedAt); err != nil {
		return progress.Milestone{}, err
	}
	var err error
	if m.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return progress.Milestone{}, err
	}
	if completedAt.Valid {
		t, err := parseTime("completed_at", completedAt.String)
		if err != nil {
			return progress.Milestone{}, err
		}
		m.CompletedAt = &t
	}
	return m, nil
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return formatTime(*t)
}
