package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kalambet/futuresim/internal/coach"
)

const assessmentColumns = `id, stage, percentage, overdue, recommendations_json, encouragement, warnings_json, created_at`

func (s *Store) SaveAssessment(a coach.Assessment) error {
	recs, err := json.Marshal(a.Recommendations)
	if err != nil {
		return fmt.Errorf("encoding recommendations: %w", err)
	}
	warnings, err := json.Marshal(a.Warnings)
	if err != nil {
		return fmt.Errorf("encoding warnings: %w", err)
	}
	_, err = s.db.Exec(`INSERT INTO coach_assessments (`+assessmentColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, string(a.Stage), a.Percentage, a.Overdue, string(recs), a.Encouragement, string(warnings), formatTime(a.CreatedAt))
	return err
}

// LatestAssessment returns the most recent assessment.
func (s *Store) LatestAssessment(ctx context.Context) (coach.Assessment, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+assessmentColumns+` FROM coach_assessments ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	a, err := scanAssessment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return coach.Assessment{}, ErrNotFound
	}
	return a, err
}

// ListAssessments returns assessments at or after since, oldest first.
func (s *Store) ListAssessments(ctx context.Context, since time.Time) ([]coach.Assessment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+assessmentColumns+` FROM coach_assessments
		WHERE created_at >= ? ORDER BY created_at ASC, rowid ASC`, formatTime(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []coach.Assessment
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func scanAssessment(sc scanner) (coach.Assessment, error) {
	var a coach.Assessment
	var stage, recs, warnings, createdAt string
	if err := sc.Scan(&a.ID, &stage, &a.Percentage, &a.Overdue, &recs, &a.Encouragement, &warnings, &createdAt); err != nil {
		return coach.Assessment{}, err
	}
	a.Stage = coach.Stage(stage)
	if err := json.Unmarshal([]byte(recs), &a.Recommendations); err != nil {
		return coach.Assessment{}, fmt.Errorf("decoding recommendations: %w", err)
	}
	if err := json.Unmarshal([]byte(warnings), &a.Warnings); err != nil {
		return coach.Assessment{}, fmt.Errorf("decoding warnings: %w", err)
	}
	var err error
	if a.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return coach.Assessment{}, err
	}
	return a, nil
}
