package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

const futureColumns = `id, created_at, recovery, profile_json, projection_json`

// SaveFuture inserts rec. The caller assigns ID and CreatedAt.
func (s *Store) SaveFuture(rec FutureRecord) error {
	profileJSON, err := json.Marshal(rec.Profile)
	if err != nil {
		return fmt.Errorf("encoding profile: %w", err)
	}
	projectionJSON, err := json.Marshal(rec.Projection)
	if err != nil {
		return fmt.Errorf("encoding projection: %w", err)
	}
	recovery := rec.Recovery
	if recovery == "" {
		recovery = "none"
	}
	_, err = s.db.Exec(`
		INSERT INTO futures (id, created_at, user_name, country, score, recovery, profile_json, projection_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, formatTime(rec.CreatedAt), rec.Profile.Name, rec.Profile.Country,
		rec.Projection.Score, recovery, string(profileJSON), string(projectionJSON),
	)
	return err
}

func (s *Store) GetFuture(ctx context.Context, id string) (FutureRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+futureColumns+` FROM futures WHERE id = ?`, id)
	rec, err := scanFuture(row)
	if errors.Is(err, sql.ErrNoRows) {
		return FutureRecord{}, ErrNotFound
	}
	return rec, err
}

// LatestFuture returns the most recently created future.
func (s *Store) LatestFuture(ctx context.Context) (FutureRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+futureColumns+` FROM futures ORDER BY created_at DESC, rowid DESC LIMIT 1`)
	rec, err := scanFuture(row)
	if errors.Is(err, sql.ErrNoRows) {
		return FutureRecord{}, ErrNotFound
	}
	return rec, err
}

// ListFutures returns up to limit futures, newest first.
func (s *Store) ListFutures(limit int) ([]FutureRecord, error) {
	rows, err := s.db.Query(`SELECT `+futureColumns+` FROM futures ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []FutureRecord{}
	for rows.Next() {
		rec, err := scanFuture(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

// DeleteFuture removes the future and any exports rendered from it.
func (s *Store) DeleteFuture(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning delete transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM futures WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := checkAffected(res); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM exports WHERE future_id = ?`, id); err != nil {
		return fmt.Errorf("deleting exports: %w", err)
	}
	return tx.Commit()
}

// FutureStats aggregates all saved futures. With none saved the most common
// country is "N/A" and every number is zero.
func (s *Store) FutureStats() (FutureStats, error) {
	var st FutureStats
	var avg sql.NullFloat64
	var hi, lo sql.NullInt64
	err := s.db.QueryRow(`SELECT COUNT(*), AVG(score), MAX(score), MIN(score) FROM futures`).
		Scan(&st.TotalFutures, &avg, &hi, &lo)
	if err != nil {
		return FutureStats{}, err
	}
	st.MostCommonCountry = "N/A"
	if st.TotalFutures == 0 {
		return st, nil
	}
	st.AverageScore = int(math.Round(avg.Float64))
	st.HighestScore = int(hi.Int64)
	st.LowestScore = int(lo.Int64)

	err = s.db.QueryRow(`
		SELECT country FROM futures
		GROUP BY country
		ORDER BY COUNT(*) DESC, MIN(created_at) ASC
		LIMIT 1`).Scan(&st.MostCommonCountry)
	if err != nil {
		return FutureStats{}, fmt.Errorf("finding most common country: %w", err)
	}
	return st, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFuture(sc scanner) (FutureRecord, error) {
	var rec FutureRecord
	var createdAt, profileJSON, projectionJSON string
	if err := sc.Scan(&rec.ID, &createdAt, &rec.Recovery, &profileJSON, &projectionJSON); err != nil {
		return FutureRecord{}, err
	}
	var err error
	if rec.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return FutureRecord{}, err
	}
	if err := json.Unmarshal([]byte(profileJSON), &rec.Profile); err != nil {
		return FutureRecord{}, fmt.Errorf("decoding profile of future %s: %w", rec.ID, err)
	}
	if err := json.Unmarshal([]byte(projectionJSON), &rec.Projection); err != nil {
		return FutureRecord{}, fmt.Errorf("decoding projection of future %s: %w", rec.ID, err)
	}
	return rec, nil
}
