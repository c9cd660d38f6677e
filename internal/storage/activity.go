package storage

import (
	"context"
	"time"

	"github.com/kalambet/futuresim/internal/analytics"
)

func (s *Store) RecordEvent(e analytics.Event) error {
	ts := e.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}
	_, err := s.db.Exec(`INSERT INTO activity_events (id, type, session_id, created_at) VALUES (?, ?, ?, ?)`,
		e.ID, e.Type, e.SessionID, formatTime(ts))
	return err
}

// ListEvents returns events at or after since, oldest first. A zero since
// returns the whole history.
func (s *Store) ListEvents(ctx context.Context, since time.Time) ([]analytics.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, type, session_id, created_at FROM activity_events
		WHERE created_at >= ? ORDER BY created_at ASC, rowid ASC`, formatTime(since))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []analytics.Event
	for rows.Next() {
		var e analytics.Event
		var createdAt string
		if err := rows.Scan(&e.ID, &e.Type, &e.SessionID, &createdAt); err != nil {
			return nil, err
		}
		if e.Timestamp, err = parseTime("created_at", createdAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
