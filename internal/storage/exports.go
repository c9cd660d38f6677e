package storage

import (
	"database/sql"
	"errors"
)

// SaveExport inserts a pending export.
func (s *Store) SaveExport(e Export) error {
	now := s.timestamp()
	status := e.Status
	if status == "" {
		status = ExportPending
	}
	_, err := s.db.Exec(`
		INSERT INTO exports (id, future_id, format, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.ID, e.FutureID, e.Format, status, now, now,
	)
	return err
}

func (s *Store) GetExport(id string) (Export, error) {
	var e Export
	var body []byte
	var createdAt, updatedAt string
	err := s.db.QueryRow(`
		SELECT id, future_id, format, status, content_type, filename, body, error, created_at, updated_at
		FROM exports WHERE id = ?`, id,
	).Scan(&e.ID, &e.FutureID, &e.Format, &e.Status, &e.ContentType, &e.Filename, &body, &e.Error, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Export{}, ErrNotFound
	}
	if err != nil {
		return Export{}, err
	}
	e.Body = body
	if e.CreatedAt, err = parseTime("created_at", createdAt); err != nil {
		return Export{}, err
	}
	if e.UpdatedAt, err = parseTime("updated_at", updatedAt); err != nil {
		return Export{}, err
	}
	return e, nil
}

// FinishExport stores the rendered document and marks the export ready.
func (s *Store) FinishExport(id, contentType, filename string, body []byte) error {
	res, err := s.db.Exec(`
		UPDATE exports SET status = ?, content_type = ?, filename = ?, body = ?, error = '', updated_at = ?
		WHERE id = ?`,
		ExportReady, contentType, filename, body, s.timestamp(), id,
	)
	if err != nil {
		return err
	}
	return checkAffected(res)
}

// FailExport marks the export failed with msg.
func (s *Store) FailExport(id, msg string) error {
	res, err := s.db.Exec(`UPDATE exports SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		ExportFailed, msg, s.timestamp(), id)
	if err != nil {
		return err
	}
	return checkAffected(res)
}
