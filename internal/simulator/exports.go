package simulator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/kalambet/futuresim/internal/export"
	"github.com/kalambet/futuresim/internal/exportjob"
	"github.com/kalambet/futuresim/internal/storage"
)

// ExportRequest asks for a rendered document of one future.
type ExportRequest struct {
	FutureID        string `json:"futureId"`
	Format          string `json:"format"`
	IncludeProgress bool   `json:"includeProgress"`
	IncludeInsights bool   `json:"includeInsights"`
}

// RequestExport queues an export job and returns the pending export.
func (s *Service) RequestExport(ctx context.Context, req ExportRequest) (storage.Export, error) {
	format, err := export.Normalize(req.Format)
	if err != nil {
		return storage.Export{}, err
	}
	rec, err := s.Future(ctx, req.FutureID)
	if err != nil {
		return storage.Export{}, err
	}

	exp := storage.Export{
		ID:       uuid.New().String(),
		FutureID: rec.ID,
		Format:   format,
		Status:   storage.ExportPending,
	}
	if err := s.store.SaveExport(exp); err != nil {
		return storage.Export{}, fmt.Errorf("saving export: %w", err)
	}

	payload, err := json.Marshal(exportjob.Payload{
		ExportID:        exp.ID,
		IncludeProgress: req.IncludeProgress,
		IncludeInsights: req.IncludeInsights,
	})
	if err != nil {
		return storage.Export{}, fmt.Errorf("encoding job payload: %w", err)
	}
	job := storage.Job{
		ID:          exportjob.JobID(exp.ID),
		Type:        exportjob.JobType,
		PayloadJSON: string(payload),
	}
	if err := s.store.EnqueueJob(job); err != nil {
		return storage.Export{}, fmt.Errorf("enqueueing export: %w", err)
	}
	return s.store.GetExport(exp.ID)
}

// Export returns an export. While it is pending, Attempts and Error carry
// the state of its job so callers can see retries.
func (s *Service) Export(id string) (storage.Export, error) {
	exp, err := s.store.GetExport(id)
	if err != nil || exp.Status != storage.ExportPending {
		return exp, err
	}
	job, err := s.store.GetJob(exportjob.JobID(id))
	if err != nil {
		if IsNotFound(err) {
			return exp, nil
		}
		return storage.Export{}, fmt.Errorf("loading export job: %w", err)
	}
	exp.Attempts = job.Attempts
	exp.Error = job.LastError
	return exp, nil
}
