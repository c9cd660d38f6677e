// Package exportjob renders queued exports in the background.
package exportjob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/kalambet/futuresim/internal/complexity"
	"github.com/kalambet/futuresim/internal/export"
	"github.com/kalambet/futuresim/internal/metrics"
	"github.com/kalambet/futuresim/internal/progress"
	"github.com/kalambet/futuresim/internal/storage"
)

// JobType is the jobs.type value the worker claims.
const JobType = "export"

// JobID is the queue ID of the job rendering export exportID.
func JobID(exportID string) string {
	return JobType + "-" + exportID
}

// JobStore abstracts the job queue and the records an export reads and writes.
type JobStore interface {
	ClaimNextJob(types []string) (*storage.Job, error)
	CompleteJob(id string) error
	FailJob(id string, errMsg string) error
	AbandonJob(id string, errMsg string) error
	GetExport(id string) (storage.Export, error)
	GetFuture(ctx context.Context, id string) (storage.FutureRecord, error)
	LoadProgress(ctx context.Context) (progress.Snapshot, error)
	FinishExport(id, contentType, filename string, body []byte) error
	FailExport(id, msg string) error
}

// RenderFunc turns an input into a document. export.Render is the default.
type RenderFunc func(format string, in export.Input) (export.Result, error)

// Payload is the JSON stored in jobs.payload_json.
type Payload struct {
	ExportID        string `json:"export_id"`
	IncludeProgress bool   `json:"include_progress,omitempty"`
	IncludeInsights bool   `json:"include_insights,omitempty"`
}

// Worker processes export jobs from the SQLite job queue.
type Worker struct {
	store   JobStore
	render  RenderFunc
	poll    time.Duration
	now     func() time.Time
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// NewWorker creates a Worker. A nil render uses export.Render; a
// pollInterval <= 0 defaults to 500ms. m may be nil.
func NewWorker(store JobStore, render RenderFunc, m *metrics.Metrics, pollInterval time.Duration) *Worker {
	if render == nil {
		render = export.Render
	}
	if pollInterval <= 0 {
		pollInterval = 500 * time.Millisecond
	}
	return &Worker{
		store:   store,
		render:  render,
		poll:    pollInterval,
		now:     time.Now,
		metrics: m,
		logger:  slog.Default(),
	}
}

// Run polls for jobs until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		done, err := w.RunOnce(ctx)
		if err != nil {
			w.logger.Error("export worker iteration failed", "error", err)
		}
		if done {
			continue
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.poll):
		}
	}
}

// RunOnce claims and processes a single export job.
// Returns true if a job was processed (regardless of success/failure).
func (w *Worker) RunOnce(ctx context.Context) (bool, error) {
	job, err := w.store.ClaimNextJob([]string{JobType})
	if err != nil {
		return false, fmt.Errorf("claiming job: %w", err)
	}
	if job == nil {
		return false, nil
	}

	if err := w.processJob(ctx, job); err != nil {
		w.logger.Warn("export job failed", "job_id", job.ID, "attempt", job.Attempts+1, "error", err)
		permanent := errors.Is(err, errPermanent)
		var qErr error
		if permanent {
			qErr = w.store.AbandonJob(job.ID, err.Error())
		} else {
			qErr = w.store.FailJob(job.ID, err.Error())
		}
		if qErr != nil {
			w.logger.Error("failed to mark job as failed", "job_id", job.ID, "error", qErr)
		}
		// The export row only turns failed once the queue gives up on the job.
		if permanent || job.Attempts+1 >= job.MaxAttempts {
			w.failExport(job, err)
		}
		return true, nil
	}

	if err := w.store.CompleteJob(job.ID); err != nil {
		return true, fmt.Errorf("completing job %s: %w", job.ID, err)
	}
	return true, nil
}

var errPermanent = errors.New("permanent export failure")

func (w *Worker) failExport(job *storage.Job, cause error) {
	var p Payload
	if err := json.Unmarshal([]byte(job.PayloadJSON), &p); err != nil || p.ExportID == "" {
		return
	}
	if err := w.store.FailExport(p.ExportID, cause.Error()); err != nil && !errors.Is(err, storage.ErrNotFound) {
		w.logger.Error("failed to mark export as failed", "export_id", p.ExportID, "error", err)
	}
}

func (w *Worker) processJob(ctx context.Context, job *storage.Job) (err error) {
	var payload Payload
	if err := json.Unmarshal([]byte(job.PayloadJSON), &payload); err != nil {
		return fmt.Errorf("%w: parsing payload: %v", errPermanent, err)
	}

	exp, err := w.store.GetExport(payload.ExportID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: export %s no longer exists", errPermanent, payload.ExportID)
	}
	if err != nil {
		return fmt.Errorf("loading export %s: %w", payload.ExportID, err)
	}
	defer func() { w.metrics.ObserveExport(exp.Format, err) }()

	rec, err := w.store.GetFuture(ctx, exp.FutureID)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: future %s no longer exists", errPermanent, exp.FutureID)
	}
	if err != nil {
		return fmt.Errorf("loading future %s: %w", exp.FutureID, err)
	}

	in := export.Input{
		Profile:    rec.Profile,
		Projection: rec.Projection,
		ExportedAt: w.now(),
	}
	if payload.IncludeProgress {
		snap, err := w.store.LoadProgress(ctx)
		if err != nil {
			return fmt.Errorf("loading progress: %w", err)
		}
		in.Progress = &snap
	}
	if payload.IncludeInsights {
		a, err := complexity.Analyze(rec.Profile.Dream)
		if err != nil {
			return fmt.Errorf("%w: analyzing dream: %v", errPermanent, err)
		}
		in.Insights = complexity.ActionableInsights(a)
	}

	res, err := w.render(exp.Format, in)
	if errors.Is(err, export.ErrUnsupportedFormat) {
		return fmt.Errorf("%w: %v", errPermanent, err)
	}
	if err != nil {
		return fmt.Errorf("rendering %s: %w", exp.Format, err)
	}

	if err := w.store.FinishExport(exp.ID, res.ContentType, res.Filename, res.Body); err != nil {
		return fmt.Errorf("storing export %s: %w", exp.ID, err)
	}
	w.logger.Info("export rendered", "export_id", exp.ID, "format", res.Format, "bytes", len(res.Body))
	return nil
}
