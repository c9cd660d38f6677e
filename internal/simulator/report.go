package simulator

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kalambet/futuresim/internal/analytics"
	"github.com/kalambet/futuresim/internal/progress"
	"github.com/kalambet/futuresim/internal/storage"
)

// Report is an analytics report together with the future it describes.
type Report struct {
	Future storage.FutureRecord `json:"future"`
	analytics.Report
}

// Report loads the future, the progress ledger and the activity history
// concurrently and aggregates them. An empty id selects the latest future.
func (s *Service) Report(ctx context.Context, id string) (Report, error) {
	var (
		rec    storage.FutureRecord
		snap   progress.Snapshot
		events []analytics.Event
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rec, err = s.Future(gCtx, id)
		if err != nil {
			return fmt.Errorf("loading future: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		snap, err = s.store.LoadProgress(gCtx)
		if err != nil {
			return fmt.Errorf("loading progress: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		events, err = s.store.ListEvents(gCtx, time.Time{})
		if err != nil {
			return fmt.Errorf("loading activity: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Report{}, err
	}

	var snapPtr *progress.Snapshot
	if len(snap.Milestones) > 0 {
		snapPtr = &snap
	}
	r, err := s.aggregator.Report(rec.Profile, rec.Projection, snapPtr, events)
	if err != nil {
		return Report{}, err
	}
	return Report{Future: rec, Report: r}, nil
}
