package simulator

import (
	"context"
	"errors"
	"fmt"

	"github.com/kalambet/futuresim/internal/coach"
	"github.com/kalambet/futuresim/internal/storage"
)

// Coach assesses the current ledger against the previous assessment and
// stores the result.
func (s *Service) Coach(ctx context.Context) (coach.Assessment, error) {
	stats, err := s.ProgressStats(ctx)
	if err != nil {
		return coach.Assessment{}, fmt.Errorf("loading progress: %w", err)
	}
	var last *coach.Assessment
	prev, err := s.store.LatestAssessment(ctx)
	switch {
	case err == nil:
		last = &prev
	case !errors.Is(err, storage.ErrNotFound):
		return coach.Assessment{}, fmt.Errorf("loading last assessment: %w", err)
	}

	a := coach.Assess(stats, last, s.now())
	if err := s.store.SaveAssessment(a); err != nil {
		return coach.Assessment{}, fmt.Errorf("saving assessment: %w", err)
	}
	s.logger.Info("progress assessed", "stage", a.Stage, "warnings", len(a.Warnings))
	return a, nil
}

// WeeklyReview summarizes the last week of assessments against the dream
// of the latest future.
func (s *Service) WeeklyReview(ctx context.Context) (coach.WeeklyReview, error) {
	now := s.now()
	recent, err := s.store.ListAssessments(ctx, now.Add(-coach.ReviewWindow))
	if err != nil {
		return coach.WeeklyReview{}, fmt.Errorf("loading assessments: %w", err)
	}
	snap, err := s.store.LoadProgress(ctx)
	if err != nil {
		return coach.WeeklyReview{}, fmt.Errorf("loading progress: %w", err)
	}
	dream, err := s.latestDream(ctx)
	if err != nil {
		return coach.WeeklyReview{}, err
	}
	return coach.Review(recent, snap.ProgressPercentage, dream, now), nil
}

// DailyMotivation returns today's motivation card for the latest dream.
func (s *Service) DailyMotivation(ctx context.Context) (coach.Daily, error) {
	dream, err := s.latestDream(ctx)
	if err != nil {
		return coach.Daily{}, err
	}
	return coach.DailyMotivation(dream, s.now()), nil
}

// latestDream is the dream of the latest future, or "" when none exists.
func (s *Service) latestDream(ctx context.Context) (string, error) {
	rec, err := s.store.LatestFuture(ctx)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("loading latest future: %w", err)
	}
	return rec.Profile.Dream, nil
}
