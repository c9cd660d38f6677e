package storage

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/kalambet/futuresim/internal/coach"
	"github.com/kalambet/futuresim/internal/gamification"
	"github.com/kalambet/futuresim/internal/progress"
)

func TestGamification_EmptyLedger(t *testing.T) {
	s := openTestStore(t)
	st, err := s.LoadGamification(t.Context())
	if err != nil {
		t.Fatalf("LoadGamification: %v", err)
	}
	if st.Level != 1 || st.Points != 0 || st.Badges == nil {
		t.Errorf("empty ledger = %+v", st)
	}
}

func TestUpdateGamification(t *testing.T) {
	s := openTestStore(t)
	ctx := t.Context()
	now := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)

	for range 2 {
		if _, err := s.UpdateGamification(ctx, func(st gamification.State) (gamification.State, error) {
			next, _ := gamification.Apply(st, now, gamification.Shared())
			return next, nil
		}); err != nil {
			t.Fatalf("UpdateGamification: %v", err)
		}
	}

	st, err := s.LoadGamification(ctx)
	if err != nil {
		t.Fatalf("LoadGamification: %v", err)
	}
	if st.Stats.SocialShares != 2 || st.DailyStreak != 1 {
		t.Errorf("ledger = %+v", st)
	}
	// 10 check-in + 20 first share
	if st.Points != 30 || len(st.Badges) != 1 || st.Badges[0].ID != "first_share" {
		t.Errorf("points = %d badges = %+v", st.Points, st.Badges)
	}
	if !st.Badges[0].UnlockedAt.Equal(now) {
		t.Errorf("unlockedAt = %v, want %v", st.Badges[0].UnlockedAt, now)
	}
}

func TestUpdateGamification_ErrorKeepsLedger(t *testing.T) {
	s := openTestStore(t)
	ctx := t.Context()
	boom := errors.New("boom")

	_, err := s.UpdateGamification(ctx, func(st gamification.State) (gamification.State, error) {
		st.Points = 500
		return st, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}
	st, err := s.LoadGamification(ctx)
	if err != nil {
		t.Fatalf("LoadGamification: %v", err)
	}
	if st.Points != 0 {
		t.Errorf("points = %d after a failed update", st.Points)
	}
}

func TestAssessments(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

	if _, err := s.LatestAssessment(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("LatestAssessment on empty store = %v, want ErrNotFound", err)
	}

	old := coach.Assess(progress.Stats{ProgressPercentage: 20}, nil, base)
	recent := coach.Assess(progress.Stats{ProgressPercentage: 20, Overdue: 1}, &old, base.AddDate(0, 0, 10))
	for _, a := range []coach.Assessment{old, recent} {
		if err := s.SaveAssessment(a); err != nil {
			t.Fatalf("SaveAssessment: %v", err)
		}
	}

	latest, err := s.LatestAssessment(ctx)
	if err != nil {
		t.Fatalf("LatestAssessment: %v", err)
	}
	if latest.ID != recent.ID || latest.Stage != coach.StageEarly || latest.Overdue != 1 {
		t.Errorf("latest = %+v", latest)
	}
	if !slices.Equal(latest.Warnings, recent.Warnings) || len(latest.Warnings) != 2 {
		t.Errorf("warnings = %q, want %q", latest.Warnings, recent.Warnings)
	}
	if !slices.Equal(latest.Recommendations, recent.Recommendations) {
		t.Errorf("recommendations = %q", latest.Recommendations)
	}

	since, err := s.ListAssessments(ctx, base.AddDate(0, 0, 5))
	if err != nil {
		t.Fatalf("ListAssessments: %v", err)
	}
	if len(since) != 1 || since[0].ID != recent.ID {
		t.Errorf("since = %+v", since)
	}
	all, _ := s.ListAssessments(ctx, time.Time{})
	if len(all) != 2 || all[0].ID != old.ID {
		t.Errorf("all = %+v", all)
	}
}
