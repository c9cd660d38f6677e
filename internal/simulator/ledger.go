package simulator

import (
	"context"
	"fmt"

	"github.com/kalambet/futuresim/internal/analytics"
	"github.com/kalambet/futuresim/internal/gamification"
	"github.com/kalambet/futuresim/internal/progress"
)

func (s *Service) Progress(ctx context.Context) (progress.Snapshot, error) {
	return s.store.LoadProgress(ctx)
}

func (s *Service) ProgressStats(ctx context.Context) (progress.Stats, error) {
	snap, err := s.store.LoadProgress(ctx)
	if err != nil {
		return progress.Stats{}, err
	}
	return progress.ComputeStats(snap, s.now()), nil
}

func (s *Service) AddMilestone(in progress.MilestoneInput) (progress.Milestone, error) {
	m, err := progress.NewMilestone(in, s.now())
	if err != nil {
		return progress.Milestone{}, err
	}
	if err := s.store.SaveMilestone(m); err != nil {
		return progress.Milestone{}, fmt.Errorf("saving milestone: %w", err)
	}
	return m, nil
}

// Completion is the outcome of completing a milestone.
type Completion struct {
	Milestone  progress.Milestone     `json:"milestone"`
	Unlocked   []progress.Achievement `json:"unlocked"`
	Badges     []gamification.Badge   `json:"badges"`
	Percentage int                    `json:"progressPercentage"`
}

// CompleteMilestone marks a milestone done and unlocks any achievements the
// ledger now qualifies for. Only the first completion of a milestone earns
// points.
func (s *Service) CompleteMilestone(ctx context.Context, id string) (Completion, error) {
	m, err := s.store.GetMilestone(id)
	if err != nil {
		return Completion{}, err
	}
	now := s.now()
	first := !m.Completed
	m = progress.Complete(m, now)
	if err := s.store.UpdateMilestone(m); err != nil {
		return Completion{}, fmt.Errorf("updating milestone: %w", err)
	}

	snap, err := s.store.LoadProgress(ctx)
	if err != nil {
		return Completion{}, fmt.Errorf("loading progress: %w", err)
	}
	unlocked := progress.CheckAchievements(snap.Milestones, snap.Achievements, now)
	if len(unlocked) > 0 {
		if err := s.store.SaveAchievements(unlocked); err != nil {
			return Completion{}, fmt.Errorf("saving achievements: %w", err)
		}
		for _, a := range unlocked {
			s.logger.Info("achievement unlocked", "achievement", a.ID)
		}
	}
	if unlocked == nil {
		unlocked = []progress.Achievement{}
	}

	badges := []gamification.Badge{}
	if first {
		act := gamification.MilestoneReached(progress.ComputeStats(snap, now))
		if badges, err = s.award(ctx, act); err != nil {
			return Completion{}, err
		}
	}
	return Completion{Milestone: m, Unlocked: unlocked, Badges: badges, Percentage: snap.ProgressPercentage}, nil
}

func (s *Service) DeleteMilestone(id string) error {
	return s.store.DeleteMilestone(id)
}

// SuggestMilestones adds one preparation milestone per event of the given
// future (the latest when id is empty) and returns them.
func (s *Service) SuggestMilestones(ctx context.Context, id string) ([]progress.Milestone, error) {
	rec, err := s.Future(ctx, id)
	if err != nil {
		return nil, err
	}
	suggestions := progress.Suggest(rec.Projection, s.now())
	out := make([]progress.Milestone, 0, len(suggestions))
	for _, sg := range suggestions {
		m, err := s.AddMilestone(sg.MilestoneInput)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// Share counts one social share. A non-empty session also records a
// "share" activity event.
func (s *Service) Share(session string) error {
	if err := s.store.ApplyMutations(progress.Shared()); err != nil {
		return fmt.Errorf("updating counters: %w", err)
	}
	if _, err := s.award(context.Background(), gamification.Shared()); err != nil {
		return err
	}
	if session == "" {
		return nil
	}
	return s.RecordEvent(analytics.Event{Type: "share", SessionID: session})
}
