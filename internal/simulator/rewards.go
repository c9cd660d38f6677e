package simulator

import (
	"context"
	"fmt"

	"github.com/kalambet/futuresim/internal/gamification"
)

// award folds acts into the points ledger and returns the badges they
// unlocked.
func (s *Service) award(ctx context.Context, acts ...gamification.Activity) ([]gamification.Badge, error) {
	var unlocked []gamification.Badge
	_, err := s.store.UpdateGamification(ctx, func(st gamification.State) (gamification.State, error) {
		next, badges := gamification.Apply(st, s.now(), acts...)
		unlocked = badges
		return next, nil
	})
	if err != nil {
		return nil, fmt.Errorf("updating gamification: %w", err)
	}
	for _, b := range unlocked {
		s.logger.Info("badge unlocked", "badge", b.ID, "points", b.Points)
	}
	if unlocked == nil {
		unlocked = []gamification.Badge{}
	}
	return unlocked, nil
}

func (s *Service) Gamification(ctx context.Context) (gamification.Summary, error) {
	st, err := s.store.LoadGamification(ctx)
	if err != nil {
		return gamification.Summary{}, err
	}
	return gamification.Summarize(st, s.now()), nil
}

// ChallengeResult is the ledger after completing a daily challenge.
type ChallengeResult struct {
	Summary  gamification.Summary `json:"summary"`
	Unlocked []gamification.Badge `json:"unlocked"`
}

// CompleteChallenge credits today's challenge id. A challenge that is not
// offered today, or is already done, is invalid input.
func (s *Service) CompleteChallenge(ctx context.Context, id string) (ChallengeResult, error) {
	now := s.now()
	var unlocked []gamification.Badge
	st, err := s.store.UpdateGamification(ctx, func(st gamification.State) (gamification.State, error) {
		next, badges, err := gamification.CompleteChallenge(st, id, now)
		unlocked = badges
		return next, err
	})
	if err != nil {
		return ChallengeResult{}, err
	}
	s.logger.Info("challenge completed", "challenge", id)
	if unlocked == nil {
		unlocked = []gamification.Badge{}
	}
	return ChallengeResult{Summary: gamification.Summarize(st, now), Unlocked: unlocked}, nil
}
