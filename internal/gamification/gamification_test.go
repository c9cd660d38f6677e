package gamification

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kalambet/futuresim/internal/profile"
	"github.com/kalambet/futuresim/internal/progress"
)

var now = time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)

func badgeIDs(bs []Badge) string {
	ids := make([]string, len(bs))
	for i, b := range bs {
		ids[i] = b.ID
	}
	return strings.Join(ids, ",")
}

func TestLevelFor(t *testing.T) {
	tests := []struct{ points, want int }{
		{-5, 1}, {0, 1}, {99, 1}, {100, 2}, {250, 3}, {1000, 11},
	}
	for _, tt := range tests {
		if got := LevelFor(tt.points); got != tt.want {
			t.Errorf("LevelFor(%d) = %d, want %d", tt.points, got, tt.want)
		}
	}
}

func TestTierAndRarity(t *testing.T) {
	tests := []struct {
		points       int
		tier, rarity string
	}{
		{20, "bronze", "common"},
		{50, "bronze", "uncommon"},
		{100, "silver", "rare"},
		{200, "gold", "legendary"},
	}
	for _, tt := range tests {
		if got := Tier(tt.points); got != tt.tier {
			t.Errorf("Tier(%d) = %s, want %s", tt.points, got, tt.tier)
		}
		if got := Rarity(tt.points); got != tt.rarity {
			t.Errorf("Rarity(%d) = %s, want %s", tt.points, got, tt.rarity)
		}
	}
}

func TestApply_FutureGenerated(t *testing.T) {
	st, unlocked := Apply(NewState(), now, FutureGenerated(80, 50, 4, "usa"))
	if ids := badgeIDs(unlocked); ids != "first_future,multi_milestone,global_citizen" {
		t.Errorf("unlocked = %s", ids)
	}
	// 10 check-in + 25 + 40 + 20
	if st.Points != 95 || st.Level != 1 {
		t.Errorf("points = %d level = %d, want 95 level 1", st.Points, st.Level)
	}
	if st.Stats.FuturesGenerated != 1 || st.DailyStreak != 1 || st.LastCheckIn != "2026-06-10" {
		t.Errorf("state = %+v", st)
	}
}

func TestApply_LevelUpUnlocksLevelBadge(t *testing.T) {
	st, unlocked := Apply(NewState(), now, FutureGenerated(95, 50, 4, "usa"))
	if ids := badgeIDs(unlocked); ids != "first_future,high_score,multi_milestone,level_2,global_citizen" {
		t.Errorf("unlocked = %s", ids)
	}
	if st.Points != 170 || st.Level != 2 {
		t.Errorf("points = %d level = %d, want 170 level 2", st.Points, st.Level)
	}
}

func TestApply_CascadingLevels(t *testing.T) {
	reached := MilestoneReached(progress.Stats{Completed: 2, Total: 2, ProgressPercentage: 100})
	st, unlocked := Apply(NewState(), now, reached)
	want := "first_milestone,halfway_progress,completed_all,level_2,level_3"
	if ids := badgeIDs(unlocked); ids != want {
		t.Errorf("unlocked = %s, want %s", ids, want)
	}
	if st.Points != 235 || st.Level != 3 {
		t.Errorf("points = %d level = %d, want 235 level 3", st.Points, st.Level)
	}
	if st.Stats.MilestonesReached != 1 {
		t.Errorf("milestonesReached = %d", st.Stats.MilestonesReached)
	}
	for _, b := range unlocked {
		if b.ID == "completed_all" && (b.Tier != "silver" || b.Rarity != "rare") {
			t.Errorf("completed_all graded %s/%s", b.Tier, b.Rarity)
		}
	}
}

func TestAddPoints_FifthLevelBonus(t *testing.T) {
	l := newLedger(State{Points: 390, Level: 4}, now)
	l.addPoints(20)
	// 410, +25 level badge, +50 bonus
	if l.st.Points != 485 || l.st.Level != 5 {
		t.Errorf("points = %d level = %d, want 485 level 5", l.st.Points, l.st.Level)
	}
	if ids := badgeIDs(l.unlocked); ids != "level_5" {
		t.Errorf("unlocked = %s", ids)
	}
}

func TestAddPoints_SkippedLevelsUnlockOnlyTheLast(t *testing.T) {
	l := newLedger(NewState(), now)
	l.addPoints(250)
	if ids := badgeIDs(l.unlocked); ids != "level_3" {
		t.Errorf("unlocked = %s, want level_3", ids)
	}
	if l.st.Points != 275 {
		t.Errorf("points = %d, want 275", l.st.Points)
	}
}

func TestApply_Streak(t *testing.T) {
	st := State{Level: 1, DailyStreak: 6, LastCheckIn: "2026-06-09"}
	st, unlocked := Apply(st, now)
	if st.DailyStreak != 7 {
		t.Fatalf("streak = %d, want 7", st.DailyStreak)
	}
	if ids := badgeIDs(unlocked); ids != "streak_7,level_2" {
		t.Errorf("unlocked = %s", ids)
	}
	// 70 for day 7, 50 for the badge, 25 for level 2
	if st.Points != 145 {
		t.Errorf("points = %d, want 145", st.Points)
	}

	same, unlocked := Apply(st, now.Add(time.Hour))
	if same.Points != st.Points || len(unlocked) != 0 {
		t.Errorf("second check-in the same day paid %d points", same.Points-st.Points)
	}

	broken, _ := Apply(State{Level: 1, DailyStreak: 6, LastCheckIn: "2026-06-01"}, now)
	if broken.DailyStreak != 1 || broken.Points != 10 {
		t.Errorf("after a gap streak = %d points = %d, want 1 and 10", broken.DailyStreak, broken.Points)
	}
}

func TestApply_Shares(t *testing.T) {
	st := NewState()
	var all []Badge
	for range 3 {
		var unlocked []Badge
		st, unlocked = Apply(st, now, Shared())
		all = append(all, unlocked...)
	}
	if ids := badgeIDs(all); ids != "first_share,multiple_share" {
		t.Errorf("unlocked = %s", ids)
	}
	if st.Stats.SocialShares != 3 || st.Points != 70 {
		t.Errorf("shares = %d points = %d, want 3 and 70", st.Stats.SocialShares, st.Points)
	}
}

func TestApply_SceneViews(t *testing.T) {
	st := NewState()
	acts := make([]Activity, 5)
	for i := range acts {
		acts[i] = SceneViewed()
	}
	st, unlocked := Apply(st, now, acts...)
	if ids := badgeIDs(unlocked); ids != "scene_explorer" {
		t.Errorf("unlocked = %s", ids)
	}
	if st.Stats.ScenesViewed != 5 {
		t.Errorf("scenesViewed = %d", st.Stats.ScenesViewed)
	}
}

func TestApply_StatBadges(t *testing.T) {
	st := State{Level: 1, LastCheckIn: "2026-06-10", Stats: Stats{FuturesGenerated: 4}}
	st, unlocked := Apply(st, now, FutureGenerated(50, 10, 2, ""))
	if ids := badgeIDs(unlocked); ids != "first_future,multiple_futures,futures_explorer,level_2" {
		t.Errorf("unlocked = %s", ids)
	}
	if st.Points != 150 || st.Level != 2 {
		t.Errorf("points = %d level = %d, want 150 level 2", st.Points, st.Level)
	}
}

func TestApply_DoesNotModifyInput(t *testing.T) {
	st := NewState()
	st.Badges = make([]Badge, 0, 8)
	Apply(st, now, Shared())
	if len(st.Badges) != 0 || st.Points != 0 {
		t.Errorf("input state changed: %+v", st)
	}
}

func TestCompleteChallenge(t *testing.T) {
	c := DailyChallenge(now)
	if c.ID != "explore_insights" {
		t.Fatalf("challenge on the 10th = %s, want explore_insights", c.ID)
	}

	st, _, err := CompleteChallenge(NewState(), c.ID, now)
	if err != nil {
		t.Fatalf("CompleteChallenge: %v", err)
	}
	if st.Points != 30 {
		t.Errorf("points = %d, want 30 (check-in plus challenge)", st.Points)
	}
	if !st.Done(c.ID, now) {
		t.Error("challenge not recorded")
	}

	if _, _, err := CompleteChallenge(st, c.ID, now); !errors.Is(err, profile.ErrInvalidInput) {
		t.Errorf("second completion error = %v, want ErrInvalidInput", err)
	}
	if _, _, err := CompleteChallenge(st, "share_future", now); !errors.Is(err, profile.ErrInvalidInput) {
		t.Errorf("other challenge error = %v, want ErrInvalidInput", err)
	}

	tomorrow := now.AddDate(0, 0, 1)
	if DailyChallenge(tomorrow).ID != "share_future" {
		t.Errorf("challenge on the 11th = %s", DailyChallenge(tomorrow).ID)
	}
	if st.Done(c.ID, tomorrow) {
		t.Error("completion carried over to the next day")
	}
}

func TestSummarize(t *testing.T) {
	st, _, err := CompleteChallenge(NewState(), DailyChallenge(now).ID, now)
	if err != nil {
		t.Fatalf("CompleteChallenge: %v", err)
	}
	sum := Summarize(st, now)
	if sum.Points != 30 || sum.Level != 1 || sum.NextLevelPoints != 70 {
		t.Errorf("summary = %+v", sum)
	}
	if !sum.ChallengeDoneNow || sum.DailyChallenge.ID != "explore_insights" {
		t.Errorf("daily challenge = %+v done = %v", sum.DailyChallenge, sum.ChallengeDoneNow)
	}
	if sum.Badges == nil {
		t.Error("badges should be an empty list, not nil")
	}
}
