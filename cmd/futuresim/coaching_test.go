package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/kalambet/futuresim/internal/coach"
	"github.com/kalambet/futuresim/internal/gamification"
)

func TestCompleteChallenge_DefaultsToToday(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"GET /gamification": `{"dailyChallenge":{"id":"set_milestone","title":"Milestone Setter","points":30}}`,
		"POST /gamification/challenges/set_milestone/complete": `{"summary":{"points":40,"level":1},"unlocked":[]}`,
	})

	res, err := completeChallenge(ctx, ts.client(), "")
	if err != nil {
		t.Fatalf("completeChallenge: %v", err)
	}
	if res.Summary.Points != 40 {
		t.Errorf("points = %d, want 40", res.Summary.Points)
	}
	if len(ts.requests) != 2 || ts.requests[1].Method != "POST" {
		t.Errorf("requests = %+v", ts.requests)
	}
}

func TestCompleteChallenge_Explicit(t *testing.T) {
	ts := newTestServer(t, map[string]string{
		"POST /gamification/challenges/share_future/complete": `{"summary":{"points":45,"level":1},"unlocked":[]}`,
	})
	if _, err := completeChallenge(ctx, ts.client(), "share_future"); err != nil {
		t.Fatalf("completeChallenge: %v", err)
	}
	if len(ts.requests) != 1 {
		t.Errorf("explicit id made %d requests, want 1", len(ts.requests))
	}
	if _, err := completeChallenge(ctx, ts.client(), "refine_dream"); err == nil {
		t.Error("expected an error for a challenge the server rejects")
	}
}

func TestPrintGamification(t *testing.T) {
	old := noColor
	noColor = true
	defer func() { noColor = old }()

	sum := gamification.Summary{
		Points:          170,
		Level:           2,
		NextLevelPoints: 30,
		DailyStreak:     3,
		BadgeCount:      1,
		Badges:          []gamification.Badge{{ID: "high_score", Title: "Exceptional Potential", Points: 50, Tier: "bronze", Rarity: "uncommon"}},
		DailyChallenge:  gamification.Challenge{ID: "explore_insights", Title: "Insight Explorer", Points: 20},
	}
	var buf bytes.Buffer
	printGamification(&buf, sum)
	out := buf.String()
	for _, want := range []string{
		"Level 2  170 points  (30 to next level)",
		"Streak: 3 days",
		"Today's challenge: Insight Explorer (+20, explore_insights)  open",
		"★ Exceptional Potential  [bronze, uncommon, +50]",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintAssessmentAndReview(t *testing.T) {
	old := noColor
	noColor = true
	defer func() { noColor = old }()

	var buf bytes.Buffer
	printAssessment(&buf, coach.Assessment{
		Stage:           coach.StageNearingCompletion,
		Percentage:      80,
		Encouragement:   "Keep going",
		Recommendations: []string{"Focus on finishing strong"},
		Warnings:        []string{"You have 1 overdue milestones. Let's reassess your timeline."},
	})
	out := buf.String()
	for _, want := range []string{"Stage: nearing completion  80% complete", "• Focus on finishing strong", "⚠ You have 1 overdue"} {
		if !strings.Contains(out, want) {
			t.Errorf("assessment output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	end := time.Date(2026, time.March, 14, 9, 0, 0, 0, time.UTC)
	printReview(&buf, coach.WeeklyReview{
		Overview:     coach.WeekOverview{Start: end.AddDate(0, 0, -7), End: end, ProgressMade: 50},
		Achievements: []string{"Progress in halfway there"},
		Challenges:   []string{"Maintaining current momentum"},
	})
	out = buf.String()
	for _, want := range []string{"Week of Mar 7 to Mar 14: 50% complete", "Achievements\n  • Progress in halfway there"} {
		if !strings.Contains(out, want) {
			t.Errorf("review output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Reflect") {
		t.Errorf("empty sections should be skipped:\n%s", out)
	}
}
