package progress

import (
	"errors"
	"testing"
	"time"

	"github.com/kalambet/futuresim/internal/profile"
	"github.com/kalambet/futuresim/internal/projection"
)

var now = time.Date(2026, time.June, 10, 12, 0, 0, 0, time.UTC)

func milestones(completed, total int) []Milestone {
	ms := make([]Milestone, total)
	for i := range ms {
		ms[i] = Milestone{ID: string(rune('a' + i)), Title: "m", Completed: i < completed}
	}
	return ms
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		completed, total, want int
	}{
		{0, 0, 0},
		{0, 3, 0},
		{1, 3, 33},
		{2, 3, 67},
		{1, 2, 50},
		{4, 4, 100},
	}
	for _, tt := range tests {
		if got := Percentage(milestones(tt.completed, tt.total)); got != tt.want {
			t.Errorf("Percentage(%d/%d) = %d, want %d", tt.completed, tt.total, got, tt.want)
		}
	}
}

func TestNewMilestone(t *testing.T) {
	m, err := NewMilestone(MilestoneInput{Title: "Apply to jobs", TargetDate: "2027-01-01"}, now)
	if err != nil {
		t.Fatalf("NewMilestone: %v", err)
	}
	if m.ID == "" || m.Category != "general" || m.Completed || !m.CreatedAt.Equal(now) {
		t.Errorf("milestone = %+v", m)
	}

	_, err = NewMilestone(MilestoneInput{Title: "  "}, now)
	if !errors.Is(err, profile.ErrInvalidInput) {
		t.Errorf("empty title error = %v, want ErrInvalidInput", err)
	}
	_, err = NewMilestone(MilestoneInput{Title: "x", TargetDate: "next year"}, now)
	if !errors.Is(err, profile.ErrInvalidInput) {
		t.Errorf("bad date error = %v, want ErrInvalidInput", err)
	}
}

func TestComplete(t *testing.T) {
	m := Complete(Milestone{ID: "a"}, now)
	if !m.Completed || m.CompletedAt == nil || !m.CompletedAt.Equal(now) {
		t.Fatalf("completed = %+v", m)
	}
	again := Complete(m, now.Add(time.Hour))
	if !again.CompletedAt.Equal(now) {
		t.Errorf("second Complete changed CompletedAt to %v", again.CompletedAt)
	}
}

func TestSuggest(t *testing.T) {
	p := projection.Projection{Timeline: []projection.TimelineEvent{
		{Year: 2027, Title: "Career Acceleration"},
		{Year: 2029, Title: "Major Life Progress"},
		{Year: 2036, Title: "Legacy Establishment"},
	}}
	got := Suggest(p, now)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].Title != "Prepare for Career Acceleration" || got[0].Priority != "high" {
		t.Errorf("first = %+v", got[0])
	}
	if got[1].Priority != "medium" || got[1].Category != "preparation" {
		t.Errorf("second = %+v", got[1])
	}
	wantDates := []string{"2026-06-10", "2027-06-10", "2031-06-10"}
	for i, s := range got {
		if s.TargetDate != wantDates[i] {
			t.Errorf("suggestion %d target = %s, want %s", i, s.TargetDate, wantDates[i])
		}
	}
	if got[0].Description != "Start working towards your 2027 goal: Career Acceleration" {
		t.Errorf("description = %q", got[0].Description)
	}
}

func TestTargetDate_PastYearRoundsDown(t *testing.T) {
	if got := TargetDate(2025, now); got != "2025-06-10" {
		t.Errorf("TargetDate(2025) = %s, want 2025-06-10", got)
	}
}

func TestComputeStats(t *testing.T) {
	s := NewSnapshot([]Milestone{
		{ID: "a", Completed: true, TargetDate: "2020-01-01"},
		{ID: "b", TargetDate: "2026-01-01"},
		{ID: "c", TargetDate: "2030-01-01"},
		{ID: "d"},
	}, nil, map[Counter]int{CounterFuturesGenerated: 3})

	st := ComputeStats(s, now)
	want := Stats{Total: 4, Completed: 1, Remaining: 3, ProgressPercentage: 25, Upcoming: 3, Overdue: 1}
	if st.Total != want.Total || st.Completed != want.Completed || st.Remaining != want.Remaining ||
		st.ProgressPercentage != want.ProgressPercentage || st.Upcoming != want.Upcoming || st.Overdue != want.Overdue {
		t.Errorf("stats = %+v, want %+v", st, want)
	}
	if st.Achievements == nil {
		t.Error("achievements should be an empty slice, not nil")
	}
	if s.FuturesGenerated != 3 || s.SocialShares != 0 {
		t.Errorf("counters = %d/%d", s.FuturesGenerated, s.SocialShares)
	}
}

func TestCheckAchievements(t *testing.T) {
	tests := []struct {
		name      string
		completed int
		total     int
		unlocked  []Achievement
		want      []string
	}{
		{"none completed", 0, 4, nil, nil},
		{"first of four", 1, 4, nil, []string{AchievementFirstMilestone}},
		{"half of four", 2, 4, []Achievement{{ID: AchievementFirstMilestone}}, []string{AchievementHalfway}},
		{"two of three", 2, 3, nil, []string{AchievementFirstMilestone, AchievementHalfway}},
		{"all at once", 1, 1, nil, []string{AchievementFirstMilestone, AchievementHalfway, AchievementAllComplete}},
		{"already unlocked", 4, 4, []Achievement{{ID: AchievementFirstMilestone}, {ID: AchievementHalfway}, {ID: AchievementAllComplete}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckAchievements(milestones(tt.completed, tt.total), tt.unlocked, now)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i, a := range got {
				if a.ID != tt.want[i] {
					t.Errorf("achievement %d = %s, want %s", i, a.ID, tt.want[i])
				}
			}
		})
	}
}

func TestMutations(t *testing.T) {
	if m := FutureGenerated(); m.Counter != CounterFuturesGenerated || m.Delta != 1 {
		t.Errorf("FutureGenerated = %+v", m)
	}
	if m := Shared(); m.Counter != CounterSocialShares || m.Delta != 1 {
		t.Errorf("Shared = %+v", m)
	}
}
