// Package progress models the user's self-reported milestone ledger:
// milestones, completion percentage, achievements, suggestions built from a
// projection, and the counter mutations the storage layer applies.
package progress

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/futuresim/internal/profile"
	"github.com/kalambet/futuresim/internal/projection"
)

// DateLayout is the format of Milestone.TargetDate.
const DateLayout = "2006-01-02"

const defaultCategory = "general"

// Milestone is one user-tracked step.
type Milestone struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Completed   bool       `json:"completed"`
	CreatedAt   time.Time  `json:"createdAt"`
	TargetDate  string     `json:"targetDate,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// MilestoneInput is what a caller supplies to create a milestone.
type MilestoneInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	TargetDate  string `json:"targetDate,omitempty"`
}

// Snapshot is the ledger state handed to analytics.
type Snapshot struct {
	Milestones         []Milestone   `json:"milestones"`
	ProgressPercentage int           `json:"progressPercentage"`
	FuturesGenerated   int           `json:"futuresGenerated"`
	SocialShares       int           `json:"socialShares"`
	Achievements       []Achievement `json:"achievements"`
}

// NewSnapshot assembles a snapshot and derives its percentage.
func NewSnapshot(milestones []Milestone, achievements []Achievement, counters map[Counter]int) Snapshot {
	if milestones == nil {
		milestones = []Milestone{}
	}
	if achievements == nil {
		achievements = []Achievement{}
	}
	return Snapshot{
		Milestones:         milestones,
		ProgressPercentage: Percentage(milestones),
		FuturesGenerated:   counters[CounterFuturesGenerated],
		SocialShares:       counters[CounterSocialShares],
		Achievements:       achievements,
	}
}

// Percentage is round(100 * completed / total), or 0 with no milestones.
func Percentage(milestones []Milestone) int {
	if len(milestones) == 0 {
		return 0
	}
	return int(math.Round(float64(countCompleted(milestones)) / float64(len(milestones)) * 100))
}

// NewMilestone validates in and returns a fresh, incomplete milestone.
func NewMilestone(in MilestoneInput, now time.Time) (Milestone, error) {
	if strings.TrimSpace(in.Title) == "" {
		return Milestone{}, &profile.InvalidInputError{Field: "title", Reason: "must not be empty"}
	}
	if in.TargetDate != "" {
		if _, err := time.Parse(DateLayout, in.TargetDate); err != nil {
			return Milestone{}, &profile.InvalidInputError{Field: "targetDate", Reason: fmt.Sprintf("want YYYY-MM-DD, got %q", in.TargetDate)}
		}
	}
	category := in.Category
	if category == "" {
		category = defaultCategory
	}
	return Milestone{
		ID:          uuid.New().String(),
		Title:       in.Title,
		Description: in.Description,
		Category:    category,
		CreatedAt:   now.UTC(),
		TargetDate:  in.TargetDate,
	}, nil
}

// Complete returns m marked complete at now. Completing twice keeps the
// first completion time.
func Complete(m Milestone, now time.Time) Milestone {
	if m.Completed {
		return m
	}
	t := now.UTC()
	m.Completed = true
	m.CompletedAt = &t
	return m
}

// Suggestion is a milestone proposed from a projection's timeline.
type Suggestion struct {
	MilestoneInput
	Priority string `json:"priority"`
}

// Suggest proposes one preparation milestone per timeline event. Each target
// date lies halfway between now and the event year.
func Suggest(p projection.Projection, now time.Time) []Suggestion {
	out := make([]Suggestion, 0, len(p.Timeline))
	for i, ev := range p.Timeline {
		priority := "medium"
		if i == 0 {
			priority = "high"
		}
		out = append(out, Suggestion{
			MilestoneInput: MilestoneInput{
				Title:       "Prepare for " + ev.Title,
				Description: fmt.Sprintf("Start working towards your %d goal: %s", ev.Year, ev.Title),
				Category:    "preparation",
				TargetDate:  TargetDate(ev.Year, now),
			},
			Priority: priority,
		})
	}
	return out
}

// TargetDate returns now shifted by half the years until eventYear, rounded
// down.
func TargetDate(eventYear int, now time.Time) string {
	diff := eventYear - now.Year()
	half := int(math.Floor(float64(diff) / 2))
	return now.AddDate(half, 0, 0).Format(DateLayout)
}

// Stats summarizes a snapshot for display.
type Stats struct {
	Total              int           `json:"total"`
	Completed          int           `json:"completed"`
	Remaining          int           `json:"remaining"`
	ProgressPercentage int           `json:"progressPercentage"`
	Upcoming           int           `json:"upcoming"`
	Overdue            int           `json:"overdue"`
	Achievements       []Achievement `json:"achievements"`
}

// ComputeStats counts open milestones and those whose target date is
// before now.
func ComputeStats(s Snapshot, now time.Time) Stats {
	completed := countCompleted(s.Milestones)
	st := Stats{
		Total:              len(s.Milestones),
		Completed:          completed,
		Remaining:          len(s.Milestones) - completed,
		ProgressPercentage: Percentage(s.Milestones),
		Achievements:       s.Achievements,
	}
	if st.Achievements == nil {
		st.Achievements = []Achievement{}
	}
	today := now.UTC().Format(DateLayout)
	for _, m := range s.Milestones {
		if m.Completed {
			continue
		}
		st.Upcoming++
		// Dates in DateLayout order lexically.
		if m.TargetDate != "" && m.TargetDate < today {
			st.Overdue++
		}
	}
	return st
}

func countCompleted(milestones []Milestone) int {
	n := 0
	for _, m := range milestones {
		if m.Completed {
			n++
		}
	}
	return n
}
