// Package coach turns the milestone ledger into coaching: a stage
// assessment with recommendations and warning signs, a weekly review over
// recent assessments, and deterministic daily motivation.
package coach

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kalambet/futuresim/internal/progress"
)

// Stage is how far along the ledger is.
type Stage string

const (
	StageBeginning         Stage = "beginning"
	StageEarly             Stage = "early_stages"
	StageMakingProgress    Stage = "making_progress"
	StageHalfway           Stage = "halfway_there"
	StageNearingCompletion Stage = "nearing_completion"
	StageAlmostThere       Stage = "almost_there"
)

// StagnationDays is how long the percentage may stay flat before Assess
// warns about it.
const StagnationDays = 7

// Assessment is one coaching pass over the ledger.
type Assessment struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"createdAt"`
	Stage           Stage     `json:"stage"`
	Percentage      int       `json:"progressPercentage"`
	Overdue         int       `json:"overdue"`
	Recommendations []string  `json:"recommendations"`
	Encouragement   string    `json:"encouragement"`
	Warnings        []string  `json:"warnings"`
}

// StageOf maps a completion percentage onto a stage.
func StageOf(percentage int) Stage {
	switch {
	case percentage <= 0:
		return StageBeginning
	case percentage < 25:
		return StageEarly
	case percentage < 50:
		return StageMakingProgress
	case percentage < 75:
		return StageHalfway
	case percentage < 90:
		return StageNearingCompletion
	default:
		return StageAlmostThere
	}
}

var recommendations = map[Stage][]string{
	StageBeginning: {
		"Break your first milestone into even smaller, daily actions",
		"Set up a consistent routine for working on your goals",
		"Identify potential obstacles and plan how to overcome them",
	},
	StageEarly: {
		"Celebrate your early progress to build momentum",
		"Review and adjust your timeline if needed",
		"Connect with others who share similar goals",
	},
	StageMakingProgress: {
		"Increase your weekly time commitment slightly",
		"Share your progress to stay accountable",
		"Learn advanced skills related to your goals",
	},
	StageHalfway: {
		"Review what's working well and do more of it",
		"Prepare for upcoming challenges",
		"Help someone else who's starting their journey",
	},
	StageNearingCompletion: {
		"Focus on finishing strong",
		"Plan your next goals after completion",
		"Document your journey to help others",
	},
	StageAlmostThere: {
		"Maintain consistency until the finish line",
		"Prepare for life after goal completion",
		"Celebrate your incredible achievement",
	},
}

// Recommendations returns the three next steps for a stage.
func Recommendations(s Stage) []string {
	recs, ok := recommendations[s]
	if !ok {
		recs = recommendations[StageBeginning]
	}
	return append([]string(nil), recs...)
}

var encouragements = map[Stage]string{
	StageBeginning:         "The journey of a thousand miles begins with a single step. You've taken the most important one!",
	StageEarly:             "Great start! Building momentum is key in the early stages. Keep going!",
	StageMakingProgress:    "You're building solid foundations. Consistency now will pay off greatly later!",
	StageHalfway:           "Halfway there! You've overcome many challenges already. The rest is within reach!",
	StageNearingCompletion: "You're in the final stretch! Your dedication is about to pay off in amazing ways!",
	StageAlmostThere:       "Almost there! Your perseverance is inspiring. Finish strong!",
}

func Encouragement(s Stage) string {
	return encouragements[s]
}

// WarningSigns flags a percentage unchanged since an assessment more than
// StagnationDays old, and overdue milestones. last may be nil.
func WarningSigns(st progress.Stats, last *Assessment, now time.Time) []string {
	warnings := []string{}
	if last != nil && last.Percentage == st.ProgressPercentage {
		days := int(now.Sub(last.CreatedAt) / (24 * time.Hour))
		if days > StagnationDays {
			warnings = append(warnings, fmt.Sprintf("No progress recorded for %d days. Consider adjusting your approach.", days))
		}
	}
	if st.Overdue > 0 {
		warnings = append(warnings, fmt.Sprintf("You have %d overdue milestones. Let's reassess your timeline.", st.Overdue))
	}
	return warnings
}

// Assess builds a new assessment of st. last is the previous assessment,
// or nil when there is none.
func Assess(st progress.Stats, last *Assessment, now time.Time) Assessment {
	stage := StageOf(st.ProgressPercentage)
	return Assessment{
		ID:              uuid.New().String(),
		CreatedAt:       now.UTC(),
		Stage:           stage,
		Percentage:      st.ProgressPercentage,
		Overdue:         st.Overdue,
		Recommendations: Recommendations(stage),
		Encouragement:   Encouragement(stage),
		Warnings:        WarningSigns(st, last, now),
	}
}
