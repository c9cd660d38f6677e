package coach

import (
	"slices"
	"strings"
	"time"
)

// ReviewWindow is the span a weekly review looks back over.
const ReviewWindow = 7 * 24 * time.Hour

const plateau = "Overcoming progress plateaus"

var reflectionQuestions = []string{
	"What was my most significant accomplishment this week?",
	"What challenge taught me the most?",
	"How did I move closer to my dream?",
	"What will I do differently next week?",
	"What support do I need to continue progressing?",
}

type WeekOverview struct {
	Start        time.Time `json:"startDate"`
	End          time.Time `json:"endDate"`
	ProgressMade int       `json:"progressMade"`
}

// WeeklyReview summarizes the assessments of the last week.
type WeeklyReview struct {
	Overview            WeekOverview `json:"weekOverview"`
	Achievements        []string     `json:"achievements"`
	Challenges          []string     `json:"challenges"`
	NextWeekFocus       []string     `json:"nextWeekFocus"`
	ReflectionQuestions []string     `json:"reflectionQuestions"`
}

// Review builds the weekly review as of now. Assessments older than
// ReviewWindow are ignored. dream may be empty when no future exists yet.
func Review(assessments []Assessment, percentage int, dream string, now time.Time) WeeklyReview {
	start := now.Add(-ReviewWindow)
	var recent []Assessment
	for _, a := range assessments {
		if !a.CreatedAt.Before(start) {
			recent = append(recent, a)
		}
	}

	achievements := weeklyAchievements(recent)
	challenges := weeklyChallenges(recent)
	return WeeklyReview{
		Overview: WeekOverview{
			Start:        start.UTC(),
			End:          now.UTC(),
			ProgressMade: percentage,
		},
		Achievements:        achievements,
		Challenges:          challenges,
		NextWeekFocus:       nextWeekFocus(achievements, challenges, dream),
		ReflectionQuestions: append([]string(nil), reflectionQuestions...),
	}
}

func weeklyAchievements(recent []Assessment) []string {
	if len(recent) == 0 {
		return []string{"Getting started with your future planning"}
	}
	out := []string{}
	for _, a := range recent {
		if a.Stage == StageBeginning {
			continue
		}
		out = append(out, "Progress in "+strings.Replace(string(a.Stage), "_", " ", 1))
	}
	return out
}

func weeklyChallenges(recent []Assessment) []string {
	var out []string
	if len(recent) == 0 {
		out = append(out, "Establishing consistent daily habits")
	}
	for _, a := range recent {
		if len(a.Warnings) > 0 {
			out = append(out, plateau)
			break
		}
	}
	if len(out) == 0 {
		return []string{"Maintaining current momentum"}
	}
	return out
}

func nextWeekFocus(achievements, challenges []string, dream string) []string {
	var out []string
	switch {
	case len(achievements) == 0:
		out = append(out, "Build foundational habits and routines")
	case slices.Contains(challenges, plateau):
		out = append(out, "Break through current obstacles")
	default:
		out = append(out, "Build on recent successes", "Tackle next milestone with renewed energy")
	}
	if dream != "" {
		out = append(out, `Stay connected to your dream: "`+dream+`"`)
	}
	return out
}
