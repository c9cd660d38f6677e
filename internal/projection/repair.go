package projection

import (
	"errors"
	"fmt"
	"time"

	"github.com/kalambet/futuresim/internal/profile"
)

const (
	// FallbackScore is the score of the fallback projection.
	FallbackScore = 78

	defaultProbability = 75
)

// ErrMalformedOutput is the sentinel every MalformedOutputError unwraps to.
var ErrMalformedOutput = errors.New("malformed projection")

// MalformedOutputError reports a projection that breaks its own invariants.
type MalformedOutputError struct {
	Reason string
}

func (e *MalformedOutputError) Error() string {
	return "malformed projection: " + e.Reason
}

func (e *MalformedOutputError) Unwrap() error { return ErrMalformedOutput }

// Validate checks that p is safe to hand to presentation code.
func Validate(p Projection) error {
	if len(p.Timeline) != TimelineLength {
		return &MalformedOutputError{Reason: fmt.Sprintf("timeline has %d events, want %d", len(p.Timeline), TimelineLength)}
	}
	prev := 0
	for i, ev := range p.Timeline {
		switch {
		case ev.Year <= prev:
			return &MalformedOutputError{Reason: fmt.Sprintf("event %d: year %d not after %d", i, ev.Year, prev)}
		case ev.Title == "" || ev.Description == "" || ev.Milestone == "":
			return &MalformedOutputError{Reason: fmt.Sprintf("event %d: missing text", i)}
		case ev.Probability < 0 || ev.Probability > 100:
			return &MalformedOutputError{Reason: fmt.Sprintf("event %d: probability %d out of range", i, ev.Probability)}
		}
		prev = ev.Year
	}
	if p.Score < 0 || p.Score > MaxScore {
		return &MalformedOutputError{Reason: fmt.Sprintf("score %d outside [0,%d]", p.Score, MaxScore)}
	}
	return nil
}

// Repair returns a copy of p with every blank field replaced by its
// documented default and out-of-range numbers clamped. An empty timeline
// becomes DefaultTimeline. Repair cannot fix a timeline of the wrong length
// or with years out of order; callers re-validate its result.
func Repair(p Projection, user profile.UserProfile, now time.Time) Projection {
	out := Projection{
		Score:     p.Score,
		Insights:  p.Insights,
		Timestamp: p.Timestamp,
	}
	if len(p.Timeline) == 0 {
		out.Timeline = DefaultTimeline(user, now.Year())
	} else {
		out.Timeline = make([]TimelineEvent, len(p.Timeline))
		for i, ev := range p.Timeline {
			if ev.Year == 0 {
				ev.Year = now.Year() + i + 1
			}
			if ev.Title == "" {
				ev.Title = fmt.Sprintf("Future Milestone %d", i+1)
			}
			if ev.Description == "" {
				ev.Description = fmt.Sprintf("Your journey continues in %s.", user.Country)
			}
			if ev.Milestone == "" {
				ev.Milestone = "Progress"
			}
			if ev.Probability == 0 {
				ev.Probability = defaultProbability
			}
			ev.Probability = max(0, min(100, ev.Probability))
			out.Timeline[i] = ev
		}
	}
	out.Score = max(0, min(MaxScore, out.Score))
	if len(out.Insights.KeyFactors) == 0 {
		out.Insights = DefaultInsights()
	}
	if out.Timestamp == "" {
		out.Timestamp = now.UTC().Format(time.RFC3339)
	}
	out.Scenes = Scenes(out.Timeline)
	return out
}

// DefaultTimeline is the three-event timeline used when generation produced
// nothing usable.
func DefaultTimeline(user profile.UserProfile, currentYear int) []TimelineEvent {
	return []TimelineEvent{
		{
			Year:        currentYear + 1,
			Title:       "New Beginnings",
			Description: fmt.Sprintf("You start making progress toward your dream of %s in %s.", user.Dream, user.Country),
			Milestone:   "First Steps",
			Probability: 85,
		},
		{
			Year:        currentYear + 3,
			Title:       "Significant Growth",
			Description: "Your efforts begin to show remarkable results and opportunities multiply.",
			Milestone:   "Major Progress",
			Probability: 72,
		},
		{
			Year:        currentYear + 5,
			Title:       "Dream Realization",
			Description: fmt.Sprintf("You achieve significant milestones related to %s.", user.Dream),
			Milestone:   "Goal Achieved",
			Probability: 68,
		},
	}
}

// Fallback is the projection substituted when generation fails outright.
func Fallback(user profile.UserProfile, now time.Time) Projection {
	timeline := DefaultTimeline(user, now.Year())
	return Projection{
		Timeline:  timeline,
		Score:     FallbackScore,
		Insights:  DefaultInsights(),
		Scenes:    Scenes(timeline),
		Timestamp: now.UTC().Format(time.RFC3339),
	}
}
