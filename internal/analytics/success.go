package analytics

import (
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/kalambet/futuresim/internal/profile"
	"github.com/kalambet/futuresim/internal/progress"
	"github.com/kalambet/futuresim/internal/projection"
)

// Confidence buckets.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

const neutralProgress = 0.5

var specificityMarkers = []string{
	"by age", "in 5 years", "specific", "exact", "precise",
	"deadline", "timeline", "step by step", "milestone",
}

// SuccessEstimate is the blended success probability and its inputs.
type SuccessEstimate struct {
	Probability int            `json:"probability"`
	Factors     SuccessFactors `json:"factors"`
	Confidence  string         `json:"confidence"`
}

// SuccessProbability blends the score, dream specificity, timeline realism,
// progress and engagement with weights 0.4, 0.2, 0.2, 0.1 and 0.1. Without a
// snapshot progress counts as 0.5.
func SuccessProbability(p profile.UserProfile, proj projection.Projection, snap *progress.Snapshot, engagement float64, currentYear int) SuccessEstimate {
	base := float64(proj.Score) / 100
	specificity := DreamSpecificity(p.Dream)
	realism := TimelineRealism(proj.Timeline, currentYear)
	progressScore := neutralProgress
	if snap != nil {
		progressScore = float64(snap.ProgressPercentage) / 100
	}
	engagementScore := engagement / 100

	blend := base*0.4 + specificity*0.2 + realism*0.2 + progressScore*0.1 + engagementScore*0.1
	return SuccessEstimate{
		Probability: percent(blend),
		Factors: SuccessFactors{
			BasePotential:    percent(base),
			DreamSpecificity: percent(specificity),
			TimelineRealism:  percent(realism),
			CurrentProgress:  percent(progressScore),
			UserEngagement:   percent(engagementScore),
		},
		Confidence: Confidence(p, proj),
	}
}

// DreamSpecificity grows with word count and specificity markers, capped at 1.
func DreamSpecificity(dream string) float64 {
	lower := strings.ToLower(dream)
	markers := 0
	for _, m := range specificityMarkers {
		if strings.Contains(lower, m) {
			markers++
		}
	}
	words := len(strings.Fields(dream))
	return math.Min(float64(words)/50+float64(markers)*0.2, 1)
}

// TimelineRealism awards 0.4 for strictly increasing offsets, 0.3 for all
// offsets within [1,20] years and 0.3 for a mean probability within [50,90].
// An empty timeline scores 0.5.
func TimelineRealism(timeline []projection.TimelineEvent, currentYear int) float64 {
	if len(timeline) == 0 {
		return 0.5
	}
	progressive, reasonable := true, true
	sum := 0
	for i, ev := range timeline {
		span := ev.Year - currentYear
		if i > 0 && span <= timeline[i-1].Year-currentYear {
			progressive = false
		}
		if span < 1 || span > 20 {
			reasonable = false
		}
		sum += ev.Probability
	}
	avg := float64(sum) / float64(len(timeline))

	r := 0.0
	if progressive {
		r += 0.4
	}
	if reasonable {
		r += 0.3
	}
	if avg >= 50 && avg <= 90 {
		r += 0.3
	}
	return r
}

// Confidence buckets a blend of dream length, timeline length, probability
// spread and an age factor.
func Confidence(p profile.UserProfile, proj projection.Projection) string {
	dreamLength := math.Min(float64(utf8.RuneCountInString(p.Dream))/200, 1)
	timelineLength := math.Min(float64(len(proj.Timeline))/5, 1)
	score := dreamLength*0.3 +
		timelineLength*0.25 +
		probabilityRange(proj.Timeline)*0.25 +
		ageFactor(p.Age)*0.2

	switch {
	case score >= 0.8:
		return ConfidenceHigh
	case score >= 0.6:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

func probabilityRange(timeline []projection.TimelineEvent) float64 {
	if len(timeline) == 0 {
		return 0
	}
	probs := make([]int, len(timeline))
	for i, ev := range timeline {
		probs[i] = ev.Probability
	}
	spread := slices.Max(probs) - slices.Min(probs)
	return math.Max(0, 1-float64(spread)/100)
}

func ageFactor(age int) float64 {
	switch {
	case age < 25:
		return 0.6
	case age < 40:
		return 0.8
	case age < 60:
		return 0.9
	default:
		return 0.7
	}
}
