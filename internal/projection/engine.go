// Package projection turns a user profile into a four-point timeline, a
// future score, insights and presentation scenes. Everything here is pure
// arithmetic over the signals and factors packages; the only input besides
// the profile is the current time.
package projection

import (
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/kalambet/futuresim/internal/complexity"
	"github.com/kalambet/futuresim/internal/factors"
	"github.com/kalambet/futuresim/internal/profile"
	"github.com/kalambet/futuresim/internal/signals"
)

const (
	// MaxScore is the ceiling of Score; a projection never claims certainty.
	MaxScore = 97

	// TimelineLength is the number of events Project always produces.
	TimelineLength = 4

	maxBaseProbability = 0.95
)

// Offsets are the year offsets of the generated timeline, each paired with
// the multiplier applied to the base probability.
var Offsets = []struct {
	Years      int
	Multiplier float64
}{
	{1, 100},
	{3, 85},
	{5, 75},
	{10, 65},
}

// Basis is the intermediate state a projection is computed from.
type Basis struct {
	Signals         signals.DreamSignals   `json:"signals"`
	Factors         factors.ProfileFactors `json:"factors"`
	Complexity      complexity.Analysis    `json:"complexity"`
	BaseProbability float64                `json:"baseProbability"`
}

// Engine produces projections. The zero value uses the system clock.
type Engine struct {
	now func() time.Time
}

// NewEngine returns an Engine reading the current time from now, or from
// time.Now when now is nil.
func NewEngine(now func() time.Time) *Engine {
	return &Engine{now: now}
}

func (e *Engine) clock() time.Time {
	if e == nil || e.now == nil {
		return time.Now()
	}
	return e.now()
}

// Analyze computes the Basis for p without building a projection.
func (e *Engine) Analyze(p profile.UserProfile) (Basis, error) {
	if err := p.Validate(); err != nil {
		return Basis{}, err
	}
	sig, err := signals.Extract(p.Dream)
	if err != nil {
		return Basis{}, fmt.Errorf("extracting signals: %w", err)
	}
	cx, err := complexity.Analyze(p.Dream)
	if err != nil {
		return Basis{}, fmt.Errorf("analyzing complexity: %w", err)
	}
	f := factors.Resolve(p.Country, p.Age)
	return Basis{
		Signals:         sig,
		Factors:         f,
		Complexity:      cx,
		BaseProbability: BaseProbability(sig, f),
	}, nil
}

// Project builds the projection for p. Only invalid input fails.
func (e *Engine) Project(p profile.UserProfile) (Projection, error) {
	b, err := e.Analyze(p)
	if err != nil {
		return Projection{}, err
	}
	now := e.clock()
	timeline := Timeline(p, b.Signals.Category, b.BaseProbability, now.Year())
	return Projection{
		Timeline:  timeline,
		Score:     Score(b.Signals, b.Factors, p.Dream),
		Insights:  BuildInsights(b),
		Scenes:    Scenes(timeline),
		Timestamp: now.UTC().Format(time.RFC3339),
	}, nil
}

// BaseProbability blends specificity, country opportunity and age factors,
// capped at 0.95.
func BaseProbability(sig signals.DreamSignals, f factors.ProfileFactors) float64 {
	p := 0.5
	p += sig.Specificity * 0.2
	p += f.Country.Opportunity * 0.15
	p += f.Age.RiskTolerance * 0.1
	p += f.Age.NetworkPotential * 0.05
	return math.Min(p, maxBaseProbability)
}

// Timeline generates the four events at Offsets from currentYear.
func Timeline(p profile.UserProfile, category signals.Category, base float64, currentYear int) []TimelineEvent {
	events := make([]TimelineEvent, 0, len(Offsets))
	for i, off := range Offsets {
		var t template
		if i == 0 {
			t = firstYearTemplate(category, p)
		} else {
			t = laterTemplates[i-1](p)
		}
		events = append(events, TimelineEvent{
			Year:        currentYear + off.Years,
			Title:       t.title,
			Description: t.description,
			Milestone:   t.milestone,
			Probability: int(math.Floor(base * off.Multiplier)),
		})
	}
	return events
}

// Score is the overall future score in [0, MaxScore]. Dream length acts as
// a complexity proxy worth up to 20 points.
func Score(sig signals.DreamSignals, f factors.ProfileFactors, dream string) int {
	complexityProxy := math.Min(float64(utf8.RuneCountInString(dream))/10, 10)
	s := 50.0
	s += sig.Specificity * 20
	s += complexityProxy * 2
	s += f.Country.Opportunity * 15
	s += f.Country.Growth * 10
	s += f.Age.RiskTolerance * 10
	s += f.Age.NetworkPotential * 5
	return min(int(math.Floor(s)), MaxScore)
}
