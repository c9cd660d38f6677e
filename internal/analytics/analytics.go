// Package analytics aggregates a projection, the progress ledger and the
// activity history into a report: success probability with its factor
// breakdown, a confidence bucket, a comparison against illustrative peers,
// activity trends and recommendations.
package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/kalambet/futuresim/internal/profile"
	"github.com/kalambet/futuresim/internal/progress"
	"github.com/kalambet/futuresim/internal/projection"
)

// DefaultHistoryDays is the trend window used when none is configured.
const DefaultHistoryDays = 30

// Aggregator builds reports. It holds no state between calls.
type Aggregator struct {
	now         func() time.Time
	historyDays int
}

// NewAggregator returns an Aggregator. A nil now uses time.Now and a
// non-positive historyDays uses DefaultHistoryDays.
func NewAggregator(now func() time.Time, historyDays int) *Aggregator {
	if now == nil {
		now = time.Now
	}
	if historyDays <= 0 {
		historyDays = DefaultHistoryDays
	}
	return &Aggregator{now: now, historyDays: historyDays}
}

// Report computes the analytics report. snap may be nil when the user has no
// progress ledger yet.
func (a *Aggregator) Report(p profile.UserProfile, proj projection.Projection, snap *progress.Snapshot, events []Event) (Report, error) {
	if err := profile.RequireDream(p.Dream); err != nil {
		return Report{}, err
	}
	now := a.now()
	engagement := Engagement(events)
	success := SuccessProbability(p, proj, snap, engagement, now.Year())
	comparative := Compare(p, proj, engagement)
	trends := TrendsOf(events, now, a.historyDays)

	return Report{
		Summary: Summary{
			OverallScore:       proj.Score,
			SuccessProbability: success.Probability,
			Confidence:         success.Confidence,
			EngagementLevel:    engagement,
		},
		DetailedAnalysis: DetailedAnalysis{
			SuccessFactors:      success.Factors,
			ComparativeInsights: comparative,
			ImprovementAreas:    comparative.ImprovementAreas,
			Trends:              trends,
		},
		Recommendations: Recommend(success.Factors, comparative.PeerComparison.Percentile),
	}, nil
}

// Recommend turns weak factors into prioritized actions.
func Recommend(f SuccessFactors, percentile int) []Recommendation {
	recs := []Recommendation{}
	if f.DreamSpecificity < 70 {
		recs = append(recs, Recommendation{
			Priority:  "high",
			Area:      "Dream Definition",
			Action:    "Add more specific, measurable details to your dream",
			Impact:    "15-25% increase in success probability",
			Timeframe: "1-2 weeks",
		})
	}
	if f.UserEngagement < 60 {
		recs = append(recs, Recommendation{
			Priority:  "medium",
			Area:      "Engagement",
			Action:    "Use progress tracking features more regularly",
			Impact:    "10-20% better goal adherence",
			Timeframe: "Ongoing",
		})
	}
	if percentile < 50 {
		recs = append(recs, Recommendation{
			Priority:  "medium",
			Area:      "Competitive Positioning",
			Action:    "Focus on developing unique strengths identified in analysis",
			Impact:    "Improved competitive advantage",
			Timeframe: "3-6 months",
		})
	}
	return recs
}

func percent(f float64) int {
	return int(math.Round(f * 100))
}

func engagementLabel(engagement float64) string {
	return fmt.Sprintf("%d%% engagement score", int(math.Round(engagement)))
}
