package analytics

import (
	"time"

	"github.com/kalambet/futuresim/internal/signals"
)

// Event is one recorded user interaction.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	SessionID string    `json:"sessionId"`
	Timestamp time.Time `json:"timestamp"`
}

// Report is the full analytics output for one profile and projection.
type Report struct {
	Summary          Summary          `json:"summary"`
	DetailedAnalysis DetailedAnalysis `json:"detailedAnalysis"`
	Recommendations  []Recommendation `json:"recommendations"`
}

type Summary struct {
	OverallScore       int     `json:"overallScore"`
	SuccessProbability int     `json:"successProbability"`
	Confidence         string  `json:"confidence"`
	EngagementLevel    float64 `json:"engagementLevel"`
}

type DetailedAnalysis struct {
	SuccessFactors      SuccessFactors      `json:"successFactors"`
	ComparativeInsights ComparativeInsights `json:"comparativeInsights"`
	ImprovementAreas    []ImprovementArea   `json:"improvementAreas"`
	Trends              Trends              `json:"trends"`
}

// SuccessFactors holds each input of the success probability as a
// rounded percentage.
type SuccessFactors struct {
	BasePotential    int `json:"basePotential"`
	DreamSpecificity int `json:"dreamSpecificity"`
	TimelineRealism  int `json:"timelineRealism"`
	CurrentProgress  int `json:"currentProgress"`
	UserEngagement   int `json:"userEngagement"`
}

// Peer is a fabricated comparison profile. Peers are derived from the user's
// own profile on every call and do not represent real users.
type Peer struct {
	Age           int              `json:"age"`
	Country       string           `json:"country"`
	DreamCategory signals.Category `json:"dreamCategory"`
	SuccessScore  int              `json:"successScore"`
	Achievements  []string         `json:"achievements"`
	Timeline      int              `json:"timeline"`
}

type PeerComparison struct {
	UserScore        int      `json:"userScore"`
	AveragePeerScore int      `json:"averagePeerScore"`
	Percentile       int      `json:"percentile"`
	Strengths        []string `json:"strengths"`
	Opportunities    []string `json:"opportunities"`
}

type SuccessStory struct {
	Category     signals.Category `json:"category"`
	Achievements []string         `json:"achievements"`
	KeyFactors   []string         `json:"keyFactors"`
}

type ImprovementArea struct {
	Area    string `json:"area"`
	Current string `json:"current"`
	Target  string `json:"target"`
	Action  string `json:"action"`
	Impact  string `json:"impact"`
}

type ComparativeInsights struct {
	PeerComparison   PeerComparison    `json:"peerComparison"`
	SuccessStories   []SuccessStory    `json:"successStories"`
	CommonChallenges []string          `json:"commonChallenges"`
	ImprovementAreas []ImprovementArea `json:"improvementAreas"`
}

type FeatureCount struct {
	Feature string `json:"feature"`
	Count   int    `json:"count"`
}

type SeasonalTrends struct {
	BusiestMonth    *string `json:"busiestMonth"`
	SeasonalPattern string  `json:"seasonalPattern"`
}

type Trends struct {
	ActiveDays      int            `json:"activeUsers"`
	PopularFeatures []FeatureCount `json:"popularFeatures"`
	SuccessPatterns []string       `json:"successPatterns"`
	SeasonalTrends  SeasonalTrends `json:"seasonalTrends"`
}

type Recommendation struct {
	Priority  string `json:"priority"`
	Area      string `json:"area"`
	Action    string `json:"action"`
	Impact    string `json:"impact"`
	Timeframe string `json:"timeframe"`
}
