package projection

// TimelineEvent is one dated point on the projected timeline.
type TimelineEvent struct {
	Year        int    `json:"year"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Milestone   string `json:"milestone"`
	Probability int    `json:"probability"`
}

// AdvancedInsights summarizes what drives a projection.
type AdvancedInsights struct {
	KeyFactors      []string `json:"keyFactors"`
	RiskAssessment  string   `json:"riskAssessment"`
	Recommendations []string `json:"recommendations"`
	Confidence      int      `json:"confidence"`
}

// SceneDescriptor is presentation data derived 1:1 from a timeline event.
type SceneDescriptor struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Year        int    `json:"year,omitempty"`
}

// Projection is the complete output of one generate request. It is never
// mutated after creation; a new request produces a new Projection.
type Projection struct {
	Timeline  []TimelineEvent   `json:"timeline"`
	Score     int               `json:"score"`
	Insights  AdvancedInsights  `json:"insights"`
	Scenes    []SceneDescriptor `json:"scenes"`
	Timestamp string            `json:"timestamp"`
}
