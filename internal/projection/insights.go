package projection

import (
	"math"

	"github.com/kalambet/futuresim/internal/complexity"
)

const maxRecommendations = 5

// DefaultInsights are used whenever a projection lacks insights of its own.
func DefaultInsights() AdvancedInsights {
	return AdvancedInsights{
		KeyFactors:      []string{"Career Growth", "Personal Development", "Opportunity Timing"},
		RiskAssessment:  "Low to Moderate",
		Recommendations: []string{"Focus on skill development", "Build professional network"},
		Confidence:      85,
	}
}

// BuildInsights derives insights from the projection basis.
func BuildInsights(b Basis) AdvancedInsights {
	keyFactors := []string{b.Signals.Category.Label() + " focus"}
	if b.Signals.Specificity >= 0.2 {
		keyFactors = append(keyFactors, "Clear timeline")
	}
	if b.Complexity.Factors.Ambition > 0.7 {
		keyFactors = append(keyFactors, "High ambition")
	}
	if b.Factors.Country.Opportunity >= 0.7 {
		keyFactors = append(keyFactors, "Strong local opportunity")
	}
	if b.Factors.Age.LearningSpeed >= 0.5 {
		keyFactors = append(keyFactors, "Fast learning curve")
	}

	var recs []string
	seen := make(map[string]bool)
	add := func(s string) {
		if !seen[s] && len(recs) < maxRecommendations {
			seen[s] = true
			recs = append(recs, s)
		}
	}
	for _, in := range complexity.ActionableInsights(b.Complexity) {
		add(in.Action)
	}
	for _, skill := range complexity.SkillRecommendations(b.Complexity) {
		add("Develop " + skill)
	}

	return AdvancedInsights{
		KeyFactors:      keyFactors,
		RiskAssessment:  RiskAssessment(b.BaseProbability),
		Recommendations: recs,
		Confidence:      min(95, 50+int(math.Round(b.Complexity.Score*0.45))),
	}
}

// RiskAssessment labels a base probability.
func RiskAssessment(base float64) string {
	switch {
	case base >= 0.85:
		return "Low"
	case base >= 0.75:
		return "Low to Moderate"
	case base >= 0.65:
		return "Moderate"
	default:
		return "High"
	}
}
