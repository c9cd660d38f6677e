package simulator

import (
	"github.com/kalambet/futuresim/internal/complexity"
)

// Analysis is the coaching view of a dream.
type Analysis struct {
	complexity.Analysis
	Insights []complexity.Insight `json:"insights"`
	Skills   []string             `json:"skills"`
}

// Analyze runs the complexity analysis of dream without saving anything.
func (s *Service) Analyze(dream string) (Analysis, error) {
	a, err := complexity.Analyze(dream)
	if err != nil {
		return Analysis{}, err
	}
	return Analysis{
		Analysis: a,
		Insights: complexity.ActionableInsights(a),
		Skills:   complexity.SkillRecommendations(a),
	}, nil
}
