package complexity

import (
	"strings"

	"github.com/kalambet/futuresim/internal/signals"
)

// MaxSkills caps SkillRecommendations.
const MaxSkills = 6

// Insight is one coaching hint derived from an Analysis.
type Insight struct {
	Type     string `json:"type"`
	Message  string `json:"message"`
	Priority string `json:"priority"`
	Action   string `json:"action"`
}

var categoryAdvice = map[signals.Category]string{
	signals.CategoryCareer:    "Consider networking and skill development in your field",
	signals.CategoryEducation: "Research educational paths and required qualifications",
	signals.CategoryPersonal:  "Focus on building habits and routines that support your goal",
	signals.CategoryCreative:  "Dedicate regular time for practice and skill development",
	signals.CategoryFinancial: "Create a financial plan and consider professional advice",
	signals.CategorySocial:    "Build connections with like-minded people and organizations",
}

var categorySkills = map[signals.Category][]string{
	signals.CategoryCareer:    {"Leadership", "Communication", "Project Management", "Networking"},
	signals.CategoryEducation: {"Research", "Critical Thinking", "Time Management", "Study Techniques"},
	signals.CategoryPersonal:  {"Self-discipline", "Emotional Intelligence", "Health Management", "Relationship Building"},
	signals.CategoryCreative:  {"Creativity", "Technical Skills", "Portfolio Development", "Marketing"},
	signals.CategoryFinancial: {"Financial Literacy", "Investment Knowledge", "Budgeting", "Risk Management"},
	signals.CategorySocial:    {"Community Engagement", "Public Speaking", "Organization", "Empathy"},
}

var defaultSkills = []string{"Planning", "Execution", "Adaptability", "Persistence"}

// ActionableInsights applies the coaching rules to a. The category insight
// is always last.
func ActionableInsights(a Analysis) []Insight {
	var out []Insight
	if a.Factors.Specificity < 0.3 {
		out = append(out, Insight{
			Type:     "specificity",
			Message:  "Try making your dream more specific with clear milestones",
			Priority: "high",
			Action:   "Break down your dream into smaller, measurable goals",
		})
	}
	if a.Factors.Ambition > 0.7 {
		out = append(out, Insight{
			Type:     "ambition",
			Message:  "Your dream shows high ambition! Consider breaking it into phases",
			Priority: "medium",
			Action:   "Create a phased approach with short-term and long-term goals",
		})
	}
	if a.Factors.Realism < 0.4 {
		out = append(out, Insight{
			Type:     "realism",
			Message:  "Consider adding concrete steps to make your dream more achievable",
			Priority: "high",
			Action:   "Research what others have done to achieve similar dreams",
		})
	}

	msg, ok := categoryAdvice[a.Category]
	if !ok {
		msg = "Focus on consistent daily progress"
	}
	return append(out, Insight{
		Type:     "category",
		Message:  msg,
		Priority: "medium",
		Action:   "Set aside dedicated time each week for your dream",
	})
}

// SkillRecommendations lists the category's skills followed by skills named
// after the first two keywords, at most MaxSkills.
func SkillRecommendations(a Analysis) []string {
	base, ok := categorySkills[a.Category]
	if !ok {
		base = defaultSkills
	}
	skills := append([]string{}, base...)
	for i, kw := range a.Keywords {
		if i == 2 {
			break
		}
		skills = append(skills, capitalize(kw)+" Skills")
	}
	if len(skills) > MaxSkills {
		skills = skills[:MaxSkills]
	}
	return skills
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
