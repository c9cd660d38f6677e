// Package complexity scores how demanding a dream is. Its formulas are
// intentionally separate from the signals package: specificity uses a
// longer marker list and categorization uses different keyword lists with
// a personal default, and both outputs are shown on different surfaces.
package complexity

import (
	"math"
	"strings"

	"github.com/kalambet/futuresim/internal/profile"
	"github.com/kalambet/futuresim/internal/signals"
)

// Factors are the five sub-scores that feed Analysis.Score, each in [0,1].
type Factors struct {
	Specificity float64 `json:"specificity"`
	Ambition    float64 `json:"ambition"`
	Realism     float64 `json:"realism"`
	Timeframe   float64 `json:"timeframe"`
	Resources   float64 `json:"resources"`
}

// Analysis is the result of Analyze.
type Analysis struct {
	Score    float64          `json:"score"`
	Factors  Factors          `json:"factors"`
	Category signals.Category `json:"category"`
	Keywords []string         `json:"keywords"`
}

const (
	weightSpecificity = 0.2
	weightAmbition    = 0.3
	weightRealism     = 0.25
	weightTimeframe   = 0.15
	weightResources   = 0.1
)

var (
	specificityMarkers = []string{
		"by age", "in 5 years", "specific", "exact", "precise",
		"by 2025", "within", "deadline", "timeline", "step by step",
	}

	ambitionWords = []string{
		"change the world", "revolutionize", "transform", "pioneer",
		"first", "biggest", "largest", "best", "ultimate", "dream",
	}

	timeWords = []string{
		"soon", "immediately", "now", "quickly", "fast",
		"long term", "eventually", "someday", "future",
	}

	resourceWords = []string{
		"money", "funding", "investment", "team", "education",
		"degree", "certificate", "equipment", "tools", "resources",
	}

	categoryKeywords = map[signals.Category][]string{
		signals.CategoryCareer:    {"job", "career", "promotion", "business", "startup", "company"},
		signals.CategoryEducation: {"learn", "study", "degree", "university", "course", "education"},
		signals.CategoryPersonal:  {"family", "marriage", "children", "home", "travel", "health"},
		signals.CategoryCreative:  {"art", "music", "write", "create", "design", "build"},
		signals.CategoryFinancial: {"wealth", "rich", "money", "invest", "savings", "retire"},
		signals.CategorySocial:    {"help", "community", "volunteer", "impact", "change", "support"},
	}
)

// Analyze scores dream. Empty or whitespace-only dreams are rejected.
func Analyze(dream string) (Analysis, error) {
	if err := profile.RequireDream(dream); err != nil {
		return Analysis{}, err
	}
	lower := strings.ToLower(dream)

	f := Factors{
		Specificity: float64(count(lower, specificityMarkers)) / float64(len(specificityMarkers)),
		Ambition:    math.Min(float64(count(lower, ambitionWords))*0.2, 1),
		Realism:     signals.Realism(dream),
		Timeframe:   0.3,
		Resources:   math.Min(float64(count(lower, resourceWords))*0.15, 1),
	}
	if count(lower, timeWords) > 0 {
		f.Timeframe = 0.7
	}

	raw := f.Specificity*weightSpecificity +
		f.Ambition*weightAmbition +
		f.Realism*weightRealism +
		f.Timeframe*weightTimeframe +
		f.Resources*weightResources

	return Analysis{
		Score:    math.Min(raw*100, 100),
		Factors:  f,
		Category: Categorize(lower),
		Keywords: signals.ExtractKeywords(dream),
	}, nil
}

// Categorize returns the category with the most keyword hits, or personal
// when nothing matches. Ties keep the earlier entry of signals.Categories.
func Categorize(dream string) signals.Category {
	lower := strings.ToLower(dream)
	best := signals.CategoryPersonal
	highest := 0
	for _, c := range signals.Categories {
		if n := count(lower, categoryKeywords[c]); n > highest {
			best, highest = c, n
		}
	}
	return best
}

func count(text string, list []string) int {
	n := 0
	for _, s := range list {
		if strings.Contains(text, s) {
			n++
		}
	}
	return n
}
