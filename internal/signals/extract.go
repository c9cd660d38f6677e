// Package signals derives deterministic text signals from a free-text dream:
// category, specificity, ambition, realism, resource need, and keywords.
package signals

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/kalambet/futuresim/internal/profile"
)

// MaxKeywords caps the keyword list returned by ExtractKeywords.
const MaxKeywords = 10

// DreamSignals is recomputed on every call and never stored.
type DreamSignals struct {
	Category      Category `json:"category"`
	Specificity   float64  `json:"specificity"`
	AmbitionLevel float64  `json:"ambitionLevel"`
	Realism       float64  `json:"realism"`
	ResourceNeed  float64  `json:"resourceNeed"`
	Keywords      []string `json:"keywords"`
}

var (
	specificityMarkers = []string{"by age", "in 5 years", "specific", "exact", "precise"}

	ambitionWords = []string{
		"change the world", "revolutionize", "transform", "pioneer",
		"first", "biggest", "largest", "best", "ultimate", "dream",
	}

	resourceWords = []string{
		"money", "funding", "investment", "team", "education",
		"degree", "certificate", "equipment", "tools", "resources",
	}

	stopWords = map[string]bool{
		"the": true, "and": true, "or": true, "but": true, "in": true, "on": true,
		"at": true, "to": true, "for": true, "with": true, "by": true,
	}

	actionIntent = regexp.MustCompile(`(?i)\b(will|going to|plan to|aim to)\b`)
	nonWord      = regexp.MustCompile(`[^\w\s]`)
)

// Extract computes the signal set for dream. An empty or whitespace-only
// dream is rejected with a profile.InvalidInputError.
func Extract(dream string) (DreamSignals, error) {
	if err := profile.RequireDream(dream); err != nil {
		return DreamSignals{}, err
	}
	lower := strings.ToLower(dream)
	return DreamSignals{
		Category:      DetectCategory(lower),
		Specificity:   Specificity(lower),
		AmbitionLevel: math.Min(float64(countMatches(lower, ambitionWords))*0.2, 1),
		Realism:       Realism(dream),
		ResourceNeed:  math.Min(float64(countMatches(lower, resourceWords))*0.15, 1),
		Keywords:      ExtractKeywords(dream),
	}, nil
}

// DetectCategory picks the category whose keyword list has the most
// substring hits in dream, breaking ties by the order of Categories.
func DetectCategory(dream string) Category {
	lower := strings.ToLower(dream)
	best := Categories[0]
	bestCount := -1
	for _, c := range Categories {
		n := countMatches(lower, categoryKeywords[c])
		if n > bestCount {
			best, bestCount = c, n
		}
	}
	return best
}

// Specificity is the share of specificity markers present in dream.
func Specificity(dream string) float64 {
	lower := strings.ToLower(dream)
	return float64(countMatches(lower, specificityMarkers)) / float64(len(specificityMarkers))
}

// Realism grows with dream length and gets a 0.3 bonus for an explicit
// intent phrase such as "will" or "plan to".
func Realism(dream string) float64 {
	r := float64(utf8.RuneCountInString(dream)) / 500
	if actionIntent.MatchString(dream) {
		r += 0.3
	}
	return math.Min(r, 1)
}

// ExtractKeywords returns the distinct words longer than three characters
// that are not stop words, in order of first appearance, at most MaxKeywords.
func ExtractKeywords(dream string) []string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(dream), "")
	seen := make(map[string]bool)
	keywords := []string{}
	for _, w := range strings.Fields(cleaned) {
		if utf8.RuneCountInString(w) <= 3 || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
		if len(keywords) == MaxKeywords {
			break
		}
	}
	return keywords
}

// countMatches counts how many entries of list occur in text as substrings.
func countMatches(text string, list []string) int {
	n := 0
	for _, s := range list {
		if strings.Contains(text, s) {
			n++
		}
	}
	return n
}
