package signals

import "strings"

// Category is the dominant theme detected in a dream.
type Category string

const (
	CategoryCareer    Category = "career"
	CategoryEducation Category = "education"
	CategoryPersonal  Category = "personal"
	CategoryCreative  Category = "creative"
	CategoryFinancial Category = "financial"
	CategorySocial    Category = "social"
)

// Categories lists every category in priority order. When two categories
// match the same number of keywords the one listed first wins, and a dream
// that matches nothing resolves to the first entry.
var Categories = []Category{
	CategoryCareer,
	CategoryEducation,
	CategoryPersonal,
	CategoryCreative,
	CategoryFinancial,
	CategorySocial,
}

// Label returns the category name with an upper-case first letter.
func (c Category) Label() string {
	if c == "" {
		return ""
	}
	s := string(c)
	return strings.ToUpper(s[:1]) + s[1:]
}

var categoryKeywords = map[Category][]string{
	CategoryCareer:    {"job", "career", "work", "profession", "business", "company", "startup"},
	CategoryEducation: {"study", "learn", "degree", "university", "college", "master", "phd"},
	CategoryPersonal:  {"family", "marry", "children", "house", "home", "travel", "health"},
	CategoryCreative:  {"artist", "writer", "musician", "create", "paint", "write", "music"},
	CategoryFinancial: {"rich", "wealth", "money", "invest", "million", "retire"},
	CategorySocial:    {"help", "community", "volunteer", "impact", "change", "support"},
}
