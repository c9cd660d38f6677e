package signals

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/kalambet/futuresim/internal/profile"
)

func TestExtract_EmptyDreamRejected(t *testing.T) {
	for _, dream := range []string{"", "   ", "\n\t"} {
		_, err := Extract(dream)
		if !errors.Is(err, profile.ErrInvalidInput) {
			t.Errorf("Extract(%q) error = %v, want ErrInvalidInput", dream, err)
		}
	}
}

func TestExtract_CareerExample(t *testing.T) {
	const dream = "I will build a career as a software engineer by age 35"
	s, err := Extract(dream)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Category != CategoryCareer {
		t.Errorf("Category = %q, want %q", s.Category, CategoryCareer)
	}
	if s.Specificity != 0.2 {
		t.Errorf("Specificity = %v, want 0.2", s.Specificity)
	}
	// Length / 500 + 0.3 for "will".
	if want := realismOf(utf8.RuneCountInString(dream), true); s.Realism != want {
		t.Errorf("Realism = %v, want %v", s.Realism, want)
	}
	if s.AmbitionLevel != 0 {
		t.Errorf("AmbitionLevel = %v, want 0", s.AmbitionLevel)
	}
}

func realismOf(runes int, intent bool) float64 {
	r := float64(runes) / 500
	if intent {
		r += 0.3
	}
	return r
}

func TestDetectCategory(t *testing.T) {
	tests := []struct {
		dream string
		want  Category
	}{
		{"I want to study at a university and get a degree", CategoryEducation},
		{"Travel the world with my family", CategoryPersonal},
		{"become a famous musician and write music", CategoryCreative},
		{"retire rich with a million saved", CategoryFinancial},
		{"volunteer to help my community", CategorySocial},
		{"open a startup company", CategoryCareer},
		// No matches resolves to the first category.
		{"sail alone", CategoryCareer},
		// "work" (career) vs "study" (education): one each, career is listed first.
		{"work and study", CategoryCareer},
		// One creative hit vs one financial hit: creative is listed first.
		{"paint and invest", CategoryCreative},
		{"START A BUSINESS", CategoryCareer},
	}
	for _, tt := range tests {
		if got := DetectCategory(tt.dream); got != tt.want {
			t.Errorf("DetectCategory(%q) = %q, want %q", tt.dream, got, tt.want)
		}
	}
}

func TestSpecificity(t *testing.T) {
	if got := Specificity("nothing here"); got != 0 {
		t.Errorf("Specificity = %v, want 0", got)
	}
	got := Specificity("A SPECIFIC and exact plan, precise, by age 40, in 5 years")
	if got != 1 {
		t.Errorf("Specificity = %v, want 1", got)
	}
}

func TestRealism(t *testing.T) {
	long := strings.Repeat("a", 600)
	if got := Realism(long); got != 1 {
		t.Errorf("Realism(600 chars) = %v, want 1", got)
	}
	if got := Realism("I plan to run"); got != realismOf(13, true) {
		t.Errorf("Realism(plan to) = %v", got)
	}
	// "willing" must not count as "will".
	if got := Realism("willing"); got != 7.0/500 {
		t.Errorf("Realism(willing) = %v, want %v", got, 7.0/500)
	}
}

func TestAmbitionAndResources(t *testing.T) {
	s, err := Extract("pioneer the biggest and best ultimate dream to revolutionize and transform, with money, funding and a team")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.AmbitionLevel != 1 {
		t.Errorf("AmbitionLevel = %v, want capped at 1", s.AmbitionLevel)
	}
	if want := float64(3) * 0.15; s.ResourceNeed != want {
		t.Errorf("ResourceNeed = %v, want %v", s.ResourceNeed, want)
	}
}

func TestExtractKeywords(t *testing.T) {
	got := ExtractKeywords("With the Team, I'll build build a great product and ship it with love!")
	// "ill" is three characters and "with" is a stop word.
	want := []string{"team", "build", "great", "product", "ship", "love"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("ExtractKeywords = %v, want %v", got, want)
	}
}

func TestExtractKeywords_Limits(t *testing.T) {
	dream := "alpha bravo charlie delta echo foxtrot golf hotel india juliet kilo lima mike with the and"
	got := ExtractKeywords(dream)
	if len(got) > MaxKeywords {
		t.Fatalf("got %d keywords, want at most %d", len(got), MaxKeywords)
	}
	for _, w := range got {
		if len(w) <= 3 {
			t.Errorf("keyword %q has length <= 3", w)
		}
		if stopWords[w] {
			t.Errorf("keyword %q is a stop word", w)
		}
	}
	if got[0] != "alpha" {
		t.Errorf("first keyword = %q, want alpha", got[0])
	}
}

func TestCategoryLabel(t *testing.T) {
	if got := CategoryFinancial.Label(); got != "Financial" {
		t.Errorf("Label = %q, want Financial", got)
	}
}
