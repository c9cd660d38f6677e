// Package export renders a saved future into downloadable documents:
// JSON, YAML, plain text, Markdown, HTML and an iCalendar feed.
package export

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/kalambet/futuresim/internal/complexity"
	"github.com/kalambet/futuresim/internal/profile"
	"github.com/kalambet/futuresim/internal/progress"
	"github.com/kalambet/futuresim/internal/projection"
)

const (
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatText     = "text"
	FormatMarkdown = "markdown"
	FormatHTML     = "html"
	FormatICS      = "ics"
)

// Formats lists every supported format.
var Formats = []string{FormatJSON, FormatYAML, FormatText, FormatMarkdown, FormatHTML, FormatICS}

var aliases = map[string]string{
	"calendar": FormatICS,
	"md":       FormatMarkdown,
	"txt":      FormatText,
	"yml":      FormatYAML,
}

// ErrUnsupportedFormat is returned for a format outside Formats.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Input is everything a document may show. Progress and Insights are optional.
type Input struct {
	Profile    profile.UserProfile
	Projection projection.Projection
	Progress   *progress.Snapshot
	Insights   []complexity.Insight
	ExportedAt time.Time
}

// Result is a rendered document.
type Result struct {
	Format      string
	ContentType string
	Filename    string
	Body        []byte
}

// Normalize resolves aliases and case. It returns ErrUnsupportedFormat for
// anything it does not recognize.
func Normalize(format string) (string, error) {
	f := strings.ToLower(strings.TrimSpace(format))
	if a, ok := aliases[f]; ok {
		f = a
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

// Render produces the document for format.
func Render(format string, in Input) (Result, error) {
	f, err := Normalize(format)
	if err != nil {
		return Result{}, err
	}
	if in.ExportedAt.IsZero() {
		in.ExportedAt = time.Now()
	}

	var (
		body        []byte
		contentType string
		filename    string
	)
	name := slug(in.Profile.Name)
	switch f {
	case FormatJSON:
		body, err = renderJSON(in)
		contentType, filename = "application/json", "future-prediction-"+name+".json"
	case FormatYAML:
		body, err = renderYAML(in)
		contentType, filename = "application/yaml", "future-prediction-"+name+".yaml"
	case FormatText:
		body = []byte(renderText(in))
		contentType, filename = "text/plain; charset=utf-8", "future-report-"+name+".txt"
	case FormatMarkdown:
		body = []byte(renderMarkdown(in))
		contentType, filename = "text/markdown; charset=utf-8", "future-report-"+name+".md"
	case FormatHTML:
		body, err = renderHTML(in)
		contentType, filename = "text/html; charset=utf-8", "future-report-"+name+".html"
	case FormatICS:
		body = []byte(renderICS(in))
		contentType, filename = "text/calendar; charset=utf-8", fmt.Sprintf("future-timeline-%d.ics", in.ExportedAt.Year())
	}
	if err != nil {
		return Result{}, fmt.Errorf("rendering %s: %w", f, err)
	}
	return Result{Format: f, ContentType: contentType, Filename: filename, Body: body}, nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slug(s string) string {
	out := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if out == "" {
		return "user"
	}
	return out
}
