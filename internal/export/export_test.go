package export

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kalambet/futuresim/internal/complexity"
	"github.com/kalambet/futuresim/internal/profile"
	"github.com/kalambet/futuresim/internal/progress"
	"github.com/kalambet/futuresim/internal/projection"
)

var fixedNow = time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

func testInput(t *testing.T) Input {
	t.Helper()
	p := profile.UserProfile{
		Name:    "Jane Doe",
		Age:     30,
		Country: "usa",
		Dream:   "I will build a career as a software engineer by age 35",
	}
	proj, err := projection.NewEngine(func() time.Time { return fixedNow }).Project(p)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	return Input{Profile: p, Projection: proj, ExportedAt: fixedNow}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"json":     FormatJSON,
		" YAML ":   FormatYAML,
		"yml":      FormatYAML,
		"calendar": FormatICS,
		"md":       FormatMarkdown,
		"txt":      FormatText,
		"html":     FormatHTML,
	}
	for in, want := range tests {
		got, err := Normalize(in)
		if err != nil {
			t.Errorf("Normalize(%q): %v", in, err)
			continue
		}
		if got != want {
			t.Errorf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := Normalize("pdf"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Normalize(pdf) error = %v, want ErrUnsupportedFormat", err)
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	_, err := Render("docx", testInput(t))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestRender_JSON(t *testing.T) {
	in := testInput(t)
	in.Progress = &progress.Snapshot{Milestones: []progress.Milestone{}, ProgressPercentage: 0}
	in.Insights = []complexity.Insight{{Type: "category", Message: "m", Priority: "low", Action: "a"}}

	res, err := Render(FormatJSON, in)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res.ContentType != "application/json" {
		t.Errorf("content type = %q", res.ContentType)
	}
	if res.Filename != "future-prediction-jane-doe.json" {
		t.Errorf("filename = %q", res.Filename)
	}

	var doc Document
	if err := json.Unmarshal(res.Body, &doc); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if doc.Metadata.Version != "1.0" || doc.Metadata.Source != "AI Future Simulator" || doc.Metadata.Format != "json" {
		t.Errorf("metadata = %+v", doc.Metadata)
	}
	if doc.Metadata.ExportedAt != "2026-03-14T09:30:00Z" {
		t.Errorf("exportedAt = %q", doc.Metadata.ExportedAt)
	}
	if doc.UserData != in.Profile {
		t.Errorf("userData = %+v", doc.UserData)
	}
	if doc.FutureData.Score != in.Projection.Score {
		t.Errorf("score = %d, want %d", doc.FutureData.Score, in.Projection.Score)
	}
	if doc.ProgressData == nil {
		t.Error("progressData missing")
	}
	if len(doc.Insights) != 1 {
		t.Errorf("insights = %d, want 1", len(doc.Insights))
	}
	if doc.ExportInfo.TotalMilestones != 4 || doc.ExportInfo.ExportDate != "2026-03-14" {
		t.Errorf("exportInfo = %+v", doc.ExportInfo)
	}
}

func TestRender_JSONOmitsOptionalSections(t *testing.T) {
	res, err := Render(FormatJSON, testInput(t))
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(res.Body, &raw); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	for _, key := range []string{"progressData", "insights"} {
		if _, ok := raw[key]; ok {
			t.Errorf("%s present without input", key)
		}
	}
}

func TestRender_YAML(t *testing.T) {
	in := testInput(t)
	res, err := Render("yml", in)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res.Format != FormatYAML || res.Filename != "future-prediction-jane-doe.yaml" {
		t.Errorf("result = %q %q", res.Format, res.Filename)
	}
	body := string(res.Body)
	if strings.Contains(body, "{") {
		t.Errorf("flow style left in output:\n%s", body)
	}
	if !strings.HasPrefix(body, "metadata:\n") {
		t.Errorf("first key is not metadata:\n%s", body)
	}

	var doc struct {
		Metadata   map[string]any `yaml:"metadata"`
		UserData   map[string]any `yaml:"userData"`
		FutureData struct {
			Score    int              `yaml:"score"`
			Timeline []map[string]any `yaml:"timeline"`
		} `yaml:"futureData"`
	}
	if err := yaml.Unmarshal(res.Body, &doc); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if doc.Metadata["version"] != "1.0" {
		t.Errorf("version = %#v, want string 1.0", doc.Metadata["version"])
	}
	if doc.UserData["name"] != "Jane Doe" {
		t.Errorf("name = %#v", doc.UserData["name"])
	}
	if doc.FutureData.Score != in.Projection.Score {
		t.Errorf("score = %d", doc.FutureData.Score)
	}
	if len(doc.FutureData.Timeline) != 4 {
		t.Errorf("timeline = %d events", len(doc.FutureData.Timeline))
	}
}

func TestRender_Text(t *testing.T) {
	in := testInput(t)
	in.Insights = []complexity.Insight{{Message: "Stay focused", Action: "Plan weekly"}}
	res, err := Render(FormatText, in)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	body := string(res.Body)
	for _, want := range []string{
		"AI FUTURE PREDICTION REPORT",
		"Generated for: Jane Doe",
		"Future Potential Score: 95/100",
		"PRIMARY DREAM:\n" + in.Profile.Dream,
		"FUTURE TIMELINE:",
		"[2027] " + in.Projection.Timeline[0].Title,
		"[2036] " + in.Projection.Timeline[3].Title,
		"AI INSIGHTS:",
		"- Stay focused (Plan weekly)",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("text report missing %q", want)
		}
	}
	if !strings.HasSuffix(body, "---\nGenerated by AI Future Simulator\n") {
		t.Errorf("unexpected footer:\n%s", body)
	}
	if res.Filename != "future-report-jane-doe.txt" {
		t.Errorf("filename = %q", res.Filename)
	}
}

func TestRender_Markdown(t *testing.T) {
	in := testInput(t)
	done := fixedNow
	in.Progress = &progress.Snapshot{
		Milestones: []progress.Milestone{
			{ID: "a", Title: "Ship portfolio", Completed: true, CompletedAt: &done},
			{ID: "b", Title: "Apply to jobs"},
		},
		ProgressPercentage: 50,
	}
	res, err := Render(FormatMarkdown, in)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	body := string(res.Body)
	for _, want := range []string{
		"# AI Future Prediction Report",
		"**Future Potential Score:** 95/100",
		"> " + in.Profile.Dream,
		"| Year | Title | Milestone | Probability |",
		"### 2029: ",
		"## Key Factors",
		"- [x] Ship portfolio",
		"- [ ] Apply to jobs",
		"Overall progress: 50%",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRender_HTML(t *testing.T) {
	in := testInput(t)
	in.Profile.Dream = "Open a bakery <script>alert(1)</script> in 2030"
	res, err := Render(FormatHTML, in)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	body := string(res.Body)
	if !strings.HasPrefix(body, "<!DOCTYPE html>") {
		t.Errorf("missing doctype")
	}
	for _, want := range []string{
		`<h1 id="ai-future-prediction-report">`,
		"<table>",
		"<blockquote>",
		"<title>Future Report: Jane Doe</title>",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("html missing %q", want)
		}
	}
	if strings.Contains(body, "<script>") {
		t.Error("raw script tag passed through")
	}
	if res.ContentType != "text/html; charset=utf-8" {
		t.Errorf("content type = %q", res.ContentType)
	}
}

func TestRender_ICS(t *testing.T) {
	in := testInput(t)
	in.Projection.Timeline[0].Title = "Launch; scale, repeat"
	res, err := Render("calendar", in)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if res.Filename != "future-timeline-2026.ics" {
		t.Errorf("filename = %q", res.Filename)
	}
	body := string(res.Body)
	if strings.Contains(strings.ReplaceAll(body, "\r\n", ""), "\n") {
		t.Error("bare LF line ending")
	}
	lines := strings.Split(strings.TrimSuffix(body, "\r\n"), "\r\n")
	if lines[0] != "BEGIN:VCALENDAR" || lines[len(lines)-1] != "END:VCALENDAR" {
		t.Errorf("calendar not wrapped: first %q last %q", lines[0], lines[len(lines)-1])
	}
	for _, want := range []string{
		"VERSION:2.0",
		"PRODID:-//AI Future Simulator//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
		"DTSTART;VALUE=DATE:20270101",
		"DTEND;VALUE=DATE:20270102",
		"DTSTART;VALUE=DATE:20360101",
		`SUMMARY:Launch\; scale\, repeat`,
		"CATEGORIES:FUTURE_MILESTONE",
		"STATUS:CONFIRMED",
		"DTSTAMP:20260314T093000Z",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("calendar missing %q", want)
		}
	}
	if n := strings.Count(body, "BEGIN:VEVENT"); n != 4 {
		t.Errorf("events = %d, want 4", n)
	}
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Jane Doe":      "jane-doe",
		"  ":            "user",
		"Zoë O'Neil":    "zo-o-neil",
		"already-slugy": "already-slugy",
	}
	for in, want := range tests {
		if got := slug(in); got != want {
			t.Errorf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}
