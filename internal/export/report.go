package export

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

func renderText(in Input) string {
	var b strings.Builder
	p, proj := in.Profile, in.Projection

	b.WriteString("AI FUTURE PREDICTION REPORT\n")
	b.WriteString("===========================\n\n")
	fmt.Fprintf(&b, "Generated for: %s\n", p.Name)
	fmt.Fprintf(&b, "Age: %d | Country: %s\n", p.Age, p.Country)
	fmt.Fprintf(&b, "Date: %s\n", in.ExportedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "Future Potential Score: %d/100\n\n", proj.Score)

	b.WriteString("PRIMARY DREAM:\n")
	b.WriteString(p.Dream + "\n\n")

	b.WriteString("FUTURE TIMELINE:\n")
	for _, ev := range proj.Timeline {
		fmt.Fprintf(&b, "\n[%d] %s\n", ev.Year, ev.Title)
		fmt.Fprintf(&b, "    %s\n", ev.Description)
		fmt.Fprintf(&b, "    Milestone: %s (%d%% probability)\n", ev.Milestone, ev.Probability)
	}

	b.WriteString("\nAI INSIGHTS:\n")
	for _, f := range proj.Insights.KeyFactors {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	if proj.Insights.RiskAssessment != "" {
		fmt.Fprintf(&b, "Risk: %s\n", proj.Insights.RiskAssessment)
	}
	for _, r := range proj.Insights.Recommendations {
		fmt.Fprintf(&b, "* %s\n", r)
	}
	for _, ins := range in.Insights {
		fmt.Fprintf(&b, "- %s", ins.Message)
		if ins.Action != "" {
			fmt.Fprintf(&b, " (%s)", ins.Action)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n---\nGenerated by AI Future Simulator\n")
	return b.String()
}

func renderMarkdown(in Input) string {
	var b strings.Builder
	p, proj := in.Profile, in.Projection

	b.WriteString("# AI Future Prediction Report\n\n")
	fmt.Fprintf(&b, "**Generated for:** %s  \n", p.Name)
	fmt.Fprintf(&b, "**Age:** %d  \n**Country:** %s  \n", p.Age, p.Country)
	fmt.Fprintf(&b, "**Date:** %s  \n", in.ExportedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "**Future Potential Score:** %d/100\n\n", proj.Score)

	b.WriteString("## Primary Dream\n\n")
	fmt.Fprintf(&b, "> %s\n\n", oneLine(p.Dream))

	b.WriteString("## Future Timeline\n\n")
	b.WriteString("| Year | Title | Milestone | Probability |\n")
	b.WriteString("|------|-------|-----------|-------------|\n")
	for _, ev := range proj.Timeline {
		fmt.Fprintf(&b, "| %d | %s | %s | %d%% |\n", ev.Year, cell(ev.Title), cell(ev.Milestone), ev.Probability)
	}
	b.WriteString("\n")
	for _, ev := range proj.Timeline {
		fmt.Fprintf(&b, "### %d: %s\n\n%s\n\n", ev.Year, ev.Title, oneLine(ev.Description))
	}

	ins := proj.Insights
	b.WriteString("## Key Factors\n\n")
	for _, f := range ins.KeyFactors {
		fmt.Fprintf(&b, "- %s\n", f)
	}
	fmt.Fprintf(&b, "\n**Risk assessment:** %s  \n**Confidence:** %d%%\n\n", ins.RiskAssessment, ins.Confidence)

	if len(ins.Recommendations) > 0 {
		b.WriteString("## Recommendations\n\n")
		for _, r := range ins.Recommendations {
			fmt.Fprintf(&b, "- %s\n", r)
		}
		b.WriteString("\n")
	}

	if len(in.Insights) > 0 {
		b.WriteString("## AI Insights\n\n")
		for _, i := range in.Insights {
			fmt.Fprintf(&b, "- **%s** %s\n", i.Priority, i.Message)
		}
		b.WriteString("\n")
	}

	if s := in.Progress; s != nil && len(s.Milestones) > 0 {
		b.WriteString("## Progress\n\n")
		for _, m := range s.Milestones {
			mark := " "
			if m.Completed {
				mark = "x"
			}
			fmt.Fprintf(&b, "- [%s] %s\n", mark, m.Title)
		}
		fmt.Fprintf(&b, "\nOverall progress: %d%%\n\n", s.ProgressPercentage)
	}

	b.WriteString("---\n\n*Generated by AI Future Simulator*\n")
	return b.String()
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func cell(s string) string {
	return strings.ReplaceAll(oneLine(s), "|", `\|`)
}

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
)

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 48rem; margin: 2rem auto; padding: 0 1rem; color: #1f2937; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #d1d5db; padding: .4rem .6rem; text-align: left; }
blockquote { border-left: 4px solid #667eea; margin: 0; padding-left: 1rem; color: #4b5563; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

// renderHTML converts the Markdown report. Raw HTML in user text is
// dropped by the converter.
func renderHTML(in Input) ([]byte, error) {
	var body bytes.Buffer
	if err := markdown.Convert([]byte(renderMarkdown(in)), &body); err != nil {
		return nil, fmt.Errorf("converting markdown: %w", err)
	}
	var out bytes.Buffer
	err := page.Execute(&out, struct {
		Title string
		Body  template.HTML
	}{
		Title: "Future Report: " + in.Profile.Name,
		Body:  template.HTML(body.String()),
	})
	if err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}
