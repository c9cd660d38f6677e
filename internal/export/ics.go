package export

import (
	"fmt"
	"strings"
)

const crlf = "\r\n"

// renderICS emits one all-day event on January 1st of each timeline year.
func renderICS(in Input) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//AI Future Simulator//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}
	stamp := in.ExportedAt.UTC().Format("20060102T150405Z")
	for i, ev := range in.Projection.Timeline {
		lines = append(lines,
			"BEGIN:VEVENT",
			fmt.Sprintf("UID:%d-%d-%d@futuresim", ev.Year, i, in.ExportedAt.UnixMilli()),
			"DTSTAMP:"+stamp,
			"SUMMARY:"+escapeText(ev.Title),
			"DESCRIPTION:"+escapeText(ev.Description+"\n\nMilestone: "+ev.Milestone+fmt.Sprintf("\nProbability: %d%%", ev.Probability)),
			fmt.Sprintf("DTSTART;VALUE=DATE:%04d0101", ev.Year),
			fmt.Sprintf("DTEND;VALUE=DATE:%04d0102", ev.Year),
			"CATEGORIES:FUTURE_MILESTONE",
			"STATUS:CONFIRMED",
			"END:VEVENT",
		)
	}
	lines = append(lines, "END:VCALENDAR")
	return strings.Join(lines, crlf) + crlf
}

var icsEscaper = strings.NewReplacer(
	`\`, `\\`,
	";", `\;`,
	",", `\,`,
	"\r\n", `\n`,
	"\n", `\n`,
)

func escapeText(s string) string {
	return icsEscaper.Replace(s)
}
