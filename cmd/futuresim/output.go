package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kalambet/futuresim/internal/storage"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
)

func colorize(color, text string) string {
	if noColor {
		return text
	}
	return color + text + colorReset
}

func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorGreen, "✓ "+msg))
}

func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorRed, "✗ "+msg))
}

func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorYellow, "⚠ "+msg))
}

func printStatus(label string, format string, args ...any) {
	val := fmt.Sprintf(format, args...)
	l := colorize(colorBold, label+":")
	fmt.Fprintf(os.Stderr, "  %s %s\n", l, val)
}

func printStep(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(os.Stderr, colorize(colorCyan, "→ "+msg))
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printFuture writes a short human summary of a saved future.
func printFuture(w io.Writer, rec storage.FutureRecord) {
	fmt.Fprintf(w, "%s  %s (%d, %s)\n", colorize(colorCyan, shortID(rec.ID)), rec.Profile.Name, rec.Profile.Age, rec.Profile.Country)
	fmt.Fprintf(w, "%s %d/100\n", colorize(colorBold, "Future score:"), rec.Projection.Score)
	if rec.Recovery != "" && rec.Recovery != "none" {
		fmt.Fprintf(w, "%s\n", colorize(colorYellow, "recovered: "+rec.Recovery))
	}
	fmt.Fprintln(w)
	for _, e := range rec.Projection.Timeline {
		fmt.Fprintf(w, "  [%d] %s (%d%%)\n", e.Year, e.Title, e.Probability)
		if e.Milestone != "" {
			fmt.Fprintf(w, "         %s\n", e.Milestone)
		}
	}
	if recs := rec.Projection.Insights.Recommendations; len(recs) > 0 {
		fmt.Fprintf(w, "\n%s\n", colorize(colorBold, "Recommendations:"))
		for _, r := range recs {
			fmt.Fprintf(w, "  - %s\n", r)
		}
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func truncate(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
