package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kalambet/futuresim/internal/api"
	"github.com/kalambet/futuresim/internal/config"
	"github.com/kalambet/futuresim/internal/export"
	"github.com/kalambet/futuresim/internal/profile"
	"github.com/kalambet/futuresim/internal/progress"
	"github.com/kalambet/futuresim/internal/simulator"
	"github.com/kalambet/futuresim/internal/storage"
)

// --- generate ---

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Project a future timeline",
	Long: `Project a future timeline from a profile and a dream.

Examples:
  futuresim generate --name Jane --age 30 --country usa --dream "Become a software engineer by 35"
  futuresim generate --name Jane --age 30 --country usa --dream-file ./vision.pdf`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := generateRequestFromFlags(cmd)
		if err != nil {
			return err
		}
		asJSON, _ := cmd.Flags().GetBool("json")

		client, err := newAPIClient()
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/futures", req)
		if err != nil {
			return err
		}
		var rec storage.FutureRecord
		if err := decodeJSON(resp, &rec); err != nil {
			return err
		}

		if asJSON {
			return printJSON(os.Stdout, rec)
		}
		printFuture(os.Stdout, rec)
		return nil
	},
}

func generateRequestFromFlags(cmd *cobra.Command) (api.GenerateRequest, error) {
	name, _ := cmd.Flags().GetString("name")
	age, _ := cmd.Flags().GetInt("age")
	country, _ := cmd.Flags().GetString("country")
	dream, _ := cmd.Flags().GetString("dream")
	dreamFile, _ := cmd.Flags().GetString("dream-file")
	session, _ := cmd.Flags().GetString("session")

	switch {
	case dream != "" && dreamFile != "":
		return api.GenerateRequest{}, fmt.Errorf("use only one of --dream or --dream-file")
	case dreamFile != "":
		d, err := readDreamFile(dreamFile)
		if err != nil {
			return api.GenerateRequest{}, err
		}
		dream = d
	case dream == "":
		return api.GenerateRequest{}, fmt.Errorf("one of --dream or --dream-file is required")
	}

	return api.GenerateRequest{
		UserProfile: profile.UserProfile{Name: name, Age: age, Country: country, Dream: dream},
		SessionID:   session,
	}, nil
}

func addGenerateFlags(cmd *cobra.Command) {
	cmd.Flags().String("name", "", "your name")
	cmd.Flags().Int("age", 0, "your current age (1-100)")
	cmd.Flags().String("country", "", "country of residence")
	cmd.Flags().String("dream", "", "the goal to project")
	cmd.Flags().String("dream-file", "", "read the dream from a text or PDF file")
	cmd.Flags().String("session", "cli", "activity session ID")
	cmd.Flags().Bool("json", false, "print the full record as JSON")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("age")
	cmd.MarkFlagRequired("country")
}

func init() {
	addGenerateFlags(generateCmd)
}

// --- futures ---

var futuresCmd = &cobra.Command{
	Use:   "futures",
	Short: "Manage saved futures",
}

var futuresListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved futures, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		futures, err := listFutures(cmd.Context(), client, limit)
		if err != nil {
			return err
		}

		if len(futures) == 0 {
			fmt.Println("No futures found.")
			return nil
		}
		for _, f := range futures {
			fmt.Printf("%s  %s  %3d  %s\n",
				colorize(colorCyan, shortID(f.ID)),
				f.CreatedAt.Format(time.DateOnly),
				f.Projection.Score,
				truncate(f.Profile.Dream, 60),
			)
		}
		return nil
	},
}

var futuresShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a saved future",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), "/futures/"+url.PathEscape(args[0]))
		if err != nil {
			return err
		}
		var rec storage.FutureRecord
		if err := decodeJSON(resp, &rec); err != nil {
			return err
		}

		if asJSON {
			return printJSON(os.Stdout, rec)
		}
		printFuture(os.Stdout, rec)
		return nil
	},
}

var futuresDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved future",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.delete(cmd.Context(), "/futures/"+url.PathEscape(args[0]))
		if err != nil {
			return err
		}
		if err := decodeJSON(resp, nil); err != nil {
			return err
		}
		printSuccess("Deleted future %s", args[0])
		return nil
	},
}

var futuresStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate statistics over saved futures",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), "/futures/stats")
		if err != nil {
			return err
		}
		var stats storage.FutureStats
		if err := decodeJSON(resp, &stats); err != nil {
			return err
		}

		printStatus("Total", "%d", stats.TotalFutures)
		printStatus("Average score", "%d", stats.AverageScore)
		printStatus("Highest score", "%d", stats.HighestScore)
		printStatus("Lowest score", "%d", stats.LowestScore)
		if stats.MostCommonCountry != "" {
			printStatus("Most common country", "%s", stats.MostCommonCountry)
		}
		return nil
	},
}

func listFutures(ctx context.Context, client *apiClient, limit int) ([]storage.FutureRecord, error) {
	resp, err := client.get(ctx, fmt.Sprintf("/futures?limit=%d", limit))
	if err != nil {
		return nil, err
	}
	var futures []storage.FutureRecord
	if err := decodeJSON(resp, &futures); err != nil {
		return nil, err
	}
	return futures, nil
}

// resolveFutureID returns id, or the latest future's ID when id is empty.
func resolveFutureID(ctx context.Context, client *apiClient, id string) (string, error) {
	if id != "" {
		return id, nil
	}
	futures, err := listFutures(ctx, client, 1)
	if err != nil {
		return "", err
	}
	if len(futures) == 0 {
		return "", errors.New("no futures yet, run 'futuresim generate' first")
	}
	return futures[0].ID, nil
}

func init() {
	futuresListCmd.Flags().Int("limit", 20, "maximum number of futures to list")
	futuresShowCmd.Flags().Bool("json", false, "print the full record as JSON")
	futuresCmd.AddCommand(futuresListCmd, futuresShowCmd, futuresDeleteCmd, futuresStatsCmd)
}

// --- report ---

var reportCmd = &cobra.Command{
	Use:   "report [id]",
	Short: "Show the analytics report for a future (default: latest)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		id, err := resolveFutureID(cmd.Context(), client, firstArg(args))
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), "/futures/"+url.PathEscape(id)+"/report")
		if err != nil {
			return err
		}
		var report simulator.Report
		if err := decodeJSON(resp, &report); err != nil {
			return err
		}

		if asJSON {
			return printJSON(os.Stdout, report)
		}
		printReport(os.Stdout, report)
		return nil
	},
}

func printReport(w io.Writer, r simulator.Report) {
	fmt.Fprintf(w, "%s %s\n\n", colorize(colorBold, "Report for"), r.Future.Profile.Name)
	fmt.Fprintf(w, "  Overall score:       %d\n", r.Summary.OverallScore)
	fmt.Fprintf(w, "  Success probability: %d%%\n", r.Summary.SuccessProbability)
	fmt.Fprintf(w, "  Confidence:          %s\n", r.Summary.Confidence)
	fmt.Fprintf(w, "  Engagement:          %.0f%%\n", r.Summary.EngagementLevel*100)

	f := r.DetailedAnalysis.SuccessFactors
	fmt.Fprintf(w, "\n%s\n", colorize(colorBold, "Success factors:"))
	fmt.Fprintf(w, "  base %d  specificity %d  realism %d  progress %d  engagement %d\n",
		f.BasePotential, f.DreamSpecificity, f.TimelineRealism, f.CurrentProgress, f.UserEngagement)

	if len(r.Recommendations) > 0 {
		fmt.Fprintf(w, "\n%s\n", colorize(colorBold, "Recommendations:"))
		for _, rec := range r.Recommendations {
			fmt.Fprintf(w, "  [%s] %s: %s (%s)\n", rec.Priority, rec.Area, rec.Action, rec.Timeframe)
		}
	}
}

func init() {
	reportCmd.Flags().Bool("json", false, "print the full report as JSON")
}

// --- export ---

var exportCmd = &cobra.Command{
	Use:   "export [id]",
	Short: "Export a future as a document (default: latest)",
	Long: `Export a future as JSON, YAML, text, Markdown, HTML or an iCalendar timeline.

Examples:
  futuresim export --format md
  futuresim export 3f2a9c1e --format ics --output timeline.ics`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		output, _ := cmd.Flags().GetString("output")
		withProgress, _ := cmd.Flags().GetBool("include-progress")
		withInsights, _ := cmd.Flags().GetBool("include-insights")
		timeout, _ := cmd.Flags().GetDuration("timeout")

		if _, err := export.Normalize(format); err != nil {
			return fmt.Errorf("%w (want one of %s)", err, strings.Join(export.Formats, ", "))
		}

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		id, err := resolveFutureID(cmd.Context(), client, firstArg(args))
		if err != nil {
			return err
		}

		resp, err := client.post(cmd.Context(), "/futures/"+url.PathEscape(id)+"/exports", api.ExportRequest{
			Format:          format,
			IncludeProgress: withProgress,
			IncludeInsights: withInsights,
		})
		if err != nil {
			return err
		}
		var exp storage.Export
		if err := decodeJSON(resp, &exp); err != nil {
			return err
		}
		printStep("Export %s queued", shortID(exp.ID))

		ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
		defer cancel()
		body, filename, err := waitForExport(ctx, client, exp.ID, 250*time.Millisecond)
		if err != nil {
			return err
		}

		if output == "-" {
			_, err := os.Stdout.Write(body)
			return err
		}
		if output == "" {
			output = filename
		}
		if err := os.WriteFile(output, body, 0o644); err != nil {
			return fmt.Errorf("writing export: %w", err)
		}
		printSuccess("Wrote %s", output)
		return nil
	},
}

// waitForExport polls GET /exports/{id} until the document is ready or has
// failed, and returns its body and suggested filename.
func waitForExport(ctx context.Context, client *apiClient, id string, interval time.Duration) ([]byte, string, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		resp, err := client.get(ctx, "/exports/"+url.PathEscape(id))
		if err != nil {
			return nil, "", err
		}

		switch {
		case resp.StatusCode == http.StatusOK && !isJSON(resp.Header.Get("Content-Type")):
			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, "", fmt.Errorf("reading export: %w", err)
			}
			return body, attachmentName(resp.Header.Get("Content-Disposition"), id), nil
		case resp.StatusCode == http.StatusAccepted:
			resp.Body.Close()
		default:
			var exp storage.Export
			if err := decodeJSON(resp, &exp); err != nil {
				return nil, "", err
			}
			if exp.Status == storage.ExportFailed {
				return nil, "", fmt.Errorf("export failed: %s", exp.Error)
			}
		}

		select {
		case <-ctx.Done():
			return nil, "", fmt.Errorf("waiting for export %s: %w", id, ctx.Err())
		case <-ticker.C:
		}
	}
}

func isJSON(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/json"
}

func attachmentName(disposition, fallback string) string {
	if _, params, err := mime.ParseMediaType(disposition); err == nil && params["filename"] != "" {
		return params["filename"]
	}
	return fallback
}

func init() {
	exportCmd.Flags().String("format", export.FormatJSON, "json, yaml, text, markdown, html or ics")
	exportCmd.Flags().StringP("output", "o", "", "output file (default: server-suggested name, - for stdout)")
	exportCmd.Flags().Bool("include-progress", false, "include the progress ledger")
	exportCmd.Flags().Bool("include-insights", true, "include coaching insights")
	exportCmd.Flags().Duration("timeout", 30*time.Second, "how long to wait for the export")
}

// --- analyze ---

var analyzeCmd = &cobra.Command{
	Use:   "analyze <dream>",
	Short: "Score the complexity of a dream",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dream := strings.Join(args, " ")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.post(cmd.Context(), "/analyze", map[string]string{"dream": dream})
		if err != nil {
			return err
		}
		var a simulator.Analysis
		if err := decodeJSON(resp, &a); err != nil {
			return err
		}

		printStatus("Category", "%s", a.Category)
		printStatus("Complexity", "%.0f/100", a.Score)
		if len(a.Keywords) > 0 {
			printStatus("Keywords", "%s", strings.Join(a.Keywords, ", "))
		}
		for _, in := range a.Insights {
			fmt.Printf("  [%s] %s\n", in.Priority, in.Message)
			if in.Action != "" {
				fmt.Printf("         %s\n", colorize(colorCyan, in.Action))
			}
		}
		if len(a.Skills) > 0 {
			fmt.Printf("\n%s %s\n", colorize(colorBold, "Skills:"), strings.Join(a.Skills, ", "))
		}
		return nil
	},
}

// --- progress ---

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Track milestones and achievements",
}

var progressShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show milestones and achievements",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), "/progress")
		if err != nil {
			return err
		}
		var snap progress.Snapshot
		if err := decodeJSON(resp, &snap); err != nil {
			return err
		}
		printSnapshot(os.Stdout, snap)
		return nil
	},
}

func printSnapshot(w io.Writer, snap progress.Snapshot) {
	if len(snap.Milestones) == 0 {
		fmt.Fprintln(w, "No milestones yet.")
	}
	for _, m := range snap.Milestones {
		box := "[ ]"
		if m.Completed {
			box = colorize(colorGreen, "[x]")
		}
		line := fmt.Sprintf("%s %s  %s", box, colorize(colorCyan, shortID(m.ID)), m.Title)
		if m.TargetDate != "" {
			line += "  (by " + m.TargetDate + ")"
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "\nProgress: %d%%  Futures: %d  Shares: %d\n", snap.ProgressPercentage, snap.FuturesGenerated, snap.SocialShares)
	for _, a := range snap.Achievements {
		fmt.Fprintf(w, "  %s %s\n", colorize(colorYellow, "★"), a.Title)
	}
}

var progressAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a milestone",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		description, _ := cmd.Flags().GetString("description")
		category, _ := cmd.Flags().GetString("category")
		target, _ := cmd.Flags().GetString("target")

		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.post(cmd.Context(), "/progress/milestones", progress.MilestoneInput{
			Title:       strings.Join(args, " "),
			Description: description,
			Category:    category,
			TargetDate:  target,
		})
		if err != nil {
			return err
		}
		var m progress.Milestone
		if err := decodeJSON(resp, &m); err != nil {
			return err
		}
		printSuccess("Added milestone %s", shortID(m.ID))
		return nil
	},
}

var progressCompleteCmd = &cobra.Command{
	Use:   "complete <id>",
	Short: "Mark a milestone as completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.post(cmd.Context(), "/progress/milestones/"+url.PathEscape(args[0])+"/complete", nil)
		if err != nil {
			return err
		}
		var c simulator.Completion
		if err := decodeJSON(resp, &c); err != nil {
			return err
		}
		printSuccess("Completed %q (%d%% overall)", c.Milestone.Title, c.Percentage)
		for _, a := range c.Unlocked {
			fmt.Printf("  %s %s: %s\n", colorize(colorYellow, "★ Achievement unlocked:"), a.Title, a.Description)
		}
		return nil
	},
}

var progressSuggestCmd = &cobra.Command{
	Use:   "suggest [future-id]",
	Short: "Add milestones suggested by a future's timeline (default: latest)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		path := "/progress/milestones/suggest"
		if id := firstArg(args); id != "" {
			path += "?future_id=" + url.QueryEscape(id)
		}
		resp, err := client.post(cmd.Context(), path, nil)
		if err != nil {
			return err
		}
		var ms []progress.Milestone
		if err := decodeJSON(resp, &ms); err != nil {
			return err
		}
		for _, m := range ms {
			fmt.Printf("%s  %s  (by %s)\n", colorize(colorCyan, shortID(m.ID)), m.Title, m.TargetDate)
		}
		printSuccess("Added %d milestones", len(ms))
		return nil
	},
}

func init() {
	progressAddCmd.Flags().String("description", "", "milestone details")
	progressAddCmd.Flags().String("category", "", "milestone category (default: general)")
	progressAddCmd.Flags().String("target", "", "target date as YYYY-MM-DD")
	progressCmd.AddCommand(progressShowCmd, progressAddCmd, progressCompleteCmd, progressSuggestCmd)
}

// --- config ---

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or update configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		keys := config.ShowAll(cfg)
		for _, k := range keys {
			fmt.Printf("  %s = %s  %s\n", colorize(colorBold, k.Key), k.Value, colorize(colorCyan, "$"+k.EnvVar))
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, value := args[0], args[1]

		if err := config.SetKey(key, value); err != nil {
			return fmt.Errorf("%w (valid keys: %s)", err, strings.Join(config.ValidKeys(), ", "))
		}

		printSuccess("Set %s = %s", key, value)
		return nil
	},
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset <key>",
	Short: "Reset a configuration value to its default",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.UnsetKey(args[0]); err != nil {
			return fmt.Errorf("%w (valid keys: %s)", err, strings.Join(config.ValidKeys(), ", "))
		}
		printSuccess("Unset %s", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd, configUnsetCmd)
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
