package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kalambet/futuresim/internal/coach"
	"github.com/kalambet/futuresim/internal/gamification"
	"github.com/kalambet/futuresim/internal/simulator"
)

// --- gamification ---

var gamificationCmd = &cobra.Command{
	Use:     "gamification",
	Aliases: []string{"points"},
	Short:   "Show points, badges and the daily challenge",
}

var gamificationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show level, streak, badges and today's challenge",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), "/gamification")
		if err != nil {
			return err
		}
		var sum gamification.Summary
		if err := decodeJSON(resp, &sum); err != nil {
			return err
		}
		printGamification(os.Stdout, sum)
		return nil
	},
}

var gamificationCompleteCmd = &cobra.Command{
	Use:   "complete [challenge-id]",
	Short: "Complete today's challenge (default: the one offered today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		res, err := completeChallenge(cmd.Context(), client, firstArg(args))
		if err != nil {
			return err
		}
		printSuccess("Challenge %q done: %d points, level %d", res.Summary.DailyChallenge.Title, res.Summary.Points, res.Summary.Level)
		for _, b := range res.Unlocked {
			fmt.Printf("  %s %s\n", colorize(colorYellow, "★ Badge unlocked:"), b.Title)
		}
		return nil
	},
}

// completeChallenge completes id, or today's challenge when id is empty.
func completeChallenge(ctx context.Context, client *apiClient, id string) (simulator.ChallengeResult, error) {
	if id == "" {
		resp, err := client.get(ctx, "/gamification")
		if err != nil {
			return simulator.ChallengeResult{}, err
		}
		var sum gamification.Summary
		if err := decodeJSON(resp, &sum); err != nil {
			return simulator.ChallengeResult{}, err
		}
		id = sum.DailyChallenge.ID
	}
	resp, err := client.post(ctx, "/gamification/challenges/"+url.PathEscape(id)+"/complete", nil)
	if err != nil {
		return simulator.ChallengeResult{}, err
	}
	var res simulator.ChallengeResult
	if err := decodeJSON(resp, &res); err != nil {
		return simulator.ChallengeResult{}, err
	}
	return res, nil
}

func printGamification(w io.Writer, sum gamification.Summary) {
	fmt.Fprintf(w, "%s  %d points  (%d to next level)\n", colorize(colorBold, fmt.Sprintf("Level %d", sum.Level)), sum.Points, sum.NextLevelPoints)
	fmt.Fprintf(w, "Streak: %d days  Futures: %d  Scenes: %d  Shares: %d  Milestones: %d\n",
		sum.DailyStreak, sum.Stats.FuturesGenerated, sum.Stats.ScenesViewed, sum.Stats.SocialShares, sum.Stats.MilestonesReached)

	status := "open"
	if sum.ChallengeDoneNow {
		status = colorize(colorGreen, "done")
	}
	c := sum.DailyChallenge
	fmt.Fprintf(w, "Today's challenge: %s (+%d, %s)  %s\n", c.Title, c.Points, c.ID, status)

	if len(sum.Badges) > 0 {
		fmt.Fprintf(w, "\nBadges (%d):\n", sum.BadgeCount)
	}
	for _, b := range sum.Badges {
		fmt.Fprintf(w, "  %s %s  [%s, %s, +%d]\n", colorize(colorYellow, "★"), b.Title, b.Tier, b.Rarity, b.Points)
	}
}

// --- coach ---

var coachCmd = &cobra.Command{
	Use:   "coach",
	Short: "Progress coaching and weekly reviews",
}

var coachAssessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Assess milestone progress and save the assessment",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.post(cmd.Context(), "/coach/assessments", nil)
		if err != nil {
			return err
		}
		var a coach.Assessment
		if err := decodeJSON(resp, &a); err != nil {
			return err
		}
		printAssessment(os.Stdout, a)
		return nil
	},
}

var coachReviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Show the weekly review",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), "/coach/weekly-review")
		if err != nil {
			return err
		}
		var r coach.WeeklyReview
		if err := decodeJSON(resp, &r); err != nil {
			return err
		}
		printReview(os.Stdout, r)
		return nil
	},
}

var coachDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Show today's motivation, action and tip",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient()
		if err != nil {
			return err
		}
		resp, err := client.get(cmd.Context(), "/coach/daily")
		if err != nil {
			return err
		}
		var d coach.Daily
		if err := decodeJSON(resp, &d); err != nil {
			return err
		}
		fmt.Printf("%s\n\n%s\n  Today: %s\n  Affirmation: %s\n  Tip: %s\n",
			colorize(colorBold, d.Date), d.Message, d.Action, d.Affirmation, d.Tip)
		return nil
	},
}

func printAssessment(w io.Writer, a coach.Assessment) {
	stage := strings.ReplaceAll(string(a.Stage), "_", " ")
	fmt.Fprintf(w, "%s  %d%% complete\n", colorize(colorBold, "Stage: "+stage), a.Percentage)
	fmt.Fprintln(w, a.Encouragement)
	for _, r := range a.Recommendations {
		fmt.Fprintf(w, "  • %s\n", r)
	}
	for _, warn := range a.Warnings {
		fmt.Fprintf(w, "  %s %s\n", colorize(colorYellow, "⚠"), warn)
	}
}

func printReview(w io.Writer, r coach.WeeklyReview) {
	fmt.Fprintf(w, "Week of %s to %s: %d%% complete\n",
		r.Overview.Start.Format("Jan 2"), r.Overview.End.Format("Jan 2"), r.Overview.ProgressMade)
	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		fmt.Fprintf(w, "\n%s\n", colorize(colorBold, title))
		for _, it := range items {
			fmt.Fprintf(w, "  • %s\n", it)
		}
	}
	section("Achievements", r.Achievements)
	section("Challenges", r.Challenges)
	section("Next week", r.NextWeekFocus)
	section("Reflect", r.ReflectionQuestions)
}

func init() {
	gamificationCmd.AddCommand(gamificationShowCmd, gamificationCompleteCmd)
	coachCmd.AddCommand(coachAssessCmd, coachReviewCmd, coachDailyCmd)
}
