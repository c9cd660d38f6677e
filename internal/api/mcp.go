package api

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/kalambet/futuresim/internal/profile"
	"github.com/kalambet/futuresim/internal/progress"
	"github.com/kalambet/futuresim/internal/simulator"
)

// MCPDeps holds dependencies for the MCP server.
type MCPDeps struct {
	Service *simulator.Service
	Session string // optional; attributes tool calls to an activity session
}

// NewMCPServer creates an MCP server with the futuresim tools and resources
// registered.
func NewMCPServer(deps MCPDeps) *server.MCPServer {
	s := server.NewMCPServer(
		"futuresim",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithInstructions("futuresim projects a personal future timeline from a profile and a dream, and tracks progress toward it."),
		server.WithRecovery(),
	)

	// Tools
	s.AddTool(
		mcp.NewTool("generate_future",
			mcp.WithDescription("Project a future timeline for a person and save it."),
			mcp.WithString("name", mcp.Description("Person's name"), mcp.Required()),
			mcp.WithNumber("age", mcp.Description("Current age, 1 to 100"), mcp.Required()),
			mcp.WithString("country", mcp.Description("Country of residence"), mcp.Required()),
			mcp.WithString("dream", mcp.Description("The goal to project, in free text"), mcp.Required()),
		),
		mcpGenerateFuture(deps),
	)

	s.AddTool(
		mcp.NewTool("analyze_dream",
			mcp.WithDescription("Score the complexity of a dream and suggest next steps and skills."),
			mcp.WithString("dream", mcp.Description("The goal to analyze"), mcp.Required()),
		),
		mcpAnalyzeDream(deps),
	)

	s.AddTool(
		mcp.NewTool("analytics_report",
			mcp.WithDescription("Build the success, peer comparison and trend report for a saved future."),
			mcp.WithString("future_id", mcp.Description("Future ID (default: latest)")),
		),
		mcpAnalyticsReport(deps),
	)

	s.AddTool(
		mcp.NewTool("add_milestone",
			mcp.WithDescription("Add a milestone to the progress ledger."),
			mcp.WithString("title", mcp.Description("Milestone title"), mcp.Required()),
			mcp.WithString("description", mcp.Description("Optional details")),
			mcp.WithString("category", mcp.Description("Category (default: general)")),
			mcp.WithString("target_date", mcp.Description("Target date as YYYY-MM-DD")),
		),
		mcpAddMilestone(deps),
	)

	s.AddTool(
		mcp.NewTool("progress_coaching",
			mcp.WithDescription("Assess milestone progress: stage, recommendations, encouragement and warning signs. The assessment is saved for the weekly review."),
		),
		mcpProgressCoaching(deps),
	)

	s.AddTool(
		mcp.NewTool("weekly_review",
			mcp.WithDescription("Review the last seven days of progress assessments and suggest a focus for next week."),
		),
		mcpWeeklyReview(deps),
	)

	s.AddTool(
		mcp.NewTool("complete_challenge",
			mcp.WithDescription("Complete today's daily challenge for points."),
			mcp.WithString("challenge_id", mcp.Description("ID of today's challenge"), mcp.Required()),
		),
		mcpCompleteChallenge(deps),
	)

	// Resources
	s.AddResource(
		mcp.NewResource(
			"future://latest",
			"Latest Future",
			mcp.WithResourceDescription("Most recently generated future as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceLatest(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"progress://snapshot",
			"Progress",
			mcp.WithResourceDescription("Milestones, achievements and counters as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceProgress(deps),
	)

	s.AddResource(
		mcp.NewResource(
			"gamification://summary",
			"Gamification",
			mcp.WithResourceDescription("Points, level, streak, badges and today's challenge as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		mcpResourceGamification(deps),
	)

	return s
}

func mcpGenerateFuture(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		p := profile.UserProfile{
			Name:    req.GetString("name", ""),
			Age:     req.GetInt("age", 0),
			Country: req.GetString("country", ""),
			Dream:   req.GetString("dream", ""),
		}
		rec, err := deps.Service.Generate(ctx, p, deps.Session)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to generate future: %v", err)), nil
		}
		return mcpJSON(rec)
	}
}

func mcpAnalyzeDream(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		dream, err := req.RequireString("dream")
		if err != nil {
			return mcpError("dream is required"), nil
		}
		a, err := deps.Service.Analyze(dream)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to analyze: %v", err)), nil
		}
		return mcpJSON(a)
	}
}

func mcpAnalyticsReport(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		report, err := deps.Service.Report(ctx, req.GetString("future_id", ""))
		if err != nil {
			if simulator.IsNotFound(err) {
				return mcpError("future not found"), nil
			}
			return mcpError(fmt.Sprintf("failed to build report: %v", err)), nil
		}
		return mcpJSON(report)
	}
}

func mcpAddMilestone(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		title, err := req.RequireString("title")
		if err != nil {
			return mcpError("title is required"), nil
		}
		m, err := deps.Service.AddMilestone(progress.MilestoneInput{
			Title:       title,
			Description: req.GetString("description", ""),
			Category:    req.GetString("category", ""),
			TargetDate:  req.GetString("target_date", ""),
		})
		if err != nil {
			return mcpError(fmt.Sprintf("failed to add milestone: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("Added milestone %s", m.ID)), nil
	}
}

func mcpProgressCoaching(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		a, err := deps.Service.Coach(ctx)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to assess progress: %v", err)), nil
		}
		return mcpJSON(a)
	}
}

func mcpWeeklyReview(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		review, err := deps.Service.WeeklyReview(ctx)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to build weekly review: %v", err)), nil
		}
		return mcpJSON(review)
	}
}

func mcpCompleteChallenge(deps MCPDeps) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id, err := req.RequireString("challenge_id")
		if err != nil {
			return mcpError("challenge_id is required"), nil
		}
		res, err := deps.Service.CompleteChallenge(ctx, id)
		if err != nil {
			return mcpError(fmt.Sprintf("failed to complete challenge: %v", err)), nil
		}
		return mcpText(fmt.Sprintf("Completed %s: %d points, level %d", id, res.Summary.Points, res.Summary.Level)), nil
	}
}

func mcpResourceGamification(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		sum, err := deps.Service.Gamification(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load gamification: %w", err)
		}
		return jsonResource(req.Params.URI, sum)
	}
}

func mcpResourceLatest(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		rec, err := deps.Service.Future(ctx, "")
		if err != nil {
			return nil, fmt.Errorf("failed to get latest future: %w", err)
		}
		return jsonResource(req.Params.URI, rec)
	}
}

func mcpResourceProgress(deps MCPDeps) server.ResourceHandlerFunc {
	return func(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		snap, err := deps.Service.Progress(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load progress: %w", err)
		}
		return jsonResource(req.Params.URI, snap)
	}
}

func jsonResource(uri string, v any) ([]mcp.ResourceContents, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s: %w", uri, err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(b),
		},
	}, nil
}

func mcpJSON(v any) (*mcp.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return mcpError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcpText(string(b)), nil
}

func mcpText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func mcpError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
