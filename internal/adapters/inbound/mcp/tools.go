package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/reviewlab/reviewlab/internal/adapters/outbound/baseline"
	"github.com/reviewlab/reviewlab/internal/adapters/outbound/config"
	"github.com/reviewlab/reviewlab/internal/adapters/outbound/findings"
	"github.com/reviewlab/reviewlab/internal/adapters/outbound/gitinfo"
	"github.com/reviewlab/reviewlab/internal/adapters/outbound/groundtruth"
	"github.com/reviewlab/reviewlab/internal/adapters/outbound/history"
	"github.com/reviewlab/reviewlab/internal/application"
	"github.com/reviewlab/reviewlab/internal/domain/matching"
)

// registerTools registers all reviewlab MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string) {
	// 1. reviewlab_evaluate
	s.AddTool(
		mcplib.NewTool("reviewlab_evaluate",
			mcplib.WithDescription("Match review findings against injected-bug ground truth and return metrics, matches and analysis as JSON"),
			mcplib.WithString("findings",
				mcplib.Required(),
				mcplib.Description("Path to the findings JSON array produced by the review tool"),
			),
			mcplib.WithString("ground_truth",
				mcplib.Required(),
				mcplib.Description("Path to the ground-truth JSONL injection log"),
			),
			mcplib.WithString("review_tool", mcplib.Description("Name of the review tool being evaluated")),
			mcplib.WithString("strategies", mcplib.Description("Comma-separated strategy names in priority order")),
			mcplib.WithBoolean("save_history", mcplib.Description("Append the run to evaluation history")),
			mcplib.WithBoolean("summary", mcplib.Description("Return the plain-text summary report instead of JSON")),
		),
		handleEvaluate(projectPath),
	)

	// 2. reviewlab_list_strategies
	s.AddTool(
		mcplib.NewTool("reviewlab_list_strategies",
			mcplib.WithDescription("Lists the matching strategies in priority order and marks the defaults"),
		),
		handleListStrategies(),
	)

	// 3. reviewlab_history
	s.AddTool(
		mcplib.NewTool("reviewlab_history",
			mcplib.WithDescription("Returns saved evaluation history for the project, oldest first"),
		),
		handleHistory(projectPath),
	)
}

func newService() *application.EvaluateService {
	return application.NewEvaluateService(
		findings.New(),
		groundtruth.New(),
		config.New(),
		history.New(),
		baseline.New(),
		gitinfo.New(),
	)
}

func handleEvaluate(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		findingsPath, err := request.RequireString("findings")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		gtPath, err := request.RequireString("ground_truth")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		args := request.GetArguments()
		reviewTool, _ := args["review_tool"].(string)
		strategies, _ := args["strategies"].(string)
		saveHistory, _ := args["save_history"].(bool)
		summary, _ := args["summary"].(bool)

		report, err := newService().Evaluate(application.EvaluateRequest{
			FindingsPath:    resolve(projectPath, findingsPath),
			GroundTruthPath: resolve(projectPath, gtPath),
			ProjectDir:      projectPath,
			ReviewTool:      reviewTool,
			Strategies:      matching.SplitStrategyList(strategies),
			SaveHistory:     saveHistory,
		})
		if err != nil {
			return errorResult(fmt.Sprintf("evaluation failed: %v", err)), nil
		}

		if summary {
			return textResult(matching.SummaryReport(report.Result)), nil
		}
		return jsonResult(report)
	}
}

func handleListStrategies() server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return jsonResult(matching.Catalog())
	}
}

func handleHistory(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		entries, err := newService().History(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		if len(entries) == 0 {
			return textResult("no evaluation history"), nil
		}
		return jsonResult(entries)
	}
}

func resolve(projectPath, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(projectPath, p)
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
