// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes yada tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/yada/internal/foodlog"
	"github.com/starford/yada/internal/models"
	"github.com/starford/yada/internal/tracker"
)

const (
	searchLimit = 20
	// maxSummaryDays bounds one calorie_summary call to about a year.
	maxSummaryDays = 366
)

// Server wraps the MCP server with yada tools.
type Server struct {
	mcp *server.MCPServer
	svc *tracker.Service
}

// New creates a new MCP server with all yada tools registered.
func New(svc *tracker.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"yada",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_foods",
		mcp.WithDescription("Search foods by identifier prefix or keyword. "+
			"With full_text set, also matches substrings and composite ingredients."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Prefix, keyword or search text")),
		mcp.WithBoolean("full_text", mcp.Description("Use the full-text index")),
	), s.searchFoods)

	s.mcp.AddTool(mcp.NewTool("get_food",
		mcp.WithDescription("Get a food with its calories per serving and flattened components."),
		mcp.WithString("identifier", mcp.Required(), mcp.Description("Food identifier")),
	), s.getFood)

	s.mcp.AddTool(mcp.NewTool("add_atomic_food",
		mcp.WithDescription("Add a food with a direct calorie rate."),
		mcp.WithString("identifier", mcp.Required(), mcp.Description("Unique food identifier")),
		mcp.WithNumber("calories", mcp.Required(), mcp.Description("Calories per serving, >= 0")),
		mcp.WithArray("keywords", mcp.WithStringItems(), mcp.Description("Search keywords")),
	), s.addAtomicFood)

	s.mcp.AddTool(mcp.NewTool("add_composite_food",
		mcp.WithDescription("Add a food made of existing foods. Read "+DataFormatURI+" for the model."),
		mcp.WithString("identifier", mcp.Required(), mcp.Description("Unique food identifier")),
		mcp.WithArray("components", mcp.Required(),
			mcp.Description("List of {food, quantity} objects"),
			mcp.Items(map[string]any{
				"type": "object",
				"properties": map[string]any{
					"food":     map[string]any{"type": "string"},
					"quantity": map[string]any{"type": "number"},
				},
				"required": []string{"food", "quantity"},
			}),
		),
		mcp.WithArray("keywords", mcp.WithStringItems(), mcp.Description("Search keywords")),
	), s.addCompositeFood)

	s.mcp.AddTool(mcp.NewTool("set_date",
		mcp.WithDescription("Set the date that log_food, remove_food and undo apply to."),
		mcp.WithString("date", mcp.Required(), mcp.Description("Date as YYYY-MM-DD")),
	), s.setDate)

	s.mcp.AddTool(mcp.NewTool("log_food",
		mcp.WithDescription("Log servings of a food on the active date."),
		mcp.WithString("food", mcp.Required(), mcp.Description("Food identifier")),
		mcp.WithNumber("servings", mcp.Required(), mcp.Description("Servings, > 0")),
	), s.logFood)

	s.mcp.AddTool(mcp.NewTool("remove_food",
		mcp.WithDescription("Remove a food from the active date's log."),
		mcp.WithString("food", mcp.Required(), mcp.Description("Food identifier")),
	), s.removeFood)

	s.mcp.AddTool(mcp.NewTool("undo",
		mcp.WithDescription("Undo the last change to the active date's log."),
	), s.undo)

	s.mcp.AddTool(mcp.NewTool("day_log",
		mcp.WithDescription("Show one day's entries, total and difference from target."),
		mcp.WithString("date", mcp.Description("Date as YYYY-MM-DD (default: active date)")),
	), s.dayLog)

	s.mcp.AddTool(mcp.NewTool("calorie_summary",
		mcp.WithDescription("Compare every day from start to end against the calorie target."),
		mcp.WithString("start", mcp.Required(), mcp.Description("First date as YYYY-MM-DD")),
		mcp.WithString("end", mcp.Required(), mcp.Description("Last date as YYYY-MM-DD")),
		mcp.WithNumber("target", mcp.Description("Target override (default: profile target)")),
	), s.calorieSummary)

	s.mcp.AddTool(mcp.NewTool("get_data_format",
		mcp.WithDescription("Returns the yada food and log data format."),
	), s.getDataFormat)

	s.mcp.AddResource(
		mcp.NewResource(DataFormatURI, "Data Format",
			mcp.WithResourceDescription("Food catalog and daily log file format."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readDataFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchFoods(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if req.GetBool("full_text", false) {
		results, err := s.svc.FullTextSearch(ctx, query, searchLimit)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return jsonResult(results)
	}
	matches := s.svc.SearchFoods(ctx, query)
	if len(matches) == 0 {
		return mcp.NewToolResultText("no foods found"), nil
	}
	return jsonResult(matches)
}

func (s *Server) getFood(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("identifier")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	food, err := s.svc.Food(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(food)
}

func (s *Server) addAtomicFood(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("identifier")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	calories, err := req.RequireFloat("calories")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	food, err := s.svc.AddAtomicFood(ctx, id, req.GetStringSlice("keywords", nil), calories)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(food)
}

func (s *Server) addCompositeFood(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("identifier")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	refs, err := componentRefs(req.GetArguments()["components"])
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	food, err := s.svc.AddCompositeFood(ctx, id, req.GetStringSlice("keywords", nil), refs)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(food)
}

// componentRefs converts the decoded components argument.
func componentRefs(raw any) ([]models.ComponentRef, error) {
	items, ok := raw.([]any)
	if !ok || len(items) == 0 {
		return nil, fmt.Errorf("components must be a non-empty array")
	}
	refs := make([]models.ComponentRef, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("components[%d] must be an object", i)
		}
		food, _ := obj["food"].(string)
		qty, ok := obj["quantity"].(float64)
		if food == "" || !ok {
			return nil, fmt.Errorf("components[%d] needs food and a numeric quantity", i)
		}
		refs = append(refs, models.ComponentRef{Identifier: food, Quantity: qty})
	}
	return refs, nil
}

func (s *Server) setDate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	date, err := req.RequireString("date")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	day, err := s.svc.SetDate(ctx, date)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(day)
}

func (s *Server) logFood(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	food, err := req.RequireString("food")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	servings, err := req.RequireFloat("servings")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	day, err := s.svc.LogFood(ctx, food, servings)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(day)
}

func (s *Server) removeFood(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	food, err := req.RequireString("food")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	day, err := s.svc.RemoveFood(ctx, food)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(day)
}

func (s *Server) undo(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, err := s.svc.Undo(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(day)
}

func (s *Server) dayLog(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, err := s.svc.Day(ctx, req.GetString("date", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(day)
}

func (s *Server) calorieSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, err := req.RequireString("start")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	end, err := req.RequireString("end")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	span, err := foodlog.SpanDays(start, end)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if span > maxSummaryDays {
		return mcp.NewToolResultError(fmt.Sprintf("summary range exceeds %d days", maxSummaryDays)), nil
	}
	var target *float64
	if _, ok := req.GetArguments()["target"]; ok {
		t, err := req.RequireFloat("target")
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		target = &t
	}
	days, err := s.svc.Summary(ctx, start, end, target)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(days)
}

func (s *Server) getDataFormat(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(DataFormatContract), nil
}

func (s *Server) readDataFormatResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      DataFormatURI,
			MIMEType: "text/markdown",
			Text:     DataFormatContract,
		},
	}, nil
}
