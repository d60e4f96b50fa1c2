package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mvp-joe/project-neo/internal/catalog"
	mcputils "github.com/mvp-joe/project-neo/internal/mcp-utils"
	"github.com/mvp-joe/project-neo/internal/output"
	"github.com/mvp-joe/project-neo/internal/search"
)

// AddNEOSearchTool registers the neo_search tool with an MCP server.
func AddNEOSearchTool(s *server.MCPServer, searcher NEOSearcher, maxLimit int) {
	tool := mcp.NewTool(
		"neo_search",
		mcp.WithDescription(`Find NEOs when the exact designation or name is not known.

Text mode (default) matches words and prefixes of designations and names and
tolerates a small typo in names, ranked by relevance. Glob mode matches the
designation or name against a shell pattern (*, ?, [a-z]) and returns
catalog order.

Examples:
- query: "apoph"
- query: "2020 *", glob: true`),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Search text, or a glob pattern when glob is true")),
		mcp.WithBoolean("glob",
			mcp.Description("Treat query as a glob pattern (default: false)")),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum number of results to return (default: %d, max: %d)", search.DefaultLimit, maxLimit))),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createSearchHandler(searcher, maxLimit))
}

// createSearchHandler creates the handler function for the neo_search tool.
func createSearchHandler(searcher NEOSearcher, maxLimit int) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		startTime := time.Now()

		if _, ok := request.Params.Arguments.(map[string]interface{}); !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var req NEOSearchRequest
		if err := mcputils.CoerceBindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err := catalog.ValidateStruct(req); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		limit := req.EffectiveLimit(maxLimit)

		var results []search.Result
		var err error
		if req.Glob {
			results, err = searcher.Glob(req.Query, limit)
		} else {
			results, err = searcher.Search(ctx, req.Query, limit)
		}
		if errors.Is(err, search.ErrEmptyQuery) || errors.Is(err, search.ErrInvalidPattern) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err != nil {
			return nil, fmt.Errorf("search failed: %w", err)
		}

		hits := make([]NEOSearchHit, len(results))
		for i, r := range results {
			hits[i] = NEOSearchHit{NEO: output.NewNEORecord(r.NEO), Score: r.Score}
		}

		response := &NEOSearchResponse{
			Query:   req.Query,
			Glob:    req.Glob,
			Results: hits,
			Total:   len(hits),
			Metadata: ResponseMetadata{
				TookMs: time.Since(startTime).Milliseconds(),
			},
		}

		jsonData, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	}
}
