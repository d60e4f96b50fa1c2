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
	"github.com/mvp-joe/project-neo/internal/config"
	mcputils "github.com/mvp-joe/project-neo/internal/mcp-utils"
	"github.com/mvp-joe/project-neo/internal/output"
)

// numericFilters are the optional number arguments of neo_query, in
// the order they are declared on the tool.
var numericFilters = []struct {
	key         string
	description string
}{
	{"distance_min", "Minimum nominal approach distance in au (inclusive)"},
	{"distance_max", "Maximum nominal approach distance in au (inclusive)"},
	{"velocity_min", "Minimum relative velocity in km/s (inclusive)"},
	{"velocity_max", "Maximum relative velocity in km/s (inclusive)"},
	{"diameter_min", "Minimum NEO diameter in km (inclusive, unknown diameters never match)"},
	{"diameter_max", "Maximum NEO diameter in km (inclusive, unknown diameters never match)"},
}

// AddNEOQueryTool registers the neo_query tool with an MCP server.
func AddNEOQueryTool(s *server.MCPServer, querier ApproachQuerier, limits config.QueryConfig) {
	opts := []mcp.ToolOption{
		mcp.WithDescription(`Find close approaches matching every given filter.

All filters are optional and combine with AND. Bounds are inclusive. Dates
are UTC calendar days (YYYY-MM-DD) and compare on the day only. Diameter and
hazardous filters exclude approaches whose NEO is unknown. Results keep the
close-approach data order.

Examples:
- date: "2029-04-13"
- start_date: "2020-01-01", end_date: "2020-12-31", hazardous: true
- distance_max: 0.01, velocity_min: 20, limit: 5`),
		mcp.WithString("date",
			mcp.Description("Only approaches on this day (YYYY-MM-DD)")),
		mcp.WithString("start_date",
			mcp.Description("Only approaches on or after this day (YYYY-MM-DD)")),
		mcp.WithString("end_date",
			mcp.Description("Only approaches on or before this day (YYYY-MM-DD)")),
	}
	for _, f := range numericFilters {
		opts = append(opts, mcp.WithNumber(f.key, mcp.Description(f.description)))
	}
	opts = append(opts,
		mcp.WithBoolean("hazardous",
			mcp.Description("true for potentially hazardous NEOs only, false for non-hazardous only")),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Maximum number of approaches to return (default: %d, max: %d)", limits.DefaultLimit, limits.MaxLimit))),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(mcp.NewTool("neo_query", opts...), createQueryHandler(querier, limits))
}

// createQueryHandler creates the handler function for the neo_query tool.
func createQueryHandler(querier ApproachQuerier, limits config.QueryConfig) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		startTime := time.Now()

		if _, ok := request.Params.Arguments.(map[string]interface{}); !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		// Type errors are reported here, range checks in QueryRequest validation
		var req catalog.QueryRequest
		if err := mcputils.CoerceBindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		filters, err := req.Filters()
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		result, err := querier.Query(ctx, filters, req.EffectiveLimit(limits.DefaultLimit, limits.MaxLimit))
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			return nil, fmt.Errorf("query failed: %w", err)
		}

		records := make([]output.Record, len(result.Approaches))
		for i, a := range result.Approaches {
			records[i] = output.NewRecord(a)
		}

		response := &NEOQueryResponse{
			QueryID:    result.ID,
			Count:      len(records),
			Scanned:    result.Scanned,
			Cached:     result.Cached,
			Approaches: records,
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
