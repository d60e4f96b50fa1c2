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
)

// AddNEOInspectTool registers the neo_inspect tool with an MCP server.
func AddNEOInspectTool(s *server.MCPServer, lookup NEOLookup) {
	tool := mcp.NewTool(
		"neo_inspect",
		mcp.WithDescription(`Look up one near-Earth object by primary designation or by IAU name.

Exactly one of designation or name must be given. Names match exactly and
case-sensitively ("Eros", not "eros"). Returns the NEO's diameter (km, null
when unknown), hazard flag and, optionally, its close approaches in time order.

Examples:
- designation: "433"
- name: "Apophis", include_approaches: true`),
		mcp.WithString("designation",
			mcp.Description("Primary designation, e.g. \"433\" or \"2020 AB\"")),
		mcp.WithString("name",
			mcp.Description("IAU name, e.g. \"Halley\"")),
		mcp.WithBoolean("include_approaches",
			mcp.Description("Include every close approach of the NEO (default: false)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createInspectHandler(lookup))
}

// createInspectHandler creates the handler function for the neo_inspect tool.
func createInspectHandler(lookup NEOLookup) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		startTime := time.Now()

		if _, ok := request.Params.Arguments.(map[string]interface{}); !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		var req NEOInspectRequest
		if err := mcputils.CoerceBindArguments(request, &req); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if (req.Designation == "") == (req.Name == "") {
			return mcp.NewToolResultError("exactly one of designation or name is required"), nil
		}

		n, err := lookup.Lookup(req.Designation, req.Name)
		if errors.Is(err, catalog.ErrNotFound) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		if err != nil {
			return nil, fmt.Errorf("lookup failed: %w", err)
		}

		response := &NEOInspectResponse{
			NEO:           output.NewNEORecord(n),
			ApproachCount: len(n.Approaches()),
		}
		if req.IncludeApproaches {
			response.Approaches = make([]output.Record, 0, len(n.Approaches()))
			for _, a := range n.Approaches() {
				response.Approaches = append(response.Approaches, output.NewRecord(a))
			}
		}
		response.Metadata.TookMs = time.Since(startTime).Milliseconds()

		jsonData, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}

		return mcp.NewToolResultText(string(jsonData)), nil
	}
}
