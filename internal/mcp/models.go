package mcp

import (
	"context"

	"github.com/mvp-joe/project-neo/internal/catalog"
	"github.com/mvp-joe/project-neo/internal/neo"
	"github.com/mvp-joe/project-neo/internal/output"
	"github.com/mvp-joe/project-neo/internal/search"
)

// NEOLookup resolves a single NEO by designation or name.
type NEOLookup interface {
	Lookup(designation, name string) (*neo.NearEarthObject, error)
}

// ApproachQuerier runs filtered close-approach queries.
type ApproachQuerier interface {
	Query(ctx context.Context, filters neo.Filters, limit int) (*catalog.QueryResult, error)
}

// NEOSearcher finds NEOs by free text or glob pattern.
type NEOSearcher interface {
	Search(ctx context.Context, text string, limit int) ([]search.Result, error)
	Glob(pattern string, limit int) ([]search.Result, error)
}

// NEOInspectRequest holds the neo_inspect arguments. Exactly one of
// Designation and Name must be set.
type NEOInspectRequest struct {
	Designation       string `json:"designation,omitempty"`
	Name              string `json:"name,omitempty"`
	IncludeApproaches bool   `json:"include_approaches,omitempty"`
}

// NEOSearchRequest holds the neo_search arguments.
type NEOSearchRequest struct {
	Query string `json:"query" validate:"required"`
	Glob  bool   `json:"glob,omitempty"`
	Limit int    `json:"limit,omitempty" validate:"gte=0"`
}

// EffectiveLimit applies the search default to an unset limit and caps it.
func (r NEOSearchRequest) EffectiveLimit(maxLimit int) int {
	limit := r.Limit
	if limit == 0 {
		limit = search.DefaultLimit
	}
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return limit
}

// ResponseMetadata is attached to every tool response.
type ResponseMetadata struct {
	TookMs int64 `json:"took_ms"`
}

// NEOInspectResponse is the neo_inspect result.
type NEOInspectResponse struct {
	NEO           output.NEORecord `json:"neo"`
	ApproachCount int              `json:"approach_count"`
	Approaches    []output.Record  `json:"approaches,omitempty"`
	Metadata      ResponseMetadata `json:"metadata"`
}

// NEOQueryResponse is the neo_query result.
type NEOQueryResponse struct {
	QueryID    string           `json:"query_id"`
	Count      int              `json:"count"`
	Scanned    int              `json:"scanned"`
	Cached     bool             `json:"cached"`
	Approaches []output.Record  `json:"approaches"`
	Metadata   ResponseMetadata `json:"metadata"`
}

// NEOSearchHit is one neo_search match.
type NEOSearchHit struct {
	NEO   output.NEORecord `json:"neo"`
	Score float64          `json:"score"`
}

// NEOSearchResponse is the neo_search result.
type NEOSearchResponse struct {
	Query    string           `json:"query"`
	Glob     bool             `json:"glob"`
	Results  []NEOSearchHit   `json:"results"`
	Total    int              `json:"total"`
	Metadata ResponseMetadata `json:"metadata"`
}
