package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/mvp-joe/project-neo/internal/catalog"
	"github.com/mvp-joe/project-neo/internal/config"
	"github.com/mvp-joe/project-neo/internal/neo"
	"github.com/mvp-joe/project-neo/internal/output"
	"github.com/mvp-joe/project-neo/internal/search"
	"go.uber.org/zap"
)

type handlers struct {
	catalog *catalog.Catalog
	limits  config.QueryConfig
	logger  *zap.Logger
}

func newHandlers(cat *catalog.Catalog, limits config.QueryConfig, logger *zap.Logger) *handlers {
	return &handlers{catalog: cat, limits: limits, logger: logger}
}

// NEOResponse is a NEO with its close approaches.
type NEOResponse struct {
	NEO        output.NEORecord `json:"neo"`
	Approaches []output.Record  `json:"approaches"`
}

// QueryResponse is the result of an approach query.
type QueryResponse struct {
	QueryID    string          `json:"query_id"`
	Count      int             `json:"count"`
	Scanned    int             `json:"scanned"`
	Cached     bool            `json:"cached"`
	Approaches []output.Record `json:"approaches"`
}

// SearchHit is one search result.
type SearchHit struct {
	NEO   output.NEORecord `json:"neo"`
	Score float64          `json:"score"`
}

// SearchResponse is the result of a name search.
type SearchResponse struct {
	Query   string      `json:"query"`
	Results []SearchHit `json:"results"`
}

// StatsResponse describes the loaded catalog.
type StatsResponse struct {
	Catalog neo.Stats               `json:"catalog"`
	Reloads catalog.MetricsSnapshot `json:"reloads"`
}

// getNEO handles GET /api/v1/neos/{designation}
func (h *handlers) getNEO(w http.ResponseWriter, r *http.Request) {
	n, err := h.catalog.Lookup(chi.URLParam(r, "designation"), "")
	if err != nil {
		h.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, newNEOResponse(n))
}

// findByName handles GET /api/v1/neos?name=
func (h *handlers) findByName(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		h.respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	n, err := h.catalog.Lookup("", name)
	if err != nil {
		h.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	h.respondJSON(w, http.StatusOK, newNEOResponse(n))
}

// queryApproaches handles GET /api/v1/approaches
func (h *handlers) queryApproaches(w http.ResponseWriter, r *http.Request) {
	req, err := parseQueryRequest(r)
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	filters, err := req.Filters()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.catalog.Query(r.Context(), filters, req.EffectiveLimit(h.limits.DefaultLimit, h.limits.MaxLimit))
	if err != nil {
		h.logger.Error("query failed", zap.Error(err))
		h.respondError(w, http.StatusInternalServerError, "query failed")
		return
	}

	records := make([]output.Record, len(result.Approaches))
	for i, a := range result.Approaches {
		records[i] = output.NewRecord(a)
	}

	h.respondJSON(w, http.StatusOK, QueryResponse{
		QueryID:    result.ID,
		Count:      len(records),
		Scanned:    result.Scanned,
		Cached:     result.Cached,
		Approaches: records,
	})
}

// search handles GET /api/v1/search?q=&glob=&limit=
func (h *handlers) search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	text := q.Get("q")

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 || v > h.limits.MaxLimit {
			h.respondError(w, http.StatusBadRequest, "limit must be an integer between 0 and "+strconv.Itoa(h.limits.MaxLimit))
			return
		}
		limit = v
	}

	var (
		results []search.Result
		err     error
	)
	if q.Get("glob") == "true" {
		results, err = h.catalog.Glob(text, limit)
	} else {
		results, err = h.catalog.Search(r.Context(), text, limit)
	}
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, search.ErrEmptyQuery) || errors.Is(err, search.ErrInvalidPattern) {
			status = http.StatusBadRequest
		}
		h.respondError(w, status, err.Error())
		return
	}

	hits := make([]SearchHit, len(results))
	for i, res := range results {
		hits[i] = SearchHit{NEO: output.NewNEORecord(res.NEO), Score: res.Score}
	}
	h.respondJSON(w, http.StatusOK, SearchResponse{Query: text, Results: hits})
}

// stats handles GET /api/v1/stats
func (h *handlers) stats(w http.ResponseWriter, r *http.Request) {
	h.respondJSON(w, http.StatusOK, StatsResponse{
		Catalog: h.catalog.Stats(),
		Reloads: h.catalog.ReloadStats(),
	})
}

func (h *handlers) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *handlers) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]interface{}{
		"error":   true,
		"message": message,
		"code":    status,
	})
}
