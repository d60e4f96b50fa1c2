package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/mvp-joe/project-neo/internal/catalog"
)

// parseQueryRequest reads approach query parameters. Syntax errors are
// reported here; range checks happen in catalog.QueryRequest validation.
func parseQueryRequest(r *http.Request) (catalog.QueryRequest, error) {
	q := r.URL.Query()
	req := catalog.QueryRequest{
		Date:      q.Get("date"),
		StartDate: q.Get("start_date"),
		EndDate:   q.Get("end_date"),
	}

	floats := []struct {
		name   string
		target **float64
	}{
		{"distance_min", &req.DistanceMin},
		{"distance_max", &req.DistanceMax},
		{"velocity_min", &req.VelocityMin},
		{"velocity_max", &req.VelocityMax},
		{"diameter_min", &req.DiameterMin},
		{"diameter_max", &req.DiameterMax},
	}
	for _, f := range floats {
		raw := q.Get(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, fmt.Errorf("%w: %s must be a number", catalog.ErrInvalidRequest, f.name)
		}
		*f.target = &v
	}

	if raw := q.Get("hazardous"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return req, fmt.Errorf("%w: hazardous must be true or false", catalog.ErrInvalidRequest)
		}
		req.Hazardous = &v
	}

	if raw := q.Get("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("%w: limit must be an integer", catalog.ErrInvalidRequest)
		}
		req.Limit = v
	}

	return req, nil
}
