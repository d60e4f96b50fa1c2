package catalog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func f64(v float64) *float64 { return &v }

func TestQueryRequest_Filters(t *testing.T) {
	t.Parallel()

	hazardous := false
	req := QueryRequest{
		Date:        "2024-01-01",
		StartDate:   "2020-02-29",
		DistanceMax: f64(0.1),
		DiameterMin: f64(0),
		Hazardous:   &hazardous,
	}

	f, err := req.Filters()
	require.NoError(t, err)

	require.NotNil(t, f.Date)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *f.Date)
	require.NotNil(t, f.StartDate)
	assert.Equal(t, time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC), *f.StartDate)
	assert.Nil(t, f.EndDate)
	assert.Equal(t, 0.1, *f.DistanceMax)
	assert.Equal(t, 0.0, *f.DiameterMin)
	assert.False(t, *f.Hazardous)
	assert.Nil(t, f.VelocityMin)
}

func TestQueryRequest_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     QueryRequest
		message string
	}{
		{name: "bad date", req: QueryRequest{Date: "01/02/2024"}, message: "date must be a date in YYYY-MM-DD format"},
		{name: "impossible date", req: QueryRequest{EndDate: "2023-02-30"}, message: "end_date must be a date"},
		{name: "negative distance", req: QueryRequest{DistanceMin: f64(-1)}, message: "distance_min must be at least 0"},
		{name: "negative limit", req: QueryRequest{Limit: -1}, message: "limit must be at least 0"},
		{name: "huge limit", req: QueryRequest{Limit: 10001}, message: "limit must be at most 10000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := tt.req.Filters()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidRequest)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestQueryRequest_EffectiveLimit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 10, QueryRequest{}.EffectiveLimit(10, 100))
	assert.Equal(t, 5, QueryRequest{Limit: 5}.EffectiveLimit(10, 100))
	assert.Equal(t, 100, QueryRequest{Limit: 500}.EffectiveLimit(10, 100))
	// Unlimited default is still capped
	assert.Equal(t, 100, QueryRequest{}.EffectiveLimit(0, 100))
}
