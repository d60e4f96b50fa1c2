package mcputils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockArgumentGetter implements ArgumentGetter for testing
type mockArgumentGetter struct {
	args map[string]interface{}
}

func (m *mockArgumentGetter) GetArguments() map[string]interface{} {
	return m.args
}

// filterRequest mirrors the shape of an approach query
type filterRequest struct {
	Date        string   `json:"date,omitempty"`
	DistanceMax *float64 `json:"distance_max,omitempty"`
	VelocityMin *float64 `json:"velocity_min,omitempty"`
	Hazardous   *bool    `json:"hazardous,omitempty"`
	Limit       int      `json:"limit,omitempty"`
}

func TestCoerceBindArguments(t *testing.T) {
	t.Parallel()

	t.Run("values sent as strings", func(t *testing.T) {
		request := &mockArgumentGetter{
			args: map[string]interface{}{
				"date":         "2029-04-13",
				"distance_max": "0.05",
				"hazardous":    "true",
				"limit":        "10",
			},
		}

		var result filterRequest
		require.NoError(t, CoerceBindArguments(request, &result))

		assert.Equal(t, "2029-04-13", result.Date)
		require.NotNil(t, result.DistanceMax)
		assert.Equal(t, 0.05, *result.DistanceMax)
		require.NotNil(t, result.Hazardous)
		assert.True(t, *result.Hazardous)
		assert.Equal(t, 10, result.Limit)
		assert.Nil(t, result.VelocityMin)
	})

	t.Run("already proper types", func(t *testing.T) {
		request := &mockArgumentGetter{
			args: map[string]interface{}{
				"velocity_min": float64(0),
				"hazardous":    false,
				"limit":        float64(5), // MCP sends numbers as float64
			},
		}

		var result filterRequest
		require.NoError(t, CoerceBindArguments(request, &result))

		require.NotNil(t, result.VelocityMin)
		assert.Equal(t, 0.0, *result.VelocityMin)
		require.NotNil(t, result.Hazardous)
		assert.False(t, *result.Hazardous)
		assert.Equal(t, 5, result.Limit)
	})

	t.Run("null leaves optional fields unset", func(t *testing.T) {
		request := &mockArgumentGetter{
			args: map[string]interface{}{
				"distance_max": nil,
			},
		}

		var result filterRequest
		require.NoError(t, CoerceBindArguments(request, &result))
		assert.Nil(t, result.DistanceMax)
	})

	t.Run("blank strings leave optional fields unset", func(t *testing.T) {
		request := &mockArgumentGetter{
			args: map[string]interface{}{
				"date":         "",
				"distance_max": "",
				"velocity_min": "  ",
				"hazardous":    "",
				"limit":        "",
			},
		}

		var result filterRequest
		require.NoError(t, CoerceBindArguments(request, &result))
		assert.Nil(t, result.DistanceMax)
		assert.Nil(t, result.VelocityMin)
		assert.Nil(t, result.Hazardous)
		assert.Equal(t, filterRequest{}, result)
	})

	t.Run("blank unknown key is still rejected", func(t *testing.T) {
		request := &mockArgumentGetter{
			args: map[string]interface{}{
				"distance_maximum": "",
			},
		}

		var result filterRequest
		err := CoerceBindArguments(request, &result)
		assert.ErrorIs(t, err, ErrInvalidArguments)
	})

	t.Run("empty arguments", func(t *testing.T) {
		var result filterRequest
		require.NoError(t, CoerceBindArguments(&mockArgumentGetter{}, &result))
		assert.Equal(t, filterRequest{}, result)
	})

	t.Run("unparseable number", func(t *testing.T) {
		request := &mockArgumentGetter{
			args: map[string]interface{}{
				"velocity_min": "fast",
			},
		}

		var result filterRequest
		err := CoerceBindArguments(request, &result)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidArguments)
		assert.Contains(t, err.Error(), "velocity_min")
	})

	t.Run("unparseable boolean", func(t *testing.T) {
		request := &mockArgumentGetter{
			args: map[string]interface{}{
				"hazardous": "Y",
			},
		}

		var result filterRequest
		err := CoerceBindArguments(request, &result)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "hazardous")
	})

	t.Run("fractional integer", func(t *testing.T) {
		for _, limit := range []interface{}{2.9, "2.9"} {
			request := &mockArgumentGetter{
				args: map[string]interface{}{
					"limit": limit,
				},
			}

			var result filterRequest
			err := CoerceBindArguments(request, &result)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidArguments)
			assert.Contains(t, err.Error(), "limit")
		}
	})

	t.Run("whole float for integer", func(t *testing.T) {
		request := &mockArgumentGetter{
			args: map[string]interface{}{
				"limit": 7.0,
			},
		}

		var result filterRequest
		require.NoError(t, CoerceBindArguments(request, &result))
		assert.Equal(t, 7, result.Limit)
	})

	t.Run("unknown key", func(t *testing.T) {
		request := &mockArgumentGetter{
			args: map[string]interface{}{
				"distance_maximum": 0.1,
			},
		}

		var result filterRequest
		err := CoerceBindArguments(request, &result)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidArguments)
		assert.Contains(t, err.Error(), "distance_maximum")
	})
}
