package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/mvp-joe/project-neo/internal/neo"
)

// ErrInvalidRequest indicates query parameters that failed validation.
var ErrInvalidRequest = errors.New("invalid request")

var validate = validator.New()

// QueryRequest carries query parameters from the HTTP and MCP surfaces
// before they become neo.Filters. Dates use YYYY-MM-DD.
type QueryRequest struct {
	Date      string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	StartDate string `json:"start_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	EndDate   string `json:"end_date,omitempty" validate:"omitempty,datetime=2006-01-02"`

	DistanceMin *float64 `json:"distance_min,omitempty" validate:"omitempty,gte=0"`
	DistanceMax *float64 `json:"distance_max,omitempty" validate:"omitempty,gte=0"`
	VelocityMin *float64 `json:"velocity_min,omitempty" validate:"omitempty,gte=0"`
	VelocityMax *float64 `json:"velocity_max,omitempty" validate:"omitempty,gte=0"`
	DiameterMin *float64 `json:"diameter_min,omitempty" validate:"omitempty,gte=0"`
	DiameterMax *float64 `json:"diameter_max,omitempty" validate:"omitempty,gte=0"`
	Hazardous   *bool    `json:"hazardous,omitempty"`

	Limit int `json:"limit,omitempty" validate:"gte=0,lte=10000"`
}

// Filters validates the request and converts it.
func (r QueryRequest) Filters() (neo.Filters, error) {
	if err := ValidateStruct(r); err != nil {
		return neo.Filters{}, err
	}

	f := neo.Filters{
		DistanceMin: r.DistanceMin,
		DistanceMax: r.DistanceMax,
		VelocityMin: r.VelocityMin,
		VelocityMax: r.VelocityMax,
		DiameterMin: r.DiameterMin,
		DiameterMax: r.DiameterMax,
		Hazardous:   r.Hazardous,
	}
	// Already validated, parse cannot fail
	f.Date = parseDay(r.Date)
	f.StartDate = parseDay(r.StartDate)
	f.EndDate = parseDay(r.EndDate)
	return f, nil
}

// EffectiveLimit applies the default to an unset limit and caps it.
func (r QueryRequest) EffectiveLimit(defaultLimit, maxLimit int) int {
	limit := r.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if maxLimit > 0 && (limit <= 0 || limit > maxLimit) {
		limit = maxLimit
	}
	return limit
}

func parseDay(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.ParseInLocation(time.DateOnly, s, time.UTC)
	if err != nil {
		return nil
	}
	return &t
}

// ValidateStruct validates a struct based on its validation tags.
func ValidateStruct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError formats validation errors into readable messages.
func formatValidationError(err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, formatFieldError(e))
		}
		return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
	}
	return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
}

// formatFieldError formats a single field validation error.
func formatFieldError(e validator.FieldError) string {
	field := toSnake(e.Field())

	switch e.Tag() {
	case "datetime":
		return fmt.Sprintf("%s must be a date in YYYY-MM-DD format", field)
	case "gte":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "required":
		return fmt.Sprintf("%s is required", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// toSnake turns a Go field name like DistanceMin into distance_min.
func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
