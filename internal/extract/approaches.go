package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"

	"github.com/mvp-joe/project-neo/internal/neo"
	"go.uber.org/zap"
)

// CADTimeLayout is the calendar-date format of the "cd" field, e.g. "1900-Jan-01 00:11".
const CADTimeLayout = "2006-Jan-02 15:04"

// Fields read from each CAD data row.
const (
	fieldDesignation = "des"
	fieldTime        = "cd"
	fieldDistance    = "dist"
	fieldVelocity    = "v_rel"
)

// defaultFieldIndex is the column layout of the CAD API when "fields" is absent:
// des, orbit_id, jd, cd, dist, dist_min, dist_max, v_rel, v_inf, t_sigma_f, h.
var defaultFieldIndex = map[string]int{
	fieldDesignation: 0,
	fieldTime:        3,
	fieldDistance:    4,
	fieldVelocity:    7,
}

// LoadApproaches reads close-approach records from a CAD JSON file.
func LoadApproaches(ctx context.Context, path string, opts ...Option) ([]*neo.CloseApproach, *LoadStats, error) {
	o := buildOptions(opts)

	r, closeFn, err := openSource(path, KindApproaches, o)
	if err != nil {
		return nil, nil, err
	}
	defer closeFn()

	return readApproaches(ctx, r, o)
}

// ReadApproaches reads close-approach records from CAD JSON data.
func ReadApproaches(ctx context.Context, r io.Reader, opts ...Option) ([]*neo.CloseApproach, *LoadStats, error) {
	return readApproaches(ctx, r, buildOptions(opts))
}

// readApproaches walks the top-level object token by token so the data array
// is decoded one row at a time.
func readApproaches(ctx context.Context, r io.Reader, o *loadOptions) ([]*neo.CloseApproach, *LoadStats, error) {
	start := time.Now()
	dec := json.NewDecoder(r)

	if err := expectDelim(dec, '{'); err != nil {
		return nil, nil, err
	}

	stats := &LoadStats{}
	cols := defaultFieldIndex
	var approaches []*neo.CloseApproach
	sawData := false

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, nil, fmt.Errorf("%w: unexpected token %v", ErrMalformedDocument, tok)
		}

		switch key {
		case "fields":
			var fields []string
			if err := dec.Decode(&fields); err != nil {
				return nil, nil, fmt.Errorf("%w: fields: %v", ErrMalformedDocument, err)
			}
			if sawData {
				o.logger.Warn("ignoring fields listed after data")
				continue
			}
			cols, err = fieldIndex(fields)
			if err != nil {
				return nil, nil, err
			}

		case "data":
			sawData = true
			rows, err := readRows(ctx, dec, cols, stats, o)
			if err != nil {
				return nil, nil, err
			}
			approaches = append(approaches, rows...)

		default:
			// signature, count and anything else
			var skip json.RawMessage
			if err := dec.Decode(&skip); err != nil {
				return nil, nil, fmt.Errorf("%w: %s: %v", ErrMalformedDocument, key, err)
			}
		}
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, nil, err
	}

	stats.Records = len(approaches)
	stats.Duration = time.Since(start)
	o.progress.OnLoadComplete(KindApproaches, stats.Records, stats.Skipped, stats.Duration)
	o.logger.Info("loaded close approaches",
		zap.Int("records", stats.Records),
		zap.Int("skipped", stats.Skipped),
		zap.Duration("duration", stats.Duration))

	return approaches, stats, nil
}

func readRows(ctx context.Context, dec *json.Decoder, cols map[string]int, stats *LoadStats, o *loadOptions) ([]*neo.CloseApproach, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: data: %v", ErrMalformedDocument, err)
	}
	if tok == nil {
		return nil, nil // "data": null when the API found nothing
	}
	if d, ok := tok.(json.Delim); !ok || d != '[' {
		return nil, fmt.Errorf("%w: data is not an array", ErrMalformedDocument)
	}

	var approaches []*neo.CloseApproach
	for row := 0; dec.More(); row++ {
		if row%1000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}

		var values []json.RawMessage
		if err := dec.Decode(&values); err != nil {
			return nil, fmt.Errorf("%w: data row %d: %v", ErrMalformedDocument, row, err)
		}

		a, err := parseApproach(values, cols)
		if err != nil {
			o.logger.Warn("skipping malformed close approach", zap.Int("row", row), zap.Error(err))
			stats.Skipped++
			continue
		}
		approaches = append(approaches, a)
	}

	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}
	return approaches, nil
}

func parseApproach(values []json.RawMessage, cols map[string]int) (*neo.CloseApproach, error) {
	designation, err := stringValue(values, cols[fieldDesignation])
	if err != nil {
		return nil, fmt.Errorf("invalid designation: %w", err)
	}
	if designation == "" {
		return nil, errors.New("empty designation")
	}

	cd, err := stringValue(values, cols[fieldTime])
	if err != nil {
		return nil, fmt.Errorf("invalid time: %w", err)
	}
	t, err := time.ParseInLocation(CADTimeLayout, cd, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q: %w", cd, err)
	}

	distance, err := floatValue(values, cols[fieldDistance])
	if err != nil {
		return nil, fmt.Errorf("invalid distance: %w", err)
	}
	velocity, err := floatValue(values, cols[fieldVelocity])
	if err != nil {
		return nil, fmt.Errorf("invalid velocity: %w", err)
	}

	return neo.NewCloseApproach(designation, t, distance, velocity), nil
}

// fieldIndex maps the required CAD fields to their column positions.
func fieldIndex(fields []string) (map[string]int, error) {
	cols, err := columnIndex(fields, fieldDesignation, fieldTime, fieldDistance, fieldVelocity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}
	return cols, nil
}

// stringValue returns column i as a string. CAD encodes every value as a
// string, but bare numbers are accepted too.
func stringValue(values []json.RawMessage, i int) (string, error) {
	if i >= len(values) {
		return "", fmt.Errorf("row has %d values, need index %d", len(values), i)
	}
	raw := bytes.TrimSpace(values[i])
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", errors.New("null value")
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	return string(raw), nil
}

func floatValue(values []json.RawMessage, i int) (float64, error) {
	s, err := stringValue(values, i)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, fmt.Errorf("out of range: %s", s)
	}
	return v, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: expected %q, got %v", ErrMalformedDocument, want, tok)
	}
	return nil
}
