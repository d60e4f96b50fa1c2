package extract

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mvp-joe/project-neo/internal/neo"
	"go.uber.org/zap"
)

// CSV columns read from the NEO catalog.
const (
	columnDesignation = "pdes"
	columnName        = "name"
	columnDiameter    = "diameter"
	columnHazardous   = "pha"
)

// LoadNEOs reads NEO records from a CSV file with a header row.
func LoadNEOs(ctx context.Context, path string, opts ...Option) ([]*neo.NearEarthObject, *LoadStats, error) {
	o := buildOptions(opts)

	r, closeFn, err := openSource(path, KindNEOs, o)
	if err != nil {
		return nil, nil, err
	}
	defer closeFn()

	return readNEOs(ctx, r, o)
}

// ReadNEOs reads NEO records from CSV data.
func ReadNEOs(ctx context.Context, r io.Reader, opts ...Option) ([]*neo.NearEarthObject, *LoadStats, error) {
	return readNEOs(ctx, r, buildOptions(opts))
}

func readNEOs(ctx context.Context, r io.Reader, o *loadOptions) ([]*neo.NearEarthObject, *LoadStats, error) {
	start := time.Now()

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read NEO header: %w", err)
	}
	cols, err := columnIndex(header, columnDesignation, columnName, columnDiameter, columnHazardous)
	if err != nil {
		return nil, nil, err
	}

	stats := &LoadStats{}
	var neos []*neo.NearEarthObject

	for row := 1; ; row++ {
		if (row-1)%1000 == 0 {
			select {
			case <-ctx.Done():
				return nil, nil, ctx.Err()
			default:
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				o.logger.Warn("skipping unreadable NEO row", zap.Int("line", parseErr.StartLine), zap.Error(err))
				stats.Skipped++
				continue
			}
			return nil, nil, fmt.Errorf("failed to read NEO row %d: %w", row, err)
		}

		n, err := parseNEO(record, cols)
		if err != nil {
			// Quoted fields may span lines, so ask the reader where the row began
			line, _ := reader.FieldPos(0)
			o.logger.Warn("skipping malformed NEO row", zap.Int("line", line), zap.Error(err))
			stats.Skipped++
			continue
		}
		neos = append(neos, n)
	}

	stats.Records = len(neos)
	stats.Duration = time.Since(start)
	o.progress.OnLoadComplete(KindNEOs, stats.Records, stats.Skipped, stats.Duration)
	o.logger.Info("loaded NEOs",
		zap.Int("records", stats.Records),
		zap.Int("skipped", stats.Skipped),
		zap.Duration("duration", stats.Duration))

	return neos, stats, nil
}

func parseNEO(record []string, cols map[string]int) (*neo.NearEarthObject, error) {
	designation := field(record, cols[columnDesignation])
	if designation == "" {
		return nil, errors.New("empty designation")
	}

	var name *string
	if v := field(record, cols[columnName]); v != "" {
		name = &v
	}

	diameter := neo.UnknownDiameter
	if v := field(record, cols[columnDiameter]); v != "" {
		d, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(d) || d < 0 {
			return nil, fmt.Errorf("invalid diameter %q", v)
		}
		diameter = d
	}

	hazardous := strings.EqualFold(field(record, cols[columnHazardous]), "Y")

	return neo.NewNearEarthObject(designation, name, diameter, hazardous), nil
}

// columnIndex maps each required column name to its position in the header.
func columnIndex(header []string, required ...string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, seen := positions[h]; !seen {
			positions[h] = i
		}
	}

	cols := make(map[string]int, len(required))
	var missing []string
	for _, name := range required {
		i, ok := positions[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols[name] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return cols, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
