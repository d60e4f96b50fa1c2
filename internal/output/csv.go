package output

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"iter"

	"github.com/mvp-joe/project-neo/internal/neo"
)

// CSVWriter writes one row per approach after a header row.
type CSVWriter struct {
	w io.Writer
}

// NewCSVWriter creates a CSV writer.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: w}
}

// Write implements Writer.
func (cw *CSVWriter) Write(ctx context.Context, approaches iter.Seq[*neo.CloseApproach]) (int, error) {
	out := csv.NewWriter(cw.w)
	if err := out.Write(columns); err != nil {
		return 0, fmt.Errorf("failed to write CSV header: %w", err)
	}

	n, err := each(ctx, approaches, func(a *neo.CloseApproach) error {
		return out.Write(NewRecord(a).fields())
	})
	if err != nil {
		return n, fmt.Errorf("failed to write CSV row: %w", err)
	}

	out.Flush()
	if err := out.Error(); err != nil {
		return n, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return n, nil
}
