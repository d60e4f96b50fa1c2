package output

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"iter"

	"github.com/mvp-joe/project-neo/internal/neo"
)

// JSONWriter writes a JSON array of records, one element at a time.
type JSONWriter struct {
	w io.Writer
}

// NewJSONWriter creates a JSON writer.
func NewJSONWriter(w io.Writer) *JSONWriter {
	return &JSONWriter{w: w}
}

// Write implements Writer.
func (jw *JSONWriter) Write(ctx context.Context, approaches iter.Seq[*neo.CloseApproach]) (int, error) {
	bw := bufio.NewWriter(jw.w)
	bw.WriteString("[")

	sep := "\n  "
	n, err := each(ctx, approaches, func(a *neo.CloseApproach) error {
		data, err := json.MarshalIndent(NewRecord(a), "  ", "  ")
		if err != nil {
			return err
		}
		bw.WriteString(sep)
		sep = ",\n  "
		_, err = bw.Write(data)
		return err
	})
	if err != nil {
		return n, fmt.Errorf("failed to write JSON: %w", err)
	}

	if n > 0 {
		bw.WriteString("\n")
	}
	bw.WriteString("]\n")
	if err := bw.Flush(); err != nil {
		return n, fmt.Errorf("failed to flush JSON: %w", err)
	}
	return n, nil
}
