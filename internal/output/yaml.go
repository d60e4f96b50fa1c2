package output

import (
	"context"
	"fmt"
	"io"
	"iter"

	"github.com/mvp-joe/project-neo/internal/neo"
	"gopkg.in/yaml.v3"
)

// YAMLWriter writes a multi-document YAML stream with one document per approach.
type YAMLWriter struct {
	w io.Writer
}

// NewYAMLWriter creates a YAML writer.
func NewYAMLWriter(w io.Writer) *YAMLWriter {
	return &YAMLWriter{w: w}
}

// Write implements Writer.
func (yw *YAMLWriter) Write(ctx context.Context, approaches iter.Seq[*neo.CloseApproach]) (int, error) {
	enc := yaml.NewEncoder(yw.w)
	enc.SetIndent(2)

	n, err := each(ctx, approaches, func(a *neo.CloseApproach) error {
		return enc.Encode(NewRecord(a))
	})
	if err != nil {
		return n, fmt.Errorf("failed to write YAML: %w", err)
	}

	if err := enc.Close(); err != nil {
		return n, fmt.Errorf("failed to close YAML stream: %w", err)
	}
	return n, nil
}
