// Package extract reads the NEO catalog (CSV) and the close-approach data
// (CAD JSON) into unlinked neo records.
package extract

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mvp-joe/project-neo/internal/neo"
	"go.uber.org/zap"
)

var (
	// ErrMissingColumn indicates the CSV header lacks a required column
	ErrMissingColumn = errors.New("missing column")

	// ErrMalformedDocument indicates the CAD JSON document has an unexpected shape
	ErrMalformedDocument = errors.New("malformed close-approach document")
)

// LoadStats describes the outcome of loading one file.
type LoadStats struct {
	Records  int           // Records returned
	Skipped  int           // Malformed rows that were dropped
	Duration time.Duration // Wall time spent loading
}

// Option configures a load.
type Option func(*loadOptions)

type loadOptions struct {
	logger   *zap.Logger
	progress ProgressReporter
}

// WithLogger sets the logger used to report skipped rows.
func WithLogger(logger *zap.Logger) Option {
	return func(o *loadOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithProgress configures progress reporting.
func WithProgress(progress ProgressReporter) Option {
	return func(o *loadOptions) {
		if progress != nil {
			o.progress = progress
		}
	}
}

func buildOptions(opts []Option) *loadOptions {
	o := &loadOptions{
		logger:   zap.NewNop(),
		progress: NoOpProgressReporter{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Load reads both data files and links them into a database.
func Load(ctx context.Context, neoPath, cadPath string, opts ...Option) (*neo.Database, error) {
	neos, _, err := LoadNEOs(ctx, neoPath, opts...)
	if err != nil {
		return nil, err
	}

	approaches, _, err := LoadApproaches(ctx, cadPath, opts...)
	if err != nil {
		return nil, err
	}

	o := buildOptions(opts)
	return neo.NewDatabase(neos, approaches, neo.WithLogger(o.logger)), nil
}

// openSource opens path and wraps it for progress reporting.
func openSource(path string, kind Kind, o *loadOptions) (io.Reader, func() error, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s file: %w", kind, err)
	}

	size := int64(-1)
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	o.progress.OnLoadStart(kind, size)

	return &progressReader{r: f, progress: o.progress}, f.Close, nil
}
