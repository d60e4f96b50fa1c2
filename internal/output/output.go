// Package output renders close-approach query results to files and terminals.
//
// Every writer consumes a lazy sequence of approaches and handles one record
// at a time, so large result sets are never collected in memory (PDF is the
// exception, the document is assembled before it is written).
package output

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
	"github.com/mvp-joe/project-neo/internal/neo"
)

var (
	// ErrUnsupportedFormat is returned for output paths with an unknown extension
	ErrUnsupportedFormat = errors.New("unsupported output format")

	// ErrLocked is returned when another process is writing the same output file
	ErrLocked = errors.New("output file is locked by another process")
)

// Format identifies an output encoding.
type Format string

const (
	FormatCSV    Format = "csv"
	FormatJSON   Format = "json"
	FormatYAML   Format = "yaml"
	FormatXLSX   Format = "xlsx"
	FormatPDF    Format = "pdf"
	FormatSQLite Format = "sqlite"
)

// Writer writes a stream of close approaches to a destination and returns the
// number of approaches written.
type Writer interface {
	Write(ctx context.Context, approaches iter.Seq[*neo.CloseApproach]) (int, error)
}

// FormatFromPath picks the output format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".xlsx":
		return FormatXLSX, nil
	case ".pdf":
		return FormatPDF, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: %q (use .csv, .json, .yaml, .xlsx, .pdf or .db)", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// WriteFile writes the approaches to path in the format implied by its
// extension. The file is written under an advisory lock on <path>.lock and
// replaced atomically, so readers never observe a partial file.
func WriteFile(ctx context.Context, path string, approaches iter.Seq[*neo.CloseApproach]) (int, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return 0, err
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return 0, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return 0, fmt.Errorf("%w: %s", ErrLocked, path)
	}
	defer lock.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return 0, fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tmp.Name()
	defer os.Remove(tempPath) // No-op after a successful rename

	var w Writer
	switch format {
	case FormatCSV:
		w = NewCSVWriter(tmp)
	case FormatJSON:
		w = NewJSONWriter(tmp)
	case FormatYAML:
		w = NewYAMLWriter(tmp)
	case FormatXLSX:
		w = NewXLSXWriter(tmp)
	case FormatPDF:
		w = NewPDFWriter(tmp)
	case FormatSQLite:
		// SQLite manages its own file handle
		tmp.Close()
		w = NewSQLiteWriter(tempPath)
	}

	n, err := w.Write(ctx, approaches)
	if format != FormatSQLite {
		if closeErr := tmp.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("failed to close output: %w", closeErr)
		}
	}
	if err != nil {
		return n, err
	}

	if err := os.Rename(tempPath, path); err != nil {
		return n, fmt.Errorf("failed to rename output file: %w", err)
	}

	return n, nil
}

// each feeds every approach to fn, stopping at the first error or when the
// context is cancelled.
func each(ctx context.Context, approaches iter.Seq[*neo.CloseApproach], fn func(*neo.CloseApproach) error) (int, error) {
	n := 0
	for a := range approaches {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := fn(a); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}
