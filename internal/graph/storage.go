package graph

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// GraphVersion is the current version of the graph format
const GraphVersion = "1.0"

// ErrUnsupportedGraphFormat is returned for graph paths that are neither .dot nor .json.
var ErrUnsupportedGraphFormat = errors.New("unsupported graph format")

// Storage handles reading and writing a graph file.
type Storage interface {
	// Load loads graph JSON from disk. Returns nil if the file doesn't exist.
	Load() (*GraphData, error)

	// Save writes the graph as JSON or DOT, chosen by file extension,
	// using the atomic write pattern.
	Save(g *Graph) error

	// Exists checks if the graph file exists.
	Exists() bool
}

// storage implements Storage with atomic write support.
type storage struct {
	path string
}

// NewStorage creates a storage for the graph file at path.
func NewStorage(path string) (Storage, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".dot", ".gv", ".json":
	default:
		return nil, fmt.Errorf("%w: %q (use .dot or .json)", ErrUnsupportedGraphFormat, filepath.Ext(path))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create graph directory: %w", err)
	}

	return &storage{path: path}, nil
}

// Load loads the graph data from disk.
func (s *storage) Load() (*GraphData, error) {
	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return nil, nil // Not an error, just no graph yet
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("failed to read graph file: %w", err)
	}

	var graphData GraphData
	if err := json.Unmarshal(data, &graphData); err != nil {
		return nil, fmt.Errorf("failed to parse graph JSON: %w", err)
	}

	return &graphData, nil
}

// Save writes the graph to disk using atomic write pattern.
func (s *storage) Save(g *Graph) error {
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp graph file: %w", err)
	}
	tempPath := tmp.Name()
	defer os.Remove(tempPath) // No-op after a successful rename

	if strings.EqualFold(filepath.Ext(s.path), ".json") {
		data := g.Data()
		data.Metadata.Version = GraphVersion
		data.Metadata.GeneratedAt = time.Now()
		data.Metadata.NodeCount = len(data.Nodes)
		data.Metadata.EdgeCount = len(data.Edges)

		enc := json.NewEncoder(tmp)
		enc.SetIndent("", "  ")
		err = enc.Encode(data)
	} else {
		err = g.WriteDOT(tmp)
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("failed to write temp graph file: %w", err)
	}

	// Atomic rename (POSIX guarantees atomicity)
	if err := os.Rename(tempPath, s.path); err != nil {
		return fmt.Errorf("failed to rename temp graph file: %w", err)
	}

	return nil
}

// Exists checks if the graph file exists.
func (s *storage) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}
