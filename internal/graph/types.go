package graph

import "time"

// NodeKind represents the type of a catalog entity.
type NodeKind string

const (
	NodeNEO      NodeKind = "neo"
	NodeApproach NodeKind = "approach"
)

// Node represents a NEO or one of its close approaches.
type Node struct {
	ID        string   `json:"id"`                    // Designation for NEOs, "designation/n" for approaches
	Kind      NodeKind `json:"kind"`                  // Type of node
	Label     string   `json:"label"`                 // Display text
	Hazardous bool     `json:"hazardous,omitempty"`   // NEO nodes only
	Time      string   `json:"time,omitempty"`        // Approach nodes only, UTC
	Distance  float64  `json:"distance_au,omitempty"` // Approach nodes only
}

// EdgeType represents the type of relationship between nodes.
type EdgeType string

const (
	EdgeApproaches EdgeType = "approaches" // NEO makes a close approach
)

// Edge represents a relationship between two nodes.
type Edge struct {
	From string   `json:"from"` // Source node ID
	To   string   `json:"to"`   // Target node ID
	Type EdgeType `json:"type"` // Relationship type
}

// GraphData represents the complete association graph stored as JSON.
type GraphData struct {
	Metadata GraphMetadata `json:"_metadata"`
	Nodes    []Node        `json:"nodes"`
	Edges    []Edge        `json:"edges"`
}

// GraphMetadata contains metadata about the graph.
type GraphMetadata struct {
	Version     string    `json:"version"`
	GeneratedAt time.Time `json:"generated_at"`
	NodeCount   int       `json:"node_count"`
	EdgeCount   int       `json:"edge_count"`
}
