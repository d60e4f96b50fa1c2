// Package graph exports the NEO to close-approach association as a graph.
package graph

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
	"github.com/mvp-joe/project-neo/internal/neo"
)

// ErrUnknownNEO is returned when a requested designation is not in the database.
var ErrUnknownNEO = errors.New("unknown NEO designation")

// Graph is a directed NEO to approach graph backed by dominikbraun/graph.
type Graph struct {
	g    graph.Graph[string, *Node]
	data *GraphData
}

// Build creates the graph for the named NEOs, or for every NEO reachable by
// designation when none are named. Each NEO links to its approaches in
// source order.
func Build(db *neo.Database, designations ...string) (*Graph, error) {
	var neos []*neo.NearEarthObject
	if len(designations) == 0 {
		for _, n := range db.NEOs() {
			if found, ok := db.FindByDesignation(n.Designation); ok && found == n {
				neos = append(neos, n)
			}
		}
	} else {
		seen := make(map[string]bool, len(designations))
		for _, d := range designations {
			if seen[d] {
				continue
			}
			seen[d] = true

			n, ok := db.FindByDesignation(d)
			if !ok {
				return nil, fmt.Errorf("%w: %s", ErrUnknownNEO, d)
			}
			neos = append(neos, n)
		}
	}

	b := &Graph{
		g: graph.New(func(n *Node) string { return n.ID }, graph.Directed()),
		data: &GraphData{
			Nodes: []Node{},
			Edges: []Edge{},
		},
	}

	for _, n := range neos {
		if err := b.addNEO(n); err != nil {
			return nil, err
		}
	}

	b.data.Metadata.NodeCount = len(b.data.Nodes)
	b.data.Metadata.EdgeCount = len(b.data.Edges)
	return b, nil
}

func (b *Graph) addNEO(n *neo.NearEarthObject) error {
	node := Node{
		ID:        n.Designation,
		Kind:      NodeNEO,
		Label:     n.FullName(),
		Hazardous: n.Hazardous,
	}

	color := "black"
	if n.Hazardous {
		color = "red"
	}
	if err := b.addVertex(node,
		graph.VertexAttribute("label", node.Label),
		graph.VertexAttribute("shape", "ellipse"),
		graph.VertexAttribute("color", color),
	); err != nil {
		return err
	}

	for i, a := range n.Approaches() {
		approach := Node{
			ID:       n.Designation + "/" + strconv.Itoa(i+1),
			Kind:     NodeApproach,
			Label:    a.TimeString(),
			Time:     a.TimeString(),
			Distance: a.Distance,
		}
		if err := b.addVertex(approach,
			graph.VertexAttribute("label", approach.Label),
			graph.VertexAttribute("shape", "box"),
		); err != nil {
			return err
		}

		if err := b.g.AddEdge(node.ID, approach.ID,
			graph.EdgeAttribute("label", strconv.FormatFloat(a.Distance, 'g', 4, 64)+" au"),
		); err != nil {
			return fmt.Errorf("failed to add edge %s -> %s: %w", node.ID, approach.ID, err)
		}
		b.data.Edges = append(b.data.Edges, Edge{From: node.ID, To: approach.ID, Type: EdgeApproaches})
	}

	return nil
}

func (b *Graph) addVertex(node Node, options ...func(*graph.VertexProperties)) error {
	vertex := node
	if err := b.g.AddVertex(&vertex, options...); err != nil {
		return fmt.Errorf("failed to add node %s: %w", node.ID, err)
	}
	b.data.Nodes = append(b.data.Nodes, node)
	return nil
}

// Data returns the serializable form of the graph.
func (b *Graph) Data() *GraphData {
	return b.data
}

// Order returns the number of nodes.
func (b *Graph) Order() int {
	return len(b.data.Nodes)
}

// Size returns the number of edges.
func (b *Graph) Size() int {
	return len(b.data.Edges)
}

// Successors returns the IDs of the approach nodes of a NEO in insertion order.
func (b *Graph) Successors(designation string) ([]string, error) {
	adjacency, err := b.g.AdjacencyMap()
	if err != nil {
		return nil, fmt.Errorf("failed to read adjacency: %w", err)
	}
	edges, ok := adjacency[designation]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNEO, designation)
	}

	// The adjacency map is unordered, so walk the recorded edges instead
	out := make([]string, 0, len(edges))
	for _, e := range b.data.Edges {
		if _, linked := edges[e.To]; linked && e.From == designation {
			out = append(out, e.To)
		}
	}
	return out, nil
}

// WriteDOT renders the graph in Graphviz DOT format.
func (b *Graph) WriteDOT(w io.Writer) error {
	if err := draw.DOT(b.g, w, draw.GraphAttribute("rankdir", "LR")); err != nil {
		return fmt.Errorf("failed to render DOT: %w", err)
	}
	return nil
}
