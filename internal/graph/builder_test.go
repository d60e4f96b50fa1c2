package graph

import (
	"bytes"
	"testing"
	"time"

	"github.com/mvp-joe/project-neo/internal/neo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for Build:
// - Without designations every canonical NEO becomes a node
// - Each approach becomes a node linked from its NEO in source order
// - Named designations restrict the graph and are deduplicated
// - Unknown designations fail with ErrUnknownNEO
// - Orphan approaches and shadowed duplicates are not part of the graph
// - WriteDOT marks hazardous NEOs

func strPtr(s string) *string { return &s }

func at(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

func fixture() *neo.Database {
	return neo.NewDatabase(
		[]*neo.NearEarthObject{
			neo.NewNearEarthObject("433", strPtr("Eros"), 16.84, false),
			neo.NewNearEarthObject("99942", strPtr("Apophis"), 0.37, true),
			neo.NewNearEarthObject("1862", strPtr("Apollo"), 1.5, true),
			neo.NewNearEarthObject("433", strPtr("Shadow"), 1.0, false),
		},
		[]*neo.CloseApproach{
			neo.NewCloseApproach("433", at("2024-01-01 10:00"), 0.15, 5.0),
			neo.NewCloseApproach("99942", at("2029-04-13 21:46"), 0.00025, 7.42),
			neo.NewCloseApproach("433", at("2025-06-15 00:00"), 0.2, 4.1),
			neo.NewCloseApproach("3200", at("2024-12-14 00:00"), 0.07, 33.0),
		},
	)
}

func TestBuild_AllNEOs(t *testing.T) {
	t.Parallel()

	g, err := Build(fixture())
	require.NoError(t, err)

	// 3 canonical NEOs + 3 linked approaches
	assert.Equal(t, 6, g.Order())
	assert.Equal(t, 3, g.Size())

	successors, err := g.Successors("433")
	require.NoError(t, err)
	assert.Equal(t, []string{"433/1", "433/2"}, successors)

	successors, err = g.Successors("1862")
	require.NoError(t, err)
	assert.Empty(t, successors)

	for _, n := range g.Data().Nodes {
		assert.NotEqual(t, "Shadow", n.Label)
		assert.NotContains(t, n.ID, "3200")
	}

	first := g.Data().Nodes[1]
	assert.Equal(t, NodeApproach, first.Kind)
	assert.Equal(t, "2024-01-01 10:00", first.Time)
	assert.Equal(t, 0.15, first.Distance)
}

func TestBuild_SelectedDesignations(t *testing.T) {
	t.Parallel()

	g, err := Build(fixture(), "99942", "99942")
	require.NoError(t, err)

	assert.Equal(t, 2, g.Order())
	assert.Equal(t, []Edge{{From: "99942", To: "99942/1", Type: EdgeApproaches}}, g.Data().Edges)

	_, err = g.Successors("433")
	assert.ErrorIs(t, err, ErrUnknownNEO)
}

func TestBuild_UnknownDesignation(t *testing.T) {
	t.Parallel()

	_, err := Build(fixture(), "433", "nope")
	assert.ErrorIs(t, err, ErrUnknownNEO)
}

func TestWriteDOT_MarksHazardous(t *testing.T) {
	t.Parallel()

	g, err := Build(fixture(), "99942")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, g.WriteDOT(&buf))
	assert.Contains(t, buf.String(), "red")
	assert.Contains(t, buf.String(), "99942 (Apophis)")
}
