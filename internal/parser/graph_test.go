// Package parser provides utilities for parsing and transforming input data.
// It reads the pairing table and converts selector results into the
// rendering payload.
package parser

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flavorgraph/core/internal/models"
	"github.com/flavorgraph/core/internal/pairing"
	"github.com/flavorgraph/core/internal/selector"
)

func sampleIndex(t *testing.T) *pairing.Index {
	t.Helper()

	rows, err := ParseCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	idx, err := pairing.Load(rows)
	require.NoError(t, err)
	return idx
}

func TestBuildGraph(t *testing.T) {
	idx := sampleIndex(t)

	t.Run("empty selection returns empty graph", func(t *testing.T) {
		view := selector.ComputeGraph(idx, nil, false)

		graph := BuildGraph(view, idx, false)

		assert.NotNil(t, graph)
		assert.Empty(t, graph.Nodes)
		assert.Empty(t, graph.Edges)
		require.NotNil(t, graph.Stats)
		assert.Equal(t, 0, graph.Stats.TotalNodes)
	})

	t.Run("empty graph encodes arrays not null", func(t *testing.T) {
		graph := BuildGraph(selector.ComputeGraph(idx, nil, false), idx, false)

		data, err := json.Marshal(graph)
		require.NoError(t, err)

		assert.Contains(t, string(data), `"nodes":[]`)
		assert.Contains(t, string(data), `"edges":[]`)
		assert.Contains(t, string(data), `"selected":[]`)
	})

	t.Run("nodes are sorted and flag the selection", func(t *testing.T) {
		graph := BuildGraph(selector.ComputeGraph(idx, []string{"Chicken"}, false), idx, false)

		require.Len(t, graph.Nodes, 3)
		assert.Equal(t, models.Node{ID: "chicken", Selected: true, Degree: 2}, graph.Nodes[0])
		assert.Equal(t, models.Node{ID: "garlic", Selected: false, Degree: 1}, graph.Nodes[1])
		assert.Equal(t, models.Node{ID: "lemons", Selected: false, Degree: 1}, graph.Nodes[2])
	})

	t.Run("edge level is the highest linking level", func(t *testing.T) {
		graph := BuildGraph(selector.ComputeGraph(idx, []string{"chicken"}, false), idx, false)

		assert.Equal(t, []models.Edge{
			{Source: "chicken", Target: "garlic", Level: 3},
			{Source: "chicken", Target: "lemons", Level: 2},
		}, graph.Edges)
		assert.Equal(t, map[int]int{2: 1, 3: 1}, graph.Stats.EdgesByLevel)
	})

	t.Run("mutual nodes are flagged", func(t *testing.T) {
		view := selector.ComputeGraph(idx, []string{"chicken", "lemons"}, true)

		graph := BuildGraph(view, idx, true)

		require.Len(t, graph.Nodes, 3)
		assert.Equal(t, "garlic", graph.Nodes[1].ID)
		assert.True(t, graph.Nodes[1].Mutual)
		assert.False(t, graph.Nodes[0].Mutual)
		assert.True(t, graph.Stats.MutualOnly)
		assert.Equal(t, []string{"chicken", "lemons"}, graph.Stats.Selected)
	})

	t.Run("stats match the payload", func(t *testing.T) {
		graph := BuildGraph(selector.ComputeGraph(idx, []string{"garlic", "saffron"}, false), idx, false)

		assert.Equal(t, len(graph.Nodes), graph.Stats.TotalNodes)
		assert.Equal(t, len(graph.Edges), graph.Stats.TotalEdges)
		assert.Equal(t, 0, graph.Nodes[len(graph.Nodes)-1].Degree)
	})
}
