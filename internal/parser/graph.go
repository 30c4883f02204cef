// Package parser provides utilities for parsing and transforming input data.
// It reads the pairing table and converts selector results into the
// rendering payload.
package parser

import (
	"github.com/flavorgraph/core/internal/models"
	"github.com/flavorgraph/core/internal/selector"
)

// BuildGraph converts a GraphView into the JSON payload the page renders.
// Edge levels are the highest recommendation level among the connectable
// records joining the two ingredients.
func BuildGraph(view selector.GraphView, src selector.Source, mutualOnly bool) *models.Graph {
	graph := &models.Graph{
		Nodes: []models.Node{},
		Edges: []models.Edge{},
	}

	levels := collectLevels(view, src)
	degree := make(map[string]int, view.NodeCount())
	byLevel := make(map[int]int)

	for _, e := range view.EdgeList() {
		level := levels[e]
		graph.Edges = append(graph.Edges, models.Edge{
			Source: e.A,
			Target: e.B,
			Level:  level,
		})
		degree[e.A]++
		degree[e.B]++
		byLevel[level]++
	}

	for _, id := range view.NodeList() {
		graph.Nodes = append(graph.Nodes, models.Node{
			ID:       id,
			Selected: view.IsSelected(id),
			Mutual:   view.IsMutual(id),
			Degree:   degree[id],
		})
	}

	selected := view.Selected()
	if selected == nil {
		selected = []string{}
	}

	graph.Stats = &models.Stats{
		TotalNodes:   len(graph.Nodes),
		TotalEdges:   len(graph.Edges),
		Selected:     selected,
		MutualOnly:   mutualOnly,
		EdgesByLevel: byLevel,
	}

	return graph
}

func collectLevels(view selector.GraphView, src selector.Source) map[selector.Edge]int {
	levels := make(map[selector.Edge]int, view.EdgeCount())
	if view.EdgeCount() == 0 {
		return levels
	}

	for rec := range src.Connectable() {
		if !view.HasEdge(rec.Main, rec.Pairing) {
			continue
		}
		e := selector.NewEdge(rec.Main, rec.Pairing)
		if rec.Level > levels[e] {
			levels[e] = rec.Level
		}
	}

	return levels
}
