// Package models defines the core data structures shared between the dataset
// loader, the graph selector and the HTTP layer.
package models

type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
	Stats *Stats `json:"stats,omitempty"`
}

type Node struct {
	ID       string `json:"id"`
	Selected bool   `json:"selected"`
	Mutual   bool   `json:"mutual,omitempty"`
	Degree   int    `json:"degree"`
}

type Edge struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Level  int    `json:"level"`
}

type Stats struct {
	TotalNodes   int         `json:"total_nodes"`
	TotalEdges   int         `json:"total_edges"`
	Selected     []string    `json:"selected"`
	MutualOnly   bool        `json:"mutual_only"`
	EdgesByLevel map[int]int `json:"edges_by_level,omitempty"`
}
