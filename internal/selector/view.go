// Package selector derives the displayed graph from a pairing index, a
// selection of ingredients and the mutual-only flag.
package selector

import (
	"cmp"
	"maps"
	"slices"
)

// Edge is an unordered pair of ingredient names. A is always the smaller name
// so that {a,b} and {b,a} are the same map key.
type Edge struct {
	A string
	B string
}

// NewEdge returns the canonical form of the pair {x, y}.
func NewEdge(x, y string) Edge {
	if y < x {
		x, y = y, x
	}
	return Edge{A: x, B: y}
}

// Has reports whether name is one of the endpoints.
func (e Edge) Has(name string) bool {
	return e.A == name || e.B == name
}

// GraphView is the display-ready result of ComputeGraph.
type GraphView struct {
	selected []string
	nodes    map[string]struct{}
	edges    map[Edge]struct{}
	// mutual is non-nil only when the mutual-only filter was applied.
	mutual map[string]struct{}
}

// Selected returns the normalized selection in sorted order.
func (v GraphView) Selected() []string {
	return slices.Sorted(slices.Values(v.selected))
}

func (v GraphView) HasNode(name string) bool {
	_, ok := v.nodes[name]
	return ok
}

func (v GraphView) HasEdge(x, y string) bool {
	_, ok := v.edges[NewEdge(x, y)]
	return ok
}

func (v GraphView) IsSelected(name string) bool {
	return slices.Contains(v.selected, name)
}

// IsMutual reports whether name survived the mutual-only filter. It is always
// false when the filter was not applied.
func (v GraphView) IsMutual(name string) bool {
	_, ok := v.mutual[name]
	return ok
}

// NodeList returns the node names sorted.
func (v GraphView) NodeList() []string {
	return slices.Sorted(maps.Keys(v.nodes))
}

// EdgeList returns the edges sorted by (A, B).
func (v GraphView) EdgeList() []Edge {
	return slices.SortedFunc(maps.Keys(v.edges), func(x, y Edge) int {
		return cmp.Or(cmp.Compare(x.A, y.A), cmp.Compare(x.B, y.B))
	})
}

// Mutual returns the pairings kept by the mutual-only filter, sorted. It is
// nil when the filter was not applied.
func (v GraphView) Mutual() []string {
	if v.mutual == nil {
		return nil
	}
	out := make([]string, 0, len(v.mutual))
	for name := range v.mutual {
		out = append(out, name)
	}
	slices.Sort(out)
	return out
}

func (v GraphView) NodeCount() int { return len(v.nodes) }

func (v GraphView) EdgeCount() int { return len(v.edges) }

// Equal compares node and edge sets.
func (v GraphView) Equal(o GraphView) bool {
	return maps.Equal(v.nodes, o.nodes) && maps.Equal(v.edges, o.edges)
}
