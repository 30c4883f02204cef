// Package selector derives the displayed graph from a pairing index, a
// selection of ingredients and the mutual-only flag.
package selector

import (
	"iter"

	"github.com/flavorgraph/core/internal/models"
	"github.com/flavorgraph/core/internal/normalize"
)

// Source is the part of the pairing index the selector reads.
// *pairing.Index satisfies it.
type Source interface {
	Connectable() iter.Seq[models.PairingRecord]
}

// ComputeGraph returns the nodes and edges to display for selection.
//
// Every selected name is a node, including names unknown to the index. With
// mutualOnly and more than one distinct selected name, only pairings that
// connect to every selected ingredient are kept. With fewer selected names the
// flag has no effect. Empty names are dropped from selection before anything
// else, so they never become nodes and do not count towards the mutual set.
func ComputeGraph(src Source, selection []string, mutualOnly bool) GraphView {
	names := normalize.Names(selection)
	sel := make(map[string]struct{}, len(names))
	for _, n := range names {
		sel[n] = struct{}{}
	}

	view := expand(src, names, sel)
	if !mutualOnly || len(sel) <= 1 {
		return view
	}

	return restrictToMutual(src, view, sel)
}

// expand adds every connectable neighbour of the selection.
func expand(src Source, names []string, sel map[string]struct{}) GraphView {
	view := GraphView{
		selected: names,
		nodes:    make(map[string]struct{}, len(sel)),
		edges:    make(map[Edge]struct{}),
	}
	for n := range sel {
		view.nodes[n] = struct{}{}
	}

	for rec := range src.Connectable() {
		_, mainSelected := sel[rec.Main]
		_, pairingSelected := sel[rec.Pairing]

		if mainSelected {
			view.nodes[rec.Pairing] = struct{}{}
			view.edges[NewEdge(rec.Main, rec.Pairing)] = struct{}{}
		}
		if pairingSelected {
			view.nodes[rec.Main] = struct{}{}
			view.edges[NewEdge(rec.Main, rec.Pairing)] = struct{}{}
		}
	}

	return view
}

// restrictToMutual keeps the unselected neighbours connected to all of sel,
// then drops edges that lost an endpoint.
func restrictToMutual(src Source, full GraphView, sel map[string]struct{}) GraphView {
	conns := make(map[string]map[string]struct{})
	link := func(other, selected string) {
		set, ok := conns[other]
		if !ok {
			set = make(map[string]struct{}, len(sel))
			conns[other] = set
		}
		set[selected] = struct{}{}
	}

	for rec := range src.Connectable() {
		_, mainSelected := sel[rec.Main]
		_, pairingSelected := sel[rec.Pairing]

		if mainSelected && !pairingSelected {
			link(rec.Pairing, rec.Main)
		}
		if pairingSelected && !mainSelected {
			link(rec.Main, rec.Pairing)
		}
	}

	view := GraphView{
		selected: full.selected,
		nodes:    make(map[string]struct{}, len(sel)),
		edges:    make(map[Edge]struct{}),
		mutual:   make(map[string]struct{}),
	}
	for n := range sel {
		view.nodes[n] = struct{}{}
	}

	// conns[p] only ever holds members of sel, so equal size means equal sets.
	for p, set := range conns {
		if len(set) == len(sel) {
			view.nodes[p] = struct{}{}
			view.mutual[p] = struct{}{}
		}
	}

	for e := range full.edges {
		_, okA := view.nodes[e.A]
		_, okB := view.nodes[e.B]
		if okA && okB {
			view.edges[e] = struct{}{}
		}
	}

	return view
}
