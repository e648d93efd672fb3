// Package clean implements MarkerGraphCleaner (spec.md §4.7): approximate
// transitive reduction, pruning, and bubble/superbubble simplification
// over a built markergraph.Graph. Every pass only sets advisory flags on
// markergraph.Edge; nothing in this package mutates the graph topology
// directly, preserving spec.md §4.7's "structural operation acts on a
// vertex/edge and its reverse-complement partner jointly" discipline.
package clean

import (
	"sort"

	"github.com/grailbio/bio/markergraph"
)

// TransitiveReductionOpts configures the approximate transitive reduction
// pass (spec.md §4.7).
type TransitiveReductionOpts struct {
	LowCoverageThreshold    int
	HighCoverageThreshold   int
	MaxDistance             int
	EdgeMarkerSkipThreshold int
}

// edgeOrdinalSkip approximates the "ordinal skip" of a coverage-1 edge as
// the spread between the smallest and largest ordinal0 among its (single)
// supporting interval; with exactly one interval this is always zero, so
// in practice this rule fires only when EdgeMarkerSkipThreshold is
// negative. Kept distinct from Coverage()
// so future multi-interval coverage-1 semantics (a single oriented read
// contributing one interval per marker-graph edge by construction) remain
// explicit about what "skip" measures here.
func edgeOrdinalSkip(e *markergraph.Edge) int {
	if len(e.Intervals) == 0 {
		return 0
	}
	min, max := e.Intervals[0].Ordinal0, e.Intervals[0].Ordinal0
	for _, iv := range e.Intervals {
		if iv.Ordinal0 < min {
			min = iv.Ordinal0
		}
		if iv.Ordinal0 > max {
			max = iv.Ordinal0
		}
	}
	return max - min
}

// ApproximateTransitiveReduction implements spec.md §4.7's four-step
// transitive reduction: flag very-low-coverage and skippy singleton edges
// outright, then for coverage in (L,H) search for an alternative bounded
// path before flagging, leaving high-coverage edges untouched. Edges are
// processed in increasing-coverage order (tie-broken by edge id) per
// spec.md §5's "total order... to guarantee reproducibility".
func ApproximateTransitiveReduction(g *markergraph.Graph, opts TransitiveReductionOpts) {
	edges := g.Edges()
	order := make([]int, len(edges))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		ci, cj := edges[order[i]].Coverage(), edges[order[j]].Coverage()
		if ci != cj {
			return ci < cj
		}
		return order[i] < order[j]
	})

	for _, i := range order {
		e := edges[i]
		if e.WasRemovedByTransitiveReduction {
			continue
		}
		cov := e.Coverage()
		switch {
		case cov <= opts.LowCoverageThreshold:
			flagPair(g, i)
		case cov == 1 && edgeOrdinalSkip(e) > opts.EdgeMarkerSkipThreshold:
			flagPair(g, i)
		case cov < opts.HighCoverageThreshold:
			if hasAlternatePath(g, e.Source, e.Target, i, opts.MaxDistance) {
				flagPair(g, i)
			}
		}
	}
}

// ReverseTransitiveReduction mirrors ApproximateTransitiveReduction but
// searches B->...->A instead of A->...->B for an edge A->B (spec.md §4.7
// "Reverse transitive reduction").
func ReverseTransitiveReduction(g *markergraph.Graph, opts TransitiveReductionOpts) {
	edges := g.Edges()
	order := make([]int, len(edges))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		ci, cj := edges[order[i]].Coverage(), edges[order[j]].Coverage()
		if ci != cj {
			return ci < cj
		}
		return order[i] < order[j]
	})

	for _, i := range order {
		e := edges[i]
		if e.WasRemovedByTransitiveReduction {
			continue
		}
		cov := e.Coverage()
		if cov > opts.LowCoverageThreshold && cov < opts.HighCoverageThreshold {
			if hasAlternatePath(g, e.Target, e.Source, i, opts.MaxDistance) {
				flagPair(g, i)
			}
		}
	}
}

// flagPair flags edge i and, if present, its reverse-complement edge
// (spec.md §4.7 "Strand-symmetry discipline").
func flagPair(g *markergraph.Graph, i int) {
	g.Edges()[i].WasRemovedByTransitiveReduction = true
	if rc := g.ReverseComplementEdge(i); rc >= 0 {
		g.Edges()[rc].WasRemovedByTransitiveReduction = true
	}
}

// hasAlternatePath reports whether a path from -> to of length <=
// maxDistance edges exists using no edge flagged
// WasRemovedByTransitiveReduction and not equal to excludeEdge itself
// (spec.md §4.7 "uses no already-flagged edge and is not A->B itself").
func hasAlternatePath(g *markergraph.Graph, from, to markergraph.VertexId, excludeEdge int, maxDistance int) bool {
	type item struct {
		v    markergraph.VertexId
		dist int
	}
	visited := map[markergraph.VertexId]bool{from: true}
	queue := []item{{from, 0}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.dist >= maxDistance {
			continue
		}
		for _, ei := range g.OutEdges(cur.v) {
			if int(ei) == excludeEdge {
				continue
			}
			e := g.Edges()[ei]
			if e.WasRemovedByTransitiveReduction {
				continue
			}
			if e.Target == to && !(cur.v == from && int(ei) == excludeEdge) {
				return true
			}
			if !visited[e.Target] {
				visited[e.Target] = true
				queue = append(queue, item{e.Target, cur.dist + 1})
			}
		}
	}
	return false
}
