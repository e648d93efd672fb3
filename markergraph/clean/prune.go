package clean

import "github.com/grailbio/bio/markergraph"

// Prune iteratively removes current leaves — vertices whose total
// surviving in+out degree is 1 — by flagging their single incident edge
// as removed, repeating iterationCount times (spec.md §4.7 "Pruning").
// Each removal is applied to the edge and its reverse-complement partner
// together.
func Prune(g *markergraph.Graph, iterationCount int) {
	for iter := 0; iter < iterationCount; iter++ {
		removedAny := false
		for v := 0; v < g.NumVertices(); v++ {
			vid := markergraph.VertexId(v)
			degree, onlyEdge := survivingDegree(g, vid)
			if degree != 1 {
				continue
			}
			if !g.Edges()[onlyEdge].WasRemovedByTransitiveReduction {
				flagPair(g, onlyEdge)
				removedAny = true
			}
		}
		if !removedAny {
			break
		}
	}
}

// survivingDegree returns the number of non-removed edges incident to v
// (in either direction) and, if exactly one, that edge's index.
func survivingDegree(g *markergraph.Graph, v markergraph.VertexId) (int, int) {
	count := 0
	only := -1
	for _, ei := range g.OutEdges(v) {
		if !g.Edges()[ei].WasRemovedByTransitiveReduction {
			count++
			only = int(ei)
		}
	}
	for _, ei := range g.InEdges(v) {
		if !g.Edges()[ei].WasRemovedByTransitiveReduction {
			count++
			only = int(ei)
		}
	}
	return count, only
}
