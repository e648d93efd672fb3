package clean

import "github.com/grailbio/bio/markergraph"

// FlagLowCoverageCrossEdges implements spec.md §4.7's "Low-coverage
// cross-edges" pass. An assembly-graph vertex is a marker-graph vertex
// with surviving in-degree!=1 or out-degree!=1; a cross edge is the
// maximal single-successor/single-predecessor chain of marker-graph edges
// v0->...->v1 where v0 has in-degree 1 and out-degree>1, and v1 has
// out-degree 1 and in-degree>1 — i.e. it is a segment (spec.md §4.8)
// whose two ends are each one side of a branch. If the chain's average
// marker-graph edge coverage is <= threshold, every edge of the chain is
// flagged IsLowCoverageCrossEdge, along with each one's
// reverse-complement partner. maxChainLength bounds how far the segment
// walk looks before giving up (a segment longer than that is assumed not
// to be a simple local cross edge).
func FlagLowCoverageCrossEdges(g *markergraph.Graph, maxChainLength int, threshold int) {
	for v := 0; v < g.NumVertices(); v++ {
		v0 := markergraph.VertexId(v)
		outs := survivingOutEdges(g, v0)
		ins := survivingInEdges(g, v0)
		if len(ins) != 1 || len(outs) <= 1 {
			continue
		}
		for _, firstEdge := range outs {
			chainEdges, v1, ok := walkToNextBranch(g, int(firstEdge), maxChainLength)
			if !ok {
				continue
			}
			if len(survivingOutEdges(g, v1)) != 1 || len(survivingInEdges(g, v1)) <= 1 {
				continue
			}
			if averageCoverage(g, chainEdges) <= threshold {
				for _, ei := range chainEdges {
					g.Edges()[ei].IsLowCoverageCrossEdge = true
					if rc := g.ReverseComplementEdge(ei); rc >= 0 {
						g.Edges()[rc].IsLowCoverageCrossEdge = true
					}
				}
			}
		}
	}
}

// walkToNextBranch follows a chain of surviving edges starting at
// firstEdge through interior (in=out=1) vertices until it reaches a
// vertex that is not a simple pass-through, or maxLength edges have been
// traversed. Returns false if the chain runs past maxLength without
// reconverging.
func walkToNextBranch(g *markergraph.Graph, firstEdge int, maxLength int) ([]int, markergraph.VertexId, bool) {
	edges := []int{firstEdge}
	cur := g.Edges()[firstEdge].Target
	for {
		outs := survivingOutEdges(g, cur)
		ins := survivingInEdges(g, cur)
		if len(outs) != 1 || len(ins) != 1 {
			return edges, cur, true
		}
		if len(edges) >= maxLength {
			return nil, 0, false
		}
		next := outs[0]
		edges = append(edges, int(next))
		cur = g.Edges()[next].Target
	}
}

func averageCoverage(g *markergraph.Graph, edgeIdxs []int) int {
	if len(edgeIdxs) == 0 {
		return 0
	}
	sum := 0
	for _, ei := range edgeIdxs {
		sum += g.Edges()[ei].Coverage()
	}
	return sum / len(edgeIdxs)
}
