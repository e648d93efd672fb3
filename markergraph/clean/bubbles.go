package clean

import "github.com/grailbio/bio/markergraph"

// chain is one candidate bubble branch: an ordered list of edge indices
// from a branching vertex to a reconvergence vertex.
type chain struct {
	edges []int
	end   markergraph.VertexId
}

func (c chain) totalCoverage(g *markergraph.Graph) int {
	sum := 0
	for _, ei := range c.edges {
		sum += g.Edges()[ei].Coverage()
	}
	return sum
}

// SimplifyBubbles runs spec.md §4.7's "Simplify bubbles & superbubbles"
// pass for each value in maxLengths, in slice order: every iteration
// identifies branching regions where parallel chains of at most maxLength
// surviving marker-graph edges share a start and end vertex, keeps the
// highest-total-coverage chain, and flags every edge of the other chains
// IsSuperBubbleEdge.
func SimplifyBubbles(g *markergraph.Graph, maxLengths []int) {
	for _, maxLength := range maxLengths {
		simplifyBubblesOnePass(g, maxLength)
	}
}

func simplifyBubblesOnePass(g *markergraph.Graph, maxLength int) {
	for v := 0; v < g.NumVertices(); v++ {
		start := markergraph.VertexId(v)
		outs := survivingOutEdges(g, start)
		if len(outs) < 2 {
			continue
		}
		var chains []chain
		for _, ei := range outs {
			chains = append(chains, enumerateChains(g, start, int(ei), maxLength)...)
		}
		groupAndFlagBubbles(g, chains)
	}
}

// enumerateChains walks forward from firstEdge through vertices of
// in-degree==out-degree==1 (the interior of a candidate chain), up to
// maxLength surviving edges, returning every prefix chain encountered —
// a chain "ends" as soon as it reaches a vertex that is not a simple
// pass-through, since that is a legitimate bubble reconvergence point.
func enumerateChains(g *markergraph.Graph, start markergraph.VertexId, firstEdge int, maxLength int) []chain {
	var out []chain
	edges := []int{firstEdge}
	cur := g.Edges()[firstEdge].Target
	for {
		if cur != start {
			out = append(out, chain{edges: append([]int(nil), edges...), end: cur})
		}
		if len(edges) >= maxLength {
			break
		}
		outs := survivingOutEdges(g, cur)
		ins := survivingInEdges(g, cur)
		if len(outs) != 1 || len(ins) != 1 {
			break
		}
		next := outs[0]
		nextTarget := g.Edges()[next].Target
		if nextTarget == start {
			break // avoid looping back to the branching vertex itself.
		}
		edges = append(edges, int(next))
		cur = nextTarget
	}
	return out
}

func survivingOutEdges(g *markergraph.Graph, v markergraph.VertexId) []int32 {
	var out []int32
	for _, ei := range g.OutEdges(v) {
		if !g.Edges()[ei].WasRemovedByTransitiveReduction {
			out = append(out, ei)
		}
	}
	return out
}

func survivingInEdges(g *markergraph.Graph, v markergraph.VertexId) []int32 {
	var out []int32
	for _, ei := range g.InEdges(v) {
		if !g.Edges()[ei].WasRemovedByTransitiveReduction {
			out = append(out, ei)
		}
	}
	return out
}

// groupAndFlagBubbles partitions chains by their end vertex; any group of
// two or more chains is a bubble. The highest total-coverage chain
// survives, the rest are flagged.
func groupAndFlagBubbles(g *markergraph.Graph, chains []chain) {
	byEnd := make(map[markergraph.VertexId][]chain)
	for _, c := range chains {
		byEnd[c.end] = append(byEnd[c.end], c)
	}
	for _, group := range byEnd {
		if len(group) < 2 {
			continue
		}
		best := 0
		for i := 1; i < len(group); i++ {
			if group[i].totalCoverage(g) > group[best].totalCoverage(g) {
				best = i
			}
		}
		for i, c := range group {
			if i == best {
				continue
			}
			for _, ei := range c.edges {
				g.Edges()[ei].IsSuperBubbleEdge = true
				if rc := g.ReverseComplementEdge(ei); rc >= 0 {
					g.Edges()[rc].IsSuperBubbleEdge = true
				}
			}
		}
	}
}
