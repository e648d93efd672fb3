package readgraph

import (
	"context"

	"github.com/grailbio/bio/kmer"
)

// LocalVertex is one oriented read in a LocalSubgraph, tagged with its BFS
// distance from the subgraph's start vertex (mirrors the original
// assembler's LocalAlignmentCandidateGraphVertex distance field, used
// there to bound and later visualize local neighborhoods).
type LocalVertex struct {
	OrientedReadId kmer.OrientedReadId
	Distance       int
}

// LocalEdge is one edge of a LocalSubgraph.
type LocalEdge struct {
	OrientedReadId0, OrientedReadId1 kmer.OrientedReadId
	Kept, CrossStrand                bool
	Inconsistent, Bridge             bool
}

// LocalSubgraph is a bounded-radius neighborhood around a single oriented
// read, extracted for diagnostics (spec.md §4.5 "local subgraph
// extraction"), grounded in the same shape as the original assembler's
// LocalAlignmentCandidateGraph: a small vertex/edge set with per-vertex
// BFS distance, built for one starting read and a distance bound rather
// than held as a persistent structure.
type LocalSubgraph struct {
	Vertices []LocalVertex
	Edges    []LocalEdge
	// Truncated is true if ctx was cancelled before the BFS frontier was
	// exhausted; the returned subgraph is a partial, best-effort result.
	Truncated bool
}

// ExtractLocalSubgraph runs a bounded BFS from start out to maxDistance
// hops, stopping early if ctx is cancelled (spec.md §4.5 "timeout-bounded
// local subgraph extraction") so that pathological, densely connected
// neighborhoods cannot stall interactive exploration indefinitely.
func (g *Graph) ExtractLocalSubgraph(ctx context.Context, start kmer.OrientedReadId, maxDistance int) *LocalSubgraph {
	sub := &LocalSubgraph{}
	visited := map[kmer.OrientedReadId]int{start: 0}
	sub.Vertices = append(sub.Vertices, LocalVertex{OrientedReadId: start, Distance: 0})

	frontier := []kmer.OrientedReadId{start}
	seenEdge := make(map[[2]kmer.OrientedReadId]bool)

	for dist := 0; dist < maxDistance && len(frontier) > 0; dist++ {
		select {
		case <-ctx.Done():
			sub.Truncated = true
			return sub
		default:
		}
		var next []kmer.OrientedReadId
		for _, u := range frontier {
			for _, e := range g.Neighbors(u) {
				v := e.Other(u)
				key := orderedPair(u, v)
				rkey := orderedPair(v, u)
				if !seenEdge[key] && !seenEdge[rkey] {
					seenEdge[key] = true
					sub.Edges = append(sub.Edges, LocalEdge{
						OrientedReadId0: e.OrientedReadId0,
						OrientedReadId1: e.OrientedReadId1,
						Kept:            e.Kept,
						CrossStrand:     e.CrossStrand,
						Inconsistent:    e.Inconsistent,
						Bridge:          e.Bridge,
					})
				}
				if _, ok := visited[v]; ok {
					continue
				}
				visited[v] = dist + 1
				sub.Vertices = append(sub.Vertices, LocalVertex{OrientedReadId: v, Distance: dist + 1})
				next = append(next, v)
			}
		}
		frontier = next
	}
	return sub
}
