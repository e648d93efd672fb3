package readgraph

import "github.com/grailbio/bio/kmer"

// FlagCrossStrand marks every edge whose two endpoints are within
// maxDistance BFS hops (over Kept edges, ignoring the edge itself) of each
// other's ReverseComplement oriented read (spec.md §4.5 "cross-strand
// edges"): such an edge likely bridges the same genomic region sequenced
// on opposite strands, which is not informative for haplotype or repeat
// resolution and is excluded from downstream marker graph construction.
func (g *Graph) FlagCrossStrand(maxDistance int) {
	for _, e := range g.edges {
		if !e.Kept {
			continue
		}
		rc0 := e.OrientedReadId0.ReverseComplement()
		if g.reachableWithinExcluding(rc0, e.OrientedReadId1, maxDistance, e) {
			e.CrossStrand = true
		}
	}
}

// reachableWithinExcluding is reachableWithin but never traverses excl,
// so an edge is never used as evidence for its own cross-strand check.
func (g *Graph) reachableWithinExcluding(from, to kmer.OrientedReadId, maxDistance int, excl *Edge) bool {
	if from == to {
		return true
	}
	visited := make(map[kmer.OrientedReadId]bool)
	visited[from] = true
	frontier := []kmer.OrientedReadId{from}
	for dist := 0; dist < maxDistance && len(frontier) > 0; dist++ {
		var next []kmer.OrientedReadId
		for _, o := range frontier {
			for _, e := range g.Neighbors(o) {
				if !e.Kept || e == excl {
					continue
				}
				other := e.Other(o)
				if visited[other] {
					continue
				}
				if other == to {
					return true
				}
				visited[other] = true
				next = append(next, other)
			}
		}
		frontier = next
	}
	return false
}
