package readgraph

import (
	"github.com/grailbio/bio/align"
	"github.com/grailbio/bio/kmer"
)

// offset returns the signed ordinal shift such that, approximately,
// position(to) == position(from) + offset, derived from e's alignment.
// Edges are undirected, so offset(from,to) == -offset(to,from).
func (e *Edge) offset(from kmer.OrientedReadId) int {
	d := e.Info.FirstOrdinal1 - e.Info.FirstOrdinal0
	if from == e.OrientedReadId0 {
		return d
	}
	return -d
}

// FlagInconsistentAlignments detects edges whose implied coordinate shift
// is incompatible with the rest of their connected component (spec.md
// §4.5 "inconsistent alignments"). Each component is given a coordinate
// frame by a BFS spanning tree over Kept edges (an edge's offset
// propagates a candidate position to its neighbor); this is a cheap
// relaxation standing in for a full per-component least-squares fit: a
// vertex's position is set once, by the tree edge that first reaches it,
// and is not refined by its other incident edges. Any Kept edge — tree or not — whose implied
// position disagrees with the BFS estimate by more than maxResidual is
// flagged Inconsistent.
func (g *Graph) FlagInconsistentAlignments(maxResidual int) {
	visited := make([]bool, g.numOrientedReads)
	position := make([]int, g.numOrientedReads)

	for start := 0; start < g.numOrientedReads; start++ {
		if visited[start] {
			continue
		}
		o := kmer.OrientedReadId(start)
		visited[start] = true
		position[start] = 0
		frontier := []kmer.OrientedReadId{o}
		for len(frontier) > 0 {
			var next []kmer.OrientedReadId
			for _, u := range frontier {
				for _, e := range g.Neighbors(u) {
					if !e.Kept {
						continue
					}
					v := e.Other(u)
					if visited[v.Index()] {
						continue
					}
					visited[v.Index()] = true
					position[v.Index()] = position[u.Index()] + e.offset(u)
					next = append(next, v)
				}
			}
			frontier = next
		}
	}

	for _, e := range g.edges {
		if !e.Kept {
			continue
		}
		implied := position[e.OrientedReadId0.Index()] + e.offset(e.OrientedReadId0)
		residual := implied - position[e.OrientedReadId1.Index()]
		if residual < 0 {
			residual = -residual
		}
		if residual > maxResidual {
			e.Inconsistent = true
		}
	}
}

// ContradictoryTriple is three oriented reads whose pairwise candidate
// alignments are each internally plausible but jointly imply conflicting
// offsets around the triangle.
type ContradictoryTriple struct {
	A, B, C  kmer.OrientedReadId
	Residual int
}

// BuildAlignmentConsistencyGraph inspects every triangle formed by
// all candidate pairwise alignments (not only the ones FlagInconsistentAlignments
// and Build kept as read graph edges) and reports triples whose offsets
// fail to close around the triangle by more than maxResidual (spec.md
// §4.5 "inconsistent alignments", strengthened per the original
// assembler's global alignment-consistency pass: a read graph built only
// from pairwise-kept edges can miss a contradiction that only becomes
// visible once the full candidate set, kept or not, is considered
// together). The returned triples are advisory input to
// FlagInconsistentAlignments's caller; this function does not itself
// mutate any Edge.
func BuildAlignmentConsistencyGraph(numReads int, candidates []*align.Info, maxResidual int) []ContradictoryTriple {
	byPair := make(map[[2]kmer.OrientedReadId]*align.Info, len(candidates)*2)
	adjacency := make(map[kmer.OrientedReadId][]kmer.OrientedReadId)
	addEndpoint := func(from, to kmer.OrientedReadId, info *align.Info) {
		byPair[[2]kmer.OrientedReadId{from, to}] = info
		adjacency[from] = append(adjacency[from], to)
	}
	for _, info := range candidates {
		addEndpoint(info.OrientedReadId0, info.OrientedReadId1, info)
		addEndpoint(info.OrientedReadId1, info.OrientedReadId0, info.Swapped())
	}

	offsetOf := func(from, to kmer.OrientedReadId) (int, bool) {
		info, ok := byPair[[2]kmer.OrientedReadId{from, to}]
		if !ok {
			return 0, false
		}
		return info.FirstOrdinal1 - info.FirstOrdinal0, true
	}

	var triples []ContradictoryTriple
	seen := make(map[[3]kmer.OrientedReadId]bool)
	for a, neighborsA := range adjacency {
		for _, b := range neighborsA {
			abOffset, ok := offsetOf(a, b)
			if !ok {
				continue
			}
			for _, c := range adjacency[b] {
				if c == a {
					continue
				}
				key := sortedTriple(a, b, c)
				if seen[key] {
					continue
				}
				bcOffset, ok := offsetOf(b, c)
				if !ok {
					continue
				}
				acOffset, ok := offsetOf(a, c)
				if !ok {
					continue
				}
				seen[key] = true
				residual := (abOffset + bcOffset) - acOffset
				if residual < 0 {
					residual = -residual
				}
				if residual > maxResidual {
					triples = append(triples, ContradictoryTriple{A: a, B: b, C: c, Residual: residual})
				}
			}
		}
	}
	return triples
}

func sortedTriple(a, b, c kmer.OrientedReadId) [3]kmer.OrientedReadId {
	t := [3]kmer.OrientedReadId{a, b, c}
	for i := 0; i < 3; i++ {
		for j := i + 1; j < 3; j++ {
			if t[j] < t[i] {
				t[i], t[j] = t[j], t[i]
			}
		}
	}
	return t
}
