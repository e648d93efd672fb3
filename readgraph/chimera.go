package readgraph

import "github.com/grailbio/bio/kmer"

// FlagChimeras marks reads whose forward and reverse-complement oriented
// copies land in different connected neighborhoods (spec.md §4.5 "chimera
// detection"): a bounded-radius BFS from OrientedReadId(r,Forward) that
// fails to reach OrientedReadId(r,Reverse) within maxDistance hops is
// evidence the read straddles two unrelated genomic loci glued together by
// a sequencing artifact. FlagChimeras only sets flags; it is the caller's
// responsibility to act on IsChimeric.
func (g *Graph) FlagChimeras(maxDistance int) {
	numReads := g.numOrientedReads / 2
	for r := 0; r < numReads; r++ {
		fwd := kmer.Pack(kmer.ReadId(r), kmer.Forward)
		rev := fwd.ReverseComplement()
		if !g.reachableWithin(fwd, rev, maxDistance) {
			g.chimeric[r] = true
		}
	}
}

// reachableWithin reports whether to is within maxDistance BFS hops of
// from, following only Kept edges.
func (g *Graph) reachableWithin(from, to kmer.OrientedReadId, maxDistance int) bool {
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
				if !e.Kept {
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
