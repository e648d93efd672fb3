package readgraph

import (
	"github.com/biogo/store/llrb"
	"github.com/grailbio/bio/kmer"
)

// readIDKey adapts a kmer.ReadId for llrb.Tree membership, giving
// ExcludeSmallComponents a deterministic (sorted) traversal order in
// place of Go's randomized map iteration, the same way
// cmd/bio-bam-sort/sorter keys its merge leafs for a reproducible
// output order.
type readIDKey kmer.ReadId

// Compare implements llrb.Comparable.
func (k readIDKey) Compare(c2 llrb.Comparable) int {
	k2 := c2.(readIDKey)
	switch {
	case k < k2:
		return -1
	case k > k2:
		return 1
	default:
		return 0
	}
}

// ExcludeSmallComponents marks every read whose connected component (over
// Kept edges, considering both its oriented copies) has fewer than
// minComponentSize reads as excluded (spec.md §4.5 "small components"):
// components below this size are too thin to support reliable marker
// graph construction and are dropped from assembly rather than left to
// produce spurious short contigs.
func (g *Graph) ExcludeSmallComponents(minComponentSize int) {
	visited := make([]bool, g.numOrientedReads)

	for start := 0; start < g.numOrientedReads; start++ {
		if visited[start] {
			continue
		}
		component := g.collectComponent(kmer.OrientedReadId(start), visited)
		readIds := llrb.Tree{}
		for _, o := range component {
			readIds.Insert(readIDKey(o.ReadId()))
		}
		if readIds.Len() < minComponentSize {
			readIds.Do(func(item llrb.Comparable) bool {
				g.excludedReadId[kmer.ReadId(item.(readIDKey))] = true
				return false
			})
		}
	}
}

func (g *Graph) collectComponent(start kmer.OrientedReadId, visited []bool) []kmer.OrientedReadId {
	visited[start.Index()] = true
	component := []kmer.OrientedReadId{start}
	frontier := []kmer.OrientedReadId{start}
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
				component = append(component, v)
				next = append(next, v)
			}
		}
		frontier = next
	}
	return component
}
