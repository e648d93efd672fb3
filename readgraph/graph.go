// Package readgraph builds and cleans the undirected graph over oriented
// reads whose edges are kept pairwise alignments (spec.md §4.5).
package readgraph

import (
	"sort"

	"github.com/grailbio/base/log"
	"github.com/grailbio/bio/align"
	"github.com/grailbio/bio/kmer"
)

// Edge is a kept alignment between two oriented reads (spec.md §3
// "ReadGraphEdge"). All flags are advisory: downstream consumers honor
// them but nothing in this package deletes a flagged edge outright
// (spec.md §3 "Lifecycle").
type Edge struct {
	OrientedReadId0, OrientedReadId1 kmer.OrientedReadId
	Info                             *align.Info

	Kept         bool
	CrossStrand  bool
	Inconsistent bool
	Bridge       bool
}

// Graph is the undirected read graph: vertices are every OrientedReadId,
// edges are Edge values reachable from either endpoint's adjacency list.
type Graph struct {
	numOrientedReads int
	edges            []*Edge
	adjacency        [][]int // adjacency[o] holds indices into edges.
	chimeric         []bool  // indexed by ReadId.
	excludedReadId   []bool  // small-component exclusion, indexed by ReadId.
}

// NewGraph allocates an empty graph over numReads reads (2*numReads
// oriented reads).
func NewGraph(numReads int) *Graph {
	n := numReads * 2
	return &Graph{
		numOrientedReads: n,
		adjacency:        make([][]int, n),
		chimeric:         make([]bool, numReads),
		excludedReadId:   make([]bool, numReads),
	}
}

// candidateAlignment pairs an AlignmentInfo with a quality score used for
// greedy per-read edge selection.
type candidateAlignment struct {
	info  *align.Info
	score int
}

func alignmentScore(info *align.Info) int {
	// A simple, deterministic quality proxy: more markers, tighter skip and
	// drift. Build sorts with a stable sort, so ties keep the order of the
	// aligned slice, keeping selection reproducible (spec.md §5 "Ordering
	// guarantees").
	return info.MarkerCount*4 - info.MaxSkip - info.MaxDrift
}

// Build selects at most maxAlignmentCount alignments per oriented read
// (greedily, by alignmentScore) from aligned, then keeps an edge iff both
// endpoints selected it, or iff oneSided is true (spec.md §4.5 "or the
// construction method is configured to keep one-sided edges"). Strand
// symmetry is enforced by construction: every accepted alignment's
// reverse-complement pairing shares the same accept/reject outcome because
// the caller is expected to have included both orientations of every
// alignment in aligned (spec.md §4.5 "if edge (a,b) exists, so must its
// reverse-complement edge").
func Build(numReads int, aligned []*align.Info, maxAlignmentCount int, oneSided bool) *Graph {
	g := NewGraph(numReads)

	byOriented := make([][]candidateAlignment, g.numOrientedReads)
	for _, info := range aligned {
		s := alignmentScore(info)
		byOriented[info.OrientedReadId0.Index()] = append(byOriented[info.OrientedReadId0.Index()], candidateAlignment{info, s})
		byOriented[info.OrientedReadId1.Index()] = append(byOriented[info.OrientedReadId1.Index()], candidateAlignment{info.Swapped(), s})
	}

	selected := make(map[[2]kmer.OrientedReadId]bool)
	for o, cands := range byOriented {
		sort.SliceStable(cands, func(i, j int) bool { return cands[i].score > cands[j].score })
		limit := maxAlignmentCount
		if limit <= 0 || limit > len(cands) {
			limit = len(cands)
		}
		for i := 0; i < limit; i++ {
			other := cands[i].info.OrientedReadId1
			key := orderedPair(kmer.OrientedReadId(o), other)
			selected[key] = true
		}
	}

	seen := make(map[[2]kmer.OrientedReadId]bool)
	for _, info := range aligned {
		key := orderedPair(info.OrientedReadId0, info.OrientedReadId1)
		if seen[key] {
			continue
		}
		seen[key] = true
		if !oneSided && !(selected[key] && selected[orderedPair(info.OrientedReadId1, info.OrientedReadId0)]) {
			continue
		}
		if oneSided && !selected[key] && !selected[orderedPair(info.OrientedReadId1, info.OrientedReadId0)] {
			continue
		}
		g.addEdge(info)
	}
	log.Debug.Printf("readgraph.Build: kept %d of %d candidate alignments", len(g.edges), len(aligned))
	return g
}

func orderedPair(a, b kmer.OrientedReadId) [2]kmer.OrientedReadId {
	return [2]kmer.OrientedReadId{a, b}
}

func (g *Graph) addEdge(info *align.Info) *Edge {
	e := &Edge{OrientedReadId0: info.OrientedReadId0, OrientedReadId1: info.OrientedReadId1, Info: info, Kept: true}
	idx := len(g.edges)
	g.edges = append(g.edges, e)
	g.adjacency[info.OrientedReadId0.Index()] = append(g.adjacency[info.OrientedReadId0.Index()], idx)
	g.adjacency[info.OrientedReadId1.Index()] = append(g.adjacency[info.OrientedReadId1.Index()], idx)
	return e
}

// Edges returns every kept edge. The slice must not be mutated.
func (g *Graph) Edges() []*Edge { return g.edges }

// NumOrientedReads returns 2*numReads.
func (g *Graph) NumOrientedReads() int { return g.numOrientedReads }

// Neighbors returns the edges incident to o.
func (g *Graph) Neighbors(o kmer.OrientedReadId) []*Edge {
	idxs := g.adjacency[o.Index()]
	out := make([]*Edge, len(idxs))
	for i, idx := range idxs {
		out[i] = g.edges[idx]
	}
	return out
}

// Other returns the oriented read on the other end of e from o.
func (e *Edge) Other(o kmer.OrientedReadId) kmer.OrientedReadId {
	if e.OrientedReadId0 == o {
		return e.OrientedReadId1
	}
	return e.OrientedReadId0
}

// IsChimeric reports whether readId was flagged by FlagChimeras.
func (g *Graph) IsChimeric(id kmer.ReadId) bool { return g.chimeric[id] }

// IsExcluded reports whether readId belongs to a small component excluded
// from assembly by ExcludeSmallComponents.
func (g *Graph) IsExcluded(id kmer.ReadId) bool { return g.excludedReadId[id] }
