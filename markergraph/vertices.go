package markergraph

import (
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/bio/align"
	"github.com/grailbio/bio/kmer"
	"github.com/grailbio/bio/markerindex"
)

// VertexOpts configures marker graph vertex construction (spec.md §4.6
// "Vertex construction").
type VertexOpts struct {
	// MinCoverage/MaxCoverage bound a surviving vertex's coverage. If
	// MinCoverage is 0, it is computed by peak-finding (see
	// autoMinCoverage).
	MinCoverage, MaxCoverage int
	// MinCoveragePerStrand is the minimum number of representative markers
	// required on each strand for a vertex to survive.
	MinCoveragePerStrand int
	// AllowDuplicateMarkers disables the "no two markers from the same
	// oriented read" rejection rule.
	AllowDuplicateMarkers bool
	// PeakFinderStartIndex/PeakFinderMinAreaFraction control auto
	// minCoverage selection (spec.md §4.6 "Auto-selection of minCoverage").
	PeakFinderStartIndex      int
	PeakFinderMinAreaFraction float64
}

// DefaultVertexOpts returns reasonable defaults for small/test assemblies.
func DefaultVertexOpts() VertexOpts {
	return VertexOpts{
		MinCoverage:               0,
		MaxCoverage:               100,
		MinCoveragePerStrand:      1,
		PeakFinderStartIndex:      2,
		PeakFinderMinAreaFraction: 0.1,
	}
}

// BuildVertices unions the MarkerIds of every matched ordinal pair across
// alignments, then filters the resulting equivalence classes into
// surviving marker graph vertices (spec.md §4.6). The returned Graph has
// vertices only; call BuildEdges next.
func BuildVertices(idx *markerindex.Index, alignments []*align.Info, opts VertexOpts) (*Graph, error) {
	n := idx.NumMarkers()
	uf := newUnionFind(int(n))

	if err := traverse.Each(len(alignments), func(i int) error {
		info := alignments[i]
		for _, match := range info.Matched {
			m0 := idx.GetMarkerId(info.OrientedReadId0, match.Ord0)
			m1 := idx.GetMarkerId(info.OrientedReadId1, match.Ord1)
			uf.union(uint32(m0), uint32(m1))
		}
		return nil
	}); err != nil {
		return nil, errors.E(err, "markergraph.BuildVertices", "unioning alignment matches")
	}

	roots, coverageByRoot := uf.rootsAndCoverage()

	minCoverage := opts.MinCoverage
	if minCoverage == 0 {
		minCoverage = autoMinCoverage(coverageByRoot, opts.PeakFinderStartIndex, opts.PeakFinderMinAreaFraction)
		log.Debug.Printf("markergraph.BuildVertices: auto-selected minCoverage=%d", minCoverage)
	}
	maxCoverage := opts.MaxCoverage
	if maxCoverage <= 0 {
		maxCoverage = int(n)
	}

	membersByRoot := make(map[uint32][]markerindex.MarkerId, len(coverageByRoot))
	for m := int64(0); m < n; m++ {
		r := roots[m]
		membersByRoot[r] = append(membersByRoot[r], markerindex.MarkerId(m))
	}

	survives := make(map[uint32]bool, len(coverageByRoot))
	for r, cov := range coverageByRoot {
		if cov < minCoverage || cov > maxCoverage {
			continue
		}
		if !validStrandCoverageAndDuplicates(idx, membersByRoot[r], opts) {
			continue
		}
		survives[r] = true
	}

	// Drop any surviving root whose reverse-complement partner root did not
	// also survive, to preserve the strand-symmetry invariant (spec.md §8
	// "for every marker-graph vertex v there exists v'!=v with the same
	// coverage").
	partnerRoot := make(map[uint32]uint32, len(survives))
	for r := range survives {
		m := membersByRoot[r][0]
		rcRoot := uf.find(uint32(idx.ReverseComplementMarkerId(m)))
		partnerRoot[r] = rcRoot
	}
	for r := range survives {
		if !survives[partnerRoot[r]] {
			delete(survives, r)
		}
	}

	g := &Graph{
		idx:              idx,
		markerIdToVertex: make([]VertexId, n),
	}
	for m := range g.markerIdToVertex {
		g.markerIdToVertex[m] = InvalidVertexId
	}

	assigned := make(map[uint32]VertexId, len(survives))
	var orderedRoots []uint32
	for r := range survives {
		orderedRoots = append(orderedRoots, r)
	}
	sort.Slice(orderedRoots, func(i, j int) bool {
		return membersByRoot[orderedRoots[i]][0] < membersByRoot[orderedRoots[j]][0]
	})

	for _, r := range orderedRoots {
		if _, done := assigned[r]; done {
			continue
		}
		partner := partnerRoot[r]
		v0 := VertexId(len(g.coverage))
		g.coverage = append(g.coverage, coverageByRoot[r])
		g.reverseComplementVertex = append(g.reverseComplementVertex, 0) // overwritten below
		assigned[r] = v0
		for _, m := range membersByRoot[r] {
			g.markerIdToVertex[m] = v0
		}

		if partner == r {
			// Self-paired root (shouldn't normally happen since a marker
			// and its reverse complement are distinct occurrences, but
			// guard against degenerate single-marker test fixtures).
			g.reverseComplementVertex[v0] = v0
			continue
		}
		v1 := VertexId(len(g.coverage))
		g.coverage = append(g.coverage, coverageByRoot[partner])
		g.reverseComplementVertex = append(g.reverseComplementVertex, v0)
		g.reverseComplementVertex[v0] = v1
		assigned[partner] = v1
		for _, m := range membersByRoot[partner] {
			g.markerIdToVertex[m] = v1
		}
	}

	log.Debug.Printf("markergraph.BuildVertices: %d of %d candidate roots survived", len(g.coverage), len(coverageByRoot))
	return g, nil
}

// autoMinCoverage implements spec.md §4.6's "Auto-selection of
// minCoverage": build the vertex-coverage histogram, then find the first
// peak after startIndex whose area exceeds minAreaFraction of the total
// area; the peak's left base is the returned threshold.
func autoMinCoverage(coverageByRoot map[uint32]int, startIndex int, minAreaFraction float64) int {
	maxCov := 0
	for _, c := range coverageByRoot {
		if c > maxCov {
			maxCov = c
		}
	}
	histogram := make([]int64, maxCov+1)
	var total int64
	for _, c := range coverageByRoot {
		histogram[c]++
		total++
	}
	if total == 0 || maxCov == 0 {
		return 1
	}

	for i := startIndex; i < len(histogram); i++ {
		if !isLocalPeak(histogram, i) {
			continue
		}
		leftBase := i
		for leftBase > 0 && histogram[leftBase-1] <= histogram[leftBase] {
			leftBase--
		}
		rightBase := i
		for rightBase < len(histogram)-1 && histogram[rightBase+1] <= histogram[rightBase] {
			rightBase++
		}
		var area int64
		for j := leftBase; j <= rightBase; j++ {
			area += histogram[j]
		}
		if float64(area)/float64(total) >= minAreaFraction {
			return leftBase
		}
	}
	return startIndex
}

func isLocalPeak(histogram []int64, i int) bool {
	if i <= 0 || i >= len(histogram)-1 {
		return false
	}
	return histogram[i] >= histogram[i-1] && histogram[i] >= histogram[i+1] && histogram[i] > 0
}

// validStrandCoverageAndDuplicates checks spec.md §4.6's per-strand
// coverage floor and the duplicate-marker rejection rule for the set of
// MarkerIds collapsed into one candidate root.
func validStrandCoverageAndDuplicates(idx *markerindex.Index, members []markerindex.MarkerId, opts VertexOpts) bool {
	var strandCount [2]int
	seenOriented := make(map[kmer.OrientedReadId]bool, len(members))
	for _, m := range members {
		o, _ := idx.FindMarkerId(m)
		strandCount[o.Strand()]++
		if !opts.AllowDuplicateMarkers {
			if seenOriented[o] {
				return false
			}
			seenOriented[o] = true
		}
	}
	return strandCount[kmer.Forward] >= opts.MinCoveragePerStrand && strandCount[kmer.Reverse] >= opts.MinCoveragePerStrand
}
