package assemblygraph

import "github.com/grailbio/bio/kmer"

// PseudoPathEntry is one run of consecutive marker-graph transitions an
// oriented read spends inside a single segment (spec.md §4.8 "Pseudo-path
// of an oriented read... segments may be entered and left repeatedly").
type PseudoPathEntry struct {
	Segment                   SegmentId
	EntryOrdinal, ExitOrdinal int
}

type orientedOrdinal struct {
	o   kmer.OrientedReadId
	ord int
}

// transitionIndex maps (oriented read, ordinal) of the transition's
// starting marker to the underlying segment, built once from every
// segment's marker-graph edges' intervals.
func (g *Graph) transitionIndex() map[orientedOrdinal]SegmentId {
	if g.transitions != nil {
		return g.transitions
	}
	idx := make(map[orientedOrdinal]SegmentId)
	for segId, seg := range g.segments {
		for _, ei := range seg.Edges {
			for _, iv := range g.mg.Edges()[ei].Intervals {
				idx[orientedOrdinal{iv.OrientedReadId, iv.Ordinal0}] = SegmentId(segId)
			}
		}
	}
	g.transitions = idx
	return idx
}

// PseudoPath computes o's pseudo-path: walk every consecutive marker
// transition in ordinal order, and for each that falls inside a segment,
// extend the current run or start a new one if the segment differs from
// the previous transition's.
func (g *Graph) PseudoPath(o kmer.OrientedReadId) []PseudoPathEntry {
	transitions := g.transitionIndex()
	markers := g.mg.Index().Markers(o)

	var path []PseudoPathEntry
	for ord := 0; ord+1 < len(markers); ord++ {
		seg, ok := transitions[orientedOrdinal{o, ord}]
		if !ok {
			continue
		}
		if n := len(path); n > 0 && path[n-1].Segment == seg && path[n-1].ExitOrdinal == ord {
			path[n-1].ExitOrdinal = ord + 1
			continue
		}
		path = append(path, PseudoPathEntry{Segment: seg, EntryOrdinal: ord, ExitOrdinal: ord + 1})
	}
	return path
}

// ScorePseudoPathAlignment scores two pseudo-paths under
// (matchScore, mismatchScore, gapScore) with mismatchSquareFactor
// weighting an extra penalty proportional to the square of the segment-id
// distance on a mismatch (spec.md §4.8 "an alignment is kept iff the two
// reads' pseudo-paths align above minScore... with mismatchSquareFactor
// weighting"). This is a simple position-wise score, not a full edit
// alignment: pseudo-paths compared here are assumed pre-anchored (e.g. by
// a shared segment) by the caller.
func ScorePseudoPathAlignment(a, b []PseudoPathEntry, matchScore, mismatchScore, gapScore int, mismatchSquareFactor float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	score := 0.0
	for i := 0; i < n; i++ {
		if a[i].Segment == b[i].Segment {
			score += float64(matchScore)
			continue
		}
		d := float64(a[i].Segment - b[i].Segment)
		score += float64(mismatchScore) - mismatchSquareFactor*d*d
	}
	score += float64(gapScore) * float64(len(a)+len(b)-2*n)
	return score
}
