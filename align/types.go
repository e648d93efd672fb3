// Package align computes marker-ordinal alignments between pairs of
// oriented reads (spec.md §4.4). It consumes the sorted marker lists built
// by markerindex and never touches raw bases.
package align

import "github.com/grailbio/bio/kmer"

// Method names an alignment algorithm variant (spec.md §6 "align.method").
// Align does not read it: every value runs the same sparse chaining DP
// over common-k-mer matches, with drift bounded by MaxDrift. The
// per-constant descriptions below name the variants; they are not
// separate code paths.
type Method int

const (
	// MethodOrdinalBanded aligns in the (ordinal0, ordinal1) grid, banding
	// around the running diagonal to bound work (spec.md §4.4).
	MethodOrdinalBanded Method = 0
	// MethodBaseBanded performs a base-level banded alignment seeded by the
	// marker matches (not implemented at the marker-graph layer; reserved
	// for the base-level consensus stage).
	MethodBaseBanded Method = 1
	// MethodSparseDP is the general sparse dynamic-programming variant over
	// all common-k-mer matches, without diagonal banding.
	MethodSparseDP Method = 3
	// MethodSparseDPRelaxed is MethodSparseDP with relaxed monotonicity
	// tie-breaking, used for highly repetitive marker content.
	MethodSparseDPRelaxed Method = 4
)

// Opts configures the Aligner (spec.md §6 "align.{...}").
type Opts struct {
	Method                Method
	MaxSkip               int
	MaxDrift              int
	MaxMarkerFrequency    int
	MinAlignedMarkerCount int
	MinAlignedFraction    float64
	MaxTrim               int
	MatchScore            int
	MismatchScore         int
	GapScore              int
}

// MatchedOrdinal is one matched marker pair: ordinal Ord0 on the first
// oriented read corresponds to ordinal Ord1 on the second.
type MatchedOrdinal struct {
	Ord0, Ord1 int
}

// Info summarizes a pairwise marker alignment (spec.md §3 "AlignmentInfo").
// Align records the pair in the order it was called with (o0 as side 0,
// o1 as side 1); it does not reorder the pair to ReadId0 < ReadId1 or
// Strand0 == 0. Callers that need the other side's view use Swapped; this
// package never reverse-complements an Info on the caller's behalf.
type Info struct {
	OrientedReadId0, OrientedReadId1 kmer.OrientedReadId

	MarkerCount int
	// First/last ordinal of the aligned region on each side.
	FirstOrdinal0, LastOrdinal0 int
	FirstOrdinal1, LastOrdinal1 int
	// MaxSkip is the largest ordinal gap on either side between two
	// consecutive matched markers.
	MaxSkip int
	// MaxDrift is the largest deviation of (ord1-ord0) from the alignment's
	// initial offset, across all matched pairs.
	MaxDrift int
	// LeftTrim/RightTrim are, in markers, the smaller of the two reads'
	// unaligned marker counts at the left/right end (set by Align's
	// acceptance check).
	LeftTrim, RightTrim int

	Matched []MatchedOrdinal
}

// AlignedMarkerFraction returns the aligned marker count as a fraction of
// the shorter oriented read's marker count.
func (info *Info) AlignedMarkerFraction(numMarkers0, numMarkers1 int) float64 {
	n := numMarkers0
	if numMarkers1 < n {
		n = numMarkers1
	}
	if n == 0 {
		return 0
	}
	return float64(info.MarkerCount) / float64(n)
}

// Swapped returns the AlignmentInfo as seen from the other oriented read,
// i.e. with side 0 and side 1 exchanged (spec.md §3 "when retrieved from
// the other end, ... swap ... accordingly").
func (info *Info) Swapped() *Info {
	out := &Info{
		OrientedReadId0: info.OrientedReadId1,
		OrientedReadId1: info.OrientedReadId0,
		MarkerCount:     info.MarkerCount,
		FirstOrdinal0:   info.FirstOrdinal1,
		LastOrdinal0:    info.LastOrdinal1,
		FirstOrdinal1:   info.FirstOrdinal0,
		LastOrdinal1:    info.LastOrdinal0,
		MaxSkip:         info.MaxSkip,
		MaxDrift:        info.MaxDrift,
		LeftTrim:        info.RightTrim,
		RightTrim:       info.LeftTrim,
		Matched:         make([]MatchedOrdinal, len(info.Matched)),
	}
	for i, m := range info.Matched {
		out.Matched[i] = MatchedOrdinal{Ord0: m.Ord1, Ord1: m.Ord0}
	}
	return out
}
