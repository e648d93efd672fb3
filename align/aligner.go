package align

import (
	"sort"

	"github.com/grailbio/base/log"
	"github.com/grailbio/bio/kmer"
	"github.com/grailbio/bio/markerindex"
)

// Align computes the marker-ordinal alignment between two oriented reads,
// using their markerindex-sorted marker lists to enumerate common k-mers in
// O(n+m) instead of O(n*m) (spec.md §4.4 "sparse dynamic programming in a
// discretized (ordinal0, ordinal1) grid"). It returns (nil, false) if the
// alignment fails any of spec.md §4.4's rejection thresholds. Deterministic
// given identical inputs and opts (spec.md §4.4 "must be deterministic").
func Align(idx *markerindex.Index, o0, o1 kmer.OrientedReadId, opts Opts) (*Info, bool) {
	candidates := commonKmerMatches(idx.SortedByKmer(o0), idx.SortedByKmer(o1), opts.MaxMarkerFrequency)
	if len(candidates) == 0 {
		return nil, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].ord0 != candidates[j].ord0 {
			return candidates[i].ord0 < candidates[j].ord0
		}
		return candidates[i].ord1 < candidates[j].ord1
	})

	m := newChainMatrix(candidates, opts)
	best := m.compute()
	chain := m.chain(best)
	if len(chain) == 0 {
		return nil, false
	}

	info := buildInfo(o0, o1, chain)
	n0 := len(idx.Markers(o0))
	n1 := len(idx.Markers(o1))
	if !accept(info, n0, n1, opts) {
		log.Debug.Printf("align.Align: rejected %v-%v: markers=%d fraction=%.3f skip=%d drift=%d trim=(%d,%d)",
			o0, o1, info.MarkerCount, info.AlignedMarkerFraction(n0, n1), info.MaxSkip, info.MaxDrift, info.LeftTrim, info.RightTrim)
		return nil, false
	}
	return info, true
}

// commonKmerMatches walks two KmerId-sorted marker lists in lockstep (a
// merge, like two sorted runs) and emits a candidateMatch for every marker
// pair sharing a KmerId, skipping any KmerId that occurs more than
// maxFrequency times on either side (spec.md §4.4 "maxMarkerFrequency" —
// highly repetitive k-mers are uninformative for alignment and blow up the
// candidate count).
func commonKmerMatches(sorted0, sorted1 []kmer.Marker, maxFrequency int) []candidateMatch {
	var out []candidateMatch
	i, j := 0, 0
	for i < len(sorted0) && j < len(sorted1) {
		switch {
		case sorted0[i].KmerId < sorted1[j].KmerId:
			i++
		case sorted0[i].KmerId > sorted1[j].KmerId:
			j++
		default:
			id := sorted0[i].KmerId
			iStart, jStart := i, j
			for i < len(sorted0) && sorted0[i].KmerId == id {
				i++
			}
			for j < len(sorted1) && sorted1[j].KmerId == id {
				j++
			}
			n0, n1 := i-iStart, j-jStart
			if maxFrequency > 0 && (n0 > maxFrequency || n1 > maxFrequency) {
				continue
			}
			for a := iStart; a < i; a++ {
				for b := jStart; b < j; b++ {
					out = append(out, candidateMatch{ord0: int(sorted0[a].Ordinal), ord1: int(sorted1[b].Ordinal)})
				}
			}
		}
	}
	return out
}

func buildInfo(o0, o1 kmer.OrientedReadId, chain []candidateMatch) *Info {
	info := &Info{
		OrientedReadId0: o0,
		OrientedReadId1: o1,
		MarkerCount:     len(chain),
		FirstOrdinal0:   chain[0].ord0,
		FirstOrdinal1:   chain[0].ord1,
		LastOrdinal0:    chain[len(chain)-1].ord0,
		LastOrdinal1:    chain[len(chain)-1].ord1,
		Matched:         make([]MatchedOrdinal, len(chain)),
	}
	baseOffset := chain[0].ord1 - chain[0].ord0
	for i, c := range chain {
		info.Matched[i] = MatchedOrdinal{Ord0: c.ord0, Ord1: c.ord1}
		drift := abs((c.ord1 - c.ord0) - baseOffset)
		if drift > info.MaxDrift {
			info.MaxDrift = drift
		}
		if i > 0 {
			prev := chain[i-1]
			skip0 := c.ord0 - prev.ord0 - 1
			skip1 := c.ord1 - prev.ord1 - 1
			skip := skip0
			if skip1 > skip {
				skip = skip1
			}
			if skip > info.MaxSkip {
				info.MaxSkip = skip
			}
		}
	}
	return info
}

func accept(info *Info, numMarkers0, numMarkers1 int, opts Opts) bool {
	if info.MarkerCount < opts.MinAlignedMarkerCount {
		return false
	}
	if info.AlignedMarkerFraction(numMarkers0, numMarkers1) < opts.MinAlignedFraction {
		return false
	}
	leftTrim := info.FirstOrdinal0
	if info.FirstOrdinal1 < leftTrim {
		leftTrim = info.FirstOrdinal1
	}
	rightTrim := (numMarkers0 - 1 - info.LastOrdinal0)
	if r1 := numMarkers1 - 1 - info.LastOrdinal1; r1 < rightTrim {
		rightTrim = r1
	}
	info.LeftTrim = leftTrim
	info.RightTrim = rightTrim
	if opts.MaxTrim >= 0 && (leftTrim > opts.MaxTrim || rightTrim > opts.MaxTrim) {
		return false
	}
	if info.MaxSkip > opts.MaxSkip {
		return false
	}
	if info.MaxDrift > opts.MaxDrift {
		return false
	}
	return true
}
