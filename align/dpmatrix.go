package align

// This file generalizes a Levenshtein-style edit matrix (the kind used to
// score barcode mismatches) to the sparse (ordinal0, ordinal1) grid spec.md
// §4.4 describes: rows and columns are not bases but marker ordinals, and
// cells only exist at positions where the two reads share a k-mer.

// candidateMatch is one cell of the sparse grid: the two reads share
// KmerId at (Ord0, Ord1).
type candidateMatch struct {
	ord0, ord1 int
}

// chainMatrix runs a longest-scoring-chain DP over candidates (sorted by
// ord0, ties by ord1): cell i "uses" candidates[i], and transitions from
// any earlier cell j with candidates[j].ord0 < candidates[i].ord0 and
// candidates[j].ord1 < candidates[i].ord1, subject to the maxSkip and
// maxDrift bounds of opts. This is the direct generalization of
// util.matrix's computeCell: instead of three fixed neighbors
// (diagonal/down/right), every earlier compatible cell is a candidate
// predecessor, and "cost" becomes "score" to maximize instead of minimize.
type chainMatrix struct {
	candidates []candidateMatch
	opts       Opts

	score []int
	prev  []int // -1 for chain start.
}

func newChainMatrix(candidates []candidateMatch, opts Opts) *chainMatrix {
	m := &chainMatrix{
		candidates: candidates,
		opts:       opts,
		score:      make([]int, len(candidates)),
		prev:       make([]int, len(candidates)),
	}
	for i := range m.prev {
		m.prev[i] = -1
	}
	return m
}

// compute fills score/prev and returns the index of the best chain's last
// cell, or -1 if candidates is empty.
func (m *chainMatrix) compute() int {
	best := -1
	for i, ci := range m.candidates {
		m.score[i] = m.opts.MatchScore
		m.prev[i] = -1
		for j := 0; j < i; j++ {
			cj := m.candidates[j]
			if cj.ord0 >= ci.ord0 || cj.ord1 >= ci.ord1 {
				continue
			}
			skip0 := ci.ord0 - cj.ord0 - 1
			skip1 := ci.ord1 - cj.ord1 - 1
			skip := skip0
			if skip1 > skip {
				skip = skip1
			}
			if skip > m.opts.MaxSkip {
				continue
			}
			drift := (ci.ord1 - ci.ord0) - (cj.ord1 - cj.ord0)
			if abs(drift) > m.opts.MaxDrift {
				continue
			}
			candidate := m.score[j] + m.opts.MatchScore + m.opts.GapScore*skip
			if candidate > m.score[i] {
				m.score[i] = candidate
				m.prev[i] = j
			}
		}
		if best == -1 || m.score[i] > m.score[best] {
			best = i
		}
	}
	return best
}

// chain reconstructs the winning chain ending at last, in increasing
// ordinal order (the DP's traceback, mirroring util.matrix's own
// traceback over `operations`).
func (m *chainMatrix) chain(last int) []candidateMatch {
	if last < 0 {
		return nil
	}
	var out []candidateMatch
	for i := last; i != -1; i = m.prev[i] {
		out = append(out, m.candidates[i])
	}
	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
