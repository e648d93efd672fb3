package consensus

import (
	"math"
	"sort"
)

// Modal picks the most frequent (Base, RepeatCount) pair in the column,
// ties broken by the lexicographically smaller Base then smaller
// RepeatCount (the simplest ConsensusCaller variant: majority vote with a
// deterministic tie-break).
type Modal struct{}

func (Modal) CallConsensus(column []Observation) (Base, int) {
	type key struct {
		base  Base
		count int
	}
	tally := make(map[key]int, len(column))
	for _, o := range column {
		tally[key{o.Base, o.RepeatCount}]++
	}
	var best key
	bestCount := -1
	for k, n := range tally {
		if n > bestCount ||
			(n == bestCount && (k.base < best.base || (k.base == best.base && k.count < best.count))) {
			best, bestCount = k, n
		}
	}
	return best.base, best.count
}

// Median calls the majority base (same rule as Modal) but reports the
// median observed repeat count among observations sharing that base,
// which is more robust to a small number of miscalled long homopolymer
// runs than the plain mode.
type Median struct{}

func (Median) CallConsensus(column []Observation) (Base, int) {
	tally := make(map[Base]int, 4)
	for _, o := range column {
		tally[o.Base]++
	}
	var base Base
	bestCount := -1
	for b, n := range tally {
		if n > bestCount || (n == bestCount && b < base) {
			base, bestCount = b, n
		}
	}

	var repeats []int
	for _, o := range column {
		if o.Base == base {
			repeats = append(repeats, o.RepeatCount)
		}
	}
	sort.Ints(repeats)
	if len(repeats) == 0 {
		return base, 0
	}
	return base, repeats[len(repeats)/2]
}

// BayesianConfig parameterizes Bayesian: a per-repeat-count emission
// error model, expressed as the probability that a read showing repeat
// count r actually reflects a true homopolymer run of length t, indexed
// [t][r]. A nil or empty ErrorModel reduces to a majority vote over the
// repeat counts observed for the chosen base, ties to the smaller count,
// as in Modal.
type BayesianConfig struct {
	// MaxRepeatCount bounds the hypothesis space considered for the true
	// repeat count.
	MaxRepeatCount int
	// ErrorModel[t][r] is P(observed repeat count r | true repeat count t).
	// Indices beyond the slice bounds are treated as a small constant
	// probability (no hard zeroes, so a single surprising read can never
	// veto the rest of the column).
	ErrorModel [][]float64
}

// Bayesian picks the majority base, then the true repeat count
// maximizing the product of per-read emission probabilities under
// config.ErrorModel (spec.md §6 "Bayesian(config)").
type Bayesian struct {
	Config BayesianConfig
}

func (b Bayesian) CallConsensus(column []Observation) (Base, int) {
	tally := make(map[Base]int, 4)
	for _, o := range column {
		tally[o.Base]++
	}
	var base Base
	bestCount := -1
	for bb, n := range tally {
		if n > bestCount || (n == bestCount && bb < base) {
			base, bestCount = bb, n
		}
	}

	if len(b.Config.ErrorModel) == 0 {
		counts := make(map[int]int)
		for _, o := range column {
			if o.Base == base {
				counts[o.RepeatCount]++
			}
		}
		bestR, bestN := 0, -1
		for r, n := range counts {
			if n > bestN || (n == bestN && r < bestR) {
				bestR, bestN = r, n
			}
		}
		return base, bestR
	}

	maxT := b.Config.MaxRepeatCount
	if maxT <= 0 {
		maxT = 20
	}
	bestT, bestLogProb := 0, negInf
	for t := 0; t <= maxT; t++ {
		logProb := 0.0
		for _, o := range column {
			if o.Base != base {
				continue
			}
			logProb += logEmission(b.Config.ErrorModel, t, o.RepeatCount)
		}
		if logProb > bestLogProb {
			bestT, bestLogProb = t, logProb
		}
	}
	return base, bestT
}

var negInf = math.Inf(-1)

const fallbackEmissionProb = 0.05

func logEmission(model [][]float64, t, r int) float64 {
	if t >= 0 && t < len(model) && r >= 0 && r < len(model[t]) {
		if p := model[t][r]; p > 0 {
			return math.Log(p)
		}
	}
	return math.Log(fallbackEmissionProb)
}
