package kmer

import (
	"bufio"
	"math/rand"
	"os"

	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
)

// Selection answers "is this k-mer id a marker?" for a fixed value of k. It
// is reverse-complement symmetric: Selected(id) == Selected(ReverseComplement(id, k))
// always holds once New* has returned.
type Selection struct {
	k        int
	selected []bool // indexed by Id, size 4^k.
}

// K returns the k-mer length this Selection was built for.
func (s *Selection) K() int { return s.k }

// Selected reports whether id is a marker k-mer.
func (s *Selection) Selected(id Id) bool {
	return s.selected[id]
}

func newSelection(k int) (*Selection, error) {
	if k <= 0 || k%2 == 0 || k > 31 {
		return nil, errors.E("kmer.MarkerSelection: k must be odd and in [1,31], got", k)
	}
	return &Selection{k: k, selected: make([]bool, uint64(1)<<uint(2*k))}, nil
}

// symmetrize enforces the post-selection invariant of spec.md §4.1: both
// k-mers of a reverse-complement pair end up with the same Selected value.
// The tie-break is deterministic: a pair is marker iff either half was
// selected by the random draw (this matches "both-in iff either-in" from
// spec.md §4.1, applied with a fixed rule rather than a coin flip).
func (s *Selection) symmetrize() {
	for id := range s.selected {
		if s.selected[id] {
			continue
		}
		rc := ReverseComplement(Id(id), s.k)
		if s.selected[rc] {
			s.selected[id] = true
		}
	}
}

// NewRandomSelection selects each k-mer independently with probability
// density, using a seeded generator so that selection is reproducible.
func NewRandomSelection(k int, density float64, seed int64) (*Selection, error) {
	sel, err := newSelection(k)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewSource(seed))
	for id := range sel.selected {
		sel.selected[id] = rng.Float64() < density
	}
	sel.symmetrize()
	return sel, nil
}

// ExcludeGloballyOverenriched clears markers whose observed frequency (from
// a whole-genome-worth scan, counts indexed by Id) exceeds ratio theta times
// the uniform expectation (spec.md §4.1 "Random minus globally overenriched").
func (s *Selection) ExcludeGloballyOverenriched(counts []uint64, theta float64) {
	var total uint64
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return
	}
	uniform := float64(total) / float64(len(counts))
	removed := 0
	for id, c := range counts {
		if !s.selected[id] {
			continue
		}
		if float64(c) > theta*uniform {
			s.selected[id] = false
			removed++
		}
	}
	if removed > 0 {
		log.Debug.Printf("kmer.MarkerSelection: excluded %d globally overenriched k-mers", removed)
		s.symmetrize()
	}
}

// ExcludeLocallyOverenriched clears markers that occur more than maxPerRead
// times within any single oriented read, given per-read k-mer counts
// (spec.md §4.1 "Random minus locally overenriched").
func (s *Selection) ExcludeLocallyOverenriched(readCounts [][]uint32, maxPerRead uint32) {
	overenriched := make(map[Id]bool)
	for _, counts := range readCounts {
		for id, c := range counts {
			if c > maxPerRead {
				overenriched[Id(id)] = true
			}
		}
	}
	for id := range overenriched {
		s.selected[id] = false
	}
	if len(overenriched) > 0 {
		s.symmetrize()
	}
}

// ExcludeCloseRepeats clears markers that occur twice within distance d of
// each other in any oriented read (spec.md §4.1, last bullet). occurrences
// maps a k-mer id to the sorted positions it was observed at in one read;
// callers accumulate this across all reads before calling once.
func (s *Selection) ExcludeCloseRepeats(occurrences map[Id][]int, d int) {
	removed := 0
	for id, positions := range occurrences {
		if !s.selected[id] {
			continue
		}
		for i := 1; i < len(positions); i++ {
			if positions[i]-positions[i-1] < d {
				s.selected[id] = false
				removed++
				break
			}
		}
	}
	if removed > 0 {
		log.Debug.Printf("kmer.MarkerSelection: excluded %d close-repeat k-mers (d=%d)", removed, d)
		s.symmetrize()
	}
}

// NewSelectionFromFile reads one k-mer per line (ACGT text, length k) and
// marks it (and its reverse complement) as a marker (spec.md §4.1 "Read
// from file").
func NewSelectionFromFile(k int, path string) (*Selection, error) {
	sel, err := newSelection(k)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.E(err, "kmer.NewSelectionFromFile", path)
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	n := 0
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		id, ok := Encode(line)
		if !ok {
			return nil, errors.E("kmer.NewSelectionFromFile", path, "not a valid k-mer:", line)
		}
		sel.selected[id] = true
		n++
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.E(err, "kmer.NewSelectionFromFile", path)
	}
	log.Debug.Printf("kmer.NewSelectionFromFile: read %d markers from %s", n, path)
	sel.symmetrize()
	return sel, nil
}

// tieBreakHash is used nowhere in the default symmetrization rule above
// (which is a pure OR), but is kept available for MarkerSelection variants
// that need a deterministic coin flip over a reverse-complement pair
// instead (e.g. a future density-preserving symmetrization policy).
func tieBreakHash(id Id) uint64 {
	return farm.Hash64WithSeed([]byte{byte(id), byte(id >> 8), byte(id >> 16), byte(id >> 24),
		byte(id >> 32), byte(id >> 40), byte(id >> 48), byte(id >> 56)}, 0)
}
