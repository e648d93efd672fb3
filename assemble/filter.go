package assemble

import (
	"github.com/antzucaro/matchr"
	"github.com/grailbio/bio/biosimd"
	"github.com/grailbio/bio/kmer"
	"github.com/grailbio/bio/markerindex"
)

// filteredSequence wraps a markerindex.Sequence, excluding reads that are
// too short or palindromic (spec.md §7 InputError "too-short" /
// "palindromic": "read is discarded with a counter increment ... the
// pipeline continues unless zero reads remain"), densely renumbering the
// survivors so every downstream package still sees a contiguous
// [0,NumReads()) ReadId space.
type filteredSequence struct {
	inner    markerindex.Sequence
	keepOrig []kmer.ReadId // keepOrig[i] is the original ReadId of survivor i.
}

// filterReads applies the length, base-content, and palindrome checks
// and returns the filtered view plus the counters for Stats.
func filterReads(seqs markerindex.Sequence, opts Opts) (*filteredSequence, Stats) {
	var stats Stats
	var keep []kmer.ReadId
	for r := kmer.ReadId(0); int(r) < seqs.NumReads(); r++ {
		s := seqs.OrientedSequence(kmer.Pack(r, kmer.Forward))
		if len(s) < opts.MinReadLength {
			stats.TooShort++
			continue
		}
		if biosimd.IsNonACGTPresent([]byte(s)) {
			stats.InvalidBase++
			continue
		}
		if isPalindromic(s) {
			stats.Palindromic++
			continue
		}
		if isNearPalindromic(s, opts.NearPalindromeThreshold) {
			stats.NearPalindromic++
			continue
		}
		keep = append(keep, r)
	}
	return &filteredSequence{inner: seqs, keepOrig: keep}, stats
}

// isPalindromic reports whether s equals its own reverse complement
// (spec.md §9 GLOSSARY/§7 "palindromic"); such a read cannot be assigned a
// consistent strand and is excluded rather than repaired.
func isPalindromic(s string) bool {
	rc := []byte(s)
	biosimd.ReverseComp8Inplace(rc)
	return string(rc) == s
}

// isNearPalindromic catches reads that fall just short of exact
// palindrome equality (a handful of sequencing errors near the axis
// of symmetry), using Jaro-Winkler similarity between s and its
// reverse complement as a cheap fuzzy check. filterReads calls it only
// after the exact ReverseComp8Inplace comparison in isPalindromic has
// passed the read. threshold<=0 disables the check.
func isNearPalindromic(s string, threshold float64) bool {
	if threshold <= 0 {
		return false
	}
	rc := []byte(s)
	biosimd.ReverseComp8Inplace(rc)
	return matchr.JaroWinkler(s, string(rc), true) >= threshold
}

func (f *filteredSequence) NumReads() int { return len(f.keepOrig) }

func (f *filteredSequence) OrientedSequence(o kmer.OrientedReadId) string {
	orig := f.keepOrig[int(o.ReadId())]
	return f.inner.OrientedSequence(kmer.Pack(orig, o.Strand()))
}
