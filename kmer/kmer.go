// Package kmer implements k-mer encoding and marker selection, the
// lowest layer of the assembly pipeline (markers discretize reads into the
// alphabet the rest of the pipeline operates on).
package kmer

import (
	"github.com/grailbio/bio/biosimd"
)

const (
	invalidBaseBits = uint8(255)
)

var (
	asciiToBaseMap           [256]uint8
	asciiToComplementBaseMap [256]uint8
)

func init() {
	for i := range asciiToBaseMap {
		asciiToBaseMap[i] = invalidBaseBits
		asciiToComplementBaseMap[i] = invalidBaseBits
	}
	asciiToBaseMap['A'] = 0
	asciiToBaseMap['a'] = 0
	asciiToBaseMap['C'] = 1
	asciiToBaseMap['c'] = 1
	asciiToBaseMap['G'] = 2
	asciiToBaseMap['g'] = 2
	asciiToBaseMap['T'] = 3
	asciiToBaseMap['t'] = 3

	asciiToComplementBaseMap['A'] = 3
	asciiToComplementBaseMap['a'] = 3
	asciiToComplementBaseMap['C'] = 2
	asciiToComplementBaseMap['c'] = 2
	asciiToComplementBaseMap['G'] = 1
	asciiToComplementBaseMap['g'] = 1
	asciiToComplementBaseMap['T'] = 0
	asciiToComplementBaseMap['t'] = 0
}

// Id is a 2-bit-per-base packed encoding of a k-mer, up to 32 bases. It is
// the "KmerId" of spec.md: a canonical numeric encoding in [0, 4^k).
type Id uint64

// invalidId is a sentinel k-mer id, never returned by Encode for a valid k.
const invalidId = Id(0xffffffffffffffff)

// kmersAtPos holds the forward and reverse-complement encodings of the k-mer
// starting at one position of a read, plus the position itself.
type kmersAtPos struct {
	pos                        int
	forward, reverseComplement Id
}

// canonical returns the numerically smaller of the forward and
// reverse-complement encodings. Two occurrences of the same underlying
// double-stranded k-mer, read from either strand, always canonicalize to the
// same Id.
func (km kmersAtPos) canonical() Id {
	if km.forward < km.reverseComplement {
		return km.forward
	}
	return km.reverseComplement
}

// Scanner streams k-mer ids out of a read sequence, left to right, spending
// O(1) work per base (each new base shifts the running encoding instead of
// re-encoding the whole window).
type Scanner struct {
	k    int
	mask Id // ~0 << (2*k), complemented: low 2k bits set.

	seq string
	pos int
	cur kmersAtPos
}

// NewScanner returns a Scanner for k-mers of length k over seq. k must be
// odd and in [1,32]; the caller (MarkerSelection / assemble.Opts.Validate)
// is responsible for rejecting even k before reads ever reach this layer.
func NewScanner(k int, seq string) *Scanner {
	return &Scanner{
		k:    k,
		mask: ^(Id(0xffffffffffffffff) << Id(k*2)),
		seq:  seq,
	}
}

// Next advances the scanner to the next position with a fully-defined
// (all-ACGT) k-mer window and returns its 0-based start position and
// canonical Id. ok is false once the scan is exhausted.
func (s *Scanner) Next() (pos int, id Id, ok bool) {
	for s.pos < len(s.seq) {
		base := asciiToBaseMap[s.seq[s.pos]]
		if base == invalidBaseBits {
			// Any non-ACGT base invalidates every window that contains it;
			// restart the running encoding from scratch after it.
			s.pos++
			s.cur = kmersAtPos{}
			continue
		}
		comp := asciiToComplementBaseMap[s.seq[s.pos]]
		s.cur.forward = ((s.cur.forward << 2) | Id(base)) & s.mask
		s.cur.reverseComplement = (s.cur.reverseComplement >> 2) | (Id(comp) << Id(2*(s.k-1)))
		s.pos++
		s.cur.pos++
		if s.cur.pos >= s.k {
			start := s.pos - s.k
			return start, s.cur.canonical(), true
		}
	}
	return 0, invalidId, false
}

// Encode returns the canonical Id of a single k-length ACGT string, or
// (invalidId, false) if it contains a non-ACGT byte. Used for marker-file
// k-mers and tests; the streaming Scanner above is used for whole reads.
func Encode(seq string) (Id, bool) {
	if len(seq) == 0 {
		return invalidId, false
	}
	var fwd, rc Id
	k := len(seq)
	for i := 0; i < k; i++ {
		base := asciiToBaseMap[seq[i]]
		if base == invalidBaseBits {
			return invalidId, false
		}
		comp := asciiToComplementBaseMap[seq[i]]
		fwd = (fwd << 2) | Id(base)
		rc = (rc << 2) | Id(comp)
	}
	// rc as accumulated above is the complement in read order; canonicalID
	// reverses its 2-bit groups into true reverse-complement order.
	return canonicalID(fwd, rc, k), true
}

func canonicalID(fwd, rcInOrder Id, k int) Id {
	// rcInOrder holds complement bases in original order; reverse the 2-bit
	// groups to get the true reverse complement.
	var rc Id
	tmp := rcInOrder
	for i := 0; i < k; i++ {
		rc = (rc << 2) | (tmp & 3)
		tmp >>= 2
	}
	if fwd < rc {
		return fwd
	}
	return rc
}

// ReverseComplement returns the reverse-complement Id of a k-length k-mer
// id, reusing biosimd's base-level table rather than re-deriving one here.
func ReverseComplement(id Id, k int) Id {
	buf := make([]byte, k)
	tmp := id
	for i := k - 1; i >= 0; i-- {
		buf[i] = "ACGT"[tmp&3]
		tmp >>= 2
	}
	biosimd.ReverseComp8Inplace(buf)
	out, _ := Encode(string(buf))
	return out
}
