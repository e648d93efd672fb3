package markerindex

import (
	"testing"

	"github.com/grailbio/bio/biosimd"
	"github.com/grailbio/bio/kmer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSeqs []string

func (f fakeSeqs) NumReads() int { return len(f) }

func (f fakeSeqs) OrientedSequence(o kmer.OrientedReadId) string {
	s := f[o.ReadId()]
	if o.Strand() == kmer.Forward {
		return s
	}
	b := []byte(s)
	biosimd.ReverseComp8Inplace(b)
	return string(b)
}

func TestMarkerIdRoundTrip(t *testing.T) {
	sel, err := kmer.NewRandomSelection(7, 0.5, 42)
	require.NoError(t, err)
	seqs := fakeSeqs{
		"ACGTACGTACGTACGTACGTACGTACGTACGT",
		"TTTTGGGGCCCCAAAATTTTGGGGCCCCAAAA",
		"ACGTTTGCATGCATGCATGCATGCATGCATGC",
	}
	idx, err := Build(seqs, sel)
	require.NoError(t, err)

	for o := 0; o < seqs.NumReads()*2; o++ {
		for ordinal, m := range idx.Markers(kmer.OrientedReadId(o)) {
			id := idx.GetMarkerId(kmer.OrientedReadId(o), ordinal)
			gotO, gotOrdinal := idx.FindMarkerId(id)
			assert.Equal(t, kmer.OrientedReadId(o), gotO)
			assert.Equal(t, ordinal, gotOrdinal)
			assert.Equal(t, m.Ordinal, uint32(ordinal))
		}
	}
}

func TestReverseComplementMarkerIdIsInvolution(t *testing.T) {
	sel, err := kmer.NewRandomSelection(7, 0.6, 11)
	require.NoError(t, err)
	seqs := fakeSeqs{"ACGTACGTACGTACGTACGTACGTACGTACGT", "TTGGCCAATTGGCCAATTGGCCAATTGGCCAA"}
	idx, err := Build(seqs, sel)
	require.NoError(t, err)

	for o := 0; o < seqs.NumReads()*2; o++ {
		for ordinal := range idx.Markers(kmer.OrientedReadId(o)) {
			id := idx.GetMarkerId(kmer.OrientedReadId(o), ordinal)
			rc := idx.ReverseComplementMarkerId(id)
			back := idx.ReverseComplementMarkerId(rc)
			assert.Equal(t, id, back)
			assert.NotEqual(t, id, rc)
		}
	}
}

func TestSortedByKmerIsSorted(t *testing.T) {
	sel, err := kmer.NewRandomSelection(5, 0.8, 7)
	require.NoError(t, err)
	seqs := fakeSeqs{"ACGTACGTACGTACGTACGTACGTACGT"}
	idx, err := Build(seqs, sel)
	require.NoError(t, err)
	sorted := idx.SortedByKmer(kmer.Pack(0, kmer.Forward))
	for i := 1; i < len(sorted); i++ {
		assert.LessOrEqual(t, sorted[i-1].KmerId, sorted[i].KmerId)
	}
}
