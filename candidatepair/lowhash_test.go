package candidatepair

import (
	"testing"

	"github.com/grailbio/bio/biosimd"
	"github.com/grailbio/bio/kmer"
	"github.com/grailbio/bio/markerindex"
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

func TestRunFindsOverlappingReads(t *testing.T) {
	sel, err := kmer.NewRandomSelection(9, 0.8, 11)
	require.NoError(t, err)

	// Two reads share a long overlapping region; a third is unrelated.
	shared := "ACGTTGCAACGTTGCATTGGCATGCATGCATTGGCACGTACGTTTGGCA"
	seqs := fakeSeqs{
		shared + "TTTTTTTTTTTTTTTTTTTT",
		"GGGGGGGGGGGGGGGGGGGG" + shared,
		"CCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC",
	}
	idx, err := markerindex.Build(seqs, sel)
	require.NoError(t, err)

	opts := Opts{
		M:             4,
		HashFraction:  1.0,
		Iterations:    6,
		BucketBits:    4,
		MinFrequency:  1,
		MinBucketSize: 2,
		MaxBucketSize: 20,
	}
	result, err := Run(idx, len(seqs), opts)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Stats, len(seqs))
}
