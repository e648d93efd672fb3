package align

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

func defaultOpts() Opts {
	return Opts{
		Method:                MethodOrdinalBanded,
		MaxSkip:               4,
		MaxDrift:              4,
		MaxMarkerFrequency:    10,
		MinAlignedMarkerCount: 4,
		MinAlignedFraction:    0.3,
		MaxTrim:               20,
		MatchScore:            1,
		MismatchScore:         -1,
		GapScore:              -1,
	}
}

func TestAlignOverlappingReads(t *testing.T) {
	sel, err := kmer.NewRandomSelection(9, 0.9, 3)
	require.NoError(t, err)

	shared := "ACGTTGCAACGTTGCATTGGCATGCATGCATTGGCACGTACGTTTGGCAACGTTGCAACGTTGCATTGGCATGCATGCATTGGCACGTACGT"
	seqs := fakeSeqs{
		shared,
		shared,
	}
	idx, err := markerindex.Build(seqs, sel)
	require.NoError(t, err)

	info, ok := Align(idx, kmer.Pack(0, kmer.Forward), kmer.Pack(1, kmer.Forward), defaultOpts())
	require.True(t, ok)
	require.NotNil(t, info)
	require.Equal(t, 0, info.MaxDrift)
	require.Greater(t, info.MarkerCount, 0)
}

func TestAlignRejectsUnrelatedReads(t *testing.T) {
	sel, err := kmer.NewRandomSelection(11, 0.9, 5)
	require.NoError(t, err)
	seqs := fakeSeqs{
		"AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA",
		"CCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCCC",
	}
	idx, err := markerindex.Build(seqs, sel)
	require.NoError(t, err)
	_, ok := Align(idx, kmer.Pack(0, kmer.Forward), kmer.Pack(1, kmer.Forward), defaultOpts())
	require.False(t, ok)
}

func TestSwappedIsInverse(t *testing.T) {
	info := &Info{
		OrientedReadId0: kmer.Pack(0, kmer.Forward),
		OrientedReadId1: kmer.Pack(1, kmer.Forward),
		MarkerCount:     2,
		FirstOrdinal0:   1,
		LastOrdinal0:    5,
		FirstOrdinal1:   2,
		LastOrdinal1:    6,
		LeftTrim:        1,
		RightTrim:       2,
		Matched:         []MatchedOrdinal{{Ord0: 1, Ord1: 2}, {Ord0: 5, Ord1: 6}},
	}
	swapped := info.Swapped()
	require.Equal(t, info.OrientedReadId0, swapped.OrientedReadId1)
	require.Equal(t, info.FirstOrdinal0, swapped.FirstOrdinal1)
	require.Equal(t, info.LeftTrim, swapped.RightTrim)
	require.Equal(t, swapped.Swapped().FirstOrdinal0, info.FirstOrdinal0)
}
