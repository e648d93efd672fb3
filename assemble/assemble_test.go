package assemble

import (
	"context"
	"testing"

	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/bio/biosimd"
	"github.com/grailbio/bio/kmer"
	"github.com/stretchr/testify/require"
)

// fixedSeqs is a fixed list of read sequences (always strand Forward in
// storage; OrientedSequence reverse-complements on demand), the same
// shape as the fakeSeqs helpers in markergraph_test.go/
// assemblygraph_test.go.
type fixedSeqs []string

func (f fixedSeqs) NumReads() int { return len(f) }

func (f fixedSeqs) OrientedSequence(o kmer.OrientedReadId) string {
	s := f[o.ReadId()]
	if o.Strand() == kmer.Forward {
		return s
	}
	b := []byte(s)
	biosimd.ReverseComp8Inplace(b)
	return string(b)
}

// tilingReads returns coverage copies of src's overlapping windows of the
// given length and step, simulating S1's "error-free reads tiling a
// source sequence at N x coverage" (spec.md §8 S1).
func tilingReads(src string, windowLen, step, coverage int) fixedSeqs {
	var reads fixedSeqs
	for c := 0; c < coverage; c++ {
		offset := (c * step / 3) % step // stagger each coverage pass
		for start := offset; start+windowLen <= len(src); start += step {
			reads = append(reads, src[start:start+windowLen])
		}
	}
	return reads
}

const syntheticSource = "ACGTTGCAACGGTACGTTAGGCATGCATTGGCACGTACGTTTGGCAACGTTGCAACGATGCATTGGCATGCATGCATTGGCACGTACGTAGGCATTAGGCATGCATTGGCACGTACGTTTGGCAACGTTGCAACGATGCATTGGCATGCATGCATTGGCACGTACGT"

func smallOpts() Opts {
	opts := DefaultOpts
	opts.K = 9
	opts.MarkerDensity = 0.9
	opts.MinReadLength = 20
	opts.MinHash.Iterations = 4
	opts.MinHash.MinFrequency = 1
	opts.ReadGraph.MinComponentSize = 1
	opts.MarkerGraph.MinCoverage = 2
	opts.MarkerGraph.MinCoveragePerStrand = 0
	return opts
}

func TestValidateRejectsEvenK(t *testing.T) {
	opts := smallOpts()
	opts.K = 10
	err := opts.Validate()
	require.Error(t, err)
	require.Equal(t, KindConfiguration, err.(*Error).Kind)
}

func TestValidateRejectsMinCoverageAboveMaxCoverage(t *testing.T) {
	opts := smallOpts()
	opts.MarkerGraph.MinCoverage = 50
	opts.MarkerGraph.MaxCoverage = 10
	err := opts.Validate()
	require.Error(t, err)
}

func TestValidateRejectsUnknownEnum(t *testing.T) {
	opts := smallOpts()
	opts.Assembly.Mode = AssemblyMode(99)
	err := opts.Validate()
	require.Error(t, err)
}

func TestExitCodeMapping(t *testing.T) {
	require.Equal(t, 0, ExitCode(nil))
	require.Equal(t, 1, ExitCode(newError(KindConfiguration, "x", nil)))
	require.Equal(t, 2, ExitCode(newError(KindResource, "x", nil)))
	require.Equal(t, 3, ExitCode(newError(KindInvariant, "x", nil)))
	require.Equal(t, 3, ExitCode(newError(KindInput, "x", nil)))
	require.Equal(t, 3, ExitCode(newError(KindTimeout, "x", nil)))
}

// TestRunOnTilingReadsProducesAssembly is a scaled-down S1 (spec.md §8):
// error-free reads tiling one source sequence at several-fold coverage
// should assemble into at least one strand-symmetric pair of segments.
func TestRunOnTilingReadsProducesAssembly(t *testing.T) {
	reads := tilingReads(syntheticSource, 60, 15, 4)
	require.True(t, len(reads) >= 6)

	result, err := Run(context.Background(), reads, smallOpts())
	require.NoError(t, err)
	require.NotEmpty(t, result.AssemblyGraph.Segments())

	var liveCount int
	for _, seg := range result.AssemblyGraph.Segments() {
		if !seg.Removed {
			liveCount++
			require.NotEmpty(t, seg.Sequence, "a live segment should have an assembled sequence")
		}
	}
	require.True(t, liveCount > 0)
}

// TestRunExcludesPalindromicRead is S4 (spec.md §8): a read equal to its
// own reverse complement is counted and excluded, not fed to the marker
// index.
func TestRunExcludesPalindromicRead(t *testing.T) {
	reads := tilingReads(syntheticSource, 60, 15, 4)
	palindrome := "ACGT" // a short even-length self-reverse-complement motif
	reads = append(reads, palindrome+palindrome)
	require.True(t, isPalindromic(reads[len(reads)-1]))

	opts := smallOpts()
	opts.MinReadLength = 4
	result, err := Run(context.Background(), reads, opts)
	require.NoError(t, err)
	require.Equal(t, 1, result.Stats.Palindromic)
}

// TestRunCountsTooShortReads exercises the MinReadLength InputError path
// (spec.md §7 "too-short").
func TestRunCountsTooShortReads(t *testing.T) {
	reads := tilingReads(syntheticSource, 60, 15, 4)
	reads = append(reads, "AC")

	opts := smallOpts()
	result, err := Run(context.Background(), reads, opts)
	require.NoError(t, err)
	require.Equal(t, 1, result.Stats.TooShort)
}

// TestRunRejectsAllReadsTooShort exercises spec.md §7's "the pipeline
// continues unless zero reads remain" boundary.
func TestRunRejectsAllReadsTooShort(t *testing.T) {
	opts := smallOpts()
	opts.MinReadLength = 1000
	_, err := Run(context.Background(), fixedSeqs{"ACGT", "TGCA"}, opts)
	require.Error(t, err)
	require.Equal(t, KindInput, err.(*Error).Kind)
}

// TestRunHonorsContext exercises the KindTimeout reporting path: Run still
// completes but reports a timeout error when the context is already
// canceled by the time it finishes (a stand-in for an interactive
// subgraph-extraction deadline, spec.md §5 "Cancellation & timeouts").
func TestRunHonorsContext(t *testing.T) {
	reads := tilingReads(syntheticSource, 60, 15, 4)
	ctx, cancel := context.WithCancel(vcontext.Background())
	cancel()
	_, err := Run(ctx, reads, smallOpts())
	require.Error(t, err)
	require.Equal(t, KindTimeout, err.(*Error).Kind)
}
