// Package assemble drives the full assembler pipeline end to end:
// MarkerSelection -> MarkerIndex -> CandidatePairs -> Aligner -> ReadGraph
// -> MarkerGraphBuilder -> MarkerGraphCleaner -> AssemblyGraph -> consensus
// (spec.md §2 "Data flow"). It plays the role markduplicates.Opts/
// SetupAndMark and fusion.Opts/DetectFusion play in the teacher: one flat
// Opts struct, one Run entry point, phase-by-phase log.Debug
// announcements. Phases run one after another; a failing phase's error is
// returned classified as an *Error.
package assemble

import (
	"context"
	"time"

	"github.com/grailbio/base/log"
	"github.com/grailbio/bio/align"
	"github.com/grailbio/bio/assemblygraph"
	"github.com/grailbio/bio/candidatepair"
	"github.com/grailbio/bio/kmer"
	"github.com/grailbio/bio/markergraph"
	"github.com/grailbio/bio/markergraph/clean"
	"github.com/grailbio/bio/markerindex"
	"github.com/grailbio/bio/readgraph"
)

// Stats accumulates the data-level counters spec.md §7 requires for
// InputError reporting: data problems are counted, not fatal, unless they
// leave zero usable reads.
type Stats struct {
	TooShort         int
	Palindromic      int
	NearPalindromic  int
	InvalidBase      int
	ChimericReads    int
	ExcludedReads    int
	CandidatePairs   int
	KeptAlignments   int
	MarkerVertices   int
	MarkerEdges      int
	AssemblySegments int
}

// Result is everything Run produces: the fully cleaned marker graph, the
// compressed assembly graph (with consensus sequences filled in), the
// read graph used to build it, and run statistics.
type Result struct {
	MarkerIndex   *markerindex.Index
	ReadGraph     *readgraph.Graph
	MarkerGraph   *markergraph.Graph
	AssemblyGraph *assemblygraph.Graph
	Stats         Stats
}

// phase logs a debug-level announcement with elapsed time, mirroring
// markduplicates.Mark's per-stage log.Debug.Printf calls.
func phase(name string, fn func() error) error {
	t0 := time.Now()
	log.Debug.Printf("assemble: starting %s", name)
	err := fn()
	log.Debug.Printf("assemble: %s done in %v", name, time.Since(t0))
	return err
}

// Run executes the full pipeline against seqs (a collaborator-provided
// FASTA/FASTQ reader satisfying markerindex.Sequence, per spec.md §1's
// non-goal "parsing is a collaborator's job") and returns the assembled
// Result, or a *Error classified per spec.md §7.
func Run(ctx context.Context, seqs markerindex.Sequence, opts Opts) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	sel, err := kmer.NewRandomSelection(opts.K, opts.MarkerDensity, opts.SelectionSeed)
	if err != nil {
		return nil, newError(KindConfiguration, "kmer.NewRandomSelection", err)
	}

	result := &Result{}

	filtered, filterStats := filterReads(seqs, opts)
	result.Stats.TooShort = filterStats.TooShort
	result.Stats.Palindromic = filterStats.Palindromic
	result.Stats.NearPalindromic = filterStats.NearPalindromic
	result.Stats.InvalidBase = filterStats.InvalidBase
	seqs = filtered

	numReads := seqs.NumReads()
	if numReads == 0 {
		return nil, newError(KindInput, "Run: zero reads after input filtering", nil)
	}

	var idx *markerindex.Index
	if perr := phase("MarkerIndex", func() error {
		idx, err = markerindex.Build(seqs, sel)
		return err
	}); perr != nil {
		return nil, newError(KindInput, "markerindex.Build", perr)
	}
	result.MarkerIndex = idx

	var candidates *candidatepair.Result
	if perr := phase("CandidatePairs", func() error {
		candidates, err = candidatepair.Run(idx, numReads, opts.MinHash.toCandidatePairOpts())
		return err
	}); perr != nil {
		return nil, newError(KindResource, "candidatepair.Run", perr)
	}
	result.Stats.CandidatePairs = len(candidates.Pairs)

	alignOpts := opts.Align.toAlignOpts()
	var infos []*align.Info
	if perr := phase("Aligner", func() error {
		for _, p := range candidates.Pairs {
			strand1 := kmer.Forward
			if !p.SameStrand {
				strand1 = kmer.Reverse
			}
			o0 := kmer.Pack(p.ReadId0, kmer.Forward)
			o1 := kmer.Pack(p.ReadId1, strand1)
			if info, ok := align.Align(idx, o0, o1, alignOpts); ok {
				infos = append(infos, info)
			}
			// Strand-symmetric counterpart (spec.md §8 invariant 1): align
			// the reverse complement of both oriented reads independently,
			// rather than deriving it synthetically from info above.
			if info, ok := align.Align(idx, o0.ReverseComplement(), o1.ReverseComplement(), alignOpts); ok {
				infos = append(infos, info)
			}
		}
		return nil
	}); perr != nil {
		return nil, newError(KindInvariant, "align.Align", perr)
	}

	var rg *readgraph.Graph
	if perr := phase("ReadGraph", func() error {
		oneSided := opts.ReadGraph.CreationMethod == ReadGraphOneSided
		rg = readgraph.Build(numReads, infos, opts.ReadGraph.MaxAlignmentCount, oneSided)
		rg.FlagChimeras(opts.ReadGraph.MaxChimericReadDistance)
		rg.FlagCrossStrand(opts.ReadGraph.CrossStrandMaxDistance)
		rg.FlagInconsistentAlignments(opts.ReadGraph.InconsistentMaxResidual)
		rg.FlagBridges(opts.ReadGraph.BridgeRadius)
		rg.ExcludeSmallComponents(opts.ReadGraph.MinComponentSize)
		return nil
	}); perr != nil {
		return nil, newError(KindInvariant, "readgraph.Build", perr)
	}
	result.ReadGraph = rg
	result.Stats.KeptAlignments = len(rg.Edges())
	for r := kmer.ReadId(0); int(r) < numReads; r++ {
		if rg.IsChimeric(r) {
			result.Stats.ChimericReads++
		}
		if rg.IsExcluded(r) {
			result.Stats.ExcludedReads++
		}
	}

	// All flags readgraph sets are advisory (spec.md §4.5 "All flags are
	// advisory; downstream consumers honor them"): MarkerGraphBuilder
	// consumes every kept edge regardless of flag state (spec.md §8 S3
	// "chimera flagged; topology identical to S1").
	var edgeInfos []*align.Info
	for _, e := range rg.Edges() {
		edgeInfos = append(edgeInfos, e.Info)
	}

	var mg *markergraph.Graph
	if perr := phase("MarkerGraphBuilder", func() error {
		mg, err = markergraph.BuildVertices(idx, edgeInfos, opts.MarkerGraph.toVertexOpts())
		if err != nil {
			return err
		}
		return mg.BuildEdges(numReads * 2)
	}); perr != nil {
		return nil, newError(KindInvariant, "markergraph.BuildVertices", perr)
	}
	result.MarkerGraph = mg
	result.Stats.MarkerVertices = mg.NumVertices()
	result.Stats.MarkerEdges = len(mg.Edges())

	if perr := phase("MarkerGraphCleaner", func() error {
		trOpts := opts.MarkerGraph.toTransitiveReductionOpts()
		clean.ApproximateTransitiveReduction(mg, trOpts)
		clean.ReverseTransitiveReduction(mg, trOpts)
		clean.Prune(mg, opts.MarkerGraph.PruneIterationCount)
		clean.SimplifyBubbles(mg, opts.MarkerGraph.SimplifyMaxLengthVector)
		clean.FlagLowCoverageCrossEdges(mg, len(opts.MarkerGraph.SimplifyMaxLengthVector), opts.MarkerGraph.CrossEdgeCoverageThreshold)
		return nil
	}); perr != nil {
		return nil, newError(KindInvariant, "markergraph/clean", perr)
	}

	var ag *assemblygraph.Graph
	if perr := phase("AssemblyGraph", func() error {
		ag = assemblygraph.Build(mg)
		switch opts.Assembly.Mode {
		case AssemblyModeDiagonal:
			ag.DetangleDiagonal(opts.Assembly.toDetangleOpts())
		case AssemblyModeMode3:
			ag.DetangleMode3(opts.Assembly.Mode3MinReadSupport)
		}
		assemblygraph.AssembleSequence(ag, seqs, idx, opts.Assembly.caller())
		return nil
	}); perr != nil {
		return nil, newError(KindInvariant, "assemblygraph.Build", perr)
	}
	result.AssemblyGraph = ag
	for _, seg := range ag.Segments() {
		if !seg.Removed {
			result.Stats.AssemblySegments++
		}
	}

	if err := ctx.Err(); err != nil {
		return result, newError(KindTimeout, "Run: context canceled", err)
	}
	return result, nil
}
