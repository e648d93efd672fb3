package assemble

import (
	"github.com/grailbio/bio/align"
	"github.com/grailbio/bio/assemblygraph"
	"github.com/grailbio/bio/candidatepair"
	"github.com/grailbio/bio/consensus"
	"github.com/grailbio/bio/markergraph"
	"github.com/grailbio/bio/markergraph/clean"
)

// ReadGraphCreationMethod selects how readgraph.Build symmetrizes
// candidate alignments into kept edges (spec.md §6
// "readGraph.creationMethod∈{0,2}").
type ReadGraphCreationMethod int

const (
	// ReadGraphSymmetric keeps an edge only when both endpoints select
	// it (readgraph.Build's oneSided=false).
	ReadGraphSymmetric ReadGraphCreationMethod = 0
	// ReadGraphOneSided keeps an edge when either endpoint selects it
	// (readgraph.Build's oneSided=true).
	ReadGraphOneSided ReadGraphCreationMethod = 2
)

// AssemblyMode selects the assembly-graph detangling strategy (spec.md §6
// "assembly.mode∈{0,1,2}"; spec.md §9/SPEC_FULL.md §4.11 Mode3).
type AssemblyMode int

const (
	// AssemblyModeNone disables detangling.
	AssemblyModeNone AssemblyMode = 0
	// AssemblyModeDiagonal uses assemblygraph.Graph.DetangleDiagonal.
	AssemblyModeDiagonal AssemblyMode = 1
	// AssemblyModeMode3 uses assemblygraph.Graph.DetangleMode3.
	AssemblyModeMode3 AssemblyMode = 2
)

// ConsensusCallerKind selects which consensus.Caller Run uses.
type ConsensusCallerKind int

const (
	ConsensusModal ConsensusCallerKind = iota
	ConsensusMedian
	ConsensusBayesian
)

// MinHashOpts mirrors candidatepair.Opts (spec.md §6
// "minHash.{m, hashFraction, iterations, bucketBits, minFreq, bucketSize bounds}").
type MinHashOpts struct {
	M                            int
	HashFraction                 float64
	Iterations                   int
	BucketBits                   int
	MinFrequency                 int
	MinBucketSize, MaxBucketSize int
}

func (o MinHashOpts) toCandidatePairOpts() candidatepair.Opts {
	return candidatepair.Opts{
		M:             o.M,
		HashFraction:  o.HashFraction,
		Iterations:    o.Iterations,
		BucketBits:    o.BucketBits,
		MinFrequency:  o.MinFrequency,
		MinBucketSize: o.MinBucketSize,
		MaxBucketSize: o.MaxBucketSize,
	}
}

// AlignOpts mirrors align.Opts (spec.md §6 "align.{method, maxSkip, ...}").
type AlignOpts struct {
	Method                align.Method
	MaxSkip               int
	MaxDrift              int
	MaxMarkerFrequency    int
	MinAlignedMarkerCount int
	MinAlignedFraction    float64
	MaxTrim               int
	MatchScore            int
	MismatchScore         int
	GapScore              int
}

func (o AlignOpts) toAlignOpts() align.Opts {
	return align.Opts{
		Method:                o.Method,
		MaxSkip:               o.MaxSkip,
		MaxDrift:              o.MaxDrift,
		MaxMarkerFrequency:    o.MaxMarkerFrequency,
		MinAlignedMarkerCount: o.MinAlignedMarkerCount,
		MinAlignedFraction:    o.MinAlignedFraction,
		MaxTrim:               o.MaxTrim,
		MatchScore:            o.MatchScore,
		MismatchScore:         o.MismatchScore,
		GapScore:              o.GapScore,
	}
}

// ReadGraphOpts configures readgraph construction and its cleanup passes
// (spec.md §6 "readGraph.{...}").
type ReadGraphOpts struct {
	CreationMethod          ReadGraphCreationMethod
	MaxAlignmentCount       int
	MaxChimericReadDistance int
	CrossStrandMaxDistance  int
	InconsistentMaxResidual int
	BridgeRadius            int
	MinComponentSize        int
}

// MarkerGraphOpts configures MarkerGraphBuilder and MarkerGraphCleaner
// (spec.md §6 "markerGraph.{...}").
type MarkerGraphOpts struct {
	MinCoverage, MaxCoverage   int
	MinCoveragePerStrand       int
	AllowDuplicateMarkers      bool
	PeakFinderStartIndex       int
	PeakFinderMinAreaFraction  float64
	LowCoverageThreshold       int
	HighCoverageThreshold      int
	MaxDistance                int
	EdgeMarkerSkipThreshold    int
	PruneIterationCount        int
	SimplifyMaxLengthVector    []int
	CrossEdgeCoverageThreshold int
}

func (o MarkerGraphOpts) toVertexOpts() markergraph.VertexOpts {
	return markergraph.VertexOpts{
		MinCoverage:               o.MinCoverage,
		MaxCoverage:               o.MaxCoverage,
		MinCoveragePerStrand:      o.MinCoveragePerStrand,
		AllowDuplicateMarkers:     o.AllowDuplicateMarkers,
		PeakFinderStartIndex:      o.PeakFinderStartIndex,
		PeakFinderMinAreaFraction: o.PeakFinderMinAreaFraction,
	}
}

func (o MarkerGraphOpts) toTransitiveReductionOpts() clean.TransitiveReductionOpts {
	return clean.TransitiveReductionOpts{
		LowCoverageThreshold:    o.LowCoverageThreshold,
		HighCoverageThreshold:   o.HighCoverageThreshold,
		MaxDistance:             o.MaxDistance,
		EdgeMarkerSkipThreshold: o.EdgeMarkerSkipThreshold,
	}
}

// AssemblyOpts configures AssemblyGraph construction, detangling, and
// sequence assembly (spec.md §6 "assembly.{...}").
type AssemblyOpts struct {
	Mode                     AssemblyMode
	DetangleMethod           int
	PruneLength              int
	ConsensusCaller          ConsensusCallerKind
	Bayesian                 consensus.BayesianConfig
	DiagonalReadCountMin     int
	OffDiagonalReadCountMax  int
	DetangleOffDiagonalRatio float64
	Mode3MinReadSupport      int
}

func (o AssemblyOpts) toDetangleOpts() assemblygraph.DetangleOpts {
	return assemblygraph.DetangleOpts{
		DiagonalReadCountMin:     o.DiagonalReadCountMin,
		OffDiagonalReadCountMax:  o.OffDiagonalReadCountMax,
		DetangleOffDiagonalRatio: o.DetangleOffDiagonalRatio,
	}
}

func (o AssemblyOpts) caller() consensus.Caller {
	switch o.ConsensusCaller {
	case ConsensusMedian:
		return consensus.Median{}
	case ConsensusBayesian:
		return consensus.Bayesian{Config: o.Bayesian}
	default:
		return consensus.Modal{}
	}
}

// Opts is the single flat configuration struct for Run (spec.md §6's
// configuration record), in the shape of fusion.Opts / markduplicates.Opts:
// one field per recognized option, flag wiring left entirely to
// cmd/bio-assemble/main.go.
type Opts struct {
	// K is the k-mer length used for marker selection; must be odd
	// (spec.md §9 open question (b)).
	K int
	// MarkerDensity is the target fraction of k-mers selected as markers.
	MarkerDensity float64
	// SelectionSeed seeds the random generator of kmer.NewRandomSelection.
	SelectionSeed int64
	// MinReadLength discards reads shorter than this many bases
	// (spec.md §7 InputError "too-short").
	MinReadLength int
	// NearPalindromeThreshold discards reads whose Jaro-Winkler
	// similarity to their own reverse complement meets or exceeds this
	// value, even when they fall short of exact palindrome equality
	// (spec.md §9 GLOSSARY "palindromic"; SPEC_FULL.md §4.10 chimera/
	// near-palindrome pre-filter). Zero disables the fuzzy check, only
	// exact palindromes are excluded.
	NearPalindromeThreshold float64

	MinHash     MinHashOpts
	Align       AlignOpts
	ReadGraph   ReadGraphOpts
	MarkerGraph MarkerGraphOpts
	Assembly    AssemblyOpts

	// Threads is the worker count for the parallel phases. Run does not
	// read it: cmd/bio-assemble applies it once at startup through
	// runtime.GOMAXPROCS, which bounds how many traverse.Each workers run
	// at once. 0 leaves GOMAXPROCS unchanged.
	Threads int
}

// DefaultOpts documents reasonable defaults for a small/test assembly run.
var DefaultOpts = Opts{
	K:             11,
	MarkerDensity: 0.1,
	SelectionSeed: 1,
	MinReadLength: 100,
	NearPalindromeThreshold: 0.95,
	MinHash: MinHashOpts{
		M: 4, HashFraction: 0.05, Iterations: 10, BucketBits: 8,
		MinFrequency: 2, MinBucketSize: 2, MaxBucketSize: 1000,
	},
	Align: AlignOpts{
		Method: align.MethodOrdinalBanded, MaxSkip: 30, MaxDrift: 30,
		MaxMarkerFrequency: 10, MinAlignedMarkerCount: 10,
		MinAlignedFraction: 0.6, MaxTrim: 30,
		MatchScore: 6, MismatchScore: -1, GapScore: -1,
	},
	ReadGraph: ReadGraphOpts{
		CreationMethod: ReadGraphSymmetric, MaxAlignmentCount: 6,
		MaxChimericReadDistance: 3, CrossStrandMaxDistance: 3,
		InconsistentMaxResidual: 1000, BridgeRadius: 3, MinComponentSize: 3,
	},
	MarkerGraph: MarkerGraphOpts{
		MinCoverage: 0, MaxCoverage: 100, MinCoveragePerStrand: 1,
		PeakFinderStartIndex: 2, PeakFinderMinAreaFraction: 0.1,
		LowCoverageThreshold: 2, HighCoverageThreshold: 8, MaxDistance: 3,
		EdgeMarkerSkipThreshold: 2, PruneIterationCount: 3,
		SimplifyMaxLengthVector: []int{2, 4, 8, 16},
		CrossEdgeCoverageThreshold: 3,
	},
	Assembly: AssemblyOpts{
		Mode: AssemblyModeDiagonal, ConsensusCaller: ConsensusModal,
		DiagonalReadCountMin: 2, OffDiagonalReadCountMax: 0,
		DetangleOffDiagonalRatio: 2, Mode3MinReadSupport: 2,
	},
}

// Validate rejects configuration errors before any heavy work runs
// (spec.md §7 "ConfigurationError ... raised before any heavy work,
// message names the offending option"; spec.md §9 open question (b)).
func (o Opts) Validate() error {
	if o.K <= 0 || o.K%2 == 0 {
		return newError(KindConfiguration, "Opts.K must be odd and positive", nil)
	}
	if o.MarkerDensity <= 0 || o.MarkerDensity > 1 {
		return newError(KindConfiguration, "Opts.MarkerDensity must be in (0,1]", nil)
	}
	if o.MarkerGraph.MinCoverage > 0 && o.MarkerGraph.MaxCoverage > 0 &&
		o.MarkerGraph.MinCoverage > o.MarkerGraph.MaxCoverage {
		return newError(KindConfiguration, "Opts.MarkerGraph.MinCoverage > MaxCoverage", nil)
	}
	switch o.Align.Method {
	case align.MethodOrdinalBanded, align.MethodBaseBanded, align.MethodSparseDP, align.MethodSparseDPRelaxed:
	default:
		return newError(KindConfiguration, "Opts.Align.Method: unrecognized enum value", nil)
	}
	switch o.ReadGraph.CreationMethod {
	case ReadGraphSymmetric, ReadGraphOneSided:
	default:
		return newError(KindConfiguration, "Opts.ReadGraph.CreationMethod: unrecognized enum value", nil)
	}
	switch o.Assembly.Mode {
	case AssemblyModeNone, AssemblyModeDiagonal, AssemblyModeMode3:
	default:
		return newError(KindConfiguration, "Opts.Assembly.Mode: unrecognized enum value", nil)
	}
	switch o.Assembly.DetangleMethod {
	case 0, 1, 2:
	default:
		return newError(KindConfiguration, "Opts.Assembly.DetangleMethod: unrecognized enum value", nil)
	}
	switch o.Assembly.ConsensusCaller {
	case ConsensusModal, ConsensusMedian, ConsensusBayesian:
	default:
		return newError(KindConfiguration, "Opts.Assembly.ConsensusCaller: unrecognized enum value", nil)
	}
	return nil
}
