// bio-assemble builds a long-read de novo genome assembly from a FASTA or
// FASTQ file of reads: marker selection, candidate pair screening,
// pairwise alignment, read graph, marker graph construction and cleaning,
// assembly graph compression, and consensus calling. It writes the
// resulting segment graph as GFA 1.0, a per-segment FASTA, and
// summary statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/bio/align"
	"github.com/grailbio/bio/assemble"
	"github.com/grailbio/bio/biosimd"
	"github.com/grailbio/bio/encoding/fasta"
	"github.com/grailbio/bio/encoding/fastq"
	"github.com/grailbio/bio/kmer"
	"github.com/grailbio/bio/markerindex"
	"github.com/grailbio/bio/output"
	"github.com/yasushi-saito/zlibng"
)

type memStats struct {
	mu         sync.Mutex
	alloc      uint64
	totalAlloc uint64
	sys        uint64
	heapSys    uint64
}

func (m *memStats) String() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fmt.Sprintf("Alloc: %v TotalAlloc: %v, Sys: %v, HeapSys: %v",
		m.alloc, m.totalAlloc, m.sys, m.heapSys)
}

func (m *memStats) update() {
	var s runtime.MemStats
	runtime.ReadMemStats(&s)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.alloc < s.Alloc {
		m.alloc = s.Alloc
	}
	if m.totalAlloc < s.TotalAlloc {
		m.totalAlloc = s.TotalAlloc
	}
	if m.sys < s.Sys {
		m.sys = s.Sys
	}
	if m.heapSys < s.HeapSys {
		m.heapSys = s.HeapSys
	}
}

// fastaSequence adapts an encoding/fasta.Fasta into markerindex.Sequence
// by densely renumbering its named sequences as ReadIds in SeqNames()
// order.
type fastaSequence struct {
	f    fasta.Fasta
	name []string
}

func newFastaSequence(f fasta.Fasta) *fastaSequence {
	return &fastaSequence{f: f, name: f.SeqNames()}
}

func (s *fastaSequence) NumReads() int { return len(s.name) }

func (s *fastaSequence) OrientedSequence(o kmer.OrientedReadId) string {
	name := s.name[o.ReadId()]
	n, err := s.f.Len(name)
	if err != nil {
		log.Panicf("bio-assemble: %s: %v", name, err)
	}
	seq, err := s.f.Get(name, 0, n)
	if err != nil {
		log.Panicf("bio-assemble: %s: %v", name, err)
	}
	if o.Strand() == kmer.Forward {
		return seq
	}
	b := []byte(seq)
	biosimd.ReverseComp8Inplace(b)
	return string(b)
}

// fastqSequence holds every FASTQ record read eagerly into memory, the
// same eager-load strategy fastaSequence uses via fasta.Fasta's in-memory
// backing.
type fastqSequence []string

func readFastqSequence(r io.Reader) (fastqSequence, error) {
	scanner := fastq.NewScanner(r, fastq.Seq)
	var seqs fastqSequence
	var read fastq.Read
	for scanner.Scan(&read) {
		seqs = append(seqs, read.Seq)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return seqs, nil
}

func (s fastqSequence) NumReads() int { return len(s) }

func (s fastqSequence) OrientedSequence(o kmer.OrientedReadId) string {
	seq := s[o.ReadId()]
	if o.Strand() == kmer.Forward {
		return seq
	}
	b := []byte(seq)
	biosimd.ReverseComp8Inplace(b)
	return string(b)
}

func loadSequence(ctx context.Context, inputPath, fastaIndexPath string) (markerindex.Sequence, error) {
	in, err := file.Open(ctx, inputPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = in.Close(ctx) }()

	lower := strings.ToLower(inputPath)
	if strings.HasSuffix(lower, ".fastq") || strings.HasSuffix(lower, ".fq") {
		return readFastqSequence(in.Reader(ctx))
	}

	var opts []fasta.Opt
	if fastaIndexPath != "" {
		idxFile, err := file.Open(ctx, fastaIndexPath)
		if err != nil {
			return nil, err
		}
		defer func() { _ = idxFile.Close(ctx) }()
		index, err := ioutil.ReadAll(idxFile.Reader(ctx))
		if err != nil {
			return nil, err
		}
		opts = append(opts, fasta.OptIndex(index))
	}
	f, err := fasta.New(in.Reader(ctx), opts...)
	if err != nil {
		return nil, err
	}
	return newFastaSequence(f), nil
}

func main() {
	var (
		inputPath       = flag.String("input", "", "Path to a FASTA or FASTQ file of reads (required); format is chosen by extension")
		fastaIndexPath  = flag.String("fasta-index", "", "Optional fasta.OptIndex sidecar index for -input when it is FASTA (enables eager indexed lookups)")
		outPrefix       = flag.String("out", "bio-assemble", "Output path prefix")
		k               = flag.Int("k", assemble.DefaultOpts.K, "Marker k-mer length (must be odd)")
		density         = flag.Float64("marker-density", assemble.DefaultOpts.MarkerDensity, "Target fraction of k-mers selected as markers")
		minReadLen      = flag.Int("min-read-length", assemble.DefaultOpts.MinReadLength, "Reads shorter than this are discarded")
		nearPalindrome  = flag.Float64("near-palindrome-threshold", assemble.DefaultOpts.NearPalindromeThreshold, "Jaro-Winkler similarity to a read's own reverse complement above which it is discarded as near-palindromic; 0 disables")
		alignMethod     = flag.Int("align-method", int(assemble.DefaultOpts.Align.Method), "Pairwise alignment method (0=OrdinalBanded,1=BaseBanded,3=SparseDP,4=SparseDPRelaxed)")
		minCoverage     = flag.Int("min-coverage", assemble.DefaultOpts.MarkerGraph.MinCoverage, "Minimum marker graph vertex coverage")
		assemblyMode    = flag.Int("assembly-mode", int(assemble.DefaultOpts.Assembly.Mode), "Detangling mode (0=None,1=Diagonal,2=Mode3)")
		fastaWidth      = flag.Int("fasta-wrap", 60, "FASTA output line width; 0 disables wrapping")
		gzipOutput      = flag.Bool("gzip-output", false, "Write .gfa/.fasta outputs gzip-compressed (via zlibng) with a .gz suffix")
		threads         = flag.Int("threads", 0, "Concurrency bound; 0 = GOMAXPROCS")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -input reads.{fa,fastq} [options]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cleanup := grail.Init()
	defer cleanup()
	ctx := vcontext.Background()

	var stats memStats
	go func() {
		for {
			time.Sleep(500 * time.Millisecond)
			stats.update()
		}
	}()

	if *inputPath == "" {
		log.Fatal("bio-assemble: -input is required")
	}

	opts := assemble.DefaultOpts
	opts.K = *k
	opts.MarkerDensity = *density
	opts.MinReadLength = *minReadLen
	opts.NearPalindromeThreshold = *nearPalindrome
	opts.Align.Method = align.Method(*alignMethod)
	opts.MarkerGraph.MinCoverage = *minCoverage
	opts.Assembly.Mode = assemble.AssemblyMode(*assemblyMode)
	opts.Threads = *threads
	if opts.Threads > 0 {
		runtime.GOMAXPROCS(opts.Threads)
	}

	result, err := run(ctx, *inputPath, *fastaIndexPath, *outPrefix, *fastaWidth, *gzipOutput, opts)
	stats.update()
	log.Printf("MemStats: %s", stats.String())
	if err != nil {
		log.Printf("bio-assemble: %v", err)
		os.Exit(assemble.ExitCode(err))
	}
	log.Printf("bio-assemble: done: %d markers, %d segments", result.MarkerIndex.NumMarkers(), result.Stats.AssemblySegments)
}

func run(ctx context.Context, inputPath, fastaIndexPath, outPrefix string, fastaWidth int, gzipOutput bool, opts assemble.Opts) (*assemble.Result, error) {
	seqs, err := loadSequence(ctx, inputPath, fastaIndexPath)
	if err != nil {
		return nil, err
	}

	result, err := assemble.Run(ctx, seqs, opts)
	if err != nil {
		return result, err
	}

	if err := writeOutputs(ctx, outPrefix, fastaWidth, gzipOutput, result); err != nil {
		return result, err
	}
	return result, nil
}

// createOutput opens path (appending ".gz" and wrapping the stream in
// a zlibng gzip writer when gzipOutput is set) and returns its writer
// alongside a close func that flushes both the gzip stream and the
// underlying file, the same gzipFactory.create/Writer.Close pairing
// encoding/bgzf uses around its zlibng.Writer.
func createOutput(ctx context.Context, path string, gzipOutput bool) (io.Writer, func() error, error) {
	if gzipOutput {
		path += ".gz"
	}
	f, err := file.Create(ctx, path)
	if err != nil {
		return nil, nil, err
	}
	if !gzipOutput {
		return f.Writer(ctx), func() error { return f.Close(ctx) }, nil
	}
	gz, err := zlibng.NewWriter(f.Writer(ctx), zlibng.Opts{Level: 6})
	if err != nil {
		_ = f.Close(ctx)
		return nil, nil, err
	}
	return gz, func() error {
		if err := gz.Close(); err != nil {
			_ = f.Close(ctx)
			return err
		}
		return f.Close(ctx)
	}, nil
}

func writeOutputs(ctx context.Context, outPrefix string, fastaWidth int, gzipOutput bool, result *assemble.Result) error {
	gfaW, gfaClose, err := createOutput(ctx, outPrefix+".gfa", gzipOutput)
	if err != nil {
		return err
	}
	if err := output.WriteGFA(gfaW, result.AssemblyGraph); err != nil {
		return err
	}
	if err := gfaClose(); err != nil {
		return err
	}

	fastaW, fastaClose, err := createOutput(ctx, outPrefix+".fasta", gzipOutput)
	if err != nil {
		return err
	}
	if err := output.WriteFASTA(fastaW, result.AssemblyGraph, fastaWidth); err != nil {
		return err
	}
	if err := fastaClose(); err != nil {
		return err
	}

	lenHistOut, err := file.Create(ctx, outPrefix+".segment_lengths.tsv")
	if err != nil {
		return err
	}
	if err := output.WriteSegmentLengthHistogram(lenHistOut.Writer(ctx), result.AssemblyGraph); err != nil {
		return err
	}
	if err := lenHistOut.Close(ctx); err != nil {
		return err
	}

	covHistOut, err := file.Create(ctx, outPrefix+".marker_graph_coverage.tsv")
	if err != nil {
		return err
	}
	if err := output.WriteMarkerGraphCoverageHistogram(covHistOut.Writer(ctx), result.MarkerGraph); err != nil {
		return err
	}
	if err := covHistOut.Close(ctx); err != nil {
		return err
	}

	summary := output.Summarize(result.AssemblyGraph)
	log.Printf("bio-assemble: segments=%d totalBases=%d longest=%d N50=%d",
		summary.NumSegments, summary.TotalBases, summary.LongestBases, summary.N50Bases)
	return nil
}
