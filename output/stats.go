package output

import (
	"io"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/bio/assemblygraph"
	"github.com/grailbio/bio/markergraph"
)

// AssemblySummary holds the N50/longest/total statistics spec.md §6 asks
// summary output to carry.
type AssemblySummary struct {
	NumSegments int
	TotalBases  int64
	LongestBases int
	N50Bases    int
}

// Summarize computes AssemblySummary over g's live (non-Removed)
// segments.
func Summarize(g *assemblygraph.Graph) AssemblySummary {
	var lengths []int
	for _, seg := range g.Segments() {
		if seg.Removed {
			continue
		}
		lengths = append(lengths, seg.LengthBases)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(lengths)))

	var s AssemblySummary
	s.NumSegments = len(lengths)
	for _, l := range lengths {
		s.TotalBases += int64(l)
	}
	if len(lengths) > 0 {
		s.LongestBases = lengths[0]
	}
	half := s.TotalBases / 2
	var cum int64
	for _, l := range lengths {
		cum += int64(l)
		if cum >= half {
			s.N50Bases = l
			break
		}
	}
	return s
}

// WriteSegmentLengthHistogram writes a two-column TSV (length, count) over
// every live segment's LengthBases, the per-run companion to Summarize's
// aggregate N50/longest/total figures.
func WriteSegmentLengthHistogram(w io.Writer, g *assemblygraph.Graph) (err error) {
	hist := map[int]int{}
	for _, seg := range g.Segments() {
		if seg.Removed {
			continue
		}
		hist[seg.LengthBases]++
	}
	return writeIntHistogram(w, hist, "length_bases", "output.WriteSegmentLengthHistogram")
}

// WriteMarkerGraphCoverageHistogram writes a two-column TSV (coverage,
// count) over every surviving marker graph vertex's read coverage.
func WriteMarkerGraphCoverageHistogram(w io.Writer, mg *markergraph.Graph) (err error) {
	hist := map[int]int{}
	for v := markergraph.VertexId(0); int(v) < mg.NumVertices(); v++ {
		hist[mg.Coverage(v)]++
	}
	return writeIntHistogram(w, hist, "coverage", "output.WriteMarkerGraphCoverageHistogram")
}

func writeIntHistogram(w io.Writer, hist map[int]int, keyCol, op string) (err error) {
	tw := tsv.NewWriter(w)
	setErr := func(e error) {
		if e != nil && err == nil {
			err = errors.E(e, op)
		}
	}
	tw.WriteString(keyCol)
	tw.WriteString("count")
	setErr(tw.EndLine())

	keys := make([]int, 0, len(hist))
	for k := range hist {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	for _, k := range keys {
		tw.WriteInt64(int64(k))
		tw.WriteInt64(int64(hist[k]))
		setErr(tw.EndLine())
	}
	setErr(tw.Flush())
	return err
}
