// Package markerindex builds, for every oriented read, the ordered list of
// marker occurrences on that read (spec.md §4.2), plus the global dense
// MarkerId space used by every later stage to refer to one specific marker
// occurrence in O(1).
package markerindex

import (
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/bio/kmer"
)

// Index holds, for every OrientedReadId, its ordered marker list and a copy
// of that list sorted by KmerId (for alignment algorithms that enumerate
// common k-mers). Built once; read-only for the rest of the pipeline run
// (spec.md §5 "Shared state").
type Index struct {
	k int

	// markers[o] is the ordered-by-ordinal marker list of OrientedReadId o.
	markers [][]kmer.Marker

	// sortedByKmer[o] is markers[o] sorted by KmerId (ties broken by
	// ordinal), for common-k-mer enumeration during alignment.
	sortedByKmer [][]kmer.Marker

	// prefixSum[o] is the number of markers in oriented reads [0,o); its
	// last element is the total marker count. Used for the global MarkerId
	// <-> (OrientedReadId, ordinal) mapping.
	prefixSum []int64
}

// MarkerId is a global dense id assigned to every (OrientedReadId, ordinal)
// pair, in prefix-sum order (spec.md §3 "MarkerId").
type MarkerId int64

// Sequence is the minimal read-access surface Index needs: the base
// sequence of a read in the orientation selected by OrientedReadId.Strand().
// Collaborator FASTA/FASTQ readers implement this; markerindex never parses
// input itself (spec.md §1 non-goal).
type Sequence interface {
	// OrientedSequence returns the base sequence for the given
	// OrientedReadId, already reverse-complemented if Strand()==1.
	OrientedSequence(o kmer.OrientedReadId) string
	// NumReads returns the number of distinct (unoriented) reads.
	NumReads() int
}

// Build scans every oriented read of seqs (both strands of every read) and
// emits its marker list according to sel. Runs the per-read scan as a
// parallel-for with a barrier at the end, per spec.md §5's phase shape;
// concurrency is bounded by GOMAXPROCS (assemble.Opts.Threads).
func Build(seqs Sequence, sel *kmer.Selection) (*Index, error) {
	n := seqs.NumReads()
	numOriented := n * 2
	idx := &Index{
		k:            sel.K(),
		markers:      make([][]kmer.Marker, numOriented),
		sortedByKmer: make([][]kmer.Marker, numOriented),
	}

	err := traverse.Each(numOriented, func(i int) error {
		o := kmer.OrientedReadId(i)
		seq := seqs.OrientedSequence(o)
		ms, err := scanOne(seq, sel)
		if err != nil {
			return errors.E(err, "markerindex.Build", "orientedReadId", i)
		}
		idx.markers[i] = ms
		sorted := make([]kmer.Marker, len(ms))
		copy(sorted, ms)
		sort.Slice(sorted, func(a, b int) bool {
			if sorted[a].KmerId != sorted[b].KmerId {
				return sorted[a].KmerId < sorted[b].KmerId
			}
			return sorted[a].Ordinal < sorted[b].Ordinal
		})
		idx.sortedByKmer[i] = sorted
		return nil
	})
	if err != nil {
		return nil, err
	}

	idx.prefixSum = make([]int64, numOriented+1)
	for i, ms := range idx.markers {
		idx.prefixSum[i+1] = idx.prefixSum[i] + int64(len(ms))
	}
	return idx, nil
}

func scanOne(seq string, sel *kmer.Selection) ([]kmer.Marker, error) {
	var out []kmer.Marker
	s := kmer.NewScanner(sel.K(), seq)
	ordinal := uint32(0)
	for {
		pos, id, ok := s.Next()
		if !ok {
			break
		}
		if sel.Selected(id) {
			out = append(out, kmer.Marker{KmerId: id, Ordinal: ordinal, Position: uint32(pos)})
			ordinal++
		}
	}
	return out, nil
}

// Markers returns the ordinal-ordered marker list of o. The returned slice
// must not be mutated by the caller; it is shared read-only state.
func (idx *Index) Markers(o kmer.OrientedReadId) []kmer.Marker { return idx.markers[o.Index()] }

// SortedByKmer returns the KmerId-ordered marker list of o.
func (idx *Index) SortedByKmer(o kmer.OrientedReadId) []kmer.Marker {
	return idx.sortedByKmer[o.Index()]
}

// K returns the marker k-mer length this index was built with.
func (idx *Index) K() int { return idx.k }

// NumMarkers returns the total number of marker occurrences across every
// oriented read, i.e. the size of the global MarkerId space.
func (idx *Index) NumMarkers() int64 { return idx.prefixSum[len(idx.prefixSum)-1] }

// GetMarkerId returns the global MarkerId for (o, ordinal).
func (idx *Index) GetMarkerId(o kmer.OrientedReadId, ordinal int) MarkerId {
	return MarkerId(idx.prefixSum[o.Index()]) + MarkerId(ordinal)
}

// ReverseComplementMarkerId returns the MarkerId of the marker that is the
// reverse-complement counterpart of m. Marker selection is symmetric under
// reverse complementation (kmer.Selection.symmetrize), so the ordinal-th
// marker of oriented read o always corresponds to the
// (len(markers(o))-1-ordinal)-th marker of o's reverse complement
// (spec.md §3 "MarkerId... reverse-complement pairing").
func (idx *Index) ReverseComplementMarkerId(m MarkerId) MarkerId {
	o, ordinal := idx.FindMarkerId(m)
	rc := o.ReverseComplement()
	rcOrdinal := len(idx.markers[rc.Index()]) - 1 - ordinal
	return idx.GetMarkerId(rc, rcOrdinal)
}

// FindMarkerId is the inverse of GetMarkerId: given a global MarkerId, find
// the (OrientedReadId, ordinal) pair it denotes, by binary search over the
// prefix sum (spec.md §3 "Inverse lookup is by binary search").
func (idx *Index) FindMarkerId(m MarkerId) (kmer.OrientedReadId, int) {
	// sort.Search finds the first prefixSum[i] > int64(m); i-1 is then the
	// oriented read owning marker m.
	i := sort.Search(len(idx.prefixSum), func(i int) bool {
		return idx.prefixSum[i] > int64(m)
	})
	o := i - 1
	ordinal := int64(m) - idx.prefixSum[o]
	return kmer.OrientedReadId(o), int(ordinal)
}
