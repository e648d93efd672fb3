package assemblygraph

import (
	"github.com/grailbio/bio/consensus"
	"github.com/grailbio/bio/kmer"
	"github.com/grailbio/bio/markerindex"
)

// fragment returns the base sequence spanning markers[ord0] (inclusive)
// to markers[ord0+1] (exclusive) of oriented read o.
func fragment(seqs markerindex.Sequence, idx *markerindex.Index, o kmer.OrientedReadId, ord0 int) []byte {
	markers := idx.Markers(o)
	seq := seqs.OrientedSequence(o)
	start := int(markers[ord0].Position)
	end := int(markers[ord0+1].Position)
	if start < 0 || end > len(seq) || start >= end {
		return nil
	}
	return []byte(seq[start:end])
}

// repeatCountAt returns the homopolymer run length of frag starting at
// position i.
func repeatCountAt(frag []byte, i int) int {
	if i >= len(frag) {
		return 0
	}
	b := frag[i]
	n := 1
	for j := i + 1; j < len(frag) && frag[j] == b; j++ {
		n++
	}
	return n
}

// AssembleSequence fills in every live segment's Sequence and
// LengthBases (spec.md §4.8 "Sequence assembly per segment"). For each
// marker-graph edge of the segment, it collects every supporting
// oriented read's base fragment between the two flanking markers,
// truncates them all to the shortest fragment's length — following the
// same "shortest sequence used as consensus" fallback the original
// assembler uses when a full multiple-sequence alignment is skipped —
// and calls caller.CallConsensus column by column.
func AssembleSequence(g *Graph, seqs markerindex.Sequence, idx *markerindex.Index, caller consensus.Caller) {
	for _, seg := range g.segments {
		if seg.Removed {
			continue
		}
		var out []byte
		for _, ei := range seg.Edges {
			out = append(out, assembleEdge(g, seqs, idx, ei, caller)...)
		}
		seg.Sequence = out
		seg.LengthBases = len(out)
	}
}

func assembleEdge(g *Graph, seqs markerindex.Sequence, idx *markerindex.Index, edgeIdx int32, caller consensus.Caller) []byte {
	edge := g.mg.Edges()[edgeIdx]
	if len(edge.Intervals) == 0 {
		return nil
	}

	fragments := make([][]byte, 0, len(edge.Intervals))
	shortest := -1
	for _, iv := range edge.Intervals {
		f := fragment(seqs, idx, iv.OrientedReadId, iv.Ordinal0)
		if f == nil {
			continue
		}
		fragments = append(fragments, f)
		if shortest == -1 || len(f) < shortest {
			shortest = len(f)
		}
	}
	if shortest <= 0 {
		return nil
	}

	out := make([]byte, shortest)
	for col := 0; col < shortest; col++ {
		observations := make([]consensus.Observation, len(fragments))
		for i, f := range fragments {
			observations[i] = consensus.Observation{
				Base:        consensus.Base(f[col]),
				RepeatCount: repeatCountAt(f, col),
			}
		}
		base, _ := caller.CallConsensus(observations)
		out[col] = byte(base)
	}
	return out
}
