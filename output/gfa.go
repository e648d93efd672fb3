// Package output renders an assembled assemblygraph.Graph as the
// ancillary, non-core outputs spec.md §6 names: a GFA 1.0 segment graph,
// optional per-segment FASTA, and summary statistics. None of this
// participates in assembly itself; it is pure presentation, grounded on
// encoding/fasta's plain-text writer conventions.
package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/bio/assemblygraph"
)

// WriteGFA writes g as a GFA 1.0 file: one S line per live (non-Removed)
// segment carrying its assembled sequence and length, and one L line per
// pair of segments that abut at a shared marker-graph vertex. Segment ids
// are written as-is; GFA's link orientation is always "+" to "+" since
// assemblygraph already keeps forward and reverse-complement segments as
// distinct ids rather than a single bidirected segment.
func WriteGFA(w io.Writer, g *assemblygraph.Graph) (err error) {
	bw := bufio.NewWriter(w)
	setErr := func(e error) {
		if e != nil && err == nil {
			err = errors.E(e, "output.WriteGFA")
		}
	}
	if _, e := fmt.Fprintf(bw, "H\tVN:Z:1.0\n"); e != nil {
		setErr(e)
	}
	for id, seg := range g.Segments() {
		if seg.Removed {
			continue
		}
		seq := "*"
		if len(seg.Sequence) > 0 {
			seq = string(seg.Sequence)
		}
		if _, e := fmt.Fprintf(bw, "S\t%d\t%s\tLN:i:%d\n", id, seq, seg.LengthBases); e != nil {
			setErr(e)
			continue
		}
	}
	for id, seg := range g.Segments() {
		if seg.Removed {
			continue
		}
		for _, next := range g.OutSegments(seg.Target) {
			if g.SegmentAt(next).Removed {
				continue
			}
			if _, e := fmt.Fprintf(bw, "L\t%d\t+\t%d\t+\t0M\n", id, next); e != nil {
				setErr(e)
			}
		}
	}
	setErr(bw.Flush())
	return err
}

// WriteFASTA writes one ">segment<id>" record per live segment's
// assembled sequence, wrapped at wrapWidth bases per line (0 disables
// wrapping), in the style samtools/bio-assemble's sibling FASTA readers
// expect.
func WriteFASTA(w io.Writer, g *assemblygraph.Graph, wrapWidth int) (err error) {
	bw := bufio.NewWriter(w)
	setErr := func(e error) {
		if e != nil && err == nil {
			err = errors.E(e, "output.WriteFASTA")
		}
	}
	for id, seg := range g.Segments() {
		if seg.Removed || len(seg.Sequence) == 0 {
			continue
		}
		if _, e := fmt.Fprintf(bw, ">segment%d length=%d\n", id, seg.LengthBases); e != nil {
			setErr(e)
			continue
		}
		seq := seg.Sequence
		if wrapWidth <= 0 {
			if _, e := bw.Write(seq); e != nil {
				setErr(e)
			}
			if e := bw.WriteByte('\n'); e != nil {
				setErr(e)
			}
			continue
		}
		for start := 0; start < len(seq); start += wrapWidth {
			end := start + wrapWidth
			if end > len(seq) {
				end = len(seq)
			}
			if _, e := bw.Write(seq[start:end]); e != nil {
				setErr(e)
			}
			if e := bw.WriteByte('\n'); e != nil {
				setErr(e)
			}
		}
	}
	setErr(bw.Flush())
	return err
}
