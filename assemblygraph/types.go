// Package assemblygraph compresses a cleaned markergraph.Graph into
// segments (spec.md §4.8): a vertex of the assembly graph is a
// marker-graph vertex with in-degree!=1 or out-degree!=1 in the
// surviving subgraph; an edge ("segment") is a maximal chain of
// marker-graph edges whose internal vertices all have in=out=1.
package assemblygraph

import (
	"github.com/grailbio/bio/kmer"
	"github.com/grailbio/bio/markergraph"
)

// SegmentId is a dense id for an assembly graph segment.
type SegmentId int32

// ReadEntry is one oriented read's pseudo-path entry into a segment: the
// marker ordinal range over which it supports this segment (spec.md
// §4.8 "entry/exit ordinals").
type ReadEntry struct {
	OrientedReadId            kmer.OrientedReadId
	EntryOrdinal, ExitOrdinal int
}

// Segment is one assembly graph edge: a maximal directed chain of
// marker-graph edges between two branch vertices.
type Segment struct {
	Source, Target markergraph.VertexId
	// Edges is the ordered list of underlying marker-graph edge indices.
	Edges []int32
	// ReverseComplementSegment is this segment's strand partner.
	ReverseComplementSegment SegmentId
	// LengthBases is filled in by AssembleSequence.
	LengthBases int
	// Sequence is filled in by AssembleSequence.
	Sequence []byte
	// SupportingReads is the pseudo-path entry list (spec.md §4.8).
	SupportingReads []ReadEntry

	// Split/detangle bookkeeping: Removed marks a segment replaced by
	// detangling's split copies.
	Removed bool
}

// Graph is the compressed assembly graph over a markergraph.Graph.
type Graph struct {
	mg       *markergraph.Graph
	segments []*Segment
	// vertexOutSegments/vertexInSegments index segments by their branch
	// endpoints, for detangling and pseudo-path walks.
	vertexOutSegments map[markergraph.VertexId][]SegmentId
	vertexInSegments  map[markergraph.VertexId][]SegmentId
	// transitions memoizes transitionIndex(); built lazily on first
	// PseudoPath call.
	transitions map[orientedOrdinal]SegmentId
}

// Segments returns every segment, including ones flagged Removed by a
// detangling pass (callers that want only the live graph must filter).
func (g *Graph) Segments() []*Segment { return g.segments }

// SegmentAt returns the segment with the given id.
func (g *Graph) SegmentAt(id SegmentId) *Segment { return g.segments[id] }

// OutSegments returns the segment ids starting at v.
func (g *Graph) OutSegments(v markergraph.VertexId) []SegmentId { return g.vertexOutSegments[v] }

// InSegments returns the segment ids ending at v.
func (g *Graph) InSegments(v markergraph.VertexId) []SegmentId { return g.vertexInSegments[v] }
