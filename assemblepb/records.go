// Package assemblepb holds the persisted-record message types named in
// spec.md §6 ("Persisted state"). These are hand-authored in the shape
// `protoc --gogo_out` would produce (struct tags, Reset/String/
// ProtoMessage), since this environment never runs protoc; see
// DESIGN.md for why gogo/protobuf's reflection-based Marshal/Unmarshal is
// used instead of a generated Marshal method.
package assemblepb

import fmt "fmt"

// AlignmentInfoRecord is the persisted form of align.Info.
type AlignmentInfoRecord struct {
	OrientedReadId0 uint32 `protobuf:"varint,1,opt,name=oriented_read_id0,json=orientedReadId0" json:"oriented_read_id0,omitempty"`
	OrientedReadId1 uint32 `protobuf:"varint,2,opt,name=oriented_read_id1,json=orientedReadId1" json:"oriented_read_id1,omitempty"`
	MarkerCount     int32  `protobuf:"varint,3,opt,name=marker_count,json=markerCount" json:"marker_count,omitempty"`
	FirstOrdinal0   int32  `protobuf:"varint,4,opt,name=first_ordinal0,json=firstOrdinal0" json:"first_ordinal0,omitempty"`
	LastOrdinal0    int32  `protobuf:"varint,5,opt,name=last_ordinal0,json=lastOrdinal0" json:"last_ordinal0,omitempty"`
	FirstOrdinal1   int32  `protobuf:"varint,6,opt,name=first_ordinal1,json=firstOrdinal1" json:"first_ordinal1,omitempty"`
	LastOrdinal1    int32  `protobuf:"varint,7,opt,name=last_ordinal1,json=lastOrdinal1" json:"last_ordinal1,omitempty"`
	MaxSkip         int32  `protobuf:"varint,8,opt,name=max_skip,json=maxSkip" json:"max_skip,omitempty"`
	MaxDrift        int32  `protobuf:"varint,9,opt,name=max_drift,json=maxDrift" json:"max_drift,omitempty"`
	LeftTrim        int32  `protobuf:"varint,10,opt,name=left_trim,json=leftTrim" json:"left_trim,omitempty"`
	RightTrim       int32  `protobuf:"varint,11,opt,name=right_trim,json=rightTrim" json:"right_trim,omitempty"`
}

func (m *AlignmentInfoRecord) Reset()         { *m = AlignmentInfoRecord{} }
func (m *AlignmentInfoRecord) String() string { return fmt.Sprintf("%+v", *m) }
func (*AlignmentInfoRecord) ProtoMessage()    {}

// MarkerIntervalRecord is the persisted form of markergraph.MarkerInterval,
// keyed externally by its owning marker graph edge.
type MarkerIntervalRecord struct {
	OrientedReadId uint32 `protobuf:"varint,1,opt,name=oriented_read_id,json=orientedReadId" json:"oriented_read_id,omitempty"`
	Ordinal0       int32  `protobuf:"varint,2,opt,name=ordinal0" json:"ordinal0,omitempty"`
}

func (m *MarkerIntervalRecord) Reset()         { *m = MarkerIntervalRecord{} }
func (m *MarkerIntervalRecord) String() string { return fmt.Sprintf("%+v", *m) }
func (*MarkerIntervalRecord) ProtoMessage()    {}

// MarkerGraphVertexRecord is the persisted form of one marker graph
// vertex: its coverage and reverse-complement partner id.
type MarkerGraphVertexRecord struct {
	VertexId                int32 `protobuf:"varint,1,opt,name=vertex_id,json=vertexId" json:"vertex_id,omitempty"`
	Coverage                int32 `protobuf:"varint,2,opt,name=coverage" json:"coverage,omitempty"`
	ReverseComplementVertex int32 `protobuf:"varint,3,opt,name=reverse_complement_vertex,json=reverseComplementVertex" json:"reverse_complement_vertex,omitempty"`
}

func (m *MarkerGraphVertexRecord) Reset()         { *m = MarkerGraphVertexRecord{} }
func (m *MarkerGraphVertexRecord) String() string { return fmt.Sprintf("%+v", *m) }
func (*MarkerGraphVertexRecord) ProtoMessage()    {}

// MarkerGraphEdgeRecord is the persisted form of one marker graph edge.
type MarkerGraphEdgeRecord struct {
	Source                int32  `protobuf:"varint,1,opt,name=source" json:"source,omitempty"`
	Target                int32  `protobuf:"varint,2,opt,name=target" json:"target,omitempty"`
	Coverage              int32  `protobuf:"varint,3,opt,name=coverage" json:"coverage,omitempty"`
	ReverseComplementEdge int32  `protobuf:"varint,4,opt,name=reverse_complement_edge,json=reverseComplementEdge" json:"reverse_complement_edge,omitempty"`
	Flags                 uint32 `protobuf:"varint,5,opt,name=flags" json:"flags,omitempty"`
}

func (m *MarkerGraphEdgeRecord) Reset()         { *m = MarkerGraphEdgeRecord{} }
func (m *MarkerGraphEdgeRecord) String() string { return fmt.Sprintf("%+v", *m) }
func (*MarkerGraphEdgeRecord) ProtoMessage()    {}

// Marker graph edge flag bits packed into MarkerGraphEdgeRecord.Flags.
const (
	FlagWasRemovedByTransitiveReduction uint32 = 1 << iota
	FlagIsSuperBubbleEdge
	FlagIsLowCoverageCrossEdge
)

// AssemblySegmentRecord is the persisted form of one assembly graph
// segment.
type AssemblySegmentRecord struct {
	SegmentId                int32   `protobuf:"varint,1,opt,name=segment_id,json=segmentId" json:"segment_id,omitempty"`
	Source                   int32   `protobuf:"varint,2,opt,name=source" json:"source,omitempty"`
	Target                   int32   `protobuf:"varint,3,opt,name=target" json:"target,omitempty"`
	ReverseComplementSegment int32   `protobuf:"varint,4,opt,name=reverse_complement_segment,json=reverseComplementSegment" json:"reverse_complement_segment,omitempty"`
	LengthBases              int32   `protobuf:"varint,5,opt,name=length_bases,json=lengthBases" json:"length_bases,omitempty"`
	MarkerGraphEdges         []int32 `protobuf:"varint,6,rep,name=marker_graph_edges,json=markerGraphEdges" json:"marker_graph_edges,omitempty"`
}

// TableHeader is the small fixed-size header prefixed to every persisted
// table file (spec.md §6 "Each file is a raw buffer with a small header
// (magic, element size, element count)").
type TableHeader struct {
	Magic        uint32
	ElementSize  uint32
	ElementCount int64
}

func (m *AssemblySegmentRecord) Reset()         { *m = AssemblySegmentRecord{} }
func (m *AssemblySegmentRecord) String() string { return fmt.Sprintf("%+v", *m) }
func (*AssemblySegmentRecord) ProtoMessage()    {}
