// Package markergraph builds the marker graph (spec.md §4.6): vertices
// are equivalence classes of MarkerIds merged by kept alignments, edges
// are consecutive-marker transitions on surviving vertices.
package markergraph

import (
	"github.com/grailbio/bio/kmer"
	"github.com/grailbio/bio/markerindex"
)

// VertexId is a dense id assigned to every surviving marker graph vertex,
// in strand-symmetric order (spec.md §4.6 "vertex v and its complement v'
// receive consecutive ids").
type VertexId int32

// InvalidVertexId marks "no vertex" (a marker whose containing root did
// not survive filtering).
const InvalidVertexId VertexId = -1

// MarkerInterval records that oriented read o's markers at consecutive
// ordinals (Ordinal0, Ordinal0+1) both survived into marker graph
// vertices (spec.md §4.6 "Edge construction").
type MarkerInterval struct {
	OrientedReadId kmer.OrientedReadId
	Ordinal0       int
}

// Edge is a marker graph edge (u,w): the set of (oriented read, ordinal)
// transitions observed between two surviving vertices.
type Edge struct {
	Source, Target VertexId
	Intervals      []MarkerInterval

	// Cleaning flags (spec.md §4.7); never mutated here, only by
	// markergraph/clean.
	WasRemovedByTransitiveReduction bool
	IsSuperBubbleEdge               bool
	IsLowCoverageCrossEdge          bool
}

// Coverage is the number of supporting marker intervals.
func (e *Edge) Coverage() int { return len(e.Intervals) }

// Graph is the built-and-filtered marker graph.
type Graph struct {
	idx *markerindex.Index

	// markerIdToVertex maps every global MarkerId to its surviving
	// VertexId, or InvalidVertexId if its root did not survive.
	markerIdToVertex []VertexId

	// reverseComplementVertex[v] is v's strand partner.
	reverseComplementVertex []VertexId

	// coverage[v] is the number of markers that collapsed into v.
	coverage []int

	edges                 []*Edge
	reverseComplementEdge []int32 // edges[i]'s reverse-complement edge index, or -1.
	outEdges, inEdges     [][]int32
}

// Index returns the markerindex.Index this graph was built from, for
// callers (e.g. assemblygraph) that need to walk an oriented read's
// marker ordinals directly.
func (g *Graph) Index() *markerindex.Index { return g.idx }

// NumVertices returns the number of surviving marker graph vertices.
func (g *Graph) NumVertices() int { return len(g.coverage) }

// VertexOf returns the VertexId for MarkerId m, or InvalidVertexId.
func (g *Graph) VertexOf(m markerindex.MarkerId) VertexId { return g.markerIdToVertex[m] }

// ReverseComplement returns v's strand partner.
func (g *Graph) ReverseComplement(v VertexId) VertexId { return g.reverseComplementVertex[v] }

// Coverage returns the number of markers that collapsed into v.
func (g *Graph) Coverage(v VertexId) int { return g.coverage[v] }

// Edges returns every marker graph edge.
func (g *Graph) Edges() []*Edge { return g.edges }

// OutEdges returns the indices into Edges() of v's outgoing edges.
func (g *Graph) OutEdges(v VertexId) []int32 { return g.outEdges[v] }

// InEdges returns the indices into Edges() of v's incoming edges.
func (g *Graph) InEdges(v VertexId) []int32 { return g.inEdges[v] }

// ReverseComplementEdge returns the reverse-complement edge index of
// edges[i], or -1 if unpaired (should not happen on a fully built graph).
func (g *Graph) ReverseComplementEdge(i int) int32 { return g.reverseComplementEdge[i] }
