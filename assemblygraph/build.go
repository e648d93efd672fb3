package assemblygraph

import "github.com/grailbio/bio/markergraph"

// Build extracts segments from mg (spec.md §4.8): vertices with
// surviving in-degree!=1 or out-degree!=1 are assembly-graph vertices;
// from each one, every surviving outgoing marker-graph edge starts a
// maximal chain through in=out=1 vertices, forming one segment. "Surviving"
// here means not flagged WasRemovedByTransitiveReduction; the bubble and
// cross-edge flags set by markergraph/clean are left for AssembleSequence
// and detangling to interpret, not for degree computation.
func Build(mg *markergraph.Graph) *Graph {
	g := &Graph{
		mg:                mg,
		vertexOutSegments: make(map[markergraph.VertexId][]SegmentId),
		vertexInSegments:  make(map[markergraph.VertexId][]SegmentId),
	}

	isAssemblyVertex := make([]bool, mg.NumVertices())
	for v := 0; v < mg.NumVertices(); v++ {
		vid := markergraph.VertexId(v)
		out := survivingDegree(mg, mg.OutEdges(vid))
		in := survivingDegree(mg, mg.InEdges(vid))
		isAssemblyVertex[v] = out != 1 || in != 1
	}

	for v := 0; v < mg.NumVertices(); v++ {
		if !isAssemblyVertex[v] {
			continue
		}
		vid := markergraph.VertexId(v)
		for _, ei := range mg.OutEdges(vid) {
			if mg.Edges()[ei].WasRemovedByTransitiveReduction {
				continue
			}
			seg := walkSegment(mg, isAssemblyVertex, vid, ei)
			id := SegmentId(len(g.segments))
			g.segments = append(g.segments, seg)
			g.vertexOutSegments[seg.Source] = append(g.vertexOutSegments[seg.Source], id)
			g.vertexInSegments[seg.Target] = append(g.vertexInSegments[seg.Target], id)
		}
	}

	pairReverseComplementSegments(mg, g)
	return g
}

func survivingDegree(mg *markergraph.Graph, edgeIdxs []int32) int {
	n := 0
	for _, ei := range edgeIdxs {
		if !mg.Edges()[ei].WasRemovedByTransitiveReduction {
			n++
		}
	}
	return n
}

func walkSegment(mg *markergraph.Graph, isAssemblyVertex []bool, source markergraph.VertexId, firstEdge int32) *Segment {
	edges := []int32{firstEdge}
	cur := mg.Edges()[firstEdge].Target
	for !isAssemblyVertex[cur] {
		var next int32 = -1
		for _, ei := range mg.OutEdges(cur) {
			if !mg.Edges()[ei].WasRemovedByTransitiveReduction {
				next = ei
				break
			}
		}
		if next < 0 {
			break
		}
		edges = append(edges, next)
		cur = mg.Edges()[next].Target
	}
	return &Segment{Source: source, Target: cur, Edges: edges}
}

func pairReverseComplementSegments(mg *markergraph.Graph, g *Graph) {
	edgeListOf := make(map[string]SegmentId, len(g.segments))
	key := func(edges []int32) string {
		b := make([]byte, 0, len(edges)*4)
		for _, ei := range edges {
			b = append(b, byte(ei), byte(ei>>8), byte(ei>>16), byte(ei>>24))
		}
		return string(b)
	}
	for i, seg := range g.segments {
		edgeListOf[key(seg.Edges)] = SegmentId(i)
	}
	for i, seg := range g.segments {
		rcEdges := make([]int32, len(seg.Edges))
		ok := true
		for j, ei := range seg.Edges {
			rc := mg.ReverseComplementEdge(int(ei))
			if rc < 0 {
				ok = false
				break
			}
			rcEdges[len(seg.Edges)-1-j] = rc
		}
		if !ok {
			continue
		}
		if partner, found := edgeListOf[key(rcEdges)]; found {
			g.segments[i].ReverseComplementSegment = partner
		}
	}
}
