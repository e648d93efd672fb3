package markergraph

import (
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/bio/kmer"
)

// BuildEdges walks every oriented read's marker list in order and, for
// every consecutive pair of markers that both survived into vertices,
// emits a marker interval under the key (u,w) (spec.md §4.6 "Edge
// construction"). Per-oriented-read scans run in parallel, each
// appending to its own local output; a serial merge groups by (u,w) to
// form the final edge list, mirroring the "per-thread output vectors;
// parallel sort+merge" idiom of spec.md §5.
func (g *Graph) BuildEdges(numOrientedReads int) error {
	type localInterval struct {
		u, w     VertexId
		interval MarkerInterval
	}
	perOriented := make([][]localInterval, numOrientedReads)

	if err := traverse.Each(numOrientedReads, func(i int) error {
		o := kmer.OrientedReadId(i)
		markers := g.idx.Markers(o)
		var local []localInterval
		for ord := 0; ord+1 < len(markers); ord++ {
			m0 := g.idx.GetMarkerId(o, ord)
			m1 := g.idx.GetMarkerId(o, ord+1)
			u := g.VertexOf(m0)
			w := g.VertexOf(m1)
			if u == InvalidVertexId || w == InvalidVertexId {
				continue
			}
			local = append(local, localInterval{u: u, w: w, interval: MarkerInterval{OrientedReadId: o, Ordinal0: ord}})
		}
		perOriented[i] = local
		return nil
	}); err != nil {
		return errors.E(err, "markergraph.BuildEdges", "scanning oriented read marker transitions")
	}

	var all []localInterval
	for _, local := range perOriented {
		all = append(all, local...)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].u != all[j].u {
			return all[i].u < all[j].u
		}
		return all[i].w < all[j].w
	})

	var edges []*Edge
	edgeIndexOf := make(map[[2]VertexId]int32)
	for _, li := range all {
		key := [2]VertexId{li.u, li.w}
		idx, ok := edgeIndexOf[key]
		if !ok {
			idx = int32(len(edges))
			edges = append(edges, &Edge{Source: li.u, Target: li.w})
			edgeIndexOf[key] = idx
		}
		edges[idx].Intervals = append(edges[idx].Intervals, li.interval)
	}

	g.edges = edges
	g.outEdges = make([][]int32, len(g.coverage))
	g.inEdges = make([][]int32, len(g.coverage))
	for i, e := range edges {
		g.outEdges[e.Source] = append(g.outEdges[e.Source], int32(i))
		g.inEdges[e.Target] = append(g.inEdges[e.Target], int32(i))
	}

	g.reverseComplementEdge = make([]int32, len(edges))
	for i, e := range edges {
		rcKey := [2]VertexId{g.ReverseComplement(e.Target), g.ReverseComplement(e.Source)}
		if rcIdx, ok := edgeIndexOf[rcKey]; ok {
			g.reverseComplementEdge[i] = rcIdx
		} else {
			g.reverseComplementEdge[i] = -1
			log.Debug.Printf("markergraph.BuildEdges: edge %d (%d->%d) has no surviving reverse-complement edge", i, e.Source, e.Target)
		}
	}

	log.Debug.Printf("markergraph.BuildEdges: %d edges from %d oriented reads", len(edges), numOrientedReads)
	return nil
}
