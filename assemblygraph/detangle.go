package assemblygraph

import (
	"sort"

	"github.com/grailbio/bio/markergraph"
)

// DetangleOpts configures diagonal detangling (spec.md §4.8
// "Detangling"); DetangleMode3 takes only a minimum read support.
type DetangleOpts struct {
	DiagonalReadCountMin     int
	OffDiagonalReadCountMax  int
	DetangleOffDiagonalRatio float64
}

// crossingTable[i][j] counts oriented reads whose pseudo-path enters
// segment s via predecessor i and leaves via successor j.
func (g *Graph) crossingTable(s SegmentId, predecessors, successors []SegmentId) [][]int {
	predIndex := make(map[SegmentId]int, len(predecessors))
	for i, p := range predecessors {
		predIndex[p] = i
	}
	succIndex := make(map[SegmentId]int, len(successors))
	for j, su := range successors {
		succIndex[su] = j
	}

	table := make([][]int, len(predecessors))
	for i := range table {
		table[i] = make([]int, len(successors))
	}

	seenReads := make(map[orientedOrdinal]bool)
	for _, ei := range g.segments[s].Edges {
		for _, iv := range g.mg.Edges()[ei].Intervals {
			key := orientedOrdinal{iv.OrientedReadId, -1}
			if seenReads[key] {
				continue
			}
			seenReads[key] = true
			path := g.PseudoPath(iv.OrientedReadId)
			for k, entry := range path {
				if entry.Segment != s {
					continue
				}
				if k == 0 || k == len(path)-1 {
					continue
				}
				pi, pok := predIndex[path[k-1].Segment]
				sj, sok := succIndex[path[k+1].Segment]
				if pok && sok {
					table[pi][sj]++
				}
			}
		}
	}
	return table
}

// DetangleDiagonal implements spec.md §4.8's diagonal detangling: where a
// segment has multiple predecessors and multiple successors and the
// oriented-read crossing table shows strong diagonal support, split the
// segment, merging predecessor i + segment + successor i into one new
// segment and retiring the three originals. Segment counts that are not
// equal, or that fail the diagonal-strength thresholds, are left alone.
func (g *Graph) DetangleDiagonal(opts DetangleOpts) int {
	splitCount := 0
	for sid := range g.segments {
		s := SegmentId(sid)
		if g.segments[sid].Removed {
			continue
		}
		predecessors := g.InSegments(g.segments[sid].Source)
		successors := g.OutSegments(g.segments[sid].Target)
		if len(predecessors) < 2 || len(successors) < 2 || len(predecessors) != len(successors) {
			continue
		}
		table := g.crossingTable(s, predecessors, successors)
		if !isDiagonal(table, opts) {
			continue
		}
		for i := range predecessors {
			g.mergeChain(predecessors[i], s, successors[i])
		}
		splitCount++
	}
	return splitCount
}

func isDiagonal(table [][]int, opts DetangleOpts) bool {
	n := len(table)
	for i := 0; i < n; i++ {
		diag := table[i][i]
		if diag < opts.DiagonalReadCountMin {
			return false
		}
		for j := 0; j < n; j++ {
			if j == i {
				continue
			}
			if table[i][j] > opts.OffDiagonalReadCountMax {
				return false
			}
		}
		if float64(diag) < opts.DetangleOffDiagonalRatio*float64(maxOffDiagonal(table, i)+1) {
			return false
		}
	}
	return true
}

func maxOffDiagonal(table [][]int, row int) int {
	m := 0
	for j, v := range table[row] {
		if j == row {
			continue
		}
		if v > m {
			m = v
		}
	}
	return m
}

// DetangleMode3 implements the original assembler's read-support-based
// detangling (AssemblerMode3.cpp): rather than requiring a strict square
// diagonal, it greedily matches each predecessor to the successor it
// shares the most pseudo-path-confirmed reads with, merging matched
// triples and leaving any predecessor or successor with no strong match
// untouched.
func (g *Graph) DetangleMode3(minReadSupport int) int {
	mergedCount := 0
	for sid := range g.segments {
		s := SegmentId(sid)
		if g.segments[sid].Removed {
			continue
		}
		predecessors := g.InSegments(g.segments[sid].Source)
		successors := g.OutSegments(g.segments[sid].Target)
		if len(predecessors) < 2 || len(successors) < 2 {
			continue
		}
		table := g.crossingTable(s, predecessors, successors)

		type candidate struct{ i, j, count int }
		var candidates []candidate
		for i := range predecessors {
			for j := range successors {
				if table[i][j] >= minReadSupport {
					candidates = append(candidates, candidate{i, j, table[i][j]})
				}
			}
		}
		sort.Slice(candidates, func(a, b int) bool { return candidates[a].count > candidates[b].count })

		usedPred := make(map[int]bool)
		usedSucc := make(map[int]bool)
		for _, c := range candidates {
			if usedPred[c.i] || usedSucc[c.j] {
				continue
			}
			usedPred[c.i] = true
			usedSucc[c.j] = true
			g.mergeChain(predecessors[c.i], s, successors[c.j])
			mergedCount++
		}
	}
	return mergedCount
}

// mergeChain replaces predecessor -> middle -> successor with one new
// segment spanning all three, retiring the originals. The middle may
// already have been retired by an earlier merge of the same split; its
// edges are copied into every merged segment.
func (g *Graph) mergeChain(predecessor, middle, successor SegmentId) {
	p := g.segments[predecessor]
	m := g.segments[middle]
	su := g.segments[successor]
	if p.Removed || su.Removed {
		return
	}

	merged := &Segment{Source: p.Source, Target: su.Target}
	merged.Edges = append(merged.Edges, p.Edges...)
	merged.Edges = append(merged.Edges, m.Edges...)
	merged.Edges = append(merged.Edges, su.Edges...)

	id := SegmentId(len(g.segments))
	g.segments = append(g.segments, merged)
	g.vertexOutSegments[merged.Source] = append(g.vertexOutSegments[merged.Source], id)
	g.vertexInSegments[merged.Target] = append(g.vertexInSegments[merged.Target], id)

	p.Removed, m.Removed, su.Removed = true, true, true
	g.removeSegmentRef(g.vertexOutSegments, p.Source, predecessor)
	g.removeSegmentRef(g.vertexInSegments, p.Target, predecessor)
	g.removeSegmentRef(g.vertexOutSegments, m.Source, middle)
	g.removeSegmentRef(g.vertexInSegments, m.Target, middle)
	g.removeSegmentRef(g.vertexOutSegments, su.Source, successor)
	g.removeSegmentRef(g.vertexInSegments, su.Target, successor)
}

func (g *Graph) removeSegmentRef(index map[markergraph.VertexId][]SegmentId, v markergraph.VertexId, target SegmentId) {
	ids := index[v]
	for i, id := range ids {
		if id == target {
			index[v] = append(ids[:i], ids[i+1:]...)
			return
		}
	}
}
