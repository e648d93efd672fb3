package readgraph

import (
	"context"
	"testing"

	"github.com/grailbio/bio/align"
	"github.com/grailbio/bio/kmer"
	"github.com/stretchr/testify/require"
)

func fwd(id kmer.ReadId) kmer.OrientedReadId { return kmer.Pack(id, kmer.Forward) }

func mkInfo(a, b kmer.OrientedReadId, markerCount, firstOrd0, firstOrd1 int) *align.Info {
	return &align.Info{
		OrientedReadId0: a,
		OrientedReadId1: b,
		MarkerCount:     markerCount,
		FirstOrdinal0:   firstOrd0,
		FirstOrdinal1:   firstOrd1,
		Matched:         []align.MatchedOrdinal{{Ord0: firstOrd0, Ord1: firstOrd1}},
	}
}

func TestBuildKeepsSymmetricEdges(t *testing.T) {
	infos := []*align.Info{
		mkInfo(fwd(0), fwd(1), 10, 0, 0),
		mkInfo(fwd(1), fwd(2), 10, 0, 0),
	}
	g := Build(3, infos, 0, false)
	require.Len(t, g.Edges(), 2)
	require.Len(t, g.Neighbors(fwd(1)), 2)
}

func TestBuildRespectsMaxAlignmentCount(t *testing.T) {
	infos := []*align.Info{
		mkInfo(fwd(0), fwd(1), 20, 0, 0),
		mkInfo(fwd(0), fwd(2), 5, 0, 0),
	}
	g := Build(3, infos, 1, false)
	require.Len(t, g.Edges(), 1)
	require.Equal(t, fwd(1), g.Edges()[0].OrientedReadId1)
}

func TestFlagChimerasSeparatesStrands(t *testing.T) {
	infos := []*align.Info{
		mkInfo(fwd(0), fwd(1), 10, 0, 0),
	}
	g := Build(2, infos, 0, false)
	g.FlagChimeras(3)
	require.True(t, g.IsChimeric(0))
	require.True(t, g.IsChimeric(1))
}

func TestExcludeSmallComponents(t *testing.T) {
	infos := []*align.Info{
		mkInfo(fwd(0), fwd(1), 10, 0, 0),
	}
	g := Build(4, infos, 0, false)
	g.ExcludeSmallComponents(3)
	require.True(t, g.IsExcluded(0))
	require.True(t, g.IsExcluded(1))
	require.False(t, g.IsExcluded(2))
}

func TestFlagBridgesMarksSoleConnection(t *testing.T) {
	infos := []*align.Info{
		mkInfo(fwd(0), fwd(1), 10, 0, 0),
		mkInfo(fwd(1), fwd(2), 10, 0, 0),
	}
	g := Build(3, infos, 0, false)
	g.FlagBridges(2)
	for _, e := range g.Edges() {
		require.True(t, e.Bridge)
	}
}

func TestFlagInconsistentAlignmentsDetectsResidual(t *testing.T) {
	infos := []*align.Info{
		mkInfo(fwd(0), fwd(1), 10, 0, 5),
		mkInfo(fwd(1), fwd(2), 10, 0, 5),
		mkInfo(fwd(0), fwd(2), 10, 0, 100),
	}
	g := Build(3, infos, 0, true)
	g.FlagInconsistentAlignments(1)
	var flagged int
	for _, e := range g.Edges() {
		if e.Inconsistent {
			flagged++
		}
	}
	require.Greater(t, flagged, 0)
}

func TestBuildAlignmentConsistencyGraphFindsContradiction(t *testing.T) {
	infos := []*align.Info{
		mkInfo(fwd(0), fwd(1), 10, 0, 5),
		mkInfo(fwd(1), fwd(2), 10, 0, 5),
		mkInfo(fwd(0), fwd(2), 10, 0, 100),
	}
	triples := BuildAlignmentConsistencyGraph(3, infos, 1)
	require.NotEmpty(t, triples)
}

func TestExtractLocalSubgraphRespectsContextCancellation(t *testing.T) {
	infos := []*align.Info{
		mkInfo(fwd(0), fwd(1), 10, 0, 0),
		mkInfo(fwd(1), fwd(2), 10, 0, 0),
	}
	g := Build(3, infos, 0, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sub := g.ExtractLocalSubgraph(ctx, fwd(0), 5)
	require.True(t, sub.Truncated)

	sub2 := g.ExtractLocalSubgraph(context.Background(), fwd(0), 5)
	require.False(t, sub2.Truncated)
	require.NotEmpty(t, sub2.Vertices)
}
