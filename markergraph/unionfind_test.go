package markergraph

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnionFindBasic(t *testing.T) {
	uf := newUnionFind(5)
	uf.union(0, 1)
	uf.union(1, 2)
	require.Equal(t, uf.find(0), uf.find(2))
	require.NotEqual(t, uf.find(0), uf.find(3))
}

func TestUnionFindConcurrentUnions(t *testing.T) {
	const n = 2000
	uf := newUnionFind(n)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := w; i+1 < n; i += 8 {
				uf.union(uint32(i), uint32(i+1))
			}
		}(w)
	}
	wg.Wait()
	root := uf.find(0)
	for i := 1; i < n; i++ {
		require.Equal(t, root, uf.find(uint32(i)), "element %d not merged into the single expected component", i)
	}
}

func TestRootsAndCoverage(t *testing.T) {
	uf := newUnionFind(6)
	uf.union(0, 1)
	uf.union(1, 2)
	uf.union(3, 4)
	roots, coverage := uf.rootsAndCoverage()
	require.Equal(t, roots[0], roots[1])
	require.Equal(t, roots[1], roots[2])
	require.Equal(t, roots[3], roots[4])
	require.Equal(t, 3, coverage[roots[0]])
	require.Equal(t, 2, coverage[roots[3]])
	require.Equal(t, 1, coverage[roots[5]])
}
