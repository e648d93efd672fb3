package consensus

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestModalPicksMajority(t *testing.T) {
	column := []Observation{
		{Base: A, RepeatCount: 3},
		{Base: A, RepeatCount: 3},
		{Base: G, RepeatCount: 1},
	}
	base, count := Modal{}.CallConsensus(column)
	require.Equal(t, A, base)
	require.Equal(t, 3, count)
}

func TestMedianIsRobustToOutlierRepeatCount(t *testing.T) {
	column := []Observation{
		{Base: T, RepeatCount: 3},
		{Base: T, RepeatCount: 3},
		{Base: T, RepeatCount: 3},
		{Base: T, RepeatCount: 20},
	}
	base, count := Median{}.CallConsensus(column)
	require.Equal(t, T, base)
	require.Equal(t, 3, count)
}

func TestBayesianFallsBackToMajorityWithoutErrorModel(t *testing.T) {
	column := []Observation{
		{Base: C, RepeatCount: 2},
		{Base: C, RepeatCount: 2},
		{Base: C, RepeatCount: 2},
	}
	caller := Bayesian{Config: BayesianConfig{MaxRepeatCount: 5}}
	base, count := caller.CallConsensus(column)
	require.Equal(t, C, base)
	require.Equal(t, 2, count)
}
