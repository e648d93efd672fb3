// Package consensus implements the ConsensusCaller collaborator interface
// (spec.md §6): given, for one column of an alignment, every supporting
// read's observed base and homopolymer repeat count, produce a single
// consensus (base, repeat count) pair.
package consensus

// Base is one of the four bases, or Gap for a column where a read has no
// base (an insertion/deletion site relative to the consensus).
type Base byte

const (
	A   Base = 'A'
	C   Base = 'C'
	G   Base = 'G'
	T   Base = 'T'
	Gap Base = '-'
)

// Observation is one read's contribution to an alignment column: the base
// it shows there, and the length of the homopolymer run that base
// belongs to on that read (spec.md §4.8 "a base + repeat count per
// column").
type Observation struct {
	Base        Base
	RepeatCount int
}

// Caller is the ConsensusCaller collaborator interface (spec.md §6):
// `callConsensus(alignedColumns) -> (Base, RepeatCount)`.
type Caller interface {
	CallConsensus(column []Observation) (Base, int)
}
