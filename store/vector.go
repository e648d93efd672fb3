// Package store implements the persisted-table layer named in spec.md
// §6 ("Persisted state"): flat and ragged vectors of fixed-shape
// records, backed either by an in-memory slice (for tests and small
// inputs) or by a recordio+zstd file (encoding/pam's on-disk format,
// adapted here for assembler tables instead of SAM records).
//
// This module predates generics (the teacher pins go 1.14), so
// elements are carried as interface{} and converted through a Codec,
// the same way encoding/pam's fieldio package carries sam.Record
// fields through per-type Put/Get methods rather than a generic
// container.
package store

// Codec encodes and decodes one element of a Vector to and from its
// on-disk byte representation.
type Codec interface {
	Encode(v interface{}) []byte
	Decode(b []byte) interface{}
}

// Vector is an append-only sequence of fixed-shape records, e.g. the
// MarkerId table or the per-oriented-read alignment count table.
type Vector interface {
	Len() int
	Get(i int) interface{}
	Append(v interface{})
	// Close flushes any buffered data. It is a no-op for in-memory
	// vectors.
	Close() error
}

// RaggedVector is an append-only sequence of variable-length groups,
// e.g. the marker table (one variable-length list of markers per
// oriented read) or the marker graph edge's MarkerInterval list.
type RaggedVector interface {
	Len() int
	Get(i int) []interface{}
	Append(vs []interface{})
	Close() error
}

// memVector is the in-memory Vector implementation, used by tests and
// by callers that never intend to persist the table.
type memVector struct {
	items []interface{}
}

// NewMemVector creates an empty in-memory Vector.
func NewMemVector() Vector { return &memVector{} }

func (v *memVector) Len() int              { return len(v.items) }
func (v *memVector) Get(i int) interface{} { return v.items[i] }
func (v *memVector) Append(x interface{})  { v.items = append(v.items, x) }
func (v *memVector) Close() error          { return nil }

// memRaggedVector is the in-memory RaggedVector implementation.
type memRaggedVector struct {
	groups [][]interface{}
}

// NewMemRaggedVector creates an empty in-memory RaggedVector.
func NewMemRaggedVector() RaggedVector { return &memRaggedVector{} }

func (v *memRaggedVector) Len() int { return len(v.groups) }
func (v *memRaggedVector) Get(i int) []interface{} { return v.groups[i] }
func (v *memRaggedVector) Append(vs []interface{}) {
	v.groups = append(v.groups, vs)
}
func (v *memRaggedVector) Close() error { return nil }
