// Package candidatepair implements the LowHash / MinHash-style screen that
// produces (read, read) candidate pairs likely to align (spec.md §4.3),
// without ever computing a full alignment.
package candidatepair

import (
	"math"
	"sync"

	"blainsmith.com/go/seahash"
	farm "github.com/dgryski/go-farm"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/bio/kmer"
	"github.com/grailbio/bio/markerindex"
	"github.com/minio/highwayhash"
)

// Opts configures the LowHash screen (spec.md §6 "minHash.{...}").
type Opts struct {
	// M is the number of consecutive marker k-mer ids that make up one
	// feature window.
	M int
	// HashFraction is the fraction f of the 64-bit hash space a feature's
	// hash must fall below to be retained.
	HashFraction float64
	// Iterations is I, the number of independent bucketing passes.
	Iterations int
	// BucketBits is B: reads are hashed into 2^B buckets per iteration.
	BucketBits int
	// MinFrequency is the minimum number of iterations two reads must
	// collide in a good bucket to become a candidate pair.
	MinFrequency int
	// MinBucketSize and MaxBucketSize bound what counts as a "good" bucket;
	// buckets outside the range are "sparse" or "crowded".
	MinBucketSize, MaxBucketSize int
}

// Pair is an unordered candidate read pair, spec.md §4.3 "(readId0<readId1,
// sameStrand)".
type Pair struct {
	ReadId0, ReadId1 kmer.ReadId
	SameStrand       bool
}

// Stats holds the per-read placement counters of spec.md §4.3.
type Stats struct {
	Sparse, Good, Crowded int
}

// Result is the output of Run: the candidate pairs (deduplicated) plus
// per-read statistics.
type Result struct {
	Pairs []Pair
	Stats []Stats // indexed by ReadId
}

var highwayKeyBase = [32]byte{} // zero key; a fixed, documented seed.

func hashIteration(iter int, feature []kmer.Id) uint64 {
	buf := make([]byte, 8*len(feature))
	for i, id := range feature {
		for b := 0; b < 8; b++ {
			buf[i*8+b] = byte(id >> (8 * b))
		}
	}
	switch iter % 3 {
	case 0:
		return farm.Hash64WithSeed(buf, uint64(iter))
	case 1:
		h := seahash.New()
		var seed [8]byte
		for b := 0; b < 8; b++ {
			seed[b] = byte(iter >> (8 * b))
		}
		h.Write(seed[:])
		h.Write(buf)
		return h.Sum64()
	default:
		key := highwayKeyBase
		key[0] = byte(iter)
		key[1] = byte(iter >> 8)
		h, _ := highwayhash.New64(key[:])
		h.Write(buf)
		return h.Sum64()
	}
}

// Run screens every pair of oriented reads of the same underlying read set
// sharing at least minFrequency good-bucket collisions across Iterations
// independent hashings. Both strands are treated symmetrically: feature
// windows are extracted from strand 0 and strand 1 alike, and collisions
// are counted per unordered pair of oriented reads (spec.md §4.3 "treat
// the two strands symmetrically").
// Concurrency is bounded by GOMAXPROCS, set once at process startup from
// assemble.Opts.Threads (spec.md §5 "fixed worker pool of size = configured
// thread count"); Run never spawns goroutines of its own outside
// traverse.Each's parallel-for.
func Run(idx *markerindex.Index, numReads int, opts Opts) (*Result, error) {
	threshold := uint64(opts.HashFraction * float64(math.MaxUint64))

	// candidateCounts[key] counts, across iterations, how many times the
	// unordered oriented pair collided in a good bucket.
	type key struct {
		a, b kmer.OrientedReadId
	}
	counts := make(map[key]int)
	var mu sync.Mutex

	stats := make([]Stats, numReads)
	var statsMu sync.Mutex

	for iter := 0; iter < opts.Iterations; iter++ {
		minHash := make([]uint64, numReads*2)
		haveFeature := make([]bool, numReads*2)
		for i := range minHash {
			minHash[i] = ^uint64(0)
		}

		// Each oriented read's minimum-below-threshold feature hash is
		// independent of every other's, so this is a plain parallel-for
		// with a barrier (spec.md §5 "data-parallel ... followed by a
		// barrier"); the bucket assignment below needs all of them at once
		// and so runs after the barrier completes.
		err := traverse.Each(numReads*2, func(o int) error {
			oriented := kmer.OrientedReadId(o)
			markers := idx.Markers(oriented)
			best := ^uint64(0)
			found := false
			feature := make([]kmer.Id, opts.M)
			for start := 0; start+opts.M <= len(markers); start++ {
				for j := 0; j < opts.M; j++ {
					feature[j] = markers[start+j].KmerId
				}
				h := hashIteration(iter, feature)
				if h >= threshold {
					continue
				}
				found = true
				if h < best {
					best = h
				}
			}
			minHash[o] = best
			haveFeature[o] = found
			return nil
		})
		if err != nil {
			return nil, err
		}

		buckets := make(map[uint64][]kmer.OrientedReadId)
		for o := 0; o < numReads*2; o++ {
			if !haveFeature[o] {
				continue
			}
			bucket := minHash[o] >> (64 - uint(opts.BucketBits))
			buckets[bucket] = append(buckets[bucket], kmer.OrientedReadId(o))
		}

		for _, members := range buckets {
			n := len(members)
			cls := classify(n, opts.MinBucketSize, opts.MaxBucketSize)
			statsMu.Lock()
			for _, o := range members {
				rid := o.ReadId()
				switch cls {
				case bucketSparse:
					stats[rid].Sparse++
				case bucketGood:
					stats[rid].Good++
				case bucketCrowded:
					stats[rid].Crowded++
				}
			}
			statsMu.Unlock()
			if cls != bucketGood {
				continue
			}
			mu.Lock()
			for i := 0; i < n; i++ {
				for j := i + 1; j < n; j++ {
					a, b := members[i], members[j]
					if a.ReadId() == b.ReadId() {
						continue
					}
					if a > b {
						a, b = b, a
					}
					counts[key{a, b}]++
				}
			}
			mu.Unlock()
		}
	}

	var pairs []Pair
	seen := make(map[Pair]bool)
	for k, c := range counts {
		if c < opts.MinFrequency {
			continue
		}
		r0, r1 := k.a.ReadId(), k.b.ReadId()
		sameStrand := k.a.Strand() == k.b.Strand()
		if r0 == r1 {
			continue
		}
		if r0 > r1 {
			r0, r1 = r1, r0
		}
		p := Pair{ReadId0: r0, ReadId1: r1, SameStrand: sameStrand}
		if !seen[p] {
			seen[p] = true
			pairs = append(pairs, p)
		}
	}
	log.Debug.Printf("candidatepair.Run: %d candidate pairs from %d iterations", len(pairs), opts.Iterations)
	return &Result{Pairs: pairs, Stats: stats}, nil
}

type bucketClass int

const (
	bucketSparse bucketClass = iota
	bucketGood
	bucketCrowded
)

func classify(size, min, max int) bucketClass {
	switch {
	case size < min:
		return bucketSparse
	case size > max:
		return bucketCrowded
	default:
		return bucketGood
	}
}
