// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package biosimd_test

import (
	"bytes"
	"math/rand"
	"runtime"
	"testing"

	"github.com/grailbio/base/simd"
	"github.com/grailbio/bio/biosimd"
)

/*
Initial benchmark results:
  MacBook Pro (15-inch, 2016)
  2.7 GHz Intel Core i7, 16 GB 2133 MHz LPDDR3

Benchmark_CleanASCIISeqShort1-8               20          95413137 ns/op
Benchmark_CleanASCIISeqShort4-8               50          26567655 ns/op
Benchmark_CleanASCIISeqShortMax-8            100          24327826 ns/op
Benchmark_CleanASCIISeqLong1-8                 1        1533053583 ns/op
Benchmark_CleanASCIISeqLong4-8                 1        1982245778 ns/op
Benchmark_CleanASCIISeqLongMax-8               1        2781139905 ns/op

Benchmark_ASCIIToSeq8Short1-8                 10         108897260 ns/op
Benchmark_ASCIIToSeq8Short4-8                 50          30240106 ns/op
Benchmark_ASCIIToSeq8ShortMax-8               50          28269450 ns/op
Benchmark_ASCIIToSeq8Long1-8                   1        2042849647 ns/op
Benchmark_ASCIIToSeq8Long4-8                   1        2866563421 ns/op
Benchmark_ASCIIToSeq8LongMax-8                 1        4069479778 ns/op

Benchmark_IsNonACGTSeqShort1-8                20          68965449 ns/op
Benchmark_IsNonACGTSeqShort4-8               100          19292183 ns/op
Benchmark_IsNonACGTSeqShortMax-8             100          19445680 ns/op
Benchmark_IsNonACGTSeqLong1-8                  2         570726956 ns/op
Benchmark_IsNonACGTSeqLong4-8                  1        1011456304 ns/op
Benchmark_IsNonACGTSeqLongMax-8                1        1498684970 ns/op

For comparison, cleanASCIISeqSlow:
Benchmark_CleanASCIISeqShort1-8                3         450481328 ns/op
Benchmark_CleanASCIISeqShort4-8               10         122691751 ns/op
Benchmark_CleanASCIISeqShortMax-8             10         158868958 ns/op
Benchmark_CleanASCIISeqLong1-8                 1        6094399462 ns/op
Benchmark_CleanASCIISeqLong4-8                 1        4005568728 ns/op
Benchmark_CleanASCIISeqLongMax-8               1        3286359547 ns/op

asciiToSeq8Slow:
Benchmark_ASCIIToSeq8Short1-8                  2         534821999 ns/op
Benchmark_ASCIIToSeq8Short4-8                 10         145672279 ns/op
Benchmark_ASCIIToSeq8ShortMax-8               10         133403902 ns/op
Benchmark_ASCIIToSeq8Long1-8                   1        8159363086 ns/op
Benchmark_ASCIIToSeq8Long4-8                   1        3625222422 ns/op
Benchmark_ASCIIToSeq8LongMax-8                 1        4613796268 ns/op

isNonACGTPresentSlow:
Benchmark_IsNonACGTSeqShort1-8                 5         311237808 ns/op
Benchmark_IsNonACGTSeqShort4-8                20          87487932 ns/op
Benchmark_IsNonACGTSeqShortMax-8              20          68635003 ns/op
Benchmark_IsNonACGTSeqLong1-8                  1        3158281885 ns/op
Benchmark_IsNonACGTSeqLong4-8                  1        2215643228 ns/op
Benchmark_IsNonACGTSeqLongMax-8                1        2045172556 ns/op
*/

func cleanASCIISeqSubtask(ascii8 []byte, nIter int) int {
	for iter := 0; iter < nIter; iter++ {
		biosimd.CleanASCIISeqInplace(ascii8)
	}
	return int(ascii8[0])
}

func cleanASCIISeqSubtaskFuture(ascii8 []byte, nIter int) chan int {
	future := make(chan int)
	go func() { future <- cleanASCIISeqSubtask(ascii8, nIter) }()
	return future
}

func multiCleanASCIISeq(ascii8s [][]byte, cpus int, nJob int) {
	sumFutures := make([]chan int, cpus)
	shardSizeBase := nJob / cpus
	shardRemainder := nJob - shardSizeBase*cpus
	shardSizeP1 := shardSizeBase + 1
	var taskIdx int
	for ; taskIdx < shardRemainder; taskIdx++ {
		sumFutures[taskIdx] = cleanASCIISeqSubtaskFuture(ascii8s[taskIdx], shardSizeP1)
	}
	for ; taskIdx < cpus; taskIdx++ {
		sumFutures[taskIdx] = cleanASCIISeqSubtaskFuture(ascii8s[taskIdx], shardSizeBase)
	}
	var sum int
	for taskIdx = 0; taskIdx < cpus; taskIdx++ {
		sum += <-sumFutures[taskIdx]
	}
}

func benchmarkCleanASCIISeq(cpus int, nByte int, nJob int, b *testing.B) {
	if cpus > runtime.NumCPU() {
		b.Skipf("only have %v cpus", runtime.NumCPU())
	}

	ascii8Slices := make([][]byte, cpus)
	for ii := range ascii8Slices {
		// Add 63 to prevent false sharing.
		newArr := simd.MakeUnsafe(nByte + 63)
		for jj := 0; jj < nByte; jj++ {
			newArr[jj] = byte(jj * 3)
		}
		ascii8Slices[ii] = newArr[:nByte]
	}
	for i := 0; i < b.N; i++ {
		multiCleanASCIISeq(ascii8Slices, cpus, nJob)
	}
}

func Benchmark_CleanASCIISeqShort1(b *testing.B) {
	benchmarkCleanASCIISeq(1, 75, 9999999, b)
}

func Benchmark_CleanASCIISeqShort4(b *testing.B) {
	benchmarkCleanASCIISeq(4, 75, 9999999, b)
}

func Benchmark_CleanASCIISeqShortMax(b *testing.B) {
	benchmarkCleanASCIISeq(runtime.NumCPU(), 75, 9999999, b)
}

func Benchmark_CleanASCIISeqLong1(b *testing.B) {
	benchmarkCleanASCIISeq(1, 249250621, 50, b)
}

func Benchmark_CleanASCIISeqLong4(b *testing.B) {
	benchmarkCleanASCIISeq(4, 249250621, 50, b)
}

func Benchmark_CleanASCIISeqLongMax(b *testing.B) {
	benchmarkCleanASCIISeq(runtime.NumCPU(), 249250621, 50, b)
}

var cleanASCIISeqTable = [...]byte{
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'A', 'N', 'C', 'N', 'N', 'N', 'G', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'T', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'A', 'N', 'C', 'N', 'N', 'N', 'G', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'T', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N'}

func cleanASCIISeqSlow(ascii8 []byte) {
	for pos, ascii8Byte := range ascii8 {
		ascii8[pos] = cleanASCIISeqTable[ascii8Byte]
	}
}

func TestCleanASCIISeq(t *testing.T) {
	maxSize := 500
	nIter := 200
	main1Arr := simd.MakeUnsafe(maxSize)
	main2Arr := simd.MakeUnsafe(maxSize)
	for iter := 0; iter < nIter; iter++ {
		sliceStart := rand.Intn(maxSize)
		sliceEnd := sliceStart + rand.Intn(maxSize-sliceStart)
		main1Slice := main1Arr[sliceStart:sliceEnd]
		main2Slice := main2Arr[sliceStart:sliceEnd]
		for ii := range main1Slice {
			main1Slice[ii] = byte(rand.Intn(256))
		}
		copy(main2Slice, main1Slice)
		sentinel := byte(rand.Intn(256))
		main2Arr[sliceEnd] = sentinel
		biosimd.CleanASCIISeqInplace(main2Slice)
		cleanASCIISeqSlow(main1Slice)
		if !bytes.Equal(main1Slice, main2Slice) {
			t.Fatal("Mismatched CleanASCIISeqInplace result.")
		}
		if main2Arr[sliceEnd] != sentinel {
			t.Fatal("CleanASCIISeqInplace clobbered an extra byte.")
		}
	}
}

var cleanASCIISeqNoCapitalizeTable = [...]byte{
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'A', 'N', 'C', 'N', 'N', 'N', 'G', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'T', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'a', 'N', 'c', 'N', 'N', 'N', 'g', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 't', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N',
	'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N', 'N'}

func cleanASCIISeqNoCapitalizeSlow(ascii8 []byte) {
	for pos, ascii8Byte := range ascii8 {
		ascii8[pos] = cleanASCIISeqNoCapitalizeTable[ascii8Byte]
	}
}

func TestCleanASCIISeqNoCapitalize(t *testing.T) {
	maxSize := 500
	nIter := 200
	main1Arr := simd.MakeUnsafe(maxSize)
	main2Arr := simd.MakeUnsafe(maxSize)
	for iter := 0; iter < nIter; iter++ {
		sliceStart := rand.Intn(maxSize)
		sliceEnd := sliceStart + rand.Intn(maxSize-sliceStart)
		main1Slice := main1Arr[sliceStart:sliceEnd]
		main2Slice := main2Arr[sliceStart:sliceEnd]
		for ii := range main1Slice {
			main1Slice[ii] = byte(rand.Intn(256))
		}
		copy(main2Slice, main1Slice)
		sentinel := byte(rand.Intn(256))
		main2Arr[sliceEnd] = sentinel
		biosimd.CleanASCIISeqNoCapitalizeInplace(main2Slice)
		cleanASCIISeqNoCapitalizeSlow(main1Slice)
		if !bytes.Equal(main1Slice, main2Slice) {
			t.Fatal("Mismatched CleanASCIISeqNoCapitalizeInplace result.")
		}
		if main2Arr[sliceEnd] != sentinel {
			t.Fatal("CleanASCIISeqNoCapitalizeInplace clobbered an extra byte.")
		}
	}
}

func asciiToSeq8Subtask(dst, src []byte, nIter int) int {
	for iter := 0; iter < nIter; iter++ {
		biosimd.ASCIIToSeq8(dst, src)
	}
	return int(dst[0])
}

func asciiToSeq8SubtaskFuture(dst, src []byte, nIter int) chan int {
	future := make(chan int)
	go func() { future <- asciiToSeq8Subtask(dst, src, nIter) }()
	return future
}

func multiASCIIToSeq8(dsts, srcs [][]byte, cpus int, nJob int) {
	sumFutures := make([]chan int, cpus)
	shardSizeBase := nJob / cpus
	shardRemainder := nJob - shardSizeBase*cpus
	shardSizeP1 := shardSizeBase + 1
	var taskIdx int
	for ; taskIdx < shardRemainder; taskIdx++ {
		sumFutures[taskIdx] = asciiToSeq8SubtaskFuture(dsts[taskIdx], srcs[taskIdx], shardSizeP1)
	}
	for ; taskIdx < cpus; taskIdx++ {
		sumFutures[taskIdx] = asciiToSeq8SubtaskFuture(dsts[taskIdx], srcs[taskIdx], shardSizeBase)
	}
	var sum int
	for taskIdx = 0; taskIdx < cpus; taskIdx++ {
		sum += <-sumFutures[taskIdx]
	}
}

func benchmarkASCIIToSeq8(cpus int, nByte int, nJob int, b *testing.B) {
	if cpus > runtime.NumCPU() {
		b.Skipf("only have %v cpus", runtime.NumCPU())
	}

	srcSlices := make([][]byte, cpus)
	dstSlices := make([][]byte, cpus)
	for ii := range srcSlices {
		// Add 63 to prevent false sharing.
		newArr := simd.MakeUnsafe(nByte + 63)
		for jj := 0; jj < nByte; jj++ {
			newArr[jj] = byte(jj * 3)
		}
		srcSlices[ii] = newArr[:nByte]
		newArr = simd.MakeUnsafe(nByte + 63)
		dstSlices[ii] = newArr[:nByte]
	}
	for i := 0; i < b.N; i++ {
		multiASCIIToSeq8(dstSlices, srcSlices, cpus, nJob)
	}
}

func Benchmark_ASCIIToSeq8Short1(b *testing.B) {
	benchmarkASCIIToSeq8(1, 75, 9999999, b)
}

func Benchmark_ASCIIToSeq8Short4(b *testing.B) {
	benchmarkASCIIToSeq8(4, 75, 9999999, b)
}

func Benchmark_ASCIIToSeq8ShortMax(b *testing.B) {
	benchmarkASCIIToSeq8(runtime.NumCPU(), 75, 9999999, b)
}

func Benchmark_ASCIIToSeq8Long1(b *testing.B) {
	benchmarkASCIIToSeq8(1, 249250621, 50, b)
}

func Benchmark_ASCIIToSeq8Long4(b *testing.B) {
	benchmarkASCIIToSeq8(4, 249250621, 50, b)
}

func Benchmark_ASCIIToSeq8LongMax(b *testing.B) {
	benchmarkASCIIToSeq8(runtime.NumCPU(), 249250621, 50, b)
}

var asciiToSeq8Table = [...]byte{
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 1, 15, 2, 15, 15, 15, 4, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 8, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 1, 15, 2, 15, 15, 15, 4, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 8, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15,
	15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15, 15}

func asciiToSeq8Slow(dst, src []byte) {
	for pos, srcByte := range src {
		dst[pos] = asciiToSeq8Table[srcByte]
	}
}

func TestASCIIToSeq8(t *testing.T) {
	maxSize := 500
	nIter := 200
	srcArr := simd.MakeUnsafe(maxSize)
	main1Arr := simd.MakeUnsafe(maxSize)
	main2Arr := simd.MakeUnsafe(maxSize)
	for iter := 0; iter < nIter; iter++ {
		sliceStart := rand.Intn(maxSize)
		sliceEnd := sliceStart + rand.Intn(maxSize-sliceStart)
		srcSlice := srcArr[sliceStart:sliceEnd]
		main1Slice := main1Arr[sliceStart:sliceEnd]
		main2Slice := main2Arr[sliceStart:sliceEnd]
		for ii := range srcSlice {
			srcSlice[ii] = byte(rand.Intn(256))
		}
		sentinel := byte(rand.Intn(256))
		main2Arr[sliceEnd] = sentinel
		biosimd.ASCIIToSeq8(main2Slice, srcSlice)
		asciiToSeq8Slow(main1Slice, srcSlice)
		if !bytes.Equal(main1Slice, main2Slice) {
			t.Fatal("Mismatched ASCIIToSeq8 result.")
		}
		if main2Arr[sliceEnd] != sentinel {
			t.Fatal("ASCIIToSeq8 clobbered an extra byte.")
		}
	}
}

func isNonACGTSubtask(ascii8 []byte, nIter int) int {
	result := true
	for iter := 0; iter < nIter; iter++ {
		result = result && biosimd.IsNonACGTPresent(ascii8)
	}
	if result {
		return int(ascii8[0])
	}
	return int(ascii8[1])
}

func isNonACGTSubtaskFuture(ascii8 []byte, nIter int) chan int {
	future := make(chan int)
	go func() { future <- isNonACGTSubtask(ascii8, nIter) }()
	return future
}

func multiIsNonACGTSeq(ascii8s [][]byte, cpus int, nJob int) {
	sumFutures := make([]chan int, cpus)
	shardSizeBase := nJob / cpus
	shardRemainder := nJob - shardSizeBase*cpus
	shardSizeP1 := shardSizeBase + 1
	var taskIdx int
	for ; taskIdx < shardRemainder; taskIdx++ {
		sumFutures[taskIdx] = isNonACGTSubtaskFuture(ascii8s[taskIdx], shardSizeP1)
	}
	for ; taskIdx < cpus; taskIdx++ {
		sumFutures[taskIdx] = isNonACGTSubtaskFuture(ascii8s[taskIdx], shardSizeBase)
	}
	var sum int
	for taskIdx = 0; taskIdx < cpus; taskIdx++ {
		sum += <-sumFutures[taskIdx]
	}
}

func benchmarkIsNonACGTSeq(cpus int, nByte int, nJob int, b *testing.B) {
	if cpus > runtime.NumCPU() {
		b.Skipf("only have %v cpus", runtime.NumCPU())
	}

	ascii8Slices := make([][]byte, cpus)
	for ii := range ascii8Slices {
		// Add 63 to prevent false sharing.
		newArr := simd.MakeUnsafe(nByte + 63)
		for jj := 0; jj < nByte; jj++ {
			newArr[jj] = 'T'
		}
		newArr[nByte/2] = 'N'
		ascii8Slices[ii] = newArr[:nByte]
	}
	for i := 0; i < b.N; i++ {
		multiIsNonACGTSeq(ascii8Slices, cpus, nJob)
	}
}

func Benchmark_IsNonACGTSeqShort1(b *testing.B) {
	benchmarkIsNonACGTSeq(1, 75, 9999999, b)
}

func Benchmark_IsNonACGTSeqShort4(b *testing.B) {
	benchmarkIsNonACGTSeq(4, 75, 9999999, b)
}

func Benchmark_IsNonACGTSeqShortMax(b *testing.B) {
	benchmarkIsNonACGTSeq(runtime.NumCPU(), 75, 9999999, b)
}

func Benchmark_IsNonACGTSeqLong1(b *testing.B) {
	benchmarkIsNonACGTSeq(1, 249250621, 50, b)
}

func Benchmark_IsNonACGTSeqLong4(b *testing.B) {
	benchmarkIsNonACGTSeq(4, 249250621, 50, b)
}

func Benchmark_IsNonACGTSeqLongMax(b *testing.B) {
	benchmarkIsNonACGTSeq(runtime.NumCPU(), 249250621, 50, b)
}

var isNotCapitalACGTTable = [...]bool{
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, false, true, false, true, true, true, false, true, true, true, true, true, true, true, true,
	true, true, true, true, false, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true}

func isNonACGTPresentSlow(ascii8 []byte) bool {
	for _, ascii8Byte := range ascii8 {
		if isNotCapitalACGTTable[ascii8Byte] {
			return true
		}
	}
	return false
}

var isNotCapitalACGTNTable = [...]bool{
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, false, true, false, true, true, true, false, true, true, true, true, true, true, false, true,
	true, true, true, true, false, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true,
	true, true, true, true, true, true, true, true, true, true, true, true, true, true, true, true}

func isNonACGTNPresentSlow(ascii8 []byte) bool {
	for _, ascii8Byte := range ascii8 {
		if isNotCapitalACGTNTable[ascii8Byte] {
			return true
		}
	}
	return false
}

var randACGTN0Table = [...]byte{
	'A', 'A', 'A', 'A', 'C', 'C', 'C', 'C', 'G', 'G', 'G', 'G', 'T', 'T', 'T', 'T', 'N', '0'}

func TestIsNonACGTPresent(t *testing.T) {
	maxSize := 500
	nIter := 200
	srcArr := simd.MakeUnsafe(maxSize)
	for iter := 0; iter < nIter; iter++ {
		sliceStart := rand.Intn(maxSize)
		sliceEnd := sliceStart + rand.Intn(maxSize-sliceStart)
		srcSlice := srcArr[sliceStart:sliceEnd]
		for ii := range srcSlice {
			srcSlice[ii] = randACGTN0Table[rand.Intn(18)]
		}
		resultACGT := isNonACGTPresentSlow(srcSlice)
		resultACGT2 := biosimd.IsNonACGTPresent(srcSlice)
		if resultACGT != resultACGT2 {
			t.Fatal("Mismatched IsNonACGTPresent result.")
		}
		resultACGT = isNonACGTNPresentSlow(srcSlice)
		resultACGT2 = biosimd.IsNonACGTNPresent(srcSlice)
		if resultACGT != resultACGT2 {
			t.Fatal("Mismatched IsNonACGTNPresent result.")
		}
	}
}
