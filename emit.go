package groupjoin

import (
	"math"
	"math/bits"
	"runtime"

	"github.com/cockroachdb/errors"
)

// outputSize returns sum over g of left.Counts[g]*right.Counts[g].
// Products and the running sum are checked in 64 bits so a result that
// does not fit an int is reported instead of wrapping.
func outputSize(left, right *Buckets) (int, error) {
	var total uint64
	for g, lc := range left.Counts {
		rc := right.Counts[g]
		if lc == 0 || rc == 0 {
			continue
		}
		hi, lo := bits.Mul64(uint64(lc), uint64(rc))
		if hi != 0 {
			return 0, &AllocationError{What: "join output", Overflow: true}
		}
		var carry uint64
		total, carry = bits.Add64(total, lo, 0)
		if carry != 0 {
			return 0, &AllocationError{What: "join output", Overflow: true}
		}
	}
	if total > math.MaxInt {
		return 0, &AllocationError{What: "join output", Overflow: true}
	}
	return int(total), nil
}

// allocIndices allocates an int buffer of n entries. A length the runtime
// refuses surfaces as an AllocationError; running out of memory outright is
// fatal in Go and cannot be reported.
func allocIndices(what string, n int) (buf []int, err error) {
	defer func() {
		if r := recover(); r != nil {
			re, ok := r.(runtime.Error)
			if !ok {
				panic(r)
			}
			buf, err = nil, &AllocationError{What: what, Rows: n, Cause: re}
		}
	}()
	return make([]int, n), nil
}

// emitGroup writes the row-major cross product of label g starting at
// output row k and returns the next free row.
func emitGroup(left, right *Buckets, g int, ls, rs []int, k int) int {
	lg := left.Group(g)
	if len(lg) == 0 {
		return k
	}
	rg := right.Group(g)
	if len(rg) == 0 {
		return k
	}
	for _, l := range lg {
		end := k + len(rg)
		copy(rs[k:end], rg)
		for j := k; j < end; j++ {
			ls[j] = l
		}
		k = end
	}
	return k
}

// emitRange emits labels [start, end) starting at output row k.
func emitRange(left, right *Buckets, start, end int, ls, rs []int, k int) int {
	for g := start; g < end; g++ {
		k = emitGroup(left, right, g, ls, rs, k)
	}
	return k
}

func emitSequential(left, right *Buckets, ls, rs []int) {
	if k := emitRange(left, right, 0, left.MaxGroup(), ls, rs, 0); k != len(ls) {
		panic(errors.AssertionFailedf("emitted %d rows, expected %d", k, len(ls)))
	}
}

// emitParallel shards the label range into morsels of cfg.MorselSize labels.
// Each shard's output window is fixed up front by a prefix sum over the
// per-shard row counts, so shards write disjoint slices without locking and
// the result is identical to emitSequential.
func emitParallel(left, right *Buckets, ls, rs []int, cfg *ParallelConfig) int {
	maxGroup := left.MaxGroup()
	size := cfg.morselSize()
	numShards := (maxGroup + size - 1) / size

	shardStart := make([]int, numShards+1)
	for s := 0; s < numShards; s++ {
		rows := 0
		lo, hi := s*size, min((s+1)*size, maxGroup)
		for g := lo; g < hi; g++ {
			rows += left.Counts[g] * right.Counts[g]
		}
		shardStart[s+1] = shardStart[s] + rows
	}
	if shardStart[numShards] != len(ls) {
		panic(errors.AssertionFailedf("shard sizes sum to %d, expected %d", shardStart[numShards], len(ls)))
	}

	cfg.forEachMorsel(maxGroup, func(start, end int) {
		s := start / size
		if k := emitRange(left, right, start, end, ls, rs, shardStart[s]); k != shardStart[s+1] {
			panic(errors.AssertionFailedf("shard %d emitted up to row %d, expected %d", s, k, shardStart[s+1]))
		}
	})
	return numShards
}
