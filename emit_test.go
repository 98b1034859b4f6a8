package groupjoin

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func countsOnly(counts ...int) *Buckets {
	return &Buckets{Counts: counts}
}

func TestOutputSize_Overflow(t *testing.T) {
	tests := []struct {
		name        string
		left, right *Buckets
	}{
		{"product", countsOnly(math.MaxInt), countsOnly(3)},
		{"sum", countsOnly(math.MaxInt/2+1, math.MaxInt/2+1), countsOnly(1, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := outputSize(tt.left, tt.right)
			require.ErrorIs(t, err, ErrAllocation)
			assert.True(t, err.(*AllocationError).Overflow)
		})
	}

	n, err := outputSize(countsOnly(math.MaxInt, 0), countsOnly(0, math.MaxInt))
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestAllocIndices(t *testing.T) {
	buf, err := allocIndices("test", 4)
	require.NoError(t, err)
	assert.Len(t, buf, 4)

	_, err = allocIndices("test", -1)
	require.ErrorIs(t, err, ErrAllocation)
	ae := err.(*AllocationError)
	assert.Equal(t, -1, ae.Rows)
	assert.Error(t, ae.Unwrap())
}

func TestEmitParallel_ShardLayout(t *testing.T) {
	lb, err := partition(fixtureLeft, 5, SideLeft)
	require.NoError(t, err)
	rb, err := partition(fixtureRight, 5, SideRight)
	require.NoError(t, err)

	for _, morsel := range []int{1, 2, 3, 5, 100} {
		cfg := &ParallelConfig{MorselSize: morsel, MaxWorkers: 3, Enabled: true}
		ls := make([]int, 18)
		rs := make([]int, 18)

		shards := emitParallel(lb, rb, ls, rs, cfg)
		assert.Equal(t, (5+morsel-1)/morsel, shards)
		assert.Equal(t, fixtureLS, ls, "morsel size %d", morsel)
		assert.Equal(t, fixtureRS, rs, "morsel size %d", morsel)
	}
}

func TestEmitSequential_PanicsOnSizeMismatch(t *testing.T) {
	lb, _ := partition(fixtureLeft, 5, SideLeft)
	rb, _ := partition(fixtureRight, 5, SideRight)

	assert.Panics(t, func() {
		emitSequential(lb, rb, make([]int, 19), make([]int, 19))
	})
}
