package groupjoin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactorize(t *testing.T) {
	lg, rg, maxGroup := Factorize([]int64{101, 102, 101, 103, 104}, []int64{101, 102, 103, 105})

	assert.Equal(t, []int{0, 1, 0, 2, 3}, lg)
	assert.Equal(t, []int{0, 1, 2, 4}, rg)
	assert.Equal(t, 5, maxGroup)
}

func TestFactorize_Strings(t *testing.T) {
	lg, rg, maxGroup := Factorize([]string{"b", "a", "b"}, []string{"a", "c"})

	assert.Equal(t, []int{0, 1, 0}, lg)
	assert.Equal(t, []int{1, 2}, rg)
	assert.Equal(t, 3, maxGroup)
}

func TestFactorize_Empty(t *testing.T) {
	lg, rg, maxGroup := Factorize[int64](nil, nil)
	assert.Empty(t, lg)
	assert.Empty(t, rg)
	assert.Equal(t, 1, maxGroup)

	ls, rs, err := Join(lg, rg, maxGroup)
	require.NoError(t, err)
	assert.Empty(t, ls)
	assert.Empty(t, rs)
}

func TestFactorize_ThenJoin(t *testing.T) {
	orders := []int64{101, 102, 101, 103, 104}
	customers := []int64{101, 102, 103, 105}
	lg, rg, maxGroup := Factorize(orders, customers)

	pairs, err := JoinPairs(lg, rg, maxGroup)
	require.NoError(t, err)
	require.Equal(t, 4, pairs.Len())
	for k := 0; k < pairs.Len(); k++ {
		o, c := pairs.At(k)
		assert.Equal(t, orders[o], customers[c])
	}
	// Labels follow first appearance, so key 101 (label 0) comes first
	assert.Equal(t, []int{0, 2, 1, 3}, pairs.Left)
	assert.Equal(t, []int{0, 0, 1, 2}, pairs.Right)
}
