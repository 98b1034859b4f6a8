package groupjoin

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndexPairs_Accessors(t *testing.T) {
	p := &IndexPairs{Left: []int{0, 2}, Right: []int{1, 3}}
	assert.Equal(t, 2, p.Len())

	l, r := p.At(1)
	assert.Equal(t, 2, l)
	assert.Equal(t, 3, r)
}

func TestIndexPairs_Equal(t *testing.T) {
	a := &IndexPairs{Left: []int{0, 1}, Right: []int{1, 0}}

	assert.True(t, a.Equal(&IndexPairs{Left: []int{0, 1}, Right: []int{1, 0}}))
	assert.False(t, a.Equal(&IndexPairs{Left: []int{0, 1}, Right: []int{0, 1}}))
	assert.False(t, a.Equal(&IndexPairs{Left: []int{0}, Right: []int{1}}))
	assert.True(t, (&IndexPairs{}).Equal(&IndexPairs{Left: []int{}, Right: []int{}}))
}

func TestIndexPairs_Fingerprint(t *testing.T) {
	a := &IndexPairs{Left: []int{0, 1}, Right: []int{1, 0}}
	b := &IndexPairs{Left: []int{0, 1}, Right: []int{1, 0}}
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	// Swapping sides or rows changes the digest
	assert.NotEqual(t, a.Fingerprint(), (&IndexPairs{Left: []int{1, 0}, Right: []int{0, 1}}).Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), (&IndexPairs{Left: []int{0, 1, 0}, Right: []int{1, 0, 0}}).Fingerprint())
	assert.NotEqual(t, (&IndexPairs{}).Fingerprint(), (&IndexPairs{Left: []int{0}, Right: []int{0}}).Fingerprint())
}

func TestIndexPairs_FingerprintLarge(t *testing.T) {
	// Crosses the internal buffer boundary several times
	n := 10_000
	p := &IndexPairs{Left: make([]int, n), Right: make([]int, n)}
	for k := 0; k < n; k++ {
		p.Left[k], p.Right[k] = k, n-k
	}
	fp := p.Fingerprint()

	p.Right[n-1]++
	assert.NotEqual(t, fp, p.Fingerprint())
}
