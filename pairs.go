package groupjoin

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// IndexPairs holds the result of a join: row k pairs Left[k] (a position in
// the left input) with Right[k] (a position in the right input).
type IndexPairs struct {
	Left  []int
	Right []int
}

// Len returns the number of rows
func (p *IndexPairs) Len() int {
	return len(p.Left)
}

// At returns row k
func (p *IndexPairs) At(k int) (left, right int) {
	return p.Left[k], p.Right[k]
}

// Equal reports whether both results hold the same rows in the same order
func (p *IndexPairs) Equal(other *IndexPairs) bool {
	if p.Len() != other.Len() {
		return false
	}
	for k := range p.Left {
		if p.Left[k] != other.Left[k] || p.Right[k] != other.Right[k] {
			return false
		}
	}
	return true
}

// Fingerprint returns a 64-bit digest of the rows. Identical results always
// share a fingerprint, which makes it a cheap determinism check across runs
// and processes.
func (p *IndexPairs) Fingerprint() uint64 {
	d := xxhash.New()
	buf := make([]byte, 0, 16*256)
	flush := func() {
		_, _ = d.Write(buf)
		buf = buf[:0]
	}
	buf = binary.LittleEndian.AppendUint64(buf, uint64(p.Len()))
	for k := range p.Left {
		buf = binary.LittleEndian.AppendUint64(buf, uint64(p.Left[k]))
		buf = binary.LittleEndian.AppendUint64(buf, uint64(p.Right[k]))
		if len(buf) >= cap(buf)-16 {
			flush()
		}
	}
	flush()
	return d.Sum64()
}
