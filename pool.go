package groupjoin

import (
	"sync"
)

// IntSlice is a pooled int slice used as scratch space (bucket cursors).
// Call Release() when done to return it to the pool.
type IntSlice struct {
	Data []int
	pool *sync.Pool
}

// Release returns the slice to the pool for reuse
func (s *IntSlice) Release() {
	if s.pool != nil && s.Data != nil {
		s.pool.Put(s)
	}
}

// maxPooledBucket is the largest pooled size class (2^20 entries). Larger
// requests are allocated directly and dropped on Release.
const maxPooledBucket = 20

// Pool sizes - power-of-2 buckets
var (
	intPools [maxPooledBucket + 1]*sync.Pool // pools for sizes 2^0 to 2^20
	poolInit sync.Once
)

func initPools() {
	poolInit.Do(func() {
		for i := range intPools {
			size := 1 << i
			intPools[i] = &sync.Pool{
				New: func() interface{} {
					return &IntSlice{
						Data: make([]int, 0, size),
					}
				},
			}
		}
	})
}

// getBucket returns the pool bucket index for a given size
func getBucket(size int) int {
	if size <= 0 {
		return 0
	}
	// Find the smallest power of 2 >= size
	bucket := 0
	n := size - 1
	for n > 0 {
		n >>= 1
		bucket++
	}
	return bucket
}

// getIntSlice gets an int slice of length size, pooled when it fits a size
// class. Contents are not cleared; callers overwrite them.
func getIntSlice(size int) (*IntSlice, error) {
	bucket := getBucket(size)
	if bucket > maxPooledBucket {
		data, err := allocIndices("bucket cursor", size)
		if err != nil {
			return nil, err
		}
		return &IntSlice{Data: data}, nil
	}

	initPools()
	pool := intPools[bucket]
	slice := pool.Get().(*IntSlice)
	slice.pool = pool
	slice.Data = slice.Data[:size]

	return slice, nil
}
