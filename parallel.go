package groupjoin

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// ============================================================================
// Parallel Execution Configuration
// ============================================================================

// ParallelConfig controls parallelization behavior
type ParallelConfig struct {
	// MinRowsForParallel is the minimum rows to justify parallel overhead.
	// Compared against the combined input length for bucketing and against
	// the output length for emission.
	MinRowsForParallel int

	// MorselSize is the number of labels per emission shard (default 4096)
	MorselSize int

	// MaxWorkers limits the number of worker goroutines (0 = GOMAXPROCS)
	MaxWorkers int

	// Enabled controls whether parallelism is used at all
	Enabled bool
}

// DefaultParallelConfig returns sensible defaults
func DefaultParallelConfig() *ParallelConfig {
	return &ParallelConfig{
		MinRowsForParallel: 1 << 16,
		MorselSize:         4096,
		MaxWorkers:         0,
		Enabled:            true,
	}
}

// globalConfig is the default configuration
var globalConfig atomic.Pointer[ParallelConfig]

func init() {
	globalConfig.Store(DefaultParallelConfig())
}

// SetParallelConfig sets the global parallelization configuration
func SetParallelConfig(cfg *ParallelConfig) {
	if cfg != nil {
		globalConfig.Store(cfg)
	}
}

// GetParallelConfig returns the current configuration
func GetParallelConfig() *ParallelConfig {
	return globalConfig.Load()
}

// numWorkers returns the number of workers to use
func (cfg *ParallelConfig) numWorkers() int {
	if cfg.MaxWorkers > 0 {
		return cfg.MaxWorkers
	}
	return runtime.GOMAXPROCS(0)
}

// shouldParallelize determines if an operation should be parallelized
func (cfg *ParallelConfig) shouldParallelize(rows int) bool {
	return cfg.Enabled && rows >= cfg.MinRowsForParallel && cfg.numWorkers() > 1
}

func (cfg *ParallelConfig) morselSize() int {
	if cfg.MorselSize > 0 {
		return cfg.MorselSize
	}
	return DefaultParallelConfig().MorselSize
}

// ============================================================================
// Morsel-Based Work Distribution
// ============================================================================

// Morsel represents a half-open range [Start, End) of work items
type Morsel struct {
	Start int
	End   int
}

// MorselIterator provides work-stealing morsel distribution
type MorselIterator struct {
	total      int
	morselSize int
	nextStart  int64 // atomic counter for work-stealing
}

// NewMorselIterator creates a new morsel iterator
func NewMorselIterator(total, morselSize int) *MorselIterator {
	if morselSize <= 0 {
		morselSize = GetParallelConfig().morselSize()
	}
	return &MorselIterator{
		total:      total,
		morselSize: morselSize,
	}
}

// Next returns the next morsel, or nil if exhausted.
// This is safe for concurrent use (work-stealing)
func (mi *MorselIterator) Next() *Morsel {
	for {
		start := atomic.LoadInt64(&mi.nextStart)
		if int(start) >= mi.total {
			return nil
		}

		end := int(start) + mi.morselSize
		if end > mi.total {
			end = mi.total
		}

		// Try to claim this morsel
		if atomic.CompareAndSwapInt64(&mi.nextStart, start, int64(end)) {
			return &Morsel{Start: int(start), End: end}
		}
		// Another worker claimed it, try again
	}
}

// ============================================================================
// Parallel Execution Helpers
// ============================================================================

// forEachMorsel always splits [0, total) into morsels of cfg.MorselSize and
// hands them to worker goroutines. Morsel boundaries do not depend on the
// worker count, so fn sees the same ranges on every run.
func (cfg *ParallelConfig) forEachMorsel(total int, fn func(start, end int)) {
	size := cfg.morselSize()
	numWorkers := cfg.numWorkers()
	if numMorsels := (total + size - 1) / size; numWorkers > numMorsels {
		numWorkers = numMorsels
	}
	morselIter := NewMorselIterator(total, size)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				morsel := morselIter.Next()
				if morsel == nil {
					return
				}
				fn(morsel.Start, morsel.End)
			}
		}()
	}
	wg.Wait()
}
