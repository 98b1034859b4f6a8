package groupjoin

import (
	"sync"
	"sync/atomic"
	"testing"
)

// ============================================================================
// ParallelConfig Tests
// ============================================================================

func TestDefaultParallelConfig(t *testing.T) {
	cfg := DefaultParallelConfig()

	if cfg == nil {
		t.Fatal("DefaultParallelConfig returned nil")
	}
	if cfg.MinRowsForParallel <= 0 {
		t.Errorf("MinRowsForParallel should be positive, got %d", cfg.MinRowsForParallel)
	}
	if cfg.MorselSize <= 0 {
		t.Errorf("MorselSize should be positive, got %d", cfg.MorselSize)
	}
	if !cfg.Enabled {
		t.Error("Enabled should be true by default")
	}
}

func TestSetGetParallelConfig(t *testing.T) {
	original := GetParallelConfig()
	defer SetParallelConfig(original)

	custom := &ParallelConfig{
		MinRowsForParallel: 1000,
		MorselSize:         512,
		MaxWorkers:         2,
		Enabled:            false,
	}
	SetParallelConfig(custom)

	got := GetParallelConfig()
	if got.MinRowsForParallel != 1000 {
		t.Errorf("MinRowsForParallel = %d, want 1000", got.MinRowsForParallel)
	}
	if got.MorselSize != 512 {
		t.Errorf("MorselSize = %d, want 512", got.MorselSize)
	}
	if got.MaxWorkers != 2 {
		t.Errorf("MaxWorkers = %d, want 2", got.MaxWorkers)
	}
	if got.Enabled {
		t.Error("Enabled should be false")
	}

	// Setting nil should not change config
	SetParallelConfig(nil)
	if GetParallelConfig() != custom {
		t.Error("SetParallelConfig(nil) should not change config")
	}
}

func TestParallelConfig_NumWorkers(t *testing.T) {
	cfg := &ParallelConfig{MaxWorkers: 4}
	if cfg.numWorkers() != 4 {
		t.Errorf("numWorkers() = %d, want 4", cfg.numWorkers())
	}

	cfg.MaxWorkers = 0
	if workers := cfg.numWorkers(); workers <= 0 {
		t.Errorf("numWorkers() with MaxWorkers=0 should use GOMAXPROCS, got %d", workers)
	}
}

func TestParallelConfig_ShouldParallelize(t *testing.T) {
	cfg := &ParallelConfig{
		MinRowsForParallel: 1000,
		MaxWorkers:         2,
		Enabled:            true,
	}

	if cfg.shouldParallelize(500) {
		t.Error("Should not parallelize 500 rows when min is 1000")
	}
	if !cfg.shouldParallelize(2000) {
		t.Error("Should parallelize 2000 rows when min is 1000")
	}

	cfg.MaxWorkers = 1
	if cfg.shouldParallelize(2000) {
		t.Error("Should not parallelize with a single worker")
	}

	cfg.MaxWorkers = 2
	cfg.Enabled = false
	if cfg.shouldParallelize(2000) {
		t.Error("Should not parallelize when disabled")
	}
}

func TestParallelConfig_MorselSizeDefault(t *testing.T) {
	cfg := &ParallelConfig{}
	if got, want := cfg.morselSize(), DefaultParallelConfig().MorselSize; got != want {
		t.Errorf("morselSize() = %d, want %d", got, want)
	}
}

// ============================================================================
// Morsel Iterator Tests
// ============================================================================

func TestNewMorselIterator(t *testing.T) {
	mi := NewMorselIterator(100, 10)

	if mi.total != 100 {
		t.Errorf("total = %d, want 100", mi.total)
	}
	if mi.morselSize != 10 {
		t.Errorf("morselSize = %d, want 10", mi.morselSize)
	}

	// Test default morsel size
	mi2 := NewMorselIterator(100, 0)
	if mi2.morselSize <= 0 {
		t.Error("morselSize should use default when 0")
	}
}

func TestMorselIterator_Next(t *testing.T) {
	mi := NewMorselIterator(25, 10)

	m1 := mi.Next()
	if m1 == nil || m1.Start != 0 || m1.End != 10 {
		t.Errorf("First morsel = %v, want {0, 10}", m1)
	}

	m2 := mi.Next()
	if m2 == nil || m2.Start != 10 || m2.End != 20 {
		t.Errorf("Second morsel = %v, want {10, 20}", m2)
	}

	// Partial
	m3 := mi.Next()
	if m3 == nil || m3.Start != 20 || m3.End != 25 {
		t.Errorf("Third morsel = %v, want {20, 25}", m3)
	}

	if m4 := mi.Next(); m4 != nil {
		t.Errorf("Fourth morsel should be nil, got %v", m4)
	}
}

func TestMorselIterator_Empty(t *testing.T) {
	mi := NewMorselIterator(0, 10)
	if m := mi.Next(); m != nil {
		t.Errorf("Empty iterator should return nil, got %v", m)
	}
}

// ============================================================================
// Parallel Execution Tests
// ============================================================================

func TestForEachMorsel_CoversRangeOnce(t *testing.T) {
	cfg := &ParallelConfig{MorselSize: 7, MaxWorkers: 4, Enabled: true}

	var mu sync.Mutex
	hits := make([]int, 100)
	var calls int64
	cfg.forEachMorsel(len(hits), func(start, end int) {
		atomic.AddInt64(&calls, 1)
		if start%7 != 0 {
			t.Errorf("morsel starts at %d, not a multiple of 7", start)
		}
		mu.Lock()
		for i := start; i < end; i++ {
			hits[i]++
		}
		mu.Unlock()
	})

	for i, h := range hits {
		if h != 1 {
			t.Errorf("index %d visited %d times", i, h)
		}
	}
	if calls != 15 {
		t.Errorf("calls = %d, want 15", calls)
	}
}

func TestForEachMorsel_Empty(t *testing.T) {
	cfg := &ParallelConfig{MorselSize: 8, MaxWorkers: 4, Enabled: true}
	cfg.forEachMorsel(0, func(start, end int) {
		t.Errorf("unexpected morsel [%d, %d)", start, end)
	})
}
