package parallel

import (
	"sync/atomic"
	"testing"
)

// countTasks runs n tasks through ForChunks and returns how many ran.
func countTasks(n int, cfg Config) int64 {
	var counter int64
	ForChunks(n, func(start, end int) {
		atomic.AddInt64(&counter, int64(end-start))
	}, cfg)
	return counter
}

func TestForChunks(t *testing.T) {
	if got := countTasks(1000, DefaultConfig()); got != 1000 {
		t.Errorf("Expected 1000, got %d", got)
	}
}

func TestForChunks_Sequential(t *testing.T) {
	if got := countTasks(100, Config{Enabled: false}); got != 100 {
		t.Errorf("Expected 100, got %d", got)
	}
}

func TestForChunks_SmallChunk(t *testing.T) {
	// Small work units fall back to sequential.
	cfg := DefaultConfig()
	n := cfg.MinChunkSize - 1
	if got := countTasks(n, cfg); got != int64(n) {
		t.Errorf("Expected %d, got %d", n, got)
	}
}

func TestConfigChunks_CoverRangeOnce(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 7, MinChunkSize: 3}
	for _, n := range []int{0, 1, 2, 3, 10, 64, 1001} {
		seen := make([]int, n)
		for _, r := range cfg.chunks(n) {
			for i := r[0]; i < r[1]; i++ {
				seen[i]++
			}
		}
		for i, c := range seen {
			if c != 1 {
				t.Fatalf("n=%d: index %d covered %d times", n, i, c)
			}
		}
	}
}

func BenchmarkForChunks(b *testing.B) {
	cfg := DefaultConfig()
	n := 10000
	sum := func(start, end int) {
		var s int64
		for i := start; i < end; i++ {
			s += int64(i)
		}
		_ = s
	}

	b.Run("parallel", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			ForChunks(n, sum, cfg)
		}
	})

	b.Run("sequential", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			ForChunks(n, sum, SerialConfig())
		}
	})
}

func TestForChunks_SerialConfigSingleRange(t *testing.T) {
	calls := 0
	ForChunks(500, func(start, end int) {
		calls++
		if start != 0 || end != 500 {
			t.Errorf("range = [%d, %d), want [0, 500)", start, end)
		}
	}, SerialConfig())
	if calls != 1 {
		t.Errorf("Expected 1 call, got %d", calls)
	}

	ForChunks(0, func(_, _ int) { t.Error("no call expected for n=0") }, DefaultConfig())
}
