// Package parallel provides the task-launch capability the bilateral kernels
// run on: a parallel map of N independent tasks with one completion point.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum tasks per goroutine to avoid overhead.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64, // Typical cache line aware chunk.
	}
}

// SerialConfig returns a Config that always runs on the calling goroutine.
func SerialConfig() Config {
	return Config{Enabled: false, NumWorkers: 1, MinChunkSize: 1}
}

// chunks splits [0, n) into contiguous ranges, one per goroutine.
// A single range is returned when parallelism is disabled or n is too small.
func (cfg Config) chunks(n int) [][2]int {
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n < cfg.MinChunkSize {
		return [][2]int{{0, n}}
	}
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)
	ranges := make([][2]int, 0, (n+chunkSize-1)/chunkSize)
	for start := 0; start < n; start += chunkSize {
		ranges = append(ranges, [2]int{start, min(start+chunkSize, n)})
	}
	return ranges
}

// ForChunks splits [0, n) into contiguous ranges and calls f once per range,
// concurrently when cfg allows it. A single range runs on the calling
// goroutine. It returns after every call has finished.
func ForChunks(n int, f func(start, end int), cfg Config) {
	if n <= 0 {
		return
	}
	ranges := cfg.chunks(n)
	if len(ranges) == 1 {
		f(ranges[0][0], ranges[0][1])
		return
	}

	var wg sync.WaitGroup
	for _, r := range ranges {
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			f(s, e)
		}(r[0], r[1])
	}
	wg.Wait()
}
