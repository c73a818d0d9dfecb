package parallel

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// ErrExecution reports that at least one task of a launch faulted. The
// contents of the launch's output are undefined when it is returned.
var ErrExecution = errors.New("parallel: task execution failed")

// Launcher runs n independent tasks, task(0) .. task(n-1), in no particular
// order and returns once all of them completed.
//
// Tasks must not communicate and must write disjoint memory. A panicking task
// does not crash the process: the launch reports ErrExecution instead.
type Launcher interface {
	Launch(name string, n int, task func(idx int)) error
}

// Pool launches tasks over chunked goroutines as configured by Config.
type Pool struct {
	cfg Config
}

// NewPool creates a goroutine-backed Launcher.
func NewPool(cfg Config) *Pool {
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = 1
	}
	return &Pool{cfg: cfg}
}

// Config returns the pool configuration.
func (p *Pool) Config() Config {
	return p.cfg
}

// Launch implements Launcher.
func (p *Pool) Launch(name string, n int, task func(idx int)) error {
	if n <= 0 {
		return nil
	}
	klog.V(2).Infof("parallel: launching %s: %d tasks, %d workers", name, n, p.cfg.NumWorkers)
	return launch(name, n, task, p.cfg)
}

// Serial runs every task on the calling goroutine in index order.
// It is the reference Launcher used to cross-check parallel results.
type Serial struct{}

// Launch implements Launcher.
func (Serial) Launch(name string, n int, task func(idx int)) error {
	if n <= 0 {
		return nil
	}
	klog.V(2).Infof("parallel: running %s serially: %d tasks", name, n)
	return launch(name, n, task, SerialConfig())
}

// launch runs the tasks chunked per cfg and keeps the first failure.
func launch(name string, n int, task func(idx int), cfg Config) error {
	var (
		mu       sync.Mutex
		firstErr error
	)
	ForChunks(n, func(s, e int) {
		if err := runRange(name, s, e, task); err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
		}
	}, cfg)

	if firstErr != nil {
		klog.Warningf("parallel: launch %s failed: %v", name, firstErr)
	}
	return firstErr
}

// runRange executes tasks [s, e) and converts a task panic into ErrExecution.
func runRange(name string, s, e int, task func(idx int)) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrExecution, "%s: %s", name, fmt.Sprint(r))
		}
	}()
	for i := s; i < e; i++ {
		task(i)
	}
	return nil
}
