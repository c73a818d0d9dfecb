// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/bilateral/internal/backend/cpu"
	"github.com/born-ml/bilateral/internal/parallel"
	"github.com/born-ml/bilateral/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Config controls how kernel launches are split across goroutines.
type Config = parallel.Config

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a CPU backend using all available cores.
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend with explicit parallelism settings.
//
// Example:
//
//	backend := cpu.NewWithConfig(cpu.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1024})
func NewWithConfig(cfg Config) *Backend {
	return internalcpu.NewWithConfig(cfg)
}

// NewSerial creates a single-threaded reference backend.
func NewSerial() *Backend {
	return internalcpu.NewSerial()
}

// DefaultConfig returns the parallelism settings New uses.
func DefaultConfig() Config {
	return parallel.DefaultConfig()
}
