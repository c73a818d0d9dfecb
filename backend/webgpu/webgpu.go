//go:build windows

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU backend for the bilateral slicing
// kernels.
//
// Example:
//
//	import (
//	    "github.com/born-ml/bilateral/autodiff"
//	    "github.com/born-ml/bilateral/backend/webgpu"
//	)
//
//	func main() {
//	    gpu, err := webgpu.New()
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    defer gpu.Release()
//
//	    backend := autodiff.New(gpu)
//	}
package webgpu

import (
	internalwebgpu "github.com/born-ml/bilateral/internal/backend/webgpu"
	"github.com/born-ml/bilateral/tensor"
)

// Backend represents the WebGPU backend implementation.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new WebGPU backend. Call Release when done to free GPU
// resources.
//
// Returns an error if WebGPU initialization fails (e.g., no compatible GPU).
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system.
// Useful for falling back to the CPU backend.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
