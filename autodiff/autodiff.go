// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package autodiff provides automatic differentiation for bilateral slicing.
//
// This package implements reverse-mode automatic differentiation using a
// gradient tape. It wraps any backend to add autodiff capabilities.
//
// Example:
//
//	import (
//	    "github.com/born-ml/bilateral/autodiff"
//	    "github.com/born-ml/bilateral/backend/cpu"
//	    "github.com/born-ml/bilateral/tensor"
//	)
//
//	func main() {
//	    backend := autodiff.New(cpu.New())
//	    backend.Tape().StartRecording()
//
//	    grid, _ := tensor.FromSlice(gridData, tensor.Shape{12, 8, 16, 16, 1}, backend)
//	    guide, _ := tensor.FromSlice(guideData, tensor.Shape{256, 256, 1}, backend)
//	    out, _ := grid.BilateralSlice(guide)
//
//	    grads, _ := autodiff.Backward(out, backend)
//	    gridGrad := grads[grid.Raw()]
//	}
package autodiff

import (
	"github.com/born-ml/bilateral/internal/autodiff"
	"github.com/born-ml/bilateral/tensor"
)

// Backend is the autodiff-enabled backend.
type Backend[B tensor.Backend] = autodiff.AutodiffBackend[B]

// New creates a new autodiff backend wrapping the given backend.
func New[B tensor.Backend](backend B) *Backend[B] {
	return autodiff.New(backend)
}

// GradientTape records operations for automatic differentiation.
type GradientTape = autodiff.GradientTape

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return autodiff.NewGradientTape()
}

// BackwardCapable interface for backends that support backpropagation.
type BackwardCapable = autodiff.BackwardCapable

// Backward computes gradients of sum(t) for every tensor recorded on the
// backend's tape.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) (map[*tensor.RawTensor]*tensor.RawTensor, error) {
	return autodiff.Backward(t, backend)
}
