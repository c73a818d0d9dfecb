// Package autodiff implements automatic differentiation using the decorator pattern.
//
// AutodiffBackend wraps any Backend implementation (CPU, GPU, etc.) and adds
// gradient tracking capabilities through a GradientTape.
//
// Architecture:
//   - Decorator pattern: AutodiffBackend[B] wraps any Backend implementation
//   - GradientTape: Records operations during forward pass
//   - Operation interface: each op implements its backward pass
//   - Reverse-mode AD: Computes gradients efficiently using chain rule
//
// Usage:
//
//	backend := autodiff.New(cpu.New())
//	backend.Tape().StartRecording()
//
//	grid, _ := tensor.FromSlice(gridData, tensor.Shape{12, 8, 16, 16, 1}, backend)
//	guide, _ := tensor.FromSlice(guideData, tensor.Shape{256, 256, 1}, backend)
//	out, _ := grid.BilateralSlice(guide)
//
//	gradients, _ := autodiff.Backward(out, backend)
//	gridGrad := gradients[grid.Raw()]
package autodiff

import (
	"github.com/born-ml/bilateral/internal/autodiff/ops"
	"github.com/born-ml/bilateral/internal/tensor"
)

// AutodiffBackend wraps a Backend and adds automatic differentiation.
// It implements the tensor.Backend interface and records operations in a GradientTape.
//
// Type parameter B must satisfy the tensor.Backend interface.
type AutodiffBackend[B tensor.Backend] struct {
	inner B             // Wrapped backend (CPU, GPU, etc.)
	tape  *GradientTape // Records operations for backpropagation
}

// New creates a new AutodiffBackend wrapping the given backend.
func New[B tensor.Backend](backend B) *AutodiffBackend[B] {
	return &AutodiffBackend[B]{
		inner: backend,
		tape:  NewGradientTape(),
	}
}

// Tape returns the gradient tape for manual control.
func (b *AutodiffBackend[B]) Tape() *GradientTape {
	return b.tape
}

// Inner returns the wrapped backend for direct access.
func (b *AutodiffBackend[B]) Inner() B {
	return b.inner
}

// Name returns the backend name.
func (b *AutodiffBackend[B]) Name() string {
	return "Autodiff(" + b.inner.Name() + ")"
}

// Device returns the compute device.
func (b *AutodiffBackend[B]) Device() tensor.Device {
	return b.inner.Device()
}

// BilateralSlice samples grid at guide and records the operation.
func (b *AutodiffBackend[B]) BilateralSlice(grid, guide *tensor.RawTensor) (*tensor.RawTensor, error) {
	output, op, err := ops.BilateralSlice(grid, guide, b.inner)
	if err != nil {
		return nil, err
	}
	b.tape.Record(op)
	return output, nil
}

// BilateralSliceGridGrad delegates to the wrapped backend. Gradient kernels
// are never recorded.
func (b *AutodiffBackend[B]) BilateralSliceGridGrad(guide, codomainTangent *tensor.RawTensor, gridShape tensor.Shape) (*tensor.RawTensor, error) {
	return b.inner.BilateralSliceGridGrad(guide, codomainTangent, gridShape)
}

// BilateralSliceGuideGrad delegates to the wrapped backend.
func (b *AutodiffBackend[B]) BilateralSliceGuideGrad(grid, guide, codomainTangent *tensor.RawTensor) (*tensor.RawTensor, error) {
	return b.inner.BilateralSliceGuideGrad(grid, guide, codomainTangent)
}

// BilateralSliceGrad delegates to the wrapped backend.
func (b *AutodiffBackend[B]) BilateralSliceGrad(grid, guide, codomainTangent *tensor.RawTensor) (*tensor.RawTensor, *tensor.RawTensor, error) {
	return b.inner.BilateralSliceGrad(grid, guide, codomainTangent)
}
