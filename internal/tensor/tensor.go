package tensor

import (
	"github.com/pkg/errors"
)

// Tensor is a generic tensor with type T and backend B.
//
// Type Parameters:
//   - T: Data type (must satisfy DType constraint)
//   - B: Computation backend (must implement Backend interface)
//
// Example:
//
//	backend := cpu.New()
//	grid := tensor.Zeros[float32](Shape{12, 8, 16, 16, 1}, backend)
//	guide := tensor.Zeros[float32](Shape{256, 256, 1}, backend)
//	out, err := grid.BilateralSlice(guide)
type Tensor[T DType, B Backend] struct {
	raw     *RawTensor
	backend B
}

// New creates a Tensor from a RawTensor and backend.
func New[T DType, B Backend](raw *RawTensor, b B) *Tensor[T, B] {
	return &Tensor[T, B]{
		raw:     raw,
		backend: b,
	}
}

// FromSlice creates a tensor from a Go slice.
// The slice is copied into the tensor's memory.
func FromSlice[T DType, B Backend](data []T, shape Shape, b B) (*Tensor[T, B], error) {
	raw, err := FromValues(data, shape, b.Device())
	if err != nil {
		return nil, err
	}
	return New[T, B](raw, b), nil
}

// Zeros creates a tensor filled with zeros.
func Zeros[T DType, B Backend](shape Shape, b B) *Tensor[T, B] {
	var dummy T
	raw, err := NewRaw(shape, inferDataType(dummy), b.Device())
	if err != nil {
		panic(err) // Shape validation should prevent this
	}
	return New[T, B](raw, b)
}

// Full creates a tensor filled with a specific value.
func Full[T DType, B Backend](shape Shape, value T, b B) *Tensor[T, B] {
	t := Zeros[T, B](shape, b)
	data := t.Data()
	for i := range data {
		data[i] = value
	}
	return t
}

// Shape returns the tensor's shape.
func (t *Tensor[T, B]) Shape() Shape {
	return t.raw.Shape()
}

// DType returns the tensor's data type.
func (t *Tensor[T, B]) DType() DataType {
	return t.raw.DType()
}

// Device returns the tensor's compute device.
func (t *Tensor[T, B]) Device() Device {
	return t.raw.Device()
}

// NumElements returns the total number of elements.
func (t *Tensor[T, B]) NumElements() int {
	return t.raw.NumElements()
}

// Raw returns the underlying RawTensor.
// Used by backend implementations for low-level operations.
func (t *Tensor[T, B]) Raw() *RawTensor {
	return t.raw
}

// Backend returns the computation backend.
func (t *Tensor[T, B]) Backend() B {
	return t.backend
}

// Data returns the tensor's elements as a typed slice sharing its memory.
func (t *Tensor[T, B]) Data() []T {
	return Values[T](t.raw)
}

// BilateralSlice treats t as a bilateral grid (C, D, GX, GY, B) and samples
// it at every pixel of guide (W, H, B).
func (t *Tensor[T, B]) BilateralSlice(guide *Tensor[T, B]) (*Tensor[T, B], error) {
	out, err := t.backend.BilateralSlice(t.raw, guide.raw)
	if err != nil {
		return nil, errors.WithMessage(err, "BilateralSlice")
	}
	return New[T, B](out, t.backend), nil
}
