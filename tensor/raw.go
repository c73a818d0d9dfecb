// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/born-ml/bilateral/internal/tensor"
)

// RawTensor is the untyped tensor representation backends operate on.
//
// Example:
//
//	raw, _ := tensor.NewRaw(tensor.Shape{2, 3}, tensor.Float32, tensor.CPU)
//	data := raw.AsFloat32() // zero-copy view
type RawTensor = tensor.RawTensor

// NewRaw creates a zero-filled RawTensor.
func NewRaw(shape Shape, dtype DataType, device Device) (*RawTensor, error) {
	return tensor.NewRaw(shape, dtype, device)
}

// FromValues creates a RawTensor holding a copy of data.
func FromValues[T Element](data []T, shape Shape, device Device) (*RawTensor, error) {
	return tensor.FromValues(data, shape, device)
}

// Values returns a zero-copy view of r's elements; T must match r's dtype.
func Values[T Element](r *RawTensor) []T {
	return tensor.Values[T](r)
}

// Cast converts r to dtype, returning a new tensor.
func Cast(r *RawTensor, dtype DataType) (*RawTensor, error) {
	return tensor.Cast(r, dtype)
}
