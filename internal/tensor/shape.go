package tensor

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrShapeMismatch is returned when tensor shapes are incompatible with an
// operation.
var ErrShapeMismatch = errors.New("shape mismatch")

// Shape represents the dimensions of a tensor.
//
// Tensors are stored with the FIRST axis contiguous: for Shape{C, W, H, B}
// element (c, x, y, b) lives at c + C*(x + W*(y + H*b)).
type Shape []int

// NumElements returns the total number of elements in the tensor.
// A shape with any zero dimension has no elements.
func (s Shape) NumElements() int {
	if len(s) == 0 {
		return 1 // Scalar has 1 element
	}
	n := 1
	for _, dim := range s {
		n *= dim
	}
	return n
}

// Validate checks that no dimension is negative. Zero-sized dimensions are
// allowed: kernels treat such tensors as a no-op target.
func (s Shape) Validate() error {
	for i, dim := range s {
		if dim < 0 {
			return errors.Errorf("invalid dimension at index %d: %d (must be >= 0)", i, dim)
		}
	}
	return nil
}

// Rank returns the number of axes.
func (s Shape) Rank() int {
	return len(s)
}

// Equal checks if two shapes are equal.
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}

// Clone returns a copy of the shape.
func (s Shape) Clone() Shape {
	clone := make(Shape, len(s))
	copy(clone, s)
	return clone
}

// Strides calculates first-axis-fastest strides for the shape:
// stride[0] = 1, stride[i] = stride[i-1] * s[i-1].
func (s Shape) Strides() []int {
	strides := make([]int, len(s))
	stride := 1
	for i, dim := range s {
		strides[i] = stride
		stride *= dim
	}
	return strides
}

// String formats the shape as (d0, d1, ...).
func (s Shape) String() string {
	out := "("
	for i, dim := range s {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprint(dim)
	}
	return out + ")"
}
