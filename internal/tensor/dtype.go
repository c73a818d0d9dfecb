// Package tensor provides the dense array types shared by the bilateral
// slicing backends.
package tensor

import "github.com/x448/float16"

// DType is a constraint for the element types kernels compute in.
// It uses Go generics to ensure compile-time type safety.
type DType interface {
	~float32 | ~float64
}

// Element is any type a tensor can store, including half precision.
type Element interface {
	DType | float16.Float16
}

// DataType represents runtime type information for tensors.
type DataType int

// Supported data types for tensors.
const (
	Float32 DataType = iota
	Float64
	// Float16 is a storage-only type: backends widen it to float32 for compute.
	Float16
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Float32:
		return 4
	case Float64:
		return 8
	case Float16:
		return 2
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case Float16:
		return "float16"
	default:
		return "unknown"
	}
}

// inferDataType infers DataType from a generic type T.
func inferDataType[T Element](dummy T) DataType {
	switch any(dummy).(type) {
	case float32:
		return Float32
	case float64:
		return Float64
	case float16.Float16:
		return Float16
	default:
		panic("unsupported type")
	}
}
