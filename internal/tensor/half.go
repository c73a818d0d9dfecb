package tensor

import (
	"github.com/pkg/errors"
	"github.com/x448/float16"
)

// ErrUnsupportedDType is returned when an operation does not handle a dtype.
var ErrUnsupportedDType = errors.New("unsupported dtype")

// Cast converts a tensor to the requested floating point dtype.
// Casting to the tensor's own dtype returns a copy.
func Cast(r *RawTensor, dtype DataType) (*RawTensor, error) {
	switch dtype {
	case Float16, Float32, Float64:
	default:
		return nil, errors.Wrapf(ErrUnsupportedDType, "cast %s to %s", r.dtype, dtype)
	}
	if r.dtype == dtype {
		return r.Clone(), nil
	}
	out, err := NewRaw(r.shape, dtype, r.device)
	if err != nil {
		return nil, err
	}

	switch r.dtype {
	case Float16:
		src := r.AsFloat16()
		switch dtype {
		case Float32:
			dst := out.AsFloat32()
			for i, v := range src {
				dst[i] = v.Float32()
			}
			return out, nil
		case Float64:
			dst := out.AsFloat64()
			for i, v := range src {
				dst[i] = float64(v.Float32())
			}
			return out, nil
		}
	case Float32:
		src := r.AsFloat32()
		switch dtype {
		case Float16:
			dst := out.AsFloat16()
			for i, v := range src {
				dst[i] = float16.Fromfloat32(v)
			}
			return out, nil
		case Float64:
			dst := out.AsFloat64()
			for i, v := range src {
				dst[i] = float64(v)
			}
			return out, nil
		}
	case Float64:
		src := r.AsFloat64()
		switch dtype {
		case Float16:
			dst := out.AsFloat16()
			for i, v := range src {
				dst[i] = float16.Fromfloat32(float32(v))
			}
			return out, nil
		case Float32:
			dst := out.AsFloat32()
			for i, v := range src {
				dst[i] = float32(v)
			}
			return out, nil
		}
	}
	return nil, errors.Wrapf(ErrUnsupportedDType, "cast %s to %s", r.dtype, dtype)
}
