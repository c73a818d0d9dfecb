package numerics

// Float is the set of element types the kernels compute in.
type Float interface {
	~float32 | ~float64
}

func abs[T Float](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

// LerpWeight returns the linear interpolation weight of the sample centred at
// center for a query at query: 1 at the centre, falling linearly to 0 at
// distance 1, and 0 beyond.
func LerpWeight[T Float](center, query T) T {
	d := abs(center - query)
	if d >= 1 {
		return 0
	}
	return 1 - d
}

// SmoothedLerpWeight is the smoothstep complement 1 - 3d² + 2|d|³ with
// d = center - query, zero for |d| > 1.
//
// For two samples one unit apart the weights still sum to one, so a
// two-tap stencil remains a partition of unity.
func SmoothedLerpWeight[T Float](center, query T) T {
	d := abs(center - query)
	if d >= 1 {
		return 0
	}
	return 1 - d*d*(3-2*d)
}

// SmoothedLerpWeightGrad is the derivative of SmoothedLerpWeight with respect
// to query: 6d(1-|d|) with d = center - query.
func SmoothedLerpWeightGrad[T Float](center, query T) T {
	d := center - query
	ad := abs(d)
	if ad >= 1 {
		return 0
	}
	return 6 * d * (1 - ad)
}

// MirrorBoundary reflects index back into [0, extent) using half-sample
// symmetry: -1 maps to 0, -2 to 1, extent to extent-1. Indices further out
// keep reflecting with period 2*extent. extent must be positive.
func MirrorBoundary(index, extent int) int {
	period := 2 * extent
	index %= period
	if index < 0 {
		index += period
	}
	if index >= extent {
		index = period - 1 - index
	}
	return index
}

// ClampIndex clamps index into [0, extent-1]. extent must be positive.
func ClampIndex(index, extent int) int {
	if index < 0 {
		return 0
	}
	if index >= extent {
		return extent - 1
	}
	return index
}
