package bilateral

import (
	"math"

	"github.com/born-ml/bilateral/internal/numerics"
)

// stencil is the clamped 2×2×2 neighbourhood of a fractional grid position
// together with its per-axis weights.
type stencil[T numerics.Float] struct {
	x, y, z    [2]int
	wx, wy, wz [2]T
}

// depthWeight is the weight applied along the depth axis: the smoothed tent
// for sampling, or its scaled derivative for the guide gradient.
type depthWeight[T numerics.Float] func(center, query T) T

// newStencil builds the neighbourhood around (gxf, gyf, gzf). Sample centres
// sit at integer+0.5 and out-of-range taps are clamped onto the edge cells.
func newStencil[T numerics.Float](gs GridShape, gxf, gyf, gzf T, wz depthWeight[T]) stencil[T] {
	var s stencil[T]
	gx0 := floorInt(gxf - 0.5)
	gy0 := floorInt(gyf - 0.5)
	gz0 := floorInt(gzf - 0.5)
	for i := range 2 {
		gx, gy, gz := gx0+i, gy0+i, gz0+i
		s.x[i] = numerics.ClampIndex(gx, gs.Width)
		s.y[i] = numerics.ClampIndex(gy, gs.Height)
		s.z[i] = numerics.ClampIndex(gz, gs.Depth)
		s.wx[i] = numerics.LerpWeight(T(gx)+0.5, gxf)
		s.wy[i] = numerics.LerpWeight(T(gy)+0.5, gyf)
		s.wz[i] = wz(T(gz)+0.5, gzf)
	}
	return s
}

// apply sums the weighted grid values of channel c, batch b.
func (s *stencil[T]) apply(grid []T, gs GridShape, c, b int) T {
	var value T
	for j := range 2 {
		for i := range 2 {
			wxy := s.wx[i] * s.wy[j]
			for k := range 2 {
				value += wxy * s.wz[k] * grid[gs.Offset(c, s.z[k], s.x[i], s.y[j], b)]
			}
		}
	}
	return value
}

func floorInt[T numerics.Float](v T) int {
	return int(math.Floor(float64(v)))
}

func ceilInt[T numerics.Float](v T) int {
	return int(math.Ceil(float64(v)))
}
