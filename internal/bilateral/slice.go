package bilateral

import (
	"github.com/born-ml/bilateral/internal/numerics"
	"github.com/born-ml/bilateral/internal/parallel"
)

// Slice samples grid at every pixel of guide and writes the result to out,
// laid out as SliceOutput(gs, gd). One task is launched per output element.
//
// An empty output is a successful no-op.
func Slice[T numerics.Float](l parallel.Launcher, grid []T, gs GridShape, guide []T, gd GuideShape, out []T) error {
	outShape := SliceOutput(gs, gd)
	n := outShape.Len()
	if n == 0 {
		return nil
	}

	scaleX := T(gs.Width) / T(gd.Width)
	scaleY := T(gs.Height) / T(gd.Height)
	depth := T(gs.Depth)
	wz := depthWeight[T](numerics.SmoothedLerpWeight[T])

	return l.Launch("bilateral_slice", n, func(idx int) {
		c, x, y, b := outShape.Unravel(idx)

		gxf := (T(x) + 0.5) * scaleX
		gyf := (T(y) + 0.5) * scaleY
		gzf := guide[gd.Offset(x, y, b)] * depth

		st := newStencil(gs, gxf, gyf, gzf, wz)
		out[idx] = st.apply(grid, gs, c, b)
	})
}
