package bilateral

import (
	"github.com/born-ml/bilateral/internal/numerics"
	"github.com/born-ml/bilateral/internal/parallel"
)

// GridGrad computes the gradient of a scalar loss with respect to the grid,
// given the guide and the loss gradient w.r.t. Slice's output
// (codomainTangent, laid out as SliceOutput(gs, gd)). One task is launched per
// grid cell.
//
// Each cell gathers every guide pixel whose forward stencil could reach it:
// the window [floor(s·(gx-0.5)), ceil(s·(gx+1.5))) with s = W/GX, and the same
// on y. Pixels outside the guide are mirrored back in. On depth, the first and
// last cells take full weight for guide values below 0.5 or above D-0.5,
// matching the clamped taps of the forward pass.
func GridGrad[T numerics.Float](l parallel.Launcher, guide []T, gd GuideShape, codomainTangent []T, gridGrad []T, gs GridShape) error {
	n := gs.Len()
	if n == 0 {
		return nil
	}
	if gd.Len() == 0 {
		// No pixels sampled the grid.
		clear(gridGrad[:n])
		return nil
	}

	outShape := SliceOutput(gs, gd)
	scaleX := T(gd.Width) / T(gs.Width)
	scaleY := T(gd.Height) / T(gs.Height)
	depth := T(gs.Depth)
	lastZ := gs.Depth - 1

	return l.Launch("bilateral_slice_grid_grad", n, func(idx int) {
		c, gz, gx, gy, b := gs.Unravel(idx)

		x0 := floorInt(scaleX * (T(gx) + 0.5 - 1))
		x1 := ceilInt(scaleX * (T(gx) + 0.5 + 1))
		y0 := floorInt(scaleY * (T(gy) + 0.5 - 1))
		y1 := ceilInt(scaleY * (T(gy) + 0.5 + 1))

		var value T
		for y := y0; y < y1; y++ {
			ym := numerics.MirrorBoundary(y, gd.Height)
			wy := numerics.LerpWeight(T(gy)+0.5, (T(y)+0.5)/scaleY)

			for x := x0; x < x1; x++ {
				xm := numerics.MirrorBoundary(x, gd.Width)
				wx := numerics.LerpWeight(T(gx)+0.5, (T(x)+0.5)/scaleX)

				gzf := guide[gd.Offset(xm, ym, b)] * depth
				wz := numerics.SmoothedLerpWeight(T(gz)+0.5, gzf)
				if (gz == 0 && gzf < 0.5) || (gz == lastZ && gzf > depth-0.5) {
					wz = 1
				}

				value += wz * wx * wy * codomainTangent[outShape.Offset(c, xm, ym, b)]
			}
		}
		gridGrad[idx] = value
	})
}
