package bilateral

import (
	"github.com/born-ml/bilateral/internal/numerics"
	"github.com/born-ml/bilateral/internal/parallel"
)

// GuideGrad computes the gradient of a scalar loss with respect to the guide.
// One task is launched per guide pixel; it differentiates Slice's sample with
// respect to the depth coordinate, using the same clamped stencil, and
// contracts it with codomainTangent over channels.
func GuideGrad[T numerics.Float](l parallel.Launcher, grid []T, gs GridShape, guide []T, gd GuideShape, codomainTangent []T, guideGrad []T) error {
	n := gd.Len()
	if n == 0 {
		return nil
	}

	outShape := SliceOutput(gs, gd)
	scaleX := T(gs.Width) / T(gd.Width)
	scaleY := T(gs.Height) / T(gd.Height)
	depth := T(gs.Depth)
	// d(gzf)/d(guide) = D.
	dwz := depthWeight[T](func(center, query T) T {
		return depth * numerics.SmoothedLerpWeightGrad(center, query)
	})

	return l.Launch("bilateral_slice_guide_grad", n, func(idx int) {
		x, y, b := gd.Unravel(idx)

		gxf := (T(x) + 0.5) * scaleX
		gyf := (T(y) + 0.5) * scaleY
		gzf := guide[idx] * depth

		st := newStencil(gs, gxf, gyf, gzf, dwz)
		var value T
		for c := range gs.Channels {
			value += st.apply(grid, gs, c, b) * codomainTangent[outShape.Offset(c, x, y, b)]
		}
		guideGrad[idx] = value
	})
}
