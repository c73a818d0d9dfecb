//go:build windows

package webgpu

import (
	"github.com/pkg/errors"

	"github.com/born-ml/bilateral/internal/bilateral"
	"github.com/born-ml/bilateral/internal/tensor"
)

// checkFloat32 rejects anything the WGSL kernels cannot read directly.
func checkFloat32(op string, ts ...*tensor.RawTensor) error {
	for _, t := range ts {
		if t.DType() != tensor.Float32 {
			return errors.Wrapf(tensor.ErrUnsupportedDType, "webgpu: %s: only float32 is supported, got %s", op, t.DType())
		}
	}
	return nil
}

// BilateralSlice samples grid at every pixel of guide on the GPU.
func (b *Backend) BilateralSlice(grid, guide *tensor.RawTensor) (*tensor.RawTensor, error) {
	gs, gd, err := bilateral.CheckSlice(grid.Shape(), guide.Shape())
	if err != nil {
		return nil, errors.WithMessage(err, "webgpu: BilateralSlice")
	}
	if err := checkFloat32("BilateralSlice", grid, guide); err != nil {
		return nil, err
	}
	outShape := bilateral.SliceOutput(gs, gd)
	return b.runBilateralKernel("bilateral_slice", bilateralSliceShader,
		[]*tensor.RawTensor{grid, guide}, outShape.Shape(), encodeParams(gs, gd, outShape.Len()))
}

// BilateralSliceGridGrad returns the gradient w.r.t. a grid of gridShape.
func (b *Backend) BilateralSliceGridGrad(guide, codomainTangent *tensor.RawTensor, gridShape tensor.Shape) (*tensor.RawTensor, error) {
	gs, gd, err := bilateral.CheckGridGrad(guide.Shape(), codomainTangent.Shape(), gridShape)
	if err != nil {
		return nil, errors.WithMessage(err, "webgpu: BilateralSliceGridGrad")
	}
	if err := checkFloat32("BilateralSliceGridGrad", guide, codomainTangent); err != nil {
		return nil, err
	}
	if gd.Len() == 0 {
		// No pixels sampled the grid.
		return tensor.NewRaw(gs.Shape(), tensor.Float32, tensor.WebGPU)
	}
	return b.runBilateralKernel("bilateral_slice_grid_grad", bilateralGridGradShader,
		[]*tensor.RawTensor{guide, codomainTangent}, gs.Shape(), encodeParams(gs, gd, gs.Len()))
}

// BilateralSliceGuideGrad returns the gradient w.r.t. guide.
func (b *Backend) BilateralSliceGuideGrad(grid, guide, codomainTangent *tensor.RawTensor) (*tensor.RawTensor, error) {
	gs, gd, err := bilateral.CheckGuideGrad(grid.Shape(), guide.Shape(), codomainTangent.Shape())
	if err != nil {
		return nil, errors.WithMessage(err, "webgpu: BilateralSliceGuideGrad")
	}
	if err := checkFloat32("BilateralSliceGuideGrad", grid, guide, codomainTangent); err != nil {
		return nil, err
	}
	return b.runBilateralKernel("bilateral_slice_guide_grad", bilateralGuideGradShader,
		[]*tensor.RawTensor{grid, guide, codomainTangent}, gd.Shape(), encodeParams(gs, gd, gd.Len()))
}

// BilateralSliceGrad computes both gradients. The two kernels are submitted
// one after the other on the backend's queue.
func (b *Backend) BilateralSliceGrad(grid, guide, codomainTangent *tensor.RawTensor) (gridGrad, guideGrad *tensor.RawTensor, err error) {
	if gridGrad, err = b.BilateralSliceGridGrad(guide, codomainTangent, grid.Shape()); err != nil {
		return nil, nil, err
	}
	if guideGrad, err = b.BilateralSliceGuideGrad(grid, guide, codomainTangent); err != nil {
		return nil, nil, err
	}
	return gridGrad, guideGrad, nil
}
