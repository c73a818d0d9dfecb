package cpu

import (
	"github.com/pkg/errors"

	"github.com/born-ml/bilateral/internal/bilateral"
	"github.com/born-ml/bilateral/internal/numerics"
	"github.com/born-ml/bilateral/internal/tensor"
)

// BilateralSlice samples grid (C, D, GX, GY, B) at every pixel of guide
// (W, H, B) and returns a (C, W, H, B) tensor of the inputs' dtype.
func (cpu *CPUBackend) BilateralSlice(grid, guide *tensor.RawTensor) (*tensor.RawTensor, error) {
	gs, gd, err := bilateral.CheckSlice(grid.Shape(), guide.Shape())
	if err != nil {
		return nil, errors.WithMessage(err, "BilateralSlice")
	}
	in, dtype, err := computeInputs(grid, guide)
	if err != nil {
		return nil, errors.WithMessage(err, "BilateralSlice")
	}
	out, err := tensor.NewRaw(bilateral.SliceOutput(gs, gd).Shape(), in[0].DType(), cpu.device)
	if err != nil {
		return nil, errors.Wrap(err, "BilateralSlice: failed to create result tensor")
	}

	switch out.DType() {
	case tensor.Float32:
		err = bilateral.Slice(cpu.launcher, in[0].AsFloat32(), gs, in[1].AsFloat32(), gd, out.AsFloat32())
	case tensor.Float64:
		err = bilateral.Slice(cpu.launcher, in[0].AsFloat64(), gs, in[1].AsFloat64(), gd, out.AsFloat64())
	}
	if err != nil {
		return nil, errors.WithMessage(err, "BilateralSlice")
	}
	return storeAs(out, dtype)
}

// BilateralSliceGridGrad returns the gradient w.r.t. a grid of gridShape.
func (cpu *CPUBackend) BilateralSliceGridGrad(guide, codomainTangent *tensor.RawTensor, gridShape tensor.Shape) (*tensor.RawTensor, error) {
	gs, gd, err := bilateral.CheckGridGrad(guide.Shape(), codomainTangent.Shape(), gridShape)
	if err != nil {
		return nil, errors.WithMessage(err, "BilateralSliceGridGrad")
	}
	in, dtype, err := computeInputs(guide, codomainTangent)
	if err != nil {
		return nil, errors.WithMessage(err, "BilateralSliceGridGrad")
	}
	gridGrad, err := tensor.NewRaw(gs.Shape(), in[0].DType(), cpu.device)
	if err != nil {
		return nil, errors.Wrap(err, "BilateralSliceGridGrad: failed to create gradient tensor")
	}

	switch gridGrad.DType() {
	case tensor.Float32:
		err = bilateral.GridGrad(cpu.launcher, in[0].AsFloat32(), gd, in[1].AsFloat32(), gridGrad.AsFloat32(), gs)
	case tensor.Float64:
		err = bilateral.GridGrad(cpu.launcher, in[0].AsFloat64(), gd, in[1].AsFloat64(), gridGrad.AsFloat64(), gs)
	}
	if err != nil {
		return nil, errors.WithMessage(err, "BilateralSliceGridGrad")
	}
	return storeAs(gridGrad, dtype)
}

// BilateralSliceGuideGrad returns the gradient w.r.t. guide (W, H, B).
func (cpu *CPUBackend) BilateralSliceGuideGrad(grid, guide, codomainTangent *tensor.RawTensor) (*tensor.RawTensor, error) {
	gs, gd, err := bilateral.CheckGuideGrad(grid.Shape(), guide.Shape(), codomainTangent.Shape())
	if err != nil {
		return nil, errors.WithMessage(err, "BilateralSliceGuideGrad")
	}
	in, dtype, err := computeInputs(grid, guide, codomainTangent)
	if err != nil {
		return nil, errors.WithMessage(err, "BilateralSliceGuideGrad")
	}
	guideGrad, err := tensor.NewRaw(gd.Shape(), in[0].DType(), cpu.device)
	if err != nil {
		return nil, errors.Wrap(err, "BilateralSliceGuideGrad: failed to create gradient tensor")
	}

	switch guideGrad.DType() {
	case tensor.Float32:
		err = bilateral.GuideGrad(cpu.launcher, in[0].AsFloat32(), gs, in[1].AsFloat32(), gd, in[2].AsFloat32(), guideGrad.AsFloat32())
	case tensor.Float64:
		err = bilateral.GuideGrad(cpu.launcher, in[0].AsFloat64(), gs, in[1].AsFloat64(), gd, in[2].AsFloat64(), guideGrad.AsFloat64())
	}
	if err != nil {
		return nil, errors.WithMessage(err, "BilateralSliceGuideGrad")
	}
	return storeAs(guideGrad, dtype)
}

// BilateralSliceGrad computes the grid and guide gradients concurrently.
func (cpu *CPUBackend) BilateralSliceGrad(grid, guide, codomainTangent *tensor.RawTensor) (gridGrad, guideGrad *tensor.RawTensor, err error) {
	gs, gd, err := bilateral.CheckGuideGrad(grid.Shape(), guide.Shape(), codomainTangent.Shape())
	if err != nil {
		return nil, nil, errors.WithMessage(err, "BilateralSliceGrad")
	}
	in, dtype, err := computeInputs(grid, guide, codomainTangent)
	if err != nil {
		return nil, nil, errors.WithMessage(err, "BilateralSliceGrad")
	}
	computeType := in[0].DType()
	if gridGrad, err = tensor.NewRaw(gs.Shape(), computeType, cpu.device); err != nil {
		return nil, nil, errors.Wrap(err, "BilateralSliceGrad: failed to create grid gradient")
	}
	if guideGrad, err = tensor.NewRaw(gd.Shape(), computeType, cpu.device); err != nil {
		return nil, nil, errors.Wrap(err, "BilateralSliceGrad: failed to create guide gradient")
	}

	switch computeType {
	case tensor.Float32:
		err = runGrad(cpu, in, gs, gd, gridGrad, guideGrad, (*tensor.RawTensor).AsFloat32)
	case tensor.Float64:
		err = runGrad(cpu, in, gs, gd, gridGrad, guideGrad, (*tensor.RawTensor).AsFloat64)
	}
	if err != nil {
		return nil, nil, errors.WithMessage(err, "BilateralSliceGrad")
	}
	if gridGrad, err = storeAs(gridGrad, dtype); err != nil {
		return nil, nil, err
	}
	if guideGrad, err = storeAs(guideGrad, dtype); err != nil {
		return nil, nil, err
	}
	return gridGrad, guideGrad, nil
}

func runGrad[T numerics.Float](cpu *CPUBackend, in []*tensor.RawTensor, gs bilateral.GridShape, gd bilateral.GuideShape,
	gridGrad, guideGrad *tensor.RawTensor, as func(*tensor.RawTensor) []T,
) error {
	return bilateral.Grad(cpu.launcher, as(in[0]), gs, as(in[1]), gd, as(in[2]), as(gridGrad), as(guideGrad))
}

// computeInputs checks that all tensors share one dtype and returns them in
// the dtype kernels compute in. Float16 is widened to float32; the returned
// dtype is the one results must be stored as.
func computeInputs(ts ...*tensor.RawTensor) ([]*tensor.RawTensor, tensor.DataType, error) {
	dtype := ts[0].DType()
	for _, t := range ts[1:] {
		if t.DType() != dtype {
			return nil, dtype, errors.Wrapf(tensor.ErrUnsupportedDType, "mixed dtypes %s and %s", dtype, t.DType())
		}
	}

	switch dtype {
	case tensor.Float32, tensor.Float64:
		return ts, dtype, nil
	case tensor.Float16:
		wide := make([]*tensor.RawTensor, len(ts))
		for i, t := range ts {
			w, err := tensor.Cast(t, tensor.Float32)
			if err != nil {
				return nil, dtype, err
			}
			wide[i] = w
		}
		return wide, dtype, nil
	default:
		return nil, dtype, errors.Wrapf(tensor.ErrUnsupportedDType, "%s", dtype)
	}
}

// storeAs narrows a compute result back to the caller's dtype.
func storeAs(result *tensor.RawTensor, dtype tensor.DataType) (*tensor.RawTensor, error) {
	if result.DType() == dtype {
		return result, nil
	}
	return tensor.Cast(result, dtype)
}
