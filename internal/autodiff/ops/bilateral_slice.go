package ops

import (
	"github.com/pkg/errors"

	"github.com/born-ml/bilateral/internal/tensor"
)

// BilateralSliceOp records a bilateral slice for autodiff.
//
// Forward: output = BilateralSlice(grid, guide)
//
// Backward (gradients):
//   - d_grid:  BilateralSliceGridGrad(guide, d_output)
//   - d_guide: BilateralSliceGuideGrad(grid, guide, d_output)
type BilateralSliceOp struct {
	grid   *tensor.RawTensor
	guide  *tensor.RawTensor
	output *tensor.RawTensor
}

// NewBilateralSliceOp creates a new BilateralSlice operation.
func NewBilateralSliceOp(grid, guide, output *tensor.RawTensor) *BilateralSliceOp {
	return &BilateralSliceOp{
		grid:   grid,
		guide:  guide,
		output: output,
	}
}

// BilateralSlice runs the forward pass on backend and returns the output
// together with the operation recording it.
func BilateralSlice(grid, guide *tensor.RawTensor, backend tensor.Backend) (*tensor.RawTensor, *BilateralSliceOp, error) {
	output, err := backend.BilateralSlice(grid, guide)
	if err != nil {
		return nil, nil, err
	}
	return output, NewBilateralSliceOp(grid, guide, output), nil
}

// Inputs returns the input tensors: grid, then guide.
func (op *BilateralSliceOp) Inputs() []*tensor.RawTensor {
	return []*tensor.RawTensor{op.grid, op.guide}
}

// Output returns the output tensor.
func (op *BilateralSliceOp) Output() *tensor.RawTensor {
	return op.output
}

// Backward computes gradients for BilateralSlice.
//
// This is pure orchestration - delegates computation to backend.
//
// Given:
//   - outputGrad: ∂L/∂output [C, W, H, B]
//
// Compute:
//   - gridGrad:  ∂L/∂grid  [C, D, GX, GY, B]
//   - guideGrad: ∂L/∂guide [W, H, B]
func (op *BilateralSliceOp) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) ([]*tensor.RawTensor, error) {
	if !outputGrad.Shape().Equal(op.output.Shape()) {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch,
			"BilateralSliceOp: output gradient shape %v, want %v", outputGrad.Shape(), op.output.Shape())
	}
	gridGrad, guideGrad, err := backend.BilateralSliceGrad(op.grid, op.guide, outputGrad)
	if err != nil {
		return nil, errors.WithMessage(err, "BilateralSliceOp")
	}
	return []*tensor.RawTensor{gridGrad, guideGrad}, nil
}
