package ops_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/bilateral/internal/autodiff/ops"
	"github.com/born-ml/bilateral/internal/backend/cpu"
	"github.com/born-ml/bilateral/internal/tensor"
)

func TestBilateralSliceOp_Backward(t *testing.T) {
	backend := cpu.New()

	grid, err := tensor.FromValues([]float64{0, 1, 2, 3}, tensor.Shape{1, 2, 2, 1, 1}, tensor.CPU)
	require.NoError(t, err)
	guide, err := tensor.FromValues([]float64{0.3, 0.6, 0.9}, tensor.Shape{3, 1, 1}, tensor.CPU)
	require.NoError(t, err)

	output, op, err := ops.BilateralSlice(grid, guide, backend)
	require.NoError(t, err)
	assert.Same(t, output, op.Output())
	assert.Equal(t, []*tensor.RawTensor{grid, guide}, op.Inputs())
	assert.Equal(t, tensor.Shape{1, 3, 1, 1}, output.Shape())

	outputGrad, err := tensor.FromValues([]float64{1, -1, 0.5}, output.Shape(), tensor.CPU)
	require.NoError(t, err)

	grads, err := op.Backward(outputGrad, backend)
	require.NoError(t, err)
	require.Len(t, grads, 2)

	wantGrid, err := backend.BilateralSliceGridGrad(guide, outputGrad, grid.Shape())
	require.NoError(t, err)
	wantGuide, err := backend.BilateralSliceGuideGrad(grid, guide, outputGrad)
	require.NoError(t, err)
	assert.InDeltaSlice(t, wantGrid.AsFloat64(), grads[0].AsFloat64(), 1e-12)
	assert.InDeltaSlice(t, wantGuide.AsFloat64(), grads[1].AsFloat64(), 1e-12)
}

func TestBilateralSliceOp_BackwardShapeMismatch(t *testing.T) {
	backend := cpu.New()

	grid, err := tensor.NewRaw(tensor.Shape{2, 2, 2, 2, 1}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	guide, err := tensor.NewRaw(tensor.Shape{4, 4, 1}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)

	_, op, err := ops.BilateralSlice(grid, guide, backend)
	require.NoError(t, err)

	bad, err := tensor.NewRaw(tensor.Shape{2, 4, 3, 1}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	_, err = op.Backward(bad, backend)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestBilateralSlice_ForwardError(t *testing.T) {
	grid, err := tensor.NewRaw(tensor.Shape{2, 2, 2, 2, 2}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	guide, err := tensor.NewRaw(tensor.Shape{4, 4, 1}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)

	_, op, err := ops.BilateralSlice(grid, guide, cpu.New())
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
	assert.Nil(t, op)
}
