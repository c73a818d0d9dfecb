//go:build windows

package webgpu

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/bilateral/internal/backend/cpu"
	"github.com/born-ml/bilateral/internal/tensor"
)

func randomRaw(t *testing.T, rng *rand.Rand, shape tensor.Shape, lo, hi float32) *tensor.RawTensor {
	t.Helper()
	data := make([]float32, shape.NumElements())
	for i := range data {
		data[i] = lo + (hi-lo)*rng.Float32()
	}
	raw, err := tensor.FromValues(data, shape, tensor.CPU)
	require.NoError(t, err)
	return raw
}

func TestBilateral_MatchesCPU(t *testing.T) {
	gpu := newTestBackend(t)
	ref := cpu.NewSerial()
	rng := rand.New(rand.NewSource(7))

	// Guide values stray outside [0, 1] to exercise the clamped taps.
	grid := randomRaw(t, rng, tensor.Shape{3, 6, 5, 4, 2}, -1, 1)
	guide := randomRaw(t, rng, tensor.Shape{17, 13, 2}, -0.2, 1.2)

	want, err := ref.BilateralSlice(grid, guide)
	require.NoError(t, err)
	got, err := gpu.BilateralSlice(grid, guide)
	require.NoError(t, err)
	assert.Equal(t, tensor.WebGPU, got.Device())
	assert.InDeltaSlice(t, want.AsFloat32(), got.AsFloat32(), 1e-4)

	ct := randomRaw(t, rng, want.Shape(), -1, 1)

	wantGrid, wantGuide, err := ref.BilateralSliceGrad(grid, guide, ct)
	require.NoError(t, err)
	gotGrid, gotGuide, err := gpu.BilateralSliceGrad(grid, guide, ct)
	require.NoError(t, err)
	assert.InDeltaSlice(t, wantGrid.AsFloat32(), gotGrid.AsFloat32(), 1e-3)
	assert.InDeltaSlice(t, wantGuide.AsFloat32(), gotGuide.AsFloat32(), 1e-3)
}

func TestBilateral_EmptyGuide(t *testing.T) {
	gpu := newTestBackend(t)

	guide, err := tensor.NewRaw(tensor.Shape{0, 4, 1}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	ct, err := tensor.NewRaw(tensor.Shape{2, 0, 4, 1}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)

	gridGrad, err := gpu.BilateralSliceGridGrad(guide, ct, tensor.Shape{2, 3, 2, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, make([]float32, 24), gridGrad.AsFloat32())
}

func TestBilateral_RejectsFloat64(t *testing.T) {
	gpu := newTestBackend(t)

	grid, err := tensor.NewRaw(tensor.Shape{1, 2, 2, 2, 1}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)
	guide, err := tensor.NewRaw(tensor.Shape{4, 4, 1}, tensor.Float64, tensor.CPU)
	require.NoError(t, err)

	_, err = gpu.BilateralSlice(grid, guide)
	assert.ErrorIs(t, err, tensor.ErrUnsupportedDType)
}

func TestBilateral_ShapeMismatch(t *testing.T) {
	gpu := newTestBackend(t)

	grid, err := tensor.NewRaw(tensor.Shape{1, 2, 2, 2, 2}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	guide, err := tensor.NewRaw(tensor.Shape{4, 4, 1}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)

	_, err = gpu.BilateralSlice(grid, guide)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}
