package cpu

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/x448/float16"

	"github.com/born-ml/bilateral/internal/parallel"
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

func TestBilateralSlice_Shapes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	backend := New()

	grid := randomRaw(t, rng, tensor.Shape{3, 8, 4, 4, 2}, -1, 1)
	guide := randomRaw(t, rng, tensor.Shape{20, 12, 2}, 0, 1)

	out, err := backend.BilateralSlice(grid, guide)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{3, 20, 12, 2}, out.Shape())
	assert.Equal(t, tensor.Float32, out.DType())
	assert.Equal(t, tensor.CPU, out.Device())

	ct := randomRaw(t, rng, out.Shape(), -1, 1)
	gridGrad, err := backend.BilateralSliceGridGrad(guide, ct, grid.Shape())
	require.NoError(t, err)
	assert.Equal(t, grid.Shape(), gridGrad.Shape())

	guideGrad, err := backend.BilateralSliceGuideGrad(grid, guide, ct)
	require.NoError(t, err)
	assert.Equal(t, guide.Shape(), guideGrad.Shape())

	gridGrad2, guideGrad2, err := backend.BilateralSliceGrad(grid, guide, ct)
	require.NoError(t, err)
	assert.Equal(t, gridGrad.AsFloat32(), gridGrad2.AsFloat32())
	assert.Equal(t, guideGrad.AsFloat32(), guideGrad2.AsFloat32())
}

func TestBilateralSlice_SerialMatchesParallel(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	grid := randomRaw(t, rng, tensor.Shape{2, 4, 3, 5, 1}, -1, 1)
	guide := randomRaw(t, rng, tensor.Shape{31, 29, 1}, 0, 1)

	par := NewWithConfig(parallel.Config{Enabled: true, NumWorkers: 8, MinChunkSize: 4})
	ser := NewSerial()
	assert.Equal(t, "CPU (serial)", ser.Name())

	a, err := par.BilateralSlice(grid, guide)
	require.NoError(t, err)
	b, err := ser.BilateralSlice(grid, guide)
	require.NoError(t, err)
	assert.Equal(t, b.AsFloat32(), a.AsFloat32())
}

func TestBilateralSlice_Float64(t *testing.T) {
	backend := New()
	grid, err := tensor.FromValues([]float64{0, 1}, tensor.Shape{1, 2, 1, 1, 1}, tensor.CPU)
	require.NoError(t, err)
	guide, err := tensor.FromValues([]float64{0.25, 0.75}, tensor.Shape{2, 1, 1}, tensor.CPU)
	require.NoError(t, err)

	out, err := backend.BilateralSlice(grid, guide)
	require.NoError(t, err)
	require.Equal(t, tensor.Float64, out.DType())
	assert.InDeltaSlice(t, []float64{0, 1}, out.AsFloat64(), 1e-12)
}

func TestBilateralSlice_Float16(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	backend := New()

	grid32 := randomRaw(t, rng, tensor.Shape{2, 4, 3, 3, 1}, -1, 1)
	guide32 := randomRaw(t, rng, tensor.Shape{9, 7, 1}, 0, 1)
	grid16, err := tensor.Cast(grid32, tensor.Float16)
	require.NoError(t, err)
	guide16, err := tensor.Cast(guide32, tensor.Float16)
	require.NoError(t, err)

	out16, err := backend.BilateralSlice(grid16, guide16)
	require.NoError(t, err)
	require.Equal(t, tensor.Float16, out16.DType())

	// Reference on the float16-rounded inputs.
	gridRounded, err := tensor.Cast(grid16, tensor.Float32)
	require.NoError(t, err)
	guideRounded, err := tensor.Cast(guide16, tensor.Float32)
	require.NoError(t, err)
	want, err := backend.BilateralSlice(gridRounded, guideRounded)
	require.NoError(t, err)

	for i, v := range out16.AsFloat16() {
		w := want.AsFloat32()[i]
		assert.InDelta(t, w, v.Float32(), 2e-3, "element %d", i)
		assert.Equal(t, float16.Fromfloat32(w), v, "element %d", i)
	}
}

func TestBilateralSlice_Errors(t *testing.T) {
	backend := New()
	rng := rand.New(rand.NewSource(4))

	grid := randomRaw(t, rng, tensor.Shape{1, 2, 2, 2, 1}, -1, 1)
	guide := randomRaw(t, rng, tensor.Shape{4, 4, 2}, 0, 1)
	_, err := backend.BilateralSlice(grid, guide)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch), "got %v", err)

	guide64, err := tensor.FromValues(make([]float64, 16), tensor.Shape{4, 4, 1}, tensor.CPU)
	require.NoError(t, err)
	_, err = backend.BilateralSlice(grid, guide64)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tensor.ErrUnsupportedDType), "got %v", err)

	guideOK := randomRaw(t, rng, tensor.Shape{4, 4, 1}, 0, 1)
	badTangent := randomRaw(t, rng, tensor.Shape{2, 4, 4, 1}, -1, 1)
	_, _, err = backend.BilateralSliceGrad(grid, guideOK, badTangent)
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch), "got %v", err)
	_, err = backend.BilateralSliceGridGrad(guideOK, badTangent, grid.Shape())
	assert.True(t, errors.Is(err, tensor.ErrShapeMismatch), "got %v", err)
}

func TestBilateralSlice_ZeroSize(t *testing.T) {
	backend := New()
	grid, err := tensor.NewRaw(tensor.Shape{0, 2, 2, 2, 1}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	guide, err := tensor.NewRaw(tensor.Shape{4, 4, 1}, tensor.Float32, tensor.CPU)
	require.NoError(t, err)

	out, err := backend.BilateralSlice(grid, guide)
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{0, 4, 4, 1}, out.Shape())
	assert.Equal(t, 0, out.NumElements())

	gridGrad, guideGrad, err := backend.BilateralSliceGrad(grid, guide, out)
	require.NoError(t, err)
	assert.Equal(t, 0, gridGrad.NumElements())
	assert.Equal(t, make([]float32, 16), guideGrad.AsFloat32())
}
