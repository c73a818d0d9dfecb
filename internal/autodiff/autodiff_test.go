package autodiff_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/bilateral/internal/autodiff"
	"github.com/born-ml/bilateral/internal/backend/cpu"
	"github.com/born-ml/bilateral/internal/tensor"
)

func TestAutodiffBackend_Metadata(t *testing.T) {
	backend := autodiff.New(cpu.New())
	assert.Equal(t, "Autodiff(CPU)", backend.Name())
	assert.Equal(t, tensor.CPU, backend.Device())
	assert.NotNil(t, backend.Inner())

	var _ tensor.Backend = backend
}

func TestTape_Recording(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()
	assert.False(t, tape.IsRecording())

	grid := tensor.Zeros[float32](tensor.Shape{1, 2, 2, 2, 1}, backend)
	guide := tensor.Zeros[float32](tensor.Shape{3, 3, 1}, backend)

	_, err := grid.BilateralSlice(guide)
	require.NoError(t, err)
	assert.Equal(t, 0, tape.NumOps(), "nothing is recorded until StartRecording")

	tape.StartRecording()
	_, err = grid.BilateralSlice(guide)
	require.NoError(t, err)
	assert.Equal(t, 1, tape.NumOps())

	tape.StopRecording()
	assert.False(t, tape.IsRecording())
	tape.Clear()
	assert.Equal(t, 0, tape.NumOps())
}

func TestBackward_NoOps(t *testing.T) {
	backend := autodiff.New(cpu.New())
	out := tensor.Zeros[float32](tensor.Shape{1, 2, 2, 1}, backend)

	_, err := autodiff.Backward(out, backend)
	assert.Error(t, err)
}

// sliceSum is sum(BilateralSlice(grid, guide)) computed without the tape.
func sliceSum(t *testing.T, grid, guide []float64, gridShape, guideShape tensor.Shape) float64 {
	t.Helper()
	backend := cpu.NewSerial()
	g, err := tensor.FromValues(grid, gridShape, tensor.CPU)
	require.NoError(t, err)
	gd, err := tensor.FromValues(guide, guideShape, tensor.CPU)
	require.NoError(t, err)
	out, err := backend.BilateralSlice(g, gd)
	require.NoError(t, err)

	var sum float64
	for _, v := range out.AsFloat64() {
		sum += v
	}
	return sum
}

// TestBackward_NumericalGradient compares tape gradients of sum(slice) with
// central differences in float64.
func TestBackward_NumericalGradient(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	gridShape := tensor.Shape{2, 4, 3, 2, 1}
	guideShape := tensor.Shape{5, 4, 1}

	gridData := make([]float64, gridShape.NumElements())
	for i := range gridData {
		gridData[i] = rng.Float64()*2 - 1
	}
	// Keep depth coordinates away from the tap switch points at k+0.5.
	depthOffsets := []float64{0.2, 0.3, 0.7, 0.8}
	guideData := make([]float64, guideShape.NumElements())
	for i := range guideData {
		level := float64(rng.Intn(4))
		guideData[i] = (level + depthOffsets[rng.Intn(len(depthOffsets))]) / 4
	}

	backend := autodiff.New(cpu.New())
	backend.Tape().StartRecording()
	grid, err := tensor.FromSlice(gridData, gridShape, backend)
	require.NoError(t, err)
	guide, err := tensor.FromSlice(guideData, guideShape, backend)
	require.NoError(t, err)
	out, err := grid.BilateralSlice(guide)
	require.NoError(t, err)

	gradients, err := autodiff.Backward(out, backend)
	require.NoError(t, err)
	gridGrad := gradients[grid.Raw()].AsFloat64()
	guideGrad := gradients[guide.Raw()].AsFloat64()

	const eps = 1e-6
	for i := range gridData {
		plus := append([]float64(nil), gridData...)
		minus := append([]float64(nil), gridData...)
		plus[i] += eps
		minus[i] -= eps
		numerical := (sliceSum(t, plus, guideData, gridShape, guideShape) -
			sliceSum(t, minus, guideData, gridShape, guideShape)) / (2 * eps)
		assert.InDelta(t, numerical, gridGrad[i], 1e-5, "grid[%d]", i)
	}
	for i := range guideData {
		plus := append([]float64(nil), guideData...)
		minus := append([]float64(nil), guideData...)
		plus[i] += eps
		minus[i] -= eps
		numerical := (sliceSum(t, gridData, plus, gridShape, guideShape) -
			sliceSum(t, gridData, minus, gridShape, guideShape)) / (2 * eps)
		assert.InDelta(t, numerical, guideGrad[i], 1e-5, "guide[%d]", i)
	}
}

// TestBackwardFrom_Accumulates slices one grid with two guides and checks
// that the grid gradient is the sum of both paths.
func TestBackwardFrom_Accumulates(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	inner := cpu.New()
	backend := autodiff.New(inner)
	tape := backend.Tape()
	tape.StartRecording()

	gridShape := tensor.Shape{1, 3, 2, 2, 1}
	grid := tensor.Zeros[float32](gridShape, backend)
	for i := range grid.Data() {
		grid.Data()[i] = rng.Float32()
	}
	guideA := tensor.Full[float32](tensor.Shape{3, 2, 1}, 0.25, backend)
	guideB := tensor.Full[float32](tensor.Shape{4, 4, 1}, 0.6, backend)

	outA, err := grid.BilateralSlice(guideA)
	require.NoError(t, err)
	outB, err := grid.BilateralSlice(guideB)
	require.NoError(t, err)
	require.Equal(t, 2, tape.NumOps())

	seedA := tensor.Full[float32](outA.Shape(), 1, backend)
	seedB := tensor.Full[float32](outB.Shape(), -0.5, backend)

	grads, err := tape.BackwardFrom(map[*tensor.RawTensor]*tensor.RawTensor{
		outA.Raw(): seedA.Raw(),
		outB.Raw(): seedB.Raw(),
	}, backend)
	require.NoError(t, err)
	assert.True(t, tape.IsRecording(), "recording state is restored")
	assert.Equal(t, 2, tape.NumOps(), "backward records nothing")

	wantA, err := inner.BilateralSliceGridGrad(guideA.Raw(), seedA.Raw(), gridShape)
	require.NoError(t, err)
	wantB, err := inner.BilateralSliceGridGrad(guideB.Raw(), seedB.Raw(), gridShape)
	require.NoError(t, err)

	want := make([]float32, gridShape.NumElements())
	for i := range want {
		want[i] = wantA.AsFloat32()[i] + wantB.AsFloat32()[i]
	}
	assert.InDeltaSlice(t, want, grads[grid.Raw()].AsFloat32(), 1e-6)
	assert.Contains(t, grads, guideA.Raw())
	assert.Contains(t, grads, guideB.Raw())
}

func TestBackwardFrom_PropagatesErrors(t *testing.T) {
	backend := autodiff.New(cpu.New())
	tape := backend.Tape()
	tape.StartRecording()

	grid := tensor.Zeros[float32](tensor.Shape{1, 2, 2, 2, 1}, backend)
	guide := tensor.Zeros[float32](tensor.Shape{3, 3, 1}, backend)
	out, err := grid.BilateralSlice(guide)
	require.NoError(t, err)

	wrong := tensor.Zeros[float32](tensor.Shape{1, 2, 2, 1}, backend)
	_, err = tape.BackwardFrom(map[*tensor.RawTensor]*tensor.RawTensor{out.Raw(): wrong.Raw()}, backend)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestTape_BackwardSeedsLastOutput(t *testing.T) {
	inner := cpu.New()
	backend := autodiff.New(inner)
	tape := backend.Tape()
	tape.StartRecording()

	grid := tensor.Full[float64](tensor.Shape{1, 2, 2, 2, 1}, 1, backend)
	guide := tensor.Full[float64](tensor.Shape{2, 2, 1}, 0.5, backend)
	out, err := grid.BilateralSlice(guide)
	require.NoError(t, err)

	seed := tensor.Full[float64](out.Shape(), 2, backend)
	grads, err := tape.Backward(seed.Raw(), backend)
	require.NoError(t, err)

	// A constant grid has no guide gradient.
	assert.InDeltaSlice(t, make([]float64, 4), grads[guide.Raw()].AsFloat64(), 1e-12)
	// Each output sample carries unit total weight.
	var total float64
	for _, v := range grads[grid.Raw()].AsFloat64() {
		total += v
	}
	assert.InDelta(t, 2*float64(out.NumElements()), total, 1e-9)
}
