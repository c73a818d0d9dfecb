package tensor

import "github.com/pkg/errors"

// Verify that MockBackend implements Backend.
var _ Backend = (*MockBackend)(nil)

// MockBackend is a Backend for testing code that dispatches to a backend.
// It returns zero tensors of the right shape and counts the calls it
// receives. Setting Err makes every kernel fail with it.
type MockBackend struct {
	Calls map[string]int
	Err   error
}

// NewMockBackend creates a new MockBackend.
func NewMockBackend() *MockBackend {
	return &MockBackend{Calls: make(map[string]int)}
}

// Name returns the backend name.
func (m *MockBackend) Name() string {
	return "mock"
}

// Device returns the device type.
func (m *MockBackend) Device() Device {
	return CPU
}

// BilateralSlice returns zeros shaped (C, W, H, B).
func (m *MockBackend) BilateralSlice(grid, guide *RawTensor) (*RawTensor, error) {
	m.Calls["BilateralSlice"]++
	if m.Err != nil {
		return nil, m.Err
	}
	if grid.Shape().Rank() != 5 || guide.Shape().Rank() != 3 {
		return nil, errors.Wrapf(ErrShapeMismatch, "mock: grid %v, guide %v", grid.Shape(), guide.Shape())
	}
	g := guide.Shape()
	return NewRaw(Shape{grid.Shape()[0], g[0], g[1], g[2]}, grid.DType(), CPU)
}

// BilateralSliceGridGrad returns zeros shaped gridShape.
func (m *MockBackend) BilateralSliceGridGrad(guide, _ *RawTensor, gridShape Shape) (*RawTensor, error) {
	m.Calls["BilateralSliceGridGrad"]++
	if m.Err != nil {
		return nil, m.Err
	}
	return NewRaw(gridShape, guide.DType(), CPU)
}

// BilateralSliceGuideGrad returns zeros shaped like guide.
func (m *MockBackend) BilateralSliceGuideGrad(_, guide, _ *RawTensor) (*RawTensor, error) {
	m.Calls["BilateralSliceGuideGrad"]++
	if m.Err != nil {
		return nil, m.Err
	}
	return NewRaw(guide.Shape(), guide.DType(), CPU)
}

// BilateralSliceGrad returns both zero gradients.
func (m *MockBackend) BilateralSliceGrad(grid, guide, codomainTangent *RawTensor) (gridGrad, guideGrad *RawTensor, err error) {
	if gridGrad, err = m.BilateralSliceGridGrad(guide, codomainTangent, grid.Shape()); err != nil {
		return nil, nil, err
	}
	if guideGrad, err = m.BilateralSliceGuideGrad(grid, guide, codomainTangent); err != nil {
		return nil, nil, err
	}
	return gridGrad, guideGrad, nil
}
