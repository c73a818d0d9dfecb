package tensor

// Backend defines the interface that all compute backends must implement.
// Backends own device selection and launch; shape compatibility is checked
// by the backend before any kernel runs.
//
// Implementations:
//   - CPU: pure Go over a goroutine pool (or serial reference launcher)
//   - WebGPU: WGSL compute shaders, float32 only
type Backend interface {
	// BilateralSlice samples grid (C, D, GX, GY, B) at every pixel of guide
	// (W, H, B) and returns the output (C, W, H, B).
	BilateralSlice(grid, guide *RawTensor) (*RawTensor, error)

	// BilateralSliceGridGrad returns the gradient w.r.t. a grid of gridShape
	// given guide (W, H, B) and the output gradient (C, W, H, B).
	BilateralSliceGridGrad(guide, codomainTangent *RawTensor, gridShape Shape) (*RawTensor, error)

	// BilateralSliceGuideGrad returns the gradient w.r.t. guide (W, H, B).
	BilateralSliceGuideGrad(grid, guide, codomainTangent *RawTensor) (*RawTensor, error)

	// BilateralSliceGrad computes both gradients. Backends may run the two
	// kernels concurrently.
	BilateralSliceGrad(grid, guide, codomainTangent *RawTensor) (gridGrad, guideGrad *RawTensor, err error)

	// Metadata
	Name() string
	Device() Device
}
