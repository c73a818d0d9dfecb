package autodiff

import (
	"github.com/pkg/errors"

	"github.com/born-ml/bilateral/internal/tensor"
)

// BackwardCapable is an interface for backends that support backward pass.
// AutodiffBackend implements this interface.
type BackwardCapable interface {
	tensor.Backend
	// GetTape returns the gradient tape for backward computation.
	GetTape() *GradientTape
}

// GetTape returns the gradient tape (implements BackwardCapable interface).
func (b *AutodiffBackend[B]) GetTape() *GradientTape {
	return b.tape
}

// Backward computes gradients of sum(t) using the backend's tape: the output
// gradient is all ones with t's shape.
//
// Returns a map from RawTensor to its gradient.
func Backward[T tensor.DType, B BackwardCapable](t *tensor.Tensor[T, B], backend B) (map[*tensor.RawTensor]*tensor.RawTensor, error) {
	tape := backend.GetTape()
	if tape.NumOps() == 0 {
		return nil, errors.New("backward: no operations recorded (did you forget to call Tape().StartRecording()?)")
	}

	outputGrad, err := tensor.NewRaw(t.Shape(), t.DType(), backend.Device())
	if err != nil {
		return nil, errors.Wrap(err, "backward: failed to create output gradient")
	}
	ones := tensor.Values[T](outputGrad)
	for i := range ones {
		ones[i] = 1
	}

	return tape.BackwardFrom(map[*tensor.RawTensor]*tensor.RawTensor{t.Raw(): outputGrad}, backend)
}
