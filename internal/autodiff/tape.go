package autodiff

import (
	"github.com/pkg/errors"

	"github.com/born-ml/bilateral/internal/autodiff/ops"
	"github.com/born-ml/bilateral/internal/tensor"
)

// GradientTape records operations during the forward pass and computes
// gradients during the backward pass using reverse-mode automatic differentiation.
//
// Usage:
//
//	tape := NewGradientTape()
//	tape.StartRecording()
//	// ... perform operations ...
//	gradients, err := tape.Backward(outputGrad, backend)
type GradientTape struct {
	operations []ops.Operation // Recorded operations (in execution order)
	recording  bool
}

// NewGradientTape creates a new gradient tape.
func NewGradientTape() *GradientTape {
	return &GradientTape{
		operations: make([]ops.Operation, 0, 16),
	}
}

// StartRecording enables operation recording.
func (t *GradientTape) StartRecording() {
	t.recording = true
}

// StopRecording disables operation recording.
func (t *GradientTape) StopRecording() {
	t.recording = false
}

// IsRecording returns true if the tape is currently recording operations.
func (t *GradientTape) IsRecording() bool {
	return t.recording
}

// Record adds an operation to the tape.
// Only records if the tape is currently recording.
func (t *GradientTape) Record(op ops.Operation) {
	if t.recording {
		t.operations = append(t.operations, op)
	}
}

// Clear resets the tape, removing all recorded operations.
// Recording state is preserved.
func (t *GradientTape) Clear() {
	t.operations = t.operations[:0]
}

// NumOps returns the number of recorded operations.
func (t *GradientTape) NumOps() int {
	return len(t.operations)
}

// Backward seeds the output of the last recorded operation with outputGrad
// and propagates gradients back through the tape.
//
// Returns a map from RawTensor to its accumulated gradient.
func (t *GradientTape) Backward(outputGrad *tensor.RawTensor, backend tensor.Backend) (map[*tensor.RawTensor]*tensor.RawTensor, error) {
	if len(t.operations) == 0 {
		return make(map[*tensor.RawTensor]*tensor.RawTensor), nil
	}
	last := t.operations[len(t.operations)-1]
	return t.BackwardFrom(map[*tensor.RawTensor]*tensor.RawTensor{last.Output(): outputGrad}, backend)
}

// BackwardFrom propagates the given output gradients back through the tape.
// Several outputs may be seeded at once; gradients reaching a tensor along
// more than one path are summed.
//
// Algorithm:
//  1. Walk operations in reverse order
//  2. For each operation with a gradient on its output, compute input
//     gradients using the chain rule
//  3. Accumulate gradients when the same tensor is used multiple times
func (t *GradientTape) BackwardFrom(seeds map[*tensor.RawTensor]*tensor.RawTensor, backend tensor.Backend) (map[*tensor.RawTensor]*tensor.RawTensor, error) {
	// Stop recording during backward pass to prevent recording gradient operations
	wasRecording := t.recording
	t.recording = false
	defer func() {
		t.recording = wasRecording
	}()

	grads := make(map[*tensor.RawTensor]*tensor.RawTensor, len(seeds))
	for out, g := range seeds {
		grads[out] = g
	}

	for i := len(t.operations) - 1; i >= 0; i-- {
		op := t.operations[i]
		outputGrad, ok := grads[op.Output()]
		if !ok {
			continue
		}
		inputGrads, err := op.Backward(outputGrad, backend)
		if err != nil {
			return nil, errors.WithMessagef(err, "backward: operation %d", i)
		}
		if err := accumulateGrads(op.Inputs(), inputGrads, grads); err != nil {
			return nil, errors.WithMessagef(err, "backward: operation %d", i)
		}
	}
	return grads, nil
}

// accumulateGrads adds each input gradient into grads.
func accumulateGrads(inputs, inputGrads []*tensor.RawTensor, grads map[*tensor.RawTensor]*tensor.RawTensor) error {
	for j, input := range inputs {
		if j >= len(inputGrads) || inputGrads[j] == nil {
			continue
		}
		existing, ok := grads[input]
		if !ok {
			grads[input] = inputGrads[j]
			continue
		}
		sum, err := add(existing, inputGrads[j])
		if err != nil {
			return err
		}
		grads[input] = sum
	}
	return nil
}

// add returns a + b as a new tensor. Float16 is summed in float32.
func add(a, b *tensor.RawTensor) (*tensor.RawTensor, error) {
	if !a.Shape().Equal(b.Shape()) {
		return nil, errors.Wrapf(tensor.ErrShapeMismatch, "accumulate %v and %v", a.Shape(), b.Shape())
	}
	if a.DType() != b.DType() {
		return nil, errors.Wrapf(tensor.ErrUnsupportedDType, "accumulate %s and %s", a.DType(), b.DType())
	}

	switch a.DType() {
	case tensor.Float32:
		return addValues[float32](a, b), nil
	case tensor.Float64:
		return addValues[float64](a, b), nil
	case tensor.Float16:
		wa, err := tensor.Cast(a, tensor.Float32)
		if err != nil {
			return nil, err
		}
		wb, err := tensor.Cast(b, tensor.Float32)
		if err != nil {
			return nil, err
		}
		return tensor.Cast(addValues[float32](wa, wb), tensor.Float16)
	default:
		return nil, errors.Wrapf(tensor.ErrUnsupportedDType, "accumulate %s", a.DType())
	}
}

func addValues[T tensor.DType](a, b *tensor.RawTensor) *tensor.RawTensor {
	sum := a.Clone()
	dst := tensor.Values[T](sum)
	for i, v := range tensor.Values[T](b) {
		dst[i] += v
	}
	return sum
}
