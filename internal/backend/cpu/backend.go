// Package cpu implements the CPU backend for the bilateral slicing kernels.
package cpu

import (
	"github.com/born-ml/bilateral/internal/parallel"
	"github.com/born-ml/bilateral/internal/tensor"
)

// CPUBackend implements tensor.Backend on CPU goroutines.
type CPUBackend struct {
	device   tensor.Device
	launcher parallel.Launcher
	name     string
}

// New creates a new CPU backend using parallel.DefaultConfig.
func New() *CPUBackend {
	return NewWithConfig(parallel.DefaultConfig())
}

// NewWithConfig creates a CPU backend whose launches follow cfg.
func NewWithConfig(cfg parallel.Config) *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		launcher: parallel.NewPool(cfg),
		name:     "CPU",
	}
}

// NewSerial creates a single-threaded reference backend. Results are
// identical to the parallel backend.
func NewSerial() *CPUBackend {
	return &CPUBackend{
		device:   tensor.CPU,
		launcher: parallel.Serial{},
		name:     "CPU (serial)",
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return cpu.name
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}
