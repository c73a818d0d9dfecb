// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for the bilateral slicing
// kernels.
//
// # Overview
//
// Every kernel launches one task per output element over a goroutine pool.
// Tasks write disjoint elements, so results do not depend on scheduling and
// the serial backend returns bit-identical values.
//
// float32 and float64 are computed natively; float16 inputs are widened to
// float32 and the results narrowed back.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/bilateral/backend/cpu"
//	    "github.com/born-ml/bilateral/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    grid := tensor.Zeros[float32](tensor.Shape{12, 8, 16, 16, 1}, backend)
//	    guide := tensor.Zeros[float32](tensor.Shape{256, 256, 1}, backend)
//	    out, err := grid.BilateralSlice(guide)
//	}
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Kernels share no mutable
// state beyond the tensors passed to them.
package cpu
