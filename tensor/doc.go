// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public tensor types used by the bilateral
// slicing backends.
//
// # Overview
//
// A bilateral grid is a 5-D tensor (C, D, GX, GY, B) of per-cell values. A
// guide is a 3-D tensor (W, H, B) of values in [0, 1] selecting a depth per
// pixel. Slicing the grid with the guide yields a (C, W, H, B) image.
// All tensors store their first axis contiguously.
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
//
//	    grid := tensor.Zeros[float32](tensor.Shape{12, 8, 16, 16, 1}, backend)
//	    guide := tensor.Full[float32](tensor.Shape{256, 256, 1}, 0.5, backend)
//
//	    out, err := grid.BilateralSlice(guide) // (12, 256, 256, 1)
//	}
//
// # Supported Data Types
//
//   - float32, float64: computed natively
//   - float16: storage only, widened to float32 by backends that accept it
package tensor
