// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import "github.com/born-ml/bilateral/internal/tensor"

// Backend runs the bilateral slicing kernels on a device.
//
// Implementations:
//   - backend/cpu: pure Go over a goroutine pool
//   - backend/webgpu: WGSL compute shaders (float32 only)
//
// Decorator backends for additional functionality:
//   - autodiff: records slices on a gradient tape (wraps any backend)
type Backend = tensor.Backend
