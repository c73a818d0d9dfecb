//go:build windows

package webgpu

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-webgpu/webgpu/wgpu"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/born-ml/bilateral/internal/bilateral"
	"github.com/born-ml/bilateral/internal/tensor"
)

// paramsSize is the byte size of the WGSL Params struct: eight u32 fields.
const paramsSize = 32

var (
	storageUsage = wgpu.BufferUsageStorage | wgpu.BufferUsageCopySrc | wgpu.BufferUsageCopyDst
	stagingUsage = wgpu.BufferUsageMapRead | wgpu.BufferUsageCopyDst
)

// compileShader compiles WGSL shader code into a ShaderModule.
// Results are cached in the Backend's shaders map.
func (b *Backend) compileShader(name, code string) *wgpu.ShaderModule {
	b.mu.RLock()
	if shader, exists := b.shaders[name]; exists {
		b.mu.RUnlock()
		return shader
	}
	b.mu.RUnlock()

	shader := b.device.CreateShaderModuleWGSL(code)

	b.mu.Lock()
	defer b.mu.Unlock()
	if cached, exists := b.shaders[name]; exists {
		shader.Release()
		return cached
	}
	b.shaders[name] = shader
	return shader
}

// getOrCreatePipeline returns a cached ComputePipeline or creates a new one.
func (b *Backend) getOrCreatePipeline(name string, shader *wgpu.ShaderModule) *wgpu.ComputePipeline {
	b.mu.RLock()
	if pipeline, exists := b.pipelines[name]; exists {
		b.mu.RUnlock()
		return pipeline
	}
	b.mu.RUnlock()

	// Auto layout (nil layout); bindings are inferred from the shader.
	pipeline := b.device.CreateComputePipelineSimple(nil, shader, "main")

	b.mu.Lock()
	defer b.mu.Unlock()
	if cached, exists := b.pipelines[name]; exists {
		pipeline.Release()
		return cached
	}
	b.pipelines[name] = pipeline
	return pipeline
}

// createBuffer creates a storage buffer holding data. Storage bindings may
// not be empty, so an empty tensor gets a 4-byte placeholder.
func (b *Backend) createBuffer(data []byte, usage wgpu.BufferUsage) (*wgpu.Buffer, uint64) {
	size := uint64(len(data))
	if size < 4 {
		size = 4
	}

	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            usage,
		Size:             size,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer, size
}

// createUniformBuffer creates a uniform buffer with 16-byte alignment.
func (b *Backend) createUniformBuffer(data []byte) *wgpu.Buffer {
	size := uint64(len(data))
	alignedSize := (size + 15) &^ 15

	buffer := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage:            wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
		Size:             alignedSize,
		MappedAtCreation: wgpu.True,
	})

	mappedPtr := buffer.GetMappedRange(0, alignedSize)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), alignedSize)
	copy(mappedSlice, data)
	buffer.Unmap()

	return buffer
}

// readBuffer reads data back from a GPU buffer to CPU memory.
// Uses a pooled staging buffer since storage buffers can't be mapped directly.
func (b *Backend) readBuffer(srcBuffer *wgpu.Buffer, size uint64) ([]byte, error) {
	staging := b.bufferPool.Acquire(size, stagingUsage)
	defer b.bufferPool.Release(staging, size, stagingUsage)

	encoder := b.device.CreateCommandEncoder(nil)
	encoder.CopyBufferToBuffer(srcBuffer, 0, staging, 0, size)
	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	if err := staging.MapAsync(b.device, wgpu.MapModeRead, 0, size); err != nil {
		return nil, errors.Wrap(err, "failed to map staging buffer")
	}

	mappedPtr := staging.GetMappedRange(0, size)
	//nolint:gosec // unsafe.Slice for zero-copy conversion from unsafe.Pointer
	mappedSlice := unsafe.Slice((*byte)(mappedPtr), size)
	result := make([]byte, size)
	copy(result, mappedSlice)
	staging.Unmap()

	return result, nil
}

// checkIndexRange rejects tensors the shaders cannot address: extents are
// passed as u32 and flat offsets are computed in i32.
func checkIndexRange(shapes ...tensor.Shape) error {
	for _, shape := range shapes {
		if n := shape.NumElements(); n > math.MaxInt32 {
			return errors.Wrapf(tensor.ErrShapeMismatch,
				"webgpu: shape %v has %d elements, more than the %d a kernel can index", shape, n, math.MaxInt32)
		}
	}
	return nil
}

// encodeParams packs the launch parameters in the layout of the WGSL Params
// struct. count is the number of tasks in the launch.
func encodeParams(gs bilateral.GridShape, gd bilateral.GuideShape, count int) []byte {
	params := make([]byte, paramsSize)
	//nolint:gosec // G115: shape dimensions are validated non-negative
	for i, v := range []int{gs.Channels, gs.Depth, gs.Width, gs.Height, gd.Width, gd.Height, gd.Batch, count} {
		binary.LittleEndian.PutUint32(params[4*i:], uint32(v))
	}
	return params
}

// workgroupsFor returns the dispatch size for n tasks. Launches larger than
// maxWorkgroups*workgroupSize rely on the kernels' grid-stride loop.
func workgroupsFor(n int) uint32 {
	groups := (n + workgroupSize - 1) / workgroupSize
	if groups > maxWorkgroups {
		groups = maxWorkgroups
	}
	//nolint:gosec // G115: bounded by maxWorkgroups
	return uint32(groups)
}

// runBilateralKernel binds inputs in order, then the result buffer, then the
// params uniform, and dispatches shaderCode over count tasks. The result is a
// float32 tensor of resultShape. An empty result skips the launch.
func (b *Backend) runBilateralKernel(shaderName, shaderCode string, inputs []*tensor.RawTensor,
	resultShape tensor.Shape, params []byte,
) (*tensor.RawTensor, error) {
	shapes := []tensor.Shape{resultShape}
	for _, in := range inputs {
		shapes = append(shapes, in.Shape())
	}
	if err := checkIndexRange(shapes...); err != nil {
		return nil, err
	}

	result, err := tensor.NewRaw(resultShape, tensor.Float32, tensor.WebGPU)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create result tensor")
	}
	count := result.NumElements()
	if count == 0 {
		return result, nil
	}

	shader := b.compileShader(shaderName, shaderCode)
	pipeline := b.getOrCreatePipeline(shaderName, shader)

	entries := make([]wgpu.BindGroupEntry, 0, len(inputs)+2)
	for i, in := range inputs {
		buf, size := b.createBuffer(in.Data(), wgpu.BufferUsageStorage|wgpu.BufferUsageCopySrc)
		defer buf.Release()
		//nolint:gosec // G115: binding index is small
		entries = append(entries, wgpu.BufferBindingEntry(uint32(i), buf, 0, size))
	}

	//nolint:gosec // G115: Safe conversion, ByteSize() returns non-negative int
	resultSize := uint64(result.ByteSize())
	bufferResult := b.bufferPool.Acquire(resultSize, storageUsage)
	defer b.bufferPool.Release(bufferResult, resultSize, storageUsage)
	//nolint:gosec // G115: binding index is small
	entries = append(entries, wgpu.BufferBindingEntry(uint32(len(inputs)), bufferResult, 0, resultSize))

	bufferParams := b.createUniformBuffer(params)
	defer bufferParams.Release()
	//nolint:gosec // G115: binding index is small
	entries = append(entries, wgpu.BufferBindingEntry(uint32(len(inputs)+1), bufferParams, 0, paramsSize))

	bindGroupLayout := pipeline.GetBindGroupLayout(0)
	bindGroup := b.device.CreateBindGroupSimple(bindGroupLayout, entries)
	defer bindGroup.Release()

	workgroups := workgroupsFor(count)
	klog.V(2).Infof("webgpu: %s: %d tasks in %d workgroups", shaderName, count, workgroups)

	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)
	computePass.SetPipeline(pipeline)
	computePass.SetBindGroup(0, bindGroup, nil)
	computePass.DispatchWorkgroups(workgroups, 1, 1)
	computePass.End()

	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	data, err := b.readBuffer(bufferResult, resultSize)
	if err != nil {
		return nil, errors.Wrapf(err, "webgpu: %s", shaderName)
	}
	copy(result.Data(), data)
	return result, nil
}
