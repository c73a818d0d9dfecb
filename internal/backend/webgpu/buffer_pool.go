//go:build windows

package webgpu

import (
	"math/bits"
	"sync"

	"github.com/go-webgpu/webgpu/wgpu"
)

// maxPooledPerClass bounds how many idle buffers are kept per size class.
const maxPooledPerClass = 16

type poolKey struct {
	class int // log2 of the rounded-up buffer size
	usage wgpu.BufferUsage
}

// BufferPool recycles result and staging buffers between kernel launches.
// Sizes are rounded up to a power of two so that repeated launches on
// similar shapes hit the pool.
type BufferPool struct {
	device *wgpu.Device
	idle   map[poolKey][]*wgpu.Buffer
	mu     sync.Mutex

	hits, misses uint64
}

// NewBufferPool creates a new buffer pool for the given device.
func NewBufferPool(device *wgpu.Device) *BufferPool {
	return &BufferPool{
		device: device,
		idle:   make(map[poolKey][]*wgpu.Buffer),
	}
}

func keyFor(size uint64, usage wgpu.BufferUsage) (poolKey, uint64) {
	if size < 4 {
		size = 4
	}
	class := bits.Len64(size - 1)
	return poolKey{class: class, usage: usage}, uint64(1) << class
}

// Acquire returns a buffer of at least size bytes with the given usage.
func (p *BufferPool) Acquire(size uint64, usage wgpu.BufferUsage) *wgpu.Buffer {
	key, rounded := keyFor(size, usage)

	p.mu.Lock()
	defer p.mu.Unlock()
	if free := p.idle[key]; len(free) > 0 {
		buf := free[len(free)-1]
		p.idle[key] = free[:len(free)-1]
		p.hits++
		return buf
	}
	p.misses++
	return p.device.CreateBuffer(&wgpu.BufferDescriptor{
		Usage: usage,
		Size:  rounded,
	})
}

// Release hands a buffer obtained from Acquire back to the pool.
func (p *BufferPool) Release(buf *wgpu.Buffer, size uint64, usage wgpu.BufferUsage) {
	key, _ := keyFor(size, usage)

	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.idle[key]) >= maxPooledPerClass {
		buf.Release()
		return
	}
	p.idle[key] = append(p.idle[key], buf)
}

// Clear releases all pooled buffers.
func (p *BufferPool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, free := range p.idle {
		for _, buf := range free {
			buf.Release()
		}
		delete(p.idle, key)
	}
}

// Stats returns pool hits, misses and the number of idle buffers.
func (p *BufferPool) Stats() (hits, misses uint64, idle int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, free := range p.idle {
		idle += len(free)
	}
	return p.hits, p.misses, idle
}
