package gltest

import (
	"github.com/go-gl/mathgl/mgl32"

	"sandbox/pkg/gpu"
)

// Calls returns every recorded call in order.
func (f *Fake) Calls() []Call {
	return append([]Call(nil), f.calls...)
}

// CallNames returns the names of the recorded calls in order.
func (f *Fake) CallNames() []string {
	names := make([]string, len(f.calls))
	for i, c := range f.calls {
		names[i] = c.Name
	}
	return names
}

// Count returns how many times the named entry point was called.
func (f *Fake) Count(name string) int {
	n := 0
	for _, c := range f.calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// ResetCalls forgets recorded calls, draws and errors but keeps all
// object state.
func (f *Fake) ResetCalls() {
	f.calls = nil
	f.draws = nil
	f.errors = nil
}

// Draws returns the draws that reached the rasterizer.
func (f *Fake) Draws() []Draw {
	return append([]Draw(nil), f.draws...)
}

// Errors returns the invalid operations observed, in the spirit of
// glGetError.
func (f *Fake) Errors() []string {
	return append([]string(nil), f.errors...)
}

// Buffer returns the emulated buffer id, nil if it does not exist.
func (f *Fake) Buffer(id uint32) *Buffer {
	return f.buffers[id]
}

// VertexArray returns the emulated vertex array id, nil if it does not exist.
func (f *Fake) VertexArray(id uint32) *VertexArray {
	return f.vertexArrays[id]
}

// BoundVertexArray returns the vertex array bound on the driver side.
func (f *Fake) BoundVertexArray() uint32 {
	return f.boundArray
}

// BoundBuffer returns the driver-side binding for target in the current
// vertex array scope.
func (f *Fake) BoundBuffer(target gpu.BufferTarget) uint32 {
	return f.bufferAt(target)
}

// Program returns the program in use on the driver side.
func (f *Fake) Program() uint32 {
	return f.program
}

// PolygonModeState returns the rasterizer fill mode.
func (f *Fake) PolygonModeState() gpu.PolygonMode {
	return f.polygonMode
}

// ViewportState returns the last viewport rectangle.
func (f *Fake) ViewportState() [4]int32 {
	return f.viewport
}

// ClearColorState returns the last clear color.
func (f *Fake) ClearColorState() mgl32.Vec4 {
	return mgl32.Vec4(f.clearColor)
}

// Live reports the number of objects of each kind that were created and not
// deleted.
func (f *Fake) Live() (buffers, vertexArrays, shaders, programs int) {
	return len(f.buffers), len(f.vertexArrays), len(f.shaders), len(f.programs)
}
