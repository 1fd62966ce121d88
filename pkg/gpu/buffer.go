package gpu

import (
	"fmt"
	"unsafe"
)

// buffer is the state shared by vertex and element buffers.
type buffer struct {
	ctx      *Context
	target   BufferTarget
	id       uint32
	count    int
	released bool
}

func newBuffer(ctx *Context, target BufferTarget) (buffer, error) {
	id := ctx.gl.GenBuffer()
	if id == 0 {
		return buffer{}, fmt.Errorf("%w: %s", ErrAllocation, target)
	}
	return buffer{ctx: ctx, target: target, id: id}, nil
}

// ID returns the GL name of the buffer.
func (b *buffer) ID() uint32 {
	return b.id
}

// Len returns the number of elements uploaded by the last CopyTo.
func (b *buffer) Len() int {
	return b.count
}

// Bind makes the buffer current for its binding point.
func (b *buffer) Bind() {
	b.ctx.BindBuffer(b.target, b.id)
}

func (b *buffer) release() {
	if b.released {
		return
	}
	b.released = true
	b.ctx.gl.DeleteBuffer(b.id)
	b.ctx.forgetBuffer(b.id)
}

// copyTo uploads data to the buffer, which has to be bound.
func copyTo[T float32 | uint32](b *buffer, data []T, usage Usage) error {
	if b.released {
		return fmt.Errorf("%w: %s %d", ErrReleased, b.target, b.id)
	}
	if b.ctx.BoundBuffer(b.target) != b.id {
		return fmt.Errorf("%w: %s %d", ErrNotBound, b.target, b.id)
	}

	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = unsafe.Pointer(&data[0])
	}
	var zero T
	b.ctx.gl.BufferData(b.target, len(data)*int(unsafe.Sizeof(zero)), ptr, usage)
	b.count = len(data)
	return nil
}

// VertexBuffer holds per-vertex attribute data.
type VertexBuffer struct {
	buffer
}

// NewVertexBuffer allocates a vertex buffer.
func NewVertexBuffer(ctx *Context) (*VertexBuffer, error) {
	b, err := newBuffer(ctx, ArrayBuffer)
	if err != nil {
		return nil, err
	}
	return &VertexBuffer{b}, nil
}

// CopyTo replaces the buffer contents with data. Len reports the number of
// floats afterwards.
func (vb *VertexBuffer) CopyTo(data []float32, usage Usage) error {
	return copyTo(&vb.buffer, data, usage)
}

// SetAttribute describes how the bound vertex buffer feeds attribute location
// and enables it. The description is stored in the bound vertex array, so
// one must be bound.
func (vb *VertexBuffer) SetAttribute(location uint32, components int32, xtype DataType, normalized bool, stride int32) error {
	if vb.ctx.BoundVertexArray() == 0 {
		return ErrNoVertexArray
	}
	if vb.ctx.BoundBuffer(ArrayBuffer) != vb.id {
		return fmt.Errorf("%w: %s %d", ErrNotBound, vb.target, vb.id)
	}
	vb.ctx.gl.VertexAttribPointer(location, components, xtype, normalized, stride, 0)
	vb.ctx.gl.EnableVertexAttribArray(location)
	return nil
}

// ClearVertexBufferBinding unbinds whatever vertex buffer is bound.
func ClearVertexBufferBinding(ctx *Context) {
	ctx.BindBuffer(ArrayBuffer, 0)
}

// ElementBuffer holds triangle indices into a vertex buffer.
type ElementBuffer struct {
	buffer
}

// NewElementBuffer allocates an element buffer.
func NewElementBuffer(ctx *Context) (*ElementBuffer, error) {
	b, err := newBuffer(ctx, ElementArrayBuffer)
	if err != nil {
		return nil, err
	}
	return &ElementBuffer{b}, nil
}

// CopyTo replaces the indices with data. Len reports the index count
// afterwards.
func (eb *ElementBuffer) CopyTo(data []uint32, usage Usage) error {
	return copyTo(&eb.buffer, data, usage)
}

// ClearElementBufferBinding unbinds the element buffer of the current
// binding scope. With a vertex array bound this detaches the indices from
// that array.
func ClearElementBufferBinding(ctx *Context) {
	ctx.BindBuffer(ElementArrayBuffer, 0)
}
