package gpu

import "fmt"

// VertexArray binds one vertex buffer, one element buffer and their
// attribute layout into a drawable unit. It owns both buffers.
type VertexArray struct {
	ctx      *Context
	id       uint32
	vertices *VertexBuffer
	elements *ElementBuffer
	released bool
}

// NewVertexArray allocates a vertex array.
func NewVertexArray(ctx *Context) (*VertexArray, error) {
	id := ctx.gl.GenVertexArray()
	if id == 0 {
		return nil, fmt.Errorf("%w: vertex array", ErrAllocation)
	}
	return &VertexArray{ctx: ctx, id: id}, nil
}

// ID returns the GL name of the vertex array.
func (va *VertexArray) ID() uint32 {
	return va.id
}

// Bind makes va the target of attribute configuration and the source of
// draw calls.
func (va *VertexArray) Bind() {
	va.ctx.BindVertexArray(va.id)
}

// ClearVertexArrayBinding unbinds whatever vertex array is bound.
func ClearVertexArrayBinding(ctx *Context) {
	ctx.BindVertexArray(0)
}

// SetVertexBuffer hands ownership of vb to the array.
func (va *VertexArray) SetVertexBuffer(vb *VertexBuffer) error {
	if va.vertices != nil {
		return fmt.Errorf("vertex array %d already owns vertex buffer %d", va.id, va.vertices.id)
	}
	va.vertices = vb
	return nil
}

// SetElementBuffer hands ownership of eb to the array.
func (va *VertexArray) SetElementBuffer(eb *ElementBuffer) error {
	if va.elements != nil {
		return fmt.Errorf("vertex array %d already owns element buffer %d", va.id, va.elements.id)
	}
	va.elements = eb
	return nil
}

// VertexBuffer returns the owned vertex buffer, nil if none was set.
func (va *VertexArray) VertexBuffer() *VertexBuffer {
	return va.vertices
}

// ElementBuffer returns the owned element buffer, nil if none was set.
func (va *VertexArray) ElementBuffer() *ElementBuffer {
	return va.elements
}

// IndexCount returns the number of indices a draw submits.
func (va *VertexArray) IndexCount() int {
	if va.elements == nil {
		return 0
	}
	return va.elements.Len()
}

// Draw issues an indexed triangle draw of all indices. va must be bound.
func (va *VertexArray) Draw() error {
	if va.released {
		return fmt.Errorf("%w: vertex array %d", ErrReleased, va.id)
	}
	bound := va.ctx.BoundVertexArray()
	if bound == 0 {
		return ErrNoVertexArray
	}
	if bound != va.id {
		return fmt.Errorf("%w: vertex array %d (bound: %d)", ErrNotBound, va.id, bound)
	}
	if va.elements == nil {
		return fmt.Errorf("%w: vertex array %d", ErrNoElementBuffer, va.id)
	}
	return va.ctx.DrawElements(va.elements.Len())
}

// Release deletes the array and then its buffers. Calling it again does
// nothing.
func (va *VertexArray) Release() {
	if va.released {
		return
	}
	va.released = true
	va.ctx.gl.DeleteVertexArray(va.id)
	va.ctx.forgetVertexArray(va.id)
	if va.vertices != nil {
		va.vertices.release()
	}
	if va.elements != nil {
		va.elements.release()
	}
}

// IsReleased reports whether Release was called.
func (va *VertexArray) IsReleased() bool {
	return va.released
}
