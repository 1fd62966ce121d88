package gpu

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// Context tracks the binding state of one GL context. It is not safe for
// concurrent use; like the GL context itself it belongs to a single thread.
type Context struct {
	gl GL

	vertexArray uint32
	arrayBuffer uint32
	// Element buffer bindings are part of vertex array state. Key 0 holds the
	// binding made while no vertex array is bound.
	elementBuffers map[uint32]uint32

	program     uint32
	polygonMode PolygonMode
	viewport    [4]int32
}

// NewContext wraps gl. The initial state is the GL default: nothing bound
// and filled polygons.
func NewContext(gl GL) *Context {
	return &Context{
		gl:             gl,
		elementBuffers: make(map[uint32]uint32),
		polygonMode:    Fill,
	}
}

// BindVertexArray binds id, or unbinds with 0.
func (c *Context) BindVertexArray(id uint32) {
	c.gl.BindVertexArray(id)
	c.vertexArray = id
}

// BoundVertexArray returns the bound vertex array, 0 if none.
func (c *Context) BoundVertexArray() uint32 {
	return c.vertexArray
}

// BindBuffer binds id to target, or unbinds with 0. Element buffer bindings
// are recorded on the bound vertex array.
func (c *Context) BindBuffer(target BufferTarget, id uint32) {
	c.gl.BindBuffer(target, id)
	switch target {
	case ArrayBuffer:
		c.arrayBuffer = id
	case ElementArrayBuffer:
		if id == 0 {
			delete(c.elementBuffers, c.vertexArray)
		} else {
			c.elementBuffers[c.vertexArray] = id
		}
	}
}

// BoundBuffer returns the buffer bound to target in the current state.
func (c *Context) BoundBuffer(target BufferTarget) uint32 {
	switch target {
	case ArrayBuffer:
		return c.arrayBuffer
	case ElementArrayBuffer:
		return c.elementBuffers[c.vertexArray]
	}
	return 0
}

// ElementBufferOf returns the element buffer captured by vertex array id.
func (c *Context) ElementBufferOf(id uint32) uint32 {
	return c.elementBuffers[id]
}

// UseProgram makes program the active program, or deactivates with 0.
func (c *Context) UseProgram(program uint32) {
	c.gl.UseProgram(program)
	c.program = program
}

// ActiveProgram returns the program in use, 0 if none.
func (c *Context) ActiveProgram() uint32 {
	return c.program
}

// SetPolygonMode configures the rasterizer for both faces.
func (c *Context) SetPolygonMode(mode PolygonMode) {
	c.gl.PolygonMode(mode)
	c.polygonMode = mode
}

// PolygonMode returns the current rasterizer fill mode.
func (c *Context) PolygonMode() PolygonMode {
	return c.polygonMode
}

// Viewport maps normalized device coordinates to a width x height area.
func (c *Context) Viewport(width, height int) {
	c.viewport = [4]int32{0, 0, int32(width), int32(height)}
	c.gl.Viewport(0, 0, int32(width), int32(height))
}

// ViewportSize returns the size last passed to Viewport.
func (c *Context) ViewportSize() (int, int) {
	return int(c.viewport[2]), int(c.viewport[3])
}

// Clear fills the color buffer with color.
func (c *Context) Clear(color mgl32.Vec4) {
	c.gl.ClearColor(color[0], color[1], color[2], color[3])
	c.gl.Clear()
}

// DrawElements draws count indexed vertices as triangles from the bound
// vertex array. Without a vertex array, or without index data, nothing is
// submitted to the driver.
func (c *Context) DrawElements(count int) error {
	if c.vertexArray == 0 {
		return ErrNoVertexArray
	}
	if c.elementBuffers[c.vertexArray] == 0 {
		return fmt.Errorf("%w: vertex array %d", ErrNoElementBuffer, c.vertexArray)
	}
	c.gl.DrawElements(Triangles, int32(count), UnsignedInt, 0)
	return nil
}

// forgetVertexArray drops all state referring to a deleted vertex array.
func (c *Context) forgetVertexArray(id uint32) {
	if c.vertexArray == id {
		c.vertexArray = 0
	}
	delete(c.elementBuffers, id)
}

// forgetBuffer drops all bindings of a deleted buffer.
func (c *Context) forgetBuffer(id uint32) {
	if c.arrayBuffer == id {
		c.arrayBuffer = 0
	}
	for vao, eb := range c.elementBuffers {
		if eb == id {
			delete(c.elementBuffers, vao)
		}
	}
}

func (c *Context) forgetProgram(id uint32) {
	if c.program == id {
		c.program = 0
	}
}
