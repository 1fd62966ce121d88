// Package gpu wraps the handful of OpenGL objects the sandbox needs: vertex
// and element buffers, vertex arrays and shader programs.
//
// OpenGL keeps "currently bound object" state per process. Instead of reaching
// for that global state implicitly, every wrapper goes through a Context which
// records each bind and unbind as an explicit transition. The Context talks to
// the driver through the GL interface, implemented for real hardware by
// package glbackend and for tests by internal/gltest.
package gpu

import (
	"errors"
	"fmt"
	"unsafe"
)

// The enum values below are the OpenGL constants so that backends can pass
// them through unchanged.

// BufferTarget is a buffer binding point.
type BufferTarget uint32

const (
	ArrayBuffer        BufferTarget = 0x8892
	ElementArrayBuffer BufferTarget = 0x8893
)

func (t BufferTarget) String() string {
	switch t {
	case ArrayBuffer:
		return "array buffer"
	case ElementArrayBuffer:
		return "element buffer"
	}
	return fmt.Sprintf("BufferTarget(%#x)", uint32(t))
}

// Usage hints how often buffer contents change.
type Usage uint32

const (
	StreamDraw  Usage = 0x88E0
	StaticDraw  Usage = 0x88E4
	DynamicDraw Usage = 0x88E8
)

// DataType is the component type of vertex attributes and indices.
type DataType uint32

const (
	UnsignedInt DataType = 0x1405
	Float       DataType = 0x1406
)

// Size returns the size in bytes of one component.
func (d DataType) Size() int {
	switch d {
	case UnsignedInt, Float:
		return 4
	}
	return 0
}

// Primitive is the primitive assembly mode of a draw call.
type Primitive uint32

const Triangles Primitive = 0x0004

// ShaderStage identifies a programmable pipeline stage.
type ShaderStage uint32

const (
	FragmentStage ShaderStage = 0x8B30
	VertexStage   ShaderStage = 0x8B31
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	}
	return fmt.Sprintf("ShaderStage(%#x)", uint32(s))
}

// PolygonMode selects how the rasterizer fills triangles.
type PolygonMode uint32

const (
	Line PolygonMode = 0x1B01
	Fill PolygonMode = 0x1B02
)

func (m PolygonMode) String() string {
	switch m {
	case Line:
		return "line"
	case Fill:
		return "fill"
	}
	return fmt.Sprintf("PolygonMode(%#x)", uint32(m))
}

// GL is the subset of the OpenGL API used by this package. Object names are
// the raw GL identifiers; 0 always means "none".
//
// All methods must be called on the thread that owns the GL context.
type GL interface {
	GenVertexArray() uint32
	DeleteVertexArray(id uint32)
	BindVertexArray(id uint32)

	GenBuffer() uint32
	DeleteBuffer(id uint32)
	BindBuffer(target BufferTarget, id uint32)
	BufferData(target BufferTarget, size int, data unsafe.Pointer, usage Usage)
	VertexAttribPointer(index uint32, size int32, xtype DataType, normalized bool, stride int32, offset int)
	EnableVertexAttribArray(index uint32)
	DrawElements(mode Primitive, count int32, xtype DataType, offset int)

	CreateShader(stage ShaderStage) uint32
	// CompileShader sets the source of shader, compiles it and reports the
	// compile status together with the info log.
	CompileShader(shader uint32, source string) (ok bool, log string)
	DeleteShader(shader uint32)
	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	// LinkProgram links program and reports the link status with the info log.
	LinkProgram(program uint32) (ok bool, log string)
	DeleteProgram(program uint32)
	UseProgram(program uint32)

	Viewport(x, y, width, height int32)
	PolygonMode(mode PolygonMode)
	ClearColor(r, g, b, a float32)
	// Clear clears the color buffer.
	Clear()
}

var (
	// ErrAllocation is returned when the driver hands out object name 0.
	ErrAllocation = errors.New("gpu: object allocation failed")
	// ErrNotBound is returned when an operation targets an object that is
	// not the one bound at its binding point.
	ErrNotBound = errors.New("gpu: object is not bound")
	// ErrNoVertexArray is returned by operations that need a bound vertex array.
	ErrNoVertexArray = errors.New("gpu: no vertex array bound")
	// ErrNoElementBuffer is returned by indexed draws without index data.
	ErrNoElementBuffer = errors.New("gpu: no element buffer bound to vertex array")
	// ErrReleased is returned when a released object is used.
	ErrReleased = errors.New("gpu: object already released")
)
