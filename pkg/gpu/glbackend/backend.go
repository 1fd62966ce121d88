// Package glbackend implements gpu.GL on top of the go-gl OpenGL 4.1 core
// bindings.
package glbackend

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"sandbox/pkg/gpu"
)

// Backend forwards gpu.GL calls to the current OpenGL context.
type Backend struct{}

// Init loads the OpenGL function pointers for the current context. A context
// must be current on the calling thread.
func Init() (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to load OpenGL functions: %w", err)
	}
	return &Backend{}, nil
}

// Version returns the driver's GL version string.
func (b *Backend) Version() string {
	return gl.GoStr(gl.GetString(gl.VERSION))
}

func (b *Backend) GenVertexArray() uint32 {
	var id uint32
	gl.GenVertexArrays(1, &id)
	return id
}

func (b *Backend) DeleteVertexArray(id uint32) {
	gl.DeleteVertexArrays(1, &id)
}

func (b *Backend) BindVertexArray(id uint32) {
	gl.BindVertexArray(id)
}

func (b *Backend) GenBuffer() uint32 {
	var id uint32
	gl.GenBuffers(1, &id)
	return id
}

func (b *Backend) DeleteBuffer(id uint32) {
	gl.DeleteBuffers(1, &id)
}

func (b *Backend) BindBuffer(target gpu.BufferTarget, id uint32) {
	gl.BindBuffer(uint32(target), id)
}

func (b *Backend) BufferData(target gpu.BufferTarget, size int, data unsafe.Pointer, usage gpu.Usage) {
	gl.BufferData(uint32(target), size, data, uint32(usage))
}

func (b *Backend) VertexAttribPointer(index uint32, size int32, xtype gpu.DataType, normalized bool, stride int32, offset int) {
	gl.VertexAttribPointer(index, size, uint32(xtype), normalized, stride, gl.PtrOffset(offset))
}

func (b *Backend) EnableVertexAttribArray(index uint32) {
	gl.EnableVertexAttribArray(index)
}

func (b *Backend) DrawElements(mode gpu.Primitive, count int32, xtype gpu.DataType, offset int) {
	gl.DrawElements(uint32(mode), count, uint32(xtype), gl.PtrOffset(offset))
}

func (b *Backend) CreateShader(stage gpu.ShaderStage) uint32 {
	return gl.CreateShader(uint32(stage))
}

func (b *Backend) CompileShader(shader uint32, source string) (bool, string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.TRUE {
		return true, ""
	}

	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
	return false, log
}

func (b *Backend) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (b *Backend) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (b *Backend) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (b *Backend) DetachShader(program, shader uint32) {
	gl.DetachShader(program, shader)
}

func (b *Backend) LinkProgram(program uint32) (bool, string) {
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.TRUE {
		return true, ""
	}

	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	log := strings.Repeat("\x00", int(logLength+1))
	gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
	return false, log
}

func (b *Backend) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (b *Backend) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (b *Backend) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (b *Backend) PolygonMode(mode gpu.PolygonMode) {
	gl.PolygonMode(gl.FRONT_AND_BACK, uint32(mode))
}

func (b *Backend) ClearColor(r, g, bl, a float32) {
	gl.ClearColor(r, g, bl, a)
}

func (b *Backend) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

var _ gpu.GL = (*Backend)(nil)
