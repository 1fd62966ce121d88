// Package gltest provides an in-memory gpu.GL that records every call and
// emulates the parts of OpenGL state the sandbox depends on, so rendering
// code can be tested without a display or driver.
package gltest

import (
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"sandbox/pkg/gpu"
)

// Call is one recorded GL entry point invocation.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Name, c.Args)
}

// Buffer is the emulated state of a buffer object.
type Buffer struct {
	ID    uint32
	Data  []byte
	Usage gpu.Usage
}

// Floats decodes the buffer contents as float32 values.
func (b *Buffer) Floats() []float32 {
	out := make([]float32, len(b.Data)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.NativeEndian.Uint32(b.Data[i*4:]))
	}
	return out
}

// Uints decodes the buffer contents as uint32 values.
func (b *Buffer) Uints() []uint32 {
	out := make([]uint32, len(b.Data)/4)
	for i := range out {
		out[i] = binary.NativeEndian.Uint32(b.Data[i*4:])
	}
	return out
}

// Attrib is a vertex attribute description captured by a vertex array.
type Attrib struct {
	Buffer     uint32
	Size       int32
	Type       gpu.DataType
	Normalized bool
	Stride     int32
	Offset     int
	Enabled    bool
}

// VertexArray is the emulated state of a vertex array object.
type VertexArray struct {
	ID            uint32
	ElementBuffer uint32
	Attribs       map[uint32]*Attrib
}

// Draw is a successfully submitted indexed draw.
type Draw struct {
	VertexArray   uint32
	ElementBuffer uint32
	Program       uint32
	Count         int
	Indices       []uint32
	// Triangles holds the positions of attribute 0 for each assembled
	// triangle, when attribute 0 is three tightly decodable floats.
	Triangles [][3]mgl32.Vec3
	Mode      gpu.PolygonMode
}

type shader struct {
	stage    gpu.ShaderStage
	source   string
	compiled bool
}

type program struct {
	shaders map[uint32]bool
	linked  bool
}

// Fake implements gpu.GL. The zero value is not usable; call New.
type Fake struct {
	// FailAllocations makes every Gen/Create call return 0.
	FailAllocations bool

	calls  []Call
	nextID uint32

	buffers      map[uint32]*Buffer
	vertexArrays map[uint32]*VertexArray
	shaders      map[uint32]*shader
	programs     map[uint32]*program

	// vertex array 0 stands for the binding scope without a vertex array
	defaultArray *VertexArray
	boundArray   uint32
	arrayBuffer  uint32
	program      uint32

	polygonMode gpu.PolygonMode
	viewport    [4]int32
	clearColor  [4]float32

	draws  []Draw
	errors []string
}

// New returns a fake with GL default state.
func New() *Fake {
	return &Fake{
		buffers:      make(map[uint32]*Buffer),
		vertexArrays: make(map[uint32]*VertexArray),
		shaders:      make(map[uint32]*shader),
		programs:     make(map[uint32]*program),
		defaultArray: &VertexArray{Attribs: make(map[uint32]*Attrib)},
		polygonMode:  gpu.Fill,
	}
}

func (f *Fake) record(name string, args ...any) {
	f.calls = append(f.calls, Call{Name: name, Args: args})
}

func (f *Fake) fail(format string, args ...any) {
	f.errors = append(f.errors, fmt.Sprintf(format, args...))
}

func (f *Fake) alloc() uint32 {
	if f.FailAllocations {
		return 0
	}
	f.nextID++
	return f.nextID
}

func (f *Fake) currentArray() *VertexArray {
	if f.boundArray == 0 {
		return f.defaultArray
	}
	return f.vertexArrays[f.boundArray]
}

func (f *Fake) GenVertexArray() uint32 {
	id := f.alloc()
	f.record("GenVertexArray", id)
	if id != 0 {
		f.vertexArrays[id] = &VertexArray{ID: id, Attribs: make(map[uint32]*Attrib)}
	}
	return id
}

func (f *Fake) DeleteVertexArray(id uint32) {
	f.record("DeleteVertexArray", id)
	if _, ok := f.vertexArrays[id]; !ok {
		f.fail("DeleteVertexArray: unknown vertex array %d", id)
		return
	}
	delete(f.vertexArrays, id)
	if f.boundArray == id {
		f.boundArray = 0
	}
}

func (f *Fake) BindVertexArray(id uint32) {
	f.record("BindVertexArray", id)
	if _, ok := f.vertexArrays[id]; id != 0 && !ok {
		f.fail("BindVertexArray: unknown vertex array %d", id)
		return
	}
	f.boundArray = id
}

func (f *Fake) GenBuffer() uint32 {
	id := f.alloc()
	f.record("GenBuffer", id)
	if id != 0 {
		f.buffers[id] = &Buffer{ID: id}
	}
	return id
}

func (f *Fake) DeleteBuffer(id uint32) {
	f.record("DeleteBuffer", id)
	if _, ok := f.buffers[id]; !ok {
		f.fail("DeleteBuffer: unknown buffer %d", id)
		return
	}
	delete(f.buffers, id)
	if f.arrayBuffer == id {
		f.arrayBuffer = 0
	}
	for _, va := range f.vertexArrays {
		if va.ElementBuffer == id {
			va.ElementBuffer = 0
		}
	}
	if f.defaultArray.ElementBuffer == id {
		f.defaultArray.ElementBuffer = 0
	}
}

func (f *Fake) BindBuffer(target gpu.BufferTarget, id uint32) {
	f.record("BindBuffer", target, id)
	if _, ok := f.buffers[id]; id != 0 && !ok {
		f.fail("BindBuffer: unknown buffer %d", id)
		return
	}
	switch target {
	case gpu.ArrayBuffer:
		f.arrayBuffer = id
	case gpu.ElementArrayBuffer:
		f.currentArray().ElementBuffer = id
	}
}

func (f *Fake) bufferAt(target gpu.BufferTarget) uint32 {
	if target == gpu.ArrayBuffer {
		return f.arrayBuffer
	}
	return f.currentArray().ElementBuffer
}

func (f *Fake) BufferData(target gpu.BufferTarget, size int, data unsafe.Pointer, usage gpu.Usage) {
	f.record("BufferData", target, size, usage)
	id := f.bufferAt(target)
	if id == 0 {
		f.fail("BufferData: no buffer bound to %s", target)
		return
	}
	b := f.buffers[id]
	b.Data = make([]byte, size)
	if size > 0 && data != nil {
		copy(b.Data, unsafe.Slice((*byte)(data), size))
	}
	b.Usage = usage
}

func (f *Fake) VertexAttribPointer(index uint32, size int32, xtype gpu.DataType, normalized bool, stride int32, offset int) {
	f.record("VertexAttribPointer", index, size, xtype, normalized, stride, offset)
	if f.boundArray == 0 {
		f.fail("VertexAttribPointer: no vertex array bound")
		return
	}
	if f.arrayBuffer == 0 {
		f.fail("VertexAttribPointer: no array buffer bound")
		return
	}
	va := f.vertexArrays[f.boundArray]
	attrib, ok := va.Attribs[index]
	if !ok {
		attrib = &Attrib{}
		va.Attribs[index] = attrib
	}
	attrib.Buffer = f.arrayBuffer
	attrib.Size = size
	attrib.Type = xtype
	attrib.Normalized = normalized
	attrib.Stride = stride
	attrib.Offset = offset
}

func (f *Fake) EnableVertexAttribArray(index uint32) {
	f.record("EnableVertexAttribArray", index)
	if f.boundArray == 0 {
		f.fail("EnableVertexAttribArray: no vertex array bound")
		return
	}
	va := f.vertexArrays[f.boundArray]
	attrib, ok := va.Attribs[index]
	if !ok {
		attrib = &Attrib{}
		va.Attribs[index] = attrib
	}
	attrib.Enabled = true
}

func (f *Fake) DrawElements(mode gpu.Primitive, count int32, xtype gpu.DataType, offset int) {
	f.record("DrawElements", mode, count, xtype, offset)
	if f.boundArray == 0 {
		f.fail("DrawElements: no vertex array bound")
		return
	}
	if f.program == 0 {
		f.fail("DrawElements: no program in use")
		return
	}
	va := f.vertexArrays[f.boundArray]
	if va.ElementBuffer == 0 {
		f.fail("DrawElements: vertex array %d has no element buffer", va.ID)
		return
	}
	indices := f.buffers[va.ElementBuffer].Uints()
	first := offset / 4
	if first+int(count) > len(indices) {
		f.fail("DrawElements: %d indices from %d exceed element buffer of %d", count, first, len(indices))
		return
	}

	draw := Draw{
		VertexArray:   va.ID,
		ElementBuffer: va.ElementBuffer,
		Program:       f.program,
		Count:         int(count),
		Indices:       append([]uint32(nil), indices[first:first+int(count)]...),
		Mode:          f.polygonMode,
	}
	if mode == gpu.Triangles {
		draw.Triangles = f.assemble(va, draw.Indices)
	}
	f.draws = append(f.draws, draw)
}

// assemble resolves the positions fed through attribute 0.
func (f *Fake) assemble(va *VertexArray, indices []uint32) [][3]mgl32.Vec3 {
	attrib, ok := va.Attribs[0]
	if !ok || !attrib.Enabled || attrib.Type != gpu.Float || attrib.Size != 3 {
		return nil
	}
	buf, ok := f.buffers[attrib.Buffer]
	if !ok {
		return nil
	}
	floats := buf.Floats()
	stride := int(attrib.Stride) / 4
	if stride == 0 {
		stride = 3
	}
	base := attrib.Offset / 4

	vertex := func(i uint32) (mgl32.Vec3, bool) {
		at := base + int(i)*stride
		if at+3 > len(floats) {
			return mgl32.Vec3{}, false
		}
		return mgl32.Vec3{floats[at], floats[at+1], floats[at+2]}, true
	}

	var tris [][3]mgl32.Vec3
	for i := 0; i+2 < len(indices); i += 3 {
		var tri [3]mgl32.Vec3
		for k := 0; k < 3; k++ {
			v, ok := vertex(indices[i+k])
			if !ok {
				f.fail("DrawElements: index %d out of range", indices[i+k])
				return nil
			}
			tri[k] = v
		}
		tris = append(tris, tri)
	}
	return tris
}

func (f *Fake) CreateShader(stage gpu.ShaderStage) uint32 {
	id := f.alloc()
	f.record("CreateShader", stage, id)
	if id != 0 {
		f.shaders[id] = &shader{stage: stage}
	}
	return id
}

func (f *Fake) CompileShader(id uint32, source string) (bool, string) {
	f.record("CompileShader", id)
	s, ok := f.shaders[id]
	if !ok {
		f.fail("CompileShader: unknown shader %d", id)
		return false, "invalid shader object"
	}
	s.source = source
	log := compileGLSL(source)
	s.compiled = log == ""
	return s.compiled, log
}

func (f *Fake) DeleteShader(id uint32) {
	f.record("DeleteShader", id)
	if _, ok := f.shaders[id]; !ok {
		f.fail("DeleteShader: unknown shader %d", id)
		return
	}
	delete(f.shaders, id)
}

func (f *Fake) CreateProgram() uint32 {
	id := f.alloc()
	f.record("CreateProgram", id)
	if id != 0 {
		f.programs[id] = &program{shaders: make(map[uint32]bool)}
	}
	return id
}

func (f *Fake) AttachShader(prog, id uint32) {
	f.record("AttachShader", prog, id)
	p, ok := f.programs[prog]
	if !ok {
		f.fail("AttachShader: unknown program %d", prog)
		return
	}
	p.shaders[id] = true
}

func (f *Fake) DetachShader(prog, id uint32) {
	f.record("DetachShader", prog, id)
	if p, ok := f.programs[prog]; ok {
		delete(p.shaders, id)
	}
}

func (f *Fake) LinkProgram(prog uint32) (bool, string) {
	f.record("LinkProgram", prog)
	p, ok := f.programs[prog]
	if !ok {
		f.fail("LinkProgram: unknown program %d", prog)
		return false, "invalid program object"
	}

	var vertex, fragment *shader
	for id := range p.shaders {
		s := f.shaders[id]
		if s == nil || !s.compiled {
			return false, fmt.Sprintf("error: shader %d is not compiled", id)
		}
		switch s.stage {
		case gpu.VertexStage:
			vertex = s
		case gpu.FragmentStage:
			fragment = s
		}
	}
	if vertex == nil || fragment == nil {
		return false, "error: program needs a vertex and a fragment shader"
	}

	log := linkGLSL(vertex.source, fragment.source)
	p.linked = log == ""
	return p.linked, log
}

func (f *Fake) DeleteProgram(prog uint32) {
	f.record("DeleteProgram", prog)
	if _, ok := f.programs[prog]; !ok {
		f.fail("DeleteProgram: unknown program %d", prog)
		return
	}
	delete(f.programs, prog)
	if f.program == prog {
		f.program = 0
	}
}

func (f *Fake) UseProgram(prog uint32) {
	f.record("UseProgram", prog)
	if prog != 0 {
		p, ok := f.programs[prog]
		if !ok || !p.linked {
			f.fail("UseProgram: program %d is not linked", prog)
			return
		}
	}
	f.program = prog
}

func (f *Fake) Viewport(x, y, width, height int32) {
	f.record("Viewport", x, y, width, height)
	f.viewport = [4]int32{x, y, width, height}
}

func (f *Fake) PolygonMode(mode gpu.PolygonMode) {
	f.record("PolygonMode", mode)
	f.polygonMode = mode
}

func (f *Fake) ClearColor(r, g, b, a float32) {
	f.record("ClearColor", r, g, b, a)
	f.clearColor = [4]float32{r, g, b, a}
}

func (f *Fake) Clear() {
	f.record("Clear")
}

var _ gpu.GL = (*Fake)(nil)
