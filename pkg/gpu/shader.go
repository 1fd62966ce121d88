package gpu

import (
	"fmt"
	"strings"
)

// CompileError reports a shader stage that failed to compile.
type CompileError struct {
	Stage ShaderStage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader compilation failed: %s", e.Stage, e.Log)
}

// LinkError reports compiled stages that could not be linked together.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("shader program linking failed: %s", e.Log)
}

// Program is a linked vertex + fragment shader pair. It is immutable once
// built; which program is in use is tracked by the Context.
type Program struct {
	ctx      *Context
	id       uint32
	released bool
}

// NewProgram compiles both stages and links them. The stage objects are
// deleted once linked.
func NewProgram(ctx *Context, vertexSource, fragmentSource string) (*Program, error) {
	vertexShader, err := compileShader(ctx.gl, VertexStage, vertexSource)
	if err != nil {
		return nil, err
	}

	fragmentShader, err := compileShader(ctx.gl, FragmentStage, fragmentSource)
	if err != nil {
		ctx.gl.DeleteShader(vertexShader)
		return nil, err
	}

	program := ctx.gl.CreateProgram()
	if program == 0 {
		ctx.gl.DeleteShader(vertexShader)
		ctx.gl.DeleteShader(fragmentShader)
		return nil, fmt.Errorf("%w: shader program", ErrAllocation)
	}
	ctx.gl.AttachShader(program, vertexShader)
	ctx.gl.AttachShader(program, fragmentShader)

	ok, log := ctx.gl.LinkProgram(program)
	if !ok {
		ctx.gl.DeleteProgram(program)
		ctx.gl.DeleteShader(vertexShader)
		ctx.gl.DeleteShader(fragmentShader)
		return nil, &LinkError{Log: cleanLog(log)}
	}

	// The linked program keeps the executable; the stage objects can go.
	ctx.gl.DetachShader(program, vertexShader)
	ctx.gl.DetachShader(program, fragmentShader)
	ctx.gl.DeleteShader(vertexShader)
	ctx.gl.DeleteShader(fragmentShader)

	return &Program{ctx: ctx, id: program}, nil
}

func compileShader(gl GL, stage ShaderStage, source string) (uint32, error) {
	shader := gl.CreateShader(stage)
	if shader == 0 {
		return 0, fmt.Errorf("%w: %s shader", ErrAllocation, stage)
	}

	ok, log := gl.CompileShader(shader, source)
	if !ok {
		gl.DeleteShader(shader)
		return 0, &CompileError{Stage: stage, Log: cleanLog(log)}
	}
	return shader, nil
}

// cleanLog strips the NUL padding and trailing newlines of driver info logs.
func cleanLog(log string) string {
	return strings.TrimRight(log, "\x00\r\n ")
}

// ID returns the GL name of the program.
func (p *Program) ID() uint32 {
	return p.id
}

// Use makes p the program executed by subsequent draws.
func (p *Program) Use() {
	p.ctx.UseProgram(p.id)
}

// Release deletes the program. Calling it again does nothing.
func (p *Program) Release() {
	if p.released {
		return
	}
	p.released = true
	p.ctx.gl.DeleteProgram(p.id)
	p.ctx.forgetProgram(p.id)
}
