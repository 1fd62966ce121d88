package render

import (
	"fmt"
	"os"

	"sandbox/pkg/config"
	"sandbox/pkg/gpu"
)

// ShaderSources is a vertex + fragment GLSL pair.
type ShaderSources struct {
	Vertex   string
	Fragment string
}

// DefaultShaderSources returns the built-in flat orange shader pair.
func DefaultShaderSources() ShaderSources {
	return ShaderSources{Vertex: vertexShaderSource, Fragment: fragmentShaderSource}
}

// LoadShaderSources returns the built-in sources, replacing each stage for
// which cfg names a file.
func LoadShaderSources(cfg config.RenderConfig) (ShaderSources, error) {
	sources := DefaultShaderSources()

	if cfg.VertexShader != "" {
		data, err := os.ReadFile(cfg.VertexShader)
		if err != nil {
			return sources, fmt.Errorf("failed to read vertex shader: %w", err)
		}
		sources.Vertex = string(data)
	}
	if cfg.FragmentShader != "" {
		data, err := os.ReadFile(cfg.FragmentShader)
		if err != nil {
			return sources, fmt.Errorf("failed to read fragment shader: %w", err)
		}
		sources.Fragment = string(data)
	}

	return sources, nil
}

// Pipeline is everything the frame loop draws with. It is built once and
// reused every frame without uploading data again.
type Pipeline struct {
	Program   *gpu.Program
	Rectangle *gpu.VertexArray
	Triangle  *gpu.VertexArray
}

// Setup compiles the shader program and uploads both shapes.
func Setup(ctx *gpu.Context, sources ShaderSources) (*Pipeline, error) {
	program, err := gpu.NewProgram(ctx, sources.Vertex, sources.Fragment)
	if err != nil {
		return nil, err
	}

	rectangle, err := NewShapeArray(ctx, Rectangle)
	if err != nil {
		program.Release()
		return nil, err
	}

	triangle, err := NewShapeArray(ctx, Triangle)
	if err != nil {
		rectangle.Release()
		program.Release()
		return nil, err
	}

	return &Pipeline{Program: program, Rectangle: rectangle, Triangle: triangle}, nil
}

// Release frees the GPU objects of the pipeline.
func (p *Pipeline) Release() {
	p.Triangle.Release()
	p.Rectangle.Release()
	p.Program.Release()
}

// NewShapeArray uploads shape into a fresh vertex array with its positions
// at attribute location 0.
//
// The vertex buffer is bound and described before the element buffer is
// bound. The vertex buffer may be unbound right after the attribute is
// described since the attribute captured it. The element buffer must stay
// bound until the vertex array is unbound because that binding is stored in
// the vertex array.
func NewShapeArray(ctx *gpu.Context, shape Shape) (*gpu.VertexArray, error) {
	va, err := gpu.NewVertexArray(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", shape.Name, err)
	}
	va.Bind()

	if err := uploadShape(ctx, va, shape); err != nil {
		gpu.ClearVertexArrayBinding(ctx)
		va.Release()
		return nil, fmt.Errorf("%s: %w", shape.Name, err)
	}

	gpu.ClearVertexArrayBinding(ctx)
	gpu.ClearElementBufferBinding(ctx)
	return va, nil
}

func uploadShape(ctx *gpu.Context, va *gpu.VertexArray, shape Shape) error {
	vb, err := gpu.NewVertexBuffer(ctx)
	if err != nil {
		return err
	}
	if err := va.SetVertexBuffer(vb); err != nil {
		return err
	}
	vb.Bind()
	if err := vb.CopyTo(shape.Positions(), gpu.StaticDraw); err != nil {
		return err
	}
	if err := vb.SetAttribute(0, 3, gpu.Float, false, 3*int32(gpu.Float.Size())); err != nil {
		return err
	}
	gpu.ClearVertexBufferBinding(ctx)

	eb, err := gpu.NewElementBuffer(ctx)
	if err != nil {
		return err
	}
	if err := va.SetElementBuffer(eb); err != nil {
		return err
	}
	eb.Bind()
	return eb.CopyTo(shape.Indices, gpu.StaticDraw)
}
