package gpu_test

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sandbox/internal/gltest"
	"sandbox/pkg/gpu"
)

const (
	vertexSource = `#version 410 core
layout (location = 0) in vec3 aPos;
out vec3 vPos;
void main()
{
    vPos = aPos;
    gl_Position = vec4(aPos, 1.0);
}
`
	fragmentSource = `#version 410 core
in vec3 vPos;
out vec4 FragColor;
void main()
{
    FragColor = vec4(1.0, 0.5, 0.2, 1.0);
}
`
)

var (
	quadVertices = []float32{
		0.5, 0.5, 0,
		0.5, -0.5, 0,
		-0.5, -0.5, 0,
		-0.5, 0.5, 0,
	}
	quadIndices = []uint32{0, 1, 3, 1, 2, 3}
)

func newContext(t *testing.T) (*gpu.Context, *gltest.Fake) {
	t.Helper()
	fake := gltest.New()
	return gpu.NewContext(fake), fake
}

// buildQuad configures a vertex array the way render setup does.
func buildQuad(t *testing.T, ctx *gpu.Context) *gpu.VertexArray {
	t.Helper()

	va, err := gpu.NewVertexArray(ctx)
	require.NoError(t, err)
	va.Bind()

	vb, err := gpu.NewVertexBuffer(ctx)
	require.NoError(t, err)
	require.NoError(t, va.SetVertexBuffer(vb))
	vb.Bind()
	require.NoError(t, vb.CopyTo(quadVertices, gpu.StaticDraw))
	require.NoError(t, vb.SetAttribute(0, 3, gpu.Float, false, 3*4))
	gpu.ClearVertexBufferBinding(ctx)

	eb, err := gpu.NewElementBuffer(ctx)
	require.NoError(t, err)
	require.NoError(t, va.SetElementBuffer(eb))
	eb.Bind()
	require.NoError(t, eb.CopyTo(quadIndices, gpu.StaticDraw))

	gpu.ClearVertexArrayBinding(ctx)
	gpu.ClearElementBufferBinding(ctx)
	return va
}

func useProgram(t *testing.T, ctx *gpu.Context) *gpu.Program {
	t.Helper()
	program, err := gpu.NewProgram(ctx, vertexSource, fragmentSource)
	require.NoError(t, err)
	program.Use()
	return program
}

func TestAllocationFailure(t *testing.T) {
	ctx, fake := newContext(t)
	fake.FailAllocations = true

	_, err := gpu.NewVertexArray(ctx)
	assert.ErrorIs(t, err, gpu.ErrAllocation)
	_, err = gpu.NewVertexBuffer(ctx)
	assert.ErrorIs(t, err, gpu.ErrAllocation)
	_, err = gpu.NewElementBuffer(ctx)
	assert.ErrorIs(t, err, gpu.ErrAllocation)
}

func TestCopyToRequiresBinding(t *testing.T) {
	ctx, fake := newContext(t)

	a, err := gpu.NewVertexBuffer(ctx)
	require.NoError(t, err)
	b, err := gpu.NewVertexBuffer(ctx)
	require.NoError(t, err)

	a.Bind()
	err = b.CopyTo(quadVertices, gpu.StaticDraw)
	assert.ErrorIs(t, err, gpu.ErrNotBound)
	assert.Empty(t, fake.Buffer(b.ID()).Data)
	assert.Empty(t, fake.Buffer(a.ID()).Data, "upload must not alias onto the bound buffer")

	require.NoError(t, a.CopyTo(quadVertices, gpu.StaticDraw))
	assert.Equal(t, quadVertices, fake.Buffer(a.ID()).Floats())
	assert.Equal(t, gpu.StaticDraw, fake.Buffer(a.ID()).Usage)
	assert.Equal(t, len(quadVertices), a.Len())
}

func TestSetAttributeNeedsVertexArray(t *testing.T) {
	ctx, fake := newContext(t)

	vb, err := gpu.NewVertexBuffer(ctx)
	require.NoError(t, err)
	vb.Bind()

	err = vb.SetAttribute(0, 3, gpu.Float, false, 12)
	assert.ErrorIs(t, err, gpu.ErrNoVertexArray)
	assert.Zero(t, fake.Count("VertexAttribPointer"))
}

func TestElementCountMatchesUpload(t *testing.T) {
	ctx, fake := newContext(t)
	va := buildQuad(t, ctx)

	eb := va.ElementBuffer()
	require.NotNil(t, eb)
	assert.Equal(t, len(quadIndices), eb.Len())
	assert.Equal(t, len(quadIndices), va.IndexCount())
	assert.Equal(t, quadIndices, fake.Buffer(eb.ID()).Uints())
	assert.Equal(t, eb.ID(), fake.VertexArray(va.ID()).ElementBuffer)
	assert.Empty(t, fake.Errors())
}

func TestDrawIssuesIndexCount(t *testing.T) {
	ctx, fake := newContext(t)
	va := buildQuad(t, ctx)
	useProgram(t, ctx)

	va.Bind()
	require.NoError(t, va.Draw())

	draws := fake.Draws()
	require.Len(t, draws, 1)
	assert.Equal(t, len(quadIndices), draws[0].Count)
	assert.Equal(t, quadIndices, draws[0].Indices)
	assert.Len(t, draws[0].Triangles, 2)
	assert.Equal(t, mgl32.Vec3{0.5, 0.5, 0}, draws[0].Triangles[0][0])
}

func TestClearBindingLeavesNothingToDraw(t *testing.T) {
	ctx, fake := newContext(t)
	va := buildQuad(t, ctx)
	useProgram(t, ctx)

	va.Bind()
	gpu.ClearVertexArrayBinding(ctx)
	assert.Zero(t, ctx.BoundVertexArray())
	assert.Zero(t, fake.BoundVertexArray())

	assert.ErrorIs(t, va.Draw(), gpu.ErrNoVertexArray)
	assert.ErrorIs(t, ctx.DrawElements(6), gpu.ErrNoVertexArray)
	assert.Zero(t, fake.Count("DrawElements"), "no draw may reuse the previous array")
	assert.Empty(t, fake.Draws())
}

func TestDrawWhileAnotherArrayIsBound(t *testing.T) {
	ctx, fake := newContext(t)
	first := buildQuad(t, ctx)
	second := buildQuad(t, ctx)
	useProgram(t, ctx)

	second.Bind()
	assert.ErrorIs(t, first.Draw(), gpu.ErrNotBound)
	assert.Empty(t, fake.Draws())
}

// The element buffer binding lives in the vertex array. Unbinding it while
// the array is bound detaches the indices; unbinding it afterwards is safe.
func TestElementBufferBindingIsVertexArrayState(t *testing.T) {
	t.Run("kept bound through array unbind", func(t *testing.T) {
		ctx, fake := newContext(t)
		va := buildQuad(t, ctx)

		assert.Zero(t, ctx.BoundBuffer(gpu.ElementArrayBuffer), "global scope is clean")
		assert.Equal(t, va.ElementBuffer().ID(), ctx.ElementBufferOf(va.ID()))

		useProgram(t, ctx)
		va.Bind()
		assert.Equal(t, va.ElementBuffer().ID(), ctx.BoundBuffer(gpu.ElementArrayBuffer))
		require.NoError(t, va.Draw())
		assert.Len(t, fake.Draws(), 1)
	})

	t.Run("unbound while array active", func(t *testing.T) {
		ctx, fake := newContext(t)

		va, err := gpu.NewVertexArray(ctx)
		require.NoError(t, err)
		va.Bind()
		vb, err := gpu.NewVertexBuffer(ctx)
		require.NoError(t, err)
		require.NoError(t, va.SetVertexBuffer(vb))
		vb.Bind()
		require.NoError(t, vb.CopyTo(quadVertices, gpu.StaticDraw))
		require.NoError(t, vb.SetAttribute(0, 3, gpu.Float, false, 12))
		gpu.ClearVertexBufferBinding(ctx)

		eb, err := gpu.NewElementBuffer(ctx)
		require.NoError(t, err)
		require.NoError(t, va.SetElementBuffer(eb))
		eb.Bind()
		require.NoError(t, eb.CopyTo(quadIndices, gpu.StaticDraw))
		gpu.ClearElementBufferBinding(ctx) // wrong: detaches the indices
		gpu.ClearVertexArrayBinding(ctx)

		useProgram(t, ctx)
		va.Bind()
		err = va.Draw()
		assert.ErrorIs(t, err, gpu.ErrNoElementBuffer)
		assert.Zero(t, fake.VertexArray(va.ID()).ElementBuffer)
		assert.Empty(t, fake.Draws())
	})
}

// Describing the attribute after the vertex buffer was unbound captures no
// buffer at all.
func TestAttributeMustBeDescribedWhileBufferBound(t *testing.T) {
	ctx, fake := newContext(t)

	va, err := gpu.NewVertexArray(ctx)
	require.NoError(t, err)
	va.Bind()
	vb, err := gpu.NewVertexBuffer(ctx)
	require.NoError(t, err)
	vb.Bind()
	require.NoError(t, vb.CopyTo(quadVertices, gpu.StaticDraw))
	gpu.ClearVertexBufferBinding(ctx)

	err = vb.SetAttribute(0, 3, gpu.Float, false, 12)
	assert.ErrorIs(t, err, gpu.ErrNotBound)
	assert.Empty(t, fake.VertexArray(va.ID()).Attribs)
}

func TestVertexArrayOwnsBuffersOnce(t *testing.T) {
	ctx, fake := newContext(t)
	va := buildQuad(t, ctx)

	assert.Error(t, va.SetVertexBuffer(va.VertexBuffer()))
	assert.Error(t, va.SetElementBuffer(va.ElementBuffer()))

	va.Release()
	va.Release()

	assert.True(t, va.IsReleased())
	buffers, arrays, _, _ := fake.Live()
	assert.Zero(t, buffers)
	assert.Zero(t, arrays)
	assert.Equal(t, 1, fake.Count("DeleteVertexArray"))
	assert.Equal(t, 2, fake.Count("DeleteBuffer"))
	assert.Empty(t, fake.Errors(), "no double deletes")
	assert.ErrorIs(t, va.Draw(), gpu.ErrReleased)
}

func TestProgramBuild(t *testing.T) {
	ctx, fake := newContext(t)

	program := useProgram(t, ctx)
	assert.Equal(t, program.ID(), ctx.ActiveProgram())
	assert.Equal(t, program.ID(), fake.Program())

	_, _, shaders, programs := fake.Live()
	assert.Zero(t, shaders, "stage objects are deleted after linking")
	assert.Equal(t, 1, programs)

	program.Release()
	program.Release()
	assert.Zero(t, ctx.ActiveProgram())
	assert.Equal(t, 1, fake.Count("DeleteProgram"))
}

func TestProgramCompileErrors(t *testing.T) {
	tests := []struct {
		name     string
		vertex   string
		fragment string
		stage    gpu.ShaderStage
	}{
		{"vertex missing brace", "#version 410 core\nvoid main() {\n gl_Position = vec4(0.0);\n", fragmentSource, gpu.VertexStage},
		{"vertex without main", "#version 410 core\nlayout (location = 0) in vec3 aPos;\n", fragmentSource, gpu.VertexStage},
		{"fragment without version", vertexSource, "out vec4 FragColor;\nvoid main() { FragColor = vec4(1.0); }\n", gpu.FragmentStage},
		{"fragment unbalanced", vertexSource, "#version 410 core\nout vec4 c;\nvoid main() { c = vec4(1.0);\n", gpu.FragmentStage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, fake := newContext(t)

			_, err := gpu.NewProgram(ctx, tt.vertex, tt.fragment)
			require.Error(t, err)

			var compileErr *gpu.CompileError
			require.True(t, errors.As(err, &compileErr), "got %T", err)
			assert.Equal(t, tt.stage, compileErr.Stage)
			assert.NotEmpty(t, compileErr.Log)
			assert.Contains(t, err.Error(), tt.stage.String())

			var linkErr *gpu.LinkError
			assert.False(t, errors.As(err, &linkErr))

			_, _, shaders, programs := fake.Live()
			assert.Zero(t, shaders)
			assert.Zero(t, programs)
		})
	}
}

func TestProgramLinkError(t *testing.T) {
	ctx, fake := newContext(t)

	fragment := `#version 410 core
in vec2 TexCoord;
out vec4 FragColor;
void main()
{
    FragColor = vec4(TexCoord, 0.0, 1.0);
}
`
	_, err := gpu.NewProgram(ctx, vertexSource, fragment)
	require.Error(t, err)

	var linkErr *gpu.LinkError
	require.True(t, errors.As(err, &linkErr), "got %T", err)
	assert.Contains(t, linkErr.Log, "TexCoord")

	var compileErr *gpu.CompileError
	assert.False(t, errors.As(err, &compileErr))

	_, _, shaders, programs := fake.Live()
	assert.Zero(t, shaders)
	assert.Zero(t, programs)
}

func TestPolygonModeDoubleToggle(t *testing.T) {
	ctx, fake := newContext(t)
	original := ctx.PolygonMode()

	ctx.SetPolygonMode(gpu.Line)
	assert.Equal(t, gpu.Line, fake.PolygonModeState())
	ctx.SetPolygonMode(gpu.Fill)

	assert.Equal(t, original, ctx.PolygonMode())
	assert.Equal(t, original, fake.PolygonModeState())
}

func TestViewport(t *testing.T) {
	ctx, fake := newContext(t)

	ctx.Viewport(1024, 768)
	w, h := ctx.ViewportSize()
	assert.Equal(t, 1024, w)
	assert.Equal(t, 768, h)
	assert.Equal(t, [4]int32{0, 0, 1024, 768}, fake.ViewportState())
}
