package render

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"sandbox/internal/logger"
	"sandbox/pkg/config"
	"sandbox/pkg/gpu"
)

// FrameState is the position of the renderer within one frame.
type FrameState int

// Frame states, in the order a frame moves through them
const (
	Idle FrameState = iota
	Cleared
	Shaded
	Drawn
	Presented
)

func (s FrameState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Cleared:
		return "cleared"
	case Shaded:
		return "shaded"
	case Drawn:
		return "drawn"
	case Presented:
		return "presented"
	}
	return fmt.Sprintf("FrameState(%d)", int(s))
}

// ErrFrameOrder is returned when a frame step is taken out of order.
var ErrFrameOrder = errors.New("frame step out of order")

// Presenter shows the finished back buffer.
type Presenter interface {
	SwapBuffers()
}

// Renderer draws the rectangle and the triangle once per frame.
type Renderer struct {
	ctx        *gpu.Context
	pipeline   *Pipeline
	background mgl32.Vec4
	state      FrameState
	logger     *logger.Logger
}

// NewRenderer builds the pipeline described by cfg on ctx.
func NewRenderer(ctx *gpu.Context, cfg config.RenderConfig, log *logger.Logger) (*Renderer, error) {
	sources, err := LoadShaderSources(cfg)
	if err != nil {
		return nil, err
	}

	pipeline, err := Setup(ctx, sources)
	if err != nil {
		return nil, fmt.Errorf("failed to set up render pipeline: %w", err)
	}

	r := &Renderer{
		ctx:        ctx,
		pipeline:   pipeline,
		background: mgl32.Vec4(cfg.Background),
		logger:     log,
	}
	if cfg.Wireframe {
		ctx.SetPolygonMode(gpu.Line)
	}

	log.Debugf("Pipeline ready: program %d, rectangle %d (%d indices), triangle %d (%d indices)",
		pipeline.Program.ID(),
		pipeline.Rectangle.ID(), pipeline.Rectangle.IndexCount(),
		pipeline.Triangle.ID(), pipeline.Triangle.IndexCount())

	return r, nil
}

// Frame clears the back buffer and draws both shapes into it.
func (r *Renderer) Frame() error {
	if r.state != Idle && r.state != Presented {
		return fmt.Errorf("%w: frame started while %s", ErrFrameOrder, r.state)
	}

	r.ctx.Clear(r.background)
	r.state = Cleared

	r.pipeline.Program.Use()
	r.state = Shaded

	for _, va := range []*gpu.VertexArray{r.pipeline.Rectangle, r.pipeline.Triangle} {
		va.Bind()
		if err := va.Draw(); err != nil {
			gpu.ClearVertexArrayBinding(r.ctx)
			r.state = Idle
			return fmt.Errorf("failed to draw vertex array %d: %w", va.ID(), err)
		}
	}
	gpu.ClearVertexArrayBinding(r.ctx)
	r.state = Drawn

	return nil
}

// Present swaps the drawn frame to the screen.
func (r *Renderer) Present(p Presenter) error {
	if r.state != Drawn {
		return fmt.Errorf("%w: present while %s", ErrFrameOrder, r.state)
	}
	p.SwapBuffers()
	r.state = Presented
	return nil
}

// Finish closes a presented frame once its events have been handled.
func (r *Renderer) Finish() {
	if r.state == Presented {
		r.state = Idle
	}
}

// State returns the current frame state.
func (r *Renderer) State() FrameState {
	return r.state
}

// ToggleWireframe flips between outlined and filled polygons.
func (r *Renderer) ToggleWireframe() {
	mode := gpu.Line
	if r.ctx.PolygonMode() == gpu.Line {
		mode = gpu.Fill
	}
	r.ctx.SetPolygonMode(mode)
	r.logger.Debugf("Polygon mode: %s", mode)
}

// Wireframe reports whether polygons are drawn as outlines.
func (r *Renderer) Wireframe() bool {
	return r.ctx.PolygonMode() == gpu.Line
}

// Resize maps the drawing area to a width x height framebuffer.
func (r *Renderer) Resize(width, height int) {
	r.ctx.Viewport(width, height)
}

// Pipeline returns the GPU objects the renderer draws with.
func (r *Renderer) Pipeline() *Pipeline {
	return r.pipeline
}

// Close releases the pipeline.
func (r *Renderer) Close() {
	r.pipeline.Release()
}
