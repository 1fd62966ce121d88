package engine

import (
	"fmt"
	"time"

	"sandbox/internal/logger"
	"sandbox/internal/util"
	"sandbox/pkg/config"
	"sandbox/pkg/gpu"
	"sandbox/pkg/render"
	"sandbox/pkg/scene"
)

// statsWindow is the number of frames averaged for the frame rate report
const statsWindow = 120

// Engine runs the render loop on a window
type Engine struct {
	window       Window
	config       *config.Config
	logger       *logger.Logger
	ctx          *gpu.Context
	renderer     *render.Renderer
	input        *InputHandler
	graph        *scene.Graph
	wireframeKey Key
	frameRate    int
	frames       uint64
	stats        *util.FrameStats
	lastUpdate   time.Time
	now          func() time.Time
}

// NewEngine builds the render pipeline on gl and attaches to window. The
// window's GL context must be current on the calling thread.
func NewEngine(cfg *config.Config, log *logger.Logger, window Window, gl gpu.GL) (*Engine, error) {
	wireframeKey, err := ParseKey(cfg.Render.WireframeKey)
	if err != nil {
		return nil, fmt.Errorf("invalid wireframe key: %w", err)
	}

	ctx := gpu.NewContext(gl)
	width, height := window.FramebufferSize()
	ctx.Viewport(width, height)

	renderer, err := render.NewRenderer(ctx, cfg.Render, log.Named("render"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize renderer: %w", err)
	}

	engine := &Engine{
		window:       window,
		config:       cfg,
		logger:       log,
		ctx:          ctx,
		renderer:     renderer,
		input:        NewInputHandler(),
		stats:        util.NewFrameStats(statsWindow),
		graph:        scene.NewGraph(log.Named("scene")),
		wireframeKey: wireframeKey,
		frameRate:    cfg.Render.FrameRate,
		now:          time.Now,
	}
	window.SetEventHandler(engine)

	log.Infof("Engine ready: viewport %dx%d, wireframe key %s", width, height, wireframeKey)
	return engine, nil
}

// LoadScene replaces the simulated scene.
func (e *Engine) LoadScene(s scene.Scene) error {
	return e.graph.Load(s)
}

// Run renders frames until the window is asked to close. Per-frame failures
// are logged and the loop keeps going.
func (e *Engine) Run() {
	e.lastUpdate = e.now()

	for !e.window.ShouldClose() {
		frameStart := e.now()
		elapsed := frameStart.Sub(e.lastUpdate)
		deltaTime := elapsed.Seconds()
		e.lastUpdate = frameStart
		if e.frames > 0 {
			e.recordFrameTime(elapsed)
		}

		// Render frame
		e.render()

		// Poll events and react to them
		e.window.PollEvents()
		e.processInput()
		e.renderer.Finish()

		// Update simulation
		if err := e.graph.Update(deltaTime); err != nil {
			e.logger.Errorf("Scene update failed: %v", err)
		}
		e.frames++

		// Cap the frame rate
		if e.frameRate > 0 {
			frameTime := e.now().Sub(frameStart)
			targetFrameTime := time.Second / time.Duration(e.frameRate)
			if frameTime < targetFrameTime {
				time.Sleep(targetFrameTime - frameTime)
			}
		}
	}

	e.logger.Infof("Render loop finished after %d frames", e.frames)
}

// recordFrameTime adds one frame to the stats and reports the frame rate
// once per full window
func (e *Engine) recordFrameTime(d time.Duration) {
	e.stats.Add(d)
	if e.frames%statsWindow == 0 {
		e.logger.Debugf("%.1f FPS (avg %s, median %s)", e.stats.FPS(), e.stats.Average(), e.stats.Median())
	}
}

// FrameStats returns the timing of recent frames.
func (e *Engine) FrameStats() *util.FrameStats {
	return e.stats
}

// render draws and presents one frame
func (e *Engine) render() {
	if err := e.renderer.Frame(); err != nil {
		e.logger.Errorf("Frame failed: %v", err)
		return
	}
	if err := e.renderer.Present(e.window); err != nil {
		e.logger.Errorf("Present failed: %v", err)
	}
}

// processInput applies the key events of the last poll
func (e *Engine) processInput() {
	// Close the window when ESC is pressed
	if e.input.IsKeyDown(KeyEscape) {
		e.window.SetShouldClose(true)
	}

	if e.input.IsKeyPressed(e.wireframeKey) {
		e.renderer.ToggleWireframe()
	}

	e.input.Update()
}

// OnResize keeps the viewport matched to the framebuffer.
func (e *Engine) OnResize(width, height int) {
	if width <= 0 || height <= 0 {
		// minimized
		return
	}
	e.renderer.Resize(width, height)
	e.logger.Debugf("Viewport resized to %dx%d", width, height)
}

// OnKey forwards key events to the input handler.
func (e *Engine) OnKey(key Key, action Action) {
	e.input.OnKey(key, action)
}

// Renderer returns the renderer driven by the loop.
func (e *Engine) Renderer() *render.Renderer {
	return e.renderer
}

// Scene returns the simulated scene graph.
func (e *Engine) Scene() *scene.Graph {
	return e.graph
}

// Frames returns the number of frames completed.
func (e *Engine) Frames() uint64 {
	return e.frames
}

// Close releases the GPU resources. Call it before the window is destroyed.
func (e *Engine) Close() {
	e.logger.Info("Shutting down engine...")
	e.renderer.Close()
}
