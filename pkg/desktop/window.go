// Package desktop opens a GLFW window with an OpenGL 4.1 core context and
// adapts it to the engine's Window interface.
package desktop

import (
	"errors"
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"

	"sandbox/internal/logger"
	"sandbox/pkg/config"
	"sandbox/pkg/engine"
	"sandbox/pkg/gpu/glbackend"
)

var (
	// ErrWindowCreation is returned when GLFW cannot start or create the
	// window.
	ErrWindowCreation = errors.New("failed to create GLFW window")
	// ErrLoader is returned when the OpenGL function pointers cannot be
	// loaded for the new context.
	ErrLoader = errors.New("failed to initialize OpenGL loader")
)

// Window is a GLFW window whose GL context is current on the thread that
// opened it. All methods must be called from that thread.
type Window struct {
	window  *glfw.Window
	handler engine.EventHandler
	logger  *logger.Logger
}

// Open creates the window, makes its context current and loads OpenGL.
// On failure GLFW is terminated again.
func Open(cfg config.WindowConfig, log *logger.Logger) (*Window, *glbackend.Backend, error) {
	if err := glfw.Init(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrWindowCreation, err)
	}

	// Set window hints
	glfw.WindowHint(glfw.Resizable, boolHint(cfg.Resizable))
	glfw.WindowHint(glfw.ContextVersionMajor, cfg.ContextMajor)
	glfw.WindowHint(glfw.ContextVersionMinor, cfg.ContextMinor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	// Create window
	gw, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, nil, fmt.Errorf("%w: %v", ErrWindowCreation, err)
	}
	gw.MakeContextCurrent()

	backend, err := glbackend.Init()
	if err != nil {
		gw.Destroy()
		glfw.Terminate()
		return nil, nil, fmt.Errorf("%w: %v", ErrLoader, err)
	}

	if cfg.VSync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	w := &Window{window: gw, logger: log}
	gw.SetFramebufferSizeCallback(w.framebufferResized)
	gw.SetKeyCallback(w.keyEvent)

	log.Infof("Window %q opened (%dx%d), OpenGL %s", cfg.Title, cfg.Width, cfg.Height, backend.Version())
	return w, backend, nil
}

func boolHint(v bool) int {
	if v {
		return glfw.True
	}
	return glfw.False
}

func (w *Window) framebufferResized(_ *glfw.Window, width, height int) {
	if w.handler != nil {
		w.handler.OnResize(width, height)
	}
}

func (w *Window) keyEvent(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if w.handler != nil {
		w.handler.OnKey(engine.Key(key), convertAction(action))
	}
}

func convertAction(a glfw.Action) engine.Action {
	switch a {
	case glfw.Press:
		return engine.Press
	case glfw.Repeat:
		return engine.Repeat
	}
	return engine.Release
}

func (w *Window) ShouldClose() bool {
	return w.window.ShouldClose()
}

func (w *Window) SetShouldClose(v bool) {
	w.window.SetShouldClose(v)
}

func (w *Window) SwapBuffers() {
	w.window.SwapBuffers()
}

// PollEvents processes pending window events, invoking the event handler.
func (w *Window) PollEvents() {
	glfw.PollEvents()
}

func (w *Window) FramebufferSize() (int, int) {
	return w.window.GetFramebufferSize()
}

// SetEventHandler routes resize and key events to h.
func (w *Window) SetEventHandler(h engine.EventHandler) {
	w.handler = h
}

// Close destroys the window and shuts GLFW down.
func (w *Window) Close() {
	w.window.Destroy()
	glfw.Terminate()
	w.logger.Debug("Window closed")
}

var _ engine.Window = (*Window)(nil)
