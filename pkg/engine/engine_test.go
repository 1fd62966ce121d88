package engine

import (
	"io"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sandbox/internal/gltest"
	"sandbox/internal/logger"
	"sandbox/pkg/bounce"
	"sandbox/pkg/config"
	"sandbox/pkg/gpu"
)

// fakeWindow closes itself after closeAfter swaps and replays scripted
// events on each poll.
type fakeWindow struct {
	width, height int
	closeAfter    int
	handler       EventHandler

	closed bool
	swaps  int
	polls  int
	events map[int]func(EventHandler)
	onSwap func()
}

func (w *fakeWindow) ShouldClose() bool {
	return w.closed || w.closeAfter > 0 && w.swaps >= w.closeAfter
}

func (w *fakeWindow) SetShouldClose(v bool) { w.closed = v }

func (w *fakeWindow) SwapBuffers() {
	w.swaps++
	if w.onSwap != nil {
		w.onSwap()
	}
}

func (w *fakeWindow) PollEvents() {
	w.polls++
	if ev, ok := w.events[w.polls]; ok {
		ev(w.handler)
	}
}

func (w *fakeWindow) FramebufferSize() (int, int) { return w.width, w.height }

func (w *fakeWindow) SetEventHandler(h EventHandler) { w.handler = h }

type silentPlayer struct{ played []int }

func (p *silentPlayer) PlaySound(id int) error {
	p.played = append(p.played, id)
	return nil
}

func newTestEngine(t *testing.T, cfg *config.Config, window *fakeWindow) (*Engine, *gltest.Fake) {
	t.Helper()
	fake := gltest.New()
	e, err := NewEngine(cfg, logger.New(io.Discard, "error"), window, fake)
	require.NoError(t, err)
	return e, fake
}

func boundNonZero(calls []gltest.Call) int {
	n := 0
	for _, c := range calls {
		if c.Name == "BindVertexArray" && c.Args[0].(uint32) != 0 {
			n++
		}
	}
	return n
}

func TestSingleFrame(t *testing.T) {
	window := &fakeWindow{width: 800, height: 600, closeAfter: 1}
	e, fake := newTestEngine(t, config.DefaultConfig(), window)
	assert.Equal(t, [4]int32{0, 0, 800, 600}, fake.ViewportState())
	fake.ResetCalls()

	callsAtSwap := -1
	window.onSwap = func() { callsAtSwap = len(fake.Calls()) }

	e.Run()

	assert.Equal(t, 1, window.swaps)
	assert.Equal(t, 1, window.polls)
	assert.Equal(t, uint64(1), e.Frames())

	calls := fake.Calls()
	assert.Equal(t, 1, fake.Count("Clear"))
	assert.Equal(t, 1, fake.Count("UseProgram"))
	assert.Equal(t, 2, boundNonZero(calls))
	assert.Equal(t, 2, fake.Count("DrawElements"))
	assert.Len(t, fake.Draws(), 2)
	assert.Empty(t, fake.Errors())

	// nothing reaches the GPU once the frame is presented
	assert.Equal(t, callsAtSwap, len(calls))
}

func TestFramesRepeatWithoutUploads(t *testing.T) {
	window := &fakeWindow{width: 800, height: 600, closeAfter: 5}
	e, fake := newTestEngine(t, config.DefaultConfig(), window)
	fake.ResetCalls()

	e.Run()

	assert.Equal(t, 5, window.swaps)
	assert.Equal(t, 10, len(fake.Draws()))
	assert.Zero(t, fake.Count("BufferData"))
	assert.Zero(t, fake.Count("GenBuffer"))
	assert.Zero(t, fake.Count("CompileShader"))
}

func TestEscapeClosesWindow(t *testing.T) {
	window := &fakeWindow{
		width: 800, height: 600,
		events: map[int]func(EventHandler){
			1: func(h EventHandler) { h.OnKey(KeyEscape, Press) },
		},
	}
	e, _ := newTestEngine(t, config.DefaultConfig(), window)

	e.Run()

	assert.True(t, window.closed)
	assert.Equal(t, 1, window.swaps)
}

func TestWireframeTogglesOnPressOnly(t *testing.T) {
	window := &fakeWindow{
		width: 800, height: 600, closeAfter: 4,
		events: map[int]func(EventHandler){
			1: func(h EventHandler) { h.OnKey(KeyW, Press) },
			2: func(h EventHandler) { h.OnKey(KeyW, Repeat) },
			3: func(h EventHandler) { h.OnKey(KeyW, Repeat) },
		},
	}
	e, fake := newTestEngine(t, config.DefaultConfig(), window)

	e.Run()

	assert.True(t, e.Renderer().Wireframe())
	assert.Equal(t, 1, fake.Count("PolygonMode"))

	draws := fake.Draws()
	require.Len(t, draws, 8)
	assert.Equal(t, gpu.Fill, draws[0].Mode)
	assert.Equal(t, gpu.Line, draws[2].Mode)
	assert.Equal(t, gpu.Line, draws[7].Mode)
}

func TestWireframeDoubleToggle(t *testing.T) {
	window := &fakeWindow{
		width: 800, height: 600, closeAfter: 3,
		events: map[int]func(EventHandler){
			1: func(h EventHandler) { h.OnKey(KeyW, Press) },
			2: func(h EventHandler) {
				h.OnKey(KeyW, Release)
				h.OnKey(KeyW, Press)
			},
		},
	}
	e, fake := newTestEngine(t, config.DefaultConfig(), window)

	e.Run()

	assert.False(t, e.Renderer().Wireframe())
	assert.Equal(t, gpu.Fill, fake.PolygonModeState())
	assert.Equal(t, 2, fake.Count("PolygonMode"))
}

func TestConfiguredWireframeKey(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Render.WireframeKey = "f2"
	window := &fakeWindow{
		width: 800, height: 600, closeAfter: 2,
		events: map[int]func(EventHandler){
			1: func(h EventHandler) {
				h.OnKey(KeyW, Press)
				h.OnKey(KeyF1+1, Press)
			},
		},
	}
	e, _ := newTestEngine(t, cfg, window)

	e.Run()
	assert.True(t, e.Renderer().Wireframe())
}

func TestResizeUpdatesViewport(t *testing.T) {
	window := &fakeWindow{
		width: 800, height: 600, closeAfter: 2,
		events: map[int]func(EventHandler){
			1: func(h EventHandler) { h.OnResize(1024, 768) },
			2: func(h EventHandler) { h.OnResize(0, 0) },
		},
	}
	e, fake := newTestEngine(t, config.DefaultConfig(), window)

	e.Run()

	assert.Equal(t, [4]int32{0, 0, 1024, 768}, fake.ViewportState())
}

func TestSceneAdvancesWithFrameTime(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Bounce.Velocity = [3]float32{60, 0, 0}

	window := &fakeWindow{width: 800, height: 600, closeAfter: 3}
	e, _ := newTestEngine(t, cfg, window)

	player := &silentPlayer{}
	require.NoError(t, e.LoadScene(bounce.NewScene(cfg.Bounce, player, e.logger)))
	assert.Equal(t, []int{bounce.SoundLoad}, player.played)

	clock := time.Unix(0, 0)
	e.now = func() time.Time {
		clock = clock.Add(time.Second / 60)
		return clock
	}

	e.Run()

	// three frames of 1/60s at 60 units per second
	ball := e.Scene().Node("ball").Position()
	assert.InDelta(t, 3, ball[0], 1e-3)
	assert.Equal(t, 2, e.FrameStats().Len())
	assert.Equal(t, time.Second/60, e.FrameStats().Average())
	assert.True(t, mgl32.Vec3{0, 0, 0}.ApproxEqual(mgl32.Vec3{0, ball[1], ball[2]}))
}

func TestNewEngineErrors(t *testing.T) {
	t.Run("unknown wireframe key", func(t *testing.T) {
		cfg := config.DefaultConfig()
		cfg.Render.WireframeKey = "hyper"
		_, err := NewEngine(cfg, logger.New(io.Discard, "error"), &fakeWindow{}, gltest.New())
		assert.ErrorContains(t, err, "invalid wireframe key")
	})

	t.Run("no GPU memory", func(t *testing.T) {
		fake := gltest.New()
		fake.FailAllocations = true
		_, err := NewEngine(config.DefaultConfig(), logger.New(io.Discard, "error"), &fakeWindow{}, fake)
		assert.ErrorIs(t, err, gpu.ErrAllocation)
	})
}

func TestClose(t *testing.T) {
	window := &fakeWindow{width: 800, height: 600, closeAfter: 1}
	e, fake := newTestEngine(t, config.DefaultConfig(), window)
	e.Run()
	e.Close()

	buffers, vertexArrays, shaders, programs := fake.Live()
	assert.Zero(t, buffers+vertexArrays+shaders+programs)
}
