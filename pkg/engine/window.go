package engine

// EventHandler receives window events. Backends call it from PollEvents on
// the main thread.
type EventHandler interface {
	OnResize(width, height int)
	OnKey(key Key, action Action)
}

// Window is the on-screen surface the engine presents to.
type Window interface {
	ShouldClose() bool
	SetShouldClose(bool)
	SwapBuffers()
	PollEvents()
	FramebufferSize() (width, height int)
	SetEventHandler(EventHandler)
}
