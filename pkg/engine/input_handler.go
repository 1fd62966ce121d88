package engine

// InputHandler keeps keyboard state fed by window key events
type InputHandler struct {
	currentKeys map[Key]bool
	pressed     map[Key]bool
	released    map[Key]bool
}

// NewInputHandler creates an input handler with no keys down
func NewInputHandler() *InputHandler {
	return &InputHandler{
		currentKeys: make(map[Key]bool),
		pressed:     make(map[Key]bool),
		released:    make(map[Key]bool),
	}
}

// OnKey records a key event. Repeats do not count as new presses.
func (ih *InputHandler) OnKey(key Key, action Action) {
	switch action {
	case Press:
		if !ih.currentKeys[key] {
			ih.pressed[key] = true
		}
		ih.currentKeys[key] = true
	case Release:
		if ih.currentKeys[key] {
			ih.released[key] = true
		}
		ih.currentKeys[key] = false
	}
}

// Update ends the current frame: presses and releases seen so far are
// forgotten
func (ih *InputHandler) Update() {
	clear(ih.pressed)
	clear(ih.released)
}

// IsKeyDown reports whether the key is held
func (ih *InputHandler) IsKeyDown(key Key) bool {
	return ih.currentKeys[key]
}

// IsKeyPressed reports whether the key went down during this frame
func (ih *InputHandler) IsKeyPressed(key Key) bool {
	return ih.pressed[key]
}

// IsKeyReleased reports whether the key went up during this frame
func (ih *InputHandler) IsKeyReleased(key Key) bool {
	return ih.released[key]
}
