package input

// Event is the input event produced by the device layer.
type Event interface {
	event()
}

// MouseMove is the relative pointer motion.
type MouseMove struct {
	DX, DY float64
}

// MouseButton is the pointer button press or release.
type MouseButton struct {
	Button  uint32
	Pressed bool
}

// Scroll is the pointer axis motion.
type Scroll struct {
	DX, DY float64
}

// Key is the keyboard key press or release.
type Key struct {
	Code    uint32
	Pressed bool
}

func (MouseMove) event()   {}
func (MouseButton) event() {}
func (Scroll) event()      {}
func (Key) event()         {}
