package embedframe

import "sync"

// UV flip flags for input mapping. The screen mesh's UV layout does not
// match the canvas's top-left origin; input and display correct on
// different axes, and this pair is the input one.
const (
	inputFlipU = true
	inputFlipV = true
)

// MapUVToCanvas converts screen-mesh texture coordinates to pixel
// coordinates on a canvas of the given size, applying the input flips.
func MapUVToCanvas(u, v float64, w, h int) (x, y float64) {
	if inputFlipU {
		u = 1 - u
	}
	if inputFlipV {
		v = 1 - v
	}
	return u * float64(w), (1 - v) * float64(h)
}

// Forwarder translates screen-mesh UV hits into synthetic mouse and pointer
// events on the discovered game canvas. It tracks the held button so move
// events carry the right buttons mask, and emits a click only after the
// primary button is released.
type Forwarder interface {
	// Move forwards a hover or drag at the given UV position.
	Move(u, v float64)
	// Down forwards a button press at the given UV position.
	Down(u, v float64, button int)
	// Up forwards a button release at the given UV position, following
	// with a click when the primary button was released.
	Up(u, v float64, button int)
	// Wheel forwards a scroll gesture at the given UV position.
	Wheel(u, v, dx, dy float64)
	// Reset clears the held-button state without emitting events.
	Reset()
}

var _ Forwarder = &forwarder{}

type forwarder struct {
	mu *sync.Mutex

	frame        func() Frame
	canvas       func() Canvas
	pointerDown  bool
	button       int
	focusPending bool
}

// ForwarderOption configures a Forwarder at construction.
type ForwarderOption func(*forwarder)

// WithFocusOnFirstPress makes the first button press focus the frame and
// canvas before the event is delivered, so keyboard input follows.
func WithFocusOnFirstPress() ForwarderOption {
	return func(f *forwarder) {
		f.focusPending = true
	}
}

// NewForwarder creates a forwarder reading its targets through providers,
// so canvas swaps by the discoverer are picked up per event.
func NewForwarder(frame func() Frame, canvas func() Canvas, opts ...ForwarderOption) Forwarder {
	f := &forwarder{
		mu:     &sync.Mutex{},
		frame:  frame,
		canvas: canvas,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *forwarder) Move(u, v float64) {
	f.mu.Lock()
	buttons := 0
	if f.pointerDown {
		buttons = ButtonsMask(f.button)
	}
	f.mu.Unlock()

	f.dispatchAt(u, v, func(x, y float64) []Event {
		return []Event{
			{Type: EventPointerMove, X: x, Y: y, Buttons: buttons},
			{Type: EventMouseMove, X: x, Y: y, Buttons: buttons},
		}
	})
}

func (f *forwarder) Down(u, v float64, button int) {
	f.mu.Lock()
	focus := f.focusPending
	f.focusPending = false
	f.pointerDown = true
	f.button = button
	f.mu.Unlock()

	if focus {
		if fr := f.frame(); fr != nil {
			fr.Focus()
		}
		if c := f.canvas(); c != nil {
			c.Focus()
		}
	}

	f.dispatchAt(u, v, func(x, y float64) []Event {
		return []Event{
			{Type: EventPointerDown, X: x, Y: y, Button: button},
			{Type: EventMouseDown, X: x, Y: y, Button: button},
		}
	})
}

func (f *forwarder) Up(u, v float64, button int) {
	f.dispatchAt(u, v, func(x, y float64) []Event {
		events := []Event{
			{Type: EventPointerUp, X: x, Y: y, Button: button},
			{Type: EventMouseUp, X: x, Y: y, Button: button},
		}
		if button == 0 {
			events = append(events, Event{Type: EventClick, X: x, Y: y})
		}
		return events
	})

	f.mu.Lock()
	f.pointerDown = false
	f.button = 0
	f.mu.Unlock()
}

func (f *forwarder) Wheel(u, v, dx, dy float64) {
	f.dispatchAt(u, v, func(x, y float64) []Event {
		return []Event{
			{Type: EventWheel, X: x, Y: y, DeltaX: dx, DeltaY: dy},
		}
	})
}

func (f *forwarder) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pointerDown = false
	f.button = 0
}

// dispatchAt maps the UV position onto the current canvas and delivers the
// built events to both the canvas and the frame document. No canvas means
// no events; the gesture is dropped silently.
func (f *forwarder) dispatchAt(u, v float64, build func(x, y float64) []Event) {
	canvas := f.canvas()
	if canvas == nil {
		return
	}
	w, h := canvas.Size()
	if w <= 0 || h <= 0 {
		return
	}
	x, y := MapUVToCanvas(u, v, w, h)
	frame := f.frame()
	for _, ev := range build(x, y) {
		canvas.DispatchEvent(ev)
		if frame != nil {
			frame.DispatchEvent(ev)
		}
	}
}
