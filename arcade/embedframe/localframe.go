package embedframe

import (
	"image"
	"sync"

	"github.com/Carmen-Shannon/oxy-arcade/arcade/audiobridge"
)

var _ Canvas = &LocalCanvas{}

// LocalCanvas is an in-process Canvas backed by callbacks. Games hosted in
// the same process register one per rendering surface.
type LocalCanvas struct {
	mu sync.Mutex

	id        string
	width     int
	height    int
	connected bool
	focusable bool
	focused   bool
	frameFn   func() *image.RGBA
	handler   func(Event)
}

// LocalCanvasOption configures a LocalCanvas at construction.
type LocalCanvasOption func(*LocalCanvas)

// WithCanvasID sets the element id.
func WithCanvasID(id string) LocalCanvasOption {
	return func(c *LocalCanvas) {
		c.id = id
	}
}

// WithCanvasFocusable marks the canvas as accepting keyboard focus.
func WithCanvasFocusable() LocalCanvasOption {
	return func(c *LocalCanvas) {
		c.focusable = true
	}
}

// WithCanvasFrameFunc supplies the pixel source for blitting.
func WithCanvasFrameFunc(fn func() *image.RGBA) LocalCanvasOption {
	return func(c *LocalCanvas) {
		c.frameFn = fn
	}
}

// WithCanvasEventHandler supplies the synthetic event sink.
func WithCanvasEventHandler(fn func(Event)) LocalCanvasOption {
	return func(c *LocalCanvas) {
		c.handler = fn
	}
}

// NewLocalCanvas creates a connected canvas of the given size.
func NewLocalCanvas(w, h int, opts ...LocalCanvasOption) *LocalCanvas {
	c := &LocalCanvas{
		width:     w,
		height:    h,
		connected: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *LocalCanvas) ID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.id
}

func (c *LocalCanvas) Size() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

// Resize changes the canvas dimensions, as games do on their own schedule.
func (c *LocalCanvas) Resize(w, h int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.width = w
	c.height = h
}

func (c *LocalCanvas) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// SetConnected detaches or reattaches the canvas from its document.
func (c *LocalCanvas) SetConnected(connected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = connected
}

func (c *LocalCanvas) Focusable() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focusable
}

func (c *LocalCanvas) Focus() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.focused = true
}

// Focused reports whether Focus has been called.
func (c *LocalCanvas) Focused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.focused
}

func (c *LocalCanvas) Frame() *image.RGBA {
	c.mu.Lock()
	fn := c.frameFn
	c.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn()
}

func (c *LocalCanvas) DispatchEvent(ev Event) {
	c.mu.Lock()
	fn := c.handler
	c.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

var _ Frame = &LocalFrame{}

// LocalFrame is an in-process Frame hosting LocalCanvas instances. It always
// reports same-origin unless constructed otherwise, which makes it the
// sandboxed stand-in for third-party content in tests.
type LocalFrame struct {
	mu sync.Mutex

	url         string
	crossOrigin bool
	canvases    []Canvas
	audio       audiobridge.AudioInterface
	focused     bool
	handler     func(Event)
}

// LocalFrameOption configures a LocalFrame at construction.
type LocalFrameOption func(*LocalFrame)

// WithFrameCrossOrigin marks the frame's content as unreachable.
func WithFrameCrossOrigin() LocalFrameOption {
	return func(f *LocalFrame) {
		f.crossOrigin = true
	}
}

// WithFrameAudio sets the exported audio interface.
func WithFrameAudio(audio audiobridge.AudioInterface) LocalFrameOption {
	return func(f *LocalFrame) {
		f.audio = audio
	}
}

// WithFrameEventHandler supplies the document-level event sink.
func WithFrameEventHandler(fn func(Event)) LocalFrameOption {
	return func(f *LocalFrame) {
		f.handler = fn
	}
}

// NewLocalFrame creates a frame for the given content URL.
func NewLocalFrame(url string, opts ...LocalFrameOption) *LocalFrame {
	f := &LocalFrame{url: url}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *LocalFrame) URL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.url
}

func (f *LocalFrame) SameOrigin() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return !f.crossOrigin
}

func (f *LocalFrame) Canvases() []Canvas {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.crossOrigin {
		return nil
	}
	out := make([]Canvas, len(f.canvases))
	copy(out, f.canvases)
	return out
}

// AddCanvas registers a canvas in document order.
func (f *LocalFrame) AddCanvas(c Canvas) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.canvases = append(f.canvases, c)
}

// RemoveCanvas unregisters a canvas.
func (f *LocalFrame) RemoveCanvas(c Canvas) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, existing := range f.canvases {
		if existing == c {
			f.canvases = append(f.canvases[:i], f.canvases[i+1:]...)
			return
		}
	}
}

func (f *LocalFrame) AudioInterface() audiobridge.AudioInterface {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.crossOrigin {
		return nil
	}
	return f.audio
}

// SetAudioInterface installs the exported audio hooks, typically some time
// after the game has loaded.
func (f *LocalFrame) SetAudioInterface(audio audiobridge.AudioInterface) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.audio = audio
}

func (f *LocalFrame) Focus() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.focused = true
}

// Focused reports whether Focus has been called.
func (f *LocalFrame) Focused() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.focused
}

func (f *LocalFrame) DispatchEvent(ev Event) {
	f.mu.Lock()
	fn := f.handler
	f.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}
