package media

import (
	"image"
	"math"
	"sync"
	"time"
)

var _ Element = &clip{}

// clip is a clock-driven Element. The playhead is derived from a wall clock
// rather than ticked, so reads are exact at any instant and the element
// needs no goroutine of its own.
type clip struct {
	mu *sync.Mutex

	now      func() time.Time
	duration float64
	rate     float64
	preserve bool
	volume   float64
	muted    bool

	playing   bool
	ended     bool
	base      float64
	startedAt time.Time

	width, height int
	frameFn       func(t float64) *image.RGBA
	bufferFn      func(t float64) float64
	ready         int

	subs []func(EventKind)
}

// ClipOption configures a Clip at construction.
type ClipOption func(*clip)

// WithDuration sets the clip length in seconds. Defaults to +Inf (stream).
func WithDuration(seconds float64) ClipOption {
	return func(c *clip) {
		c.duration = seconds
	}
}

// WithNativeSize sets the intrinsic frame dimensions.
func WithNativeSize(w, h int) ClipOption {
	return func(c *clip) {
		c.width = w
		c.height = h
	}
}

// WithFrameFunc supplies the frame source, called with the playhead time.
func WithFrameFunc(fn func(t float64) *image.RGBA) ClipOption {
	return func(c *clip) {
		c.frameFn = fn
	}
}

// WithBufferFunc overrides the buffered-ahead report. Without it the whole
// clip counts as buffered.
func WithBufferFunc(fn func(t float64) float64) ClipOption {
	return func(c *clip) {
		c.bufferFn = fn
	}
}

// WithClock injects the time source. Defaults to time.Now.
func WithClock(now func() time.Time) ClipOption {
	return func(c *clip) {
		c.now = now
	}
}

// WithReadyState overrides the reported ready state. Defaults to
// ReadyEnoughData since a local clip is fully available.
func WithReadyState(state int) ClipOption {
	return func(c *clip) {
		c.ready = state
	}
}

// NewClip creates a clock-driven media element.
//
// Parameters:
//   - opts: optional configuration
//
// Returns:
//   - Element: the clip, paused at time zero
func NewClip(opts ...ClipOption) Element {
	c := &clip{
		mu:       &sync.Mutex{},
		now:      time.Now,
		duration: math.Inf(1),
		rate:     1,
		volume:   1,
		ready:    ReadyEnoughData,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// position returns the playhead at the given instant. Caller holds mu.
func (c *clip) position(at time.Time) float64 {
	t := c.base
	if c.playing {
		t += at.Sub(c.startedAt).Seconds() * c.rate
	}
	if t < 0 {
		t = 0
	}
	if !math.IsInf(c.duration, 1) && !math.IsNaN(c.duration) && t > c.duration {
		t = c.duration
	}
	return t
}

// rebase folds the elapsed playhead into base so a rate or state change
// takes effect from the current instant. Caller holds mu.
func (c *clip) rebase() {
	at := c.now()
	c.base = c.position(at)
	c.startedAt = at
}

// checkEnded latches the ended flag once the playhead reaches the clip end.
// Caller holds mu; returns true when the end was just reached.
func (c *clip) checkEnded() bool {
	if c.ended || math.IsInf(c.duration, 1) || math.IsNaN(c.duration) {
		return false
	}
	if c.position(c.now()) >= c.duration {
		c.rebase()
		c.playing = false
		c.ended = true
		return true
	}
	return false
}

func (c *clip) Play() {
	c.mu.Lock()
	if c.playing {
		c.mu.Unlock()
		return
	}
	c.checkEnded()
	if c.ended {
		// Replay from the start, matching media element semantics.
		c.base = 0
	}
	c.rebase()
	c.playing = true
	c.ended = false
	subsNotify := c.subsCopy()
	c.mu.Unlock()
	for _, fn := range subsNotify {
		fn(EventPlay)
	}
}

func (c *clip) Pause() {
	c.mu.Lock()
	if !c.playing {
		c.mu.Unlock()
		return
	}
	c.rebase()
	c.playing = false
	subsNotify := c.subsCopy()
	c.mu.Unlock()
	for _, fn := range subsNotify {
		fn(EventPause)
	}
}

func (c *clip) CurrentTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position(c.now())
}

func (c *clip) SetCurrentTime(t float64) {
	c.mu.Lock()
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if !math.IsInf(c.duration, 1) && !math.IsNaN(c.duration) && t > c.duration {
		t = c.duration
	}
	c.base = t
	c.startedAt = c.now()
	c.ended = false
	subsNotify := c.subsCopy()
	c.mu.Unlock()
	for _, fn := range subsNotify {
		fn(EventSeeked)
	}
}

func (c *clip) Duration() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration
}

func (c *clip) PlaybackRate() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rate
}

func (c *clip) SetPlaybackRate(rate float64) {
	c.mu.Lock()
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		c.mu.Unlock()
		return
	}
	c.rebase()
	c.rate = rate
	subsNotify := c.subsCopy()
	c.mu.Unlock()
	for _, fn := range subsNotify {
		fn(EventRateChange)
	}
}

func (c *clip) SetPreservesPitch(preserve bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.preserve = preserve
}

func (c *clip) Volume() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.volume
}

func (c *clip) SetVolume(v float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if math.IsNaN(v) {
		return
	}
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	c.volume = v
}

func (c *clip) Muted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.muted
}

func (c *clip) SetMuted(m bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.muted = m
}

func (c *clip) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkEnded()
	return !c.playing
}

func (c *clip) Ended() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checkEnded()
	return c.ended
}

// Seeking always reports false: seeks on a clock-driven clip settle
// instantly.
func (c *clip) Seeking() bool { return false }

func (c *clip) ReadyState() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

func (c *clip) BufferedAhead() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.position(c.now())
	if c.bufferFn != nil {
		ahead := c.bufferFn(t)
		if ahead < 0 || math.IsNaN(ahead) {
			return 0
		}
		return ahead
	}
	if math.IsInf(c.duration, 1) || math.IsNaN(c.duration) {
		return math.MaxFloat64
	}
	return math.Max(0, c.duration-t)
}

func (c *clip) NativeSize() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *clip) Frame() *image.RGBA {
	c.mu.Lock()
	fn := c.frameFn
	t := c.position(c.now())
	c.mu.Unlock()
	if fn == nil {
		return nil
	}
	return fn(t)
}

func (c *clip) Subscribe(fn func(EventKind)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// subsCopy snapshots the subscriber list for notification outside the lock.
// Caller holds mu.
func (c *clip) subsCopy() []func(EventKind) {
	out := make([]func(EventKind), len(c.subs))
	copy(out, c.subs)
	return out
}
