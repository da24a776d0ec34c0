package embedframe

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Minimum canvas dimensions for a candidate to be adopted. Games often
// create tiny helper canvases (thumbnails, offscreen scratch buffers); the
// real game surface is at least this big.
const (
	MinCanvasWidth  = 640
	MinCanvasHeight = 360
)

// preferredIDs are checked in order before any size heuristic.
var preferredIDs = []string{"c3canvas", "c2canvas", "canvas"}

const defaultScanInterval = 250 * time.Millisecond

// Discoverer tracks the usable rendering canvas of an embedded game across
// canvas swaps and transient losses. It keeps the last known-good canvas per
// content URL so a game that briefly detaches its canvas keeps rendering
// from the cached one.
type Discoverer interface {
	// SetFrame targets a frame (nil to clear). The per-URL cache survives
	// frame changes.
	SetFrame(frame Frame)
	// Scan runs one discovery pass. Calls are throttled to the scan
	// interval; extra calls return immediately.
	Scan(now time.Time)
	// Canvas returns the currently adopted canvas, or nil.
	Canvas() Canvas
	// Ready reports whether the adopted canvas is usable right now.
	Ready() bool
}

var _ Discoverer = &discoverer{}

type discoverer struct {
	mu *sync.Mutex

	frame    Frame
	current  Canvas
	lastGood Canvas
	lastSize string
	cache    map[string]Canvas
	interval time.Duration
	lastScan time.Time
	logger   *zap.Logger

	loggedAttach bool
	loggedLoss   bool
}

// DiscovererOption configures a Discoverer at construction.
type DiscovererOption func(*discoverer)

// WithScanInterval overrides the discovery throttle.
func WithScanInterval(d time.Duration) DiscovererOption {
	return func(dc *discoverer) {
		if d > 0 {
			dc.interval = d
		}
	}
}

// WithDiscoveryLogger attaches a logger for attach/loss events.
func WithDiscoveryLogger(logger *zap.Logger) DiscovererOption {
	return func(dc *discoverer) {
		if logger != nil {
			dc.logger = logger
		}
	}
}

// NewDiscoverer creates an empty discoverer.
func NewDiscoverer(opts ...DiscovererOption) Discoverer {
	d := &discoverer{
		mu:       &sync.Mutex{},
		cache:    make(map[string]Canvas),
		interval: defaultScanInterval,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *discoverer) SetFrame(frame Frame) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.frame = frame
	d.current = nil
	d.lastGood = nil
	d.lastSize = ""
	d.lastScan = time.Time{}
	d.loggedAttach = false
	d.loggedLoss = false
}

func (d *discoverer) Scan(now time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.frame == nil || !d.frame.SameOrigin() {
		return
	}
	if !d.lastScan.IsZero() && now.Sub(d.lastScan) < d.interval {
		return
	}
	d.lastScan = now

	candidate := pickCanvas(d.frame.Canvases())
	if candidate != nil && canvasUsable(candidate) && canvasBigEnough(candidate) {
		d.adopt(candidate)
		return
	}

	// No adoptable candidate; fall back to the last good canvas, then the
	// per-URL cache, before giving up.
	fallback := d.lastGood
	if !canvasUsable(fallback) {
		fallback = d.cache[d.frame.URL()]
	}
	if canvasUsable(fallback) {
		d.current = fallback
		return
	}
	if !d.loggedLoss {
		d.logger.Warn("game canvas unavailable, keeping last good canvas")
		d.loggedLoss = true
	}
	if !canvasUsable(d.current) {
		d.current = nil
	}
}

// adopt installs a candidate canvas. Caller holds mu.
func (d *discoverer) adopt(candidate Canvas) {
	if d.current == candidate {
		return
	}
	w, h := candidate.Size()
	size := fmt.Sprintf("%dx%d", w, h)
	if !d.loggedAttach || candidate != d.lastGood || size != d.lastSize {
		d.logger.Info("attached game canvas",
			zap.String("id", candidate.ID()),
			zap.String("size", size))
		d.loggedAttach = true
		d.loggedLoss = false
	}
	d.current = candidate
	d.lastGood = candidate
	d.lastSize = size
	if url := d.frame.URL(); url != "" {
		d.cache[url] = candidate
	}
}

func (d *discoverer) Canvas() Canvas {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

func (d *discoverer) Ready() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return canvasUsable(d.current)
}

// pickCanvas chooses the game's main canvas: a preferred id first, then any
// focusable canvas, then the largest by pixel area.
func pickCanvas(canvases []Canvas) Canvas {
	if len(canvases) == 0 {
		return nil
	}
	for _, id := range preferredIDs {
		for _, c := range canvases {
			if c.ID() == id {
				return c
			}
		}
	}
	for _, c := range canvases {
		if c.Focusable() {
			return c
		}
	}
	var chosen Canvas
	bestArea := -1
	for _, c := range canvases {
		w, h := c.Size()
		if area := w * h; area > bestArea {
			bestArea = area
			chosen = c
		}
	}
	return chosen
}

func canvasUsable(c Canvas) bool {
	if c == nil {
		return false
	}
	w, h := c.Size()
	return w > 0 && h > 0 && c.Connected()
}

func canvasBigEnough(c Canvas) bool {
	if c == nil {
		return false
	}
	w, h := c.Size()
	return w >= MinCanvasWidth && h >= MinCanvasHeight
}
