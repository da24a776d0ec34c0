// Package audiobridge discovers and drives the audio interface exposed by an
// embedded game. Games export their audio hooks asynchronously after load,
// so binding is retried on a short cadence; frames from another origin can
// never expose the interface and fail immediately instead.
package audiobridge

import (
	"context"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// Reason explains the bridge's current availability.
type Reason string

const (
	ReasonInit        Reason = "init"
	ReasonNoFrame     Reason = "no-frame"
	ReasonCrossOrigin Reason = "cross-origin"
	ReasonNoInterface Reason = "no-interface"
	ReasonOK          Reason = "ok"
)

const (
	defaultRetryCount   = 10
	defaultRetryDelay   = 250 * time.Millisecond
	maxVolume           = 2.0
	errCrossOriginFrame = bridgeError("frame is cross-origin")
	errNoInterface      = bridgeError("audio interface not exported yet")
)

type bridgeError string

func (e bridgeError) Error() string { return string(e) }

// AudioInterface is the control surface a game exports for its audio.
type AudioInterface interface {
	// SetMasterVolume sets the game's master volume. The scale runs to 2
	// so games can be boosted above their authored level.
	SetMasterVolume(vol float64) error
}

// SilenceControl is optionally implemented by interfaces with a dedicated
// mute switch. Without it the bridge falls back to zeroing the volume.
type SilenceControl interface {
	SetSilent(silent bool) error
}

// Frame is the subset of an embedded frame the bridge needs.
type Frame interface {
	// SameOrigin reports whether the frame's content is reachable at all.
	SameOrigin() bool
	// AudioInterface returns the exported audio hooks, or nil while the
	// game has not exported them yet.
	AudioInterface() AudioInterface
}

// Status is a snapshot of the bridge state, also delivered to the status
// callback on every change.
type Status struct {
	Available bool
	Reason    Reason
	Muted     bool
	Volume    float64
}

// Bridge binds to an embedded game's audio interface and relays volume and
// mute changes to it.
type Bridge interface {
	// Attach targets a frame and begins binding. A nil frame clears the
	// binding. Re-attaching cancels any in-flight retry loop. Binding
	// failures other than cross-origin are retried on the configured
	// cadence; the first attempt is synchronous.
	Attach(frame Frame)
	// Detach clears the binding and stops retries.
	Detach()
	// State returns the current bridge status.
	State() Status
	// SetVolume stores and, when bound, applies the volume. The value is
	// clamped to [0, 2]. Returns whether the game accepted it.
	SetVolume(vol float64) bool
	// SetMuted stores and, when bound, applies the mute state, preferring
	// the game's silent switch over zeroing the volume.
	SetMuted(muted bool) bool
}

var _ Bridge = &bridge{}

type bridge struct {
	mu *sync.Mutex

	retryCount uint64
	retryDelay time.Duration
	onStatus   func(Status)
	logger     *zap.Logger

	lastVolume float64
	muted      bool
	available  bool
	reason     Reason
	frame      Frame
	bound      AudioInterface

	cancelRetry context.CancelFunc
}

// Option configures a Bridge at construction.
type Option func(*bridge)

// WithRetry overrides the bind retry policy.
func WithRetry(count int, delay time.Duration) Option {
	return func(b *bridge) {
		if count > 0 {
			b.retryCount = uint64(count)
		}
		if delay > 0 {
			b.retryDelay = delay
		}
	}
}

// WithStatusCallback registers a callback invoked on every status change.
// The callback may be called from the retry goroutine.
func WithStatusCallback(fn func(Status)) Option {
	return func(b *bridge) {
		b.onStatus = fn
	}
}

// WithLogger attaches a logger for bind outcomes.
func WithLogger(logger *zap.Logger) Option {
	return func(b *bridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// NewBridge creates an unbound bridge.
func NewBridge(opts ...Option) Bridge {
	b := &bridge{
		mu:         &sync.Mutex{},
		retryCount: defaultRetryCount,
		retryDelay: defaultRetryDelay,
		logger:     zap.NewNop(),
		lastVolume: 1,
		reason:     ReasonInit,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *bridge) Attach(frame Frame) {
	b.mu.Lock()
	if b.cancelRetry != nil {
		b.cancelRetry()
		b.cancelRetry = nil
	}
	b.frame = frame
	if frame == nil {
		notify := b.setStateLocked(false, ReasonNoFrame, nil)
		b.mu.Unlock()
		notify()
		return
	}
	b.mu.Unlock()

	// First attempt runs synchronously so same-tick availability (or a
	// cross-origin verdict) is visible to the caller immediately.
	err := b.tryBind(frame)
	if err == nil || errors.Is(err, errCrossOriginFrame) {
		return
	}
	if b.retryCount <= 1 {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	b.mu.Lock()
	b.cancelRetry = cancel
	b.mu.Unlock()

	go func() {
		// The synchronous attempt above was number one; the retry loop
		// performs the rest of the budget.
		policy := backoff.WithContext(
			backoff.WithMaxRetries(backoff.NewConstantBackOff(b.retryDelay), b.retryCount-2),
			ctx,
		)
		_ = backoff.Retry(func() error {
			if err := b.tryBind(frame); err != nil {
				if errors.Is(err, errCrossOriginFrame) {
					return backoff.Permanent(err)
				}
				return err
			}
			return nil
		}, policy)
	}()
}

func (b *bridge) Detach() {
	b.mu.Lock()
	if b.cancelRetry != nil {
		b.cancelRetry()
		b.cancelRetry = nil
	}
	b.frame = nil
	notify := b.setStateLocked(false, ReasonNoFrame, nil)
	b.mu.Unlock()
	notify()
}

// tryBind performs one bind attempt against the frame, updating status.
func (b *bridge) tryBind(frame Frame) error {
	b.mu.Lock()
	if b.frame != frame {
		// A newer Attach superseded this loop.
		b.mu.Unlock()
		return backoff.Permanent(errors.New("frame superseded"))
	}
	b.mu.Unlock()

	if !frame.SameOrigin() {
		b.mu.Lock()
		notify := b.setStateLocked(false, ReasonCrossOrigin, nil)
		b.mu.Unlock()
		notify()
		b.logger.Warn("game audio unavailable", zap.String("reason", string(ReasonCrossOrigin)))
		return errCrossOriginFrame
	}

	iface := frame.AudioInterface()
	if iface == nil {
		b.mu.Lock()
		notify := b.setStateLocked(false, ReasonNoInterface, nil)
		b.mu.Unlock()
		notify()
		return errNoInterface
	}

	b.mu.Lock()
	notify := b.setStateLocked(true, ReasonOK, iface)
	vol := b.lastVolume
	muted := b.muted
	b.mu.Unlock()
	notify()
	b.logger.Debug("game audio bound")

	b.SetVolume(vol)
	if muted {
		b.SetMuted(true)
	}
	return nil
}

// setStateLocked updates availability and returns the deferred status
// notification, to be invoked after mu is released. Caller holds mu.
func (b *bridge) setStateLocked(available bool, reason Reason, iface AudioInterface) func() {
	b.available = available
	b.reason = reason
	b.bound = iface
	if b.onStatus == nil {
		return func() {}
	}
	status := Status{
		Available: b.available,
		Reason:    b.reason,
		Muted:     b.muted,
		Volume:    b.lastVolume,
	}
	fn := b.onStatus
	return func() { fn(status) }
}

func (b *bridge) State() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Status{
		Available: b.available,
		Reason:    b.reason,
		Muted:     b.muted,
		Volume:    b.lastVolume,
	}
}

func (b *bridge) SetVolume(vol float64) bool {
	if math.IsNaN(vol) || math.IsInf(vol, 0) {
		vol = 0
	}
	if vol < 0 {
		vol = 0
	}
	if vol > maxVolume {
		vol = maxVolume
	}

	b.mu.Lock()
	b.lastVolume = vol
	iface := b.bound
	b.mu.Unlock()

	if iface == nil {
		return false
	}
	if err := iface.SetMasterVolume(vol); err != nil {
		return false
	}
	return true
}

func (b *bridge) SetMuted(muted bool) bool {
	b.mu.Lock()
	b.muted = muted
	iface := b.bound
	lastVolume := b.lastVolume
	b.mu.Unlock()

	if sc, ok := iface.(SilenceControl); ok {
		if err := sc.SetSilent(muted); err == nil {
			return true
		}
	}
	if muted {
		return b.SetVolume(0)
	}
	return b.SetVolume(lastVolume)
}
