package embedframe

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func now() time.Time {
	return time.Unix(9000, 0)
}

func TestPickCanvasPrefersKnownIDs(t *testing.T) {
	frame := NewLocalFrame("game.html")
	big := NewLocalCanvas(1920, 1080)
	preferred := NewLocalCanvas(1280, 720, WithCanvasID("c3canvas"))
	frame.AddCanvas(big)
	frame.AddCanvas(preferred)

	d := NewDiscoverer()
	d.SetFrame(frame)
	d.Scan(now())

	require.True(t, d.Ready())
	assert.Equal(t, "c3canvas", d.Canvas().ID())
}

func TestPickCanvasFallsBackToLargestArea(t *testing.T) {
	frame := NewLocalFrame("game.html")
	small := NewLocalCanvas(800, 600)
	large := NewLocalCanvas(1280, 720)
	frame.AddCanvas(small)
	frame.AddCanvas(large)

	d := NewDiscoverer()
	d.SetFrame(frame)
	d.Scan(now())

	require.True(t, d.Ready())
	w, h := d.Canvas().Size()
	assert.Equal(t, 1280, w)
	assert.Equal(t, 720, h)
}

func TestPickCanvasPrefersFocusableOverLarger(t *testing.T) {
	frame := NewLocalFrame("game.html")
	large := NewLocalCanvas(1920, 1080)
	focusable := NewLocalCanvas(1280, 720, WithCanvasFocusable())
	frame.AddCanvas(large)
	frame.AddCanvas(focusable)

	d := NewDiscoverer()
	d.SetFrame(frame)
	d.Scan(now())

	require.True(t, d.Ready())
	assert.True(t, d.Canvas().Focusable())
}

func TestTooSmallCanvasNotAdopted(t *testing.T) {
	frame := NewLocalFrame("game.html")
	frame.AddCanvas(NewLocalCanvas(320, 200))

	d := NewDiscoverer()
	d.SetFrame(frame)
	d.Scan(now())

	assert.False(t, d.Ready())
	assert.Nil(t, d.Canvas())
}

func TestLastGoodCanvasSurvivesLoss(t *testing.T) {
	frame := NewLocalFrame("game.html")
	canvas := NewLocalCanvas(1280, 720)
	frame.AddCanvas(canvas)

	d := NewDiscoverer(WithScanInterval(time.Millisecond))
	d.SetFrame(frame)
	d.Scan(now())
	require.True(t, d.Ready())

	// The game swaps its canvas out for a tiny placeholder; the adopted
	// canvas is kept as long as it stays usable.
	frame.RemoveCanvas(canvas)
	frame.AddCanvas(NewLocalCanvas(100, 100))
	d.Scan(now().Add(10 * time.Millisecond))
	assert.True(t, d.Ready())
	assert.Same(t, canvas, d.Canvas().(*LocalCanvas))

	// Once the old canvas disconnects too, nothing is usable.
	canvas.SetConnected(false)
	d.Scan(now().Add(20 * time.Millisecond))
	assert.False(t, d.Ready())
}

func TestPerURLCacheRestoresAcrossFrameSwap(t *testing.T) {
	frameA := NewLocalFrame("a.html")
	canvasA := NewLocalCanvas(1280, 720)
	frameA.AddCanvas(canvasA)

	d := NewDiscoverer(WithScanInterval(time.Millisecond))
	d.SetFrame(frameA)
	d.Scan(now())
	require.True(t, d.Ready())

	// Navigate away and back; the cached canvas for a.html is reused even
	// before the new scan finds a candidate.
	d.SetFrame(NewLocalFrame("b.html"))
	backA := NewLocalFrame("a.html")
	d.SetFrame(backA)
	d.Scan(now().Add(50 * time.Millisecond))
	assert.True(t, d.Ready())
	assert.Same(t, canvasA, d.Canvas().(*LocalCanvas))
}

func TestScanThrottled(t *testing.T) {
	frame := NewLocalFrame("game.html")
	d := NewDiscoverer(WithScanInterval(100 * time.Millisecond))
	d.SetFrame(frame)

	base := now()
	d.Scan(base)
	frame.AddCanvas(NewLocalCanvas(1280, 720))

	// Within the interval nothing happens.
	d.Scan(base.Add(50 * time.Millisecond))
	assert.False(t, d.Ready())

	d.Scan(base.Add(150 * time.Millisecond))
	assert.True(t, d.Ready())
}

func TestCrossOriginFrameNeverScans(t *testing.T) {
	frame := NewLocalFrame("remote.html", WithFrameCrossOrigin())
	frame.AddCanvas(NewLocalCanvas(1280, 720))

	d := NewDiscoverer()
	d.SetFrame(frame)
	d.Scan(now())
	assert.False(t, d.Ready())
}

func TestButtonsMask(t *testing.T) {
	assert.Equal(t, 1, ButtonsMask(0))
	assert.Equal(t, 4, ButtonsMask(1))
	assert.Equal(t, 2, ButtonsMask(2))
	assert.Equal(t, 1, ButtonsMask(7))
}

func TestMapUVToCanvasFlips(t *testing.T) {
	// Input mapping flips both axes: UV (0,0) lands at the top-right
	// pixel corner, UV (1,1) at the bottom-left.
	x, y := MapUVToCanvas(0, 0, 1280, 720)
	assert.Equal(t, 1280.0, x)
	assert.Equal(t, 0.0, y)

	x, y = MapUVToCanvas(1, 1, 1280, 720)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 720.0, y)

	x, y = MapUVToCanvas(0.5, 0.5, 1280, 720)
	assert.Equal(t, 640.0, x)
	assert.Equal(t, 360.0, y)
}

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) record(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *eventRecorder) all() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event(nil), r.events...)
}

func newForwardFixture(t *testing.T) (*eventRecorder, *eventRecorder, Forwarder, *LocalCanvas, *LocalFrame) {
	t.Helper()
	canvasRec := &eventRecorder{}
	frameRec := &eventRecorder{}
	canvas := NewLocalCanvas(1280, 720, WithCanvasEventHandler(canvasRec.record))
	frame := NewLocalFrame("game.html", WithFrameEventHandler(frameRec.record))
	frame.AddCanvas(canvas)
	fwd := NewForwarder(
		func() Frame { return frame },
		func() Canvas { return canvas },
		WithFocusOnFirstPress(),
	)
	return canvasRec, frameRec, fwd, canvas, frame
}

func TestForwarderSendsBothEventFamilies(t *testing.T) {
	canvasRec, frameRec, fwd, _, _ := newForwardFixture(t)

	fwd.Move(0.5, 0.5)
	events := canvasRec.all()
	require.Len(t, events, 2)
	assert.Equal(t, EventPointerMove, events[0].Type)
	assert.Equal(t, EventMouseMove, events[1].Type)
	assert.Len(t, frameRec.all(), 2, "document receives a copy of every event")
}

func TestForwarderClickOnlyAfterPrimaryUp(t *testing.T) {
	canvasRec, _, fwd, _, _ := newForwardFixture(t)

	fwd.Down(0.5, 0.5, 0)
	fwd.Up(0.5, 0.5, 0)
	var types []EventType
	for _, ev := range canvasRec.all() {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []EventType{
		EventPointerDown, EventMouseDown,
		EventPointerUp, EventMouseUp, EventClick,
	}, types)

	// Secondary button releases emit no click.
	canvasRec2, _, fwd2, _, _ := newForwardFixture(t)
	fwd2.Down(0.5, 0.5, 2)
	fwd2.Up(0.5, 0.5, 2)
	for _, ev := range canvasRec2.all() {
		assert.NotEqual(t, EventClick, ev.Type)
	}
}

func TestForwarderMoveCarriesButtonsMask(t *testing.T) {
	canvasRec, _, fwd, _, _ := newForwardFixture(t)

	fwd.Down(0.5, 0.5, 1)
	fwd.Move(0.6, 0.5)
	events := canvasRec.all()
	last := events[len(events)-1]
	assert.Equal(t, EventMouseMove, last.Type)
	assert.Equal(t, 4, last.Buttons, "middle button held maps to mask 4")

	fwd.Up(0.6, 0.5, 1)
	fwd.Move(0.7, 0.5)
	events = canvasRec.all()
	last = events[len(events)-1]
	assert.Zero(t, last.Buttons)
}

func TestForwarderWheelCarriesDeltas(t *testing.T) {
	canvasRec, frameRec, fwd, _, _ := newForwardFixture(t)

	fwd.Wheel(0.5, 0.5, 3, -12)
	events := canvasRec.all()
	require.Len(t, events, 1)
	assert.Equal(t, EventWheel, events[0].Type)
	assert.Equal(t, 3.0, events[0].DeltaX)
	assert.Equal(t, -12.0, events[0].DeltaY)
	assert.Len(t, frameRec.all(), 1)
}

func TestForwarderFocusOnFirstPressOnly(t *testing.T) {
	_, _, fwd, canvas, frame := newForwardFixture(t)

	assert.False(t, canvas.Focused())
	fwd.Down(0.5, 0.5, 0)
	assert.True(t, canvas.Focused())
	assert.True(t, frame.Focused())
}

func TestForwarderNoCanvasDropsEvents(t *testing.T) {
	rec := &eventRecorder{}
	frame := NewLocalFrame("game.html", WithFrameEventHandler(rec.record))
	fwd := NewForwarder(func() Frame { return frame }, func() Canvas { return nil })

	fwd.Move(0.5, 0.5)
	fwd.Down(0.5, 0.5, 0)
	fwd.Up(0.5, 0.5, 0)
	assert.Empty(t, rec.all())
}
