package audiobridge

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAudio records the calls a game's audio interface receives.
type fakeAudio struct {
	mu      sync.Mutex
	volumes []float64
}

func (f *fakeAudio) SetMasterVolume(vol float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volumes = append(f.volumes, vol)
	return nil
}

func (f *fakeAudio) lastVolume() (float64, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.volumes) == 0 {
		return 0, false
	}
	return f.volumes[len(f.volumes)-1], true
}

// silentAudio additionally implements the dedicated mute switch.
type silentAudio struct {
	fakeAudio
	mu     sync.Mutex
	silent []bool
}

func (f *silentAudio) SetSilent(silent bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.silent = append(f.silent, silent)
	return nil
}

// fakeFrame is a controllable Frame.
type fakeFrame struct {
	mu          sync.Mutex
	sameOrigin  bool
	iface       AudioInterface
	originCalls int
}

func (f *fakeFrame) SameOrigin() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.originCalls++
	return f.sameOrigin
}

func (f *fakeFrame) AudioInterface() AudioInterface {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.iface
}

func (f *fakeFrame) setInterface(iface AudioInterface) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.iface = iface
}

func (f *fakeFrame) originCallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.originCalls
}

func TestAttachBindsSameTick(t *testing.T) {
	audio := &fakeAudio{}
	frame := &fakeFrame{sameOrigin: true, iface: audio}
	b := NewBridge()

	b.Attach(frame)

	st := b.State()
	assert.True(t, st.Available)
	assert.Equal(t, ReasonOK, st.Reason)
	vol, ok := audio.lastVolume()
	require.True(t, ok, "bind must push the stored volume")
	assert.Equal(t, 1.0, vol)
}

func TestAttachCrossOriginFailsFast(t *testing.T) {
	frame := &fakeFrame{sameOrigin: false}
	b := NewBridge(WithRetry(10, time.Millisecond))

	b.Attach(frame)

	st := b.State()
	assert.False(t, st.Available)
	assert.Equal(t, ReasonCrossOrigin, st.Reason)

	// No retry loop may be scheduled: the origin check runs exactly once.
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, frame.originCallCount())
}

func TestAttachRetriesUntilInterfaceAppears(t *testing.T) {
	audio := &fakeAudio{}
	frame := &fakeFrame{sameOrigin: true}
	b := NewBridge(WithRetry(10, 2*time.Millisecond))

	b.Attach(frame)
	st := b.State()
	assert.False(t, st.Available)
	assert.Equal(t, ReasonNoInterface, st.Reason)

	frame.setInterface(audio)
	require.Eventually(t, func() bool {
		return b.State().Available
	}, time.Second, time.Millisecond)
	assert.Equal(t, ReasonOK, b.State().Reason)
}

func TestAttachGivesUpAfterBudget(t *testing.T) {
	frame := &fakeFrame{sameOrigin: true}
	b := NewBridge(WithRetry(3, time.Millisecond))

	b.Attach(frame)
	time.Sleep(30 * time.Millisecond)

	assert.False(t, b.State().Available)
	assert.Equal(t, ReasonNoInterface, b.State().Reason)
	// One synchronous attempt plus two retries.
	assert.Equal(t, 3, frame.originCallCount())
}

func TestAttachNilFrame(t *testing.T) {
	b := NewBridge()
	b.Attach(nil)
	st := b.State()
	assert.False(t, st.Available)
	assert.Equal(t, ReasonNoFrame, st.Reason)
}

func TestDetachStopsRetries(t *testing.T) {
	frame := &fakeFrame{sameOrigin: true}
	b := NewBridge(WithRetry(100, time.Millisecond))

	b.Attach(frame)
	b.Detach()
	assert.Equal(t, ReasonNoFrame, b.State().Reason)

	calls := frame.originCallCount()
	time.Sleep(20 * time.Millisecond)
	// A stray late attempt may have been in flight at cancel time.
	assert.LessOrEqual(t, frame.originCallCount(), calls+1)
}

func TestSetVolumeClampsToBoostRange(t *testing.T) {
	audio := &fakeAudio{}
	frame := &fakeFrame{sameOrigin: true, iface: audio}
	b := NewBridge()
	b.Attach(frame)

	assert.True(t, b.SetVolume(5))
	assert.Equal(t, 2.0, b.State().Volume)
	vol, _ := audio.lastVolume()
	assert.Equal(t, 2.0, vol)

	assert.True(t, b.SetVolume(-1))
	assert.Equal(t, 0.0, b.State().Volume)
}

func TestSetVolumeWithoutBinding(t *testing.T) {
	b := NewBridge()
	assert.False(t, b.SetVolume(0.5))
	// The value is still stored and pushed on a later bind.
	assert.Equal(t, 0.5, b.State().Volume)

	audio := &fakeAudio{}
	b.Attach(&fakeFrame{sameOrigin: true, iface: audio})
	vol, ok := audio.lastVolume()
	require.True(t, ok)
	assert.Equal(t, 0.5, vol)
}

func TestSetMutedPrefersSilentSwitch(t *testing.T) {
	audio := &silentAudio{}
	frame := &fakeFrame{sameOrigin: true, iface: audio}
	b := NewBridge()
	b.Attach(frame)
	before, _ := audio.lastVolume()

	assert.True(t, b.SetMuted(true))
	audio.mu.Lock()
	silent := append([]bool(nil), audio.silent...)
	audio.mu.Unlock()
	require.NotEmpty(t, silent)
	assert.True(t, silent[len(silent)-1])
	// Volume untouched when the silent switch exists.
	after, _ := audio.lastVolume()
	assert.Equal(t, before, after)
}

func TestSetMutedFallsBackToZeroVolume(t *testing.T) {
	audio := &fakeAudio{}
	frame := &fakeFrame{sameOrigin: true, iface: audio}
	b := NewBridge()
	b.Attach(frame)

	assert.True(t, b.SetMuted(true))
	vol, _ := audio.lastVolume()
	assert.Equal(t, 0.0, vol)
	assert.True(t, b.State().Muted)
}

func TestStatusCallbackFires(t *testing.T) {
	var mu sync.Mutex
	var reasons []Reason
	b := NewBridge(WithStatusCallback(func(s Status) {
		mu.Lock()
		reasons = append(reasons, s.Reason)
		mu.Unlock()
	}))

	b.Attach(&fakeFrame{sameOrigin: true, iface: &fakeAudio{}})
	mu.Lock()
	defer mu.Unlock()
	require.NotEmpty(t, reasons)
	assert.Equal(t, ReasonOK, reasons[len(reasons)-1])
}
