package embedframe

// EventType identifies a synthetic input event. Both mouse and pointer
// flavors are sent for every gesture since games listen to either family.
type EventType string

const (
	EventMouseMove   EventType = "mousemove"
	EventMouseDown   EventType = "mousedown"
	EventMouseUp     EventType = "mouseup"
	EventClick       EventType = "click"
	EventPointerMove EventType = "pointermove"
	EventPointerDown EventType = "pointerdown"
	EventPointerUp   EventType = "pointerup"
	EventWheel       EventType = "wheel"
)

// Event is a synthetic input event in the embedded frame's client
// coordinate space.
type Event struct {
	Type EventType
	X, Y float64
	// Button is the button that changed state (0 primary, 1 middle,
	// 2 secondary).
	Button int
	// Buttons is the held-button bitmask while the event fired.
	Buttons int
	// DeltaX and DeltaY carry scroll distance on wheel events.
	DeltaX, DeltaY float64
}

// ButtonsMask converts a changed-button number into the held-buttons
// bitmask used on move events: primary = 1, secondary = 2, middle = 4.
func ButtonsMask(button int) int {
	switch button {
	case 1:
		return 4
	case 2:
		return 2
	default:
		return 1
	}
}
