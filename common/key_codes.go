package common

// Virtual key codes for cross-platform input handling.
// These values match GLFW key codes which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeySpace = 32 // Spacebar (ASCII)
	KeyI     = 73 // I key (ASCII)
	KeyM     = 77 // M key (ASCII)
	KeyEsc   = 256
)

// Pointer button codes following the DOM MouseEvent.button convention
// (0 = primary, 1 = auxiliary/middle, 2 = secondary). The window layer
// translates platform button values into these before invoking callbacks,
// so everything above the window speaks one convention.
const (
	MouseButtonLeft   = 0
	MouseButtonMiddle = 1
	MouseButtonRight  = 2
)
