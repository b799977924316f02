// Package input defines the host-neutral input events consumed by the camera controls,
// the Source interface every host adapter implements, and Hub, the listener fan-out
// shared by those adapters.
package input

import "github.com/Carmen-Shannon/oxy-controls/common"

// PointerEvent describes a mouse button press, release or movement.
// X/Y are window-relative positions in pixels; MovementX/MovementY are the raw deltas
// since the previous event, which remain meaningful while the pointer is locked.
type PointerEvent struct {
	Button    common.MouseButton
	X, Y      float64
	MovementX float64
	MovementY float64
	Modifiers common.ModifierKey
}

// WheelEvent is a scroll wheel step. DeltaY < 0 scrolls up (toward the user's view).
type WheelEvent struct {
	DeltaX float64
	DeltaY float64
}

// KeyEvent is a key press or auto-repeat.
type KeyEvent struct {
	Code      uint32
	Modifiers common.ModifierKey
}

// Touch is a single active contact point.
type Touch struct {
	ID   int
	X, Y float64
}

// TouchEvent carries the full set of contacts still active after the change.
type TouchEvent struct {
	Touches []Touch
}

// Handlers is the set of callbacks a subscriber wants invoked. Nil fields are skipped.
type Handlers struct {
	PointerDown       func(PointerEvent)
	PointerMove       func(PointerEvent)
	PointerUp         func(PointerEvent)
	Wheel             func(WheelEvent)
	KeyDown           func(KeyEvent)
	TouchStart        func(TouchEvent)
	TouchMove         func(TouchEvent)
	TouchEnd          func(TouchEvent)
	PointerLockChange func(locked bool)
	PointerLockError  func(err error)
}

// Subscription is a scoped registration of Handlers on a Source.
// Release removes the handlers; calling it more than once is a no-op.
type Subscription interface {
	Release()
}

// Source is the host input system the camera controls attach to.
type Source interface {
	// Subscribe registers handlers and returns the scope that removes them.
	//
	// Parameters:
	//   - h: the callbacks to register
	//
	// Returns:
	//   - Subscription: release handle for the registration
	Subscribe(h Handlers) Subscription

	// Size returns the client area size in pixels used to normalize pointer deltas.
	//
	// Returns:
	//   - width, height: client area size in pixels
	Size() (width, height int)

	// RequestPointerLock asks the host to capture the pointer. The outcome is reported
	// asynchronously through PointerLockChange or PointerLockError; the returned error only
	// covers requests the host can reject immediately.
	//
	// Returns:
	//   - error: non-nil if the host cannot service the request at all
	RequestPointerLock() error

	// ExitPointerLock releases a captured pointer. Reported through PointerLockChange.
	ExitPointerLock()
}
