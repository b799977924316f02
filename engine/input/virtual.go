package input

import (
	"errors"
	"sync"
)

// ErrPointerLockUnavailable is reported when a host has no pointer lock support.
var ErrPointerLockUnavailable = errors.New("pointer lock unavailable")

// Virtual is a headless Source with a fixed client size. It is driven by calling the
// embedded Hub's Emit methods directly, which makes it the source used for replaying
// recorded input and for tests.
//
// Pointer lock requests are queued and delivered on the next Flush, the same
// asynchronous hand-off a windowing host performs between frames.
type Virtual struct {
	*Hub

	mu          sync.Mutex
	width       int
	height      int
	locked      bool
	lockSupport bool
	pending     []func()
}

var _ Source = &Virtual{}

// NewVirtual creates a Virtual source of the given client size with pointer lock support.
//
// Parameters:
//   - width, height: client area size in pixels
//
// Returns:
//   - *Virtual: the source
func NewVirtual(width, height int) *Virtual {
	return &Virtual{
		Hub:         NewHub(),
		width:       width,
		height:      height,
		lockSupport: true,
	}
}

// SetPointerLockSupported toggles whether lock requests succeed or report ErrPointerLockUnavailable.
func (v *Virtual) SetPointerLockSupported(supported bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.lockSupport = supported
}

// Resize changes the reported client size.
func (v *Virtual) Resize(width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.width, v.height = width, height
}

func (v *Virtual) Size() (width, height int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.width, v.height
}

// Locked reports whether the pointer is currently captured.
func (v *Virtual) Locked() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.locked
}

func (v *Virtual) RequestPointerLock() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.lockSupport {
		v.pending = append(v.pending, func() { v.EmitPointerLockError(ErrPointerLockUnavailable) })
		return nil
	}
	if v.locked {
		return nil
	}
	v.locked = true
	v.pending = append(v.pending, func() { v.EmitPointerLockChange(true) })
	return nil
}

func (v *Virtual) ExitPointerLock() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.locked {
		return
	}
	v.locked = false
	v.pending = append(v.pending, func() { v.EmitPointerLockChange(false) })
}

// Flush delivers queued pointer lock notifications.
//
// Returns:
//   - int: the number of notifications delivered
func (v *Virtual) Flush() int {
	v.mu.Lock()
	pending := v.pending
	v.pending = nil
	v.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
	return len(pending)
}
