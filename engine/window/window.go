package window

import (
	"fmt"
	"log"
	"runtime"
	"sync"

	"github.com/Carmen-Shannon/oxy-controls/common"
	"github.com/Carmen-Shannon/oxy-controls/engine/input"
	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and is the input.Source the camera controls attach to.
// Input callbacks are fanned out through an input.Hub, so any number of controls may
// subscribe to the same window.
type Window interface {
	input.Source

	// SetResizeCallback sets the function called when the window is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// PointerLocked reports whether the cursor is currently captured.
	//
	// Returns:
	//   - bool: true while pointer lock is engaged
	PointerLocked() bool

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// Close closes the window and releases platform resources.
	// Must be called on the thread running ProcessMessages.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// RequestClose asks the message loop to return at its next iteration.
	// Safe to call from any goroutine.
	RequestClose()

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed.
	// Pointer lock requests made since the previous iteration are applied first and
	// reported to subscribers from here.
	ProcessMessages()

	// Width returns the current window client area width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current window client area height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and the input fan-out.
type engineWindow struct {
	*input.Hub

	mu *sync.Mutex

	// title is the window title displayed in the title bar.
	title string

	// maxWidth is the maximum allowed window width during resize.
	maxWidth int

	// maxHeight is the maximum allowed window height during resize.
	maxHeight int

	// minWidth is the minimum allowed window width during resize.
	minWidth int

	// minHeight is the minimum allowed window height during resize.
	minHeight int

	// width is the current window client area width in pixels.
	width int

	// height is the current window client area height in pixels.
	height int

	// rawMotion requests unaccelerated mouse motion while the pointer is locked.
	rawMotion bool

	// escapeCloses closes the window on Escape when the pointer is not locked.
	escapeCloses bool

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// closeRequested stops ProcessMessages at its next iteration.
	closeRequested bool

	// locked is the pointer lock state last applied on the main thread.
	locked bool

	// lockRequests holds pointer lock transitions waiting for the next message loop iteration.
	// GLFW cursor modes may only be changed on the main thread.
	lockRequests []bool

	// lastX, lastY are the previous cursor position used to derive movement deltas.
	lastX, lastY float64
	hasLast      bool

	// onResize is called when the window is resized.
	onResize func(width, height int)
}

var _ Window = &engineWindow{}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured window
func NewWindow(options ...WindowBuilderOption) Window {
	w := &engineWindow{
		Hub:          input.NewHub(),
		mu:           &sync.Mutex{},
		title:        "Default Window Title",
		maxWidth:     1600,
		maxHeight:    1200,
		minWidth:     600,
		minHeight:    200,
		width:        1280,
		height:       720,
		rawMotion:    true,
		escapeCloses: true,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		panic(fmt.Sprintf("failed to create platform window: %v", err))
	}
	return w
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) Size() (width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *engineWindow) RequestPointerLock() error {
	if w.internalWindow == nil {
		return input.ErrPointerLockUnavailable
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lockRequests = append(w.lockRequests, true)
	return nil
}

func (w *engineWindow) ExitPointerLock() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lockRequests = append(w.lockRequests, false)
}

func (w *engineWindow) PointerLocked() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.locked
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) RequestClose() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closeRequested = true
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		w.mu.Lock()
		stop := w.closeRequested
		w.mu.Unlock()
		if stop {
			break
		}

		w.applyLockRequests()

		if succ := platformProcessMessages(w); !succ {
			break
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width
}

func (w *engineWindow) Height() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.height
}

// applyLockRequests applies queued pointer lock transitions on the main thread and notifies
// subscribers of each effective state change.
func (w *engineWindow) applyLockRequests() {
	w.mu.Lock()
	requests := w.lockRequests
	w.lockRequests = nil
	w.mu.Unlock()

	for _, lock := range requests {
		w.mu.Lock()
		current := w.locked
		w.mu.Unlock()
		if lock == current {
			continue
		}

		if err := platformSetPointerLock(w, lock); err != nil {
			log.Printf("[Window] pointer lock change failed: %v", err)
			w.EmitPointerLockError(err)
			continue
		}

		w.mu.Lock()
		w.locked = lock
		// cursor coordinates jump when the cursor mode changes
		w.hasLast = false
		w.mu.Unlock()
		w.EmitPointerLockChange(lock)
	}
}

// cursorMoved converts an absolute cursor position into a pointer event with movement deltas.
func (w *engineWindow) cursorMoved(x, y float64, mods common.ModifierKey) {
	w.mu.Lock()
	var dx, dy float64
	if w.hasLast {
		dx, dy = x-w.lastX, y-w.lastY
	}
	w.lastX, w.lastY, w.hasLast = x, y, true
	w.mu.Unlock()

	w.EmitPointerMove(input.PointerEvent{
		Button:    common.MouseButtonNone,
		X:         x,
		Y:         y,
		MovementX: dx,
		MovementY: dy,
		Modifiers: mods,
	})
}

// resized stores the new framebuffer size and forwards it to the resize callback.
func (w *engineWindow) resized(width, height int) {
	w.mu.Lock()
	w.width, w.height = width, height
	w.mu.Unlock()
	if w.onResize != nil {
		w.onResize(width, height)
	}
}
