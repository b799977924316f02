// Package ebiten_source adapts Ebitengine's polled input to the event-driven input.Source
// the camera controls subscribe to. Call Update once per ebiten.Game Update; it reads the
// frame's input state, diffs it against the previous frame and emits the changes.
package ebiten_source

import (
	"slices"
	"sync"

	"github.com/Carmen-Shannon/oxy-controls/common"
	"github.com/Carmen-Shannon/oxy-controls/engine/input"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Frame is one frame of polled input state.
type Frame struct {
	CursorX, CursorY float64
	// Buttons holds the pressed state indexed by common.MouseButton.
	Buttons [3]bool
	// WheelX, WheelY are this frame's scroll offsets; positive WheelY scrolls up.
	WheelX, WheelY float64
	// Keys are the GLFW codes of keys pressed or auto-repeated this frame.
	Keys      []uint32
	Modifiers common.ModifierKey
	// Touches are the active contacts keyed by host touch id.
	Touches map[int]input.Touch
	Focused bool
}

// Source is an input.Source fed by Ebitengine.
type Source struct {
	*input.Hub

	mu     sync.Mutex
	width  int
	height int

	prev    Frame
	hasPrev bool
	// rebase drops the next cursor delta; capturing the cursor moves it.
	rebase bool
	// touchOrder keeps contacts in the order they went down so the first contact stays first.
	touchOrder []int

	locked       bool
	lockRequests []bool
	// setCaptured applies a cursor mode and reports whether capture is now active.
	setCaptured func(captured bool) bool
}

var _ input.Source = &Source{}

// NewSource creates a Source with the given initial layout size.
//
// Parameters:
//   - width, height: the layout size in pixels; update it from Game.Layout with SetSize
//
// Returns:
//   - *Source: the source
func NewSource(width, height int) *Source {
	return &Source{
		Hub:         input.NewHub(),
		width:       width,
		height:      height,
		setCaptured: setEbitenCursorCaptured,
	}
}

// SetSize records the layout size pointer deltas are normalized against.
//
// Parameters:
//   - width, height: the layout size in pixels
func (s *Source) SetSize(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width, s.height = width, height
}

func (s *Source) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.width, s.height
}

// RequestPointerLock queues a switch to ebiten.CursorModeCaptured, applied on the next Update.
func (s *Source) RequestPointerLock() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockRequests = append(s.lockRequests, true)
	return nil
}

// ExitPointerLock queues a switch back to ebiten.CursorModeVisible.
func (s *Source) ExitPointerLock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lockRequests = append(s.lockRequests, false)
}

// Locked reports whether the cursor is currently captured.
func (s *Source) Locked() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.locked
}

// Update polls Ebitengine and emits the input that changed since the previous call.
// Must be called from ebiten.Game.Update.
func (s *Source) Update() {
	s.Process(ReadFrame())
}

// Process applies pending pointer lock requests, then emits the difference between f and
// the previous frame: button presses and releases, pointer movement, wheel, key presses and
// touch start/move/end.
//
// Parameters:
//   - f: this frame's input state
func (s *Source) Process(f Frame) {
	s.applyLockRequests()

	s.mu.Lock()
	prev, hasPrev, rebase := s.prev, s.hasPrev, s.rebase
	s.prev, s.hasPrev, s.rebase = f, true, false
	locked := s.locked
	s.mu.Unlock()

	if !hasPrev {
		prev = Frame{Focused: f.Focused}
	}
	if !hasPrev || rebase {
		prev.CursorX, prev.CursorY = f.CursorX, f.CursorY
	}

	if locked && (!f.Focused || containsKey(f.Keys, common.KeyEsc)) {
		s.ExitPointerLock()
	}

	dx, dy := f.CursorX-prev.CursorX, f.CursorY-prev.CursorY
	if dx != 0 || dy != 0 {
		s.EmitPointerMove(input.PointerEvent{
			Button:    common.MouseButtonNone,
			X:         f.CursorX,
			Y:         f.CursorY,
			MovementX: dx,
			MovementY: dy,
			Modifiers: f.Modifiers,
		})
	}

	for b := range f.Buttons {
		e := input.PointerEvent{Button: common.MouseButton(b), X: f.CursorX, Y: f.CursorY, Modifiers: f.Modifiers}
		switch {
		case f.Buttons[b] && !prev.Buttons[b]:
			s.EmitPointerDown(e)
		case !f.Buttons[b] && prev.Buttons[b]:
			s.EmitPointerUp(e)
		}
	}

	if f.WheelX != 0 || f.WheelY != 0 {
		s.EmitWheel(input.WheelEvent{DeltaX: f.WheelX, DeltaY: -f.WheelY})
	}

	for _, k := range f.Keys {
		s.EmitKeyDown(input.KeyEvent{Code: k, Modifiers: f.Modifiers})
	}

	s.processTouches(prev.Touches, f.Touches)
}

// processTouches emits end for lifted contacts, start for new ones and move when any
// remaining contact moved.
func (s *Source) processTouches(prev, cur map[int]input.Touch) {
	var lifted, added, moved bool
	for id := range prev {
		if _, ok := cur[id]; !ok {
			lifted = true
		}
	}
	for id, t := range cur {
		p, ok := prev[id]
		switch {
		case !ok:
			added = true
		case p.X != t.X || p.Y != t.Y:
			moved = true
		}
	}

	s.mu.Lock()
	order := s.touchOrder[:0]
	for _, id := range s.touchOrder {
		if _, ok := cur[id]; ok {
			order = append(order, id)
		}
	}
	var fresh []int
	for id := range cur {
		if _, ok := prev[id]; !ok {
			fresh = append(fresh, id)
		}
	}
	slices.Sort(fresh)
	order = append(order, fresh...)
	s.touchOrder = order
	touches := make([]input.Touch, len(order))
	for i, id := range order {
		touches[i] = cur[id]
	}
	s.mu.Unlock()

	if lifted {
		s.EmitTouchEnd(input.TouchEvent{Touches: touches})
	}
	if added {
		s.EmitTouchStart(input.TouchEvent{Touches: touches})
	}
	if moved && !added && !lifted {
		s.EmitTouchMove(input.TouchEvent{Touches: touches})
	}
}

// applyLockRequests switches the cursor mode for each queued request and reports the
// resulting transitions.
func (s *Source) applyLockRequests() {
	s.mu.Lock()
	requests := s.lockRequests
	s.lockRequests = nil
	s.mu.Unlock()

	for _, want := range requests {
		s.mu.Lock()
		current := s.locked
		s.mu.Unlock()
		if want == current {
			continue
		}

		got := s.setCaptured(want)
		if want && !got {
			s.EmitPointerLockError(input.ErrPointerLockUnavailable)
			continue
		}

		s.mu.Lock()
		s.locked = got
		s.rebase = true
		s.mu.Unlock()
		s.EmitPointerLockChange(got)
	}
}

func containsKey(keys []uint32, code uint32) bool {
	for _, k := range keys {
		if k == code {
			return true
		}
	}
	return false
}

// setEbitenCursorCaptured switches the Ebitengine cursor mode.
//
// Reference: https://pkg.go.dev/github.com/hajimehoshi/ebiten/v2#SetCursorMode
func setEbitenCursorCaptured(captured bool) bool {
	if captured {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)
	} else {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
	}
	return ebiten.CursorMode() == ebiten.CursorModeCaptured
}

// ReadFrame polls the current Ebitengine input state.
//
// Returns:
//   - Frame: this frame's input
func ReadFrame() Frame {
	cx, cy := ebiten.CursorPosition()
	wx, wy := ebiten.Wheel()
	f := Frame{
		CursorX: float64(cx),
		CursorY: float64(cy),
		Buttons: [3]bool{
			common.MouseButtonLeft:   ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
			common.MouseButtonRight:  ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight),
			common.MouseButtonMiddle: ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle),
		},
		WheelX:    wx,
		WheelY:    wy,
		Modifiers: readModifiers(),
		Touches:   make(map[int]input.Touch),
		Focused:   ebiten.IsFocused(),
	}

	for k, code := range keyCodes {
		if keyRepeats(inpututil.KeyPressDuration(k)) {
			f.Keys = append(f.Keys, code)
		}
	}
	slices.Sort(f.Keys)

	for _, id := range ebiten.AppendTouchIDs(nil) {
		tx, ty := ebiten.TouchPosition(id)
		f.Touches[int(id)] = input.Touch{ID: int(id), X: float64(tx), Y: float64(ty)}
	}
	return f
}

// Held keys repeat like a desktop keyboard: one press, then after keyRepeatDelay ticks a
// press every keyRepeatInterval ticks. Both are in update ticks at the default 60 TPS.
const (
	keyRepeatDelay    = 30
	keyRepeatInterval = 2
)

// keyRepeats reports whether a key held for duration ticks produces a press this tick.
//
// Parameters:
//   - duration: ticks the key has been held, 0 when released
//
// Returns:
//   - bool: true on the first tick and on every repeat tick after the delay
func keyRepeats(duration int) bool {
	if duration == 1 {
		return true
	}
	return duration >= keyRepeatDelay && (duration-keyRepeatDelay)%keyRepeatInterval == 0
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() common.ModifierKey {
	var mods common.ModifierKey
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= common.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= common.ModControl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= common.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= common.ModSuper
	}
	return mods
}

// keyCodes maps Ebitengine keys to the GLFW codes the controls are configured with.
var keyCodes = map[ebiten.Key]uint32{
	ebiten.KeyArrowLeft:  common.KeyLeft,
	ebiten.KeyArrowUp:    common.KeyUp,
	ebiten.KeyArrowRight: common.KeyRight,
	ebiten.KeyArrowDown:  common.KeyDown,
	ebiten.KeyW:          common.KeyW,
	ebiten.KeyA:          common.KeyA,
	ebiten.KeyS:          common.KeyS,
	ebiten.KeyD:          common.KeyD,
	ebiten.KeyQ:          common.KeyQ,
	ebiten.KeyE:          common.KeyE,
	ebiten.KeyL:          common.KeyL,
	ebiten.KeyR:          common.KeyR,
	ebiten.KeySpace:      common.KeySpace,
	ebiten.KeyEscape:     common.KeyEsc,
	ebiten.KeyEnter:      common.KeyEnter,
	ebiten.KeyBackspace:  common.KeyBackspace,
}
