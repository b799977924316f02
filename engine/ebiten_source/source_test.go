package ebiten_source

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-controls/common"
	"github.com/Carmen-Shannon/oxy-controls/engine/camera"
	"github.com/Carmen-Shannon/oxy-controls/engine/controls"
	"github.com/Carmen-Shannon/oxy-controls/engine/input"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder collects the events a Source emits.
type recorder struct {
	names   []string
	moves   []input.PointerEvent
	wheels  []input.WheelEvent
	keys    []uint32
	touches [][]input.Touch
	locks   []bool
	errs    []error
}

func record(s *Source) *recorder {
	r := &recorder{}
	s.Subscribe(input.Handlers{
		PointerDown: func(e input.PointerEvent) { r.names = append(r.names, "down") },
		PointerUp:   func(e input.PointerEvent) { r.names = append(r.names, "up") },
		PointerMove: func(e input.PointerEvent) {
			r.names = append(r.names, "move")
			r.moves = append(r.moves, e)
		},
		Wheel: func(e input.WheelEvent) {
			r.names = append(r.names, "wheel")
			r.wheels = append(r.wheels, e)
		},
		KeyDown: func(e input.KeyEvent) {
			r.names = append(r.names, "key")
			r.keys = append(r.keys, e.Code)
		},
		TouchStart: func(e input.TouchEvent) {
			r.names = append(r.names, "touchstart")
			r.touches = append(r.touches, e.Touches)
		},
		TouchMove: func(e input.TouchEvent) {
			r.names = append(r.names, "touchmove")
			r.touches = append(r.touches, e.Touches)
		},
		TouchEnd: func(e input.TouchEvent) {
			r.names = append(r.names, "touchend")
			r.touches = append(r.touches, e.Touches)
		},
		PointerLockChange: func(locked bool) { r.locks = append(r.locks, locked) },
		PointerLockError:  func(err error) { r.errs = append(r.errs, err) },
	})
	return r
}

func newTestSource(captureWorks bool) *Source {
	s := NewSource(800, 600)
	s.setCaptured = func(captured bool) bool { return captured && captureWorks }
	return s
}

func TestSource_ButtonsAndMovement(t *testing.T) {
	s := newTestSource(true)
	r := record(s)

	s.Process(Frame{CursorX: 100, CursorY: 100, Focused: true})
	assert.Empty(t, r.names, "the first frame only sets the baseline")

	s.Process(Frame{CursorX: 100, CursorY: 100, Buttons: [3]bool{common.MouseButtonLeft: true}, Focused: true})
	s.Process(Frame{CursorX: 110, CursorY: 95, Buttons: [3]bool{common.MouseButtonLeft: true}, Focused: true})
	s.Process(Frame{CursorX: 110, CursorY: 95, Focused: true})

	assert.Equal(t, []string{"down", "move", "up"}, r.names)
	require.Len(t, r.moves, 1)
	assert.Equal(t, 10.0, r.moves[0].MovementX)
	assert.Equal(t, -5.0, r.moves[0].MovementY)
	assert.Equal(t, common.MouseButtonNone, r.moves[0].Button)
}

func TestSource_WheelAndKeys(t *testing.T) {
	s := newTestSource(true)
	r := record(s)

	s.Process(Frame{Focused: true})
	s.Process(Frame{WheelY: 1, Keys: []uint32{common.KeyUp, common.KeyA}, Modifiers: common.ModShift, Focused: true})

	require.Len(t, r.wheels, 1)
	assert.Equal(t, -1.0, r.wheels[0].DeltaY, "scrolling up is a negative delta")
	assert.Equal(t, []uint32{common.KeyUp, common.KeyA}, r.keys)
}

func TestKeyRepeats(t *testing.T) {
	tests := []struct {
		name     string
		duration int
		want     bool
	}{
		{name: "released", duration: 0, want: false},
		{name: "first tick", duration: 1, want: true},
		{name: "held inside delay", duration: 2, want: false},
		{name: "last tick of delay", duration: keyRepeatDelay - 1, want: false},
		{name: "first repeat", duration: keyRepeatDelay, want: true},
		{name: "between repeats", duration: keyRepeatDelay + 1, want: false},
		{name: "second repeat", duration: keyRepeatDelay + keyRepeatInterval, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keyRepeats(tt.duration))
		})
	}
}

func TestSource_HeldKeyKeepsPanning(t *testing.T) {
	s := newTestSource(true)
	r := record(s)

	// one second of a held arrow key at 60 TPS
	const ticks = 60
	s.Process(Frame{Focused: true})
	for d := 1; d <= ticks; d++ {
		f := Frame{Focused: true}
		if keyRepeats(d) {
			f.Keys = []uint32{common.KeyUp}
		}
		s.Process(f)
	}

	want := 1 + (ticks-keyRepeatDelay)/keyRepeatInterval + 1
	assert.Len(t, r.keys, want, "the first press plus one per repeat interval after the delay")
}

func TestSource_TouchLifecycle(t *testing.T) {
	s := newTestSource(true)
	r := record(s)

	s.Process(Frame{Focused: true})
	s.Process(Frame{Touches: map[int]input.Touch{
		7: {ID: 7, X: 10, Y: 10},
		3: {ID: 3, X: 50, Y: 50},
	}, Focused: true})
	s.Process(Frame{Touches: map[int]input.Touch{
		7: {ID: 7, X: 20, Y: 10},
		3: {ID: 3, X: 50, Y: 50},
	}, Focused: true})
	s.Process(Frame{Touches: map[int]input.Touch{
		7: {ID: 7, X: 20, Y: 10},
	}, Focused: true})
	s.Process(Frame{Focused: true})

	assert.Equal(t, []string{"touchstart", "touchmove", "touchend", "touchend"}, r.names)
	require.Len(t, r.touches, 4)
	assert.Equal(t, 3, r.touches[0][0].ID, "simultaneous contacts are ordered by id")
	assert.Equal(t, 20.0, r.touches[1][1].X)
	assert.Equal(t, []input.Touch{{ID: 7, X: 20, Y: 10}}, r.touches[2])
	assert.Empty(t, r.touches[3])
}

func TestSource_TouchOrderFollowsFirstContact(t *testing.T) {
	s := newTestSource(true)
	r := record(s)

	s.Process(Frame{Touches: map[int]input.Touch{9: {ID: 9}}, Focused: true})
	s.Process(Frame{Touches: map[int]input.Touch{9: {ID: 9}, 1: {ID: 1}}, Focused: true})

	require.Len(t, r.touches, 2)
	assert.Equal(t, 9, r.touches[1][0].ID)
	assert.Equal(t, 1, r.touches[1][1].ID)
}

func TestSource_PointerLock(t *testing.T) {
	s := newTestSource(true)
	r := record(s)

	s.Process(Frame{CursorX: 5, CursorY: 5, Focused: true})
	require.NoError(t, s.RequestPointerLock())
	assert.False(t, s.Locked(), "requests apply on the next frame")

	// the capture warp is not reported as movement
	s.Process(Frame{CursorX: 400, CursorY: 300, Focused: true})
	assert.True(t, s.Locked())
	assert.Equal(t, []bool{true}, r.locks)
	assert.Empty(t, r.moves)

	s.Process(Frame{CursorX: 400, CursorY: 300, Keys: []uint32{common.KeyEsc}, Focused: true})
	assert.True(t, s.Locked())
	s.Process(Frame{CursorX: 400, CursorY: 300, Focused: true})
	assert.False(t, s.Locked(), "escape releases the lock")
	assert.Equal(t, []bool{true, false}, r.locks)

	require.NoError(t, s.RequestPointerLock())
	s.Process(Frame{Focused: true})
	s.Process(Frame{Focused: false})
	s.Process(Frame{Focused: false})
	assert.False(t, s.Locked(), "focus loss releases the lock")

	s.ExitPointerLock()
	s.Process(Frame{Focused: true})
	assert.Equal(t, []bool{true, false, true, false}, r.locks, "exiting an unlocked pointer is silent")
}

func TestSource_PointerLockUnavailable(t *testing.T) {
	s := newTestSource(false)
	r := record(s)

	require.NoError(t, s.RequestPointerLock())
	s.Process(Frame{Focused: true})

	assert.False(t, s.Locked())
	assert.Empty(t, r.locks)
	require.Len(t, r.errs, 1)
	assert.ErrorIs(t, r.errs[0], input.ErrPointerLockUnavailable)
}

func TestSource_DrivesOrbitControls(t *testing.T) {
	s := newTestSource(true)
	s.SetSize(800, 400)
	w, h := s.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 400, h)

	cam := camera.NewCamera(camera.WithPosition(0, 0, 10))
	orbit := controls.NewOrbitControls(cam, s, controls.WithoutDamping())
	defer orbit.Dispose()

	s.Process(Frame{CursorX: 400, CursorY: 200, Focused: true})
	s.Process(Frame{CursorX: 400, CursorY: 200, Buttons: [3]bool{common.MouseButtonLeft: true}, Focused: true})
	s.Process(Frame{CursorX: 300, CursorY: 200, Buttons: [3]bool{common.MouseButtonLeft: true}, Focused: true})
	s.Process(Frame{CursorX: 300, CursorY: 200, Focused: true})

	// a drag of a quarter viewport height rotates a quarter turn
	assert.InDelta(t, 1.5707963267948966, orbit.GetAzimuthalAngle(), 1e-9)
}
