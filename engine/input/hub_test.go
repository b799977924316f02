package input

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-controls/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_DispatchOrderAndRelease(t *testing.T) {
	h := NewHub()
	var calls []string

	first := h.Subscribe(Handlers{
		PointerDown: func(e PointerEvent) { calls = append(calls, "first") },
	})
	h.Subscribe(Handlers{
		PointerDown: func(e PointerEvent) { calls = append(calls, "second") },
		Wheel:       func(e WheelEvent) { calls = append(calls, "wheel") },
	})
	require.Equal(t, 2, h.Len())

	h.EmitPointerDown(PointerEvent{Button: common.MouseButtonLeft})
	assert.Equal(t, []string{"first", "second"}, calls)

	first.Release()
	first.Release()
	assert.Equal(t, 1, h.Len())

	calls = nil
	h.EmitPointerDown(PointerEvent{})
	h.EmitWheel(WheelEvent{DeltaY: 1})
	h.EmitKeyDown(KeyEvent{Code: common.KeyUp})
	assert.Equal(t, []string{"second", "wheel"}, calls)
}

func TestHub_EachEmitReachesItsHandler(t *testing.T) {
	h := NewHub()
	var calls []string
	h.Subscribe(Handlers{})
	h.Subscribe(Handlers{
		PointerDown:       func(PointerEvent) { calls = append(calls, "pointerdown") },
		PointerMove:       func(PointerEvent) { calls = append(calls, "pointermove") },
		PointerUp:         func(PointerEvent) { calls = append(calls, "pointerup") },
		Wheel:             func(WheelEvent) { calls = append(calls, "wheel") },
		KeyDown:           func(KeyEvent) { calls = append(calls, "keydown") },
		TouchStart:        func(TouchEvent) { calls = append(calls, "touchstart") },
		TouchMove:         func(TouchEvent) { calls = append(calls, "touchmove") },
		TouchEnd:          func(TouchEvent) { calls = append(calls, "touchend") },
		PointerLockChange: func(bool) { calls = append(calls, "lockchange") },
		PointerLockError:  func(error) { calls = append(calls, "lockerror") },
	})

	h.EmitPointerDown(PointerEvent{})
	h.EmitPointerMove(PointerEvent{})
	h.EmitPointerUp(PointerEvent{})
	h.EmitWheel(WheelEvent{})
	h.EmitKeyDown(KeyEvent{})
	h.EmitTouchStart(TouchEvent{})
	h.EmitTouchMove(TouchEvent{})
	h.EmitTouchEnd(TouchEvent{})
	h.EmitPointerLockChange(true)
	h.EmitPointerLockError(ErrPointerLockUnavailable)

	assert.Equal(t, []string{
		"pointerdown", "pointermove", "pointerup", "wheel", "keydown",
		"touchstart", "touchmove", "touchend", "lockchange", "lockerror",
	}, calls, "the empty subscriber is skipped")
}

func TestHub_ReleaseDuringDispatch(t *testing.T) {
	h := NewHub()
	var sub Subscription
	count := 0
	sub = h.Subscribe(Handlers{
		TouchStart: func(e TouchEvent) {
			count++
			sub.Release()
		},
	})

	h.EmitTouchStart(TouchEvent{Touches: []Touch{{ID: 1}}})
	h.EmitTouchStart(TouchEvent{Touches: []Touch{{ID: 1}}})
	assert.Equal(t, 1, count)
	assert.Zero(t, h.Len())
}

func TestHub_ZeroValueUsable(t *testing.T) {
	var h Hub
	got := 0
	h.Subscribe(Handlers{TouchEnd: func(TouchEvent) { got++ }})
	h.EmitTouchEnd(TouchEvent{})
	assert.Equal(t, 1, got)
}

func TestVirtual_PointerLockIsAsynchronous(t *testing.T) {
	v := NewVirtual(800, 600)
	var states []bool
	var errs []error
	v.Subscribe(Handlers{
		PointerLockChange: func(locked bool) { states = append(states, locked) },
		PointerLockError:  func(err error) { errs = append(errs, err) },
	})

	require.NoError(t, v.RequestPointerLock())
	assert.True(t, v.Locked())
	assert.Empty(t, states, "notification must wait for Flush")

	assert.Equal(t, 1, v.Flush())
	assert.Equal(t, []bool{true}, states)

	v.ExitPointerLock()
	v.ExitPointerLock()
	v.Flush()
	assert.Equal(t, []bool{true, false}, states)

	v.SetPointerLockSupported(false)
	require.NoError(t, v.RequestPointerLock())
	v.Flush()
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], ErrPointerLockUnavailable)
	assert.False(t, v.Locked())

	w, hgt := v.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, hgt)
}
