package controls

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventDispatcher_RegistrationOrder(t *testing.T) {
	var d EventDispatcher
	var got []string

	d.AddEventListener(EventChange, func(Event) { got = append(got, "a") })
	id := d.AddEventListener(EventChange, func(Event) { got = append(got, "b") })
	d.AddEventListener(EventChange, func(Event) { got = append(got, "c") })
	d.AddEventListener(EventStart, func(Event) { got = append(got, "start") })

	d.DispatchEvent(Event{Type: EventChange})
	assert.Equal(t, []string{"a", "b", "c"}, got)

	got = nil
	d.RemoveEventListener(EventChange, id)
	d.RemoveEventListener(EventChange, 999)
	d.DispatchEvent(Event{Type: EventChange})
	assert.Equal(t, []string{"a", "c"}, got)
}

func TestEventDispatcher_ListenerMayMutateRegistry(t *testing.T) {
	var d EventDispatcher
	calls := 0
	var id ListenerID
	id = d.AddEventListener(EventLock, func(e Event) {
		calls++
		d.RemoveEventListener(EventLock, id)
		d.AddEventListener(EventUnlock, func(Event) {})
	})

	d.DispatchEvent(Event{Type: EventLock})
	d.DispatchEvent(Event{Type: EventLock})

	assert.Equal(t, 1, calls)
	assert.False(t, d.HasEventListener(EventLock))
	assert.True(t, d.HasEventListener(EventUnlock))
}

func TestEventDispatcher_RemoveAll(t *testing.T) {
	var d EventDispatcher
	d.AddEventListener(EventChange, func(Event) {})
	d.AddEventListener(EventEnd, func(Event) {})
	require.True(t, d.HasEventListener(EventChange))

	d.RemoveAllEventListeners()
	assert.False(t, d.HasEventListener(EventChange))
	assert.False(t, d.HasEventListener(EventEnd))

	// still usable after clearing
	d.AddEventListener(EventChange, func(Event) {})
	assert.True(t, d.HasEventListener(EventChange))
}

func TestState_String(t *testing.T) {
	tests := map[State]string{
		StateNone:        "none",
		StateRotate:      "rotate",
		StateDolly:       "dolly",
		StatePan:         "pan",
		StateTouchRotate: "touch_rotate",
		StateTouchDolly:  "touch_dolly",
		StateTouchPan:    "touch_pan",
		State(42):        "unknown",
	}
	for s, want := range tests {
		assert.Equal(t, want, s.String())
	}
}
