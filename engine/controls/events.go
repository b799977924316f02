package controls

import (
	"sort"
	"sync"
)

// EventType names a notification dispatched by a control.
type EventType string

const (
	// EventChange fires when the control moved the camera.
	EventChange EventType = "change"
	// EventStart fires when a pointer, touch or wheel interaction begins.
	EventStart EventType = "start"
	// EventEnd fires when that interaction ends.
	EventEnd EventType = "end"
	// EventLock fires when the pointer becomes locked.
	EventLock EventType = "lock"
	// EventUnlock fires when the pointer lock is released.
	EventUnlock EventType = "unlock"
)

// Event is delivered to listeners. Target is the control that dispatched it.
type Event struct {
	Type   EventType
	Target any
}

// Listener receives dispatched events.
type Listener func(Event)

// ListenerID identifies a registered listener for removal.
type ListenerID uint64

// EventDispatcher is a typed listener registry. Listeners are invoked in registration
// order without the registry lock held, so they may add or remove listeners.
type EventDispatcher struct {
	mu        sync.Mutex
	nextID    ListenerID
	listeners map[EventType]map[ListenerID]Listener
}

// AddEventListener registers fn for events of type t.
//
// Parameters:
//   - t: the event type to listen for
//   - fn: the callback
//
// Returns:
//   - ListenerID: the handle used by RemoveEventListener
func (d *EventDispatcher) AddEventListener(t EventType, fn Listener) ListenerID {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.listeners == nil {
		d.listeners = make(map[EventType]map[ListenerID]Listener)
	}
	if d.listeners[t] == nil {
		d.listeners[t] = make(map[ListenerID]Listener)
	}
	d.nextID++
	d.listeners[t][d.nextID] = fn
	return d.nextID
}

// RemoveEventListener unregisters a listener. Unknown ids are ignored.
func (d *EventDispatcher) RemoveEventListener(t EventType, id ListenerID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.listeners[t], id)
}

// HasEventListener reports whether any listener is registered for t.
func (d *EventDispatcher) HasEventListener(t EventType) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners[t]) > 0
}

// RemoveAllEventListeners drops every listener of every type.
func (d *EventDispatcher) RemoveAllEventListeners() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = nil
}

// DispatchEvent invokes every listener registered for e.Type.
func (d *EventDispatcher) DispatchEvent(e Event) {
	d.mu.Lock()
	registered := d.listeners[e.Type]
	ids := make([]ListenerID, 0, len(registered))
	for id := range registered {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]Listener, len(ids))
	for i, id := range ids {
		fns[i] = registered[id]
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}
