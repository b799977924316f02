package input

import (
	"sort"
	"sync"
)

// Hub fans input events out to subscribed Handlers. Host adapters embed a Hub and call
// its Emit methods from their native callbacks. Handlers are invoked in subscription
// order, outside the hub's lock, so a handler may subscribe or release during dispatch.
type Hub struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]Handlers
}

// NewHub creates an empty Hub.
//
// Returns:
//   - *Hub: the hub
func NewHub() *Hub {
	return &Hub{subs: make(map[uint64]Handlers)}
}

type hubSubscription struct {
	hub  *Hub
	id   uint64
	once sync.Once
}

func (s *hubSubscription) Release() {
	s.once.Do(func() {
		s.hub.mu.Lock()
		delete(s.hub.subs, s.id)
		s.hub.mu.Unlock()
	})
}

// Subscribe registers h and returns its release handle.
func (h *Hub) Subscribe(handlers Handlers) Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs == nil {
		h.subs = make(map[uint64]Handlers)
	}
	h.nextID++
	h.subs[h.nextID] = handlers
	return &hubSubscription{hub: h, id: h.nextID}
}

// Len returns the number of live subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// snapshot returns the current handlers ordered by subscription id.
func (h *Hub) snapshot() []Handlers {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]uint64, 0, len(h.subs))
	for id := range h.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]Handlers, len(ids))
	for i, id := range ids {
		out[i] = h.subs[id]
	}
	return out
}

// EmitPointerDown delivers a button press to every subscriber, in subscription order.
func (h *Hub) EmitPointerDown(e PointerEvent) {
	for _, s := range h.snapshot() {
		if s.PointerDown != nil {
			s.PointerDown(e)
		}
	}
}

// EmitPointerMove delivers pointer motion to every subscriber.
func (h *Hub) EmitPointerMove(e PointerEvent) {
	for _, s := range h.snapshot() {
		if s.PointerMove != nil {
			s.PointerMove(e)
		}
	}
}

// EmitPointerUp delivers a button release to every subscriber.
func (h *Hub) EmitPointerUp(e PointerEvent) {
	for _, s := range h.snapshot() {
		if s.PointerUp != nil {
			s.PointerUp(e)
		}
	}
}

// EmitWheel delivers a scroll event to every subscriber.
func (h *Hub) EmitWheel(e WheelEvent) {
	for _, s := range h.snapshot() {
		if s.Wheel != nil {
			s.Wheel(e)
		}
	}
}

// EmitKeyDown delivers a key press to every subscriber.
func (h *Hub) EmitKeyDown(e KeyEvent) {
	for _, s := range h.snapshot() {
		if s.KeyDown != nil {
			s.KeyDown(e)
		}
	}
}

// EmitTouchStart delivers new touch contacts to every subscriber.
func (h *Hub) EmitTouchStart(e TouchEvent) {
	for _, s := range h.snapshot() {
		if s.TouchStart != nil {
			s.TouchStart(e)
		}
	}
}

// EmitTouchMove delivers touch motion to every subscriber.
func (h *Hub) EmitTouchMove(e TouchEvent) {
	for _, s := range h.snapshot() {
		if s.TouchMove != nil {
			s.TouchMove(e)
		}
	}
}

// EmitTouchEnd delivers lifted touch contacts to every subscriber.
func (h *Hub) EmitTouchEnd(e TouchEvent) {
	for _, s := range h.snapshot() {
		if s.TouchEnd != nil {
			s.TouchEnd(e)
		}
	}
}

// EmitPointerLockChange tells every subscriber the pointer was captured or released.
func (h *Hub) EmitPointerLockChange(locked bool) {
	for _, s := range h.snapshot() {
		if s.PointerLockChange != nil {
			s.PointerLockChange(locked)
		}
	}
}

// EmitPointerLockError tells every subscriber a capture request failed.
func (h *Hub) EmitPointerLockError(err error) {
	for _, s := range h.snapshot() {
		if s.PointerLockError != nil {
			s.PointerLockError(err)
		}
	}
}
