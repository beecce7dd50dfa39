package notification

import (
	"sync"
	"sync/atomic"

	"kitchenledger/internal/core/id"
)

// Subscriber is one registered listener.
type Subscriber struct {
	ID     id.ID
	UserID string
	ch     chan Event
}

// Events returns the receive side of the subscriber's buffer.
func (s *Subscriber) Events() <-chan Event {
	return s.ch
}

// Hub is a registry of subscribers. Broadcast never blocks: a subscriber whose
// buffer is full misses the event.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[id.ID]*Subscriber
	bufferSize  int
	dropped     atomic.Int64

	// OnDrop, when set, is called once per undelivered event.
	OnDrop func()
}

// NewHub creates a hub whose subscribers buffer up to bufferSize events.
func NewHub(bufferSize int) *Hub {
	if bufferSize < 1 {
		bufferSize = 1
	}
	return &Hub{
		subscribers: make(map[id.ID]*Subscriber),
		bufferSize:  bufferSize,
	}
}

// Subscribe registers a new listener.
func (h *Hub) Subscribe(userID string) *Subscriber {
	sub := &Subscriber{
		ID:     id.New(),
		UserID: userID,
		ch:     make(chan Event, h.bufferSize),
	}
	h.mu.Lock()
	h.subscribers[sub.ID] = sub
	h.mu.Unlock()
	return sub
}

// Unsubscribe removes a listener and closes its channel. Safe to call twice.
func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.subscribers[sub.ID]; !ok {
		return
	}
	delete(h.subscribers, sub.ID)
	close(sub.ch)
}

// Broadcast sends ev to every subscriber registered at call time and returns
// how many received it.
func (h *Hub) Broadcast(ev Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for _, sub := range h.subscribers {
		select {
		case sub.ch <- ev:
			delivered++
		default:
			h.dropped.Add(1)
			if h.OnDrop != nil {
				h.OnDrop()
			}
		}
	}
	return delivered
}

// Count returns the number of registered subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// Dropped returns how many deliveries were skipped because of full buffers.
func (h *Hub) Dropped() int64 {
	return h.dropped.Load()
}
