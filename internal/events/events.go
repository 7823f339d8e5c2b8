package events

import (
	"sync"
	"time"
)

// Event types published by the loader.
const (
	TypeSnapshotLoaded     = "snapshot.loaded"
	TypeSnapshotLoadFailed = "snapshot.load_failed"
)

// Event is a lightweight in-process notification about roster state.
type Event struct {
	Type       string
	SnapshotID string
	Week       int
	Teachers   int
	Failures   int
	Err        error
	At         time.Time
}

// Handler reacts to an event.
type Handler func(event Event)

// Bus provides in-process pub/sub so the Telegram bot and metrics can react
// to snapshot reloads without coupling to the loader.
type Bus struct {
	subscribers map[string][]Handler
	mu          sync.RWMutex
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers a handler for a given event type.
func (b *Bus) Subscribe(eventType string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.At.IsZero() {
		event.At = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		handler(event)
	}
}
