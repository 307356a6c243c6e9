package run

import (
	"sync"

	"github.com/vovakirdan/glitch-jump/internal/sim"
)

// Subscription is a read-only view of the event stream.
type Subscription struct {
	id       int
	bus      *Bus
	events   chan sim.Event
	done     chan struct{}
	doneOnce sync.Once
}

// Events returns the channel to receive events from. It is closed when the
// subscription or the bus is closed.
func (s *Subscription) Events() <-chan sim.Event {
	return s.events
}

// Done returns a channel that closes when the subscription ends.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Close unsubscribes. Safe to call multiple times.
func (s *Subscription) Close() {
	s.bus.unsubscribe(s)
}

// send delivers evt without blocking. If the buffer is full the oldest
// event is dropped.
func (s *Subscription) send(evt sim.Event) {
	select {
	case s.events <- evt:
		return
	default:
	}

	// Buffer full, drop oldest and retry
	select {
	case <-s.events:
	default:
	}
	select {
	case s.events <- evt:
	default:
	}
}

func (s *Subscription) close() {
	s.doneOnce.Do(func() {
		close(s.done)
		close(s.events)
	})
}

// Bus fans events out to subscribers. Publish never blocks, so a slow
// consumer (audio, rendering) cannot stall the tick.
type Bus struct {
	mu     sync.RWMutex
	subs   map[int]*Subscription
	nextID int
	closed bool
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[int]*Subscription)}
}

// Subscribe registers a new subscriber with the given buffer size.
// Subscribing to a closed bus returns an already closed subscription.
func (b *Bus) Subscribe(buffer int) *Subscription {
	if buffer < 1 {
		buffer = 64
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		id:     b.nextID,
		bus:    b,
		events: make(chan sim.Event, buffer),
		done:   make(chan struct{}),
	}
	if b.closed {
		sub.close()
		return sub
	}
	b.subs[sub.id] = sub
	return sub
}

// Publish delivers evt to every subscriber.
func (b *Bus) Publish(evt sim.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, sub := range b.subs {
		sub.send(evt)
	}
}

// Len returns the number of active subscribers.
func (b *Bus) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Close ends every subscription.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	for id, sub := range b.subs {
		sub.close()
		delete(b.subs, id)
	}
}

func (b *Bus) unsubscribe(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, s.id)
	s.close()
}
