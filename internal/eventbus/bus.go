// Package eventbus is an in-memory fan-out used for session changes and
// fired triggers. Publish never blocks: a subscriber whose buffer is full
// misses the event.
package eventbus

import (
	"sync"
	"sync/atomic"
	"time"
)

// Event types published inside schedkeeper.
const (
	SessionSignedIn  = "session.signed_in"
	SessionSignedOut = "session.signed_out"
	TriggerFired     = "trigger.fired"
)

const defaultBuffer = 8

type Event struct {
	Type string
	Time time.Time
	// Data is the user id for session events and the trigger key for fires.
	Data string
}

type Bus interface {
	Publish(e Event)
	Subscribe(buffer int) (ch <-chan Event, unsubscribe func())
}

func New() Bus {
	return &memBus{subs: map[uint64]chan Event{}}
}

type memBus struct {
	mu   sync.RWMutex
	subs map[uint64]chan Event
	seq  atomic.Uint64
}

func (b *memBus) Publish(e Event) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
		}
	}
}

// Subscribe registers a buffered channel. unsubscribe is idempotent and
// closes the channel.
func (b *memBus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	ch := make(chan Event, buffer)
	id := b.seq.Add(1)

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}
}
