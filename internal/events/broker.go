package events

import (
	"sync"
)

// Type names a session change.
type Type string

const (
	TypeImageUploaded      Type = "image_uploaded"
	TypeStyleSelected      Type = "style_selected"
	TypeGenerationStarted  Type = "generation_started"
	TypeGenerationComplete Type = "generation_complete"
	TypeGenerationFailed   Type = "generation_failed"
)

const subscriberBuffer = 8

// Event is one session transition as seen by stream clients. Seq increases by one
// per published event so clients can notice gaps left by dropped deliveries.
type Event struct {
	Seq       uint64 `json:"seq"`
	SessionID string `json:"session_id"`
	Type      Type   `json:"type"`
	Busy      bool   `json:"busy"`
	Error     string `json:"error,omitempty"`
}

// Broker fans session events out to stream subscribers. A new subscriber first
// receives the most recent event so it starts from the current session status.
type Broker struct {
	mu          sync.Mutex
	seq         uint64
	last        *Event
	subscribers map[chan Event]struct{}
}

func NewBroker() *Broker {
	return &Broker{subscribers: make(map[chan Event]struct{})}
}

// Subscribe registers a buffered channel, primed with the latest event if any.
func (b *Broker) Subscribe() chan Event {
	ch := make(chan Event, subscriberBuffer)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.last != nil {
		ch <- *b.last
	}
	b.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe closes ch. Calling it twice is harmless.
func (b *Broker) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subscribers[ch]; ok {
		delete(b.subscribers, ch)
		close(ch)
	}
}

// Len reports the number of live subscribers.
func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}

// Publish stamps evt with the next sequence number and delivers it without
// blocking. A full subscriber misses the event. Publishing on a nil broker is a no-op.
func (b *Broker) Publish(evt Event) Event {
	if b == nil {
		return evt
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.seq++
	evt.Seq = b.seq
	b.last = &evt
	for ch := range b.subscribers {
		select {
		case ch <- evt:
		default:
		}
	}
	return evt
}
