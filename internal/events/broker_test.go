package events

import "testing"

func TestBrokerFanOut(t *testing.T) {
	b := NewBroker()
	first := b.Subscribe()
	second := b.Subscribe()

	b.Publish(Event{SessionID: "s1", Type: TypeGenerationStarted, Busy: true})

	for _, ch := range []chan Event{first, second} {
		evt := <-ch
		if evt.SessionID != "s1" || evt.Type != TypeGenerationStarted || !evt.Busy || evt.Seq != 1 {
			t.Errorf("event = %+v", evt)
		}
	}

	b.Unsubscribe(first)
	b.Unsubscribe(first)
	if _, ok := <-first; ok {
		t.Error("unsubscribed channel should be closed")
	}
	if got := b.Len(); got != 1 {
		t.Errorf("Len() = %d, want 1", got)
	}
}

func TestBrokerReplaysLatestToNewSubscriber(t *testing.T) {
	b := NewBroker()
	b.Publish(Event{SessionID: "s1", Type: TypeImageUploaded})
	b.Publish(Event{SessionID: "s1", Type: TypeGenerationStarted, Busy: true})

	ch := b.Subscribe()
	if got := len(ch); got != 1 {
		t.Fatalf("primed events = %d, want 1", got)
	}
	evt := <-ch
	if evt.Type != TypeGenerationStarted || evt.Seq != 2 || !evt.Busy {
		t.Errorf("replayed = %+v", evt)
	}
}

func TestBrokerDropsForSlowSubscribers(t *testing.T) {
	b := NewBroker()
	ch := b.Subscribe()
	var last Event
	for i := 0; i < 20; i++ {
		last = b.Publish(Event{Type: TypeStyleSelected})
	}
	if got := len(ch); got != cap(ch) {
		t.Errorf("buffered = %d, want %d", got, cap(ch))
	}
	if last.Seq != 20 {
		t.Errorf("seq = %d, want 20", last.Seq)
	}
}

func TestNilBrokerPublish(t *testing.T) {
	var b *Broker
	if evt := b.Publish(Event{Type: TypeGenerationFailed}); evt.Seq != 0 {
		t.Errorf("nil broker stamped seq %d", evt.Seq)
	}
}
