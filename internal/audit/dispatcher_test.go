package audit

import (
	"context"
	"sync"
	"testing"
)

type memWriter struct {
	mu     sync.Mutex
	events []Event
	block  chan struct{}
}

func (w *memWriter) Write(_ context.Context, ev Event) error {
	if w.block != nil {
		<-w.block
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.events = append(w.events, ev)
	return nil
}

func TestDispatcherDeliversOnClose(t *testing.T) {
	w := &memWriter{}
	d := NewDispatcher(w)

	d.Dispatch(Event{Action: SaleRecorded, Entity: "sale", EntityID: Ptr(7)})
	d.Dispatch(Event{Action: ReservationCompleted, Entity: "reservation", EntityID: Ptr(1)})
	d.Close()

	if len(w.events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(w.events))
	}
	if w.events[0].Action != SaleRecorded || *w.events[0].EntityID != 7 {
		t.Fatalf("unexpected first event: %+v", w.events[0])
	}
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	w := &memWriter{block: make(chan struct{})}
	d := NewDispatcher(w)

	// One event is held by the blocked worker, 100 fill the buffer.
	for i := 0; i < 150; i++ {
		d.Dispatch(Event{Action: SaleRecorded})
	}

	close(w.block)
	d.Close()

	if n := len(w.events); n > 101 || n < 100 {
		t.Fatalf("expected about 101 delivered events, got %d", n)
	}
}
