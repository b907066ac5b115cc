package audit

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"
)

// Actions written to audit_logs.
const (
	ReservationCreated   = "reservation_created"
	ReservationUpdated   = "reservation_updated"
	ReservationDeleted   = "reservation_deleted"
	ReservationCompleted = "reservation_completed"
	SaleRecorded         = "sale_recorded"
	UserCreated          = "user_created"
	UserUpdated          = "user_updated"
	UserDeleted          = "user_deleted"
	UserPasswordChanged  = "user_password_changed"
	SettingUpdated       = "setting_updated"
)

type Event struct {
	UserID    *uint
	Action    string
	Entity    string
	EntityID  *uint
	Metadata  any
	RequestID string
}

// Auditor is what use cases and handlers depend on.
type Auditor interface {
	Dispatch(ev Event)
}

type Writer interface {
	Write(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	writer Writer
	queue  chan Event
	wg     sync.WaitGroup
}

func NewDispatcher(writer Writer) *Dispatcher {
	d := &Dispatcher{
		writer: writer,
		queue:  make(chan Event, 100),
	}

	d.wg.Add(1)
	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()

	for ev := range d.queue {
		if err := d.writer.Write(context.Background(), ev); err != nil {
			log.Error().
				Err(err).
				Str("component", "audit").
				Str("action", ev.Action).
				Msg("audit write failed")
		}
	}
}

// Dispatch never blocks. Events are dropped when the queue is full.
func (d *Dispatcher) Dispatch(ev Event) {
	select {
	case d.queue <- ev:
	default:
		log.Warn().
			Str("component", "audit").
			Str("action", ev.Action).
			Msg("audit queue full, dropping event")
	}
}

// Close drains the queue. Dispatch must not be called afterwards.
func (d *Dispatcher) Close() {
	close(d.queue)
	d.wg.Wait()
}

// Discard is an Auditor that records nothing.
type Discard struct{}

func (Discard) Dispatch(Event) {}

func Ptr(id uint) *uint {
	return &id
}

// Actor identifies who triggered a write.
type Actor struct {
	UserID    *uint
	RequestID string
}

// Event builds an audit event; entityID 0 means the entity has no numeric id.
func (a Actor) Event(action, entity string, entityID uint, meta any) Event {
	ev := Event{
		UserID:    a.UserID,
		Action:    action,
		Entity:    entity,
		Metadata:  meta,
		RequestID: a.RequestID,
	}
	if entityID != 0 {
		ev.EntityID = Ptr(entityID)
	}
	return ev
}
