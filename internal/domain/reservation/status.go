package reservation

import "github.com/BruksfildServices01/barber-pos/internal/httperr"

// ===============================
// Reservation Status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Completable lists the states the completion workflow may start from.
var Completable = []Status{StatusPending, StatusConfirmed}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func InitialStatus() Status {
	return StatusPending
}

// ===============================
// Validations
// ===============================

// CanEdit rejects any change to a reservation that already left the open states.
func CanEdit(current Status) error {
	if current.Terminal() {
		return httperr.Conflict("invalid_state", "reservation is "+string(current)+" and can no longer be changed")
	}
	return nil
}

// CanTransition validates a status change requested through a plain update.
// Completion has its own workflow and is never reachable from here.
func CanTransition(from, to Status) error {
	if !to.Valid() {
		return httperr.Validation("invalid_status", "status must be one of pending, confirmed, cancelled")
	}
	if to == StatusCompleted {
		return httperr.Conflict("use_complete_endpoint", "reservations are completed through POST /api/reservations/:id/complete")
	}
	return CanEdit(from)
}

// CanComplete explains why a reservation in a given state cannot be completed.
func CanComplete(current Status) error {
	switch current {
	case StatusPending, StatusConfirmed:
		return nil
	case StatusCompleted:
		return ErrAlreadyCompleted
	default:
		return httperr.Conflict("invalid_state", "a "+string(current)+" reservation cannot be completed")
	}
}
