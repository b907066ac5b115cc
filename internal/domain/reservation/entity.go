package reservation

import (
	"strings"
	"time"

	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/models"
)

// Patch carries the fields of a partial update; nil means untouched.
type Patch struct {
	BarberID    *uint
	StationID   *uint
	ServiceID   *uint
	ClientName  *string
	ClientPhone *string
	ClientEmail *string
	StartTime   *time.Time
	EndTime     *time.Time
	Status      *Status
	Notes       *string
}

func (p Patch) Empty() bool {
	return p == Patch{}
}

// ===============================
// Domain Actions
// ===============================

func ValidateWindow(start, end time.Time) error {
	if start.IsZero() || end.IsZero() || !end.After(start) {
		return ErrInvalidWindow
	}
	return nil
}

// Apply merges p into r, enforcing the state machine and the time window.
func Apply(r *models.Reservation, p Patch) error {
	current := Status(r.Status)
	if err := CanEdit(current); err != nil {
		return err
	}

	if p.Status != nil && *p.Status != current {
		if err := CanTransition(current, *p.Status); err != nil {
			return err
		}
		r.Status = string(*p.Status)
	}

	if p.BarberID != nil {
		r.BarberID = *p.BarberID
	}
	if p.StationID != nil {
		r.StationID = *p.StationID
	}
	if p.ServiceID != nil {
		r.ServiceID = *p.ServiceID
	}
	if p.ClientName != nil {
		name := strings.TrimSpace(*p.ClientName)
		if name == "" {
			return httperr.Validation("invalid_client_name", "client_name cannot be empty")
		}
		r.ClientName = name
	}
	if p.ClientPhone != nil {
		r.ClientPhone = strings.TrimSpace(*p.ClientPhone)
	}
	if p.ClientEmail != nil {
		r.ClientEmail = strings.ToLower(strings.TrimSpace(*p.ClientEmail))
	}
	if p.Notes != nil {
		r.Notes = *p.Notes
	}
	if p.StartTime != nil {
		r.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		r.EndTime = *p.EndTime
	}

	return ValidateWindow(r.StartTime, r.EndTime)
}
