package reservation

import (
	"context"
	"strings"
	"time"

	"github.com/BruksfildServices01/barber-pos/internal/audit"
	domain "github.com/BruksfildServices01/barber-pos/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/infra/events"
	"github.com/BruksfildServices01/barber-pos/internal/models"
)

// ======================================================
// INPUT
// ======================================================

type CreateReservationInput struct {
	BarberID  uint
	StationID uint
	ServiceID uint

	ClientName  string
	ClientPhone string
	ClientEmail string

	StartTime time.Time
	EndTime   time.Time

	Status string
	Notes  string
}

// ======================================================
// USE CASE
// ======================================================

type CreateReservation struct {
	repo   domain.Repository
	cache  ReportCache
	events events.Publisher
	audit  audit.Auditor
}

func NewCreateReservation(
	repo domain.Repository,
	cache ReportCache,
	publisher events.Publisher,
	auditor audit.Auditor,
) *CreateReservation {
	return &CreateReservation{
		repo:   repo,
		cache:  cache,
		events: publisher,
		audit:  auditor,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateReservation) Execute(
	ctx context.Context,
	actor audit.Actor,
	in CreateReservationInput,
) (*models.Reservation, error) {

	// --------------------------------------------------
	// 1️⃣ Required fields
	// --------------------------------------------------
	if in.BarberID == 0 || in.StationID == 0 || in.ServiceID == 0 {
		return nil, httperr.Validation("missing_fields", "barber_id, station_id and service_id are required")
	}

	name := strings.TrimSpace(in.ClientName)
	if name == "" {
		return nil, httperr.Validation("missing_fields", "client_name is required")
	}

	if err := domain.ValidateWindow(in.StartTime, in.EndTime); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Initial status
	// --------------------------------------------------
	status := domain.InitialStatus()
	if in.Status != "" {
		status = domain.Status(strings.ToLower(in.Status))
		if status != domain.StatusPending && status != domain.StatusConfirmed {
			return nil, httperr.Validation("invalid_status", "a new reservation must be pending or confirmed")
		}
	}

	// --------------------------------------------------
	// 3️⃣ Persist
	// --------------------------------------------------
	res := &models.Reservation{
		BarberID:    in.BarberID,
		StationID:   in.StationID,
		ServiceID:   in.ServiceID,
		ClientName:  name,
		ClientPhone: strings.TrimSpace(in.ClientPhone),
		ClientEmail: strings.ToLower(strings.TrimSpace(in.ClientEmail)),
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Status:      string(status),
		Notes:       in.Notes,
	}

	if err := uc.repo.Create(ctx, res); err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx)
	uc.events.Publish(ctx, events.ReservationCreated, res)
	uc.audit.Dispatch(actor.Event(audit.ReservationCreated, "reservation", res.ID, nil))

	return res, nil
}
