package reservation

import (
	"context"

	"github.com/BruksfildServices01/barber-pos/internal/audit"
	domain "github.com/BruksfildServices01/barber-pos/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/infra/events"
	"github.com/BruksfildServices01/barber-pos/internal/models"
)

type UpdateReservation struct {
	repo   domain.Repository
	cache  ReportCache
	events events.Publisher
	audit  audit.Auditor
}

func NewUpdateReservation(
	repo domain.Repository,
	cache ReportCache,
	publisher events.Publisher,
	auditor audit.Auditor,
) *UpdateReservation {
	return &UpdateReservation{
		repo:   repo,
		cache:  cache,
		events: publisher,
		audit:  auditor,
	}
}

func (uc *UpdateReservation) Execute(
	ctx context.Context,
	actor audit.Actor,
	id uint,
	patch domain.Patch,
) (*models.Reservation, error) {

	if patch.Empty() {
		return nil, httperr.Validation("empty_update", "no fields to update")
	}

	// --------------------------------------------------
	// 1️⃣ Load and merge
	// --------------------------------------------------
	res, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	expected := domain.Status(res.Status)
	if err := domain.Apply(res, patch); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2️⃣ Guarded write
	// --------------------------------------------------
	if err := uc.repo.Update(ctx, res, expected); err != nil {
		return nil, err
	}

	updated, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx)
	if domain.Status(updated.Status) == domain.StatusCancelled && expected != domain.StatusCancelled {
		uc.events.Publish(ctx, events.ReservationCancelled, updated)
	}
	uc.audit.Dispatch(actor.Event(audit.ReservationUpdated, "reservation", id, map[string]string{
		"from_status": string(expected),
		"to_status":   updated.Status,
	}))

	return updated, nil
}
