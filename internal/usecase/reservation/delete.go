package reservation

import (
	"context"

	"github.com/BruksfildServices01/barber-pos/internal/audit"
	domain "github.com/BruksfildServices01/barber-pos/internal/domain/reservation"
)

// DeleteReservation removes a reservation and its draft sale. Reservations
// with a finalized sale are kept.
type DeleteReservation struct {
	repo  domain.Repository
	cache ReportCache
	audit audit.Auditor
}

func NewDeleteReservation(
	repo domain.Repository,
	cache ReportCache,
	auditor audit.Auditor,
) *DeleteReservation {
	return &DeleteReservation{
		repo:  repo,
		cache: cache,
		audit: auditor,
	}
}

func (uc *DeleteReservation) Execute(ctx context.Context, actor audit.Actor, id uint) error {
	if err := uc.repo.Delete(ctx, id); err != nil {
		return err
	}

	uc.cache.Invalidate(ctx)
	uc.audit.Dispatch(actor.Event(audit.ReservationDeleted, "reservation", id, nil))
	return nil
}
