package reservation

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-pos/internal/models"
)

// Filter narrows list and count queries. From is inclusive, To exclusive.
type Filter struct {
	From   *time.Time
	To     *time.Time
	Status Status
}

type Repository interface {
	Create(
		ctx context.Context,
		r *models.Reservation,
	) error

	GetByID(
		ctx context.Context,
		id uint,
	) (*models.Reservation, error)

	List(
		ctx context.Context,
		f Filter,
	) ([]models.Reservation, error)

	Count(
		ctx context.Context,
		f Filter,
	) (int64, error)

	// Update persists r only while the stored status still equals expected.
	Update(
		ctx context.Context,
		r *models.Reservation,
		expected Status,
	) error

	// Delete removes the reservation and its draft sale in one transaction.
	// It returns ErrHasSale when a finalized sale points at the reservation.
	Delete(
		ctx context.Context,
		id uint,
	) error
}
