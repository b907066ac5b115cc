package reservation

import (
	"context"

	domain "github.com/BruksfildServices01/barber-pos/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-pos/internal/models"
)

type GetReservation struct {
	repo domain.Repository
}

func NewGetReservation(repo domain.Repository) *GetReservation {
	return &GetReservation{repo: repo}
}

func (uc *GetReservation) Execute(ctx context.Context, id uint) (*models.Reservation, error) {
	return uc.repo.GetByID(ctx, id)
}

// ListReservations returns reservations newest first, each carrying the
// barber and station names.
type ListReservations struct {
	repo domain.Repository
}

func NewListReservations(repo domain.Repository) *ListReservations {
	return &ListReservations{repo: repo}
}

func (uc *ListReservations) Execute(ctx context.Context, f domain.Filter) ([]models.Reservation, error) {
	return uc.repo.List(ctx, f)
}

type CountReservations struct {
	repo domain.Repository
}

func NewCountReservations(repo domain.Repository) *CountReservations {
	return &CountReservations{repo: repo}
}

func (uc *CountReservations) Execute(ctx context.Context, f domain.Filter) (int64, error) {
	return uc.repo.Count(ctx, f)
}
