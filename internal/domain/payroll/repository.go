package payroll

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barber-pos/internal/models"
)

type Repository interface {
	// BarberPeriods returns one row per barber, including those with no sales.
	BarberPeriods(ctx context.Context, from, to time.Time) ([]BarberPeriod, error)

	CreateAdvance(ctx context.Context, a *models.BarberAdvance) error
	ListAdvances(ctx context.Context, barberID uint, from, to *time.Time) ([]models.BarberAdvance, error)
}
