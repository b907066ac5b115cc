package payroll

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/BruksfildServices01/barber-pos/internal/domain/payroll"
	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/models"
)

type ReportCache interface {
	Invalidate(ctx context.Context)
}

type RecordAdvanceInput struct {
	BarberID    uint
	Amount      decimal.Decimal
	AdvanceDate time.Time
	Note        string
}

// Advances are cash handed to a barber ahead of payday. They are netted
// out of the period's payment.
type Advances struct {
	repo  domain.Repository
	cache ReportCache
}

func NewAdvances(repo domain.Repository, cache ReportCache) *Advances {
	return &Advances{repo: repo, cache: cache}
}

func (uc *Advances) Record(ctx context.Context, in RecordAdvanceInput) (*models.BarberAdvance, error) {
	if !in.Amount.IsPositive() {
		return nil, httperr.Validation("invalid_amount", "amount must be greater than zero")
	}
	if in.AdvanceDate.IsZero() {
		return nil, httperr.Validation("invalid_date", "advance_date is required")
	}

	a := &models.BarberAdvance{
		BarberID:    in.BarberID,
		Amount:      in.Amount.Round(2),
		AdvanceDate: in.AdvanceDate,
		Note:        strings.TrimSpace(in.Note),
	}
	if err := uc.repo.CreateAdvance(ctx, a); err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx)
	return a, nil
}

func (uc *Advances) List(ctx context.Context, barberID uint, from, to *time.Time) ([]models.BarberAdvance, error) {
	return uc.repo.ListAdvances(ctx, barberID, from, to)
}
