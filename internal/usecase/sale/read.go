package sale

import (
	"context"
	"strings"
	"time"

	domain "github.com/BruksfildServices01/barber-pos/internal/domain/sale"
	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/models"
	"github.com/BruksfildServices01/barber-pos/internal/timezone"
)

type ListSales struct {
	ledger   domain.Ledger
	timezone string
}

func NewListSales(ledger domain.Ledger, shopTimezone string) *ListSales {
	return &ListSales{ledger: ledger, timezone: shopTimezone}
}

// All returns every sale with its items, newest first.
func (uc *ListSales) All(ctx context.Context) ([]models.Sale, error) {
	return uc.ledger.List(ctx, nil)
}

// Filtered returns the sales of the day, ISO week or month that contains
// value (YYYY-MM-DD, or YYYY-MM for month).
func (uc *ListSales) Filtered(ctx context.Context, filterType, value string) ([]models.Sale, error) {
	p, err := FilterPeriod(filterType, value, timezone.Location(uc.timezone))
	if err != nil {
		return nil, err
	}
	return uc.ledger.List(ctx, &p)
}

func (uc *ListSales) ByReservation(ctx context.Context, reservationID uint) (*models.Sale, error) {
	return uc.ledger.GetByReservation(ctx, reservationID)
}

// ------------------------------------------------------

// Summaries groups ledger aggregates over an inclusive date range.
type Summaries struct {
	ledger domain.Ledger
}

func NewSummaries(ledger domain.Ledger) *Summaries {
	return &Summaries{ledger: ledger}
}

func (uc *Summaries) Daily(ctx context.Context, p domain.Period) ([]domain.DailyTotal, error) {
	return uc.ledger.DailyTotals(ctx, p)
}

func (uc *Summaries) ByService(ctx context.Context, p domain.Period) ([]domain.ServiceTotal, error) {
	return uc.ledger.TotalsByService(ctx, p)
}

func (uc *Summaries) ByPaymentMethod(ctx context.Context, p domain.Period) ([]domain.PaymentMethodTotal, error) {
	return uc.ledger.TotalsByPaymentMethod(ctx, p)
}

// ------------------------------------------------------

var errInvalidFilter = httperr.Validation("invalid_filter", "filterType must be day, week or month and filterValue a date")

func FilterPeriod(filterType, value string, loc *time.Location) (domain.Period, error) {
	value = strings.TrimSpace(value)

	switch strings.ToLower(filterType) {
	case "day":
		d, err := timezone.ParseDate(value, loc)
		if err != nil {
			return domain.Period{}, errInvalidFilter
		}
		return domain.Period{From: d, To: d.AddDate(0, 0, 1)}, nil

	case "week":
		d, err := timezone.ParseDate(value, loc)
		if err != nil {
			return domain.Period{}, errInvalidFilter
		}
		from, to := timezone.WeekRange(d)
		return domain.Period{From: from, To: to}, nil

	case "month":
		d, err := time.ParseInLocation("2006-01", value, loc)
		if err != nil {
			if d, err = timezone.ParseDate(value, loc); err != nil {
				return domain.Period{}, errInvalidFilter
			}
		}
		from, to := timezone.MonthRange(d.Year(), d.Month(), loc)
		return domain.Period{From: from, To: to}, nil
	}

	return domain.Period{}, errInvalidFilter
}
