package report

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/barber-pos/internal/domain/payroll"
	domain "github.com/BruksfildServices01/barber-pos/internal/domain/report"
	"github.com/BruksfildServices01/barber-pos/internal/domain/sale"
	"github.com/BruksfildServices01/barber-pos/internal/timezone"
	payrollUC "github.com/BruksfildServices01/barber-pos/internal/usecase/payroll"
)

// Cache is the read side of the report cache.
type Cache interface {
	GetJSON(ctx context.Context, name string, dst any) bool
	SetJSON(ctx context.Context, name string, v any)
}

type CalendarEvent struct {
	Title  string `json:"title"`
	Start  string `json:"start"`
	AllDay bool   `json:"allDay"`
}

type Monthly struct {
	Events []CalendarEvent     `json:"events"`
	Stats  []payroll.Statement `json:"stats"`
}

type ItemTypeSales struct {
	ByType []domain.TypeTotal  `json:"by_type"`
	ByItem []sale.ServiceTotal `json:"by_item"`
}

// ======================================================
// USE CASE
// ======================================================

// Reports serves the read-only analytics. Every result except the live
// inventory summary goes through the cache.
type Reports struct {
	repo     domain.Repository
	ledger   sale.Ledger
	payroll  *payrollUC.ComputePayroll
	cache    Cache
	timezone string
}

func NewReports(
	repo domain.Repository,
	ledger sale.Ledger,
	payroll *payrollUC.ComputePayroll,
	cache Cache,
	shopTimezone string,
) *Reports {
	return &Reports{
		repo:     repo,
		ledger:   ledger,
		payroll:  payroll,
		cache:    cache,
		timezone: shopTimezone,
	}
}

func cached[T any](ctx context.Context, c Cache, key string, load func() (T, error)) (T, error) {
	var out T
	if c.GetJSON(ctx, key, &out) {
		return out, nil
	}

	out, err := load()
	if err != nil {
		return out, err
	}

	c.SetJSON(ctx, key, out)
	return out, nil
}

func rangeKey(name string, r domain.Range) string {
	return fmt.Sprintf("%s:%s:%s", name, r.From.Format("2006-01-02"), r.To.Format("2006-01-02"))
}

// ======================================================
// EXECUTE
// ======================================================

// Monthly returns calendar day totals plus the month's payroll.
func (uc *Reports) Monthly(ctx context.Context, year int, month time.Month) (*Monthly, error) {
	from, to := timezone.MonthRange(year, month, timezone.Location(uc.timezone))
	key := fmt.Sprintf("monthly:%04d-%02d", year, int(month))

	return cached(ctx, uc.cache, key, func() (*Monthly, error) {
		days, err := uc.ledger.DailyTotals(ctx, sale.Period{From: from, To: to})
		if err != nil {
			return nil, err
		}

		events := make([]CalendarEvent, 0, len(days))
		for _, d := range days {
			events = append(events, CalendarEvent{
				Title:  "S/ " + d.Total.StringFixed(2),
				Start:  d.Date,
				AllDay: true,
			})
		}

		rep, err := uc.payroll.Execute(ctx, from, to)
		if err != nil {
			return nil, err
		}

		return &Monthly{Events: events, Stats: rep.Statements}, nil
	})
}

func (uc *Reports) BarberPayments(ctx context.Context, r domain.Range) (*payrollUC.Report, error) {
	return cached(ctx, uc.cache, rangeKey("barber-payments", r), func() (*payrollUC.Report, error) {
		return uc.payroll.Execute(ctx, r.From, r.To)
	})
}

func (uc *Reports) ComprehensiveSales(ctx context.Context, f domain.SalesFilter) ([]domain.SaleRow, error) {
	key := fmt.Sprintf("comprehensive:%d:%d:%s", f.BarberID, f.ServiceID, f.PaymentMethod)
	if f.Range != nil {
		key = rangeKey(key, *f.Range)
	}
	return cached(ctx, uc.cache, key, func() ([]domain.SaleRow, error) {
		return uc.repo.ComprehensiveSales(ctx, f)
	})
}

func (uc *Reports) ServicesProductsSales(ctx context.Context, r domain.Range) (*ItemTypeSales, error) {
	return cached(ctx, uc.cache, rangeKey("services-products", r), func() (*ItemTypeSales, error) {
		byType, err := uc.repo.TotalsByItemType(ctx, r)
		if err != nil {
			return nil, err
		}
		byItem, err := uc.ledger.TotalsByService(ctx, sale.Period{From: r.From, To: r.To})
		if err != nil {
			return nil, err
		}
		return &ItemTypeSales{ByType: byType, ByItem: byItem}, nil
	})
}

func (uc *Reports) StationUsage(ctx context.Context, r domain.Range) ([]domain.StationUsage, error) {
	return cached(ctx, uc.cache, rangeKey("station-usage", r), func() ([]domain.StationUsage, error) {
		return uc.repo.StationUsage(ctx, r)
	})
}

func (uc *Reports) CustomerFrequency(ctx context.Context, r domain.Range) ([]domain.CustomerFrequency, error) {
	return cached(ctx, uc.cache, rangeKey("customer-frequency", r), func() ([]domain.CustomerFrequency, error) {
		return uc.repo.CustomerFrequency(ctx, r)
	})
}

func (uc *Reports) PeakHours(ctx context.Context, r domain.Range) ([]domain.PeakHour, error) {
	return cached(ctx, uc.cache, rangeKey("peak-hours", r), func() ([]domain.PeakHour, error) {
		return uc.repo.PeakHours(ctx, r, uc.timezone)
	})
}

func (uc *Reports) BarberServiceSales(ctx context.Context, barberID uint, r domain.Range) ([]domain.BarberServiceRow, error) {
	key := rangeKey(fmt.Sprintf("barber-service:%d", barberID), r)
	return cached(ctx, uc.cache, key, func() ([]domain.BarberServiceRow, error) {
		return uc.repo.BarberServiceSales(ctx, barberID, r)
	})
}

func (uc *Reports) InventorySummary(ctx context.Context) (domain.InventorySummary, error) {
	return uc.repo.InventorySummary(ctx)
}
