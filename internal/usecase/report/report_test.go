package report

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-pos/internal/domain/payroll"
	domain "github.com/BruksfildServices01/barber-pos/internal/domain/report"
	"github.com/BruksfildServices01/barber-pos/internal/models"
	payrollUC "github.com/BruksfildServices01/barber-pos/internal/usecase/payroll"
	"github.com/BruksfildServices01/barber-pos/internal/usecase/memstore"
)

type mapCache struct {
	entries map[string][]byte
	hits    int
}

func newMapCache() *mapCache { return &mapCache{entries: map[string][]byte{}} }

func (c *mapCache) GetJSON(_ context.Context, name string, dst any) bool {
	raw, ok := c.entries[name]
	if !ok {
		return false
	}
	c.hits++
	return json.Unmarshal(raw, dst) == nil
}

func (c *mapCache) SetJSON(_ context.Context, name string, v any) {
	raw, _ := json.Marshal(v)
	c.entries[name] = raw
}

type stubRepo struct {
	domain.Repository
	stationCalls int
}

func (s *stubRepo) StationUsage(context.Context, domain.Range) ([]domain.StationUsage, error) {
	s.stationCalls++
	return []domain.StationUsage{{StationID: 1, StationName: "Silla 1", ReservationCount: 4}}, nil
}

func (s *stubRepo) PeakHours(_ context.Context, _ domain.Range, tz string) ([]domain.PeakHour, error) {
	return []domain.PeakHour{{Hour: 10, ReservationCount: int64(len(tz))}}, nil
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newReports(t *testing.T) (*Reports, *stubRepo, *mapCache) {
	t.Helper()
	st := memstore.New()
	st.AddBarber(models.Barber{ID: 1, Name: "Ana", BaseSalary: d("1300")})
	b := uint(1)
	lima, _ := time.LoadLocation("America/Lima")
	st.Sales = append(st.Sales,
		models.Sale{ID: 1, BarberID: &b, TotalAmount: d("30"), PaymentMethod: "cash", SaleDate: time.Date(2025, 3, 5, 0, 0, 0, 0, lima)},
		models.Sale{ID: 2, BarberID: &b, TotalAmount: d("12.5"), PaymentMethod: "yape", SaleDate: time.Date(2025, 3, 5, 0, 0, 0, 0, lima)},
		models.Sale{ID: 3, BarberID: &b, TotalAmount: d("3000"), PaymentMethod: "card", SaleDate: time.Date(2025, 3, 20, 0, 0, 0, 0, lima)},
	)

	policy := payroll.Policy{Variant: payroll.VariantOwnBase, Rate: d("0.5"), FixedBase: d("1250"), Threshold: d("2500")}
	pay := payrollUC.NewComputePayroll(st.Payroll(), st, policy)

	repo := &stubRepo{}
	cache := newMapCache()
	return NewReports(repo, st.Ledger(), pay, cache, "America/Lima"), repo, cache
}

func TestMonthlyCalendarAndStats(t *testing.T) {
	uc, _, _ := newReports(t)

	m, err := uc.Monthly(context.Background(), 2025, time.March)
	if err != nil {
		t.Fatal(err)
	}

	if len(m.Events) != 2 {
		t.Fatalf("events = %+v", m.Events)
	}
	if m.Events[0].Title != "S/ 42.50" || m.Events[0].Start != "2025-03-05" || !m.Events[0].AllDay {
		t.Fatalf("first event = %+v", m.Events[0])
	}
	if len(m.Stats) != 1 || !m.Stats[0].Payment.Equal(d("1521.25")) {
		t.Fatalf("stats = %+v", m.Stats)
	}
}

func TestReportsAreCached(t *testing.T) {
	uc, repo, cache := newReports(t)
	r := domain.Range{From: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)}

	for i := 0; i < 3; i++ {
		rows, err := uc.StationUsage(context.Background(), r)
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != 1 || rows[0].StationName != "Silla 1" {
			t.Fatalf("rows = %+v", rows)
		}
	}
	if repo.stationCalls != 1 {
		t.Fatalf("repository called %d times, want 1", repo.stationCalls)
	}
	if cache.hits != 2 {
		t.Fatalf("cache hits = %d", cache.hits)
	}
}

func TestPeakHoursUsesShopTimezone(t *testing.T) {
	uc, _, _ := newReports(t)
	rows, err := uc.PeakHours(context.Background(), domain.Range{})
	if err != nil {
		t.Fatal(err)
	}
	if rows[0].ReservationCount != int64(len("America/Lima")) {
		t.Fatal("timezone not passed to repository")
	}
}
