package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-pos/internal/config"
	domain "github.com/BruksfildServices01/barber-pos/internal/domain/payroll"
	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/infra/storage"
	"github.com/BruksfildServices01/barber-pos/internal/models"
	"github.com/BruksfildServices01/barber-pos/internal/usecase/memstore"
)

type noCache struct{}

func (noCache) Invalidate(context.Context) {}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

var (
	march1 = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	april1 = time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
)

func fixedPolicy() domain.Policy {
	return domain.Policy{Variant: domain.VariantFixed, Rate: d("0.5"), FixedBase: d("1250"), Threshold: d("2500")}
}

func seedPayroll() *memstore.Store {
	st := memstore.New()
	st.AddBarber(models.Barber{ID: 1, Name: "Ana", BaseSalary: d("1300")})
	st.AddBarber(models.Barber{ID: 2, Name: "Beto", BaseSalary: d("1300")})

	b1 := uint(1)
	st.Sales = append(st.Sales,
		models.Sale{ID: 1, BarberID: &b1, TotalAmount: d("2000"), SaleDate: time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC)},
		models.Sale{ID: 2, BarberID: &b1, TotalAmount: d("1000"), SaleDate: time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC)},
		// Outside the period.
		models.Sale{ID: 3, BarberID: &b1, TotalAmount: d("999"), SaleDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)},
	)
	return st
}

func TestPayrollFixedVariant(t *testing.T) {
	st := seedPayroll()
	uc := NewComputePayroll(st.Payroll(), st, fixedPolicy())

	rep, err := uc.Execute(context.Background(), march1, april1)
	if err != nil {
		t.Fatal(err)
	}
	if rep.StartDate != "2025-03-01" || rep.EndDate != "2025-03-31" {
		t.Fatalf("dates = %s..%s", rep.StartDate, rep.EndDate)
	}
	if len(rep.Statements) != 2 {
		t.Fatalf("statements = %d", len(rep.Statements))
	}

	ana, beto := rep.Statements[0], rep.Statements[1]
	if !ana.TotalGenerated.Equal(d("3000")) || !ana.Payment.Equal(d("1500")) {
		t.Fatalf("ana: %+v", ana)
	}
	if !beto.TotalGenerated.IsZero() || !beto.Payment.Equal(d("1250")) {
		t.Fatalf("beto: %+v", beto)
	}
	if !rep.Totals.TotalPayments.Equal(d("2750")) {
		t.Fatalf("total payments = %s", rep.Totals.TotalPayments)
	}
}

func TestPayrollSettingsOverrideAndAdvances(t *testing.T) {
	st := seedPayroll()
	st.Settings[domain.SettingPolicy] = "own_base"
	st.Settings[domain.SettingRate] = "40"
	adv := NewAdvances(st.Payroll(), noCache{})

	if _, err := adv.Record(context.Background(), RecordAdvanceInput{
		BarberID: 1, Amount: d("200"), AdvanceDate: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
	}); err != nil {
		t.Fatal(err)
	}

	uc := NewComputePayroll(st.Payroll(), st, fixedPolicy())
	rep, err := uc.Execute(context.Background(), march1, april1)
	if err != nil {
		t.Fatal(err)
	}
	if rep.Policy.Variant != domain.VariantOwnBase || !rep.Policy.Rate.Equal(d("0.4")) {
		t.Fatalf("policy = %+v", rep.Policy)
	}

	ana := rep.Statements[0]
	// own_base: 3000 > 1300 so 3000 × 0.4.
	if !ana.Payment.Equal(d("1200")) || !ana.Advances.Equal(d("200")) || !ana.NetPayment.Equal(d("1000")) {
		t.Fatalf("ana: %+v", ana)
	}
	beto := rep.Statements[1]
	if !beto.Payment.Equal(d("1300")) {
		t.Fatalf("beto: %+v", beto)
	}
}

func TestAdvanceValidation(t *testing.T) {
	st := seedPayroll()
	adv := NewAdvances(st.Payroll(), noCache{})
	ctx := context.Background()

	if _, err := adv.Record(ctx, RecordAdvanceInput{BarberID: 1, Amount: d("0"), AdvanceDate: march1}); !httperr.Is(err, httperr.KindValidation, "invalid_amount") {
		t.Fatalf("zero amount: %v", err)
	}
	if _, err := adv.Record(ctx, RecordAdvanceInput{BarberID: 9, Amount: d("10"), AdvanceDate: march1}); httperr.KindOf(err) != httperr.KindNotFound {
		t.Fatalf("unknown barber: %v", err)
	}
}

type memObjects struct {
	key  string
	body []byte
}

func (m *memObjects) Put(_ context.Context, key, _ string, body []byte) (string, error) {
	m.key, m.body = key, body
	return "https://files.example.com/" + key, nil
}

func TestArchiveWritesSnapshot(t *testing.T) {
	st := seedPayroll()
	objs := &memObjects{}
	uc := NewArchivePayroll(NewComputePayroll(st.Payroll(), st, fixedPolicy()), objs)
	uc.now = func() time.Time { return time.Unix(1700000000, 0) }

	out, err := uc.Execute(context.Background(), march1, april1)
	if err != nil {
		t.Fatal(err)
	}
	if out.Key != "payroll/2025-03-01_2025-03-31_1700000000.json" {
		t.Fatalf("key = %s", out.Key)
	}

	var snap struct {
		Barbers []domain.Statement `json:"barbers"`
	}
	if err := json.Unmarshal(objs.body, &snap); err != nil {
		t.Fatal(err)
	}
	if len(snap.Barbers) != 2 {
		t.Fatalf("archived %d statements", len(snap.Barbers))
	}
}

func TestArchiveWithoutStorage(t *testing.T) {
	st := seedPayroll()
	uc := NewArchivePayroll(NewComputePayroll(st.Payroll(), st, fixedPolicy()), storage.NewS3Store(config.S3{}))

	_, err := uc.Execute(context.Background(), march1, april1)
	if !errors.Is(err, storage.ErrDisabled) {
		t.Fatalf("got %v", err)
	}
}
