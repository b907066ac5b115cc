package sale

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-pos/internal/audit"
	domain "github.com/BruksfildServices01/barber-pos/internal/domain/sale"
	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/infra/events"
	"github.com/BruksfildServices01/barber-pos/internal/models"
	"github.com/BruksfildServices01/barber-pos/internal/usecase/memstore"
)

type noCache struct{}

func (noCache) Invalidate(context.Context) {}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedStore() *memstore.Store {
	st := memstore.New()
	st.AddBarber(models.Barber{ID: 1, Name: "Luis", BaseSalary: models.DefaultBaseSalary})
	st.AddCatalogItem(models.CatalogItem{ID: 1, Name: "Corte", Price: dec("30"), Type: models.ItemTypeService})
	st.AddCatalogItem(models.CatalogItem{ID: 2, Name: "Cera", Price: dec("12.50"), Type: models.ItemTypeProduct, StockQuantity: 3})
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	st.AddReservation(models.Reservation{
		ID: 7, BarberID: 1, StationID: 4, ServiceID: 1, ClientName: "Ana",
		StartTime: start, EndTime: start.Add(time.Hour), Status: "confirmed",
	})
	return st
}

func newRecord(st *memstore.Store) (*RecordSale, *events.Recorder) {
	rec := &events.Recorder{}
	return NewRecordSale(st.Ledger(), noCache{}, rec, audit.Discard{}, "America/Lima"), rec
}

func TestRecordSaleTotalsAndStock(t *testing.T) {
	st := seedStore()
	uc, rec := newRecord(st)

	s, err := uc.Execute(context.Background(), audit.Actor{}, RecordSaleInput{
		Items: []domain.Line{
			{ItemID: 1, Quantity: 1},
			{ItemID: 2, Quantity: 2},
		},
	})
	if err != nil {
		t.Fatal(err)
	}

	if !s.TotalAmount.Equal(dec("55")) {
		t.Fatalf("total = %s, want 55", s.TotalAmount)
	}
	if !s.TotalAmount.Equal(domain.Total(s.Items)) {
		t.Fatal("total must equal the sum of the items")
	}
	if s.CustomerName != models.DefaultCustomerName || s.PaymentMethod != models.PaymentCash {
		t.Fatalf("defaults not applied: %q %q", s.CustomerName, s.PaymentMethod)
	}
	if st.Catalog[2].StockQuantity != 1 {
		t.Fatalf("stock = %d, want 1", st.Catalog[2].StockQuantity)
	}
	if keys := rec.Keys(); len(keys) != 1 || keys[0] != events.SaleRecorded {
		t.Fatalf("events = %v", keys)
	}
}

func TestRecordSaleRejections(t *testing.T) {
	claimed := dec("99")
	negative := dec("-1")

	cases := []struct {
		name string
		in   RecordSaleInput
		kind httperr.Kind
		code string
	}{
		{"empty items", RecordSaleInput{}, httperr.KindValidation, "empty_items"},
		{"total mismatch", RecordSaleInput{Items: []domain.Line{{ItemID: 1, Quantity: 1}}, TotalAmount: &claimed}, httperr.KindValidation, "total_mismatch"},
		{"unknown item", RecordSaleInput{Items: []domain.Line{{ItemID: 42, Quantity: 1}}}, httperr.KindValidation, "catalog_item_not_found"},
		{"zero quantity", RecordSaleInput{Items: []domain.Line{{ItemID: 1, Quantity: 0}}}, httperr.KindValidation, "invalid_quantity"},
		{"negative price", RecordSaleInput{Items: []domain.Line{{ItemID: 1, Quantity: 1, Price: &negative}}}, httperr.KindValidation, "invalid_price"},
		{"bad method", RecordSaleInput{Items: []domain.Line{{ItemID: 1, Quantity: 1}}, PaymentMethod: "paypal"}, httperr.KindValidation, "invalid_payment_method"},
		{"no stock", RecordSaleInput{Items: []domain.Line{{ItemID: 2, Quantity: 4}}}, httperr.KindConflict, "insufficient_stock"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			st := seedStore()
			uc, _ := newRecord(st)

			_, err := uc.Execute(context.Background(), audit.Actor{}, tc.in)
			if !httperr.Is(err, tc.kind, tc.code) {
				t.Fatalf("got %v, want %s", err, tc.code)
			}
			if len(st.Sales) != 0 {
				t.Fatal("nothing may be written on rejection")
			}
			if st.Catalog[2].StockQuantity != 3 {
				t.Fatal("stock must be untouched")
			}
		})
	}
}

func TestRecordSaleExplicitPriceAndTotal(t *testing.T) {
	st := seedStore()
	uc, _ := newRecord(st)

	price := dec("25")
	claimed := dec("50.00")
	s, err := uc.Execute(context.Background(), audit.Actor{}, RecordSaleInput{
		Items:         []domain.Line{{ItemID: 1, Quantity: 2, Price: &price}},
		TotalAmount:   &claimed,
		PaymentMethod: "PLIN",
		CustomerName:  "Jorge",
	})
	if err != nil {
		t.Fatal(err)
	}
	if !s.Items[0].PriceAtSale.Equal(price) || s.PaymentMethod != models.PaymentPlin || s.CustomerName != "Jorge" {
		t.Fatalf("unexpected sale: %+v", s)
	}

	// Catalog edits never reach recorded sales.
	st.Catalog[1].Price = dec("40")
	got, _ := st.Ledger().List(context.Background(), nil)
	if !got[0].Items[0].PriceAtSale.Equal(price) {
		t.Fatal("price_at_sale changed after a catalog edit")
	}
}

func TestRecordSaleCompletesLinkedReservation(t *testing.T) {
	st := seedStore()
	st.Drafts[7] = &models.DraftSale{ID: 3, ReservationID: 7}
	uc, rec := newRecord(st)
	rid := uint(7)

	s, err := uc.Execute(context.Background(), audit.Actor{}, RecordSaleInput{
		ReservationID: &rid,
		Items:         []domain.Line{{ItemID: 1, Quantity: 1}, {ItemID: 2, Quantity: 1}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if *s.BarberID != 1 || *s.StationID != 4 || s.CustomerName != "Ana" {
		t.Fatalf("reservation fields not copied: %+v", s)
	}
	if st.ReservationStatus(7) != "completed" {
		t.Fatal("reservation should be completed")
	}
	if _, ok := st.Drafts[7]; ok {
		t.Fatal("draft should be removed")
	}
	if keys := rec.Keys(); len(keys) != 2 || keys[0] != events.ReservationCompleted {
		t.Fatalf("events = %v", keys)
	}

	_, err = uc.Execute(context.Background(), audit.Actor{}, RecordSaleInput{
		ReservationID: &rid,
		Items:         []domain.Line{{ItemID: 1, Quantity: 1}},
	})
	if !httperr.Is(err, httperr.KindConflict, "already_completed") {
		t.Fatalf("second sale for reservation: got %v", err)
	}
	if len(st.SalesFor(7)) != 1 {
		t.Fatal("exactly one sale per reservation")
	}
	if st.Catalog[2].StockQuantity != 2 {
		t.Fatalf("stock = %d, want 2 after rollback", st.Catalog[2].StockQuantity)
	}
}

func TestRecordSaleWrapsUnexpectedFailure(t *testing.T) {
	st := seedStore()
	st.FailInsertSale = errors.New("connection reset")
	uc, _ := newRecord(st)

	_, err := uc.Execute(context.Background(), audit.Actor{}, RecordSaleInput{
		Items: []domain.Line{{ItemID: 2, Quantity: 1}},
	})
	e, ok := httperr.As(err)
	if !ok || e.Kind != httperr.KindInternal || e.Code != "sale_record_failed" {
		t.Fatalf("got %v", err)
	}
	if e.Message != "failed to record sale" {
		t.Fatalf("message = %q", e.Message)
	}
	if st.Catalog[2].StockQuantity != 3 {
		t.Fatal("stock decrement must roll back")
	}
}

func TestFilterPeriod(t *testing.T) {
	loc := time.UTC
	cases := []struct {
		typ, value string
		from, to   string
	}{
		{"day", "2025-03-12", "2025-03-12", "2025-03-13"},
		{"week", "2025-03-12", "2025-03-10", "2025-03-17"},
		{"month", "2025-03", "2025-03-01", "2025-04-01"},
		{"month", "2025-12-20", "2025-12-01", "2026-01-01"},
	}
	for _, tc := range cases {
		p, err := FilterPeriod(tc.typ, tc.value, loc)
		if err != nil {
			t.Fatalf("%s %s: %v", tc.typ, tc.value, err)
		}
		if p.From.Format("2006-01-02") != tc.from || p.To.Format("2006-01-02") != tc.to {
			t.Fatalf("%s %s: got [%s, %s)", tc.typ, tc.value, p.From.Format("2006-01-02"), p.To.Format("2006-01-02"))
		}
	}

	if _, err := FilterPeriod("year", "2025", loc); !httperr.Is(err, httperr.KindValidation, "invalid_filter") {
		t.Fatalf("got %v", err)
	}
}
