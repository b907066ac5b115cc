package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-pos/internal/audit"
	domain "github.com/BruksfildServices01/barber-pos/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-pos/internal/infra/events"
	"github.com/BruksfildServices01/barber-pos/internal/models"
	"github.com/BruksfildServices01/barber-pos/internal/usecase/memstore"
	ucReservation "github.com/BruksfildServices01/barber-pos/internal/usecase/reservation"
	ucSale "github.com/BruksfildServices01/barber-pos/internal/usecase/sale"
	"github.com/BruksfildServices01/barber-pos/internal/validators"
)

const shopTZ = "America/Lima"

type noCache struct{}

func (noCache) Invalidate(context.Context) {}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validators.Register(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

func seedStore() *memstore.Store {
	st := memstore.New()
	st.AddBarber(models.Barber{ID: 1, Name: "Luis", BaseSalary: models.DefaultBaseSalary})
	st.AddCatalogItem(models.CatalogItem{ID: 1, Name: "Corte", Price: decimal.NewFromInt(30), Type: models.ItemTypeService, DurationMinutes: 30})
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	st.AddReservation(models.Reservation{
		ID: 1, BarberID: 1, StationID: 2, ServiceID: 1,
		ClientName: "Ana", StartTime: start, EndTime: start.Add(30 * time.Minute),
		Status: string(domain.StatusPending),
	})
	return st
}

func newEngine(st *memstore.Store) *gin.Engine {
	cache := noCache{}
	rec := &events.Recorder{}
	loc := time.UTC

	repo := st.Reservation()
	rh := NewReservationHandler(ReservationUseCases{
		Create:   ucReservation.NewCreateReservation(repo, cache, rec, audit.Discard{}),
		Get:      ucReservation.NewGetReservation(repo),
		List:     ucReservation.NewListReservations(repo),
		Count:    ucReservation.NewCountReservations(repo),
		Update:   ucReservation.NewUpdateReservation(repo, cache, rec, audit.Discard{}),
		Delete:   ucReservation.NewDeleteReservation(repo, cache, audit.Discard{}),
		Complete: ucReservation.NewCompleteReservation(st.Ledger(), cache, rec, audit.Discard{}, shopTZ),
	}, loc)

	sh := NewSaleHandler(
		ucSale.NewRecordSale(st.Ledger(), cache, rec, audit.Discard{}, shopTZ),
		ucSale.NewListSales(st.Ledger(), shopTZ),
		ucSale.NewSummaries(st.Ledger()),
		loc,
	)
	dh := NewDraftSaleHandler(ucSale.NewDrafts(st.DraftSales()))

	r := gin.New()
	r.POST("/reservations", rh.Create)
	r.GET("/reservations", rh.List)
	r.GET("/reservations/count", rh.Count)
	r.PUT("/reservations/:id", rh.Update)
	r.POST("/reservations/:id/complete", rh.Complete)
	r.POST("/sales", sh.Create)
	r.GET("/sales/summary", sh.Summary)
	r.POST("/draft-sales", dh.Save)
	r.GET("/draft-sales/:reservationId", dh.Get)
	return r
}

func do(r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]any{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w, out
}

func TestCompleteReservationEndpoint(t *testing.T) {
	st := seedStore()
	r := newEngine(st)

	w, body := do(r, http.MethodPost, "/reservations/1/complete", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	sale, ok := body["sale"].(map[string]any)
	if !ok {
		t.Fatalf("missing sale in %v", body)
	}
	if sale["total_amount"] != float64(30) || sale["payment_method"] != models.PaymentCash {
		t.Fatalf("unexpected sale: %v", sale)
	}
	if body["message"] == "" {
		t.Fatal("missing message")
	}

	w, body = do(r, http.MethodPost, "/reservations/1/complete", `{"paymentMethod":"card"}`)
	if w.Code != http.StatusConflict || body["error_code"] != "already_completed" {
		t.Fatalf("second completion: %d %v", w.Code, body)
	}
	if n := len(st.SalesFor(1)); n != 1 {
		t.Fatalf("sales = %d, want 1", n)
	}
}

func TestCompleteRejectsUnknownPaymentMethod(t *testing.T) {
	r := newEngine(seedStore())

	w, body := do(r, http.MethodPost, "/reservations/1/complete", `{"paymentMethod":"bitcoin"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, body = %v", w.Code, body)
	}
}

func TestUpdateReportsFieldTypes(t *testing.T) {
	r := newEngine(seedStore())

	cases := []struct {
		body string
		msg  string
	}{
		{`{"barber_id":"abc"}`, "barber_id must be a number"},
		{`{"client_name":42}`, "client_name must be a string"},
		{`{"start_time":"tomorrow"}`, "start_time must be a valid date-time string"},
	}
	for _, tc := range cases {
		w, body := do(r, http.MethodPut, "/reservations/1", tc.body)
		if w.Code != http.StatusBadRequest || body["message"] != tc.msg {
			t.Fatalf("%s: %d %v", tc.body, w.Code, body)
		}
	}

	w, body := do(r, http.MethodPut, "/reservations/1", `{}`)
	if w.Code != http.StatusBadRequest || body["error_code"] != "empty_update" {
		t.Fatalf("empty update: %d %v", w.Code, body)
	}
}

func TestUpdateConfirmsReservation(t *testing.T) {
	st := seedStore()
	r := newEngine(st)

	w, body := do(r, http.MethodPut, "/reservations/1", `{"status":"Confirmed","notes":"window seat"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %v", w.Code, body)
	}
	if st.ReservationStatus(1) != string(domain.StatusConfirmed) {
		t.Fatalf("stored status = %s", st.ReservationStatus(1))
	}
}

func TestCreateReservationEndpoint(t *testing.T) {
	r := newEngine(seedStore())

	w, body := do(r, http.MethodPost, "/reservations", `{
		"barber_id": 1, "station_id": 2, "service_id": 1,
		"client_name": "Rosa",
		"start_time": "2025-03-12T09:00:00", "end_time": "2025-03-12T09:30:00"
	}`)
	if w.Code != http.StatusCreated || body["status"] != string(domain.StatusPending) {
		t.Fatalf("create: %d %v", w.Code, body)
	}

	w, body = do(r, http.MethodPost, "/reservations", `{"barber_id": 1}`)
	if w.Code != http.StatusBadRequest || body["error_code"] != "invalid_request" {
		t.Fatalf("missing fields: %d %v", w.Code, body)
	}

	w, body = do(r, http.MethodGet, "/reservations/count?startDate=2025-03-12&endDate=2025-03-12", "")
	if w.Code != http.StatusOK || body["count"] != float64(1) {
		t.Fatalf("count: %d %v", w.Code, body)
	}

	w, body = do(r, http.MethodGet, "/reservations/count", "")
	if w.Code != http.StatusBadRequest || body["error_code"] != "missing_date_range" {
		t.Fatalf("count without range: %d %v", w.Code, body)
	}
}

func TestCreateSaleEndpoint(t *testing.T) {
	st := seedStore()
	r := newEngine(st)

	w, body := do(r, http.MethodPost, "/sales", `{"items": []}`)
	if w.Code != http.StatusBadRequest || body["error_code"] != "empty_items" {
		t.Fatalf("empty items: %d %v", w.Code, body)
	}

	w, body = do(r, http.MethodPost, "/sales", `{"items":[{"item_id":1,"quantity":0}]}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("zero quantity: %d %v", w.Code, body)
	}

	w, body = do(r, http.MethodPost, "/sales", `{"items":[{"item_id":1,"quantity":2}],"payment_method":"yape","sale_date":"2025-03-10"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create: %d %v", w.Code, body)
	}
	if body["total_amount"] != float64(60) || body["customer_name"] != models.DefaultCustomerName {
		t.Fatalf("unexpected sale: %v", body)
	}

	w, body = do(r, http.MethodGet, "/sales/summary?startDate=2025-03-10&endDate=2025-03-10", "")
	if w.Code != http.StatusOK || body["total"] != float64(1) {
		t.Fatalf("summary: %d %v", w.Code, body)
	}
}

func TestDraftSaleRoundTrip(t *testing.T) {
	r := newEngine(seedStore())

	w, body := do(r, http.MethodPost, "/draft-sales", `{"reservation_id":1,"client_name":"Ana","items":[{"item_id":1,"item_type":"service","quantity":1,"price":30}]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("save: %d %v", w.Code, body)
	}

	w, body = do(r, http.MethodGet, "/draft-sales/1", "")
	if w.Code != http.StatusOK || body["total_amount"] != float64(30) {
		t.Fatalf("get: %d %v", w.Code, body)
	}

	w, _ = do(r, http.MethodGet, "/draft-sales/abc", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad id: %d", w.Code)
	}
}
