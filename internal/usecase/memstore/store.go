// Package memstore implements the domain repositories in memory. Use case
// and handler tests run against it; Tx snapshots the state and restores it
// when fn fails.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-pos/internal/domain/payroll"
	"github.com/BruksfildServices01/barber-pos/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-pos/internal/domain/sale"
	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/models"
)

type Store struct {
	mu sync.Mutex

	Barbers      map[uint]*models.Barber
	Catalog      map[uint]*models.CatalogItem
	Reservations map[uint]*models.Reservation
	Sales        []models.Sale
	Drafts       map[uint]*models.DraftSale
	Advances     []models.BarberAdvance
	Settings     map[string]string

	// FailInsertSale, when set, is returned by the next InsertSale.
	FailInsertSale error

	nextID uint
}

func New() *Store {
	return &Store{
		Barbers:      map[uint]*models.Barber{},
		Catalog:      map[uint]*models.CatalogItem{},
		Reservations: map[uint]*models.Reservation{},
		Drafts:       map[uint]*models.DraftSale{},
		Settings:     map[string]string{},
		nextID:       100,
	}
}

func (s *Store) id() uint {
	s.nextID++
	return s.nextID
}

// ------------------------------------------------------
// Seeding helpers
// ------------------------------------------------------

func (s *Store) AddBarber(b models.Barber) *models.Barber {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Barbers[b.ID] = &b
	return &b
}

func (s *Store) AddCatalogItem(ci models.CatalogItem) *models.CatalogItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Catalog[ci.ID] = &ci
	return &ci
}

func (s *Store) AddReservation(r models.Reservation) *models.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reservations[r.ID] = &r
	return &r
}

func (s *Store) SalesFor(reservationID uint) []models.Sale {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Sale
	for _, sl := range s.Sales {
		if sl.ReservationID != nil && *sl.ReservationID == reservationID {
			out = append(out, sl)
		}
	}
	return out
}

func (s *Store) ReservationStatus(id uint) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r, ok := s.Reservations[id]; ok {
		return r.Status
	}
	return ""
}

// ------------------------------------------------------
// Snapshots
// ------------------------------------------------------

type snapshot struct {
	catalog      map[uint]models.CatalogItem
	reservations map[uint]models.Reservation
	sales        []models.Sale
	drafts       map[uint]models.DraftSale
	nextID       uint
}

func (s *Store) snapshot() snapshot {
	snap := snapshot{
		catalog:      map[uint]models.CatalogItem{},
		reservations: map[uint]models.Reservation{},
		sales:        append([]models.Sale(nil), s.Sales...),
		drafts:       map[uint]models.DraftSale{},
		nextID:       s.nextID,
	}
	for k, v := range s.Catalog {
		snap.catalog[k] = *v
	}
	for k, v := range s.Reservations {
		snap.reservations[k] = *v
	}
	for k, v := range s.Drafts {
		snap.drafts[k] = *v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.Catalog = map[uint]*models.CatalogItem{}
	for k, v := range snap.catalog {
		v := v
		s.Catalog[k] = &v
	}
	s.Reservations = map[uint]*models.Reservation{}
	for k, v := range snap.reservations {
		v := v
		s.Reservations[k] = &v
	}
	s.Drafts = map[uint]*models.DraftSale{}
	for k, v := range snap.drafts {
		v := v
		s.Drafts[k] = &v
	}
	s.Sales = snap.sales
	s.nextID = snap.nextID
}

// ======================================================
// reservation.Repository
// ======================================================

func (s *Store) Reservation() reservation.Repository { return reservationRepo{s} }

type reservationRepo struct{ s *Store }

func (r reservationRepo) Create(_ context.Context, res *models.Reservation) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.Barbers[res.BarberID]; !ok && len(r.s.Barbers) > 0 {
		return httperr.Validation("invalid_reference", "barber_id, station_id or service_id does not exist")
	}
	res.ID = r.s.id()
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt
	cp := *res
	r.s.Reservations[res.ID] = &cp
	return nil
}

func (r reservationRepo) GetByID(_ context.Context, id uint) (*models.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	res, ok := r.s.Reservations[id]
	if !ok {
		return nil, reservation.ErrNotFound
	}
	cp := *res
	if b, ok := r.s.Barbers[cp.BarberID]; ok {
		cp.BarberName = b.Name
	}
	return &cp, nil
}

func (r reservationRepo) match(res *models.Reservation, f reservation.Filter) bool {
	if f.From != nil && res.StartTime.Before(*f.From) {
		return false
	}
	if f.To != nil && !res.StartTime.Before(*f.To) {
		return false
	}
	if f.Status != "" && res.Status != string(f.Status) {
		return false
	}
	return true
}

func (r reservationRepo) List(_ context.Context, f reservation.Filter) ([]models.Reservation, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.Reservation
	for _, res := range r.s.Reservations {
		if r.match(res, f) {
			out = append(out, *res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

func (r reservationRepo) Count(ctx context.Context, f reservation.Filter) (int64, error) {
	list, err := r.List(ctx, f)
	return int64(len(list)), err
}

func (r reservationRepo) Update(_ context.Context, res *models.Reservation, expected reservation.Status) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.Reservations[res.ID]
	if !ok || cur.Status != string(expected) {
		return httperr.Conflict("reservation_changed", "the reservation changed while it was being edited, reload and retry")
	}
	cp := *res
	cp.BarberName, cp.StationName, cp.ServiceName = "", "", ""
	cp.UpdatedAt = time.Now()
	r.s.Reservations[res.ID] = &cp
	return nil
}

func (r reservationRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, sl := range r.s.Sales {
		if sl.ReservationID != nil && *sl.ReservationID == id {
			return reservation.ErrHasSale
		}
	}
	if _, ok := r.s.Reservations[id]; !ok {
		return reservation.ErrNotFound
	}
	delete(r.s.Drafts, id)
	delete(r.s.Reservations, id)
	return nil
}

// ======================================================
// sale.Ledger
// ======================================================

func (s *Store) Ledger() sale.Ledger { return ledger{s} }

type ledger struct{ s *Store }

func (l ledger) Tx(_ context.Context, fn func(tx sale.Tx) error) error {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()

	snap := l.s.snapshot()
	if err := fn(saleTx{l.s}); err != nil {
		l.s.restore(snap)
		return err
	}
	return nil
}

func inPeriod(d time.Time, p *sale.Period) bool {
	return p == nil || (!d.Before(p.From) && d.Before(p.To))
}

func (l ledger) List(_ context.Context, p *sale.Period) ([]models.Sale, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	var out []models.Sale
	for i := len(l.s.Sales) - 1; i >= 0; i-- {
		if inPeriod(l.s.Sales[i].SaleDate, p) {
			out = append(out, l.s.Sales[i])
		}
	}
	return out, nil
}

func (l ledger) GetByReservation(_ context.Context, reservationID uint) (*models.Sale, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	for _, sl := range l.s.Sales {
		if sl.ReservationID != nil && *sl.ReservationID == reservationID {
			cp := sl
			return &cp, nil
		}
	}
	return nil, sale.ErrSaleNotFound
}

func (l ledger) DailyTotals(_ context.Context, p sale.Period) ([]sale.DailyTotal, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	byDay := map[string]decimal.Decimal{}
	for _, sl := range l.s.Sales {
		if inPeriod(sl.SaleDate, &p) {
			k := sl.SaleDate.Format("2006-01-02")
			byDay[k] = byDay[k].Add(sl.TotalAmount)
		}
	}
	out := make([]sale.DailyTotal, 0, len(byDay))
	for k, v := range byDay {
		out = append(out, sale.DailyTotal{Date: k, Total: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

func (l ledger) TotalsByService(_ context.Context, p sale.Period) ([]sale.ServiceTotal, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	by := map[string]decimal.Decimal{}
	for _, sl := range l.s.Sales {
		if !inPeriod(sl.SaleDate, &p) {
			continue
		}
		for _, it := range sl.Items {
			by[it.ItemName] = by[it.ItemName].Add(it.Subtotal())
		}
	}
	out := make([]sale.ServiceTotal, 0, len(by))
	for k, v := range by {
		out = append(out, sale.ServiceTotal{ServiceName: k, TotalSales: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TotalSales.GreaterThan(out[j].TotalSales) })
	return out, nil
}

func (l ledger) TotalsByPaymentMethod(_ context.Context, p sale.Period) ([]sale.PaymentMethodTotal, error) {
	l.s.mu.Lock()
	defer l.s.mu.Unlock()
	by := map[string]decimal.Decimal{}
	for _, sl := range l.s.Sales {
		if inPeriod(sl.SaleDate, &p) {
			by[sl.PaymentMethod] = by[sl.PaymentMethod].Add(sl.TotalAmount)
		}
	}
	out := make([]sale.PaymentMethodTotal, 0, len(by))
	for k, v := range by {
		out = append(out, sale.PaymentMethodTotal{PaymentMethod: k, TotalSales: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PaymentMethod < out[j].PaymentMethod })
	return out, nil
}

// saleTx runs with the store lock already held.
type saleTx struct{ s *Store }

func (t saleTx) GetReservation(_ context.Context, id uint) (*models.Reservation, error) {
	res, ok := t.s.Reservations[id]
	if !ok {
		return nil, reservation.ErrNotFound
	}
	cp := *res
	return &cp, nil
}

func (t saleTx) CompleteReservation(_ context.Context, id uint) (bool, error) {
	res, ok := t.s.Reservations[id]
	if !ok {
		return false, nil
	}
	for _, st := range reservation.Completable {
		if res.Status == string(st) {
			res.Status = string(reservation.StatusCompleted)
			return true, nil
		}
	}
	return false, nil
}

func (t saleTx) GetCatalogItems(_ context.Context, ids []uint) (map[uint]*models.CatalogItem, error) {
	out := map[uint]*models.CatalogItem{}
	for _, id := range ids {
		if ci, ok := t.s.Catalog[id]; ok {
			cp := *ci
			out[id] = &cp
		}
	}
	return out, nil
}

func (t saleTx) DecrementStock(_ context.Context, productID uint, qty int) (bool, error) {
	ci, ok := t.s.Catalog[productID]
	if !ok || ci.Type != models.ItemTypeProduct || ci.StockQuantity < qty {
		return false, nil
	}
	ci.StockQuantity -= qty
	return true, nil
}

func (t saleTx) InsertSale(_ context.Context, sl *models.Sale) error {
	if err := t.s.FailInsertSale; err != nil {
		t.s.FailInsertSale = nil
		return err
	}
	if sl.ReservationID != nil {
		for _, existing := range t.s.Sales {
			if existing.ReservationID != nil && *existing.ReservationID == *sl.ReservationID {
				return reservation.ErrAlreadyCompleted
			}
		}
	}
	sl.ID = t.s.id()
	sl.CreatedAt = time.Now()
	for i := range sl.Items {
		sl.Items[i].ID = t.s.id()
		sl.Items[i].SaleID = sl.ID
	}
	cp := *sl
	cp.Items = append([]models.SaleItem(nil), sl.Items...)
	t.s.Sales = append(t.s.Sales, cp)
	return nil
}

func (t saleTx) DeleteDraftSale(_ context.Context, reservationID uint) error {
	delete(t.s.Drafts, reservationID)
	return nil
}

// ======================================================
// sale.DraftRepository
// ======================================================

func (s *Store) DraftSales() sale.DraftRepository { return draftRepo{s} }

type draftRepo struct{ s *Store }

var errDraftNotFound = httperr.NotFound("draft_sale_not_found", "draft sale not found")

func (r draftRepo) Upsert(_ context.Context, d *models.DraftSale) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Reservations[d.ReservationID]; !ok {
		return httperr.Validation("invalid_reference", "reservation or catalog item does not exist")
	}
	if existing, ok := r.s.Drafts[d.ReservationID]; ok {
		d.ID = existing.ID
		d.CreatedAt = existing.CreatedAt
	} else {
		d.ID = r.s.id()
		d.CreatedAt = time.Now()
	}
	d.UpdatedAt = time.Now()
	cp := *d
	cp.Items = append([]models.DraftSaleItem(nil), d.Items...)
	r.s.Drafts[d.ReservationID] = &cp
	return nil
}

func (r draftRepo) GetByReservation(_ context.Context, reservationID uint) (*models.DraftSale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d, ok := r.s.Drafts[reservationID]
	if !ok {
		return nil, errDraftNotFound
	}
	cp := *d
	return &cp, nil
}

func (r draftRepo) DeleteByReservation(_ context.Context, reservationID uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Drafts[reservationID]; !ok {
		return errDraftNotFound
	}
	delete(r.s.Drafts, reservationID)
	return nil
}

// ======================================================
// payroll.Repository
// ======================================================

func (s *Store) Payroll() payroll.Repository { return payrollRepo{s} }

type payrollRepo struct{ s *Store }

func (r payrollRepo) BarberPeriods(_ context.Context, from, to time.Time) ([]payroll.BarberPeriod, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p := &sale.Period{From: from, To: to}
	out := make([]payroll.BarberPeriod, 0, len(r.s.Barbers))
	for _, b := range r.s.Barbers {
		bp := payroll.BarberPeriod{BarberID: b.ID, BarberName: b.Name, BaseSalary: b.BaseSalary}
		for _, sl := range r.s.Sales {
			if sl.BarberID != nil && *sl.BarberID == b.ID && inPeriod(sl.SaleDate, p) {
				bp.TotalGenerated = bp.TotalGenerated.Add(sl.TotalAmount)
			}
		}
		for _, a := range r.s.Advances {
			if a.BarberID == b.ID && inPeriod(a.AdvanceDate, p) {
				bp.Advances = bp.Advances.Add(a.Amount)
			}
		}
		out = append(out, bp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BarberName < out[j].BarberName })
	return out, nil
}

func (r payrollRepo) CreateAdvance(_ context.Context, a *models.BarberAdvance) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Barbers[a.BarberID]; !ok {
		return httperr.NotFound("barber_not_found", "barber not found")
	}
	a.ID = r.s.id()
	a.CreatedAt = time.Now()
	r.s.Advances = append(r.s.Advances, *a)
	return nil
}

func (r payrollRepo) ListAdvances(_ context.Context, barberID uint, from, to *time.Time) ([]models.BarberAdvance, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []models.BarberAdvance
	for _, a := range r.s.Advances {
		if a.BarberID != barberID {
			continue
		}
		if from != nil && a.AdvanceDate.Before(*from) {
			continue
		}
		if to != nil && !a.AdvanceDate.Before(*to) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// Values satisfies the settings source used by payroll.
func (s *Store) Values(context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.Settings))
	for k, v := range s.Settings {
		out[k] = v
	}
	return out, nil
}
