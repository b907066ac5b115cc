package reservation

import (
	"context"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-pos/internal/audit"
	domain "github.com/BruksfildServices01/barber-pos/internal/domain/reservation"
	"github.com/BruksfildServices01/barber-pos/internal/domain/sale"
	"github.com/BruksfildServices01/barber-pos/internal/infra/events"
	"github.com/BruksfildServices01/barber-pos/internal/models"
	"github.com/BruksfildServices01/barber-pos/internal/timezone"
)

// ======================================================
// USE CASE
// ======================================================

// CompleteReservation marks a reservation completed and records its sale
// as one unit. Concurrent callers race on a conditional update; exactly one
// wins and the others get a conflict with nothing written.
type CompleteReservation struct {
	ledger   sale.Ledger
	cache    ReportCache
	events   events.Publisher
	audit    audit.Auditor
	timezone string
}

func NewCompleteReservation(
	ledger sale.Ledger,
	cache ReportCache,
	publisher events.Publisher,
	auditor audit.Auditor,
	shopTimezone string,
) *CompleteReservation {
	return &CompleteReservation{
		ledger:   ledger,
		cache:    cache,
		events:   publisher,
		audit:    auditor,
		timezone: shopTimezone,
	}
}

type CompleteResult struct {
	Reservation *models.Reservation
	Sale        *models.Sale
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CompleteReservation) Execute(
	ctx context.Context,
	actor audit.Actor,
	reservationID uint,
	paymentMethod string,
) (*CompleteResult, error) {

	method, err := sale.NormalizePaymentMethod(paymentMethod)
	if err != nil {
		return nil, err
	}

	var out CompleteResult

	err = uc.ledger.Tx(ctx, func(tx sale.Tx) error {

		// --------------------------------------------------
		// 1️⃣ Load
		// --------------------------------------------------
		res, err := tx.GetReservation(ctx, reservationID)
		if err != nil {
			return err
		}

		// --------------------------------------------------
		// 2️⃣ Guarded transition
		// --------------------------------------------------
		ok, err := tx.CompleteReservation(ctx, res.ID)
		if err != nil {
			return err
		}
		if !ok {
			if err := domain.CanComplete(domain.Status(res.Status)); err != nil {
				return err
			}
			// It was open when read and closed by someone else since.
			return domain.ErrAlreadyCompleted
		}

		// --------------------------------------------------
		// 3️⃣ Current service price
		// --------------------------------------------------
		catalog, err := tx.GetCatalogItems(ctx, []uint{res.ServiceID})
		if err != nil {
			return err
		}

		items, total, err := sale.BuildItems(
			[]sale.Line{{ItemID: res.ServiceID, Quantity: 1}},
			catalog,
		)
		if err != nil {
			return err
		}

		for productID, qty := range sale.ProductQuantities(items) {
			ok, err := tx.DecrementStock(ctx, productID, qty)
			if err != nil {
				return err
			}
			if !ok {
				return sale.ErrInsufficientStock
			}
		}

		// --------------------------------------------------
		// 4️⃣ Sale with the service as its only line
		// --------------------------------------------------
		s := &models.Sale{
			Code:          uuid.NewString(),
			ReservationID: &res.ID,
			BarberID:      &res.BarberID,
			StationID:     &res.StationID,
			TotalAmount:   total,
			CustomerName:  res.ClientName,
			PaymentMethod: method,
			SaleDate:      timezone.DateOnly(timezone.NowIn(uc.timezone)),
			Items:         items,
		}

		// --------------------------------------------------
		// 5️⃣ Ledger write, draft cleanup
		// --------------------------------------------------
		if err := tx.InsertSale(ctx, s); err != nil {
			return err
		}
		if err := tx.DeleteDraftSale(ctx, res.ID); err != nil {
			return err
		}

		res.Status = string(domain.StatusCompleted)
		out = CompleteResult{Reservation: res, Sale: s}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 6️⃣ After commit
	// --------------------------------------------------
	uc.cache.Invalidate(ctx)
	uc.events.Publish(ctx, events.ReservationCompleted, out.Reservation)
	uc.events.Publish(ctx, events.SaleRecorded, out.Sale)
	uc.audit.Dispatch(actor.Event(audit.ReservationCompleted, "reservation", reservationID, map[string]any{
		"sale_id":        out.Sale.ID,
		"payment_method": method,
	}))

	return &out, nil
}
