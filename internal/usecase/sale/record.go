package sale

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-pos/internal/audit"
	reservationDomain "github.com/BruksfildServices01/barber-pos/internal/domain/reservation"
	domain "github.com/BruksfildServices01/barber-pos/internal/domain/sale"
	"github.com/BruksfildServices01/barber-pos/internal/httperr"
	"github.com/BruksfildServices01/barber-pos/internal/infra/events"
	"github.com/BruksfildServices01/barber-pos/internal/models"
	"github.com/BruksfildServices01/barber-pos/internal/timezone"
)

type ReportCache interface {
	Invalidate(ctx context.Context)
}

// ======================================================
// INPUT
// ======================================================

type RecordSaleInput struct {
	SaleDate      *time.Time
	Items         []domain.Line
	TotalAmount   *decimal.Decimal
	CustomerName  string
	PaymentMethod string

	ReservationID *uint
	BarberID      *uint
	StationID     *uint
}

// ======================================================
// USE CASE
// ======================================================

// RecordSale is the POS checkout. When the sale is tied to a reservation it
// also completes that reservation, with the same guard the completion
// workflow uses.
type RecordSale struct {
	ledger   domain.Ledger
	cache    ReportCache
	events   events.Publisher
	audit    audit.Auditor
	timezone string
}

func NewRecordSale(
	ledger domain.Ledger,
	cache ReportCache,
	publisher events.Publisher,
	auditor audit.Auditor,
	shopTimezone string,
) *RecordSale {
	return &RecordSale{
		ledger:   ledger,
		cache:    cache,
		events:   publisher,
		audit:    auditor,
		timezone: shopTimezone,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *RecordSale) Execute(
	ctx context.Context,
	actor audit.Actor,
	in RecordSaleInput,
) (*models.Sale, error) {

	// --------------------------------------------------
	// 1️⃣ Checks that need no database
	// --------------------------------------------------
	if len(in.Items) == 0 {
		return nil, domain.ErrEmptyItems
	}

	method, err := domain.NormalizePaymentMethod(in.PaymentMethod)
	if err != nil {
		return nil, err
	}

	saleDate := timezone.DateOnly(timezone.NowIn(uc.timezone))
	if in.SaleDate != nil {
		saleDate = timezone.DateOnly(*in.SaleDate)
	}

	ids := make([]uint, 0, len(in.Items))
	for _, l := range in.Items {
		ids = append(ids, l.ItemID)
	}

	var (
		recorded  *models.Sale
		completed *models.Reservation
	)

	err = uc.ledger.Tx(ctx, func(tx domain.Tx) error {

		// --------------------------------------------------
		// 2️⃣ Price the lines
		// --------------------------------------------------
		catalog, err := tx.GetCatalogItems(ctx, ids)
		if err != nil {
			return err
		}

		items, total, err := domain.BuildItems(in.Items, catalog)
		if err != nil {
			return err
		}
		if err := domain.CheckClaimedTotal(in.TotalAmount, total); err != nil {
			return err
		}

		s := &models.Sale{
			Code:          uuid.NewString(),
			BarberID:      in.BarberID,
			StationID:     in.StationID,
			TotalAmount:   total,
			CustomerName:  strings.TrimSpace(in.CustomerName),
			PaymentMethod: method,
			SaleDate:      saleDate,
			Items:         items,
		}

		// --------------------------------------------------
		// 3️⃣ Linked reservation
		// --------------------------------------------------
		if in.ReservationID != nil {
			res, err := tx.GetReservation(ctx, *in.ReservationID)
			if err != nil {
				return err
			}

			ok, err := tx.CompleteReservation(ctx, res.ID)
			if err != nil {
				return err
			}
			if !ok {
				if err := reservationDomain.CanComplete(reservationDomain.Status(res.Status)); err != nil {
					return err
				}
				return reservationDomain.ErrAlreadyCompleted
			}

			s.ReservationID = &res.ID
			if s.BarberID == nil {
				s.BarberID = &res.BarberID
			}
			if s.StationID == nil {
				s.StationID = &res.StationID
			}
			if s.CustomerName == "" {
				s.CustomerName = res.ClientName
			}

			res.Status = string(reservationDomain.StatusCompleted)
			completed = res
		}

		if s.CustomerName == "" {
			s.CustomerName = models.DefaultCustomerName
		}

		// --------------------------------------------------
		// 4️⃣ Stock
		// --------------------------------------------------
		for productID, qty := range domain.ProductQuantities(items) {
			ok, err := tx.DecrementStock(ctx, productID, qty)
			if err != nil {
				return err
			}
			if !ok {
				return domain.ErrInsufficientStock
			}
		}

		// --------------------------------------------------
		// 5️⃣ Write
		// --------------------------------------------------
		if err := tx.InsertSale(ctx, s); err != nil {
			return err
		}
		if s.ReservationID != nil {
			if err := tx.DeleteDraftSale(ctx, *s.ReservationID); err != nil {
				return err
			}
		}

		recorded = s
		return nil
	})
	if err != nil {
		if httperr.KindOf(err) == httperr.KindInternal {
			return nil, httperr.Internal("sale_record_failed", "failed to record sale", err)
		}
		return nil, err
	}

	// --------------------------------------------------
	// 6️⃣ After commit
	// --------------------------------------------------
	uc.cache.Invalidate(ctx)
	if completed != nil {
		uc.events.Publish(ctx, events.ReservationCompleted, completed)
	}
	uc.events.Publish(ctx, events.SaleRecorded, recorded)
	uc.audit.Dispatch(actor.Event(audit.SaleRecorded, "sale", recorded.ID, map[string]any{
		"total_amount":   recorded.TotalAmount,
		"payment_method": recorded.PaymentMethod,
		"items":          len(recorded.Items),
	}))

	return recorded, nil
}
