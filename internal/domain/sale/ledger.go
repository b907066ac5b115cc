package sale

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/barber-pos/internal/models"
)

// Tx is the set of writes that must commit or roll back together when a
// sale is recorded.
type Tx interface {
	GetReservation(ctx context.Context, id uint) (*models.Reservation, error)

	// CompleteReservation is the guarded transition pending|confirmed -> completed.
	// It reports false when no row matched.
	CompleteReservation(ctx context.Context, id uint) (bool, error)

	GetCatalogItems(ctx context.Context, ids []uint) (map[uint]*models.CatalogItem, error)

	// DecrementStock reports false when the product has less than qty left.
	DecrementStock(ctx context.Context, productID uint, qty int) (bool, error)

	InsertSale(ctx context.Context, s *models.Sale) error

	DeleteDraftSale(ctx context.Context, reservationID uint) error
}

type Period struct {
	From time.Time
	To   time.Time
}

type DailyTotal struct {
	Date  string          `json:"date"`
	Total decimal.Decimal `json:"total"`
}

type ServiceTotal struct {
	ServiceName string          `json:"service_name"`
	TotalSales  decimal.Decimal `json:"total_sales"`
}

type PaymentMethodTotal struct {
	PaymentMethod string          `json:"payment_method"`
	TotalSales    decimal.Decimal `json:"total_sales"`
}

type Ledger interface {
	// Tx runs fn in one database transaction. Any error rolls everything back.
	Tx(ctx context.Context, fn func(tx Tx) error) error

	List(ctx context.Context, p *Period) ([]models.Sale, error)
	GetByReservation(ctx context.Context, reservationID uint) (*models.Sale, error)

	DailyTotals(ctx context.Context, p Period) ([]DailyTotal, error)
	TotalsByService(ctx context.Context, p Period) ([]ServiceTotal, error)
	TotalsByPaymentMethod(ctx context.Context, p Period) ([]PaymentMethodTotal, error)
}

type DraftLine struct {
	ItemID   uint
	ItemType string
	Quantity int
	Price    decimal.Decimal
}

type DraftRepository interface {
	// Upsert replaces the draft of d.ReservationID, items included.
	Upsert(ctx context.Context, d *models.DraftSale) error
	GetByReservation(ctx context.Context, reservationID uint) (*models.DraftSale, error)
	DeleteByReservation(ctx context.Context, reservationID uint) error
}
