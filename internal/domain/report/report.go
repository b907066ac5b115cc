package report

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Range struct {
	From time.Time
	To   time.Time
}

type SalesFilter struct {
	Range         *Range
	BarberID      uint
	ServiceID     uint
	PaymentMethod string
}

type SaleRow struct {
	SaleID        uint            `json:"sale_id"`
	SaleDate      string          `json:"sale_date"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	CustomerName  string          `json:"customer_name"`
	PaymentMethod string          `json:"payment_method"`
	BarberName    string          `json:"barber_name"`
	StationName   string          `json:"station_name"`
	ServicesSold  string          `json:"services_sold"`
}

type TypeTotal struct {
	Type       string          `json:"type"`
	TotalSales decimal.Decimal `json:"total_sales_by_type"`
}

type StationUsage struct {
	StationID        uint            `json:"station_id"`
	StationName      string          `json:"station_name"`
	ReservationCount int64           `json:"reservation_count"`
	CompletedCount   int64           `json:"completed_count"`
	BookedMinutes    int64           `json:"booked_minutes"`
	Revenue          decimal.Decimal `json:"revenue"`
}

type CustomerFrequency struct {
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone,omitempty"`
	Visits        int64           `json:"visits"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	LastVisit     string          `json:"last_visit"`
}

type PeakHour struct {
	Hour             int   `json:"hour"`
	ReservationCount int64 `json:"reservation_count"`
}

type BarberServiceRow struct {
	BarberID   uint            `json:"barber_id"`
	BarberName string          `json:"barber_name"`
	ItemName   string          `json:"item_name"`
	ItemType   string          `json:"item_type"`
	Quantity   int64           `json:"quantity"`
	TotalSales decimal.Decimal `json:"total_sales"`
}

type InventorySummary struct {
	TotalProducts       int64           `json:"totalProducts"`
	LowStockCount       int64           `json:"lowStockCount"`
	TotalInventoryValue decimal.Decimal `json:"totalInventoryValue"`
}

type Repository interface {
	ComprehensiveSales(ctx context.Context, f SalesFilter) ([]SaleRow, error)
	TotalsByItemType(ctx context.Context, r Range) ([]TypeTotal, error)
	StationUsage(ctx context.Context, r Range) ([]StationUsage, error)
	CustomerFrequency(ctx context.Context, r Range) ([]CustomerFrequency, error)
	// PeakHours groups reservations by hour of day in the shop timezone.
	PeakHours(ctx context.Context, r Range, timezone string) ([]PeakHour, error)
	BarberServiceSales(ctx context.Context, barberID uint, r Range) ([]BarberServiceRow, error)
	InventorySummary(ctx context.Context) (InventorySummary, error)
}
