package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DraftSale is the mutable basket staged against a reservation before
// checkout. It disappears when the real sale is recorded.
type DraftSale struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	ReservationID uint            `gorm:"uniqueIndex;not null" json:"reservation_id"`
	Reservation   *Reservation    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	ClientName    string          `gorm:"size:100" json:"client_name"`
	BarberID      *uint           `json:"barber_id"`
	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`

	Items []DraftSaleItem `gorm:"constraint:OnDelete:CASCADE;" json:"sale_items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type DraftSaleItem struct {
	ID            uint            `gorm:"primaryKey" json:"-"`
	DraftSaleID   uint            `gorm:"index;not null" json:"-"`
	CatalogItemID uint            `gorm:"column:item_id;not null" json:"item_id"`
	ItemType      string          `gorm:"size:20;not null" json:"item_type"`
	Quantity      int             `gorm:"not null" json:"quantity"`
	PriceAtDraft  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price_at_draft"`
}
