package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	PaymentCash = "cash"
	PaymentCard = "card"
	PaymentYape = "yape"
	PaymentPlin = "plin"
)

const DefaultCustomerName = "Cliente Varios"

// Sale is immutable once written. There is no update path and no delete
// path; its items go only with it.
type Sale struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Code string `gorm:"size:36;uniqueIndex;not null" json:"code"`

	ReservationID *uint        `gorm:"uniqueIndex" json:"reservation_id"`
	Reservation   *Reservation `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	BarberID      *uint        `gorm:"index" json:"barber_id"`
	Barber        *Barber      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	StationID     *uint        `json:"station_id"`
	Station       *Station     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`

	TotalAmount   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	CustomerName  string          `gorm:"size:100" json:"customer_name"`
	PaymentMethod string          `gorm:"size:10;not null;default:'cash'" json:"payment_method"`
	SaleDate      time.Time       `gorm:"type:date;index;not null" json:"sale_date"`

	Items []SaleItem `gorm:"constraint:OnDelete:CASCADE;" json:"sale_items"`

	CreatedAt time.Time `json:"created_at"`
}

type SaleItem struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	SaleID        uint            `gorm:"index;not null" json:"sale_id"`
	CatalogItemID uint            `gorm:"column:service_id;index;not null" json:"item_id"`
	CatalogItem   *CatalogItem    `gorm:"foreignKey:CatalogItemID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	ItemType      string          `gorm:"size:20;not null" json:"item_type"`
	ItemName      string          `gorm:"size:100;not null" json:"item_name"`
	PriceAtSale   decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price_at_sale"`
	Quantity      int             `gorm:"not null;default:1" json:"quantity"`
}

// Subtotal is price_at_sale × quantity.
func (i SaleItem) Subtotal() decimal.Decimal {
	return i.PriceAtSale.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
