package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	ItemTypeService = "service"
	ItemTypeProduct = "product"
)

// CatalogItem is a sellable service or a stocked product.
type CatalogItem struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"size:100;not null" json:"name"`
	Price           decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"price"`
	DurationMinutes int             `gorm:"not null;default:0" json:"duration_minutes"`
	Type            string          `gorm:"size:20;not null;default:'service';index" json:"type"`
	StockQuantity   int             `gorm:"not null;default:0" json:"stock_quantity"`
	MinStockLevel   int             `gorm:"not null;default:0" json:"min_stock_level"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (CatalogItem) TableName() string {
	return "services"
}

func (i *CatalogItem) IsProduct() bool {
	return i.Type == ItemTypeProduct
}
