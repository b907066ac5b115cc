package models

import (
	"time"

	"github.com/shopspring/decimal"
)

var DefaultBaseSalary = decimal.NewFromInt(1300)

type Barber struct {
	ID    uint   `gorm:"primaryKey" json:"id"`
	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"size:100" json:"email,omitempty"`

	StationID *uint    `json:"station_id"`
	Station   *Station `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"station,omitempty"`

	BaseSalary decimal.Decimal `gorm:"type:numeric(12,2);not null;default:1300" json:"base_salary"`
	PhotoURL   string          `gorm:"size:512" json:"photo_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BarberAdvance is cash handed to a barber ahead of payday; it is
// discounted from the period's payment.
type BarberAdvance struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	BarberID    uint            `gorm:"index;not null" json:"barber_id"`
	Amount      decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`
	AdvanceDate time.Time       `gorm:"type:date;not null" json:"advance_date"`
	Note        string          `gorm:"size:255" json:"note,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
