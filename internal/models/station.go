package models

import "time"

// MaxStations is the number of chairs the shop floor can hold.
const MaxStations = 10

type Station struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
