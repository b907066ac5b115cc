package models

import "time"

type Setting struct {
	Key       string    `gorm:"column:setting_key;primaryKey;size:100" json:"setting_key"`
	Value     string    `gorm:"column:setting_value;type:text;not null" json:"setting_value"`
	UpdatedAt time.Time `json:"updated_at"`
}
