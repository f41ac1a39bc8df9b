package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

const DefaultProductStock = 100

type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:150;not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	Unit        string          `gorm:"size:30;not null" json:"unit"`
	Image       string          `gorm:"size:255" json:"image"`
	Available   bool            `gorm:"not null" json:"available"`
	Tag         *string         `gorm:"size:50" json:"tag"`
	Stock       int             `gorm:"not null" json:"stock"`
	CreatedAt   time.Time       `gorm:"index" json:"created_at"`
}
