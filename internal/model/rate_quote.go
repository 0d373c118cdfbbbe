package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Rate type constants mirror the quotation kinds ("casa") exposed by the
// provider API.
const (
	RateTypeOficial   = "oficial"
	RateTypeBlue      = "blue"
	RateTypeBolsa     = "bolsa"
	RateTypeTarjeta   = "tarjeta"
	RateTypeMayorista = "mayorista"
	RateTypeCripto    = "cripto"
)

// RateQuote is one observed USD/ARS quotation. Rows are append-only: every
// successful fetch inserts a new record and history queries take the most
// recent row per type.
type RateQuote struct {
	ID        uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Type      string           `gorm:"type:varchar(20);not null;index" json:"type"`
	BuyPrice  *decimal.Decimal `gorm:"type:decimal(18,4)" json:"buy_price"`
	SellPrice decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"sell_price"`
	Source    string           `gorm:"type:varchar(100);not null" json:"source"`
	FetchedAt time.Time        `gorm:"not null;index" json:"fetched_at"`
	IsStale   bool             `gorm:"-" json:"is_stale"` // derived, never persisted
	CreatedAt time.Time        `json:"created_at"`
}
