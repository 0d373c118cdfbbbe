package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Bill frequency constants
const (
	BillFrequencyMonthly = "monthly"
	BillFrequencyAnnual  = "annual"
	BillFrequencyOneOff  = "one_off"
)

// Bill status constants
const (
	BillStatusActive = "active"
	BillStatusPaused = "paused"
)

// Bill is a recurring or one-off service the user pays for (rent, utilities,
// subscriptions). Paying a bill records an expense Transaction.
type Bill struct {
	ID             uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User           User            `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Name           string          `gorm:"type:varchar(255);not null" json:"name"`
	Category       string          `gorm:"type:varchar(100);not null" json:"category"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Currency       string          `gorm:"type:varchar(3);not null" json:"currency"` // ARS or USD
	DueDay         int             `gorm:"not null" json:"due_day"`                  // day of month, 1-31
	Frequency      string          `gorm:"type:varchar(20);not null" json:"frequency"`
	Status         string          `gorm:"type:varchar(20);not null;default:active" json:"status"`
	LastPaidPeriod *string         `gorm:"type:varchar(7)" json:"last_paid_period"` // YYYY-MM
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}
