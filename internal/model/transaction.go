package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction type constants
const (
	TransactionTypeIncome  = "income"
	TransactionTypeExpense = "expense"
)

// Transaction is a single income or expense movement.
type Transaction struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	User        User            `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`
	Type        string          `gorm:"type:varchar(10);not null;index" json:"type"`
	Description string          `gorm:"type:varchar(255);not null" json:"description"`
	Category    string          `gorm:"type:varchar(100);not null" json:"category"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"amount"`
	Currency    string          `gorm:"type:varchar(3);not null" json:"currency"`
	OccurredAt  time.Time       `gorm:"not null;index" json:"occurred_at"`
	BillID      *uuid.UUID      `gorm:"type:uuid;index" json:"bill_id"` // set when generated by a bill payment
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// CategoryTotal is one row of the per-category summary aggregate.
type CategoryTotal struct {
	Category string          `json:"category"`
	Type     string          `json:"type"`
	Total    decimal.Decimal `json:"total"`
}
