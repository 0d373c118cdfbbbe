package model

import (
	"time"

	"github.com/google/uuid"
)

// CalculationLog is a best-effort audit record of one tax calculation:
// the validated input, the produced breakdown and the rate snapshot used.
// Writes are append-only and failures never propagate to the request path.
type CalculationLog struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID       *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Input        string     `gorm:"type:text;not null" json:"input"`
	Output       string     `gorm:"type:text;not null" json:"output"`
	RateSnapshot string     `gorm:"type:text" json:"rate_snapshot"` // empty when no conversion happened
	CreatedAt    time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}
