package repository

import (
	"context"

	"github.com/lautaromiller11/PayBoard2-sub000/internal/model"

	"gorm.io/gorm"
)

// CalculationLogRepository appends tax-calculation audit records.
type CalculationLogRepository interface {
	Log(ctx context.Context, entry *model.CalculationLog) error
}

type calculationLogRepository struct {
	db *gorm.DB
}

func NewCalculationLogRepository(db *gorm.DB) CalculationLogRepository {
	return &calculationLogRepository{db: db}
}

func (r *calculationLogRepository) Log(ctx context.Context, entry *model.CalculationLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}
