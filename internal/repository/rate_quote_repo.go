package repository

import (
	"context"

	"github.com/lautaromiller11/PayBoard2-sub000/internal/model"

	"gorm.io/gorm"
)

// RateQuoteRepository persists the append-only rate quotation history.
// Rows are never updated; "last known" queries rely on fetched_at ordering.
type RateQuoteRepository interface {
	Append(ctx context.Context, quote *model.RateQuote) error
	LatestByType(ctx context.Context, rateType string) (*model.RateQuote, error)
}

type rateQuoteRepository struct {
	db *gorm.DB
}

func NewRateQuoteRepository(db *gorm.DB) RateQuoteRepository {
	return &rateQuoteRepository{db: db}
}

func (r *rateQuoteRepository) Append(ctx context.Context, quote *model.RateQuote) error {
	return GetDB(ctx, r.db).Create(quote).Error
}

func (r *rateQuoteRepository) LatestByType(ctx context.Context, rateType string) (*model.RateQuote, error) {
	var quote model.RateQuote
	if err := GetDB(ctx, r.db).
		Where("type = ?", rateType).
		Order("fetched_at DESC").
		First(&quote).Error; err != nil {
		return nil, err
	}
	return &quote, nil
}
