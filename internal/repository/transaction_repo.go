package repository

import (
	"context"
	"time"

	"github.com/lautaromiller11/PayBoard2-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MonthlyTotals aggregates a user's transactions for one calendar month.
type MonthlyTotals struct {
	Income     float64
	Expense    float64
	ByCategory []model.CategoryTotal
}

// TransactionRepository defines data access for Transaction entities.
type TransactionRepository interface {
	Create(ctx context.Context, tx *model.Transaction) error
	Update(ctx context.Context, tx *model.Transaction) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Transaction, error)
	List(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Transaction, int64, error)
	MonthlySummary(ctx context.Context, userID uuid.UUID, from, to time.Time) (MonthlyTotals, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *model.Transaction) error {
	return GetDB(ctx, r.db).Create(tx).Error
}

func (r *transactionRepository) Update(ctx context.Context, tx *model.Transaction) error {
	return GetDB(ctx, r.db).Save(tx).Error
}

func (r *transactionRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Transaction{}).Error
}

func (r *transactionRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Transaction, error) {
	var tx model.Transaction
	if err := GetDB(ctx, r.db).First(&tx, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

func (r *transactionRepository) List(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Transaction, int64, error) {
	var txs []model.Transaction
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Transaction{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Where("user_id = ?", userID).Order("occurred_at desc").
		Offset(offset).Limit(limit).Find(&txs).Error; err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}

// MonthlySummary computes income/expense totals and per-category totals for
// the [from, to) window.
func (r *transactionRepository) MonthlySummary(ctx context.Context, userID uuid.UUID, from, to time.Time) (MonthlyTotals, error) {
	var totals MonthlyTotals
	db := GetDB(ctx, r.db)

	var income struct{ Value float64 }
	if err := db.Model(&model.Transaction{}).
		Select("COALESCE(SUM(amount), 0) as value").
		Where("user_id = ? AND type = ? AND occurred_at >= ? AND occurred_at < ?",
			userID, model.TransactionTypeIncome, from, to).
		Scan(&income).Error; err != nil {
		return totals, err
	}
	totals.Income = income.Value

	var expense struct{ Value float64 }
	if err := db.Model(&model.Transaction{}).
		Select("COALESCE(SUM(amount), 0) as value").
		Where("user_id = ? AND type = ? AND occurred_at >= ? AND occurred_at < ?",
			userID, model.TransactionTypeExpense, from, to).
		Scan(&expense).Error; err != nil {
		return totals, err
	}
	totals.Expense = expense.Value

	if err := db.Model(&model.Transaction{}).
		Select("category, type, SUM(amount) as total").
		Where("user_id = ? AND occurred_at >= ? AND occurred_at < ?", userID, from, to).
		Group("category, type").
		Order("total DESC").
		Scan(&totals.ByCategory).Error; err != nil {
		return totals, err
	}

	return totals, nil
}
