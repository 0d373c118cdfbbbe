package service

import (
	"context"
	"testing"
	"time"

	"github.com/lautaromiller11/PayBoard2-sub000/internal/model"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// summaryRecordingRepo captures the window passed to MonthlySummary.
type summaryRecordingRepo struct {
	fakeTransactionRepo
	from, to time.Time
	totals   repository.MonthlyTotals
}

func (r *summaryRecordingRepo) MonthlySummary(_ context.Context, _ uuid.UUID, from, to time.Time) (repository.MonthlyTotals, error) {
	r.from = from
	r.to = to
	return r.totals, nil
}

func TestTransactionService_MonthlySummaryWindow(t *testing.T) {
	repo := &summaryRecordingRepo{
		totals: repository.MonthlyTotals{
			Income:  350000,
			Expense: 123456.789,
			ByCategory: []model.CategoryTotal{
				{Category: "utilities", Type: model.TransactionTypeExpense, Total: decimal.NewFromInt(15000)},
			},
		},
	}
	svc := NewTransactionService(repo)

	summary, err := svc.MonthlySummary(context.Background(), uuid.NewString(), 2026, 12)
	require.NoError(t, err)

	// [from, to) covers exactly December, rolling into January of the next year.
	assert.Equal(t, time.Date(2026, time.December, 1, 0, 0, 0, 0, time.UTC), repo.from)
	assert.Equal(t, time.Date(2027, time.January, 1, 0, 0, 0, 0, time.UTC), repo.to)

	assert.Equal(t, "350000.00", summary.Income)
	assert.Equal(t, "123456.79", summary.Expense)
	assert.Equal(t, "226543.21", summary.Balance)
	require.Len(t, summary.ByCategory, 1)
	assert.Equal(t, "15000.00", summary.ByCategory[0].Total)
}

func TestTransactionService_MonthlySummaryRejectsBadMonth(t *testing.T) {
	svc := NewTransactionService(&summaryRecordingRepo{})

	_, err := svc.MonthlySummary(context.Background(), uuid.NewString(), 2026, 13)
	assert.ErrorContains(t, err, "month must be between 1 and 12")
}

func TestTransactionService_CreateDefaultsAndDateParsing(t *testing.T) {
	repo := &fakeTransactionRepo{}
	svc := NewTransactionService(repo)

	resp, err := svc.CreateTransaction(context.Background(), uuid.NewString(), CreateTransactionRequest{
		Type:        model.TransactionTypeIncome,
		Description: "Salary",
		Amount:      "350000",
		Currency:    model.CurrencyARS,
		OccurredAt:  "2026-08-01",
	})
	require.NoError(t, err)

	assert.Equal(t, "other", resp.Category)
	assert.Equal(t, "2026-08-01", resp.OccurredAt)
	assert.Nil(t, resp.BillID)

	_, err = svc.CreateTransaction(context.Background(), uuid.NewString(), CreateTransactionRequest{
		Type:        model.TransactionTypeIncome,
		Description: "Salary",
		Amount:      "350000",
		Currency:    model.CurrencyARS,
		OccurredAt:  "01/08/2026",
	})
	assert.ErrorContains(t, err, "invalid occurred_at date format")
}

func TestTransactionService_CreateRejectsNonPositiveAmount(t *testing.T) {
	svc := NewTransactionService(&fakeTransactionRepo{})

	_, err := svc.CreateTransaction(context.Background(), uuid.NewString(), CreateTransactionRequest{
		Type:        model.TransactionTypeExpense,
		Description: "noise",
		Amount:      "0",
		Currency:    model.CurrencyARS,
	})
	assert.ErrorContains(t, err, "greater than 0")
}
