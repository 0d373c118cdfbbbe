package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lautaromiller11/PayBoard2-sub000/internal/model"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateTransactionRequest struct {
	Type        string `json:"type" binding:"required,oneof=income expense"`
	Description string `json:"description" binding:"required"`
	Category    string `json:"category"`
	Amount      string `json:"amount" binding:"required"` // Decimal string
	Currency    string `json:"currency" binding:"required,oneof=ARS USD"`
	OccurredAt  string `json:"occurred_at"` // YYYY-MM-DD, defaults to today
}

type UpdateTransactionRequest struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	OccurredAt  string `json:"occurred_at"`
}

type TransactionResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Amount      string  `json:"amount"`
	Currency    string  `json:"currency"`
	OccurredAt  string  `json:"occurred_at"`
	BillID      *string `json:"bill_id"`
	CreatedAt   string  `json:"created_at"`
}

type CategoryTotalResponse struct {
	Category string `json:"category"`
	Type     string `json:"type"`
	Total    string `json:"total"`
}

type MonthlySummaryResponse struct {
	Year       int                     `json:"year"`
	Month      int                     `json:"month"`
	Income     string                  `json:"income"`
	Expense    string                  `json:"expense"`
	Balance    string                  `json:"balance"`
	ByCategory []CategoryTotalResponse `json:"by_category"`
}

// --- Interface ---

type TransactionService interface {
	CreateTransaction(ctx context.Context, userID string, req CreateTransactionRequest) (TransactionResponse, error)
	UpdateTransaction(ctx context.Context, userID, id string, req UpdateTransactionRequest) (TransactionResponse, error)
	DeleteTransaction(ctx context.Context, userID, id string) error
	ListTransactions(ctx context.Context, userID string, page, limit int) ([]TransactionResponse, int64, error)
	MonthlySummary(ctx context.Context, userID string, year, month int) (MonthlySummaryResponse, error)
}

type transactionService struct {
	repo repository.TransactionRepository
}

func NewTransactionService(repo repository.TransactionRepository) TransactionService {
	return &transactionService{repo: repo}
}

// --- Implementation ---

func (s *transactionService) CreateTransaction(ctx context.Context, userID string, req CreateTransactionRequest) (TransactionResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return TransactionResponse{}, fmt.Errorf("invalid user id: %w", err)
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return TransactionResponse{}, err
	}

	occurredAt := time.Now().UTC()
	if req.OccurredAt != "" {
		occurredAt, err = time.Parse("2006-01-02", req.OccurredAt)
		if err != nil {
			return TransactionResponse{}, fmt.Errorf("invalid occurred_at date format (expected YYYY-MM-DD): %w", err)
		}
	}

	category := req.Category
	if category == "" {
		category = "other"
	}

	transaction := model.Transaction{
		UserID:      uid,
		Type:        req.Type,
		Description: req.Description,
		Category:    category,
		Amount:      amount,
		Currency:    req.Currency,
		OccurredAt:  occurredAt,
	}

	if err := s.repo.Create(ctx, &transaction); err != nil {
		return TransactionResponse{}, fmt.Errorf("failed to create transaction: %w", err)
	}

	return toTransactionResponse(transaction), nil
}

func (s *transactionService) UpdateTransaction(ctx context.Context, userID, id string, req UpdateTransactionRequest) (TransactionResponse, error) {
	transaction, err := s.findOwnedTransaction(ctx, userID, id)
	if err != nil {
		return TransactionResponse{}, err
	}

	if req.Description != "" {
		transaction.Description = req.Description
	}
	if req.Category != "" {
		transaction.Category = req.Category
	}
	if req.Amount != "" {
		amount, err := parseAmount(req.Amount)
		if err != nil {
			return TransactionResponse{}, err
		}
		transaction.Amount = amount
	}
	if req.OccurredAt != "" {
		occurredAt, err := time.Parse("2006-01-02", req.OccurredAt)
		if err != nil {
			return TransactionResponse{}, fmt.Errorf("invalid occurred_at date format (expected YYYY-MM-DD): %w", err)
		}
		transaction.OccurredAt = occurredAt
	}

	if err := s.repo.Update(ctx, transaction); err != nil {
		return TransactionResponse{}, fmt.Errorf("failed to update transaction: %w", err)
	}

	return toTransactionResponse(*transaction), nil
}

func (s *transactionService) DeleteTransaction(ctx context.Context, userID, id string) error {
	transaction, err := s.findOwnedTransaction(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, transaction.UserID, transaction.ID)
}

func (s *transactionService) ListTransactions(ctx context.Context, userID string, page, limit int) ([]TransactionResponse, int64, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid user id: %w", err)
	}

	txs, total, err := s.repo.List(ctx, uid, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch transactions: %w", err)
	}

	res := make([]TransactionResponse, 0, len(txs))
	for _, tx := range txs {
		res = append(res, toTransactionResponse(tx))
	}
	return res, total, nil
}

func (s *transactionService) MonthlySummary(ctx context.Context, userID string, year, month int) (MonthlySummaryResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return MonthlySummaryResponse{}, fmt.Errorf("invalid user id: %w", err)
	}
	if month < 1 || month > 12 {
		return MonthlySummaryResponse{}, errors.New("month must be between 1 and 12")
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	totals, err := s.repo.MonthlySummary(ctx, uid, from, to)
	if err != nil {
		return MonthlySummaryResponse{}, fmt.Errorf("failed to compute summary: %w", err)
	}

	income := decimal.NewFromFloat(totals.Income).Round(2)
	expense := decimal.NewFromFloat(totals.Expense).Round(2)

	summary := MonthlySummaryResponse{
		Year:       year,
		Month:      month,
		Income:     income.StringFixed(2),
		Expense:    expense.StringFixed(2),
		Balance:    income.Sub(expense).StringFixed(2),
		ByCategory: make([]CategoryTotalResponse, 0, len(totals.ByCategory)),
	}
	for _, ct := range totals.ByCategory {
		summary.ByCategory = append(summary.ByCategory, CategoryTotalResponse{
			Category: ct.Category,
			Type:     ct.Type,
			Total:    ct.Total.Round(2).StringFixed(2),
		})
	}
	return summary, nil
}

// --- Helpers ---

func (s *transactionService) findOwnedTransaction(ctx context.Context, userID, id string) (*model.Transaction, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	txID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid transaction id: %w", err)
	}

	transaction, err := s.repo.FindByID(ctx, uid, txID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("transaction: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch transaction: %w", err)
	}
	return transaction, nil
}

func toTransactionResponse(t model.Transaction) TransactionResponse {
	resp := TransactionResponse{
		ID:          t.ID.String(),
		Type:        t.Type,
		Description: t.Description,
		Category:    t.Category,
		Amount:      t.Amount.StringFixed(2),
		Currency:    t.Currency,
		OccurredAt:  t.OccurredAt.Format("2006-01-02"),
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
	if t.BillID != nil {
		id := t.BillID.String()
		resp.BillID = &id
	}
	return resp
}
