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

type CreateBillRequest struct {
	Name      string `json:"name" binding:"required"`
	Category  string `json:"category"`
	Amount    string `json:"amount" binding:"required"` // Decimal string
	Currency  string `json:"currency" binding:"required,oneof=ARS USD"`
	DueDay    int    `json:"due_day" binding:"required,min=1,max=31"`
	Frequency string `json:"frequency" binding:"required,oneof=monthly annual one_off"`
}

type UpdateBillRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Amount   string `json:"amount"`
	DueDay   int    `json:"due_day" binding:"omitempty,min=1,max=31"`
	Status   string `json:"status" binding:"omitempty,oneof=active paused"`
}

type PayBillRequest struct {
	Period string `json:"period" binding:"required"` // YYYY-MM
	Amount string `json:"amount"`                    // optional override of the configured amount
}

type BillResponse struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Category       string  `json:"category"`
	Amount         string  `json:"amount"`
	Currency       string  `json:"currency"`
	DueDay         int     `json:"due_day"`
	Frequency      string  `json:"frequency"`
	Status         string  `json:"status"`
	LastPaidPeriod *string `json:"last_paid_period"`
	CreatedAt      string  `json:"created_at"`
}

// --- Interface ---

type BillService interface {
	CreateBill(ctx context.Context, userID string, req CreateBillRequest) (BillResponse, error)
	UpdateBill(ctx context.Context, userID, id string, req UpdateBillRequest) (BillResponse, error)
	DeleteBill(ctx context.Context, userID, id string) error
	GetBill(ctx context.Context, userID, id string) (BillResponse, error)
	ListBills(ctx context.Context, userID string, page, limit int) ([]BillResponse, int64, error)
	PayBill(ctx context.Context, userID, id string, req PayBillRequest) (TransactionResponse, error)
}

type billService struct {
	billRepo  repository.BillRepository
	txRepo    repository.TransactionRepository
	txManager repository.TransactionManager
}

func NewBillService(billRepo repository.BillRepository, txRepo repository.TransactionRepository, txManager repository.TransactionManager) BillService {
	return &billService{
		billRepo:  billRepo,
		txRepo:    txRepo,
		txManager: txManager,
	}
}

// --- Implementation ---

func (s *billService) CreateBill(ctx context.Context, userID string, req CreateBillRequest) (BillResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return BillResponse{}, fmt.Errorf("invalid user id: %w", err)
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		return BillResponse{}, err
	}

	category := req.Category
	if category == "" {
		category = "other"
	}

	bill := model.Bill{
		UserID:    uid,
		Name:      req.Name,
		Category:  category,
		Amount:    amount,
		Currency:  req.Currency,
		DueDay:    req.DueDay,
		Frequency: req.Frequency,
		Status:    model.BillStatusActive,
	}

	if err := s.billRepo.Create(ctx, &bill); err != nil {
		return BillResponse{}, fmt.Errorf("failed to create bill: %w", err)
	}

	return toBillResponse(bill), nil
}

func (s *billService) UpdateBill(ctx context.Context, userID, id string, req UpdateBillRequest) (BillResponse, error) {
	bill, err := s.findOwnedBill(ctx, userID, id)
	if err != nil {
		return BillResponse{}, err
	}

	if req.Name != "" {
		bill.Name = req.Name
	}
	if req.Category != "" {
		bill.Category = req.Category
	}
	if req.Amount != "" {
		amount, err := parseAmount(req.Amount)
		if err != nil {
			return BillResponse{}, err
		}
		bill.Amount = amount
	}
	if req.DueDay != 0 {
		bill.DueDay = req.DueDay
	}
	if req.Status != "" {
		bill.Status = req.Status
	}

	if err := s.billRepo.Update(ctx, bill); err != nil {
		return BillResponse{}, fmt.Errorf("failed to update bill: %w", err)
	}

	return toBillResponse(*bill), nil
}

func (s *billService) DeleteBill(ctx context.Context, userID, id string) error {
	bill, err := s.findOwnedBill(ctx, userID, id)
	if err != nil {
		return err
	}
	return s.billRepo.Delete(ctx, bill.UserID, bill.ID)
}

func (s *billService) GetBill(ctx context.Context, userID, id string) (BillResponse, error) {
	bill, err := s.findOwnedBill(ctx, userID, id)
	if err != nil {
		return BillResponse{}, err
	}
	return toBillResponse(*bill), nil
}

func (s *billService) ListBills(ctx context.Context, userID string, page, limit int) ([]BillResponse, int64, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, 0, fmt.Errorf("invalid user id: %w", err)
	}

	bills, total, err := s.billRepo.List(ctx, uid, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch bills: %w", err)
	}

	res := make([]BillResponse, 0, len(bills))
	for _, b := range bills {
		res = append(res, toBillResponse(b))
	}
	return res, total, nil
}

// PayBill records an expense transaction for the bill and stamps the paid
// period, atomically.
func (s *billService) PayBill(ctx context.Context, userID, id string, req PayBillRequest) (TransactionResponse, error) {
	bill, err := s.findOwnedBill(ctx, userID, id)
	if err != nil {
		return TransactionResponse{}, err
	}

	if _, err := time.Parse("2006-01", req.Period); err != nil {
		return TransactionResponse{}, fmt.Errorf("invalid period format (expected YYYY-MM): %w", err)
	}
	if bill.LastPaidPeriod != nil && *bill.LastPaidPeriod == req.Period {
		return TransactionResponse{}, fmt.Errorf("bill already paid for period %s", req.Period)
	}

	amount := bill.Amount
	if req.Amount != "" {
		amount, err = parseAmount(req.Amount)
		if err != nil {
			return TransactionResponse{}, err
		}
	}

	transaction := model.Transaction{
		UserID:      bill.UserID,
		Type:        model.TransactionTypeExpense,
		Description: fmt.Sprintf("Payment of %s (%s)", bill.Name, req.Period),
		Category:    bill.Category,
		Amount:      amount,
		Currency:    bill.Currency,
		OccurredAt:  time.Now().UTC(),
		BillID:      &bill.ID,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if createErr := s.txRepo.Create(txCtx, &transaction); createErr != nil {
			return fmt.Errorf("failed to create payment transaction: %w", createErr)
		}

		period := req.Period
		bill.LastPaidPeriod = &period
		if updateErr := s.billRepo.Update(txCtx, bill); updateErr != nil {
			return fmt.Errorf("failed to update bill payment state: %w", updateErr)
		}
		return nil
	})
	if err != nil {
		return TransactionResponse{}, err
	}

	return toTransactionResponse(transaction), nil
}

// --- Helpers ---

func (s *billService) findOwnedBill(ctx context.Context, userID, id string) (*model.Bill, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", err)
	}
	billID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid bill id: %w", err)
	}

	bill, err := s.billRepo.FindByID(ctx, uid, billID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("bill: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to fetch bill: %w", err)
	}
	return bill, nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount: %w", err)
	}
	if !amount.IsPositive() {
		return decimal.Zero, errors.New("amount must be greater than 0")
	}
	return amount, nil
}

func toBillResponse(b model.Bill) BillResponse {
	return BillResponse{
		ID:             b.ID.String(),
		Name:           b.Name,
		Category:       b.Category,
		Amount:         b.Amount.StringFixed(2),
		Currency:       b.Currency,
		DueDay:         b.DueDay,
		Frequency:      b.Frequency,
		Status:         b.Status,
		LastPaidPeriod: b.LastPaidPeriod,
		CreatedAt:      b.CreatedAt.Format(time.RFC3339),
	}
}
