package service

import (
	"context"
	"testing"
	"time"

	"github.com/lautaromiller11/PayBoard2-sub000/internal/model"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeBillRepo is an in-memory BillRepository.
type fakeBillRepo struct {
	bills map[uuid.UUID]*model.Bill
}

func newFakeBillRepo() *fakeBillRepo {
	return &fakeBillRepo{bills: map[uuid.UUID]*model.Bill{}}
}

func (r *fakeBillRepo) Create(_ context.Context, bill *model.Bill) error {
	if bill.ID == uuid.Nil {
		bill.ID = uuid.New()
	}
	bill.CreatedAt = time.Now()
	copied := *bill
	r.bills[bill.ID] = &copied
	return nil
}

func (r *fakeBillRepo) Update(_ context.Context, bill *model.Bill) error {
	copied := *bill
	r.bills[bill.ID] = &copied
	return nil
}

func (r *fakeBillRepo) Delete(_ context.Context, userID, id uuid.UUID) error {
	delete(r.bills, id)
	return nil
}

func (r *fakeBillRepo) FindByID(_ context.Context, userID, id uuid.UUID) (*model.Bill, error) {
	bill, ok := r.bills[id]
	if !ok || bill.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *bill
	return &copied, nil
}

func (r *fakeBillRepo) List(_ context.Context, userID uuid.UUID, page, limit int) ([]model.Bill, int64, error) {
	var out []model.Bill
	for _, bill := range r.bills {
		if bill.UserID == userID {
			out = append(out, *bill)
		}
	}
	return out, int64(len(out)), nil
}

// fakeTransactionRepo records created transactions; the rest of the interface
// is unused by the bill payment path.
type fakeTransactionRepo struct {
	created []*model.Transaction
}

func (r *fakeTransactionRepo) Create(_ context.Context, tx *model.Transaction) error {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	r.created = append(r.created, tx)
	return nil
}

func (r *fakeTransactionRepo) Update(context.Context, *model.Transaction) error { return nil }
func (r *fakeTransactionRepo) Delete(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}
func (r *fakeTransactionRepo) FindByID(context.Context, uuid.UUID, uuid.UUID) (*model.Transaction, error) {
	return nil, gorm.ErrRecordNotFound
}
func (r *fakeTransactionRepo) List(context.Context, uuid.UUID, int, int) ([]model.Transaction, int64, error) {
	return nil, 0, nil
}
func (r *fakeTransactionRepo) MonthlySummary(context.Context, uuid.UUID, time.Time, time.Time) (repository.MonthlyTotals, error) {
	return repository.MonthlyTotals{}, nil
}

// passthroughTxManager runs the callback without a real database transaction.
type passthroughTxManager struct{}

func (passthroughTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

func newTestBillService() (BillService, *fakeBillRepo, *fakeTransactionRepo) {
	billRepo := newFakeBillRepo()
	txRepo := &fakeTransactionRepo{}
	return NewBillService(billRepo, txRepo, passthroughTxManager{}), billRepo, txRepo
}

func createTestBill(t *testing.T, svc BillService, userID string) BillResponse {
	t.Helper()
	bill, err := svc.CreateBill(context.Background(), userID, CreateBillRequest{
		Name:      "Internet",
		Category:  "utilities",
		Amount:    "15000",
		Currency:  model.CurrencyARS,
		DueDay:    10,
		Frequency: model.BillFrequencyMonthly,
	})
	require.NoError(t, err)
	return bill
}

func TestBillService_CreateDefaults(t *testing.T) {
	svc, _, _ := newTestBillService()
	userID := uuid.NewString()

	bill, err := svc.CreateBill(context.Background(), userID, CreateBillRequest{
		Name:      "Rent",
		Amount:    "250000",
		Currency:  model.CurrencyARS,
		DueDay:    1,
		Frequency: model.BillFrequencyMonthly,
	})
	require.NoError(t, err)

	assert.Equal(t, model.BillStatusActive, bill.Status)
	assert.Equal(t, "other", bill.Category)
	assert.Nil(t, bill.LastPaidPeriod)
}

func TestBillService_PayBillCreatesExpenseAndStampsPeriod(t *testing.T) {
	svc, billRepo, txRepo := newTestBillService()
	userID := uuid.NewString()
	bill := createTestBill(t, svc, userID)

	payment, err := svc.PayBill(context.Background(), userID, bill.ID, PayBillRequest{Period: "2026-08"})
	require.NoError(t, err)

	assert.Equal(t, model.TransactionTypeExpense, payment.Type)
	assert.Equal(t, "15000.00", payment.Amount)
	assert.Contains(t, payment.Description, "Internet")

	require.Len(t, txRepo.created, 1)
	require.NotNil(t, txRepo.created[0].BillID)
	assert.Equal(t, bill.ID, txRepo.created[0].BillID.String())

	stored := billRepo.bills[uuid.MustParse(bill.ID)]
	require.NotNil(t, stored.LastPaidPeriod)
	assert.Equal(t, "2026-08", *stored.LastPaidPeriod)
}

func TestBillService_PayBillRejectsDuplicatePeriod(t *testing.T) {
	svc, _, txRepo := newTestBillService()
	userID := uuid.NewString()
	bill := createTestBill(t, svc, userID)

	_, err := svc.PayBill(context.Background(), userID, bill.ID, PayBillRequest{Period: "2026-08"})
	require.NoError(t, err)

	_, err = svc.PayBill(context.Background(), userID, bill.ID, PayBillRequest{Period: "2026-08"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already paid")
	assert.Len(t, txRepo.created, 1, "a rejected payment must not create a transaction")
}

func TestBillService_PayBillAmountOverride(t *testing.T) {
	svc, _, _ := newTestBillService()
	userID := uuid.NewString()
	bill := createTestBill(t, svc, userID)

	payment, err := svc.PayBill(context.Background(), userID, bill.ID, PayBillRequest{
		Period: "2026-08",
		Amount: "15750.50",
	})
	require.NoError(t, err)
	assert.Equal(t, "15750.50", payment.Amount)
}

func TestBillService_PayBillInvalidPeriod(t *testing.T) {
	svc, _, _ := newTestBillService()
	userID := uuid.NewString()
	bill := createTestBill(t, svc, userID)

	_, err := svc.PayBill(context.Background(), userID, bill.ID, PayBillRequest{Period: "08-2026"})
	assert.ErrorContains(t, err, "invalid period format")
}

func TestBillService_OwnershipScoping(t *testing.T) {
	svc, _, _ := newTestBillService()
	owner := uuid.NewString()
	stranger := uuid.NewString()
	bill := createTestBill(t, svc, owner)

	_, err := svc.GetBill(context.Background(), stranger, bill.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.DeleteBill(context.Background(), stranger, bill.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetBill(context.Background(), owner, bill.ID)
	assert.NoError(t, err)
}

func TestBillService_UpdatePartialFields(t *testing.T) {
	svc, _, _ := newTestBillService()
	userID := uuid.NewString()
	bill := createTestBill(t, svc, userID)

	updated, err := svc.UpdateBill(context.Background(), userID, bill.ID, UpdateBillRequest{
		Status: model.BillStatusPaused,
	})
	require.NoError(t, err)

	assert.Equal(t, model.BillStatusPaused, updated.Status)
	assert.Equal(t, bill.Name, updated.Name, "unset fields keep their value")
	assert.Equal(t, bill.Amount, updated.Amount)
}
