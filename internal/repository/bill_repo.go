package repository

import (
	"context"

	"github.com/lautaromiller11/PayBoard2-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BillRepository defines data access for Bill entities. All lookups are
// scoped to the owning user.
type BillRepository interface {
	Create(ctx context.Context, bill *model.Bill) error
	Update(ctx context.Context, bill *model.Bill) error
	Delete(ctx context.Context, userID, id uuid.UUID) error
	FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Bill, error)
	List(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Bill, int64, error)
}

type billRepository struct {
	db *gorm.DB
}

func NewBillRepository(db *gorm.DB) BillRepository {
	return &billRepository{db: db}
}

func (r *billRepository) Create(ctx context.Context, bill *model.Bill) error {
	return GetDB(ctx, r.db).Create(bill).Error
}

func (r *billRepository) Update(ctx context.Context, bill *model.Bill) error {
	return GetDB(ctx, r.db).Save(bill).Error
}

func (r *billRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return GetDB(ctx, r.db).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Bill{}).Error
}

func (r *billRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*model.Bill, error) {
	var bill model.Bill
	if err := GetDB(ctx, r.db).First(&bill, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &bill, nil
}

func (r *billRepository) List(ctx context.Context, userID uuid.UUID, page, limit int) ([]model.Bill, int64, error) {
	var bills []model.Bill
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.Bill{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Where("user_id = ?", userID).Order("due_day asc, name asc").
		Offset(offset).Limit(limit).Find(&bills).Error; err != nil {
		return nil, 0, err
	}

	return bills, total, nil
}
