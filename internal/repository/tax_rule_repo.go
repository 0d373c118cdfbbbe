package repository

import (
	"context"

	"github.com/lautaromiller11/PayBoard2-sub000/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaxRuleRepository defines data access for TaxRule entities.
type TaxRuleRepository interface {
	Create(ctx context.Context, rule *model.TaxRule) error
	Update(ctx context.Context, rule *model.TaxRule) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.TaxRule, error)
	List(ctx context.Context, page, limit int) ([]model.TaxRule, int64, error)
	FindActive(ctx context.Context) ([]model.TaxRule, error)
	CountActiveConflicts(ctx context.Context, taxKind, scope string, regionCode *string, excludeID *uuid.UUID) (int64, error)
}

type taxRuleRepository struct {
	db *gorm.DB
}

func NewTaxRuleRepository(db *gorm.DB) TaxRuleRepository {
	return &taxRuleRepository{db: db}
}

func (r *taxRuleRepository) Create(ctx context.Context, rule *model.TaxRule) error {
	return GetDB(ctx, r.db).Create(rule).Error
}

func (r *taxRuleRepository) Update(ctx context.Context, rule *model.TaxRule) error {
	return GetDB(ctx, r.db).Save(rule).Error
}

func (r *taxRuleRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.TaxRule, error) {
	var rule model.TaxRule
	if err := GetDB(ctx, r.db).First(&rule, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &rule, nil
}

func (r *taxRuleRepository) List(ctx context.Context, page, limit int) ([]model.TaxRule, int64, error) {
	var rules []model.TaxRule
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.TaxRule{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("tax_kind asc, scope asc, region_code asc").
		Offset(offset).Limit(limit).Find(&rules).Error; err != nil {
		return nil, 0, err
	}

	return rules, total, nil
}

func (r *taxRuleRepository) FindActive(ctx context.Context) ([]model.TaxRule, error) {
	var rules []model.TaxRule
	if err := GetDB(ctx, r.db).Where("active = ?", true).Find(&rules).Error; err != nil {
		return nil, err
	}
	return rules, nil
}

// CountActiveConflicts counts active rules that would collide with a rule of
// the given kind and scope: same kind for global rules, same kind+region for
// regional ones.
func (r *taxRuleRepository) CountActiveConflicts(ctx context.Context, taxKind, scope string, regionCode *string, excludeID *uuid.UUID) (int64, error) {
	query := GetDB(ctx, r.db).Model(&model.TaxRule{}).
		Where("active = ? AND tax_kind = ? AND scope = ?", true, taxKind, scope)

	if scope == model.TaxScopeRegional && regionCode != nil {
		query = query.Where("region_code = ?", *regionCode)
	}
	if excludeID != nil {
		query = query.Where("id != ?", *excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
