package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lautaromiller11/PayBoard2-sub000/internal/logger"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/model"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateTaxRuleRequest struct {
	Name        string `json:"name" binding:"required"`
	TaxKind     string `json:"tax_kind" binding:"required,oneof=IVA PAIS GANANCIAS IIBB"`
	Percentage  string `json:"percentage" binding:"required"` // Decimal string, e.g. "21"
	Scope       string `json:"scope" binding:"required,oneof=global regional"`
	RegionCode  string `json:"region_code"` // required iff scope = regional
	Active      bool   `json:"active"`
	Description string `json:"description"`
}

type UpdateTaxRuleRequest struct {
	Name        string `json:"name" binding:"required"`
	Percentage  string `json:"percentage" binding:"required"`
	Active      bool   `json:"active"`
	Description string `json:"description"`
}

type TaxRuleResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	TaxKind     string  `json:"tax_kind"`
	Percentage  string  `json:"percentage"`
	Scope       string  `json:"scope"`
	RegionCode  *string `json:"region_code"`
	Active      bool    `json:"active"`
	Description string  `json:"description"`
	CreatedAt   string  `json:"created_at"`
}

// --- Interface ---

// TaxRuleService administers tax rules and resolves the active rule set used
// by calculations.
type TaxRuleService interface {
	ListTaxRules(ctx context.Context, page, limit int) ([]TaxRuleResponse, int64, error)
	CreateTaxRule(ctx context.Context, req CreateTaxRuleRequest) (TaxRuleResponse, error)
	UpdateTaxRule(ctx context.Context, id string, req UpdateTaxRuleRequest) (TaxRuleResponse, error)
	DeactivateTaxRule(ctx context.Context, id string) error
	ActiveRuleSet(ctx context.Context) model.RuleSet
}

type taxRuleService struct {
	repo repository.TaxRuleRepository
}

func NewTaxRuleService(repo repository.TaxRuleRepository) TaxRuleService {
	return &taxRuleService{repo: repo}
}

// --- Implementation ---

func (s *taxRuleService) ListTaxRules(ctx context.Context, page, limit int) ([]TaxRuleResponse, int64, error) {
	rules, total, err := s.repo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch tax rules: %w", err)
	}

	res := make([]TaxRuleResponse, 0, len(rules))
	for _, r := range rules {
		res = append(res, toTaxRuleResponse(r))
	}
	return res, total, nil
}

func (s *taxRuleService) CreateTaxRule(ctx context.Context, req CreateTaxRuleRequest) (TaxRuleResponse, error) {
	percentage, err := parsePercentage(req.Percentage)
	if err != nil {
		return TaxRuleResponse{}, err
	}

	var regionCode *string
	if req.Scope == model.TaxScopeRegional {
		if !model.ValidRegion(req.RegionCode) {
			return TaxRuleResponse{}, fmt.Errorf("region_code %q is not a valid region", req.RegionCode)
		}
		regionCode = &req.RegionCode
	} else if req.RegionCode != "" {
		return TaxRuleResponse{}, errors.New("region_code must be empty for global rules")
	}

	if req.Active {
		if err := s.checkConflict(ctx, req.TaxKind, req.Scope, regionCode, nil); err != nil {
			return TaxRuleResponse{}, err
		}
	}

	rule := model.TaxRule{
		Name:        req.Name,
		TaxKind:     req.TaxKind,
		Percentage:  percentage,
		Scope:       req.Scope,
		RegionCode:  regionCode,
		Active:      req.Active,
		Description: req.Description,
	}

	if err := s.repo.Create(ctx, &rule); err != nil {
		return TaxRuleResponse{}, fmt.Errorf("failed to create tax rule: %w", err)
	}

	return toTaxRuleResponse(rule), nil
}

func (s *taxRuleService) UpdateTaxRule(ctx context.Context, id string, req UpdateTaxRuleRequest) (TaxRuleResponse, error) {
	ruleID, err := uuid.Parse(id)
	if err != nil {
		return TaxRuleResponse{}, fmt.Errorf("invalid tax rule id: %w", err)
	}

	rule, err := s.repo.FindByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TaxRuleResponse{}, fmt.Errorf("tax rule: %w", ErrNotFound)
		}
		return TaxRuleResponse{}, fmt.Errorf("failed to fetch tax rule: %w", err)
	}

	percentage, err := parsePercentage(req.Percentage)
	if err != nil {
		return TaxRuleResponse{}, err
	}

	// Reactivating a rule must not break the one-active-rule invariant.
	if req.Active && !rule.Active {
		if err := s.checkConflict(ctx, rule.TaxKind, rule.Scope, rule.RegionCode, &rule.ID); err != nil {
			return TaxRuleResponse{}, err
		}
	}

	rule.Name = req.Name
	rule.Percentage = percentage
	rule.Active = req.Active
	rule.Description = req.Description

	if err := s.repo.Update(ctx, rule); err != nil {
		return TaxRuleResponse{}, fmt.Errorf("failed to update tax rule: %w", err)
	}

	return toTaxRuleResponse(*rule), nil
}

func (s *taxRuleService) DeactivateTaxRule(ctx context.Context, id string) error {
	ruleID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid tax rule id: %w", err)
	}

	rule, err := s.repo.FindByID(ctx, ruleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("tax rule: %w", ErrNotFound)
		}
		return fmt.Errorf("failed to fetch tax rule: %w", err)
	}

	rule.Active = false
	if err := s.repo.Update(ctx, rule); err != nil {
		return fmt.Errorf("failed to deactivate tax rule: %w", err)
	}
	return nil
}

// ActiveRuleSet groups the active rules by kind into global and regional
// percentages. A store failure substitutes the built-in default rates
// instead of failing the request; the substitution is flagged so the
// calculation can surface a warning.
func (s *taxRuleService) ActiveRuleSet(ctx context.Context) model.RuleSet {
	rules, err := s.repo.FindActive(ctx)
	if err != nil {
		logger.L.Warn("tax rule store unreachable, using built-in default rates", "error", err)
		return defaultRuleSet()
	}

	rs := model.RuleSet{
		Global:   make(map[string]decimal.Decimal),
		Regional: make(map[string]map[string]decimal.Decimal),
	}

	for _, rule := range rules {
		switch rule.Scope {
		case model.TaxScopeGlobal:
			if _, exists := rs.Global[rule.TaxKind]; exists {
				logger.L.Warn("multiple active global rules for tax kind, keeping first", "kind", rule.TaxKind)
				continue
			}
			rs.Global[rule.TaxKind] = rule.Percentage
		case model.TaxScopeRegional:
			if rule.RegionCode == nil {
				continue
			}
			regional, ok := rs.Regional[rule.TaxKind]
			if !ok {
				regional = make(map[string]decimal.Decimal)
				rs.Regional[rule.TaxKind] = regional
			}
			if _, exists := regional[*rule.RegionCode]; exists {
				logger.L.Warn("multiple active regional rules for tax kind, keeping first",
					"kind", rule.TaxKind, "region", *rule.RegionCode)
				continue
			}
			regional[*rule.RegionCode] = rule.Percentage
		}
	}

	return rs
}

// defaultRuleSet is the hardcoded fallback used when the store is down.
// Correctness of these numbers is a deployment concern.
func defaultRuleSet() model.RuleSet {
	return model.RuleSet{
		Global: map[string]decimal.Decimal{
			model.TaxKindIVA:       decimal.NewFromInt(21),
			model.TaxKindPAIS:      decimal.NewFromInt(30),
			model.TaxKindGanancias: decimal.NewFromInt(30),
		},
		Regional: map[string]map[string]decimal.Decimal{
			model.TaxKindIIBB: {
				"CABA": decimal.NewFromInt(2),
				"BA":   decimal.NewFromFloat(3.5),
			},
		},
		Defaulted: true,
	}
}

// --- Helpers ---

func parsePercentage(raw string) (decimal.Decimal, error) {
	percentage, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid percentage value: %w", err)
	}
	if percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(100)) {
		return decimal.Zero, errors.New("percentage must be between 0 and 100")
	}
	return percentage, nil
}

func (s *taxRuleService) checkConflict(ctx context.Context, taxKind, scope string, regionCode *string, excludeID *uuid.UUID) error {
	count, err := s.repo.CountActiveConflicts(ctx, taxKind, scope, regionCode, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check rule conflicts: %w", err)
	}
	if count > 0 {
		if scope == model.TaxScopeRegional && regionCode != nil {
			return fmt.Errorf("an active %s rule already exists for region %s", taxKind, *regionCode)
		}
		return fmt.Errorf("an active global %s rule already exists", taxKind)
	}
	return nil
}

func toTaxRuleResponse(r model.TaxRule) TaxRuleResponse {
	return TaxRuleResponse{
		ID:          r.ID.String(),
		Name:        r.Name,
		TaxKind:     r.TaxKind,
		Percentage:  r.Percentage.String(),
		Scope:       r.Scope,
		RegionCode:  r.RegionCode,
		Active:      r.Active,
		Description: r.Description,
		CreatedAt:   r.CreatedAt.Format(time.RFC3339),
	}
}
