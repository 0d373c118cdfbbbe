package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lautaromiller11/PayBoard2-sub000/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fakeTaxRuleRepo is an in-memory TaxRuleRepository.
type fakeTaxRuleRepo struct {
	rules     map[uuid.UUID]*model.TaxRule
	findErr   error
	activeErr error
}

func newFakeTaxRuleRepo() *fakeTaxRuleRepo {
	return &fakeTaxRuleRepo{rules: map[uuid.UUID]*model.TaxRule{}}
}

func (r *fakeTaxRuleRepo) Create(_ context.Context, rule *model.TaxRule) error {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	copied := *rule
	r.rules[rule.ID] = &copied
	return nil
}

func (r *fakeTaxRuleRepo) Update(_ context.Context, rule *model.TaxRule) error {
	copied := *rule
	r.rules[rule.ID] = &copied
	return nil
}

func (r *fakeTaxRuleRepo) FindByID(_ context.Context, id uuid.UUID) (*model.TaxRule, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	rule, ok := r.rules[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *rule
	return &copied, nil
}

func (r *fakeTaxRuleRepo) List(_ context.Context, page, limit int) ([]model.TaxRule, int64, error) {
	var out []model.TaxRule
	for _, rule := range r.rules {
		out = append(out, *rule)
	}
	return out, int64(len(out)), nil
}

func (r *fakeTaxRuleRepo) FindActive(_ context.Context) ([]model.TaxRule, error) {
	if r.activeErr != nil {
		return nil, r.activeErr
	}
	var out []model.TaxRule
	for _, rule := range r.rules {
		if rule.Active {
			out = append(out, *rule)
		}
	}
	return out, nil
}

func (r *fakeTaxRuleRepo) CountActiveConflicts(_ context.Context, taxKind, scope string, regionCode *string, excludeID *uuid.UUID) (int64, error) {
	var count int64
	for _, rule := range r.rules {
		if !rule.Active || rule.TaxKind != taxKind || rule.Scope != scope {
			continue
		}
		if excludeID != nil && rule.ID == *excludeID {
			continue
		}
		if scope == model.TaxScopeRegional && regionCode != nil {
			if rule.RegionCode == nil || *rule.RegionCode != *regionCode {
				continue
			}
		}
		count++
	}
	return count, nil
}

func seedRule(t *testing.T, repo *fakeTaxRuleRepo, kind, scope string, region *string, pct string, active bool) *model.TaxRule {
	t.Helper()
	rule := &model.TaxRule{
		Name:       kind + " rule",
		TaxKind:    kind,
		Percentage: decimal.RequireFromString(pct),
		Scope:      scope,
		RegionCode: region,
		Active:     active,
	}
	require.NoError(t, repo.Create(context.Background(), rule))
	return rule
}

func strPtr(s string) *string { return &s }

func TestTaxRuleService_ActiveRuleSetGroupsByScopeAndRegion(t *testing.T) {
	repo := newFakeTaxRuleRepo()
	seedRule(t, repo, model.TaxKindIVA, model.TaxScopeGlobal, nil, "21", true)
	seedRule(t, repo, model.TaxKindIIBB, model.TaxScopeRegional, strPtr("CABA"), "2", true)
	seedRule(t, repo, model.TaxKindIIBB, model.TaxScopeRegional, strPtr("BA"), "3.5", true)
	seedRule(t, repo, model.TaxKindPAIS, model.TaxScopeGlobal, nil, "30", false) // inactive, ignored

	rs := NewTaxRuleService(repo).ActiveRuleSet(context.Background())

	assert.False(t, rs.Defaulted)

	rate, regional := rs.EffectiveRate(model.TaxKindIVA, "CABA")
	assert.False(t, regional)
	assert.Equal(t, "21", rate.String())

	rate, regional = rs.EffectiveRate(model.TaxKindIIBB, "BA")
	assert.True(t, regional)
	assert.Equal(t, "3.5", rate.String())

	rate, _ = rs.EffectiveRate(model.TaxKindPAIS, "CABA")
	assert.True(t, rate.IsZero(), "inactive rules must not contribute")
}

func TestTaxRuleService_ActiveRuleSetFallsBackOnStoreFailure(t *testing.T) {
	repo := newFakeTaxRuleRepo()
	repo.activeErr = errors.New("connection refused")

	rs := NewTaxRuleService(repo).ActiveRuleSet(context.Background())

	assert.True(t, rs.Defaulted)

	rate, _ := rs.EffectiveRate(model.TaxKindIVA, "CABA")
	assert.Equal(t, "21", rate.String())
	rate, regional := rs.EffectiveRate(model.TaxKindIIBB, "CABA")
	assert.True(t, regional)
	assert.Equal(t, "2", rate.String())
}

func TestTaxRuleService_CreateRejectsConflictingActiveRule(t *testing.T) {
	repo := newFakeTaxRuleRepo()
	seedRule(t, repo, model.TaxKindIVA, model.TaxScopeGlobal, nil, "21", true)
	svc := NewTaxRuleService(repo)

	_, err := svc.CreateTaxRule(context.Background(), CreateTaxRuleRequest{
		Name:       "duplicate IVA",
		TaxKind:    model.TaxKindIVA,
		Percentage: "19",
		Scope:      model.TaxScopeGlobal,
		Active:     true,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestTaxRuleService_CreateAllowsInactiveDuplicate(t *testing.T) {
	repo := newFakeTaxRuleRepo()
	seedRule(t, repo, model.TaxKindIVA, model.TaxScopeGlobal, nil, "21", true)
	svc := NewTaxRuleService(repo)

	resp, err := svc.CreateTaxRule(context.Background(), CreateTaxRuleRequest{
		Name:       "draft IVA",
		TaxKind:    model.TaxKindIVA,
		Percentage: "19",
		Scope:      model.TaxScopeGlobal,
		Active:     false,
	})
	require.NoError(t, err)
	assert.False(t, resp.Active)
}

func TestTaxRuleService_CreateValidation(t *testing.T) {
	svc := NewTaxRuleService(newFakeTaxRuleRepo())
	ctx := context.Background()

	_, err := svc.CreateTaxRule(ctx, CreateTaxRuleRequest{
		Name: "bad pct", TaxKind: model.TaxKindIVA, Percentage: "150", Scope: model.TaxScopeGlobal,
	})
	assert.ErrorContains(t, err, "between 0 and 100")

	_, err = svc.CreateTaxRule(ctx, CreateTaxRuleRequest{
		Name: "bad region", TaxKind: model.TaxKindIIBB, Percentage: "2",
		Scope: model.TaxScopeRegional, RegionCode: "ZZ",
	})
	assert.ErrorContains(t, err, "not a valid region")

	_, err = svc.CreateTaxRule(ctx, CreateTaxRuleRequest{
		Name: "global with region", TaxKind: model.TaxKindIVA, Percentage: "21",
		Scope: model.TaxScopeGlobal, RegionCode: "CABA",
	})
	assert.ErrorContains(t, err, "must be empty")
}

func TestTaxRuleService_UpdateReactivationChecksConflicts(t *testing.T) {
	repo := newFakeTaxRuleRepo()
	active := seedRule(t, repo, model.TaxKindIVA, model.TaxScopeGlobal, nil, "21", true)
	dormant := seedRule(t, repo, model.TaxKindIVA, model.TaxScopeGlobal, nil, "19", false)
	svc := NewTaxRuleService(repo)

	_, err := svc.UpdateTaxRule(context.Background(), dormant.ID.String(), UpdateTaxRuleRequest{
		Name: dormant.Name, Percentage: "19", Active: true,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	// Deactivating the blocker unblocks reactivation.
	require.NoError(t, svc.DeactivateTaxRule(context.Background(), active.ID.String()))
	_, err = svc.UpdateTaxRule(context.Background(), dormant.ID.String(), UpdateTaxRuleRequest{
		Name: dormant.Name, Percentage: "19", Active: true,
	})
	assert.NoError(t, err)
}

func TestTaxRuleService_NotFound(t *testing.T) {
	svc := NewTaxRuleService(newFakeTaxRuleRepo())

	_, err := svc.UpdateTaxRule(context.Background(), uuid.NewString(), UpdateTaxRuleRequest{
		Name: "x", Percentage: "1",
	})
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.DeactivateTaxRule(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}
