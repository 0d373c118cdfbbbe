package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Tax kind constants
const (
	TaxKindIVA       = "IVA"       // value-added tax
	TaxKindPAIS      = "PAIS"      // country tax on foreign-currency purchases
	TaxKindGanancias = "GANANCIAS" // income-tax withholding
	TaxKindIIBB      = "IIBB"      // regional gross-receipts tax
)

// Scope constants
const (
	TaxScopeGlobal   = "global"
	TaxScopeRegional = "regional"
)

// TaxKinds lists every tax kind in the order they are evaluated and reported.
var TaxKinds = []string{TaxKindIVA, TaxKindPAIS, TaxKindGanancias, TaxKindIIBB}

// TaxRule stores a configured tax percentage, either global or scoped to a
// region. At most one active rule may exist per kind (global) or per
// kind+region (regional); the service layer enforces this on writes.
type TaxRule struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	TaxKind     string          `gorm:"type:varchar(20);not null;index" json:"tax_kind"`
	Percentage  decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"percentage"` // e.g. 21 = 21%
	Scope       string          `gorm:"type:varchar(20);not null" json:"scope"`
	RegionCode  *string         `gorm:"type:varchar(10);index" json:"region_code"` // required iff scope = regional
	Active      bool            `gorm:"not null;default:true;index" json:"active"`
	Description string          `gorm:"type:text" json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// RuleSet is the resolved view of the active rules: percentage per tax kind,
// globally and per region. Defaulted marks that the built-in fallback rates
// were substituted because the store was unreachable.
type RuleSet struct {
	Global    map[string]decimal.Decimal
	Regional  map[string]map[string]decimal.Decimal
	Defaulted bool
}

// EffectiveRate resolves the percentage for a tax kind in a region. A regional
// override takes precedence over the global rate; with neither configured the
// rate is zero. The second return reports whether the rate came from a
// regional override.
func (rs RuleSet) EffectiveRate(taxKind, regionCode string) (decimal.Decimal, bool) {
	if regional, ok := rs.Regional[taxKind]; ok {
		if rate, ok := regional[regionCode]; ok {
			return rate, true
		}
	}
	if rate, ok := rs.Global[taxKind]; ok {
		return rate, false
	}
	return decimal.Zero, false
}
