package service

import (
	"fmt"

	"github.com/lautaromiller11/PayBoard2-sub000/internal/model"

	"github.com/shopspring/decimal"
)

// CalculationInput is a validated tax calculation request. Price is positive,
// currency/region/payment method are members of their fixed sets.
type CalculationInput struct {
	Price           decimal.Decimal `json:"price"`
	Currency        string          `json:"currency"`
	Region          string          `json:"region"`
	PaymentMethod   string          `json:"payment_method"`
	ProductCategory string          `json:"product_category"`
}

// TaxLine is one computed tax component. A line skipped by a policy override
// carries Applied=false with a Reason, which distinguishes it from a rate
// that is legitimately zero.
type TaxLine struct {
	Kind     string          `json:"kind"`
	Rate     decimal.Decimal `json:"rate"`
	Amount   decimal.Decimal `json:"amount"`
	Applied  bool            `json:"applied"`
	Regional bool            `json:"regional"`
	Reason   string          `json:"reason,omitempty"`
}

type CalculationBreakdown struct {
	BasePriceLocal decimal.Decimal `json:"base_price_local"`
	Taxes          []TaxLine       `json:"taxes"`
	Total          decimal.Decimal `json:"total"`
}

type CalculationMeta struct {
	RulesApplied []string `json:"rules_applied"`
	Warnings     []string `json:"warnings"`
}

// CalculationResult is the full outcome of one calculation. It is built once
// and never mutated afterwards.
type CalculationResult struct {
	Input     CalculationInput     `json:"input"`
	QuoteUsed *model.RateQuote     `json:"quote_used"`
	Breakdown CalculationBreakdown `json:"breakdown"`
	Meta      CalculationMeta      `json:"meta"`
}

// withholdingExemptMethods are payment methods settled from local-currency
// accounts; income-tax withholding never applies to them.
var withholdingExemptMethods = map[string]bool{
	model.PaymentMethodDigitalWallet: true,
	model.PaymentMethodDebitCard:     true,
}

var hundred = decimal.NewFromInt(100)

// Calculate is a pure function from a validated input, a rule set and an
// optional quote to an itemized result. It is total over valid inputs: it
// never fails, and Total always equals BasePriceLocal plus the sum of tax
// amounts, exact to 2 decimals (half-up rounding).
//
// quote must be non-nil iff the input currency is not ARS.
func Calculate(input CalculationInput, rules model.RuleSet, quote *model.RateQuote) CalculationResult {
	base := input.Price
	if input.Currency != model.CurrencyARS && quote != nil {
		base = input.Price.Mul(quote.SellPrice)
	}
	base = base.Round(2)

	result := CalculationResult{
		Input:     input,
		QuoteUsed: quote,
		Breakdown: CalculationBreakdown{BasePriceLocal: base},
		Meta:      CalculationMeta{RulesApplied: []string{}, Warnings: []string{}},
	}

	// The crypto exemption short-circuits before any rule lookup.
	if input.PaymentMethod == model.PaymentMethodCrypto {
		result.Breakdown.Taxes = []TaxLine{}
		result.Breakdown.Total = base
		result.Meta.Warnings = append(result.Meta.Warnings,
			"no taxes applied for payment method "+model.PaymentMethodCrypto)
		return result
	}

	foreign := input.Currency != model.CurrencyARS
	total := base

	for _, kind := range model.TaxKinds {
		rate, regional := rules.EffectiveRate(kind, input.Region)
		line := TaxLine{Kind: kind, Rate: rate, Regional: regional}

		switch {
		case kind == model.TaxKindIVA && input.Region == model.RegionVATExempt:
			line.Rate = decimal.Zero
			line.Regional = false
			line.Reason = fmt.Sprintf("%s does not apply in region %s", kind, model.RegionVATExempt)
		case (kind == model.TaxKindPAIS || kind == model.TaxKindGanancias) && !foreign:
			line.Rate = decimal.Zero
			line.Regional = false
			line.Reason = fmt.Sprintf("%s only applies to purchases originating in a foreign currency", kind)
		case kind == model.TaxKindGanancias && withholdingExemptMethods[input.PaymentMethod]:
			line.Rate = decimal.Zero
			line.Regional = false
			line.Reason = fmt.Sprintf("%s does not apply for payment method %s (local-currency account)", kind, input.PaymentMethod)
		default:
			line.Amount = base.Mul(rate).Div(hundred).Round(2)
			line.Applied = rate.IsPositive()
		}

		if line.Reason != "" {
			result.Meta.Warnings = append(result.Meta.Warnings, line.Reason)
		}
		if line.Applied {
			result.Meta.RulesApplied = append(result.Meta.RulesApplied, formatRuleApplied(line, input.Region))
		}

		total = total.Add(line.Amount)
		result.Breakdown.Taxes = append(result.Breakdown.Taxes, line)
	}

	if rules.Defaulted {
		result.Meta.Warnings = append(result.Meta.Warnings,
			"tax rule store unavailable; built-in default rates were applied")
	}

	result.Breakdown.Total = total.Round(2)
	return result
}

func formatRuleApplied(line TaxLine, region string) string {
	if line.Regional {
		return fmt.Sprintf("%s(%s):%s%%", line.Kind, region, line.Rate.String())
	}
	return fmt.Sprintf("%s:%s%%", line.Kind, line.Rate.String())
}
