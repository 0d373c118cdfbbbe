package service

import (
	"testing"
	"time"

	"github.com/lautaromiller11/PayBoard2-sub000/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRuleSet() model.RuleSet {
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
	}
}

func usdQuote(sell float64) *model.RateQuote {
	return &model.RateQuote{
		Type:      model.RateTypeTarjeta,
		SellPrice: decimal.NewFromFloat(sell),
		Source:    "dolarapi",
		FetchedAt: time.Now().UTC(),
	}
}

func taxLine(t *testing.T, result CalculationResult, kind string) TaxLine {
	t.Helper()
	for _, line := range result.Breakdown.Taxes {
		if line.Kind == kind {
			return line
		}
	}
	t.Fatalf("no tax line for kind %s", kind)
	return TaxLine{}
}

func TestCalculate_ForeignCurrencyVATExemptRegion(t *testing.T) {
	input := CalculationInput{
		Price:         decimal.RequireFromString("9.99"),
		Currency:      model.CurrencyUSD,
		Region:        "TDF",
		PaymentMethod: model.PaymentMethodCreditCard,
	}

	result := Calculate(input, testRuleSet(), usdQuote(1000))

	assert.Equal(t, "9990.00", result.Breakdown.BasePriceLocal.StringFixed(2))

	iva := taxLine(t, result, model.TaxKindIVA)
	assert.False(t, iva.Applied)
	assert.True(t, iva.Amount.IsZero())
	assert.Contains(t, iva.Reason, "TDF")

	pais := taxLine(t, result, model.TaxKindPAIS)
	assert.True(t, pais.Applied)
	assert.Equal(t, "2997.00", pais.Amount.StringFixed(2))

	ganancias := taxLine(t, result, model.TaxKindGanancias)
	assert.True(t, ganancias.Applied)
	assert.Equal(t, "2997.00", ganancias.Amount.StringFixed(2))

	iibb := taxLine(t, result, model.TaxKindIIBB)
	assert.False(t, iibb.Applied)
	assert.True(t, iibb.Amount.IsZero())

	assert.Equal(t, "15984.00", result.Breakdown.Total.StringFixed(2))
	assert.Equal(t, []string{"PAIS:30%", "GANANCIAS:30%"}, result.Meta.RulesApplied)
}

func TestCalculate_LocalCurrencyRegionalRule(t *testing.T) {
	input := CalculationInput{
		Price:         decimal.NewFromInt(1000),
		Currency:      model.CurrencyARS,
		Region:        "CABA",
		PaymentMethod: model.PaymentMethodDigitalWallet,
	}

	result := Calculate(input, testRuleSet(), nil)

	assert.Equal(t, "1000.00", result.Breakdown.BasePriceLocal.StringFixed(2))

	iva := taxLine(t, result, model.TaxKindIVA)
	assert.True(t, iva.Applied)
	assert.Equal(t, "210.00", iva.Amount.StringFixed(2))

	// Foreign-currency taxes are skipped for ARS purchases.
	assert.False(t, taxLine(t, result, model.TaxKindPAIS).Applied)
	assert.False(t, taxLine(t, result, model.TaxKindGanancias).Applied)

	iibb := taxLine(t, result, model.TaxKindIIBB)
	assert.True(t, iibb.Applied)
	assert.True(t, iibb.Regional)
	assert.Equal(t, "20.00", iibb.Amount.StringFixed(2))

	assert.Equal(t, "1230.00", result.Breakdown.Total.StringFixed(2))
	assert.Equal(t, []string{"IVA:21%", "IIBB(CABA):2%"}, result.Meta.RulesApplied)
}

func TestCalculate_CryptoSkipsAllTaxes(t *testing.T) {
	input := CalculationInput{
		Price:         decimal.NewFromInt(500),
		Currency:      model.CurrencyUSD,
		Region:        "CABA",
		PaymentMethod: model.PaymentMethodCrypto,
	}

	result := Calculate(input, testRuleSet(), usdQuote(1200))

	assert.Empty(t, result.Breakdown.Taxes)
	assert.Equal(t, "600000.00", result.Breakdown.BasePriceLocal.StringFixed(2))
	assert.True(t, result.Breakdown.Total.Equal(result.Breakdown.BasePriceLocal))
	assert.Empty(t, result.Meta.RulesApplied)
	require.Len(t, result.Meta.Warnings, 1)
	assert.Contains(t, result.Meta.Warnings[0], model.PaymentMethodCrypto)
}

func TestCalculate_WithholdingExemptMethodsOnForeignCurrency(t *testing.T) {
	for _, method := range []string{model.PaymentMethodDebitCard, model.PaymentMethodDigitalWallet} {
		input := CalculationInput{
			Price:         decimal.NewFromInt(10),
			Currency:      model.CurrencyUSD,
			Region:        "BA",
			PaymentMethod: method,
		}

		result := Calculate(input, testRuleSet(), usdQuote(1000))

		ganancias := taxLine(t, result, model.TaxKindGanancias)
		assert.False(t, ganancias.Applied, method)
		assert.Contains(t, ganancias.Reason, method)

		// The other foreign-currency tax still applies.
		assert.True(t, taxLine(t, result, model.TaxKindPAIS).Applied, method)
	}
}

func TestCalculate_RoundsHalfUpPerLine(t *testing.T) {
	input := CalculationInput{
		Price:         decimal.RequireFromString("333.33"),
		Currency:      model.CurrencyARS,
		Region:        "XX-NONE", // no regional rule
		PaymentMethod: model.PaymentMethodCash,
	}

	result := Calculate(input, testRuleSet(), nil)

	// 333.33 * 21% = 69.9993 -> 70.00
	iva := taxLine(t, result, model.TaxKindIVA)
	assert.Equal(t, "70.00", iva.Amount.StringFixed(2))
	assert.Equal(t, "403.33", result.Breakdown.Total.StringFixed(2))
}

func TestCalculate_TotalEqualsBasePlusTaxes(t *testing.T) {
	input := CalculationInput{
		Price:         decimal.RequireFromString("123.45"),
		Currency:      model.CurrencyUSD,
		Region:        "BA",
		PaymentMethod: model.PaymentMethodCreditCard,
	}

	result := Calculate(input, testRuleSet(), usdQuote(987.65))

	sum := result.Breakdown.BasePriceLocal
	for _, line := range result.Breakdown.Taxes {
		sum = sum.Add(line.Amount)
	}
	assert.True(t, result.Breakdown.Total.Equal(sum),
		"total %s != base+taxes %s", result.Breakdown.Total, sum)
}

func TestCalculate_Deterministic(t *testing.T) {
	input := CalculationInput{
		Price:         decimal.RequireFromString("55.5"),
		Currency:      model.CurrencyUSD,
		Region:        "CABA",
		PaymentMethod: model.PaymentMethodBankTransfer,
	}
	quote := usdQuote(1111.11)
	rules := testRuleSet()

	first := Calculate(input, rules, quote)
	second := Calculate(input, rules, quote)

	assert.Equal(t, first.Breakdown, second.Breakdown)
	assert.Equal(t, first.Meta, second.Meta)
}

func TestCalculate_DefaultedRuleSetWarning(t *testing.T) {
	rules := testRuleSet()
	rules.Defaulted = true

	input := CalculationInput{
		Price:         decimal.NewFromInt(100),
		Currency:      model.CurrencyARS,
		Region:        "CABA",
		PaymentMethod: model.PaymentMethodCash,
	}

	result := Calculate(input, rules, nil)

	require.NotEmpty(t, result.Meta.Warnings)
	assert.Contains(t, result.Meta.Warnings[len(result.Meta.Warnings)-1], "default rates")
}

func TestCalculate_NoRulesMeansZeroTaxes(t *testing.T) {
	input := CalculationInput{
		Price:         decimal.NewFromInt(100),
		Currency:      model.CurrencyARS,
		Region:        "CABA",
		PaymentMethod: model.PaymentMethodCash,
	}

	result := Calculate(input, model.RuleSet{}, nil)

	for _, line := range result.Breakdown.Taxes {
		assert.False(t, line.Applied)
		assert.True(t, line.Amount.IsZero())
	}
	assert.Equal(t, "100.00", result.Breakdown.Total.StringFixed(2))
}
