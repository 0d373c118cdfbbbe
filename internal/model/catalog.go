package model

import "sort"

// Currency constants. ARS is the local currency; every breakdown is
// expressed in it.
const (
	CurrencyARS = "ARS"
	CurrencyUSD = "USD"
)

// Payment method constants
const (
	PaymentMethodCreditCard    = "credit_card"
	PaymentMethodDebitCard     = "debit_card"
	PaymentMethodCash          = "cash"
	PaymentMethodBankTransfer  = "bank_transfer"
	PaymentMethodDigitalWallet = "digital_wallet"
	PaymentMethodCrypto        = "crypto"
)

// paymentMethodLabels maps each supported method to its human label.
var paymentMethodLabels = map[string]string{
	PaymentMethodCreditCard:    "Tarjeta de crédito",
	PaymentMethodDebitCard:     "Tarjeta de débito",
	PaymentMethodCash:          "Efectivo",
	PaymentMethodBankTransfer:  "Transferencia bancaria",
	PaymentMethodDigitalWallet: "Billetera virtual",
	PaymentMethodCrypto:        "Criptomonedas",
}

// defaultMethodRateTypes maps each payment method to the rate type used to
// convert foreign-currency prices.
var defaultMethodRateTypes = map[string]string{
	PaymentMethodCreditCard:    RateTypeTarjeta,
	PaymentMethodDebitCard:     RateTypeOficial,
	PaymentMethodCash:          RateTypeBlue,
	PaymentMethodBankTransfer:  RateTypeOficial,
	PaymentMethodDigitalWallet: RateTypeOficial,
	PaymentMethodCrypto:        RateTypeCripto,
}

// validRegions holds the 24 Argentine first-level jurisdiction codes.
var validRegions = map[string]bool{
	"CABA": true, "BA": true, "CAT": true, "CHA": true, "CHU": true,
	"CBA": true, "CRR": true, "ER": true, "FOR": true, "JUJ": true,
	"LP": true, "LR": true, "MZA": true, "MIS": true, "NQN": true,
	"RN": true, "SAL": true, "SJ": true, "SL": true, "SC": true,
	"SF": true, "SE": true, "TDF": true, "TUC": true,
}

// RegionVATExempt is the jurisdiction where VAT never applies regardless of
// configured rules (Tierra del Fuego free-trade regime).
const RegionVATExempt = "TDF"

// PaymentMethodOption is a {value, label} pair for selection lists.
type PaymentMethodOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// DefaultMethodRateTypes returns a copy of the built-in payment-method to
// rate-type mapping so callers can override entries without touching the
// package-level table.
func DefaultMethodRateTypes() map[string]string {
	m := make(map[string]string, len(defaultMethodRateTypes))
	for k, v := range defaultMethodRateTypes {
		m[k] = v
	}
	return m
}

// PaymentMethodOptions returns the supported methods with labels, sorted by value.
func PaymentMethodOptions() []PaymentMethodOption {
	opts := make([]PaymentMethodOption, 0, len(paymentMethodLabels))
	for value, label := range paymentMethodLabels {
		opts = append(opts, PaymentMethodOption{Value: value, Label: label})
	}
	sort.Slice(opts, func(i, j int) bool { return opts[i].Value < opts[j].Value })
	return opts
}

// ValidRegion reports whether code is a known jurisdiction.
func ValidRegion(code string) bool {
	return validRegions[code]
}

// Regions returns the sorted list of valid jurisdiction codes.
func Regions() []string {
	codes := make([]string, 0, len(validRegions))
	for code := range validRegions {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// ValidPaymentMethod reports whether method is supported.
func ValidPaymentMethod(method string) bool {
	_, ok := paymentMethodLabels[method]
	return ok
}
