package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/lautaromiller11/PayBoard2-sub000/internal/logger"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/model"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/repository"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/websocket"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// --- DTOs ---

// CalculationRequest carries the raw query parameters of a calculation call.
// Validation is done in the service so every invalid field is reported, not
// just the first one gin's binding would reject.
type CalculationRequest struct {
	Price           string `form:"price"`
	Currency        string `form:"currency"`
	Region          string `form:"region"`
	PaymentMethod   string `form:"paymentMethod"`
	ProductCategory string `form:"productCategory"`
}

type CalculationInputResponse struct {
	Price           string `json:"price"`
	Currency        string `json:"currency"`
	Region          string `json:"region"`
	PaymentMethod   string `json:"payment_method"`
	ProductCategory string `json:"product_category"`
}

type TaxLineResponse struct {
	Kind    string `json:"kind"`
	Rate    string `json:"rate"`
	Amount  string `json:"amount"`
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
}

type CalculationBreakdownResponse struct {
	BasePriceLocal string            `json:"base_price_local"`
	Taxes          []TaxLineResponse `json:"taxes"`
	Total          string            `json:"total"`
}

type CalculationResponse struct {
	Input     CalculationInputResponse     `json:"input"`
	QuoteUsed *RateQuoteResponse           `json:"quote_used"`
	Breakdown CalculationBreakdownResponse `json:"breakdown"`
	Meta      CalculationMeta              `json:"meta"`
}

// HealthReport describes the reachability of the calculation dependencies.
type HealthReport struct {
	Status     string            `json:"status"` // "ok" or "degraded"
	Components map[string]string `json:"components"`
}

// --- Interface ---

// TaxCalculationService orchestrates a calculation: validate, resolve rules,
// resolve the quote if the price is in a foreign currency, compute, and log
// the result without ever blocking the response on the log write.
type TaxCalculationService interface {
	Calculate(ctx context.Context, userID string, req CalculationRequest) (*CalculationResponse, error)
	Regions() []string
	PaymentMethods() []model.PaymentMethodOption
	RefreshRates(ctx context.Context) []RateRefreshResult
	Health(ctx context.Context) HealthReport
}

type taxCalcService struct {
	rules    TaxRuleService
	rates    RatesService
	calcLogs repository.CalculationLogRepository
	db       *gorm.DB
	hub      *websocket.Hub
}

func NewTaxCalculationService(rules TaxRuleService, rates RatesService, calcLogs repository.CalculationLogRepository, db *gorm.DB, hub *websocket.Hub) TaxCalculationService {
	return &taxCalcService{
		rules:    rules,
		rates:    rates,
		calcLogs: calcLogs,
		db:       db,
		hub:      hub,
	}
}

// --- Implementation ---

func (s *taxCalcService) Calculate(ctx context.Context, userID string, req CalculationRequest) (*CalculationResponse, error) {
	input, verr := s.validate(req)
	if verr != nil {
		return nil, verr
	}

	ruleSet := s.rules.ActiveRuleSet(ctx)

	var quote *model.RateQuote
	if input.Currency != model.CurrencyARS {
		var err error
		quote, err = s.rates.GetQuoteForMethod(ctx, input.PaymentMethod)
		if err != nil {
			return nil, err
		}
	}

	result := Calculate(input, ruleSet, quote)

	// Fire-and-forget audit log with its own deadline and error boundary.
	go s.logCalculation(userID, result)

	return toCalculationResponse(result), nil
}

func (s *taxCalcService) Regions() []string {
	return model.Regions()
}

func (s *taxCalcService) PaymentMethods() []model.PaymentMethodOption {
	return model.PaymentMethodOptions()
}

func (s *taxCalcService) RefreshRates(ctx context.Context) []RateRefreshResult {
	results := s.rates.RefreshAll(ctx)

	if s.hub != nil {
		s.hub.BroadcastEvent("rates_refreshed", results)
	}

	return results
}

func (s *taxCalcService) Health(ctx context.Context) HealthReport {
	report := HealthReport{Status: "ok", Components: make(map[string]string)}

	report.Components["database"] = "ok"
	sqlDB, err := s.db.DB()
	if err != nil {
		report.Components["database"] = "unavailable"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		report.Components["database"] = "unavailable"
	}

	// The quote cache is in-process; it cannot be unreachable.
	report.Components["cache"] = "ok"

	report.Components["rate_provider"] = "ok"
	if !s.rates.ProviderHealthy(ctx) {
		report.Components["rate_provider"] = "unavailable"
	}

	for _, state := range report.Components {
		if state != "ok" {
			report.Status = "degraded"
			break
		}
	}
	return report
}

// --- Validation ---

func (s *taxCalcService) validate(req CalculationRequest) (CalculationInput, *ValidationError) {
	var fields []string

	var price decimal.Decimal
	if strings.TrimSpace(req.Price) == "" {
		fields = append(fields, "price is required")
	} else {
		parsed, err := decimal.NewFromString(req.Price)
		switch {
		case err != nil:
			fields = append(fields, fmt.Sprintf("price %q is not a valid number", req.Price))
		case !parsed.IsPositive():
			fields = append(fields, "price must be greater than 0")
		default:
			price = parsed
		}
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		fields = append(fields, "currency is required")
	} else if currency != model.CurrencyARS && currency != model.CurrencyUSD {
		fields = append(fields, fmt.Sprintf("currency %q is not supported (expected %s or %s)",
			req.Currency, model.CurrencyARS, model.CurrencyUSD))
	}

	region := strings.ToUpper(strings.TrimSpace(req.Region))
	if region == "" {
		fields = append(fields, "region is required")
	} else if !model.ValidRegion(region) {
		fields = append(fields, fmt.Sprintf("region %q is not a valid region code", req.Region))
	}

	method := strings.ToLower(strings.TrimSpace(req.PaymentMethod))
	if method == "" {
		fields = append(fields, "paymentMethod is required")
	} else if !model.ValidPaymentMethod(method) {
		fields = append(fields, fmt.Sprintf("paymentMethod %q is not supported", req.PaymentMethod))
	} else if _, mapped := s.rates.RateTypeFor(method); !mapped {
		fields = append(fields, fmt.Sprintf("paymentMethod %q has no exchange rate mapping", req.PaymentMethod))
	}

	category := strings.TrimSpace(req.ProductCategory)
	if category == "" {
		category = "other"
	}

	if len(fields) > 0 {
		return CalculationInput{}, &ValidationError{Fields: fields}
	}

	return CalculationInput{
		Price:           price,
		Currency:        currency,
		Region:          region,
		PaymentMethod:   method,
		ProductCategory: category,
	}, nil
}

// --- Logging ---

func (s *taxCalcService) logCalculation(userID string, result CalculationResult) {
	defer func() {
		if r := recover(); r != nil {
			logger.L.Error("panic while writing calculation log", "panic", r)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	inputJSON, _ := json.Marshal(result.Input)
	outputJSON, _ := json.Marshal(struct {
		Breakdown CalculationBreakdown `json:"breakdown"`
		Meta      CalculationMeta      `json:"meta"`
	}{result.Breakdown, result.Meta})

	entry := &model.CalculationLog{
		Input:  string(inputJSON),
		Output: string(outputJSON),
	}
	if result.QuoteUsed != nil {
		rateJSON, _ := json.Marshal(result.QuoteUsed)
		entry.RateSnapshot = string(rateJSON)
	}
	if userID != "" {
		if parsed, err := uuid.Parse(userID); err == nil {
			entry.UserID = &parsed
		}
	}

	if err := s.calcLogs.Log(ctx, entry); err != nil {
		logger.L.Warn("failed to persist calculation log", "error", err)
	}
}

// --- Helpers ---

func toCalculationResponse(result CalculationResult) *CalculationResponse {
	resp := &CalculationResponse{
		Input: CalculationInputResponse{
			Price:           result.Input.Price.String(),
			Currency:        result.Input.Currency,
			Region:          result.Input.Region,
			PaymentMethod:   result.Input.PaymentMethod,
			ProductCategory: result.Input.ProductCategory,
		},
		QuoteUsed: toRateQuoteResponse(result.QuoteUsed),
		Breakdown: CalculationBreakdownResponse{
			BasePriceLocal: result.Breakdown.BasePriceLocal.StringFixed(2),
			Taxes:          make([]TaxLineResponse, 0, len(result.Breakdown.Taxes)),
			Total:          result.Breakdown.Total.StringFixed(2),
		},
		Meta: result.Meta,
	}

	for _, line := range result.Breakdown.Taxes {
		resp.Breakdown.Taxes = append(resp.Breakdown.Taxes, TaxLineResponse{
			Kind:    line.Kind,
			Rate:    line.Rate.String(),
			Amount:  line.Amount.StringFixed(2),
			Applied: line.Applied,
			Reason:  line.Reason,
		})
	}

	return resp
}
