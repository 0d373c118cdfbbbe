package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/lautaromiller11/PayBoard2-sub000/internal/logger"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/model"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/rates"
	"github.com/lautaromiller11/PayBoard2-sub000/internal/repository"
)

// --- DTOs ---

type RateQuoteResponse struct {
	Type      string  `json:"type"`
	BuyPrice  *string `json:"buy_price"`
	SellPrice string  `json:"sell_price"`
	Source    string  `json:"source"`
	FetchedAt string  `json:"fetched_at"`
	IsStale   bool    `json:"is_stale"`
}

// RateRefreshResult is the outcome of refreshing one rate type.
type RateRefreshResult struct {
	Type   string             `json:"type"`
	Status string             `json:"status"` // "ok" or "error"
	Quote  *RateQuoteResponse `json:"quote,omitempty"`
	Error  string             `json:"error,omitempty"`
}

// --- Interface ---

// RatesService resolves the freshest available quote for a rate type,
// minimizing external calls. Resolution order: fresh cache entry, live
// provider fetch (write-through to cache and history), most recent
// historical quote marked stale. Only when all three come up empty does the
// operation fail, with ErrRateUnavailable.
type RatesService interface {
	GetQuote(ctx context.Context, rateType string) (*model.RateQuote, error)
	GetQuoteForMethod(ctx context.Context, paymentMethod string) (*model.RateQuote, error)
	RateTypeFor(paymentMethod string) (string, bool)
	RefreshAll(ctx context.Context) []RateRefreshResult
	ProviderHealthy(ctx context.Context) bool
}

type ratesService struct {
	provider    rates.Provider
	cache       *rates.QuoteCache
	history     repository.RateQuoteRepository
	methodRates map[string]string
}

// NewRatesService wires the three fallback tiers. methodRates maps payment
// methods to rate types; nil selects the built-in mapping. The map is copied
// so callers cannot mutate it afterwards.
func NewRatesService(provider rates.Provider, cache *rates.QuoteCache, history repository.RateQuoteRepository, methodRates map[string]string) RatesService {
	if methodRates == nil {
		methodRates = model.DefaultMethodRateTypes()
	} else {
		copied := make(map[string]string, len(methodRates))
		for k, v := range methodRates {
			copied[k] = v
		}
		methodRates = copied
	}

	return &ratesService{
		provider:    provider,
		cache:       cache,
		history:     history,
		methodRates: methodRates,
	}
}

// --- Implementation ---

func (s *ratesService) RateTypeFor(paymentMethod string) (string, bool) {
	rateType, ok := s.methodRates[paymentMethod]
	return rateType, ok
}

func (s *ratesService) GetQuoteForMethod(ctx context.Context, paymentMethod string) (*model.RateQuote, error) {
	rateType, ok := s.RateTypeFor(paymentMethod)
	if !ok {
		// Unmapped methods are caught by request validation; reaching here is a wiring bug.
		return nil, fmt.Errorf("no rate type mapped for payment method %q", paymentMethod)
	}
	return s.GetQuote(ctx, rateType)
}

func (s *ratesService) GetQuote(ctx context.Context, rateType string) (*model.RateQuote, error) {
	// Tier 1: fresh cache hit, no network call.
	if cached, found := s.cache.Get(rateType); found && !cached.IsStale {
		return cached, nil
	}

	return s.fetchWithFallback(ctx, rateType)
}

// fetchWithFallback runs tiers 2 and 3: live fetch with write-through, then
// last-known historical quote.
func (s *ratesService) fetchWithFallback(ctx context.Context, rateType string) (*model.RateQuote, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, rates.FetchTimeout)
	defer cancel()

	quote, fetchErr := s.provider.Fetch(fetchCtx, rateType)
	if fetchErr == nil {
		s.cache.Put(rateType, quote)
		// History append failures are tolerated: the worst case is one extra
		// external fetch on a later request.
		if err := s.history.Append(ctx, quote); err != nil {
			logger.L.Warn("failed to append rate quote history", "type", rateType, "error", err)
		}
		return quote, nil
	}

	logger.L.Warn("rate provider fetch failed, falling back to history",
		"type", rateType, "provider", s.provider.Name(), "error", fetchErr)

	last, histErr := s.history.LatestByType(ctx, rateType)
	if histErr == nil && last != nil {
		last.IsStale = true
		return last, nil
	}

	return nil, fmt.Errorf("%w: type %q", ErrRateUnavailable, rateType)
}

// RefreshAll force-refreshes every distinct rate type in the mapping table.
// Each type is refreshed independently; one failure never aborts the others.
func (s *ratesService) RefreshAll(ctx context.Context) []RateRefreshResult {
	seen := make(map[string]bool)
	var types []string
	for _, rateType := range s.methodRates {
		if !seen[rateType] {
			seen[rateType] = true
			types = append(types, rateType)
		}
	}
	sort.Strings(types)

	results := make([]RateRefreshResult, 0, len(types))
	for _, rateType := range types {
		s.cache.Invalidate(rateType)

		quote, err := s.fetchWithFallback(ctx, rateType)
		if err != nil {
			results = append(results, RateRefreshResult{Type: rateType, Status: "error", Error: err.Error()})
			continue
		}
		results = append(results, RateRefreshResult{Type: rateType, Status: "ok", Quote: toRateQuoteResponse(quote)})
	}

	return results
}

func (s *ratesService) ProviderHealthy(ctx context.Context) bool {
	return s.provider.Healthy(ctx)
}

// --- Helpers ---

func toRateQuoteResponse(q *model.RateQuote) *RateQuoteResponse {
	if q == nil {
		return nil
	}
	resp := &RateQuoteResponse{
		Type:      q.Type,
		SellPrice: q.SellPrice.StringFixed(2),
		Source:    q.Source,
		FetchedAt: q.FetchedAt.Format(time.RFC3339),
		IsStale:   q.IsStale,
	}
	if q.BuyPrice != nil {
		buy := q.BuyPrice.StringFixed(2)
		resp.BuyPrice = &buy
	}
	return resp
}
