package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lautaromiller11/PayBoard2-sub000/internal/model"

	"github.com/shopspring/decimal"
)

// DefaultProviderURL is the base URL of the public quotation API.
const DefaultProviderURL = "https://dolarapi.com/v1"

// FetchTimeout bounds every quotation call so a slow provider cannot hang
// the request path.
const FetchTimeout = 5 * time.Second

// Provider fetches authoritative quotes for a rate type from an external
// quotation service.
type Provider interface {
	Fetch(ctx context.Context, rateType string) (*model.RateQuote, error)
	Healthy(ctx context.Context) bool
	Name() string
}

// dolarAPIQuote is the provider's wire format for a single quotation.
type dolarAPIQuote struct {
	Moneda             string  `json:"moneda"`
	Casa               string  `json:"casa"`
	Nombre             string  `json:"nombre"`
	Compra             float64 `json:"compra"`
	Venta              float64 `json:"venta"`
	FechaActualizacion string  `json:"fechaActualizacion"`
}

// DolarAPIProvider implements Provider against the dolarapi.com REST API.
type DolarAPIProvider struct {
	baseURL string
	client  *http.Client
}

// NewDolarAPIProvider builds a provider with a bounded-timeout HTTP client.
// An empty baseURL selects the public endpoint.
func NewDolarAPIProvider(baseURL string) *DolarAPIProvider {
	if baseURL == "" {
		baseURL = DefaultProviderURL
	}
	return &DolarAPIProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: FetchTimeout},
	}
}

func (p *DolarAPIProvider) Name() string { return "dolarapi" }

// Fetch retrieves the current quotation for rateType.
func (p *DolarAPIProvider) Fetch(ctx context.Context, rateType string) (*model.RateQuote, error) {
	url := fmt.Sprintf("%s/dolares/%s", p.baseURL, rateType)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build quote request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("quote request for %q failed: %w", rateType, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("quote provider returned status %d for %q", resp.StatusCode, rateType)
	}

	var payload dolarAPIQuote
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode quote response for %q: %w", rateType, err)
	}

	if payload.Venta <= 0 {
		return nil, fmt.Errorf("quote provider returned a non-positive sell price for %q", rateType)
	}

	quote := &model.RateQuote{
		Type:      rateType,
		SellPrice: decimal.NewFromFloat(payload.Venta),
		Source:    p.Name(),
		FetchedAt: time.Now().UTC(),
	}
	if payload.Compra > 0 {
		buy := decimal.NewFromFloat(payload.Compra)
		quote.BuyPrice = &buy
	}

	return quote, nil
}

// Healthy reports whether the provider answers its status endpoint.
func (p *DolarAPIProvider) Healthy(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/estado", nil)
	if err != nil {
		return false
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
