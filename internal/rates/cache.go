package rates

import (
	"time"

	"github.com/lautaromiller11/PayBoard2-sub000/internal/model"

	"github.com/patrickmn/go-cache"
)

// DefaultTTL is the freshness window for cached quotes.
const DefaultTTL = 600 * time.Second

// retention keeps entries around well past their freshness window so stale
// quotes stay servable as a fallback.
const retention = 24 * time.Hour

// QuoteCache caches one RateQuote per rate type. Freshness is derived from
// the quote's FetchedAt against the configured TTL rather than from entry
// expiry, so a quote older than the TTL is still returned, flagged stale.
type QuoteCache struct {
	store *cache.Cache
	ttl   time.Duration
}

// NewQuoteCache builds a cache with the given freshness TTL. A non-positive
// ttl selects DefaultTTL.
func NewQuoteCache(ttl time.Duration) *QuoteCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &QuoteCache{
		store: cache.New(retention, 2*retention),
		ttl:   ttl,
	}
}

// TTL returns the configured freshness window.
func (c *QuoteCache) TTL() time.Duration { return c.ttl }

func key(rateType string) string { return "rate:" + rateType }

// Get returns the cached quote for a type, with IsStale set from its age.
// The second return reports whether an entry existed at all.
func (c *QuoteCache) Get(rateType string) (*model.RateQuote, bool) {
	entry, found := c.store.Get(key(rateType))
	if !found {
		return nil, false
	}

	cached, ok := entry.(model.RateQuote)
	if !ok {
		return nil, false
	}

	quote := cached // copy, callers may mutate
	quote.IsStale = time.Since(quote.FetchedAt) >= c.ttl
	return &quote, true
}

// Put stores a quote, replacing any prior entry for its type.
func (c *QuoteCache) Put(rateType string, quote *model.RateQuote) {
	if quote == nil {
		return
	}
	c.store.Set(key(rateType), *quote, retention)
}

// Invalidate evicts the entry for a type. Used by forced refreshes.
func (c *QuoteCache) Invalidate(rateType string) {
	c.store.Delete(key(rateType))
}
