package rates

import (
	"testing"
	"time"

	"github.com/lautaromiller11/PayBoard2-sub000/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quoteFetchedAt(fetchedAt time.Time) *model.RateQuote {
	return &model.RateQuote{
		Type:      model.RateTypeOficial,
		SellPrice: decimal.NewFromInt(1000),
		Source:    "dolarapi",
		FetchedAt: fetchedAt,
	}
}

func TestQuoteCache_FreshHit(t *testing.T) {
	c := NewQuoteCache(10 * time.Minute)
	c.Put(model.RateTypeOficial, quoteFetchedAt(time.Now()))

	got, found := c.Get(model.RateTypeOficial)
	require.True(t, found)
	assert.False(t, got.IsStale)
	assert.Equal(t, "1000", got.SellPrice.String())
}

func TestQuoteCache_StaleAfterTTL(t *testing.T) {
	c := NewQuoteCache(10 * time.Minute)
	c.Put(model.RateTypeOficial, quoteFetchedAt(time.Now().Add(-11*time.Minute)))

	got, found := c.Get(model.RateTypeOficial)
	require.True(t, found)
	assert.True(t, got.IsStale, "a quote older than the TTL must be flagged stale but stay servable")
}

func TestQuoteCache_Miss(t *testing.T) {
	c := NewQuoteCache(10 * time.Minute)

	got, found := c.Get(model.RateTypeBlue)
	assert.False(t, found)
	assert.Nil(t, got)
}

func TestQuoteCache_Invalidate(t *testing.T) {
	c := NewQuoteCache(10 * time.Minute)
	c.Put(model.RateTypeOficial, quoteFetchedAt(time.Now()))

	c.Invalidate(model.RateTypeOficial)

	_, found := c.Get(model.RateTypeOficial)
	assert.False(t, found)
}

func TestQuoteCache_GetReturnsCopy(t *testing.T) {
	c := NewQuoteCache(10 * time.Minute)
	c.Put(model.RateTypeOficial, quoteFetchedAt(time.Now()))

	first, found := c.Get(model.RateTypeOficial)
	require.True(t, found)
	first.SellPrice = decimal.NewFromInt(1)
	first.IsStale = true

	second, found := c.Get(model.RateTypeOficial)
	require.True(t, found)
	assert.Equal(t, "1000", second.SellPrice.String())
	assert.False(t, second.IsStale)
}

func TestQuoteCache_NonPositiveTTLUsesDefault(t *testing.T) {
	c := NewQuoteCache(0)
	assert.Equal(t, DefaultTTL, c.TTL())
}

func TestQuoteCache_EntriesAreKeyedByType(t *testing.T) {
	c := NewQuoteCache(10 * time.Minute)

	oficial := quoteFetchedAt(time.Now())
	blue := quoteFetchedAt(time.Now())
	blue.Type = model.RateTypeBlue
	blue.SellPrice = decimal.NewFromInt(1500)

	c.Put(model.RateTypeOficial, oficial)
	c.Put(model.RateTypeBlue, blue)

	got, found := c.Get(model.RateTypeBlue)
	require.True(t, found)
	assert.Equal(t, "1500", got.SellPrice.String())
}
