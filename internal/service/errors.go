package service

import (
	"errors"
	"strings"
)

// ErrRateUnavailable signals that the quote provider failed and no historical
// quote exists for the needed rate type. This is the only condition that
// aborts a calculation; handlers surface it as 503.
var ErrRateUnavailable = errors.New("exchange rate unavailable: provider failed and no historical quote exists")

// ErrNotFound marks lookups of records that do not exist or belong to
// another user. Handlers surface it as 404.
var ErrNotFound = errors.New("record not found")

// ValidationError aggregates every invalid field of a request, not just the
// first, so callers can fix them all in one round trip.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + strings.Join(e.Fields, "; ")
}
