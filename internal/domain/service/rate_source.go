package service

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateSource defines the interface for an external source of FX rates.
// Rates follow one convention everywhere: units of currency per 1 USD.
type RateSource interface {
	// FetchRates retrieves current rates for USD as base. A non-empty
	// symbols set filters the result to exactly those codes; USD is
	// always present with rate 1.
	FetchRates(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
}
