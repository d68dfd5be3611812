// Package service internal/application/service/rate_provider.go
package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	domainservice "github.com/bettercharge/transaction-cleaning-system/internal/domain/service"
	"github.com/bettercharge/transaction-cleaning-system/internal/infrastructure/cache"
)

// RateProvider owns the mutable FX rate state for its caller. It is seeded
// with {USD: 1} and enriched by merging in remotely fetched or manually
// supplied rates; both paths share one convention, units of currency per
// 1 USD.
type RateProvider struct {
	source domainservice.RateSource
	rates  *cache.RateTable
	logger zerolog.Logger
}

// NewRateProvider creates a rate provider backed by the given remote source.
// A nil source is allowed for manually seeded use; Refresh then fails.
func NewRateProvider(source domainservice.RateSource, log zerolog.Logger) *RateProvider {
	return &RateProvider{
		source: source,
		rates:  cache.NewRateTable(),
		logger: log,
	}
}

// Refresh fetches current rates for the given symbols and merges them into
// provider state. Source failures propagate as hard failures; existing
// state is left untouched in that case, never partially replaced.
func (p *RateProvider) Refresh(ctx context.Context, symbols []string) error {
	if p.source == nil {
		return fmt.Errorf("no rate source configured")
	}

	fetched, err := p.source.FetchRates(ctx, symbols)
	if err != nil {
		return fmt.Errorf("failed to refresh fx rates: %w", err)
	}

	p.rates.Merge(fetched)

	p.logger.Info().
		Int("fetched", len(fetched)).
		Int("total", p.rates.Size()).
		Msg("fx rates refreshed")

	return nil
}

// SetRates merges caller-supplied rates into state, case-normalizing keys
// and keeping USD pinned to 1. Prior values for the same key are
// overwritten; keys absent from the call are kept.
func (p *RateProvider) SetRates(rates map[string]decimal.Decimal) {
	p.rates.Merge(rates)
}

// Rate looks up the stored rate for a currency code.
func (p *RateProvider) Rate(code string) (decimal.Decimal, bool) {
	return p.rates.Rate(code)
}

// Snapshot returns a copy of the current rate state.
func (p *RateProvider) Snapshot() map[string]decimal.Decimal {
	return p.rates.Snapshot()
}
