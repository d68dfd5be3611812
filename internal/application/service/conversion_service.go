// Package service internal/application/service/conversion_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/bettercharge/transaction-cleaning-system/internal/domain/entity"
)

// ErrMissingRate marks a currency whose FX rate is missing or zero. It only
// surfaces as an error in strict mode; otherwise the affected rows degrade
// to null USD amounts.
var ErrMissingRate = errors.New("missing or zero fx rate")

// FxProvider is the rate state the converter reads from and refreshes.
type FxProvider interface {
	Refresh(ctx context.Context, symbols []string) error
	Rate(code string) (decimal.Decimal, bool)
}

// TableWriter persists a table as a spreadsheet at a path.
type TableWriter interface {
	Write(t *entity.Table, path string) error
}

// ConvertOptions controls one conversion call.
type ConvertOptions struct {
	AmountColumn   string
	CurrencyColumn string
	// Strict turns missing/zero rates into hard failures instead of null results.
	Strict bool
	// RefreshRates fetches current rates for the currencies present before converting.
	RefreshRates bool
	// SavePath, when non-empty, additionally persists the result as a spreadsheet.
	SavePath string
}

// Column names appended by the converter.
const (
	FxFactorColumn  = "fx_to_usd"
	UsdAmountColumn = "amount_usd"
)

// ConversionService computes USD-equivalent amounts for a normalized table.
type ConversionService struct {
	provider FxProvider
	writer   TableWriter
	logger   zerolog.Logger
}

// NewConversionService creates a new conversion service. The writer may be
// nil when persisted output is not needed.
func NewConversionService(provider FxProvider, writer TableWriter, log zerolog.Logger) *ConversionService {
	return &ConversionService{
		provider: provider,
		writer:   writer,
		logger:   log,
	}
}

// ConvertToUSD returns a new table with two added columns: fx_to_usd, the
// USD value of one unit of the row's currency, and amount_usd, the
// converted amount. Rows whose rate is missing or zero get null results
// unless strict mode turns that into a hard failure. Hard failures abort
// the whole call; no partial table is returned.
func (s *ConversionService) ConvertToUSD(ctx context.Context, t *entity.Table, opts ConvertOptions) (*entity.Table, error) {
	amtIdx, ok := t.ColumnIndex(opts.AmountColumn)
	if !ok {
		return nil, fmt.Errorf("table must contain the %q column", opts.AmountColumn)
	}
	curIdx, ok := t.ColumnIndex(opts.CurrencyColumn)
	if !ok {
		return nil, fmt.Errorf("table must contain the %q column", opts.CurrencyColumn)
	}

	out := t.Clone()

	// Defensive re-normalization: uppercase and trim currency codes, coerce
	// amounts to numbers with unparseable cells becoming null.
	currencies := make([]string, len(out.Rows))
	amounts := make([]entity.Value, len(out.Rows))
	for i, row := range out.Rows {
		if !row[curIdx].IsNull() {
			currencies[i] = normalizeCode(row[curIdx].Text())
		}
		if f, ok := row[amtIdx].AsFloat(); ok {
			amounts[i] = entity.Number(f)
		} else {
			amounts[i] = entity.Null()
		}
	}

	distinct := distinctCodes(currencies)

	if opts.RefreshRates {
		if err := s.provider.Refresh(ctx, distinct); err != nil {
			return nil, err
		}
	}

	// Invert stored rates into USD-per-unit factors, one per currency.
	factors := make(map[string]entity.Value, len(distinct))
	factorDecimals := make(map[string]decimal.Decimal, len(distinct))
	for _, code := range distinct {
		rate, found := s.provider.Rate(code)
		if !found || rate.IsZero() {
			if opts.Strict {
				raw := "<missing>"
				if found {
					raw = rate.String()
				}
				return nil, fmt.Errorf("%w for currency %q (rate %s)", ErrMissingRate, code, raw)
			}
			factors[code] = entity.Null()
			continue
		}

		factor := decimal.NewFromInt(1).Div(rate)
		factorDecimals[code] = factor
		factors[code] = entity.Number(factor.InexactFloat64())
	}

	// Broadcast factors by currency and compute the USD amounts.
	factorCells := make([]entity.Value, len(out.Rows))
	usdCells := make([]entity.Value, len(out.Rows))
	for i := range out.Rows {
		code := currencies[i]
		factor, known := factors[code]
		if code == "" || !known {
			factor = entity.Null()
		}
		factorCells[i] = factor

		amt, amtOK := amounts[i].Float()
		if factor.IsNull() || !amtOK {
			usdCells[i] = entity.Null()
			continue
		}

		usd := decimal.NewFromFloat(amt).Mul(factorDecimals[code])
		usdCells[i] = entity.Number(usd.InexactFloat64())
	}

	if err := out.AddColumn(FxFactorColumn, factorCells); err != nil {
		return nil, err
	}
	if err := out.AddColumn(UsdAmountColumn, usdCells); err != nil {
		return nil, err
	}

	s.logger.Info().
		Int("rows", out.NumRows()).
		Int("currencies", len(distinct)).
		Bool("strict", opts.Strict).
		Msg("usd conversion completed")

	if opts.SavePath != "" {
		if s.writer == nil {
			return nil, fmt.Errorf("no table writer configured for save path %q", opts.SavePath)
		}
		if err := s.writer.Write(out, opts.SavePath); err != nil {
			return nil, fmt.Errorf("failed to persist converted table: %w", err)
		}
	}

	return out, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// distinctCodes returns the non-blank currency codes in first-appearance
// order, so factor computation and strict failures are reproducible.
func distinctCodes(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}
