// internal/application/service/conversion_service_test.go
package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bettercharge/transaction-cleaning-system/internal/domain/entity"
	"github.com/bettercharge/transaction-cleaning-system/internal/mocks"
)

func seededProvider(rates map[string]decimal.Decimal) *RateProvider {
	p := NewRateProvider(nil, zerolog.Nop())
	if rates != nil {
		p.SetRates(rates)
	}
	return p
}

func conversionTable(t *testing.T, rows [][]entity.Value) *entity.Table {
	t.Helper()
	table := entity.NewTable([]string{"transaction_id", "currency", "amount"})
	for _, row := range rows {
		require.NoError(t, table.AppendRow(row))
	}
	return table
}

func defaultOpts() ConvertOptions {
	return ConvertOptions{AmountColumn: "amount", CurrencyColumn: "currency"}
}

func TestConvertToUSD(t *testing.T) {
	ctx := context.Background()

	t.Run("Inverted rate produces the USD amount", func(t *testing.T) {
		// Setup
		provider := seededProvider(map[string]decimal.Decimal{
			"EUR": decimal.NewFromFloat(0.92),
		})
		table := conversionTable(t, [][]entity.Value{
			{entity.String("t-1"), entity.String("EUR"), entity.Number(92)},
		})
		svc := NewConversionService(provider, nil, zerolog.Nop())

		// Execute
		out, err := svc.ConvertToUSD(ctx, table, defaultOpts())

		// Assert
		require.NoError(t, err)
		factor, ok := out.Rows[0][3].Float()
		require.True(t, ok)
		assert.InDelta(t, 1.0/0.92, factor, 1e-9)

		usd, ok := out.Rows[0][4].Float()
		require.True(t, ok)
		assert.InDelta(t, 100.0, usd, 1e-9)

		assert.Equal(t, []string{"transaction_id", "currency", "amount", FxFactorColumn, UsdAmountColumn}, out.Columns)
	})

	t.Run("USD rows convert one to one", func(t *testing.T) {
		provider := seededProvider(nil)
		table := conversionTable(t, [][]entity.Value{
			{entity.String("t-1"), entity.String("usd "), entity.Number(12.5)},
		})
		svc := NewConversionService(provider, nil, zerolog.Nop())

		out, err := svc.ConvertToUSD(ctx, table, defaultOpts())

		require.NoError(t, err)
		usd, ok := out.Rows[0][4].Float()
		require.True(t, ok)
		assert.InDelta(t, 12.5, usd, 1e-9)
	})

	t.Run("Missing rate degrades to null without strict mode", func(t *testing.T) {
		provider := seededProvider(nil)
		table := conversionTable(t, [][]entity.Value{
			{entity.String("t-1"), entity.String("ZZZ"), entity.Number(10)},
			{entity.String("t-2"), entity.String("EUR"), entity.Number(20)},
		})
		svc := NewConversionService(provider, nil, zerolog.Nop())

		out, err := svc.ConvertToUSD(ctx, table, defaultOpts())

		require.NoError(t, err)
		for _, row := range out.Rows {
			assert.True(t, row[3].IsNull())
			assert.True(t, row[4].IsNull())
		}
	})

	t.Run("Missing rate is a hard failure in strict mode", func(t *testing.T) {
		provider := seededProvider(nil)
		table := conversionTable(t, [][]entity.Value{
			{entity.String("t-1"), entity.String("ZZZ"), entity.Number(10)},
		})
		svc := NewConversionService(provider, nil, zerolog.Nop())

		opts := defaultOpts()
		opts.Strict = true
		out, err := svc.ConvertToUSD(ctx, table, opts)

		require.Error(t, err)
		assert.Nil(t, out)
		assert.True(t, errors.Is(err, ErrMissingRate))
		assert.Contains(t, err.Error(), `"ZZZ"`)
	})

	t.Run("Zero rate follows the missing-rate policy", func(t *testing.T) {
		provider := seededProvider(map[string]decimal.Decimal{
			"EUR": decimal.Zero,
		})
		table := conversionTable(t, [][]entity.Value{
			{entity.String("t-1"), entity.String("EUR"), entity.Number(10)},
		})
		svc := NewConversionService(provider, nil, zerolog.Nop())

		out, err := svc.ConvertToUSD(ctx, table, defaultOpts())
		require.NoError(t, err)
		assert.True(t, out.Rows[0][4].IsNull())

		opts := defaultOpts()
		opts.Strict = true
		_, err = svc.ConvertToUSD(ctx, table, opts)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrMissingRate))
		assert.Contains(t, err.Error(), `"EUR"`)
	})

	t.Run("Unparseable amounts become null, never errors", func(t *testing.T) {
		provider := seededProvider(map[string]decimal.Decimal{
			"EUR": decimal.NewFromFloat(0.92),
		})
		table := conversionTable(t, [][]entity.Value{
			{entity.String("t-1"), entity.String("EUR"), entity.String("not a number")},
			{entity.String("t-2"), entity.String("EUR"), entity.Null()},
		})
		svc := NewConversionService(provider, nil, zerolog.Nop())

		out, err := svc.ConvertToUSD(ctx, table, defaultOpts())

		require.NoError(t, err)
		for _, row := range out.Rows {
			// factor is known, amount is not
			assert.False(t, row[3].IsNull())
			assert.True(t, row[4].IsNull())
		}
	})

	t.Run("Null currency rows get null results", func(t *testing.T) {
		provider := seededProvider(nil)
		table := conversionTable(t, [][]entity.Value{
			{entity.String("t-1"), entity.Null(), entity.Number(10)},
		})
		svc := NewConversionService(provider, nil, zerolog.Nop())

		out, err := svc.ConvertToUSD(ctx, table, defaultOpts())

		require.NoError(t, err)
		assert.True(t, out.Rows[0][3].IsNull())
		assert.True(t, out.Rows[0][4].IsNull())
	})

	t.Run("Refresh fetches the distinct currencies present", func(t *testing.T) {
		source := new(mocks.MockRateSource)
		source.On("FetchRates", mock.Anything, []string{"EUR", "GBP"}).
			Return(map[string]decimal.Decimal{
				"EUR": decimal.NewFromFloat(0.92),
				"GBP": decimal.NewFromFloat(0.79),
				"USD": decimal.NewFromInt(1),
			}, nil).Once()

		provider := NewRateProvider(source, zerolog.Nop())
		table := conversionTable(t, [][]entity.Value{
			{entity.String("t-1"), entity.String("EUR"), entity.Number(92)},
			{entity.String("t-2"), entity.String("GBP"), entity.Number(79)},
			{entity.String("t-3"), entity.String("eur"), entity.Number(46)},
		})
		svc := NewConversionService(provider, nil, zerolog.Nop())

		opts := defaultOpts()
		opts.RefreshRates = true
		out, err := svc.ConvertToUSD(ctx, table, opts)

		require.NoError(t, err)
		usd, _ := out.Rows[2][4].Float()
		assert.InDelta(t, 50.0, usd, 1e-9)
		source.AssertExpectations(t)
	})

	t.Run("Refresh failure aborts the call", func(t *testing.T) {
		source := new(mocks.MockRateSource)
		source.On("FetchRates", mock.Anything, mock.Anything).
			Return(nil, errors.New("connection refused")).Once()

		provider := NewRateProvider(source, zerolog.Nop())
		table := conversionTable(t, [][]entity.Value{
			{entity.String("t-1"), entity.String("EUR"), entity.Number(10)},
		})
		svc := NewConversionService(provider, nil, zerolog.Nop())

		opts := defaultOpts()
		opts.RefreshRates = true
		out, err := svc.ConvertToUSD(ctx, table, opts)

		require.Error(t, err)
		assert.Nil(t, out)
		source.AssertExpectations(t)
	})

	t.Run("Save path persists the result table", func(t *testing.T) {
		provider := seededProvider(map[string]decimal.Decimal{
			"EUR": decimal.NewFromFloat(0.92),
		})
		writer := new(mocks.MockTableWriter)
		writer.On("Write", mock.Anything, "out/result.xlsx").Return(nil).Once()

		table := conversionTable(t, [][]entity.Value{
			{entity.String("t-1"), entity.String("EUR"), entity.Number(92)},
		})
		svc := NewConversionService(provider, writer, zerolog.Nop())

		opts := defaultOpts()
		opts.SavePath = "out/result.xlsx"
		_, err := svc.ConvertToUSD(ctx, table, opts)

		require.NoError(t, err)
		writer.AssertExpectations(t)
	})

	t.Run("Input table is never mutated", func(t *testing.T) {
		provider := seededProvider(map[string]decimal.Decimal{
			"EUR": decimal.NewFromFloat(0.92),
		})
		table := conversionTable(t, [][]entity.Value{
			{entity.String("t-1"), entity.String("EUR"), entity.Number(92)},
		})
		before := table.Clone()
		svc := NewConversionService(provider, nil, zerolog.Nop())

		_, err := svc.ConvertToUSD(ctx, table, defaultOpts())

		require.NoError(t, err)
		assert.Equal(t, before, table)
	})

	t.Run("Missing amount column is a hard failure", func(t *testing.T) {
		provider := seededProvider(nil)
		table := entity.NewTable([]string{"currency"})
		svc := NewConversionService(provider, nil, zerolog.Nop())

		_, err := svc.ConvertToUSD(ctx, table, defaultOpts())

		require.Error(t, err)
		assert.Contains(t, err.Error(), `"amount"`)
	})
}
