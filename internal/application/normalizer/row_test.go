package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bettercharge/transaction-cleaning-system/internal/domain/entity"
)

func buildRawTable(t *testing.T) *entity.Table {
	t.Helper()

	table := entity.NewTable([]string{"transaction_id", "timestamp", "currency", "payment_method", "amount"})
	rows := [][]entity.Value{
		{entity.String("t-1"), entity.String("2024-07-25 10:42:51 UTC"), entity.String("US$"), entity.String("Credit Card"), entity.Number(19.99)},
		{entity.String("t-2"), entity.String("25/07/2024 14:00"), entity.String("  eur  "), entity.String("bitcoin"), entity.Number(50)},
		{entity.String("t-3"), entity.Null(), entity.Null(), entity.Null(), entity.Null()},
	}
	for _, row := range rows {
		require.NoError(t, table.AppendRow(row))
	}
	return table
}

func TestRowNormalizerNormalize(t *testing.T) {
	cfg := Config{
		TimestampColumn:     "timestamp",
		CurrencyColumn:      "currency",
		PaymentMethodColumn: "payment_method",
		DefaultTimeZone:     "UTC",
		DayFirst:            true,
	}

	t.Run("Configured columns are replaced with canonical values", func(t *testing.T) {
		// Setup
		raw := buildRawTable(t)

		// Execute
		out, err := New(cfg).Normalize(raw)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, entity.Number(1721904171), out.Rows[0][1])
		assert.Equal(t, entity.String("USD"), out.Rows[0][2])
		assert.Equal(t, entity.String(PaymentCard), out.Rows[0][3])

		assert.Equal(t, entity.Number(1721916000), out.Rows[1][1])
		assert.Equal(t, entity.String("EUR"), out.Rows[1][2])
		assert.Equal(t, entity.String(PaymentCrypto), out.Rows[1][3])

		assert.True(t, out.Rows[2][1].IsNull())
		assert.True(t, out.Rows[2][2].IsNull())
		assert.Equal(t, entity.String(PaymentOther), out.Rows[2][3])
	})

	t.Run("Other columns and row order are untouched", func(t *testing.T) {
		raw := buildRawTable(t)

		out, err := New(cfg).Normalize(raw)

		require.NoError(t, err)
		assert.Equal(t, raw.Columns, out.Columns)
		assert.Equal(t, entity.String("t-1"), out.Rows[0][0])
		assert.Equal(t, entity.String("t-2"), out.Rows[1][0])
		assert.Equal(t, entity.Number(19.99), out.Rows[0][4])
	})

	t.Run("Input table is never mutated", func(t *testing.T) {
		raw := buildRawTable(t)
		before := raw.Clone()

		_, err := New(cfg).Normalize(raw)

		require.NoError(t, err)
		assert.Equal(t, before, raw)
	})

	t.Run("Missing configured column is a hard failure", func(t *testing.T) {
		raw := entity.NewTable([]string{"timestamp", "currency"})

		_, err := New(cfg).Normalize(raw)

		require.Error(t, err)
		assert.Contains(t, err.Error(), `"payment_method"`)
	})
}
