package normalizer

import (
	"fmt"

	"github.com/bettercharge/transaction-cleaning-system/internal/domain/entity"
)

// Config names the columns the row normalizer rewrites and carries the
// timestamp ambiguity settings.
type Config struct {
	TimestampColumn     string
	CurrencyColumn      string
	PaymentMethodColumn string
	DefaultTimeZone     string
	DayFirst            bool
}

// RowNormalizer applies the field normalizers across a table's timestamp,
// currency, and payment-method columns.
type RowNormalizer struct {
	cfg Config
}

// New creates a row normalizer for the given column configuration.
func New(cfg Config) *RowNormalizer {
	return &RowNormalizer{cfg: cfg}
}

// Normalize returns a new table with the three configured columns replaced
// by their per-cell canonical values. All other columns and row order are
// unchanged; the input table is never mutated. A configured column missing
// from the table is a hard failure raised before any row is processed.
func (n *RowNormalizer) Normalize(t *entity.Table) (*entity.Table, error) {
	tsIdx, ok := t.ColumnIndex(n.cfg.TimestampColumn)
	if !ok {
		return nil, fmt.Errorf("table must contain the %q column", n.cfg.TimestampColumn)
	}
	curIdx, ok := t.ColumnIndex(n.cfg.CurrencyColumn)
	if !ok {
		return nil, fmt.Errorf("table must contain the %q column", n.cfg.CurrencyColumn)
	}
	payIdx, ok := t.ColumnIndex(n.cfg.PaymentMethodColumn)
	if !ok {
		return nil, fmt.Errorf("table must contain the %q column", n.cfg.PaymentMethodColumn)
	}

	tsCfg := TimestampConfig{
		DefaultTimeZone: n.cfg.DefaultTimeZone,
		DayFirst:        n.cfg.DayFirst,
	}

	out := t.Clone()
	for _, row := range out.Rows {
		row[tsIdx] = NormalizeTimestamp(row[tsIdx], tsCfg)
		row[curIdx] = NormalizeCurrency(row[curIdx])
		row[payIdx] = NormalizePaymentMethod(row[payIdx])
	}

	return out, nil
}
