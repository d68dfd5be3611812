package cache

import (
	"strings"
	"sync"

	"github.com/shopspring/decimal"
)

// RateTable holds process-lifetime FX state: units of currency per 1 USD,
// keyed by uppercase code. State grows by merging; repeated merges
// overwrite existing keys but never remove absent ones, so the table can be
// enriched incrementally as new currencies are encountered. The USD entry
// is pinned to 1 and can never be overwritten.
type RateTable struct {
	rates map[string]decimal.Decimal
	mutex sync.RWMutex
}

// NewRateTable creates a rate table seeded with {USD: 1}.
func NewRateTable() *RateTable {
	return &RateTable{
		rates: map[string]decimal.Decimal{
			"USD": decimal.NewFromInt(1),
		},
	}
}

// Merge folds caller-supplied rates into the table. Keys are uppercased and
// trimmed; blank keys are dropped; USD stays 1 regardless of input.
func (t *RateTable) Merge(rates map[string]decimal.Decimal) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	for code, rate := range rates {
		code = strings.ToUpper(strings.TrimSpace(code))
		if code == "" {
			continue
		}
		t.rates[code] = rate
	}

	t.rates["USD"] = decimal.NewFromInt(1)
}

// Rate looks up the stored rate for a currency code.
func (t *RateTable) Rate(code string) (decimal.Decimal, bool) {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	rate, ok := t.rates[strings.ToUpper(strings.TrimSpace(code))]
	return rate, ok
}

// Snapshot returns a consistent copy of the current state.
func (t *RateTable) Snapshot() map[string]decimal.Decimal {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	out := make(map[string]decimal.Decimal, len(t.rates))
	for code, rate := range t.rates {
		out[code] = rate
	}
	return out
}

// Size returns the number of currencies in the table.
func (t *RateTable) Size() int {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	return len(t.rates)
}
