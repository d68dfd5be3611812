package normalizer

import (
	"strings"

	"github.com/bettercharge/transaction-cleaning-system/internal/domain/entity"
)

// currencyAlias is one (token, code) rule. Rules are kept in an explicit
// slice so the substring tie-break below is deterministic: first declared
// alias found inside the input wins.
type currencyAlias struct {
	token string
	code  string
}

var currencyAliases = []currencyAlias{
	{"$", "USD"},
	{"us$", "USD"},
	{"usd", "USD"},
	{"us dollar", "USD"},
	{"u.s. dollar", "USD"},
	{"€", "EUR"},
	{"eur", "EUR"},
	{"euro", "EUR"},
	{"£", "GBP"},
	{"gbp", "GBP"},
	{"pounds", "GBP"},
	{"cad", "CAD"},
	{"canadian dollar", "CAD"},
	{"ils", "ILS"},
	{"₪", "ILS"},
	{"nis", "ILS"},
}

// NormalizeCurrency converts a free-form currency token to a 3-letter
// uppercase code. Missing input yields null. Tokens outside the alias
// vocabulary are passed through uppercased without validation against an
// official ISO-4217 list.
func NormalizeCurrency(v entity.Value) entity.Value {
	if isMissing(v) {
		return entity.Null()
	}

	s := strings.ToLower(strings.TrimSpace(v.Text()))

	for _, alias := range currencyAliases {
		if s == alias.token {
			return entity.String(alias.code)
		}
	}

	// Fuzzy match: first alias contained in the input wins.
	for _, alias := range currencyAliases {
		if strings.Contains(s, alias.token) {
			return entity.String(alias.code)
		}
	}

	if len(s) == 3 && isAlpha(s) {
		return entity.String(strings.ToUpper(s))
	}
	return entity.String(strings.ToUpper(s))
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return len(s) > 0
}
