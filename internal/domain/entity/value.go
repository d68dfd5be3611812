package entity

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind identifies the state a cell value is in.
type Kind int

const (
	// KindNull marks an absent or unparseable value.
	KindNull Kind = iota
	// KindString marks a textual value.
	KindString
	// KindNumber marks a numeric value.
	KindNumber
)

// Value is a nullable spreadsheet cell. Null is distinct from the empty
// string and from zero, and survives JSON round-trips.
type Value struct {
	kind Kind
	str  string
	num  float64
}

// Null returns the absent value.
func Null() Value {
	return Value{kind: KindNull}
}

// String returns a textual value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number returns a numeric value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Kind reports the state of the value.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether the value is absent.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Float returns the numeric content; ok is false unless the value is a number.
func (v Value) Float() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// Text renders the value as a string. Null renders as the empty string and
// numbers use the shortest representation that round-trips.
func (v Value) Text() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	default:
		return ""
	}
}

// AsFloat coerces the value to a number. Strings are parsed after trimming;
// anything that does not parse reports ok false.
func (v Value) AsFloat() (float64, bool) {
	switch v.kind {
	case KindNumber:
		return v.num, true
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(other Value) bool {
	return v == other
}

// MarshalJSON encodes null as JSON null, strings as JSON strings, and
// numbers as JSON numbers.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindNumber:
		return json.Marshal(v.num)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON decodes the representation produced by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = Null()
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("failed to decode cell value: %w", err)
		}
		*v = String(s)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to decode cell value: %w", err)
	}
	*v = Number(f)
	return nil
}
