// Package normalizer maps free-form transaction cells onto canonical
// representations: epoch-second timestamps, ISO-4217 currency codes, and a
// closed payment-method vocabulary. Parse failures degrade to null values,
// never to errors.
package normalizer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bettercharge/transaction-cleaning-system/internal/domain/entity"
)

// tzAbbreviations maps common timezone abbreviations to IANA names.
// IST is ambiguous (India/Israel/Ireland) and is deliberately absent.
var tzAbbreviations = map[string]string{
	"UTC":  "UTC",
	"GMT":  "UTC",
	"EST":  "America/New_York",
	"EDT":  "America/New_York",
	"CST":  "America/Chicago",
	"CDT":  "America/Chicago",
	"MST":  "America/Denver",
	"MDT":  "America/Denver",
	"PST":  "America/Los_Angeles",
	"PDT":  "America/Los_Angeles",
	"BST":  "Europe/London",
	"CET":  "Europe/Berlin",
	"CEST": "Europe/Berlin",
}

var trailingZoneToken = regexp.MustCompile(`\b([A-Za-z]{2,4})$`)

// Tokens that mean "no value" when they arrive as cell text.
var missingTokens = map[string]bool{
	"nan":           true,
	"n/a":           true,
	"na":            true,
	"none":          true,
	"null":          true,
	"not available": true,
}

// excelEpochOffsetDays is the day count from the spreadsheet serial anchor
// (1899-12-30) to the Unix epoch.
const excelEpochOffsetDays = 25569

// TimestampConfig controls ambiguity resolution during timestamp parsing.
type TimestampConfig struct {
	// DefaultTimeZone is the IANA zone applied when the input carries no
	// zone marker. Empty means UTC.
	DefaultTimeZone string
	// DayFirst prefers DD/MM over MM/DD for ambiguous numeric dates.
	DayFirst bool
}

// Layouts tried against the zone-stripped string. ISO shapes are
// unambiguous and always tried first; the two slash orders are tried in
// the order DayFirst dictates.
var isoLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02 15:04:05",
	"2006/01/02",
}

var dayFirstLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006 15:04",
	"02/01/2006",
	"02-01-2006 15:04:05",
	"02-01-2006 15:04",
	"02-01-2006",
	"02.01.2006 15:04",
	"02.01.2006",
}

var monthFirstLayouts = []string{
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"01-02-2006 15:04:05",
	"01-02-2006 15:04",
	"01-02-2006",
	"01.02.2006 15:04",
	"01.02.2006",
}

// NormalizeTimestamp converts any supported timestamp shape to Unix epoch
// seconds (UTC). Handled shapes:
//   - "YYYY-MM-DD HH:MM:SS UTC"
//   - "DD/MM/YYYY HH:MM"
//   - "2024-07-25 06:42:51 EST"
//   - seconds / milliseconds since epoch
//   - spreadsheet serial dates
//
// Missing or unparseable input yields the null value.
func NormalizeTimestamp(v entity.Value, cfg TimestampConfig) entity.Value {
	if isMissing(v) {
		return entity.Null()
	}

	if f, ok := v.Float(); ok {
		if epoch, ok := numericToEpoch(f); ok {
			return entity.Number(float64(epoch))
		}
	}

	s := strings.TrimSpace(v.Text())

	// Numeric paths before textual parsing: epoch and serial values can
	// coincidentally resemble short numeric date strings.
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		if epoch, ok := numericToEpoch(f); ok {
			return entity.Number(float64(epoch))
		}
	}

	// Pull trailing timezone abbreviation or explicit " UTC"
	zoneName := ""
	remainder := s

	if strings.HasSuffix(s, " UTC") {
		zoneName = "UTC"
		remainder = strings.TrimSpace(strings.TrimSuffix(s, " UTC"))
	} else if m := trailingZoneToken.FindStringSubmatchIndex(s); m != nil {
		abbrev := strings.ToUpper(s[m[2]:m[3]])
		if zone, known := tzAbbreviations[abbrev]; known {
			zoneName = zone
			remainder = strings.TrimSpace(s[:m[2]])
		}
	}

	if zoneName == "" {
		zoneName = cfg.DefaultTimeZone
	}
	if zoneName == "" {
		zoneName = "UTC"
	}

	// Invalid zone identifiers are recoverable: fall back to UTC.
	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		loc = time.UTC
	}

	t, ok := parseNaive(remainder, cfg.DayFirst, loc)
	if !ok {
		return entity.Null()
	}

	return entity.Number(float64(t.Unix()))
}

// numericToEpoch interprets a plain number by magnitude: milliseconds above
// 1e12, whole seconds above 1e9, otherwise a spreadsheet serial day count
// anchored at 1899-12-30. Serials outside a plausible calendar range report
// not-ok so the caller can fall through to textual parsing.
func numericToEpoch(val float64) (int64, bool) {
	if val > 1e12 {
		return int64(val / 1000), true
	}
	if val > 1e9 {
		return int64(val), true
	}

	epoch := int64((val - excelEpochOffsetDays) * 86400)
	year := time.Unix(epoch, 0).UTC().Year()
	if year < 1677 || year > 2262 {
		return 0, false
	}
	return epoch, true
}

// parseNaive parses a zone-free date/time string in the given location,
// preferring day-first or month-first ordering for ambiguous dates. The
// non-preferred order is still tried last, so "25/07/2024" parses even
// with DayFirst false.
func parseNaive(s string, dayFirst bool, loc *time.Location) (time.Time, bool) {
	ordered := make([]string, 0, len(isoLayouts)+len(dayFirstLayouts)+len(monthFirstLayouts))
	ordered = append(ordered, isoLayouts...)
	if dayFirst {
		ordered = append(ordered, dayFirstLayouts...)
		ordered = append(ordered, monthFirstLayouts...)
	} else {
		ordered = append(ordered, monthFirstLayouts...)
		ordered = append(ordered, dayFirstLayouts...)
	}

	for _, layout := range ordered {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// isMissing reports whether a cell carries the shared "no value" signal:
// null, blank, or a not-a-number marker.
func isMissing(v entity.Value) bool {
	if v.IsNull() {
		return true
	}
	if _, ok := v.Float(); ok {
		return false
	}

	s := strings.ToLower(strings.TrimSpace(v.Text()))
	return s == "" || missingTokens[s]
}
