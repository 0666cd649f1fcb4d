// Package dateparse infers calendar instants from heterogeneous scalars.
//
// Billing exports rarely agree on a date encoding: the same column may
// carry ISO strings, epoch seconds, epoch milliseconds or locale-style
// dates depending on the exporter. Parse tries each interpretation in a
// fixed order and reports failure as a normal outcome instead of an
// error, because schema inference probes columns that are usually not
// dates at all.
package dateparse

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// calendarLayouts are tried first, most specific to least.
var calendarLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// localeLayouts are the last-resort formats.
var localeLayouts = []string{
	"01/02/2006",
	"2006/01/02",
	"02-01-2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"Jan 2 2006",
}

// Parse converts a scalar into a calendar instant.
//
// Resolution order, first success wins: direct calendar-string parse,
// numeric epoch heuristic (n > 1e12 milliseconds, n > 1e9 seconds),
// locale-style formats. The boolean result is false when the value is
// empty or no interpretation succeeds.
func Parse(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return v, true
	case string:
		return parseString(v)
	case float64:
		return fromEpoch(v)
	case float32:
		return fromEpoch(float64(v))
	case int:
		return fromEpoch(float64(v))
	case int64:
		return fromEpoch(float64(v))
	default:
		return time.Time{}, false
	}
}

func parseString(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}

	for _, layout := range calendarLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	if n, err := strconv.ParseFloat(s, 64); err == nil {
		if t, ok := fromEpoch(n); ok {
			return t, true
		}
		// a plain small number is not a date
		return time.Time{}, false
	}

	for _, layout := range localeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}

	return time.Time{}, false
}

// fromEpoch applies the epoch heuristic: values above 1e12 are taken as
// milliseconds since epoch, values above 1e9 as seconds. Anything
// smaller is ambiguous and rejected.
func fromEpoch(n float64) (time.Time, bool) {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return time.Time{}, false
	}
	switch {
	case n > 1e12:
		return time.UnixMilli(int64(n)).UTC(), true
	case n > 1e9:
		sec, frac := math.Modf(n)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC(), true
	default:
		return time.Time{}, false
	}
}

// Day normalizes an instant to its UTC calendar day string (YYYY-MM-DD).
// Two instants fall on the same day iff their Day strings are equal.
func Day(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
