// Package series implements the aggregation engines behind the
// dashboard charts: distinct entity options, gap-filled daily cost
// series, per-instance utilization averages and the short-horizon cost
// forecast. All functions are pure computations over in-memory rows;
// the reference instant is always passed in by the caller.
package series

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// toFloat coerces a raw scalar to a finite float64. This is the single
// place where best-effort numeric conversion happens; everything else
// branches on the ok result instead of guessing.
func toFloat(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return v, true
	case float32:
		return toFloat(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// round2 rounds to two decimal places, half away from zero.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
