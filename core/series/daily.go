package series

import (
	"strings"
	"time"

	"cloudcost/core/dateparse"
	"cloudcost/core/types"
	"cloudcost/internal/errors"
)

// ErrNoSchema is returned when neither the hint nor inference can name
// a date and a cost column.
var ErrNoSchema = errors.Schema("could not detect date or cost column")

// DailyCostResult is the gap-filled daily series for one entity,
// together with the columns that were actually used (hinted or
// inferred) so the caller can display them.
type DailyCostResult struct {
	Series       []types.DailyPoint `json:"series"`
	UsedDateKey  string             `json:"used_date_key,omitempty"`
	UsedValueKey string             `json:"used_value_key,omitempty"`
}

// DailyCost aggregates the cost of one entity into a contiguous daily
// series covering the windowDays calendar days ending at now's day,
// inclusive. Days without matching rows carry 0.00; every value is
// rounded to two decimals.
//
// Hint components left empty are inferred from the first row, scanning
// headers in source order: the date column is the first whose value
// parses as a date, the cost column is the first other column whose
// value coerces to a finite number. The first-match rule is
// deliberately naive and order-dependent; tightening it would change
// which columns get picked. When inference finds no candidate the
// whole call fails with ErrNoSchema rather than producing a partial
// series.
//
// windowDays must be positive; callers validate it before invoking the
// engine.
func DailyCost(table *types.BillingTable, hint types.SchemaHint, entity string, windowDays int, now time.Time) (*DailyCostResult, error) {
	if table == nil || len(table.Rows) == 0 {
		return &DailyCostResult{Series: []types.DailyPoint{}}, nil
	}

	windowEnd := midnightUTC(now)
	windowStart := windowEnd.AddDate(0, 0, -(windowDays - 1))
	startDay := dateparse.Day(windowStart)
	endDay := dateparse.Day(windowEnd)

	dateKey, valueKey, err := resolveKeys(table, hint)
	if err != nil {
		return nil, err
	}

	entityKey := hint.EntityKey
	if entityKey == "" && len(table.Headers) > 0 {
		entityKey = table.Headers[0]
	}

	totals := make(map[string]float64)
	for _, row := range table.Rows {
		if strings.TrimSpace(row[entityKey]) != entity {
			continue
		}
		d, ok := dateparse.Parse(row[dateKey])
		if !ok {
			// unparseable dates are excluded, not an error
			continue
		}
		day := dateparse.Day(d)
		if day < startDay || day > endDay {
			continue
		}
		value, ok := toFloat(row[valueKey])
		if !ok {
			value = 0
		}
		totals[day] += value
	}

	result := &DailyCostResult{
		Series:       make([]types.DailyPoint, 0, windowDays),
		UsedDateKey:  dateKey,
		UsedValueKey: valueKey,
	}
	for cursor := windowStart; !cursor.After(windowEnd); cursor = cursor.AddDate(0, 0, 1) {
		day := dateparse.Day(cursor)
		result.Series = append(result.Series, types.DailyPoint{
			Day:   day,
			Value: round2(totals[day]),
		})
	}

	return result, nil
}

// resolveKeys fills in missing date/value keys by probing the first
// row's values, in header order.
func resolveKeys(table *types.BillingTable, hint types.SchemaHint) (dateKey, valueKey string, err error) {
	first := table.Rows[0]

	dateKey = hint.DateKey
	if dateKey == "" {
		for _, h := range table.Headers {
			if _, ok := dateparse.Parse(first[h]); ok {
				dateKey = h
				break
			}
		}
	}

	valueKey = hint.ValueKey
	if valueKey == "" {
		for _, h := range table.Headers {
			if h == dateKey {
				continue
			}
			if strings.TrimSpace(first[h]) == "" {
				continue
			}
			if _, ok := toFloat(first[h]); ok {
				valueKey = h
				break
			}
		}
	}

	if dateKey == "" || valueKey == "" {
		return "", "", ErrNoSchema
	}
	return dateKey, valueKey, nil
}

// midnightUTC truncates an instant to its UTC day.
func midnightUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
