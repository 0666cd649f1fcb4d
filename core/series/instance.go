package series

import (
	"sort"
	"strings"
	"time"

	"cloudcost/core/types"
)

// utilizationKeys are the recognized utilization field names, primary
// name first. The first key present on a record decides; a present but
// non-numeric value excludes the record instead of falling through.
var utilizationKeys = []string{"cpu_util", "cpu", "util"}

// instanceTimestampLayouts are the accepted timestamp encodings for
// metric records. Metrics carry machine-written ISO timestamps, so the
// flexible inference used for billing columns does not apply here.
var instanceTimestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// InstanceUtilization averages the utilization samples of each distinct
// instance over the windowDays calendar days ending at now's day. The
// window spans full days: from 00:00 of the first day through the last
// nanosecond of the last.
//
// Records missing a timestamp or instance, with an unparseable
// timestamp, outside the window, or without a finite utilization value
// are silently excluded. Output is sorted alphabetically by instance
// name; when filter is non-empty only the listed instances present in
// the data are returned, in filter order. No matches yields an empty
// slice, never an error.
func InstanceUtilization(records []types.Record, windowDays int, filter []string, now time.Time) []types.InstanceAggregate {
	if windowDays < 1 {
		windowDays = 1
	}

	to := endOfDayUTC(now)
	from := midnightUTC(to.AddDate(0, 0, -(windowDays - 1)))

	type acc struct {
		sum   float64
		count int
	}
	byInstance := make(map[string]*acc)

	for _, rec := range records {
		ts, _ := rec["timestamp"].(string)
		inst, _ := rec["instance"].(string)
		if strings.TrimSpace(ts) == "" || strings.TrimSpace(inst) == "" {
			continue
		}

		t, ok := parseInstanceTimestamp(ts)
		if !ok || t.Before(from) || t.After(to) {
			continue
		}

		util, ok := utilizationValue(rec)
		if !ok {
			continue
		}

		a := byInstance[inst]
		if a == nil {
			a = &acc{}
			byInstance[inst] = a
		}
		a.sum += util
		a.count++
	}

	var names []string
	if len(filter) > 0 {
		for _, name := range filter {
			if _, ok := byInstance[name]; ok {
				names = append(names, name)
			}
		}
	} else {
		for name := range byInstance {
			names = append(names, name)
		}
		sort.Strings(names)
	}

	out := make([]types.InstanceAggregate, 0, len(names))
	for _, name := range names {
		a := byInstance[name]
		out = append(out, types.InstanceAggregate{
			Instance:    name,
			Average:     round2(a.sum / float64(a.count)),
			SampleCount: a.count,
		})
	}
	return out
}

func parseInstanceTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range instanceTimestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func utilizationValue(rec types.Record) (float64, bool) {
	for _, key := range utilizationKeys {
		if v, present := rec[key]; present {
			return toFloat(v)
		}
	}
	return 0, false
}

// endOfDayUTC expands an instant to the last nanosecond of its UTC day.
func endOfDayUTC(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, time.UTC)
}
