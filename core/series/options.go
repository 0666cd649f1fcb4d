package series

import (
	"sort"
	"strings"

	"cloudcost/core/types"
)

// Distinct returns the sorted set of distinct non-empty values of key
// across the rows. The result is deterministic regardless of row order.
func Distinct(rows []types.Row, key string) []string {
	seen := make(map[string]struct{})
	options := []string{}

	for _, row := range rows {
		val := strings.TrimSpace(row[key])
		if val == "" {
			continue
		}
		if _, ok := seen[val]; ok {
			continue
		}
		seen[val] = struct{}{}
		options = append(options, val)
	}

	sort.Strings(options)
	return options
}
