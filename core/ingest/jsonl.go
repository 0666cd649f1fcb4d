package ingest

import (
	"strings"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"cloudcost/core/types"
	"cloudcost/internal/logging"
)

// ParseJSONL parses newline-delimited JSON. Each non-blank line is
// decoded independently; a line that fails to decode is dropped with a
// diagnostic, so one bad line never aborts the batch. Output order
// matches input line order, with dropped lines simply absent.
func ParseJSONL(text string) []types.Record {
	lines := strings.Split(text, "\n")
	records := make([]types.Record, 0, len(lines))

	for i, line := range lines {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line == "" {
			continue
		}

		var rec types.Record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			logging.Debug("skipping invalid JSONL line",
				zap.Int("line", i+1), zap.Error(err))
			continue
		}
		records = append(records, rec)
	}

	return records
}
