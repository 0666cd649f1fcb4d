// Package ingest parses the dashboard's raw data sources into the
// shared row model. Parsing is best-effort: malformed content is
// aligned or skipped, never fatal. Only fetching a source can fail.
package ingest

import (
	"encoding/csv"
	"io"
	"strings"

	"go.uber.org/zap"

	"cloudcost/core/types"
	"cloudcost/internal/logging"
)

// ParseCSV parses delimited text using the first line as the header
// row. Blank lines are skipped entirely and rows with too few or too
// many fields are aligned against the header: missing fields become
// empty strings, extras are dropped. Header order is preserved for
// downstream schema inference.
func ParseCSV(text string) *types.BillingTable {
	reader := csv.NewReader(strings.NewReader(text))
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	table := &types.BillingTable{}

	headers, err := reader.Read()
	if err != nil {
		// empty or unreadable source yields an empty table
		return table
	}
	for _, h := range headers {
		h = strings.TrimSpace(h)
		h = strings.ReplaceAll(h, `"`, "")
		table.Headers = append(table.Headers, h)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			logging.Debug("skipping unreadable CSV line", zap.Error(err))
			continue
		}

		row := make(types.Row, len(table.Headers))
		for i, h := range table.Headers {
			if i < len(record) {
				row[h] = record[i]
			} else {
				row[h] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table
}
