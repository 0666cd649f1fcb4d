// Package types defines the shared data model for the dashboard backend.
package types

// Row is a single record from a tabular source, keyed by column name.
// Rows are immutable once produced; consumers must not mutate them.
type Row map[string]string

// Record is a single object from a newline-delimited JSON source.
type Record map[string]interface{}

// BillingTable is the result of parsing a tabular source: the rows plus
// the header keys in source order. Header order matters because schema
// inference picks the first matching column.
type BillingTable struct {
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// SchemaHint names the columns the cost engine should aggregate over.
// Empty components are inferred from the data.
type SchemaHint struct {
	EntityKey string `json:"entity_key,omitempty"`
	DateKey   string `json:"date_key,omitempty"`
	ValueKey  string `json:"value_key,omitempty"`
}

// DailyPoint is one calendar day of accumulated cost. Day is the
// normalized YYYY-MM-DD form and doubles as the chart x-axis key.
type DailyPoint struct {
	Day   string  `json:"x"`
	Value float64 `json:"y"`
}

// InstanceAggregate is the averaged utilization of one instance over
// the requested window.
type InstanceAggregate struct {
	Instance    string  `json:"instance"`
	Average     float64 `json:"avg"`
	SampleCount int     `json:"count"`
}

// ForecastPoint is one predicted day of cost.
type ForecastPoint struct {
	Date      string  `json:"date"`
	Predicted float64 `json:"predicted"`
}

// Asset is one inventory item from the assets source. The asset schema
// is open-ended, so it stays a raw object.
type Asset map[string]interface{}

// Ticket is a stub remediation ticket opened from the dashboard.
type Ticket struct {
	TicketID  string  `json:"ticket_id"`
	Title     string  `json:"title"`
	Body      string  `json:"body"`
	CreatedAt float64 `json:"created_at"`
}
