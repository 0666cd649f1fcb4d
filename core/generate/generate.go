// Package generate produces the synthetic data files the dashboard
// runs against when no real exports are available: a billing CSV with
// injected cost anomalies, a metrics JSONL with CPU spikes, and a small
// asset inventory. Generation is seeded so repeated runs produce the
// same files.
package generate

import (
	"encoding/csv"
	"fmt"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cloudcost/internal/logging"
)

// DefaultSeed keeps generated data stable across runs.
const DefaultSeed = 42

var (
	services  = []string{"Compute Engine", "Cloud Storage", "BigQuery", "Dataflow"}
	regions   = []string{"us-central1", "europe-west1", "asia-south1"}
	instances = []string{"vm-prod-1", "vm-dev-1", "vm-batch-1"}
)

// Options controls the size and determinism of generated data.
type Options struct {
	Days     int
	Projects int
	Seed     int64
}

// Result names the files written by All.
type Result struct {
	BillingPath string `json:"billing_csv"`
	MetricsPath string `json:"metrics_jsonl"`
	AssetsPath  string `json:"assets_json"`
	BillingRows int    `json:"billing_rows"`
	MetricsRows int    `json:"metrics_rows"`
}

// All writes the billing CSV, metrics JSONL and assets JSON under dir.
func All(dir string, opts Options) (*Result, error) {
	if opts.Days <= 0 {
		opts.Days = 365
	}
	if opts.Projects <= 0 {
		opts.Projects = 30
	}
	if opts.Seed == 0 {
		opts.Seed = DefaultSeed
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(opts.Seed))
	now := time.Now().UTC()

	result := &Result{
		BillingPath: filepath.Join(dir, "synthetic_billing.csv"),
		MetricsPath: filepath.Join(dir, "synthetic_metrics.jsonl"),
		AssetsPath:  filepath.Join(dir, "assets.json"),
	}

	rows, err := writeBillingCSV(result.BillingPath, opts, now, rng)
	if err != nil {
		return nil, err
	}
	result.BillingRows = rows

	rows, err = writeMetricsJSONL(result.MetricsPath, opts.Days, now, rng)
	if err != nil {
		return nil, err
	}
	result.MetricsRows = rows

	if err := writeAssetsJSON(result.AssetsPath); err != nil {
		return nil, err
	}

	logging.Info("generated synthetic data",
		zap.String("dir", dir),
		zap.Int("billing_rows", result.BillingRows),
		zap.Int("metrics_rows", result.MetricsRows))
	return result, nil
}

// writeBillingCSV emits days*projects rows of daily project cost with
// occasional large anomalies on a fixed cadence.
func writeBillingCSV(path string, opts Options, now time.Time, rng *rand.Rand) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"project_id", "usage_start_time", "service", "sku", "region", "cost", "credits"}); err != nil {
		return 0, err
	}

	start := now.AddDate(0, 0, -(opts.Days - 1))
	count := 0
	for d := 0; d < opts.Days; d++ {
		day := start.AddDate(0, 0, d).Format("2006-01-02")
		for p := 1; p <= opts.Projects; p++ {
			base := uniform(rng, 5, 25)
			var cost float64
			if (d%13 == 1 || d%38 == 2) && p%3 == 0 {
				cost = base + 250 + uniform(rng, 0, 100)
			} else {
				cost = math.Max(base+rng.NormFloat64()*5+1, 0.01)
			}
			credits := 0.0
			if rng.Intn(4) == 3 {
				credits = 5
			}
			record := []string{
				fmt.Sprintf("proj-%d", p),
				day,
				services[rng.Intn(len(services))],
				fmt.Sprintf("sku-%d", 1000+rng.Intn(9000)),
				regions[rng.Intn(len(regions))],
				money(cost),
				money(credits),
			}
			if err := w.Write(record); err != nil {
				return count, err
			}
			count++
		}
	}

	w.Flush()
	return count, w.Error()
}

// writeMetricsJSONL emits one CPU sample per instance per day, with
// forced spikes so the anomaly views have something to find.
func writeMetricsJSONL(path string, days int, now time.Time, rng *rand.Rand) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	start := now.AddDate(0, 0, -(days - 1))
	count := 0
	for i := 0; i < days; i++ {
		ts := start.AddDate(0, 0, i).Format("2006-01-02T15:04:05")
		for _, inst := range instances {
			var cpu float64
			switch inst {
			case "vm-dev-1":
				cpu = float64(1 + rng.Intn(3))
			case "vm-prod-1":
				cpu = rng.NormFloat64()*5 + 30
			default:
				cpu = rng.NormFloat64()*6 + 10
			}
			if i%9 == 0 && inst == "vm-prod-1" {
				cpu = 95.0
			}
			if i%7 == 0 && inst == "vm-dev-1" {
				cpu = 97.0
			}

			line, err := json.Marshal(map[string]interface{}{
				"timestamp": ts,
				"instance":  inst,
				"cpu_util":  mustMoney(math.Max(0, cpu)),
				"region":    regions[rng.Intn(2)],
			})
			if err != nil {
				return count, err
			}
			if _, err := f.Write(append(line, '\n')); err != nil {
				return count, err
			}
			count++
		}
	}
	return count, nil
}

// writeAssetsJSON emits a small fixed inventory, including a couple of
// unattached resources billing keeps paying for.
func writeAssetsJSON(path string) error {
	assets := []map[string]interface{}{
		{"id": "disk-1", "type": "disk", "attached": false, "project": "proj-1", "size_gb": 100, "estimated_monthly_cost": 5.5},
		{"id": "ip-1", "type": "static-ip", "attached": false, "project": "proj-2", "estimated_monthly_cost": 7.2},
		{"id": "vm-prod-1", "type": "vm", "attached": true, "project": "proj-2", "cpu": 8, "ram_gb": 32},
		{"id": "vm-dev-1", "type": "vm", "attached": true, "project": "proj-1", "cpu": 2, "ram_gb": 8},
	}
	data, err := json.MarshalIndent(assets, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func money(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}

func mustMoney(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}
