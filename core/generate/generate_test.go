package generate

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cloudcost/core/ingest"
)

func TestAllWritesExpectedFiles(t *testing.T) {
	dir := t.TempDir()

	result, err := All(dir, Options{Days: 30, Projects: 3, Seed: 7})
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}

	if result.BillingRows != 30*3 {
		t.Errorf("billing rows = %d, want 90", result.BillingRows)
	}
	if result.MetricsRows != 30*3 {
		t.Errorf("metrics rows = %d, want 90", result.MetricsRows)
	}

	for _, path := range []string{result.BillingPath, result.MetricsPath, result.AssetsPath} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected file %s: %v", path, err)
		}
	}
}

func TestBillingCSVShape(t *testing.T) {
	dir := t.TempDir()
	if _, err := All(dir, Options{Days: 10, Projects: 2, Seed: 7}); err != nil {
		t.Fatalf("All failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "synthetic_billing.csv"))
	if err != nil {
		t.Fatalf("read billing: %v", err)
	}

	table := ingest.ParseCSV(string(data))
	if table.Headers[0] != "project_id" {
		t.Errorf("first header = %s, want project_id", table.Headers[0])
	}
	if len(table.Rows) != 20 {
		t.Fatalf("rows = %d, want 20", len(table.Rows))
	}
	for _, row := range table.Rows[:3] {
		if !strings.HasPrefix(row["project_id"], "proj-") {
			t.Errorf("project_id = %s, want proj- prefix", row["project_id"])
		}
		if row["usage_start_time"] == "" || row["cost"] == "" {
			t.Errorf("incomplete row: %v", row)
		}
	}
}

func TestMetricsJSONLShape(t *testing.T) {
	dir := t.TempDir()
	if _, err := All(dir, Options{Days: 9, Projects: 2, Seed: 7}); err != nil {
		t.Fatalf("All failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "synthetic_metrics.jsonl"))
	if err != nil {
		t.Fatalf("read metrics: %v", err)
	}

	records := ingest.ParseJSONL(string(data))
	if len(records) != 9*3 {
		t.Fatalf("records = %d, want 27", len(records))
	}

	// the first generated day carries the forced prod spike
	foundSpike := false
	for _, rec := range records[:3] {
		if rec["instance"] == "vm-prod-1" && rec["cpu_util"] == 95.0 {
			foundSpike = true
		}
	}
	if !foundSpike {
		t.Error("expected forced vm-prod-1 spike on the first day")
	}
}

func TestGenerationIsDeterministic(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()

	if _, err := All(dirA, Options{Days: 15, Projects: 4, Seed: 42}); err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if _, err := All(dirB, Options{Days: 15, Projects: 4, Seed: 42}); err != nil {
		t.Fatalf("All failed: %v", err)
	}

	a, _ := os.ReadFile(filepath.Join(dirA, "synthetic_billing.csv"))
	b, _ := os.ReadFile(filepath.Join(dirB, "synthetic_billing.csv"))
	if string(a) != string(b) {
		t.Error("same seed must produce identical billing data")
	}
}
