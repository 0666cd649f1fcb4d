package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"cloudcost/internal/config"
)

func testDataConfig(dir string) config.DataConfig {
	return config.DataConfig{
		Dir:               dir,
		BillingCSV:        filepath.Join(dir, "synthetic_billing.csv"),
		MetricsJSONL:      filepath.Join(dir, "synthetic_metrics.jsonl"),
		AssetsJSON:        filepath.Join(dir, "assets.json"),
		GenerateIfMissing: true,
		Generator:         config.GeneratorConfig{Days: 20, Projects: 3, Seed: 7},
	}
}

func TestLoadGeneratesMissingData(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(testDataConfig(dir))

	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	snap := store.Snapshot()
	if len(snap.Billing.Rows) != 20*3 {
		t.Errorf("billing rows = %d, want 60", len(snap.Billing.Rows))
	}
	if len(snap.Metrics) != 20*3 {
		t.Errorf("metrics rows = %d, want 60", len(snap.Metrics))
	}
	if len(snap.Assets) != 4 {
		t.Errorf("assets = %d, want 4", len(snap.Assets))
	}
	if snap.LoadedAt.IsZero() {
		t.Error("LoadedAt not set")
	}
}

func TestLoadKeepsOtherSourcesOnFailure(t *testing.T) {
	dir := t.TempDir()
	cfg := testDataConfig(dir)

	// generate the files once
	store := NewStore(cfg)
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("initial load failed: %v", err)
	}

	// point billing at a missing file and disable regeneration
	cfg.BillingCSV = filepath.Join(dir, "nope.csv")
	cfg.GenerateIfMissing = false
	broken := NewStore(cfg)

	err := broken.Load(context.Background())
	if err == nil {
		t.Fatal("expected error for missing billing source")
	}

	snap := broken.Snapshot()
	if snap.Billing == nil {
		t.Fatal("billing snapshot must never be nil")
	}
	if len(snap.Billing.Rows) != 0 {
		t.Errorf("billing rows = %d, want 0 (failed source keeps previous state)", len(snap.Billing.Rows))
	}
	if len(snap.Metrics) == 0 {
		t.Error("metrics should still load when billing fails")
	}
	if len(snap.Assets) == 0 {
		t.Error("assets should still load when billing fails")
	}
}

func TestSnapshotSwapIsAtomic(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(testDataConfig(dir))
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	before := store.Snapshot()
	rowsBefore := len(before.Billing.Rows)

	// shrink the billing file and reload; the old snapshot must be
	// untouched
	if err := os.WriteFile(filepath.Join(dir, "synthetic_billing.csv"),
		[]byte("project_id,usage_start_time,cost\nproj-1,2023-01-01,1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := store.Load(context.Background()); err != nil {
		t.Fatalf("reload failed: %v", err)
	}

	if len(before.Billing.Rows) != rowsBefore {
		t.Error("previously published snapshot was mutated by reload")
	}
	if len(store.Snapshot().Billing.Rows) != 1 {
		t.Errorf("new snapshot rows = %d, want 1", len(store.Snapshot().Billing.Rows))
	}
}
