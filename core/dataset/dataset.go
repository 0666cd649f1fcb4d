// Package dataset owns the in-memory cache of the three data sources.
// Sources are fetched once (or on explicit reload) and the parsed rows
// are handed out as an immutable snapshot; a reload builds a new
// snapshot and swaps it in atomically, so consumers holding the old one
// are never mutated underneath.
package dataset

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"cloudcost/core/generate"
	"cloudcost/core/ingest"
	"cloudcost/core/types"
	"cloudcost/internal/config"
	"cloudcost/internal/errors"
	"cloudcost/internal/logging"
)

// Snapshot is one immutable view of the loaded sources.
type Snapshot struct {
	Billing  *types.BillingTable
	Metrics  []types.Record
	Assets   []types.Asset
	LoadedAt time.Time
}

// Store caches parsed sources behind an atomic snapshot swap.
type Store struct {
	mu   sync.RWMutex
	cfg  config.DataConfig
	snap *Snapshot
}

// NewStore creates an empty store for the configured sources.
func NewStore(cfg config.DataConfig) *Store {
	return &Store{
		cfg: cfg,
		snap: &Snapshot{
			Billing: &types.BillingTable{},
		},
	}
}

// Snapshot returns the current view. The returned data must not be
// mutated.
func (s *Store) Snapshot() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Load fetches and parses all sources, regenerating synthetic data
// first when local files are missing and generation is enabled. Each
// source loads independently: a failed source keeps its previous data
// and the others still refresh. The first error is returned after the
// swap so callers can surface it without losing the partial refresh.
func (s *Store) Load(ctx context.Context) error {
	if s.cfg.GenerateIfMissing {
		s.generateIfMissing()
	}

	prev := s.Snapshot()
	next := &Snapshot{
		Billing:  prev.Billing,
		Metrics:  prev.Metrics,
		Assets:   prev.Assets,
		LoadedAt: time.Now().UTC(),
	}

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if text, err := ingest.Fetch(ctx, s.cfg.BillingCSV); err != nil {
		logging.Error("billing source load failed", zap.String("source", s.cfg.BillingCSV), zap.Error(err))
		keep(err)
	} else {
		next.Billing = ingest.ParseCSV(text)
	}

	if text, err := ingest.Fetch(ctx, s.cfg.MetricsJSONL); err != nil {
		logging.Error("metrics source load failed", zap.String("source", s.cfg.MetricsJSONL), zap.Error(err))
		keep(err)
	} else {
		next.Metrics = ingest.ParseJSONL(text)
	}

	if assets, err := s.loadAssets(ctx); err != nil {
		logging.Error("assets source load failed", zap.String("source", s.cfg.AssetsJSON), zap.Error(err))
		keep(err)
	} else {
		next.Assets = assets
	}

	s.mu.Lock()
	s.snap = next
	s.mu.Unlock()

	logging.Info("dataset loaded",
		zap.Int("billing_rows", len(next.Billing.Rows)),
		zap.Int("metrics_rows", len(next.Metrics)),
		zap.Int("assets", len(next.Assets)))
	return firstErr
}

func (s *Store) loadAssets(ctx context.Context) ([]types.Asset, error) {
	text, err := ingest.Fetch(ctx, s.cfg.AssetsJSON)
	if err != nil {
		return nil, err
	}
	var assets []types.Asset
	if err := json.Unmarshal([]byte(text), &assets); err != nil {
		return nil, errors.Wrap(errors.TypeParsing, "invalid assets JSON", err)
	}
	return assets, nil
}

// generateIfMissing regenerates all synthetic files when any local
// source file is absent. URL sources are left alone.
func (s *Store) generateIfMissing() {
	missing := false
	for _, src := range []string{s.cfg.BillingCSV, s.cfg.MetricsJSONL, s.cfg.AssetsJSON} {
		if isURL(src) {
			continue
		}
		if _, err := os.Stat(src); err != nil {
			missing = true
			break
		}
	}
	if !missing {
		return
	}

	logging.Info("missing data files, generating synthetic data", zap.String("dir", s.cfg.Dir))
	if _, err := generate.All(s.cfg.Dir, generate.Options{
		Days:     s.cfg.Generator.Days,
		Projects: s.cfg.Generator.Projects,
		Seed:     s.cfg.Generator.Seed,
	}); err != nil {
		logging.Error("synthetic data generation failed", zap.Error(err))
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
