// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"cloudcost/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version"`

	// Server contains HTTP server settings
	Server ServerConfig `json:"server"`

	// Data contains data source settings
	Data DataConfig `json:"data"`

	// Agent contains analysis service settings
	Agent AgentConfig `json:"agent"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// ListenAddr is the address the server binds to
	ListenAddr string `json:"listen_addr"`

	// UIDir is the directory of static dashboard files
	UIDir string `json:"ui_dir"`
}

// DataConfig contains data source settings
type DataConfig struct {
	// Dir is the base directory for generated data files
	Dir string `json:"dir"`

	// BillingCSV is the path or URL of the billing CSV source
	BillingCSV string `json:"billing_csv"`

	// MetricsJSONL is the path or URL of the metrics JSONL source
	MetricsJSONL string `json:"metrics_jsonl"`

	// AssetsJSON is the path or URL of the assets JSON source
	AssetsJSON string `json:"assets_json"`

	// GenerateIfMissing regenerates synthetic data when a file is absent
	GenerateIfMissing bool `json:"generate_if_missing"`

	// Generator configures synthetic data generation
	Generator GeneratorConfig `json:"generator"`
}

// GeneratorConfig configures synthetic data generation
type GeneratorConfig struct {
	// Days is the number of calendar days to generate
	Days int `json:"days"`

	// Projects is the number of distinct projects
	Projects int `json:"projects"`

	// Seed makes generation deterministic
	Seed int64 `json:"seed"`
}

// AgentConfig contains analysis service settings
type AgentConfig struct {
	// BaseURL is the base URL of the remote analysis service
	BaseURL string `json:"base_url"`

	// TimeoutSeconds bounds each analysis call
	TimeoutSeconds int `json:"timeout_seconds"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Version: "1",
		Server: ServerConfig{
			ListenAddr: ":8090",
			UIDir:      "./ui",
		},
		Data: DataConfig{
			Dir:               "./data",
			BillingCSV:        filepath.Join("./data", "synthetic_billing.csv"),
			MetricsJSONL:      filepath.Join("./data", "synthetic_metrics.jsonl"),
			AssetsJSON:        filepath.Join("./data", "assets.json"),
			GenerateIfMissing: true,
			Generator: GeneratorConfig{
				Days:     365,
				Projects: 30,
				Seed:     42,
			},
		},
		Agent: AgentConfig{
			BaseURL:        "http://localhost:8080",
			TimeoutSeconds: 120,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load reads configuration from a JSON file, applying defaults for
// unset fields.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

var (
	mu      sync.RWMutex
	current = Default()
)

// Get returns the active configuration
func Get() *Config {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// Set replaces the active configuration
func Set(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	current = cfg
}
