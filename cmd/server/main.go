// Package main - standalone dashboard server without the CLI wrapper.
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"time"

	"go.uber.org/zap"

	"cloudcost/api"
	"cloudcost/core/agent"
	"cloudcost/core/dataset"
	"cloudcost/internal/config"
	"cloudcost/internal/logging"
)

const version = "1.0.0"

func main() {
	addr := flag.String("addr", ":8090", "server address")
	uiPath := flag.String("ui", "./ui", "path to UI files")
	dataDir := flag.String("data", "./data", "path to data files")
	agentURL := flag.String("agent-url", "http://localhost:8080", "analysis service base URL")
	flag.Parse()

	cfg := config.Default()
	cfg.Server.ListenAddr = *addr
	cfg.Server.UIDir = *uiPath
	cfg.Data.Dir = *dataDir
	cfg.Data.BillingCSV = *dataDir + "/synthetic_billing.csv"
	cfg.Data.MetricsJSONL = *dataDir + "/synthetic_metrics.jsonl"
	cfg.Data.AssetsJSON = *dataDir + "/assets.json"
	cfg.Agent.BaseURL = *agentURL

	store := dataset.NewStore(cfg.Data)
	if err := store.Load(context.Background()); err != nil {
		logging.Warn("initial dataset load incomplete", zap.Error(err))
	}

	apiServer := api.NewServer(version, store, agent.NewClient(cfg.Agent))

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", apiServer))
	mux.Handle("/", http.FileServer(http.Dir(cfg.Server.UIDir)))

	logging.Info("starting dashboard server",
		zap.String("addr", cfg.Server.ListenAddr),
		zap.String("ui", cfg.Server.UIDir))

	server := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil {
		log.Fatal(err)
	}
}
