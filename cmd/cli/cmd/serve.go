// Package cmd - serve command
package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"cloudcost/api"
	"cloudcost/core/agent"
	"cloudcost/core/dataset"
	"cloudcost/internal/config"
	"cloudcost/internal/logging"
)

// Version is the build version reported by the API and CLI.
const Version = "1.0.0"

var (
	listenAddr string
	uiDir      string
	agentURL   string
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard API and static UI",
	Long: `Load the billing and metrics sources into memory, then serve the
aggregation API under /api and the static dashboard from the UI
directory. Missing local data files are generated on first start.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&uiDir, "ui", "", "static UI directory (overrides config)")
	serveCmd.Flags().StringVar(&agentURL, "agent-url", "", "analysis service base URL (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.Get()
	if listenAddr != "" {
		cfg.Server.ListenAddr = listenAddr
	}
	if uiDir != "" {
		cfg.Server.UIDir = uiDir
	}
	if agentURL != "" {
		cfg.Agent.BaseURL = agentURL
	}

	store := dataset.NewStore(cfg.Data)
	if err := store.Load(context.Background()); err != nil {
		// serve whatever loaded; a failed source stays retryable via /reload
		logging.Warn("initial dataset load incomplete", zap.Error(err))
	}

	apiServer := api.NewServer(Version, store, agent.NewClient(cfg.Agent))

	mux := http.NewServeMux()
	mux.Handle("/api/", http.StripPrefix("/api", apiServer))
	mux.Handle("/", http.FileServer(http.Dir(cfg.Server.UIDir)))

	server := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownDone := make(chan struct{})
	go func() {
		signalChan := make(chan os.Signal, 1)
		signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
		<-signalChan

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logging.Error("shutdown failed", zap.Error(err))
		}
		close(shutdownDone)
	}()

	logging.Info("starting dashboard server",
		zap.String("addr", cfg.Server.ListenAddr),
		zap.String("ui", cfg.Server.UIDir),
		zap.String("agent", cfg.Agent.BaseURL))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	<-shutdownDone
	return nil
}
