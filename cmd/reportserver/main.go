// Command reportserver loads and cleans the dataset once, then serves
// analysis results over HTTP until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"golang.org/x/sync/errgroup"

	"salescli/internal/config"
	"salescli/internal/dataset"
	"salescli/internal/infrastructure"
	transport "salescli/internal/transport/http"
)

func main() {
	configFile := flag.String("config", "salescli.yaml", "path to config file (optional)")
	dataFile := flag.String("in", "", "input dataset file (.csv or .xlsx); overrides config")
	port := flag.Int("port", 0, "listen port; overrides config")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *dataFile != "" {
		cfg.Paths.DataFile = *dataFile
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(), logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer providers.Shutdown(context.Background())

	table, err := loadCleaned(cfg.Paths.DataFile, logger)
	if err != nil {
		logger.Error("Failed to prepare dataset", "error", err)
		os.Exit(1)
	}

	server := transport.NewServer(cfg, table, logger, providers)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		return server.Shutdown(context.Background())
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server exited with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped")
}

// loadCleaned loads the dataset and cleans it for serving
func loadCleaned(path string, logger *slog.Logger) (*dataset.Table, error) {
	var table *dataset.Table
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		table, err = dataset.LoadExcel(path)
	default:
		table, err = dataset.LoadCSV(path)
	}
	if err != nil {
		return nil, err
	}

	cleaned, summary, err := dataset.Clean(table)
	if err != nil {
		return nil, err
	}
	logger.Info("Dataset ready",
		slog.Int("rows", cleaned.Len()),
		slog.Int("duplicates_removed", summary.DuplicatesRemoved),
		slog.Int("dropped_bad_dates", summary.DroppedBadDates))
	return cleaned, nil
}
