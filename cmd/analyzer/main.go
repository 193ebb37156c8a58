// Command analyzer runs the full retail sales analysis pipeline: load the
// dataset, clean it, compute aggregates and trends, render charts, and
// write report files.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"salescli/internal/app"
	"salescli/internal/config"
	"salescli/internal/infrastructure"
)

func main() {
	configFile := flag.String("config", "salescli.yaml", "path to config file (optional)")
	dataFile := flag.String("in", "", "input dataset file (.csv or .xlsx); overrides config")
	reportsDir := flag.String("out", "", "output directory for reports; overrides config")
	marginMode := flag.String("margin-mode", "", "discount margin averaging: simple or weighted; overrides config")
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *dataFile != "" {
		cfg.Paths.DataFile = *dataFile
	}
	if *reportsDir != "" {
		cfg.Paths.ReportsDir = *reportsDir
	}
	if *marginMode != "" {
		cfg.Analysis.MarginMode = *marginMode
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogger()

	if err := cfg.EnsureDirs(); err != nil {
		logger.Error("Failed to create output directories", "error", err)
		os.Exit(1)
	}

	ctx := infrastructure.EnsureTraceID(context.Background())

	providers, err := infrastructure.InitializeOTel(&infrastructure.OTelConfig{
		ServiceName:    infrastructure.ServiceName,
		ServiceVersion: infrastructure.ServiceVersion,
		Environment:    "cli",
		EnableTracing:  false, // batch run; keep stdout clean of span dumps
		EnableMetrics:  false,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize telemetry", "error", err)
		os.Exit(1)
	}
	defer providers.Shutdown(ctx)

	pipeline := app.NewPipeline(cfg, logger, providers)
	report, err := pipeline.Run(ctx)
	if err != nil {
		logger.Error("Analysis run failed", "error", err)
		os.Exit(1)
	}

	logger.Info("Analysis finished",
		slog.String("run_id", report.RunID),
		slog.Float64("total_sales", report.Summary.TotalSales),
		slog.Float64("total_profit", report.Summary.TotalProfit),
		slog.Int("total_orders", report.Summary.TotalOrders))

	for _, out := range report.Outputs {
		fmt.Println(out)
	}
}
