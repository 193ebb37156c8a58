// Package app orchestrates the analysis pipeline: load the dataset, clean
// it, run every analysis, render charts, and export reports. Each step runs
// to completion before the next begins; there is no shared mutable state
// between steps.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"salescli/internal/analytics"
	"salescli/internal/chart"
	"salescli/internal/config"
	"salescli/internal/dataset"
	"salescli/internal/exporter"
	"salescli/internal/infrastructure"
)

// StepTiming records how long one pipeline step took
type StepTiming struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`
}

// RunReport summarizes one pipeline run
type RunReport struct {
	RunID        string                       `json:"run_id"`
	DataFile     string                       `json:"data_file"`
	CleanSummary dataset.CleanSummary         `json:"clean_summary"`
	IssueCounts  map[string]int               `json:"issue_counts"`
	Summary      analytics.PerformanceSummary `json:"summary"`
	Shipping     analytics.ShippingSummary    `json:"shipping"`
	Correlation  float64                      `json:"discount_profit_correlation"`
	Steps        []StepTiming                 `json:"steps"`
	Outputs      []string                     `json:"outputs"`
}

// Pipeline runs the full analysis workflow
type Pipeline struct {
	cfg       *config.Config
	logger    *slog.Logger
	providers *infrastructure.OTelProviders
}

// NewPipeline creates a pipeline from configuration
func NewPipeline(cfg *config.Config, logger *slog.Logger, providers *infrastructure.OTelProviders) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:       cfg,
		logger:    logger.With(slog.String("component", "pipeline")),
		providers: providers,
	}
}

// Run executes load, clean, analyses, chart rendering, and exports, and
// returns the run report. Any step error aborts the run; there are no
// partial results.
func (p *Pipeline) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{
		RunID:    uuid.New().String(),
		DataFile: p.cfg.Paths.DataFile,
	}

	p.logger.InfoContext(ctx, "Starting analysis run",
		slog.String("run_id", report.RunID),
		slog.String("data_file", report.DataFile))

	// Load
	var table *dataset.Table
	err := p.step(ctx, report, "load", func(ctx context.Context) error {
		var err error
		table, err = loadByExtension(p.cfg.Paths.DataFile)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Clean
	var cleaned *dataset.Table
	err = p.step(ctx, report, "clean", func(ctx context.Context) error {
		var err error
		cleaned, report.CleanSummary, err = dataset.Clean(table)
		return err
	})
	if err != nil {
		return nil, err
	}

	// Validate (reporting only, never drops rows)
	_ = p.step(ctx, report, "validate", func(ctx context.Context) error {
		issues := dataset.Validate(cleaned)
		report.IssueCounts = map[string]int{
			"negative_sales":   len(issues.NegativeSales),
			"invalid_quantity": len(issues.InvalidQuantity),
			"invalid_discount": len(issues.InvalidDiscount),
			"extreme_profit":   len(issues.ExtremeProfit),
		}
		return nil
	})

	// Analyses + exports
	csvWriter := exporter.NewCSVWriter(p.cfg.Paths.ReportsDir)
	aggregates := make(map[string]*analytics.Aggregate)

	err = p.step(ctx, report, "aggregate", func(ctx context.Context) error {
		for _, dim := range []analytics.Dimension{
			analytics.DimRegion, analytics.DimCategory,
			analytics.DimSubCategory, analytics.DimState, analytics.DimSegment,
		} {
			agg, err := analytics.AggregateBy(cleaned, dim)
			if err != nil {
				return err
			}
			aggregates[string(dim)] = agg

			name := fmt.Sprintf("%s_summary.csv", strings.ReplaceAll(string(dim), "-", "_"))
			if err := csvWriter.WriteAggregate(name, agg); err != nil {
				return err
			}
			report.Outputs = append(report.Outputs, filepath.Join(p.cfg.Paths.ReportsDir, name))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = p.step(ctx, report, "trends", func(ctx context.Context) error {
		aggregates["month"] = analytics.MonthlyTrend(cleaned)
		aggregates["season"] = analytics.SeasonalTrend(cleaned)
		aggregates["year"] = analytics.YearlyTrend(cleaned)
		aggregates["month-of-year"] = analytics.MonthOfYearTrend(cleaned)
		for _, key := range []string{"month", "season", "year", "month-of-year"} {
			name := fmt.Sprintf("%s_trend.csv", strings.ReplaceAll(key, "-", "_"))
			if err := csvWriter.WriteAggregate(name, aggregates[key]); err != nil {
				return err
			}
			report.Outputs = append(report.Outputs, filepath.Join(p.cfg.Paths.ReportsDir, name))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var discountImpact []analytics.DiscountBucket
	err = p.step(ctx, report, "discount", func(ctx context.Context) error {
		mode, err := analytics.ParseMarginMode(p.cfg.Analysis.MarginMode)
		if err != nil {
			return err
		}
		discountImpact = analytics.DiscountImpact(cleaned, mode)
		report.Correlation = analytics.DiscountProfitCorrelation(cleaned)

		if err := csvWriter.WriteDiscountImpact("discount_impact.csv", discountImpact); err != nil {
			return err
		}
		report.Outputs = append(report.Outputs, filepath.Join(p.cfg.Paths.ReportsDir, "discount_impact.csv"))

		if err := csvWriter.WriteCategoryDiscounts("category_discount.csv", analytics.CategoryDiscountSummary(cleaned)); err != nil {
			return err
		}
		report.Outputs = append(report.Outputs, filepath.Join(p.cfg.Paths.ReportsDir, "category_discount.csv"))
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = p.step(ctx, report, "summary", func(ctx context.Context) error {
		report.Summary = analytics.Summarize(cleaned)
		report.Shipping = analytics.ShippingTimes(cleaned)

		top, err := analytics.TopProducts(cleaned, p.cfg.Analysis.TopProducts, analytics.RankBySales)
		if err != nil {
			return err
		}
		if err := csvWriter.WriteTopProducts("top_products_by_sales.csv", top); err != nil {
			return err
		}
		report.Outputs = append(report.Outputs, filepath.Join(p.cfg.Paths.ReportsDir, "top_products_by_sales.csv"))

		topProfit, err := analytics.TopProducts(cleaned, p.cfg.Analysis.TopProducts, analytics.RankByProfit)
		if err != nil {
			return err
		}
		if err := csvWriter.WriteTopProducts("top_products_by_profit.csv", topProfit); err != nil {
			return err
		}
		report.Outputs = append(report.Outputs, filepath.Join(p.cfg.Paths.ReportsDir, "top_products_by_profit.csv"))
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Charts
	err = p.step(ctx, report, "charts", func(ctx context.Context) error {
		configs, err := p.buildCharts(cleaned, aggregates, discountImpact)
		if err != nil {
			return err
		}
		workbook := filepath.Join(p.cfg.Paths.ChartsDir, "sales_charts.xlsx")
		renderer := chart.NewExcelRenderer(p.logger)
		if err := renderer.Render(workbook, configs...); err != nil {
			return err
		}
		report.Outputs = append(report.Outputs, workbook)
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Persist run artifacts
	err = p.step(ctx, report, "export", func(ctx context.Context) error {
		storePath := filepath.Join(p.cfg.Paths.ReportsDir, "analysis.db")
		store, err := exporter.OpenSQLiteStore(storePath)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.SaveRun(report.RunID, report.DataFile, report.CleanSummary.RowsIn, report.CleanSummary.RowsOut); err != nil {
			return err
		}
		for _, agg := range aggregates {
			if err := store.SaveAggregate(report.RunID, agg); err != nil {
				return err
			}
		}
		report.Outputs = append(report.Outputs, storePath)

		reportPath := filepath.Join(p.cfg.Paths.ReportsDir, "run_report.json")
		if err := exporter.WriteJSON(reportPath, report); err != nil {
			return err
		}
		report.Outputs = append(report.Outputs, reportPath)
		return nil
	})
	if err != nil {
		return nil, err
	}

	p.logger.InfoContext(ctx, "Analysis run complete",
		slog.String("run_id", report.RunID),
		slog.Int("outputs", len(report.Outputs)))

	return report, nil
}

// buildCharts assembles the standard chart set for one run
func (p *Pipeline) buildCharts(cleaned *dataset.Table, aggregates map[string]*analytics.Aggregate, discountImpact []analytics.DiscountBucket) ([]*chart.Config, error) {
	var configs []*chart.Config

	regionBar, err := chart.Build(aggregates["region"], chart.KindBar, "Sales by Region")
	if err != nil {
		return nil, err
	}
	configs = append(configs, regionBar)

	categoryBar, err := chart.Build(aggregates["category"], chart.KindBar, "Sales by Category")
	if err != nil {
		return nil, err
	}
	configs = append(configs, categoryBar)

	monthlyLine, err := chart.Build(aggregates["month"], chart.KindLine, "Monthly Sales Trend")
	if err != nil {
		return nil, err
	}
	configs = append(configs, monthlyLine)

	discountBar, err := chart.BuildDiscountImpact(discountImpact, chart.KindBar, "Margin by Discount Range")
	if err != nil {
		return nil, err
	}
	configs = append(configs, discountBar)

	configs = append(configs, chart.ScatterFromOrders(cleaned, "Discount vs Profit"))
	return configs, nil
}

// step runs one pipeline step with timing and an optional trace span
func (p *Pipeline) step(ctx context.Context, report *RunReport, name string, fn func(context.Context) error) error {
	start := time.Now()

	var err error
	if p.providers != nil {
		stepCtx, span := p.providers.StartSpan(ctx, "pipeline."+name,
			attribute.String("run_id", report.RunID))
		err = fn(stepCtx)
		infrastructure.RecordStepError(span, err)
		span.End()
	} else {
		err = fn(ctx)
	}

	duration := time.Since(start)
	report.Steps = append(report.Steps, StepTiming{Name: name, Duration: duration})

	if err != nil {
		p.logger.ErrorContext(ctx, "Pipeline step failed",
			slog.String("step", name),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return fmt.Errorf("step %s: %w", name, err)
	}

	p.logger.InfoContext(ctx, "Pipeline step complete",
		slog.String("step", name),
		slog.Duration("duration", duration))
	return nil
}

// loadByExtension picks the loader from the data file extension
func loadByExtension(path string) (*dataset.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return dataset.LoadExcel(path)
	default:
		return dataset.LoadCSV(path)
	}
}
