// Package http exposes computed aggregates over a chi-based JSON API.
// The dataset is loaded and cleaned once at startup; every request computes
// its aggregate fresh from the cleaned table.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"salescli/internal/analytics"
	"salescli/internal/chart"
	"salescli/internal/dataset"
	apierrors "salescli/internal/errors"
)

// ReportHandler serves analysis results computed from the cleaned table
type ReportHandler struct {
	table        *dataset.Table
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewReportHandler creates a report handler over a cleaned table
func NewReportHandler(table *dataset.Table, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	return &ReportHandler{
		table:        table,
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the report routes
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/aggregates/{dimension}", h.GetAggregate)
	r.Get("/trends/monthly", h.GetMonthlyTrend)
	r.Get("/trends/seasonal", h.GetSeasonalTrend)
	r.Get("/trends/yearly", h.GetYearlyTrend)
	r.Get("/discount-impact", h.GetDiscountImpact)
	r.Get("/summary", h.GetSummary)
	r.Get("/charts/{dimension}", h.GetChart)

	return r
}

// aggregateResponse wraps an aggregate in the standard envelope
type aggregateResponse struct {
	Success bool                 `json:"success"`
	Result  *analytics.Aggregate `json:"result"`
}

// GetAggregate handles GET /aggregates/{dimension}
func (h *ReportHandler) GetAggregate(w http.ResponseWriter, r *http.Request) {
	dim, err := analytics.ParseDimension(chi.URLParam(r, "dimension"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	agg, err := analytics.AggregateBy(h.table, dim)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, aggregateResponse{Success: true, Result: agg})
}

// GetMonthlyTrend handles GET /trends/monthly
func (h *ReportHandler) GetMonthlyTrend(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, aggregateResponse{Success: true, Result: analytics.MonthlyTrend(h.table)})
}

// GetSeasonalTrend handles GET /trends/seasonal
func (h *ReportHandler) GetSeasonalTrend(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, aggregateResponse{Success: true, Result: analytics.SeasonalTrend(h.table)})
}

// GetYearlyTrend handles GET /trends/yearly
func (h *ReportHandler) GetYearlyTrend(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, aggregateResponse{Success: true, Result: analytics.YearlyTrend(h.table)})
}

// discountImpactQuery validates the discount-impact query parameters
type discountImpactQuery struct {
	Mode string `validate:"omitempty,oneof=simple weighted"`
}

// discountImpactResponse wraps the discount bucket list
type discountImpactResponse struct {
	Success     bool                       `json:"success"`
	Mode        string                     `json:"mode"`
	Correlation float64                    `json:"discount_profit_correlation"`
	Buckets     []analytics.DiscountBucket `json:"buckets"`
}

// GetDiscountImpact handles GET /discount-impact?mode=simple|weighted
func (h *ReportHandler) GetDiscountImpact(w http.ResponseWriter, r *http.Request) {
	q := discountImpactQuery{Mode: r.URL.Query().Get("mode")}
	if err := h.validate.Struct(q); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("mode", "must be simple or weighted"))
		return
	}

	mode, err := analytics.ParseMarginMode(q.Mode)
	if err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("mode", err.Error()))
		return
	}

	render.JSON(w, r, discountImpactResponse{
		Success:     true,
		Mode:        string(mode),
		Correlation: analytics.DiscountProfitCorrelation(h.table),
		Buckets:     analytics.DiscountImpact(h.table, mode),
	})
}

// summaryResponse wraps the performance and shipping summaries
type summaryResponse struct {
	Success  bool                         `json:"success"`
	Summary  analytics.PerformanceSummary `json:"summary"`
	Shipping analytics.ShippingSummary    `json:"shipping"`
}

// GetSummary handles GET /summary
func (h *ReportHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, summaryResponse{
		Success:  true,
		Summary:  analytics.Summarize(h.table),
		Shipping: analytics.ShippingTimes(h.table),
	})
}

// chartResponse wraps a chart config
type chartResponse struct {
	Success bool          `json:"success"`
	Chart   *chart.Config `json:"chart"`
}

// GetChart handles GET /charts/{dimension}?kind=bar|line|scatter
func (h *ReportHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	dim, err := analytics.ParseDimension(chi.URLParam(r, "dimension"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	kind, err := chart.ParseKind(r.URL.Query().Get("kind"))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	agg, err := analytics.AggregateBy(h.table, dim)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	cfg, err := chart.Build(agg, kind, "Sales by "+string(dim))
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.JSON(w, r, chartResponse{Success: true, Chart: cfg})
}
