package errors

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"salescli/internal/analytics"
	"salescli/internal/chart"
	"salescli/internal/dataset"
)

// ErrorHandler provides centralized error handling for the report server
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError maps any error to a structured API error and responds
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	reqID := middleware.GetReqID(r.Context())

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("request_id", reqID),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path),
	)

	apiErr := h.toAPIError(err)
	render.Render(w, r, NewErrorResponse(apiErr))
}

// toAPIError translates domain errors to API errors
func (h *ErrorHandler) toAPIError(err error) *APIError {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, analytics.ErrInvalidDimension):
		return NewWithDetails(http.StatusNotFound, "DIMENSION_NOT_FOUND", "Unknown grouping dimension", err.Error())
	case errors.Is(err, chart.ErrUnsupportedKind):
		return NewWithDetails(http.StatusUnprocessableEntity, "UNSUPPORTED_CHART_KIND", "Chart kind incompatible with aggregate shape", err.Error())
	case errors.Is(err, dataset.ErrEmptyDataset):
		return NewWithDetails(http.StatusUnprocessableEntity, "EMPTY_DATASET", "No usable rows after cleaning", err.Error())
	case errors.Is(err, dataset.ErrDataLoad):
		return NewWithDetails(http.StatusInternalServerError, "DATA_LOAD_FAILED", "Failed to load dataset", err.Error())
	default:
		return NewWithDetails(http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "Internal server error", err.Error())
	}
}
