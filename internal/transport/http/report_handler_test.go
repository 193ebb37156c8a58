package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/dataset"
	apierrors "salescli/internal/errors"
)

func testOrder(id, region, category string, sales, profit, discount float64) dataset.Order {
	day := time.Date(2017, time.March, 10, 0, 0, 0, 0, time.UTC)
	return dataset.Order{
		OrderID:     id,
		OrderDate:   day,
		ShipDate:    day.AddDate(0, 0, 4),
		Region:      region,
		Category:    category,
		SubCategory: "Chairs",
		ProductID:   "P-1",
		ProductName: "Standard Chair",
		State:       "Ohio",
		Segment:     "Consumer",
		CustomerID:  "C-1",
		Sales:       sales,
		Quantity:    1,
		Discount:    discount,
		Profit:      profit,
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	table := &dataset.Table{
		Cleaned: true,
		Orders: []dataset.Order{
			testOrder("A", "East", "Furniture", 100, 25, 0),
			testOrder("B", "East", "Technology", 40, 10, 0.2),
			testOrder("C", "West", "Furniture", 50, -5, 0.4),
		},
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	handler := NewReportHandler(table, logger, apierrors.NewErrorHandler(logger))

	srv := httptest.NewServer(handler.Routes())
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out interface{}) int {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, out))
	return resp.StatusCode
}

func TestGetAggregate(t *testing.T) {
	srv := newTestServer(t)

	var resp struct {
		Success bool `json:"success"`
		Result  struct {
			Dimension string `json:"dimension"`
			Groups    []struct {
				Key        string  `json:"key"`
				TotalSales float64 `json:"total_sales"`
				OrderCount int     `json:"order_count"`
			} `json:"groups"`
		} `json:"result"`
	}
	code := getJSON(t, srv.URL+"/aggregates/region", &resp)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, resp.Success)
	assert.Equal(t, "region", resp.Result.Dimension)
	require.Len(t, resp.Result.Groups, 2)
	assert.Equal(t, "East", resp.Result.Groups[0].Key)
	assert.InDelta(t, 140, resp.Result.Groups[0].TotalSales, 1e-9)
	assert.Equal(t, 2, resp.Result.Groups[0].OrderCount)
}

func TestGetAggregate_UnknownDimension(t *testing.T) {
	srv := newTestServer(t)

	var resp apierrors.ErrorResponse
	code := getJSON(t, srv.URL+"/aggregates/cosmic", &resp)

	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DIMENSION_NOT_FOUND", resp.Error.ErrorCode)
}

func TestGetMonthlyTrend(t *testing.T) {
	srv := newTestServer(t)

	var resp struct {
		Success bool `json:"success"`
		Result  struct {
			Dimension string `json:"dimension"`
			Groups    []struct {
				Key string `json:"key"`
			} `json:"groups"`
		} `json:"result"`
	}
	code := getJSON(t, srv.URL+"/trends/monthly", &resp)

	assert.Equal(t, http.StatusOK, code)
	require.Len(t, resp.Result.Groups, 1)
	assert.Equal(t, "2017-03", resp.Result.Groups[0].Key)
}

func TestGetSeasonalTrend(t *testing.T) {
	srv := newTestServer(t)

	var resp struct {
		Result struct {
			Groups []struct {
				Key        string  `json:"key"`
				TotalSales float64 `json:"total_sales"`
			} `json:"groups"`
		} `json:"result"`
	}
	code := getJSON(t, srv.URL+"/trends/seasonal", &resp)

	assert.Equal(t, http.StatusOK, code)
	require.Len(t, resp.Result.Groups, 4)
	assert.Equal(t, "Spring", resp.Result.Groups[1].Key)
	assert.InDelta(t, 190, resp.Result.Groups[1].TotalSales, 1e-9)
}

func TestGetDiscountImpact(t *testing.T) {
	srv := newTestServer(t)

	t.Run("default mode is simple", func(t *testing.T) {
		var resp struct {
			Success bool   `json:"success"`
			Mode    string `json:"mode"`
			Buckets []struct {
				Label      string `json:"label"`
				OrderCount int    `json:"order_count"`
			} `json:"buckets"`
		}
		code := getJSON(t, srv.URL+"/discount-impact", &resp)

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "simple", resp.Mode)
		require.Len(t, resp.Buckets, 7)
		assert.Equal(t, 1, resp.Buckets[0].OrderCount)
	})

	t.Run("weighted mode", func(t *testing.T) {
		var resp struct {
			Mode string `json:"mode"`
		}
		code := getJSON(t, srv.URL+"/discount-impact?mode=weighted", &resp)
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "weighted", resp.Mode)
	})

	t.Run("invalid mode rejected", func(t *testing.T) {
		var resp apierrors.ErrorResponse
		code := getJSON(t, srv.URL+"/discount-impact?mode=median", &resp)
		assert.Equal(t, http.StatusBadRequest, code)
		assert.Equal(t, "VALIDATION_FAILED", resp.Error.ErrorCode)
	})
}

func TestGetSummary(t *testing.T) {
	srv := newTestServer(t)

	var resp struct {
		Success bool `json:"success"`
		Summary struct {
			TotalSales         float64 `json:"total_sales"`
			TotalOrders        int     `json:"total_orders"`
			MostCommonCategory string  `json:"most_common_category"`
			MostCommonRegion   string  `json:"most_common_region"`
		} `json:"summary"`
		Shipping struct {
			AverageDays float64 `json:"average_days"`
		} `json:"shipping"`
	}
	code := getJSON(t, srv.URL+"/summary", &resp)

	assert.Equal(t, http.StatusOK, code)
	assert.InDelta(t, 190, resp.Summary.TotalSales, 1e-9)
	assert.Equal(t, 3, resp.Summary.TotalOrders)
	assert.Equal(t, "Furniture", resp.Summary.MostCommonCategory)
	assert.Equal(t, "East", resp.Summary.MostCommonRegion)
	assert.InDelta(t, 4, resp.Shipping.AverageDays, 1e-9)
}

func TestGetChart(t *testing.T) {
	srv := newTestServer(t)

	t.Run("bar chart", func(t *testing.T) {
		var resp struct {
			Success bool `json:"success"`
			Chart   struct {
				Kind   string `json:"kind"`
				Series []struct {
					Name string `json:"name"`
				} `json:"series"`
			} `json:"chart"`
		}
		code := getJSON(t, srv.URL+"/charts/region?kind=bar", &resp)

		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "bar", resp.Chart.Kind)
		require.Len(t, resp.Chart.Series, 2)
		assert.Equal(t, "Total Sales", resp.Chart.Series[0].Name)
	})

	t.Run("scatter on keyed aggregate rejected", func(t *testing.T) {
		var resp apierrors.ErrorResponse
		code := getJSON(t, srv.URL+"/charts/region?kind=scatter", &resp)

		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Equal(t, "UNSUPPORTED_CHART_KIND", resp.Error.ErrorCode)
	})

	t.Run("unknown kind rejected", func(t *testing.T) {
		var resp apierrors.ErrorResponse
		code := getJSON(t, srv.URL+"/charts/region?kind=pie", &resp)
		assert.Equal(t, http.StatusUnprocessableEntity, code)
	})

	t.Run("unknown dimension rejected", func(t *testing.T) {
		var resp apierrors.ErrorResponse
		code := getJSON(t, srv.URL+"/charts/cosmic?kind=bar", &resp)
		assert.Equal(t, http.StatusNotFound, code)
	})
}
