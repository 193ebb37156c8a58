package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/analytics"
)

func readCSVFile(t *testing.T, path string) (hadBOM bool, rows [][]string) {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)

	bom := []byte{0xEF, 0xBB, 0xBF}
	hadBOM = bytes.HasPrefix(content, bom)
	if hadBOM {
		content = content[len(bom):]
	}

	rows, err = csv.NewReader(bytes.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return hadBOM, rows
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	err := w.WriteCSV("out.csv", WriteOptions{
		Headers:   []string{"a", "b"},
		Records:   [][]string{{"1", "2"}, {"3", "4"}},
		BOMPrefix: true,
	})
	require.NoError(t, err)

	hadBOM, rows := readCSVFile(t, filepath.Join(dir, "out.csv"))
	assert.True(t, hadBOM)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"a", "b"}, rows[0])
	assert.Equal(t, []string{"3", "4"}, rows[2])
}

func TestWriteCSV_CreatesNestedDirectory(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	err := w.WriteCSV(filepath.Join("nested", "out.csv"), WriteOptions{
		Headers: []string{"a"},
		Records: [][]string{{"1"}},
	})
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "nested", "out.csv"))
	assert.NoError(t, err)
}

func TestWriteAggregate(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	agg := &analytics.Aggregate{
		Dimension: "region",
		Groups: []analytics.Group{
			{Key: "East", Label: "East", TotalSales: 100.5, TotalProfit: 25.25, OrderCount: 3},
			{Key: "West", Label: "West", TotalSales: 50, TotalProfit: -5, OrderCount: 1},
		},
	}
	require.NoError(t, w.WriteAggregate("region_summary.csv", agg))

	_, rows := readCSVFile(t, filepath.Join(dir, "region_summary.csv"))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"region", "total_sales", "total_profit", "order_count"}, rows[0])
	assert.Equal(t, []string{"East", "100.50", "25.25", "3"}, rows[1])
	assert.Equal(t, []string{"West", "50.00", "-5.00", "1"}, rows[2])
}

func TestWriteDiscountImpact(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	buckets := []analytics.DiscountBucket{
		{Label: "0%", AvgMargin: 0.25, OrderCount: 2, TotalSales: 200, TotalProfit: 50, TotalQuantity: 5},
	}
	require.NoError(t, w.WriteDiscountImpact("discount_impact.csv", buckets))

	_, rows := readCSVFile(t, filepath.Join(dir, "discount_impact.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"0%", "0.25", "2", "200.00", "50.00", "5"}, rows[1])
}

func TestWriteCategoryDiscounts(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	summary := []analytics.CategoryDiscount{
		{Category: "Furniture", SubCategory: "Tables", AvgDiscount: 0.3, DiscountedOrders: 12},
	}
	require.NoError(t, w.WriteCategoryDiscounts("category_discount.csv", summary))

	_, rows := readCSVFile(t, filepath.Join(dir, "category_discount.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Furniture", "Tables", "30.00%", "12"}, rows[1])
}

func TestWriteTopProducts(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	ranks := []analytics.ProductRank{
		{Rank: 1, ProductName: "Canon Copier", TotalSales: 61599.82, TotalProfit: 25199.93},
	}
	require.NoError(t, w.WriteTopProducts("top_products.csv", ranks))

	_, rows := readCSVFile(t, filepath.Join(dir, "top_products.csv"))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"1", "Canon Copier", "$61,599.82", "$25,199.93"}, rows[1])
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{5, "$5.00"},
		{1234.5, "$1,234.50"},
		{1234567.8, "$1,234,567.80"},
		{-987.65, "-$987.65"},
		{999, "$999.00"},
		{1000, "$1,000.00"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(tt.in))
	}
}

func TestFormatPercent(t *testing.T) {
	assert.Equal(t, "15.60%", FormatPercent(0.156))
	assert.Equal(t, "0.00%", FormatPercent(0))
	assert.Equal(t, "-3.00%", FormatPercent(-0.03))
}
