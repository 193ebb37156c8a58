// Package exporter writes aggregate results to CSV, JSON, and SQLite
// output artifacts. Results stay ephemeral in memory; these writers only
// produce files for human or downstream consumption.
package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"salescli/internal/analytics"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	dir string
}

// NewCSVWriter creates a CSV writer targeting a directory
func NewCSVWriter(dir string) *CSVWriter {
	return &CSVWriter{dir: dir}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes rows to a CSV file under the writer's directory
func (w *CSVWriter) WriteCSV(name string, options WriteOptions) error {
	fullPath := filepath.Join(w.dir, name)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// BOM helps Excel recognize UTF-8
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}
	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	slog.Info("Wrote CSV file",
		slog.String("path", fullPath),
		slog.Int("records", len(options.Records)))

	return writer.Error()
}

// WriteAggregate writes one aggregate result as a CSV report
func (w *CSVWriter) WriteAggregate(name string, agg *analytics.Aggregate) error {
	records := make([][]string, 0, len(agg.Groups))
	for _, g := range agg.Groups {
		records = append(records, []string{
			g.Label,
			formatFloat(g.TotalSales),
			formatFloat(g.TotalProfit),
			fmt.Sprintf("%d", g.OrderCount),
		})
	}
	return w.WriteCSV(name, WriteOptions{
		Headers:   []string{agg.Dimension, "total_sales", "total_profit", "order_count"},
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteDiscountImpact writes the discount bucket summary as a CSV report
func (w *CSVWriter) WriteDiscountImpact(name string, buckets []analytics.DiscountBucket) error {
	records := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		records = append(records, []string{
			b.Label,
			formatFloat(b.AvgMargin),
			fmt.Sprintf("%d", b.OrderCount),
			formatFloat(b.TotalSales),
			formatFloat(b.TotalProfit),
			fmt.Sprintf("%d", b.TotalQuantity),
		})
	}
	return w.WriteCSV(name, WriteOptions{
		Headers:   []string{"discount_range", "avg_margin", "order_count", "total_sales", "total_profit", "total_quantity"},
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteCategoryDiscounts writes the per-category discount summary as a CSV report
func (w *CSVWriter) WriteCategoryDiscounts(name string, summary []analytics.CategoryDiscount) error {
	records := make([][]string, 0, len(summary))
	for _, c := range summary {
		records = append(records, []string{
			c.Category,
			c.SubCategory,
			FormatPercent(c.AvgDiscount),
			fmt.Sprintf("%d", c.DiscountedOrders),
		})
	}
	return w.WriteCSV(name, WriteOptions{
		Headers:   []string{"category", "sub_category", "avg_discount", "discounted_orders"},
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteTopProducts writes a ranked product list as a CSV report
func (w *CSVWriter) WriteTopProducts(name string, ranks []analytics.ProductRank) error {
	records := make([][]string, 0, len(ranks))
	for _, r := range ranks {
		records = append(records, []string{
			fmt.Sprintf("%d", r.Rank),
			r.ProductName,
			FormatCurrency(r.TotalSales),
			FormatCurrency(r.TotalProfit),
		})
	}
	return w.WriteCSV(name, WriteOptions{
		Headers:   []string{"rank", "product_name", "sales", "profit"},
		Records:   records,
		BOMPrefix: true,
	})
}
