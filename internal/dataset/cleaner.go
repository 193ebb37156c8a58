package dataset

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// dateLayouts are tried in order when parsing date cells. The source
// dataset uses MM/DD/YYYY; ISO and day-first variants cover re-exports.
var dateLayouts = []string{
	"1/2/2006",
	"01/02/2006",
	"2006-01-02",
	"2-Jan-06",
	"2006/01/02",
}

// CleanSummary reports what the cleaner dropped
type CleanSummary struct {
	RowsIn              int `json:"rows_in"`
	RowsOut             int `json:"rows_out"`
	DroppedBadDates     int `json:"dropped_bad_dates"`
	DroppedMissingSales int `json:"dropped_missing_sales"`
	DuplicatesRemoved   int `json:"duplicates_removed"`
}

// Clean returns a cleaned copy of the table:
//   - text columns are whitespace-trimmed
//   - date columns are parsed; rows with unparseable order or ship dates
//     are dropped and counted
//   - rows with a missing sales amount are dropped and counted
//   - duplicate rows (identical on every field) are removed keeping the
//     first occurrence
//
// The input table is not modified. Cleaning an already cleaned table drops
// nothing further. Returns ErrEmptyDataset when no usable rows remain.
func Clean(t *Table) (*Table, CleanSummary, error) {
	summary := CleanSummary{RowsIn: t.Len()}

	if t.Len() == 0 {
		return nil, summary, fmt.Errorf("%w: input table is empty", ErrEmptyDataset)
	}

	cleaned := &Table{Orders: make([]Order, 0, t.Len()), Cleaned: true}
	seen := make(map[string]struct{}, t.Len())

	for _, o := range t.Orders {
		o = trimTextFields(o)

		orderDate, ok := parseDate(o.OrderDateRaw)
		if !ok {
			summary.DroppedBadDates++
			continue
		}
		shipDate, ok := parseDate(o.ShipDateRaw)
		if !ok {
			summary.DroppedBadDates++
			continue
		}
		o.OrderDate = orderDate
		o.ShipDate = shipDate

		if !o.HasSales() {
			summary.DroppedMissingSales++
			continue
		}

		k := o.key()
		if _, dup := seen[k]; dup {
			summary.DuplicatesRemoved++
			continue
		}
		seen[k] = struct{}{}
		cleaned.Orders = append(cleaned.Orders, o)
	}

	summary.RowsOut = cleaned.Len()

	slog.Info("Cleaned dataset",
		slog.Int("rows_in", summary.RowsIn),
		slog.Int("rows_out", summary.RowsOut),
		slog.Int("dropped_bad_dates", summary.DroppedBadDates),
		slog.Int("dropped_missing_sales", summary.DroppedMissingSales),
		slog.Int("duplicates_removed", summary.DuplicatesRemoved))

	if cleaned.Len() == 0 {
		return nil, summary, fmt.Errorf("%w: all %d rows dropped during cleaning", ErrEmptyDataset, summary.RowsIn)
	}

	return cleaned, summary, nil
}

// trimTextFields strips surrounding whitespace from the text columns
func trimTextFields(o Order) Order {
	o.OrderID = strings.TrimSpace(o.OrderID)
	o.OrderDateRaw = strings.TrimSpace(o.OrderDateRaw)
	o.ShipDateRaw = strings.TrimSpace(o.ShipDateRaw)
	o.ShipMode = strings.TrimSpace(o.ShipMode)
	o.CustomerID = strings.TrimSpace(o.CustomerID)
	o.CustomerName = strings.TrimSpace(o.CustomerName)
	o.Segment = strings.TrimSpace(o.Segment)
	o.Country = strings.TrimSpace(o.Country)
	o.City = strings.TrimSpace(o.City)
	o.State = strings.TrimSpace(o.State)
	o.PostalCode = strings.TrimSpace(o.PostalCode)
	o.Region = strings.TrimSpace(o.Region)
	o.ProductID = strings.TrimSpace(o.ProductID)
	o.Category = strings.TrimSpace(o.Category)
	o.SubCategory = strings.TrimSpace(o.SubCategory)
	o.ProductName = strings.TrimSpace(o.ProductName)
	return o
}

// parseDate tries the known layouts against a date cell
func parseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
