package dataset

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Canonical column names after header normalization.
const (
	colOrderID      = "order id"
	colOrderDate    = "order date"
	colShipDate     = "ship date"
	colShipMode     = "ship mode"
	colCustomerID   = "customer id"
	colCustomerName = "customer name"
	colSegment      = "segment"
	colCountry      = "country"
	colCity         = "city"
	colState        = "state"
	colPostalCode   = "postal code"
	colRegion       = "region"
	colProductID    = "product id"
	colCategory     = "category"
	colSubCategory  = "sub-category"
	colProductName  = "product name"
	colSales        = "sales"
	colQuantity     = "quantity"
	colDiscount     = "discount"
	colProfit       = "profit"
)

// requiredColumns must be present in the header for a load to succeed.
var requiredColumns = []string{
	colOrderID, colOrderDate, colShipDate, colRegion,
	colCategory, colSubCategory, colProductName,
	colSales, colQuantity, colDiscount, colProfit,
}

// LoadCSV reads a comma-delimited order file with a header row into a Table.
// The source dataset ships in latin-1; content that is not valid UTF-8 is
// decoded as such. A UTF-8 BOM is stripped when present.
func LoadCSV(path string) (*Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
	}

	// Strip UTF-8 BOM if present
	if len(content) >= 3 && content[0] == 0xEF && content[1] == 0xBB && content[2] == 0xBF {
		content = content[3:]
	}

	if !utf8.Valid(content) {
		decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(content)
		if err != nil {
			return nil, fmt.Errorf("%w: decoding latin-1 content: %v", ErrDataLoad, err)
		}
		content = decoded
		slog.Debug("Decoded dataset as latin-1", slog.String("path", path))
	}

	reader := csv.NewReader(strings.NewReader(string(content)))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: reading csv: %v", ErrDataLoad, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%w: file has no data rows", ErrDataLoad)
	}

	columns, err := mapColumns(records[0])
	if err != nil {
		return nil, err
	}

	table := &Table{Orders: make([]Order, 0, len(records)-1)}
	for _, row := range records[1:] {
		table.Orders = append(table.Orders, orderFromRow(row, columns))
	}

	slog.Info("Loaded dataset",
		slog.String("path", path),
		slog.Int("rows", table.Len()),
		slog.Int("columns", len(records[0])))

	return table, nil
}

// mapColumns normalizes header names and maps canonical columns to indices
func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[normalizeColumn(name)] = i
	}

	var missing []string
	for _, col := range requiredColumns {
		if _, ok := columns[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing columns: %s", ErrDataLoad, strings.Join(missing, ", "))
	}
	return columns, nil
}

// normalizeColumn lowercases a header name and collapses spacing variants,
// so "Sub-Category", "sub_category" and "Sub Category " all map the same way.
func normalizeColumn(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.Join(strings.Fields(s), " ")
	if s == "sub category" {
		s = "sub-category"
	}
	return s
}

// orderFromRow builds an Order from one CSV record. Numeric parsing is
// tolerant: thousands separators and currency signs are stripped; an empty
// or unparseable sales cell becomes NaN so the cleaner can drop the row.
func orderFromRow(row []string, columns map[string]int) Order {
	cell := func(col string) string {
		if i, ok := columns[col]; ok && i < len(row) {
			return row[i]
		}
		return ""
	}

	return Order{
		OrderID:      cell(colOrderID),
		OrderDateRaw: cell(colOrderDate),
		ShipDateRaw:  cell(colShipDate),
		ShipMode:     cell(colShipMode),
		CustomerID:   cell(colCustomerID),
		CustomerName: cell(colCustomerName),
		Segment:      cell(colSegment),
		Country:      cell(colCountry),
		City:         cell(colCity),
		State:        cell(colState),
		PostalCode:   cell(colPostalCode),
		Region:       cell(colRegion),
		ProductID:    cell(colProductID),
		Category:     cell(colCategory),
		SubCategory:  cell(colSubCategory),
		ProductName:  cell(colProductName),
		Sales:        parseAmount(cell(colSales)),
		Quantity:     parseInt(cell(colQuantity)),
		Discount:     parseFloat(cell(colDiscount)),
		Profit:       parseFloat(cell(colProfit)),
	}
}

// parseAmount parses a currency-like cell; missing or invalid becomes NaN
func parseAmount(s string) float64 {
	s = cleanNumeric(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// parseFloat parses a numeric cell, defaulting to 0
func parseFloat(s string) float64 {
	s = cleanNumeric(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// parseInt parses an integer cell, defaulting to 0
func parseInt(s string) int {
	s = cleanNumeric(s)
	if s == "" {
		return 0
	}
	// Some exports write quantities as "3.0"
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return int(v)
	}
	return 0
}

// cleanNumeric strips formatting characters from numeric cells
func cleanNumeric(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	return s
}
