package dataset

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadExcel reads the order dataset from an .xlsx workbook. Sheets are
// probed for a header row carrying the required columns, so exports that
// put the data on a named sheet ("Orders", "Sheet1", ...) load the same
// way as a CSV file.
func LoadExcel(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataLoad, err)
	}
	defer f.Close()

	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil || len(rows) < 2 {
			continue
		}

		headerRow := findHeaderRow(rows)
		if headerRow < 0 {
			continue
		}

		columns, err := mapColumns(rows[headerRow])
		if err != nil {
			continue
		}

		table := &Table{Orders: make([]Order, 0, len(rows)-headerRow-1)}
		for _, row := range rows[headerRow+1:] {
			if isBlankRow(row) {
				continue
			}
			table.Orders = append(table.Orders, orderFromRow(row, columns))
		}

		slog.Info("Loaded dataset from workbook",
			slog.String("path", path),
			slog.String("sheet", sheet),
			slog.Int("rows", table.Len()))

		return table, nil
	}

	return nil, fmt.Errorf("%w: no sheet with order columns in %s", ErrDataLoad, path)
}

// findHeaderRow scans the first few rows for one that looks like the order
// header. Exports sometimes put a title row above the data.
func findHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > 10 {
		limit = 10
	}
	for i := 0; i < limit; i++ {
		rowText := strings.ToLower(strings.Join(rows[i], " "))
		if strings.Contains(rowText, "order id") &&
			strings.Contains(rowText, "sales") &&
			strings.Contains(rowText, "profit") {
			return i
		}
	}
	return -1
}

// isBlankRow reports whether every cell is empty
func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
