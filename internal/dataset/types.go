// Package dataset loads and cleans the retail order dataset.
//
// The loader reads a delimited file (or Excel workbook) into an in-memory
// Table of typed Order rows. The cleaner normalizes the table into the shape
// the analytics package expects: parsed dates, no duplicate rows, no rows
// missing a sales amount.
package dataset

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

// Sentinel errors for the load/clean surface.
var (
	// ErrDataLoad indicates the dataset file is missing, unreadable, or malformed.
	ErrDataLoad = errors.New("dataset: load failed")
	// ErrEmptyDataset indicates no usable rows remain after cleaning.
	ErrEmptyDataset = errors.New("dataset: no usable rows")
)

// Order is one transactional sales line. Date fields hold both the raw
// string from the file and, after cleaning, the parsed value.
type Order struct {
	OrderID      string
	OrderDateRaw string
	OrderDate    time.Time
	ShipDateRaw  string
	ShipDate     time.Time
	ShipMode     string
	CustomerID   string
	CustomerName string
	Segment      string
	Country      string
	City         string
	State        string
	PostalCode   string
	Region       string
	ProductID    string
	Category     string
	SubCategory  string
	ProductName  string
	Sales        float64 // NaN when the source cell was empty or unparseable
	Quantity     int
	Discount     float64
	Profit       float64
}

// HasSales reports whether the row carries a usable sales amount
func (o Order) HasSales() bool {
	return !math.IsNaN(o.Sales)
}

// key builds a deterministic identity string covering every field, used for
// duplicate detection. NaN formats stably so missing-sales rows compare too.
func (o Order) key() string {
	var b strings.Builder
	for _, s := range []string{
		o.OrderID, o.OrderDateRaw, o.ShipDateRaw, o.ShipMode,
		o.CustomerID, o.CustomerName, o.Segment,
		o.Country, o.City, o.State, o.PostalCode, o.Region,
		o.ProductID, o.Category, o.SubCategory, o.ProductName,
		strconv.FormatFloat(o.Sales, 'g', -1, 64),
		strconv.Itoa(o.Quantity),
		strconv.FormatFloat(o.Discount, 'g', -1, 64),
		strconv.FormatFloat(o.Profit, 'g', -1, 64),
	} {
		b.WriteString(s)
		b.WriteByte('\x1f')
	}
	return b.String()
}

// Table is an ordered collection of Orders sharing a uniform schema
type Table struct {
	Orders  []Order
	Cleaned bool
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.Orders)
}

// DateRange returns the minimum and maximum order dates. Only meaningful on
// a cleaned table; ok is false when the table is empty.
func (t *Table) DateRange() (min, max time.Time, ok bool) {
	for _, o := range t.Orders {
		if o.OrderDate.IsZero() {
			continue
		}
		if !ok {
			min, max, ok = o.OrderDate, o.OrderDate, true
			continue
		}
		if o.OrderDate.Before(min) {
			min = o.OrderDate
		}
		if o.OrderDate.After(max) {
			max = o.OrderDate
		}
	}
	return min, max, ok
}

// TotalSales sums the sales column over rows with a usable amount
func (t *Table) TotalSales() float64 {
	var total float64
	for _, o := range t.Orders {
		if o.HasSales() {
			total += o.Sales
		}
	}
	return total
}

// TotalProfit sums the profit column
func (t *Table) TotalProfit() float64 {
	var total float64
	for _, o := range t.Orders {
		total += o.Profit
	}
	return total
}
