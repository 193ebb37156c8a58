// Package analytics computes descriptive aggregates over a cleaned order
// table: grouped totals per dimension, monthly and seasonal trends, and the
// relationship between discount level and profit margin. Every function is
// a pure transformation from an input table to a fresh result; nothing is
// cached or mutated.
package analytics

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDimension is returned when a grouping dimension is unknown.
var ErrInvalidDimension = errors.New("analytics: invalid grouping dimension")

// Dimension is a categorical grouping column
type Dimension string

// Supported grouping dimensions.
const (
	DimRegion      Dimension = "region"
	DimCategory    Dimension = "category"
	DimSubCategory Dimension = "sub-category"
	DimProduct     Dimension = "product"
	DimState       Dimension = "state"
	DimSegment     Dimension = "segment"
	DimCustomer    Dimension = "customer"
)

// Dimensions lists every supported grouping dimension
func Dimensions() []Dimension {
	return []Dimension{
		DimRegion, DimCategory, DimSubCategory, DimProduct,
		DimState, DimSegment, DimCustomer,
	}
}

// ParseDimension validates a dimension name
func ParseDimension(s string) (Dimension, error) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case "subcategory", "sub_category":
		d = DimSubCategory
	}
	for _, known := range Dimensions() {
		if d == known {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidDimension, s)
}

// Group is one entry of an aggregate: a distinct dimension value with its
// summed measures. OrderCount counts distinct order IDs, not line rows.
type Group struct {
	Key         string  `json:"key"`
	Label       string  `json:"label"`
	TotalSales  float64 `json:"total_sales"`
	TotalProfit float64 `json:"total_profit"`
	OrderCount  int     `json:"order_count"`
}

// Ordering describes how an aggregate's groups are sorted
type Ordering string

const (
	// OrderBySalesDesc sorts by total sales descending, ties by label.
	OrderBySalesDesc Ordering = "sales_desc"
	// OrderByProfitDesc sorts by total profit descending, ties by label.
	OrderByProfitDesc Ordering = "profit_desc"
	// OrderChronological keeps time buckets in calendar order.
	OrderChronological Ordering = "chronological"
)

// Aggregate maps a grouping key to summed measures, in a defined order.
// Produced fresh per call and never mutated afterwards.
type Aggregate struct {
	Dimension string   `json:"dimension"`
	Ordering  Ordering `json:"ordering"`
	Groups    []Group  `json:"groups"`
}

// TotalSales sums sales across all groups
func (a *Aggregate) TotalSales() float64 {
	var total float64
	for _, g := range a.Groups {
		total += g.TotalSales
	}
	return total
}

// TotalProfit sums profit across all groups
func (a *Aggregate) TotalProfit() float64 {
	var total float64
	for _, g := range a.Groups {
		total += g.TotalProfit
	}
	return total
}
