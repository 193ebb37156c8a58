package analytics

import (
	"math"
	"sort"

	"salescli/internal/dataset"
)

// PerformanceSummary holds overall sales performance metrics
type PerformanceSummary struct {
	TotalSales         float64 `json:"total_sales"`
	TotalProfit        float64 `json:"total_profit"`
	TotalOrders        int     `json:"total_orders"`
	AverageDiscount    float64 `json:"average_discount"`
	MostCommonCategory string  `json:"most_common_category"`
	MostCommonRegion   string  `json:"most_common_region"`
}

// Summarize computes overall performance metrics for a cleaned table.
// TotalOrders counts distinct order IDs; the modal category and region pick
// the lexically smallest value on a frequency tie so output is stable.
func Summarize(t *dataset.Table) PerformanceSummary {
	summary := PerformanceSummary{}
	if t.Len() == 0 {
		return summary
	}

	orders := make(map[string]struct{})
	categories := make(map[string]int)
	regions := make(map[string]int)
	var discountSum float64

	for _, o := range t.Orders {
		summary.TotalSales += o.Sales
		summary.TotalProfit += o.Profit
		discountSum += o.Discount
		orders[o.OrderID] = struct{}{}
		categories[o.Category]++
		regions[o.Region]++
	}

	summary.TotalOrders = len(orders)
	summary.AverageDiscount = discountSum / float64(t.Len())
	summary.MostCommonCategory = mode(categories)
	summary.MostCommonRegion = mode(regions)
	return summary
}

// mode returns the most frequent key, ties broken lexically
func mode(counts map[string]int) string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	best, bestCount := "", -1
	for _, k := range keys {
		if counts[k] > bestCount {
			best, bestCount = k, counts[k]
		}
	}
	return best
}

// ShippingSummary holds order-to-ship time statistics in days
type ShippingSummary struct {
	AverageDays float64 `json:"average_days"`
	MinDays     int     `json:"min_days"`
	MaxDays     int     `json:"max_days"`
}

// ShippingTimes computes average, minimum, and maximum order-to-ship delay
// in whole days over a cleaned table.
func ShippingTimes(t *dataset.Table) ShippingSummary {
	if t.Len() == 0 {
		return ShippingSummary{}
	}
	summary := ShippingSummary{MinDays: math.MaxInt, MaxDays: math.MinInt}

	var totalDays float64
	for _, o := range t.Orders {
		days := int(o.ShipDate.Sub(o.OrderDate).Hours() / 24)
		totalDays += float64(days)
		if days < summary.MinDays {
			summary.MinDays = days
		}
		if days > summary.MaxDays {
			summary.MaxDays = days
		}
	}
	summary.AverageDays = totalDays / float64(t.Len())
	return summary
}
