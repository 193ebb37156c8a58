package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"salescli/internal/dataset"
)

// MarginMode selects how the per-bucket profit margin is averaged
type MarginMode string

const (
	// MarginModeSimple averages the per-record profit/sales margins, so
	// every order line counts equally regardless of its size.
	MarginModeSimple MarginMode = "simple"
	// MarginModeWeighted weights each record's margin by its sales amount,
	// equivalent to total profit / total sales per bucket.
	MarginModeWeighted MarginMode = "weighted"
)

// ParseMarginMode validates a margin mode name
func ParseMarginMode(s string) (MarginMode, error) {
	switch MarginMode(strings.ToLower(strings.TrimSpace(s))) {
	case MarginModeSimple, "":
		return MarginModeSimple, nil
	case MarginModeWeighted:
		return MarginModeWeighted, nil
	default:
		return "", fmt.Errorf("invalid margin mode %q (expected simple or weighted)", s)
	}
}

// DiscountBucket is one discount-fraction range with its summaries.
// The bucket bounds are (Lo, Hi] except the first, which matches 0 exactly.
type DiscountBucket struct {
	Label         string  `json:"label"`
	Lo            float64 `json:"lo"`
	Hi            float64 `json:"hi"`
	AvgMargin     float64 `json:"avg_margin"`
	OrderCount    int     `json:"order_count"`
	TotalSales    float64 `json:"total_sales"`
	TotalProfit   float64 `json:"total_profit"`
	TotalQuantity int     `json:"total_quantity"`
}

// Contains reports whether a discount fraction falls in this bucket
func (b DiscountBucket) Contains(d float64) bool {
	if b.Lo == b.Hi {
		return d == b.Lo
	}
	return d > b.Lo && d <= b.Hi
}

// discountBuckets partition [0,1]: no discount, then 10-point ranges up to
// 50%, then everything above.
func discountBuckets() []DiscountBucket {
	return []DiscountBucket{
		{Label: "0%", Lo: 0, Hi: 0},
		{Label: "1-10%", Lo: 0, Hi: 0.1},
		{Label: "11-20%", Lo: 0.1, Hi: 0.2},
		{Label: "21-30%", Lo: 0.2, Hi: 0.3},
		{Label: "31-40%", Lo: 0.3, Hi: 0.4},
		{Label: "41-50%", Lo: 0.4, Hi: 0.5},
		{Label: "51-100%", Lo: 0.5, Hi: 1.0},
	}
}

// DiscountImpact buckets records by discount fraction and reports the
// average profit margin per bucket. Margin is profit/sales per record;
// mode selects simple (unweighted) or sales-weighted averaging. Records
// with zero sales cannot produce a margin and are excluded from the
// average but still counted. Discounts outside [0,1] are skipped; the
// validator reports those separately.
func DiscountImpact(t *dataset.Table, mode MarginMode) []DiscountBucket {
	buckets := discountBuckets()

	marginSum := make([]float64, len(buckets))
	marginWeight := make([]float64, len(buckets))

	for _, o := range t.Orders {
		if o.Discount < 0 || o.Discount > 1 {
			continue
		}
		idx := -1
		for i, b := range buckets {
			if b.Contains(o.Discount) {
				idx = i
				break
			}
		}
		if idx < 0 {
			continue
		}

		b := &buckets[idx]
		b.OrderCount++
		b.TotalSales += o.Sales
		b.TotalProfit += o.Profit
		b.TotalQuantity += o.Quantity

		if o.Sales != 0 && !math.IsNaN(o.Sales) {
			margin := o.Profit / o.Sales
			switch mode {
			case MarginModeWeighted:
				marginSum[idx] += margin * o.Sales
				marginWeight[idx] += o.Sales
			default:
				marginSum[idx] += margin
				marginWeight[idx]++
			}
		}
	}

	for i := range buckets {
		if marginWeight[i] != 0 {
			buckets[i].AvgMargin = marginSum[i] / marginWeight[i]
		}
	}

	return buckets
}

// DiscountProfitCorrelation returns the Pearson correlation between the
// discount fraction and profit across all records. Returns 0 when either
// column has no variance or the table has fewer than two rows.
func DiscountProfitCorrelation(t *dataset.Table) float64 {
	n := float64(t.Len())
	if n < 2 {
		return 0
	}

	var sumX, sumY float64
	for _, o := range t.Orders {
		sumX += o.Discount
		sumY += o.Profit
	}
	meanX, meanY := sumX/n, sumY/n

	var cov, varX, varY float64
	for _, o := range t.Orders {
		dx := o.Discount - meanX
		dy := o.Profit - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}

// CategoryDiscount summarizes discounting within one (category,
// sub-category) pair, over discounted rows only.
type CategoryDiscount struct {
	Category         string  `json:"category"`
	SubCategory      string  `json:"sub_category"`
	AvgDiscount      float64 `json:"avg_discount"`
	DiscountedOrders int     `json:"discounted_orders"`
}

// CategoryDiscountSummary reports the average discount and discounted-row
// count per (category, sub-category), considering only rows with a positive
// discount, sorted by average discount descending.
func CategoryDiscountSummary(t *dataset.Table) []CategoryDiscount {
	type acc struct {
		sum   float64
		count int
	}
	groups := make(map[[2]string]*acc)

	for _, o := range t.Orders {
		if o.Discount <= 0 {
			continue
		}
		key := [2]string{o.Category, o.SubCategory}
		a, ok := groups[key]
		if !ok {
			a = &acc{}
			groups[key] = a
		}
		a.sum += o.Discount
		a.count++
	}

	result := make([]CategoryDiscount, 0, len(groups))
	for key, a := range groups {
		result = append(result, CategoryDiscount{
			Category:         key[0],
			SubCategory:      key[1],
			AvgDiscount:      a.sum / float64(a.count),
			DiscountedOrders: a.count,
		})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].AvgDiscount != result[j].AvgDiscount {
			return result[i].AvgDiscount > result[j].AvgDiscount
		}
		if result[i].Category != result[j].Category {
			return result[i].Category < result[j].Category
		}
		return result[i].SubCategory < result[j].SubCategory
	})

	return result
}
