package dataset

import "log/slog"

// extremeProfitThreshold flags rows whose absolute profit suggests a data
// entry error rather than a real order.
const extremeProfitThreshold = 10000

// IssueReport lists rows that look suspicious without being dropped.
// Cleaning decides what is unusable; validation only surfaces oddities for
// a human to review.
type IssueReport struct {
	NegativeSales   []Order `json:"negative_sales,omitempty"`
	InvalidQuantity []Order `json:"invalid_quantity,omitempty"`
	InvalidDiscount []Order `json:"invalid_discount,omitempty"`
	ExtremeProfit   []Order `json:"extreme_profit,omitempty"`
}

// Total returns the number of flagged rows across all issue kinds
func (r IssueReport) Total() int {
	return len(r.NegativeSales) + len(r.InvalidQuantity) + len(r.InvalidDiscount) + len(r.ExtremeProfit)
}

// Validate scans a table for data quality issues: negative sales,
// non-positive quantities, discounts outside [0,1], and extreme profit
// values. The table is not modified.
func Validate(t *Table) IssueReport {
	var report IssueReport

	for _, o := range t.Orders {
		if o.HasSales() && o.Sales < 0 {
			report.NegativeSales = append(report.NegativeSales, o)
		}
		if o.Quantity <= 0 {
			report.InvalidQuantity = append(report.InvalidQuantity, o)
		}
		if o.Discount < 0 || o.Discount > 1 {
			report.InvalidDiscount = append(report.InvalidDiscount, o)
		}
		if o.Profit < -extremeProfitThreshold || o.Profit > extremeProfitThreshold {
			report.ExtremeProfit = append(report.ExtremeProfit, o)
		}
	}

	if report.Total() > 0 {
		slog.Warn("Data quality issues found",
			slog.Int("negative_sales", len(report.NegativeSales)),
			slog.Int("invalid_quantity", len(report.InvalidQuantity)),
			slog.Int("invalid_discount", len(report.InvalidDiscount)),
			slog.Int("extreme_profit", len(report.ExtremeProfit)))
	}

	return report
}
