package chart

import (
	"fmt"

	"salescli/internal/analytics"
	"salescli/internal/dataset"
)

// Build produces a chart Config from an aggregate. Bar and line charts map
// each group to one point of two series (sales, profit). Scatter needs
// paired numeric values per record, which a keyed aggregate does not carry,
// so requesting one here fails with ErrUnsupportedKind; use
// ScatterFromOrders instead.
func Build(agg *analytics.Aggregate, kind Kind, title string) (*Config, error) {
	switch kind {
	case KindBar, KindLine:
	case KindScatter:
		return nil, fmt.Errorf("%w: scatter requires paired values, not a keyed %s aggregate",
			ErrUnsupportedKind, agg.Dimension)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKind, kind)
	}

	salesPoints := make([]Point, 0, len(agg.Groups))
	profitPoints := make([]Point, 0, len(agg.Groups))
	for _, g := range agg.Groups {
		salesPoints = append(salesPoints, Point{Label: g.Label, Value: g.TotalSales})
		profitPoints = append(profitPoints, Point{Label: g.Label, Value: g.TotalProfit})
	}

	cfg := &Config{
		Kind:  kind,
		Title: title,
		XAxis: axisLabel(agg.Dimension),
		YAxis: "Amount",
		Series: []Series{
			{Name: "Total Sales", Data: salesPoints},
			{Name: "Total Profit", Data: profitPoints},
		},
		ShowLegend: true,
		ShowGrid:   true,
	}
	cfg.Colors = assignColors(len(cfg.Series))
	for i := range cfg.Series {
		cfg.Series[i].Color = cfg.Colors[i]
	}
	return cfg, nil
}

// ScatterFromOrders builds a discount-vs-profit scatter chart from the
// individual order records.
func ScatterFromOrders(t *dataset.Table, title string) *Config {
	points := make([]Point, 0, t.Len())
	for _, o := range t.Orders {
		points = append(points, Point{
			X:     o.Discount,
			Y:     o.Profit,
			Value: o.Profit,
		})
	}

	cfg := &Config{
		Kind:       KindScatter,
		Title:      title,
		XAxis:      "Discount",
		YAxis:      "Profit",
		Series:     []Series{{Name: "Orders", Data: points}},
		ShowLegend: false,
		ShowGrid:   true,
	}
	cfg.Colors = assignColors(1)
	cfg.Series[0].Color = cfg.Colors[0]
	return cfg
}

// BuildDiscountImpact charts the average margin per discount bucket
func BuildDiscountImpact(buckets []analytics.DiscountBucket, kind Kind, title string) (*Config, error) {
	switch kind {
	case KindBar, KindLine:
	default:
		return nil, fmt.Errorf("%w: %q for discount buckets", ErrUnsupportedKind, kind)
	}

	points := make([]Point, 0, len(buckets))
	for _, b := range buckets {
		points = append(points, Point{Label: b.Label, Value: b.AvgMargin})
	}

	cfg := &Config{
		Kind:       kind,
		Title:      title,
		XAxis:      "Discount Range",
		YAxis:      "Avg Profit Margin",
		Series:     []Series{{Name: "Avg Margin", Data: points}},
		ShowLegend: false,
		ShowGrid:   true,
	}
	cfg.Colors = assignColors(1)
	cfg.Series[0].Color = cfg.Colors[0]
	return cfg, nil
}

// axisLabel renders a dimension name for an axis title
func axisLabel(dimension string) string {
	switch dimension {
	case "month":
		return "Month"
	case "month-of-year":
		return "Calendar Month"
	case "year":
		return "Year"
	case "season":
		return "Season"
	case "sub-category":
		return "Sub-Category"
	default:
		if dimension == "" {
			return "Group"
		}
		// Capitalize plain dimension names (region, category, ...)
		return string(dimension[0]-'a'+'A') + dimension[1:]
	}
}
