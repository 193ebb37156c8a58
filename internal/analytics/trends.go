package analytics

import (
	"fmt"
	"time"

	"salescli/internal/dataset"
)

// Season is a fixed quarter-of-year bucket
type Season string

// Seasons in reporting order.
const (
	SeasonWinter Season = "Winter"
	SeasonSpring Season = "Spring"
	SeasonSummer Season = "Summer"
	SeasonFall   Season = "Fall"
)

// seasonOrder fixes the reporting order of seasonal buckets.
var seasonOrder = []Season{SeasonWinter, SeasonSpring, SeasonSummer, SeasonFall}

// SeasonOf maps a calendar month to its season (northern hemisphere
// retail convention: Dec-Feb Winter, Mar-May Spring, Jun-Aug Summer,
// Sep-Nov Fall).
func SeasonOf(m time.Month) Season {
	switch m {
	case time.December, time.January, time.February:
		return SeasonWinter
	case time.March, time.April, time.May:
		return SeasonSpring
	case time.June, time.July, time.August:
		return SeasonSummer
	default:
		return SeasonFall
	}
}

// MonthlyTrend buckets orders by calendar month from the earliest to the
// latest order date, inclusive. Months inside that range with no orders get
// an explicit zero-valued entry; nothing is silently omitted. Groups are
// chronological, keyed "YYYY-MM".
func MonthlyTrend(t *dataset.Table) *Aggregate {
	result := &Aggregate{Dimension: "month", Ordering: OrderChronological}

	min, max, ok := t.DateRange()
	if !ok {
		return result
	}

	type bucket struct {
		sales, profit float64
		orders        map[string]struct{}
	}
	buckets := make(map[string]*bucket)
	for _, o := range t.Orders {
		key := o.OrderDate.Format("2006-01")
		b, ok := buckets[key]
		if !ok {
			b = &bucket{orders: make(map[string]struct{})}
			buckets[key] = b
		}
		b.sales += o.Sales
		b.profit += o.Profit
		b.orders[o.OrderID] = struct{}{}
	}

	start := time.Date(min.Year(), min.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(max.Year(), max.Month(), 1, 0, 0, 0, 0, time.UTC)
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 1, 0) {
		key := cur.Format("2006-01")
		g := Group{Key: key, Label: cur.Format("Jan 2006")}
		if b, ok := buckets[key]; ok {
			g.TotalSales = b.sales
			g.TotalProfit = b.profit
			g.OrderCount = len(b.orders)
		}
		result.Groups = append(result.Groups, g)
	}

	return result
}

// SeasonalTrend sums sales and profit per season, in fixed season order.
// All four seasons are always present so year-over-year comparisons line up.
func SeasonalTrend(t *dataset.Table) *Aggregate {
	type bucket struct {
		sales, profit float64
		orders        map[string]struct{}
	}
	buckets := make(map[Season]*bucket, 4)
	for _, s := range seasonOrder {
		buckets[s] = &bucket{orders: make(map[string]struct{})}
	}

	for _, o := range t.Orders {
		b := buckets[SeasonOf(o.OrderDate.Month())]
		b.sales += o.Sales
		b.profit += o.Profit
		b.orders[o.OrderID] = struct{}{}
	}

	result := &Aggregate{Dimension: "season", Ordering: OrderChronological}
	for _, s := range seasonOrder {
		b := buckets[s]
		result.Groups = append(result.Groups, Group{
			Key:         string(s),
			Label:       string(s),
			TotalSales:  b.sales,
			TotalProfit: b.profit,
			OrderCount:  len(b.orders),
		})
	}
	return result
}

// YearlyTrend sums sales and profit per calendar year from the earliest to
// the latest order year, inclusive, with explicit zero entries for gaps.
func YearlyTrend(t *dataset.Table) *Aggregate {
	result := &Aggregate{Dimension: "year", Ordering: OrderChronological}

	min, max, ok := t.DateRange()
	if !ok {
		return result
	}

	type bucket struct {
		sales, profit float64
		orders        map[string]struct{}
	}
	buckets := make(map[int]*bucket)
	for _, o := range t.Orders {
		y := o.OrderDate.Year()
		b, ok := buckets[y]
		if !ok {
			b = &bucket{orders: make(map[string]struct{})}
			buckets[y] = b
		}
		b.sales += o.Sales
		b.profit += o.Profit
		b.orders[o.OrderID] = struct{}{}
	}

	for y := min.Year(); y <= max.Year(); y++ {
		g := Group{Key: fmt.Sprintf("%d", y), Label: fmt.Sprintf("%d", y)}
		if b, ok := buckets[y]; ok {
			g.TotalSales = b.sales
			g.TotalProfit = b.profit
			g.OrderCount = len(b.orders)
		}
		result.Groups = append(result.Groups, g)
	}

	return result
}

// MonthOfYearTrend sums sales and profit per calendar month name across all
// years (seasonality profile: every January pooled together). All twelve
// months appear in calendar order.
func MonthOfYearTrend(t *dataset.Table) *Aggregate {
	type bucket struct {
		sales, profit float64
		orders        map[string]struct{}
	}
	buckets := make(map[time.Month]*bucket, 12)
	for m := time.January; m <= time.December; m++ {
		buckets[m] = &bucket{orders: make(map[string]struct{})}
	}

	for _, o := range t.Orders {
		b := buckets[o.OrderDate.Month()]
		b.sales += o.Sales
		b.profit += o.Profit
		b.orders[o.OrderID] = struct{}{}
	}

	result := &Aggregate{Dimension: "month-of-year", Ordering: OrderChronological}
	for m := time.January; m <= time.December; m++ {
		b := buckets[m]
		result.Groups = append(result.Groups, Group{
			Key:         fmt.Sprintf("%02d", int(m)),
			Label:       m.String(),
			TotalSales:  b.sales,
			TotalProfit: b.profit,
			OrderCount:  len(b.orders),
		})
	}
	return result
}
