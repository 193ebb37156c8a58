package analytics

import (
	"fmt"
	"sort"

	"salescli/internal/dataset"
)

// AggregateBy groups a cleaned table by one categorical dimension and sums
// sales and profit per distinct value, counting distinct order IDs. Groups
// are ordered by total sales descending, ties broken by label so the output
// is deterministic. A group value only appears when at least one record
// carries it.
func AggregateBy(t *dataset.Table, dim Dimension) (*Aggregate, error) {
	keyFn, err := dimensionKey(dim)
	if err != nil {
		return nil, err
	}

	type acc struct {
		group  Group
		orders map[string]struct{}
	}
	groups := make(map[string]*acc)

	for _, o := range t.Orders {
		key := keyFn(o)
		if key == "" {
			continue
		}
		a, ok := groups[key]
		if !ok {
			a = &acc{
				group:  Group{Key: key, Label: key},
				orders: make(map[string]struct{}),
			}
			groups[key] = a
		}
		a.group.TotalSales += o.Sales
		a.group.TotalProfit += o.Profit
		a.orders[o.OrderID] = struct{}{}
	}

	result := &Aggregate{
		Dimension: string(dim),
		Ordering:  OrderBySalesDesc,
		Groups:    make([]Group, 0, len(groups)),
	}
	for _, a := range groups {
		a.group.OrderCount = len(a.orders)
		result.Groups = append(result.Groups, a.group)
	}

	sort.Slice(result.Groups, func(i, j int) bool {
		gi, gj := result.Groups[i], result.Groups[j]
		if gi.TotalSales != gj.TotalSales {
			return gi.TotalSales > gj.TotalSales
		}
		return gi.Label < gj.Label
	})

	return result, nil
}

// dimensionKey maps a dimension to its record accessor
func dimensionKey(dim Dimension) (func(dataset.Order) string, error) {
	switch dim {
	case DimRegion:
		return func(o dataset.Order) string { return o.Region }, nil
	case DimCategory:
		return func(o dataset.Order) string { return o.Category }, nil
	case DimSubCategory:
		return func(o dataset.Order) string { return o.SubCategory }, nil
	case DimProduct:
		return func(o dataset.Order) string { return o.ProductName }, nil
	case DimState:
		return func(o dataset.Order) string { return o.State }, nil
	case DimSegment:
		return func(o dataset.Order) string { return o.Segment }, nil
	case DimCustomer:
		return func(o dataset.Order) string { return o.CustomerName }, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidDimension, dim)
	}
}

// RankBy selects the measure used for product ranking
type RankBy string

const (
	// RankBySales ranks products by total sales.
	RankBySales RankBy = "sales"
	// RankByProfit ranks products by total profit.
	RankByProfit RankBy = "profit"
)

// ProductRank is one row of a top-products list
type ProductRank struct {
	Rank        int     `json:"rank"`
	ProductName string  `json:"product_name"`
	TotalSales  float64 `json:"total_sales"`
	TotalProfit float64 `json:"total_profit"`
}

// TopProducts returns the top n products ranked by the chosen measure,
// descending, ties broken by product name.
func TopProducts(t *dataset.Table, n int, by RankBy) ([]ProductRank, error) {
	agg, err := AggregateBy(t, DimProduct)
	if err != nil {
		return nil, err
	}

	ranked := make([]ProductRank, 0, len(agg.Groups))
	for _, g := range agg.Groups {
		ranked = append(ranked, ProductRank{
			ProductName: g.Label,
			TotalSales:  g.TotalSales,
			TotalProfit: g.TotalProfit,
		})
	}

	if by == RankByProfit {
		sort.Slice(ranked, func(i, j int) bool {
			if ranked[i].TotalProfit != ranked[j].TotalProfit {
				return ranked[i].TotalProfit > ranked[j].TotalProfit
			}
			return ranked[i].ProductName < ranked[j].ProductName
		})
	}

	if n > 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	for i := range ranked {
		ranked[i].Rank = i + 1
	}
	return ranked, nil
}
