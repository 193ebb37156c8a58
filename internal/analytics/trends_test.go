package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescli/internal/dataset"
)

func orderOn(year int, month time.Month, day int, sales, profit float64, id string) dataset.Order {
	return fixtureOrder(func(o *dataset.Order) {
		o.OrderID = id
		o.OrderDate = time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
		o.ShipDate = o.OrderDate.AddDate(0, 0, 3)
		o.Sales = sales
		o.Profit = profit
	})
}

func TestMonthlyTrend_NoGaps(t *testing.T) {
	// Orders in Jan and Apr 2017: Feb and Mar must appear as zero entries.
	table := fixtureTable(
		orderOn(2017, time.January, 10, 100, 10, "A"),
		orderOn(2017, time.April, 5, 50, 5, "B"),
	)

	trend := MonthlyTrend(table)
	require.Len(t, trend.Groups, 4)
	assert.Equal(t, OrderChronological, trend.Ordering)

	assert.Equal(t, "2017-01", trend.Groups[0].Key)
	assert.InDelta(t, 100, trend.Groups[0].TotalSales, 1e-9)

	assert.Equal(t, "2017-02", trend.Groups[1].Key)
	assert.Zero(t, trend.Groups[1].TotalSales)
	assert.Zero(t, trend.Groups[1].OrderCount)

	assert.Equal(t, "2017-03", trend.Groups[2].Key)
	assert.Zero(t, trend.Groups[2].TotalSales)

	assert.Equal(t, "2017-04", trend.Groups[3].Key)
	assert.InDelta(t, 50, trend.Groups[3].TotalSales, 1e-9)
}

func TestMonthlyTrend_BucketCountSpansRange(t *testing.T) {
	// Nov 2016 through Feb 2018 inclusive is 16 calendar months.
	table := fixtureTable(
		orderOn(2016, time.November, 20, 10, 1, "A"),
		orderOn(2018, time.February, 2, 20, 2, "B"),
	)

	trend := MonthlyTrend(table)
	assert.Len(t, trend.Groups, 16)
	assert.Equal(t, "2016-11", trend.Groups[0].Key)
	assert.Equal(t, "2018-02", trend.Groups[len(trend.Groups)-1].Key)
}

func TestMonthlyTrend_SingleMonth(t *testing.T) {
	table := fixtureTable(
		orderOn(2017, time.June, 1, 10, 1, "A"),
		orderOn(2017, time.June, 30, 20, 2, "B"),
	)

	trend := MonthlyTrend(table)
	require.Len(t, trend.Groups, 1)
	assert.InDelta(t, 30, trend.Groups[0].TotalSales, 1e-9)
	assert.Equal(t, 2, trend.Groups[0].OrderCount)
}

func TestMonthlyTrend_EmptyTable(t *testing.T) {
	trend := MonthlyTrend(fixtureTable())
	assert.Empty(t, trend.Groups)
}

func TestSeasonOf(t *testing.T) {
	tests := []struct {
		month time.Month
		want  Season
	}{
		{time.December, SeasonWinter},
		{time.January, SeasonWinter},
		{time.February, SeasonWinter},
		{time.March, SeasonSpring},
		{time.May, SeasonSpring},
		{time.June, SeasonSummer},
		{time.August, SeasonSummer},
		{time.September, SeasonFall},
		{time.November, SeasonFall},
	}
	for _, tt := range tests {
		t.Run(tt.month.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, SeasonOf(tt.month))
		})
	}
}

func TestSeasonalTrend(t *testing.T) {
	table := fixtureTable(
		orderOn(2017, time.January, 10, 100, 10, "A"), // Winter
		orderOn(2017, time.July, 4, 60, 6, "B"),       // Summer
		orderOn(2017, time.December, 25, 40, 4, "C"),  // Winter
	)

	trend := SeasonalTrend(table)
	require.Len(t, trend.Groups, 4)

	assert.Equal(t, "Winter", trend.Groups[0].Key)
	assert.InDelta(t, 140, trend.Groups[0].TotalSales, 1e-9)
	assert.Equal(t, "Spring", trend.Groups[1].Key)
	assert.Zero(t, trend.Groups[1].TotalSales)
	assert.Equal(t, "Summer", trend.Groups[2].Key)
	assert.InDelta(t, 60, trend.Groups[2].TotalSales, 1e-9)
	assert.Equal(t, "Fall", trend.Groups[3].Key)
	assert.Zero(t, trend.Groups[3].TotalSales)
}

func TestYearlyTrend_FillsGapYears(t *testing.T) {
	table := fixtureTable(
		orderOn(2015, time.March, 1, 10, 1, "A"),
		orderOn(2017, time.March, 1, 30, 3, "B"),
	)

	trend := YearlyTrend(table)
	require.Len(t, trend.Groups, 3)
	assert.Equal(t, "2015", trend.Groups[0].Key)
	assert.Equal(t, "2016", trend.Groups[1].Key)
	assert.Zero(t, trend.Groups[1].TotalSales)
	assert.Equal(t, "2017", trend.Groups[2].Key)
}

func TestMonthOfYearTrend(t *testing.T) {
	// Two Januaries in different years pool together.
	table := fixtureTable(
		orderOn(2016, time.January, 5, 10, 1, "A"),
		orderOn(2017, time.January, 9, 30, 3, "B"),
		orderOn(2017, time.September, 1, 5, 0.5, "C"),
	)

	trend := MonthOfYearTrend(table)
	require.Len(t, trend.Groups, 12)
	assert.Equal(t, "January", trend.Groups[0].Label)
	assert.InDelta(t, 40, trend.Groups[0].TotalSales, 1e-9)
	assert.Equal(t, 2, trend.Groups[0].OrderCount)
	assert.InDelta(t, 5, trend.Groups[8].TotalSales, 1e-9)
	assert.Equal(t, "December", trend.Groups[11].Label)
	assert.Zero(t, trend.Groups[11].TotalSales)
}

func TestMonthlyTrend_Conservation(t *testing.T) {
	table := fixtureTable(
		orderOn(2017, time.January, 1, 11.5, 2, "A"),
		orderOn(2017, time.March, 2, 20.25, 3, "B"),
		orderOn(2017, time.March, 9, 8.25, -1, "C"),
	)

	trend := MonthlyTrend(table)
	assert.InDelta(t, table.TotalSales(), trend.TotalSales(), 1e-9)
	assert.InDelta(t, table.TotalProfit(), trend.TotalProfit(), 1e-9)
}
