package chart

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExcelRenderer_Render(t *testing.T) {
	barCfg, err := Build(regionAggregate(), KindBar, "Sales by Region")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "charts.xlsx")
	renderer := NewExcelRenderer(nil)
	require.NoError(t, renderer.Render(path, barCfg))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	require.Contains(t, sheets, "Sales by Region")

	header, err := f.GetCellValue("Sales by Region", "B1")
	require.NoError(t, err)
	assert.Equal(t, "Total Sales", header)

	label, err := f.GetCellValue("Sales by Region", "A2")
	require.NoError(t, err)
	assert.Equal(t, "East", label)

	value, err := f.GetCellValue("Sales by Region", "B2")
	require.NoError(t, err)
	assert.Equal(t, "100", value)
}

func TestExcelRenderer_MultipleSheets(t *testing.T) {
	barCfg, err := Build(regionAggregate(), KindBar, "Sales by Region")
	require.NoError(t, err)
	lineCfg, err := Build(regionAggregate(), KindLine, "Sales Trend")
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "charts.xlsx")
	require.NoError(t, NewExcelRenderer(nil).Render(path, barCfg, lineCfg))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Sales by Region")
	assert.Contains(t, sheets, "Sales Trend")
}

func TestExcelRenderer_Scatter(t *testing.T) {
	cfg := &Config{
		Kind:   KindScatter,
		Title:  "Discount vs Profit",
		XAxis:  "Discount",
		YAxis:  "Profit",
		Series: []Series{{Name: "Orders", Data: []Point{{X: 0.2, Y: 15}, {X: 0.5, Y: -30}}}},
	}

	path := filepath.Join(t.TempDir(), "scatter.xlsx")
	require.NoError(t, NewExcelRenderer(nil).Render(path, cfg))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	x, err := f.GetCellValue("Discount vs Profit", "A2")
	require.NoError(t, err)
	assert.Equal(t, "0.2", x)
}

func TestExcelRenderer_NoCharts(t *testing.T) {
	err := NewExcelRenderer(nil).Render(filepath.Join(t.TempDir(), "empty.xlsx"))
	assert.Error(t, err)
}

func TestSheetName(t *testing.T) {
	tests := []struct {
		title string
		index int
		want  string
	}{
		{"Sales by Region", 0, "Sales by Region"},
		{"", 2, "Chart 3"},
		{"Sales [Q1]: East/West?", 0, "Sales Q1 East-West"},
		{"A really long chart title that keeps going and going", 0, "A really long chart title that "},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sheetName(tt.title, tt.index))
	}
}
