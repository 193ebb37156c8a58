// Package chart turns aggregate results into render-ready chart
// configurations and writes them out as Excel workbooks with native charts.
// No numeric computation happens here; the analytics package owns the math.
package chart

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedKind is returned when a chart kind cannot represent the
// shape of the data it was asked to render.
var ErrUnsupportedKind = errors.New("chart: unsupported chart kind for this data")

// Kind is a chart type
type Kind string

// Supported chart kinds.
const (
	KindBar     Kind = "bar"
	KindLine    Kind = "line"
	KindScatter Kind = "scatter"
)

// ParseKind validates a chart kind name
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindBar, "":
		return KindBar, nil
	case KindLine:
		return KindLine, nil
	case KindScatter:
		return KindScatter, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
	}
}

// Point is a single data point in a series
type Point struct {
	Label string  `json:"label"`
	X     float64 `json:"x,omitempty"`
	Y     float64 `json:"y,omitempty"`
	Value float64 `json:"value"`
}

// Series is a named sequence of points
type Series struct {
	Name  string  `json:"name"`
	Data  []Point `json:"data"`
	Color string  `json:"color,omitempty"`
}

// Config describes how to render one chart. Given the same aggregate, the
// builders always produce the same Config.
type Config struct {
	Kind       Kind     `json:"kind"`
	Title      string   `json:"title"`
	XAxis      string   `json:"x_axis,omitempty"`
	YAxis      string   `json:"y_axis,omitempty"`
	Series     []Series `json:"series"`
	Colors     []string `json:"colors,omitempty"`
	ShowLegend bool     `json:"show_legend"`
	ShowGrid   bool     `json:"show_grid"`
}

// defaultColors is the palette assigned to series in order.
var defaultColors = []string{
	"#4F46E5", "#10B981", "#F59E0B", "#EF4444", "#8B5CF6",
	"#06B6D4", "#EC4899", "#84CC16", "#F97316", "#6366F1",
}

// assignColors returns the first count palette colors, cycling
func assignColors(count int) []string {
	colors := make([]string, count)
	for i := 0; i < count; i++ {
		colors[i] = defaultColors[i%len(defaultColors)]
	}
	return colors
}
