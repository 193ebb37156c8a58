package chart

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelRenderer writes chart Configs into an .xlsx workbook with native
// charts. Each chart gets its own sheet holding the backing data in the
// leftmost columns and the rendered chart beside it.
type ExcelRenderer struct {
	logger *slog.Logger
}

// NewExcelRenderer creates a workbook renderer
func NewExcelRenderer(logger *slog.Logger) *ExcelRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelRenderer{logger: logger.With(slog.String("component", "chart_renderer"))}
}

// Render writes all configs into a single workbook at path
func (r *ExcelRenderer) Render(path string, configs ...*Config) error {
	if len(configs) == 0 {
		return fmt.Errorf("no charts to render")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, cfg := range configs {
		sheet := sheetName(cfg.Title, i)
		if i == 0 {
			if err := f.SetSheetName("Sheet1", sheet); err != nil {
				return fmt.Errorf("failed to name sheet: %w", err)
			}
		} else {
			if _, err := f.NewSheet(sheet); err != nil {
				return fmt.Errorf("failed to create sheet: %w", err)
			}
		}
		if err := r.renderSheet(f, sheet, cfg); err != nil {
			return fmt.Errorf("failed to render chart %q: %w", cfg.Title, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}

	r.logger.Info("Rendered chart workbook",
		slog.String("path", path),
		slog.Int("charts", len(configs)))
	return nil
}

// renderSheet writes one chart's data and chart object to a sheet
func (r *ExcelRenderer) renderSheet(f *excelize.File, sheet string, cfg *Config) error {
	if cfg.Kind == KindScatter {
		return r.renderScatter(f, sheet, cfg)
	}

	// Header row: label column then one column per series.
	if err := f.SetCellValue(sheet, "A1", cfg.XAxis); err != nil {
		return err
	}
	for si, s := range cfg.Series {
		col, _ := excelize.ColumnNumberToName(si + 2)
		if err := f.SetCellValue(sheet, fmt.Sprintf("%s1", col), s.Name); err != nil {
			return err
		}
	}

	rows := 0
	if len(cfg.Series) > 0 {
		rows = len(cfg.Series[0].Data)
	}
	for pi := 0; pi < rows; pi++ {
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", pi+2), cfg.Series[0].Data[pi].Label); err != nil {
			return err
		}
		for si, s := range cfg.Series {
			col, _ := excelize.ColumnNumberToName(si + 2)
			if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, pi+2), s.Data[pi].Value); err != nil {
				return err
			}
		}
	}

	series := make([]excelize.ChartSeries, 0, len(cfg.Series))
	for si, s := range cfg.Series {
		col, _ := excelize.ColumnNumberToName(si + 2)
		series = append(series, excelize.ChartSeries{
			Name:       s.Name,
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, rows+1),
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", sheet, col, col, rows+1),
		})
	}

	chartType := excelize.Col
	if cfg.Kind == KindLine {
		chartType = excelize.Line
	}

	anchor, _ := excelize.ColumnNumberToName(len(cfg.Series) + 4)
	return f.AddChart(sheet, anchor+"2", &excelize.Chart{
		Type:   chartType,
		Series: series,
		Title:  []excelize.RichTextRun{{Text: cfg.Title}},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: cfg.XAxis}}},
		YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: cfg.YAxis}}},
		Legend: excelize.ChartLegend{Position: "bottom"},
	})
}

// renderScatter writes X/Y pairs and a scatter chart
func (r *ExcelRenderer) renderScatter(f *excelize.File, sheet string, cfg *Config) error {
	if err := f.SetCellValue(sheet, "A1", cfg.XAxis); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "B1", cfg.YAxis); err != nil {
		return err
	}

	points := cfg.Series[0].Data
	for i, p := range points {
		if err := f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), p.X); err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), p.Y); err != nil {
			return err
		}
	}

	return f.AddChart(sheet, "D2", &excelize.Chart{
		Type: excelize.Scatter,
		Series: []excelize.ChartSeries{{
			Name:       cfg.Series[0].Name,
			Categories: fmt.Sprintf("%s!$A$2:$A$%d", sheet, len(points)+1),
			Values:     fmt.Sprintf("%s!$B$2:$B$%d", sheet, len(points)+1),
		}},
		Title:  []excelize.RichTextRun{{Text: cfg.Title}},
		XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: cfg.XAxis}}},
		YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: cfg.YAxis}}},
		Legend: excelize.ChartLegend{Position: "none"},
	})
}

// sheetName derives a valid sheet name from a chart title. Sheet names are
// capped at 31 characters and may not contain []:*?/\ characters.
func sheetName(title string, index int) string {
	name := title
	if name == "" {
		name = fmt.Sprintf("Chart %d", index+1)
	}
	replacer := strings.NewReplacer("[", "", "]", "", ":", "", "*", "", "?", "", "/", "-", "\\", "-")
	name = replacer.Replace(name)
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}
