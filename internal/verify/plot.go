package verify

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotNames draws the per-name row counts of a report as a bar chart. The
// image format follows the extension of out (png, svg, pdf, ...).
func PlotNames(report *Report, out string) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s (%d rows)", filepath.Base(report.Path), report.Rows)
	p.Y.Label.Text = "rows"
	p.X.Label.Text = "name"

	values := make(plotter.Values, len(report.Names))
	for i, name := range report.Names {
		values[i] = float64(report.Counts[name])
	}

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(report.Names...)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, out); err != nil {
		return fmt.Errorf("failed to save plot %s: %w", out, err)
	}
	return nil
}
