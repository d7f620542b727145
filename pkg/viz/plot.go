// Package viz renders the fairness audit as static charts. The data shapes
// match the dashboard payload; only the rendering is local.
package viz

import (
	"fmt"
	"image/color"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/deepchokshi/mslearn-aml-labs/pkg/fairness"
)

// PlotSelectionRates renders a bar chart of the per-group metric values in
// the summary, groups in lexicographic order.
func PlotSelectionRates(s *fairness.Summary, title, filename string) error {
	names := make([]string, 0, len(s.ByGroup))
	for g := range s.ByGroup {
		names = append(names, g)
	}
	sort.Strings(names)

	values := make(plotter.Values, len(names))
	for i, g := range names {
		values[i] = s.ByGroup[g]
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Selection rate"
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return fmt.Errorf("viz: build bar chart: %w", err)
	}
	bars.Color = color.RGBA{R: 50, G: 50, B: 255, A: 255}
	p.Add(bars)
	p.NominalX(names...)

	if err := p.Save(4*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("viz: save %s: %w", filename, err)
	}
	return nil
}

// PlotFrontier renders every candidate as a point in (disparity, error)
// space, with the dominant subset highlighted.
func PlotFrontier(results []fairness.Result, retained []int, filename string) error {
	p := plot.New()
	p.Title.Text = "Error vs. disparity"
	p.X.Label.Text = "Demographic parity difference"
	p.Y.Label.Text = "Error rate"

	kept := make(map[int]bool, len(retained))
	for _, i := range retained {
		kept[i] = true
	}

	var all, front plotter.XYs
	for i, r := range results {
		pt := plotter.XY{X: r.Disparity, Y: r.Error}
		if kept[i] {
			front = append(front, pt)
		} else {
			all = append(all, pt)
		}
	}

	if len(all) > 0 {
		s, err := plotter.NewScatter(all)
		if err != nil {
			return fmt.Errorf("viz: build scatter: %w", err)
		}
		s.Color = color.RGBA{R: 120, G: 120, B: 120, A: 255}
		p.Add(s)
	}
	if len(front) > 0 {
		s, err := plotter.NewScatter(front)
		if err != nil {
			return fmt.Errorf("viz: build frontier scatter: %w", err)
		}
		s.Color = color.RGBA{R: 255, A: 255}
		s.Radius = vg.Points(4)
		p.Add(s)
	}

	if err := p.Save(5*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("viz: save %s: %w", filename, err)
	}
	return nil
}
