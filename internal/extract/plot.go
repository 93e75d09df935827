package extract

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// WritePNG renders a force-vs-stroke line+scatter plot in original
// (non-sorted) order, so a non-monotone unloading stroke is shown exactly
// as recorded rather than implying a sorted curve (spec §4.8, §9 open
// question on non-monotone stroke).
func WritePNG(points []Point, path string) error {
	p := plot.New()
	p.Title.Text = "Force vs. Stroke"
	p.X.Label.Text = "Stroke"
	p.Y.Label.Text = "Force"

	xys := make(plotter.XYs, len(points))
	for i, pt := range points {
		xys[i].X = pt.Stroke
		xys[i].Y = pt.Force
	}

	line, err := plotter.NewLine(xys)
	if err != nil {
		return fmt.Errorf("extract: build line plotter: %w", err)
	}
	scatter, err := plotter.NewScatter(xys)
	if err != nil {
		return fmt.Errorf("extract: build scatter plotter: %w", err)
	}
	p.Add(line, scatter)

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return fmt.Errorf("extract: save plot: %w", err)
	}
	return nil
}
