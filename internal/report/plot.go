package report

import (
	"image/color"

	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// ResidualPlot returns a plot of the information removed by each layer and
// its running total.
func ResidualPlot(residual []float64) (*plot.Plot, error) {
	if len(residual) == 0 {
		return nil, errors.New("report: no layers to plot")
	}
	perLayer := make(plotter.XYs, len(residual))
	total := make(plotter.XYs, len(residual))
	var sum float64
	for i, v := range residual {
		sum += v
		perLayer[i].X = float64(i + 1)
		perLayer[i].Y = v
		total[i].X = float64(i + 1)
		total[i].Y = sum
	}

	p := plot.New()
	p.Title.Text = "Information reduction"
	p.X.Label.Text = "layer"
	p.Y.Label.Text = "bits"
	p.Add(plotter.NewGrid())

	layerLine, err := plotter.NewLine(perLayer)
	if err != nil {
		return nil, errors.Wrap(err, "per layer line")
	}
	layerLine.Color = color.RGBA{R: 31, G: 119, B: 180, A: 255}

	totalLine, err := plotter.NewLine(total)
	if err != nil {
		return nil, errors.Wrap(err, "total line")
	}
	totalLine.Color = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	totalLine.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}

	p.Add(layerLine, totalLine)
	p.Legend.Add("per layer", layerLine)
	p.Legend.Add("total correlation", totalLine)
	p.Legend.Top = true
	return p, nil
}

// SaveResidualPlot writes the residual plot to path. The image format is
// chosen from the file extension.
func SaveResidualPlot(path string, residual []float64) error {
	p, err := ResidualPlot(residual)
	if err != nil {
		return err
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save plot %s", path)
	}
	return nil
}
