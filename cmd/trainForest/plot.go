package main

import (
	"image/color"
	"math"

	"github.com/vertgenlab/gonomics/exception"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
)

func plotImportance(names []string, values []float64, outFile string) {
	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(8))
	exception.PanicOnErr(err)
	bars.LineStyle.Width = vg.Length(0)
	bars.Color = color.RGBA{R: 60, G: 120, B: 216, A: 255}

	pl := plot.New()
	pl.Add(bars)
	pl.NominalX(names...)

	pl.Title.Text = "Measure importance"
	pl.Y.Label.Text = "Importance"
	pl.X.Tick.Label.Rotation = math.Pi / 2
	pl.X.Tick.Label.YAlign = -0.35
	pl.X.Tick.Label.XAlign = text.XRight
	pl.X.Tick.Label.Font.Size = 6

	err = pl.Save(30*vg.Centimeter, 15*vg.Centimeter, outFile)
	exception.PanicOnErr(err)
}
