// Package render produces diagnostic plots of simulation results with
// gonum/plot.
package render

import (
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/nfvri/thz-link-simulator/pkg/alignment"
	"github.com/nfvri/thz-link-simulator/pkg/model"
	"github.com/nfvri/thz-link-simulator/pkg/montecarlo"
	"github.com/nfvri/thz-link-simulator/pkg/pathloss"
)

const histogramBins = 60

// CapacityHistogram plots the capacity sample distribution of one run.
func CapacityHistogram(res *montecarlo.Result, dir string) (string, error) {
	p := plot.New()
	p.Title.Text = "Capacity Distribution"
	p.X.Label.Text = "Capacity (Gbps)"
	p.Y.Label.Text = "Trials"

	hist, err := plotter.NewHist(plotter.Values(res.Capacities), histogramBins)
	if err != nil {
		return "", fmt.Errorf("capacity histogram: %w", err)
	}
	p.Add(hist)

	path := filepath.Join(dir, "capacity_histogram.png")
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

// SensitivityCurves plots mean capacity against each swept parameter of an
// environmental suite, one line per parameter on normalized sweep position.
func SensitivityCurves(suite *montecarlo.EnvironmentalSuite, dir string) (string, error) {
	p := plot.New()
	p.Title.Text = "Environmental Sensitivity"
	p.X.Label.Text = "Sweep position"
	p.Y.Label.Text = "Mean capacity (Gbps)"

	err := plotutil.AddLinePoints(p,
		"temperature", sweepXYs(suite.Temperature),
		"humidity", sweepXYs(suite.Humidity),
		"pressure", sweepXYs(suite.Pressure),
	)
	if err != nil {
		return "", fmt.Errorf("sensitivity curves: %w", err)
	}

	path := filepath.Join(dir, "sensitivity_curves.png")
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

// sweepXYs normalizes the swept values to [0,1] so sweeps with different
// units can share one axis.
func sweepXYs(res *montecarlo.SweepResult) plotter.XYs {
	pts := make(plotter.XYs, len(res.Points))
	lo := res.Points[0].Value
	hi := res.Points[len(res.Points)-1].Value
	span := hi - lo
	if span == 0 {
		span = 1
	}
	for i, pt := range res.Points {
		pts[i].X = (pt.Value - lo) / span
		pts[i].Y = pt.MeanCapacity
	}
	return pts
}

// AlignmentHistograms overlays the alignment time distributions of several
// strategies.
func AlignmentHistograms(results []*alignment.StrategyResult, dir string) (string, error) {
	p := plot.New()
	p.Title.Text = "Beam Alignment Times"
	p.X.Label.Text = "Alignment time (ms)"
	p.Y.Label.Text = "Trials"
	p.Legend.Top = true

	for i, res := range results {
		hist, err := plotter.NewHist(plotter.Values(res.TimesMs), histogramBins)
		if err != nil {
			return "", fmt.Errorf("alignment histogram %s: %w", res.Strategy, err)
		}
		hist.FillColor = plotutil.Color(i)
		p.Add(hist)
		p.Legend.Add(res.Strategy.String(), hist)
	}

	path := filepath.Join(dir, "alignment_times.png")
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}

// AbsorptionSpectrum plots the atmospheric absorption coefficient over a
// frequency range for the given environment.
func AbsorptionSpectrum(m *pathloss.Model, env model.Environment, freqsGHz []float64, dir string) (string, error) {
	p := plot.New()
	p.Title.Text = "Atmospheric Absorption"
	p.X.Label.Text = "Frequency (GHz)"
	p.Y.Label.Text = "Absorption (dB/km)"
	p.Y.Scale = plot.LogScale{}
	p.Y.Tick.Marker = plot.LogTicks{}

	pts := make(plotter.XYs, len(freqsGHz))
	for i, f := range freqsGHz {
		pts[i].X = f
		// Log axes reject zero, clamp to a visible floor.
		y := m.AbsorptionCoefficient(f, env)
		if y < 1e-4 {
			y = 1e-4
		}
		pts[i].Y = y
	}

	line, err := plotter.NewLine(pts)
	if err != nil {
		return "", fmt.Errorf("absorption spectrum: %w", err)
	}
	p.Add(line)

	path := filepath.Join(dir, "absorption_spectrum.png")
	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return "", fmt.Errorf("save %s: %w", path, err)
	}
	return path, nil
}
