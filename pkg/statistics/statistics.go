// Package statistics aggregates raw Monte Carlo samples into the summary
// metrics shared by the capacity and beam-alignment simulators.
package statistics

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Summary holds the order statistics of one sample set.
type Summary struct {
	Mean   float64
	Median float64
	Std    float64
	Min    float64
	Max    float64
	P5     float64
	P95    float64
	P99    float64
}

// Summarize computes the summary of samples. Std is the population standard
// deviation (N divisor); percentiles use linear interpolation between order
// statistics. An empty input yields a zero Summary.
func Summarize(samples []float64) Summary {
	if len(samples) == 0 {
		return Summary{}
	}

	sorted := make([]float64, len(samples))
	copy(sorted, samples)
	sort.Float64s(sorted)

	mean := stat.Mean(sorted, nil)
	return Summary{
		Mean:   mean,
		Median: stat.Quantile(0.5, stat.LinInterp, sorted, nil),
		Std:    PopStdDev(sorted, mean),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P5:     stat.Quantile(0.05, stat.LinInterp, sorted, nil),
		P95:    stat.Quantile(0.95, stat.LinInterp, sorted, nil),
		P99:    stat.Quantile(0.99, stat.LinInterp, sorted, nil),
	}
}

// PopStdDev returns the population standard deviation about a known mean.
func PopStdDev(samples []float64, mean float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	var ss float64
	for _, v := range samples {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(samples)))
}

// ConfidenceInterval returns the two-sided interval for the sample mean at
// the given confidence level, using the standard error of the mean and the
// normal quantile (z-score).
func ConfidenceInterval(samples []float64, level float64) (lower, upper float64) {
	n := len(samples)
	if n == 0 {
		return 0, 0
	}
	mean := stat.Mean(samples, nil)
	std := PopStdDev(samples, mean)

	alpha := 1 - level
	z := distuv.UnitNormal.Quantile(1 - alpha/2)
	sem := std / math.Sqrt(float64(n))
	return mean - z*sem, mean + z*sem
}

// OutageProbability is the fraction of samples strictly below threshold.
func OutageProbability(samples []float64, threshold float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	count := 0
	for _, v := range samples {
		if v < threshold {
			count++
		}
	}
	return float64(count) / float64(len(samples))
}

// CoefficientOfVariation is std/mean, defined as 0 when the mean is not
// positive.
func CoefficientOfVariation(mean, std float64) float64 {
	if mean <= 0 {
		return 0
	}
	return std / mean
}

// Gradient numerically differentiates ys with respect to xs: second-order
// accurate interior differences that weight the two neighbor spacings
// separately, one-sided at the edges. xs must be strictly monotonic and the
// slices equal length; fewer than two points yields zeros.
func Gradient(ys, xs []float64) []float64 {
	n := len(ys)
	grad := make([]float64, n)
	if n < 2 || len(xs) != n {
		return grad
	}

	grad[0] = (ys[1] - ys[0]) / (xs[1] - xs[0])
	for i := 1; i < n-1; i++ {
		hs := xs[i] - xs[i-1]
		hd := xs[i+1] - xs[i]
		grad[i] = (hs*hs*ys[i+1] + (hd*hd-hs*hs)*ys[i] - hd*hd*ys[i-1]) /
			(hs * hd * (hs + hd))
	}
	grad[n-1] = (ys[n-1] - ys[n-2]) / (xs[n-1] - xs[n-2])
	return grad
}
