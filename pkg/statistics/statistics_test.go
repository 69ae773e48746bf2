package statistics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

func TestSummarize(t *testing.T) {
	samples := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	s := Summarize(samples)

	assert.Equal(t, 5.0, s.Mean)
	assert.Equal(t, 2.0, s.Std)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)

	assert.GreaterOrEqual(t, s.Median, 4.0)
	assert.LessOrEqual(t, s.Median, 5.0)
	assert.LessOrEqual(t, s.P5, s.Median)
	assert.LessOrEqual(t, s.Median, s.P95)
	assert.LessOrEqual(t, s.P95, s.P99)
}

func TestSummarizeConstant(t *testing.T) {
	s := Summarize([]float64{3, 3, 3, 3})
	assert.Equal(t, 3.0, s.Mean)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 0.0, s.Std)
	assert.Equal(t, 3.0, s.P5)
	assert.Equal(t, 3.0, s.P99)
}

func TestSummarizeDoesNotMutateInput(t *testing.T) {
	samples := []float64{3, 1, 2}
	Summarize(samples)
	assert.Equal(t, []float64{3, 1, 2}, samples)
}

func TestPopStdDev(t *testing.T) {
	// Population convention divides by N, not N-1.
	samples := []float64{1, 3}
	assert.Equal(t, 1.0, PopStdDev(samples, 2.0))
}

func TestConfidenceIntervalShrinksWithSampleSize(t *testing.T) {
	src := rand.New(rand.NewSource(7))
	dist := distuv.Normal{Mu: 10, Sigma: 2, Src: src}

	small := make([]float64, 100)
	large := make([]float64, 10000)
	for i := range small {
		small[i] = dist.Rand()
	}
	for i := range large {
		large[i] = dist.Rand()
	}

	loS, hiS := ConfidenceInterval(small, 0.95)
	loL, hiL := ConfidenceInterval(large, 0.95)

	assert.Less(t, hiL-loL, hiS-loS)
	assert.Less(t, loL, 10.0)
	assert.Greater(t, hiL, 10.0)
}

func TestConfidenceIntervalWidth(t *testing.T) {
	samples := []float64{9, 10, 11, 10, 9, 11, 10, 10}
	lo, hi := ConfidenceInterval(samples, 0.95)

	mean := 10.0
	std := PopStdDev(samples, mean)
	half := distuv.UnitNormal.Quantile(0.975) * std / math.Sqrt(float64(len(samples)))
	assert.InDelta(t, mean-half, lo, 1e-12)
	assert.InDelta(t, mean+half, hi, 1e-12)
}

func TestOutageProbability(t *testing.T) {
	samples := []float64{0.5, 1.0, 1.5, 2.0}
	// Strictly below the threshold counts as outage.
	assert.Equal(t, 0.25, OutageProbability(samples, 1.0))
	assert.Equal(t, 0.0, OutageProbability(samples, 0.5))
	assert.Equal(t, 1.0, OutageProbability(samples, 3.0))
}

func TestCoefficientOfVariation(t *testing.T) {
	assert.Equal(t, 0.5, CoefficientOfVariation(2, 1))
	assert.Equal(t, 0.0, CoefficientOfVariation(0, 1))
	assert.Equal(t, 0.0, CoefficientOfVariation(-1, 1))
}

func TestGradientLinear(t *testing.T) {
	xs := []float64{0, 1, 2, 3}
	ys := []float64{1, 3, 5, 7}
	g := Gradient(ys, xs)

	for i, v := range g {
		assert.InDelta(t, 2.0, v, 1e-12, "gradient[%d]", i)
	}
}

func TestGradientNonUniform(t *testing.T) {
	// y = x² sampled on uneven spacing: a second-order interior scheme
	// recovers the exact derivative 2x at the interior point.
	xs := []float64{0, 1, 3}
	ys := []float64{0, 1, 9}
	g := Gradient(ys, xs)

	assert.Equal(t, 3, len(g))
	assert.InDelta(t, 2.0, g[1], 1e-12)
	assert.InDelta(t, 1.0, g[0], 1e-12)
	assert.InDelta(t, 4.0, g[2], 1e-12)
}

func TestGradientQuadraticUnevenGrid(t *testing.T) {
	xs := []float64{0, 0.5, 2, 2.5, 4}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = x * x
	}
	g := Gradient(ys, xs)

	for i := 1; i < len(xs)-1; i++ {
		assert.InDelta(t, 2*xs[i], g[i], 1e-12, "gradient[%d]", i)
	}
}
