package antenna

import (
	"fmt"
	"math"

	"github.com/davidkleiven/gononlin/nonlin"

	"github.com/nfvri/thz-link-simulator/pkg/model"
)

// Search bracket for the continuous root, in cm. Gains outside this range
// are not physically buildable link antennas.
const (
	minSideCm = 0.1
	maxSideCm = 100.0
)

// RequiredSizeCm inverts the gain law: it returns the smallest array side
// (cm) whose gain at zero pointing error meets targetGainDBI, to within
// 0.01 cm.
//
// The discrete element count makes gain a staircase in side length, so the
// root is found in two stages: a root of the continuous relaxation
// (elements = (side/spacing)², a smooth monotone curve), then a short upward
// scan on the discrete model to the first side that actually meets the
// target. Newton-Krylov gets the first attempt at the continuous root; the
// logarithmic gain curve can throw its iterates below zero, so a bracketed
// bisection over [minSideCm, maxSideCm] backs it up.
func RequiredSizeCm(targetGainDBI, freqGHz, efficiency float64) (float64, error) {
	if freqGHz <= 0 {
		return 0, fmt.Errorf("frequency %.3f GHz must be > 0: %w", freqGHz, model.ErrInvalidConfig)
	}
	if efficiency <= 0 || efficiency > 1 {
		return 0, fmt.Errorf("efficiency %.3f must be in (0,1]: %w", efficiency, model.ErrInvalidConfig)
	}

	spacingCm := model.ArrayConfig{FrequencyGHz: freqGHz, SideCm: 1, Efficiency: 1}.WavelengthCm() / 2

	continuousGain := func(sideCm float64) float64 {
		n := sideCm / spacingCm
		return 10*math.Log10(n*n*efficiency) + planarDirectivityDB
	}

	problem := nonlin.Problem{
		F: func(out, x []float64) {
			out[0] = continuousGain(x[0]) - targetGainDBI
		},
	}
	solver := nonlin.NewtonKrylov{
		Maxiter:  100,
		StepSize: 1e-3,
		Tol:      1e-7,
	}
	sideCm := 0.0
	if res, err := solver.Solve(problem, []float64{10.0}); err == nil && res.Converged {
		sideCm = res.X[0]
	}
	if math.IsNaN(sideCm) || sideCm < minSideCm || sideCm > maxSideCm {
		sideCm = bisectSideCm(continuousGain, targetGainDBI)
	}
	if sideCm <= 0 {
		return 0, fmt.Errorf("no array size in (0,%.0f] cm reaches %.2f dBi at %.0f GHz",
			maxSideCm, targetGainDBI, freqGHz)
	}

	// Snap to the discrete model: back off below the continuous root, then
	// walk up in 0.01 cm increments to the first satisfying side.
	const stepCm = 0.01
	side := math.Max(sideCm-2*spacingCm, stepCm)
	for ; side <= sideCm+2*spacingCm+stepCm; side += stepCm {
		arr, err := NewArray(model.ArrayConfig{
			SideCm: side, FrequencyGHz: freqGHz, Efficiency: efficiency,
		})
		if err != nil {
			return 0, err
		}
		if arr.GainDBI(0) >= targetGainDBI {
			return side, nil
		}
	}
	return side, nil
}

// bisectSideCm brackets the crossing of the monotone continuous gain curve
// with target. Returns 0 when no side within the bracket reaches target.
func bisectSideCm(gain func(float64) float64, target float64) float64 {
	lo, hi := minSideCm, maxSideCm
	if gain(hi) < target {
		return 0
	}
	if gain(lo) >= target {
		return lo
	}
	for hi-lo > 1e-6 {
		mid := (lo + hi) / 2
		if gain(mid) < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return hi
}
