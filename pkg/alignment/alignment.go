// Package alignment simulates beam alignment search strategies. The
// transmitter starts at a random azimuth and must sweep the angular space
// until its beam overlaps the receiver's, which always points back at the
// transmitter.
package alignment

import (
	"fmt"
	"math"

	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"

	"github.com/nfvri/thz-link-simulator/pkg/model"
	"github.com/nfvri/thz-link-simulator/pkg/statistics"
)

// Strategy identifies one of the 2D search strategies.
type Strategy int

const (
	StrategyClockwise Strategy = iota
	StrategyCounterclockwise
	StrategyRandom
	StrategyBinarySearch
	StrategyAdaptiveStep
	Strategy3DHierarchical
)

// Strategies lists every 2D strategy in presentation order.
var Strategies = []Strategy{
	StrategyClockwise,
	StrategyCounterclockwise,
	StrategyRandom,
	StrategyBinarySearch,
	StrategyAdaptiveStep,
}

func (s Strategy) String() string {
	switch s {
	case StrategyClockwise:
		return "clockwise"
	case StrategyCounterclockwise:
		return "counterclockwise"
	case StrategyRandom:
		return "random"
	case StrategyBinarySearch:
		return "binary_search"
	case StrategyAdaptiveStep:
		return "adaptive_step"
	case Strategy3DHierarchical:
		return "3d_hierarchical"
	}
	return "unknown"
}

// ParseStrategy maps a strategy name to its constant.
func ParseStrategy(name string) (Strategy, error) {
	for _, s := range Strategies {
		if s.String() == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("strategy %q: %w", name, model.ErrInvalidConfig)
}

// StrategyResult holds the alignment times of one strategy over all trials,
// with the time unit being one beam dwell (1 ms).
type StrategyResult struct {
	Strategy Strategy
	TimesMs  []float64
	Stats    statistics.Summary
}

// Simulator2D runs azimuth-only alignment trials. The receiver points at 0
// degrees; beams overlap when the wraparound angular distance is within the
// beamwidth.
type Simulator2D struct {
	cfg model.AlignmentConfig
	rng *rand.Rand
}

// NewSimulator2D validates the configuration and seeds the trial stream.
func NewSimulator2D(cfg model.AlignmentConfig) (*Simulator2D, error) {
	if cfg.BeamwidthDeg <= 0 || cfg.BeamwidthDeg > 180 {
		return nil, fmt.Errorf("beamwidth %.2f deg must be in (0, 180]: %w",
			cfg.BeamwidthDeg, model.ErrInvalidConfig)
	}
	if cfg.Trials <= 0 {
		return nil, fmt.Errorf("trial count %d must be > 0: %w",
			cfg.Trials, model.ErrInvalidConfig)
	}
	if cfg.MaxBinaryIterations <= 0 {
		return nil, fmt.Errorf("binary iteration cap %d must be > 0: %w",
			cfg.MaxBinaryIterations, model.ErrInvalidConfig)
	}
	return &Simulator2D{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}, nil
}

// aligned reports whether a transmit angle overlaps the receiver beam at 0
// degrees, handling wraparound at 360.
func (s *Simulator2D) aligned(txAngleDeg float64) bool {
	a := math.Mod(txAngleDeg, 360)
	if a < 0 {
		a += 360
	}
	diff := math.Min(a, 360-a)
	return diff <= s.cfg.BeamwidthDeg
}

// Run executes all trials for one strategy. Each trial starts from a fresh
// uniform random transmit angle; the returned times include the 1 ms
// detection dwell on the aligning step.
func (s *Simulator2D) Run(strategy Strategy) (*StrategyResult, error) {
	log.Debugf("2d alignment: strategy=%s beamwidth=%.1f trials=%d",
		strategy, s.cfg.BeamwidthDeg, s.cfg.Trials)

	times := make([]float64, s.cfg.Trials)
	for i := range times {
		init := s.rng.Float64() * 360
		switch strategy {
		case StrategyClockwise:
			times[i] = s.sweep(init, 1)
		case StrategyCounterclockwise:
			times[i] = s.sweep(init, -1)
		case StrategyRandom:
			times[i] = s.randomSearch(init)
		case StrategyBinarySearch:
			times[i] = s.binarySearch(init)
		case StrategyAdaptiveStep:
			times[i] = s.adaptiveStep(init)
		default:
			return nil, fmt.Errorf("strategy %d: %w", int(strategy), model.ErrInvalidConfig)
		}
	}

	return &StrategyResult{
		Strategy: strategy,
		TimesMs:  times,
		Stats:    statistics.Summarize(times),
	}, nil
}

// RunAll runs every strategy back to back on the shared stream.
func (s *Simulator2D) RunAll() ([]*StrategyResult, error) {
	results := make([]*StrategyResult, 0, len(Strategies))
	for _, strategy := range Strategies {
		res, err := s.Run(strategy)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// sweep rotates one degree per step in the given direction until alignment,
// capped at a full rotation.
func (s *Simulator2D) sweep(initDeg float64, direction float64) float64 {
	for step := 0; step < 360; step++ {
		if s.aligned(initDeg + direction*float64(step)) {
			return float64(step + 1)
		}
	}
	return 360
}

// randomSearch tries integer angle offsets in a random order without
// repetition.
func (s *Simulator2D) randomSearch(initDeg float64) float64 {
	offsets := s.rng.Perm(360)
	for step, offset := range offsets {
		if s.aligned(initDeg + float64(offset)) {
			return float64(step + 1)
		}
	}
	return 360
}

// binarySearch halves the angular interval, probing midpoints.
//
// TODO(alignment): the bound update pivots on the fixed angle 180 rather
// than on feedback from the probe, so the interval does not actually narrow
// toward the target. Replace with an RSSI-guided bisection.
func (s *Simulator2D) binarySearch(initDeg float64) float64 {
	low, high := 0.0, 360.0
	for step := 0; step < s.cfg.MaxBinaryIterations; step++ {
		mid := (low + high) / 2
		if s.aligned(initDeg + mid) {
			return float64(step + 1)
		}
		if mid < 180 {
			low = mid
		} else {
			high = mid
		}
	}
	return float64(s.cfg.MaxBinaryIterations)
}

// adaptiveStep scans with a coarse step sized from the beamwidth.
//
// TODO(alignment): add the fine 1-degree refinement phase around the coarse
// hit; today only the coarse pass runs.
func (s *Simulator2D) adaptiveStep(initDeg float64) float64 {
	coarse := math.Max(s.cfg.BeamwidthDeg*s.cfg.CoarseStepFactor, 10)
	maxSteps := int(360/coarse) + 1
	for step := 0; step < maxSteps; step++ {
		if s.aligned(initDeg + float64(step)*coarse) {
			return float64(step + 1)
		}
	}
	return float64(maxSteps)
}
