// Package montecarlo is the stochastic link-budget engine: it perturbs the
// physical parameters trial by trial, drives the antenna and path-loss
// models with the perturbed values, and aggregates the resulting capacity
// samples into statistical summaries.
package montecarlo

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/nfvri/thz-link-simulator/pkg/antenna"
	"github.com/nfvri/thz-link-simulator/pkg/linkbudget"
	"github.com/nfvri/thz-link-simulator/pkg/model"
	"github.com/nfvri/thz-link-simulator/pkg/pathloss"
	"github.com/nfvri/thz-link-simulator/pkg/statistics"
)

// Result is the immutable aggregate of one Monte Carlo run. The raw sample
// slices are retained for downstream consumers (export, plotting).
type Result struct {
	RunID  string
	Trials int

	Mean   float64
	Median float64
	Std    float64
	Min    float64
	Max    float64
	P5     float64
	P95    float64
	P99    float64

	CILower         float64
	CIUpper         float64
	ConfidenceLevel float64

	OutageProbability      float64
	Availability           float64
	CoefficientOfVariation float64

	SNRMean     float64
	SNRStd      float64
	SNRMin      float64
	RxPowerMean float64
	RxPowerStd  float64

	Capacities []float64
	SNRs       []float64
	RxPowers   []float64
}

// Simulator runs seeded Monte Carlo batches against a shared, read-only
// path-loss model. It is safe to reuse across runs; each run derives all of
// its random state from the configured seed.
type Simulator struct {
	cfg  model.SimulationConfig
	loss *pathloss.Model
}

// NewSimulator validates the run configuration and returns the engine.
func NewSimulator(cfg model.SimulationConfig, loss *pathloss.Model) (*Simulator, error) {
	if cfg.Trials <= 0 {
		return nil, fmt.Errorf("trial count %d must be > 0: %w", cfg.Trials, model.ErrInvalidConfig)
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.Workers > cfg.Trials {
		cfg.Workers = cfg.Trials
	}
	if cfg.ConfidenceLevel <= 0 || cfg.ConfidenceLevel >= 1 {
		return nil, fmt.Errorf("confidence level %.3f must be in (0,1): %w",
			cfg.ConfidenceLevel, model.ErrInvalidConfig)
	}
	if loss == nil {
		return nil, fmt.Errorf("path-loss model is required: %w", model.ErrInvalidConfig)
	}
	return &Simulator{cfg: cfg, loss: loss}, nil
}

// trialBatchSize bounds how many trials a worker runs between cancellation
// checks.
const trialBatchSize = 4096

// Run executes the full trial loop for the given link and aggregates the
// samples. Workers own disjoint index ranges and independently seeded
// streams (seed+workerIndex), writing into pre-sized slices, so the merge is
// positional: equal (seed, workers) produces a bit-identical Result.
func (s *Simulator) Run(ctx context.Context, link model.LinkConfig) (*Result, error) {
	if err := link.Array.Validate(); err != nil {
		return nil, err
	}
	if link.DistanceM <= 0 {
		return nil, fmt.Errorf("distance %.3f m must be > 0: %w", link.DistanceM, model.ErrInvalidConfig)
	}
	// The carrier frequency feeds both the array geometry and the path-loss
	// model; a mismatch would mix physics at two different frequencies.
	if link.FrequencyGHz != link.Array.FrequencyGHz {
		return nil, fmt.Errorf("link frequency %.3f GHz does not match array frequency %.3f GHz: %w",
			link.FrequencyGHz, link.Array.FrequencyGHz, model.ErrInvalidConfig)
	}

	arr, err := antenna.NewArray(link.Array)
	if err != nil {
		return nil, err
	}

	log.Debugf("monte carlo run: %d trials, %d workers, seed %d, %.0f GHz @ %.0f m",
		s.cfg.Trials, s.cfg.Workers, s.cfg.Seed, link.FrequencyGHz, link.DistanceM)

	capacities := make([]float64, s.cfg.Trials)
	snrs := make([]float64, s.cfg.Trials)
	rxPowers := make([]float64, s.cfg.Trials)

	var wg sync.WaitGroup
	errs := make([]error, s.cfg.Workers)
	chunk := (s.cfg.Trials + s.cfg.Workers - 1) / s.cfg.Workers

	for w := 0; w < s.cfg.Workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > s.cfg.Trials {
			end = s.cfg.Trials
		}
		if start >= end {
			continue
		}

		wg.Add(1)
		go func(worker, start, end int) {
			defer wg.Done()
			src := rand.New(rand.NewSource(s.cfg.Seed + uint64(worker)))
			errs[worker] = s.runTrials(ctx, src, arr, link, start, end, capacities, snrs, rxPowers)
		}(w, start, end)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return s.aggregate(capacities, snrs, rxPowers), nil
}

// runTrials executes trials [start,end) with the worker's own source. The
// draw order per trial is fixed: tx power, tx pointing, rx pointing,
// temperature, humidity, pressure.
func (s *Simulator) runTrials(ctx context.Context, src *rand.Rand, arr *antenna.Array,
	link model.LinkConfig, start, end int, capacities, snrs, rxPowers []float64) error {

	p := s.cfg.Perturb
	txPowerDist := distuv.Normal{Mu: 0, Sigma: p.TxPowerStdDB, Src: src}
	pointingDist := distuv.Normal{Mu: 0, Sigma: p.PointingErrStdDeg, Src: src}
	tempDist := distuv.Normal{Mu: 0, Sigma: p.TemperatureStdK, Src: src}
	humidityDist := distuv.Normal{Mu: 0, Sigma: p.HumidityStdPercent, Src: src}
	pressureDist := distuv.Normal{Mu: 0, Sigma: p.PressureStdKPa, Src: src}

	params := linkbudget.Params{
		NoiseFigureDB: link.NoiseFigureDB,
		BandwidthGHz:  link.BandwidthGHz,
	}

	for i := start; i < end; i++ {
		if (i-start)%trialBatchSize == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		txPower := link.TxPowerDBm + txPowerDist.Rand()

		// Pointing errors are physically non-negative.
		pointingTx := abs(pointingDist.Rand())
		pointingRx := abs(pointingDist.Rand())

		env := model.NewEnvironment(
			link.Environment.TemperatureK+tempDist.Rand(),
			link.Environment.HumidityPercent+humidityDist.Rand(),
			link.Environment.PressureKPa+pressureDist.Rand(),
		)

		txGain := arr.GainDBI(pointingTx)
		rxGain := arr.GainDBI(pointingRx)
		loss := s.loss.TotalLoss(link.FrequencyGHz, link.DistanceM, link.RainRateMmHr, env)

		params.TxPowerDBm = txPower
		sample := linkbudget.Evaluate(params, txGain, rxGain, loss.TotalDB, env.TemperatureK)

		capacities[i] = sample.CapacityGbps
		snrs[i] = sample.SNRDB
		rxPowers[i] = sample.RxPowerDBm
	}
	return nil
}

func (s *Simulator) aggregate(capacities, snrs, rxPowers []float64) *Result {
	capStats := statistics.Summarize(capacities)
	ciLower, ciUpper := statistics.ConfidenceInterval(capacities, s.cfg.ConfidenceLevel)
	outage := statistics.OutageProbability(capacities, s.cfg.OutageThresholdGbps)

	snrMean := stat.Mean(snrs, nil)
	rxMean := stat.Mean(rxPowers, nil)
	snrMin := snrs[0]
	for _, v := range snrs {
		if v < snrMin {
			snrMin = v
		}
	}

	return &Result{
		RunID:  uuid.New().String(),
		Trials: len(capacities),

		Mean:   capStats.Mean,
		Median: capStats.Median,
		Std:    capStats.Std,
		Min:    capStats.Min,
		Max:    capStats.Max,
		P5:     capStats.P5,
		P95:    capStats.P95,
		P99:    capStats.P99,

		CILower:         ciLower,
		CIUpper:         ciUpper,
		ConfidenceLevel: s.cfg.ConfidenceLevel,

		OutageProbability:      outage,
		Availability:           1 - outage,
		CoefficientOfVariation: statistics.CoefficientOfVariation(capStats.Mean, capStats.Std),

		SNRMean:     snrMean,
		SNRStd:      statistics.PopStdDev(snrs, snrMean),
		SNRMin:      snrMin,
		RxPowerMean: rxMean,
		RxPowerStd:  statistics.PopStdDev(rxPowers, rxMean),

		Capacities: capacities,
		SNRs:       snrs,
		RxPowers:   rxPowers,
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
