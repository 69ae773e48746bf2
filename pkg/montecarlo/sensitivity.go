package montecarlo

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/nfvri/thz-link-simulator/pkg/model"
	"github.com/nfvri/thz-link-simulator/pkg/statistics"
)

// ErrUnknownParameter is returned when a sweep names a parameter the
// simulator cannot perturb.
var ErrUnknownParameter = errors.New("unknown sweep parameter")

// SweepPoint is one evaluated point of a sensitivity sweep.
type SweepPoint struct {
	Value        float64
	MeanCapacity float64
	StdCapacity  float64
	Outage       float64
	Availability float64
}

// SweepResult holds a full one-dimensional parameter sweep together with the
// numerical gradient of mean capacity along the swept axis.
type SweepResult struct {
	Parameter model.SweepParameter
	Points    []SweepPoint
	Gradient  []float64
}

// MaxSensitivity returns the largest absolute gradient magnitude across the
// sweep, the worst-case slope of capacity against the swept parameter.
func (r *SweepResult) MaxSensitivity() float64 {
	max := 0.0
	for _, g := range r.Gradient {
		if a := abs(g); a > max {
			max = a
		}
	}
	return max
}

// MeanSensitivity returns the mean absolute gradient across the sweep.
func (r *SweepResult) MeanSensitivity() float64 {
	if len(r.Gradient) == 0 {
		return 0
	}
	sum := 0.0
	for _, g := range r.Gradient {
		sum += abs(g)
	}
	return sum / float64(len(r.Gradient))
}

// Sensitivity sweeps one environmental parameter over the given values,
// running a full Monte Carlo batch at each point. Sub-runs derive their
// seeds from the base seed and the point index so the sweep is reproducible
// and the points are statistically independent.
func (s *Simulator) Sensitivity(ctx context.Context, param model.SweepParameter,
	values []float64, link model.LinkConfig) (*SweepResult, error) {

	if len(values) < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 values, got %d: %w",
			len(values), model.ErrInvalidConfig)
	}
	switch param {
	case model.SweepTemperature, model.SweepHumidity, model.SweepPressure:
	default:
		return nil, fmt.Errorf("parameter %d: %w", int(param), ErrUnknownParameter)
	}

	log.Infof("sensitivity sweep over %s: %d points x %d trials",
		param, len(values), s.cfg.Trials)

	points := make([]SweepPoint, len(values))
	xs := make([]float64, len(values))
	means := make([]float64, len(values))

	for i, v := range values {
		sub := *s
		sub.cfg.Seed = s.cfg.Seed + uint64(i+1)*1000003

		// The non-swept parameters hold at standard conditions so each
		// sweep isolates exactly one axis.
		swept := link
		env := model.StandardEnvironment()
		switch param {
		case model.SweepTemperature:
			env.TemperatureK = v
		case model.SweepHumidity:
			env = model.NewEnvironment(env.TemperatureK, v, env.PressureKPa)
		case model.SweepPressure:
			env.PressureKPa = v
		}
		swept.Environment = env

		res, err := sub.Run(ctx, swept)
		if err != nil {
			return nil, fmt.Errorf("sweep point %s=%.3f: %w", param, v, err)
		}

		points[i] = SweepPoint{
			Value:        v,
			MeanCapacity: res.Mean,
			StdCapacity:  res.Std,
			Outage:       res.OutageProbability,
			Availability: res.Availability,
		}
		xs[i] = v
		means[i] = res.Mean
	}

	return &SweepResult{
		Parameter: param,
		Points:    points,
		Gradient:  statistics.Gradient(means, xs),
	}, nil
}

// EnvironmentalSuite bundles the three standard sensitivity sweeps.
type EnvironmentalSuite struct {
	Temperature *SweepResult
	Humidity    *SweepResult
	Pressure    *SweepResult
}

// StandardRange returns the standard operating range of a sweep parameter:
// 250-320 K, 10-90 %, or 85-105 kPa, 15 points each.
func StandardRange(param model.SweepParameter) []float64 {
	switch param {
	case model.SweepHumidity:
		return linspace(10, 90, 15)
	case model.SweepPressure:
		return linspace(85, 105, 15)
	}
	return linspace(250, 320, 15)
}

// RunEnvironmentalSuite sweeps temperature, humidity, and pressure over
// their standard operating ranges.
func (s *Simulator) RunEnvironmentalSuite(ctx context.Context, link model.LinkConfig) (*EnvironmentalSuite, error) {
	temp, err := s.Sensitivity(ctx, model.SweepTemperature, StandardRange(model.SweepTemperature), link)
	if err != nil {
		return nil, err
	}
	humidity, err := s.Sensitivity(ctx, model.SweepHumidity, StandardRange(model.SweepHumidity), link)
	if err != nil {
		return nil, err
	}
	pressure, err := s.Sensitivity(ctx, model.SweepPressure, StandardRange(model.SweepPressure), link)
	if err != nil {
		return nil, err
	}
	return &EnvironmentalSuite{Temperature: temp, Humidity: humidity, Pressure: pressure}, nil
}

func linspace(start, end float64, n int) []float64 {
	vals := make([]float64, n)
	step := (end - start) / float64(n-1)
	for i := range vals {
		vals[i] = start + float64(i)*step
	}
	return vals
}
