// Package pathloss implements the atmospheric channel: free-space spreading,
// molecular absorption interpolated from a lookup table with environmental
// corrections, and rain attenuation.
package pathloss

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"

	"github.com/nfvri/thz-link-simulator/pkg/model"
)

// Breakdown decomposes the total path loss of one link into its components.
// TotalDB is always the exact sum of the three parts.
type Breakdown struct {
	TotalDB                float64 `yaml:"total_db"`
	FreeSpaceDB            float64 `yaml:"free_space_db"`
	AbsorptionDB           float64 `yaml:"absorption_db"`
	RainDB                 float64 `yaml:"rain_db"`
	AbsorptionCoeffDBPerKm float64 `yaml:"absorption_coeff_db_per_km"`
}

// Model interpolates molecular absorption from a fixed table. The two
// shape-preserving cubics (one per species) are fitted once at construction
// and shared read-only across all trials.
type Model struct {
	oxygen     interp.FritschButland
	waterVapor interp.FritschButland

	minFreqGHz float64
	maxFreqGHz float64

	refPressureKPa     float64
	refVaporDensityGM3 float64
}

// NewModel fits the interpolants over the given absorption table. The table
// needs at least two points and strictly increasing frequencies.
func NewModel(table model.AbsorptionTable) (*Model, error) {
	if len(table.Points) < 2 {
		return nil, fmt.Errorf("absorption table needs at least 2 points, got %d: %w",
			len(table.Points), model.ErrInvalidConfig)
	}
	if table.ReferencePressureKPa <= 0 || table.ReferenceVaporDensityGM3 <= 0 {
		return nil, fmt.Errorf("absorption reference conditions must be > 0: %w", model.ErrInvalidConfig)
	}

	points := make([]model.AbsorptionPoint, len(table.Points))
	copy(points, table.Points)
	sort.Slice(points, func(i, j int) bool { return points[i].FrequencyGHz < points[j].FrequencyGHz })

	freqs := make([]float64, len(points))
	o2 := make([]float64, len(points))
	h2o := make([]float64, len(points))
	for i, p := range points {
		if i > 0 && p.FrequencyGHz <= points[i-1].FrequencyGHz {
			return nil, fmt.Errorf("duplicate absorption table frequency %.1f GHz: %w",
				p.FrequencyGHz, model.ErrInvalidConfig)
		}
		freqs[i] = p.FrequencyGHz
		o2[i] = p.OxygenDBPerKm
		h2o[i] = p.WaterVaporDBPerKm
	}

	m := &Model{
		minFreqGHz:         freqs[0],
		maxFreqGHz:         freqs[len(freqs)-1],
		refPressureKPa:     table.ReferencePressureKPa,
		refVaporDensityGM3: table.ReferenceVaporDensityGM3,
	}
	if err := m.oxygen.Fit(freqs, o2); err != nil {
		return nil, fmt.Errorf("unable to fit oxygen absorption: %w", err)
	}
	if err := m.waterVapor.Fit(freqs, h2o); err != nil {
		return nil, fmt.Errorf("unable to fit water vapor absorption: %w", err)
	}
	return m, nil
}

// predict evaluates a fitted cubic at freqGHz. The cubic clamps outside its
// fitted range, so out-of-table frequencies continue linearly from the
// boundary value and slope instead.
func predict(c *interp.FritschButland, freqGHz, minF, maxF float64) float64 {
	switch {
	case freqGHz < minF:
		return c.Predict(minF) + c.PredictDerivative(minF)*(freqGHz-minF)
	case freqGHz > maxF:
		return c.Predict(maxF) + c.PredictDerivative(maxF)*(freqGHz-maxF)
	}
	return c.Predict(freqGHz)
}

// AbsorptionCoefficient returns the total molecular absorption in dB/km at
// freqGHz under env. The oxygen term scales linearly with pressure and the
// water term with absolute vapor density, both relative to the table's
// reference conditions. The result is floored at zero.
func (m *Model) AbsorptionCoefficient(freqGHz float64, env model.Environment) float64 {
	pressureFactor := env.PressureKPa / m.refPressureKPa
	humidityFactor := env.WaterVaporDensity() / m.refVaporDensityGM3

	o2 := predict(&m.oxygen, freqGHz, m.minFreqGHz, m.maxFreqGHz) * pressureFactor
	h2o := predict(&m.waterVapor, freqGHz, m.minFreqGHz, m.maxFreqGHz) * humidityFactor

	return math.Max(0, o2+h2o)
}

// FreeSpaceLossDB is the Friis spreading loss:
// 20·log10(f_Hz) + 20·log10(d_m) + 20·log10(4π/c).
func FreeSpaceLossDB(freqGHz, distM float64) float64 {
	freqHz := freqGHz * 1e9
	return 20*math.Log10(freqHz) + 20*math.Log10(distM) +
		20*math.Log10(4*math.Pi/model.SpeedOfLight)
}

// RainLossDB is the ITU-style power-law rain attenuation k·R^α (dB/km)
// integrated over the path, with distinct coefficient regimes below and
// above 100 GHz. Zero rain rate means zero loss.
func RainLossDB(freqGHz, rainRateMmHr, distM float64) float64 {
	if rainRateMmHr <= 0 {
		return 0
	}

	var k, alpha float64
	if freqGHz < 100 {
		k = 0.0001 * math.Pow(freqGHz, 2.5)
		alpha = 1.0
	} else {
		k = 0.001 * math.Pow(freqGHz/100, 2)
		alpha = 1.1
	}

	gamma := k * math.Pow(rainRateMmHr, alpha) // dB/km
	return gamma * (distM / 1000)
}

// TotalLoss combines free-space, absorption and rain losses for one link.
func (m *Model) TotalLoss(freqGHz, distM, rainRateMmHr float64, env model.Environment) Breakdown {
	fspl := FreeSpaceLossDB(freqGHz, distM)
	coeff := m.AbsorptionCoefficient(freqGHz, env)
	absorption := coeff * (distM / 1000)
	rain := RainLossDB(freqGHz, rainRateMmHr, distM)

	return Breakdown{
		TotalDB:                fspl + absorption + rain,
		FreeSpaceDB:            fspl,
		AbsorptionDB:           absorption,
		RainDB:                 rain,
		AbsorptionCoeffDBPerKm: coeff,
	}
}
