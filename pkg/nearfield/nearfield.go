// Package nearfield analyzes the near-field / far-field boundary of large
// antenna arrays, where the plane-wave assumption behind the far-field gain
// formulas starts to break down.
package nearfield

import (
	"fmt"
	"math"

	"github.com/nfvri/thz-link-simulator/pkg/model"
)

// maxPhaseDeviationRad is the classical pi/8 phase error bound defining the
// Fraunhofer distance.
const maxPhaseDeviationRad = math.Pi / 8

// Analyzer evaluates near-field effects for a rectangular array of
// n1 x n2 elements at half-wavelength spacing.
type Analyzer struct {
	n1, n2      int
	frequencyHz float64
	wavelengthM float64
	search      model.NearFieldSearch
}

// NewAnalyzer validates the array geometry and returns an analyzer using the
// given numerical search window for the Fraunhofer distance.
func NewAnalyzer(n1, n2 int, frequencyGHz float64, search model.NearFieldSearch) (*Analyzer, error) {
	if n1 < 2 || n2 < 2 {
		return nil, fmt.Errorf("array dimensions %dx%d must both be >= 2: %w",
			n1, n2, model.ErrInvalidConfig)
	}
	if frequencyGHz <= 0 {
		return nil, fmt.Errorf("frequency %.3f GHz must be > 0: %w",
			frequencyGHz, model.ErrInvalidConfig)
	}
	if search.MinM <= 0 || search.MaxM <= search.MinM || search.Points < 2 {
		return nil, fmt.Errorf("search window [%.3g, %.3g] with %d points is invalid: %w",
			search.MinM, search.MaxM, search.Points, model.ErrInvalidConfig)
	}
	freqHz := frequencyGHz * 1e9
	return &Analyzer{
		n1:          n1,
		n2:          n2,
		frequencyHz: freqHz,
		wavelengthM: model.SpeedOfLight / freqHz,
		search:      search,
	}, nil
}

// ArrayDimensionsM returns the physical extent of the array along each axis,
// (n-1) half-wavelength element spacings per side.
func (a *Analyzer) ArrayDimensionsM() (d1, d2 float64) {
	spacing := a.wavelengthM / 2
	return float64(a.n1-1) * spacing, float64(a.n2-1) * spacing
}

// apertureM is the largest array dimension, the D in the Fraunhofer
// criterion.
func (a *Analyzer) apertureM() float64 {
	d1, d2 := a.ArrayDimensionsM()
	return math.Max(d1, d2)
}

// MaxPhaseDeviationRad returns the worst-case phase error across the
// aperture at distance distM, wrapped to [0, 2pi).
func (a *Analyzer) MaxPhaseDeviationRad(distM float64) float64 {
	d := a.apertureM()
	pathDiff := d * d / (2 * distM)
	dev := 2 * math.Pi * pathDiff / a.wavelengthM
	return math.Mod(dev, 2*math.Pi)
}

// FraunhoferDistanceM finds the smallest distance in the search window where
// the phase deviation stays within pi/8, on a logarithmic distance grid.
// When the grid never satisfies the bound it falls back to the analytic
// 2D^2/lambda estimate.
func (a *Analyzer) FraunhoferDistanceM() float64 {
	logMin := math.Log10(a.search.MinM)
	logMax := math.Log10(a.search.MaxM)
	step := (logMax - logMin) / float64(a.search.Points-1)

	for i := 0; i < a.search.Points; i++ {
		d := math.Pow(10, logMin+float64(i)*step)
		if a.MaxPhaseDeviationRad(d) <= maxPhaseDeviationRad {
			return d
		}
	}

	d := a.apertureM()
	return 2 * d * d / a.wavelengthM
}

// PathLengthsM returns the propagation distance of every TX/RX element
// pair: the transmit array (n1 x n1) centered at the origin facing the
// receive array (n2 x n2) centered at boresight distance distM. The result
// has n1²·n2² entries, so large arrays produce large slices.
func (a *Analyzer) PathLengthsM(distM float64) []float64 {
	spacing := a.wavelengthM / 2

	grid := func(n int) []float64 {
		pos := make([]float64, n)
		for i := range pos {
			pos[i] = (float64(i) - float64(n-1)/2) * spacing
		}
		return pos
	}
	tx := grid(a.n1)
	rx := grid(a.n2)

	lengths := make([]float64, 0, a.n1*a.n1*a.n2*a.n2)
	for _, txX := range tx {
		for _, txY := range tx {
			for _, rxX := range rx {
				for _, rxY := range rx {
					dx := txX - rxX
					dy := txY - rxY
					lengths = append(lengths, math.Sqrt(dx*dx+dy*dy+distM*distM))
				}
			}
		}
	}
	return lengths
}

// GainPenalty estimates the gain degradation from operating at distM inside
// the Fraunhofer boundary fraunhoferM: 3*sqrt(d_F/d - 1) dB, capped at
// 10 dB. Beyond the boundary the penalty is zero.
func GainPenalty(distM, fraunhoferM float64) float64 {
	if distM >= fraunhoferM {
		return 0
	}
	penalty := 3 * math.Sqrt(fraunhoferM/distM-1)
	return math.Min(penalty, 10)
}

// GainPenaltyDB is GainPenalty against this analyzer's own Fraunhofer
// distance.
func (a *Analyzer) GainPenaltyDB(distM float64) float64 {
	return GainPenalty(distM, a.FraunhoferDistanceM())
}

// Info summarizes the analyzer's geometry for reporting.
type Info struct {
	Elements1           int     `yaml:"elements_dim1"`
	Elements2           int     `yaml:"elements_dim2"`
	FrequencyGHz        float64 `yaml:"frequency_ghz"`
	WavelengthMM        float64 `yaml:"wavelength_mm"`
	ApertureM           float64 `yaml:"aperture_m"`
	FraunhoferDistanceM float64 `yaml:"fraunhofer_distance_m"`
}

// Info returns the analyzer geometry and its Fraunhofer distance.
func (a *Analyzer) Info() Info {
	return Info{
		Elements1:           a.n1,
		Elements2:           a.n2,
		FrequencyGHz:        a.frequencyHz / 1e9,
		WavelengthMM:        a.wavelengthM * 1e3,
		ApertureM:           a.apertureM(),
		FraunhoferDistanceM: a.FraunhoferDistanceM(),
	}
}
