package model

import (
	"errors"
	"fmt"
	"math"
)

// Physical constants (SI units unless noted).
const (
	SpeedOfLight      = 3e8      // m/s
	BoltzmannConstant = 1.38e-23 // J/K

	StandardTemperatureK    = 290.0   // ~17°C
	StandardPressureKPa     = 101.325 // sea level
	StandardHumidityPercent = 50.0
)

// ErrInvalidConfig marks a physical configuration that violates its contract.
// Callers can match it with errors.Is.
var ErrInvalidConfig = errors.New("invalid configuration")

// Environment holds the atmospheric conditions for one link evaluation.
// Humidity is an operational range and is clamped to [0,100] at construction;
// temperature and pressure are taken as given.
type Environment struct {
	TemperatureK    float64 `mapstructure:"temperatureK" yaml:"temperatureK"`
	HumidityPercent float64 `mapstructure:"humidityPercent" yaml:"humidityPercent"`
	PressureKPa     float64 `mapstructure:"pressureKPa" yaml:"pressureKPa"`
}

// NewEnvironment builds an Environment with humidity clamped to [0,100].
func NewEnvironment(temperatureK, humidityPercent, pressureKPa float64) Environment {
	return Environment{
		TemperatureK:    temperatureK,
		HumidityPercent: clampHumidity(humidityPercent),
		PressureKPa:     pressureKPa,
	}
}

// StandardEnvironment returns the standard atmosphere.
func StandardEnvironment() Environment {
	return Environment{
		TemperatureK:    StandardTemperatureK,
		HumidityPercent: StandardHumidityPercent,
		PressureKPa:     StandardPressureKPa,
	}
}

// WaterVaporDensity converts relative humidity to absolute water vapor
// density in g/m³. Saturation vapor pressure comes from the Magnus-Tetens
// approximation; the conversion to density uses the ideal gas law with
// R_v = 461.5 J/(kg·K).
func (e Environment) WaterVaporDensity() float64 {
	tCelsius := e.TemperatureK - 273.15

	// Saturation vapor pressure in hPa.
	saturation := 6.1078 * math.Exp((17.27*tCelsius)/(tCelsius+237.3))
	actual := (e.HumidityPercent / 100.0) * saturation

	// hPa -> Pa, then kg/m³ -> g/m³.
	density := (actual * 100) / (461.5 * e.TemperatureK)
	return density * 1000
}

func clampHumidity(h float64) float64 {
	return math.Min(math.Max(h, 0), 100)
}

// ArrayConfig describes a square planar antenna array with λ/2 element
// spacing. Size and frequency faults are contract violations, not operational
// conditions, so Validate reports them instead of clamping.
type ArrayConfig struct {
	SideCm         float64 `mapstructure:"sideCm" yaml:"sideCm"`
	FrequencyGHz   float64 `mapstructure:"frequencyGHz" yaml:"frequencyGHz"`
	Efficiency     float64 `mapstructure:"efficiency" yaml:"efficiency"`
	CouplingLossDB float64 `mapstructure:"couplingLossDB" yaml:"couplingLossDB"`
}

// Validate checks the physical contract: side and frequency strictly
// positive, efficiency in (0,1], coupling loss non-negative.
func (c ArrayConfig) Validate() error {
	if c.SideCm <= 0 {
		return fmt.Errorf("array side %.3f cm must be > 0: %w", c.SideCm, ErrInvalidConfig)
	}
	if c.FrequencyGHz <= 0 {
		return fmt.Errorf("frequency %.3f GHz must be > 0: %w", c.FrequencyGHz, ErrInvalidConfig)
	}
	if c.Efficiency <= 0 || c.Efficiency > 1 {
		return fmt.Errorf("efficiency %.3f must be in (0,1]: %w", c.Efficiency, ErrInvalidConfig)
	}
	if c.CouplingLossDB < 0 {
		return fmt.Errorf("coupling loss %.3f dB must be >= 0: %w", c.CouplingLossDB, ErrInvalidConfig)
	}
	return nil
}

// WavelengthM returns the free-space wavelength in meters. Only meaningful
// for a validated config.
func (c ArrayConfig) WavelengthM() float64 {
	return SpeedOfLight / (c.FrequencyGHz * 1e9)
}

// WavelengthCm returns the free-space wavelength in centimeters.
func (c ArrayConfig) WavelengthCm() float64 {
	return c.WavelengthM() * 100
}
