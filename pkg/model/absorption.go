package model

// AbsorptionPoint is one row of the molecular absorption lookup table:
// specific attenuation of oxygen and water vapor at a given frequency,
// measured at the reference pressure and water vapor density.
type AbsorptionPoint struct {
	FrequencyGHz      float64 `mapstructure:"frequencyGHz" yaml:"frequencyGHz"`
	OxygenDBPerKm     float64 `mapstructure:"oxygenDBPerKm" yaml:"oxygenDBPerKm"`
	WaterVaporDBPerKm float64 `mapstructure:"waterVaporDBPerKm" yaml:"waterVaporDBPerKm"`
}

// AbsorptionTable is the injectable frequency -> (O₂, H₂O) lookup data plus
// the reference conditions the coefficients were measured at.
type AbsorptionTable struct {
	Points                   []AbsorptionPoint `mapstructure:"points" yaml:"points"`
	ReferencePressureKPa     float64           `mapstructure:"referencePressureKPa" yaml:"referencePressureKPa"`
	ReferenceVaporDensityGM3 float64           `mapstructure:"referenceVaporDensityGM3" yaml:"referenceVaporDensityGM3"`
}

// DefaultAbsorptionTable returns HITRAN-derived coefficients covering
// 50-700 GHz. The table captures the major resonances (O₂ at 60/118/325/380
// GHz, H₂O at 183/380+ GHz) and the quiet windows between them.
func DefaultAbsorptionTable() AbsorptionTable {
	return AbsorptionTable{
		Points: []AbsorptionPoint{
			{50, 0.01, 0.002},
			{100, 0.05, 0.01},
			{118, 0.8, 0.01}, // O2 peak
			{140, 0.1, 0.02}, // quiet window
			{150, 0.15, 2.5},
			{183, 0.05, 15.0}, // H2O peak
			{200, 0.2, 1.0},   // good communication window
			{250, 0.3, 3.0},
			{300, 0.5, 7.5},
			{325, 12.0, 2.0}, // O2 peak
			{380, 15.0, 5.0}, // major O2 peak
			{400, 8.0, 10.0},
			{450, 3.0, 12.0},
			{500, 2.0, 18.0},
			{600, 1.5, 23.0},
			{700, 1.2, 28.0},
		},
		ReferencePressureKPa:     101.325,
		ReferenceVaporDensityGM3: 7.5,
	}
}
