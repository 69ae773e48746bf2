package model

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the full simulation model, loadable from YAML.
type Config struct {
	Simulation SimulationConfig `mapstructure:"simulation" yaml:"simulation"`
	Link       LinkConfig       `mapstructure:"link" yaml:"link"`
	Alignment  AlignmentConfig  `mapstructure:"alignment" yaml:"alignment"`
	NearField  NearFieldSearch  `mapstructure:"nearField" yaml:"nearField"`
	Absorption AbsorptionTable  `mapstructure:"absorption" yaml:"absorption"`
}

// Perturbations holds the per-trial standard deviations applied by the
// Monte Carlo engine.
type Perturbations struct {
	TxPowerStdDB       float64 `mapstructure:"txPowerStdDB" yaml:"txPowerStdDB"`
	PointingErrStdDeg  float64 `mapstructure:"pointingErrStdDeg" yaml:"pointingErrStdDeg"`
	TemperatureStdK    float64 `mapstructure:"temperatureStdK" yaml:"temperatureStdK"`
	HumidityStdPercent float64 `mapstructure:"humidityStdPercent" yaml:"humidityStdPercent"`
	PressureStdKPa     float64 `mapstructure:"pressureStdKPa" yaml:"pressureStdKPa"`
}

// SimulationConfig configures one Monte Carlo run. Seed and Workers together
// identify a run: equal (seed, workers) gives bit-identical aggregates.
type SimulationConfig struct {
	Trials              int           `mapstructure:"trials" yaml:"trials"`
	Seed                uint64        `mapstructure:"seed" yaml:"seed"`
	Workers             int           `mapstructure:"workers" yaml:"workers"`
	ConfidenceLevel     float64       `mapstructure:"confidenceLevel" yaml:"confidenceLevel"`
	OutageThresholdGbps float64       `mapstructure:"outageThresholdGbps" yaml:"outageThresholdGbps"`
	Perturb             Perturbations `mapstructure:"perturb" yaml:"perturb"`
}

// LinkConfig is the base (unperturbed) point-to-point link description.
// TX and RX use the same array geometry; pointing errors are drawn
// independently per end. FrequencyGHz is the carrier for the whole link and
// must agree with Array.FrequencyGHz; the simulator rejects mismatches.
type LinkConfig struct {
	FrequencyGHz  float64     `mapstructure:"frequencyGHz" yaml:"frequencyGHz"`
	DistanceM     float64     `mapstructure:"distanceM" yaml:"distanceM"`
	Array         ArrayConfig `mapstructure:"array" yaml:"array"`
	TxPowerDBm    float64     `mapstructure:"txPowerDBm" yaml:"txPowerDBm"`
	NoiseFigureDB float64     `mapstructure:"noiseFigureDB" yaml:"noiseFigureDB"`
	BandwidthGHz  float64     `mapstructure:"bandwidthGHz" yaml:"bandwidthGHz"`
	RainRateMmHr  float64     `mapstructure:"rainRateMmHr" yaml:"rainRateMmHr"`
	Environment   Environment `mapstructure:"environment" yaml:"environment"`
}

// AlignmentConfig configures the beam-alignment search simulator.
type AlignmentConfig struct {
	BeamwidthDeg        float64 `mapstructure:"beamwidthDeg" yaml:"beamwidthDeg"`
	Trials              int     `mapstructure:"trials" yaml:"trials"`
	Seed                uint64  `mapstructure:"seed" yaml:"seed"`
	MaxBinaryIterations int     `mapstructure:"maxBinaryIterations" yaml:"maxBinaryIterations"`
	CoarseStepFactor    float64 `mapstructure:"coarseStepFactor" yaml:"coarseStepFactor"`
}

// NearFieldSearch bounds the numerical Fraunhofer-distance search grid.
type NearFieldSearch struct {
	MinM   float64 `mapstructure:"minM" yaml:"minM"`
	MaxM   float64 `mapstructure:"maxM" yaml:"maxM"`
	Points int     `mapstructure:"points" yaml:"points"`
}

// DefaultConfig returns the documented defaults: the urban backhaul scenario
// (200 GHz, 100 m, 5 cm arrays) under a standard atmosphere.
func DefaultConfig() Config {
	return Config{
		Simulation: SimulationConfig{
			Trials:              1000000,
			Seed:                11012026,
			Workers:             1,
			ConfidenceLevel:     0.95,
			OutageThresholdGbps: 1.0,
			Perturb: Perturbations{
				TxPowerStdDB:       0.5,
				PointingErrStdDeg:  2.0,
				TemperatureStdK:    5.0,
				HumidityStdPercent: 10.0,
				PressureStdKPa:     2.0,
			},
		},
		Link: LinkConfig{
			FrequencyGHz: 200,
			DistanceM:    100,
			Array: ArrayConfig{
				SideCm:         5,
				FrequencyGHz:   200,
				Efficiency:     0.9,
				CouplingLossDB: 0.5,
			},
			TxPowerDBm:    10,
			NoiseFigureDB: 10,
			BandwidthGHz:  10,
			Environment:   StandardEnvironment(),
		},
		Alignment: AlignmentConfig{
			BeamwidthDeg:        20,
			Trials:              10000,
			Seed:                11012026,
			MaxBinaryIterations: 20,
			CoarseStepFactor:    0.2,
		},
		NearField: NearFieldSearch{
			MinM:   0.1,
			MaxM:   1000,
			Points: 100000,
		},
		Absorption: DefaultAbsorptionTable(),
	}
}

// LoadConfig reads a YAML file over the defaults, so partial files only
// override the keys they set.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return cfg, fmt.Errorf("unable to read config %s: %w", path, err)
	}
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unable to parse config %s: %w", path, err)
	}
	cfg.Link.Environment.HumidityPercent = clampHumidity(cfg.Link.Environment.HumidityPercent)
	return cfg, nil
}
