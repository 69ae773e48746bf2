package model

import "fmt"

// SweepParameter is the closed set of environmental parameters the
// sensitivity analysis can sweep. Using a tagged value instead of a string
// gives compile-time exhaustiveness in the engine's switch.
type SweepParameter int

const (
	SweepTemperature SweepParameter = iota
	SweepHumidity
	SweepPressure
)

func (p SweepParameter) String() string {
	switch p {
	case SweepTemperature:
		return "temperature"
	case SweepHumidity:
		return "humidity"
	case SweepPressure:
		return "pressure"
	}
	return fmt.Sprintf("SweepParameter(%d)", int(p))
}

// ParseSweepParameter maps a user-supplied name onto the closed set.
// Unrecognized names are a contract violation, not a fallback case.
func ParseSweepParameter(name string) (SweepParameter, error) {
	switch name {
	case "temperature":
		return SweepTemperature, nil
	case "humidity":
		return SweepHumidity, nil
	case "pressure":
		return SweepPressure, nil
	}
	return 0, fmt.Errorf("unknown sweep parameter %q (want temperature, humidity or pressure): %w", name, ErrInvalidConfig)
}
