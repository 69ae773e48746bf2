package pathloss

import "github.com/nfvri/thz-link-simulator/pkg/model"

// Window is a contiguous frequency band whose absorption stays below a
// threshold ("quiet window"), favorable for long-range links.
type Window struct {
	StartGHz float64
	EndGHz   float64
}

// QuietWindows scans freqsGHz (ascending) and returns the bands where the
// absorption coefficient stays at or below maxDBPerKm.
func (m *Model) QuietWindows(freqsGHz []float64, maxDBPerKm float64, env model.Environment) []Window {
	var windows []Window
	inWindow := false
	var start float64

	for i, f := range freqsGHz {
		quiet := m.AbsorptionCoefficient(f, env) <= maxDBPerKm
		switch {
		case quiet && !inWindow:
			start = f
			inWindow = true
		case !quiet && inWindow:
			windows = append(windows, Window{StartGHz: start, EndGHz: freqsGHz[i-1]})
			inWindow = false
		}
	}
	if inWindow {
		windows = append(windows, Window{StartGHz: start, EndGHz: freqsGHz[len(freqsGHz)-1]})
	}
	return windows
}

// EnvironmentComparison contrasts total loss under reference climates.
type EnvironmentComparison struct {
	StandardDB        float64
	TropicalDB        float64
	ArcticDB          float64
	TropicalExcessDB  float64
	ArcticAdvantageDB float64
}

// CompareEnvironments evaluates the same link under standard, tropical
// (hot/humid) and arctic (cold/dry) conditions.
func (m *Model) CompareEnvironments(freqGHz, distM float64) EnvironmentComparison {
	standard := m.TotalLoss(freqGHz, distM, 0, model.StandardEnvironment()).TotalDB
	tropical := m.TotalLoss(freqGHz, distM, 0, model.NewEnvironment(305, 85, 101.3)).TotalDB
	arctic := m.TotalLoss(freqGHz, distM, 0, model.NewEnvironment(253, 20, 101.3)).TotalDB

	return EnvironmentComparison{
		StandardDB:        standard,
		TropicalDB:        tropical,
		ArcticDB:          arctic,
		TropicalExcessDB:  tropical - standard,
		ArcticAdvantageDB: standard - arctic,
	}
}
