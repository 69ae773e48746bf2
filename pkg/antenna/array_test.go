package antenna

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfvri/thz-link-simulator/pkg/model"
)

func urbanBackhaulArray(t *testing.T) *Array {
	t.Helper()
	arr, err := NewArray(model.ArrayConfig{
		SideCm:         5,
		FrequencyGHz:   200,
		Efficiency:     0.9,
		CouplingLossDB: 0.5,
	})
	require.NoError(t, err)
	return arr
}

func TestElementCount(t *testing.T) {
	arr := urbanBackhaulArray(t)

	// 5 cm side at 200 GHz: 0.075 cm element spacing, 67 per side.
	total, perSide := arr.ElementCount()
	assert.Equal(t, 67, perSide)
	assert.Equal(t, 4489, total)
}

func TestElementCountGrowsWithFrequency(t *testing.T) {
	prev := 0
	for _, freq := range []float64{100, 140, 200, 300} {
		arr, err := NewArray(model.ArrayConfig{
			SideCm: 5, FrequencyGHz: freq, Efficiency: 0.9,
		})
		assert.NoError(t, err)
		total, _ := arr.ElementCount()
		assert.Greater(t, total, prev, "at %v GHz", freq)
		prev = total
	}
}

func TestGainDBI(t *testing.T) {
	arr := urbanBackhaulArray(t)

	gain := arr.GainDBI(0)
	assert.InDelta(t, 45.57, gain, 0.05)

	// One beamwidth of pointing error costs exactly 12 dB.
	bw := arr.BeamwidthDeg()
	assert.InDelta(t, gain-12, arr.GainDBI(bw), 1e-9)

	assert.Less(t, arr.GainDBI(1), gain)
}

func TestBeamwidthDeg(t *testing.T) {
	arr := urbanBackhaulArray(t)
	assert.InDelta(t, 2.1, arr.BeamwidthDeg(), 1e-9)
}

func TestFraunhoferDistanceM(t *testing.T) {
	arr := urbanBackhaulArray(t)
	// 2D^2/lambda with D = 0.05 m, lambda = 1.5 mm.
	assert.InDelta(t, 10.0/3.0, arr.FraunhoferDistanceM(), 1e-9)
}

func TestNewArrayRejectsInvalidConfig(t *testing.T) {
	_, err := NewArray(model.ArrayConfig{SideCm: -1, FrequencyGHz: 200, Efficiency: 0.9})
	assert.True(t, errors.Is(err, model.ErrInvalidConfig))
}

func TestInfo(t *testing.T) {
	arr := urbanBackhaulArray(t)
	info := arr.Info()
	assert.Equal(t, 4489, info.TotalElements)
	assert.InDelta(t, 45.57, info.GainDBI, 0.05)
	assert.InDelta(t, 2.1, info.BeamwidthDeg, 1e-9)
}

func TestCompareIdealRealistic(t *testing.T) {
	cmp, err := CompareIdealRealistic(5, 200)
	assert.NoError(t, err)

	assert.Greater(t, cmp.IdealGainDBI, cmp.RealisticGainDBI)
	assert.Greater(t, cmp.TotalLossDB, 0.0)
	assert.InDelta(t, cmp.IdealGainDBI-cmp.RealisticGainDBI, cmp.TotalLossDB, 1e-9)
}

func TestRequiredSizeCm(t *testing.T) {
	size, err := RequiredSizeCm(40, 200, 0.9)
	require.NoError(t, err)
	assert.Greater(t, size, 0.0)

	arr, err := NewArray(model.ArrayConfig{
		SideCm: size, FrequencyGHz: 200, Efficiency: 0.9,
	})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, arr.GainDBI(0), 40.0)

	larger, err := RequiredSizeCm(45, 200, 0.9)
	require.NoError(t, err)
	assert.Greater(t, larger, size)
}

func TestRequiredSizeCmUnreachableTarget(t *testing.T) {
	_, err := RequiredSizeCm(150, 200, 0.9)
	assert.Error(t, err)
}

func TestRequiredSizeCmRejectsBadInputs(t *testing.T) {
	_, err := RequiredSizeCm(40, 0, 0.9)
	assert.Error(t, err)
	_, err = RequiredSizeCm(40, 200, 0)
	assert.Error(t, err)
}
