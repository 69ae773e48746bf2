package montecarlo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfvri/thz-link-simulator/pkg/antenna"
	"github.com/nfvri/thz-link-simulator/pkg/linkbudget"
	"github.com/nfvri/thz-link-simulator/pkg/model"
	"github.com/nfvri/thz-link-simulator/pkg/pathloss"
)

func testConfig(trials, workers int) model.SimulationConfig {
	cfg := model.DefaultConfig().Simulation
	cfg.Trials = trials
	cfg.Workers = workers
	return cfg
}

func testSimulator(t *testing.T, trials, workers int) *Simulator {
	t.Helper()
	loss, err := pathloss.NewModel(model.DefaultAbsorptionTable())
	require.NoError(t, err)
	sim, err := NewSimulator(testConfig(trials, workers), loss)
	require.NoError(t, err)
	return sim
}

func TestRunReproducible(t *testing.T) {
	link := model.DefaultConfig().Link

	for _, workers := range []int{1, 4} {
		a, err := testSimulator(t, 2000, workers).Run(context.Background(), link)
		assert.NoError(t, err)
		b, err := testSimulator(t, 2000, workers).Run(context.Background(), link)
		assert.NoError(t, err)

		assert.Equal(t, a.Capacities, b.Capacities, "workers=%d", workers)
		assert.Equal(t, a.Mean, b.Mean, "workers=%d", workers)
		assert.Equal(t, a.OutageProbability, b.OutageProbability, "workers=%d", workers)
		assert.NotEqual(t, a.RunID, b.RunID)
	}
}

func TestRunConvergesWithoutPerturbation(t *testing.T) {
	cfg := testConfig(500, 2)
	cfg.Perturb = model.Perturbations{
		TxPowerStdDB:       1e-12,
		PointingErrStdDeg:  1e-12,
		TemperatureStdK:    1e-12,
		HumidityStdPercent: 1e-12,
		PressureStdKPa:     1e-12,
	}
	loss, err := pathloss.NewModel(model.DefaultAbsorptionTable())
	assert.NoError(t, err)
	sim, err := NewSimulator(cfg, loss)
	assert.NoError(t, err)

	link := model.DefaultConfig().Link
	res, err := sim.Run(context.Background(), link)
	assert.NoError(t, err)

	arr, err := antenna.NewArray(link.Array)
	assert.NoError(t, err)
	gain := arr.GainDBI(0)
	breakdown := loss.TotalLoss(link.FrequencyGHz, link.DistanceM, link.RainRateMmHr, link.Environment)
	expected := linkbudget.Evaluate(linkbudget.Params{
		TxPowerDBm:    link.TxPowerDBm,
		NoiseFigureDB: link.NoiseFigureDB,
		BandwidthGHz:  link.BandwidthGHz,
	}, gain, gain, breakdown.TotalDB, link.Environment.TemperatureK)

	assert.InDelta(t, expected.CapacityGbps, res.Mean, 1e-6)
	assert.Less(t, res.Std, 1e-6)
}

func TestRunCapacityDropsWithDistance(t *testing.T) {
	sim := testSimulator(t, 1000, 2)
	link := model.DefaultConfig().Link

	var prev float64
	for i, dist := range []float64{50, 200, 800} {
		link.DistanceM = dist
		res, err := sim.Run(context.Background(), link)
		assert.NoError(t, err)
		if i > 0 {
			assert.Less(t, res.Mean, prev, "at %v m", dist)
		}
		prev = res.Mean
	}
}

func TestRunConfidenceIntervalShrinks(t *testing.T) {
	link := model.DefaultConfig().Link

	small, err := testSimulator(t, 200, 1).Run(context.Background(), link)
	assert.NoError(t, err)
	large, err := testSimulator(t, 20000, 1).Run(context.Background(), link)
	assert.NoError(t, err)

	assert.Less(t, large.CIUpper-large.CILower, small.CIUpper-small.CILower)
}

func TestRunAvailabilityComplementsOutage(t *testing.T) {
	res, err := testSimulator(t, 1000, 3).Run(context.Background(), model.DefaultConfig().Link)
	assert.NoError(t, err)
	assert.InDelta(t, 1.0, res.OutageProbability+res.Availability, 1e-12)
}

func TestRunCancelled(t *testing.T) {
	sim := testSimulator(t, 200000, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.Run(ctx, model.DefaultConfig().Link)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunRejectsBadLink(t *testing.T) {
	sim := testSimulator(t, 100, 1)
	link := model.DefaultConfig().Link
	link.DistanceM = 0

	_, err := sim.Run(context.Background(), link)
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
}

func TestRunRejectsFrequencyMismatch(t *testing.T) {
	link := model.DefaultConfig().Link
	// 383 GHz sits on an absorption peak while the array stays at 200 GHz,
	// so accepting this would mix physics at two different frequencies.
	link.FrequencyGHz = 383

	_, err := testSimulator(t, 100, 1).Run(context.Background(), link)
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
}

func TestNewSimulatorValidation(t *testing.T) {
	loss, err := pathloss.NewModel(model.DefaultAbsorptionTable())
	assert.NoError(t, err)

	cfg := testConfig(0, 1)
	_, err = NewSimulator(cfg, loss)
	assert.ErrorIs(t, err, model.ErrInvalidConfig)

	cfg = testConfig(100, 1)
	cfg.ConfidenceLevel = 1.5
	_, err = NewSimulator(cfg, loss)
	assert.ErrorIs(t, err, model.ErrInvalidConfig)

	_, err = NewSimulator(testConfig(100, 1), nil)
	assert.Error(t, err)
}

func TestSensitivityHumidity(t *testing.T) {
	sim := testSimulator(t, 500, 2)
	link := model.DefaultConfig().Link
	link.DistanceM = 500

	res, err := sim.Sensitivity(context.Background(), model.SweepHumidity,
		[]float64{10, 30, 50, 70, 90}, link)
	assert.NoError(t, err)
	assert.Equal(t, 5, len(res.Points))
	assert.Equal(t, 5, len(res.Gradient))

	// More water vapor, less capacity.
	assert.Greater(t, res.Points[0].MeanCapacity, res.Points[4].MeanCapacity)
	assert.Greater(t, res.MaxSensitivity(), 0.0)
	assert.LessOrEqual(t, res.MeanSensitivity(), res.MaxSensitivity())
}

func TestSensitivityRejectsUnknownParameter(t *testing.T) {
	sim := testSimulator(t, 100, 1)
	link := model.DefaultConfig().Link

	_, err := sim.Sensitivity(context.Background(), model.SweepParameter(7),
		[]float64{1, 2}, link)
	assert.ErrorIs(t, err, ErrUnknownParameter)

	_, err = sim.Sensitivity(context.Background(), model.SweepTemperature,
		[]float64{290}, link)
	assert.ErrorIs(t, err, model.ErrInvalidConfig)
}

func TestSensitivityReproducible(t *testing.T) {
	link := model.DefaultConfig().Link
	values := []float64{280, 300}

	a, err := testSimulator(t, 400, 2).Sensitivity(context.Background(),
		model.SweepTemperature, values, link)
	assert.NoError(t, err)
	b, err := testSimulator(t, 400, 2).Sensitivity(context.Background(),
		model.SweepTemperature, values, link)
	assert.NoError(t, err)

	for i := range a.Points {
		if a.Points[i].MeanCapacity != b.Points[i].MeanCapacity {
			t.Errorf("point %d differs between identical runs", i)
		}
	}
}

func TestStandardRange(t *testing.T) {
	for _, param := range []model.SweepParameter{
		model.SweepTemperature, model.SweepHumidity, model.SweepPressure,
	} {
		values := StandardRange(param)
		assert.Equal(t, 15, len(values))
		assert.Less(t, values[0], values[len(values)-1])
	}
}
