package export

import (
	"encoding/csv"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nfvri/thz-link-simulator/pkg/alignment"
	"github.com/nfvri/thz-link-simulator/pkg/model"
	"github.com/nfvri/thz-link-simulator/pkg/montecarlo"
	"github.com/nfvri/thz-link-simulator/pkg/statistics"
)

func sampleResult() *montecarlo.Result {
	return &montecarlo.Result{
		RunID:      "test-run",
		Trials:     3,
		Mean:       2.0,
		Capacities: []float64{1, 2, 3},
		SNRs:       []float64{10, 11, 12},
		RxPowers:   []float64{-30, -29, -28},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	assert.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	assert.NoError(t, err)
	return rows
}

func TestMonteCarloSamples(t *testing.T) {
	exp, err := NewExporter(t.TempDir())
	assert.NoError(t, err)

	path, err := exp.MonteCarloSamples(sampleResult(), "baseline")
	assert.NoError(t, err)

	rows := readCSV(t, path)
	assert.Equal(t, 4, len(rows))
	assert.Equal(t, []string{"capacity_gbps", "snr_db", "rx_power_dbm"}, rows[0])
	assert.Equal(t, "1.000000", rows[1][0])
	assert.Equal(t, "-28.000000", rows[3][2])
}

func TestMonteCarloStats(t *testing.T) {
	exp, err := NewExporter(t.TempDir())
	assert.NoError(t, err)

	path, err := exp.MonteCarloStats(sampleResult(), "baseline")
	assert.NoError(t, err)

	rows := readCSV(t, path)
	assert.Equal(t, []string{"metric", "value"}, rows[0])

	metrics := make(map[string]string, len(rows)-1)
	for _, row := range rows[1:] {
		metrics[row[0]] = row[1]
	}
	for _, want := range []string{"mean", "median", "p5", "p95", "p99", "outage_prob", "snr_mean"} {
		if _, ok := metrics[want]; !ok {
			t.Errorf("stats file is missing metric %q", want)
		}
	}
	assert.Equal(t, "2.000000", metrics["mean"])
}

func TestAlignmentTimes(t *testing.T) {
	exp, err := NewExporter(t.TempDir())
	assert.NoError(t, err)

	res := &alignment.StrategyResult{
		Strategy: alignment.StrategyClockwise,
		TimesMs:  []float64{5, 7, 9},
		Stats:    statistics.Summarize([]float64{5, 7, 9}),
	}
	path, err := exp.AlignmentTimes(res, 20)
	assert.NoError(t, err)
	assert.Contains(t, path, "clockwise")
	assert.Contains(t, path, "bw20")

	rows := readCSV(t, path)
	assert.Equal(t, 4, len(rows))
	assert.Equal(t, "alignment_time_ms", rows[0][0])
}

func TestSensitivityCurve(t *testing.T) {
	exp, err := NewExporter(t.TempDir())
	assert.NoError(t, err)

	res := &montecarlo.SweepResult{
		Parameter: model.SweepHumidity,
		Points: []montecarlo.SweepPoint{
			{Value: 10, MeanCapacity: 5, StdCapacity: 0.1, Outage: 0},
			{Value: 90, MeanCapacity: 3, StdCapacity: 0.2, Outage: 0.1},
		},
		Gradient: []float64{-0.025, -0.025},
	}
	path, err := exp.SensitivityCurve(res)
	assert.NoError(t, err)

	rows := readCSV(t, path)
	assert.Equal(t, 3, len(rows))
	assert.Equal(t, "humidity", rows[0][0])
	assert.Equal(t, "gradient", rows[0][4])
}

func TestSnapshot(t *testing.T) {
	exp, err := NewExporter(t.TempDir())
	assert.NoError(t, err)

	cfg := model.DefaultConfig()
	path, err := exp.Snapshot("run-1", cfg.Link, cfg.Simulation)
	assert.NoError(t, err)

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	content := string(data)
	assert.True(t, strings.Contains(content, "run_id: run-1"))
	assert.True(t, strings.Contains(content, "frequencyGHz: 200"))
	assert.True(t, strings.Contains(content, "seed: 11012026"))
}
