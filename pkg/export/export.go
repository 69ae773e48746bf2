// Package export writes simulation results to CSV files and parameter
// snapshots to YAML, one timestamped file set per run.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"
	yaml "gopkg.in/yaml.v2"

	"github.com/nfvri/thz-link-simulator/pkg/alignment"
	"github.com/nfvri/thz-link-simulator/pkg/model"
	"github.com/nfvri/thz-link-simulator/pkg/montecarlo"
)

const (
	csvPrefix       = "thz_sim_"
	floatPrecision  = 6
	timestampLayout = "20060102_150405"
)

// Exporter writes result files under a single output directory. All files
// from one Exporter share a timestamp so a run's outputs group together.
type Exporter struct {
	dir       string
	timestamp string
}

// NewExporter creates the output directory if needed.
func NewExporter(dir string) (*Exporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir %s: %w", dir, err)
	}
	return &Exporter{dir: dir, timestamp: time.Now().Format(timestampLayout)}, nil
}

func (e *Exporter) path(kind, label string) string {
	return filepath.Join(e.dir, fmt.Sprintf("%s%s_%s_%s.csv", csvPrefix, kind, label, e.timestamp))
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', floatPrecision, 64)
}

func (e *Exporter) writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Infof("exported %s", filepath.Base(path))
	return nil
}

// MonteCarloSamples writes the raw per-trial samples.
func (e *Exporter) MonteCarloSamples(res *montecarlo.Result, label string) (string, error) {
	path := e.path("mc", label)
	rows := make([][]string, 0, len(res.Capacities)+1)
	rows = append(rows, []string{"capacity_gbps", "snr_db", "rx_power_dbm"})
	for i := range res.Capacities {
		rows = append(rows, []string{
			formatFloat(res.Capacities[i]),
			formatFloat(res.SNRs[i]),
			formatFloat(res.RxPowers[i]),
		})
	}
	return path, e.writeCSV(path, rows)
}

// MonteCarloStats writes the aggregate metrics as metric,value pairs. The
// metric names are a stable interchange format; downstream tooling keys on
// them.
func (e *Exporter) MonteCarloStats(res *montecarlo.Result, label string) (string, error) {
	path := e.path("mc_stats", label)
	rows := [][]string{
		{"metric", "value"},
		{"mean", formatFloat(res.Mean)},
		{"median", formatFloat(res.Median)},
		{"std", formatFloat(res.Std)},
		{"min", formatFloat(res.Min)},
		{"max", formatFloat(res.Max)},
		{"p5", formatFloat(res.P5)},
		{"p95", formatFloat(res.P95)},
		{"p99", formatFloat(res.P99)},
		{"ci_lower", formatFloat(res.CILower)},
		{"ci_upper", formatFloat(res.CIUpper)},
		{"outage_prob", formatFloat(res.OutageProbability)},
		{"availability", formatFloat(res.Availability)},
		{"snr_mean", formatFloat(res.SNRMean)},
		{"snr_std", formatFloat(res.SNRStd)},
		{"rx_power_mean", formatFloat(res.RxPowerMean)},
	}
	return path, e.writeCSV(path, rows)
}

// AlignmentTimes writes the per-trial alignment times of one strategy.
func (e *Exporter) AlignmentTimes(res *alignment.StrategyResult, beamwidthDeg float64) (string, error) {
	label := fmt.Sprintf("%s_bw%g", res.Strategy, beamwidthDeg)
	path := e.path("alignment", label)
	rows := make([][]string, 0, len(res.TimesMs)+1)
	rows = append(rows, []string{"alignment_time_ms"})
	for _, t := range res.TimesMs {
		rows = append(rows, []string{formatFloat(t)})
	}
	return path, e.writeCSV(path, rows)
}

// SensitivityCurve writes one parameter sweep with its gradient column.
func (e *Exporter) SensitivityCurve(res *montecarlo.SweepResult) (string, error) {
	path := e.path("sensitivity", res.Parameter.String())
	rows := make([][]string, 0, len(res.Points)+1)
	rows = append(rows, []string{res.Parameter.String(), "mean_capacity_gbps", "std_capacity_gbps", "outage_prob", "gradient"})
	for i, p := range res.Points {
		rows = append(rows, []string{
			formatFloat(p.Value),
			formatFloat(p.MeanCapacity),
			formatFloat(p.StdCapacity),
			formatFloat(p.Outage),
			formatFloat(res.Gradient[i]),
		})
	}
	return path, e.writeCSV(path, rows)
}

// runSnapshot is the YAML layout of a run's parameter record.
type runSnapshot struct {
	RunID     string                 `yaml:"run_id"`
	Timestamp string                 `yaml:"timestamp"`
	Link      model.LinkConfig       `yaml:"link"`
	Sim       model.SimulationConfig `yaml:"simulation"`
}

// Snapshot writes the exact parameters of a run next to its result files so
// the run can be reproduced from the snapshot alone.
func (e *Exporter) Snapshot(runID string, link model.LinkConfig, sim model.SimulationConfig) (string, error) {
	path := filepath.Join(e.dir, fmt.Sprintf("%sparams_%s.yaml", csvPrefix, e.timestamp))
	data, err := yaml.Marshal(runSnapshot{
		RunID:     runID,
		Timestamp: e.timestamp,
		Link:      link,
		Sim:       sim,
	})
	if err != nil {
		return "", fmt.Errorf("marshal run snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	log.Infof("exported %s", filepath.Base(path))
	return path, nil
}
