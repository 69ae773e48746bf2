// thz-simulator runs Monte Carlo link-budget simulations for sub-terahertz
// wireless links: capacity distributions, environmental sensitivity sweeps,
// beam alignment studies, and system reports.
package main

import (
	"context"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v2"

	"github.com/nfvri/thz-link-simulator/pkg/alignment"
	"github.com/nfvri/thz-link-simulator/pkg/antenna"
	"github.com/nfvri/thz-link-simulator/pkg/export"
	"github.com/nfvri/thz-link-simulator/pkg/model"
	"github.com/nfvri/thz-link-simulator/pkg/montecarlo"
	"github.com/nfvri/thz-link-simulator/pkg/nearfield"
	"github.com/nfvri/thz-link-simulator/pkg/pathloss"
	"github.com/nfvri/thz-link-simulator/pkg/render"
)

var (
	configPath string
	outputDir  string
	verbose    bool
	plots      bool

	flagTrials  int
	flagSeed    uint64
	flagWorkers int
)

var rootCmd = &cobra.Command{
	Use:   "thz-simulator",
	Short: "Sub-THz link budget Monte Carlo simulator",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
	},
}

var monteCarloCmd = &cobra.Command{
	Use:   "montecarlo",
	Short: "Run the capacity Monte Carlo simulation",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		sim, err := newSimulator(cfg)
		if err != nil {
			return err
		}

		res, err := sim.Run(context.Background(), cfg.Link)
		if err != nil {
			return err
		}

		log.Infof("run %s: mean %.3f Gbps, p5 %.3f, p95 %.3f, outage %.4f",
			res.RunID, res.Mean, res.P5, res.P95, res.OutageProbability)
		log.Infof("%.0f%% CI [%.3f, %.3f] Gbps over %d trials",
			cfg.Simulation.ConfidenceLevel*100, res.CILower, res.CIUpper, res.Trials)

		exp, err := export.NewExporter(outputDir)
		if err != nil {
			return err
		}
		if _, err := exp.MonteCarloSamples(res, "baseline"); err != nil {
			return err
		}
		if _, err := exp.MonteCarloStats(res, "baseline"); err != nil {
			return err
		}
		if _, err := exp.Snapshot(res.RunID, cfg.Link, cfg.Simulation); err != nil {
			return err
		}

		if plots {
			if _, err := render.CapacityHistogram(res, outputDir); err != nil {
				return err
			}
		}
		return nil
	},
}

var sensitivityCmd = &cobra.Command{
	Use:   "sensitivity [parameter]",
	Short: "Sweep an environmental parameter, or all of them",
	Long: `Sweeps temperature, humidity, or pressure across its operating range,
running a full Monte Carlo batch at every point. With no argument the whole
environmental suite runs.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		sim, err := newSimulator(cfg)
		if err != nil {
			return err
		}
		exp, err := export.NewExporter(outputDir)
		if err != nil {
			return err
		}

		ctx := context.Background()
		if len(args) == 1 {
			param, err := model.ParseSweepParameter(args[0])
			if err != nil {
				return err
			}
			res, err := sim.Sensitivity(ctx, param, montecarlo.StandardRange(param), cfg.Link)
			if err != nil {
				return err
			}
			log.Infof("%s sensitivity: max %.4f, mean %.4f Gbps per unit",
				param, res.MaxSensitivity(), res.MeanSensitivity())
			_, err = exp.SensitivityCurve(res)
			return err
		}

		suite, err := sim.RunEnvironmentalSuite(ctx, cfg.Link)
		if err != nil {
			return err
		}
		for _, res := range []*montecarlo.SweepResult{suite.Temperature, suite.Humidity, suite.Pressure} {
			log.Infof("%s sensitivity: max %.4f, mean %.4f Gbps per unit",
				res.Parameter, res.MaxSensitivity(), res.MeanSensitivity())
			if _, err := exp.SensitivityCurve(res); err != nil {
				return err
			}
		}
		if plots {
			if _, err := render.SensitivityCurves(suite, outputDir); err != nil {
				return err
			}
		}
		return nil
	},
}

var alignmentCmd = &cobra.Command{
	Use:   "alignment",
	Short: "Compare beam alignment search strategies",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		sim2d, err := alignment.NewSimulator2D(cfg.Alignment)
		if err != nil {
			return err
		}
		results, err := sim2d.RunAll()
		if err != nil {
			return err
		}

		sim3d, err := alignment.NewSimulator3D(cfg.Alignment)
		if err != nil {
			return err
		}
		res3d, err := sim3d.RunHierarchical()
		if err != nil {
			return err
		}
		results = append(results, res3d)

		exp, err := export.NewExporter(outputDir)
		if err != nil {
			return err
		}
		for _, res := range results {
			log.Infof("%-16s mean %.1f ms, median %.1f, p95 %.1f",
				res.Strategy, res.Stats.Mean, res.Stats.Median, res.Stats.P95)
			if _, err := exp.AlignmentTimes(res, cfg.Alignment.BeamwidthDeg); err != nil {
				return err
			}
		}

		if plots {
			if _, err := render.AlignmentHistograms(results[:len(results)-1], outputDir); err != nil {
				return err
			}
		}
		return nil
	},
}

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Print the antenna, near-field, and path-loss figures for the configured link",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		arr, err := antenna.NewArray(cfg.Link.Array)
		if err != nil {
			return err
		}

		_, perSide := arr.ElementCount()
		nf, err := nearfield.NewAnalyzer(perSide, perSide, cfg.Link.FrequencyGHz, cfg.NearField)
		if err != nil {
			return err
		}

		loss, err := pathloss.NewModel(cfg.Absorption)
		if err != nil {
			return err
		}
		breakdown := loss.TotalLoss(cfg.Link.FrequencyGHz, cfg.Link.DistanceM,
			cfg.Link.RainRateMmHr, cfg.Link.Environment)

		report := struct {
			Antenna   antenna.Info       `yaml:"antenna"`
			NearField nearfield.Info     `yaml:"near_field"`
			PathLoss  pathloss.Breakdown `yaml:"path_loss"`
		}{arr.Info(), nf.Info(), breakdown}

		out, err := yaml.Marshal(report)
		if err != nil {
			return err
		}
		fmt.Print(string(out))

		if penalty := nf.GainPenaltyDB(cfg.Link.DistanceM); penalty > 0 {
			log.Warnf("link distance %.1f m is inside the Fraunhofer boundary, %.2f dB gain penalty",
				cfg.Link.DistanceM, penalty)
		}
		return nil
	},
}

func loadConfig() (model.Config, error) {
	cfg, err := model.LoadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	if flagTrials > 0 {
		cfg.Simulation.Trials = flagTrials
	}
	if flagSeed > 0 {
		cfg.Simulation.Seed = flagSeed
		cfg.Alignment.Seed = flagSeed
	}
	if flagWorkers > 0 {
		cfg.Simulation.Workers = flagWorkers
	}
	return cfg, nil
}

func newSimulator(cfg model.Config) (*montecarlo.Simulator, error) {
	loss, err := pathloss.NewModel(cfg.Absorption)
	if err != nil {
		return nil, err
	}
	return montecarlo.NewSimulator(cfg.Simulation, loss)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML configuration file")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "results", "output directory for CSV and plots")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&plots, "plot", false, "render PNG plots next to the CSV output")
	rootCmd.PersistentFlags().IntVar(&flagTrials, "trials", 0, "override trial count")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "override random seed")
	rootCmd.PersistentFlags().IntVar(&flagWorkers, "workers", 0, "override worker count")

	rootCmd.AddCommand(monteCarloCmd, sensitivityCmd, alignmentCmd, infoCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
