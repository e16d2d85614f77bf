package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/automation"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/gui"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/optim"
	"github.com/san-kum/gravsim/internal/scene"
	"github.com/san-kum/gravsim/internal/viz"
)

var (
	configFile string
	preset     string
	numBodies  int
	dt         float64
	gConst     float64
	floor      float64
	seed       int64
	frameRate  int
	theme      string
	logLevel   string
	logFile    string

	menu bool

	runTicks  int
	runSample int
	runRadius float64
	format    string

	analyzeTicks  int
	analyzeSample int
	body          int
	lyapunov      bool

	trials   int
	mcTicks  int
	mcRadius float64

	sweepTicks  int
	sweepParams []string
	metricName  string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newRootCmd registers the commands. The root runs the terminal UI when no
// subcommand is given.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "gravsim",
		Short:         "n-body gravity simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, closeLog, err := setup(cmd, true)
			if err != nil {
				return err
			}
			defer closeLog()
			return viz.RunInteractive(cfg, logger)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml, or ini/gcfg/cfg)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.IntVar(&numBodies, "bodies", config.DefaultBodies, "number of bodies")
	pf.Float64Var(&dt, "dt", nbody.DefaultDt, "timestep")
	pf.Float64Var(&gConst, "g", nbody.DefaultG, "gravitational constant")
	pf.Float64Var(&floor, "floor", nbody.DefaultFloor, "minimum distance used in the force law")
	pf.Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	pf.IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	pf.StringVar(&theme, "theme", "dark", "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	pf.StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		RunE:  runLive,
	}

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the simulation in a 3D window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, closeLog, err := setup(cmd, false)
			if err != nil {
				return err
			}
			defer closeLog()
			return gui.Run(cfg, menu, logger)
		},
	}
	guiCmd.Flags().BoolVar(&menu, "menu", false, "open on the preset menu")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headlessly and report metrics",
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&runTicks, "ticks", 2000, "ticks to simulate")
	runCmd.Flags().IntVar(&runSample, "sample", 10, "record positions every n ticks")
	runCmd.Flags().StringVar(&format, "format", "table", "output format (table, csv, json, svg)")
	runCmd.Flags().Float64Var(&runRadius, "radius", 2000, "escape radius for the bound metric")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "frequency analysis of one body's orbit",
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&analyzeTicks, "ticks", 8192, "ticks to simulate")
	analyzeCmd.Flags().IntVar(&analyzeSample, "sample", 4, "sample every n ticks")
	analyzeCmd.Flags().IntVar(&body, "body", 1, "body index to analyze")
	analyzeCmd.Flags().BoolVar(&lyapunov, "lyapunov", false, "also estimate the Lyapunov exponent")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run an automation scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "run many random spawns and count bound systems",
		RunE:  runMonteCarlo,
	}
	monteCarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	monteCarloCmd.Flags().IntVar(&mcTicks, "ticks", 2000, "ticks per trial")
	monteCarloCmd.Flags().Float64Var(&mcRadius, "radius", 2000, "escape radius")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "grid search over physics parameters",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringArrayVar(&sweepParams, "param", nil, "parameter range name=v1,v2 (dt, g, floor, bodies, center); repeatable")
	sweepCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to minimize")
	sweepCmd.Flags().IntVar(&sweepTicks, "ticks", 1000, "ticks per run")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Run: func(cmd *cobra.Command, args []string) {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBODIES\tFLOOR")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%g\n", name, cfg.Simulation.Bodies, cfg.Physics.Floor)
			}
			w.Flush()
		},
	}

	rootCmd.AddCommand(liveCmd, guiCmd, runCmd, analyzeCmd, scriptCmd, monteCarloCmd, sweepCmd, presetsCmd)
	return rootCmd
}

// setup resolves the run configuration and logger. The configuration is
// built from the config file, then the preset, then explicitly set flags.
// Terminal UIs discard logs unless --log-file is given.
func setup(cmd *cobra.Command, tui bool) (*config.Config, *log.Logger, func(), error) {
	logger, closeLog, err := newLogger(tui)
	if err != nil {
		return nil, nil, nil, err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		closeLog()
		return nil, nil, nil, err
	}
	if cfg.Simulation.Seed == 0 {
		cfg.Simulation.Seed = time.Now().UnixNano()
	}
	logger.Debug("configuration", "bodies", cfg.Simulation.Bodies, "seed", cfg.Simulation.Seed,
		"g", cfg.Physics.G, "dt", cfg.Physics.Dt, "floor", cfg.Physics.Floor)
	return cfg, logger, closeLog, nil
}

func newLogger(tui bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}

	var w io.Writer = os.Stderr
	closeLog := func() {}
	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, err
		}
		w = f
		closeLog = func() { f.Close() }
	case tui:
		w = io.Discard
	}

	logger := log.NewWithOptions(w, log.Options{
		Prefix:          "gravsim",
		ReportTimestamp: true,
		Level:           level,
	})
	return logger, closeLog, nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	if preset != "" {
		apply, ok := config.Presets[preset]
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		apply(cfg)
	}

	flags := cmd.Flags()
	if flags.Changed("bodies") {
		cfg.Simulation.Bodies = numBodies
	}
	if flags.Changed("dt") {
		cfg.Physics.Dt = dt
	}
	if flags.Changed("g") {
		cfg.Physics.G = gConst
	}
	if flags.Changed("floor") {
		cfg.Physics.Floor = floor
	}
	if flags.Changed("seed") {
		cfg.Simulation.Seed = seed
	}
	if flags.Changed("fps") {
		cfg.Render.FPS = frameRate
	}
	if flags.Changed("theme") {
		cfg.Render.Theme = theme
	}
	return cfg, cfg.Validate()
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, logger, closeLog, err := setup(cmd, true)
	if err != nil {
		return err
	}
	defer closeLog()

	sc, err := scene.New(cfg, logger)
	if err != nil {
		return err
	}
	return viz.RunLive(sc)
}

func newExperiment(cmd *cobra.Command, ticks, sampleEvery int) (*experiment.Experiment, *config.Config, *log.Logger, func(), error) {
	cfg, logger, closeLog, err := setup(cmd, false)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	exp, err := experiment.New(experiment.Config{Scene: cfg, Ticks: ticks, SampleEvery: sampleEvery}, logger)
	if err != nil {
		closeLog()
		return nil, nil, nil, nil, err
	}
	return exp, cfg, logger, closeLog, nil
}

func runHeadless(cmd *cobra.Command, args []string) error {
	exp, cfg, logger, closeLog, err := newExperiment(cmd, runTicks, runSample)
	if err != nil {
		return err
	}
	defer closeLog()

	exp.AddMetric(metrics.NewEnergy())
	exp.AddMetric(metrics.NewEnergyDrift())
	exp.AddMetric(metrics.NewMomentumDrift())
	exp.AddMetric(metrics.NewEscape(runRadius))
	exp.AddMetric(metrics.NewContacts())

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("running simulation", "bodies", cfg.Simulation.Bodies, "ticks", runTicks, "seed", cfg.Simulation.Seed)
	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		logger.Warn("run stopped early", "ticks", result.Ticks, "err", err)
	}
	logger.Info("completed", "elapsed", time.Since(start), "ticks", result.Ticks)

	switch format {
	case "csv":
		return export.WriteCSV(os.Stdout, result)
	case "json":
		return export.WriteJSON(os.Stdout, cfg.Params(), result)
	case "svg":
		return export.TrajectorySVG(os.Stdout, result, cfg.Render.Width, cfg.Render.Height)
	case "table":
	default:
		return fmt.Errorf("unknown format: %s (want table, csv, json or svg)", format)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMASS\tLEVEL\tCOLOR")
	for _, b := range result.Bodies {
		fmt.Fprintf(w, "%d\t%.4g\t%.1f\t%s\n", b.ID, b.Mass, b.Level, b.Color)
	}
	w.Flush()

	fmt.Printf("\nseed: %d\nticks: %d\nsimulated time: %.3fs\n", cfg.Simulation.Seed, result.Ticks, float64(result.Ticks)*cfg.Physics.Dt)
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %-16s %.6g\n", name, result.Metrics[name])
	}
	for _, e := range result.Errors {
		fmt.Printf("  error: %v\n", e)
	}

	if energy := result.EnergySeries(); len(energy) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(energy,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("total energy"),
		))
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	exp, cfg, logger, closeLog, err := newExperiment(cmd, analyzeTicks, analyzeSample)
	if err != nil {
		return err
	}
	defer closeLog()

	// NewState copies the bodies, so this snapshot survives the run
	initial, err := nbody.NewState(exp.Scene().State().Bodies, cfg.Params())
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("running simulation", "bodies", cfg.Simulation.Bodies, "ticks", analyzeTicks)
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	series, err := result.RadialSeries(body)
	if err != nil {
		return err
	}
	sampleDt := result.SampleInterval()

	period, err := analysis.DominantPeriod(series, sampleDt)
	if err != nil {
		return err
	}
	fmt.Printf("body %d: dominant period %.4fs (%d samples every %.4fs)\n", body, period, len(series), sampleDt)

	spectrum := analysis.PowerSpectrum(series)
	if len(spectrum) > 1 {
		plot := spectrum[1:]
		if len(plot) > 200 {
			plot = plot[:200]
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(plot,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("power spectrum (distance of body %d to centre of mass)", body)),
		))
	}

	if lyapunov {
		lambda, err := analysis.LyapunovExponent(initial, body, 1e-3, analyzeTicks)
		if err != nil {
			return err
		}
		fmt.Printf("\nlyapunov exponent: %.6g 1/s\n", lambda)
	}
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	_, logger, closeLog, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer closeLog()

	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	segments, err := automation.RunScenario(ctx, sc, logger)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FROM\tTO\tBODIES\tENERGY DRIFT\tMOMENTUM DRIFT\tBOUND")
	for _, seg := range segments {
		m := seg.Result.Metrics
		fmt.Fprintf(w, "%d\t%d\t%d\t%.3g\t%.3g\t%g\n", seg.From, seg.To, len(seg.Result.Bodies),
			m["energy_drift"], m["momentum_drift"], m["bound"])
	}
	w.Flush()
	return err
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	cfg, logger, closeLog, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:      cfg,
		NumTrials: trials,
		Ticks:     mcTicks,
		Radius:    mcRadius,
		Seed:      cfg.Simulation.Seed,
	}, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tSEED\tBOUND\tENERGY DRIFT")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%d\t%v\t%.3g\n", r.TrialID, r.Seed, r.Bound, r.EnergyDrift)
	}
	w.Flush()

	bound, escaped := automation.MonteCarloStats(results)
	fmt.Printf("\nbound: %d  escaped: %d  (%.0f%% bound)\n", bound, escaped, 100*float64(bound)/float64(len(results)))
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, logger, closeLog, err := setup(cmd, false)
	if err != nil {
		return err
	}
	defer closeLog()

	var names []string
	var ranges [][]float64
	for _, p := range sweepParams {
		name, values, err := optim.ParseRange(p)
		if err != nil {
			return err
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	search, err := optim.NewGridSearch(names, ranges)
	if err != nil {
		return err
	}

	newMetric, err := metricFactory(metricName)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("sweeping", "params", names, "metric", metricName, "ticks", sweepTicks)
	best, value, points, err := search.Search(ctx, cfg, sweepTicks, newMetric)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(names, "\t"))+"\t"+strings.ToUpper(metricName))
	for _, p := range points {
		for _, n := range names {
			fmt.Fprintf(w, "%g\t", p.Params[n])
		}
		if p.Err != nil {
			fmt.Fprintf(w, "error: %v\n", p.Err)
		} else {
			fmt.Fprintf(w, "%.6g\n", p.Value)
		}
	}
	w.Flush()
	if err != nil {
		return err
	}

	fmt.Printf("\nbest %s: %.6g at", metricName, value)
	for _, n := range names {
		fmt.Printf(" %s=%g", n, best[n])
	}
	fmt.Println()
	return nil
}

// metricFactory finds a default metric by name.
func metricFactory(name string) (func() metrics.Metric, error) {
	var known []string
	for _, m := range metrics.Defaults() {
		if m.Name() == name {
			return func() metrics.Metric {
				for _, m := range metrics.Defaults() {
					if m.Name() == name {
						return m
					}
				}
				return nil
			}, nil
		}
		known = append(known, m.Name())
	}
	return nil, fmt.Errorf("unknown metric: %s (available: %v)", name, known)
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
