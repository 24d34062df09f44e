package main

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/automation"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/dynamo"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/gui"
	"github.com/san-kum/gravsim/internal/optim"
	"github.com/san-kum/gravsim/internal/physics"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir  string
	logLevel string
	// Scenario
	configFile string
	scriptFile string
	// Headless runs
	dt          float64
	frames      int
	validate    bool
	metricNames []string
	// Run data
	body   int
	field  string
	xField string
	yField string
	// SVG export
	outFile   string
	svgWidth  int
	svgHeight int
	// Analysis
	perturbation float64
	// Sweep
	ranges     []string
	metricName string
	// Live view
	theme       string
	snapshotDir string

	logger *log.Logger
)

// main registers the commands and runs the root command. With no subcommand
// the GUI opens on the default scenario.
func main() {
	rootCmd := &cobra.Command{
		Use:   "gravsim",
		Short: "n-body gravity sandbox",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			logger, err = newLogger(logLevel)
			return err
		},
		RunE: runGUI,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scenario file path (yaml), overrides the preset")

	guiCmd := &cobra.Command{
		Use:   "gui [preset]",
		Short: "open the simulation window",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runGUI,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui [preset]",
		Short: "run the simulation in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTUI,
	}
	tuiCmd.Flags().StringVar(&theme, "theme", viz.Themes[0].Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")
	tuiCmd.Flags().StringVar(&snapshotDir, "snapshot-dir", ".", "directory for canvas snapshots (s key)")

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a headless simulation and store it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&dt, "dt", 1.0/60, "frame dt in seconds")
	runCmd.Flags().IntVar(&frames, "frames", 600, "number of frames")
	runCmd.Flags().StringVar(&scriptFile, "script", "", "automation script (yaml)")
	runCmd.Flags().BoolVar(&validate, "validate", true, "stop at the first NaN/Inf frame")
	runCmd.Flags().StringSliceVar(&metricNames, "metrics", nil, "metrics to collect (default all)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a body coordinate or the total energy",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&body, "body", 0, "body index")
	plotCmd.Flags().StringVar(&field, "field", "x", "x, y, vx, vy, speed or energy")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot of one body",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&body, "body", 0, "body index")
	phaseCmd.Flags().StringVar(&xField, "x-field", "x", "field on the x-axis")
	phaseCmd.Flags().StringVar(&yField, "y-field", "vx", "field on the y-axis")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw run trajectories as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", config.DefaultWidth, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", config.DefaultHeight, "image height")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "orbit period and divergence analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&body, "body", 0, "body index")
	analyzeCmd.Flags().Float64Var(&perturbation, "perturbation", 1e-3, "initial displacement for the divergence estimate")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scenarios",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "PRESET\tBODIES\tG")
			for _, name := range config.ListPresets() {
				cfg, _ := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%.0f\n", name, len(cfg.Bodies), cfg.Gravity)
			}
			return w.Flush()
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "grid search spawn parameters for the most stable probe body",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringArrayVar(&ranges, "range", nil, "parameter range name=lo:hi:steps (repeatable)")
	sweepCmd.Flags().StringVar(&metricName, "metric", "energy_drift", "metric to minimize")
	sweepCmd.Flags().Float64Var(&dt, "dt", 1.0/60, "frame dt in seconds")
	sweepCmd.Flags().IntVar(&frames, "frames", 600, "frames per trial")

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "benchmark the solver",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchSolver,
	}

	rootCmd.AddCommand(guiCmd, tuiCmd, runCmd, listCmd, plotCmd, phaseCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, analyzeCmd, presetsCmd, sweepCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(level string) (*log.Logger, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", level, err)
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		Level:           lvl,
		Prefix:          "gravsim",
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
	}), nil
}

// loadScenario resolves the --config file or the preset named in args.
func loadScenario(args []string) (*config.Config, string, error) {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load config: %w", err)
		}
		return cfg, strings.TrimSuffix(configFile, ".yaml"), nil
	}

	name := "default"
	if len(args) > 0 {
		name = args[0]
	}
	cfg, err := config.GetPreset(name)
	if err != nil {
		return nil, "", err
	}
	return cfg, name, nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadScenario(args)
	if err != nil {
		return err
	}
	return gui.Run(cfg, name, logger)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadScenario(args)
	if err != nil {
		return err
	}
	// keep log output from tearing the full screen view
	quiet := logger.With()
	quiet.SetLevel(log.ErrorLevel)
	opts := viz.Options{
		Theme: theme,
		Snapshot: func(c *viz.Canvas) (string, error) {
			path := filepath.Join(snapshotDir, fmt.Sprintf("%s_%d.svg", filepath.Base(name), time.Now().UnixMilli()))
			if err := os.WriteFile(path, []byte(export.CanvasToSVG(c, 4)), 0644); err != nil {
				return "", err
			}
			return path, nil
		},
	}
	return viz.Run(cfg, name, opts, quiet)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadScenario(args)
	if err != nil {
		return err
	}

	var script *automation.Script
	if scriptFile != "" {
		script, err = automation.LoadScript(scriptFile)
		if err != nil {
			return fmt.Errorf("failed to load script: %w", err)
		}
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	metrics, err := registry.GetMetrics(metricNames, cfg.Gravity)
	if err != nil {
		return err
	}

	exp := experiment.New(experiment.Config{
		Preset:   name,
		Scenario: cfg,
		Script:   script,
		Dt:       dt,
		Frames:   frames,
		Record:   true,
		Validate: validate,
	})
	if err := exp.Setup(metrics, logger); err != nil {
		return err
	}
	exp.GetSimulator().AddObserver(progress{every: max(frames/10, 1), logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s simulation...\n", name)
	start := time.Now()

	result, runErr := exp.Run(ctx)
	if result == nil {
		return runErr
	}
	if runErr != nil {
		var simErr *dynamo.SimulationError
		if errors.As(runErr, &simErr) {
			logger.Warn("run stopped early", "frame", simErr.Frame, "t", simErr.Time, "err", simErr.Wrapped)
		} else {
			logger.Warn("run interrupted", "err", runErr)
		}
	}

	elapsed := time.Since(start)

	info := storage.RunInfo{Preset: name, Gravity: cfg.Gravity, Timestep: cfg.Timestep, Dt: dt}
	if script != nil {
		info.Script = script.Name
		if info.Script == "" {
			info.Script = scriptFile
		}
	}
	runID, err := st.Save(info, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d\n", result.FramesTaken)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for n := range result.Metrics {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %s: %.6f\n", n, result.Metrics[n])
	}

	return runErr
}

// progress logs a debug line every tenth of a headless run.
type progress struct {
	every  int
	logger *log.Logger
}

func (p progress) OnFrame(f dynamo.Frame) {
	if f.Index%p.every == 0 {
		p.logger.Debug("progress", "frame", f.Index, "t", f.Time, "bodies", len(f.Bodies))
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tFRAMES\tDT\tBODIES\tSCRIPT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.4fs\t%d\t%s\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Dt,
			len(run.Bodies),
			run.Script,
		)
	}

	return w.Flush()
}

func loadRun(runID string) (*storage.RunMetadata, []dynamo.Frame, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(frames) == 0 {
		return nil, nil, fmt.Errorf("run %s: %w", runID, dynamo.ErrNoData)
	}
	return meta, frames, nil
}

func series(meta *storage.RunMetadata, frames []dynamo.Frame, b int, f string) ([]float64, error) {
	if f != "energy" {
		return storage.Series(frames, b, f)
	}
	out := make([]float64, len(frames))
	for i, fr := range frames {
		out[i] = physics.Energy(fr.Bodies, meta.Gravity)
	}
	return out, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	data, err := series(meta, frames, body, field)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(data))

	caption := fmt.Sprintf("body %d %s vs frame", body, field)
	if field == "energy" {
		caption = "total energy vs frame"
	}

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
	fmt.Println(graph)
	fmt.Println()

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	xs, err := series(meta, frames, body, xField)
	if err != nil {
		return err
	}
	ys, err := series(meta, frames, body, yField)
	if err != nil {
		return err
	}

	fmt.Printf("phase space plot: %s\n", meta.ID)
	fmt.Printf("body %d: %s vs %s\n\n", body, yField, xField)
	fmt.Print(analysis.NewPhasePortrait(xs, ys).ToASCII(70, 24))

	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write([]string{"frame", "time", "body", "x", "y", "vx", "vy"}); err != nil {
		return err
	}

	for _, f := range frames {
		for _, b := range f.Bodies {
			row := []string{
				strconv.Itoa(f.Index),
				strconv.FormatFloat(f.Time, 'f', 6, 64),
				strconv.Itoa(b.ID),
				strconv.FormatFloat(b.Position.X, 'f', 6, 64),
				strconv.FormatFloat(b.Position.Y, 'f', 6, 64),
				strconv.FormatFloat(b.Velocity.X, 'f', 6, 64),
				strconv.FormatFloat(b.Velocity.Y, 'f', 6, 64),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, frames)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	svg := export.TrajectoriesToSVG(frames, svgWidth, svgHeight)
	if svg == "" {
		return fmt.Errorf("run %s has no finite positions: %w", args[0], dynamo.ErrNoData)
	}

	if outFile == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	logger.Info("svg written", "path", outFile)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("orbit analysis: %s\n", meta.ID)
	fmt.Printf("preset: %s, body %d\n\n", meta.Preset, body)

	for _, f := range []string{"x", "y"} {
		data, err := storage.Series(frames, body, f)
		if err != nil {
			return err
		}

		ps := analysis.PowerSpectrum(data)
		if len(ps) > 4 {
			graph := asciigraph.Plot(ps[:len(ps)/2],
				asciigraph.Height(8),
				asciigraph.Width(80),
				asciigraph.Caption(fmt.Sprintf("power spectrum (%s)", f)),
			)
			fmt.Println(graph)
			fmt.Println()
		}

		period, err := analysis.DominantPeriod(data, meta.Dt)
		if err != nil {
			fmt.Printf("%s: no dominant period (%v)\n", f, err)
			continue
		}
		mean := 0.0
		for _, v := range data {
			mean += v
		}
		mean /= float64(len(data))
		fmt.Printf("%s: dominant period %.3f s over %d samples, %d upward crossings of the mean\n",
			f, period, len(data), len(analysis.Crossings(data, mean)))
	}

	first, last := frames[0].Bodies, frames[len(frames)-1].Bodies
	fmt.Printf("\nangular momentum: %.6g at start, %.6g at end\n", physics.AngularMomentum(first), physics.AngularMomentum(last))

	build := func() (*physics.Solver, error) { return meta.Replay(frames[0]) }

	lambda, _, err := analysis.LyapunovExponent(build, physics.BodyID(body), perturbation, meta.Dt, len(frames)-1)
	if err != nil {
		fmt.Printf("\ndivergence: %v\n", err)
		return nil
	}
	fmt.Printf("\nfinite-time lyapunov exponent: %.4f 1/s", lambda)
	if lambda > 0 && !math.IsInf(lambda, 1) {
		fmt.Printf(" (nearby layouts diverge, e-folding time %.2f s)", 1/lambda)
	}
	fmt.Println()

	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, name, err := loadScenario(args)
	if err != nil {
		return err
	}
	if len(ranges) == 0 {
		return fmt.Errorf("at least one --range is required (params: %v): %w", config.ParamNames(), dynamo.ErrInvalidConfig)
	}

	paramNames := make([]string, 0, len(ranges))
	values := make([][]float64, 0, len(ranges))
	for _, r := range ranges {
		n, vals, err := optim.ParseRange(r)
		if err != nil {
			return err
		}
		paramNames = append(paramNames, n)
		values = append(values, vals)
	}

	registry := experiment.NewRegistry()
	if _, err := registry.GetMetric(metricName, base.Gravity); err != nil {
		return err
	}
	build := func(params map[string]float64) (*experiment.Experiment, error) {
		scenario := base.Clone()
		for k, v := range params {
			if err := scenario.SetParam(k, v); err != nil {
				return nil, err
			}
		}
		m, err := registry.GetMetric(metricName, scenario.Gravity)
		if err != nil {
			return nil, err
		}
		exp := experiment.New(experiment.Config{
			Preset:   name,
			Scenario: scenario.WithProbe(),
			Dt:       dt,
			Frames:   frames,
			Validate: true,
		})
		if err := exp.Setup([]sim.Metric{m}, logger); err != nil {
			return nil, err
		}
		return exp, nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	gs := optim.NewGridSearch(paramNames, values)
	best, bestVal, err := gs.Search(ctx, build, metricName)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\tERROR\n", strings.ToUpper(strings.Join(paramNames, "\t")), strings.ToUpper(metricName))
	for _, tr := range gs.Trials() {
		cols := make([]string, len(paramNames))
		for i, p := range paramNames {
			cols[i] = strconv.FormatFloat(tr.Params[p], 'g', 6, 64)
		}
		msg := ""
		if tr.Err != nil {
			msg = tr.Err.Error()
		}
		fmt.Fprintf(w, "%s\t%.6g\t%s\n", strings.Join(cols, "\t"), tr.Value, msg)
	}
	if ferr := w.Flush(); ferr != nil {
		return ferr
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nbest %s: %.6g at", metricName, bestVal)
	for _, p := range paramNames {
		fmt.Printf(" %s=%g", p, best[p])
	}
	fmt.Println()
	return nil
}

func benchSolver(cmd *cobra.Command, args []string) error {
	cfg, name, err := loadScenario(args)
	if err != nil {
		return err
	}

	counts := []int{600, 6000}
	timesteps := []int{1, 5, 10}

	fmt.Printf("benchmarking %s (%d bodies)\n\n", name, len(cfg.Bodies))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FRAMES\tTIMESTEP\tTIME\tFRAMES/SEC")

	for _, n := range counts {
		for _, ts := range timesteps {
			solver, err := cfg.NewSolver()
			if err != nil {
				return err
			}
			solver.SetTimestep(ts)

			start := time.Now()
			for i := 0; i < n; i++ {
				solver.Step(1.0 / 60)
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%d\t%d\t%v\t%.0f\n", n, ts, elapsed, float64(n)/elapsed.Seconds())
		}
	}

	return w.Flush()
}
