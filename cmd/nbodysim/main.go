package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/nbodysim/internal/compute"
	"github.com/san-kum/nbodysim/internal/config"
	"github.com/san-kum/nbodysim/internal/dynamo"
	"github.com/san-kum/nbodysim/internal/metrics"
	"github.com/san-kum/nbodysim/internal/physics"
	"github.com/san-kum/nbodysim/internal/storage"
	"github.com/san-kum/nbodysim/internal/viz"
)

var (
	dataDir     string
	verbose     bool
	configFile  string
	preset      string
	count       int
	mode        string
	ticks       int
	dt          float64
	seed        int64
	workers     int
	metricNames []string
	trackEnergy bool
	compress    bool
	save        bool
	showBodies  int
	showLimit   int
	benchCounts []int
	tolerance   float64
	svgSize     int
	outFile     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "nbodysim",
		Short:         "direct-summation gravitational n-body simulator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogger(os.Stderr, verbose)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".nbodysim", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and report timing",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().StringSliceVar(&metricNames, "metrics", nil, fmt.Sprintf("metrics to track %v", metrics.Names()))
	runCmd.Flags().BoolVar(&trackEnergy, "track-energy", false, "record total energy after every tick")
	runCmd.Flags().BoolVar(&compress, "compress", false, "zstd-compress the saved body table")
	runCmd.Flags().BoolVar(&save, "save", true, "save a run report under --data")
	runCmd.Flags().IntVar(&showBodies, "show-bodies", 0, "print the first n final bodies")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "compare serial and parallel tick times",
		Args:  cobra.NoArgs,
		RunE:  benchModes,
	}
	addSimFlags(benchCmd)
	benchCmd.Flags().IntSliceVar(&benchCounts, "counts", []int{100, 1000, 5000}, "body counts to benchmark")

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "check that serial and parallel trajectories agree",
		Args:  cobra.NoArgs,
		RunE:  verifyModes,
	}
	addSimFlags(verifyCmd)
	verifyCmd.Flags().Float64Var(&tolerance, "tol", dynamo.DefaultTolerance, "largest accepted per-coordinate difference")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with a live terminal view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addSimFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}
	showCmd.Flags().IntVar(&showLimit, "bodies", 5, "print the first n final bodies")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot tick times and energy of a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "write the final bodies of a saved run as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw the final bodies of a saved run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgSize, "size", 800, "image size in pixels")
	exportSVGCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, benchCmd, verifyCmd, liveCmd, listCmd, showCmd, plotCmd, exportCSVCmd, exportSVGCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().IntVarP(&count, "count", "n", config.DefaultCount, "number of bodies")
	cmd.Flags().StringVarP(&mode, "mode", "m", string(config.DefaultMode), "serial or parallel")
	cmd.Flags().IntVarP(&ticks, "ticks", "t", config.DefaultTicks, "number of ticks")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 uses every CPU)")
}

func setupLogger(w io.Writer, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// loadConfig resolves defaults, then preset, then config file, then any flag
// set explicitly on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		var err error
		cfg, err = config.Load(configFile)
		if err != nil {
			return nil, err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("count") {
		cfg.Count = count
	}
	if flags.Changed("mode") {
		cfg.Mode = mode
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newUniverse(cfg *config.Config) *physics.Universe {
	rng := rand.New(rand.NewSource(cfg.Seed))
	return physics.NewUniverseWith(cfg.Count, rng, cfg.Params())
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	stepper, err := dynamo.NewStepper(cfg.ExecMode(), cfg.Workers)
	if err != nil {
		return err
	}

	sim := dynamo.New(stepper)
	sim.SetLogger(slog.Default())
	for _, name := range metricNames {
		m, err := metrics.ByName(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		sim.AddMetric(m)
	}

	slog.Info("initializing universe", "count", cfg.Count, "seed", cfg.Seed)
	u := newUniverse(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runCfg := cfg.RunConfig()
	runCfg.ValidateState = true
	runCfg.TrackEnergy = trackEnergy

	result, runErr := sim.Run(ctx, u, runCfg)
	if result == nil {
		return runErr
	}

	printResult(os.Stdout, result)

	if showBodies > 0 {
		fmt.Println()
		if err := printBodies(os.Stdout, u.Bodies, showBodies); err != nil {
			return err
		}
	}

	if save && result.Ticks > 0 {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		info := storage.RunInfo{Seed: cfg.Seed, Preset: preset, Compress: compress}
		runID, err := st.Save(info, cfg.Dt, result, u)
		if err != nil {
			return err
		}
		fmt.Printf("\nrun saved: %s\n", runID)
	}

	return runErr
}

func printResult(w io.Writer, r *dynamo.Result) {
	stats := metrics.SummarizeTicks(r.TickTimes)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "--- RESULTS ---")
	fmt.Fprintf(tw, "mode:\t%s\n", r.Mode)
	fmt.Fprintf(tw, "workers:\t%d\n", r.Workers)
	fmt.Fprintf(tw, "bodies:\t%d\n", r.Bodies)
	fmt.Fprintf(tw, "ticks:\t%d\n", r.Ticks)
	fmt.Fprintf(tw, "total time:\t%v\n", r.Elapsed.Round(10*time.Microsecond))
	fmt.Fprintf(tw, "avg tick:\t%v\n", r.PerTick().Round(10*time.Microsecond))
	if stats.Count > 1 {
		fmt.Fprintf(tw, "tick min/median/max:\t%v / %v / %v\n", stats.Min, stats.Median, stats.Max)
		fmt.Fprintf(tw, "tick stddev:\t%v\n", stats.StdDev)
	}
	for _, name := range sortedKeys(r.Metrics) {
		fmt.Fprintf(tw, "%s:\t%.6g\n", name, r.Metrics[name])
	}
	fmt.Fprintln(tw, "---------------")
	tw.Flush()
}

func printBodies(w io.Writer, bodies []physics.Body, limit int) error {
	if limit > len(bodies) {
		limit = len(bodies)
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tMASS\tX\tY\tZ\tVX\tVY\tVZ")
	for _, b := range bodies[:limit] {
		fmt.Fprintf(tw, "%d\t%.3f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			b.ID, b.Mass, b.Pos.X, b.Pos.Y, b.Pos.Z, b.Vel.X, b.Vel.Y, b.Vel.Z)
	}
	return tw.Flush()
}

func benchModes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// bench logs only failures; the table is the output
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	fmt.Printf("benchmarking %d ticks, dt %g, seed %d\n\n", cfg.Ticks, cfg.Dt, cfg.Seed)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tMODE\tWORKERS\tMEAN\tMEDIAN\tSTDDEV\tTOTAL\tSPEEDUP")

	for _, n := range benchCounts {
		if n <= 0 {
			return fmt.Errorf("%w, got %d", dynamo.ErrInvalidCount, n)
		}
		c := *cfg
		c.Count = n

		var baseline metrics.TickStats
		for _, m := range dynamo.Modes() {
			stepper, err := dynamo.NewStepper(m, cfg.Workers)
			if err != nil {
				return err
			}
			sim := dynamo.New(stepper)
			sim.SetLogger(quiet)

			result, err := sim.Run(ctx, newUniverse(&c), c.RunConfig())
			if err != nil {
				return err
			}

			stats := metrics.SummarizeTicks(result.TickTimes)
			if m == dynamo.ModeSerial {
				baseline = stats
			}
			fmt.Fprintf(w, "%d\t%s\t%d\t%v\t%v\t%v\t%v\t%.2fx\n",
				n, m, result.Workers, stats.Mean, stats.Median, stats.StdDev,
				stats.Total.Round(time.Microsecond), metrics.Speedup(baseline, stats))
		}
	}

	return w.Flush()
}

func verifyModes(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	u := newUniverse(cfg)
	pool := compute.NewPool(cfg.Workers)

	slog.Info("verifying", "count", cfg.Count, "ticks", cfg.Ticks, "workers", pool.Workers(), "tol", tolerance)
	dev, err := dynamo.Verify(u, cfg.Dt, cfg.Ticks, pool, tolerance)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "bodies:\t%d\n", cfg.Count)
	fmt.Fprintf(w, "ticks:\t%d\n", cfg.Ticks)
	fmt.Fprintf(w, "workers:\t%d\n", pool.Workers())
	fmt.Fprintf(w, "max position diff:\t%g\n", dev.Pos)
	fmt.Fprintf(w, "max velocity diff:\t%g\n", dev.Vel)
	if dev.Pos > 0 {
		fmt.Fprintf(w, "worst body:\t%d (tick %d)\n", dev.Body, dev.Tick)
	}
	if flushErr := w.Flush(); flushErr != nil {
		return flushErr
	}
	if err != nil {
		return err
	}

	fmt.Println("serial and parallel trajectories agree")
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// keep log records off the alternate screen
	setupLogger(io.Discard, false)

	model, err := viz.NewModel(newUniverse(cfg), cfg.ExecMode(), cfg.Workers, cfg.Dt)
	if err != nil {
		return err
	}

	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
