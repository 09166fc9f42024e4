package main

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/uncertainty/internal/config"
	"github.com/san-kum/uncertainty/internal/export"
	"github.com/san-kum/uncertainty/internal/params"
	"github.com/san-kum/uncertainty/internal/report"
	"github.com/san-kum/uncertainty/internal/sim"
	"github.com/san-kum/uncertainty/internal/simulators"
	"github.com/san-kum/uncertainty/internal/storage"
)

var (
	dataDir    string
	verbose    bool
	paths      int
	steps      int
	seed       int64
	reportName string
	configFile string
	preset     string
	save       bool
	simOpts    []string
	reportOpts []string
	svgPath    string
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "uncertainty",
		Short:         "monte carlo simulation and reporting",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".uncertainty", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")

	runCmd := &cobra.Command{
		Use:   "run [simulator]",
		Short: "run a simulation and render a report",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().IntVar(&paths, "paths", config.DefaultPaths, "number of sample paths")
	runCmd.Flags().IntVar(&steps, "steps", config.DefaultSteps, "steps per path")
	runCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = unseeded)")
	runCmd.Flags().StringVarP(&reportName, "report", "r", config.DefaultReport, "report: console, margin or plot")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	runCmd.Flags().BoolVar(&save, "save", false, "store the result matrix")
	runCmd.Flags().StringArrayVarP(&simOpts, "opt", "o", nil, "simulator option key=value (repeatable)")
	runCmd.Flags().StringArrayVar(&reportOpts, "report-opt", nil, "report option key=value (repeatable)")

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "render a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().StringVarP(&reportName, "report", "r", config.DefaultReport, "report: console, margin or plot")
	renderCmd.Flags().StringArrayVar(&reportOpts, "report-opt", nil, "report option key=value (repeatable)")
	renderCmd.Flags().StringVar(&svgPath, "svg", "", "write an svg chart to this path instead")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	simulatorsCmd := &cobra.Command{
		Use:   "simulators",
		Short: "list available simulators",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := simulators.NewRegistry()
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, name := range registry.List() {
				fmt.Fprintf(w, "%s\t%s\n", name, registry.Describe(name))
			}
			return w.Flush()
		},
	}

	reportsCmd := &cobra.Command{
		Use:   "reports",
		Short: "list built-in reports",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, k := range report.Kinds() {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [simulator]",
		Short: "list available presets for a simulator",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Fprintf(out, "no presets for simulator: %s\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Fprintf(out, "  %s\n", p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, renderCmd, listCmd, simulatorsCmd, reportsCmd, presetsCmd)
	return rootCmd
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// resolveConfig layers defaults, preset, config file and explicitly set flags,
// in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	name := cfg.Simulator
	if len(args) > 0 {
		name = args[0]
	}

	if preset != "" {
		p := config.GetPreset(name, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(name))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Simulator = args[0]
	}
	if cmd.Flags().Changed("paths") {
		cfg.Paths = paths
	}
	if cmd.Flags().Changed("steps") {
		cfg.Steps = steps
	}
	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("report") {
		cfg.Report = reportName
	}

	extra, err := params.Parse(simOpts)
	if err != nil {
		return nil, err
	}
	cfg.Params = params.Set(cfg.Params).Merge(extra)

	extraReport, err := params.Parse(reportOpts)
	if err != nil {
		return nil, err
	}
	cfg.ReportOptions = params.Set(cfg.ReportOptions).Merge(extraReport)

	return cfg, cfg.Validate()
}

// pinSeed fixes the run seed up front so a saved run can be replayed. A seed
// given under params is lifted to the top level; otherwise one is drawn.
func pinSeed(cfg *config.Config) error {
	if cfg.Seed != 0 {
		return nil
	}
	fromParams, err := params.Set(cfg.Params).Int64("seed", 0)
	if err != nil {
		return err
	}
	if fromParams != 0 {
		cfg.Seed = fromParams
		return nil
	}
	cfg.Seed = rand.Int64N(math.MaxInt64) + 1
	return nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}

	s, err := simulators.NewRegistry().Get(cfg.Simulator)
	if err != nil {
		return err
	}

	logger := newLogger()
	runner := sim.NewRunner(s, sim.WithLogger(logger))

	if err := pinSeed(cfg); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "running %s simulation (seed %d)...\n", cfg.Simulator, cfg.Seed)
	start := time.Now()

	result, err := runner.Call(cmd.Context(), cfg.SimOptions())
	if err != nil {
		return err
	}
	rows, cols := result.Dims()
	fmt.Fprintf(out, "completed in %v (%d x %d)\n\n", time.Since(start), rows, cols)

	artifact, err := runner.Render(report.Named(cfg.Report), nil, cfg.RenderOptions())
	if err != nil {
		return err
	}
	printArtifact(out, artifact)

	if save {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunMetadata{
			Simulator: cfg.Simulator,
			Report:    cfg.Report,
			Seed:      cfg.Seed,
			Options:   cfg.SimOptions(),
		}, runner.Result())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "\nrun id: %s\n", runID)
	}

	return nil
}

func renderRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	result, err := st.LoadResult(meta.ID)
	if err != nil {
		return err
	}

	opts, err := params.Parse(reportOpts)
	if err != nil {
		return err
	}

	sel := report.Named(reportName)
	if svgPath != "" {
		sel = report.Custom(export.NewSVGReport)
	}

	// a fresh runner never ran, so the stored matrix is passed explicitly
	runner := sim.NewRunner(nil, sim.WithLogger(newLogger()))
	artifact, err := runner.Render(sel, result, opts)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if svgPath != "" {
		if err := os.WriteFile(svgPath, []byte(artifact.(string)), 0644); err != nil {
			return err
		}
		fmt.Fprintf(out, "wrote %s\n", svgPath)
		return nil
	}

	fmt.Fprintf(out, "run: %s\n", meta.ID)
	fmt.Fprintf(out, "simulator: %s\n\n", meta.Simulator)
	printArtifact(out, artifact)
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(out, "no runs found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSIMULATOR\tTIME\tSHAPE\tSEED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dx%d\t%d\n",
			run.ID,
			run.Simulator,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Rows,
			run.Cols,
			run.Seed,
		)
	}

	return w.Flush()
}

func printArtifact(w io.Writer, artifact report.Artifact) {
	switch a := artifact.(type) {
	case string:
		fmt.Fprintln(w, strings.TrimRight(a, "\n"))
	case fmt.Stringer:
		fmt.Fprint(w, a.String())
	case *mat.Dense:
		fmt.Fprintf(w, "%v\n", mat.Formatted(a))
	default:
		fmt.Fprintf(w, "%v\n", a)
	}
}
