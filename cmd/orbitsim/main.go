package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/charmbracelet/log"
	"github.com/san-kum/orbitsim/internal/config"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	digits     int
	dt         string
	duration   string
	integrator string
	noTUI      bool
	noMetrics  bool
	noSave     bool
	// plot size in terminal cells
	plotWidth  int
	plotHeight int
	// diff / export-csv
	bodyName   string
	align      bool
	difference bool

	env    config.Env
	logger *log.Logger
)

// main registers the orbitsim commands and flags and executes the root
// command, exiting with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "orbitsim",
		Short:         "arbitrary-precision orbital simulation",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", "", "data directory (default $ORBITSIM_DATA_DIR or ./runs)")
	pf.StringVar(&logLevel, "log-level", "", "debug, info, warn or error (default $ORBITSIM_LOG_LEVEL or info)")
	pf.IntVar(&digits, "precision", 0, "significant digits")

	scenarioFlags := func(cmd *cobra.Command) {
		cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
		cmd.Flags().StringVar(&preset, "preset", config.DefaultPreset, "use preset configuration")
		cmd.Flags().StringVar(&dt, "dt", "", "time step in seconds")
		cmd.Flags().StringVar(&duration, "time", "", "simulated duration in seconds")
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run simulation",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	scenarioFlags(runCmd)
	runCmd.Flags().StringVar(&integrator, "integrator", "", "integrator")
	runCmd.Flags().BoolVar(&noMetrics, "no-metrics", false, "skip energy and radius tracking")
	runCmd.Flags().BoolVar(&noTUI, "no-tui", false, "log progress instead of the progress view")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run metadata and metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 20, "plot height")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "estimate the orbital period of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	diffCmd := &cobra.Command{
		Use:   "diff [parent_run] [child_run]",
		Short: "difference of one body's trajectory between two runs",
		Args:  cobra.ExactArgs(2),
		RunE:  diffRuns,
	}
	diffCmd.Flags().StringVar(&bodyName, "body", "", "body to compare (default first tracked body)")
	diffCmd.Flags().BoolVar(&align, "align", false, "compare only the sample times both runs share")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a trajectory to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVar(&bodyName, "body", "", "body to export (default first tracked body)")
	exportCSVCmd.Flags().BoolVar(&difference, "difference", false, "export the stored difference trajectory")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list built-in scenarios",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same scenario",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	scenarioFlags(compareCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [sweep.yaml]",
		Short: "run a step size / precision sweep against a reference",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}

	rootCmd.AddCommand(runCmd, listCmd, showCmd, plotCmd, analyzeCmd, diffCmd, exportCSVCmd, presetsCmd, compareCmd, sweepCmd, calcCommand())

	if err := rootCmd.Execute(); err != nil {
		if logger != nil {
			logger.Error(err)
		} else {
			fmt.Fprintln(os.Stderr, "error:", err)
		}
		os.Exit(1)
	}
}

// setup resolves the environment and builds the shared logger. Flags win
// over the environment.
func setup(cmd *cobra.Command) error {
	var err error
	env, err = config.LoadEnv()
	if err != nil {
		return err
	}
	if dataDir == "" {
		dataDir = env.DataDir
	}
	if logLevel == "" {
		logLevel = env.LogLevel
	}

	level, err := log.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger = log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
	})
	return nil
}

// loadScenario layers preset, config file, environment and flags, later
// sources winning.
func loadScenario(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}
	cfg.ApplyEnv(env)

	flags := cmd.Flags()
	if flags.Changed("precision") {
		cfg.Precision = digits
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("time") {
		cfg.Duration = duration
	}
	if flags.Lookup("integrator") != nil && flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
