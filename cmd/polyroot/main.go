package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/polyroot/internal/config"
	"github.com/san-kum/polyroot/internal/logger"
	"github.com/san-kum/polyroot/internal/newton"
	"github.com/san-kum/polyroot/internal/poly"
	"github.com/san-kum/polyroot/internal/storage"
	"github.com/san-kum/polyroot/internal/viz"
)

var (
	dataDir      string
	storeBackend string
	verbose      bool

	coeffs     string
	iters      int
	seed       int64
	preset     string
	configFile string
	save       bool
	plot       bool
	trace      bool
	summary    bool

	runs      int
	seedStart int64
	parallel  int

	x0 float64
)

// main wires the command tree. With no subcommand it runs the default
// demo: 100 updates on x^2 - 0.5x from a random start.
func main() {
	rootCmd := &cobra.Command{
		Use:          "polyroot",
		Short:        "newton-raphson root finding for polynomials",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger.SetVerbose(verbose)
		},
		RunE: runDemo,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&storeBackend, "store", config.DefaultBackend, "run store backend (file|sqlite)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print every update to stderr")

	solveCmd := &cobra.Command{
		Use:   "solve [coefficients...]",
		Short: "approximate a root of a polynomial (constant term first)",
		Long: "Approximate a root of a polynomial given its coefficients in ascending degree order.\n" +
			"Use --coeffs or put coefficients after -- when the first one is negative:\n" +
			"  polyroot solve --coeffs=-2,0,1\n  polyroot solve -- -2 0 1",
		RunE: solve,
	}
	solveCmd.Flags().StringVar(&coeffs, "coeffs", "", "coefficients, constant term first (e.g. 0,-0.5,1)")
	solveCmd.Flags().IntVar(&iters, "iters", config.DefaultIterations, "number of newton updates")
	solveCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for the initial guess (default: time based)")
	solveCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	solveCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	solveCmd.Flags().BoolVar(&save, "save", false, "persist the run and its trace")
	solveCmd.Flags().BoolVar(&plot, "plot", false, "plot the iterates and residuals")
	solveCmd.Flags().BoolVar(&trace, "trace", false, "print the trace as csv")
	solveCmd.Flags().BoolVar(&summary, "summary", false, "print a styled summary")

	cubicCmd := &cobra.Command{
		Use:   "cubic",
		Short: "run the hard-coded cubic x^3 - 2x^2 + 4x + 1",
		Args:  cobra.NoArgs,
		RunE:  runCubic,
	}
	cubicCmd.Flags().IntVar(&iters, "iters", 10, "number of newton updates")
	cubicCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for the initial guess (default: time based)")

	evalCmd := &cobra.Command{
		Use:   "eval X [coefficients...]",
		Short: "evaluate a polynomial at X",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return evaluate(args, poly.Eval)
		},
	}
	evalCmd.Flags().StringVar(&coeffs, "coeffs", "", "coefficients, constant term first")

	derivCmd := &cobra.Command{
		Use:   "deriv X [coefficients...]",
		Short: "evaluate the first derivative of a polynomial at X",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return evaluate(args, poly.Deriv)
		},
	}
	derivCmd.Flags().StringVar(&coeffs, "coeffs", "", "coefficients, constant term first")

	multiCmd := &cobra.Command{
		Use:   "multistart [coefficients...]",
		Short: "solve from many random starts in parallel",
		RunE:  multistart,
	}
	multiCmd.Flags().StringVar(&coeffs, "coeffs", "", "coefficients, constant term first")
	multiCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	multiCmd.Flags().IntVar(&iters, "iters", config.DefaultIterations, "number of newton updates per run")
	multiCmd.Flags().IntVar(&runs, "runs", 8, "number of runs")
	multiCmd.Flags().Int64Var(&seedStart, "seed-start", 1, "seed of the first run")
	multiCmd.Flags().IntVar(&parallel, "parallel", 4, "runs in flight at once (0 = unlimited)")

	stepCmd := &cobra.Command{
		Use:   "step [coefficients...]",
		Short: "step through the iteration interactively",
		RunE:  stepInteractive,
	}
	stepCmd.Flags().StringVar(&coeffs, "coeffs", "", "coefficients, constant term first")
	stepCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	stepCmd.Flags().IntVar(&iters, "iters", 0, "stop after this many updates (0 = no limit)")
	stepCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for the initial guess (default: time based)")
	stepCmd.Flags().Float64Var(&x0, "x0", 0, "initial guess (default: random in [0,1))")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run trace to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run and trace to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tPOLYNOMIAL\tITERS")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%d\n", name, cfg.Polynomial(), cfg.Iterations)
			}
			return w.Flush()
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench [preset]",
		Short: "benchmark the iteration loop",
		Args:  cobra.MaximumNArgs(1),
		RunE:  bench,
	}

	rootCmd.AddCommand(solveCmd, cubicCmd, evalCmd, derivCmd, multiCmd, stepCmd,
		listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, presetsCmd, benchCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func runDemo(cmd *cobra.Command, args []string) error {
	x, fx, err := newton.Iterate(config.DefaultIterations, poly.Polynomial(config.DefaultCoefficients))
	if err != nil {
		return err
	}
	fmt.Printf("(%v, %v)\n", x, fx)
	return nil
}

func resolveSeed(cmd *cobra.Command, fromConfig *int64) int64 {
	if cmd.Flags().Changed("seed") {
		return seed
	}
	if fromConfig != nil {
		return *fromConfig
	}
	return time.Now().UnixNano()
}

// polynomialFrom picks coefficients from --coeffs, then positional args,
// then the preset, then the defaults.
func polynomialFrom(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		fileCfg, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = fileCfg
	}

	if cmd.Flags().Changed("iters") {
		cfg.Iterations = iters
	}

	switch {
	case coeffs != "":
		p, err := poly.Parse(coeffs)
		if err != nil {
			return nil, err
		}
		cfg.Coefficients = p
		cfg.Name = "poly"
	case len(args) > 0:
		p, err := poly.ParseArgs(args)
		if err != nil {
			return nil, err
		}
		cfg.Coefficients = p
		cfg.Name = "poly"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func logSteps(s *newton.Solver) {
	if !logger.IsVerbose() {
		return
	}
	s.AddObserver(newton.ObserverFunc(func(st newton.Step) {
		logger.Step(st.Index, st.X, st.FX, st.DFX, st.Next)
	}))
}

func solve(cmd *cobra.Command, args []string) error {
	cfg, err := polynomialFrom(cmd, args)
	if err != nil {
		return err
	}
	p := cfg.Polynomial()
	runSeed := resolveSeed(cmd, cfg.Seed)

	if configFile != "" {
		if !cmd.Flags().Changed("store") && cfg.Store.Backend != "" {
			storeBackend = cfg.Store.Backend
		}
		if !cmd.Flags().Changed("data") && cfg.Store.DataDir != "" {
			dataDir = cfg.Store.DataDir
		}
	}

	logger.Section("Solve")
	logger.Info("polynomial: %s", p)
	logger.Info("iterations: %d, seed: %d", cfg.Iterations, runSeed)

	s := newton.New(runSeed)
	s.Record(save || plot || trace || summary)
	logSteps(s)

	res, err := s.Solve(cmd.Context(), cfg.Iterations, p)
	if err != nil {
		return fmt.Errorf("solve %s: %w", p, err)
	}

	fmt.Printf("(%v, %v)\n", res.X, res.FX)

	if summary {
		fmt.Println(viz.Summary(cfg.Name, p, res))
	}

	if trace {
		if err := storage.WriteTraceCSV(os.Stdout, res.Steps); err != nil {
			return err
		}
	}

	if plot {
		printPlots(res.Steps)
	}

	if save {
		st, err := storage.Open(storeBackend, dataDir)
		if err != nil {
			return err
		}
		defer st.Close()

		runID, err := st.Save(cmd.Context(), cfg.Name, p, res)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", runID)
	}

	return nil
}

func runCubic(cmd *cobra.Command, args []string) error {
	n := 10
	if cmd.Flags().Changed("iters") {
		n = iters
	}

	if !cmd.Flags().Changed("seed") {
		x, fx, err := newton.Iterate(n, newton.Cubic())
		if err != nil {
			return err
		}
		fmt.Printf("(%v, %v)\n", x, fx)
		return nil
	}

	s := newton.New(seed)
	logSteps(s)
	res, err := s.Solve(cmd.Context(), n, newton.Cubic())
	if err != nil {
		return err
	}
	fmt.Printf("(%v, %v)\n", res.X, res.FX)
	return nil
}

func evaluate(args []string, fn func(float64, poly.Polynomial) float64) error {
	x, err := poly.Parse(args[0])
	if err != nil || len(x) != 1 {
		return fmt.Errorf("invalid point: %s", args[0])
	}

	var p poly.Polynomial
	if coeffs != "" {
		p, err = poly.Parse(coeffs)
	} else {
		p, err = poly.ParseArgs(args[1:])
	}
	if err != nil {
		return err
	}

	fmt.Println(fn(x[0], p))
	return nil
}

func multistart(cmd *cobra.Command, args []string) error {
	cfg, err := polynomialFrom(cmd, args)
	if err != nil {
		return err
	}
	p := cfg.Polynomial()

	e := newton.NewEnsemble(runs, seedStart)
	e.SetLimit(parallel)

	logger.Section("Multistart")
	logger.Info("%d runs of %d iterations on %s", runs, cfg.Iterations, p)

	start := time.Now()
	results, errs, err := e.Run(cmd.Context(), cfg.Iterations, p)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("multistart %s (%d runs, %d iterations)\n\n", p, runs, cfg.Iterations)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tX0\tX\tF(X)\tSTATUS")

	roots := make([]float64, 0)
	for i, res := range results {
		status := "ok"
		if errs[i] != nil {
			status = errs[i].Error()
		} else {
			roots = addRoot(roots, res.X)
		}
		if res == nil {
			fmt.Fprintf(w, "%d\t-\t-\t-\t%s\n", seedStart+int64(i), status)
			continue
		}
		fmt.Fprintf(w, "%d\t%.6f\t%.12g\t%.3e\t%s\n", res.Seed, res.Initial, res.X, res.FX, status)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\ndistinct roots: %v\n", roots)
	fmt.Printf("completed in %v\n", elapsed)
	return nil
}

// addRoot appends x unless an existing root is within 1e-6 of it.
func addRoot(roots []float64, x float64) []float64 {
	for _, r := range roots {
		if d := r - x; d < 1e-6 && d > -1e-6 {
			return roots
		}
	}
	return append(roots, x)
}

func stepInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := polynomialFrom(cmd, args)
	if err != nil {
		return err
	}
	p := cfg.Polynomial()

	maxIters := 0
	if cmd.Flags().Changed("iters") || preset != "" {
		maxIters = cfg.Iterations
	}

	start := x0
	if !cmd.Flags().Changed("x0") {
		res, err := newton.New(resolveSeed(cmd, cfg.Seed)).Solve(cmd.Context(), 0, p)
		if err != nil {
			return err
		}
		start = res.Initial
	}

	m := viz.NewStepper(p, p.String(), start, maxIters)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}

	if st, ok := final.(viz.Stepper); ok {
		fmt.Printf("(%v, %v)\n", st.X(), p.Value(st.X()))
		return st.Err()
	}
	return nil
}

func printPlots(steps []newton.Step) {
	if len(steps) == 0 {
		fmt.Println("no steps to plot")
		return
	}
	width := viz.TerminalWidth()
	fmt.Println()
	fmt.Println(viz.IteratePlot(steps, width))
	fmt.Println()
	fmt.Println(viz.ResidualPlot(steps, width))
	fmt.Println()
}

func openStore() (storage.Store, error) {
	logger.Debug("opening %s store in %s", storeBackend, dataDir)
	return storage.Open(storeBackend, dataDir)
}

func listRuns(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	runs, err := st.List(cmd.Context())
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPOLYNOMIAL\tTIME\tITERS\tX\tF(X)")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.12g\t%.3e\n",
			run.ID,
			run.Polynomial(),
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Iterations,
			run.X,
			run.FX,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	meta, err := st.Load(cmd.Context(), runID)
	if err != nil {
		return err
	}

	steps, err := st.LoadTrace(cmd.Context(), runID)
	if err != nil {
		return err
	}

	res := &newton.Result{
		Seed:       meta.Seed,
		Initial:    meta.Initial,
		X:          meta.X,
		FX:         meta.FX,
		Iterations: meta.Iterations,
		Steps:      steps,
	}

	fmt.Println(viz.Summary(meta.ID, meta.Polynomial(), res))
	printPlots(steps)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	meta, err := st.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, meta, nil)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	steps, err := st.LoadTrace(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if len(steps) == 0 {
		return fmt.Errorf("no trace to export (save with --save to record steps)")
	}

	return storage.WriteTraceCSV(os.Stdout, steps)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	meta, err := st.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	steps, err := st.LoadTrace(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	return storage.ExportJSON(os.Stdout, meta, steps)
}

func bench(cmd *cobra.Command, args []string) error {
	name := "quadratic"
	if len(args) > 0 {
		name = args[0]
	}
	cfg := config.GetPreset(name)
	if cfg == nil {
		return fmt.Errorf("unknown preset: %s (available: %s)", name, strings.Join(config.ListPresets(), ", "))
	}
	p := cfg.Polynomial()

	fmt.Printf("benchmarking %s (%s)\n\n", name, p)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ITERS\tTIME\tITERS/SEC\tF(X)")

	for _, n := range []int{10, 100, 1000, 10000, 100000} {
		s := newton.New(42)

		start := time.Now()
		res, err := s.Solve(cmd.Context(), n, p)
		if err != nil {
			return err
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%d\t%v\t%.0f\t%.3e\n", n, elapsed, float64(n)/elapsed.Seconds(), res.FX)
	}

	return w.Flush()
}
