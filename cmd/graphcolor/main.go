// Command graphcolor is the CLI entrypoint for the graph coloring solver:
// it reads an instance file, runs the requested algorithm, and writes the
// resulting coloring (certificate) and JSON result.
package main

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"
	"golang.org/x/xerrors"

	"github.com/graphcoloring/graphcolor/internal/certificate"
	"github.com/graphcoloring/graphcolor/internal/coloring"
	"github.com/graphcoloring/graphcolor/internal/coloring/dsatur"
	"github.com/graphcoloring/graphcolor/internal/config"
	"github.com/graphcoloring/graphcolor/internal/format"
	"github.com/graphcoloring/graphcolor/internal/graph"
	"github.com/graphcoloring/graphcolor/internal/output"
	"github.com/graphcoloring/graphcolor/internal/rowweighting"
	"github.com/graphcoloring/graphcolor/internal/solverstrategy"
)

var (
	appName = "graphcolor"
	appSha  = "populated-at-link-time"
	logger  *logrus.Entry
)

func main() {
	host, _ := os.Hostname()
	rootLogger := logrus.New()
	rootLogger.SetFormatter(new(logrus.JSONFormatter))
	logger = rootLogger.WithFields(logrus.Fields{
		"app":  appName,
		"sha":  appSha,
		"host": host,
	})

	if err := makeApp().Run(os.Args); err != nil {
		logger.WithField("err", err).Error("shutting down due to error")
		_ = os.Stderr.Sync()
		os.Exit(1)
	}
}

func makeApp() *cli.App {
	app := cli.NewApp()
	app.Name = appName
	app.Version = appSha
	app.Usage = "heuristic graph coloring solver"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "algorithm", Usage: "algorithm to run (required)"},
		cli.StringFlag{Name: "input", Usage: "instance file to read (required)"},
		cli.StringFlag{Name: "format", Value: "dimacs", Usage: "instance file format"},
		cli.StringFlag{Name: "output", Usage: "JSON result output file"},
		cli.StringFlag{Name: "certificate", Usage: "coloring certificate output file"},
		cli.StringFlag{Name: "initial-solution", Usage: "warm-start certificate file"},
		cli.StringFlag{Name: "config", Usage: "YAML config file mirroring the CLI flags"},
		cli.Float64Flag{Name: "time-limit", Usage: "time limit in seconds"},
		cli.Int64Flag{Name: "seed", Usage: "master RNG seed"},
		cli.IntFlag{Name: "verbosity-level", Value: 1, Usage: "log verbosity (0=error .. 3=debug)"},
		cli.StringFlag{Name: "log", Usage: "log output file"},
		cli.BoolFlag{Name: "log-to-stderr", Usage: "also log to stderr"},
		cli.BoolFlag{Name: "only-write-at-the-end", Usage: "skip writing output/certificate on every improvement"},
		cli.StringFlag{Name: "ordering", Value: "dynamiclargestfirst", Usage: "greedy vertex ordering"},
		cli.BoolFlag{Name: "reverse", Usage: "walk the static ordering back to front"},
		cli.IntFlag{Name: "num-workers", Value: 1, Usage: "number of row-weighting workers"},
		cli.Int64Flag{Name: "maximum-number-of-iterations", Usage: "iteration cap (0 = unlimited)"},
		cli.Int64Flag{Name: "maximum-number-of-iterations-without-improvement", Usage: "stall cap (0 = unlimited)"},
		cli.Int64Flag{Name: "maximum-number-of-improvements", Usage: "improvement cap (0 = unlimited)"},
		cli.IntFlag{Name: "goal", Usage: "stop once this many colors is reached (0 = no goal)"},
		cli.BoolFlag{Name: "disable-core-reduction", Usage: "turn off the k-core shrink/reinsert in row-weighting"},
	}
	app.Action = runMain
	return app
}

// runMain builds a Config from the CLI flags (overlaid onto --config, if
// given), then dispatches to the requested algorithm.
func runMain(appCtx *cli.Context) error {
	cfg, err := buildConfig(appCtx)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return xerrors.Errorf("invalid configuration: %w", err)
	}

	configureLogging(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.TimeLimit > 0 {
		var timeoutCancel context.CancelFunc
		ctx, timeoutCancel = context.WithTimeout(ctx, cfg.TimeLimit)
		defer timeoutCancel()
	}
	watchSignals(cancel)

	inFile, err := os.Open(cfg.Input)
	if err != nil {
		return xerrors.Errorf("opening input file: %w", err)
	}
	defer inFile.Close()

	formatName, err := format.ParseName(cfg.Format)
	if err != nil {
		return err
	}
	inst, err := format.Read(inFile, formatName)
	if err != nil {
		return xerrors.Errorf("reading instance: %w", err)
	}
	inst.SetName(cfg.Input)

	// Deduplicate before any Solution is built against the instance: edge
	// ids are renumbered, and the k-core reinsertion guarantee only holds
	// on a simple graph.
	if !cfg.DisableCoreReduction {
		inst.RemoveDuplicateEdges()
	}

	if cfg.InitialSolution != "" {
		sol, err := readInitialSolution(inst, cfg.InitialSolution)
		if err != nil {
			return err
		}
		cfg.SetInitialSolution(sol)
	}

	out := output.New(logger)
	defer func() { writeResults(out, inst, cfg) }()

	if !cfg.OnlyWriteAtEnd {
		out.SetOnSolution(func(output.Event) { writeResults(out, inst, cfg) })
	}

	if err := solve(ctx, inst, cfg, out); err != nil {
		return err
	}
	return nil
}

// solve dispatches cfg.Algorithm to the in-scope heuristic core or to a
// solverstrategy stub for the out-of-scope MILP/column-generation names.
func solve(ctx context.Context, inst *graph.Instance, cfg *config.Config, out *output.Output) error {
	switch cfg.Algorithm {
	case "greedy":
		ordering, err := dsatur.ParseOrdering(cfg.Ordering)
		if err != nil {
			return err
		}
		sol := dsatur.Greedy(inst, ordering, cfg.Reverse)
		out.UpdateSolution(sol, "greedy construction")
		return nil

	case "dsatur", "greedy-dsatur":
		sol := dsatur.Run(inst)
		out.UpdateSolution(sol, "dsatur construction")
		return nil

	case "local-search-row-weighting", "local-search-row-weighting-2":
		variant, err := rowweighting.ParseVariant(cfg.Algorithm)
		if err != nil {
			return err
		}
		params := rowweighting.Params{
			NumWorkers:                      cfg.NumWorkers,
			Variant:                         variant,
			MaxIterations:                   cfg.MaximumNumberOfIterations,
			MaxIterationsWithoutImprovement: cfg.MaximumNumberOfIterationsWithoutImprovement,
			MaxImprovements:                 cfg.MaximumNumberOfImprovements,
			Goal:                            cfg.Goal,
			EnableCoreReduction:             !cfg.DisableCoreReduction,
			Seed:                            cfg.Seed,
			InitialSolution:                 cfg.InitialSolutionValue(),
		}
		engine := rowweighting.NewEngine(inst, params)
		return engine.Run(ctx, out)

	default:
		strategy, ok := solverstrategy.Resolve(cfg.Algorithm)
		if ok {
			_, _, err := strategy.Solve(ctx, inst, cfg)
			return err
		}
		return xerrors.Errorf("unknown algorithm %q", cfg.Algorithm)
	}
}

// buildConfig overlays CLI flags on top of --config's YAML file, if given,
// so a batch run can fix most parameters in a file and override a few on
// the command line.
func buildConfig(appCtx *cli.Context) (*config.Config, error) {
	var cfg config.Config
	if path := appCtx.String("config"); path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, xerrors.Errorf("opening config file: %w", err)
		}
		defer f.Close()
		loaded, err := config.Load(f)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}

	if v := appCtx.String("algorithm"); v != "" {
		cfg.Algorithm = v
	}
	if v := appCtx.String("input"); v != "" {
		cfg.Input = v
	}
	if appCtx.IsSet("format") || cfg.Format == "" {
		cfg.Format = appCtx.String("format")
	}
	if v := appCtx.String("output"); v != "" {
		cfg.Output = v
	}
	if v := appCtx.String("certificate"); v != "" {
		cfg.Certificate = v
	}
	if v := appCtx.String("initial-solution"); v != "" {
		cfg.InitialSolution = v
	}
	if v := appCtx.Float64("time-limit"); v > 0 {
		cfg.TimeLimit = time.Duration(v * float64(time.Second))
	}
	if appCtx.IsSet("seed") {
		cfg.Seed = appCtx.Int64("seed")
	}
	if appCtx.IsSet("verbosity-level") || appCtx.String("config") == "" {
		cfg.VerbosityLevel = appCtx.Int("verbosity-level")
	}
	if v := appCtx.String("log"); v != "" {
		cfg.Log = v
	}
	if appCtx.Bool("log-to-stderr") {
		cfg.LogToStderr = true
	}
	if appCtx.Bool("only-write-at-the-end") {
		cfg.OnlyWriteAtEnd = true
	}
	if appCtx.IsSet("ordering") || cfg.Ordering == "" {
		cfg.Ordering = appCtx.String("ordering")
	}
	if appCtx.Bool("reverse") {
		cfg.Reverse = true
	}
	if appCtx.IsSet("num-workers") {
		cfg.NumWorkers = appCtx.Int("num-workers")
	}
	if appCtx.IsSet("maximum-number-of-iterations") {
		cfg.MaximumNumberOfIterations = appCtx.Int64("maximum-number-of-iterations")
	}
	if appCtx.IsSet("maximum-number-of-iterations-without-improvement") {
		cfg.MaximumNumberOfIterationsWithoutImprovement = appCtx.Int64("maximum-number-of-iterations-without-improvement")
	}
	if appCtx.IsSet("maximum-number-of-improvements") {
		cfg.MaximumNumberOfImprovements = appCtx.Int64("maximum-number-of-improvements")
	}
	if appCtx.IsSet("goal") {
		cfg.Goal = appCtx.Int("goal")
	}
	if appCtx.Bool("disable-core-reduction") {
		cfg.DisableCoreReduction = true
	}

	return &cfg, nil
}

func configureLogging(cfg *config.Config) {
	var writers []io.Writer
	if cfg.Log != "" {
		if f, err := os.OpenFile(cfg.Log, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err == nil {
			writers = append(writers, f)
		} else {
			logger.WithField("err", err).Warn("could not open log file, logging to stderr instead")
			writers = append(writers, os.Stderr)
		}
	}
	if cfg.LogToStderr || len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}
	logger.Logger.SetOutput(io.MultiWriter(writers...))

	switch {
	case cfg.VerbosityLevel <= 0:
		logger.Logger.SetLevel(logrus.ErrorLevel)
	case cfg.VerbosityLevel == 1:
		logger.Logger.SetLevel(logrus.WarnLevel)
	case cfg.VerbosityLevel == 2:
		logger.Logger.SetLevel(logrus.InfoLevel)
	default:
		logger.Logger.SetLevel(logrus.DebugLevel)
	}
}

// watchSignals flips the shared cancellation on SIGINT/SIGHUP so every
// row-weighting worker finishes its current iteration and joins.
func watchSignals(cancel context.CancelFunc) {
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGHUP)
		<-sigCh
		logger.Info("shutting down due to signal")
		cancel()
	}()
}

func readInitialSolution(inst *graph.Instance, path string) (*coloring.Solution, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, xerrors.Errorf("opening initial solution file: %w", err)
	}
	defer f.Close()

	colors, err := certificate.Read(f, inst.NumberOfVertices())
	if err != nil {
		return nil, xerrors.Errorf("reading initial solution: %w", err)
	}

	sol := coloring.NewSolution(inst)
	for v, c := range colors {
		sol.Set(v, c)
	}
	return sol, nil
}

// writeResults writes the JSON result and certificate files, if configured.
// Errors are logged rather than propagated: a write failure on an
// in-progress improvement must not abort the run.
func writeResults(out *output.Output, inst *graph.Instance, cfg *config.Config) {
	if cfg.Output != "" {
		report := out.BuildReport(inst)
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			logger.WithField("err", err).Error("marshaling JSON result")
			return
		}
		if err := os.WriteFile(cfg.Output, data, 0o644); err != nil {
			logger.WithField("err", err).Error("writing JSON result")
			return
		}
	}

	if cfg.Certificate != "" {
		best := out.Best()
		if best == nil {
			return
		}
		colors := make([]int, inst.NumberOfVertices())
		for v := range colors {
			colors[v] = best.Color(v)
		}
		f, err := os.Create(cfg.Certificate)
		if err != nil {
			logger.WithField("err", err).Error("creating certificate file")
			return
		}
		defer f.Close()
		if err := certificate.Write(f, colors); err != nil {
			logger.WithField("err", err).Error("writing certificate file")
		}
	}
}
