// Package main provides the CLI entry point for sqlbench, a before/after
// SQL optimization benchmarking tool.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "modernc.org/sqlite"

	"github.com/weiihann/sqlbench/executor"
	"github.com/weiihann/sqlbench/report"
	"github.com/weiihann/sqlbench/scenario"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	root := newRootCmd(logger)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "sqlbench",
		Short: "Before/after SQL optimization benchmarking tool",
		Long: `Sqlbench runs before/after SQL optimization scenarios against a live
database, measures per-statement wall-clock latency, and renders a
comparison report with speedup ratios and pass/fail verdicts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newRunCmd(logger))

	return root
}

func newRunCmd(logger *slog.Logger) *cobra.Command {
	var (
		catalogPath string
		driverName  string
		dsn         string
		timeout     time.Duration
		outputPath  string
		outputJSON  bool
		parallel    bool
		workers     int
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run optimization scenarios and report speedups",
		Long: `Load a scenario catalog (or the built-in one), execute each scenario
against the target database, and render a comparison report.

Scenarios run sequentially in catalog order by default. With --parallel,
independent scenarios run concurrently over isolated connections and the
ordering guarantee is dropped.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBench(cmd.Context(), logger, benchConfig{
				catalogPath: catalogPath,
				driverName:  driverName,
				dsn:         dsn,
				timeout:     timeout,
				outputPath:  outputPath,
				outputJSON:  outputJSON,
				parallel:    parallel,
				workers:     workers,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&catalogPath, "catalog", "",
		"Path to a YAML scenario catalog (default: built-in catalog)")
	flags.StringVar(&driverName, "driver", "sqlite",
		"Database driver: sqlite or duckdb")
	flags.StringVar(&dsn, "dsn", "",
		"Database DSN (default: a temporary database file)")
	flags.DurationVar(&timeout, "timeout", 5*time.Minute,
		"Per-statement timeout (0 = none)")
	flags.StringVar(&outputPath, "output", "",
		"Write the report to a file instead of stdout")
	flags.BoolVar(&outputJSON, "json", false,
		"Output results as JSON instead of a table")
	flags.BoolVar(&parallel, "parallel", false,
		"Run scenarios concurrently over isolated connections")
	flags.IntVar(&workers, "workers", 4,
		"Concurrent scenarios when --parallel is set")

	return cmd
}

type benchConfig struct {
	catalogPath string
	driverName  string
	dsn         string
	timeout     time.Duration
	outputPath  string
	outputJSON  bool
	parallel    bool
	workers     int
}

func runBench(
	ctx context.Context,
	logger *slog.Logger,
	cfg benchConfig,
) error {
	reg, err := loadRegistry(cfg.catalogPath)
	if err != nil {
		return err
	}

	dsn := cfg.dsn
	if dsn == "" && cfg.driverName == "sqlite" {
		dir, err := os.MkdirTemp("", "sqlbench-*")
		if err != nil {
			return fmt.Errorf("create temp dir: %w", err)
		}

		defer os.RemoveAll(dir)
		dsn = dir + "/bench.sqlite"
	}

	logger.InfoContext(ctx, "starting benchmark",
		slog.Int("scenarios", reg.Len()),
		slog.String("driver", cfg.driverName),
		slog.Bool("parallel", cfg.parallel),
	)

	opts := executor.Options{
		StatementTimeout: cfg.timeout,
		Logger:           logger,
	}

	var results []executor.ComparisonResult

	if cfg.parallel {
		results, err = runParallel(ctx, reg, cfg, dsn, opts)
	} else {
		results, err = runSequential(ctx, reg, cfg, dsn, opts)
	}

	if err != nil {
		return err
	}

	if err := writeReport(results, cfg); err != nil {
		return err
	}

	logger.InfoContext(ctx, "benchmark complete")

	return summarize(results)
}

func loadRegistry(catalogPath string) (*scenario.Registry, error) {
	if catalogPath == "" {
		return scenario.Builtin()
	}

	return scenario.LoadCatalogFile(catalogPath)
}

func runSequential(
	ctx context.Context,
	reg *scenario.Registry,
	cfg benchConfig,
	dsn string,
	opts executor.Options,
) ([]executor.ComparisonResult, error) {
	db, err := sql.Open(cfg.driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s database: %w", cfg.driverName, err)
	}
	defer db.Close()

	results, err := executor.New(executor.NewSQLConn(db), opts).RunAll(ctx, reg)
	if err != nil {
		return nil, fmt.Errorf("run scenarios: %w", err)
	}

	return results, nil
}

func runParallel(
	ctx context.Context,
	reg *scenario.Registry,
	cfg benchConfig,
	dsn string,
	opts executor.Options,
) ([]executor.ComparisonResult, error) {
	var scenarios []scenario.Scenario
	for sc := range reg.All() {
		scenarios = append(scenarios, sc)
	}

	factory := func(context.Context) (executor.Conn, func() error, error) {
		db, err := sql.Open(cfg.driverName, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf(
				"open %s database: %w", cfg.driverName, err,
			)
		}

		return executor.NewSQLConn(db), db.Close, nil
	}

	results, err := executor.RunParallel(
		ctx, scenarios, factory, cfg.workers, opts,
	)
	if err != nil {
		return nil, fmt.Errorf("run scenarios: %w", err)
	}

	return results, nil
}

func writeReport(results []executor.ComparisonResult, cfg benchConfig) error {
	var sink io.Writer = os.Stdout

	if cfg.outputPath != "" {
		f, err := os.Create(cfg.outputPath)
		if err != nil {
			return fmt.Errorf("create report file: %w", err)
		}
		defer f.Close()

		sink = f
	}

	builder := report.NewBuilder()
	for _, result := range results {
		builder.Add(result)
	}

	if cfg.outputJSON {
		if err := builder.RenderJSON(sink); err != nil {
			return fmt.Errorf("render JSON report: %w", err)
		}

		return nil
	}

	if err := builder.Render(sink); err != nil {
		return fmt.Errorf("render report: %w", err)
	}

	return nil
}

func summarize(results []executor.ComparisonResult) error {
	var failed int

	for _, r := range results {
		if r.Failed || !r.Pass {
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf(
			"%d of %d scenarios did not pass", failed, len(results),
		)
	}

	return nil
}
