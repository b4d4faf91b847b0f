package executor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/weiihann/sqlbench/scenario"
)

// Conn is the abstract database boundary. Implementations execute one
// statement and report how many rows it returned or affected. Dialect
// specifics are passed through verbatim.
type Conn interface {
	Execute(ctx context.Context, statement string) (rows int64, err error)
}

// Options holds parameters for scenario execution.
type Options struct {
	// StatementTimeout bounds each statement execution. Zero means no
	// per-statement timeout.
	StatementTimeout time.Duration

	Logger *slog.Logger
}

// Executor runs scenarios against a single connection, one statement at a
// time. Schema and data mutations persist in the target database; the
// executor does not roll back. Callers that need isolation wrap the run in
// a transaction scope they manage themselves.
type Executor struct {
	conn   Conn
	opts   Options
	logger *slog.Logger
}

// New creates an Executor over the given connection.
func New(conn Conn, opts Options) *Executor {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Executor{conn: conn, opts: opts, logger: logger}
}

// Run executes one scenario: setup statements in order (fail-fast), the
// "before" statement under timing, remediation statements (fail-fast), and
// the "after" statement under timing. Statement errors are captured into
// the result rather than returned; the returned error is non-nil only for
// conditions fatal to the whole run (a lost connection or a cancelled
// context). Cancellation is checked between statements, never mid-statement.
func (e *Executor) Run(
	ctx context.Context,
	sc scenario.Scenario,
) (ComparisonResult, error) {
	result := ComparisonResult{
		ScenarioID: sc.ID,
		RunID:      uuid.NewString(),
		MinSpeedup: sc.MinSpeedup,
	}

	e.logger.Info("running scenario",
		slog.String("scenario", sc.ID),
		slog.Int("setup_statements", len(sc.Setup)),
		slog.Int("remediation_statements", len(sc.Remediation)),
	)

	for _, stmt := range sc.Setup {
		m, err := e.execute(ctx, sc.ID, RoleSetup, stmt)
		if err != nil {
			return result, err
		}

		if m.Errored() {
			result.fail(RoleSetup, ErrSetupFailed, m.Err)

			return result, nil
		}
	}

	before, err := e.execute(ctx, sc.ID, RoleBefore, sc.Before)
	if err != nil {
		return result, err
	}

	result.Before = before

	for _, stmt := range sc.Remediation {
		m, err := e.execute(ctx, sc.ID, RoleRemediation, stmt)
		if err != nil {
			return result, err
		}

		if m.Errored() {
			result.fail(RoleRemediation, ErrRemediationFailed, m.Err)

			return result, nil
		}
	}

	after, err := e.execute(ctx, sc.ID, RoleAfter, sc.After)
	if err != nil {
		return result, err
	}

	result.After = after
	result.finalize()

	e.logger.Info("scenario finished",
		slog.String("scenario", sc.ID),
		slog.Duration("before", result.Before.Elapsed),
		slog.Duration("after", result.After.Elapsed),
		slog.Bool("pass", result.Pass),
	)

	return result, nil
}

// execute runs a single statement under timing. The returned error is
// non-nil only for fatal conditions; everything else is captured in the
// Measurement.
func (e *Executor) execute(
	ctx context.Context,
	scenarioID string,
	role Role,
	stmt string,
) (Measurement, error) {
	if err := ctx.Err(); err != nil {
		return Measurement{}, fmt.Errorf("run cancelled: %w", err)
	}

	execCtx := ctx

	if e.opts.StatementTimeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, e.opts.StatementTimeout)
		defer cancel()
	}

	start := time.Now()
	rows, err := e.conn.Execute(execCtx, stmt)
	elapsed := time.Since(start)

	m := Measurement{
		ScenarioID: scenarioID,
		Role:       role,
		Statement:  stmt,
		Elapsed:    elapsed,
		Rows:       rows,
	}

	if err != nil {
		if errors.Is(err, ErrConnectionLost) {
			return m, fmt.Errorf("scenario %s %s: %w", scenarioID, role, err)
		}

		// A deadline on the statement context with a live parent means
		// the per-statement timeout fired.
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			err = fmt.Errorf("%w after %s: %v",
				ErrStatementTimeout, elapsed.Round(time.Millisecond), err)
		} else if ctx.Err() != nil {
			return m, fmt.Errorf("run cancelled: %w", ctx.Err())
		}

		m.Err = err.Error()

		e.logger.Warn("statement failed",
			slog.String("scenario", scenarioID),
			slog.String("role", string(role)),
			slog.String("error", m.Err),
		)
	}

	return m, nil
}

func (r *ComparisonResult) fail(stage Role, kind error, detail string) {
	r.Failed = true
	r.FailedStage = stage
	r.FailureErr = fmt.Sprintf("%v: %s", kind, detail)
}
