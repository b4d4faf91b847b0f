package executor

import "errors"

// Error kinds surfaced by scenario execution. Per-statement errors are
// captured into Measurements; only ErrConnectionLost (and context
// cancellation) aborts a batch run.
var (
	// ErrSetupFailed marks a scenario whose setup statements did not all
	// succeed. The scenario is recorded as failed and the batch continues.
	ErrSetupFailed = errors.New("setup failed")

	// ErrRemediationFailed marks a scenario whose remediation statements
	// did not all succeed.
	ErrRemediationFailed = errors.New("remediation failed")

	// ErrStatementTimeout marks a statement that exceeded the configured
	// per-statement timeout.
	ErrStatementTimeout = errors.New("statement timeout")

	// ErrUnsupportedFeature marks a dialect-specific statement the target
	// database rejected as unsupported.
	ErrUnsupportedFeature = errors.New("unsupported feature")

	// ErrConnectionLost marks a dead connection. It is fatal to the whole
	// run.
	ErrConnectionLost = errors.New("connection lost")
)
