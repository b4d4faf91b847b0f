// Package executor runs optimization scenarios against a live database
// connection, measuring wall-clock latency per statement.
package executor

import "time"

// Role identifies which part of a scenario a statement belongs to.
type Role string

// Statement roles within a scenario run.
const (
	RoleSetup       Role = "setup"
	RoleBefore      Role = "before"
	RoleRemediation Role = "remediation"
	RoleAfter       Role = "after"
)

// Measurement holds the timing and outcome of executing one statement.
// It is created once per executed statement and never mutated.
type Measurement struct {
	ScenarioID string        `json:"scenario_id"`
	Role       Role          `json:"role"`
	Statement  string        `json:"statement"`
	Elapsed    time.Duration `json:"elapsed_ns"`
	Rows       int64         `json:"rows"`
	Err        string        `json:"error,omitempty"`
}

// Errored reports whether the statement execution failed.
func (m Measurement) Errored() bool {
	return m.Err != ""
}

// ComparisonResult is the derived verdict for one scenario run. Speedup is
// defined only when both timed statements succeeded and the after
// measurement took nonzero time; otherwise SpeedupValid is false and
// Speedup must be ignored.
type ComparisonResult struct {
	ScenarioID   string      `json:"scenario_id"`
	RunID        string      `json:"run_id"`
	Before       Measurement `json:"before"`
	After        Measurement `json:"after"`
	Speedup      float64     `json:"speedup,omitempty"`
	SpeedupValid bool        `json:"speedup_valid"`
	MinSpeedup   float64     `json:"min_speedup,omitempty"`
	Pass         bool        `json:"pass"`

	// Failed is set when setup or remediation aborted the scenario.
	// Slow-but-successful scenarios have Failed=false and Pass=false.
	Failed      bool   `json:"failed"`
	FailedStage Role   `json:"failed_stage,omitempty"`
	FailureErr  string `json:"failure_error,omitempty"`
}

// finalize computes the speedup and pass verdict from the recorded
// measurements.
func (r *ComparisonResult) finalize() {
	if r.Failed {
		return
	}

	if r.Before.Errored() || r.After.Errored() || r.After.Elapsed <= 0 {
		return
	}

	r.Speedup = float64(r.Before.Elapsed) / float64(r.After.Elapsed)
	r.SpeedupValid = true
	r.Pass = r.MinSpeedup == 0 || r.Speedup >= r.MinSpeedup
}
