// Package report formats comparison results into deterministic tables.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/weiihann/sqlbench/executor"
)

// Builder collects comparison results in insertion order and renders them.
// Rendering the same results twice produces byte-identical output; rows
// are never reordered by speedup.
type Builder struct {
	results []executor.ComparisonResult
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a result. Call order determines row order.
func (b *Builder) Add(result executor.ComparisonResult) {
	b.results = append(b.results, result)
}

// Render writes a markdown comparison table. Failed scenarios are marked
// distinctly from slow-but-successful ones.
func (b *Builder) Render(w io.Writer) error {
	if len(b.results) == 0 {
		return fmt.Errorf("no results to report")
	}

	fmt.Fprintln(w, "## Benchmark Results")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "| Scenario | Before | After | Speedup | Status |")
	fmt.Fprintln(w, "|----------|--------|-------|---------|--------|")

	for _, r := range b.results {
		fmt.Fprintf(w, "| %s | %s | %s | %s | %s |\n",
			r.ScenarioID,
			formatMeasurement(r.Before),
			formatMeasurement(r.After),
			formatSpeedup(r),
			formatStatus(r),
		)
	}

	failures := failedResults(b.results)
	if len(failures) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Failures:")

		for _, r := range failures {
			fmt.Fprintf(w, "  - %s: %s\n", r.ScenarioID, r.FailureErr)
		}
	}

	return nil
}

// RenderJSON writes the results as an indented JSON record list.
func (b *Builder) RenderJSON(w io.Writer) error {
	if len(b.results) == 0 {
		return fmt.Errorf("no results to report")
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(b.results)
}

func failedResults(results []executor.ComparisonResult) []executor.ComparisonResult {
	var failed []executor.ComparisonResult

	for _, r := range results {
		if r.Failed {
			failed = append(failed, r)
		}
	}

	return failed
}

func formatMeasurement(m executor.Measurement) string {
	if m.Statement == "" {
		return "-"
	}

	if m.Errored() {
		return "error"
	}

	return formatDuration(m.Elapsed)
}

func formatSpeedup(r executor.ComparisonResult) string {
	if !r.SpeedupValid {
		return "n/a"
	}

	return fmt.Sprintf("%.2fx", r.Speedup)
}

func formatStatus(r executor.ComparisonResult) string {
	switch {
	case r.Failed:
		return fmt.Sprintf("FAILED(%s)", r.FailedStage)
	case r.Pass:
		return "pass"
	default:
		return "fail"
	}
}

func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}
