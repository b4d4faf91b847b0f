package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/weiihann/sqlbench/executor"
)

func passingResult(id string, before, after time.Duration) executor.ComparisonResult {
	r := executor.ComparisonResult{
		ScenarioID: id,
		RunID:      "run-" + id,
		Before: executor.Measurement{
			ScenarioID: id,
			Role:       executor.RoleBefore,
			Statement:  "SELECT before",
			Elapsed:    before,
		},
		After: executor.Measurement{
			ScenarioID: id,
			Role:       executor.RoleAfter,
			Statement:  "SELECT after",
			Elapsed:    after,
		},
		Speedup:      float64(before) / float64(after),
		SpeedupValid: true,
		Pass:         true,
	}

	return r
}

func TestRenderTable(t *testing.T) {
	b := NewBuilder()
	b.Add(passingResult("indexed", 100*time.Millisecond, 25*time.Millisecond))

	slow := passingResult("slow", 40*time.Millisecond, 30*time.Millisecond)
	slow.Pass = false
	b.Add(slow)

	failed := executor.ComparisonResult{
		ScenarioID:  "broken",
		Failed:      true,
		FailedStage: executor.RoleSetup,
		FailureErr:  "setup failed: table exists",
	}
	b.Add(failed)

	var buf bytes.Buffer
	if err := b.Render(&buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "| indexed | 100ms | 25ms | 4.00x | pass |") {
		t.Errorf("missing indexed row in:\n%s", output)
	}
	if !strings.Contains(output, "| slow | 40ms | 30ms | 1.33x | fail |") {
		t.Errorf("missing slow row in:\n%s", output)
	}
	if !strings.Contains(output, "| broken | - | - | n/a | FAILED(setup) |") {
		t.Errorf("missing broken row in:\n%s", output)
	}
	if !strings.Contains(output, "setup failed: table exists") {
		t.Errorf("missing failure detail in:\n%s", output)
	}
}

func TestRenderPreservesInsertionOrder(t *testing.T) {
	b := NewBuilder()

	// Deliberately not sorted by speedup.
	b.Add(passingResult("small-win", 20*time.Millisecond, 19*time.Millisecond))
	b.Add(passingResult("big-win", 500*time.Millisecond, 10*time.Millisecond))

	var buf bytes.Buffer
	if err := b.Render(&buf); err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	output := buf.String()
	if strings.Index(output, "small-win") > strings.Index(output, "big-win") {
		t.Error("rows reordered: small-win should render before big-win")
	}
}

func TestRenderDeterministic(t *testing.T) {
	b := NewBuilder()
	b.Add(passingResult("a", 80*time.Millisecond, 20*time.Millisecond))
	b.Add(passingResult("b", 3*time.Second, 500*time.Microsecond))

	var first, second bytes.Buffer
	if err := b.Render(&first); err != nil {
		t.Fatalf("first render: %v", err)
	}
	if err := b.Render(&second); err != nil {
		t.Fatalf("second render: %v", err)
	}

	if !bytes.Equal(first.Bytes(), second.Bytes()) {
		t.Error("re-rendering the same results is not byte-identical")
	}
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewBuilder().Render(&buf); err == nil {
		t.Error("expected error for empty report")
	}
	if err := NewBuilder().RenderJSON(&buf); err == nil {
		t.Error("expected error for empty JSON report")
	}
}

func TestRenderJSON(t *testing.T) {
	b := NewBuilder()
	b.Add(passingResult("a", 100*time.Millisecond, 50*time.Millisecond))

	undefined := executor.ComparisonResult{
		ScenarioID: "errored",
		After: executor.Measurement{
			ScenarioID: "errored",
			Role:       executor.RoleAfter,
			Statement:  "SELECT broken",
			Err:        "no such column",
		},
	}
	b.Add(undefined)

	var buf bytes.Buffer
	if err := b.RenderJSON(&buf); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	var parsed []executor.ComparisonResult
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	if len(parsed) != 2 {
		t.Fatalf("expected 2 results, got %d", len(parsed))
	}
	if !parsed[0].SpeedupValid || parsed[0].Speedup != 2.0 {
		t.Errorf("first result speedup = %v (valid=%v), want 2.0",
			parsed[0].Speedup, parsed[0].SpeedupValid)
	}
	if parsed[1].SpeedupValid {
		t.Error("errored result must report an undefined speedup")
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		input time.Duration
		want  string
	}{
		{500 * time.Microsecond, "500µs"},
		{time.Millisecond, "1ms"},
		{999 * time.Millisecond, "999ms"},
		{time.Second, "1.00s"},
		{1500 * time.Millisecond, "1.50s"},
		{90 * time.Second, "90.00s"},
	}

	for _, tt := range tests {
		got := formatDuration(tt.input)
		if got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
