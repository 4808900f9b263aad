package render

import (
	"strings"
	"testing"
	"time"

	"github.com/questfoundry/qf/internal/catalog"
	"github.com/questfoundry/qf/internal/progress"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0s"},
		{45 * time.Second, "45s"},
		{59 * time.Second, "59s"},
		{60 * time.Second, "1m 0s"},
		{154 * time.Second, "2m 34s"},
		{3600 * time.Second, "60m 0s"},
		{500 * time.Millisecond, "0s"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestSuggestNextLoop(t *testing.T) {
	tests := []struct {
		loopID string
		want   string
		ok     bool
	}{
		{"story-spark", "hook-harvest", true},
		{"hook-harvest", "lore-deepening", true},
		{"lore-deepening", "codex-expansion", true},
		{"codex-expansion", "style-tuneup", true},
		{"style-tuneup", "art-touchup", true},
		{"art-touchup", "binding-run", true},
		{"audio-pass", "binding-run", true},
		{"translation-pass", "binding-run", true},
		{"binding-run", "narration-dry-run", true},
		{"narration-dry-run", "gatecheck", true},
		{"gatecheck", "post-mortem", true},
		{"post-mortem", "archive-snapshot", true},
		{"archive-snapshot", "", false},
		{"no-such-loop", "", false},
	}
	for _, tt := range tests {
		got, ok := SuggestNextLoop(tt.loopID)
		if got != tt.want || ok != tt.ok {
			t.Errorf("SuggestNextLoop(%q) = (%q, %v), want (%q, %v)",
				tt.loopID, got, ok, tt.want, tt.ok)
		}
	}
}

func TestCatalogListing(t *testing.T) {
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}

	out := CatalogListing(cat)
	for _, l := range cat.Loops() {
		if !strings.Contains(out, l.ID) {
			t.Errorf("listing missing loop id %s", l.ID)
		}
	}
	for _, c := range catalog.Categories {
		if !strings.Contains(out, string(c)) {
			t.Errorf("listing missing category %s", c)
		}
	}
	if !strings.Contains(out, "qf run") {
		t.Error("listing missing usage hint")
	}
}

func TestUnknownLoop(t *testing.T) {
	cat, err := catalog.Load()
	if err != nil {
		t.Fatalf("loading catalog: %v", err)
	}

	out := UnknownLoop("storyspork", cat)
	if !strings.Contains(out, "storyspork") {
		t.Error("expected the bad input to be echoed")
	}
	for _, l := range cat.Loops() {
		if !strings.Contains(out, l.DisplayName) {
			t.Errorf("unknown-loop listing missing %s", l.DisplayName)
		}
	}
}

func TestIterationHistorySingleIterationEmpty(t *testing.T) {
	tracker := progress.NewTracker("Story Spark")
	tracker.StartLoop()
	tracker.StartIteration()
	step, _ := tracker.StartStep("Premise Draft", "Scene Smith", false)
	tracker.CompleteStep(step)
	tracker.MarkStabilized()

	if out := IterationHistory(tracker); out != "" {
		t.Errorf("expected empty history for single iteration, got %q", out)
	}
}

func TestIterationHistoryMultiIteration(t *testing.T) {
	tracker := progress.NewTracker("Gatecheck")
	tracker.StartLoop()

	tracker.StartIteration()
	gate, _ := tracker.StartStep("Quality Gate", "Showrunner", false)
	tracker.BlockStep(gate, []string{"unresolved canon reference"})
	tracker.RecordShowrunnerDecision("Revise and re-run the gate")
	tracker.CompleteIteration()

	tracker.StartIteration()
	redo, _ := tracker.StartStep("Quality Gate", "Showrunner", true)
	tracker.CompleteStep(redo)
	tracker.MarkStabilized()

	out := IterationHistory(tracker)
	for _, want := range []string{
		"Iteration 1",
		"Iteration 2",
		"Quality Gate",
		"unresolved canon reference",
		"Revise and re-run the gate",
		"Stabilized",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("history missing %q", want)
		}
	}
}

func TestEfficiencyMetricsGating(t *testing.T) {
	single := progress.Summary{IterationCount: 1, TotalSteps: 3}
	if out := EfficiencyMetrics(single); out != "" {
		t.Errorf("expected no metrics for single iteration, got %q", out)
	}

	multi := progress.Summary{
		IterationCount:   2,
		TotalSteps:       5,
		IsMultiIteration: true,
		Iterations: []progress.IterationSummary{
			{Number: 1, CompletedSteps: 2, BlockedSteps: 1},
			{Number: 2, CompletedSteps: 2, RevisedSteps: 1},
		},
	}
	out := EfficiencyMetrics(multi)
	for _, want := range []string{"Total step executions: 5", "Step revisions: 1", "80%"} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics missing %q in %q", want, out)
		}
	}
}

func TestStabilizationStatus(t *testing.T) {
	tracker := progress.NewTracker("Story Spark")
	tracker.StartLoop()
	tracker.StartIteration()
	tracker.MarkStabilized()

	if out := StabilizationStatus(tracker); !strings.Contains(out, "stabilized in 1 iteration") {
		t.Errorf("unexpected stabilization line %q", out)
	}

	unstable := progress.NewTracker("Gatecheck")
	unstable.StartLoop()
	unstable.StartIteration()
	unstable.CompleteIteration()
	if out := StabilizationStatus(unstable); !strings.Contains(out, "did not stabilize") {
		t.Errorf("unexpected stabilization line %q", out)
	}
}

func TestStepLineBlocked(t *testing.T) {
	now := time.Now()
	step := &progress.Step{
		Name:           "Quality Gate",
		Agent:          "Showrunner",
		StartTime:      now,
		EndTime:        now.Add(time.Second),
		Blocked:        true,
		BlockingIssues: []string{"contradicts established timeline"},
	}

	out := StepLine(step)
	for _, want := range []string{"Quality Gate", "Showrunner", "BLOCKED", "contradicts established timeline"} {
		if !strings.Contains(out, want) {
			t.Errorf("step line missing %q in %q", want, out)
		}
	}
}

func TestNextActionEndOfChain(t *testing.T) {
	if out := NextAction("archive-snapshot"); out != "" {
		t.Errorf("expected no suggestion after archive-snapshot, got %q", out)
	}
	if out := NextAction("gatecheck"); !strings.Contains(out, "qf run post-mortem") {
		t.Errorf("expected post-mortem suggestion, got %q", out)
	}
}
