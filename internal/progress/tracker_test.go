package progress

import (
	"errors"
	"testing"
	"time"
)

// fakeClock returns a now func that advances by step on every call.
func fakeClock(start time.Time, step time.Duration) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(step)
		return t
	}
}

func TestStepStatus(t *testing.T) {
	now := time.Now()

	t.Run("pending before start", func(t *testing.T) {
		step := &Step{Name: "Draft"}
		if got := step.Status(); got != StatusPending {
			t.Errorf("expected pending, got %s", got)
		}
	})

	t.Run("running after start", func(t *testing.T) {
		step := &Step{Name: "Draft", StartTime: now}
		if got := step.Status(); got != StatusRunning {
			t.Errorf("expected running, got %s", got)
		}
	})

	t.Run("completed after end", func(t *testing.T) {
		step := &Step{Name: "Draft", StartTime: now, EndTime: now.Add(time.Second)}
		if got := step.Status(); got != StatusCompleted {
			t.Errorf("expected completed, got %s", got)
		}
	})

	t.Run("blocked wins over completed", func(t *testing.T) {
		step := &Step{Name: "Draft", StartTime: now, EndTime: now.Add(time.Second), Blocked: true}
		if got := step.Status(); got != StatusBlocked {
			t.Errorf("expected blocked, got %s", got)
		}
	})

	t.Run("duration is zero until finished", func(t *testing.T) {
		step := &Step{Name: "Draft", StartTime: now}
		if got := step.Duration(); got != 0 {
			t.Errorf("expected zero duration for running step, got %v", got)
		}
	})
}

func TestStartStepRequiresIteration(t *testing.T) {
	tracker := NewTracker("Story Spark")
	tracker.StartLoop()

	_, err := tracker.StartStep("Seed Intake", "Showrunner", false)
	if !errors.Is(err, ErrNoActiveIteration) {
		t.Fatalf("expected ErrNoActiveIteration, got %v", err)
	}
}

func TestIterationNumbering(t *testing.T) {
	tracker := NewTracker("Gatecheck")
	tracker.StartLoop()

	for want := 1; want <= 3; want++ {
		it := tracker.StartIteration()
		if it.Number != want {
			t.Errorf("expected iteration number %d, got %d", want, it.Number)
		}
		tracker.CompleteIteration()
	}

	if len(tracker.Iterations()) != 3 {
		t.Errorf("expected 3 iterations, got %d", len(tracker.Iterations()))
	}
}

func TestSingleCleanPass(t *testing.T) {
	tracker := NewTracker("Story Spark")
	tracker.now = fakeClock(time.Now(), time.Second)
	tracker.StartLoop()
	tracker.StartIteration()

	for _, name := range []string{"Seed Intake", "Premise Draft", "Hook Sketch"} {
		step, err := tracker.StartStep(name, "Scene Smith", false)
		if err != nil {
			t.Fatalf("StartStep failed: %v", err)
		}
		tracker.CompleteStep(step)
	}
	tracker.MarkStabilized()

	it := tracker.CurrentIteration()
	if it.CompletedSteps() != 3 {
		t.Errorf("expected 3 completed steps, got %d", it.CompletedSteps())
	}
	if it.BlockedSteps() != 0 {
		t.Errorf("expected 0 blocked steps, got %d", it.BlockedSteps())
	}
	if it.RevisedSteps() != 0 {
		t.Errorf("expected 0 revised steps, got %d", it.RevisedSteps())
	}
	if it.FirstPassSteps() != 3 {
		t.Errorf("expected 3 first-pass steps, got %d", it.FirstPassSteps())
	}
	if !tracker.Stabilized() {
		t.Error("expected tracker stabilized")
	}
	if tracker.IsMultiIteration() {
		t.Error("single iteration should not report multi-iteration")
	}
	if tracker.TotalDuration() <= 0 {
		t.Error("expected positive total duration after StartLoop")
	}

	s := tracker.Summary()
	if s.LoopName != "Story Spark" {
		t.Errorf("unexpected loop name %q", s.LoopName)
	}
	if s.IterationCount != 1 || s.TotalSteps != 3 {
		t.Errorf("unexpected summary counts: %+v", s)
	}
	if !s.Stabilized || s.IsMultiIteration {
		t.Errorf("unexpected summary flags: %+v", s)
	}
}

func TestBlockAndReviseCycle(t *testing.T) {
	tracker := NewTracker("Gatecheck")
	tracker.now = fakeClock(time.Now(), time.Second)
	tracker.StartLoop()

	// First pass: two clean steps, then the gate blocks.
	tracker.StartIteration()
	for _, name := range []string{"Gate Setup", "Consistency Sweep"} {
		step, err := tracker.StartStep(name, "Lore Weaver", false)
		if err != nil {
			t.Fatalf("StartStep failed: %v", err)
		}
		tracker.CompleteStep(step)
	}
	gate, err := tracker.StartStep("Quality Gate", "Showrunner", false)
	if err != nil {
		t.Fatalf("StartStep failed: %v", err)
	}
	tracker.BlockStep(gate, []string{"Canon references unresolved"})
	tracker.RecordShowrunnerDecision("Revise the sweep and re-run the gate")
	tracker.CompleteIteration()

	if tracker.Stabilized() {
		t.Error("blocked iteration should not be stabilized")
	}

	// Second pass: one revision, then the gate passes.
	tracker.StartIteration()
	sweep, err := tracker.StartStep("Consistency Sweep", "Lore Weaver", true)
	if err != nil {
		t.Fatalf("StartStep failed: %v", err)
	}
	tracker.CompleteStep(sweep)
	gate, err = tracker.StartStep("Quality Gate", "Showrunner", false)
	if err != nil {
		t.Fatalf("StartStep failed: %v", err)
	}
	tracker.CompleteStep(gate)
	tracker.MarkStabilized()

	first := tracker.Iterations()[0]
	if first.BlockedSteps() != 1 || first.CompletedSteps() != 2 {
		t.Errorf("unexpected first pass counts: %d blocked, %d completed",
			first.BlockedSteps(), first.CompletedSteps())
	}
	if first.ShowrunnerDecision == "" {
		t.Error("expected showrunner decision on first iteration")
	}
	if first.Stabilized {
		t.Error("first iteration should stay unstabilized")
	}

	if !tracker.Stabilized() {
		t.Error("expected tracker stabilized after second pass")
	}
	if !tracker.IsMultiIteration() {
		t.Error("expected multi-iteration run")
	}

	s := tracker.Summary()
	if s.TotalSteps != 5 {
		t.Errorf("expected 5 total steps, got %d", s.TotalSteps)
	}
	if s.TotalRevisedSteps() != 1 {
		t.Errorf("expected 1 revised step, got %d", s.TotalRevisedSteps())
	}
	if got := s.ReuseEfficiency(); got != 80 {
		t.Errorf("expected 80%% reuse efficiency, got %v", got)
	}
}

func TestStabilizedReflectsCurrentIterationOnly(t *testing.T) {
	tracker := NewTracker("Lore Deepening")
	tracker.StartLoop()

	tracker.StartIteration()
	tracker.MarkStabilized()
	if !tracker.Stabilized() {
		t.Fatal("expected stabilized after first pass")
	}

	// A new iteration resets stability until it stabilizes itself.
	tracker.StartIteration()
	if tracker.Stabilized() {
		t.Error("new iteration should not inherit stabilization")
	}
}

func TestReuseEfficiencyNoSteps(t *testing.T) {
	tracker := NewTracker("Audio Pass")
	s := tracker.Summary()
	if got := s.ReuseEfficiency(); got != 0 {
		t.Errorf("expected 0 efficiency with no steps, got %v", got)
	}
}

func TestTotalDurationBeforeStart(t *testing.T) {
	tracker := NewTracker("Audio Pass")
	if got := tracker.TotalDuration(); got != 0 {
		t.Errorf("expected zero duration before StartLoop, got %v", got)
	}
}
