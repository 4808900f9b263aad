package progress

import (
	"errors"
	"time"
)

// ErrNoActiveIteration is returned by StartStep when no iteration has been
// started. It signals a caller bug in the dispatch logic, not a user error.
var ErrNoActiveIteration = errors.New("no active iteration: call StartIteration first")

// Tracker owns the full iteration history for a single loop execution.
// A new Tracker is constructed per loop invocation and mutated only through
// its own methods. It is not safe for concurrent use; loop execution is
// single-threaded.
type Tracker struct {
	loopName   string
	iterations []*Iteration
	startTime  time.Time
	current    *Iteration

	now func() time.Time
}

// NewTracker creates a tracker for one execution of the named loop.
// loopName is the display name used in rendered output.
func NewTracker(loopName string) *Tracker {
	return &Tracker{
		loopName: loopName,
		now:      time.Now,
	}
}

// LoopName returns the display name the tracker was constructed with.
func (t *Tracker) LoopName() string { return t.loopName }

// StartLoop records the wall-clock start of the loop. Calling it again
// resets the start time.
func (t *Tracker) StartLoop() {
	t.startTime = t.now()
}

// StartIteration begins a new iteration and makes it current. Iteration
// numbers are tracker-owned and sequential starting at 1.
func (t *Tracker) StartIteration() *Iteration {
	it := &Iteration{
		Number:    len(t.iterations) + 1,
		StartTime: t.now(),
	}
	t.iterations = append(t.iterations, it)
	t.current = it
	return it
}

// StartStep appends a running step to the current iteration and returns it.
// Returns ErrNoActiveIteration if no iteration has been started.
func (t *Tracker) StartStep(name, agent string, isRevision bool) (*Step, error) {
	if t.current == nil {
		return nil, ErrNoActiveIteration
	}
	step := &Step{
		Name:       name,
		Agent:      agent,
		IsRevision: isRevision,
		StartTime:  t.now(),
	}
	t.current.Steps = append(t.current.Steps, step)
	return step, nil
}

// CompleteStep marks a step as finished successfully.
func (t *Tracker) CompleteStep(step *Step) {
	step.EndTime = t.now()
}

// BlockStep marks a step as blocked with the given issues. A blocked step
// is finished, just unsuccessfully, so its end time is set too.
func (t *Tracker) BlockStep(step *Step, issues []string) {
	step.Blocked = true
	step.BlockingIssues = issues
	step.EndTime = t.now()
}

// RecordShowrunnerDecision attaches a rationale to the current iteration.
// No-op if no iteration has been started.
func (t *Tracker) RecordShowrunnerDecision(decision string) {
	if t.current != nil {
		t.current.ShowrunnerDecision = decision
	}
}

// CompleteIteration closes the current iteration. The iteration stays
// current until a new one is started, so a later MarkStabilized or
// RecordShowrunnerDecision still applies to it.
func (t *Tracker) CompleteIteration() {
	if t.current != nil {
		t.current.EndTime = t.now()
	}
}

// MarkStabilized flags the current iteration as having reached stability
// and closes it.
func (t *Tracker) MarkStabilized() {
	if t.current != nil {
		t.current.Stabilized = true
		t.current.EndTime = t.now()
	}
}

// Iterations returns the iteration history in start order.
func (t *Tracker) Iterations() []*Iteration { return t.iterations }

// CurrentIteration returns the most recently started iteration, or nil.
func (t *Tracker) CurrentIteration() *Iteration { return t.current }

// TotalDuration is the time from StartLoop to now, or 0 if the loop has not
// been started.
func (t *Tracker) TotalDuration() time.Duration {
	if t.startTime.IsZero() {
		return 0
	}
	return t.now().Sub(t.startTime)
}

// IsMultiIteration reports whether more than one iteration was needed.
func (t *Tracker) IsMultiIteration() bool {
	return len(t.iterations) > 1
}

// Stabilized reports whether the current iteration reached stability.
// This reflects only the most recent iteration, not any earlier one.
func (t *Tracker) Stabilized() bool {
	if t.current != nil {
		return t.current.Stabilized
	}
	return false
}
