// Package progress tracks multi-iteration loop execution with step-level
// detail: first-pass vs revision steps, blocking issues, stabilization, and
// the summary statistics the presentation layer consumes.
package progress

import "time"

// Status is the derived execution state of a step.
type Status string

const (
	StatusPending   Status = "pending"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusBlocked   Status = "blocked"
)

// Step is a single step execution within an iteration. A step is created by
// Tracker.StartStep and finished by CompleteStep or BlockStep; it is never
// removed from its iteration.
type Step struct {
	Name           string
	Agent          string
	IsRevision     bool
	StartTime      time.Time
	EndTime        time.Time
	Blocked        bool
	BlockingIssues []string
}

// Duration returns how long the step ran, or 0 if it has not finished.
func (s *Step) Duration() time.Duration {
	if s.StartTime.IsZero() || s.EndTime.IsZero() {
		return 0
	}
	return s.EndTime.Sub(s.StartTime)
}

// Status derives the step state from its fields. Blocked wins over any end
// time; a blocked step never reports completed.
func (s *Step) Status() Status {
	switch {
	case s.Blocked:
		return StatusBlocked
	case !s.EndTime.IsZero():
		return StatusCompleted
	case !s.StartTime.IsZero():
		return StatusRunning
	default:
		return StatusPending
	}
}
