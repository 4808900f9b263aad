package progress

import "time"

// Iteration is one numbered pass within a loop execution. Steps are
// append-only and kept in execution order.
type Iteration struct {
	Number             int
	Steps              []*Step
	StartTime          time.Time
	EndTime            time.Time
	Stabilized         bool
	ShowrunnerDecision string
}

// Duration returns how long the iteration ran, or 0 if it has not finished.
func (it *Iteration) Duration() time.Duration {
	if it.StartTime.IsZero() || it.EndTime.IsZero() {
		return 0
	}
	return it.EndTime.Sub(it.StartTime)
}

// CompletedSteps counts steps whose derived status is completed.
func (it *Iteration) CompletedSteps() int {
	return it.countStatus(StatusCompleted)
}

// BlockedSteps counts steps whose derived status is blocked.
func (it *Iteration) BlockedSteps() int {
	return it.countStatus(StatusBlocked)
}

// RevisedSteps counts revision steps in this iteration.
func (it *Iteration) RevisedSteps() int {
	n := 0
	for _, s := range it.Steps {
		if s.IsRevision {
			n++
		}
	}
	return n
}

// FirstPassSteps counts non-revision steps in this iteration.
func (it *Iteration) FirstPassSteps() int {
	return len(it.Steps) - it.RevisedSteps()
}

func (it *Iteration) countStatus(status Status) int {
	n := 0
	for _, s := range it.Steps {
		if s.Status() == status {
			n++
		}
	}
	return n
}
