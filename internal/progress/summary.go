package progress

// Summary is the stable snapshot the presentation layer (terminal output,
// JSON export, history store) consumes. Durations are in seconds.
type Summary struct {
	LoopName         string             `json:"loop_name"`
	IterationCount   int                `json:"iteration_count"`
	TotalSteps       int                `json:"total_steps"`
	TotalDuration    float64            `json:"total_duration"`
	IsMultiIteration bool               `json:"is_multi_iteration"`
	Stabilized       bool               `json:"stabilized"`
	Iterations       []IterationSummary `json:"iterations"`
}

// IterationSummary is the per-iteration breakdown inside a Summary.
type IterationSummary struct {
	Number             int     `json:"number"`
	CompletedSteps     int     `json:"completed_steps"`
	BlockedSteps       int     `json:"blocked_steps"`
	RevisedSteps       int     `json:"revised_steps"`
	FirstPassSteps     int     `json:"first_pass_steps"`
	Duration           float64 `json:"duration"`
	Stabilized         bool    `json:"stabilized"`
	ShowrunnerDecision string  `json:"showrunner_decision,omitempty"`
}

// Summary builds the snapshot for the tracker's current state. Calling it
// twice without intervening mutation yields structurally identical results
// except for TotalDuration, which is measured against the clock.
func (t *Tracker) Summary() Summary {
	totalSteps := 0
	iterations := make([]IterationSummary, 0, len(t.iterations))
	for _, it := range t.iterations {
		totalSteps += len(it.Steps)
		iterations = append(iterations, IterationSummary{
			Number:             it.Number,
			CompletedSteps:     it.CompletedSteps(),
			BlockedSteps:       it.BlockedSteps(),
			RevisedSteps:       it.RevisedSteps(),
			FirstPassSteps:     it.FirstPassSteps(),
			Duration:           it.Duration().Seconds(),
			Stabilized:         it.Stabilized,
			ShowrunnerDecision: it.ShowrunnerDecision,
		})
	}

	return Summary{
		LoopName:         t.loopName,
		IterationCount:   len(t.iterations),
		TotalSteps:       totalSteps,
		TotalDuration:    t.TotalDuration().Seconds(),
		IsMultiIteration: t.IsMultiIteration(),
		Stabilized:       t.Stabilized(),
		Iterations:       iterations,
	}
}

// TotalRevisedSteps sums revision steps across all iterations.
func (s Summary) TotalRevisedSteps() int {
	n := 0
	for _, it := range s.Iterations {
		n += it.RevisedSteps
	}
	return n
}

// ReuseEfficiency is the percentage of step executions that did not need a
// revision: (total - revised) / total * 100. Returns 0 when no steps ran.
func (s Summary) ReuseEfficiency() float64 {
	if s.TotalSteps == 0 {
		return 0
	}
	reused := s.TotalSteps - s.TotalRevisedSteps()
	return float64(reused) / float64(s.TotalSteps) * 100
}
