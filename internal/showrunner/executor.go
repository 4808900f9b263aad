// Package showrunner is the boundary to delegated loop execution. The real
// orchestration lives in the questfoundry engine; until that integration
// lands, the simulated executor scripts each loop's iterations and steps so
// the rest of the pipeline (tracking, history, rendering) runs end to end.
package showrunner

import (
	"context"
	"time"

	"github.com/questfoundry/qf/internal/progress"
)

// Request carries everything an executor needs for one loop run.
type Request struct {
	Project      string // Project slug, used as the history subject token
	RunID        string // Unique ID for this run
	LoopID       string // Canonical loop ID from the catalog
	Seed         string // Story seed, set only for seed-requiring loops
	WorkspaceDir string // Directory containing the .questfoundry workspace
}

// Recorder receives run events as execution progresses. The history store
// implements it; a nil Recorder disables persistence.
type Recorder interface {
	IterationStart(ctx context.Context, project, runID string, number int) error
	IterationComplete(ctx context.Context, project, runID string, number int, stabilized bool, decision string) error
	StepFinished(ctx context.Context, project, runID string, iteration int, step *progress.Step) error
}

// Executor runs one loop and drives the tracker through its iterations.
// Errors returned here are surfaced generically at the dispatch boundary.
type Executor interface {
	Execute(ctx context.Context, tracker *progress.Tracker, req Request) error
}

// StepDelay is the default pacing between simulated steps so live output
// reads as activity rather than a burst. Tests set it to zero.
const StepDelay = 150 * time.Millisecond
