// Package history persists loop executions as an append-only event log in
// JetStream and reconstructs past runs from it for the history command.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/questfoundry/qf/internal/logger"
	"github.com/questfoundry/qf/internal/nats"
	"github.com/questfoundry/qf/internal/progress"
)

// Event is one entry in the run event log. Every state change of a loop run
// (run started, iteration started, step finished, run completed) is stored
// as an event; the current history is a reduction over all of them.
type Event struct {
	ID        string          `json:"id"`        // NATS message sequence ID
	Timestamp time.Time       `json:"timestamp"` // When the event occurred
	Project   string          `json:"project"`   // Project slug (subject token)
	RunID     string          `json:"run_id"`    // Loop run this event belongs to
	Type      string          `json:"type"`      // Event type: run, iteration, step
	Action    string          `json:"action"`    // start, complete, blocked, ...
	Meta      json.RawMessage `json:"meta"`      // Action-specific metadata
}

// Store manages run history through JetStream event sourcing.
type Store struct {
	js     jetstream.JetStream
	stream jetstream.Stream
}

// NewStore creates a new Store with the given JetStream context and stream.
func NewStore(js jetstream.JetStream, stream jetstream.Stream) *Store {
	return &Store{js: js, stream: stream}
}

// PublishEvent appends an event to the event log. Events are published to
// subjects following the pattern qf.{project}.{type}.
func (s *Store) PublishEvent(ctx context.Context, event Event) (*jetstream.PubAck, error) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Error("Failed to marshal event: %v", err)
		return nil, fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := nats.SubjectForEvent(event.Project, event.Type)

	logger.Debug("Publishing event: project=%s run=%s type=%s action=%s",
		event.Project, event.RunID, event.Type, event.Action)

	ack, err := s.js.Publish(ctx, subject, data)
	if err != nil {
		logger.Error("Failed to publish event to subject %s: %v", subject, err)
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}

	return ack, nil
}

type runStartMeta struct {
	LoopID   string `json:"loop_id"`
	LoopName string `json:"loop_name"`
}

type runCompleteMeta struct {
	Stabilized bool    `json:"stabilized"`
	Duration   float64 `json:"duration"`
	Failed     bool    `json:"failed,omitempty"`
}

type iterationStartMeta struct {
	Number int `json:"number"`
}

type iterationCompleteMeta struct {
	Number     int    `json:"number"`
	Stabilized bool   `json:"stabilized"`
	Decision   string `json:"decision,omitempty"`
}

type stepMeta struct {
	Iteration int      `json:"iteration"`
	Name      string   `json:"name"`
	Agent     string   `json:"agent"`
	Revision  bool     `json:"revision"`
	Issues    []string `json:"issues,omitempty"`
	Duration  float64  `json:"duration"`
}

// RunStart records the beginning of a loop run.
func (s *Store) RunStart(ctx context.Context, project, runID, loopID, loopName string) error {
	return s.publish(ctx, project, runID, nats.EventTypeRun, "start",
		runStartMeta{LoopID: loopID, LoopName: loopName})
}

// RunComplete records the end of a loop run. failed marks runs that were
// aborted by a delegated execution error.
func (s *Store) RunComplete(ctx context.Context, project, runID string, stabilized bool, duration time.Duration, failed bool) error {
	return s.publish(ctx, project, runID, nats.EventTypeRun, "complete",
		runCompleteMeta{Stabilized: stabilized, Duration: duration.Seconds(), Failed: failed})
}

// IterationStart records the start of an iteration within a run.
func (s *Store) IterationStart(ctx context.Context, project, runID string, number int) error {
	return s.publish(ctx, project, runID, nats.EventTypeIteration, "start",
		iterationStartMeta{Number: number})
}

// IterationComplete records an iteration closing, stabilized or not, along
// with any showrunner decision made during it.
func (s *Store) IterationComplete(ctx context.Context, project, runID string, number int, stabilized bool, decision string) error {
	return s.publish(ctx, project, runID, nats.EventTypeIteration, "complete",
		iterationCompleteMeta{Number: number, Stabilized: stabilized, Decision: decision})
}

// StepFinished records a finished step. The action distinguishes completed
// from blocked steps.
func (s *Store) StepFinished(ctx context.Context, project, runID string, iteration int, step *progress.Step) error {
	action := "complete"
	if step.Blocked {
		action = "blocked"
	}
	return s.publish(ctx, project, runID, nats.EventTypeStep, action, stepMeta{
		Iteration: iteration,
		Name:      step.Name,
		Agent:     step.Agent,
		Revision:  step.IsRevision,
		Issues:    step.BlockingIssues,
		Duration:  step.Duration().Seconds(),
	})
}

func (s *Store) publish(ctx context.Context, project, runID, eventType, action string, meta any) error {
	raw, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal event metadata: %w", err)
	}
	_, err = s.PublishEvent(ctx, Event{
		Project: project,
		RunID:   runID,
		Type:    eventType,
		Action:  action,
		Meta:    raw,
	})
	return err
}
