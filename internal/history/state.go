package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/questfoundry/qf/internal/logger"
	"github.com/questfoundry/qf/internal/nats"
)

// IterationRecord is the reduced view of one iteration within a past run.
type IterationRecord struct {
	Number         int    `json:"number"`
	CompletedSteps int    `json:"completed_steps"`
	BlockedSteps   int    `json:"blocked_steps"`
	RevisedSteps   int    `json:"revised_steps"`
	Stabilized     bool   `json:"stabilized"`
	Decision       string `json:"decision,omitempty"`
}

// RunRecord is the reduced view of one loop run.
type RunRecord struct {
	ID         string             `json:"id"`
	LoopID     string             `json:"loop_id"`
	LoopName   string             `json:"loop_name"`
	StartedAt  time.Time          `json:"started_at"`
	EndedAt    time.Time          `json:"ended_at,omitempty"`
	Duration   float64            `json:"duration"`
	Stabilized bool               `json:"stabilized"`
	Complete   bool               `json:"complete"`
	Failed     bool               `json:"failed,omitempty"`
	Iterations []*IterationRecord `json:"iterations"`
}

// TotalSteps sums finished steps across all iterations of the run.
func (r *RunRecord) TotalSteps() int {
	n := 0
	for _, it := range r.Iterations {
		n += it.CompletedSteps + it.BlockedSteps
	}
	return n
}

// State is the run history of one project, reconstructed from events.
type State struct {
	Project string       `json:"project"`
	Runs    []*RunRecord `json:"runs"`

	byID map[string]*RunRecord
}

// Apply applies an event to the state, implementing the reduce pattern.
func (st *State) Apply(event Event) {
	switch event.Type {
	case nats.EventTypeRun:
		st.applyRunEvent(event)
	case nats.EventTypeIteration:
		st.applyIterationEvent(event)
	case nats.EventTypeStep:
		st.applyStepEvent(event)
	}
}

func (st *State) applyRunEvent(event Event) {
	switch event.Action {
	case "start":
		var meta runStartMeta
		json.Unmarshal(event.Meta, &meta)

		run := &RunRecord{
			ID:        event.RunID,
			LoopID:    meta.LoopID,
			LoopName:  meta.LoopName,
			StartedAt: event.Timestamp,
		}
		st.Runs = append(st.Runs, run)
		st.byID[event.RunID] = run

	case "complete":
		var meta runCompleteMeta
		json.Unmarshal(event.Meta, &meta)

		if run, exists := st.byID[event.RunID]; exists {
			run.EndedAt = event.Timestamp
			run.Duration = meta.Duration
			run.Stabilized = meta.Stabilized
			run.Failed = meta.Failed
			run.Complete = true
		}
	}
}

func (st *State) applyIterationEvent(event Event) {
	run, exists := st.byID[event.RunID]
	if !exists {
		return
	}

	switch event.Action {
	case "start":
		var meta iterationStartMeta
		json.Unmarshal(event.Meta, &meta)
		run.Iterations = append(run.Iterations, &IterationRecord{Number: meta.Number})

	case "complete":
		var meta iterationCompleteMeta
		json.Unmarshal(event.Meta, &meta)
		if it := run.iteration(meta.Number); it != nil {
			it.Stabilized = meta.Stabilized
			it.Decision = meta.Decision
		}
	}
}

func (st *State) applyStepEvent(event Event) {
	run, exists := st.byID[event.RunID]
	if !exists {
		return
	}

	var meta stepMeta
	json.Unmarshal(event.Meta, &meta)

	it := run.iteration(meta.Iteration)
	if it == nil {
		return
	}

	switch event.Action {
	case "complete":
		it.CompletedSteps++
	case "blocked":
		it.BlockedSteps++
	}
	if meta.Revision {
		it.RevisedSteps++
	}
}

func (r *RunRecord) iteration(number int) *IterationRecord {
	for _, it := range r.Iterations {
		if it.Number == number {
			return it
		}
	}
	return nil
}

// LoadState reconstructs the run history of a project by reading and
// reducing all events from the JetStream event log.
func (s *Store) LoadState(ctx context.Context, project string) (*State, error) {
	logger.Debug("Loading run history for project: %s", project)

	consumer, err := s.stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		FilterSubject: nats.SubjectForProject(project),
		DeliverPolicy: jetstream.DeliverAllPolicy, // Start from beginning
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	if err != nil {
		logger.Error("Failed to create consumer for project %s: %v", project, err)
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	state := &State{
		Project: project,
		byID:    make(map[string]*RunRecord),
	}

	// Fetch events in batches and reduce into state.
	const batchSize = 1000
	malformedCount := 0
	for {
		msgs, err := consumer.FetchNoWait(batchSize)
		if err != nil {
			// No more messages or error - we've read everything
			break
		}

		msgCount := 0
		for msg := range msgs.Messages() {
			msgCount++
			var event Event
			if err := json.Unmarshal(msg.Data(), &event); err != nil {
				// Skip malformed events but acknowledge to prevent redelivery
				malformedCount++
				meta, _ := msg.Metadata()
				logger.Warn("Skipping malformed event (seq=%d): %v", meta.Sequence.Stream, err)
				msg.Ack()
				continue
			}

			if event.ID == "" {
				meta, _ := msg.Metadata()
				event.ID = fmt.Sprintf("%d", meta.Sequence.Stream)
			}

			state.Apply(event)
			msg.Ack()
		}

		if msgCount < batchSize {
			break
		}
	}

	if malformedCount > 0 {
		logger.Warn("Skipped %d malformed events while loading history", malformedCount)
		fmt.Fprintf(os.Stderr, "Warning: Skipped %d malformed events while loading history\n", malformedCount)
	}

	logger.Debug("History loaded: %d runs for project %s", len(state.Runs), project)

	return state, nil
}
