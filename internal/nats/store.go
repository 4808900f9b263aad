package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"
)

// Subject pattern constants and helpers
const (
	streamName = "qf_events"

	// Event types
	EventTypeRun       = "run"
	EventTypeIteration = "iteration"
	EventTypeStep      = "step"
)

// SubjectForProject returns the wildcard subject pattern for all events in a
// project. Example: "qf.midnight-garden.>"
func SubjectForProject(project string) string {
	return fmt.Sprintf("qf.%s.>", project)
}

// SubjectForEvent returns the specific subject for an event type in a
// project. Example: "qf.midnight-garden.run"
func SubjectForEvent(project, eventType string) string {
	return fmt.Sprintf("qf.%s.%s", project, eventType)
}

// SetupStream creates or updates the JetStream stream for qf run events.
// The stream captures all events for all projects with 90-day retention;
// run history older than that ages out of `qf history`.
func SetupStream(ctx context.Context, js jetstream.JetStream) (jetstream.Stream, error) {
	return js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     streamName,
		Subjects: []string{"qf.>"},
		Storage:  jetstream.FileStorage,
		MaxAge:   90 * 24 * time.Hour,
	})
}
