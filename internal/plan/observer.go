package plan

import (
	"log"
	"time"
)

// EventType identifies what happened.
type EventType string

const (
	EventPlanStarted   EventType = "plan.started"
	EventPlanCompleted EventType = "plan.completed"
	EventPlanFailed    EventType = "plan.failed"

	EventNodeStarted   EventType = "node.started"
	EventNodeSucceeded EventType = "node.succeeded"
	EventNodeFailed    EventType = "node.failed"
	EventNodeSkipped   EventType = "node.skipped"

	EventDestroyStarted   EventType = "destroy.started"
	EventDestroyCompleted EventType = "destroy.completed"
	EventNodeDestroyed    EventType = "node.destroyed"
	EventNodeDestroyError EventType = "node.destroy_error"
)

// Event is one progress notification emitted by the executor.
type Event struct {
	Type     EventType
	Plan     string
	Node     string
	Kind     Kind
	Cause    SkipCause
	Err      error
	Duration time.Duration

	// Total and Position describe the node's place in the plan listing,
	// letting renderers show "3/12" style progress.
	Total    int
	Position int
}

// Observer receives executor events. Implementations must be safe for
// concurrent use; parallel nodes report from their own goroutines.
type Observer interface {
	Observe(Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Event)

// Observe calls f.
func (f ObserverFunc) Observe(e Event) { f(e) }

// NopObserver discards all events.
type NopObserver struct{}

// Observe does nothing.
func (NopObserver) Observe(Event) {}

// ConsoleObserver renders events as log lines for non-interactive runs.
type ConsoleObserver struct{}

// Observe writes one line per event through the standard logger.
func (ConsoleObserver) Observe(e Event) {
	switch e.Type {
	case EventPlanStarted:
		log.Printf("plan %s: %d nodes", e.Plan, e.Total)
	case EventPlanCompleted:
		log.Printf("plan %s: completed in %s", e.Plan, e.Duration.Round(time.Millisecond))
	case EventPlanFailed:
		log.Printf("plan %s: failed: %v", e.Plan, e.Err)
	case EventNodeStarted:
		log.Printf("  [%d/%d] %s: running", e.Position, e.Total, e.Node)
	case EventNodeSucceeded:
		log.Printf("  [%d/%d] %s: ok (%s)", e.Position, e.Total, e.Node, e.Duration.Round(time.Millisecond))
	case EventNodeSkipped:
		log.Printf("  [%d/%d] %s: skipped (%s)", e.Position, e.Total, e.Node, e.Cause)
	case EventNodeFailed:
		log.Printf("  [%d/%d] %s: failed: %v", e.Position, e.Total, e.Node, e.Err)
	case EventDestroyStarted:
		log.Printf("destroy %s: %d nodes", e.Plan, e.Total)
	case EventDestroyCompleted:
		log.Printf("destroy %s: completed in %s", e.Plan, e.Duration.Round(time.Millisecond))
	case EventNodeDestroyed:
		log.Printf("  %s: torn down", e.Node)
	case EventNodeDestroyError:
		log.Printf("  %s: teardown failed (continuing): %v", e.Node, e.Err)
	}
}
