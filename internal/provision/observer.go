package provision

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Observer receives structured events while the pipeline runs.
type Observer interface {
	// Printf logs a plain progress line.
	Printf(format string, v ...interface{})

	// Event emits a structured event.
	Event(event Event)
}

// Event represents a structured provisioning event.
type Event struct {
	Type      EventType
	Phase     string            // phase name (e.g. "user", "token")
	Message   string            // human-readable message
	Resource  string            // resource name/id if applicable
	Timestamp time.Time         // when the event occurred
	Fields    map[string]string // additional contextual fields
}

// EventType represents the type of provisioning event.
type EventType string

const (
	// EventPhaseStarted indicates a provisioning phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a provisioning phase completed successfully.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a provisioning phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventResourceCreated indicates a resource was created.
	EventResourceCreated EventType = "resource.created"
	// EventResourceExists indicates a resource already existed and was left as-is.
	EventResourceExists EventType = "resource.exists"
	// EventPhaseSkipped indicates a conditional phase had nothing to do.
	EventPhaseSkipped EventType = "phase.skipped"
)

// ConsoleObserver implements Observer using the standard log package.
type ConsoleObserver struct{}

// NewConsoleObserver creates a new console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{}
}

// Printf implements Observer.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	log.Print(formatEvent(event))
}

// formatEvent formats an event for console output.
func formatEvent(event Event) string {
	var parts []string
	parts = append(parts, string(event.Type))
	if event.Phase != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Phase))
	}
	if event.Resource != "" {
		parts = append(parts, fmt.Sprintf("resource=%s", event.Resource))
	}
	parts = append(parts, event.Message)
	if len(event.Fields) > 0 {
		var fieldParts []string
		for k, v := range event.Fields {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%s", k, v))
		}
		parts = append(parts, fmt.Sprintf("(%s)", strings.Join(fieldParts, ", ")))
	}
	return strings.Join(parts, " ")
}

// LogResourceCreated logs a successful resource creation event.
func LogResourceCreated(observer Observer, phase, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceCreated,
		Phase:    phase,
		Resource: resourceName,
		Message:  fmt.Sprintf("%s created", resourceType),
		Fields:   map[string]string{"type": resourceType},
	})
}

// LogResourceExists logs when a resource already exists.
func LogResourceExists(observer Observer, phase, resourceType, resourceName string) {
	observer.Event(Event{
		Type:     EventResourceExists,
		Phase:    phase,
		Resource: resourceName,
		Message:  fmt.Sprintf("%s already exists", resourceType),
		Fields:   map[string]string{"type": resourceType},
	})
}
