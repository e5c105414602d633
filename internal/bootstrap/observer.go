package bootstrap

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Observer receives structured events during the bootstrap run.
type Observer interface {
	// Printf logs an unstructured message.
	Printf(format string, v ...interface{})

	// Event emits a structured event.
	Event(event Event)

	// Progress reports progress within a bounded loop.
	Progress(stage string, current, total int)
}

// Event represents a structured bootstrap event.
type Event struct {
	Type      EventType
	Stage     string
	Message   string
	Resource  string
	Timestamp time.Time
}

// EventType represents the type of bootstrap event.
type EventType string

const (
	// EventStageStarted indicates a bootstrap stage has started.
	EventStageStarted EventType = "stage.started"
	// EventStageCompleted indicates a bootstrap stage completed successfully.
	EventStageCompleted EventType = "stage.completed"
	// EventStageFailed indicates a bootstrap stage failed.
	EventStageFailed EventType = "stage.failed"
	// EventStageSkipped indicates a stage had nothing to do.
	EventStageSkipped EventType = "stage.skipped"

	// EventResourceExists indicates the desired state was already in place.
	EventResourceExists EventType = "resource.exists"
	// EventResourceWritten indicates a host resource was created or changed.
	EventResourceWritten EventType = "resource.written"

	// EventWarning indicates a non-fatal finding.
	EventWarning EventType = "warning"
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

	var parts []string
	parts = append(parts, string(event.Type))
	if event.Stage != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Stage))
	}
	if event.Resource != "" {
		parts = append(parts, fmt.Sprintf("resource=%s", event.Resource))
	}
	parts = append(parts, event.Message)
	log.Print(strings.Join(parts, " "))
}

// Progress implements Observer.
func (o *ConsoleObserver) Progress(stage string, current, total int) {
	log.Printf("[%s] attempt %d/%d", stage, current, total)
}
