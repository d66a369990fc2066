package equation

import (
	"log/slog"
	"time"
)

// EventType represents different lifecycle phases in equation evaluation
type EventType string

const (
	EventParseStart  EventType = "parse_start"
	EventParseEnd    EventType = "parse_end"
	EventExpandStart EventType = "expand_start"
	EventExpandEnd   EventType = "expand_end"
	EventEvalStart   EventType = "eval_start"
	EventEvalEnd     EventType = "eval_end"
)

// Event represents a lifecycle event in equation evaluation
type Event struct {
	Type      EventType   // Type of event
	RunID     string      // Identifies one Compute call
	Timestamp time.Time   // When the event occurred
	Data      interface{} // Phase-specific data (equation, expanded expression, row count)
}

// Observer receives events at each evaluation phase
type Observer interface {
	OnEvent(event Event)
}

// LoggingObserver logs all events using structured logging
type LoggingObserver struct {
	logger *slog.Logger
}

// NewLoggingObserver creates a logging observer. A nil logger means slog.Default().
func NewLoggingObserver(logger *slog.Logger) *LoggingObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{logger: logger}
}

// OnEvent implements the Observer interface
func (lo *LoggingObserver) OnEvent(event Event) {
	lo.logger.Debug("equation_lifecycle",
		"event", event.Type,
		"run_id", event.RunID,
		"timestamp", event.Timestamp,
		"data", event.Data,
	)
}
