package shared

import (
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of a domain event.
type EventType string

// Domain event types published after a schedule sync.
const (
	EventNewMark             EventType = "schedule.new_mark"
	EventNewAnnouncement     EventType = "schedule.new_announcement"
	EventLessonsOrderChanged EventType = "schedule.lessons_order_changed"
	EventSubjectChanged      EventType = "schedule.subject_changed"
	EventScheduleCreated     EventType = "schedule.created"
	EventCrawlError          EventType = "schedule.crawl_error"
)

// Event is the interface all domain events must implement.
type Event interface {
	// EventType returns the type of the event.
	EventType() EventType
	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time
	// AggregateID returns the ID of the aggregate that produced the event.
	AggregateID() string
	// Payload returns the event payload for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	ID            string    `json:"id"`
	Type          EventType `json:"type"`
	Aggregate     string    `json:"aggregate_id"`
	Timestamp     time.Time `json:"timestamp"`
	CorrelationID string    `json:"correlation_id,omitempty"`
	Data          map[string]interface{}
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Aggregate: aggregateID,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// EventType returns the type of the event.
func (e BaseEvent) EventType() EventType { return e.Type }

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// AggregateID returns the aggregate ID.
func (e BaseEvent) AggregateID() string { return e.Aggregate }

// Payload returns the event payload.
func (e BaseEvent) Payload() map[string]interface{} { return e.Data }

// WithCorrelation sets the correlation ID and returns a copy of the event.
func (e BaseEvent) WithCorrelation(correlationID string) BaseEvent {
	e.CorrelationID = correlationID
	return e
}
