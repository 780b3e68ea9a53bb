package events

import (
	"context"
	"time"

	"github.com/dayboard/dayboard/pkg/logger"
	"github.com/dayboard/dayboard/pkg/metrics"
	"github.com/google/uuid"
)

// Type names a committed change in one of the stores.
type Type string

const (
	MessageCreated  Type = "message.created"
	MessageUpdated  Type = "message.updated"
	MessageDeleted  Type = "message.deleted"
	MessagesCleared Type = "messages.cleared"
	ViewRecorded    Type = "view.recorded"
)

// Event is the notification fanned out after a store mutation. Key is the
// bucket key for message events and the slug for view events.
type Event struct {
	ID   string      `json:"id"`
	Type Type        `json:"type"`
	Key  string      `json:"key"`
	At   time.Time   `json:"at"`
	Data interface{} `json:"data,omitempty"`
}

// New stamps an event with a fresh id and the current UTC time.
func New(t Type, key string, data interface{}) Event {
	return Event{ID: uuid.NewString(), Type: t, Key: key, At: time.Now().UTC(), Data: data}
}

// Publisher delivers events to subscribers outside the process.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops every event; used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// Emit publishes e and records the outcome. Delivery is best effort: a
// failure is logged and counted, never returned to the request.
func Emit(ctx context.Context, p Publisher, e Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, e); err != nil {
		metrics.EventsPublished.WithLabelValues("error").Inc()
		logger.Warnf("publish %s for %q failed: %v", e.Type, e.Key, err)
		return
	}
	metrics.EventsPublished.WithLabelValues("ok").Inc()
}
