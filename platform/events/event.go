// Package events is the in-process publish/subscribe layer that lets modules
// react to each other without importing one another.
package events

import (
	"context"
	"time"
)

// Event is a named fact with an occurrence time. EventName doubles as the
// subscription key.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent is embedded by concrete events for the timestamp.
type BaseEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

func (e BaseEvent) OccurredAt() time.Time { return e.Timestamp }

// NewBaseEvent stamps the current time in UTC.
func NewBaseEvent() BaseEvent {
	return BaseEvent{Timestamp: time.Now().UTC()}
}

// Handler reacts to one event.
type Handler interface {
	Handle(ctx context.Context, event Event) error
}

// HandlerFunc lets a plain function subscribe.
type HandlerFunc func(ctx context.Context, event Event) error

func (f HandlerFunc) Handle(ctx context.Context, event Event) error { return f(ctx, event) }

// Publisher is the sending half of a Bus.
type Publisher interface {
	// Publish fans out without waiting; handler errors are only logged.
	Publish(ctx context.Context, event Event)
	// PublishSync runs the handlers in order and returns their joined errors.
	PublishSync(ctx context.Context, event Event) error
}

// Bus routes events by EventName to subscribed handlers.
type Bus interface {
	Publisher
	Subscribe(eventName string, handler Handler)
}
