// Package events re-exports the platform event bus and declares the domain
// events exchanged between modules.
package events

import (
	platformevents "homefinder_backend/platform/events"
	"homefinder_backend/platform/logger"
)

// Event is the platform event interface.
type Event = platformevents.Event

// Bus is the platform bus interface.
type Bus = platformevents.Bus

// Publisher is the sending half of Bus.
type Publisher = platformevents.Publisher

// BaseEvent carries the occurrence timestamp.
type BaseEvent = platformevents.BaseEvent

// Handler processes events.
type Handler = platformevents.Handler

// HandlerFunc adapts functions to Handler.
type HandlerFunc = platformevents.HandlerFunc

// InMemoryBus is a type alias to the platform InMemoryBus
type InMemoryBus = platformevents.InMemoryBus

// NewBaseEvent stamps a new event with the current time.
func NewBaseEvent() BaseEvent {
	return platformevents.NewBaseEvent()
}

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}
