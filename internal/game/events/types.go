package events

import (
	"time"
)

// Event is anything published on the bus. Type drives subscriber filtering.
type Event interface {
	Type() string
	Timestamp() time.Time
	GameID() string
}

// BaseEvent carries the fields every event shares. Embed it.
type BaseEvent struct {
	EventType string    `json:"type"`
	Time      time.Time `json:"timestamp"`
	Game      string    `json:"game_id"`
}

func (e BaseEvent) Type() string         { return e.EventType }
func (e BaseEvent) Timestamp() time.Time { return e.Time }
func (e BaseEvent) GameID() string       { return e.Game }

// EventMetadata ties an event to a player and to the combat clock.
// Wall time lives in BaseEvent; SimTime is what replays compare.
type EventMetadata struct {
	PlayerID int           `json:"player_id,omitempty"`
	SimTime  time.Duration `json:"sim_time,omitempty"`
}

// EventHandler is a function subscriber registered with SubscribeFunc.
type EventHandler func(Event)

// Subscriber receives the events it declares interest in.
type Subscriber interface {
	ID() string
	HandleEvent(Event)
	InterestedIn(eventType string) bool
}

// Publisher is the half of the bus producers see. The combat engine and the
// phase machine only publish.
type Publisher interface {
	Publish(Event)
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}

// Bus is the full event bus.
type Bus interface {
	Publisher
	Subscribe(Subscriber)
	Unsubscribe(subscriberID string)
	// SubscribeFunc registers handler for one event type and returns an id
	// Unsubscribe accepts.
	SubscribeFunc(eventType string, handler EventHandler) string
}

var _ Bus = (*EventBus)(nil)
