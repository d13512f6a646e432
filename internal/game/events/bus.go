package events

import (
	"strconv"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// EventBus is a synchronous event bus implementation. Handlers run on the
// publishing goroutine, in subscription order for function handlers.
type EventBus struct {
	subscribers  map[string]Subscriber
	order        []string
	funcHandlers map[string][]funcHandler
	nextFuncID   int
	mu           sync.RWMutex
	logger       zerolog.Logger
}

type funcHandler struct {
	id      string
	handler EventHandler
}

// NewEventBus creates a new event bus instance
func NewEventBus() *EventBus {
	return &EventBus{
		subscribers:  make(map[string]Subscriber),
		funcHandlers: make(map[string][]funcHandler),
		logger:       log.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe adds a new subscriber to the event bus
func (eb *EventBus) Subscribe(subscriber Subscriber) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if _, exists := eb.subscribers[subscriber.ID()]; !exists {
		eb.order = append(eb.order, subscriber.ID())
	}
	eb.subscribers[subscriber.ID()] = subscriber
	eb.logger.Debug().
		Str("subscriber_id", subscriber.ID()).
		Msg("Subscriber added to event bus")
}

// Unsubscribe removes a subscriber or a function handler from the event bus
func (eb *EventBus) Unsubscribe(subscriberID string) {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	if _, ok := eb.subscribers[subscriberID]; ok {
		delete(eb.subscribers, subscriberID)
		for i, id := range eb.order {
			if id == subscriberID {
				eb.order = append(eb.order[:i], eb.order[i+1:]...)
				break
			}
		}
	}
	for eventType, handlers := range eb.funcHandlers {
		for i, h := range handlers {
			if h.id == subscriberID {
				eb.funcHandlers[eventType] = append(handlers[:i:i], handlers[i+1:]...)
				break
			}
		}
	}
	eb.logger.Debug().
		Str("subscriber_id", subscriberID).
		Msg("Subscriber removed from event bus")
}

// SubscribeFunc adds a function handler for specific event types.
// The returned ID can be passed to Unsubscribe.
func (eb *EventBus) SubscribeFunc(eventType string, handler EventHandler) string {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.nextFuncID++
	handlerID := eventType + "_func_" + strconv.Itoa(eb.nextFuncID)
	eb.funcHandlers[eventType] = append(eb.funcHandlers[eventType], funcHandler{id: handlerID, handler: handler})
	eb.logger.Debug().
		Str("event_type", eventType).
		Str("handler_id", handlerID).
		Msg("Function handler added to event bus")

	return handlerID
}

// Publish sends an event to all interested subscribers synchronously.
// Handlers may publish or subscribe themselves; the lock is not held while they run.
func (eb *EventBus) Publish(event Event) {
	eventType := event.Type()

	eb.mu.RLock()
	subs := make([]Subscriber, 0, len(eb.order))
	for _, id := range eb.order {
		if s := eb.subscribers[id]; s.InterestedIn(eventType) {
			subs = append(subs, s)
		}
	}
	handlers := append([]funcHandler(nil), eb.funcHandlers[eventType]...)
	eb.mu.RUnlock()

	eb.logger.Debug().
		Str("event_type", eventType).
		Str("game_id", event.GameID()).
		Msg("Publishing event")

	for _, subscriber := range subs {
		// Catch panics so one subscriber cannot break the others or the tick
		func() {
			defer func() {
				if r := recover(); r != nil {
					eb.logger.Error().
						Str("subscriber_id", subscriber.ID()).
						Str("event_type", eventType).
						Interface("panic", r).
						Msg("Subscriber panicked while handling event")
				}
			}()
			subscriber.HandleEvent(event)
		}()
	}

	for _, h := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					eb.logger.Error().
						Str("event_type", eventType).
						Str("handler_id", h.id).
						Interface("panic", r).
						Msg("Function handler panicked while handling event")
				}
			}()
			h.handler(event)
		}()
	}
}

// GetSubscriberCount returns the number of subscribers for debugging
func (eb *EventBus) GetSubscriberCount() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subscribers)
}

// GetFuncHandlerCount returns the number of function handlers for a specific event type
func (eb *EventBus) GetFuncHandlerCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.funcHandlers[eventType])
}
