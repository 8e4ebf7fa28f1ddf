package events

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

type funcHandler struct {
	id string
	fn EventHandler
}

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

// NewEventBus creates a new event bus instance
func NewEventBus(logger zerolog.Logger) *EventBus {
	return &EventBus{
		subscribers:  make(map[string]Subscriber),
		funcHandlers: make(map[string][]funcHandler),
		logger:       logger.With().Str("component", "event_bus").Logger(),
	}
}

// Subscribe adds a subscriber. Re-subscribing an ID replaces the previous
// subscriber in place.
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

// Unsubscribe removes a subscriber or a function handler by ID.
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
				eb.funcHandlers[eventType] = append(handlers[:i], handlers[i+1:]...)
				break
			}
		}
	}
	eb.logger.Debug().
		Str("subscriber_id", subscriberID).
		Msg("Subscriber removed from event bus")
}

// SubscribeFunc adds a function handler for one event type and returns an
// ID usable with Unsubscribe.
func (eb *EventBus) SubscribeFunc(eventType string, handler EventHandler) string {
	eb.mu.Lock()
	defer eb.mu.Unlock()

	eb.nextFuncID++
	id := fmt.Sprintf("%s_func_%d", eventType, eb.nextFuncID)
	eb.funcHandlers[eventType] = append(eb.funcHandlers[eventType], funcHandler{id: id, fn: handler})
	eb.logger.Debug().
		Str("event_type", eventType).
		Str("handler_id", id).
		Msg("Function handler added to event bus")
	return id
}

// Publish sends an event to all interested subscribers synchronously.
// A panicking handler is logged and does not stop delivery to the rest.
func (eb *EventBus) Publish(event Event) {
	eb.mu.RLock()
	defer eb.mu.RUnlock()

	eventType := event.Type()
	eb.logger.Trace().
		Str("event_type", eventType).
		Str("game_id", event.GameID()).
		Msg("Publishing event")

	for _, id := range eb.order {
		subscriber := eb.subscribers[id]
		if !subscriber.InterestedIn(eventType) {
			continue
		}
		eb.safeCall(id, eventType, func() { subscriber.HandleEvent(event) })
	}
	for _, h := range eb.funcHandlers[eventType] {
		fn := h.fn
		eb.safeCall(h.id, eventType, func() { fn(event) })
	}
}

func (eb *EventBus) safeCall(id, eventType string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			eb.logger.Error().
				Str("subscriber_id", id).
				Str("event_type", eventType).
				Interface("panic", r).
				Msg("Subscriber panicked while handling event")
		}
	}()
	fn()
}

// SubscriberCount returns the number of registered subscribers
func (eb *EventBus) SubscriberCount() int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.subscribers)
}

// FuncHandlerCount returns the number of function handlers for an event type
func (eb *EventBus) FuncHandlerCount(eventType string) int {
	eb.mu.RLock()
	defer eb.mu.RUnlock()
	return len(eb.funcHandlers[eventType])
}
