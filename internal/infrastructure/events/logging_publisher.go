// Package events provides the in-process ports.EventPublisher used by the
// picker front ends.
package events

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/alexisbeaulieu97/colorpick/internal/ports"
)

// AllEvents subscribes a handler to every event type.
const AllEvents = "*"

// LoggingPublisher writes each event as a structured log entry and then
// dispatches it synchronously to subscribers. Handlers run on the publishing
// goroutine, often while the picker holds its lock, so they must not call
// back into the picker.
type LoggingPublisher struct {
	logger ports.Logger
	mu     sync.RWMutex
	subs   map[string][]subscriptionEntry
	nextID int
}

// NewLoggingPublisher creates an event publisher that logs through logger.
func NewLoggingPublisher(logger ports.Logger) *LoggingPublisher {
	return &LoggingPublisher{
		logger: logger,
		subs:   make(map[string][]subscriptionEntry),
	}
}

// Publish logs the event and delivers it to its subscribers, exact type
// first, then wildcard. Handler errors are logged and do not stop delivery.
func (p *LoggingPublisher) Publish(ctx context.Context, event ports.DomainEvent) error {
	if p == nil || event == nil {
		return nil
	}
	eventType := event.EventType()

	p.mu.RLock()
	handlers := append([]subscriptionEntry(nil), p.subs[eventType]...)
	handlers = append(handlers, p.subs[AllEvents]...)
	p.mu.RUnlock()

	if p.logger != nil {
		fields := payloadFields(eventType, event.Payload())
		if strings.HasSuffix(eventType, "failed") {
			p.logger.Warn(ctx, "domain event", fields...)
		} else {
			p.logger.Debug(ctx, "domain event", fields...)
		}
	}

	for _, entry := range handlers {
		if err := entry.handler(ctx, event); err != nil && p.logger != nil {
			p.logger.Warn(ctx, "event handler failed", "event_type", eventType, "error", err)
		}
	}
	return nil
}

func payloadFields(eventType string, payload interface{}) []interface{} {
	fields := []interface{}{"event_type", eventType}
	switch v := payload.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fields = append(fields, key, v[key])
		}
	case nil:
	default:
		fields = append(fields, "payload", v)
	}
	return fields
}

// Subscribe registers a handler for eventType, or for every event when
// eventType is AllEvents.
func (p *LoggingPublisher) Subscribe(eventType string, handler ports.EventHandler) (ports.Subscription, error) {
	if p == nil || handler == nil {
		return noopSubscription{}, nil
	}
	p.mu.Lock()
	p.nextID++
	id := p.nextID
	p.subs[eventType] = append(p.subs[eventType], subscriptionEntry{id: id, handler: handler})
	p.mu.Unlock()

	return subscription(func() { p.remove(eventType, id) }), nil
}

func (p *LoggingPublisher) remove(eventType string, id int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	handlers := p.subs[eventType]
	for i, entry := range handlers {
		if entry.id == id {
			p.subs[eventType] = append(handlers[:i:i], handlers[i+1:]...)
			return
		}
	}
}

type noopSubscription struct{}

func (noopSubscription) Unsubscribe() {}

type subscription func()

func (s subscription) Unsubscribe() { s() }

type subscriptionEntry struct {
	id      int
	handler ports.EventHandler
}

var _ ports.EventPublisher = (*LoggingPublisher)(nil)
