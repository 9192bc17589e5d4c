package ports

import "context"

const (
	// EventSlotAssigned is emitted when a colour control claims a slot.
	EventSlotAssigned = "slot.assigned"
	// EventSlotReleased is emitted when a colour control frees its slot.
	EventSlotReleased = "slot.released"
	// EventSlotRejected is emitted when a selection is reverted because every slot is taken.
	EventSlotRejected = "slot.rejected"
	// EventSelectionCompleted is emitted when every visible shape holds a colour.
	EventSelectionCompleted = "selection.completed"
	// EventModelSwitched is emitted after a new illustration becomes active.
	EventModelSwitched = "model.switched"
	// EventModelLoadFailed is emitted when an illustration cannot be fetched or parsed.
	EventModelLoadFailed = "model.load_failed"
	// EventModelLoadStale is emitted when a superseded load resolves and is dropped.
	EventModelLoadStale = "model.load_stale"
)

// DomainEvent represents a significant occurrence within the picker.
// Events carry structured payloads that downstream subscribers can use for
// logging or UI updates.
type DomainEvent interface {
	EventType() string
	Payload() interface{}
}

// EventPublisher distributes events to interested subscribers. Dispatch is
// synchronous: Publish blocks until all handlers run. Implementations must be
// thread-safe.
type EventPublisher interface {
	Publish(ctx context.Context, event DomainEvent) error
	Subscribe(eventType string, handler EventHandler) (Subscription, error)
}

// EventHandler processes an event of a specific type. Failures should be
// surfaced via returned errors so publishers can log diagnostics and continue
// delivering to remaining subscribers.
type EventHandler func(context.Context, DomainEvent) error

// Subscription represents a registered handler. Callers must invoke
// Unsubscribe to stop receiving events.
type Subscription interface {
	Unsubscribe()
}
