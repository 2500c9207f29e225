package kernel

import "time"

// DomainEvent is a fact about a state transition, recorded by aggregates and
// relayed through the outbox to subscribers (notifications, real-time fan-out).
type DomainEvent struct {
	ID          UUID
	Name        string
	AggregateID UUID
	OccurredAt  time.Time
	Payload     map[string]any
}

// EventRecorder is embedded by aggregates that emit domain events.
type EventRecorder struct {
	events []DomainEvent
}

func (r *EventRecorder) Record(name string, aggregateID UUID, payload map[string]any) {
	r.events = append(r.events, DomainEvent{
		ID:          NewUUID(),
		Name:        name,
		AggregateID: aggregateID,
		OccurredAt:  time.Now().UTC(),
		Payload:     payload,
	})
}

// DomainEvents returns the events recorded since the last clear.
func (r *EventRecorder) DomainEvents() []DomainEvent {
	out := make([]DomainEvent, len(r.events))
	copy(out, r.events)
	return out
}

func (r *EventRecorder) ClearDomainEvents() {
	r.events = nil
}
