// Package audit keeps the append-only trail of who did what to the pipeline.
package audit

import (
	"errors"
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"
)

var ErrRecordIsNotConstructed = errors.New("Record must be created via NewRecord constructor")

// Record is one audited operation. Metadata is stored as JSON.
type Record struct {
	id         kernel.UUID
	action     string
	actorID    kernel.UUID
	role       kernel.Role
	entityID   kernel.UUID
	metadata   map[string]any
	occurredAt time.Time
	guard      guard.ConstructorGuard
}

// NewRecord audits action performed by actor on entityID.
func NewRecord(action string, actor kernel.Actor, entityID kernel.UUID, metadata map[string]any, now time.Time) (*Record, error) {
	if err := errors.Join(
		kernel.ValidateRequiredText("action", action),
		actor.Validate(),
		entityID.Validate(),
	); err != nil {
		return nil, err
	}
	return RestoreRecord(kernel.NewUUID(), action, actor.UserID(), actor.Role(), entityID, metadata, now.UTC())
}

func RestoreRecord(
	id kernel.UUID,
	action string,
	actorID kernel.UUID,
	role kernel.Role,
	entityID kernel.UUID,
	metadata map[string]any,
	occurredAt time.Time,
) (*Record, error) {
	if err := errors.Join(id.Validate(), actorID.Validate(), role.Validate()); err != nil {
		return nil, err
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &Record{
		id:         id,
		action:     action,
		actorID:    actorID,
		role:       role,
		entityID:   entityID,
		metadata:   metadata,
		occurredAt: occurredAt,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (r *Record) Validate() error {
	if r == nil {
		return ErrRecordIsNotConstructed
	}
	return r.guard.Validate(ErrRecordIsNotConstructed)
}

func (r *Record) ID() kernel.UUID          { return r.id }
func (r *Record) Action() string           { return r.action }
func (r *Record) ActorID() kernel.UUID     { return r.actorID }
func (r *Record) Role() kernel.Role        { return r.role }
func (r *Record) EntityID() kernel.UUID    { return r.entityID }
func (r *Record) Metadata() map[string]any { return r.metadata }
func (r *Record) OccurredAt() time.Time    { return r.occurredAt }
