package ports

import (
	"context"
	"errors"
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/settlement"

	"github.com/shopspring/decimal"
)

// EventPublisher delivers relayed domain events to subscribers.
type EventPublisher interface {
	Publish(ctx context.Context, event kernel.DomainEvent) error
}

var ErrLockNotObtained = errors.New("lock not obtained")

// Locker hands out short-lived exclusive locks keyed by name.
type Locker interface {
	// Obtain returns ErrLockNotObtained when someone else holds key.
	Obtain(ctx context.Context, key string, ttl time.Duration) (Lock, error)
}

type Lock interface {
	Release(ctx context.Context) error
}

// PayoutInstruction asks the payment provider to pay a farmer.
type PayoutInstruction struct {
	Reference string
	FarmerID  kernel.UUID
	Amount    decimal.Decimal
	Method    settlement.PaymentMethod
}

// PaymentGateway returns the provider's transaction reference. Failures are
// errs.ErrAdapterTimeout or errs.ErrAdapterFailure.
type PaymentGateway interface {
	Pay(ctx context.Context, instruction PayoutInstruction) (string, error)
}

// Authorizer decides whether an actor's role may perform action on resource.
// A denial is an errs.AccessDeniedError.
type Authorizer interface {
	Authorize(actor kernel.Actor, resource, action string) error
}
