package commands

import (
	"errors"
	"time"

	"agritrade/internal/pkg/guard"
)

var ErrDispatchPayoutsCommandIsNotConstructed = errors.New(
	"DispatchPayoutsCommand must be created via NewDispatchPayoutsCommand constructor",
)

// DispatchPayoutsCommand is issued by the payout dispatcher job.
type DispatchPayoutsCommand struct {
	now       time.Time
	batchSize int

	guard guard.ConstructorGuard
}

func NewDispatchPayoutsCommand(now time.Time, batchSize int) DispatchPayoutsCommand {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return DispatchPayoutsCommand{now: now, batchSize: batchSize, guard: guard.NewConstructorGuard()}
}

func (c DispatchPayoutsCommand) Validate() error {
	return c.guard.Validate(ErrDispatchPayoutsCommandIsNotConstructed)
}

func (c DispatchPayoutsCommand) Now() time.Time { return c.now }
func (c DispatchPayoutsCommand) BatchSize() int { return c.batchSize }
