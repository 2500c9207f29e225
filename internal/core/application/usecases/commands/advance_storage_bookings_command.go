package commands

import (
	"errors"
	"time"

	"agritrade/internal/pkg/guard"
)

var ErrAdvanceStorageBookingsCommandIsNotConstructed = errors.New(
	"AdvanceStorageBookingsCommand must be created via NewAdvanceStorageBookingsCommand constructor",
)

// AdvanceStorageBookingsCommand is issued by the storage sweep.
type AdvanceStorageBookingsCommand struct {
	now       time.Time
	batchSize int

	guard guard.ConstructorGuard
}

func NewAdvanceStorageBookingsCommand(now time.Time, batchSize int) AdvanceStorageBookingsCommand {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return AdvanceStorageBookingsCommand{now: now, batchSize: batchSize, guard: guard.NewConstructorGuard()}
}

func (c AdvanceStorageBookingsCommand) Validate() error {
	return c.guard.Validate(ErrAdvanceStorageBookingsCommandIsNotConstructed)
}

func (c AdvanceStorageBookingsCommand) Now() time.Time { return c.now }
func (c AdvanceStorageBookingsCommand) BatchSize() int { return c.batchSize }
