package commands

import (
	"errors"
	"time"

	"agritrade/internal/pkg/guard"
)

var ErrExpireListingsCommandIsNotConstructed = errors.New(
	"ExpireListingsCommand must be created via NewExpireListingsCommand constructor",
)

// ExpireListingsCommand is issued by the scheduler, not by an actor.
type ExpireListingsCommand struct {
	now       time.Time
	batchSize int

	guard guard.ConstructorGuard
}

func NewExpireListingsCommand(now time.Time, batchSize int) ExpireListingsCommand {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return ExpireListingsCommand{now: now, batchSize: batchSize, guard: guard.NewConstructorGuard()}
}

func (c ExpireListingsCommand) Validate() error {
	return c.guard.Validate(ErrExpireListingsCommandIsNotConstructed)
}

func (c ExpireListingsCommand) Now() time.Time { return c.now }
func (c ExpireListingsCommand) BatchSize() int { return c.batchSize }
