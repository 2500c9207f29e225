package commands

import (
	"errors"

	"agritrade/internal/pkg/guard"
)

var ErrRelayOutboxCommandIsNotConstructed = errors.New(
	"RelayOutboxCommand must be created via NewRelayOutboxCommand constructor",
)

type RelayOutboxCommand struct {
	batchSize int

	guard guard.ConstructorGuard
}

func NewRelayOutboxCommand(batchSize int) RelayOutboxCommand {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return RelayOutboxCommand{batchSize: batchSize, guard: guard.NewConstructorGuard()}
}

func (c RelayOutboxCommand) Validate() error {
	return c.guard.Validate(ErrRelayOutboxCommandIsNotConstructed)
}

func (c RelayOutboxCommand) BatchSize() int { return c.batchSize }
