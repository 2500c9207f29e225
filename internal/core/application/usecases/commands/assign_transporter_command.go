package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"
)

var ErrAssignTransporterCommandIsNotConstructed = errors.New(
	"AssignTransporterCommand must be created via NewAssignTransporterCommand constructor",
)

// AssignTransporterCommand names the transporter to use. Without one the request
// is dispatched to the best fitting active transporter.
type AssignTransporterCommand struct {
	actor         kernel.Actor
	requestID     kernel.UUID
	transporterID *kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignTransporterCommand(
	actor kernel.Actor,
	requestID kernel.UUID,
	transporterID *kernel.UUID,
) (AssignTransporterCommand, error) {
	var transporterErr error
	if transporterID != nil {
		transporterErr = transporterID.Validate()
	}
	if err := errors.Join(actor.Validate(), requestID.Validate(), transporterErr); err != nil {
		return AssignTransporterCommand{}, err
	}
	return AssignTransporterCommand{
		actor:         actor,
		requestID:     requestID,
		transporterID: transporterID,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (c AssignTransporterCommand) Validate() error {
	return c.guard.Validate(ErrAssignTransporterCommandIsNotConstructed)
}

func (c AssignTransporterCommand) Actor() kernel.Actor         { return c.actor }
func (c AssignTransporterCommand) RequestID() kernel.UUID      { return c.requestID }
func (c AssignTransporterCommand) TransporterID() *kernel.UUID { return c.transporterID }
