package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"
)

var ErrConfirmTransportDeliveryCommandIsNotConstructed = errors.New(
	"ConfirmTransportDeliveryCommand must be created via NewConfirmTransportDeliveryCommand constructor",
)

// ConfirmTransportDeliveryCommand is the transporter's drop-off report.
type ConfirmTransportDeliveryCommand struct {
	actor     kernel.Actor
	requestID kernel.UUID
	notes     string
	proofURL  string

	guard guard.ConstructorGuard
}

func NewConfirmTransportDeliveryCommand(
	actor kernel.Actor,
	requestID kernel.UUID,
	notes, proofURL string,
) (ConfirmTransportDeliveryCommand, error) {
	if err := errors.Join(actor.Validate(), requestID.Validate()); err != nil {
		return ConfirmTransportDeliveryCommand{}, err
	}
	return ConfirmTransportDeliveryCommand{
		actor:     actor,
		requestID: requestID,
		notes:     notes,
		proofURL:  proofURL,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ConfirmTransportDeliveryCommand) Validate() error {
	return c.guard.Validate(ErrConfirmTransportDeliveryCommandIsNotConstructed)
}

func (c ConfirmTransportDeliveryCommand) Actor() kernel.Actor    { return c.actor }
func (c ConfirmTransportDeliveryCommand) RequestID() kernel.UUID { return c.requestID }
func (c ConfirmTransportDeliveryCommand) Notes() string          { return c.notes }
func (c ConfirmTransportDeliveryCommand) ProofURL() string       { return c.proofURL }
