package commands

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrCreateStorageBookingCommandIsNotConstructed = errors.New(
	"CreateStorageBookingCommand must be created via NewCreateStorageBookingCommand constructor",
)

// StorageBookingRequest holds space for a contract, a single lot or neither.
// A nil Window books from now for the default length.
type StorageBookingRequest struct {
	BookingID  kernel.UUID
	FacilityID kernel.UUID
	ContractID *kernel.UUID
	LotID      *kernel.UUID
	QuantityKg decimal.Decimal
	Window     *kernel.TimeWindow
}

type CreateStorageBookingCommand struct {
	actor kernel.Actor
	req   StorageBookingRequest

	guard guard.ConstructorGuard
}

func NewCreateStorageBookingCommand(actor kernel.Actor, req StorageBookingRequest) (CreateStorageBookingCommand, error) {
	var contractErr, lotErr, windowErr error
	if req.ContractID != nil {
		contractErr = req.ContractID.Validate()
	}
	if req.LotID != nil {
		lotErr = req.LotID.Validate()
	}
	if req.Window != nil {
		windowErr = req.Window.Validate()
	}
	if err := errors.Join(
		actor.Validate(),
		req.BookingID.Validate(),
		req.FacilityID.Validate(),
		contractErr,
		lotErr,
		kernel.ValidatePositive("quantityKg", req.QuantityKg),
		windowErr,
	); err != nil {
		return CreateStorageBookingCommand{}, err
	}
	return CreateStorageBookingCommand{actor: actor, req: req, guard: guard.NewConstructorGuard()}, nil
}

func (c CreateStorageBookingCommand) Validate() error {
	return c.guard.Validate(ErrCreateStorageBookingCommandIsNotConstructed)
}

func (c CreateStorageBookingCommand) Actor() kernel.Actor         { return c.actor }
func (c CreateStorageBookingCommand) BookingID() kernel.UUID      { return c.req.BookingID }
func (c CreateStorageBookingCommand) FacilityID() kernel.UUID     { return c.req.FacilityID }
func (c CreateStorageBookingCommand) ContractID() *kernel.UUID    { return c.req.ContractID }
func (c CreateStorageBookingCommand) LotID() *kernel.UUID         { return c.req.LotID }
func (c CreateStorageBookingCommand) QuantityKg() decimal.Decimal { return c.req.QuantityKg }
func (c CreateStorageBookingCommand) Window() *kernel.TimeWindow  { return c.req.Window }
