// Package storage models warehouses and the capacity bookings placed on them.
package storage

import (
	"errors"
	"fmt"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/errs"
	"agritrade/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrFacilityIsNotConstructed = errors.New("Facility must be created via NewFacility constructor")
	ErrInsufficientCapacity     = errors.New("storage facility has insufficient capacity")
)

// Facility is a warehouse. availableKg is what remains after Reserved and Active bookings.
type Facility struct {
	id          kernel.UUID
	name        string
	location    string
	capacityKg  decimal.Decimal
	availableKg decimal.Decimal
	guard       guard.ConstructorGuard
}

func NewFacility(id kernel.UUID, name, location string, capacityKg decimal.Decimal) (*Facility, error) {
	return RestoreFacility(id, name, location, capacityKg, capacityKg)
}

func RestoreFacility(id kernel.UUID, name, location string, capacityKg, availableKg decimal.Decimal) (*Facility, error) {
	var rangeErr error
	if availableKg.IsNegative() || availableKg.GreaterThan(capacityKg) {
		rangeErr = errs.NewValueIsOutOfRangeError("availableKg", availableKg, 0, capacityKg)
	}
	if err := errors.Join(
		id.Validate(),
		kernel.ValidateRequiredText("name", name),
		kernel.ValidateRequiredText("location", location),
		kernel.ValidatePositive("capacityKg", capacityKg),
		rangeErr,
	); err != nil {
		return nil, err
	}
	return &Facility{
		id:          id,
		name:        name,
		location:    location,
		capacityKg:  capacityKg,
		availableKg: availableKg,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (f *Facility) Validate() error {
	if f == nil {
		return ErrFacilityIsNotConstructed
	}
	return f.guard.Validate(ErrFacilityIsNotConstructed)
}

func (f *Facility) ID() kernel.UUID              { return f.id }
func (f *Facility) Name() string                 { return f.name }
func (f *Facility) Location() string             { return f.location }
func (f *Facility) CapacityKg() decimal.Decimal  { return f.capacityKg }
func (f *Facility) AvailableKg() decimal.Decimal { return f.availableKg }

// Reserve takes quantityKg out of the available capacity.
func (f *Facility) Reserve(quantityKg decimal.Decimal) error {
	if err := kernel.ValidatePositive("quantityKg", quantityKg); err != nil {
		return err
	}
	if quantityKg.GreaterThan(f.availableKg) {
		return fmt.Errorf("%w: %s kg requested, %s kg available", ErrInsufficientCapacity, quantityKg, f.availableKg)
	}
	f.availableKg = f.availableKg.Sub(quantityKg)
	return nil
}

// Restore gives quantityKg back, never above capacity.
func (f *Facility) Restore(quantityKg decimal.Decimal) {
	f.availableKg = decimal.Min(f.capacityKg, f.availableKg.Add(quantityKg))
}
