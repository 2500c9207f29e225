package storage

import (
	"errors"
	"fmt"
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/errs"
	"agritrade/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const DefaultBookingLength = 7 * 24 * time.Hour

var ErrBookingIsNotConstructed = errors.New("Booking must be created via NewBooking constructor")

type Status int

const (
	Unknown Status = iota
	Reserved
	Active
	Released
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:  "Unknown",
		Reserved: "Reserved",
		Active:   "Active",
		Released: "Released",
	}
}

func (s Status) Validate() error {
	if _, ok := getStatusStrings()[s]; !ok || s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// Booking holds quantityKg of a facility for a contract or a single lot over window.
type Booking struct {
	id         kernel.UUID
	facilityID kernel.UUID
	contractID *kernel.UUID
	lotID      *kernel.UUID
	quantityKg decimal.Decimal
	window     kernel.TimeWindow
	status     Status
	guard      guard.ConstructorGuard

	kernel.EventRecorder
}

type Params struct {
	ID         kernel.UUID
	FacilityID kernel.UUID
	ContractID *kernel.UUID
	LotID      *kernel.UUID
	QuantityKg decimal.Decimal
	Window     kernel.TimeWindow
}

// NewBooking reserves capacity on the facility and returns the booking in Reserved.
func NewBooking(p Params, facility *Facility) (*Booking, error) {
	if err := facility.Validate(); err != nil {
		return nil, err
	}
	if !facility.ID().IsEqual(p.FacilityID) {
		return nil, errs.NewValueIsInvalidErrorWithCause("facilityId is invalid",
			fmt.Errorf("booking for %s placed on %s", p.FacilityID, facility.ID()))
	}
	b := &Booking{status: Reserved, guard: guard.NewConstructorGuard()}
	if err := b.set(p); err != nil {
		return nil, err
	}
	if err := facility.Reserve(p.QuantityKg); err != nil {
		return nil, err
	}
	payload := map[string]any{
		"facilityId": p.FacilityID.String(),
		"quantityKg": p.QuantityKg.String(),
	}
	if p.ContractID != nil {
		payload["contractId"] = p.ContractID.String()
	}
	b.Record("StorageBooked", b.id, payload)
	return b, nil
}

func RestoreBooking(p Params, status Status) (*Booking, error) {
	b := &Booking{guard: guard.NewConstructorGuard()}
	if err := errors.Join(b.set(p), status.Validate()); err != nil {
		return nil, err
	}
	b.status = status
	return b, nil
}

func (b *Booking) Validate() error {
	if b == nil {
		return ErrBookingIsNotConstructed
	}
	return b.guard.Validate(ErrBookingIsNotConstructed)
}

func (b *Booking) ID() kernel.UUID             { return b.id }
func (b *Booking) FacilityID() kernel.UUID     { return b.facilityID }
func (b *Booking) QuantityKg() decimal.Decimal { return b.quantityKg }
func (b *Booking) Window() kernel.TimeWindow   { return b.window }
func (b *Booking) Status() Status              { return b.status }

func (b *Booking) ContractID() *kernel.UUID {
	if b.contractID == nil {
		return nil
	}
	id := *b.contractID
	return &id
}

func (b *Booking) LotID() *kernel.UUID {
	if b.lotID == nil {
		return nil
	}
	id := *b.lotID
	return &id
}

// Activate starts a reserved booking once its window has begun.
func (b *Booking) Activate(now time.Time) error {
	if b.status != Reserved || now.Before(b.window.Start()) {
		return errs.NewInvalidTransitionError("storage booking", b.status.String(), "activate")
	}
	b.status = Active
	b.Record("StorageActivated", b.id, map[string]any{"facilityId": b.facilityID.String()})
	return nil
}

// Release ends the booking early or at the end of its window and returns capacity to facility.
func (b *Booking) Release(facility *Facility) error {
	if err := facility.Validate(); err != nil {
		return err
	}
	if b.status != Reserved && b.status != Active {
		return errs.NewInvalidTransitionError("storage booking", b.status.String(), "release")
	}
	b.status = Released
	facility.Restore(b.quantityKg)
	b.Record("StorageReleased", b.id, map[string]any{
		"facilityId": b.facilityID.String(),
		"quantityKg": b.quantityKg.String(),
	})
	return nil
}

// IsDueForActivation and IsExpired drive the scheduled storage sweep.
func (b *Booking) IsDueForActivation(now time.Time) bool {
	return b.status == Reserved && b.window.Contains(now)
}

func (b *Booking) IsExpired(now time.Time) bool {
	return (b.status == Reserved || b.status == Active) && b.window.HasEnded(now)
}

func (b *Booking) set(p Params) error {
	var contractErr, lotErr error
	if p.ContractID != nil {
		contractErr = p.ContractID.Validate()
	}
	if p.LotID != nil {
		lotErr = p.LotID.Validate()
	}
	if err := errors.Join(
		p.ID.Validate(),
		p.FacilityID.Validate(),
		contractErr,
		lotErr,
		kernel.ValidatePositive("quantityKg", p.QuantityKg),
		p.Window.Validate(),
	); err != nil {
		return err
	}
	b.id = p.ID
	b.facilityID = p.FacilityID
	if p.ContractID != nil {
		id := *p.ContractID
		b.contractID = &id
	}
	if p.LotID != nil {
		id := *p.LotID
		b.lotID = &id
	}
	b.quantityKg = p.QuantityKg
	b.window = p.Window
	return nil
}
