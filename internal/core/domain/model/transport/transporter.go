package transport

import (
	"errors"
	"fmt"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/errs"
	"agritrade/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrNameIsRequired              = errs.NewValueIsRequiredError("name")
	ErrTransporterIsNotConstructed = errors.New("Transporter must be created via NewTransporter constructor")
	ErrTransporterInactive         = errors.New("transporter is not active")
	ErrCapacityExceeded            = errors.New("load exceeds transporter capacity")
)

// Transporter is a registered truck operator. Every assigned, accepted or moving load
// counts against capacityKg.
type Transporter struct {
	id           kernel.UUID
	name         string
	capacityKg   decimal.Decimal
	licensePlate string
	phone        string
	active       bool
	verified     bool
	guard        guard.ConstructorGuard
}

func NewTransporter(id kernel.UUID, name string, capacityKg decimal.Decimal, licensePlate, phone string) (*Transporter, error) {
	t := &Transporter{
		active: true,
		guard:  guard.NewConstructorGuard(),
	}
	if err := t.set(id, name, capacityKg, licensePlate, phone); err != nil {
		return nil, err
	}
	return t, nil
}

func RestoreTransporter(
	id kernel.UUID,
	name string,
	capacityKg decimal.Decimal,
	licensePlate, phone string,
	active, verified bool,
) (*Transporter, error) {
	t := &Transporter{
		active:   active,
		verified: verified,
		guard:    guard.NewConstructorGuard(),
	}
	if err := t.set(id, name, capacityKg, licensePlate, phone); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *Transporter) Validate() error {
	if t == nil {
		return ErrTransporterIsNotConstructed
	}
	return t.guard.Validate(ErrTransporterIsNotConstructed)
}

func (t *Transporter) IsEqual(other *Transporter) bool {
	return other != nil && t.id.IsEqual(other.id)
}

func (t *Transporter) ID() kernel.UUID             { return t.id }
func (t *Transporter) Name() string                { return t.name }
func (t *Transporter) CapacityKg() decimal.Decimal { return t.capacityKg }
func (t *Transporter) LicensePlate() string        { return t.licensePlate }
func (t *Transporter) Phone() string               { return t.phone }
func (t *Transporter) IsActive() bool              { return t.active }
func (t *Transporter) IsVerified() bool            { return t.verified }

func (t *Transporter) Verify()     { t.verified = true }
func (t *Transporter) Deactivate() { t.active = false }
func (t *Transporter) Activate()   { t.active = true }

// CanCarry checks that loadKg fits next to the load the transporter already carries.
func (t *Transporter) CanCarry(loadKg, committedKg decimal.Decimal) error {
	if !t.active {
		return ErrTransporterInactive
	}
	if total := committedKg.Add(loadKg); total.GreaterThan(t.capacityKg) {
		return fmt.Errorf("%w: %s kg committed, %s kg requested, capacity %s kg",
			ErrCapacityExceeded, committedKg, loadKg, t.capacityKg)
	}
	return nil
}

// SpareCapacityKg is the capacity left after committedKg.
func (t *Transporter) SpareCapacityKg(committedKg decimal.Decimal) decimal.Decimal {
	return t.capacityKg.Sub(committedKg)
}

func (t *Transporter) set(id kernel.UUID, name string, capacityKg decimal.Decimal, licensePlate, phone string) error {
	var nameErr error
	if name == "" {
		nameErr = ErrNameIsRequired
	}
	if err := errors.Join(
		id.Validate(),
		nameErr,
		kernel.ValidatePositive("capacityKg", capacityKg),
	); err != nil {
		return err
	}
	t.id = id
	t.name = name
	t.capacityKg = capacityKg
	t.licensePlate = licensePlate
	t.phone = phone
	return nil
}
