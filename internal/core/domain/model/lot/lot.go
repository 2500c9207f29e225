package lot

import (
	"errors"
	"fmt"
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/errs"
	"agritrade/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

const DefaultQualityGrade = "A"

var (
	ErrLotIsNotConstructed = errors.New("Lot must be created via NewLot constructor")
	ErrQuantityIsFrozen    = errors.New("lot quantity can only change while the lot is listed")
)

// Lot is a discrete quantity of one crop harvested by one farmer and held by a cooperative.
// It is the unit the Inventory Ledger reserves against contracts.
//
// availableKg equals quantityKg while the lot is Listed and drops to zero once reserved;
// version increases with every persisted change and backs the compare-and-swap writes.
type Lot struct {
	id                  kernel.UUID
	cooperativeID       kernel.UUID
	farmerID            kernel.UUID
	crop                string
	quantityKg          decimal.Decimal
	availableKg         decimal.Decimal
	qualityGrade        string
	expectedHarvestDate time.Time
	status              Status
	verified            bool
	version             int64
	guard               guard.ConstructorGuard

	kernel.EventRecorder
}

func NewLot(
	id kernel.UUID,
	cooperativeID kernel.UUID,
	farmerID kernel.UUID,
	crop string,
	quantityKg decimal.Decimal,
	qualityGrade string,
	expectedHarvestDate time.Time,
	verified bool,
) (*Lot, error) {
	if qualityGrade == "" {
		qualityGrade = DefaultQualityGrade
	}

	l := &Lot{
		status:   Listed,
		verified: verified,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		l.setIDs(id, cooperativeID, farmerID),
		l.setCrop(crop),
		l.setQuantities(quantityKg, quantityKg),
		l.setQualityGrade(qualityGrade),
	); err != nil {
		return nil, err
	}
	l.expectedHarvestDate = expectedHarvestDate

	l.Record("LotRegistered", l.id, map[string]any{
		"cooperativeId": cooperativeID.String(),
		"farmerId":      farmerID.String(),
		"crop":          crop,
		"quantityKg":    quantityKg.String(),
	})
	return l, nil
}

// RestoreLot rebuilds a lot from persistence without recording events.
func RestoreLot(
	id kernel.UUID,
	cooperativeID kernel.UUID,
	farmerID kernel.UUID,
	crop string,
	quantityKg decimal.Decimal,
	availableKg decimal.Decimal,
	qualityGrade string,
	expectedHarvestDate time.Time,
	status Status,
	verified bool,
	version int64,
) (*Lot, error) {
	l := &Lot{
		verified: verified,
		version:  version,
		guard:    guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		l.setIDs(id, cooperativeID, farmerID),
		l.setCrop(crop),
		l.setQuantities(quantityKg, availableKg),
		l.setQualityGrade(qualityGrade),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	l.expectedHarvestDate = expectedHarvestDate
	l.status = status
	return l, nil
}

func (l *Lot) Validate() error {
	if l == nil {
		return ErrLotIsNotConstructed
	}
	return l.guard.Validate(ErrLotIsNotConstructed)
}

func (l *Lot) IsEqual(other *Lot) bool {
	return other != nil && l.id.IsEqual(other.id)
}

func (l *Lot) ID() kernel.UUID                { return l.id }
func (l *Lot) CooperativeID() kernel.UUID     { return l.cooperativeID }
func (l *Lot) FarmerID() kernel.UUID          { return l.farmerID }
func (l *Lot) Crop() string                   { return l.crop }
func (l *Lot) QuantityKg() decimal.Decimal    { return l.quantityKg }
func (l *Lot) AvailableKg() decimal.Decimal   { return l.availableKg }
func (l *Lot) QualityGrade() string           { return l.qualityGrade }
func (l *Lot) ExpectedHarvestDate() time.Time { return l.expectedHarvestDate }
func (l *Lot) Status() Status                 { return l.status }
func (l *Lot) Verified() bool                 { return l.verified }
func (l *Lot) Version() int64                 { return l.version }

// IsAvailable reports whether the lot can be attached to a new contract.
func (l *Lot) IsAvailable() bool {
	return l.status == Listed && l.verified && l.availableKg.IsPositive()
}

// Verify marks a farmer-declared lot as checked by the cooperative.
func (l *Lot) Verify() {
	l.verified = true
}

// Reweigh corrects the recorded quantity. Only listed lots can be reweighed;
// once sold the quantity is part of a contract and is frozen.
func (l *Lot) Reweigh(quantityKg decimal.Decimal) error {
	if l.status != Listed {
		return ErrQuantityIsFrozen
	}
	return l.setQuantities(quantityKg, quantityKg)
}

// Reserve takes the whole available quantity for a contract.
func (l *Lot) Reserve() error {
	if !l.verified {
		return errs.NewInvalidTransitionError("lot", "unverified", string(actionReserve))
	}
	if !l.availableKg.IsPositive() {
		return errs.NewInvalidTransitionError("lot", "empty", string(actionReserve))
	}
	next, err := l.status.next(actionReserve)
	if err != nil {
		return err
	}
	reservedKg := l.availableKg
	l.status = next
	l.availableKg = decimal.Zero
	l.Record("LotReserved", l.id, map[string]any{"quantityKg": reservedKg.String()})
	return nil
}

// Sell commits a reservation.
func (l *Lot) Sell() error {
	next, err := l.status.next(actionSell)
	if err != nil {
		return err
	}
	l.status = next
	l.Record("LotSold", l.id, map[string]any{"quantityKg": l.quantityKg.String()})
	return nil
}

// Release returns a reserved or sold lot to the market with its full quantity.
func (l *Lot) Release() error {
	next, err := l.status.next(actionRelease)
	if err != nil {
		return err
	}
	l.status = next
	l.availableKg = l.quantityKg
	l.Record("LotReleased", l.id, map[string]any{"quantityKg": l.quantityKg.String()})
	return nil
}

// Consume marks a sold lot as physically delivered.
func (l *Lot) Consume() error {
	next, err := l.status.next(actionConsume)
	if err != nil {
		return err
	}
	l.status = next
	l.Record("LotConsumed", l.id, map[string]any{"quantityKg": l.quantityKg.String()})
	return nil
}

func (l *Lot) setIDs(id, cooperativeID, farmerID kernel.UUID) error {
	if err := errors.Join(id.Validate(), cooperativeID.Validate(), farmerID.Validate()); err != nil {
		return err
	}
	l.id = id
	l.cooperativeID = cooperativeID
	l.farmerID = farmerID
	return nil
}

func (l *Lot) setCrop(crop string) error {
	if err := kernel.ValidateRequiredText("crop", crop); err != nil {
		return err
	}
	l.crop = crop
	return nil
}

func (l *Lot) setQuantities(quantityKg, availableKg decimal.Decimal) error {
	if err := errors.Join(
		kernel.ValidateNonNegative("quantityKg", quantityKg),
		kernel.ValidateNonNegative("availableKg", availableKg),
	); err != nil {
		return err
	}
	if availableKg.GreaterThan(quantityKg) {
		return errs.NewValueIsOutOfRangeError("availableKg", availableKg.String(), "0", quantityKg.String())
	}
	l.quantityKg = quantityKg
	l.availableKg = availableKg
	return nil
}

func (l *Lot) setQualityGrade(grade string) error {
	if len(grade) > 8 {
		return errs.NewValueIsInvalidErrorWithCause("qualityGrade is invalid", fmt.Errorf("%q is too long", grade))
	}
	l.qualityGrade = grade
	return nil
}
