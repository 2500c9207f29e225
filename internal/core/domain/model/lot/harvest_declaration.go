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

// DeclarationStatus tracks the cooperative review of a farmer's harvest declaration.
type DeclarationStatus int

const (
	DeclarationUnknown DeclarationStatus = iota
	DeclarationPending
	DeclarationApproved
	DeclarationRejected
)

func (s DeclarationStatus) String() string {
	switch s {
	case DeclarationPending:
		return "Pending"
	case DeclarationApproved:
		return "Approved"
	case DeclarationRejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

func (s DeclarationStatus) Validate() error {
	if s < DeclarationPending || s > DeclarationRejected {
		return errs.NewValueIsInvalidErrorWithCause("declaration status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

var ErrHarvestDeclarationIsNotConstructed = errors.New(
	"HarvestDeclaration must be created via NewHarvestDeclaration constructor")

// HarvestDeclaration is a farmer's announcement of an upcoming harvest.
// Approval by the cooperative creates a verified lot.
type HarvestDeclaration struct {
	id                  kernel.UUID
	farmerID            kernel.UUID
	cooperativeID       kernel.UUID
	crop                string
	expectedQuantityKg  decimal.Decimal
	expectedHarvestDate time.Time
	qualityGrade        string
	status              DeclarationStatus
	lotID               *kernel.UUID
	reviewNote          string
	guard               guard.ConstructorGuard

	kernel.EventRecorder
}

func NewHarvestDeclaration(
	id, farmerID, cooperativeID kernel.UUID,
	crop string,
	expectedQuantityKg decimal.Decimal,
	expectedHarvestDate time.Time,
	qualityGrade string,
) (*HarvestDeclaration, error) {
	d := &HarvestDeclaration{
		status: DeclarationPending,
		guard:  guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		id.Validate(),
		farmerID.Validate(),
		cooperativeID.Validate(),
		kernel.ValidateRequiredText("crop", crop),
		kernel.ValidatePositive("expectedQuantityKg", expectedQuantityKg),
	); err != nil {
		return nil, err
	}
	if expectedHarvestDate.IsZero() {
		return nil, errs.NewValueIsRequiredError("expectedHarvestDate")
	}

	d.id = id
	d.farmerID = farmerID
	d.cooperativeID = cooperativeID
	d.crop = crop
	d.expectedQuantityKg = expectedQuantityKg
	d.expectedHarvestDate = expectedHarvestDate
	d.qualityGrade = qualityGrade

	d.Record("HarvestDeclared", d.id, map[string]any{
		"farmerId":           farmerID.String(),
		"cooperativeId":      cooperativeID.String(),
		"crop":               crop,
		"expectedQuantityKg": expectedQuantityKg.String(),
	})
	return d, nil
}

func RestoreHarvestDeclaration(
	id, farmerID, cooperativeID kernel.UUID,
	crop string,
	expectedQuantityKg decimal.Decimal,
	expectedHarvestDate time.Time,
	qualityGrade string,
	status DeclarationStatus,
	lotID *kernel.UUID,
	reviewNote string,
) (*HarvestDeclaration, error) {
	d, err := NewHarvestDeclaration(id, farmerID, cooperativeID, crop, expectedQuantityKg, expectedHarvestDate, qualityGrade)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}
	d.ClearDomainEvents()
	d.status = status
	d.lotID = lotID
	d.reviewNote = reviewNote
	return d, nil
}

func (d *HarvestDeclaration) Validate() error {
	if d == nil {
		return ErrHarvestDeclarationIsNotConstructed
	}
	return d.guard.Validate(ErrHarvestDeclarationIsNotConstructed)
}

func (d *HarvestDeclaration) ID() kernel.UUID                     { return d.id }
func (d *HarvestDeclaration) FarmerID() kernel.UUID               { return d.farmerID }
func (d *HarvestDeclaration) CooperativeID() kernel.UUID          { return d.cooperativeID }
func (d *HarvestDeclaration) Crop() string                        { return d.crop }
func (d *HarvestDeclaration) ExpectedQuantityKg() decimal.Decimal { return d.expectedQuantityKg }
func (d *HarvestDeclaration) ExpectedHarvestDate() time.Time      { return d.expectedHarvestDate }
func (d *HarvestDeclaration) QualityGrade() string                { return d.qualityGrade }
func (d *HarvestDeclaration) Status() DeclarationStatus           { return d.status }
func (d *HarvestDeclaration) LotID() *kernel.UUID                 { return d.lotID }
func (d *HarvestDeclaration) ReviewNote() string                  { return d.reviewNote }

// Approve turns the declaration into a verified, listed lot. The measured quantity
// replaces the expected one when it is provided.
func (d *HarvestDeclaration) Approve(measuredKg decimal.Decimal) (*Lot, error) {
	if d.status != DeclarationPending {
		return nil, errs.NewInvalidTransitionError("harvest declaration", d.status.String(), "approve")
	}

	quantity := d.expectedQuantityKg
	if measuredKg.IsPositive() {
		quantity = measuredKg
	}

	l, err := NewLot(kernel.NewUUID(), d.cooperativeID, d.farmerID, d.crop, quantity, d.qualityGrade,
		d.expectedHarvestDate, true)
	if err != nil {
		return nil, err
	}

	id := l.ID()
	d.lotID = &id
	d.status = DeclarationApproved
	d.Record("HarvestApproved", d.id, map[string]any{
		"lotId":      id.String(),
		"quantityKg": quantity.String(),
	})
	return l, nil
}

func (d *HarvestDeclaration) Reject(note string) error {
	if d.status != DeclarationPending {
		return errs.NewInvalidTransitionError("harvest declaration", d.status.String(), "reject")
	}
	d.status = DeclarationRejected
	d.reviewNote = note
	d.Record("HarvestRejected", d.id, map[string]any{"note": note})
	return nil
}
