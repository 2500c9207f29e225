// Package listing models a cooperative's standing offer for a crop on the market.
package listing

import (
	"errors"
	"fmt"
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/errs"
	"agritrade/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

type Status int

const (
	Unknown Status = iota
	Active
	Sold
	Expired
	Cancelled
)

func (s Status) String() string {
	switch s {
	case Active:
		return "Active"
	case Sold:
		return "Sold"
	case Expired:
		return "Expired"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

func (s Status) Validate() error {
	if s < Active || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

var (
	ErrListingIsNotConstructed = errors.New("Listing must be created via NewListing constructor")
	ErrCropMismatch            = errors.New("order crop does not match listing crop")
	ErrQuantityExceedsListing  = errors.New("order quantity exceeds listed quantity")
	ErrOfferBelowMinimum       = errors.New("price offer is below the listing minimum")
)

// Listing is an offer of quantityKg of one crop at minimumPrice per kilogram,
// open during window.
type Listing struct {
	id            kernel.UUID
	cooperativeID kernel.UUID
	crop          string
	quantityKg    decimal.Decimal
	minimumPrice  decimal.Decimal
	window        kernel.TimeWindow
	status        Status
	guard         guard.ConstructorGuard

	kernel.EventRecorder
}

func NewListing(
	id, cooperativeID kernel.UUID,
	crop string,
	quantityKg, minimumPrice decimal.Decimal,
	window kernel.TimeWindow,
) (*Listing, error) {
	l := &Listing{status: Active, guard: guard.NewConstructorGuard()}
	if err := l.set(id, cooperativeID, crop, quantityKg, minimumPrice, window); err != nil {
		return nil, err
	}
	l.Record("ListingCreated", id, map[string]any{
		"cooperativeId": cooperativeID.String(),
		"crop":          crop,
		"quantityKg":    quantityKg.String(),
	})
	return l, nil
}

func RestoreListing(
	id, cooperativeID kernel.UUID,
	crop string,
	quantityKg, minimumPrice decimal.Decimal,
	window kernel.TimeWindow,
	status Status,
) (*Listing, error) {
	l := &Listing{guard: guard.NewConstructorGuard()}
	if err := errors.Join(
		l.set(id, cooperativeID, crop, quantityKg, minimumPrice, window),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	l.status = status
	return l, nil
}

func (l *Listing) Validate() error {
	if l == nil {
		return ErrListingIsNotConstructed
	}
	return l.guard.Validate(ErrListingIsNotConstructed)
}

func (l *Listing) ID() kernel.UUID               { return l.id }
func (l *Listing) CooperativeID() kernel.UUID    { return l.cooperativeID }
func (l *Listing) Crop() string                  { return l.crop }
func (l *Listing) QuantityKg() decimal.Decimal   { return l.quantityKg }
func (l *Listing) MinimumPrice() decimal.Decimal { return l.minimumPrice }
func (l *Listing) Window() kernel.TimeWindow     { return l.window }
func (l *Listing) Status() Status                { return l.status }

// CheckOrder verifies that an order for quantityKg fits the listing at now.
// priceOffer and the listing minimum are both prices per kg.
func (l *Listing) CheckOrder(crop string, quantityKg, priceOffer decimal.Decimal, now time.Time) error {
	if l.status != Active || !l.window.Contains(now) {
		return errs.NewInvalidTransitionError("listing", l.status.String(), "take order")
	}
	if crop != l.crop {
		return ErrCropMismatch
	}
	if quantityKg.GreaterThan(l.quantityKg) {
		return ErrQuantityExceedsListing
	}
	if priceOffer.LessThan(l.minimumPrice) {
		return ErrOfferBelowMinimum
	}
	return nil
}

// Allocate decrements the listed quantity when a contract is formed against it.
// A listing whose quantity reaches zero is sold.
func (l *Listing) Allocate(quantityKg decimal.Decimal) error {
	if l.status != Active {
		return errs.NewInvalidTransitionError("listing", l.status.String(), "allocate")
	}
	remaining := l.quantityKg.Sub(quantityKg)
	if !remaining.IsPositive() {
		remaining = decimal.Zero
		l.status = Sold
		l.Record("ListingSold", l.id, nil)
	}
	l.quantityKg = remaining
	return nil
}

func (l *Listing) Cancel() error {
	if l.status != Active {
		return errs.NewInvalidTransitionError("listing", l.status.String(), "cancel")
	}
	l.status = Cancelled
	l.Record("ListingCancelled", l.id, nil)
	return nil
}

// Expire closes an active listing whose window has ended at now.
func (l *Listing) Expire(now time.Time) error {
	if l.status != Active || !l.window.HasEnded(now) {
		return errs.NewInvalidTransitionError("listing", l.status.String(), "expire")
	}
	l.status = Expired
	l.Record("ListingExpired", l.id, nil)
	return nil
}

func (l *Listing) set(
	id, cooperativeID kernel.UUID,
	crop string,
	quantityKg, minimumPrice decimal.Decimal,
	window kernel.TimeWindow,
) error {
	if err := errors.Join(
		id.Validate(),
		cooperativeID.Validate(),
		kernel.ValidateRequiredText("crop", crop),
		kernel.ValidateNonNegative("quantityKg", quantityKg),
		kernel.ValidateNonNegative("minimumPrice", minimumPrice),
		window.Validate(),
	); err != nil {
		return err
	}
	l.id = id
	l.cooperativeID = cooperativeID
	l.crop = crop
	l.quantityKg = quantityKg
	l.minimumPrice = minimumPrice
	l.window = window
	return nil
}
