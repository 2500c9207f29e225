package services

import (
	"context"
	"errors"
	"fmt"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/lot"
	"agritrade/internal/pkg/errs"

	"github.com/shopspring/decimal"
)

const DefaultReserveAttempts = 3

var (
	ErrInsufficientQuantity = errors.New("insufficient quantity")
	ErrLotUnavailable       = errors.New("lot not available")
	ErrLotMismatch          = errs.NewValueIsInvalidError("lot does not match the order cooperative or crop")
	ErrDuplicateLot         = errs.NewValueIsInvalidError("lot listed twice")
	ErrEmptyReservation     = errs.NewValueIsRequiredError("lot ids")
)

// LotStore is the slice of the lot repository the ledger needs.
// Reserve is a compare-and-swap: it must fail with errs.ErrVersionIsInvalid when the
// stored lot no longer has expectedAvailableKg at the lot's version.
type LotStore interface {
	Get(ctx context.Context, id kernel.UUID) (*lot.Lot, error)
	Reserve(ctx context.Context, l *lot.Lot, expectedAvailableKg decimal.Decimal) error
	Update(ctx context.Context, l *lot.Lot) error
}

// ReservationRequest asks for lots of one cooperative and crop covering RequiredKg.
type ReservationRequest struct {
	LotIDs        []kernel.UUID
	RequiredKg    decimal.Decimal
	CooperativeID kernel.UUID
	Crop          string
}

// ReservedLot is a lot taken by a reservation, in request order.
type ReservedLot struct {
	LotID      kernel.UUID
	FarmerID   kernel.UUID
	QuantityKg decimal.Decimal
}

// ReservationToken proves a successful Reserve and is handed to Commit.
type ReservationToken struct {
	lots []ReservedLot
}

func (t ReservationToken) Lots() []ReservedLot {
	out := make([]ReservedLot, len(t.lots))
	copy(out, t.lots)
	return out
}

func (t ReservationToken) LotIDs() []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(t.lots))
	for _, l := range t.lots {
		ids = append(ids, l.LotID)
	}
	return ids
}

func (t ReservationToken) TotalKg() decimal.Decimal {
	total := decimal.Zero
	for _, l := range t.lots {
		total = total.Add(l.QuantityKg)
	}
	return total
}

// InventoryLedger reserves, commits, releases and consumes lots on behalf of contracts.
type InventoryLedger struct {
	maxAttempts int
}

func NewInventoryLedger(maxAttempts int) InventoryLedger {
	if maxAttempts < 1 {
		maxAttempts = DefaultReserveAttempts
	}
	return InventoryLedger{maxAttempts: maxAttempts}
}

// Reserve takes every requested lot or none. Lots reserved before a failure are
// released again before returning; the caller's transaction rollback covers the rest.
func (l InventoryLedger) Reserve(ctx context.Context, store LotStore, req ReservationRequest) (ReservationToken, error) {
	lots, err := l.load(ctx, store, req)
	if err != nil {
		return ReservationToken{}, err
	}

	reserved := make([]ReservedLot, 0, len(lots))
	for _, candidate := range lots {
		taken, err := l.reserveOne(ctx, store, candidate)
		if err != nil {
			if cerr := l.compensate(ctx, store, reserved); cerr != nil {
				return ReservationToken{}, errors.Join(err, cerr)
			}
			return ReservationToken{}, err
		}
		reserved = append(reserved, taken)
	}
	return ReservationToken{lots: reserved}, nil
}

// Commit marks the reserved lots sold.
func (l InventoryLedger) Commit(ctx context.Context, store LotStore, token ReservationToken) error {
	return l.apply(ctx, store, token.LotIDs(), (*lot.Lot).Sell)
}

// Release returns reserved or sold lots to the market. Lots already listed are skipped.
func (l InventoryLedger) Release(ctx context.Context, store LotStore, lotIDs []kernel.UUID) error {
	return l.apply(ctx, store, lotIDs, func(lt *lot.Lot) error {
		if lt.Status() == lot.Listed {
			return errSkip
		}
		return lt.Release()
	})
}

// Consume marks sold lots as delivered.
func (l InventoryLedger) Consume(ctx context.Context, store LotStore, lotIDs []kernel.UUID) error {
	return l.apply(ctx, store, lotIDs, (*lot.Lot).Consume)
}

var errSkip = errors.New("skip")

func (l InventoryLedger) apply(ctx context.Context, store LotStore, lotIDs []kernel.UUID, mutate func(*lot.Lot) error) error {
	for _, id := range lotIDs {
		lt, err := store.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := mutate(lt); err != nil {
			if errors.Is(err, errSkip) {
				continue
			}
			return err
		}
		if err := store.Update(ctx, lt); err != nil {
			return err
		}
	}
	return nil
}

func (l InventoryLedger) load(ctx context.Context, store LotStore, req ReservationRequest) ([]*lot.Lot, error) {
	if len(req.LotIDs) == 0 {
		return nil, ErrEmptyReservation
	}
	if err := kernel.ValidatePositive("requiredKg", req.RequiredKg); err != nil {
		return nil, err
	}

	seen := make(map[kernel.UUID]struct{}, len(req.LotIDs))
	lots := make([]*lot.Lot, 0, len(req.LotIDs))
	available := decimal.Zero

	for _, id := range req.LotIDs {
		if _, dup := seen[id]; dup {
			return nil, ErrDuplicateLot
		}
		seen[id] = struct{}{}

		lt, err := store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		if !lt.CooperativeID().IsEqual(req.CooperativeID) || lt.Crop() != req.Crop {
			return nil, fmt.Errorf("%w: %s", ErrLotMismatch, id)
		}
		if !lt.IsAvailable() {
			return nil, fmt.Errorf("%w: %s is %s", ErrLotUnavailable, id, lt.Status())
		}
		available = available.Add(lt.AvailableKg())
		lots = append(lots, lt)
	}

	if available.LessThan(req.RequiredKg) {
		return nil, fmt.Errorf("%w: %s kg available, %s kg required", ErrInsufficientQuantity, available, req.RequiredKg)
	}
	return lots, nil
}

func (l InventoryLedger) reserveOne(ctx context.Context, store LotStore, lt *lot.Lot) (ReservedLot, error) {
	var err error
	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		if attempt > 1 {
			if lt, err = store.Get(ctx, lt.ID()); err != nil {
				return ReservedLot{}, err
			}
		}
		if !lt.IsAvailable() {
			return ReservedLot{}, fmt.Errorf("%w: %s is %s", ErrLotUnavailable, lt.ID(), lt.Status())
		}

		expected := lt.AvailableKg()
		if err = lt.Reserve(); err != nil {
			return ReservedLot{}, err
		}
		err = store.Reserve(ctx, lt, expected)
		if err == nil {
			return ReservedLot{LotID: lt.ID(), FarmerID: lt.FarmerID(), QuantityKg: expected}, nil
		}
		if !errors.Is(err, errs.ErrVersionIsInvalid) {
			return ReservedLot{}, err
		}
	}
	return ReservedLot{}, fmt.Errorf("%w: %s (%w)", ErrLotUnavailable, lt.ID(), err)
}

func (l InventoryLedger) compensate(ctx context.Context, store LotStore, reserved []ReservedLot) error {
	ids := make([]kernel.UUID, 0, len(reserved))
	for _, r := range reserved {
		ids = append(ids, r.LotID)
	}
	return l.Release(ctx, store, ids)
}
