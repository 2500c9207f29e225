package settlement

import (
	"errors"
	"fmt"
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/errs"
	"agritrade/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

type EntryType int

const (
	UnknownEntryType EntryType = iota
	Escrow
	Payout
	Fee
)

func (t EntryType) String() string {
	switch t {
	case Escrow:
		return "Escrow"
	case Payout:
		return "Payout"
	case Fee:
		return "Fee"
	default:
		return "Unknown"
	}
}

func (t EntryType) Validate() error {
	if t < Escrow || t > Fee {
		return errs.NewValueIsInvalidErrorWithCause("entry type is invalid", fmt.Errorf("%d is not a valid entry type", t))
	}
	return nil
}

type EntryStatus int

const (
	UnknownEntryStatus EntryStatus = iota
	EntryPending
	EntrySettled
	EntryFailed
)

func (s EntryStatus) String() string {
	switch s {
	case EntryPending:
		return "Pending"
	case EntrySettled:
		return "Settled"
	case EntryFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

func (s EntryStatus) Validate() error {
	if s < EntryPending || s > EntryFailed {
		return errs.NewValueIsInvalidErrorWithCause("entry status is invalid", fmt.Errorf("%d is not a valid entry status", s))
	}
	return nil
}

var ErrLedgerEntryIsNotConstructed = errors.New("LedgerEntry must be created via NewLedgerEntry constructor")

// LedgerEntry is one movement of money for a contract.
type LedgerEntry struct {
	id         kernel.UUID
	contractID kernel.UUID
	entryType  EntryType
	amount     decimal.Decimal
	status     EntryStatus
	reference  string
	createdAt  time.Time
	guard      guard.ConstructorGuard

	kernel.EventRecorder
}

func NewLedgerEntry(
	id, contractID kernel.UUID,
	entryType EntryType,
	amount decimal.Decimal,
	reference string,
	now time.Time,
) (*LedgerEntry, error) {
	e, err := RestoreLedgerEntry(id, contractID, entryType, amount, EntryPending, reference, now.UTC())
	if err != nil {
		return nil, err
	}
	if entryType == Escrow {
		e.Record("EscrowInitiated", contractID, map[string]any{
			"entryId": id.String(),
			"amount":  amount.String(),
		})
	}
	return e, nil
}

func RestoreLedgerEntry(
	id, contractID kernel.UUID,
	entryType EntryType,
	amount decimal.Decimal,
	status EntryStatus,
	reference string,
	createdAt time.Time,
) (*LedgerEntry, error) {
	if err := errors.Join(
		id.Validate(),
		contractID.Validate(),
		entryType.Validate(),
		kernel.ValidatePositive("amount", amount),
		status.Validate(),
		kernel.ValidateRequiredText("reference", reference),
	); err != nil {
		return nil, err
	}
	return &LedgerEntry{
		id:         id,
		contractID: contractID,
		entryType:  entryType,
		amount:     amount,
		status:     status,
		reference:  reference,
		createdAt:  createdAt,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (e *LedgerEntry) Validate() error {
	if e == nil {
		return ErrLedgerEntryIsNotConstructed
	}
	return e.guard.Validate(ErrLedgerEntryIsNotConstructed)
}

func (e *LedgerEntry) ID() kernel.UUID         { return e.id }
func (e *LedgerEntry) ContractID() kernel.UUID { return e.contractID }
func (e *LedgerEntry) Type() EntryType         { return e.entryType }
func (e *LedgerEntry) Amount() decimal.Decimal { return e.amount }
func (e *LedgerEntry) Status() EntryStatus     { return e.status }
func (e *LedgerEntry) Reference() string       { return e.reference }
func (e *LedgerEntry) CreatedAt() time.Time    { return e.createdAt }

func (e *LedgerEntry) Settle() error {
	if e.status != EntryPending {
		return errs.NewInvalidTransitionError("ledger entry", e.status.String(), "settle")
	}
	e.status = EntrySettled
	if e.entryType == Escrow {
		e.Record("EscrowSettled", e.contractID, map[string]any{
			"entryId": e.id.String(),
			"amount":  e.amount.String(),
		})
	}
	return nil
}

func (e *LedgerEntry) Fail() error {
	if e.status != EntryPending {
		return errs.NewInvalidTransitionError("ledger entry", e.status.String(), "fail")
	}
	e.status = EntryFailed
	if e.entryType == Escrow {
		e.Record("EscrowFailed", e.contractID, map[string]any{
			"entryId": e.id.String(),
			"amount":  e.amount.String(),
		})
	}
	return nil
}
