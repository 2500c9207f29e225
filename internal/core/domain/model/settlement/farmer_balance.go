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

type PayoutStatus int

const (
	UnknownPayoutStatus PayoutStatus = iota
	PayoutPending
	PayoutPaid
	PayoutFailed
)

func (s PayoutStatus) String() string {
	switch s {
	case PayoutPending:
		return "Pending"
	case PayoutPaid:
		return "Paid"
	case PayoutFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

func (s PayoutStatus) Validate() error {
	if s < PayoutPending || s > PayoutFailed {
		return errs.NewValueIsInvalidErrorWithCause("payout status is invalid", fmt.Errorf("%d is not a valid payout status", s))
	}
	return nil
}

type PaymentMethod int

const (
	UnknownPaymentMethod PaymentMethod = iota
	MobileMoney
	BankTransfer
)

func (m PaymentMethod) String() string {
	switch m {
	case MobileMoney:
		return "MobileMoney"
	case BankTransfer:
		return "BankTransfer"
	default:
		return "Unknown"
	}
}

func (m PaymentMethod) Validate() error {
	if m != MobileMoney && m != BankTransfer {
		return errs.NewValueIsInvalidErrorWithCause("payment method is invalid", fmt.Errorf("%d is not a valid payment method", m))
	}
	return nil
}

func PaymentMethodFromString(s string) (PaymentMethod, error) {
	switch s {
	case "MobileMoney":
		return MobileMoney, nil
	case "BankTransfer":
		return BankTransfer, nil
	default:
		return UnknownPaymentMethod, errs.NewValueIsInvalidErrorWithCause(
			"payment method is invalid", fmt.Errorf("%q is not a valid payment method", s))
	}
}

// NewPayoutReference builds FARMER-{farmerId}-{yyyyMMddHHmmss}. Retries carry the attempt number.
func NewPayoutReference(farmerID kernel.UUID, now time.Time, attempt int) string {
	ref := fmt.Sprintf("FARMER-%s-%s", farmerID, now.UTC().Format("20060102150405"))
	if attempt > 1 {
		ref = fmt.Sprintf("%s-R%d", ref, attempt)
	}
	return ref
}

var ErrFarmerBalanceIsNotConstructed = errors.New("FarmerBalance must be created via NewFarmerBalance constructor")

// FarmerBalance is what one farmer is owed from one fulfilled contract.
type FarmerBalance struct {
	id                   kernel.UUID
	farmerID             kernel.UUID
	contractID           kernel.UUID
	amount               decimal.Decimal
	status               PayoutStatus
	method               PaymentMethod
	reference            string
	transactionReference string
	failureReason        string
	attempts             int
	paidAt               *time.Time
	createdAt            time.Time
	guard                guard.ConstructorGuard

	kernel.EventRecorder
}

type BalanceParams struct {
	ID         kernel.UUID
	FarmerID   kernel.UUID
	ContractID kernel.UUID
	Amount     decimal.Decimal
	Method     PaymentMethod
}

// BalanceState is the mutable part of a balance restored from storage.
type BalanceState struct {
	Status               PayoutStatus
	Reference            string
	TransactionReference string
	FailureReason        string
	Attempts             int
	PaidAt               *time.Time
	CreatedAt            time.Time
}

func NewFarmerBalance(p BalanceParams, now time.Time) (*FarmerBalance, error) {
	b, err := RestoreFarmerBalance(p, BalanceState{
		Status:    PayoutPending,
		Reference: NewPayoutReference(p.FarmerID, now, 1),
		Attempts:  1,
		CreatedAt: now.UTC(),
	})
	if err != nil {
		return nil, err
	}
	b.record("FarmerPayoutPending")
	return b, nil
}

func RestoreFarmerBalance(p BalanceParams, s BalanceState) (*FarmerBalance, error) {
	if err := errors.Join(
		p.ID.Validate(),
		p.FarmerID.Validate(),
		p.ContractID.Validate(),
		kernel.ValidateNonNegative("amount", p.Amount),
		p.Method.Validate(),
		s.Status.Validate(),
		kernel.ValidateRequiredText("reference", s.Reference),
	); err != nil {
		return nil, err
	}
	return &FarmerBalance{
		id:                   p.ID,
		farmerID:             p.FarmerID,
		contractID:           p.ContractID,
		amount:               p.Amount,
		method:               p.Method,
		status:               s.Status,
		reference:            s.Reference,
		transactionReference: s.TransactionReference,
		failureReason:        s.FailureReason,
		attempts:             s.Attempts,
		paidAt:               s.PaidAt,
		createdAt:            s.CreatedAt,
		guard:                guard.NewConstructorGuard(),
	}, nil
}

func (b *FarmerBalance) Validate() error {
	if b == nil {
		return ErrFarmerBalanceIsNotConstructed
	}
	return b.guard.Validate(ErrFarmerBalanceIsNotConstructed)
}

func (b *FarmerBalance) ID() kernel.UUID              { return b.id }
func (b *FarmerBalance) FarmerID() kernel.UUID        { return b.farmerID }
func (b *FarmerBalance) ContractID() kernel.UUID      { return b.contractID }
func (b *FarmerBalance) Amount() decimal.Decimal      { return b.amount }
func (b *FarmerBalance) Status() PayoutStatus         { return b.status }
func (b *FarmerBalance) Method() PaymentMethod        { return b.method }
func (b *FarmerBalance) Reference() string            { return b.reference }
func (b *FarmerBalance) TransactionReference() string { return b.transactionReference }
func (b *FarmerBalance) FailureReason() string        { return b.failureReason }
func (b *FarmerBalance) Attempts() int                { return b.attempts }
func (b *FarmerBalance) PaidAt() *time.Time           { return b.paidAt }
func (b *FarmerBalance) CreatedAt() time.Time         { return b.createdAt }

// MarkPaid records the gateway's transaction reference.
func (b *FarmerBalance) MarkPaid(transactionReference string, now time.Time) error {
	if b.status != PayoutPending {
		return errs.NewInvalidTransitionError("farmer balance", b.status.String(), "mark paid")
	}
	if err := kernel.ValidateRequiredText("transactionReference", transactionReference); err != nil {
		return err
	}
	b.status = PayoutPaid
	b.transactionReference = transactionReference
	at := now.UTC()
	b.paidAt = &at
	b.failureReason = ""
	b.record("FarmerPaid")
	return nil
}

func (b *FarmerBalance) MarkFailed(reason string) error {
	if b.status != PayoutPending {
		return errs.NewInvalidTransitionError("farmer balance", b.status.String(), "mark failed")
	}
	b.status = PayoutFailed
	b.failureReason = reason
	b.record("FarmerPayoutFailed")
	return nil
}

// Retry puts a failed payout back in the queue under a fresh reference.
func (b *FarmerBalance) Retry(now time.Time) error {
	if b.status != PayoutFailed {
		return errs.NewInvalidTransitionError("farmer balance", b.status.String(), "retry")
	}
	b.attempts++
	b.status = PayoutPending
	b.reference = NewPayoutReference(b.farmerID, now, b.attempts)
	b.record("FarmerPayoutPending")
	return nil
}

func (b *FarmerBalance) record(name string) {
	b.Record(name, b.id, map[string]any{
		"farmerId":   b.farmerID.String(),
		"contractId": b.contractID.String(),
		"amount":     b.amount.String(),
		"reference":  b.reference,
	})
}
