package queries

import (
	"errors"
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/settlement"
	"agritrade/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetFarmerBalancesQueryIsNotConstructed = errors.New(
	"GetFarmerBalancesQuery must be created via NewGetFarmerBalancesQuery constructor",
)

// GetFarmerBalancesQuery lists what a farmer is owed or was paid, newest first.
type GetFarmerBalancesQuery struct {
	actor    kernel.Actor
	farmerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetFarmerBalancesQuery(actor kernel.Actor, farmerID kernel.UUID) (GetFarmerBalancesQuery, error) {
	if err := errors.Join(actor.Validate(), farmerID.Validate()); err != nil {
		return GetFarmerBalancesQuery{}, err
	}
	return GetFarmerBalancesQuery{
		actor:    actor,
		farmerID: farmerID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q GetFarmerBalancesQuery) Validate() error {
	return q.guard.Validate(ErrGetFarmerBalancesQueryIsNotConstructed)
}

func (q GetFarmerBalancesQuery) Actor() kernel.Actor   { return q.actor }
func (q GetFarmerBalancesQuery) FarmerID() kernel.UUID { return q.farmerID }

// GetFarmerBalancesQueryResponse carries the balances and the pending and paid totals.
type GetFarmerBalancesQueryResponse struct {
	Balances     []FarmerBalanceView
	PendingTotal decimal.Decimal
	PaidTotal    decimal.Decimal
}

type FarmerBalanceView struct {
	ID                   kernel.UUID
	ContractID           kernel.UUID
	TrackingID           string
	Amount               decimal.Decimal
	Status               settlement.PayoutStatus
	Method               settlement.PaymentMethod
	Reference            string
	TransactionReference string
	FailureReason        string
	PaidAt               *time.Time
	CreatedAt            time.Time
}
