// Package queries contains the read side of the pipeline.
// Handlers run raw SQL against the tables written by the repositories and
// return flat read models; they never load aggregates.
package queries

import (
	"errors"
	"time"

	"agritrade/internal/core/domain/model/contract"
	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/settlement"
	"agritrade/internal/core/domain/model/transport"
	"agritrade/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrGetContractQueryIsNotConstructed = errors.New(
	"GetContractQuery must be created via NewGetContractQuery constructor",
)

// GetContractQuery reads one contract with its lots, transport legs and escrow.
//
// Example:
//
//	query, err := NewGetContractQuery(actor, contractID)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
type GetContractQuery struct {
	actor      kernel.Actor
	contractID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetContractQuery(actor kernel.Actor, contractID kernel.UUID) (GetContractQuery, error) {
	if err := errors.Join(actor.Validate(), contractID.Validate()); err != nil {
		return GetContractQuery{}, err
	}
	return GetContractQuery{
		actor:      actor,
		contractID: contractID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q GetContractQuery) Validate() error {
	return q.guard.Validate(ErrGetContractQueryIsNotConstructed)
}

func (q GetContractQuery) Actor() kernel.Actor     { return q.actor }
func (q GetContractQuery) ContractID() kernel.UUID { return q.contractID }

type GetContractQueryResponse struct {
	ID            kernel.UUID
	OrderID       kernel.UUID
	BuyerID       kernel.UUID
	CooperativeID kernel.UUID
	TrackingID    string
	AgreedPrice   decimal.Decimal
	Status        contract.Status
	CreatedAt     time.Time
	Lots          []ContractLotView
	Transport     []TransportLegView
	Escrow        *EscrowView
}

type ContractLotView struct {
	LotID        kernel.UUID
	FarmerID     kernel.UUID
	QuantityKg   decimal.Decimal
	Crop         string
	QualityGrade string
}

type TransportLegView struct {
	ID            kernel.UUID
	TransporterID *kernel.UUID
	Status        transport.Status
	LoadKg        decimal.Decimal
	PickupStart   time.Time
	PickupEnd     time.Time
}

type EscrowView struct {
	ID        kernel.UUID
	Amount    decimal.Decimal
	Status    settlement.EntryStatus
	Reference string
}
