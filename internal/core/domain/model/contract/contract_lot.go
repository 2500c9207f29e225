package contract

import (
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrContractLotIsNotConstructed = errors.New("ContractLot must be created via NewContractLot constructor")

// ContractLot links a contract to one lot it consumes. Position keeps the order
// in which lots were attached; settlement relies on it.
type ContractLot struct {
	lotID      kernel.UUID
	farmerID   kernel.UUID
	quantityKg decimal.Decimal
	position   int
	guard      guard.ConstructorGuard
}

func NewContractLot(lotID, farmerID kernel.UUID, quantityKg decimal.Decimal, position int) (ContractLot, error) {
	if err := errors.Join(
		lotID.Validate(),
		farmerID.Validate(),
		kernel.ValidatePositive("quantityKg", quantityKg),
	); err != nil {
		return ContractLot{}, err
	}
	return ContractLot{
		lotID:      lotID,
		farmerID:   farmerID,
		quantityKg: quantityKg,
		position:   position,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (cl ContractLot) Validate() error {
	return cl.guard.Validate(ErrContractLotIsNotConstructed)
}

func (cl ContractLot) LotID() kernel.UUID          { return cl.lotID }
func (cl ContractLot) FarmerID() kernel.UUID       { return cl.farmerID }
func (cl ContractLot) QuantityKg() decimal.Decimal { return cl.quantityKg }
func (cl ContractLot) Position() int               { return cl.position }
