package services

import (
	"errors"

	"agritrade/internal/core/domain/model/contract"
	"agritrade/internal/core/domain/model/kernel"

	"github.com/shopspring/decimal"
)

var ErrNothingToSettle = errors.New("contract has no lot quantity to settle")

// FarmerShare is the part of a contract's price owed to one farmer.
type FarmerShare struct {
	FarmerID   kernel.UUID
	QuantityKg decimal.Decimal
	Amount     decimal.Decimal
}

// SettlementCalculator splits a contract's agreed price between the farmers whose
// lots it consumed, pro rata to kilograms.
type SettlementCalculator struct {
	scale int32
}

// NewSettlementCalculator truncates shares to scale decimal places, the currency's
// smallest unit (0 for RWF).
func NewSettlementCalculator(scale int32) SettlementCalculator {
	return SettlementCalculator{scale: scale}
}

// Split returns one share per farmer in the order farmers first appear in lots.
// Shares are rounded down and the last farmer takes the remainder, so the amounts
// always sum to total.
func (s SettlementCalculator) Split(total decimal.Decimal, lots []contract.ContractLot) ([]FarmerShare, error) {
	if err := kernel.ValidatePositive("total", total); err != nil {
		return nil, err
	}

	index := make(map[kernel.UUID]int)
	shares := make([]FarmerShare, 0)
	totalKg := decimal.Zero

	for _, cl := range lots {
		i, ok := index[cl.FarmerID()]
		if !ok {
			i = len(shares)
			index[cl.FarmerID()] = i
			shares = append(shares, FarmerShare{FarmerID: cl.FarmerID(), QuantityKg: decimal.Zero})
		}
		shares[i].QuantityKg = shares[i].QuantityKg.Add(cl.QuantityKg())
		totalKg = totalKg.Add(cl.QuantityKg())
	}

	if !totalKg.IsPositive() {
		return nil, ErrNothingToSettle
	}

	allocated := decimal.Zero
	for i := range shares {
		if i == len(shares)-1 {
			shares[i].Amount = total.Sub(allocated)
			break
		}
		shares[i].Amount = total.Mul(shares[i].QuantityKg).Div(totalKg).Truncate(s.scale)
		allocated = allocated.Add(shares[i].Amount)
	}
	return shares, nil
}
