// Package contract holds the Contract aggregate: the binding agreement formed from an
// accepted order, which owns its ContractLot links and drives logistics and settlement.
package contract
