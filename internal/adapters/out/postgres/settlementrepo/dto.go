// Package settlementrepo persists the contract money ledger and the farmer balances paid out of it.
package settlementrepo

import (
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/settlement"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerEntryDTO is one money movement. The partial unique index allows a single escrow per contract.
type LedgerEntryDTO struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ContractID uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_ledger_entries_escrow,where:entry_type = 1"`
	EntryType  int             `gorm:"type:smallint;not null"`
	Amount     decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Status     int             `gorm:"type:smallint;not null"`
	Reference  string          `gorm:"type:varchar(100);not null"`
	CreatedAt  time.Time       `gorm:"type:timestamptz;not null"`
}

func (LedgerEntryDTO) TableName() string {
	return "ledger_entries"
}

// FarmerBalanceDTO is one farmer's share of a contract. A contract pays each farmer once.
type FarmerBalanceDTO struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey"`
	FarmerID             uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_farmer_balances_contract_farmer,priority:2"`
	ContractID           uuid.UUID       `gorm:"type:uuid;not null;index;uniqueIndex:idx_farmer_balances_contract_farmer,priority:1"`
	Amount               decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	Status               int             `gorm:"type:smallint;not null;index"`
	Method               int             `gorm:"type:smallint;not null"`
	Reference            string          `gorm:"type:varchar(100);not null"`
	TransactionReference string          `gorm:"type:varchar(100)"`
	FailureReason        string          `gorm:"type:text"`
	Attempts             int             `gorm:"not null"`
	PaidAt               *time.Time      `gorm:"type:timestamptz"`
	CreatedAt            time.Time       `gorm:"type:timestamptz;not null"`
}

func (FarmerBalanceDTO) TableName() string {
	return "farmer_balances"
}

func entryFromDomain(e *settlement.LedgerEntry) LedgerEntryDTO {
	return LedgerEntryDTO{
		ID:         e.ID().Bytes(),
		ContractID: e.ContractID().Bytes(),
		EntryType:  int(e.Type()),
		Amount:     e.Amount(),
		Status:     int(e.Status()),
		Reference:  e.Reference(),
		CreatedAt:  e.CreatedAt(),
	}
}

func entryToDomain(dto LedgerEntryDTO) (*settlement.LedgerEntry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	contractID, err := kernel.UUIDFromBytes(dto.ContractID[:])
	if err != nil {
		return nil, err
	}
	return settlement.RestoreLedgerEntry(
		id, contractID,
		settlement.EntryType(dto.EntryType),
		dto.Amount,
		settlement.EntryStatus(dto.Status),
		dto.Reference,
		dto.CreatedAt,
	)
}

func balanceFromDomain(b *settlement.FarmerBalance) FarmerBalanceDTO {
	return FarmerBalanceDTO{
		ID:                   b.ID().Bytes(),
		FarmerID:             b.FarmerID().Bytes(),
		ContractID:           b.ContractID().Bytes(),
		Amount:               b.Amount(),
		Status:               int(b.Status()),
		Method:               int(b.Method()),
		Reference:            b.Reference(),
		TransactionReference: b.TransactionReference(),
		FailureReason:        b.FailureReason(),
		Attempts:             b.Attempts(),
		PaidAt:               b.PaidAt(),
		CreatedAt:            b.CreatedAt(),
	}
}

func balanceToDomain(dto FarmerBalanceDTO) (*settlement.FarmerBalance, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	farmerID, err := kernel.UUIDFromBytes(dto.FarmerID[:])
	if err != nil {
		return nil, err
	}
	contractID, err := kernel.UUIDFromBytes(dto.ContractID[:])
	if err != nil {
		return nil, err
	}

	return settlement.RestoreFarmerBalance(settlement.BalanceParams{
		ID:         id,
		FarmerID:   farmerID,
		ContractID: contractID,
		Amount:     dto.Amount,
		Method:     settlement.PaymentMethod(dto.Method),
	}, settlement.BalanceState{
		Status:               settlement.PayoutStatus(dto.Status),
		Reference:            dto.Reference,
		TransactionReference: dto.TransactionReference,
		FailureReason:        dto.FailureReason,
		Attempts:             dto.Attempts,
		PaidAt:               dto.PaidAt,
		CreatedAt:            dto.CreatedAt,
	})
}
