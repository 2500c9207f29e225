package ports

import (
	"context"

	"agritrade/internal/core/domain/model/audit"
	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/settlement"
)

type LedgerRepository interface {
	Add(ctx context.Context, aggregate *settlement.LedgerEntry) error

	Update(ctx context.Context, aggregate *settlement.LedgerEntry) error

	// GetEscrow returns the contract's escrow entry or errs.ErrObjectNotFound.
	GetEscrow(ctx context.Context, contractID kernel.UUID) (*settlement.LedgerEntry, error)
}

type FarmerBalanceRepository interface {
	Add(ctx context.Context, aggregate *settlement.FarmerBalance) error

	Update(ctx context.Context, aggregate *settlement.FarmerBalance) error

	Get(ctx context.Context, id kernel.UUID) (*settlement.FarmerBalance, error)

	GetByContractID(ctx context.Context, contractID kernel.UUID) ([]*settlement.FarmerBalance, error)

	// GetPending returns up to limit pending balances, oldest first, skipping rows locked by
	// another dispatcher.
	GetPending(ctx context.Context, limit int) ([]*settlement.FarmerBalance, error)
}

type AuditRepository interface {
	Add(ctx context.Context, record *audit.Record) error
}

// OutboxRepository reads domain events written by the unit of work at commit.
type OutboxRepository interface {
	GetUnprocessed(ctx context.Context, limit int) ([]kernel.DomainEvent, error)

	MarkProcessed(ctx context.Context, eventID kernel.UUID) error
}
