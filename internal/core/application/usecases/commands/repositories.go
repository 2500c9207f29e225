package commands

import (
	"context"

	"agritrade/internal/core/ports"
)

type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	InventoryRepoFactory interface {
		LotRepository() ports.LotRepository
		HarvestDeclarationRepository() ports.HarvestDeclarationRepository
		ListingRepository() ports.ListingRepository
	}

	TradeRepoFactory interface {
		OrderRepository() ports.OrderRepository
		ContractRepository() ports.ContractRepository
	}

	LogisticsRepoFactory interface {
		TransporterRepository() ports.TransporterRepository
		TransportRequestRepository() ports.TransportRequestRepository
		StorageFacilityRepository() ports.StorageFacilityRepository
		StorageBookingRepository() ports.StorageBookingRepository
	}

	SettlementRepoFactory interface {
		LedgerRepository() ports.LedgerRepository
		FarmerBalanceRepository() ports.FarmerBalanceRepository
	}

	AuditRepoFactory interface {
		AuditRepository() ports.AuditRepository
	}

	OutboxUoW interface {
		TxManager
		OutboxRepository() ports.OutboxRepository
	}

	OutboxUoWFactory interface {
		Create() OutboxUoW
	}

	// UoW spans the whole pipeline. Handlers that coordinate several components
	// (contract formation, cancellation, fulfilment) need every repository in one transaction.
	UoW interface {
		TxManager
		InventoryRepoFactory
		TradeRepoFactory
		LogisticsRepoFactory
		SettlementRepoFactory
		AuditRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
