package postgres

import (
	"agritrade/internal/adapters/out/postgres/auditrepo"
	"agritrade/internal/adapters/out/postgres/contractrepo"
	"agritrade/internal/adapters/out/postgres/lotrepo"
	"agritrade/internal/adapters/out/postgres/orderrepo"
	"agritrade/internal/adapters/out/postgres/outboxrepo"
	"agritrade/internal/adapters/out/postgres/settlementrepo"
	"agritrade/internal/adapters/out/postgres/storagerepo"
	"agritrade/internal/adapters/out/postgres/transportrepo"

	"gorm.io/gorm"
)

// Models lists every table of the pipeline in creation order.
func Models() []any {
	return []any{
		&lotrepo.LotDTO{},
		&lotrepo.HarvestDeclarationDTO{},
		&orderrepo.ListingDTO{},
		&orderrepo.OrderDTO{},
		&contractrepo.ContractDTO{},
		&contractrepo.ContractLotDTO{},
		&transportrepo.TransporterDTO{},
		&transportrepo.RequestDTO{},
		&storagerepo.FacilityDTO{},
		&storagerepo.BookingDTO{},
		&settlementrepo.LedgerEntryDTO{},
		&settlementrepo.FarmerBalanceDTO{},
		&auditrepo.RecordDTO{},
		&outboxrepo.EventDTO{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
