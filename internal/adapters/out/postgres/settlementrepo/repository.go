package settlementrepo

import (
	"context"
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/settlement"
	"agritrade/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormLedgerRepository implements LedgerRepository using GORM.
type GormLedgerRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormLedgerRepository(db *gorm.DB, tracker aggregateTracker) *GormLedgerRepository {
	return &GormLedgerRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormLedgerRepository) Add(ctx context.Context, aggregate *settlement.LedgerEntry) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := entryFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the entry status. Amount and reference are fixed at creation.
func (r *GormLedgerRepository) Update(ctx context.Context, aggregate *settlement.LedgerEntry) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&LedgerEntryDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Update("status", int(aggregate.Status()))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("ledger entry", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// GetEscrow locks the escrow row until the transaction ends, so settlement and the
// escrow transitions of one contract run one at a time.
func (r *GormLedgerRepository) GetEscrow(ctx context.Context, contractID kernel.UUID) (*settlement.LedgerEntry, error) {
	if err := contractID.Validate(); err != nil {
		return nil, err
	}

	var dto LedgerEntryDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "contract_id = ? AND entry_type = ?", contractID.Bytes(), int(settlement.Escrow)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("escrow", contractID.String())
		}
		return nil, err
	}

	return entryToDomain(dto)
}

// GormFarmerBalanceRepository implements FarmerBalanceRepository using GORM.
type GormFarmerBalanceRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormFarmerBalanceRepository(db *gorm.DB, tracker aggregateTracker) *GormFarmerBalanceRepository {
	return &GormFarmerBalanceRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormFarmerBalanceRepository) Add(ctx context.Context, aggregate *settlement.FarmerBalance) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := balanceFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewVersionIsInvalidErrorWithCause("farmer balance", err)
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormFarmerBalanceRepository) Update(ctx context.Context, aggregate *settlement.FarmerBalance) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := balanceFromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&FarmerBalanceDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("farmer balance", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormFarmerBalanceRepository) Get(ctx context.Context, id kernel.UUID) (*settlement.FarmerBalance, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto FarmerBalanceDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("farmer balance", id.String())
		}
		return nil, err
	}

	return balanceToDomain(dto)
}

func (r *GormFarmerBalanceRepository) GetByContractID(ctx context.Context, contractID kernel.UUID) ([]*settlement.FarmerBalance, error) {
	return r.find(r.db.WithContext(ctx).Where("contract_id = ?", contractID.Bytes()).Order("created_at, farmer_id"))
}

// GetPending locks the returned rows with SKIP LOCKED so two dispatchers never pay the same balance.
func (r *GormFarmerBalanceRepository) GetPending(ctx context.Context, limit int) ([]*settlement.FarmerBalance, error) {
	return r.find(r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("status = ?", int(settlement.PayoutPending)).
		Order("created_at, farmer_id").
		Limit(limit))
}

func (r *GormFarmerBalanceRepository) find(query *gorm.DB) ([]*settlement.FarmerBalance, error) {
	var dtos []FarmerBalanceDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	balances := make([]*settlement.FarmerBalance, 0, len(dtos))
	for _, dto := range dtos {
		b, err := balanceToDomain(dto)
		if err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}

	return balances, nil
}
