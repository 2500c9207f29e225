package lotrepo

import (
	"context"
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/lot"
	"agritrade/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormLotRepository implements LotRepository using GORM.
type GormLotRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormLotRepository(db *gorm.DB, tracker aggregateTracker) *GormLotRepository {
	return &GormLotRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormLotRepository) Add(ctx context.Context, aggregate *lot.Lot) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := lotFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the lot only if nobody changed it since it was read.
func (r *GormLotRepository) Update(ctx context.Context, aggregate *lot.Lot) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := lotFromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&LotDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"quantity_kg":   dto.QuantityKg,
			"available_kg":  dto.AvailableKg,
			"quality_grade": dto.QualityGrade,
			"status":        dto.Status,
			"verified":      dto.Verified,
			"version":       gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidError("lot " + aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Reserve applies the reservation only while the row is still listed with
// expectedAvailableKg at the version the aggregate was read at.
func (r *GormLotRepository) Reserve(ctx context.Context, aggregate *lot.Lot, expectedAvailableKg decimal.Decimal) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := lotFromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&LotDTO{}).
		Where("id = ? AND version = ? AND status = ? AND available_kg = ?",
			dto.ID, dto.Version, int(lot.Listed), expectedAvailableKg).
		Updates(map[string]any{
			"available_kg": dto.AvailableKg,
			"status":       dto.Status,
			"version":      gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidError("lot " + aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormLotRepository) Get(ctx context.Context, id kernel.UUID) (*lot.Lot, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto LotDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("lot", id.String())
		}
		return nil, err
	}

	return lotToDomain(dto)
}

func (r *GormLotRepository) SumListedKg(ctx context.Context, cooperativeID kernel.UUID, crop string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&LotDTO{}).
		Select("COALESCE(SUM(available_kg), 0)").
		Where("cooperative_id = ? AND crop = ? AND status = ? AND verified", cooperativeID.Bytes(), crop, int(lot.Listed)).
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// GormHarvestDeclarationRepository implements HarvestDeclarationRepository using GORM.
type GormHarvestDeclarationRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormHarvestDeclarationRepository(db *gorm.DB, tracker aggregateTracker) *GormHarvestDeclarationRepository {
	return &GormHarvestDeclarationRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormHarvestDeclarationRepository) Add(ctx context.Context, aggregate *lot.HarvestDeclaration) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := declarationFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormHarvestDeclarationRepository) Update(ctx context.Context, aggregate *lot.HarvestDeclaration) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := declarationFromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&HarvestDeclarationDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("harvest declaration", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormHarvestDeclarationRepository) Get(ctx context.Context, id kernel.UUID) (*lot.HarvestDeclaration, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto HarvestDeclarationDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("harvest declaration", id.String())
		}
		return nil, err
	}

	return declarationToDomain(dto)
}
