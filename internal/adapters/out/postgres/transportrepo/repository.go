package transportrepo

import (
	"context"
	"errors"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/transport"
	"agritrade/internal/pkg/errs"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormTransporterRepository implements TransporterRepository using GORM.
type GormTransporterRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormTransporterRepository(db *gorm.DB, tracker aggregateTracker) *GormTransporterRepository {
	return &GormTransporterRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormTransporterRepository) Add(ctx context.Context, aggregate *transport.Transporter) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := transporterFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormTransporterRepository) Update(ctx context.Context, aggregate *transport.Transporter) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := transporterFromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&TransporterDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("transporter", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormTransporterRepository) Get(ctx context.Context, id kernel.UUID) (*transport.Transporter, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto TransporterDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("transporter", id.String())
		}
		return nil, err
	}

	return transporterToDomain(dto)
}

// GetAllActive returns active transporters ordered by name.
func (r *GormTransporterRepository) GetAllActive(ctx context.Context) ([]*transport.Transporter, error) {
	var dtos []TransporterDTO
	if err := r.db.WithContext(ctx).Where("active").Order("name").Find(&dtos).Error; err != nil {
		return nil, err
	}

	transporters := make([]*transport.Transporter, 0, len(dtos))
	for _, dto := range dtos {
		t, err := transporterToDomain(dto)
		if err != nil {
			return nil, err
		}
		transporters = append(transporters, t)
	}

	return transporters, nil
}

// GormRequestRepository implements TransportRequestRepository using GORM.
type GormRequestRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormRequestRepository(db *gorm.DB, tracker aggregateTracker) *GormRequestRepository {
	return &GormRequestRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormRequestRepository) Add(ctx context.Context, aggregate *transport.Request) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := requestFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormRequestRepository) Update(ctx context.Context, aggregate *transport.Request) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := requestFromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&RequestDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("transport request", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormRequestRepository) Get(ctx context.Context, id kernel.UUID) (*transport.Request, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto RequestDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("transport request", id.String())
		}
		return nil, err
	}

	return requestToDomain(dto)
}

func (r *GormRequestRepository) GetByContractID(ctx context.Context, contractID kernel.UUID) ([]*transport.Request, error) {
	return r.find(r.db.WithContext(ctx).Where("contract_id = ?", contractID.Bytes()))
}

func (r *GormRequestRepository) GetByTransporter(
	ctx context.Context,
	transporterID kernel.UUID,
	statuses []transport.Status,
) ([]*transport.Request, error) {
	return r.find(r.db.WithContext(ctx).
		Where("transporter_id = ? AND status = ANY(?::int[])", transporterID.Bytes(), StatusArray(statuses)))
}

func (r *GormRequestRepository) CommittedLoadKg(ctx context.Context, transporterID kernel.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&RequestDTO{}).
		Select("COALESCE(SUM(load_kg), 0)").
		Where("transporter_id = ? AND status = ANY(?::int[])",
			transporterID.Bytes(), StatusArray(transport.CapacityStatuses())).
		Row().
		Scan(&total)
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *GormRequestRepository) find(query *gorm.DB) ([]*transport.Request, error) {
	var dtos []RequestDTO
	if err := query.Order("created_at").Find(&dtos).Error; err != nil {
		return nil, err
	}

	requests := make([]*transport.Request, 0, len(dtos))
	for _, dto := range dtos {
		req, err := requestToDomain(dto)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}

	return requests, nil
}

// StatusArray binds a status set as a Postgres int[] parameter.
func StatusArray(statuses []transport.Status) any {
	values := make([]int64, 0, len(statuses))
	for _, s := range statuses {
		values = append(values, int64(s))
	}
	return pq.Array(values)
}
