package storagerepo

import (
	"context"
	"errors"
	"time"

	"agritrade/internal/core/domain/model/kernel"
	"agritrade/internal/core/domain/model/storage"
	"agritrade/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormFacilityRepository implements StorageFacilityRepository using GORM.
type GormFacilityRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormFacilityRepository(db *gorm.DB, tracker aggregateTracker) *GormFacilityRepository {
	return &GormFacilityRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormFacilityRepository) Add(ctx context.Context, aggregate *storage.Facility) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := facilityFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormFacilityRepository) Update(ctx context.Context, aggregate *storage.Facility) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := facilityFromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&FacilityDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("storage facility", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Get reads the facility with SELECT ... FOR UPDATE so concurrent bookings
// cannot both take the last free capacity.
func (r *GormFacilityRepository) Get(ctx context.Context, id kernel.UUID) (*storage.Facility, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto FacilityDTO
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("storage facility", id.String())
		}
		return nil, err
	}

	return facilityToDomain(dto)
}

// GormBookingRepository implements StorageBookingRepository using GORM.
type GormBookingRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormBookingRepository(db *gorm.DB, tracker aggregateTracker) *GormBookingRepository {
	return &GormBookingRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormBookingRepository) Add(ctx context.Context, aggregate *storage.Booking) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := bookingFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormBookingRepository) Update(ctx context.Context, aggregate *storage.Booking) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := bookingFromDomain(aggregate)
	result := r.db.WithContext(ctx).Model(&BookingDTO{}).Where("id = ?", dto.ID).Select("*").Updates(&dto)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("storage booking", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormBookingRepository) Get(ctx context.Context, id kernel.UUID) (*storage.Booking, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto BookingDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("storage booking", id.String())
		}
		return nil, err
	}

	return bookingToDomain(dto)
}

func (r *GormBookingRepository) GetOpenByContractID(ctx context.Context, contractID kernel.UUID) ([]*storage.Booking, error) {
	return r.find(r.db.WithContext(ctx).
		Where("contract_id = ? AND status IN ?", contractID.Bytes(), []int{int(storage.Reserved), int(storage.Active)}).
		Order("window_start"))
}

// GetDue returns bookings the sweep has to move: Reserved ones whose window is
// open and open ones whose window has ended.
func (r *GormBookingRepository) GetDue(ctx context.Context, now time.Time, limit int) ([]*storage.Booking, error) {
	return r.find(r.db.WithContext(ctx).
		Where("(status = ? AND window_start <= ? AND window_end > ?) OR (status IN ? AND window_end <= ?)",
			int(storage.Reserved), now, now,
			[]int{int(storage.Reserved), int(storage.Active)}, now).
		Order("window_end").
		Limit(limit))
}

func (r *GormBookingRepository) find(query *gorm.DB) ([]*storage.Booking, error) {
	var dtos []BookingDTO
	if err := query.Find(&dtos).Error; err != nil {
		return nil, err
	}

	bookings := make([]*storage.Booking, 0, len(dtos))
	for _, dto := range dtos {
		b, err := bookingToDomain(dto)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}

	return bookings, nil
}
