package courierrepo

import (
	"context"
	"errors"

	"courierdispatch/internal/adapters/out/postgres/pgerr"
	"courierdispatch/internal/core/domain/model/courier"
	"courierdispatch/internal/core/domain/model/kernel"
	"courierdispatch/internal/pkg/errs"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCourierRepository implements ports.CourierRepository using GORM.
type GormCourierRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker receives every aggregate the repository loads or writes, so the
// unit of work can store their domain events on commit.
type aggregateTracker interface {
	TrackAggregate(aggregate kernel.EventSource)
}

// NewGormCourierRepository creates a new GORM courier repository.
func NewGormCourierRepository(db *gorm.DB, tracker aggregateTracker) *GormCourierRepository {
	return &GormCourierRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts a new courier. A duplicate id yields errs.ErrObjectAlreadyExists.
func (r *GormCourierRepository) Add(ctx context.Context, aggregate *courier.Courier) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewObjectAlreadyExistsErrorWithCause("courier", aggregate.ID(), err)
		}
		return pgerr.Classify(err)
	}

	r.tracker.TrackAggregate(aggregate)
	return nil
}

// Get retrieves a courier by id.
func (r *GormCourierRepository) Get(ctx context.Context, id int64) (*courier.Courier, error) {
	return r.get(ctx, r.db.WithContext(ctx), id)
}

// GetForUpdate retrieves a courier by id with SELECT ... FOR UPDATE.
func (r *GormCourierRepository) GetForUpdate(ctx context.Context, id int64) (*courier.Courier, error) {
	return r.get(ctx, r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *GormCourierRepository) get(_ context.Context, db *gorm.DB, id int64) (*courier.Courier, error) {
	var dto CourierDTO
	if err := db.First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("courier", id)
		}
		return nil, pgerr.Classify(err)
	}

	c, err := toDomain(dto)
	if err != nil {
		return nil, err
	}

	r.tracker.TrackAggregate(c)
	return c, nil
}

// ExistingIDs returns the stored ids among ids, ascending.
func (r *GormCourierRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	existing := make([]int64, 0)
	if len(ids) == 0 {
		return existing, nil
	}

	if err := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id IN ?", ids).
		Order("id").
		Pluck("id", &existing).Error; err != nil {
		return nil, pgerr.Classify(err)
	}
	return existing, nil
}

// ReplaceRegions overwrites the regions column.
func (r *GormCourierRepository) ReplaceRegions(ctx context.Context, aggregate *courier.Courier) error {
	return r.update(ctx, aggregate, "regions", pq.Int64Array(aggregate.Regions()))
}

// ReplaceWorkingHours overwrites the working_hours column.
func (r *GormCourierRepository) ReplaceWorkingHours(ctx context.Context, aggregate *courier.Courier) error {
	hours := pq.StringArray(kernel.FormatTimeIntervals(aggregate.WorkingHours()))
	return r.update(ctx, aggregate, "working_hours", hours)
}

// ChangeType overwrites the type column.
func (r *GormCourierRepository) ChangeType(ctx context.Context, aggregate *courier.Courier) error {
	return r.update(ctx, aggregate, "type", aggregate.Type().String())
}

// SetWeight overwrites the current_weight column.
func (r *GormCourierRepository) SetWeight(ctx context.Context, aggregate *courier.Courier) error {
	return r.update(ctx, aggregate, "current_weight", aggregate.CurrentWeight())
}

func (r *GormCourierRepository) update(ctx context.Context, aggregate *courier.Courier, column string, value any) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&CourierDTO{}).
		Where("id = ?", aggregate.ID()).
		Update(column, value)
	if result.Error != nil {
		return pgerr.Classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("courier", aggregate.ID())
	}

	r.tracker.TrackAggregate(aggregate)
	return nil
}
