package orderrepo

import (
	"context"
	"errors"
	"slices"

	"courierdispatch/internal/adapters/out/postgres/pgerr"
	"courierdispatch/internal/core/domain/model/kernel"
	"courierdispatch/internal/core/domain/model/order"
	"courierdispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add inserts a new order. A duplicate id yields errs.ErrObjectAlreadyExists.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewObjectAlreadyExistsErrorWithCause("order", aggregate.ID(), err)
		}
		return pgerr.Classify(err)
	}
	return nil
}

// Get retrieves an order by id.
func (r *GormOrderRepository) Get(ctx context.Context, id int64) (*order.Order, error) {
	var dto OrderDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
		return nil, pgerr.Classify(err)
	}

	return toDomain(dto)
}

// GetMany retrieves orders by id, ordered by id.
func (r *GormOrderRepository) GetMany(ctx context.Context, ids []int64) ([]*order.Order, error) {
	if len(ids) == 0 {
		return []*order.Order{}, nil
	}

	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id").Find(&dtos).Error; err != nil {
		return nil, pgerr.Classify(err)
	}

	for _, id := range ids {
		found := slices.ContainsFunc(dtos, func(dto OrderDTO) bool { return dto.ID == id })
		if !found {
			return nil, errs.NewObjectNotFoundError("order", id)
		}
	}

	return toDomainList(dtos)
}

// ExistingIDs returns the stored ids among ids, ascending.
func (r *GormOrderRepository) ExistingIDs(ctx context.Context, ids []int64) ([]int64, error) {
	existing := make([]int64, 0)
	if len(ids) == 0 {
		return existing, nil
	}

	if err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id IN ?", ids).
		Order("id").
		Pluck("id", &existing).Error; err != nil {
		return nil, pgerr.Classify(err)
	}
	return existing, nil
}

// ListAvailable selects free orders in regions weighing at most maxWeight with
// SELECT ... FOR UPDATE SKIP LOCKED, lightest first.
func (r *GormOrderRepository) ListAvailable(ctx context.Context, regions []int64, maxWeight float64) ([]*order.Order, error) {
	if len(regions) == 0 || maxWeight < kernel.MinOrderWeight {
		return []*order.Order{}, nil
	}

	var dtos []OrderDTO
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("NOT taken AND region IN ? AND weight <= ?", regions, maxWeight).
		Order("weight, id").
		Find(&dtos).Error; err != nil {
		return nil, pgerr.Classify(err)
	}

	return toDomainList(dtos)
}

// SetTaken overwrites the taken column.
func (r *GormOrderRepository) SetTaken(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ?", aggregate.ID()).
		Update("taken", aggregate.IsTaken())
	if result.Error != nil {
		return pgerr.Classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID())
	}
	return nil
}
