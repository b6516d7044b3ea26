package assignmentrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"courierdispatch/internal/adapters/out/postgres/pgerr"
	"courierdispatch/internal/core/domain/model/assignment"
	"courierdispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormAssignmentRepository implements ports.AssignmentRepository using GORM.
type GormAssignmentRepository struct {
	db *gorm.DB
}

// NewGormAssignmentRepository creates a new GORM assignment repository.
func NewGormAssignmentRepository(db *gorm.DB) *GormAssignmentRepository {
	return &GormAssignmentRepository{db: db}
}

// Add inserts an open assignment. A second open assignment of the same order yields
// errs.ErrObjectAlreadyExists.
func (r *GormAssignmentRepository) Add(ctx context.Context, a *assignment.Assignment) error {
	if err := a.Validate(); err != nil {
		return err
	}

	dto := fromDomain(a)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if pgerr.IsUniqueViolation(err) {
			return errs.NewObjectAlreadyExistsErrorWithCause("assignment", a.OrderID(), err)
		}
		return pgerr.Classify(err)
	}
	return nil
}

// ListOpen returns the courier's open assignments ordered by order id.
func (r *GormAssignmentRepository) ListOpen(ctx context.Context, courierID int64) ([]*assignment.Assignment, error) {
	var dtos []AssignmentDTO
	if err := r.open(ctx, courierID).Order("order_id").Find(&dtos).Error; err != nil {
		return nil, pgerr.Classify(err)
	}

	assignments := make([]*assignment.Assignment, 0, len(dtos))
	for _, dto := range dtos {
		a, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}

// GetOpen returns the open assignment of orderID to courierID.
func (r *GormAssignmentRepository) GetOpen(ctx context.Context, courierID, orderID int64) (*assignment.Assignment, error) {
	var dto AssignmentDTO
	if err := r.open(ctx, courierID).Where("order_id = ?", orderID).First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("assignment", orderID)
		}
		return nil, pgerr.Classify(err)
	}

	return toDomain(dto)
}

// Delete removes the courier's open assignments of orderIDs.
func (r *GormAssignmentRepository) Delete(ctx context.Context, courierID int64, orderIDs []int64) error {
	if len(orderIDs) == 0 {
		return nil
	}

	err := r.open(ctx, courierID).
		Where("order_id IN ?", orderIDs).
		Delete(&AssignmentDTO{}).Error
	return pgerr.Classify(err)
}

// LatestCompletionTime returns the latest complete_time of the courier, or nil.
func (r *GormAssignmentRepository) LatestCompletionTime(ctx context.Context, courierID int64) (*time.Time, error) {
	var latest sql.NullTime
	err := r.db.WithContext(ctx).
		Model(&AssignmentDTO{}).
		Select("max(complete_time)").
		Where("courier_id = ? AND complete_time IS NOT NULL", courierID).
		Row().
		Scan(&latest)
	if err != nil {
		return nil, pgerr.Classify(err)
	}
	if !latest.Valid {
		return nil, nil
	}

	t := latest.Time.UTC()
	return &t, nil
}

// Complete stores complete_time and delivery_time of a completed assignment.
func (r *GormAssignmentRepository) Complete(ctx context.Context, a *assignment.Assignment) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.IsOpen() {
		return errs.NewValueIsRequiredError("complete_time")
	}

	result := r.open(ctx, a.CourierID()).
		Where("order_id = ?", a.OrderID()).
		Updates(map[string]any{
			"complete_time": a.CompleteTime().UTC(),
			"delivery_time": a.DeliveryTime(),
		})
	if result.Error != nil {
		return pgerr.Classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("assignment", a.OrderID())
	}
	return nil
}

func (r *GormAssignmentRepository) open(ctx context.Context, courierID int64) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&AssignmentDTO{}).
		Where("courier_id = ? AND complete_time IS NULL", courierID)
}
