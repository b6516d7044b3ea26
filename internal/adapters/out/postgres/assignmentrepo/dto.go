// Package assignmentrepo persists courier-order assignments in the assignments table.
// At most one open assignment (complete_time IS NULL) exists per order, enforced by a
// partial unique index.
package assignmentrepo

import (
	"time"

	"courierdispatch/internal/core/domain/model/assignment"
)

// AssignmentDTO is the row of the assignments table.
type AssignmentDTO struct {
	ID           int64      `gorm:"primaryKey"`
	CourierID    int64      `gorm:"not null"`
	OrderID      int64      `gorm:"not null"`
	AssignTime   time.Time  `gorm:"type:timestamptz;not null"`
	CompleteTime *time.Time `gorm:"type:timestamptz"`
	DeliveryTime int64      `gorm:"not null;default:0"`
}

// TableName overrides GORM's default "assignment_dtos".
func (AssignmentDTO) TableName() string {
	return "assignments"
}

func fromDomain(a *assignment.Assignment) AssignmentDTO {
	return AssignmentDTO{
		CourierID:    a.CourierID(),
		OrderID:      a.OrderID(),
		AssignTime:   a.AssignTime().UTC(),
		CompleteTime: utc(a.CompleteTime()),
		DeliveryTime: a.DeliveryTime(),
	}
}

func toDomain(dto AssignmentDTO) (*assignment.Assignment, error) {
	return assignment.RestoreAssignment(
		dto.CourierID,
		dto.OrderID,
		dto.AssignTime.UTC(),
		utc(dto.CompleteTime),
		dto.DeliveryTime,
	)
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
