// Package courierrepo persists courier aggregates in the couriers table.
package courierrepo

import (
	"courierdispatch/internal/core/domain/model/courier"
	"courierdispatch/internal/core/domain/model/kernel"

	"github.com/lib/pq"
)

// CourierDTO is the row of the couriers table. Regions and working hours are
// PostgreSQL arrays.
type CourierDTO struct {
	ID            int64          `gorm:"primaryKey;autoIncrement:false"`
	Type          string         `gorm:"type:text;not null"`
	Regions       pq.Int64Array  `gorm:"type:bigint[];not null"`
	WorkingHours  pq.StringArray `gorm:"type:text[];not null"`
	CurrentWeight float64        `gorm:"type:double precision;not null"`
}

// TableName overrides GORM's default "courier_dtos".
func (CourierDTO) TableName() string {
	return "couriers"
}

func fromDomain(c *courier.Courier) CourierDTO {
	return CourierDTO{
		ID:            c.ID(),
		Type:          c.Type().String(),
		Regions:       pq.Int64Array(c.Regions()),
		WorkingHours:  pq.StringArray(kernel.FormatTimeIntervals(c.WorkingHours())),
		CurrentWeight: c.CurrentWeight(),
	}
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	courierType, err := courier.ParseType(dto.Type)
	if err != nil {
		return nil, err
	}

	hours, err := kernel.ParseTimeIntervals(dto.WorkingHours)
	if err != nil {
		return nil, err
	}

	return courier.RestoreCourier(dto.ID, courierType, dto.Regions, hours, dto.CurrentWeight)
}
