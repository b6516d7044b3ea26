// Package orderrepo persists order aggregates in the orders table.
package orderrepo

import (
	"courierdispatch/internal/core/domain/model/kernel"
	"courierdispatch/internal/core/domain/model/order"

	"github.com/lib/pq"
)

// OrderDTO is the row of the orders table.
type OrderDTO struct {
	ID            int64          `gorm:"primaryKey;autoIncrement:false"`
	Weight        float64        `gorm:"type:double precision;not null"`
	Region        int64          `gorm:"not null"`
	DeliveryHours pq.StringArray `gorm:"type:text[];not null"`
	Taken         bool           `gorm:"not null;default:false"`
}

// TableName overrides GORM's default "order_dtos".
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	return OrderDTO{
		ID:            o.ID(),
		Weight:        o.Weight(),
		Region:        o.Region(),
		DeliveryHours: pq.StringArray(kernel.FormatTimeIntervals(o.DeliveryHours())),
		Taken:         o.IsTaken(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	hours, err := kernel.ParseTimeIntervals(dto.DeliveryHours)
	if err != nil {
		return nil, err
	}
	return order.RestoreOrder(dto.ID, dto.Weight, dto.Region, hours, dto.Taken)
}

func toDomainList(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
