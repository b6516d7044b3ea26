package http

import (
	"encoding/json"
	"time"
)

// TimeLayout renders timestamps in UTC with hundredths of a second.
const TimeLayout = "2006-01-02T15:04:05.00Z07:00"

// CreateCouriersRequest is the body of POST /couriers. Items stay raw so that one
// malformed item is reported by id instead of failing the whole body.
type CreateCouriersRequest struct {
	Data []json.RawMessage `json:"data" validate:"required"`
}

type CourierItemRequest struct {
	CourierID    *int64   `json:"courier_id" validate:"required,gt=0"`
	CourierType  *string  `json:"courier_type" validate:"required,oneof=foot bike car"`
	Regions      []int64  `json:"regions" validate:"required,min=1,dive,gt=0"`
	WorkingHours []string `json:"working_hours" validate:"required,min=1,dive,timeinterval"`
}

// CreateOrdersRequest is the body of POST /orders.
type CreateOrdersRequest struct {
	Data []json.RawMessage `json:"data" validate:"required"`
}

type OrderItemRequest struct {
	OrderID       *int64   `json:"order_id" validate:"required,gt=0"`
	Weight        *float64 `json:"weight" validate:"required,gte=0.01,lte=50"`
	Region        *int64   `json:"region" validate:"required,gt=0"`
	DeliveryHours []string `json:"delivery_hours" validate:"required,min=1,dive,timeinterval"`
}

// itemID picks the id of a batch item even when the rest of the item is malformed.
type itemID struct {
	CourierID int64 `json:"courier_id"`
	OrderID   int64 `json:"order_id"`
}

// PatchCourierRequest is the body of PATCH /couriers/{courier_id}. Absent fields are
// left untouched.
type PatchCourierRequest struct {
	CourierType  *string  `json:"courier_type" validate:"omitempty,oneof=foot bike car"`
	Regions      []int64  `json:"regions" validate:"omitempty,min=1,dive,gt=0"`
	WorkingHours []string `json:"working_hours" validate:"omitempty,min=1,dive,timeinterval"`
}

type AssignOrdersRequest struct {
	CourierID *int64 `json:"courier_id" validate:"required,gt=0"`
}

type CompleteOrderRequest struct {
	CourierID    *int64  `json:"courier_id" validate:"required,gt=0"`
	OrderID      *int64  `json:"order_id" validate:"required,gt=0"`
	CompleteTime *string `json:"complete_time" validate:"required"`
}

type IDResponse struct {
	ID int64 `json:"id"`
}

type CouriersCreatedResponse struct {
	Couriers []IDResponse `json:"couriers"`
}

type OrdersCreatedResponse struct {
	Orders []IDResponse `json:"orders"`
}

// ValidationErrorResponse lists the rejected items of a bulk import under
// "couriers" or "orders".
type ValidationErrorResponse struct {
	ValidationError map[string][]IDResponse `json:"validation_error"`
}

type CourierResponse struct {
	CourierID    int64    `json:"courier_id"`
	CourierType  string   `json:"courier_type"`
	Regions      []int64  `json:"regions"`
	WorkingHours []string `json:"working_hours"`
}

type CourierProfileResponse struct {
	CourierID    int64    `json:"courier_id"`
	CourierType  string   `json:"courier_type"`
	Regions      []int64  `json:"regions"`
	WorkingHours []string `json:"working_hours"`
	Rating       *float64 `json:"rating,omitempty"`
	Earnings     *int64   `json:"earnings,omitempty"`
}

type AssignOrdersResponse struct {
	Orders     []IDResponse `json:"orders"`
	AssignTime *string      `json:"assign_time,omitempty"`
}

type CompleteOrderResponse struct {
	OrderID int64 `json:"order_id"`
}

func idList(ids []int64) []IDResponse {
	out := make([]IDResponse, 0, len(ids))
	for _, id := range ids {
		out = append(out, IDResponse{ID: id})
	}
	return out
}

func formatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}
