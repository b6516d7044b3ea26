// Package queries contains read operations for retrieving system state.
// Queries bypass the domain model and read optimized views straight from the database.
package queries

import (
	"errors"
	"fmt"

	"courierdispatch/internal/pkg/errs"
	"courierdispatch/internal/pkg/guard"
)

var ErrGetCourierQueryIsNotConstructed = errors.New(
	"GetCourierQuery must be created via NewGetCourierQuery constructor",
)

// GetCourierQuery retrieves a courier's profile with rating and earnings.
//
// Example:
//
//	query, err := NewGetCourierQuery(2)
//	profile, err := handler.Handle(ctx, query)
//	if profile.Rating != nil {
//	    fmt.Printf("rating %.2f, earnings %d\n", *profile.Rating, *profile.Earnings)
//	}
type GetCourierQuery struct {
	courierID int64

	guard guard.ConstructorGuard
}

// NewGetCourierQuery creates the query for a positive courier id.
func NewGetCourierQuery(courierID int64) (GetCourierQuery, error) {
	if courierID <= 0 {
		return GetCourierQuery{}, errs.NewValueIsInvalidErrorWithCause(
			"courier_id", fmt.Errorf("%d is not positive", courierID))
	}

	return GetCourierQuery{
		courierID: courierID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCourierQuery) Validate() error {
	return q.guard.Validate(ErrGetCourierQueryIsNotConstructed)
}

func (q GetCourierQuery) CourierID() int64 {
	return q.courierID
}

// GetCourierQueryResponse is the courier profile read model. Rating and Earnings are
// nil until the courier has completed a delivery with a non-zero delivery time.
type GetCourierQueryResponse struct {
	ID           int64    `json:"courier_id"`
	Type         string   `json:"courier_type"`
	Regions      []int64  `json:"regions"`
	WorkingHours []string `json:"working_hours"`
	Rating       *float64 `json:"rating,omitempty"`
	Earnings     *int64   `json:"earnings,omitempty"`
}
