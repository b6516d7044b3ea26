package commands

import (
	"fmt"
	"slices"

	"courierdispatch/internal/pkg/errs"
)

// RejectedIDsError reports the items of a bulk import that prevented it. Nothing of
// the batch is stored when it is returned.
type RejectedIDsError struct {
	// Entity is the name of the imported collection, "couriers" or "orders".
	Entity string
	IDs    []int64
	Cause  error
}

// NewInvalidItemsError reports batch items whose fields are malformed.
func NewInvalidItemsError(entity string, ids []int64) *RejectedIDsError {
	return &RejectedIDsError{Entity: entity, IDs: slices.Clone(ids), Cause: errs.ErrValueIsInvalid}
}

// NewDuplicateIDsError reports batch items whose ids are already stored.
func NewDuplicateIDsError(entity string, ids []int64) *RejectedIDsError {
	return &RejectedIDsError{Entity: entity, IDs: slices.Clone(ids), Cause: errs.ErrObjectAlreadyExists}
}

func (e *RejectedIDsError) Error() string {
	return fmt.Sprintf("%s rejected %v: %v", e.Entity, e.IDs, e.Cause)
}

func (e *RejectedIDsError) Unwrap() error {
	return e.Cause
}
