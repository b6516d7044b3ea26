// Package errs provides the error types shared by the dispatch service layers.
//
// Every error type follows one pattern:
//   - a sentinel variable (ErrObjectNotFound, ErrObjectAlreadyExists, ...)
//   - a struct carrying the offending parameter and optional Cause
//   - New... and New...WithCause constructors
//   - Unwrap returning the sentinel, so callers classify with errors.Is
//
// The HTTP adapter maps ErrObjectNotFound, ErrObjectAlreadyExists and the
// ErrValueIs... sentinels to 400 responses; anything else becomes a 500.
package errs
