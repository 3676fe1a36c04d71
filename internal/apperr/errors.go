package apperr

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInternal hides store/communication failures from callers. The wrapped
// cause is logged internally, never rendered to the client.
var ErrInternal = errors.New("internal error")

// ValidationError reports a malformed, missing, or out-of-range input field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: field '%s' %s", e.Field, e.Reason)
}

// NotFoundError reports a resource that does not resolve by its identifier.
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s '%s' not found", e.Resource, e.ID)
}

// InsufficientStockError rejects an OUT movement that would overdraw a
// product. Current carries the derived stock at check time so the caller can
// correct the requested quantity without another round trip.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Current   int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: have %d, requested %d",
		e.ProductID, e.Current, e.Requested)
}

// ConflictError signals a state conflict (duplicate key, unresolvable race).
// Safe for the caller to retry after re-reading.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return "conflict: " + e.Reason
}

// Internal wraps a low-level failure under ErrInternal.
func Internal(err error) error {
	return fmt.Errorf("%w: %v", ErrInternal, err)
}
