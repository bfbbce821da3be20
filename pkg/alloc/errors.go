package alloc

import (
	"fmt"

	"github.com/pkg/errors"
)

// AllocationError is returned when the allocator cannot satisfy a request.
type AllocationError struct {
	Size int // bytes requested
	Err  error
}

func (e *AllocationError) Error() string {
	return fmt.Sprintf("allocate %d bytes: %v", e.Size, e.Err)
}

// Unwrap returns the allocator's error.
func (e *AllocationError) Unwrap() error { return e.Err }

// IsAllocationFailure reports whether err, or any error it wraps, is an *AllocationError.
func IsAllocationFailure(err error) bool {
	var ae *AllocationError
	return errors.As(err, &ae)
}
