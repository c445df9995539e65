package renderer

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded is matched by every *CapacityError.
	ErrCapacityExceeded = errors.New("capacity exceeded")

	// ErrSurfaceSuspended is returned while the surface has a zero dimension, e.g. a minimised window.
	ErrSurfaceSuspended = errors.New("surface suspended")

	// ErrSurfaceAcquire wraps failures to acquire the next surface image.
	ErrSurfaceAcquire = errors.New("failed to acquire surface texture")

	// ErrRendererReleased is returned by operations on a released Renderer.
	ErrRendererReleased = errors.New("renderer released")
)

// CapacityError reports a load that does not fit a fixed-capacity GPU buffer.
type CapacityError struct {
	Resource  string
	Requested int
	Capacity  int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("%s: %d %s requested, capacity is %d", ErrCapacityExceeded, e.Requested, e.Resource, e.Capacity)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}
