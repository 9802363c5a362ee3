package solver

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCapacity is returned when the requested capacity is negative.
	ErrInvalidCapacity = errors.New("capacity must be a non-negative integer")
	// ErrCapacityTooLarge is returned when the capacity, or the DP table it implies, exceeds the configured bounds.
	ErrCapacityTooLarge = errors.New("capacity exceeds the configured limit")
	// ErrInvalidItems is returned when an item has a negative weight or value.
	ErrInvalidItems = errors.New("items must have non-negative weight and value")
	// ErrUnknownStrategy is returned for strategy names other than optimal and greedy.
	ErrUnknownStrategy = errors.New("strategy must be one of: optimal, greedy")
)

// Bounds reported by LimitError.
const (
	BoundCapacity = "capacity"
	BoundTable    = "table"
)

// LimitError describes which configured bound a solve exceeded. It matches
// ErrCapacityTooLarge under errors.Is.
type LimitError struct {
	// Bound is BoundCapacity for the plain capacity limit, or BoundTable when the
	// optimal solver's table budget is the binding constraint.
	Bound    string
	Capacity int
	Items    int
	// MaxCapacity is the largest capacity that would have been accepted for this request.
	MaxCapacity int
}

func (e *LimitError) Error() string {
	if e.Bound == BoundTable {
		return fmt.Sprintf("%s: %d items at capacity %d exceed the table budget, at most capacity %d fits",
			ErrCapacityTooLarge, e.Items, e.Capacity, e.MaxCapacity)
	}
	return fmt.Sprintf("%s: %d is above %d", ErrCapacityTooLarge, e.Capacity, e.MaxCapacity)
}

func (e *LimitError) Unwrap() error {
	return ErrCapacityTooLarge
}
