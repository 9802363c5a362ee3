package knapsack

import (
	"errors"
	"fmt"
)

var (
	// ErrNegativeWeight indicates an item reports a weight below zero.
	ErrNegativeWeight = errors.New("knapsack: item weight must be non-negative")
	// ErrNegativeValue indicates an item reports a value below zero.
	ErrNegativeValue = errors.New("knapsack: item value must be non-negative")
	// ErrNegativeCapacity indicates the knapsack capacity is below zero.
	ErrNegativeCapacity = errors.New("knapsack: capacity must be non-negative")
)

// Item is anything that can be placed in a knapsack.
type Item interface {
	Weight() int
	Value() int
}

// Validate reports the first contract violation among items and capacity.
func Validate[T Item](items []T, capacity int) error {
	if capacity < 0 {
		return fmt.Errorf("%w, got %d", ErrNegativeCapacity, capacity)
	}
	for i, it := range items {
		if it.Weight() < 0 {
			return fmt.Errorf("%w: items[%d] has weight %d", ErrNegativeWeight, i, it.Weight())
		}
		if it.Value() < 0 {
			return fmt.Errorf("%w: items[%d] has value %d", ErrNegativeValue, i, it.Value())
		}
	}
	return nil
}

// eligible reports whether an item honours the non-negative contract. The solvers skip
// items that do not.
func eligible(weight, value int) bool {
	return weight >= 0 && value >= 0
}

// Totals sums the weight and value of a selection.
func Totals[T Item](items []T) (weight, value int) {
	for _, it := range items {
		weight += it.Weight()
		value += it.Value()
	}
	return weight, value
}
