package storage

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

const maxItems = 1000

var (
	// ErrInvalidItems indicates the provided catalog violates validation rules.
	ErrInvalidItems = errors.New("items must contain between 1 and 1000 entries with unique ids and non-negative weight and value")
)

var defaultItems = []Item{
	{ID: "A", Size: 10, Worth: 60},
	{ID: "B", Size: 20, Worth: 100},
	{ID: "C", Size: 30, Worth: 120},
}

// Item is a named catalog entry that can be packed into a knapsack.
type Item struct {
	ID    string `json:"id" yaml:"id"`
	Size  int    `json:"weight" yaml:"weight"`
	Worth int    `json:"value" yaml:"value"`
}

// Weight implements knapsack.Item.
func (i Item) Weight() int { return i.Size }

// Value implements knapsack.Item.
func (i Item) Value() int { return i.Worth }

// Storage provides access to the item catalog used by the solver.
type Storage interface {
	GetItems() ([]Item, error)
	SetItems(items []Item) error
}

// MemoryStorage keeps the catalog in-memory and guards access with a RWMutex.
// Input order is preserved because solvers break ties on it.
type MemoryStorage struct {
	mu    sync.RWMutex
	items []Item
}

// NewMemoryStorage initialises storage with a copy of the default catalog.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		items: slices.Clone(defaultItems),
	}
}

// DefaultItems returns a copy of the default catalog.
func DefaultItems() []Item {
	return slices.Clone(defaultItems)
}

// GetItems returns a defensive copy of the current catalog.
func (s *MemoryStorage) GetItems() ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.items), nil
}

// SetItems validates and stores the provided catalog.
func (s *MemoryStorage) SetItems(items []Item) error {
	if err := ValidateItems(items); err != nil {
		return err
	}

	s.mu.Lock()
	s.items = slices.Clone(items)
	s.mu.Unlock()

	return nil
}

// ValidateItems checks a catalog against the storage rules.
func ValidateItems(items []Item) error {
	if len(items) == 0 || len(items) > maxItems {
		return ErrInvalidItems
	}

	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		id := strings.TrimSpace(it.ID)
		if id == "" {
			return fmt.Errorf("%w: items[%d] has an empty id", ErrInvalidItems, i)
		}
		if _, dup := seen[id]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrInvalidItems, id)
		}
		seen[id] = struct{}{}
		if it.Size < 0 || it.Worth < 0 {
			return fmt.Errorf("%w: item %q has negative weight or value", ErrInvalidItems, id)
		}
	}
	return nil
}
