package solver

import (
	"fmt"

	"github.com/eugenenazirov/knap/internal/storage"
	"github.com/eugenenazirov/knap/pkg/knapsack"
)

const (
	// DefaultMaxCapacity bounds the capacity accepted by a solve.
	DefaultMaxCapacity = 100_000
	// DefaultMaxTableCells bounds the (n+1)*(capacity+1) DP table of the optimal solver.
	DefaultMaxTableCells = 50_000_000
)

type service struct {
	maxCapacity   int
	maxTableCells int
}

// Option configures the solver service.
type Option func(*service)

// WithMaxCapacity overrides the largest accepted capacity. Non-positive values are ignored.
func WithMaxCapacity(limit int) Option {
	return func(s *service) {
		if limit > 0 {
			s.maxCapacity = limit
		}
	}
}

// WithMaxTableCells overrides the DP table budget. Non-positive values are ignored.
func WithMaxTableCells(limit int) Option {
	return func(s *service) {
		if limit > 0 {
			s.maxTableCells = limit
		}
	}
}

// New creates a Solver backed by the knapsack package.
func New(opts ...Option) Solver {
	s := &service{
		maxCapacity:   DefaultMaxCapacity,
		maxTableCells: DefaultMaxTableCells,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Solve(items []storage.Item, capacity int, strategy Strategy) (Result, error) {
	if err := s.validate(items, capacity); err != nil {
		return Result{}, err
	}

	switch strategy {
	case StrategyOptimal:
		if err := s.checkTable(len(items), capacity); err != nil {
			return Result{}, err
		}
		return summarise(strategy, capacity, knapsack.NewOptimal(items, capacity)), nil
	case StrategyGreedy:
		return summarise(strategy, capacity, knapsack.NewGreedy(items, capacity)), nil
	default:
		return Result{}, fmt.Errorf("%w, got %q", ErrUnknownStrategy, strategy)
	}
}

func (s *service) Compare(items []storage.Item, capacity int) (Comparison, error) {
	optimal, err := s.Solve(items, capacity, StrategyOptimal)
	if err != nil {
		return Comparison{}, err
	}
	greedy, err := s.Solve(items, capacity, StrategyGreedy)
	if err != nil {
		return Comparison{}, err
	}

	return Comparison{
		Optimal: optimal,
		Greedy:  greedy,
		Gap:     optimal.TotalValue - greedy.TotalValue,
	}, nil
}

func (s *service) validate(items []storage.Item, capacity int) error {
	if capacity < 0 {
		return ErrInvalidCapacity
	}
	if capacity > s.maxCapacity {
		return &LimitError{Bound: BoundCapacity, Capacity: capacity, Items: len(items), MaxCapacity: s.maxCapacity}
	}
	if err := knapsack.Validate(items, capacity); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidItems, err)
	}
	return nil
}

// checkTable enforces (n+1)*(capacity+1) <= maxTableCells without forming the product.
func (s *service) checkTable(n, capacity int) error {
	rowBudget := s.maxTableCells / (n + 1)
	if capacity < rowBudget {
		return nil
	}
	return &LimitError{Bound: BoundTable, Capacity: capacity, Items: n, MaxCapacity: max(rowBudget-1, 0)}
}

type selection interface {
	knapsack.Sequence[storage.Item]
	Collect() []storage.Item
}

func summarise(strategy Strategy, capacity int, seq selection) Result {
	items := seq.Collect()
	if items == nil {
		items = []storage.Item{}
	}
	weight, value := knapsack.Totals(items)
	return Result{
		Strategy:    strategy,
		Capacity:    capacity,
		Items:       items,
		TotalWeight: weight,
		TotalValue:  value,
	}
}
