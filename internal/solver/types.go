package solver

import (
	"fmt"
	"strings"

	"github.com/eugenenazirov/knap/internal/storage"
)

// Strategy selects the knapsack algorithm.
type Strategy string

const (
	// StrategyOptimal runs the exact dynamic programming solver.
	StrategyOptimal Strategy = "optimal"
	// StrategyGreedy runs the value-density heuristic.
	StrategyGreedy Strategy = "greedy"
)

// ParseStrategy maps a user-supplied name to a Strategy. An empty name means optimal.
func ParseStrategy(raw string) (Strategy, error) {
	switch s := Strategy(strings.ToLower(strings.TrimSpace(raw))); s {
	case "":
		return StrategyOptimal, nil
	case StrategyOptimal, StrategyGreedy:
		return s, nil
	default:
		return "", fmt.Errorf("%w, got %q", ErrUnknownStrategy, raw)
	}
}

// Result summarises a single solve.
type Result struct {
	Strategy    Strategy
	Capacity    int
	Items       []storage.Item
	TotalWeight int
	TotalValue  int
}

// Comparison holds both selections for the same input.
// Gap is how much value the greedy selection leaves on the table.
type Comparison struct {
	Optimal Result
	Greedy  Result
	Gap     int
}

// Solver describes the behaviour required from a knapsack solving service.
type Solver interface {
	Solve(items []storage.Item, capacity int, strategy Strategy) (Result, error)
	Compare(items []storage.Item, capacity int) (Comparison, error)
}
