package knapsack

import (
	"cmp"
	"iter"
	"math"
	"slices"
)

// worthlessRatio ranks zero-weight, zero-value items. Every real ratio is >= 0, so these
// items sort after everything else, including positive-weight items worth nothing.
const worthlessRatio = -1.0

// Greedy yields an approximate selection ranked by value density.
// The selection is computed at construction; items come out in admission order.
// Items reporting a negative weight or value are never admitted.
type Greedy[T Item] struct {
	cur cursor[T]
}

// NewGreedy computes the greedy selection for items under capacity.
func NewGreedy[T Item](items []T, capacity int) *Greedy[T] {
	return &Greedy[T]{cur: cursor[T]{items: selectGreedy(items, capacity)}}
}

// GreedyFrom builds a Greedy solver from any finite item sequence.
func GreedyFrom[T Item](items iter.Seq[T], capacity int) *Greedy[T] {
	return NewGreedy(slices.Collect(items), capacity)
}

// Next returns the next selected item.
func (g *Greedy[T]) Next() (T, bool) { return g.cur.next() }

// Len is the total number of selected items, regardless of how many were drained.
func (g *Greedy[T]) Len() int { return len(g.cur.items) }

// All iterates over the remaining selected items.
func (g *Greedy[T]) All() iter.Seq[T] { return All[T](g) }

// Collect drains the remaining selected items into a slice.
func (g *Greedy[T]) Collect() []T { return Collect[T](g) }

// Count drains the remaining selected items and counts them.
func (g *Greedy[T]) Count() int { return Count[T](g) }

type ranked struct {
	idx   int
	ratio float64
	value int
}

func density(weight, value int) float64 {
	switch {
	case weight > 0:
		return float64(value) / float64(weight)
	case value > 0:
		return math.Inf(1)
	default:
		return worthlessRatio
	}
}

// compareRanked orders by ratio descending. Free valuable items tie-break on value
// descending; every other tie keeps input order.
func compareRanked(a, b ranked) int {
	if c := cmp.Compare(b.ratio, a.ratio); c != 0 {
		return c
	}
	if math.IsInf(a.ratio, 1) && math.IsInf(b.ratio, 1) {
		if c := cmp.Compare(b.value, a.value); c != 0 {
			return c
		}
	}
	return cmp.Compare(a.idx, b.idx)
}

func selectGreedy[T Item](items []T, capacity int) []T {
	if len(items) == 0 || capacity <= 0 {
		return nil
	}

	order := make([]ranked, 0, len(items))
	for i, it := range items {
		wt, val := it.Weight(), it.Value()
		if !eligible(wt, val) {
			continue
		}
		order = append(order, ranked{idx: i, ratio: density(wt, val), value: val})
	}
	slices.SortStableFunc(order, compareRanked)

	var picked []T
	remaining := capacity
	for _, r := range order {
		it := items[r.idx]
		if wt := it.Weight(); wt <= remaining {
			picked = append(picked, it)
			remaining -= wt
		}
	}
	return picked
}
