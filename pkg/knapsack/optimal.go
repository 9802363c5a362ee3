package knapsack

import (
	"iter"
	"slices"
)

// Optimal yields an exact 0/1 knapsack selection.
//
// The DP runs once, on the first call to Next, Solve, Len, or one of the draining helpers.
// Selected items come out in ascending input order. Items reporting a negative weight or
// value are never selected.
type Optimal[T Item] struct {
	items    []T
	capacity int

	computed bool
	cur      cursor[T]
}

// NewOptimal captures items and capacity. The input slice is copied.
func NewOptimal[T Item](items []T, capacity int) *Optimal[T] {
	return &Optimal[T]{
		items:    slices.Clone(items),
		capacity: capacity,
	}
}

// OptimalFrom builds an Optimal solver from any finite item sequence.
func OptimalFrom[T Item](items iter.Seq[T], capacity int) *Optimal[T] {
	return &Optimal[T]{
		items:    slices.Collect(items),
		capacity: capacity,
	}
}

// Solve runs the DP if it has not run yet. Repeat calls do nothing.
func (o *Optimal[T]) Solve() {
	if o.computed {
		return
	}
	o.cur.items = selectOptimal(o.items, o.capacity)
	o.computed = true
}

// Next returns the next selected item.
func (o *Optimal[T]) Next() (T, bool) {
	o.Solve()
	return o.cur.next()
}

// Len is the total number of selected items, regardless of how many were drained.
func (o *Optimal[T]) Len() int {
	o.Solve()
	return len(o.cur.items)
}

// All iterates over the remaining selected items.
func (o *Optimal[T]) All() iter.Seq[T] { return All[T](o) }

// Collect drains the remaining selected items into a slice.
func (o *Optimal[T]) Collect() []T { return Collect[T](o) }

// Count drains the remaining selected items and counts them.
func (o *Optimal[T]) Count() int { return Count[T](o) }

// selectOptimal fills dp[i][w], the best value reachable with the first i items under
// budget w, in a flat buffer of (n+1)*(capacity+1) cells, then walks it back from
// (n, capacity). An item is taken only when it strictly improves on the row above, so
// value ties leave the later item out.
func selectOptimal[T Item](items []T, capacity int) []T {
	n := len(items)
	if n == 0 || capacity <= 0 {
		return nil
	}

	stride := capacity + 1
	dp := make([]int, (n+1)*stride)

	for i := 1; i <= n; i++ {
		wt, val := items[i-1].Weight(), items[i-1].Value()
		row, prev := i*stride, (i-1)*stride
		if !eligible(wt, val) {
			copy(dp[row:row+stride], dp[prev:prev+stride])
			continue
		}
		for w := 0; w <= capacity; w++ {
			without := dp[prev+w]
			if wt > w {
				dp[row+w] = without
				continue
			}
			dp[row+w] = max(without, dp[prev+w-wt]+val)
		}
	}

	var picked []T
	w := capacity
	for i := n; i >= 1; i-- {
		wt := items[i-1].Weight()
		if wt >= 0 && w >= wt && dp[i*stride+w] != dp[(i-1)*stride+w] {
			picked = append(picked, items[i-1])
			w -= wt
		}
	}
	slices.Reverse(picked)
	return picked
}
