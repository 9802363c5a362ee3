// Package knapsack solves the 0/1 knapsack problem and exposes each selection as a
// lazily drained, forward-only sequence of items.
//
// Two solvers are provided:
//
//   - Optimal: exact dynamic programming with explicit reconstruction.
//     Time and memory are O(n·capacity); the table is allocated on the first pull and
//     dropped once the selection is reconstructed.
//   - Greedy: sorts items by value/weight ratio (descending) and admits every item that
//     still fits in a single pass. Computed eagerly at construction, O(n log n).
//
// Any type with Weight() and Value() accessors can be solved. Weights and values must be
// non-negative; use Validate at the boundary where untrusted input enters. Both solvers
// skip an item that breaks this rule instead of failing.
//
// Capacity is not bounded internally. The optimal solver allocates (n+1)·(capacity+1)
// integers, so callers must cap capacity before constructing it.
//
// Example:
//
//	opt := knapsack.NewOptimal(items, 50)
//	for it := range opt.All() {
//		fmt.Println(it)
//	}
package knapsack
