package knapsack

import "iter"

// Sequence is a forward-only stream of selected items.
// Next returns false once the stream is exhausted and keeps returning false afterwards.
type Sequence[T any] interface {
	Next() (T, bool)
}

// All adapts the remaining items of seq to a range-over-func iterator.
// Items yielded through All are consumed from seq.
func All[T any](seq Sequence[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			it, ok := seq.Next()
			if !ok || !yield(it) {
				return
			}
		}
	}
}

// Collect drains seq into a slice.
func Collect[T any](seq Sequence[T]) []T {
	var out []T
	for it := range All(seq) {
		out = append(out, it)
	}
	return out
}

// Count drains seq and returns how many items it produced.
func Count[T any](seq Sequence[T]) int {
	n := 0
	for range All(seq) {
		n++
	}
	return n
}

// cursor walks a fixed selection once.
type cursor[T any] struct {
	items []T
	pos   int
}

func (c *cursor[T]) next() (T, bool) {
	if c.pos >= len(c.items) {
		var zero T
		return zero, false
	}
	it := c.items[c.pos]
	c.pos++
	return it, true
}
