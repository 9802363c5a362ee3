package knapsack_test

import (
	"maps"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eugenenazirov/knap/pkg/knapsack"
)

type testItem struct {
	id     string
	weight int
	value  int
}

func (t testItem) Weight() int { return t.weight }
func (t testItem) Value() int  { return t.value }

func item(id string, weight, value int) testItem {
	return testItem{id: id, weight: weight, value: value}
}

func ids(items []testItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.id)
	}
	return out
}

func classicItems() []testItem {
	return []testItem{
		item("A", 10, 60),
		item("B", 20, 100),
		item("C", 30, 120),
	}
}

// TestOptimal_Selections covers the deterministic exact-solver cases.
func TestOptimal_Selections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		items      []testItem
		capacity   int
		wantIDs    []string
		wantWeight int
		wantValue  int
	}{
		{
			name: "TieBreakFavoursEarlierSubset",
			items: []testItem{
				item("item1", 2, 3),
				item("item2", 3, 4),
				item("item3", 4, 5),
				item("item4", 5, 6),
			},
			capacity:   7,
			wantIDs:    []string{"item2", "item3"},
			wantWeight: 7,
			wantValue:  9,
		},
		{
			name:       "BeatsGreedyOnClassicCase",
			items:      classicItems(),
			capacity:   50,
			wantIDs:    []string{"B", "C"},
			wantWeight: 50,
			wantValue:  220,
		},
		{
			name: "ZeroValueItemLeftOut",
			items: []testItem{
				item("valuable", 5, 10),
				item("zero_val", 2, 0),
			},
			capacity:   7,
			wantIDs:    []string{"valuable"},
			wantWeight: 5,
			wantValue:  10,
		},
		{
			name: "AllItemsTooHeavy",
			items: []testItem{
				item("big1", 10, 100),
				item("big2", 20, 200),
			},
			capacity: 5,
			wantIDs:  []string{},
		},
		{
			name: "FreeItemAlwaysTaken",
			items: []testItem{
				item("heavy", 9, 9),
				item("free", 0, 4),
			},
			capacity:   5,
			wantIDs:    []string{"free"},
			wantWeight: 0,
			wantValue:  4,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := knapsack.NewOptimal(tc.items, tc.capacity).Collect()
			weight, value := knapsack.Totals(got)

			assert.Equal(t, tc.wantIDs, ids(got))
			assert.Equal(t, tc.wantWeight, weight)
			assert.Equal(t, tc.wantValue, value)
		})
	}
}

// TestGreedy_Selections covers ratio ordering and the free-item tie-break rules.
func TestGreedy_Selections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		items    []testItem
		capacity int
		wantIDs  []string
	}{
		{
			name:     "BasicSelection",
			items:    classicItems(),
			capacity: 50,
			wantIDs:  []string{"A", "B"},
		},
		{
			name:     "AllItemsFit",
			items:    []testItem{item("A", 10, 60), item("B", 20, 100)},
			capacity: 100,
			wantIDs:  []string{"A", "B"},
		},
		{
			name:     "NoItemsFit",
			items:    []testItem{item("A", 10, 60), item("B", 20, 100)},
			capacity: 5,
			wantIDs:  []string{},
		},
		{
			name: "SameRatioKeepsInputOrder",
			items: []testItem{
				item("A", 10, 100),
				item("B", 10, 100),
				item("C", 5, 40),
			},
			capacity: 15,
			wantIDs:  []string{"A", "C"},
		},
		{
			name:     "FreeValuableFirst",
			items:    []testItem{item("FreeGood", 0, 1000), item("A", 10, 60)},
			capacity: 10,
			wantIDs:  []string{"FreeGood", "A"},
		},
		{
			name:     "WorthlessFreeLast",
			items:    []testItem{item("WorthlessFree", 0, 0), item("A", 10, 60)},
			capacity: 10,
			wantIDs:  []string{"A", "WorthlessFree"},
		},
		{
			name:     "WorthlessFreeStillAdmitted",
			items:    []testItem{item("WorthlessFree", 0, 0), item("Big", 100, 100)},
			capacity: 5,
			wantIDs:  []string{"WorthlessFree"},
		},
		{
			name: "FreeItemsByValueDescending",
			items: []testItem{
				item("A", 10, 10),
				item("Free1", 0, 100),
				item("Free2", 0, 200),
			},
			capacity: 10,
			wantIDs:  []string{"Free2", "Free1", "A"},
		},
		{
			name: "WorthlessAfterZeroValueWeighted",
			items: []testItem{
				item("WorthlessFree", 0, 0),
				item("Dud", 1, 0),
			},
			capacity: 1,
			wantIDs:  []string{"Dud", "WorthlessFree"},
		},
		{
			name: "MixedFreeAndWeighted",
			items: []testItem{
				item("ItemA", 20, 100),
				item("ItemB", 30, 120),
				item("FreeValuable", 0, 50),
				item("ItemC", 10, 65),
				item("FreeWorthless", 0, 0),
			},
			capacity: 50,
			wantIDs:  []string{"FreeValuable", "ItemC", "ItemA", "FreeWorthless"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := knapsack.NewGreedy(tc.items, tc.capacity).Collect()
			assert.Equal(t, tc.wantIDs, ids(got))

			fromSeq := knapsack.GreedyFrom(slices.Values(tc.items), tc.capacity).Collect()
			assert.Equal(t, got, fromSeq, "GreedyFrom must match direct construction")
		})
	}
}

func TestGreedy_ClassicTotals(t *testing.T) {
	weight, value := knapsack.Totals(knapsack.NewGreedy(classicItems(), 50).Collect())
	assert.Equal(t, 30, weight, "A and B weigh 10+20")
	assert.Equal(t, 160, value)
}

func TestSolvers_DegenerateInputs(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		items    []testItem
		capacity int
	}{
		"empty items":       {items: nil, capacity: 10},
		"zero capacity":     {items: classicItems(), capacity: 0},
		"negative capacity": {items: classicItems(), capacity: -3},
		"zero capacity with free items": {
			items:    []testItem{item("free", 0, 22), item("worthless", 0, 0), item("A", 10, 60)},
			capacity: 0,
		},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			assert.Zero(t, knapsack.NewOptimal(tc.items, tc.capacity).Count())
			assert.Zero(t, knapsack.NewGreedy(tc.items, tc.capacity).Count())
		})
	}
}

func TestSolvers_DrainingIsIdempotent(t *testing.T) {
	t.Parallel()

	sequences := map[string]knapsack.Sequence[testItem]{
		"optimal": knapsack.NewOptimal(classicItems(), 50),
		"greedy":  knapsack.NewGreedy(classicItems(), 50),
	}

	for name, seq := range sequences {
		seq := seq
		t.Run(name, func(t *testing.T) {
			require.Equal(t, 2, knapsack.Count(seq))
			for i := 0; i < 3; i++ {
				it, ok := seq.Next()
				assert.False(t, ok, "pull %d after exhaustion must report end", i)
				assert.Zero(t, it)
			}
			assert.Empty(t, knapsack.Collect(seq))
		})
	}
}

func TestSolvers_PartialDrainThenRange(t *testing.T) {
	opt := knapsack.NewOptimal(classicItems(), 50)

	first, ok := opt.Next()
	require.True(t, ok)
	assert.Equal(t, "B", first.id)
	assert.Equal(t, 2, opt.Len(), "Len reports the whole selection")

	var rest []string
	for it := range opt.All() {
		rest = append(rest, it.id)
	}
	assert.Equal(t, []string{"C"}, rest)
}

func TestSolvers_RangeStopsEarly(t *testing.T) {
	g := knapsack.NewGreedy(classicItems(), 50)
	for range g.All() {
		break
	}
	it, ok := g.Next()
	require.True(t, ok, "breaking out of a range loop leaves later items in place")
	assert.Equal(t, "B", it.id)
}

func TestSolvers_InputSliceIsCopied(t *testing.T) {
	items := classicItems()
	opt := knapsack.NewOptimal(items, 50)
	items[1] = item("X", 1, 1)
	items[2] = item("Y", 1, 1)

	assert.Equal(t, []string{"B", "C"}, ids(opt.Collect()))
}

func TestOptimalFrom_MatchesNewOptimal(t *testing.T) {
	byID := map[string]testItem{"only": item("only", 3, 7)}
	got := knapsack.OptimalFrom(maps.Values(byID), 3).Collect()
	assert.Equal(t, []testItem{item("only", 3, 7)}, got)

	fromSlice := knapsack.OptimalFrom(slices.Values(classicItems()), 50).Collect()
	assert.Equal(t, knapsack.NewOptimal(classicItems(), 50).Collect(), fromSlice)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	require.NoError(t, knapsack.Validate(classicItems(), 0))
	assert.ErrorIs(t, knapsack.Validate(classicItems(), -1), knapsack.ErrNegativeCapacity)
	assert.ErrorIs(t, knapsack.Validate([]testItem{item("bad", -1, 1)}, 5), knapsack.ErrNegativeWeight)
	assert.ErrorIs(t, knapsack.Validate([]testItem{item("bad", 1, -1)}, 5), knapsack.ErrNegativeValue)
}

func TestSolvers_SkipNegativeItems(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		items    []testItem
		capacity int
		wantOpt  []string
		wantGrd  []string
	}{
		"negative weight does not free capacity": {
			items:    []testItem{item("antigravity", -100, 1), item("anvil", 50, 5)},
			capacity: 5,
			wantOpt:  []string{},
			wantGrd:  []string{},
		},
		"negative weight larger than the table": {
			items:    []testItem{item("antigravity", -100, 1)},
			capacity: 5,
			wantOpt:  []string{},
			wantGrd:  []string{},
		},
		"negative value": {
			items:    []testItem{item("debt", 1, -10), item("A", 2, 3)},
			capacity: 5,
			wantOpt:  []string{"A"},
			wantGrd:  []string{"A"},
		},
		"valid items still selected around bad ones": {
			items:    []testItem{item("A", 10, 60), item("bad", -1, 1000), item("B", 20, 100), item("C", 30, 120)},
			capacity: 50,
			wantOpt:  []string{"B", "C"},
			wantGrd:  []string{"A", "B"},
		},
	}

	for name, tc := range cases {
		tc := tc
		t.Run(name, func(t *testing.T) {
			var opt, grd []testItem
			require.NotPanics(t, func() {
				opt = knapsack.NewOptimal(tc.items, tc.capacity).Collect()
				grd = knapsack.NewGreedy(tc.items, tc.capacity).Collect()
			})
			assert.Equal(t, tc.wantOpt, ids(opt))
			assert.Equal(t, tc.wantGrd, ids(grd))

			optWeight, _ := knapsack.Totals(opt)
			grdWeight, _ := knapsack.Totals(grd)
			assert.LessOrEqual(t, optWeight, tc.capacity)
			assert.LessOrEqual(t, grdWeight, tc.capacity)
		})
	}
}

// TestOptimal_MatchesBruteForce cross-checks the DP against exhaustive enumeration on
// small random instances, and checks feasibility and the 0/1 property for both solvers.
func TestOptimal_MatchesBruteForce(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewPCG(42, 7))
	for round := 0; round < 200; round++ {
		n := rng.IntN(13)
		items := make([]testItem, n)
		for i := range items {
			items[i] = testItem{id: string(rune('a' + i)), weight: rng.IntN(15), value: rng.IntN(40)}
		}
		capacity := rng.IntN(40)

		opt := knapsack.NewOptimal(items, capacity).Collect()
		greedy := knapsack.NewGreedy(items, capacity).Collect()

		optWeight, optValue := knapsack.Totals(opt)
		greedyWeight, greedyValue := knapsack.Totals(greedy)
		best := bruteForceBest(items, capacity)

		require.Equalf(t, best, optValue, "round %d: items=%v capacity=%d", round, items, capacity)
		require.LessOrEqual(t, optWeight, capacity)
		require.LessOrEqual(t, greedyWeight, capacity)
		require.LessOrEqual(t, greedyValue, optValue)
		assertDistinct(t, opt)
		assertDistinct(t, greedy)
	}
}

// bruteForceBest enumerates every subset. Capacity 0 means an empty selection, even when
// zero-weight items would fit.
func bruteForceBest(items []testItem, capacity int) int {
	if capacity <= 0 {
		return 0
	}
	best := 0
	for mask := 0; mask < 1<<len(items); mask++ {
		weight, value := 0, 0
		for i, it := range items {
			if mask&(1<<i) != 0 {
				weight += it.weight
				value += it.value
			}
		}
		if weight <= capacity && value > best {
			best = value
		}
	}
	return best
}

func assertDistinct(t *testing.T, items []testItem) {
	t.Helper()
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		_, dup := seen[it.id]
		require.Falsef(t, dup, "item %s selected twice", it.id)
		seen[it.id] = struct{}{}
	}
}

func BenchmarkOptimal(b *testing.B) {
	items := benchItems(100)
	for i := 0; i < b.N; i++ {
		_ = knapsack.NewOptimal(items, 5_000).Count()
	}
}

func BenchmarkGreedy(b *testing.B) {
	items := benchItems(10_000)
	for i := 0; i < b.N; i++ {
		_ = knapsack.NewGreedy(items, 5_000).Count()
	}
}

func benchItems(n int) []testItem {
	rng := rand.New(rand.NewPCG(1, 2))
	items := make([]testItem, n)
	for i := range items {
		items[i] = testItem{weight: 1 + rng.IntN(100), value: rng.IntN(1000)}
	}
	return items
}
