package partition

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wr-lattice/latticegas/sim/internal/testutil"
	"github.com/wr-lattice/latticegas/sim/lattice"
)

// colorRecursive is the textbook recursive search ColorGraph must agree with.
func colorRecursive(adj lattice.List, k int) ([]int, bool) {
	color := make([]int, len(adj))
	var visit func(v int) bool
	visit = func(v int) bool {
		if v == len(adj) {
			return true
		}
		for c := 1; c <= k; c++ {
			if safe(adj, color, v, c) {
				color[v] = c
				if visit(v + 1) {
					return true
				}
				color[v] = 0
			}
		}
		return false
	}
	if !visit(0) {
		return nil, false
	}
	return color, true
}

func TestIsBipartite(t *testing.T) {
	tests := []struct {
		name string
		adj  lattice.List
		want bool
	}{
		{"empty", lattice.List{}, true},
		{"isolated", testutil.Disconnected(3), true},
		{"even cycle", testutil.Cycle(6), true},
		{"odd cycle", testutil.Cycle(5), false},
		{"square 4x4", testutil.SquarePeriodic(4), true},
		{"square 3x3 periodic", testutil.SquarePeriodic(3), false},
		{"triangular 3x3", testutil.TriangularPeriodic(3), false},
		{"K4", testutil.Complete(4), false},
		{"bipartite plus odd component", append(testutil.Cycle(4), testutil.Offset(testutil.Cycle(3), 4)...), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsBipartite(tt.adj))
		})
	}
}

func TestColorGraph_FourCycleAlternates(t *testing.T) {
	// GIVEN the 4-cycle 0-1-2-3-0
	adj := lattice.List{{1, 3}, {0, 2}, {1, 3}, {0, 2}}
	require.True(t, IsBipartite(adj))

	// WHEN coloured with two colours
	labels, ok := ColorGraph(adj, 2)

	// THEN colours alternate along the cycle, starting from colour 1
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 1, 2}, labels)
}

func TestColorGraph_BipartiteLatticesTwoColour(t *testing.T) {
	for _, adj := range []lattice.List{testutil.SquarePeriodic(4), testutil.SquarePeriodic(10), testutil.Cycle(8), testutil.Path(7)} {
		require.True(t, IsBipartite(adj))
		labels, ok := ColorGraph(adj, 2)
		require.True(t, ok)
		assert.True(t, Assignment{Labels: labels, Classes: 2}.Proper(adj))
	}
}

func TestColorGraph_TripartiteLatticesThreeColour(t *testing.T) {
	for _, adj := range []lattice.List{testutil.TriangularPeriodic(3), testutil.TriangularPeriodic(6), testutil.Cycle(5)} {
		assert.False(t, IsBipartite(adj))
		_, ok := ColorGraph(adj, 2)
		assert.False(t, ok)
		labels, ok := ColorGraph(adj, 3)
		require.True(t, ok)
		assert.True(t, Assignment{Labels: labels, Classes: 3}.Proper(adj))
	}
}

func TestColorGraph_MatchesRecursiveSearch(t *testing.T) {
	fixtures := map[string]lattice.List{
		"cycle5":      testutil.Cycle(5),
		"cycle6":      testutil.Cycle(6),
		"square4":     testutil.SquarePeriodic(4),
		"triangular3": testutil.TriangularPeriodic(3),
		"triangular6": testutil.TriangularPeriodic(6),
		"K4":          testutil.Complete(4),
		"isolated":    testutil.Disconnected(4),
	}
	for name, adj := range fixtures {
		for k := 1; k <= 4; k++ {
			got, gotOK := ColorGraph(adj, k)
			want, wantOK := colorRecursive(adj, k)
			assert.Equal(t, wantOK, gotOK, "%s k=%d", name, k)
			assert.Equal(t, want, got, "%s k=%d", name, k)
		}
	}
}

func TestColorGraph_Edges(t *testing.T) {
	labels, ok := ColorGraph(lattice.List{}, 2)
	assert.True(t, ok)
	assert.Empty(t, labels)

	_, ok = ColorGraph(testutil.Cycle(4), 0)
	assert.False(t, ok)

	labels, ok = ColorGraph(testutil.Disconnected(3), 2)
	require.True(t, ok)
	assert.Equal(t, []int{1, 1, 1}, labels)
}

func TestPartition(t *testing.T) {
	a, err := Partition(testutil.SquarePeriodic(4))
	require.NoError(t, err)
	assert.Equal(t, 2, a.Classes)
	assert.Equal(t, []int{8, 8}, a.Sizes())

	a, err = Partition(testutil.TriangularPeriodic(3))
	require.NoError(t, err)
	assert.Equal(t, 3, a.Classes)
	assert.Equal(t, []int{3, 3, 3}, a.Sizes())
	assert.True(t, a.Proper(testutil.TriangularPeriodic(3)))
}

func TestPartition_FourChromaticIsFatal(t *testing.T) {
	// GIVEN K4, which needs four colours
	_, err := Partition(testutil.Complete(4))

	// THEN partitioning fails loudly instead of returning a degenerate assignment
	assert.True(t, errors.Is(err, ErrTooManyColors))
}

func TestAssignment_Proper(t *testing.T) {
	adj := testutil.Cycle(4)
	assert.True(t, Assignment{Labels: []int{1, 2, 1, 2}, Classes: 2}.Proper(adj))
	assert.False(t, Assignment{Labels: []int{1, 1, 2, 2}, Classes: 2}.Proper(adj))
	assert.False(t, Assignment{Labels: []int{1, 2, 1}, Classes: 2}.Proper(adj))
	assert.False(t, Assignment{Labels: []int{1, 2, 1, 3}, Classes: 2}.Proper(adj))
}
