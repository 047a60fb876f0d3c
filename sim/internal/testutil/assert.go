package testutil

import (
	"math"
	"testing"

	"github.com/wr-lattice/latticegas/sim/lattice"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertNoConflicts fails if any edge joins two occupied sites holding
// different species labels.
func AssertNoConflicts(t *testing.T, labels []int, adj lattice.List) {
	t.Helper()
	for u, nbrs := range adj {
		if labels[u] == 0 {
			continue
		}
		for _, v := range nbrs {
			if labels[v] != 0 && labels[v] != labels[u] {
				t.Fatalf("conflict on edge %d-%d: labels %d and %d", u, v, labels[u], labels[v])
			}
		}
	}
}

// AssertLabelsInRange fails if any label is outside [0, m].
func AssertLabelsInRange(t *testing.T, labels []int, m int) {
	t.Helper()
	for i, s := range labels {
		if s < 0 || s > m {
			t.Fatalf("site %d holds label %d outside [0,%d]", i, s, m)
		}
	}
}
