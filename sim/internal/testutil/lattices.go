// Package testutil provides shared test infrastructure for the lattice-gas
// simulator: small canonical lattices with known colouring properties and
// invariant assertions used across sim/ and its sub-packages.
package testutil

import (
	"sort"

	"github.com/wr-lattice/latticegas/sim/lattice"
)

// Cycle returns the n-cycle 0-1-...-(n-1)-0. Even n is bipartite, odd n needs three colours.
func Cycle(n int) lattice.List {
	adj := make(lattice.List, n)
	for i := 0; i < n; i++ {
		adj[i] = dedupe(i, []int{(i + n - 1) % n, (i + 1) % n})
	}
	return adj
}

// Path returns the path 0-1-...-(n-1).
func Path(n int) lattice.List {
	adj := make(lattice.List, n)
	for i := 0; i < n; i++ {
		var nbrs []int
		if i > 0 {
			nbrs = append(nbrs, i-1)
		}
		if i+1 < n {
			nbrs = append(nbrs, i+1)
		}
		adj[i] = nbrs
	}
	return adj
}

// Disconnected returns n sites with no edges.
func Disconnected(n int) lattice.List {
	adj := make(lattice.List, n)
	for i := range adj {
		adj[i] = []int{}
	}
	return adj
}

// Complete returns the complete graph K_n.
func Complete(n int) lattice.List {
	adj := make(lattice.List, n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i != j {
				adj[i] = append(adj[i], j)
			}
		}
	}
	return adj
}

// SquarePeriodic returns the L x L square lattice with periodic boundaries.
// Site r*L+c neighbours its four axial neighbours; bipartite iff L is even.
func SquarePeriodic(l int) lattice.List {
	return periodic(l, [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}})
}

// TriangularPeriodic returns the L x L triangular lattice with periodic
// boundaries: the square lattice plus one diagonal. Three-colourable by
// (r+c) mod 3 when L is a multiple of 3.
func TriangularPeriodic(l int) lattice.List {
	return periodic(l, [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}, {1, 1}, {-1, -1}})
}

// Offset shifts every index of adj by delta, for gluing fixtures together.
func Offset(adj lattice.List, delta int) lattice.List {
	out := make(lattice.List, len(adj))
	for i, nbrs := range adj {
		out[i] = make([]int, len(nbrs))
		for j, v := range nbrs {
			out[i][j] = v + delta
		}
	}
	return out
}

func periodic(l int, offsets [][2]int) lattice.List {
	adj := make(lattice.List, l*l)
	for r := 0; r < l; r++ {
		for c := 0; c < l; c++ {
			u := r*l + c
			nbrs := make([]int, 0, len(offsets))
			for _, d := range offsets {
				nr := ((r+d[0])%l + l) % l
				nc := ((c+d[1])%l + l) % l
				nbrs = append(nbrs, nr*l+nc)
			}
			adj[u] = dedupe(u, nbrs)
		}
	}
	return adj
}

// dedupe sorts nbrs and drops duplicates and self-references, which appear
// on very small periodic lattices.
func dedupe(self int, nbrs []int) []int {
	sort.Ints(nbrs)
	out := make([]int, 0, len(nbrs))
	for i, v := range nbrs {
		if v == self || (i > 0 && v == nbrs[i-1]) {
			continue
		}
		out = append(out, v)
	}
	return out
}
