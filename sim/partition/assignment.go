package partition

import "github.com/wr-lattice/latticegas/sim/lattice"

// Assignment maps every site to a sublattice class in 1..Classes.
type Assignment struct {
	Labels  []int
	Classes int
}

// Class returns the sublattice class of site i.
func (a Assignment) Class(i int) int { return a.Labels[i] }

// Sizes returns the number of sites in each class; Sizes()[c-1] is class c.
func (a Assignment) Sizes() []int {
	sizes := make([]int, a.Classes)
	for _, c := range a.Labels {
		if c >= 1 && c <= a.Classes {
			sizes[c-1]++
		}
	}
	return sizes
}

// Proper reports whether every site has a class in range and no edge joins
// two sites of the same class.
func (a Assignment) Proper(adj lattice.List) bool {
	if len(a.Labels) != len(adj) {
		return false
	}
	for u, nbrs := range adj {
		if a.Labels[u] < 1 || a.Labels[u] > a.Classes {
			return false
		}
		for _, v := range nbrs {
			if a.Labels[u] == a.Labels[v] {
				return false
			}
		}
	}
	return true
}
