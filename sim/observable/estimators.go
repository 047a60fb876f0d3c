package observable

import (
	"math"
	"math/cmplx"

	"github.com/wr-lattice/latticegas/sim/lattice"
	"github.com/wr-lattice/latticegas/sim/partition"
)

// Density returns the fraction of occupied sites, 0 for an empty lattice.
func Density(state []int) float64 {
	if len(state) == 0 {
		return 0
	}
	occupied := 0
	for _, s := range state {
		if s != 0 {
			occupied++
		}
	}
	return float64(occupied) / float64(len(state))
}

// CrystalParameter measures sublattice order. A site is ordered when none of
// its neighbours shares its occupancy status (vacant vs occupied, species are
// ignored). For each sublattice class the ordered fraction of its sites is
// computed; the result is the largest fraction over the non-empty classes.
func CrystalParameter(state []int, adj lattice.List, assign partition.Assignment) float64 {
	ordered := make([]int, assign.Classes)
	total := make([]int, assign.Classes)
	for u, nbrs := range adj {
		c := assign.Class(u) - 1
		if c < 0 || c >= assign.Classes {
			continue
		}
		total[c]++
		occ := state[u] != 0
		isolated := true
		for _, v := range nbrs {
			if (state[v] != 0) == occ {
				isolated = false
				break
			}
		}
		if isolated {
			ordered[c]++
		}
	}
	best := 0.0
	for c := range total {
		if total[c] == 0 {
			continue
		}
		best = math.Max(best, float64(ordered[c])/float64(total[c]))
	}
	return best
}

// StaggeredParameter is the signed two-sublattice order parameter
// (1/N) * sum_u (2*n_u - 1) * s(u), with n_u the occupancy of site u and
// s(u) = +1 on class 1, -1 on class 2. It is 1 when exactly class 1 is
// filled and -1 when exactly class 2 is.
func StaggeredParameter(state []int, assign partition.Assignment) float64 {
	if len(state) == 0 {
		return 0
	}
	total := 0
	for u, s := range state {
		n := 0
		if s != 0 {
			n = 1
		}
		sign := 1
		if assign.Class(u) == 2 {
			sign = -1
		}
		total += (2*n - 1) * sign
	}
	return float64(total) / float64(len(state))
}

// DemixedParameter returns |sum_s (N_s/N_occ) * exp(-2*pi*i*(s-1)/m)|, the
// clock-model magnitude of the species composition. It is 0 for a perfectly
// mixed composition, 1 when every particle belongs to one species, and 0 when
// the lattice is empty.
func DemixedParameter(state []int, m int) float64 {
	if m < 1 {
		return 0
	}
	counts := make([]int, m)
	occupied := 0
	for _, s := range state {
		if s >= 1 && s <= m {
			counts[s-1]++
			occupied++
		}
	}
	if occupied == 0 {
		return 0
	}
	var sum complex128
	for i, n := range counts {
		if n == 0 {
			continue
		}
		phase := -2 * math.Pi * float64(i) / float64(m)
		sum += complex(float64(n)/float64(occupied), 0) * cmplx.Exp(complex(0, phase))
	}
	return cmplx.Abs(sum)
}
