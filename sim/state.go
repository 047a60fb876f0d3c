package sim

import (
	"math/rand"

	"github.com/wr-lattice/latticegas/sim/lattice"
)

// State is the species label of every site: 0 is a vacancy, 1..M a species.
// Every move keeps adjacent occupied sites on the same label; neighbouring
// particles of the same species are allowed and form clusters.
type State []int

// Occupied returns the number of nonvacant sites.
func (s State) Occupied() int {
	n := 0
	for _, l := range s {
		if l != 0 {
			n++
		}
	}
	return n
}

// SpeciesCounts returns the number of sites holding each species; index
// s-1 is species s.
func (s State) SpeciesCounts(m int) []int {
	counts := make([]int, m)
	for _, l := range s {
		if l >= 1 && l <= m {
			counts[l-1]++
		}
	}
	return counts
}

// Conflicts counts edges joining two occupied sites of different species.
func Conflicts(s State, adj lattice.List) int {
	n := 0
	for u, nbrs := range adj {
		if s[u] == 0 {
			continue
		}
		for _, v := range nbrs {
			if v > u && s[v] != 0 && s[v] != s[u] {
				n++
			}
		}
	}
	return n
}

// Initialize seeds a configuration site by site in index order. Each site is
// occupied with probability Mz/(Mz+1) by a uniformly drawn species, unless the
// draw is rejected by policy against the neighbours seeded so far, in which
// case the site stays vacant.
func Initialize(adj lattice.List, cfg EngineConfig, rng *rand.Rand) State {
	state := make(State, len(adj))
	p := cfg.InitOccupancyProb()
	for i := range state {
		if rng.Float64() >= p {
			continue
		}
		k := 1 + rng.Intn(cfg.Species)
		if initRejects(state, adj[i], k, cfg.Init) {
			continue
		}
		state[i] = k
	}
	return state
}

func initRejects(state State, nbrs []int, k int, policy InitPolicy) bool {
	for _, v := range nbrs {
		if state[v] == 0 {
			continue
		}
		if policy == InitStrict || state[v] != k {
			return true
		}
	}
	return false
}
