package sim

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wr-lattice/latticegas/sim/internal/testutil"
)

func TestState_Occupied_And_SpeciesCounts(t *testing.T) {
	s := State{0, 1, 2, 2, 0, 3}
	assert.Equal(t, 4, s.Occupied())
	assert.Equal(t, []int{1, 2, 1}, s.SpeciesCounts(3))
}

func TestConflicts_CountsMismatchedEdgesOnce(t *testing.T) {
	adj := testutil.Path(4)
	assert.Equal(t, 0, Conflicts(State{1, 1, 0, 2}, adj))
	assert.Equal(t, 2, Conflicts(State{1, 2, 1, 0}, adj))
}

func TestInitialize_RelaxedNeverSeedsConflicts(t *testing.T) {
	// GIVEN a frustrated lattice and three species
	adj := testutil.TriangularPeriodic(6)
	cfg := DefaultEngineConfig(3, 4)

	for seed := int64(0); seed < 20; seed++ {
		// WHEN the lattice is seeded
		state := Initialize(adj, cfg, rand.New(rand.NewSource(seed)))

		// THEN no two neighbours hold different species
		testutil.AssertNoConflicts(t, state, adj)
		testutil.AssertLabelsInRange(t, state, 3)
	}
}

func TestInitialize_StrictLeavesNoOccupiedNeighbours(t *testing.T) {
	adj := testutil.SquarePeriodic(6)
	cfg := DefaultEngineConfig(1, 50)
	cfg.Init = InitStrict

	state := Initialize(adj, cfg, rand.New(rand.NewSource(3)))

	for u, nbrs := range adj {
		if state[u] == 0 {
			continue
		}
		for _, v := range nbrs {
			assert.Zero(t, state[v], "sites %d and %d both occupied", u, v)
		}
	}
	assert.Positive(t, state.Occupied())
}

func TestInitialize_HighFugacitySingleSpeciesFillsLattice(t *testing.T) {
	// GIVEN one species and an overwhelming fugacity
	adj := testutil.SquarePeriodic(4)
	cfg := DefaultEngineConfig(1, 1e12)

	// WHEN seeded with the relaxed rule
	state := Initialize(adj, cfg, rand.New(rand.NewSource(1)))

	// THEN same-species neighbours are accepted everywhere
	assert.Equal(t, len(adj), state.Occupied())
}

func TestInitialize_SameSeedSameState(t *testing.T) {
	adj := testutil.TriangularPeriodic(6)
	cfg := DefaultEngineConfig(2, 1)
	a := Initialize(adj, cfg, rand.New(rand.NewSource(11)))
	b := Initialize(adj, cfg, rand.New(rand.NewSource(11)))
	require.Equal(t, a, b)
}
