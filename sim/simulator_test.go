package sim

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wr-lattice/latticegas/sim/equilibrium"
	"github.com/wr-lattice/latticegas/sim/internal/testutil"
	"github.com/wr-lattice/latticegas/sim/lattice"
	"github.com/wr-lattice/latticegas/sim/observable"
	"github.com/wr-lattice/latticegas/sim/partition"
)

type countingRecorder struct {
	sweeps, samples int
	failAt          int
}

func (r *countingRecorder) RecordSweep(observable.Snapshot) error {
	r.sweeps++
	if r.failAt > 0 && r.sweeps == r.failAt {
		return errors.New("disk full")
	}
	return nil
}

func (r *countingRecorder) RecordSample(observable.Snapshot) error {
	r.samples++
	return nil
}

// quickConfig reaches equilibrium on the first complete block: block
// variances of values in [0, 1] never exceed 1/4.
func quickConfig(m int, z float64) SimConfig {
	cfg := DefaultSimConfig(m, z)
	cfg.Equilibrium = equilibrium.Config{BlockSize: 10, CriticalVariance: 1, InitialSweeps: 100, SampleSize: 20}
	cfg.Stride = 2
	return cfg
}

func newTestSimulator(t *testing.T, adj lattice.List, cfg SimConfig, seed int64, rec Recorder) *Simulator {
	t.Helper()
	s, err := NewSimulator(adj, cfg, NewPartitionedRNG(NewSimulationKey(seed)), rec)
	require.NoError(t, err)
	return s
}

func TestSimulator_Run_EquilibratesThenSamples(t *testing.T) {
	// GIVEN a bipartite lattice and a detector that accepts the first block
	rec := &countingRecorder{}
	s := newTestSimulator(t, testutil.SquarePeriodic(4), quickConfig(2, 1), 1, rec)

	// WHEN the run completes
	sum, err := s.Run(context.Background())
	require.NoError(t, err)

	// THEN sampling starts after the equilibrium sweep and lasts SampleSize sweeps
	assert.Equal(t, 10, sum.EquilibriumSweep)
	assert.False(t, sum.TimedOut)
	assert.Equal(t, 30, sum.Sweeps)
	assert.Equal(t, 20, sum.Samples)
	assert.Equal(t, 30, rec.sweeps)
	assert.Equal(t, 20, rec.samples)
	assert.Equal(t, 20, sum.Crystal.Count)
	assert.Equal(t, 30*16, sum.Moves.Attempts)
	assert.Zero(t, sum.Conflicts)
	assert.Equal(t, 2, sum.Sublattices)
	require.NotNil(t, sum.Binder)
	require.Len(t, sum.FinalSpecies, 2)
	assert.Equal(t, s.State().Occupied(), sum.FinalSpecies[0]+sum.FinalSpecies[1])
}

func TestSimulator_Run_TimesOutWhenBudgetEndsMidBlock(t *testing.T) {
	// GIVEN an initial budget shorter than one block
	cfg := quickConfig(1, 1)
	cfg.Equilibrium.InitialSweeps = 7

	s := newTestSimulator(t, testutil.Cycle(6), cfg, 3, nil)
	sum, err := s.Run(context.Background())
	require.NoError(t, err)

	// THEN the budget alone ends the search
	assert.True(t, sum.TimedOut)
	assert.Equal(t, 7, sum.EquilibriumSweep)
	assert.Equal(t, 27, sum.Sweeps)
	assert.Equal(t, 20, sum.Samples)
}

func TestSimulator_Run_StopsBetweenSweepsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := newTestSimulator(t, testutil.Cycle(4), quickConfig(1, 1), 1, nil)

	sum, err := s.Run(ctx)

	require.NoError(t, err)
	assert.True(t, sum.Stopped)
	assert.Zero(t, sum.Sweeps)
	assert.Zero(t, sum.Samples)
}

func TestSimulator_Run_RecorderErrorAborts(t *testing.T) {
	rec := &countingRecorder{failAt: 5}
	s := newTestSimulator(t, testutil.Cycle(4), quickConfig(1, 1), 1, rec)

	sum, err := s.Run(context.Background())

	require.Error(t, err)
	assert.Equal(t, 4, sum.Sweeps)
}

func TestSimulator_SameSeedReproducesRun(t *testing.T) {
	adj := testutil.TriangularPeriodic(6)
	cfg := quickConfig(3, 1.5)
	cfg.Engine.Cluster = true

	a, err := newTestSimulator(t, adj, cfg, 17, nil).Run(context.Background())
	require.NoError(t, err)
	b, err := newTestSimulator(t, adj, cfg, 17, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestSimulator_FrustratedLatticeKeepsInvariant(t *testing.T) {
	adj := testutil.TriangularPeriodic(6)
	cfg := quickConfig(3, 3)
	s := newTestSimulator(t, adj, cfg, 5, nil)

	sum, err := s.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, s.Sublattices.Classes)
	testutil.AssertNoConflicts(t, s.State(), adj)
	assert.Equal(t, cfg.Equilibrium.SampleSize, sum.Crystal.Count)
}

func TestNewSimulator_Errors(t *testing.T) {
	rng := NewPartitionedRNG(NewSimulationKey(1))

	_, err := NewSimulator(testutil.Complete(4), quickConfig(2, 1), rng, nil)
	assert.ErrorIs(t, err, partition.ErrTooManyColors)

	staggered := quickConfig(2, 1)
	staggered.Crystal = observable.CrystalStaggered
	_, err = NewSimulator(testutil.TriangularPeriodic(3), staggered, rng, nil)
	assert.ErrorIs(t, err, observable.ErrStaggeredNeedsBipartite)

	_, err = NewSimulator(lattice.List{}, quickConfig(2, 1), rng, nil)
	assert.Error(t, err)

	bad := quickConfig(0, 1)
	_, err = NewSimulator(testutil.Cycle(4), bad, rng, nil)
	assert.Error(t, err)
}
