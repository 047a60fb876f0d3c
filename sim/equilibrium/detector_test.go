package equilibrium

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallConfig() Config {
	return Config{BlockSize: 4, CriticalVariance: 0.0005, InitialSweeps: 100, SampleSize: 10}
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"block size", func(c *Config) { c.BlockSize = 0 }},
		{"critical variance", func(c *Config) { c.CriticalVariance = 0 }},
		{"initial sweeps", func(c *Config) { c.InitialSweeps = -1 }},
		{"sample size", func(c *Config) { c.SampleSize = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
			_, err := New(cfg)
			assert.Error(t, err)
		})
	}
}

func TestDetector_LowVarianceFirstBlock(t *testing.T) {
	// GIVEN a detector with block size 4 and sample size 10
	d, err := New(smallConfig())
	require.NoError(t, err)

	// WHEN a flat series fills the first block
	for s := 1; s <= 3; s++ {
		sample, err := d.Observe(s, 0.5)
		require.NoError(t, err)
		assert.False(t, sample)
		assert.Equal(t, Searching, d.Phase())
	}
	sample, err := d.Observe(4, 0.5)
	require.NoError(t, err)

	// THEN it switches to sampling at the first block boundary and extends the budget by the sample size
	assert.False(t, sample, "the equilibrium sweep itself is not a sample")
	assert.Equal(t, Sampling, d.Phase())
	assert.Equal(t, 4, d.EquilibriumSweep())
	assert.Equal(t, 4+10, d.Budget())
	assert.False(t, d.TimedOut())
	assert.Zero(t, d.LastVariance())
}

func TestDetector_SamplingEmitsUntilBudget(t *testing.T) {
	d, err := New(smallConfig())
	require.NoError(t, err)
	for s := 1; s <= 4; s++ {
		_, err := d.Observe(s, 1)
		require.NoError(t, err)
	}

	samples := 0
	s := 5
	for ; s <= d.Budget(); s++ {
		sample, err := d.Observe(s, 1)
		require.NoError(t, err)
		if sample {
			samples++
		}
	}
	assert.Equal(t, 10, samples)
	assert.Equal(t, 10, d.Samples())
	assert.True(t, d.Done(s-1))

	sample, err := d.Observe(s, 1)
	require.NoError(t, err)
	assert.False(t, sample, "observations past the budget are not samples")
}

func TestDetector_HighVarianceKeepsSearching(t *testing.T) {
	d, err := New(smallConfig())
	require.NoError(t, err)

	// alternating 0/1 has population variance 0.25
	for s := 1; s <= 8; s++ {
		_, err := d.Observe(s, float64(s%2))
		require.NoError(t, err)
	}
	assert.Equal(t, Searching, d.Phase())
	assert.InDelta(t, 0.25, d.LastVariance(), 1e-12)
	assert.Equal(t, 100, d.Budget())

	// a later flat block settles it
	for s := 9; s <= 12; s++ {
		_, err := d.Observe(s, 0.3)
		require.NoError(t, err)
	}
	assert.Equal(t, Sampling, d.Phase())
	assert.Equal(t, 12, d.EquilibriumSweep())
	assert.Equal(t, 22, d.Budget())
}

func TestDetector_TimeoutAtBudget(t *testing.T) {
	cfg := smallConfig()
	cfg.InitialSweeps = 6 // not a multiple of the block size
	d, err := New(cfg)
	require.NoError(t, err)

	for s := 1; s <= 6; s++ {
		_, err := d.Observe(s, float64(s%2))
		require.NoError(t, err)
	}
	assert.Equal(t, Sampling, d.Phase())
	assert.True(t, d.TimedOut())
	assert.Equal(t, 6, d.EquilibriumSweep())
	assert.Equal(t, 16, d.Budget())
}

func TestDetector_TimeoutOnBlockBoundary(t *testing.T) {
	cfg := smallConfig()
	cfg.InitialSweeps = 4
	d, err := New(cfg)
	require.NoError(t, err)

	for s := 1; s <= 4; s++ {
		_, err := d.Observe(s, float64(s%2))
		require.NoError(t, err)
	}
	assert.True(t, d.TimedOut())
	assert.Equal(t, 14, d.Budget())
}

func TestDetector_RejectsNonIncreasingSweeps(t *testing.T) {
	d, err := New(smallConfig())
	require.NoError(t, err)
	_, err = d.Observe(1, 0)
	require.NoError(t, err)
	_, err = d.Observe(1, 0)
	assert.True(t, errors.Is(err, ErrOutOfOrder))
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "searching", Searching.String())
	assert.Equal(t, "sampling", Sampling.String())
	assert.Equal(t, "phase(7)", Phase(7).String())
}
