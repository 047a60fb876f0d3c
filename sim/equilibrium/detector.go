// Package equilibrium decides, online, when a Monte Carlo run has settled and
// how many further sweeps to sample.
//
// The detector watches one scalar observable. While searching it collects
// the observable in fixed-size blocks; a block whose variance falls below a
// critical value, or exhaustion of the initial sweep budget, marks the
// equilibrium point and extends the budget by the sample size. Every sweep
// after that point is a sample. This is a short-window heuristic and does not
// prove equilibration.
package equilibrium

import (
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// Phase is the detector state.
type Phase int

const (
	// Searching collects blocks and waits for low variance or the budget.
	Searching Phase = iota
	// Sampling emits every observation until the extended budget is reached.
	Sampling
)

func (p Phase) String() string {
	switch p {
	case Searching:
		return "searching"
	case Sampling:
		return "sampling"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// Config holds the detector thresholds.
type Config struct {
	BlockSize        int     // observations per variance block
	CriticalVariance float64 // block variance below which the run counts as settled
	InitialSweeps    int     // sweep budget before the equilibrium point is found
	SampleSize       int     // sweeps added to the budget at the equilibrium point
}

// DefaultConfig returns the thresholds the production runs use.
func DefaultConfig() Config {
	return Config{
		BlockSize:        2500,
		CriticalVariance: 0.0005,
		InitialSweeps:    100000,
		SampleSize:       5000000,
	}
}

// Validate rejects non-positive thresholds.
func (c Config) Validate() error {
	if c.BlockSize <= 0 {
		return fmt.Errorf("block size must be positive, got %d", c.BlockSize)
	}
	if c.CriticalVariance <= 0 {
		return fmt.Errorf("critical variance must be positive, got %g", c.CriticalVariance)
	}
	if c.InitialSweeps <= 0 {
		return fmt.Errorf("initial sweeps must be positive, got %d", c.InitialSweeps)
	}
	if c.SampleSize <= 0 {
		return fmt.Errorf("sample size must be positive, got %d", c.SampleSize)
	}
	return nil
}

// ErrOutOfOrder is returned by Observe when sweep indices do not increase.
var ErrOutOfOrder = errors.New("equilibrium: sweep indices must increase")

// Detector is the two-phase equilibrium state machine. Not safe for
// concurrent use.
type Detector struct {
	cfg       Config
	phase     Phase
	block     []float64
	budget    int
	eqSweep   int
	lastSweep int
	lastVar   float64
	timedOut  bool
	samples   int
}

// New validates cfg and returns a Detector in the Searching phase.
func New(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{
		cfg:    cfg,
		phase:  Searching,
		block:  make([]float64, 0, cfg.BlockSize),
		budget: cfg.InitialSweeps,
	}, nil
}

// Observe feeds the observable measured after sweep. It reports whether value
// belongs to the sample stream.
func (d *Detector) Observe(sweep int, value float64) (bool, error) {
	if sweep <= d.lastSweep {
		return false, fmt.Errorf("%w: got %d after %d", ErrOutOfOrder, sweep, d.lastSweep)
	}
	d.lastSweep = sweep

	if d.phase == Sampling {
		if sweep > d.budget {
			return false, nil
		}
		d.samples++
		return true, nil
	}

	d.block = append(d.block, value)
	if len(d.block) == d.cfg.BlockSize {
		d.lastVar = stat.PopVariance(d.block, nil)
		if d.lastVar < d.cfg.CriticalVariance {
			logrus.Infof("equilibrium reached at sweep %d (block variance %.3g < %.3g)", sweep, d.lastVar, d.cfg.CriticalVariance)
			d.enterSampling(sweep)
			return false, nil
		}
		logrus.Debugf("sweep %d: block variance %.3g too high, continuing", sweep, d.lastVar)
		d.block = d.block[:0]
	}
	// A budget that is not a multiple of the block size still ends the search.
	if sweep >= d.budget {
		logrus.Warnf("no equilibrium point after %d sweeps, sampling anyway (last block variance %.3g)", sweep, d.lastVar)
		d.timedOut = true
		d.enterSampling(sweep)
	}
	return false, nil
}

func (d *Detector) enterSampling(sweep int) {
	d.phase = Sampling
	d.eqSweep = sweep
	d.budget = sweep + d.cfg.SampleSize
	d.block = nil
}

// Phase returns the current phase.
func (d *Detector) Phase() Phase { return d.phase }

// Budget returns the current total sweep budget.
func (d *Detector) Budget() int { return d.budget }

// Done reports whether sweep has reached the budget in the Sampling phase.
func (d *Detector) Done(sweep int) bool { return d.phase == Sampling && sweep >= d.budget }

// EquilibriumSweep returns the sweep at which sampling began, 0 while searching.
func (d *Detector) EquilibriumSweep() int { return d.eqSweep }

// TimedOut reports whether sampling began because the budget ran out.
func (d *Detector) TimedOut() bool { return d.timedOut }

// LastVariance returns the variance of the most recently completed block.
func (d *Detector) LastVariance() float64 { return d.lastVar }

// Samples returns how many observations were accepted as samples.
func (d *Detector) Samples() int { return d.samples }

// Config returns the thresholds the detector was built with.
func (d *Detector) Config() Config { return d.cfg }
