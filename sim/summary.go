package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/wr-lattice/latticegas/sim/observable"
)

// Summary aggregates the outcome of one run for final reporting.
type Summary struct {
	RunID            string           `json:"run_id,omitempty"`
	Seed             int64            `json:"seed"`
	Sites            int              `json:"sites"`
	Sublattices      int              `json:"sublattices"`
	Sweeps           int              `json:"sweeps"`
	EquilibriumSweep int              `json:"equilibrium_sweep"`
	TimedOut         bool             `json:"timed_out"` // equilibrium declared by budget, not variance
	Stopped          bool             `json:"stopped"`   // ended early on request
	Samples          int              `json:"samples"`
	Crystal          observable.Stats `json:"crystal"`
	Density          observable.Stats `json:"density"`
	Demixed          observable.Stats `json:"demixed"`
	Binder           *float64         `json:"binder_cumulant,omitempty"`
	Autocorrelation  *float64         `json:"autocorrelation_time,omitempty"`
	Conflicts        int              `json:"conflicts"`     // edges between different species in the final state
	FinalSpecies     []int            `json:"final_species"` // particles of species s at index s-1 in the final state
	Moves            MoveStats        `json:"moves"`
}

// Print writes the summary to stdout.
func (s *Summary) Print() {
	_ = s.Fprint(os.Stdout)
}

// Fprint writes a header line followed by the summary as indented JSON.
func (s *Summary) Fprint(w io.Writer) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling summary: %w", err)
	}
	if _, err := fmt.Fprintln(w, "=== Simulation Summary ==="); err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// AcceptanceRate returns accepted single-site and cluster moves per attempt.
func (m MoveStats) AcceptanceRate() float64 {
	if m.Attempts == 0 {
		return 0
	}
	accepted := m.Insertions + m.Removals + m.Replacements + m.ClusterFlips + m.ClusterVacates
	return float64(accepted) / float64(m.Attempts)
}
