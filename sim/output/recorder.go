package output

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/wr-lattice/latticegas/sim/lattice"
	"github.com/wr-lattice/latticegas/sim/observable"
)

// Observable stream names, also used as directory names.
const (
	ParamCrystal = "crystal"
	ParamDensity = "density"
	ParamDemixed = "demixed"
)

var params = []string{ParamCrystal, ParamDensity, ParamDemixed}

// RunKey identifies a run in file names.
type RunKey struct {
	Size     int
	Species  int
	Fugacity float64
	Lattice  string
}

// FileName returns "<param>_L<L>_M<M>_z<z>_<lattice>.txt" with z printed to two
// decimals and its point replaced by a dash, e.g. crystal_L30_M8_z1-10_square.txt.
func (k RunKey) FileName(param string) string {
	z := strings.Replace(fmt.Sprintf("%.2f", k.Fugacity), ".", "-", 1)
	return fmt.Sprintf("%s_L%d_M%d_z%s_%s.txt", param, k.Size, k.Species, z, k.Lattice)
}

// Config selects which streams a Recorder writes.
type Config struct {
	Dir     string // root output directory
	Trace   bool   // write every sweep under <Dir>/trace/<param>/
	Samples bool   // write sampling sweeps under <Dir>/sampling/<param>/
}

// Recorder owns every output file of one run. All files are opened up front
// by NewRecorder, so an unwritable directory fails before any sweep.
type Recorder struct {
	cfg     Config
	key     RunKey
	trace   map[string]*Series
	samples map[string]*Series
}

// NewRecorder opens the configured streams. On error every file already
// opened is closed.
func NewRecorder(cfg Config, key RunKey) (*Recorder, error) {
	rec := &Recorder{cfg: cfg, key: key, trace: map[string]*Series{}, samples: map[string]*Series{}}
	for _, p := range params {
		if cfg.Trace {
			s, err := CreateSeries(rec.path("trace", p))
			if err != nil {
				_ = rec.Close()
				return nil, err
			}
			rec.trace[p] = s
		}
		if cfg.Samples {
			s, err := CreateSeries(rec.path("sampling", p))
			if err != nil {
				_ = rec.Close()
				return nil, err
			}
			rec.samples[p] = s
		}
	}
	return rec, nil
}

func (r *Recorder) path(kind, param string) string {
	return filepath.Join(r.cfg.Dir, kind, param, r.key.FileName(param))
}

// RecordSweep appends snap to the per-sweep trace streams.
func (r *Recorder) RecordSweep(snap observable.Snapshot) error {
	return appendSnapshot(r.trace, snap)
}

// RecordSample appends snap to the sampling streams.
func (r *Recorder) RecordSample(snap observable.Snapshot) error {
	return appendSnapshot(r.samples, snap)
}

func appendSnapshot(set map[string]*Series, snap observable.Snapshot) error {
	if len(set) == 0 {
		return nil
	}
	values := map[string]float64{
		ParamCrystal: snap.Crystal,
		ParamDensity: snap.Density,
		ParamDemixed: snap.Demixed,
	}
	for _, p := range params {
		if err := set[p].Append(values[p]); err != nil {
			return err
		}
	}
	return nil
}

// SamplePath returns the sampling file of param, or "" when samples are not written.
func (r *Recorder) SamplePath(param string) string {
	if s, ok := r.samples[param]; ok {
		return s.Path()
	}
	return ""
}

// WriteState writes the final configuration, one label per site.
func (r *Recorder) WriteState(labels []int) error {
	return WriteLabelsFile(filepath.Join(r.cfg.Dir, "state", r.key.FileName("state")), labels)
}

// WriteStateGrid writes the final configuration of a square lattice as an
// L x L grid, row r holding sites r*L .. r*L+L-1.
func (r *Recorder) WriteStateGrid(labels []int) (err error) {
	grid, err := lattice.ToGrid(labels)
	if err != nil {
		return err
	}
	path := filepath.Join(r.cfg.Dir, "state", r.key.FileName("grid"))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("opening output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteGrid(f, grid)
}

// WriteSublattices writes the sublattice class of every site.
func (r *Recorder) WriteSublattices(labels []int) error {
	return WriteLabelsFile(filepath.Join(r.cfg.Dir, "sublattice", r.key.FileName("sublattice")), labels)
}

// Close flushes and closes every stream, joining any errors.
func (r *Recorder) Close() error {
	var errs []error
	for _, set := range []map[string]*Series{r.trace, r.samples} {
		for _, p := range params {
			if s, ok := set[p]; ok {
				errs = append(errs, s.Close())
			}
		}
	}
	return errors.Join(errs...)
}
