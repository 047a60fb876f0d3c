package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/wr-lattice/latticegas/sim/lattice"
)

// generatedFile is the adjacency file the geometry script leaves in its work dir.
const generatedFile = "temp_lattice_data.txt"

// ScriptGenerator runs an external geometry script as
// "<Command> -L <size> -l <type>" inside WorkDir.
type ScriptGenerator struct {
	Command string
	WorkDir string
}

// Generate runs the script and returns the path of the file it produced.
// A stale file from an earlier run is removed first so a failing script is
// never masked.
func (g ScriptGenerator) Generate(ctx context.Context, spec lattice.Spec) (string, error) {
	argv := strings.Fields(g.Command)
	if len(argv) == 0 {
		return "", errors.New("no lattice generator command configured")
	}
	out := filepath.Join(g.WorkDir, generatedFile)
	if err := os.Remove(out); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("removing stale %s: %w", out, err)
	}

	argv = append(argv, "-L", strconv.Itoa(spec.Size), "-l", string(spec.Type))
	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	c.Dir = g.WorkDir
	logrus.Infof("generating %s lattice with L=%d: %s", spec.Type, spec.Size, strings.Join(argv, " "))
	if output, err := c.CombinedOutput(); err != nil {
		return "", fmt.Errorf("lattice generator failed: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return lattice.StaticGenerator{Path: out}.Generate(ctx, spec)
}
