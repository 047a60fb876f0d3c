package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// ScriptAnalyzer runs an external autocorrelation script as
// "<Command> <sample file>" and reads the last number it prints.
type ScriptAnalyzer struct {
	Command string
	WorkDir string
}

// Analyze returns the autocorrelation time the script reports for samplePath.
func (a ScriptAnalyzer) Analyze(ctx context.Context, samplePath string) (float64, error) {
	argv := strings.Fields(a.Command)
	if len(argv) == 0 {
		return 0, errors.New("no analysis command configured")
	}
	argv = append(argv, samplePath)
	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	c.Dir = a.WorkDir
	out, err := c.Output()
	if err != nil {
		return 0, fmt.Errorf("analysis script failed: %w", err)
	}
	return lastFloat(string(out))
}

// lastFloat returns the last whitespace-separated token of s that parses as a float.
func lastFloat(s string) (float64, error) {
	fields := strings.Fields(s)
	for i := len(fields) - 1; i >= 0; i-- {
		if v, err := strconv.ParseFloat(strings.Trim(fields[i], ",;:()[]"), 64); err == nil {
			return v, nil
		}
	}
	return 0, fmt.Errorf("no number in analysis output %q", strings.TrimSpace(s))
}
