package lattice

import (
	"context"
	"fmt"
	"os"
)

// Generator produces an adjacency-list file for a lattice Spec and returns its
// path. Implementations that spawn processes live outside the core.
type Generator interface {
	Generate(ctx context.Context, spec Spec) (string, error)
}

// StaticGenerator hands back a file that already exists on disk.
type StaticGenerator struct {
	Path string
}

// Generate returns g.Path, or ErrMissingInput if the file is absent.
func (g StaticGenerator) Generate(ctx context.Context, spec Spec) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	info, err := os.Stat(g.Path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMissingInput, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", ErrMissingInput, g.Path)
	}
	return g.Path, nil
}

// Acquire runs gen for spec and loads the file it produced.
func Acquire(ctx context.Context, gen Generator, spec Spec) (List, Stats, error) {
	path, err := gen.Generate(ctx, spec)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("generating %s lattice (L=%d): %w", spec.Type, spec.Size, err)
	}
	return Load(path)
}
