package lattice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	got, err := ParseType(" Kagome ")
	require.NoError(t, err)
	assert.Equal(t, TypeKagome, got)

	_, err = ParseType("penrose")
	assert.True(t, errors.Is(err, ErrUnknownType))
}

func TestSpec_Validate(t *testing.T) {
	assert.NoError(t, Spec{Size: 10, Type: TypeSquare}.Validate())
	assert.Error(t, Spec{Size: 0, Type: TypeSquare}.Validate())
	assert.Error(t, Spec{Size: 10, Type: "penrose"}.Validate())
}

func TestStaticGenerator_MissingFile(t *testing.T) {
	gen := StaticGenerator{Path: filepath.Join(t.TempDir(), "nope.txt")}
	_, err := gen.Generate(context.Background(), Spec{Size: 2, Type: TypeSquare})
	assert.True(t, errors.Is(err, ErrMissingInput))
}

func TestStaticGenerator_Directory(t *testing.T) {
	gen := StaticGenerator{Path: t.TempDir()}
	_, err := gen.Generate(context.Background(), Spec{Size: 2, Type: TypeSquare})
	assert.True(t, errors.Is(err, ErrMissingInput))
}

func TestAcquire_LoadsGeneratedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "temp_lattice_data.txt")
	require.NoError(t, os.WriteFile(path, []byte("[1, 3]\n[0, 2]\n[1, 3]\n[0, 2]\n"), 0o644))

	adj, _, err := Acquire(context.Background(), StaticGenerator{Path: path}, Spec{Size: 2, Type: TypeSquare})
	require.NoError(t, err)
	assert.Equal(t, 4, adj.Len())
}

func TestAcquire_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Acquire(ctx, StaticGenerator{Path: "ignored"}, Spec{Size: 2, Type: TypeSquare})
	assert.True(t, errors.Is(err, context.Canceled))
}
