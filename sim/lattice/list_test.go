package lattice

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestList_Validate(t *testing.T) {
	tests := []struct {
		name    string
		adj     List
		wantErr bool
	}{
		{"empty", List{}, false},
		{"isolated sites", List{{}, {}}, false},
		{"triangle", List{{1, 2}, {0, 2}, {0, 1}}, false},
		{"out of range", List{{1}, {0, 5}}, true},
		{"negative index", List{{-1}}, true},
		{"self loop", List{{0}}, true},
		{"asymmetric", List{{1}, {}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.adj.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrInvalidAdjacency), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestList_DegreeAndEdges(t *testing.T) {
	adj := List{{1, 2, 3}, {0}, {0}, {0}}
	assert.Equal(t, 3, adj.Degree(0))
	assert.Equal(t, 1, adj.Degree(3))
	assert.Equal(t, 3, adj.EdgeCount())
}
