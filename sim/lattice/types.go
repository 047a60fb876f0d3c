package lattice

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the lattice-geometry tag understood by the geometry generator.
type Type string

const (
	TypeSquare     Type = "square"
	TypeTriangular Type = "triangular"
	TypeHexagonal  Type = "hexagonal"
	TypeKagome     Type = "kagome"
	TypeLeaf       Type = "leaf"
)

var validTypes = map[Type]bool{
	TypeSquare:     true,
	TypeTriangular: true,
	TypeHexagonal:  true,
	TypeKagome:     true,
	TypeLeaf:       true,
}

// ParseType returns the Type for tag, or ErrUnknownType.
func ParseType(tag string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(tag)))
	if !validTypes[t] {
		return "", fmt.Errorf("%w %q; valid: %s", ErrUnknownType, tag, strings.Join(ValidTypeNames(), ", "))
	}
	return t, nil
}

// ValidTypeNames returns the accepted tags in sorted order.
func ValidTypeNames() []string {
	names := make([]string, 0, len(validTypes))
	for t := range validTypes {
		names = append(names, string(t))
	}
	sort.Strings(names)
	return names
}

// Spec holds the parameters handed to a geometry generator.
type Spec struct {
	Size int  // linear size L (number of unit cells per side)
	Type Type // geometry tag
}

// Validate rejects a non-positive size or an unknown tag.
func (s Spec) Validate() error {
	if s.Size <= 0 {
		return fmt.Errorf("lattice size must be positive, got %d", s.Size)
	}
	if !validTypes[s.Type] {
		return fmt.Errorf("%w %q", ErrUnknownType, s.Type)
	}
	return nil
}
