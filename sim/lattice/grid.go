package lattice

import (
	"fmt"
	"math"
)

// SquareSide returns L such that L*L == n.
func SquareSide(n int) (int, error) {
	if n < 0 {
		return 0, fmt.Errorf("%w: %d", ErrNotSquare, n)
	}
	l := int(math.Sqrt(float64(n)))
	// correct for float rounding on large n
	for l*l > n {
		l--
	}
	for (l+1)*(l+1) <= n {
		l++
	}
	if l*l != n {
		return 0, fmt.Errorf("%w: %d", ErrNotSquare, n)
	}
	return l, nil
}

// ToGrid lays per-site values out as an L x L row-major grid: site r*L+c
// lands in grid[r][c].
func ToGrid(values []int) ([][]int, error) {
	l, err := SquareSide(len(values))
	if err != nil {
		return nil, err
	}
	grid := make([][]int, l)
	for r := 0; r < l; r++ {
		grid[r] = make([]int, l)
		copy(grid[r], values[r*l:(r+1)*l])
	}
	return grid, nil
}
