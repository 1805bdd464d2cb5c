package grid

import "math"

// fillPseudoCappi extrapolates values downward through altitude gaps, in
// place. Walking levels from the second-highest down to the lowest, every
// cell missing at the current level takes the value of the cell immediately
// above, provided that cell is itself present. Because the walk is top-down,
// a single valid level fills every level beneath it; a column with no valid
// level anywhere stays entirely missing.
func fillPseudoCappi(field []float64, nz, ny, nx int) {
	level := ny * nx
	for k := nz - 2; k >= 0; k-- {
		cur := k * level
		up := (k + 1) * level
		for c := 0; c < level; c++ {
			if math.IsNaN(field[cur+c]) && !math.IsNaN(field[up+c]) {
				field[cur+c] = field[up+c]
			}
		}
	}
}
