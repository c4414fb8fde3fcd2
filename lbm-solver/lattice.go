package lbm

// q is the number of discrete velocities per cell (D2Q9).
const q = 9

// D2Q9 velocity set. Index 0 is the rest direction, 1..4 are the axis
// directions E, N, W, S and 5..8 the diagonals NE, NW, SW, SE.
var (
	ex = [q]int{0, 1, 0, -1, 0, 1, -1, -1, 1}
	ey = [q]int{0, 0, 1, 0, -1, 1, 1, -1, -1}

	// Lattice weights: 4/9 rest, 1/9 axis, 1/36 diagonal. They sum to 1
	// and are exactly the equilibrium distribution of a resting cell with
	// unit density.
	weights = [q]float64{
		4.0 / 9.0,
		1.0 / 9.0, 1.0 / 9.0, 1.0 / 9.0, 1.0 / 9.0,
		1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0, 1.0 / 36.0,
	}

	// opposite[i] is the direction whose velocity vector is -e_i, used by
	// the bounce-back boundary rule.
	opposite = [q]int{0, 3, 4, 1, 2, 7, 8, 5, 6}
)
