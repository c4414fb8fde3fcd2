package lbm

// grid holds the mutable per-cell state: the two distribution buffers, the
// derived macroscopic fields and the obstacle mask. All arrays are flat,
// cell-major, with the 9 distribution values of a cell stored contiguously.
type grid struct {
	width, height int

	f    []float64 // current distributions, len width*height*q
	fNew []float64 // next-step distributions, same layout

	rho []float64 // density, recomputed from f every collision
	ux  []float64 // velocity x
	uy  []float64 // velocity y

	obstacle []bool // true = solid, holds no fluid state
}

func newGrid(width, height int) *grid {
	size := width * height
	return &grid{
		width:    width,
		height:   height,
		f:        make([]float64, size*q),
		fNew:     make([]float64, size*q),
		rho:      make([]float64, size),
		ux:       make([]float64, size),
		uy:       make([]float64, size),
		obstacle: make([]bool, size),
	}
}

func (g *grid) idx(x, y int) int {
	return x*g.height + y
}

func (g *grid) fidx(x, y, i int) int {
	return (x*g.height+y)*q + i
}

func (g *grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// swap exchanges the roles of the current and next buffers. Ownership
// transfer only, never a copy.
func (g *grid) swap() {
	g.f, g.fNew = g.fNew, g.f
}

// seedCell resets one cell to the equilibrium state for (rho, ux, uy) in
// both buffers, so a freshly opened cell never streams an undefined value.
func (g *grid) seedCell(x, y int, rho, ux, uy float64) {
	i := g.idx(x, y)
	g.rho[i] = rho
	g.ux[i] = ux
	g.uy[i] = uy

	var eq [q]float64
	equilibrium(rho, ux, uy, &eq)
	base := i * q
	for k := 0; k < q; k++ {
		g.f[base+k] = eq[k]
		g.fNew[base+k] = eq[k]
	}
}
