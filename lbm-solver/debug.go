package lbm

import (
	"fmt"
	"strings"
)

// Node is a diagnostic dump of a single cell: the raw distribution values
// plus the derived fields. Not performance relevant.
type Node struct {
	X, Y     int
	F        [q]float64
	Rho      float64
	Ux, Uy   float64
	Obstacle bool
	InBounds bool
}

// NodeInfo returns the full state of one cell. Out-of-range coordinates
// yield a zero Node with InBounds false.
func (s *Solver) NodeInfo(x, y int) Node {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := Node{X: x, Y: y}
	if !s.g.inBounds(x, y) {
		return n
	}
	n.InBounds = true
	idx := s.g.idx(x, y)
	n.Rho = s.g.rho[idx]
	n.Ux = s.g.ux[idx]
	n.Uy = s.g.uy[idx]
	n.Obstacle = s.g.obstacle[idx]
	copy(n.F[:], s.g.f[idx*q:idx*q+q])
	return n
}

func (n Node) String() string {
	if !n.InBounds {
		return fmt.Sprintf("node (%d,%d): out of bounds", n.X, n.Y)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "node (%d,%d): rho=%.6f u=(%.6f,%.6f) obstacle=%v\n", n.X, n.Y, n.Rho, n.Ux, n.Uy, n.Obstacle)
	for i := 0; i < q; i++ {
		fmt.Fprintf(&b, "  f[%d]=%.6f\n", i, n.F[i])
	}
	return b.String()
}
