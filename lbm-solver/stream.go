package lbm

// streamPush advects the current distributions into the next buffer. For
// each fluid cell and direction, exactly one of four things happens:
//
//   - the target is past the inlet or outlet column: the value is dropped,
//     the column injections rewrite those cells afterwards;
//   - the target is outside the rows or solid: bounce-back, the value
//     reverses into the opposite direction of the source cell, and interior
//     obstacles accrue momentum-exchange force;
//   - otherwise the value propagates to the target unchanged.
//
// Reads come only from the current buffer and writes go only to the next
// buffer, so cells may be visited in any order.
func (s *Solver) streamPush() (drag, lift float64) {
	g := s.g
	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			if g.obstacle[g.idx(x, y)] {
				continue
			}
			base := g.idx(x, y) * q
			for i := 0; i < q; i++ {
				tx := x + ex[i]
				ty := y + ey[i]

				if tx < 0 || tx >= g.width {
					continue
				}
				if ty < 0 || ty >= g.height || g.obstacle[g.idx(tx, ty)] {
					fi := g.f[base+i]
					g.fNew[base+opposite[i]] = fi
					if s.interiorObstacle(tx, ty) {
						// Full reversal of momentum against the obstacle.
						drag += 2 * fi * float64(ex[i])
						lift += 2 * fi * float64(ey[i])
					}
					continue
				}
				g.fNew[g.fidx(tx, ty, i)] = g.f[base+i]
			}
		}
	}
	return drag, lift
}

// interiorObstacle reports whether (x, y) is a solid cell that should
// contribute to the force totals. The wall rows reflect flow but their
// forces are not meaningful for drag on an obstacle.
func (s *Solver) interiorObstacle(x, y int) bool {
	return y > 0 && y < s.g.height-1 && s.g.inBounds(x, y) && s.g.obstacle[s.g.idx(x, y)]
}

// injectInlet forces the inlet column of the next buffer to the
// equilibrium of density 1 and the configured inlet velocity, optionally
// shaped as a parabolic channel profile and scaled by the soft-start ramp.
// The wall rows are left to the bounce-back rule.
func (s *Solver) injectInlet() {
	g := s.g
	ux0, uy0 := s.cfg.inletComponents()
	ramp := s.rampFactor()

	var eq [q]float64
	for y := 1; y < g.height-1; y++ {
		idx := g.idx(0, y)
		if g.obstacle[idx] {
			continue
		}
		shape := 1.0
		if s.cfg.ParabolicInlet {
			ny := float64(y) / float64(g.height-1)
			shape = 4 * ny * (1 - ny)
		}
		equilibrium(1, ux0*shape*ramp, uy0*shape*ramp, &eq)
		base := idx * q
		for i := 0; i < q; i++ {
			g.fNew[base+i] = eq[i]
		}
	}
}

// injectOutlet applies the zero-gradient open boundary: the outlet column
// copies the full distribution of the adjacent interior column, so no wave
// reflects back into the domain.
func (s *Solver) injectOutlet() {
	g := s.g
	for y := 1; y < g.height-1; y++ {
		idx := g.idx(g.width-1, y)
		if g.obstacle[idx] {
			continue
		}
		dst := idx * q
		src := g.idx(g.width-2, y) * q
		for i := 0; i < q; i++ {
			g.fNew[dst+i] = g.fNew[src+i]
		}
	}
}

// rampFactor is the soft-start scale of the inlet velocity for the current
// step, climbing linearly from 0 to 1 over RampSteps.
func (s *Solver) rampFactor() float64 {
	if s.cfg.RampSteps <= 0 {
		return 1
	}
	f := float64(s.steps) / float64(s.cfg.RampSteps)
	if f > 1 {
		return 1
	}
	return f
}
