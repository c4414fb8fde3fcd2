package lbm

import (
	"math"
	"sync"
)

// collide runs the BGK relaxation sweep over all fluid cells, chunked over
// columns across the worker pool. Collision is purely local, so the chunks
// need no synchronization beyond the final join.
func (s *Solver) collide() {
	workers := s.workers
	if workers <= 1 || s.g.width < workers {
		s.collideRange(0, s.g.width)
		return
	}

	chunk := s.g.width / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		x0 := w * chunk
		x1 := x0 + chunk
		if w == workers-1 {
			x1 = s.g.width
		}
		wg.Add(1)
		go func(x0, x1 int) {
			defer wg.Done()
			s.collideRange(x0, x1)
		}(x0, x1)
	}
	wg.Wait()
}

// collideRange relaxes the columns [x0, x1) toward local equilibrium,
// refreshing the macroscopic fields along the way. Distributions are
// rewritten in place in the current buffer.
func (s *Solver) collideRange(x0, x1 int) {
	g := s.g
	var eq [q]float64

	for x := x0; x < x1; x++ {
		for y := 0; y < g.height; y++ {
			idx := g.idx(x, y)
			if g.obstacle[idx] {
				continue
			}
			base := idx * q

			var density, velX, velY float64
			for i := 0; i < q; i++ {
				fi := g.f[base+i]
				density += fi
				velX += fi * float64(ex[i])
				velY += fi * float64(ey[i])
			}

			// Numeric safeguard: a collapsed or corrupted cell is reset to
			// rest rather than allowed to divide to NaN.
			if !(density > 0) || math.IsInf(density, 0) {
				density = 1
				velX = 0
				velY = 0
				equilibrium(1, 0, 0, &eq)
				for i := 0; i < q; i++ {
					g.f[base+i] = eq[i]
				}
			} else {
				velX /= density
				velY /= density
			}

			// Velocity ceiling: rescale, preserving direction.
			u2 := velX*velX + velY*velY
			if u2 > s.cfg.MaxSpeed2 {
				scale := math.Sqrt(s.cfg.MaxSpeed2 / u2)
				velX *= scale
				velY *= scale
			}

			g.rho[idx] = density
			g.ux[idx] = velX
			g.uy[idx] = velY

			equilibrium(density, velX, velY, &eq)

			omega := s.omega
			if s.cfg.LES {
				omega = s.smagorinskyOmega(base, density, &eq)
			}

			for i := 0; i < q; i++ {
				g.f[base+i] = (1-omega)*g.f[base+i] + omega*eq[i]
			}
		}
	}
}

// smagorinskyOmega derives a locally adapted relaxation rate from the
// non-equilibrium second moments, raising the effective viscosity in
// high-strain regions:
//
//	tau_eff = 0.5 * (tau + sqrt(tau^2 + 18*Cs^2*|Q|/rho))
func (s *Solver) smagorinskyOmega(base int, density float64, eq *[q]float64) float64 {
	g := s.g
	var qxx, qyy, qxy float64
	for i := 0; i < q; i++ {
		fneq := g.f[base+i] - eq[i]
		exf := float64(ex[i])
		eyf := float64(ey[i])
		qxx += exf * exf * fneq
		qyy += eyf * eyf * fneq
		qxy += exf * eyf * fneq
	}
	qmag := math.Sqrt(2 * (qxx*qxx + qyy*qyy + 2*qxy*qxy))

	cs := s.cfg.Smagorinsky
	tau := s.cfg.Tau
	tauEff := 0.5 * (tau + math.Sqrt(tau*tau+18*cs*cs*qmag/density))
	return 1 / tauEff
}
