package lbm

// Particle is a massless tracer carried by the flow, used for streamline
// visualization. Positions live in grid-index space but are continuous.
type Particle struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// particleScale stretches the per-step displacement for visual effect.
// Tracers are not part of the physical solve.
const particleScale = 2.0

// advectParticles moves every tracer by the velocity of the cell under it
// and respawns it at the inlet with a random row once it leaves the domain
// or drifts into a solid cell.
func (s *Solver) advectParticles() {
	g := s.g
	for i := range s.particles {
		p := &s.particles[i]

		gx := int(p.X)
		gy := int(p.Y)
		if g.inBounds(gx, gy) {
			idx := g.idx(gx, gy)
			p.X += g.ux[idx] * particleScale
			p.Y += g.uy[idx] * particleScale
		}

		stuck := g.inBounds(gx, gy) && g.obstacle[g.idx(gx, gy)]
		if p.X < 0 || p.X >= float64(g.width) || p.Y < 0 || p.Y >= float64(g.height) || stuck {
			p.X = 0
			p.Y = s.rng.Float64() * float64(g.height)
		}
	}
}

// Particles returns a snapshot of the tracer positions.
func (s *Solver) Particles() []Particle {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Particle, len(s.particles))
	copy(out, s.particles)
	return out
}
