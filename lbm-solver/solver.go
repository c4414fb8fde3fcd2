package lbm

import (
	"math"
	"math/rand"
	"sync"

	"github.com/sirupsen/logrus"
)

// Solver advances a D2Q9 lattice Boltzmann field one step at a time. A
// single mutex spans one full step and one full obstacle edit; finer
// locking is pointless since edits are rare next to step cost.
type Solver struct {
	mu sync.Mutex

	cfg     Config
	g       *grid
	omega   float64
	workers int

	steps      int
	drag, lift float64

	particles []Particle
	rng       *rand.Rand
}

// New builds a solver for the given configuration and seeds the default
// scene: wall rows top and bottom, a circular obstacle at a quarter of the
// channel length, and every fluid cell at equilibrium.
func New(cfg Config) (*Solver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Solver{
		cfg:     cfg,
		omega:   1 / cfg.Tau,
		workers: cfg.workerCount(),
		rng:     rand.New(rand.NewSource(rand.Int63())),
	}
	s.reset()
	logrus.Infof("lbm: %dx%d grid, tau=%g, inlet=%g, les=%v", cfg.Width, cfg.Height, cfg.Tau, cfg.InletSpeed, cfg.LES)
	return s, nil
}

// reset reallocates the grid and reseeds the scene. Callers hold the lock
// or own the solver exclusively.
func (s *Solver) reset() {
	g := newGrid(s.cfg.Width, s.cfg.Height)
	s.g = g
	s.steps = 0
	s.drag = 0
	s.lift = 0

	cx := g.width / 4
	cy := g.height / 2
	r := g.height / 10

	ux0, uy0 := s.cfg.inletComponents()
	ramp := s.rampFactor()

	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			idx := g.idx(x, y)
			switch {
			case y == 0 || y == g.height-1:
				g.obstacle[idx] = true
			case (x-cx)*(x-cx)+(y-cy)*(y-cy) <= r*r:
				g.obstacle[idx] = true
			default:
				g.seedCell(x, y, 1, ux0*ramp, uy0*ramp)
			}
		}
	}

	s.particles = make([]Particle, s.cfg.Particles)
	for i := range s.particles {
		s.particles[i] = Particle{
			X: s.rng.Float64() * float64(g.width),
			Y: s.rng.Float64() * float64(g.height),
		}
	}
}

// Step advances the field by one time step: collision, streaming with
// bounce-back and force accrual, inlet and outlet injection, buffer swap,
// particle advection. There is no observable state between the phases.
func (s *Solver) Step() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collide()
	if s.cfg.PullKernel {
		s.drag, s.lift = s.streamPull()
	} else {
		s.drag, s.lift = s.streamPush()
	}
	s.injectInlet()
	s.injectOutlet()
	s.g.swap()
	s.advectParticles()
	s.steps++
}

// SetObstacle toggles the solid state of one cell. Out-of-range
// coordinates are a no-op. Opening a solid cell reseeds it to rest
// equilibrium in both buffers so the next stream never reads an undefined
// state.
func (s *Solver) SetObstacle(x, y int, solid bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.g.inBounds(x, y) {
		return
	}
	idx := s.g.idx(x, y)
	s.g.obstacle[idx] = solid
	if solid {
		s.g.rho[idx] = 0
		s.g.ux[idx] = 0
		s.g.uy[idx] = 0
	} else {
		s.g.seedCell(x, y, 1, 0, 0)
	}
}

// SetResolution reallocates the grid at a new size and reseeds the scene.
func (s *Solver) SetResolution(width, height int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.cfg
	cfg.Width = width
	cfg.Height = height
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg
	s.reset()
	logrus.Infof("lbm: resolution changed to %dx%d", width, height)
	return nil
}

// SetTau updates the relaxation time between steps.
func (s *Solver) SetTau(tau float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.cfg
	cfg.Tau = tau
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg
	s.omega = 1 / tau
	return nil
}

// SetInlet updates the inlet velocity magnitude and angle.
func (s *Solver) SetInlet(speed, angleDeg float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.cfg
	cfg.InletSpeed = speed
	cfg.InletAngleDeg = angleDeg
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg
	return nil
}

// SetSmagorinsky updates the LES constant.
func (s *Solver) SetSmagorinsky(cs float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := s.cfg
	cfg.Smagorinsky = cs
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg
	return nil
}

// Width returns the grid width in cells.
func (s *Solver) Width() int { return s.cfg.Width }

// Height returns the grid height in cells.
func (s *Solver) Height() int { return s.cfg.Height }

// StepCount returns the number of completed steps.
func (s *Solver) StepCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.steps
}

// Density returns the density at a cell, 0 outside the grid.
func (s *Solver) Density(x, y int) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.g.inBounds(x, y) {
		return 0
	}
	return s.g.rho[s.g.idx(x, y)]
}

// VelocityX returns the x velocity at a cell, 0 outside the grid.
func (s *Solver) VelocityX(x, y int) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.g.inBounds(x, y) {
		return 0
	}
	return s.g.ux[s.g.idx(x, y)]
}

// VelocityY returns the y velocity at a cell, 0 outside the grid.
func (s *Solver) VelocityY(x, y int) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.g.inBounds(x, y) {
		return 0
	}
	return s.g.uy[s.g.idx(x, y)]
}

// Speed2 returns the squared velocity magnitude at a cell, 0 outside the
// grid. This is what the heatmap front ends render.
func (s *Solver) Speed2(x, y int) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.g.inBounds(x, y) {
		return 0
	}
	idx := s.g.idx(x, y)
	return s.g.ux[idx]*s.g.ux[idx] + s.g.uy[idx]*s.g.uy[idx]
}

// IsObstacle reports whether a cell is solid. Out-of-range coordinates
// count as solid, since callers routinely probe past the edges.
func (s *Solver) IsObstacle(x, y int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.g.inBounds(x, y) {
		return true
	}
	return s.g.obstacle[s.g.idx(x, y)]
}

// DragForce returns the momentum-exchange force along x accrued against
// interior obstacles during the last step.
func (s *Solver) DragForce() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.drag
}

// LiftForce returns the momentum-exchange force along y accrued during the
// last step.
func (s *Solver) LiftForce() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lift
}

// Config returns a copy of the current configuration.
func (s *Solver) Config() Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cfg
}

// Unstable scans the macroscopic fields for NaN or infinite values. It
// reports without mutating: the per-cell clamps in collision are the
// preventive half, this is the surfacing half.
func (s *Solver) Unstable() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	g := s.g
	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			idx := g.idx(x, y)
			if g.obstacle[idx] {
				continue
			}
			if !finite(g.rho[idx]) || !finite(g.ux[idx]) || !finite(g.uy[idx]) {
				logrus.Warnf("lbm: instability at (%d,%d): rho=%g u=(%g,%g)", x, y, g.rho[idx], g.ux[idx], g.uy[idx])
				return true
			}
		}
	}
	return false
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
