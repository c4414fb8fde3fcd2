package lbm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollide_EquilibriumIsFixedPointAtOmegaOne(t *testing.T) {
	// GIVEN every cell exactly at equilibrium and omega = 1/tau = 1
	cfg := testConfig(20, 12)
	cfg.Tau = 1.0
	cfg.InletSpeed = 0
	s, err := New(cfg)
	require.NoError(t, err)

	s.g.seedCell(12, 5, 1.05, 0.08, -0.03)
	s.g.seedCell(9, 7, 0.95, -0.02, 0.05)

	before := make([]float64, len(s.g.f))
	copy(before, s.g.f)

	// WHEN one collision sweep runs
	s.collide()

	// THEN the distributions are unchanged up to roundoff
	for i := range before {
		assert.InDelta(t, before[i], s.g.f[i], 1e-12, "f[%d]", i)
	}
}

func TestCollide_RestStateStaysAtRest(t *testing.T) {
	cfg := testConfig(24, 14)
	cfg.InletSpeed = 0
	s, err := New(cfg)
	require.NoError(t, err)

	for n := 0; n < 50; n++ {
		s.Step()
	}

	g := s.g
	for x := 0; x < g.width; x++ {
		for y := 0; y < g.height; y++ {
			idx := g.idx(x, y)
			if g.obstacle[idx] {
				continue
			}
			assert.InDelta(t, 1.0, g.rho[idx], 1e-9, "rho at (%d,%d)", x, y)
			assert.InDelta(t, 0.0, g.ux[idx], 1e-9, "ux at (%d,%d)", x, y)
			assert.InDelta(t, 0.0, g.uy[idx], 1e-9, "uy at (%d,%d)", x, y)
		}
	}
}

func TestCollide_BounceBackForcesCancelAtRest(t *testing.T) {
	// A symmetric rest state around the circular obstacle must produce no
	// net force; anything else means the opposite map is wrong.
	cfg := testConfig(40, 20)
	cfg.InletSpeed = 0
	s, err := New(cfg)
	require.NoError(t, err)

	s.Step()

	assert.InDelta(t, 0.0, s.DragForce(), 1e-12)
	assert.InDelta(t, 0.0, s.LiftForce(), 1e-12)
}

func TestCollide_ClampsRunawayVelocity(t *testing.T) {
	cfg := testConfig(16, 10)
	s, err := New(cfg)
	require.NoError(t, err)

	// Corrupt one cell with a distribution whose velocity is far past the
	// ceiling.
	base := s.g.idx(6, 5) * q
	for i := 0; i < q; i++ {
		s.g.f[base+i] = 0
	}
	s.g.f[base+1] = 10 // all mass moving east at lattice speed

	s.collideRange(6, 7)

	idx := s.g.idx(6, 5)
	u2 := s.g.ux[idx]*s.g.ux[idx] + s.g.uy[idx]*s.g.uy[idx]
	assert.LessOrEqual(t, u2, cfg.MaxSpeed2+1e-12)
	assert.Greater(t, s.g.ux[idx], 0.0, "clamp must preserve direction")
}

func TestCollide_ResetsCollapsedCell(t *testing.T) {
	cfg := testConfig(16, 10)
	s, err := New(cfg)
	require.NoError(t, err)

	base := s.g.idx(8, 4) * q
	for i := 0; i < q; i++ {
		s.g.f[base+i] = math.NaN()
	}

	s.collideRange(8, 9)

	idx := s.g.idx(8, 4)
	assert.Equal(t, 1.0, s.g.rho[idx])
	assert.Equal(t, 0.0, s.g.ux[idx])
	assert.Equal(t, 0.0, s.g.uy[idx])
	for i := 0; i < q; i++ {
		assert.False(t, math.IsNaN(s.g.f[base+i]), "f[%d] still NaN", i)
	}
}

func TestSmagorinsky_RaisesEffectiveRelaxationTime(t *testing.T) {
	cfg := testConfig(16, 10)
	cfg.LES = true
	s, err := New(cfg)
	require.NoError(t, err)

	// Strain the cell away from equilibrium.
	base := s.g.idx(6, 5) * q
	s.g.f[base+1] += 0.05
	s.g.f[base+3] -= 0.02

	var eq [q]float64
	equilibrium(1, 0, 0, &eq)
	omegaEff := s.smagorinskyOmega(base, 1, &eq)

	assert.Greater(t, 1/omegaEff, cfg.Tau, "tau_eff must exceed base tau under strain")
}

func TestLES_KeepsLowTauRunStable(t *testing.T) {
	cfg := testConfig(50, 20)
	cfg.Tau = 0.52
	cfg.LES = true
	cfg.RampSteps = 50
	s, err := New(cfg)
	require.NoError(t, err)

	for n := 0; n < 300; n++ {
		s.Step()
	}
	assert.False(t, s.Unstable())
}
