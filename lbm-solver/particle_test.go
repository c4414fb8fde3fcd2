package lbm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticles_SpawnInsideTheDomain(t *testing.T) {
	cfg := testConfig(30, 16)
	cfg.Particles = 40
	s, err := New(cfg)
	require.NoError(t, err)

	ps := s.Particles()
	require.Len(t, ps, 40)
	for i, p := range ps {
		assert.GreaterOrEqual(t, p.X, 0.0, "particle %d", i)
		assert.Less(t, p.X, float64(cfg.Width), "particle %d", i)
		assert.GreaterOrEqual(t, p.Y, 0.0, "particle %d", i)
		assert.Less(t, p.Y, float64(cfg.Height), "particle %d", i)
	}
}

func TestAdvectParticles_FollowsLocalVelocity(t *testing.T) {
	cfg := testConfig(30, 16)
	cfg.Particles = 1
	cfg.InletSpeed = 0
	s, err := New(cfg)
	require.NoError(t, err)

	s.particles[0] = Particle{X: 20.5, Y: 8.5}
	idx := s.g.idx(20, 8)
	s.g.ux[idx] = 0.1
	s.g.uy[idx] = -0.05

	s.advectParticles()

	assert.InDelta(t, 20.5+0.1*particleScale, s.particles[0].X, 1e-12)
	assert.InDelta(t, 8.5-0.05*particleScale, s.particles[0].Y, 1e-12)
}

func TestAdvectParticles_RespawnsAtInlet(t *testing.T) {
	cfg := testConfig(30, 16)
	cfg.Particles = 2
	s, err := New(cfg)
	require.NoError(t, err)

	// One past the outlet, one inside the circular obstacle.
	s.particles[0] = Particle{X: 31, Y: 8}
	s.particles[1] = Particle{X: float64(cfg.Width / 4), Y: float64(cfg.Height / 2)}
	require.True(t, s.g.obstacle[s.g.idx(cfg.Width/4, cfg.Height/2)])

	s.advectParticles()

	for i, p := range s.particles {
		assert.Equal(t, 0.0, p.X, "particle %d respawns at the inlet column", i)
		assert.GreaterOrEqual(t, p.Y, 0.0, "particle %d", i)
		assert.Less(t, p.Y, float64(cfg.Height), "particle %d", i)
	}
}
