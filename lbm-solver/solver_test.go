package lbm

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"tau at stability limit", func(c *Config) { c.Tau = 0.5 }, true},
		{"tau below limit", func(c *Config) { c.Tau = 0.2 }, true},
		{"tiny grid", func(c *Config) { c.Width = 2 }, true},
		{"negative resolution", func(c *Config) { c.Height = -4 }, true},
		{"negative inlet", func(c *Config) { c.InletSpeed = -0.1 }, true},
		{"inlet past clamp ceiling", func(c *Config) { c.InletSpeed = 0.5 }, true},
		{"zero ceiling", func(c *Config) { c.MaxSpeed2 = 0 }, true},
		{"les without constant", func(c *Config) { c.LES = true; c.Smagorinsky = 0 }, true},
		{"negative ramp", func(c *Config) { c.RampSteps = -1 }, true},
		{"negative particles", func(c *Config) { c.Particles = -1 }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_ReadsYAMLOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tunnel.yaml")
	data := []byte("width: 80\nheight: 40\ntau: 0.8\nles: true\nsmagorinsky: 0.12\n")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 80, cfg.Width)
	assert.Equal(t, 40, cfg.Height)
	assert.Equal(t, 0.8, cfg.Tau)
	assert.True(t, cfg.LES)
	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultConfig().InletSpeed, cfg.InletSpeed)
	assert.Equal(t, DefaultConfig().RampSteps, cfg.RampSteps)
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tau: 0.3\n"), 0o644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := testConfig(20, 12)
	cfg.Tau = 0.5
	_, err := New(cfg)
	assert.Error(t, err)
}

// The reference scenario: a 50x20 channel with the circular obstacle of
// radius 2 at (12, 10), tau 0.6, uniform 0.1 inlet, no LES. After 1000
// steps the field must be finite, the flow must push on the obstacle, and
// the stability scan must stay quiet.
func TestSolver_ChannelFlowScenario(t *testing.T) {
	cfg := testConfig(50, 20)
	cfg.Tau = 0.6
	cfg.InletSpeed = 0.1
	cfg.RampSteps = 100
	cfg.Workers = 2
	s, err := New(cfg)
	require.NoError(t, err)

	require.True(t, s.IsObstacle(12, 10), "default circle sits at (width/4, height/2)")
	require.True(t, s.IsObstacle(12, 12))
	require.False(t, s.IsObstacle(20, 10))

	for n := 0; n < 1000; n++ {
		s.Step()
	}

	for x := 0; x < cfg.Width; x++ {
		for y := 0; y < cfg.Height; y++ {
			if s.IsObstacle(x, y) {
				continue
			}
			rho := s.Density(x, y)
			require.True(t, finite(rho), "density at (%d,%d) = %v", x, y, rho)
			require.Greater(t, rho, 0.0, "density at (%d,%d)", x, y)
		}
	}
	assert.Greater(t, s.DragForce(), 0.0, "obstacle must resist the flow")
	assert.False(t, s.Unstable())
	assert.Equal(t, 1000, s.StepCount())
}

func TestSetObstacle_PaintThenUnpaintRestoresRestEquilibrium(t *testing.T) {
	cfg := testConfig(30, 16)
	s, err := New(cfg)
	require.NoError(t, err)

	for n := 0; n < 20; n++ {
		s.Step()
	}

	s.SetObstacle(20, 8, true)
	s.SetObstacle(20, 8, false)

	node := s.NodeInfo(20, 8)
	assert.False(t, node.Obstacle)
	assert.Equal(t, 1.0, node.Rho)
	for i := 0; i < q; i++ {
		assert.Equal(t, weights[i], node.F[i], "current buffer f[%d]", i)
	}
	// The next buffer must hold rest equilibrium too, or the following
	// stream would read leftovers.
	base := s.g.idx(20, 8) * q
	for i := 0; i < q; i++ {
		assert.Equal(t, weights[i], s.g.fNew[base+i], "next buffer f[%d]", i)
	}
}

func TestSetObstacle_OutOfRangeIsANoOp(t *testing.T) {
	cfg := testConfig(20, 12)
	s, err := New(cfg)
	require.NoError(t, err)

	s.SetObstacle(-1, 5, true)
	s.SetObstacle(500, 500, true)
	s.SetObstacle(3, -2, false)
}

func TestQueries_OutOfRangeReturnNeutralValues(t *testing.T) {
	cfg := testConfig(20, 12)
	s, err := New(cfg)
	require.NoError(t, err)

	assert.Equal(t, 0.0, s.Density(-1, 4))
	assert.Equal(t, 0.0, s.VelocityX(20, 4))
	assert.Equal(t, 0.0, s.VelocityY(4, 12))
	assert.Equal(t, 0.0, s.Speed2(-3, -3))
	assert.True(t, s.IsObstacle(-1, -1))
	assert.True(t, s.IsObstacle(1000, 3))
}

func TestSetters_ValidateBeforeApplying(t *testing.T) {
	cfg := testConfig(20, 12)
	s, err := New(cfg)
	require.NoError(t, err)

	assert.Error(t, s.SetTau(0.4))
	assert.Equal(t, cfg.Tau, s.Config().Tau)

	require.NoError(t, s.SetTau(0.9))
	assert.Equal(t, 0.9, s.Config().Tau)

	assert.Error(t, s.SetInlet(0.7, 0)) // past the clamp ceiling
	require.NoError(t, s.SetInlet(0.05, 30))
	assert.Equal(t, 0.05, s.Config().InletSpeed)
	assert.Equal(t, 30.0, s.Config().InletAngleDeg)

	assert.Error(t, s.SetResolution(2, 1))
	require.NoError(t, s.SetResolution(40, 24))
	assert.Equal(t, 40, s.Width())
	assert.Equal(t, 24, s.Height())
	assert.Equal(t, 0, s.StepCount(), "resolution change reseeds the run")
}

func TestUnstable_TripsOnInjectedNaN(t *testing.T) {
	cfg := testConfig(20, 12)
	s, err := New(cfg)
	require.NoError(t, err)
	require.False(t, s.Unstable())

	s.g.rho[s.g.idx(10, 5)] = math.NaN()
	assert.True(t, s.Unstable())
}

func TestNodeInfo_ReportsCellState(t *testing.T) {
	cfg := testConfig(20, 12)
	s, err := New(cfg)
	require.NoError(t, err)

	node := s.NodeInfo(10, 5)
	assert.True(t, node.InBounds)
	assert.False(t, node.Obstacle)
	assert.InDelta(t, 1.0, node.Rho, 1e-9)
	assert.Contains(t, node.String(), "node (10,5)")

	out := s.NodeInfo(-4, 2)
	assert.False(t, out.InBounds)
	assert.Contains(t, out.String(), "out of bounds")
}
