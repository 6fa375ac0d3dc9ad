package config

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"clothsim/internal/physics"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, physics.DefaultGravity, cfg.GravityVec())
	assert.Equal(t, 20, cfg.Cloth.Cells)
	assert.Equal(t, 0.1, cfg.Cloth.Spacing)
	assert.Equal(t, 2.0, cfg.Cloth.Origin[1])
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	data := []byte(`
simulation:
  gravity: [0, -1.5, 0]
  collisions: true
cloth:
  cells: 8
server:
  update_interval: 20ms
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{0, -1.5, 0}, cfg.GravityVec())
	assert.True(t, cfg.Simulation.Collisions)
	assert.Equal(t, 8, cfg.Cloth.Cells)
	assert.Equal(t, 20*time.Millisecond, cfg.Server.UpdateInterval)

	assert.Equal(t, physics.DefaultTimeStep, cfg.Simulation.TimeStep, "unset keys keep defaults")
	assert.Equal(t, 0.1, cfg.Cloth.Spacing)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"time step", "simulation:\n  time_step: 0\n"},
		{"substeps", "simulation:\n  substeps: 0\n"},
		{"restitution", "simulation:\n  restitution: 2\n"},
		{"demo", "simulation:\n  demo: teapot\n"},
		{"cells", "cloth:\n  cells: 0\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "bad.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))
			_, err := Load(path)
			assert.ErrorIs(t, err, physics.ErrInvalidInput)
		})
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("simulation: [not, a, map"), 0o644))
	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	cfg := Default()
	cfg.Simulation.Demo = DemoBoth
	cfg.Cloth.KHook = 25
	cfg.Server.UpdateInterval = time.Second

	require.NoError(t, Save(path, cfg))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestNewWorldBuildsDemo(t *testing.T) {
	quiet := physics.WithLogger(log.New(&bytes.Buffer{}, "", 0))

	cfg := Default()
	cfg.Cloth.Cells = 3
	w, grid, err := cfg.NewWorld(quiet)
	require.NoError(t, err)
	require.NotNil(t, grid)
	assert.Equal(t, 3*3+1, w.Len())

	cfg.Simulation.Demo = DemoSpheres
	w, grid, err = cfg.NewWorld(quiet)
	require.NoError(t, err)
	assert.Nil(t, grid)
	assert.Equal(t, 2, w.Len())
}
