package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gravsim/internal/nbody"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, nbody.DefaultG, cfg.Physics.G)
	assert.Equal(t, nbody.DefaultDt, cfg.Physics.Dt)
	assert.Equal(t, nbody.DefaultFloor, cfg.Physics.Floor)
	assert.Equal(t, 25, cfg.Trail.Max)
	assert.Equal(t, 10, cfg.Trail.Every)
	assert.InDelta(t, 243.75, cfg.Spawn.SpreadXY, 1e-12)
	assert.InDelta(t, 56.25, cfg.Spawn.SpreadZ, 1e-12)
	assert.NoError(t, cfg.Validate())
}

func TestParams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Physics.Validate = false

	p := cfg.Params()
	assert.Equal(t, nbody.Params{G: 1e5, Dt: 0.001, Floor: 50}, p)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{"zero bodies", func(c *Config) { c.Simulation.Bodies = 0 }, nbody.ErrBodyCount},
		{"too many bodies", func(c *Config) { c.Simulation.Bodies = MaxBodies + 1 }, nbody.ErrBodyCount},
		{"negative dt", func(c *Config) { c.Physics.Dt = -1 }, nbody.ErrInvalidParams},
		{"zero floor", func(c *Config) { c.Physics.Floor = 0 }, nbody.ErrInvalidParams},
		{"level too high", func(c *Config) { c.Simulation.MassLevels = []float64{11} }, nbody.ErrInvalidMass},
		{"trail every zero", func(c *Config) { c.Trail.Every = 0 }, nbody.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.True(t, errors.Is(err, nbody.ErrInvalidInput))
		})
	}
}

func TestSaveLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")

	cfg := DefaultConfig()
	cfg.Simulation.Bodies = 7
	cfg.Simulation.MassLevels = []float64{10, 1.5}
	cfg.Physics.Floor = 30
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestLoadINI(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ini")
	ini := `[simulation]
bodies = 3
seed = 42
mass-level = 10
mass-level = 2.5

[physics]
floor = 25

[trail]
max = 40
`
	require.NoError(t, os.WriteFile(path, []byte(ini), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Simulation.Bodies)
	assert.Equal(t, int64(42), cfg.Simulation.Seed)
	assert.Equal(t, []float64{10, 2.5}, cfg.Simulation.MassLevels)
	assert.Equal(t, 25.0, cfg.Physics.Floor)
	assert.Equal(t, 40, cfg.Trail.Max)
	// untouched sections keep their defaults
	assert.Equal(t, nbody.DefaultG, cfg.Physics.G)
	assert.Equal(t, DefaultCameraDist, cfg.Camera.Distance)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("physics:\n  dt: 0\n"), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, nbody.ErrInvalidParams)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("binary")
	require.NotNil(t, cfg)
	assert.Equal(t, 2, cfg.Simulation.Bodies)
	assert.NoError(t, cfg.Validate())

	cfg.Simulation.MassLevels[0] = 1
	assert.Equal(t, 8.0, GetPreset("binary").Simulation.MassLevels[0], "presets must not share state")

	assert.Nil(t, GetPreset("nonexistent"))
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	assert.Equal(t, []string{"binary", "equal", "heavy", "sun", "swarm"}, names)
	for _, n := range names {
		assert.NoError(t, GetPreset(n).Validate(), n)
	}
}

func TestClampLevel(t *testing.T) {
	assert.Equal(t, 0.0, ClampLevel(-3))
	assert.Equal(t, 10.0, ClampLevel(12))
	assert.InDelta(t, 2.3, ClampLevel(2.34), 1e-9)
}

func TestClone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Simulation.MassLevels = []float64{1}
	c := cfg.Clone()
	c.Simulation.MassLevels[0] = 9
	assert.Equal(t, 1.0, cfg.Simulation.MassLevels[0])
}
