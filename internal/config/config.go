package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/gcfg.v1"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/nbody"
)

const (
	DefaultBodies     = 5
	DefaultCenterMass = 10.0
	DefaultSpreadXY   = 650 * 0.75 / 2
	DefaultSpreadZ    = 150 * 0.75 / 2
	DefaultTrailMax   = 25
	DefaultTrailEvery = 10
	DefaultCameraDist = 650.0
	DefaultCameraFOV  = 50.0
	DefaultFPS        = 60

	// DefaultCameraStep is the orbit angle advanced per tick.
	DefaultCameraStep = math.Pi / 3600

	MinLevel  = 0.0
	MaxLevel  = 10.0
	LevelStep = 0.1
	MaxBodies = 20
)

// Config is the whole run configuration. Every top-level field is a
// section so the same struct reads from YAML and from gcfg INI files.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Physics    PhysicsConfig    `yaml:"physics"`
	Spawn      SpawnConfig      `yaml:"spawn"`
	Trail      TrailConfig      `yaml:"trail"`
	Camera     CameraConfig     `yaml:"camera"`
	Render     RenderConfig     `yaml:"render"`
}

type SimulationConfig struct {
	Bodies int   `yaml:"bodies" gcfg:"bodies"`
	Seed   int64 `yaml:"seed" gcfg:"seed"`

	// MassLevels are log2 masses by body index. Bodies past the end get
	// the spawn defaults.
	MassLevels []float64 `yaml:"mass_levels,omitempty" gcfg:"mass-level"`
}

type PhysicsConfig struct {
	G        float64 `yaml:"g" gcfg:"g"`
	Dt       float64 `yaml:"dt" gcfg:"dt"`
	Floor    float64 `yaml:"floor" gcfg:"floor"`
	Validate bool    `yaml:"validate" gcfg:"validate"`
}

type SpawnConfig struct {
	SpreadXY   float64 `yaml:"spread_xy" gcfg:"spread-xy"`
	SpreadZ    float64 `yaml:"spread_z" gcfg:"spread-z"`
	CenterMass float64 `yaml:"center_mass" gcfg:"center-mass"`
	MaxLevel   int     `yaml:"max_random_level" gcfg:"max-random-level"`
}

type TrailConfig struct {
	Max   int `yaml:"max" gcfg:"max"`
	Every int `yaml:"every" gcfg:"every"`
}

type CameraConfig struct {
	Distance float64 `yaml:"distance" gcfg:"distance"`
	Step     float64 `yaml:"step" gcfg:"step"`
	FOV      float64 `yaml:"fov" gcfg:"fov"`
}

type RenderConfig struct {
	FPS    int    `yaml:"fps" gcfg:"fps"`
	Theme  string `yaml:"theme" gcfg:"theme"`
	Width  int    `yaml:"width" gcfg:"width"`
	Height int    `yaml:"height" gcfg:"height"`
}

func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Bodies: DefaultBodies,
		},
		Physics: PhysicsConfig{
			G:        nbody.DefaultG,
			Dt:       nbody.DefaultDt,
			Floor:    nbody.DefaultFloor,
			Validate: true,
		},
		Spawn: SpawnConfig{
			SpreadXY:   DefaultSpreadXY,
			SpreadZ:    DefaultSpreadZ,
			CenterMass: DefaultCenterMass,
			MaxLevel:   6,
		},
		Trail: TrailConfig{
			Max:   DefaultTrailMax,
			Every: DefaultTrailEvery,
		},
		Camera: CameraConfig{
			Distance: DefaultCameraDist,
			Step:     DefaultCameraStep,
			FOV:      DefaultCameraFOV,
		},
		Render: RenderConfig{
			FPS:    DefaultFPS,
			Theme:  "dark",
			Width:  1024,
			Height: 768,
		},
	}
}

// Load reads a config file over the defaults. .ini, .gcfg and .cfg files
// are parsed as gcfg; anything else as YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ini", ".gcfg", ".cfg":
		if err := gcfg.FatalOnly(gcfg.ReadFileInto(cfg, path)); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	default:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: %s: %w", path, err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first setting the simulation cannot run with.
func (c *Config) Validate() error {
	if err := c.Params().Validate(); err != nil {
		return err
	}
	if c.Simulation.Bodies < 1 || c.Simulation.Bodies > MaxBodies {
		return fmt.Errorf("%w: bodies must be in [1, %d], got %d", nbody.ErrBodyCount, MaxBodies, c.Simulation.Bodies)
	}
	for i, l := range c.Simulation.MassLevels {
		if l < MinLevel || l > MaxLevel {
			return fmt.Errorf("%w: mass level %d is %g, outside [%g, %g]", nbody.ErrInvalidMass, i, l, MinLevel, MaxLevel)
		}
	}
	if c.Trail.Max < 0 || c.Trail.Every < 1 {
		return fmt.Errorf("%w: trail max %d every %d", nbody.ErrInvalidInput, c.Trail.Max, c.Trail.Every)
	}
	if c.Spawn.MaxLevel < 1 {
		return fmt.Errorf("%w: max random level must be at least 1", nbody.ErrInvalidInput)
	}
	if c.Render.FPS < 0 {
		return fmt.Errorf("%w: fps must not be negative", nbody.ErrInvalidInput)
	}
	return nil
}

// Params converts the physics section to simulation constants.
func (c *Config) Params() nbody.Params {
	return nbody.Params{
		G:             c.Physics.G,
		Dt:            c.Physics.Dt,
		Floor:         c.Physics.Floor,
		ValidateState: c.Physics.Validate,
	}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Simulation.MassLevels = append([]float64(nil), c.Simulation.MassLevels...)
	return &out
}

// ClampLevel snaps a slider value to the allowed range and step.
func ClampLevel(level float64) float64 {
	level = math.Round(level/LevelStep) / (1 / LevelStep)
	return math.Max(MinLevel, math.Min(MaxLevel, level))
}
