package scene

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/nbody"
)

// Slider is one log-scale mass control.
type Slider struct {
	Level float64
}

func (s Slider) Mass() float64 { return nbody.MassFromLevel(s.Level) }

// RadiusFromLevel is the drawn sphere radius for a mass level.
func RadiusFromLevel(level float64) float64 {
	return 7 + 18*level/10
}

// Spawn places count bodies: body 0 at the origin, the rest uniformly in a
// flat box around it.
func Spawn(rng *rand.Rand, count int, sc config.SpawnConfig) []mgl64.Vec3 {
	pos := make([]mgl64.Vec3, count)
	for i := 1; i < count; i++ {
		pos[i] = mgl64.Vec3{
			(rng.Float64() - 0.5) * 2 * sc.SpreadXY,
			(rng.Float64() - 0.5) * 2 * sc.SpreadXY,
			(rng.Float64() - 0.5) * 2 * sc.SpreadZ,
		}
	}
	return pos
}

// DefaultLevel is the starting level of a new slider at index i.
func DefaultLevel(rng *rand.Rand, i int, sc config.SpawnConfig) float64 {
	if i == 0 {
		return sc.CenterMass
	}
	return float64(rng.Intn(sc.MaxLevel))
}

// Sliders grows or shrinks old to count entries. Kept sliders keep their
// levels; new ones start from the configured levels, then the spawn defaults.
func Sliders(rng *rand.Rand, old []Slider, count int, cfg *config.Config) []Slider {
	out := make([]Slider, count)
	n := copy(out, old)
	for i := n; i < count; i++ {
		if i < len(cfg.Simulation.MassLevels) {
			out[i].Level = cfg.Simulation.MassLevels[i]
			continue
		}
		out[i].Level = DefaultLevel(rng, i, cfg.Spawn)
	}
	return out
}
