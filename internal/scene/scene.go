package scene

import (
	"fmt"
	"io"
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/nbody"
)

// Visual is the drawable side of one body.
type Visual struct {
	Color  colorful.Color
	Radius float64
	Trail  *Trail
}

// Scene ties a simulation loop to the things a renderer draws: sliders,
// per-body visuals, trails and the orbiting camera. It observes its loop
// and must be driven from the goroutine that ticks it.
type Scene struct {
	cfg     *config.Config
	rng     *rand.Rand
	loop    *nbody.Loop
	sliders []Slider
	visuals map[int]*Visual
	camera  Orbit
	frame   uint64
	logger  *log.Logger
}

// New builds a scene with cfg.Simulation.Bodies bodies.
func New(cfg *config.Config, logger *log.Logger) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	sc := &Scene{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Simulation.Seed)),
		camera: Orbit{
			Distance: cfg.Camera.Distance,
			Step:     cfg.Camera.Step,
			FOV:      cfg.Camera.FOV,
		},
		logger: logger,
	}
	sc.loop = nbody.NewLoop(nil, logger)
	sc.loop.AddObserver(sc)
	if err := sc.Reset(cfg.Simulation.Bodies); err != nil {
		return nil, err
	}
	return sc, nil
}

func (sc *Scene) Loop() *nbody.Loop { return sc.loop }

func (sc *Scene) State() *nbody.State { return sc.loop.State() }

func (sc *Scene) Config() *config.Config { return sc.cfg }

// Sliders returns a copy of the mass controls.
func (sc *Scene) Sliders() []Slider { return append([]Slider(nil), sc.sliders...) }

// Visual returns the visual for a body identity.
func (sc *Scene) Visual(id int) (*Visual, bool) {
	v, ok := sc.visuals[id]
	return v, ok
}

func (sc *Scene) Camera() Orbit { return sc.camera }

// Frame counts ticks since the last reset.
func (sc *Scene) Frame() uint64 { return sc.frame }

// Tick advances the simulation once.
func (sc *Scene) Tick() error { return sc.loop.Tick() }

// Reset rebuilds the simulation with count bodies at fresh random
// positions. Existing sliders keep their levels.
func (sc *Scene) Reset(count int) error {
	if count < 1 || count > config.MaxBodies {
		return fmt.Errorf("%w: %d, want 1..%d", nbody.ErrBodyCount, count, config.MaxBodies)
	}
	sc.sliders = Sliders(sc.rng, sc.sliders, count, sc.cfg)

	masses := make([]float64, count)
	for i, s := range sc.sliders {
		masses[i] = s.Mass()
	}
	s, err := nbody.Initialize(count, masses,
		nbody.WithParams(sc.cfg.Params()),
		nbody.WithPositions(Spawn(sc.rng, count, sc.cfg.Spawn)),
	)
	if err != nil {
		return err
	}

	sc.visuals = make(map[int]*Visual, count)
	for i, b := range s.Bodies {
		v := &Visual{
			Color:  BodyColor(i, count),
			Radius: RadiusFromLevel(sc.sliders[i].Level),
			Trail:  NewTrail(sc.cfg.Trail.Max),
		}
		if i == 0 {
			v.Radius = 1
		}
		v.Trail.Push(b.Previous)
		v.Trail.Push(b.Position)
		sc.visuals[b.ID] = v
	}
	sc.frame = 0

	sc.loop.Replace(s)
	if err := sc.loop.Flush(); err != nil {
		return err
	}
	sc.logger.Debug("scene reset", "bodies", count)
	return nil
}

// SetLevel moves body i's mass slider. The mass change reaches the
// simulation at the next tick.
func (sc *Scene) SetLevel(i int, level float64) error {
	if i < 0 || i >= len(sc.sliders) {
		return fmt.Errorf("%w: %d of %d", nbody.ErrBodyIndex, i, len(sc.sliders))
	}
	level = config.ClampLevel(level)
	sc.sliders[i].Level = level
	sc.loop.SetMass(i, sc.sliders[i].Mass())

	if id := sc.State().Bodies[i].ID; sc.visuals[id] != nil {
		sc.visuals[id].Radius = RadiusFromLevel(level)
	}
	sc.logger.Debug("mass level changed", "body", i, "level", level)
	return nil
}

// OnTick advances the camera and samples trails.
func (sc *Scene) OnTick(s *nbody.State) {
	sc.camera.Advance()
	sc.frame++
	if sc.frame%uint64(sc.cfg.Trail.Every) != 0 {
		return
	}
	for _, b := range s.Bodies {
		if v, ok := sc.visuals[b.ID]; ok {
			v.Trail.Push(b.Position)
		}
	}
}
