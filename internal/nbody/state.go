package nbody

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultG     = 1e5
	DefaultDt    = 0.001
	DefaultFloor = 50.0

	// defaultRing is the radius of the layout used when no positions are given.
	defaultRing = 200.0
)

// Params holds the fixed constants of a simulation.
type Params struct {
	G     float64
	Dt    float64
	Floor float64

	// ValidateState makes Step refuse to commit NaN or Inf positions.
	ValidateState bool
}

func DefaultParams() Params {
	return Params{
		G:             DefaultG,
		Dt:            DefaultDt,
		Floor:         DefaultFloor,
		ValidateState: true,
	}
}

func (p Params) Validate() error {
	if !(p.G > 0) {
		return fmt.Errorf("%w: G must be positive, got %g", ErrInvalidParams, p.G)
	}
	if !(p.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidParams, p.Dt)
	}
	if !(p.Floor > 0) {
		return fmt.Errorf("%w: distance floor must be positive, got %g", ErrInvalidParams, p.Floor)
	}
	return nil
}

// State is the whole simulation: bodies, the distance matrix of the last
// tick, and the constants. The caller owns it.
type State struct {
	Bodies    []Body
	Distances DistanceMatrix
	Params    Params
	Tick      uint64

	candidates []mgl64.Vec3
}

// NewState wraps bodies as they are, without bootstrapping the integrator.
// Previous is taken as given: a body at rest needs Previous == Position,
// since a zero Previous implies a velocity of Position/dt.
// Use Initialize to build a state from a body count.
func NewState(bodies []Body, p Params) (*State, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	seen := make(map[int]struct{}, len(bodies))
	for i, b := range bodies {
		if !validMass(b.Mass) {
			return nil, fmt.Errorf("%w: body %d has mass %g", ErrInvalidMass, i, b.Mass)
		}
		if _, dup := seen[b.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateID, b.ID)
		}
		seen[b.ID] = struct{}{}
	}
	s := &State{
		Bodies: make([]Body, len(bodies)),
		Params: p,
	}
	copy(s.Bodies, bodies)
	s.Distances = BuildDistances(nil, s.Bodies)
	return s, nil
}

// Len returns the number of bodies.
func (s *State) Len() int { return len(s.Bodies) }

// Time is the simulated time elapsed since initialisation.
func (s *State) Time() float64 { return float64(s.Tick) * s.Params.Dt }

// Positions returns a copy of every body's current position.
func (s *State) Positions() []mgl64.Vec3 {
	out := make([]mgl64.Vec3, len(s.Bodies))
	for i, b := range s.Bodies {
		out[i] = b.Position
	}
	return out
}

// Index finds the slice index of the body with the given identity.
func (s *State) Index(id int) (int, bool) {
	for i, b := range s.Bodies {
		if b.ID == id {
			return i, true
		}
	}
	return -1, false
}

// ResetVelocities makes every body's implied velocity zero.
func (s *State) ResetVelocities() {
	for i := range s.Bodies {
		s.Bodies[i].Previous = s.Bodies[i].Position
	}
}

// Option customises Initialize.
type Option func(*initOptions)

type initOptions struct {
	params     Params
	positions  []mgl64.Vec3
	velocities []mgl64.Vec3
}

func WithParams(p Params) Option {
	return func(o *initOptions) { o.params = p }
}

// WithPositions sets the initial positions, one per body.
func WithPositions(pos []mgl64.Vec3) Option {
	return func(o *initOptions) { o.positions = pos }
}

// WithVelocities sets the initial velocities, one per body. Bodies start
// at rest by default.
func WithVelocities(v []mgl64.Vec3) Option {
	return func(o *initOptions) { o.velocities = v }
}

// Initialize builds a fresh state of count bodies with the given masses and
// bootstraps the Verlet scheme: Previous is the initial position and
// Position is advanced by v*dt + a*dt²/2, with every acceleration taken
// from the same initial snapshot.
func Initialize(count int, masses []float64, opts ...Option) (*State, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrBodyCount, count)
	}
	if len(masses) != count {
		return nil, fmt.Errorf("%w: %d masses for %d bodies", ErrBodyCount, len(masses), count)
	}

	o := initOptions{params: DefaultParams()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.positions == nil {
		o.positions = ringLayout(count)
	}
	if len(o.positions) != count {
		return nil, fmt.Errorf("%w: %d positions for %d bodies", ErrBodyCount, len(o.positions), count)
	}
	if o.velocities != nil && len(o.velocities) != count {
		return nil, fmt.Errorf("%w: %d velocities for %d bodies", ErrBodyCount, len(o.velocities), count)
	}

	bodies := make([]Body, count)
	for i := range bodies {
		bodies[i] = Body{
			ID:       i,
			Position: o.positions[i],
			Previous: o.positions[i],
			Mass:     masses[i],
		}
	}

	s, err := NewState(bodies, o.params)
	if err != nil {
		return nil, err
	}
	s.bootstrap(o.velocities)
	return s, nil
}

func (s *State) bootstrap(velocities []mgl64.Vec3) {
	n := len(s.Bodies)
	dt := s.Params.Dt
	s.Distances = BuildDistances(s.Distances, s.Bodies)
	s.candidates = growVecs(s.candidates, n)

	for i := range s.Bodies {
		b := &s.Bodies[i]
		next := b.Position
		if velocities != nil {
			next = next.Add(velocities[i].Mul(dt))
		}
		acc := Acceleration(s.Bodies, i, b.Position, s.Distances, s.Params)
		s.candidates[i] = next.Add(acc.Mul(0.5 * dt * dt))
	}
	for i := range s.Bodies {
		s.Bodies[i].Previous = s.Bodies[i].Position
		s.Bodies[i].Position = s.candidates[i]
	}
}

// SetMass changes one body's mass and zeroes every body's implied velocity.
// The reset is an approximation: the system restarts from rest at the
// current positions instead of carrying momentum across the change.
func SetMass(s *State, index int, mass float64) error {
	if index < 0 || index >= len(s.Bodies) {
		return fmt.Errorf("%w: %d of %d", ErrBodyIndex, index, len(s.Bodies))
	}
	if !validMass(mass) {
		return fmt.Errorf("%w: got %g", ErrInvalidMass, mass)
	}
	s.Bodies[index].Mass = mass
	s.ResetVelocities()
	return nil
}

func ringLayout(n int) []mgl64.Vec3 {
	pos := make([]mgl64.Vec3, n)
	if n == 1 {
		return pos
	}
	for i := range pos {
		angle := float64(i) * 2 * math.Pi / float64(n)
		pos[i] = mgl64.Vec3{defaultRing * math.Cos(angle), defaultRing * math.Sin(angle), 0}
	}
	return pos
}

func growVecs(v []mgl64.Vec3, n int) []mgl64.Vec3 {
	if cap(v) < n {
		return make([]mgl64.Vec3, n)
	}
	return v[:n]
}
