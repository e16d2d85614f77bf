package nbody

import (
	"github.com/go-gl/mathgl/mgl64"
)

// VerletPosition advances one position by one step without touching any
// stored state:
//
//	next = pos + (pos - prev) + acc*dt²
func VerletPosition(pos, prev, acc mgl64.Vec3, dt float64) mgl64.Vec3 {
	return pos.Add(pos.Sub(prev)).Add(acc.Mul(dt * dt))
}

// Step advances the state by one tick in two phases. First every body's
// candidate position is computed from one snapshot of positions and
// distances; only then are the candidates committed. A body moved early in
// the tick is never seen at its new position by a body evaluated later.
//
// With Params.ValidateState set, a tick that yields a NaN or Inf candidate
// is not committed and Step returns a *TickError wrapping ErrInvalidState.
func Step(s *State) error {
	n := len(s.Bodies)
	dt := s.Params.Dt

	s.Distances = BuildDistances(s.Distances, s.Bodies)
	s.candidates = growVecs(s.candidates, n)

	for i := range s.Bodies {
		b := &s.Bodies[i]
		acc := Acceleration(s.Bodies, i, b.Position, s.Distances, s.Params)
		s.candidates[i] = VerletPosition(b.Position, b.Previous, acc, dt)
	}

	if s.Params.ValidateState {
		for i, c := range s.candidates {
			if !finite(c) {
				return &TickError{Tick: s.Tick, Body: s.Bodies[i].ID, Wrapped: ErrInvalidState}
			}
		}
	}

	for i := range s.Bodies {
		s.Bodies[i].Previous = s.Bodies[i].Position
		s.Bodies[i].Position = s.candidates[i]
	}
	s.Tick++
	return nil
}
