package analysis

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravsim/internal/nbody"
)

// LyapunovExponent estimates the largest Lyapunov exponent of s by
// displacing one body by perturbation along x and following both copies
// for the given number of ticks. A positive value indicates chaos.
//
// Algorithm:
// 1. Run two nearby copies with identical velocities
// 2. Measure their separation in position space after every tick
// 3. Rescale the perturbed copy back to the initial separation
// 4. λ ≈ Σ ln(d/d0) / (ticks * dt)
//
// s is not modified.
func LyapunovExponent(s *nbody.State, body int, perturbation float64, ticks int) (float64, error) {
	if body < 0 || body >= s.Len() {
		return 0, fmt.Errorf("%w: %d of %d", nbody.ErrBodyIndex, body, s.Len())
	}
	if perturbation <= 0 || ticks <= 0 {
		return 0, fmt.Errorf("%w: perturbation and ticks must be positive", nbody.ErrInvalidInput)
	}

	ref, err := nbody.NewState(s.Bodies, s.Params)
	if err != nil {
		return 0, err
	}
	pert, err := nbody.NewState(s.Bodies, s.Params)
	if err != nil {
		return 0, err
	}
	offset := mgl64.Vec3{perturbation, 0, 0}
	pert.Bodies[body].Position = pert.Bodies[body].Position.Add(offset)
	pert.Bodies[body].Previous = pert.Bodies[body].Previous.Add(offset)

	d0 := perturbation
	sumLog := 0.0
	for i := 0; i < ticks; i++ {
		if err := nbody.Step(ref); err != nil {
			return 0, err
		}
		if err := nbody.Step(pert); err != nil {
			return 0, err
		}

		sep := separation(ref, pert)
		if sep == 0 {
			continue
		}
		sumLog += math.Log(sep / d0)

		// Renormalize to prevent overflow
		scale := d0 / sep
		for j := range pert.Bodies {
			r, p := ref.Bodies[j], &pert.Bodies[j]
			p.Position = r.Position.Add(p.Position.Sub(r.Position).Mul(scale))
			p.Previous = r.Previous.Add(p.Previous.Sub(r.Previous).Mul(scale))
		}
	}

	return sumLog / (float64(ticks) * s.Params.Dt), nil
}

func separation(a, b *nbody.State) float64 {
	var sum float64
	for i := range a.Bodies {
		d := b.Bodies[i].Position.Sub(a.Bodies[i].Position)
		sum += d.Dot(d)
	}
	return math.Sqrt(sum)
}
