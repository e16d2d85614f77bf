package nbody

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Momentum returns the total momentum implied by the last committed step.
func Momentum(s *State) mgl64.Vec3 {
	var p mgl64.Vec3
	for _, b := range s.Bodies {
		p = p.Add(b.Velocity(s.Params.Dt).Mul(b.Mass))
	}
	return p
}

func KineticEnergy(s *State) float64 {
	var ke float64
	for _, b := range s.Bodies {
		v := b.Velocity(s.Params.Dt)
		ke += 0.5 * b.Mass * v.Dot(v)
	}
	return ke
}

// PotentialEnergy is the potential of the floored force law, so that
// kinetic plus potential is conserved even when bodies pass inside the
// floor. Outside the floor it is the usual -G m1 m2 / r.
func PotentialEnergy(s *State) float64 {
	var pe float64
	f := s.Params.Floor
	for i := 0; i < len(s.Bodies); i++ {
		for j := i + 1; j < len(s.Bodies); j++ {
			a, b := s.Bodies[i], s.Bodies[j]
			r := a.Position.Sub(b.Position).Len()
			pe += pairPotential(s.Params.G*a.Mass*b.Mass, r, f)
		}
	}
	return pe
}

func pairPotential(gmm, r, floor float64) float64 {
	if r >= floor {
		return -gmm / r
	}
	// inner branch of F = -gmm r / f³, matched to -gmm/f at r = f
	return gmm * (r*r/(2*floor*floor*floor) - 3/(2*floor))
}

// TotalEnergy is KineticEnergy plus PotentialEnergy.
func TotalEnergy(s *State) float64 {
	return KineticEnergy(s) + PotentialEnergy(s)
}

// CenterOfMass returns the mass-weighted mean position.
func CenterOfMass(s *State) mgl64.Vec3 {
	var c mgl64.Vec3
	var m float64
	for _, b := range s.Bodies {
		c = c.Add(b.Position.Mul(b.Mass))
		m += b.Mass
	}
	if m == 0 {
		return mgl64.Vec3{}
	}
	return c.Mul(1 / m)
}

// MaxRadius returns the largest distance of any body from the centre of mass.
func MaxRadius(s *State) float64 {
	c := CenterOfMass(s)
	var r float64
	for _, b := range s.Bodies {
		r = math.Max(r, b.Position.Sub(c).Len())
	}
	return r
}
