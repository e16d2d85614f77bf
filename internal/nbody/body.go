package nbody

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Body is one point mass. Position and Previous are written together, by
// the commit phase of a tick or by a velocity reset, never one alone.
type Body struct {
	ID       int
	Position mgl64.Vec3
	Previous mgl64.Vec3
	Mass     float64
}

// MassFromLevel converts a log-scale control value to a mass.
func MassFromLevel(level float64) float64 {
	return math.Exp2(level)
}

// Displacement is the distance travelled over the last committed step.
func (b Body) Displacement() mgl64.Vec3 {
	return b.Position.Sub(b.Previous)
}

// Velocity is the velocity implied by the last committed step.
func (b Body) Velocity(dt float64) mgl64.Vec3 {
	return b.Displacement().Mul(1 / dt)
}

func validMass(m float64) bool {
	return m > 0 && !math.IsInf(m, 0) && !math.IsNaN(m)
}

func finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
