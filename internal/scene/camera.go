package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Orbit is a camera circling the origin in the XZ plane, always looking at
// the origin.
type Orbit struct {
	Theta    float64
	Distance float64
	Step     float64
	FOV      float64
}

// Advance moves the camera one tick along its orbit. Theta wraps to zero
// once it passes a full turn.
func (o *Orbit) Advance() {
	o.Theta += o.Step
	if o.Theta > 2*math.Pi {
		o.Theta = 0
	}
}

func (o Orbit) Eye() mgl64.Vec3 {
	return mgl64.Vec3{o.Distance * math.Sin(o.Theta), 0, o.Distance * math.Cos(o.Theta)}
}

// View returns the look-at matrix for the current position.
func (o Orbit) View() mgl64.Mat4 {
	return mgl64.LookAtV(o.Eye(), mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
}

// Project maps a world point to normalised screen coordinates in [-1, 1]
// for the given aspect ratio (width/height). ok is false for points behind
// the camera.
func (o Orbit) Project(p mgl64.Vec3, aspect float64) (x, y, depth float64, ok bool) {
	v := o.View().Mul4x1(p.Vec4(1))
	// camera looks down -Z in view space
	depth = -v[2]
	if depth <= 1e-6 {
		return 0, 0, depth, false
	}
	f := 1 / math.Tan(mgl64.DegToRad(o.FOV)/2)
	return f * v[0] / (depth * aspect), f * v[1] / depth, depth, true
}
