package metrics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravsim/internal/nbody"
)

// MomentumDrift is the largest change of total momentum since the first
// observation, relative to the summed momentum magnitudes of the bodies.
// Pairwise forces cancel, so this only measures rounding.
type MomentumDrift struct {
	name     string
	initial  mgl64.Vec3
	maxDrift float64
	samples  int
}

func NewMomentumDrift() *MomentumDrift {
	return &MomentumDrift{name: "momentum_drift"}
}

func (m *MomentumDrift) Name() string { return m.name }

func (m *MomentumDrift) Observe(s *nbody.State) {
	p := nbody.Momentum(s)
	if m.samples == 0 {
		m.initial = p
	}
	m.samples++

	var scale float64
	for _, b := range s.Bodies {
		scale += b.Mass * b.Velocity(s.Params.Dt).Len()
	}
	if scale == 0 {
		return
	}
	m.maxDrift = math.Max(m.maxDrift, p.Sub(m.initial).Len()/scale)
}

func (m *MomentumDrift) Value() float64 { return m.maxDrift }

func (m *MomentumDrift) Reset() {
	m.initial = mgl64.Vec3{}
	m.maxDrift = 0
	m.samples = 0
}
