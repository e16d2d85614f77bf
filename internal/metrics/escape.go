package metrics

import (
	"github.com/san-kum/gravsim/internal/nbody"
)

// Escape is the fraction of observed ticks on which every body stayed
// within radius of the centre of mass. 1 means the system stayed bound.
type Escape struct {
	name       string
	radius     float64
	violations int
	samples    int
}

func NewEscape(radius float64) *Escape {
	return &Escape{
		name:   "bound",
		radius: radius,
	}
}

func (e *Escape) Name() string {
	return e.name
}

func (e *Escape) Observe(s *nbody.State) {
	e.samples++
	if nbody.MaxRadius(s) > e.radius {
		e.violations++
	}
}

func (e *Escape) Value() float64 {
	if e.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(e.violations)/float64(e.samples)
}

func (e *Escape) Reset() {
	e.violations = 0
	e.samples = 0
}
