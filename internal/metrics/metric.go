package metrics

import "github.com/san-kum/gravsim/internal/nbody"

// Metric accumulates one number over the ticks of a run.
type Metric interface {
	Name() string
	Observe(s *nbody.State)
	Value() float64
	Reset()
}

// Defaults returns a fresh set of the metrics reported by headless runs.
func Defaults() []Metric {
	return []Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewMomentumDrift(),
		NewEscape(2000),
		NewContacts(),
	}
}
