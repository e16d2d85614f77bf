package metrics

import (
	"github.com/san-kum/gravsim/internal/nbody"
)

// Contacts counts the ticks on which at least one pair sat inside the
// distance floor, where the force law is softened.
type Contacts struct {
	name    string
	ticks   int
	samples int
}

func NewContacts() *Contacts {
	return &Contacts{name: "floor_contacts"}
}

func (c *Contacts) Name() string {
	return c.name
}

func (c *Contacts) Observe(s *nbody.State) {
	c.samples++
	d := s.Distances
	for i := 0; i < d.Len(); i++ {
		for j := i + 1; j < d.Len(); j++ {
			if d.At(i, j) < s.Params.Floor {
				c.ticks++
				return
			}
		}
	}
}

func (c *Contacts) Value() float64 {
	return float64(c.ticks)
}

func (c *Contacts) Reset() {
	c.ticks = 0
	c.samples = 0
}
