package nbody_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/nbody"
)

func TestNBody(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "nbody Suite")
}

var _ = Describe("Step", func() {
	var s *nbody.State

	BeforeEach(func() {
		var err error
		s, err = nbody.Initialize(4, []float64{1024, 2, 8, 32},
			nbody.WithPositions([]mgl64.Vec3{{0, 0, 0}, {180, 0, 0}, {0, 220, 10}, {-150, -90, -20}}),
		)
		Expect(err).NotTo(HaveOccurred())
	})

	It("keeps the distance matrix symmetric with a zero diagonal", func() {
		for i := 0; i < 10; i++ {
			Expect(nbody.Step(s)).To(Succeed())
		}
		for i := range s.Bodies {
			Expect(s.Distances[i][i]).To(BeZero())
			for j := range s.Bodies {
				Expect(s.Distances[i][j]).To(Equal(s.Distances[j][i]))
			}
		}
	})

	It("conserves total momentum", func() {
		p0 := nbody.Momentum(s)
		for i := 0; i < 100; i++ {
			Expect(nbody.Step(s)).To(Succeed())
		}
		Expect(nbody.Momentum(s).Sub(p0).Len()).To(BeNumerically("<", 1e-3))
	})

	It("advances the tick counter and simulated time", func() {
		Expect(nbody.Step(s)).To(Succeed())
		Expect(nbody.Step(s)).To(Succeed())
		Expect(s.Tick).To(Equal(uint64(2)))
		Expect(s.Time()).To(BeNumerically("~", 2*s.Params.Dt, 1e-15))
	})

	It("pulls every body toward the centre of mass from rest", func() {
		c := nbody.CenterOfMass(s)
		before := make([]float64, s.Len())
		for i, b := range s.Bodies {
			before[i] = b.Position.Sub(c).Len()
		}
		for i := 0; i < 20; i++ {
			Expect(nbody.Step(s)).To(Succeed())
		}
		for i, b := range s.Bodies[1:] {
			Expect(b.Position.Sub(c).Len()).To(BeNumerically("<", before[i+1]))
		}
	})

	Context("after a mass change", func() {
		It("restarts every body from rest", func() {
			Expect(nbody.Step(s)).To(Succeed())
			Expect(nbody.SetMass(s, 2, nbody.MassFromLevel(7))).To(Succeed())
			for _, b := range s.Bodies {
				Expect(b.Previous).To(Equal(b.Position))
			}
			Expect(nbody.KineticEnergy(s)).To(BeZero())
		})

		It("rejects a non-positive mass without touching the state", func() {
			before := append([]nbody.Body(nil), s.Bodies...)
			Expect(nbody.SetMass(s, 1, 0)).To(MatchError(nbody.ErrInvalidMass))
			Expect(s.Bodies).To(Equal(before))
		})
	})

	Context("with the distance floor engaged", func() {
		It("stays finite when two bodies coincide", func() {
			st, err := nbody.NewState([]nbody.Body{
				{ID: 0, Mass: 1024},
				{ID: 1, Mass: 1024},
				{ID: 2, Position: mgl64.Vec3{5, 0, 0}, Previous: mgl64.Vec3{5, 0, 0}, Mass: 1},
			}, nbody.DefaultParams())
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 50; i++ {
				Expect(nbody.Step(st)).To(Succeed())
			}
			for _, b := range st.Bodies {
				for _, c := range b.Position {
					Expect(math.IsNaN(c) || math.IsInf(c, 0)).To(BeFalse())
				}
			}
		})
	})
})
