package nbody

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DistanceMatrix holds pairwise separations. It is symmetric with a zero
// diagonal.
type DistanceMatrix [][]float64

// At returns the distance between bodies i and j.
func (d DistanceMatrix) At(i, j int) float64 { return d[i][j] }

// Len returns the number of rows.
func (d DistanceMatrix) Len() int { return len(d) }

// Distances computes the distance matrix for the current positions.
func Distances(bodies []Body) DistanceMatrix {
	return BuildDistances(nil, bodies)
}

// BuildDistances recomputes every entry of dst for the current positions,
// reusing its storage when the size matches. No entry survives from a
// previous call.
func BuildDistances(dst DistanceMatrix, bodies []Body) DistanceMatrix {
	n := len(bodies)
	if len(dst) != n {
		dst = make(DistanceMatrix, n)
		for i := range dst {
			dst[i] = make([]float64, n)
		}
	}
	for i := 0; i < n; i++ {
		dst[i][i] = 0
		for j := i + 1; j < n; j++ {
			r := bodies[i].Position.Sub(bodies[j].Position).Len()
			dst[i][j] = r
			dst[j][i] = r
		}
	}
	return dst
}

// Acceleration returns the net gravitational acceleration on body i when it
// sits at pos, using the positions of the others and the distance matrix of
// the same snapshot:
//
//	a = Σ_j (pos - p_j) * (-G m_j / max(Floor, D[i][j])³)
//
// Bodies with the same identity as body i are skipped. Separations below
// the floor are replaced by the floor in the denominator only, which bounds
// the force coefficient near contact. NaN inputs propagate.
func Acceleration(bodies []Body, i int, pos mgl64.Vec3, d DistanceMatrix, p Params) mgl64.Vec3 {
	var acc mgl64.Vec3
	self := bodies[i].ID
	for j := range bodies {
		other := &bodies[j]
		if other.ID == self {
			continue
		}
		r := math.Max(p.Floor, d[i][j])
		coef := -p.G * other.Mass / (r * r * r)
		acc = acc.Add(pos.Sub(other.Position).Mul(coef))
	}
	return acc
}
