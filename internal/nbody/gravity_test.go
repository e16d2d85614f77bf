package nbody

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func randomBodies(rng *rand.Rand, n int) []Body {
	bodies := make([]Body, n)
	for i := range bodies {
		p := mgl64.Vec3{rng.Float64()*400 - 200, rng.Float64()*400 - 200, rng.Float64()*100 - 50}
		bodies[i] = Body{ID: i, Position: p, Previous: p, Mass: MassFromLevel(float64(rng.Intn(6)))}
	}
	return bodies
}

func TestDistancesSymmetric(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	bodies := randomBodies(rng, 8)
	d := Distances(bodies)

	if d.Len() != len(bodies) {
		t.Fatalf("expected %d rows, got %d", len(bodies), d.Len())
	}
	for i := range bodies {
		if d.At(i, i) != 0 {
			t.Errorf("diagonal [%d][%d] = %g, expected 0", i, i, d.At(i, i))
		}
		for j := range bodies {
			if d.At(i, j) != d.At(j, i) {
				t.Errorf("asymmetric at (%d,%d): %g vs %g", i, j, d.At(i, j), d.At(j, i))
			}
			want := bodies[i].Position.Sub(bodies[j].Position).Len()
			if math.Abs(d.At(i, j)-want) > 1e-12 {
				t.Errorf("D[%d][%d] = %g, expected %g", i, j, d.At(i, j), want)
			}
		}
	}
}

func TestBuildDistancesReusesBuffer(t *testing.T) {
	bodies := []Body{
		{ID: 0, Mass: 1},
		{ID: 1, Position: mgl64.Vec3{3, 4, 0}, Mass: 1},
	}
	d := Distances(bodies)
	row := &d[0][0]

	bodies[1].Position = mgl64.Vec3{6, 8, 0}
	d = BuildDistances(d, bodies)

	if &d[0][0] != row {
		t.Error("expected same-size matrix to be reused")
	}
	if d[0][1] != 10 || d[1][0] != 10 {
		t.Errorf("expected stale entries to be recomputed, got %g and %g", d[0][1], d[1][0])
	}

	d = BuildDistances(d, bodies[:1])
	if d.Len() != 1 {
		t.Errorf("expected resize to 1, got %d", d.Len())
	}
}

func TestAccelerationTwoBody(t *testing.T) {
	p := DefaultParams()
	bodies := []Body{
		{ID: 0, Mass: 1024},
		{ID: 1, Position: mgl64.Vec3{100, 0, 0}, Mass: 1},
	}
	d := Distances(bodies)

	tests := []struct {
		name string
		i    int
		want mgl64.Vec3
	}{
		{"heavy pulled toward light", 0, mgl64.Vec3{p.G * 1 / (100 * 100), 0, 0}},
		{"light pulled toward heavy", 1, mgl64.Vec3{-p.G * 1024 / (100 * 100), 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Acceleration(bodies, tt.i, bodies[tt.i].Position, d, p)
			if !got.ApproxEqualThreshold(tt.want, 1e-9) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestAccelerationExcludesSelfByID(t *testing.T) {
	p := DefaultParams()

	single := []Body{{ID: 3, Position: mgl64.Vec3{1, 2, 3}, Mass: 1024}}
	if got := Acceleration(single, 0, single[0].Position, Distances(single), p); got != (mgl64.Vec3{}) {
		t.Errorf("expected zero acceleration for a lone body, got %v", got)
	}

	// the evaluated position differs from the stored one, so an index-blind
	// self term would show up as a pull toward the stored position
	bodies := []Body{
		{ID: 0, Mass: 1024},
		{ID: 1, Position: mgl64.Vec3{100, 0, 0}, Mass: 1},
	}
	d := Distances(bodies)
	got := Acceleration(bodies, 1, mgl64.Vec3{100, 0, 0}, d, p)
	want := mgl64.Vec3{-p.G * 1024 / 1e4, 0, 0}
	if !got.ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("expected only the other body's pull %v, got %v", want, got)
	}
}

func TestAccelerationFloor(t *testing.T) {
	p := DefaultParams()

	tests := []struct {
		name string
		sep  float64
		want float64
	}{
		// inside the floor the coefficient is frozen at its floor value
		{"inside floor", 10, p.G * 10 / (p.Floor * p.Floor * p.Floor)},
		{"at floor", p.Floor, p.G / (p.Floor * p.Floor)},
		{"outside floor", 100, p.G / (100 * 100)},
		{"coincident", 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bodies := []Body{
				{ID: 0, Mass: 1},
				{ID: 1, Position: mgl64.Vec3{tt.sep, 0, 0}, Mass: 1},
			}
			got := Acceleration(bodies, 0, bodies[0].Position, Distances(bodies), p)
			if math.IsNaN(got.Len()) || math.IsInf(got.Len(), 0) {
				t.Fatalf("expected finite acceleration, got %v", got)
			}
			if math.Abs(got[0]-tt.want) > 1e-9 {
				t.Errorf("expected %g, got %g", tt.want, got[0])
			}
		})
	}
}

func TestAccelerationPropagatesNaN(t *testing.T) {
	bodies := []Body{
		{ID: 0, Mass: 1},
		{ID: 1, Position: mgl64.Vec3{math.NaN(), 0, 0}, Mass: 1},
	}
	got := Acceleration(bodies, 0, bodies[0].Position, Distances(bodies), DefaultParams())
	if !math.IsNaN(got[0]) {
		t.Errorf("expected NaN to propagate, got %v", got)
	}
}
