package nbody

import (
	"math/rand"
	"testing"
)

func benchState(b *testing.B, n int) *State {
	rng := rand.New(rand.NewSource(1))
	s, err := NewState(randomBodies(rng, n), DefaultParams())
	if err != nil {
		b.Fatal(err)
	}
	return s
}

func BenchmarkStep5(b *testing.B) {
	s := benchState(b, 5)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Step(s)
	}
}

func BenchmarkStep50(b *testing.B) {
	s := benchState(b, 50)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Step(s)
	}
}

func BenchmarkDistances(b *testing.B) {
	s := benchState(b, 50)
	d := Distances(s.Bodies)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		d = BuildDistances(d, s.Bodies)
	}
}
