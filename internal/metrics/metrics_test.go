package metrics

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravsim/internal/nbody"
)

func twoBody(t *testing.T, sep float64) *nbody.State {
	t.Helper()
	s, err := nbody.Initialize(2, []float64{1024, 1},
		nbody.WithPositions([]mgl64.Vec3{{0, 0, 0}, {sep, 0, 0}}),
	)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return s
}

func TestEnergy(t *testing.T) {
	s := twoBody(t, 100)
	m := NewEnergy()

	m.Observe(s)
	want := nbody.TotalEnergy(s)
	if math.Abs(m.Value()-want) > 1e-9 {
		t.Errorf("expected energy %f, got %f", want, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero energy after reset")
	}
}

func TestEnergyDriftSmall(t *testing.T) {
	s := twoBody(t, 200)
	m := NewEnergyDrift()

	for i := 0; i < 100; i++ {
		m.Observe(s)
		if err := nbody.Step(s); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	if m.Value() > 1e-2 {
		t.Errorf("energy drift too large: %g", m.Value())
	}
	if m.Current() >= 0 {
		t.Errorf("bound pair should have negative energy, got %g", m.Current())
	}
}

func TestMomentumDrift(t *testing.T) {
	s, err := nbody.Initialize(3, []float64{1024, 4, 16},
		nbody.WithVelocities([]mgl64.Vec3{{0, 0, 0}, {0, 300, 0}, {200, 0, 0}}),
	)
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	m := NewMomentumDrift()
	for i := 0; i < 300; i++ {
		m.Observe(s)
		_ = nbody.Step(s)
	}
	if m.Value() > 1e-6 {
		t.Errorf("momentum drift %g, expected rounding only", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		name   string
		sep    float64
		radius float64
		want   float64
	}{
		{"bound", 100, 1000, 1},
		{"escaped", 5000, 1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewEscape(tt.radius)
			m.Observe(twoBody(t, tt.sep))
			if m.Value() != tt.want {
				t.Errorf("expected %g, got %g", tt.want, m.Value())
			}
		})
	}

	if NewEscape(1).Value() != 1 {
		t.Error("no samples should read as bound")
	}
}

func TestContacts(t *testing.T) {
	m := NewContacts()
	m.Observe(twoBody(t, 10))
	m.Observe(twoBody(t, 100))
	if m.Value() != 1 {
		t.Errorf("expected one tick inside the floor, got %g", m.Value())
	}
}

func TestDefaults(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range Defaults() {
		if seen[m.Name()] {
			t.Errorf("duplicate metric %q", m.Name())
		}
		seen[m.Name()] = true
	}
	if len(seen) != 5 {
		t.Errorf("expected 5 metrics, got %d", len(seen))
	}
}
