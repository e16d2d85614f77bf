package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/nbody"
)

func TestParseRange(t *testing.T) {
	tests := []struct {
		in      string
		name    string
		values  []float64
		wantErr bool
	}{
		{"dt=0.001,0.002", "dt", []float64{0.001, 0.002}, false},
		{"floor= 25 , 50", "floor", []float64{25, 50}, false},
		{"floor", "", nil, true},
		{"=1", "", nil, true},
		{"g=1,x", "", nil, true},
	}

	for _, tt := range tests {
		name, values, err := ParseRange(tt.in)
		if tt.wantErr {
			if !errors.Is(err, nbody.ErrInvalidInput) {
				t.Errorf("%q: expected ErrInvalidInput, got %v", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%q: %v", tt.in, err)
		}
		if name != tt.name || len(values) != len(tt.values) {
			t.Errorf("%q: got %s %v", tt.in, name, values)
			continue
		}
		for i := range values {
			if values[i] != tt.values[i] {
				t.Errorf("%q: value %d = %g, want %g", tt.in, i, values[i], tt.values[i])
			}
		}
	}
}

func TestNewGridSearchValidation(t *testing.T) {
	if _, err := NewGridSearch([]string{"dt"}, nil); err == nil {
		t.Error("expected error for mismatched ranges")
	}
	if _, err := NewGridSearch([]string{"mass"}, [][]float64{{1}}); err == nil {
		t.Error("expected error for unknown parameter")
	}
	if _, err := NewGridSearch([]string{"dt"}, [][]float64{{}}); err == nil {
		t.Error("expected error for empty range")
	}
}

func TestSearch(t *testing.T) {
	g, err := NewGridSearch([]string{"bodies", "floor"}, [][]float64{{0, 3}, {50, 80}})
	if err != nil {
		t.Fatalf("NewGridSearch: %v", err)
	}
	base := config.DefaultConfig()
	base.Simulation.Seed = 4

	best, value, points, err := g.Search(context.Background(), base, 20, func() metrics.Metric {
		return metrics.NewMomentumDrift()
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(points) != 4 {
		t.Fatalf("expected 4 points, got %d", len(points))
	}

	failed := 0
	for _, p := range points {
		if p.Err != nil {
			failed++
			if p.Params["bodies"] != 0 {
				t.Errorf("only zero-body runs should fail, got %v: %v", p.Params, p.Err)
			}
		}
	}
	if failed != 2 {
		t.Errorf("expected 2 failed points, got %d", failed)
	}
	if best["bodies"] != 3 || value < 0 {
		t.Errorf("unexpected best %v = %g", best, value)
	}
}

func TestSearchCancelled(t *testing.T) {
	g, err := NewGridSearch([]string{"dt"}, [][]float64{{0.001}})
	if err != nil {
		t.Fatalf("NewGridSearch: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, _, _, err := g.Search(ctx, config.DefaultConfig(), 10, func() metrics.Metric { return metrics.NewEnergy() }); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
