package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/nbody"
)

func newExperiment(t *testing.T, ticks, every int) *Experiment {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Simulation.Bodies = 4
	cfg.Simulation.Seed = 5
	e, err := New(Config{Scene: cfg, Ticks: ticks, SampleEvery: every}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return e
}

func TestRun(t *testing.T) {
	e := newExperiment(t, 100, 10)
	e.AddMetric(metrics.NewMomentumDrift())

	var observed int
	e.AddObserver(nbody.ObserverFunc(func(*nbody.State) { observed++ }))

	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Ticks != 100 {
		t.Errorf("expected 100 ticks, got %d", res.Ticks)
	}
	if observed != 100 {
		t.Errorf("expected observer on every tick, got %d", observed)
	}
	if len(res.Samples) != 11 {
		t.Errorf("expected 11 samples, got %d", len(res.Samples))
	}
	if len(res.Bodies) != 4 || res.Bodies[0].Mass != 1024 {
		t.Errorf("unexpected bodies %+v", res.Bodies)
	}
	if _, ok := res.Metrics["momentum_drift"]; !ok {
		t.Error("expected momentum_drift metric")
	}
	if dt := res.SampleInterval(); math.Abs(dt-10*nbody.DefaultDt) > 1e-12 {
		t.Errorf("expected sample interval %g, got %g", 10*nbody.DefaultDt, dt)
	}
}

func TestRunTwiceContinues(t *testing.T) {
	e := newExperiment(t, 20, 5)
	if _, err := e.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	if res.Samples[0].Tick != 20 || res.Ticks != 20 {
		t.Errorf("second run should continue from tick 20, got first sample %d, ticks %d", res.Samples[0].Tick, res.Ticks)
	}
}

func TestRunCancelled(t *testing.T) {
	e := newExperiment(t, 1000, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := e.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res == nil || res.Ticks >= 1000 {
		t.Errorf("expected a partial result, got %+v", res)
	}
}

func TestRunValidation(t *testing.T) {
	e := newExperiment(t, 0, 1)
	if _, err := e.Run(context.Background()); !errors.Is(err, nbody.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRadialSeries(t *testing.T) {
	e := newExperiment(t, 50, 1)
	res, err := e.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	r, err := res.RadialSeries(1)
	if err != nil {
		t.Fatalf("RadialSeries: %v", err)
	}
	if len(r) != len(res.Samples) {
		t.Errorf("expected %d points, got %d", len(res.Samples), len(r))
	}
	for _, v := range r {
		if v <= 0 {
			t.Errorf("radius should be positive, got %g", v)
		}
	}

	if _, err := res.RadialSeries(10); !errors.Is(err, nbody.ErrBodyIndex) {
		t.Errorf("expected ErrBodyIndex, got %v", err)
	}
	if got := len(res.EnergySeries()); got != len(res.Samples) {
		t.Errorf("expected %d energies, got %d", len(res.Samples), got)
	}
}
