package nbody

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

func newTestLoop(t *testing.T) *Loop {
	t.Helper()
	s, err := Initialize(3, []float64{1024, 2, 4})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	return NewLoop(s, nil)
}

func TestLoopTickNotifiesObservers(t *testing.T) {
	l := newTestLoop(t)
	var ticks []uint64
	l.AddObserver(ObserverFunc(func(s *State) { ticks = append(ticks, s.Tick) }))

	for i := 0; i < 3; i++ {
		if err := l.Tick(); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}
	if len(ticks) != 3 || ticks[2] != 3 {
		t.Errorf("expected observer to see ticks 1..3, got %v", ticks)
	}
}

func TestLoopSetMassDeferred(t *testing.T) {
	l := newTestLoop(t)
	l.SetMass(1, 128)

	if got := l.State().Bodies[1].Mass; got != 2 {
		t.Fatalf("mass change must wait for the tick boundary, got %g", got)
	}

	var seen float64
	l.AddObserver(ObserverFunc(func(s *State) { seen = s.Bodies[1].Mass }))
	if err := l.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if seen != 128 {
		t.Errorf("expected the tick to run with mass 128, got %g", seen)
	}
}

func TestLoopFlushJoinsErrors(t *testing.T) {
	l := newTestLoop(t)
	l.SetMass(9, 1)
	l.SetMass(0, math.NaN())
	l.SetMass(2, 16)

	err := l.Flush()
	if !errors.Is(err, ErrBodyIndex) || !errors.Is(err, ErrInvalidMass) {
		t.Errorf("expected both errors joined, got %v", err)
	}
	if got := l.State().Bodies[2].Mass; got != 16 {
		t.Errorf("valid mutation should still apply, got %g", got)
	}
}

func TestLoopFreezesAndReplaceResumes(t *testing.T) {
	bad, err := NewState([]Body{
		{ID: 0, Mass: 1},
		{ID: 1, Position: mgl64.Vec3{math.NaN(), 0, 0}, Mass: 1},
	}, DefaultParams())
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	l := NewLoop(bad, nil)

	if err := l.Tick(); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState, got %v", err)
	}
	if !l.Frozen() {
		t.Fatal("expected loop to freeze")
	}
	if err := l.Tick(); err != nil {
		t.Errorf("frozen loop should ignore ticks, got %v", err)
	}
	if l.State().Tick != 0 {
		t.Errorf("frozen state advanced to %d", l.State().Tick)
	}

	good, err := Initialize(2, []float64{1, 1})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	l.Replace(good)
	if err := l.Tick(); err != nil {
		t.Fatalf("Tick after Replace: %v", err)
	}
	if l.Frozen() || l.Err() != nil {
		t.Error("Replace should clear the freeze")
	}
	if l.State() != good || good.Tick != 1 {
		t.Errorf("expected replacement state to advance once, tick %d", good.Tick)
	}
}

func TestLoopRun(t *testing.T) {
	t.Run("closed frames", func(t *testing.T) {
		l := newTestLoop(t)
		frames := make(chan time.Time, 5)
		for i := 0; i < 5; i++ {
			frames <- time.Time{}
		}
		close(frames)

		if err := l.Run(context.Background(), frames); err != nil {
			t.Fatalf("Run: %v", err)
		}
		if got := l.State().Tick; got != 5 {
			t.Errorf("expected 5 ticks, got %d", got)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		l := newTestLoop(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := l.Run(ctx, make(chan time.Time))
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}
