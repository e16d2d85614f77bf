package gui

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/san-kum/gravsim/internal/config"
)

// newTestApp builds an App without opening a window.
func newTestApp(t *testing.T, bodies int) *App {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Simulation.Bodies = bodies
	cfg.Simulation.Seed = 1
	a := &App{
		Base:    cfg,
		Zoom:    1,
		Presets: append([]string{"custom"}, config.ListPresets()...),
		logger:  log.New(io.Discard),
	}
	if err := a.load(cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	return a
}

func TestMenuCursorIndependentOfSliderRow(t *testing.T) {
	a := newTestApp(t, 8)

	for i := 0; i < len(a.Presets)+2; i++ {
		a.moveRow(1)
	}
	if a.Selected < len(a.Presets) {
		t.Fatalf("expected slider row past the preset count, got %d", a.Selected)
	}

	a.openMenu()
	if !a.InMenu || a.Running {
		t.Fatal("expected the menu to open and pause the simulation")
	}
	a.choosePreset()
	if a.Err != nil {
		t.Fatalf("choosePreset: %v", a.Err)
	}
	if a.InMenu || a.Selected != 0 {
		t.Errorf("expected a fresh scene on row 0, got menu=%v row=%d", a.InMenu, a.Selected)
	}
}

func TestMoveMenuWraps(t *testing.T) {
	a := newTestApp(t, 3)

	a.moveMenu(-1)
	if a.MenuIndex != len(a.Presets)-1 {
		t.Errorf("expected wrap to %d, got %d", len(a.Presets)-1, a.MenuIndex)
	}
	a.moveMenu(1)
	if a.MenuIndex != 0 {
		t.Errorf("expected wrap to 0, got %d", a.MenuIndex)
	}

	a.moveMenu(2)
	a.choosePreset()
	want := config.GetPreset(a.Presets[2]).Simulation.Bodies
	if got := a.Scene.State().Len(); got != want {
		t.Errorf("expected preset %s with %d bodies, got %d", a.Presets[2], want, got)
	}
}

func TestMoveRowWraps(t *testing.T) {
	a := newTestApp(t, 3)

	a.moveRow(-1)
	if a.Selected != 3 {
		t.Errorf("expected last row 3, got %d", a.Selected)
	}
	a.moveRow(1)
	if a.Selected != 0 {
		t.Errorf("expected row 0, got %d", a.Selected)
	}
}
