package experiment

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/scene"
)

type Config struct {
	Scene       *config.Config
	Ticks       int
	SampleEvery int

	// FPS paces ticks with a ticker. Zero runs as fast as possible.
	FPS int
}

// BodyInfo describes a body as it was at the start of a run.
type BodyInfo struct {
	ID    int     `json:"id"`
	Mass  float64 `json:"mass"`
	Level float64 `json:"level"`
	Color string  `json:"color"`
}

type Sample struct {
	Tick      uint64       `json:"tick"`
	Time      float64      `json:"time"`
	Positions []mgl64.Vec3 `json:"positions"`
	Center    mgl64.Vec3   `json:"center"`
	Energy    float64      `json:"energy"`
}

type Result struct {
	Bodies  []BodyInfo         `json:"bodies"`
	Samples []Sample           `json:"samples"`
	Metrics map[string]float64 `json:"metrics"`
	Ticks   int                `json:"ticks"`
	Errors  []error            `json:"-"`
}

type Experiment struct {
	cfg       Config
	scene     *scene.Scene
	metrics   []metrics.Metric
	observers []nbody.Observer
	logger    *log.Logger

	result *Result
	start  uint64
}

func New(cfg Config, logger *log.Logger) (*Experiment, error) {
	if cfg.Scene == nil {
		cfg.Scene = config.DefaultConfig()
	}
	if cfg.SampleEvery <= 0 {
		cfg.SampleEvery = 1
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	sc, err := scene.New(cfg.Scene, logger)
	if err != nil {
		return nil, err
	}
	e := &Experiment{cfg: cfg, scene: sc, logger: logger}
	sc.Loop().AddObserver(e)
	return e, nil
}

func (e *Experiment) AddMetric(m metrics.Metric)     { e.metrics = append(e.metrics, m) }
func (e *Experiment) AddObserver(o nbody.Observer) { e.observers = append(e.observers, o) }

// SetTicks changes the length of the next Run.
func (e *Experiment) SetTicks(n int) { e.cfg.Ticks = n }

// Scene returns the scene the experiment drives.
func (e *Experiment) Scene() *scene.Scene { return e.scene }

func (e *Experiment) validateConfig() error {
	if e.cfg.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be positive, got %d", nbody.ErrInvalidInput, e.cfg.Ticks)
	}
	if e.cfg.FPS < 0 {
		return fmt.Errorf("%w: fps must not be negative, got %d", nbody.ErrInvalidInput, e.cfg.FPS)
	}
	return nil
}

// Run advances the simulation cfg.Ticks times. Cancellation is honoured
// between ticks; the partial result is returned with the context error.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if err := e.validateConfig(); err != nil {
		return nil, err
	}

	s := e.scene.State()
	e.start = s.Tick
	e.result = &Result{
		Bodies:  e.bodyInfo(s),
		Samples: make([]Sample, 0, e.cfg.Ticks/e.cfg.SampleEvery+1),
		Metrics: make(map[string]float64),
	}
	for _, m := range e.metrics {
		m.Reset()
	}
	e.sample(s)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	frames := make(chan time.Time)
	go e.frames(runCtx, frames)

	loop := e.scene.Loop()
	runErr := loop.Run(runCtx, frames)
	if runErr == nil {
		// the frame source may close before Run notices cancellation
		runErr = ctx.Err()
	}

	result := e.result
	result.Ticks = int(loop.State().Tick - e.start)
	if err := loop.Err(); err != nil {
		result.Errors = append(result.Errors, err)
	}
	for _, m := range e.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	e.logger.Info("run finished", "ticks", result.Ticks, "samples", len(result.Samples), "errors", len(result.Errors))
	return result, runErr
}

func (e *Experiment) frames(ctx context.Context, out chan<- time.Time) {
	defer close(out)

	var tick <-chan time.Time
	if e.cfg.FPS > 0 {
		t := time.NewTicker(time.Second / time.Duration(e.cfg.FPS))
		defer t.Stop()
		tick = t.C
	}

	for i := 0; i < e.cfg.Ticks; i++ {
		now := time.Now()
		if tick != nil {
			select {
			case <-ctx.Done():
				return
			case now = <-tick:
			}
		}
		select {
		case <-ctx.Done():
			return
		case out <- now:
		}
	}
}

// OnTick feeds metrics, observers and the sampler.
func (e *Experiment) OnTick(s *nbody.State) {
	if e.result == nil {
		return
	}
	for _, m := range e.metrics {
		m.Observe(s)
	}
	for _, o := range e.observers {
		o.OnTick(s)
	}
	if (s.Tick-e.start)%uint64(e.cfg.SampleEvery) == 0 {
		e.sample(s)
	}
}

func (e *Experiment) sample(s *nbody.State) {
	e.result.Samples = append(e.result.Samples, Sample{
		Tick:      s.Tick,
		Time:      s.Time(),
		Positions: s.Positions(),
		Center:    nbody.CenterOfMass(s),
		Energy:    nbody.TotalEnergy(s),
	})
}

func (e *Experiment) bodyInfo(s *nbody.State) []BodyInfo {
	sliders := e.scene.Sliders()
	out := make([]BodyInfo, len(s.Bodies))
	for i, b := range s.Bodies {
		out[i] = BodyInfo{ID: b.ID, Mass: b.Mass}
		if i < len(sliders) {
			out[i].Level = sliders[i].Level
		}
		if v, ok := e.scene.Visual(b.ID); ok {
			out[i].Color = v.Color.Hex()
		}
	}
	return out
}

// RadialSeries is body index's distance from the centre of mass at every
// sample.
func (r *Result) RadialSeries(index int) ([]float64, error) {
	if index < 0 || index >= len(r.Bodies) {
		return nil, fmt.Errorf("%w: %d of %d", nbody.ErrBodyIndex, index, len(r.Bodies))
	}
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Positions[index].Sub(s.Center).Len()
	}
	return out, nil
}

// EnergySeries is the total energy at every sample.
func (r *Result) EnergySeries() []float64 {
	out := make([]float64, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Energy
	}
	return out
}

// SampleInterval is the simulated time between samples.
func (r *Result) SampleInterval() float64 {
	if len(r.Samples) < 2 {
		return 0
	}
	return r.Samples[1].Time - r.Samples[0].Time
}
