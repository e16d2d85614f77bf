package automation

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/nbody"
)

// Scenario is a scripted run with timed control changes.
type Scenario struct {
	Name        string  `yaml:"name"`
	Description string  `yaml:"description"`
	Preset      string  `yaml:"preset"`
	Bodies      int     `yaml:"bodies"`
	Seed        int64   `yaml:"seed"`
	Ticks       int     `yaml:"ticks"`
	SampleEvery int     `yaml:"sample_every"`
	Events      []Event `yaml:"events"`
}

// Event changes the simulation at tick At. Exactly one of Mass and Bodies
// is set.
type Event struct {
	At     int         `yaml:"at"`
	Mass   *MassChange `yaml:"mass,omitempty"`
	Bodies *int        `yaml:"bodies,omitempty"`
}

type MassChange struct {
	Body  int     `yaml:"body"`
	Level float64 `yaml:"level"`
}

// Segment is the part of a scenario between two events.
type Segment struct {
	From   int
	To     int
	Result *experiment.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}
	return &scenario, nil
}

func (sc *Scenario) Validate() error {
	if sc.Ticks <= 0 {
		return fmt.Errorf("%w: scenario %q: ticks must be positive", nbody.ErrInvalidInput, sc.Name)
	}
	if sc.Preset != "" && config.GetPreset(sc.Preset) == nil {
		return fmt.Errorf("%w: scenario %q: unknown preset %q", nbody.ErrInvalidInput, sc.Name, sc.Preset)
	}
	for i, ev := range sc.Events {
		if ev.At < 0 || ev.At > sc.Ticks {
			return fmt.Errorf("%w: event %d at tick %d outside [0, %d]", nbody.ErrInvalidInput, i, ev.At, sc.Ticks)
		}
		if (ev.Mass == nil) == (ev.Bodies == nil) {
			return fmt.Errorf("%w: event %d must set exactly one of mass or bodies", nbody.ErrInvalidInput, i)
		}
	}
	return nil
}

// Config builds the run configuration the scenario starts from.
func (sc *Scenario) Config() *config.Config {
	cfg := config.DefaultConfig()
	if sc.Preset != "" {
		cfg = config.GetPreset(sc.Preset)
	}
	if sc.Bodies > 0 {
		cfg.Simulation.Bodies = sc.Bodies
	}
	if sc.Seed != 0 {
		cfg.Simulation.Seed = sc.Seed
	}
	return cfg
}

// RunScenario runs the scenario headlessly. Events fire at tick
// boundaries; each stretch between events is returned as its own segment.
func RunScenario(ctx context.Context, scenario *Scenario, logger *log.Logger) ([]Segment, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if err := scenario.Validate(); err != nil {
		return nil, err
	}

	events := append([]Event(nil), scenario.Events...)
	sort.SliceStable(events, func(i, j int) bool { return events[i].At < events[j].At })

	exp, err := experiment.New(experiment.Config{
		Scene:       scenario.Config(),
		SampleEvery: scenario.SampleEvery,
	}, logger)
	if err != nil {
		return nil, err
	}
	for _, m := range metrics.Defaults() {
		exp.AddMetric(m)
	}

	var segments []Segment
	tick := 0
	for len(events) > 0 || tick < scenario.Ticks {
		for len(events) > 0 && events[0].At <= tick {
			if err := apply(exp, events[0]); err != nil {
				return segments, fmt.Errorf("scenario %q at tick %d: %w", scenario.Name, tick, err)
			}
			events = events[1:]
		}

		end := scenario.Ticks
		if len(events) > 0 {
			end = events[0].At
		}
		if end <= tick {
			continue
		}

		logger.Info("running segment", "scenario", scenario.Name, "from", tick, "to", end)
		exp.SetTicks(end - tick)
		result, err := exp.Run(ctx)
		if result != nil {
			segments = append(segments, Segment{From: tick, To: tick + result.Ticks, Result: result})
		}
		if err != nil {
			return segments, err
		}
		tick = end
	}
	return segments, nil
}

func apply(exp *experiment.Experiment, ev Event) error {
	sc := exp.Scene()
	switch {
	case ev.Mass != nil:
		if err := sc.SetLevel(ev.Mass.Body, ev.Mass.Level); err != nil {
			return err
		}
		return sc.Loop().Flush()
	case ev.Bodies != nil:
		return sc.Reset(*ev.Bodies)
	}
	return nil
}

// MonteCarloConfig runs the same configuration from many random spawns.
type MonteCarloConfig struct {
	Base      *config.Config
	NumTrials int
	Ticks     int
	Radius    float64
	Seed      int64

	// Workers bounds how many trials run at once. Zero uses four.
	Workers int
}

// MonteCarloResult holds the outcome of one trial.
type MonteCarloResult struct {
	TrialID     int
	Seed        int64
	Bound       bool
	EnergyDrift float64
}

// RunMonteCarlo executes trials with different spawn seeds and reports
// which stayed within Radius of the centre of mass. Seeds are drawn up
// front, so results do not depend on Workers.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, logger *log.Logger) ([]MonteCarloResult, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.NumTrials <= 0 {
		return nil, fmt.Errorf("%w: trials must be positive", nbody.ErrInvalidInput)
	}
	base := cfg.Base
	if base == nil {
		base = config.DefaultConfig()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	seeds := make([]int64, cfg.NumTrials)
	for i := range seeds {
		seeds[i] = rng.Int63()
	}

	results := make([]MonteCarloResult, cfg.NumTrials)
	errs := make([]error, cfg.NumTrials)
	jobs := make(chan int)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		done int
	)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for trial := range jobs {
				results[trial], errs[trial] = runTrial(ctx, base, cfg, trial, seeds[trial], logger)

				mu.Lock()
				done++
				if done%10 == 0 {
					logger.Info("monte carlo progress", "done", done, "of", cfg.NumTrials)
				}
				mu.Unlock()
			}
		}()
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		jobs <- trial
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	return results, nil
}

func runTrial(ctx context.Context, base *config.Config, cfg *MonteCarloConfig, trial int, seed int64, logger *log.Logger) (MonteCarloResult, error) {
	sc := base.Clone()
	sc.Simulation.Seed = seed

	exp, err := experiment.New(experiment.Config{Scene: sc, Ticks: cfg.Ticks, SampleEvery: cfg.Ticks}, logger)
	if err != nil {
		return MonteCarloResult{}, err
	}
	bound := metrics.NewEscape(cfg.Radius)
	drift := metrics.NewEnergyDrift()
	exp.AddMetric(bound)
	exp.AddMetric(drift)

	if _, err := exp.Run(ctx); err != nil {
		return MonteCarloResult{}, fmt.Errorf("trial %d: %w", trial, err)
	}
	return MonteCarloResult{
		TrialID:     trial,
		Seed:        seed,
		Bound:       bound.Value() == 1,
		EnergyDrift: drift.Value(),
	}, nil
}

// MonteCarloStats counts bound and escaped trials.
func MonteCarloStats(results []MonteCarloResult) (bound int, escaped int) {
	for _, r := range results {
		if r.Bound {
			bound++
		} else {
			escaped++
		}
	}
	return
}
