package optim

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/experiment"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/nbody"
)

// Setters are the config fields a search can vary, by name.
var Setters = map[string]func(*config.Config, float64){
	"dt":     func(c *config.Config, v float64) { c.Physics.Dt = v },
	"g":      func(c *config.Config, v float64) { c.Physics.G = v },
	"floor":  func(c *config.Config, v float64) { c.Physics.Floor = v },
	"bodies": func(c *config.Config, v float64) { c.Simulation.Bodies = int(v) },
	"center": func(c *config.Config, v float64) { c.Spawn.CenterMass = v },
}

// Point is one evaluated combination.
type Point struct {
	Params map[string]float64
	Value  float64
	Err    error
}

// GridSearch runs one experiment per combination of parameter values and
// keeps the combination with the smallest metric value.
type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%w: %d parameters, %d ranges", nbody.ErrInvalidInput, len(params), len(ranges))
	}
	for i, name := range params {
		if _, ok := Setters[name]; !ok {
			return nil, fmt.Errorf("%w: unknown parameter %q", nbody.ErrInvalidInput, name)
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("%w: no values for %q", nbody.ErrInvalidInput, name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// ParseRange reads "name=v1,v2,...".
func ParseRange(s string) (string, []float64, error) {
	name, list, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return "", nil, fmt.Errorf("%w: range %q, want name=v1,v2", nbody.ErrInvalidInput, s)
	}
	var values []float64
	for _, f := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("%w: range %q: %v", nbody.ErrInvalidInput, s, err)
		}
		values = append(values, v)
	}
	return name, values, nil
}

// Search evaluates every combination over base. newMetric builds a fresh
// metric per run. Combinations whose config is invalid or whose run fails
// are reported in the returned points and skipped for the best value.
func (g *GridSearch) Search(
	ctx context.Context,
	base *config.Config,
	ticks int,
	newMetric func() metrics.Metric,
) (map[string]float64, float64, []Point, error) {
	best := math.Inf(1)
	var bestParams map[string]float64
	var points []Point

	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) {
		p := Point{Params: params}
		p.Value, p.Err = g.evaluate(ctx, base, params, ticks, newMetric())
		points = append(points, p)
		if p.Err == nil && p.Value < best {
			best = p.Value
			bestParams = params
		}
	})
	if err != nil {
		return nil, 0, points, err
	}
	if bestParams == nil {
		return nil, 0, points, fmt.Errorf("%w: no combination completed", nbody.ErrInvalidInput)
	}
	return bestParams, best, points, nil
}

func (g *GridSearch) evaluate(ctx context.Context, base *config.Config, params map[string]float64, ticks int, m metrics.Metric) (float64, error) {
	cfg := base.Clone()
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		Setters[k](cfg, params[k])
	}

	exp, err := experiment.New(experiment.Config{Scene: cfg, Ticks: ticks, SampleEvery: ticks}, nil)
	if err != nil {
		return 0, err
	}
	exp.AddMetric(m)

	result, err := exp.Run(ctx)
	if err != nil {
		return 0, err
	}
	if len(result.Errors) > 0 {
		return 0, result.Errors[0]
	}
	return result.Metrics[m.Name()], nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	visit func(map[string]float64),
) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		visit(current)
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, visit); err != nil {
			return err
		}
	}
	return nil
}
