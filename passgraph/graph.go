package passgraph

import (
	"log/slog"
	"time"
)

// Graph owns the registered pass set and its cached execution order.
// It is single-threaded by design: all methods are called from the frame
// loop, so there is no locking.
type Graph struct {
	passes    map[string]*Pass
	insertion []string // pass ids in registration order, drives order rebuild
	order     []string // cached topological order

	timingEnabled bool
	timings       map[string]float64 // ms per pass, last run
	totalMs       float64
}

// NewGraph returns an empty graph with timing collection enabled.
func NewGraph() *Graph {
	return &Graph{
		passes:        make(map[string]*Pass),
		timingEnabled: true,
		timings:       make(map[string]float64),
	}
}

// Register adds a pass and rebuilds the execution order. Registering an id
// that already exists replaces the pass in place with a warning, keeping its
// position in the insertion order.
func (g *Graph) Register(p *Pass) {
	if _, ok := g.passes[p.ID]; ok {
		slog.Warn("pass already registered, replacing", "pass", p.ID)
	} else {
		g.insertion = append(g.insertion, p.ID)
	}
	g.passes[p.ID] = p
	g.rebuildOrder()
}

// RegisterAll registers passes in order with a single order rebuild at the end.
func (g *Graph) RegisterAll(passes ...*Pass) {
	for _, p := range passes {
		if _, ok := g.passes[p.ID]; ok {
			slog.Warn("pass already registered, replacing", "pass", p.ID)
		} else {
			g.insertion = append(g.insertion, p.ID)
		}
		g.passes[p.ID] = p
	}
	g.rebuildOrder()
}

// Unregister removes a pass and rebuilds the order. Unknown ids are ignored.
func (g *Graph) Unregister(id string) {
	if _, ok := g.passes[id]; !ok {
		return
	}
	delete(g.passes, id)
	for i, other := range g.insertion {
		if other == id {
			g.insertion = append(g.insertion[:i], g.insertion[i+1:]...)
			break
		}
	}
	delete(g.timings, id)
	g.rebuildOrder()
}

// Replace swaps a pass definition, inserting it if absent, and rebuilds.
func (g *Graph) Replace(p *Pass) {
	if _, ok := g.passes[p.ID]; !ok {
		g.insertion = append(g.insertion, p.ID)
	}
	g.passes[p.ID] = p
	g.rebuildOrder()
}

// Clear drops every pass.
func (g *Graph) Clear() {
	g.passes = make(map[string]*Pass)
	g.insertion = nil
	g.order = nil
	g.timings = make(map[string]float64)
	g.totalMs = 0
}

// SetEnabled toggles a pass without invalidating the cached order.
func (g *Graph) SetEnabled(id string, enabled bool) {
	if p, ok := g.passes[id]; ok {
		p.Enabled = enabled
	}
}

// SetGroupEnabled toggles every pass in a group. Order is preserved.
func (g *Graph) SetGroupEnabled(group string, enabled bool) {
	for _, p := range g.passes {
		if p.group() == group {
			p.Enabled = enabled
		}
	}
}

// SetTimingEnabled toggles per-pass wall-clock collection.
func (g *Graph) SetTimingEnabled(enabled bool) {
	g.timingEnabled = enabled
}

// rebuildOrder recomputes the cached execution order: depth-first topological
// sort over After edges, visiting passes in registration order. A dependency
// on an unregistered id is treated as already satisfied. A cycle is logged
// and its back-edge skipped, leaving a best-effort partial order; a
// misconfigured pass must not take the whole frame down.
func (g *Graph) rebuildOrder() {
	order := make([]string, 0, len(g.insertion))
	visited := make(map[string]bool, len(g.insertion))
	visiting := make(map[string]bool)

	var visit func(id string)
	visit = func(id string) {
		if visited[id] {
			return
		}
		if visiting[id] {
			slog.Warn("pass dependency cycle, skipping edge", "pass", id)
			return
		}
		visiting[id] = true
		for _, dep := range g.passes[id].After {
			if _, ok := g.passes[dep]; !ok {
				continue
			}
			visit(dep)
		}
		visiting[id] = false
		visited[id] = true
		order = append(order, id)
	}

	for _, id := range g.insertion {
		visit(id)
	}
	g.order = order
}

// RunOptions filter a Run call. The zero value runs every enabled pass.
type RunOptions struct {
	// Groups restricts execution to passes whose group is listed. Empty
	// means no group filtering.
	Groups []string

	// FrameBudgetMs is a soft cooperative deadline checked between passes.
	// Once elapsed frame time exceeds it, remaining Optional passes are
	// shed; required passes always run. Zero disables the budget.
	FrameBudgetMs float64
}

func (o RunOptions) allowsGroup(group string) bool {
	if len(o.Groups) == 0 {
		return true
	}
	for _, g := range o.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// Run executes the cached order against the renderer. It resets the frame's
// timing totals; nested RunSubset calls add to them.
func (g *Graph) Run(r Renderer, dt, timeSec float32, opts RunOptions) {
	g.totalMs = 0
	g.runIDs(g.order, r, dt, timeSec, opts)
}

// RunSubset executes an explicit id list with the same per-pass logic as Run.
// The caller owns the ordering, e.g. an iterative pressure loop re-running
// two passes N times.
func (g *Graph) RunSubset(ids []string, r Renderer, dt, timeSec float32, opts RunOptions) {
	g.runIDs(ids, r, dt, timeSec, opts)
}

func (g *Graph) runIDs(ids []string, r Renderer, dt, timeSec float32, opts RunOptions) {
	frameStart := time.Now()
	ctx := RunContext{DT: dt, TimeSec: timeSec}

	for _, id := range ids {
		p, ok := g.passes[id]
		if !ok || !p.Enabled {
			continue
		}
		if !opts.allowsGroup(p.group()) {
			continue
		}
		if opts.FrameBudgetMs > 0 && p.Optional {
			elapsed := float64(time.Since(frameStart)) / float64(time.Millisecond)
			if elapsed > opts.FrameBudgetMs {
				continue
			}
		}
		if p.ShouldRun != nil && !p.ShouldRun(ctx) {
			continue
		}

		if p.Prepare != nil {
			p.Prepare(dt, timeSec)
		}

		start := time.Now()
		if p.Execute != nil {
			p.Execute(r, dt)
		} else {
			r.Dispatch(p, dt)
		}
		if p.AfterRun != nil {
			p.AfterRun()
		}

		if g.timingEnabled {
			ms := float64(time.Since(start)) / float64(time.Millisecond)
			g.timings[id] = ms
			g.totalMs += ms
		}
	}
}

// Timings returns a copy of the last-run wall-clock times in ms, keyed by
// pass id. Intended for the performance overlay.
func (g *Graph) Timings() map[string]float64 {
	out := make(map[string]float64, len(g.timings))
	for id, ms := range g.timings {
		out[id] = ms
	}
	return out
}

// TotalMs returns the summed pass time of the last run.
func (g *Graph) TotalMs() float64 {
	return g.totalMs
}

// Order returns a copy of the cached execution order.
func (g *Graph) Order() []string {
	return append([]string(nil), g.order...)
}

// PassIDs returns all registered pass ids in registration order.
func (g *Graph) PassIDs() []string {
	return append([]string(nil), g.insertion...)
}

// EnabledPassIDs returns the ids of enabled passes in registration order.
func (g *Graph) EnabledPassIDs() []string {
	var out []string
	for _, id := range g.insertion {
		if g.passes[id].Enabled {
			out = append(out, id)
		}
	}
	return out
}

// Get returns a registered pass by id.
func (g *Graph) Get(id string) (*Pass, bool) {
	p, ok := g.passes[id]
	return p, ok
}
