package passgraph

import (
	"slices"
	"testing"
	"time"
)

// recordRenderer logs dispatch order for assertions.
type recordRenderer struct {
	dispatched []string
}

func (r *recordRenderer) Dispatch(p *Pass, dt float32) {
	r.dispatched = append(r.dispatched, p.ID)
}

func pass(id string, after ...string) *Pass {
	return &Pass{ID: id, Enabled: true, After: after}
}

// TestTopologicalOrder verifies dependencies run first regardless of
// registration order.
func TestTopologicalOrder(t *testing.T) {
	g := NewGraph()
	g.RegisterAll(
		pass("C", "B"),
		pass("A"),
		pass("B", "A"),
	)

	want := []string{"A", "B", "C"}
	if got := g.Order(); !slices.Equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}

	r := &recordRenderer{}
	g.Run(r, 0.016, 0, RunOptions{})
	if !slices.Equal(r.dispatched, want) {
		t.Errorf("dispatch order = %v, want %v", r.dispatched, want)
	}
}

// TestCycleTolerance verifies a dependency cycle yields a best-effort order
// containing every pass exactly once instead of failing.
func TestCycleTolerance(t *testing.T) {
	g := NewGraph()
	g.RegisterAll(
		pass("A", "B"),
		pass("B", "A"),
	)

	order := g.Order()
	if len(order) != 2 {
		t.Fatalf("order = %v, want both passes exactly once", order)
	}
	if !slices.Contains(order, "A") || !slices.Contains(order, "B") {
		t.Errorf("order = %v, missing a pass", order)
	}
}

// TestDisabledSkipped verifies disabling a pass skips it without reordering.
func TestDisabledSkipped(t *testing.T) {
	g := NewGraph()
	g.RegisterAll(pass("A"), pass("B", "A"))

	before := g.Order()
	g.SetEnabled("B", false)
	if got := g.Order(); !slices.Equal(got, before) {
		t.Errorf("order changed on enable toggle: %v -> %v", before, got)
	}

	r := &recordRenderer{}
	g.Run(r, 0.016, 0, RunOptions{})
	if !slices.Equal(r.dispatched, []string{"A"}) {
		t.Errorf("dispatched = %v, want [A]", r.dispatched)
	}
}

// TestMissingDependencyIgnored verifies a dependency on an unregistered id is
// treated as satisfied.
func TestMissingDependencyIgnored(t *testing.T) {
	g := NewGraph()
	g.Register(pass("A", "ghost"))

	r := &recordRenderer{}
	g.Run(r, 0.016, 0, RunOptions{})
	if !slices.Equal(r.dispatched, []string{"A"}) {
		t.Errorf("dispatched = %v, want [A]", r.dispatched)
	}
}

// TestGroupFilter verifies the groups option restricts execution, with
// unset groups defaulting to "sim".
func TestGroupFilter(t *testing.T) {
	g := NewGraph()
	vis := pass("glow")
	vis.Group = "visual"
	g.RegisterAll(pass("advect"), vis)

	r := &recordRenderer{}
	g.Run(r, 0.016, 0, RunOptions{Groups: []string{"sim"}})
	if !slices.Equal(r.dispatched, []string{"advect"}) {
		t.Errorf("dispatched = %v, want [advect]", r.dispatched)
	}

	r = &recordRenderer{}
	g.Run(r, 0.016, 0, RunOptions{Groups: []string{"visual"}})
	if !slices.Equal(r.dispatched, []string{"glow"}) {
		t.Errorf("dispatched = %v, want [glow]", r.dispatched)
	}
}

// TestFrameBudgetShedsOptional verifies an exceeded budget skips optional
// passes while required passes still run.
func TestFrameBudgetShedsOptional(t *testing.T) {
	g := NewGraph()
	slow := pass("slow")
	slow.Execute = func(r Renderer, dt float32) { time.Sleep(5 * time.Millisecond) }
	optional := pass("optional")
	optional.Optional = true
	required := pass("required")
	g.RegisterAll(slow, optional, required)

	r := &recordRenderer{}
	g.Run(r, 0.016, 0, RunOptions{FrameBudgetMs: 1})
	if slices.Contains(r.dispatched, "optional") {
		t.Errorf("optional pass ran past budget: %v", r.dispatched)
	}
	if !slices.Contains(r.dispatched, "required") {
		t.Errorf("required pass was shed: %v", r.dispatched)
	}
}

// TestShouldRunGate verifies the per-frame gate.
func TestShouldRunGate(t *testing.T) {
	g := NewGraph()
	gated := pass("gated")
	gated.ShouldRun = func(ctx RunContext) bool { return ctx.TimeSec >= 1 }
	g.Register(gated)

	r := &recordRenderer{}
	g.Run(r, 0.016, 0.5, RunOptions{})
	if len(r.dispatched) != 0 {
		t.Errorf("gated pass ran at t=0.5: %v", r.dispatched)
	}
	g.Run(r, 0.016, 1.5, RunOptions{})
	if !slices.Equal(r.dispatched, []string{"gated"}) {
		t.Errorf("gated pass did not run at t=1.5: %v", r.dispatched)
	}
}

// TestHookSequence verifies prepare, execute, and afterRun fire in order and
// that Execute suppresses the default dispatch.
func TestHookSequence(t *testing.T) {
	g := NewGraph()
	var events []string
	p := pass("hooked")
	p.Prepare = func(dt, timeSec float32) { events = append(events, "prepare") }
	p.Execute = func(r Renderer, dt float32) { events = append(events, "execute") }
	p.AfterRun = func() { events = append(events, "after") }
	g.Register(p)

	r := &recordRenderer{}
	g.Run(r, 0.016, 0, RunOptions{})

	want := []string{"prepare", "execute", "after"}
	if !slices.Equal(events, want) {
		t.Errorf("hook sequence = %v, want %v", events, want)
	}
	if len(r.dispatched) != 0 {
		t.Errorf("default dispatch ran despite Execute override: %v", r.dispatched)
	}
}

// TestRunSubset verifies explicit id lists run as given, including repeats.
func TestRunSubset(t *testing.T) {
	g := NewGraph()
	g.RegisterAll(pass("divergence"), pass("jacobi"), pass("subtract"))

	r := &recordRenderer{}
	g.RunSubset([]string{"jacobi", "jacobi", "jacobi"}, r, 0.016, 0, RunOptions{})
	if !slices.Equal(r.dispatched, []string{"jacobi", "jacobi", "jacobi"}) {
		t.Errorf("subset dispatch = %v", r.dispatched)
	}
}

// TestUnregisterAndReplace verifies structural changes rebuild the order.
func TestUnregisterAndReplace(t *testing.T) {
	g := NewGraph()
	g.RegisterAll(pass("A"), pass("B", "A"), pass("C", "B"))

	g.Unregister("B")
	want := []string{"A", "C"}
	if got := g.Order(); !slices.Equal(got, want) {
		t.Errorf("order after unregister = %v, want %v", got, want)
	}

	// C's dependency on the removed B is now treated as satisfied.
	r := &recordRenderer{}
	g.Run(r, 0.016, 0, RunOptions{})
	if !slices.Equal(r.dispatched, want) {
		t.Errorf("dispatched = %v, want %v", r.dispatched, want)
	}

	g.Replace(pass("C", "A"))
	if got := g.Order(); !slices.Equal(got, []string{"A", "C"}) {
		t.Errorf("order after replace = %v", got)
	}
}

// TestDuplicateRegisterReplaces verifies re-registering an id replaces the
// pass while keeping its order position.
func TestDuplicateRegisterReplaces(t *testing.T) {
	g := NewGraph()
	g.RegisterAll(pass("A"), pass("B"))

	replacement := pass("A")
	replacement.Label = "replaced"
	g.Register(replacement)

	if got := g.PassIDs(); !slices.Equal(got, []string{"A", "B"}) {
		t.Errorf("pass ids = %v, want [A B]", got)
	}
	if p, _ := g.Get("A"); p.Label != "replaced" {
		t.Errorf("pass A label = %q, want replaced", p.Label)
	}
}

// TestEnabledPassIDs verifies introspection reflects enable toggles.
func TestEnabledPassIDs(t *testing.T) {
	g := NewGraph()
	g.RegisterAll(pass("A"), pass("B"), pass("C"))
	g.SetEnabled("B", false)

	if got := g.EnabledPassIDs(); !slices.Equal(got, []string{"A", "C"}) {
		t.Errorf("enabled ids = %v, want [A C]", got)
	}
}

// TestGroupToggle verifies SetGroupEnabled flips every member of a group.
func TestGroupToggle(t *testing.T) {
	g := NewGraph()
	a, b := pass("A"), pass("B")
	vis := pass("V")
	vis.Group = "visual"
	g.RegisterAll(a, b, vis)

	g.SetGroupEnabled("sim", false)
	if got := g.EnabledPassIDs(); !slices.Equal(got, []string{"V"}) {
		t.Errorf("enabled ids = %v, want [V]", got)
	}
}

// TestTimings verifies per-pass timing collection populates introspection.
func TestTimings(t *testing.T) {
	g := NewGraph()
	g.RegisterAll(pass("A"), pass("B"))

	r := &recordRenderer{}
	g.Run(r, 0.016, 0, RunOptions{})

	timings := g.Timings()
	if len(timings) != 2 {
		t.Fatalf("timing entries = %d, want 2", len(timings))
	}
	for id, ms := range timings {
		if ms < 0 {
			t.Errorf("pass %s timing = %v, want >= 0", id, ms)
		}
	}
	if g.TotalMs() < 0 {
		t.Errorf("total ms = %v, want >= 0", g.TotalMs())
	}
}
