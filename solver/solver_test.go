package solver

import (
	"slices"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/artinkavousi/fluidcanvas/config"
	"github.com/artinkavousi/fluidcanvas/fields"
	"github.com/artinkavousi/fluidcanvas/passgraph"
)

// testSolver wires passes without touching the GPU: shaders stay zero-valued
// and fields are empty shells, which is enough to assert graph structure.
func testSolver(t *testing.T) (*Solver, *passgraph.Graph) {
	t.Helper()
	config.MustInit("")

	g := passgraph.NewGraph()
	s := &Solver{
		graph:       g,
		shaders:     make(map[string]rl.Shader),
		locs:        make(map[string]map[string]int32),
		velocity:    &fields.Field{},
		dye:         &fields.Field{},
		pressure:    &fields.Field{},
		divergence:  &fields.Field{},
		temperature: &fields.Field{},
	}
	s.registerPasses()
	return s, g
}

// TestPassChainOrder verifies the registered chain respects its dependencies.
func TestPassChainOrder(t *testing.T) {
	_, g := testSolver(t)

	order := g.Order()
	idx := func(id string) int {
		i := slices.Index(order, id)
		if i < 0 {
			t.Fatalf("pass %s missing from order %v", id, order)
		}
		return i
	}

	chain := []string{
		"splat",
		"advect_velocity",
		"buoyancy",
		"vorticity",
		"divergence",
		"pressure",
		"gradient",
	}
	for i := 1; i < len(chain); i++ {
		if idx(chain[i-1]) >= idx(chain[i]) {
			t.Errorf("pass %s ordered before its dependency %s: %v", chain[i], chain[i-1], order)
		}
	}
	if idx("gradient") >= idx("advect_dye") {
		t.Errorf("dye advection before projection: %v", order)
	}
	if idx("gradient") >= idx("advect_temperature") {
		t.Errorf("temperature advection before projection: %v", order)
	}
}

// TestJacobiExcludedFromMainGroups verifies the Jacobi pass sits in the
// pressure group so the main frame run never dispatches it directly.
func TestJacobiExcludedFromMainGroups(t *testing.T) {
	s, g := testSolver(t)

	p, ok := g.Get("jacobi")
	if !ok {
		t.Fatal("jacobi pass not registered")
	}
	if slices.Contains(mainGroups, p.Group) {
		t.Errorf("jacobi group %q is in the main groups %v", p.Group, mainGroups)
	}
	if len(s.jacobiIDs) != config.Cfg().Solver.PressureIterations {
		t.Errorf("jacobi iterations = %d, want %d", len(s.jacobiIDs), config.Cfg().Solver.PressureIterations)
	}
}

// TestAllPassesEnabled verifies the chain registers enabled by default.
func TestAllPassesEnabled(t *testing.T) {
	_, g := testSolver(t)
	if got, want := len(g.EnabledPassIDs()), len(g.PassIDs()); got != want {
		t.Errorf("enabled passes = %d, want %d", got, want)
	}
}
