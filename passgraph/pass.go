// Package passgraph schedules named GPU compute passes in dependency order.
//
// Passes declare ordering with an After list of pass ids. The graph caches a
// topological order that is rebuilt on structural changes (register,
// unregister, replace, clear) but not when a pass is merely enabled or
// disabled. Execution filters by enabled flag, group, and an optional frame
// budget that sheds optional passes.
package passgraph

// Renderer is the dispatch boundary to the GPU layer. The graph never touches
// GPU resources itself; it only decides when Dispatch is called.
type Renderer interface {
	// Dispatch runs the pass's compute program against its declared fields.
	Dispatch(p *Pass, dt float32)
}

// RunContext is handed to a pass's ShouldRun gate.
type RunContext struct {
	DT      float32
	TimeSec float32
}

// defaultGroup is the group a pass belongs to when none is set.
const defaultGroup = "sim"

// Pass is one named unit of GPU work.
type Pass struct {
	ID      string
	Label   string
	Enabled bool

	// Group buckets passes for filtered runs. Empty means "sim".
	Group string

	// Optional passes are shed first when a frame budget is exceeded.
	Optional bool

	// Inputs and Outputs name the fields the pass reads and writes. They are
	// informational, surfaced in the UI; the graph orders only by After.
	Inputs  []string
	Outputs []string

	// Compute is the opaque program handle the renderer dispatches when
	// Execute is nil.
	Compute any

	// After lists pass ids that must execute before this one.
	After []string

	// Prepare runs before dispatch, typically to upload uniforms.
	Prepare func(dt, timeSec float32)

	// Execute overrides the default renderer dispatch entirely.
	Execute func(r Renderer, dt float32)

	// AfterRun runs after dispatch, typically to swap ping-pong targets.
	AfterRun func()

	// ShouldRun gates the pass per frame; nil means always.
	ShouldRun func(ctx RunContext) bool
}

// group returns the pass's group, defaulting when unset.
func (p *Pass) group() string {
	if p.Group == "" {
		return defaultGroup
	}
	return p.Group
}
