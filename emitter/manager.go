package emitter

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strconv"
	"strings"
	"time"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/artinkavousi/fluidcanvas/geom"
)

// maxBurstsPerTick is the hard safety cap on bursts from a single emitter in
// one tick, so one extreme rate value cannot freeze the frame.
const maxBurstsPerTick = 256

// duplicateOffset nudges a duplicated emitter so it does not sit exactly on
// top of the original.
const duplicateOffset = 0.02

// idPrefix is the manager-assigned id format: idPrefix + counter.
const idPrefix = "emitter-"

// record is one live emitter together with the state the manager integrates
// for it: the derived transform and the fractional emission accumulator.
// Keeping them in a single record avoids multi-map consistency bugs during
// removal.
type record struct {
	emitter   *Emitter
	transform *geom.Transform2D
	accum     float32
}

type listener struct {
	id int
	fn func()
}

// Manager owns the set of live emitters and produces the per-tick splat
// stream. It is single-threaded by contract: all methods run on the frame
// loop, and GenerateSplats is invoked at most once per logical frame.
type Manager struct {
	records map[string]*record
	order   []string // creation order, for deterministic iteration
	nextID  uint64

	primary  string
	selected map[string]struct{}

	changeListeners    []listener
	selectionListeners []listener
	nextListenerID     int

	rng   *rand.Rand
	noise opensimplex.Noise

	flipDY bool

	scratch []SamplePoint
}

// NewManager creates an empty manager. A non-positive seed uses the clock.
func NewManager(seed int64) *Manager {
	if seed <= 0 {
		seed = time.Now().UnixNano()
	}
	return &Manager{
		records:  make(map[string]*record),
		selected: make(map[string]struct{}),
		rng:      rand.New(rand.NewSource(seed)),
		noise:    opensimplex.New(seed),
	}
}

// SetFlipDY sets whether generated splats carry the flip-y-velocity flag for
// consumers whose field space is y-up.
func (m *Manager) SetFlipDY(flip bool) { m.flipDY = flip }

// Count returns the number of live emitters.
func (m *Manager) Count() int { return len(m.records) }

// AddEmitter registers an emitter and returns its id. An empty ID gets the
// next manager-assigned id; a non-empty ID is treated as a restore of a
// previously assigned id and advances the internal counter past it so future
// ids cannot collide.
func (m *Manager) AddEmitter(e *Emitter) string {
	e.applyDefaults()

	if e.ID == "" {
		e.ID = idPrefix + strconv.FormatUint(m.nextID, 10)
		m.nextID++
	} else {
		m.advancePastID(e.ID)
	}

	if existing, ok := m.records[e.ID]; ok {
		slog.Warn("emitter id already registered, replacing", "id", e.ID)
		existing.emitter = e
		existing.accum = 0
		m.syncTransform(existing)
		m.notifyChange()
		return e.ID
	}

	rec := &record{emitter: e, transform: geom.NewTransform2D()}
	m.syncTransform(rec)
	m.records[e.ID] = rec
	m.order = append(m.order, e.ID)
	m.notifyChange()
	return e.ID
}

// advancePastID bumps the id counter past a restored manager-format id.
func (m *Manager) advancePastID(id string) {
	suffix, ok := strings.CutPrefix(id, idPrefix)
	if !ok {
		return
	}
	n, err := strconv.ParseUint(suffix, 10, 64)
	if err != nil {
		return
	}
	if n >= m.nextID {
		m.nextID = n + 1
	}
}

// RemoveEmitter removes an emitter and every piece of state keyed by it,
// including its selection membership. If it was the selection primary, the
// primary is reassigned to another selected emitter, or cleared.
func (m *Manager) RemoveEmitter(id string) bool {
	if _, ok := m.records[id]; !ok {
		return false
	}
	delete(m.records, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}

	selectionChanged := false
	if _, ok := m.selected[id]; ok {
		delete(m.selected, id)
		selectionChanged = true
	}
	if m.primary == id {
		m.primary = m.firstSelected()
		selectionChanged = true
	}

	m.notifyChange()
	if selectionChanged {
		m.notifySelectionChange()
	}
	return true
}

// firstSelected returns a deterministic member of the selection set (first
// in creation order), or "".
func (m *Manager) firstSelected() string {
	for _, id := range m.order {
		if _, ok := m.selected[id]; ok {
			return id
		}
	}
	return ""
}

// UpdateEmitter applies a mutation to the emitter and refreshes derived
// state. The id is manager-owned and survives any mutation attempt.
func (m *Manager) UpdateEmitter(id string, mutate func(*Emitter)) bool {
	rec, ok := m.records[id]
	if !ok {
		return false
	}
	mutate(rec.emitter)
	rec.emitter.ID = id
	rec.emitter.applyDefaults()
	m.syncTransform(rec)
	m.notifyChange()
	return true
}

// GetEmitter returns the emitter with the given id.
func (m *Manager) GetEmitter(id string) (*Emitter, bool) {
	rec, ok := m.records[id]
	if !ok {
		return nil, false
	}
	return rec.emitter, true
}

// AllEmitters returns every emitter in creation order.
func (m *Manager) AllEmitters() []*Emitter {
	out := make([]*Emitter, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.records[id].emitter)
	}
	return out
}

// ActiveEmitters returns the emitters that currently generate splats.
func (m *Manager) ActiveEmitters() []*Emitter {
	var out []*Emitter
	for _, id := range m.order {
		if e := m.records[id].emitter; e.Active {
			out = append(out, e)
		}
	}
	return out
}

// SetEmitterPosition moves an emitter.
func (m *Manager) SetEmitterPosition(id string, p geom.Vec2) bool {
	rec, ok := m.records[id]
	if !ok {
		return false
	}
	rec.emitter.Position = p
	rec.transform.SetPosition(p)
	m.notifyChange()
	return true
}

// SetEmitterRotation rotates an emitter, in degrees.
func (m *Manager) SetEmitterRotation(id string, degrees float32) bool {
	rec, ok := m.records[id]
	if !ok {
		return false
	}
	rec.emitter.Rotation = degrees
	rec.transform.SetRotation(degrees)
	m.notifyChange()
	return true
}

// SetEmitterScale scales an emitter.
func (m *Manager) SetEmitterScale(id string, s geom.Vec2) bool {
	rec, ok := m.records[id]
	if !ok {
		return false
	}
	rec.emitter.Scale = s
	rec.transform.SetScale(s)
	m.notifyChange()
	return true
}

// WorldTransform returns the emitter's local-to-world transform.
func (m *Manager) WorldTransform(id string) (*geom.Transform2D, bool) {
	rec, ok := m.records[id]
	if !ok {
		return nil, false
	}
	return rec.transform, true
}

// Duplicate deep-copies an emitter under a fresh id, slightly offset.
func (m *Manager) Duplicate(id string) (string, bool) {
	rec, ok := m.records[id]
	if !ok {
		return "", false
	}
	c := rec.emitter.clone()
	c.ID = ""
	c.Name = rec.emitter.Name + " copy"
	c.Position.X += duplicateOffset
	c.Position.Y += duplicateOffset
	return m.AddEmitter(c), true
}

// Clear removes every emitter and clears the selection. The id counter is
// not reset: ids stay unique for the manager's lifetime.
func (m *Manager) Clear() {
	if len(m.records) == 0 && len(m.selected) == 0 {
		return
	}
	selectionChanged := len(m.selected) > 0 || m.primary != ""
	m.records = make(map[string]*record)
	m.order = m.order[:0]
	m.selected = make(map[string]struct{})
	m.primary = ""
	m.notifyChange()
	if selectionChanged {
		m.notifySelectionChange()
	}
}

// Select adds the emitter to the selection and makes it primary.
func (m *Manager) Select(id string) bool {
	if _, ok := m.records[id]; !ok {
		return false
	}
	m.selected[id] = struct{}{}
	m.primary = id
	m.notifySelectionChange()
	return true
}

// Deselect removes the emitter from the selection, reassigning the primary
// if needed.
func (m *Manager) Deselect(id string) {
	if _, ok := m.selected[id]; !ok {
		return
	}
	delete(m.selected, id)
	if m.primary == id {
		m.primary = m.firstSelected()
	}
	m.notifySelectionChange()
}

// ToggleSelection selects the emitter if unselected and deselects it
// otherwise.
func (m *Manager) ToggleSelection(id string) {
	if _, ok := m.selected[id]; ok {
		m.Deselect(id)
		return
	}
	m.Select(id)
}

// Selection returns the primary id ("" when nothing is selected) and the
// selected ids in creation order. The primary, when non-empty, is always a
// member of the returned set.
func (m *Manager) Selection() (primary string, ids []string) {
	for _, id := range m.order {
		if _, ok := m.selected[id]; ok {
			ids = append(ids, id)
		}
	}
	return m.primary, ids
}

// OnChange subscribes to emitter set/parameter mutations. The returned
// function unsubscribes.
func (m *Manager) OnChange(fn func()) func() {
	id := m.nextListenerID
	m.nextListenerID++
	m.changeListeners = append(m.changeListeners, listener{id: id, fn: fn})
	return func() { m.changeListeners = removeListener(m.changeListeners, id) }
}

// OnSelectionChange subscribes to selection mutations. The returned function
// unsubscribes.
func (m *Manager) OnSelectionChange(fn func()) func() {
	id := m.nextListenerID
	m.nextListenerID++
	m.selectionListeners = append(m.selectionListeners, listener{id: id, fn: fn})
	return func() { m.selectionListeners = removeListener(m.selectionListeners, id) }
}

func removeListener(ls []listener, id int) []listener {
	for i, l := range ls {
		if l.id == id {
			return append(ls[:i], ls[i+1:]...)
		}
	}
	return ls
}

func (m *Manager) notifyChange() { invokeListeners(m.changeListeners) }

func (m *Manager) notifySelectionChange() { invokeListeners(m.selectionListeners) }

// invokeListeners calls listeners synchronously in registration order. A
// panicking listener is logged and the rest still run; the underlying state
// change is never aborted.
func invokeListeners(ls []listener) {
	for _, l := range ls {
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Warn("emitter listener panicked", "error", fmt.Sprint(r))
				}
			}()
			l.fn()
		}()
	}
}

// syncTransform refreshes the derived transform from the emitter's
// declarative transform fields.
func (m *Manager) syncTransform(rec *record) {
	rec.transform.SetPosition(rec.emitter.Position)
	rec.transform.SetRotation(rec.emitter.Rotation)
	rec.transform.SetScale(rec.emitter.Scale)
}

// GenerateSplats produces this tick's splat commands from every active
// emitter. audio optionally carries the analyzer's per-band levels. The
// result is freshly allocated each tick and owned by the caller.
func (m *Manager) GenerateSplats(timeSec, dt float32, audio []float32) []Splat {
	var out []Splat
	for _, id := range m.order {
		rec := m.records[id]
		e := rec.emitter
		if !e.Active {
			continue
		}

		mult := computeAudioMultipliers(e, audio)
		bursts := accumulateBursts(rec, e.EmissionRate*mult.emission, dt)
		if bursts == 0 {
			continue
		}

		step := dt / float32(bursts)
		for i := 0; i < bursts; i++ {
			burstTime := timeSec + float32(i)*step
			m.scratch = e.Shape.AppendSamples(m.scratch[:0], burstTime)
			for _, sp := range m.scratch {
				out = append(out, m.makeSplat(rec, sp, mult, burstTime))
			}
		}
	}
	return out
}

// accumulateBursts integrates the fractional burst accumulator and returns
// the whole bursts owed this tick. Malformed runtime input (non-positive or
// non-finite rate or dt) resets the accumulator and emits nothing; a bad
// frame never halts the loop.
func accumulateBursts(rec *record, burstsPerSecond, dt float32) int {
	if !isFinitePositive(burstsPerSecond) || !isFinitePositive(dt) {
		rec.accum = 0
		return 0
	}
	next := float64(rec.accum) + float64(burstsPerSecond)*float64(dt)
	if math.IsInf(next, 0) || math.IsNaN(next) {
		rec.accum = 0
		return 0
	}
	whole := math.Floor(next)
	rec.accum = float32(next - whole)
	if whole <= 0 {
		return 0
	}
	if whole > maxBurstsPerTick {
		return maxBurstsPerTick
	}
	return int(whole)
}

func isFinitePositive(v float32) bool {
	f := float64(v)
	return v > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

// makeSplat converts one local sample point into a world-space splat.
func (m *Manager) makeSplat(rec *record, sp SamplePoint, mult audioMultipliers, burstTime float32) Splat {
	e := rec.emitter
	worldPos := rec.transform.TransformPoint(sp.Pos)
	sampleDir := rec.transform.TransformDirection(sp.Dir)

	dir := resolveDirection(e.DirectionMode, e.FixedDirection, sampleDir, m.rng)
	dir = applySpread(dir, e.Spread, m.rng)
	dir = applyTurbulence(dir, worldPos, burstTime, e.Turbulence, m.noise)

	radiusScale := sp.RadiusScale
	if radiusScale == 0 {
		radiusScale = 1
	}

	s := Splat{
		Pos:           worldPos,
		Vel:           dir.Scale(e.Force * e.ForceScale * mult.force),
		Color:         e.Color,
		Radius:        e.Radius * e.RadiusScale * radiusScale * mult.radius,
		Opacity:       e.Opacity,
		VelocityScale: 1,
		DyeScale:      1,
		RadiusScale:   1,
		ColorBoost:    1,
		Softness:      0.5,
		Falloff:       FalloffSmooth,
		BlendMode:     BlendAdd,
		Temperature:   e.Temperature,
		FlipDY:        m.flipDY,
	}
	if sp.HasColor {
		s.Color = sp.Color
	}
	if sp.HasSoftness {
		s.Softness = sp.Softness
	}
	e.SplatOverrides.apply(&s)
	return s
}
