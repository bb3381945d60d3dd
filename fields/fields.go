// Package fields owns the named GPU render textures the solver passes read
// and write. Each field is a ping-pong pair: passes sample the read texture
// while rendering into the write texture, then swap.
package fields

import (
	"fmt"
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Format is the requested texel format for a field.
type Format uint8

const (
	FormatRGBA8 Format = iota
	FormatRGBA16F
	FormatRGBA32F
)

var formatNames = map[Format]string{
	FormatRGBA8:   "rgba8",
	FormatRGBA16F: "rgba16f",
	FormatRGBA32F: "rgba32f",
}

func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("format(%d)", uint8(f))
}

// Field is one named ping-pong texture pair.
type Field struct {
	name     string
	ping     rl.RenderTexture2D
	pong     rl.RenderTexture2D
	swapped  bool
	width    int32
	height   int32
	singular bool // single-buffer field, Swap is a no-op
}

// Name returns the field's registry name.
func (f *Field) Name() string { return f.name }

// Read returns the texture passes sample from this frame.
func (f *Field) Read() rl.RenderTexture2D {
	if f.swapped {
		return f.pong
	}
	return f.ping
}

// Write returns the texture passes render into this frame.
func (f *Field) Write() rl.RenderTexture2D {
	if f.singular {
		return f.ping
	}
	if f.swapped {
		return f.ping
	}
	return f.pong
}

// Swap flips the read/write roles after a pass has written.
func (f *Field) Swap() {
	if f.singular {
		return
	}
	f.swapped = !f.swapped
}

// Size returns the field's texture dimensions.
func (f *Field) Size() (int32, int32) { return f.width, f.height }

// Clear fills both buffers with a color.
func (f *Field) Clear(c rl.Color) {
	rl.BeginTextureMode(f.ping)
	rl.ClearBackground(c)
	rl.EndTextureMode()
	if !f.singular {
		rl.BeginTextureMode(f.pong)
		rl.ClearBackground(c)
		rl.EndTextureMode()
	}
}

func (f *Field) unload() {
	rl.UnloadRenderTexture(f.ping)
	if !f.singular {
		rl.UnloadRenderTexture(f.pong)
	}
}

// Spec describes a field to create.
type Spec struct {
	Name   string
	Format Format
	// Single allocates one buffer instead of a ping-pong pair, for fields
	// that are only ever fully rewritten (e.g. divergence).
	Single bool
	// Scale divides the registry resolution; 0 means full resolution.
	Scale int32
}

// Registry holds every named field at a shared base resolution.
type Registry struct {
	width  int32
	height int32
	fields map[string]*Field
	order  []string
}

// NewRegistry creates an empty registry at the given base resolution.
func NewRegistry(width, height int32) *Registry {
	return &Registry{
		width:  width,
		height: height,
		fields: make(map[string]*Field),
	}
}

// Create allocates a field. Render textures are 8-bit RGBA; a float format
// request falls back with a warning and the shaders encode signed values
// into the byte range instead.
func (r *Registry) Create(spec Spec) (*Field, error) {
	if spec.Name == "" {
		return nil, fmt.Errorf("fields: empty field name")
	}
	if _, ok := r.fields[spec.Name]; ok {
		return nil, fmt.Errorf("fields: %q already exists", spec.Name)
	}

	if spec.Format != FormatRGBA8 {
		slog.Warn("field format unsupported, falling back",
			"field", spec.Name,
			"requested", spec.Format.String(),
			"using", FormatRGBA8.String())
	}

	w, h := r.width, r.height
	if spec.Scale > 1 {
		w /= spec.Scale
		h /= spec.Scale
	}

	f := &Field{
		name:     spec.Name,
		width:    w,
		height:   h,
		singular: spec.Single,
		ping:     rl.LoadRenderTexture(w, h),
	}
	if !spec.Single {
		f.pong = rl.LoadRenderTexture(w, h)
	}
	f.Clear(rl.Blank)

	r.fields[spec.Name] = f
	r.order = append(r.order, spec.Name)
	return f, nil
}

// CreateAll allocates a list of fields, failing on the first error.
func (r *Registry) CreateAll(specs ...Spec) error {
	for _, spec := range specs {
		if _, err := r.Create(spec); err != nil {
			return err
		}
	}
	return nil
}

// Get looks up a field by name. An unknown name is a configuration error.
func (r *Registry) Get(name string) (*Field, error) {
	f, ok := r.fields[name]
	if !ok {
		return nil, fmt.Errorf("fields: no field named %q", name)
	}
	return f, nil
}

// MustGet is for wiring code that has already validated its field names.
func (r *Registry) MustGet(name string) *Field {
	f, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return f
}

// Names returns field names in creation order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// ClearAll resets every field to transparent black.
func (r *Registry) ClearAll() {
	for _, name := range r.order {
		r.fields[name].Clear(rl.Blank)
	}
}

// Unload releases all GPU textures.
func (r *Registry) Unload() {
	for _, name := range r.order {
		r.fields[name].unload()
	}
	r.fields = make(map[string]*Field)
	r.order = nil
}
