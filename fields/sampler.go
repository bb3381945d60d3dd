package fields

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// velocityBias maps the signed [-0.5, 0.5] range the shaders encode into the
// [0, 255] byte range of the RGBA8 textures.
const velocityBias = 0.5

// Sampler caches a CPU copy of a field texture for fast point sampling.
// Velocity is decoded from the R and G channels. The readback is the slow
// part; call it at a lower cadence than Sample.
type Sampler struct {
	data   []float32 // interleaved x,y
	width  int
	height int
}

// NewSampler returns an empty sampler; Readback sizes it on first use.
func NewSampler() *Sampler {
	return &Sampler{}
}

// Readback copies the field's current read texture to CPU memory.
func (s *Sampler) Readback(f *Field) {
	img := rl.LoadImageFromTexture(f.Read().Texture)
	defer rl.UnloadImage(img)

	colors := rl.LoadImageColors(img)
	defer rl.UnloadImageColors(colors)

	w, h := int(f.width), int(f.height)
	if len(s.data) != w*h*2 {
		s.data = make([]float32, w*h*2)
		s.width = w
		s.height = h
	}

	for i := 0; i < w*h; i++ {
		c := colors[i]
		s.data[i*2] = float32(c.R)/255.0 - velocityBias
		s.data[i*2+1] = float32(c.G)/255.0 - velocityBias
	}
}

// Sample returns the decoded vector at normalized coordinates in [0,1].
// Coordinates outside the range are clamped.
func (s *Sampler) Sample(u, v float32) (float32, float32) {
	if s.width == 0 || s.height == 0 {
		return 0, 0
	}
	x := clampIndex(int(u*float32(s.width)), s.width)
	y := clampIndex(int(v*float32(s.height)), s.height)
	idx := (y*s.width + x) * 2
	return s.data[idx], s.data[idx+1]
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}
