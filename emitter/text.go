package emitter

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// alphaThreshold is the coverage above which a rasterized pixel counts as
// part of a glyph.
const alphaThreshold = 128

// rasterPadding keeps glyph edges away from the bitmap border so the
// outline walk never needs bounds special cases beyond the image rect.
const rasterPadding = 4

// TextShape emits from the rasterized pixels of a string: either every
// covered pixel (fill) or only edge pixels (outline).
type TextShape struct {
	Text string `yaml:"text"`
	// FontFamily optionally names a TTF/OTF file. Empty uses the bundled
	// default face.
	FontFamily string  `yaml:"font_family"`
	FontSize   float32 `yaml:"font_size"`
	Outline    bool    `yaml:"outline"`
	Samples    int     `yaml:"samples"`

	// Rasterization cache. Rebuilt whenever the fields above change.
	cacheKey string
	cached   []SamplePoint
}

func (s *TextShape) Type() ShapeType { return ShapeText }

// AppendSamples rasterizes the text (cached across bursts), extracts fill or
// outline pixels, and subsamples them by constant stride down to Samples
// points. Rasterization failures yield an empty burst.
func (s *TextShape) AppendSamples(dst []SamplePoint, _ float32) []SamplePoint {
	key := fmt.Sprintf("%s|%s|%g|%t", s.Text, s.FontFamily, s.FontSize, s.Outline)
	if key != s.cacheKey {
		s.cached = s.rasterize()
		s.cacheKey = key
	}
	samples := s.Samples
	if samples < 1 {
		samples = 1
	}
	return appendStrided(dst, s.cached, samples)
}

func (s *TextShape) Clone() Shape {
	c := *s
	c.cached = append([]SamplePoint(nil), s.cached...)
	return &c
}

// rasterize draws the string into an offscreen alpha bitmap sized to its
// measured metrics and walks the covered pixels. Points are mapped into
// local space centered on the text, scaled so the text height is one local
// unit. The default direction points outward from the text center.
func (s *TextShape) rasterize() []SamplePoint {
	if s.Text == "" {
		return nil
	}
	size := s.FontSize
	if size <= 0 {
		size = 64
	}

	face, err := loadFace(s.FontFamily, size)
	if err != nil {
		slog.Warn("text emitter: face unavailable", "family", s.FontFamily, "error", err)
		return nil
	}
	defer face.Close()

	drawer := font.Drawer{Face: face}
	advance := drawer.MeasureString(s.Text)
	metrics := face.Metrics()

	width := advance.Ceil() + 2*rasterPadding
	height := (metrics.Ascent + metrics.Descent).Ceil() + 2*rasterPadding
	if width <= 2*rasterPadding || height <= 2*rasterPadding {
		return nil
	}

	img := image.NewAlpha(image.Rect(0, 0, width, height))
	drawer.Dst = img
	drawer.Src = image.NewUniform(color.Alpha{A: 0xff})
	drawer.Dot = fixed.Point26_6{
		X: fixed.I(rasterPadding),
		Y: fixed.I(rasterPadding) + metrics.Ascent,
	}
	drawer.DrawString(s.Text)

	opaque := func(x, y int) bool {
		if x < 0 || y < 0 || x >= width || y >= height {
			return false
		}
		return img.AlphaAt(x, y).A >= alphaThreshold
	}

	scale := 1 / float32(height)
	halfW := float32(width) / 2
	halfH := float32(height) / 2

	var pts []SamplePoint
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !opaque(x, y) {
				continue
			}
			if s.Outline {
				edge := !opaque(x-1, y) || !opaque(x+1, y) ||
					!opaque(x, y-1) || !opaque(x, y+1)
				if !edge {
					continue
				}
			}
			sp := SamplePoint{}
			sp.Pos.X = (float32(x) - halfW) * scale
			sp.Pos.Y = (float32(y) - halfH) * scale
			sp.Dir = sp.Pos.Normalized()
			pts = append(pts, sp)
		}
	}
	return pts
}

// fontCache holds parsed fonts keyed by family path. The empty key is the
// bundled default face.
var fontCache = struct {
	mu    sync.RWMutex
	fonts map[string]*sfnt.Font
}{fonts: make(map[string]*sfnt.Font)}

func loadFace(family string, size float32) (font.Face, error) {
	f, err := loadFont(family)
	if err != nil {
		return nil, err
	}
	return opentype.NewFace(f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

func loadFont(family string) (*sfnt.Font, error) {
	fontCache.mu.RLock()
	f, ok := fontCache.fonts[family]
	fontCache.mu.RUnlock()
	if ok {
		return f, nil
	}

	fontCache.mu.Lock()
	defer fontCache.mu.Unlock()
	if f, ok := fontCache.fonts[family]; ok {
		return f, nil
	}

	data := goregular.TTF
	if family != "" {
		fileData, err := os.ReadFile(family)
		if err != nil {
			slog.Warn("text emitter: falling back to default font", "family", family, "error", err)
		} else {
			data = fileData
		}
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font %q: %w", family, err)
	}
	fontCache.fonts[family] = f
	return f, nil
}
