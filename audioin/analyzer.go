// Package audioin turns a WAV file into per-band levels the emitters can
// react to. Analysis happens once at load; the frame loop only advances a
// smoothed cursor through the precomputed frames.
package audioin

import (
	"fmt"
	"math"
	"os"

	"github.com/gopxl/beep/wav"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/artinkavousi/fluidcanvas/config"
)

// Analyzer holds the precomputed band levels for one audio file.
type Analyzer struct {
	bands    int
	frames   [][]float32 // per hop, raw band levels in [0,1]
	hopSec   float64
	duration float64

	attack float64
	decay  float64

	current []float32
}

// Load decodes a WAV file and computes windowed FFT band levels over it.
func Load(path string) (*Analyzer, error) {
	cfg := config.Cfg().Audio

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening audio file: %w", err)
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding wav: %w", err)
	}
	defer streamer.Close()

	mono := readMono(streamer)
	if len(mono) == 0 {
		return nil, fmt.Errorf("audio file %s has no samples", path)
	}

	a := &Analyzer{
		bands:   cfg.Bands,
		attack:  cfg.Attack,
		decay:   cfg.Decay,
		current: make([]float32, cfg.Bands),
	}

	fftSize := cfg.FFTSize
	hop := fftSize / 2
	a.hopSec = float64(hop) / float64(format.SampleRate)
	a.duration = float64(len(mono)) / float64(format.SampleRate)

	fft := fourier.NewFFT(fftSize)
	window := hannWindow(fftSize)
	buf := make([]float64, fftSize)
	var coeff []complex128

	for start := 0; start+fftSize <= len(mono); start += hop {
		for i := 0; i < fftSize; i++ {
			buf[i] = mono[start+i] * window[i]
		}
		coeff = fft.Coefficients(coeff, buf)
		a.frames = append(a.frames, bandLevels(coeff, cfg.Bands, cfg.Gain))
	}
	if len(a.frames) == 0 {
		return nil, fmt.Errorf("audio file %s shorter than one fft window", path)
	}
	return a, nil
}

// readMono drains the streamer into a mono sample slice.
func readMono(streamer interface {
	Stream(samples [][2]float64) (int, bool)
}) []float64 {
	var mono []float64
	buf := make([][2]float64, 4096)
	for {
		n, ok := streamer.Stream(buf)
		for i := 0; i < n; i++ {
			mono = append(mono, (buf[i][0]+buf[i][1])*0.5)
		}
		if !ok {
			return mono
		}
	}
}

func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}

// bandLevels groups FFT bins into logarithmically spaced bands and maps each
// to a compressed level in [0,1].
func bandLevels(coeff []complex128, bands int, gain float64) []float32 {
	// Only the first half carries unique spectrum.
	bins := len(coeff) / 2
	levels := make([]float32, bands)

	for b := 0; b < bands; b++ {
		lo := logBinEdge(b, bands, bins)
		hi := logBinEdge(b+1, bands, bins)
		if hi <= lo {
			hi = lo + 1
		}

		var sum float64
		for i := lo; i < hi && i < bins; i++ {
			sum += cmplxAbs(coeff[i])
		}
		avg := sum / float64(hi-lo) / float64(bins)

		// Log compression keeps quiet detail visible without letting peaks
		// blow past 1.
		level := math.Log1p(avg*gain*100) / math.Log1p(100)
		levels[b] = float32(clamp01(level))
	}
	return levels
}

// logBinEdge maps band boundaries onto bins with geometric spacing, skipping
// the DC bin.
func logBinEdge(band, bands, bins int) int {
	frac := float64(band) / float64(bands)
	edge := math.Pow(float64(bins), frac)
	idx := int(edge)
	if idx < 1 {
		idx = 1
	}
	return idx
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Update advances the smoothed levels toward the frame at the playback time.
// Rising values follow the attack rate, falling values the decay rate.
func (a *Analyzer) Update(timeSec, dt float64) {
	target := a.frameAt(timeSec)
	for i := range a.current {
		cur := float64(a.current[i])
		want := float64(target[i])
		rate := a.decay
		if want > cur {
			rate = a.attack
		}
		alpha := 1 - math.Exp(-rate*dt)
		a.current[i] = float32(cur + (want-cur)*alpha)
	}
}

// Current returns the smoothed band levels. The slice is reused across
// frames; callers must not retain it.
func (a *Analyzer) Current() []float32 {
	return a.current
}

// Duration returns the decoded audio length in seconds.
func (a *Analyzer) Duration() float64 {
	return a.duration
}

// Bands returns the number of analysis bands.
func (a *Analyzer) Bands() int {
	return a.bands
}

// frameAt returns the raw band frame for a playback time, looping over the
// analyzed length.
func (a *Analyzer) frameAt(timeSec float64) []float32 {
	if timeSec < 0 {
		timeSec = 0
	}
	idx := int(timeSec / a.hopSec)
	idx %= len(a.frames)
	return a.frames[idx]
}
